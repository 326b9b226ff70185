package sqlinline

const QSelectUserQuota = `--sql 9a31bf5c-e044-47d9-9c1b-60d2a84f7e93
select id, plan, coalesce((properties->>'free_usage')::int, 0) as free_usage
from users
where id = $1::uuid
limit 1;
`

// QIncrementFreeUsage bumps the stored counter inside a single update so
// concurrent requests from the same user cannot lose increments.
const QIncrementFreeUsage = `--sql c7e85d20-6b1a-4f7e-b3c9-14f0a92d6b57
update users
set properties = jsonb_set(
        properties,
        '{free_usage}',
        (coalesce((properties->>'free_usage')::int, 0) + 1)::text::jsonb,
        true
    ),
    updated_at = now()
where id = $1::uuid;
`

const QSelectUserPlanByID = `--sql 2d40c1aa-9e73-4b06-8f52-7cb3e81d94f6
select id, email, plan, properties
from users
where id = $1::uuid
limit 1;
`

const QSelectUserPlanByEmail = `--sql 84f6b2e9-0d15-4c88-a7e3-52c9d03b61af
select id, email, plan, properties
from users
where lower(email) = lower($1::text)
limit 1;
`

const QUpdateUserPlan = `--sql f15a79c3-38e2-4d61-90b8-ae64d25c80f1
update users
set plan = $2::text,
    properties = $3::jsonb,
    updated_at = now()
where id = $1::uuid
returning id, email, plan, properties;
`

package sqlinline

const QInsertUsageEvent = `--sql 6b90e4d2-aa57-4f13-b8c6-0de1f72a35c8
insert into usage_events (id, user_id, creation_id, kind, success, latency_ms, created_at, properties)
values (gen_random_uuid(), $1::uuid, $2::uuid, $3::text, $4::boolean, $5::int, now(), coalesce($6::jsonb, '{}'::jsonb));
`

package sqlinline

const QInsertCreation = `--sql 7d1c04b9-52aa-4e1f-9f6d-3b8f20c4f5a2
insert into creations (id, owner_id, prompt, kind, text_content, media_url, published, likes, created_at)
values (gen_random_uuid(), $1::uuid, $2::text, $3::text, $4::text, $5::text, $6::boolean, '{}'::text[], now())
returning id, created_at;
`

const QSelectOwnCreations = `--sql 3f9a7e11-8c0d-4b52-a6a4-e2d91b7c0d44
select id, owner_id, prompt, kind, coalesce(text_content, ''), coalesce(media_url, ''), published, likes, created_at
from creations
where owner_id = $1::uuid
order by created_at desc;
`

const QSelectPublishedCreations = `--sql b4c2d8e7-1f35-4a09-bd61-90aa5c7e3f18
select id, owner_id, prompt, kind, coalesce(text_content, ''), coalesce(media_url, ''), published, likes, created_at
from creations
where published
order by created_at desc;
`

// QToggleCreationLike flips membership of one user id inside the likes array
// in a single statement. The row lock taken by the update serializes
// concurrent toggles on the same creation; the membership test in the
// returning clause sees the post-update array.
const QToggleCreationLike = `--sql 5e6f2a90-74bd-4c3e-8127-fb09d6a8c3e5
update creations
set likes = case
    when $2::text = any(likes) then array_remove(likes, $2::text)
    else array_append(likes, $2::text)
end
where id = $1::uuid
returning $2::text = any(likes) as liked, likes;
`

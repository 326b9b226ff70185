package community

import (
	"context"

	"server/internal/domain"
)

// Messages returned to clients after a like toggle.
const (
	MsgLikeAdded   = "Like added"
	MsgLikeRemoved = "Like removed"
)

// LikeResult reports the outcome of a toggle: the human-readable message and
// the creation's full like set after the change.
type LikeResult struct {
	Message string
	Likes   []string
}

// Feed exposes the community read surface and the like toggle.
type Feed struct {
	Creations domain.CreationRepository
}

func NewFeed(creations domain.CreationRepository) *Feed {
	return &Feed{Creations: creations}
}

// ListPublished returns every published creation, newest first, regardless of
// owner. Unpublished creations never appear here.
func (f *Feed) ListPublished(ctx context.Context) ([]domain.Creation, error) {
	return f.Creations.ListPublished(ctx)
}

// ListOwn returns all creations owned by the user, newest first, published or
// not.
func (f *Feed) ListOwn(ctx context.Context, userID string) ([]domain.Creation, error) {
	return f.Creations.ListByOwner(ctx, userID)
}

// ToggleLike flips the user's like on a creation: adds it when absent,
// removes it when present. Works on any creation by id, published or not.
func (f *Feed) ToggleLike(ctx context.Context, creationID, userID string) (*LikeResult, error) {
	liked, likes, err := f.Creations.ToggleLike(ctx, creationID, userID)
	if err != nil {
		return nil, err
	}
	msg := MsgLikeRemoved
	if liked {
		msg = MsgLikeAdded
	}
	return &LikeResult{Message: msg, Likes: likes}, nil
}

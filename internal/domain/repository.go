package domain

import "context"

// CreationRepository defines persistence for creation records.
type CreationRepository interface {
	Insert(ctx context.Context, creation *Creation) (*Creation, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Creation, error)
	ListPublished(ctx context.Context) ([]Creation, error)
	// ToggleLike flips userID's membership in the likes set of one creation
	// and returns whether the user is liked afterwards along with the
	// resulting set. The read-modify-write is serialized per creation id.
	ToggleLike(ctx context.Context, creationID, userID string) (liked bool, likes []string, err error)
}

// UserRepository exposes the identity-provider state the workflow needs.
type UserRepository interface {
	QuotaState(ctx context.Context, userID string) (*QuotaState, error)
	// IncrementFreeUsage adds one to the stored free usage counter as a
	// single atomic update.
	IncrementFreeUsage(ctx context.Context, userID string) error
}

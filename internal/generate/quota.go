package generate

import (
	"context"

	"server/internal/domain"
)

// FreeUsageLimit is the number of metered generations a free plan gets per
// billing cycle.
const FreeUsageLimit = 10

// Gate decides whether a user may perform another metered generation and
// records consumption afterwards. Premium plans are never checked or
// incremented.
type Gate struct {
	Users domain.UserRepository
}

// Check returns domain.ErrQuotaExceeded when a free plan has reached the
// ceiling. It performs no writes; a denied check consumes nothing.
func (g Gate) Check(state domain.QuotaState) error {
	if state.IsPremium() {
		return nil
	}
	if state.FreeUsage >= FreeUsageLimit {
		return domain.ErrQuotaExceeded
	}
	return nil
}

// Commit records one consumed generation for free plans. Called only after
// the generation and persistence steps succeed.
func (g Gate) Commit(ctx context.Context, state domain.QuotaState) error {
	if state.IsPremium() {
		return nil
	}
	return g.Users.IncrementFreeUsage(ctx, state.UserID)
}

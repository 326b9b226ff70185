package domain

import "time"

// Plan enumerates subscription tiers.
type Plan string

const (
	PlanFree    Plan = "free"
	PlanPremium Plan = "premium"
)

// User represents an authenticated account within the platform.
type User struct {
	ID        string
	Email     string
	Name      string
	Plan      Plan
	FreeUsage int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// QuotaState is the per-user slice of identity-provider state the generation
// workflow reads before a metered call and conditionally increments after it.
type QuotaState struct {
	UserID    string
	Plan      Plan
	FreeUsage int
}

// IsPremium reports whether the state belongs to a premium subscription.
func (q QuotaState) IsPremium() bool {
	return q.Plan == PlanPremium
}

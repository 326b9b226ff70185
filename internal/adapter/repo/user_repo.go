package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"server/internal/domain"
	"server/internal/infra"
	"server/internal/sqlinline"
)

// UserRepositoryPG exposes the identity-provider state stored in PostgreSQL.
type UserRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewUserRepository creates a new UserRepositoryPG.
func NewUserRepository(sql infra.SQLExecutor) *UserRepositoryPG {
	return &UserRepositoryPG{sql: sql}
}

// QuotaState loads the user's plan and free-usage counter.
func (r *UserRepositoryPG) QuotaState(ctx context.Context, userID string) (*domain.QuotaState, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QSelectUserQuota, userID)
	var state domain.QuotaState
	var plan string
	if err := row.Scan(&state.UserID, &plan, &state.FreeUsage); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("load quota state: %w", err)
	}
	state.Plan = domain.Plan(plan)
	return &state, nil
}

// IncrementFreeUsage adds one to the stored counter. The increment happens
// inside a single UPDATE so concurrent requests cannot lose increments.
func (r *UserRepositoryPG) IncrementFreeUsage(ctx context.Context, userID string) error {
	tag, err := r.sql.Exec(ctx, sqlinline.QIncrementFreeUsage, userID)
	if err != nil {
		return fmt.Errorf("increment free usage: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

var _ domain.UserRepository = (*UserRepositoryPG)(nil)

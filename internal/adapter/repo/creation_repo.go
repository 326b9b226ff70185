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

// CreationRepositoryPG implements domain.CreationRepository backed by PostgreSQL.
type CreationRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewCreationRepository creates a new CreationRepositoryPG.
func NewCreationRepository(sql infra.SQLExecutor) *CreationRepositoryPG {
	return &CreationRepositoryPG{sql: sql}
}

// Insert stores a new creation record; id and created_at are assigned by the
// database and written back onto the returned value.
func (r *CreationRepositoryPG) Insert(ctx context.Context, creation *domain.Creation) (*domain.Creation, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QInsertCreation,
		creation.OwnerID,
		creation.Prompt,
		string(creation.Kind),
		nullable(creation.TextContent),
		nullable(creation.MediaURL),
		creation.Published,
	)
	stored := *creation
	if err := row.Scan(&stored.ID, &stored.CreatedAt); err != nil {
		return nil, fmt.Errorf("insert creation: %w", err)
	}
	stored.Likes = []string{}
	return &stored, nil
}

// ListByOwner returns the owner's creations, newest first.
func (r *CreationRepositoryPG) ListByOwner(ctx context.Context, ownerID string) ([]domain.Creation, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QSelectOwnCreations, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list own creations: %w", err)
	}
	defer rows.Close()
	return scanCreations(rows)
}

// ListPublished returns every published creation, newest first.
func (r *CreationRepositoryPG) ListPublished(ctx context.Context) ([]domain.Creation, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QSelectPublishedCreations)
	if err != nil {
		return nil, fmt.Errorf("list published creations: %w", err)
	}
	defer rows.Close()
	return scanCreations(rows)
}

// ToggleLike flips the user's membership in the creation's likes array. The
// whole read-modify-write happens inside one UPDATE so concurrent toggles on
// the same creation serialize on the row lock.
func (r *CreationRepositoryPG) ToggleLike(ctx context.Context, creationID, userID string) (bool, []string, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QToggleCreationLike, creationID, userID)
	var liked bool
	var likes []string
	if err := row.Scan(&liked, &likes); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil, domain.ErrNotFound
		}
		return false, nil, fmt.Errorf("toggle like: %w", err)
	}
	if likes == nil {
		likes = []string{}
	}
	return liked, likes, nil
}

func scanCreations(rows pgx.Rows) ([]domain.Creation, error) {
	out := []domain.Creation{}
	for rows.Next() {
		var c domain.Creation
		var kind string
		if err := rows.Scan(&c.ID, &c.OwnerID, &c.Prompt, &kind, &c.TextContent, &c.MediaURL, &c.Published, &c.Likes, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan creation: %w", err)
		}
		c.Kind = domain.Kind(kind)
		if c.Likes == nil {
			c.Likes = []string{}
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate creations: %w", err)
	}
	return out, nil
}

// nullable maps empty strings onto SQL nulls.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

var _ domain.CreationRepository = (*CreationRepositoryPG)(nil)

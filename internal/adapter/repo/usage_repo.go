package repo

import (
	"context"
	"encoding/json"
	"fmt"

	"server/internal/domain"
	"server/internal/infra"
	"server/internal/sqlinline"
)

// UsageRepositoryPG appends usage events for analytics.
type UsageRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewUsageRepository creates a new UsageRepositoryPG.
func NewUsageRepository(sql infra.SQLExecutor) *UsageRepositoryPG {
	return &UsageRepositoryPG{sql: sql}
}

// Record appends one usage event.
func (r *UsageRepositoryPG) Record(ctx context.Context, ev domain.UsageEvent) error {
	props := map[string]string{}
	if ev.Locale != "" {
		props["locale"] = ev.Locale
	}
	if ev.Country != "" {
		props["country"] = ev.Country
	}
	propsJSON, err := json.Marshal(props)
	if err != nil {
		return fmt.Errorf("encode usage properties: %w", err)
	}
	var creationID any
	if ev.CreationID != "" {
		creationID = ev.CreationID
	}
	if _, err := r.sql.Exec(ctx, sqlinline.QInsertUsageEvent,
		ev.UserID, creationID, string(ev.Kind), ev.Success, ev.LatencyMS, propsJSON,
	); err != nil {
		return fmt.Errorf("insert usage event: %w", err)
	}
	return nil
}

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"server/internal/community"
	"server/internal/domain"
	"server/internal/generate"
	"server/internal/infra"
	"server/internal/middleware"
)

// Generator runs one metered generation for an authenticated user.
type Generator interface {
	Run(ctx context.Context, state domain.QuotaState, req generate.Request) (*generate.Result, error)
}

// CommunityFeed is the read-and-like surface over creations.
type CommunityFeed interface {
	ListPublished(ctx context.Context) ([]domain.Creation, error)
	ListOwn(ctx context.Context, userID string) ([]domain.Creation, error)
	ToggleLike(ctx context.Context, creationID, userID string) (*community.LikeResult, error)
}

type App struct {
	Logger   zerolog.Logger
	Config   *infra.Config
	Generate Generator
	Feed     CommunityFeed
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// ok writes the success envelope with the given extra fields.
func (a *App) ok(w http.ResponseWriter, code int, fields map[string]any) {
	payload := map[string]any{"success": true}
	for k, v := range fields {
		payload[k] = v
	}
	a.json(w, code, payload)
}

func (a *App) fail(w http.ResponseWriter, code int, message string) {
	a.json(w, code, map[string]any{"success": false, "message": message})
}

// failFromErr maps domain errors onto status codes and client messages.
func (a *App) failFromErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		a.fail(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrPlanRestricted):
		a.fail(w, http.StatusForbidden, "This feature is only available for premium subscriptions.")
	case errors.Is(err, domain.ErrQuotaExceeded):
		a.fail(w, http.StatusForbidden, "Free usage limit exceeded. Please upgrade to premium.")
	case errors.Is(err, domain.ErrOversizedInput):
		a.fail(w, http.StatusRequestEntityTooLarge, "Resume file size exceeds allowed size (5MB).")
	case errors.Is(err, domain.ErrNotFound):
		a.fail(w, http.StatusNotFound, "Creation not found")
	case errors.Is(err, domain.ErrGenerationFailed):
		a.Logger.Error().Err(err).Msg("generation failed")
		a.fail(w, http.StatusBadGateway, "Generation failed. Please try again.")
	default:
		a.Logger.Error().Err(err).Msg("request failed")
		a.fail(w, http.StatusInternalServerError, "Something went wrong.")
	}
}

// identity pulls the authenticated quota state resolved by the auth
// middleware. A miss means the route was mounted outside the auth group.
func (a *App) identity(w http.ResponseWriter, r *http.Request) (*domain.QuotaState, bool) {
	state := middleware.IdentityFromContext(r.Context())
	if state == nil {
		a.fail(w, http.StatusUnauthorized, "Authentication required.")
		return nil, false
	}
	return state, true
}

package handlers

import (
	"net/http"
)

// Me reports the caller's plan and remaining free quota.
func (a *App) Me(w http.ResponseWriter, r *http.Request) {
	state, ok := a.identity(w, r)
	if !ok {
		return
	}
	a.ok(w, http.StatusOK, map[string]any{
		"user": map[string]any{
			"id":        state.UserID,
			"plan":      string(state.Plan),
			"freeUsage": state.FreeUsage,
		},
	})
}

package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"server/internal/domain"
)

type creationDTO struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"ownerId"`
	Prompt    string    `json:"prompt"`
	Kind      string    `json:"kind"`
	Content   string    `json:"content,omitempty"`
	MediaURL  string    `json:"mediaUrl,omitempty"`
	Published bool      `json:"published"`
	Likes     []string  `json:"likes"`
	CreatedAt time.Time `json:"createdAt"`
}

func toCreationDTO(c domain.Creation) creationDTO {
	likes := c.Likes
	if likes == nil {
		likes = []string{}
	}
	return creationDTO{
		ID:        c.ID,
		OwnerID:   c.OwnerID,
		Prompt:    c.Prompt,
		Kind:      string(c.Kind),
		Content:   c.TextContent,
		MediaURL:  c.MediaURL,
		Published: c.Published,
		Likes:     likes,
		CreatedAt: c.CreatedAt,
	}
}

func toCreationDTOs(list []domain.Creation) []creationDTO {
	out := make([]creationDTO, 0, len(list))
	for _, c := range list {
		out = append(out, toCreationDTO(c))
	}
	return out
}

// GetUserCreations lists the caller's own creations, newest first.
func (a *App) GetUserCreations(w http.ResponseWriter, r *http.Request) {
	state, ok := a.identity(w, r)
	if !ok {
		return
	}
	list, err := a.Feed.ListOwn(r.Context(), state.UserID)
	if err != nil {
		a.failFromErr(w, err)
		return
	}
	a.ok(w, http.StatusOK, map[string]any{"creations": toCreationDTOs(list)})
}

// GetPublishedCreations lists every published creation, newest first.
func (a *App) GetPublishedCreations(w http.ResponseWriter, r *http.Request) {
	if _, ok := a.identity(w, r); !ok {
		return
	}
	list, err := a.Feed.ListPublished(r.Context())
	if err != nil {
		a.failFromErr(w, err)
		return
	}
	a.ok(w, http.StatusOK, map[string]any{"creations": toCreationDTOs(list)})
}

type toggleLikeRequest struct {
	ID string `json:"id"`
}

// ToggleLikeCreation flips the caller's like on the addressed creation.
func (a *App) ToggleLikeCreation(w http.ResponseWriter, r *http.Request) {
	state, ok := a.identity(w, r)
	if !ok {
		return
	}
	var req toggleLikeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.fail(w, http.StatusBadRequest, "Invalid request payload.")
		return
	}
	creationID := req.ID
	if creationID == "" {
		a.fail(w, http.StatusBadRequest, "Creation id is required.")
		return
	}
	res, err := a.Feed.ToggleLike(r.Context(), creationID, state.UserID)
	if err != nil {
		a.failFromErr(w, err)
		return
	}
	a.ok(w, http.StatusOK, map[string]any{"message": res.Message, "likes": res.Likes})
}

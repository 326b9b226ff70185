package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"server/pkg/zip"
)

// ExportCreations streams the caller's creations as a zip: one JSON record
// per creation plus a plain-text file for text kinds.
func (a *App) ExportCreations(w http.ResponseWriter, r *http.Request) {
	state, ok := a.identity(w, r)
	if !ok {
		return
	}
	list, err := a.Feed.ListOwn(r.Context(), state.UserID)
	if err != nil {
		a.failFromErr(w, err)
		return
	}

	var entries []zip.Entry
	for _, c := range list {
		record, err := json.MarshalIndent(toCreationDTO(c), "", "  ")
		if err != nil {
			a.failFromErr(w, err)
			return
		}
		entries = append(entries, zip.Entry{
			Name: fmt.Sprintf("%s/%s.json", c.Kind, c.ID),
			Data: record,
		})
		if c.TextContent != "" {
			entries = append(entries, zip.Entry{
				Name: fmt.Sprintf("%s/%s.txt", c.Kind, c.ID),
				Data: []byte(c.TextContent),
			})
		}
	}
	archive, err := zip.Archive(entries)
	if err != nil {
		a.failFromErr(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="creations.zip"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(archive)
}

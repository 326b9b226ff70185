package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"server/internal/domain"
	"server/internal/generate"
	"server/internal/providers/resume"
)

// maxImageUpload caps image part reads; Clipdrop and Cloudinary both reject
// anything near this anyway.
const maxImageUpload = 32 << 20

type textGenerateRequest struct {
	Prompt  string `json:"prompt"`
	Length  int    `json:"length"`
	Publish bool   `json:"publish"`
}

func (a *App) GenerateArticle(w http.ResponseWriter, r *http.Request) {
	a.runTextKind(w, r, domain.KindArticle)
}

func (a *App) GenerateBlogTitle(w http.ResponseWriter, r *http.Request) {
	a.runTextKind(w, r, domain.KindBlogTitle)
}

func (a *App) runTextKind(w http.ResponseWriter, r *http.Request, kind domain.Kind) {
	state, ok := a.identity(w, r)
	if !ok {
		return
	}
	var req textGenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.fail(w, http.StatusBadRequest, "Invalid request payload.")
		return
	}
	res, err := a.Generate.Run(r.Context(), *state, generate.Request{
		Kind:    kind,
		Prompt:  req.Prompt,
		Length:  req.Length,
		Publish: req.Publish,
	})
	if err != nil {
		a.failFromErr(w, err)
		return
	}
	a.ok(w, http.StatusOK, map[string]any{"content": res.Text})
}

func (a *App) GenerateImage(w http.ResponseWriter, r *http.Request) {
	state, ok := a.identity(w, r)
	if !ok {
		return
	}
	var req textGenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.fail(w, http.StatusBadRequest, "Invalid request payload.")
		return
	}
	res, err := a.Generate.Run(r.Context(), *state, generate.Request{
		Kind:    domain.KindImage,
		Prompt:  req.Prompt,
		Publish: req.Publish,
	})
	if err != nil {
		a.failFromErr(w, err)
		return
	}
	a.ok(w, http.StatusOK, map[string]any{"mediaUrl": res.MediaURL})
}

func (a *App) RemoveImageBackground(w http.ResponseWriter, r *http.Request) {
	state, ok := a.identity(w, r)
	if !ok {
		return
	}
	data, fileName, ok := a.readUpload(w, r, "image", maxImageUpload)
	if !ok {
		return
	}
	res, err := a.Generate.Run(r.Context(), *state, generate.Request{
		Kind:     domain.KindRemoveBackground,
		File:     data,
		FileName: fileName,
		Publish:  r.FormValue("publish") == "true",
	})
	if err != nil {
		a.failFromErr(w, err)
		return
	}
	a.ok(w, http.StatusOK, map[string]any{"mediaUrl": res.MediaURL})
}

func (a *App) RemoveImageObject(w http.ResponseWriter, r *http.Request) {
	state, ok := a.identity(w, r)
	if !ok {
		return
	}
	data, fileName, ok := a.readUpload(w, r, "image", maxImageUpload)
	if !ok {
		return
	}
	res, err := a.Generate.Run(r.Context(), *state, generate.Request{
		Kind:     domain.KindRemoveObject,
		File:     data,
		FileName: fileName,
		Object:   r.FormValue("object"),
		Publish:  r.FormValue("publish") == "true",
	})
	if err != nil {
		a.failFromErr(w, err)
		return
	}
	a.ok(w, http.StatusOK, map[string]any{"mediaUrl": res.MediaURL})
}

func (a *App) ReviewResume(w http.ResponseWriter, r *http.Request) {
	state, ok := a.identity(w, r)
	if !ok {
		return
	}
	// Read one byte past the ceiling so the workflow can tell oversized from
	// exactly-at-limit.
	data, fileName, ok := a.readUpload(w, r, "resume", resume.MaxFileSize+1)
	if !ok {
		return
	}
	res, err := a.Generate.Run(r.Context(), *state, generate.Request{
		Kind:     domain.KindResumeReview,
		File:     data,
		FileName: fileName,
	})
	if err != nil {
		a.failFromErr(w, err)
		return
	}
	a.ok(w, http.StatusOK, map[string]any{"content": res.Text})
}

func (a *App) readUpload(w http.ResponseWriter, r *http.Request, field string, limit int64) ([]byte, string, bool) {
	file, header, err := r.FormFile(field)
	if err != nil {
		a.fail(w, http.StatusBadRequest, "Uploaded file is required.")
		return nil, "", false
	}
	defer file.Close()
	data, err := io.ReadAll(io.LimitReader(file, limit))
	if err != nil {
		a.fail(w, http.StatusBadRequest, "Could not read uploaded file.")
		return nil, "", false
	}
	return data, header.Filename, true
}

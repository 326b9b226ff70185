package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"server/internal/community"
	"server/internal/domain"
	"server/internal/generate"
	"server/internal/middleware"
)

type stubGenerator struct {
	res     *generate.Result
	err     error
	lastReq generate.Request
	calls   int
}

func (s *stubGenerator) Run(_ context.Context, _ domain.QuotaState, req generate.Request) (*generate.Result, error) {
	s.calls++
	s.lastReq = req
	return s.res, s.err
}

type stubFeed struct {
	published []domain.Creation
	own       []domain.Creation
	like      *community.LikeResult
	err       error
}

func (s *stubFeed) ListPublished(context.Context) ([]domain.Creation, error) {
	return s.published, s.err
}

func (s *stubFeed) ListOwn(context.Context, string) ([]domain.Creation, error) {
	return s.own, s.err
}

func (s *stubFeed) ToggleLike(context.Context, string, string) (*community.LikeResult, error) {
	return s.like, s.err
}

func testApp(gen Generator, feed CommunityFeed) *App {
	return &App{Generate: gen, Feed: feed}
}

func withIdentity(r *http.Request, state domain.QuotaState) *http.Request {
	return r.WithContext(middleware.ContextWithIdentity(r.Context(), &state))
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return body
}

func TestGenerateArticleSuccess(t *testing.T) {
	gen := &stubGenerator{res: &generate.Result{Text: "the article"}}
	app := testApp(gen, &stubFeed{})

	req := httptest.NewRequest(http.MethodPost, "/api/ai/generate-article",
		strings.NewReader(`{"prompt":"write about go","length":600,"publish":true}`))
	req = withIdentity(req, domain.QuotaState{UserID: "u1", Plan: domain.PlanFree})
	rec := httptest.NewRecorder()
	app.GenerateArticle(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["success"] != true || body["content"] != "the article" {
		t.Errorf("body = %v", body)
	}
	if gen.lastReq.Kind != domain.KindArticle || gen.lastReq.Length != 600 || !gen.lastReq.Publish {
		t.Errorf("request = %+v", gen.lastReq)
	}
}

func TestGenerateArticleQuotaExceeded(t *testing.T) {
	app := testApp(&stubGenerator{err: domain.ErrQuotaExceeded}, &stubFeed{})

	req := httptest.NewRequest(http.MethodPost, "/api/ai/generate-article",
		strings.NewReader(`{"prompt":"x"}`))
	req = withIdentity(req, domain.QuotaState{UserID: "u1", Plan: domain.PlanFree, FreeUsage: 10})
	rec := httptest.NewRecorder()
	app.GenerateArticle(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["success"] != false {
		t.Errorf("success = %v", body["success"])
	}
	if body["message"] != "Free usage limit exceeded. Please upgrade to premium." {
		t.Errorf("message = %q", body["message"])
	}
}

func TestGenerateImagePlanRestricted(t *testing.T) {
	app := testApp(&stubGenerator{err: domain.ErrPlanRestricted}, &stubFeed{})

	req := httptest.NewRequest(http.MethodPost, "/api/ai/generate-image",
		strings.NewReader(`{"prompt":"a cat"}`))
	req = withIdentity(req, domain.QuotaState{UserID: "u1", Plan: domain.PlanFree})
	rec := httptest.NewRecorder()
	app.GenerateImage(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d", rec.Code)
	}
	if msg := decodeBody(t, rec)["message"]; msg != "This feature is only available for premium subscriptions." {
		t.Errorf("message = %q", msg)
	}
}

func TestGenerateArticleRejectsMissingIdentity(t *testing.T) {
	gen := &stubGenerator{}
	app := testApp(gen, &stubFeed{})

	req := httptest.NewRequest(http.MethodPost, "/api/ai/generate-article",
		strings.NewReader(`{"prompt":"x"}`))
	rec := httptest.NewRecorder()
	app.GenerateArticle(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
	if gen.calls != 0 {
		t.Errorf("generator calls = %d, want 0", gen.calls)
	}
}

func multipartUpload(t *testing.T, field, fileName string, data []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	fw, err := mw.CreateFormFile(field, fileName)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write(data); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	for k, v := range fields {
		_ = mw.WriteField(k, v)
	}
	_ = mw.Close()
	return buf, mw.FormDataContentType()
}

func TestRemoveImageObjectPassesObjectField(t *testing.T) {
	gen := &stubGenerator{res: &generate.Result{MediaURL: "https://cdn/out.png"}}
	app := testApp(gen, &stubFeed{})

	body, contentType := multipartUpload(t, "image", "photo.png", []byte("img-bytes"), map[string]string{
		"object":  "red chair",
		"publish": "true",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/ai/remove-image-object", body)
	req.Header.Set("Content-Type", contentType)
	req = withIdentity(req, domain.QuotaState{UserID: "u1", Plan: domain.PlanPremium})
	rec := httptest.NewRecorder()
	app.RemoveImageObject(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if got := decodeBody(t, rec)["mediaUrl"]; got != "https://cdn/out.png" {
		t.Errorf("mediaUrl = %q", got)
	}
	if gen.lastReq.Object != "red chair" || gen.lastReq.FileName != "photo.png" || !gen.lastReq.Publish {
		t.Errorf("request = %+v", gen.lastReq)
	}
	if string(gen.lastReq.File) != "img-bytes" {
		t.Errorf("file = %q", gen.lastReq.File)
	}
}

func TestReviewResumeOversized(t *testing.T) {
	app := testApp(&stubGenerator{err: domain.ErrOversizedInput}, &stubFeed{})

	body, contentType := multipartUpload(t, "resume", "cv.pdf", []byte("%PDF-"), nil)
	req := httptest.NewRequest(http.MethodPost, "/api/ai/resume-review", body)
	req.Header.Set("Content-Type", contentType)
	req = withIdentity(req, domain.QuotaState{UserID: "u1", Plan: domain.PlanPremium})
	rec := httptest.NewRecorder()
	app.ReviewResume(rec, req)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d", rec.Code)
	}
	if msg := decodeBody(t, rec)["message"]; msg != "Resume file size exceeds allowed size (5MB)." {
		t.Errorf("message = %q", msg)
	}
}

func TestRemoveImageBackgroundRequiresFile(t *testing.T) {
	gen := &stubGenerator{}
	app := testApp(gen, &stubFeed{})

	req := httptest.NewRequest(http.MethodPost, "/api/ai/remove-image-background", nil)
	req = withIdentity(req, domain.QuotaState{UserID: "u1", Plan: domain.PlanPremium})
	rec := httptest.NewRecorder()
	app.RemoveImageBackground(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if gen.calls != 0 {
		t.Errorf("generator calls = %d, want 0", gen.calls)
	}
}

func TestGetPublishedCreationsEnvelope(t *testing.T) {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	feed := &stubFeed{published: []domain.Creation{{
		ID:        "c1",
		OwnerID:   "u2",
		Prompt:    "a cat",
		Kind:      domain.KindImage,
		MediaURL:  "https://cdn/cat.png",
		Published: true,
		CreatedAt: created,
	}}}
	app := testApp(&stubGenerator{}, feed)

	req := withIdentity(httptest.NewRequest(http.MethodGet, "/api/user/get-published-creations", nil),
		domain.QuotaState{UserID: "u1", Plan: domain.PlanFree})
	rec := httptest.NewRecorder()
	app.GetPublishedCreations(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decodeBody(t, rec)
	creations, ok := body["creations"].([]any)
	if !ok || len(creations) != 1 {
		t.Fatalf("creations = %v", body["creations"])
	}
	first := creations[0].(map[string]any)
	if first["id"] != "c1" || first["mediaUrl"] != "https://cdn/cat.png" {
		t.Errorf("creation = %v", first)
	}
	if likes, ok := first["likes"].([]any); !ok || len(likes) != 0 {
		t.Errorf("likes = %v, want empty array", first["likes"])
	}
}

func TestToggleLikeCreation(t *testing.T) {
	feed := &stubFeed{like: &community.LikeResult{Message: "Like added", Likes: []string{"u1"}}}
	app := testApp(&stubGenerator{}, feed)

	req := withIdentity(httptest.NewRequest(http.MethodPost, "/api/user/toggle-like-creation",
		strings.NewReader(`{"id":"c1"}`)),
		domain.QuotaState{UserID: "u1", Plan: domain.PlanFree})
	rec := httptest.NewRecorder()
	app.ToggleLikeCreation(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["message"] != "Like added" {
		t.Errorf("message = %q", body["message"])
	}
}

func TestToggleLikeCreationNotFound(t *testing.T) {
	app := testApp(&stubGenerator{}, &stubFeed{err: domain.ErrNotFound})

	req := withIdentity(httptest.NewRequest(http.MethodPost, "/api/user/toggle-like-creation",
		strings.NewReader(`{"id":"ghost"}`)),
		domain.QuotaState{UserID: "u1", Plan: domain.PlanFree})
	rec := httptest.NewRecorder()
	app.ToggleLikeCreation(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
	if msg := decodeBody(t, rec)["message"]; msg != "Creation not found" {
		t.Errorf("message = %q", msg)
	}
}

func TestToggleLikeCreationRequiresID(t *testing.T) {
	app := testApp(&stubGenerator{}, &stubFeed{})

	req := withIdentity(httptest.NewRequest(http.MethodPost, "/api/user/toggle-like-creation",
		strings.NewReader(`{}`)),
		domain.QuotaState{UserID: "u1", Plan: domain.PlanFree})
	rec := httptest.NewRecorder()
	app.ToggleLikeCreation(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestExportCreationsWritesZip(t *testing.T) {
	feed := &stubFeed{own: []domain.Creation{{
		ID:          "c1",
		OwnerID:     "u1",
		Kind:        domain.KindArticle,
		TextContent: "body",
	}}}
	app := testApp(&stubGenerator{}, feed)

	req := withIdentity(httptest.NewRequest(http.MethodGet, "/api/user/export", nil),
		domain.QuotaState{UserID: "u1", Plan: domain.PlanFree})
	rec := httptest.NewRecorder()
	app.ExportCreations(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/zip" {
		t.Errorf("content type = %q", ct)
	}
	if rec.Body.Len() == 0 {
		t.Error("empty archive body")
	}
}

package media

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestCloudinary(t *testing.T, serverURL string) *Cloudinary {
	t.Helper()
	c, err := NewCloudinary(CloudinaryOptions{
		CloudName:       "demo",
		APIKey:          "key",
		APISecret:       "secret",
		UploadBaseURL:   serverURL,
		DeliveryBaseURL: "https://res.cloudinary.com",
		Now:             func() time.Time { return time.Unix(1700000000, 0) },
	})
	if err != nil {
		t.Fatalf("NewCloudinary: %v", err)
	}
	return c
}

func TestUploadSignsAndParsesResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1_1/demo/image/upload" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if err := r.ParseMultipartForm(8 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		wantSig := sha1.Sum([]byte("folder=edited&timestamp=1700000000&transformation=e_background_removal" + "secret"))
		if got := r.FormValue("signature"); got != hex.EncodeToString(wantSig[:]) {
			t.Errorf("signature = %q", got)
		}
		if got := r.FormValue("api_key"); got != "key" {
			t.Errorf("api_key = %q", got)
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		data, _ := io.ReadAll(file)
		if string(data) != "image-bytes" {
			t.Errorf("file = %q", data)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"public_id":  "edited/abc123",
			"secure_url": "https://res.cloudinary.com/demo/image/upload/edited/abc123.png",
		})
	}))
	defer server.Close()

	c := newTestCloudinary(t, server.URL)
	up, err := c.Upload(context.Background(), []byte("image-bytes"), UploadOptions{
		Folder: "edited",
		Effect: "e_background_removal",
	})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if up.PublicID != "edited/abc123" {
		t.Errorf("PublicID = %q", up.PublicID)
	}
	if up.URL != "https://res.cloudinary.com/demo/image/upload/edited/abc123.png" {
		t.Errorf("URL = %q", up.URL)
	}
}

func TestUploadSurfacesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "Invalid signature"},
		})
	}))
	defer server.Close()

	c := newTestCloudinary(t, server.URL)
	_, err := c.Upload(context.Background(), []byte("x"), UploadOptions{})
	if err == nil {
		t.Fatal("expected upload error")
	}
}

func TestBuildURL(t *testing.T) {
	c := newTestCloudinary(t, "http://unused")
	plain := c.BuildURL("edited/abc123", "")
	if plain != "https://res.cloudinary.com/demo/image/upload/edited/abc123" {
		t.Errorf("plain url = %q", plain)
	}
	removed := c.BuildURL("edited/abc123", "e_gen_remove:chair")
	want := fmt.Sprintf("https://res.cloudinary.com/demo/image/upload/%s/edited/abc123", "e_gen_remove:chair")
	if removed != want {
		t.Errorf("transformed url = %q, want %q", removed, want)
	}
}

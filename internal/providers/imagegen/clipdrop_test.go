package imagegen

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTextToImageReturnsBinary(t *testing.T) {
	png := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/text-to-image/v1" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("x-api-key"); got != "key-123" {
			t.Errorf("x-api-key = %q", got)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if got := r.FormValue("prompt"); got != "a cat" {
			t.Errorf("prompt = %q", got)
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(png)
	}))
	defer server.Close()

	client, err := NewClient(Options{APIKey: "key-123", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	data, err := client.TextToImage(context.Background(), "a cat")
	if err != nil {
		t.Fatalf("TextToImage: %v", err)
	}
	if string(data) != string(png) {
		t.Fatalf("data = %v", data)
	}
}

func TestTextToImageSurfacesStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid api key", http.StatusUnauthorized)
	}))
	defer server.Close()

	client, _ := NewClient(Options{APIKey: "bad", BaseURL: server.URL})
	if _, err := client.TextToImage(context.Background(), "a cat"); err == nil {
		t.Fatal("expected status error")
	}
}

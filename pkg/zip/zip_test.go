package zip

import (
	stdzip "archive/zip"
	"bytes"
	"io"
	"testing"
)

func TestArchiveRoundTrip(t *testing.T) {
	data, err := Archive([]Entry{
		{Name: "a.txt", Data: []byte("hello")},
		{Name: "nested/b.json", Data: []byte(`{"k":1}`)},
	})
	if err != nil {
		t.Fatalf("Archive: %v", err)
	}

	zr, err := stdzip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	if len(zr.File) != 2 {
		t.Fatalf("files = %d, want 2", len(zr.File))
	}
	f, err := zr.File[0].Open()
	if err != nil {
		t.Fatalf("open entry: %v", err)
	}
	defer f.Close()
	body, _ := io.ReadAll(f)
	if string(body) != "hello" {
		t.Errorf("body = %q", body)
	}
}

func TestArchiveEmpty(t *testing.T) {
	data, err := Archive(nil)
	if err != nil {
		t.Fatalf("Archive: %v", err)
	}
	if _, err := stdzip.NewReader(bytes.NewReader(data), int64(len(data))); err != nil {
		t.Fatalf("open archive: %v", err)
	}
}

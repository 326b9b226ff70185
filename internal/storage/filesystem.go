package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"server/internal/providers/media"
)

// FileStore persists media assets onto the local filesystem and serves them
// under a static base URL. It is intended for development and test
// environments where the managed media service is not configured.
type FileStore struct {
	basePath string
	baseURL  string
}

// NewFileStore initializes a FileStore rooted at basePath, serving assets
// under baseURL.
func NewFileStore(basePath, baseURL string) (*FileStore, error) {
	basePath = strings.TrimSpace(basePath)
	if basePath == "" {
		return nil, errors.New("storage: base path is required")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("storage: ensure base path: %w", err)
	}
	return &FileStore{basePath: basePath, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// BasePath returns the configured root directory.
func (s *FileStore) BasePath() string {
	if s == nil {
		return ""
	}
	return s.basePath
}

// Upload writes the bytes under a generated key and returns the static URL.
// Transformations requested via opts.Effect cannot be applied locally and are
// ignored; the original asset is stored as-is.
func (s *FileStore) Upload(ctx context.Context, data []byte, opts media.UploadOptions) (*media.Upload, error) {
	if len(data) == 0 {
		return nil, errors.New("storage: no data to upload")
	}
	name := strings.TrimSpace(opts.FileName)
	if name == "" {
		name = uuid.NewString() + ".png"
	} else {
		name = uuid.NewString() + "-" + path.Base(name)
	}
	key := name
	if opts.Folder != "" {
		key = path.Join(opts.Folder, name)
	}
	cleanKey, err := s.write(ctx, key, data)
	if err != nil {
		return nil, err
	}
	return &media.Upload{PublicID: cleanKey, URL: s.BuildURL(cleanKey, "")}, nil
}

// BuildURL joins the static base URL with the stored key. The transformation
// segment is dropped: local files are served untransformed.
func (s *FileStore) BuildURL(publicID, _ string) string {
	return s.baseURL + "/" + strings.TrimLeft(publicID, "/")
}

// write persists the provided bytes at the given relative key and returns the
// canonicalized storage key. Keys are cleaned to prevent directory traversal.
func (s *FileStore) write(ctx context.Context, key string, data []byte) (string, error) {
	if s == nil {
		return "", errors.New("storage: no store configured")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	cleanKey, err := sanitizeKey(key)
	if err != nil {
		return "", err
	}
	fullPath := filepath.Join(s.basePath, filepath.FromSlash(cleanKey))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", fmt.Errorf("storage: ensure directory: %w", err)
	}
	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		return "", fmt.Errorf("storage: write file: %w", err)
	}
	return cleanKey, nil
}

// sanitizeKey normalizes a key and prevents escaping the storage root.
func sanitizeKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", errors.New("storage: key is required")
	}
	key = strings.ReplaceAll(key, "\\", "/")
	key = strings.TrimPrefix(key, "./")
	key = strings.TrimLeft(key, "/")
	cleaned := filepath.Clean(key)
	cleaned = strings.ReplaceAll(cleaned, "\\", "/")
	if cleaned == "." || strings.HasPrefix(cleaned, "../") {
		return "", errors.New("storage: invalid key")
	}
	return cleaned, nil
}

var _ media.Uploader = (*FileStore)(nil)

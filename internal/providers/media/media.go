package media

import "context"

// Upload is the canonical record the media store returns for stored bytes.
type Upload struct {
	PublicID string
	URL      string
}

// UploadOptions shapes a single upload. Effect, when set, asks the store to
// apply a server-side transformation (e.g. background removal) before the
// asset is served.
type UploadOptions struct {
	Folder   string
	FileName string
	Effect   string
}

// Uploader is the media-store contract the generation adapter depends on.
// Implemented by the Cloudinary client and by the filesystem store used in
// development.
type Uploader interface {
	Upload(ctx context.Context, data []byte, opts UploadOptions) (*Upload, error)
	// BuildURL derives a delivery URL for a stored asset with the given
	// transformation segment applied ("" for the original).
	BuildURL(publicID, transformation string) string
}

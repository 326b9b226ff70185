package generate

import (
	"context"
	"errors"
	"testing"

	"server/internal/domain"
	"server/internal/providers/media"
	"server/internal/providers/resume"
)

type stubCompleter struct {
	text  string
	err   error
	calls int
}

func (s *stubCompleter) Complete(_ context.Context, prompt string, _ int) (string, error) {
	s.calls++
	return s.text, s.err
}

type stubSynthesizer struct {
	data []byte
	err  error
}

func (s *stubSynthesizer) TextToImage(context.Context, string) ([]byte, error) {
	return s.data, s.err
}

type stubUploader struct {
	upload   *media.Upload
	err      error
	lastOpts media.UploadOptions
	builtID  string
	builtTx  string
}

func (s *stubUploader) Upload(_ context.Context, _ []byte, opts media.UploadOptions) (*media.Upload, error) {
	s.lastOpts = opts
	return s.upload, s.err
}

func (s *stubUploader) BuildURL(publicID, transformation string) string {
	s.builtID = publicID
	s.builtTx = transformation
	return "https://cdn/" + transformation + "/" + publicID
}

func TestReviewResumeRejectsOversizedBeforeExtraction(t *testing.T) {
	completer := &stubCompleter{}
	a := &Adapter{Completer: completer}

	_, err := a.ReviewResume(context.Background(), make([]byte, resume.MaxFileSize+1))
	if !errors.Is(err, domain.ErrOversizedInput) {
		t.Fatalf("err = %v, want ErrOversizedInput", err)
	}
	if completer.calls != 0 {
		t.Errorf("completer calls = %d, want 0", completer.calls)
	}
}

func TestSynthesizeImageUploadsGeneratedBytes(t *testing.T) {
	uploader := &stubUploader{upload: &media.Upload{PublicID: "generated/abc", URL: "https://cdn/abc.png"}}
	a := &Adapter{
		Synthesizer: &stubSynthesizer{data: []byte("png-bytes")},
		Media:       uploader,
	}

	url, err := a.SynthesizeImage(context.Background(), "a cat")
	if err != nil {
		t.Fatalf("SynthesizeImage: %v", err)
	}
	if url != "https://cdn/abc.png" {
		t.Errorf("url = %q", url)
	}
	if uploader.lastOpts.Folder != "generated" {
		t.Errorf("folder = %q", uploader.lastOpts.Folder)
	}
}

func TestSynthesizeImageWrapsProviderFailure(t *testing.T) {
	a := &Adapter{Synthesizer: &stubSynthesizer{err: errors.New("upstream 500")}}

	_, err := a.SynthesizeImage(context.Background(), "a cat")
	if !errors.Is(err, domain.ErrGenerationFailed) {
		t.Fatalf("err = %v, want ErrGenerationFailed", err)
	}
}

func TestRemoveBackgroundSetsEffect(t *testing.T) {
	uploader := &stubUploader{upload: &media.Upload{PublicID: "edited/abc", URL: "https://cdn/edited.png"}}
	a := &Adapter{Media: uploader}

	url, err := a.RemoveBackground(context.Background(), []byte("img"), "photo.png")
	if err != nil {
		t.Fatalf("RemoveBackground: %v", err)
	}
	if url != "https://cdn/edited.png" {
		t.Errorf("url = %q", url)
	}
	if uploader.lastOpts.Effect != "e_background_removal" || uploader.lastOpts.Folder != "edited" {
		t.Errorf("opts = %+v", uploader.lastOpts)
	}
}

func TestRemoveObjectBuildsGenRemoveURL(t *testing.T) {
	uploader := &stubUploader{upload: &media.Upload{PublicID: "edited/abc", URL: "https://cdn/raw.png"}}
	a := &Adapter{Media: uploader}

	url, err := a.RemoveObject(context.Background(), []byte("img"), "photo.png", "red  chair")
	if err != nil {
		t.Fatalf("RemoveObject: %v", err)
	}
	if uploader.builtID != "edited/abc" {
		t.Errorf("publicID = %q", uploader.builtID)
	}
	if uploader.builtTx != "e_gen_remove:prompt_red__chair" {
		t.Errorf("transformation = %q", uploader.builtTx)
	}
	if url == "https://cdn/raw.png" {
		t.Error("url should carry the transformation, not the raw upload")
	}
}

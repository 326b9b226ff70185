package generate

import (
	"context"
	"fmt"
	"strings"

	"server/internal/domain"
	"server/internal/providers/media"
	"server/internal/providers/resume"
)

// TextCompleter is the language-model leg of the adapter.
type TextCompleter interface {
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// ImageSynthesizer is the text-to-image leg of the adapter.
type ImageSynthesizer interface {
	TextToImage(ctx context.Context, prompt string) ([]byte, error)
}

// Adapter normalizes the heterogeneous external generators behind one
// surface. Provider failures come back as domain.ErrGenerationFailed; the
// adapter never retries.
type Adapter struct {
	Completer   TextCompleter
	Synthesizer ImageSynthesizer
	Media       media.Uploader
}

// Token ceilings fixed by kind; articles use a caller-chosen length.
const (
	blogTitleMaxTokens    = 100
	resumeReviewMaxTokens = 1000
)

// CompleteText runs a single-message completion at the service temperature.
func (a *Adapter) CompleteText(ctx context.Context, prompt string, maxTokens int) (string, error) {
	text, err := a.Completer.Complete(ctx, prompt, maxTokens)
	if err != nil {
		return "", generationFailed(err)
	}
	return text, nil
}

// SynthesizeImage generates image bytes for the prompt, uploads them to the
// media store and returns the canonical URL. Plan gating happens in the
// workflow before this is called.
func (a *Adapter) SynthesizeImage(ctx context.Context, prompt string) (string, error) {
	data, err := a.Synthesizer.TextToImage(ctx, prompt)
	if err != nil {
		return "", generationFailed(err)
	}
	up, err := a.Media.Upload(ctx, data, media.UploadOptions{Folder: "generated"})
	if err != nil {
		return "", generationFailed(err)
	}
	return up.URL, nil
}

// RemoveBackground uploads the source image with a server-side
// background-removal effect and returns the transformed URL.
func (a *Adapter) RemoveBackground(ctx context.Context, image []byte, fileName string) (string, error) {
	up, err := a.Media.Upload(ctx, image, media.UploadOptions{
		Folder:   "edited",
		FileName: fileName,
		Effect:   "e_background_removal",
	})
	if err != nil {
		return "", generationFailed(err)
	}
	return up.URL, nil
}

// RemoveObject uploads the source image untouched, then derives a delivery
// URL carrying a generative-removal transformation for the described object.
func (a *Adapter) RemoveObject(ctx context.Context, image []byte, fileName, object string) (string, error) {
	up, err := a.Media.Upload(ctx, image, media.UploadOptions{
		Folder:   "edited",
		FileName: fileName,
	})
	if err != nil {
		return "", generationFailed(err)
	}
	return a.Media.BuildURL(up.PublicID, genRemoveTransformation(object)), nil
}

// ReviewResume extracts the PDF text and asks the language model for a
// review. Oversized files are rejected before any external call.
func (a *Adapter) ReviewResume(ctx context.Context, pdfData []byte) (string, error) {
	if len(pdfData) > resume.MaxFileSize {
		return "", domain.ErrOversizedInput
	}
	text, err := resume.ExtractText(pdfData)
	if err != nil {
		return "", generationFailed(err)
	}
	prompt := fmt.Sprintf("Review my resume and suggest improvements. Here is the content: %s", text)
	return a.CompleteText(ctx, prompt, resumeReviewMaxTokens)
}

func genRemoveTransformation(object string) string {
	object = strings.ReplaceAll(strings.TrimSpace(object), " ", "_")
	return "e_gen_remove:prompt_" + object
}

func generationFailed(err error) error {
	return fmt.Errorf("%w: %v", domain.ErrGenerationFailed, err)
}

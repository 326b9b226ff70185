package generate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"server/internal/domain"
	"server/internal/middleware"
)

// defaultArticleTokens caps article completions when the caller does not pick
// a length.
const defaultArticleTokens = 800

// Request carries the validated-enough input for one generation run. Exactly
// which fields matter depends on the kind.
type Request struct {
	Kind     domain.Kind
	Prompt   string
	Length   int
	Object   string
	File     []byte
	FileName string
	Publish  bool
}

// Result is the normalized output of a completed run.
type Result struct {
	Text     string
	MediaURL string
	Creation *domain.Creation
}

// KindAdapter is the uniform generation surface the workflow dispatches to.
type KindAdapter interface {
	CompleteText(ctx context.Context, prompt string, maxTokens int) (string, error)
	SynthesizeImage(ctx context.Context, prompt string) (string, error)
	RemoveBackground(ctx context.Context, image []byte, fileName string) (string, error)
	RemoveObject(ctx context.Context, image []byte, fileName, object string) (string, error)
	ReviewResume(ctx context.Context, pdfData []byte) (string, error)
}

// UsageRecorder appends analytics events; failures are logged, never
// propagated.
type UsageRecorder interface {
	Record(ctx context.Context, ev domain.UsageEvent) error
}

// Workflow runs the validate, authorize, generate, persist sequence for one
// generation request. Runs are not idempotent: two identical requests produce
// two creation records and consume quota twice on free plans.
type Workflow struct {
	Gate      Gate
	Adapter   KindAdapter
	Creations domain.CreationRepository
	Events    UsageRecorder
	Logger    zerolog.Logger
}

// Run executes the workflow and records a usage event for the attempt.
func (w *Workflow) Run(ctx context.Context, state domain.QuotaState, req Request) (*Result, error) {
	start := time.Now()
	res, err := w.run(ctx, state, req)
	w.recordEvent(ctx, state, req, res, err, time.Since(start))
	return res, err
}

func (w *Workflow) run(ctx context.Context, state domain.QuotaState, req Request) (*Result, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if req.Kind.PremiumOnly() && !state.IsPremium() {
		return nil, domain.ErrPlanRestricted
	}
	if err := w.Gate.Check(state); err != nil {
		return nil, err
	}

	var (
		text     string
		mediaURL string
		prompt   string
		err      error
	)
	switch req.Kind {
	case domain.KindArticle:
		maxTokens := req.Length
		if maxTokens <= 0 {
			maxTokens = defaultArticleTokens
		}
		prompt = req.Prompt
		text, err = w.Adapter.CompleteText(ctx, req.Prompt, maxTokens)
	case domain.KindBlogTitle:
		prompt = req.Prompt
		text, err = w.Adapter.CompleteText(ctx, req.Prompt, blogTitleMaxTokens)
	case domain.KindImage:
		prompt = req.Prompt
		mediaURL, err = w.Adapter.SynthesizeImage(ctx, req.Prompt)
	case domain.KindRemoveBackground:
		prompt = "Remove background from image"
		mediaURL, err = w.Adapter.RemoveBackground(ctx, req.File, req.FileName)
	case domain.KindRemoveObject:
		prompt = fmt.Sprintf("Remove %s from image", req.Object)
		mediaURL, err = w.Adapter.RemoveObject(ctx, req.File, req.FileName, req.Object)
	case domain.KindResumeReview:
		prompt = "Review the uploaded resume"
		text, err = w.Adapter.ReviewResume(ctx, req.File)
	default:
		return nil, fmt.Errorf("%w: unsupported kind %q", domain.ErrValidation, req.Kind)
	}
	if err != nil {
		// Generation failed: quota is not committed.
		return nil, err
	}

	creation := &domain.Creation{
		OwnerID:     state.UserID,
		Prompt:      prompt,
		Kind:        req.Kind,
		TextContent: text,
		MediaURL:    mediaURL,
		Published:   req.Publish,
	}
	stored, err := w.Creations.Insert(ctx, creation)
	if err != nil {
		// The external generation already happened and is not compensated;
		// the run still reports failure (accepted inconsistency).
		return nil, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	if err := w.Gate.Commit(ctx, state); err != nil {
		return nil, fmt.Errorf("%w: commit quota: %v", domain.ErrPersistence, err)
	}

	return &Result{Text: text, MediaURL: mediaURL, Creation: stored}, nil
}

func validate(req Request) error {
	if !req.Kind.Valid() {
		return fmt.Errorf("%w: unsupported kind %q", domain.ErrValidation, req.Kind)
	}
	switch req.Kind {
	case domain.KindArticle, domain.KindBlogTitle, domain.KindImage:
		if strings.TrimSpace(req.Prompt) == "" {
			return fmt.Errorf("%w: prompt is required", domain.ErrValidation)
		}
	case domain.KindRemoveBackground, domain.KindRemoveObject, domain.KindResumeReview:
		if len(req.File) == 0 {
			return fmt.Errorf("%w: uploaded file is required", domain.ErrValidation)
		}
	}
	if req.Kind == domain.KindRemoveObject && strings.TrimSpace(req.Object) == "" {
		return fmt.Errorf("%w: object description is required", domain.ErrValidation)
	}
	return nil
}

func (w *Workflow) recordEvent(ctx context.Context, state domain.QuotaState, req Request, res *Result, runErr error, latency time.Duration) {
	if w.Events == nil {
		return
	}
	ev := domain.UsageEvent{
		UserID:    state.UserID,
		Kind:      req.Kind,
		Success:   runErr == nil,
		LatencyMS: int(latency.Milliseconds()),
		Locale:    middleware.LocaleFromContext(ctx),
		Country:   middleware.CountryFromContext(ctx),
	}
	if res != nil && res.Creation != nil {
		ev.CreationID = res.Creation.ID
	}
	if err := w.Events.Record(ctx, ev); err != nil {
		w.Logger.Warn().Err(err).Msg("record usage event failed")
	}
}

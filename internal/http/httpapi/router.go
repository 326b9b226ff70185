package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"server/internal/http/handlers"
	"server/internal/middleware"
)

// Options carries the request-scoped middleware the router mounts and the
// optional static assets directory for the filesystem media backend.
type Options struct {
	Auth      func(http.Handler) http.Handler
	I18N      func(http.Handler) http.Handler
	StaticDir string
}

func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(app.Logger),
		middleware.CORS(app.Config.AllowedOrigins),
		middleware.RateLimit(app.Config.RateLimitPerMin, time.Minute),
	)
	if opts.I18N != nil {
		r.Use(opts.I18N)
	}

	// Health
	r.Get("/v1/healthz", app.Health)

	// Locally stored media when Cloudinary is not configured.
	if opts.StaticDir != "" {
		fs := http.StripPrefix("/static/", http.FileServer(http.Dir(opts.StaticDir)))
		r.Handle("/static/*", fs)
	}

	r.Group(func(r chi.Router) {
		r.Use(opts.Auth)

		r.Route("/api/ai", func(r chi.Router) {
			r.Post("/generate-article", app.GenerateArticle)
			r.Post("/generate-blog-title", app.GenerateBlogTitle)
			r.Post("/generate-image", app.GenerateImage)
			r.Post("/remove-image-background", app.RemoveImageBackground)
			r.Post("/remove-image-object", app.RemoveImageObject)
			r.Post("/resume-review", app.ReviewResume)
		})

		r.Route("/api/user", func(r chi.Router) {
			r.Get("/me", app.Me)
			r.Get("/get-user-creations", app.GetUserCreations)
			r.Get("/get-published-creations", app.GetPublishedCreations)
			r.Post("/toggle-like-creation", app.ToggleLikeCreation)
			r.Get("/export", app.ExportCreations)
		})
	})

	return r
}

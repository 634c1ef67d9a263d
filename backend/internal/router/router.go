package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/itchan-dev/attachstore/backend/internal/handler"
	"github.com/itchan-dev/attachstore/shared/config"
	mw "github.com/itchan-dev/attachstore/shared/middleware"
	"github.com/itchan-dev/attachstore/shared/middleware/metrics"
	rl "github.com/itchan-dev/attachstore/shared/middleware/ratelimiter"
)

// New creates the chi router with all the routes.
func New(h *handler.Handler, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(metrics.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.Public.CorsOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         300,
	}))
	r.Use(mw.SecurityHeaders(cfg.Public.HTTPS))

	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Get("/public_config", h.GetPublicConfig)

		r.Route("/messages", func(r chi.Router) {
			upload := r
			if cfg.Public.UploadRps > 0 {
				// burst of one second worth of uploads per IP
				limiter := rl.New(cfg.Public.UploadRps, max(1, cfg.Public.UploadRps), time.Hour)
				upload = upload.With(mw.RateLimit(limiter, mw.GetIP))
			}
			if cfg.Public.UploadGlobalRps > 0 {
				limiter := rl.New(cfg.Public.UploadGlobalRps, max(1, cfg.Public.UploadGlobalRps), time.Hour)
				upload = upload.With(mw.GlobalRateLimit(limiter))
			}
			upload.Post("/", h.CreateMessage)

			r.Get("/{message}", h.GetMessage)
			r.Delete("/{message}", h.DeleteMessage)
			r.Get("/{message}/attachments/{uid}", h.DownloadAttachment)
		})
	})

	return r
}

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/rs/zerolog"

	"github.com/TimurManjosov/volumediscount/internal/audit"
	"github.com/TimurManjosov/volumediscount/internal/obs"
	"github.com/TimurManjosov/volumediscount/internal/settings"
	"github.com/TimurManjosov/volumediscount/internal/store"
	"github.com/TimurManjosov/volumediscount/internal/telemetry"
)

// Options tunes the HTTP server. Zero values select the defaults.
type Options struct {
	Logger         zerolog.Logger
	RateLimitPerIP int            // evaluate requests per minute per client IP, default 600
	RequestTimeout time.Duration  // default 5s
	Audit          *audit.Service // settings change trail, nil disables it
	AuditReader    audit.Reader   // backs the audit route, nil disables it
}

type Server struct {
	settings       *settings.Service
	adminAPIKey    string
	audit          *audit.Service
	auditReader    audit.Reader
	logger         zerolog.Logger
	rateLimitPerIP int
	requestTimeout time.Duration
}

func NewServer(st store.Store, adminKey string, opts Options) *Server {
	if opts.RateLimitPerIP <= 0 {
		opts.RateLimitPerIP = 600
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 5 * time.Second
	}
	return &Server{
		settings:       settings.NewService(st, opts.Logger),
		adminAPIKey:    adminKey,
		audit:          opts.Audit,
		auditReader:    opts.AuditReader,
		logger:         opts.Logger,
		rateLimitPerIP: opts.RateLimitPerIP,
		requestTimeout: opts.RequestTimeout,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP)
	r.Use(obs.RequestLogger{Logger: s.logger}.Middleware)
	r.Use(telemetry.Middleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.requestTimeout))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		NotFoundError(w, r, "route not found")
	})

	// health
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	limit := s.evaluateLimiter()
	r.Route("/v1", func(r chi.Router) {
		r.Route("/shops/{shopID}", func(r chi.Router) {
			r.Get("/volume-discount", s.handleGetSettings)
			r.With(s.authAdmin).Put("/volume-discount", s.handlePutSettings)
			r.With(s.authAdmin).Delete("/volume-discount", s.handleDeleteSettings)
			r.With(s.authAdmin).Get("/volume-discount/audit", s.handleGetAudit)
			r.With(limit).Post("/evaluate", s.handleEvaluateShop)
		})
		r.With(limit).Post("/functions/cart-lines-discounts-generate/run", s.handleRun)
	})

	return r
}

func (s *Server) evaluateLimiter() func(http.Handler) http.Handler {
	return httprate.Limit(
		s.rateLimitPerIP,
		time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			RateLimitedError(w, r, "too many evaluate requests, retry later")
		}),
	)
}

package httpserver

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	domai "github.com/bryanwahyu/explain-my-mess/internal/domain/ai"
	"github.com/bryanwahyu/explain-my-mess/internal/domain/explain"
	"github.com/bryanwahyu/explain-my-mess/internal/logger"
	"github.com/bryanwahyu/explain-my-mess/internal/middleware"
)

const (
	msgGenerateFailed = "Failed to generate explanation"
	msgTooLarge       = "Upload exceeds the maximum allowed size"
)

type Options struct {
	Analyzer       domai.Analyzer
	MaxUploadBytes int64
	AllowedOrigins []string
	// RateLimiter is applied to /api routes when set. It keys on the TCP
	// peer unless TrustProxy lets X-Forwarded-For/X-Real-IP replace it.
	RateLimiter    *middleware.RateLimiter
	TrustProxy     bool
	HealthCheckers map[string]middleware.HealthChecker
}

type Router struct {
	analyzer       domai.Analyzer
	maxUploadBytes int64
}

func NewRouter(opts Options) http.Handler {
	r := &Router{analyzer: opts.Analyzer, maxUploadBytes: opts.MaxUploadBytes}
	if r.maxUploadBytes <= 0 {
		r.maxUploadBytes = 10 << 20
	}
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	mux := chi.NewRouter()
	if opts.TrustProxy {
		mux.Use(chimw.RealIP)
	}
	mux.Use(
		middleware.RequestID,
		middleware.LoggingMiddleware,
		middleware.MetricsMiddleware,
		middleware.Recovery,
		cors.Handler(cors.Options{
			AllowedOrigins: origins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", middleware.RequestIDHeader},
			ExposedHeaders: []string{middleware.RequestIDHeader},
			MaxAge:         300,
		}),
	)

	mux.Get("/health", middleware.HealthHandler(opts.HealthCheckers))
	mux.Get("/livez", middleware.LivenessHandler)
	mux.Get("/readyz", middleware.ReadinessHandler)
	mux.Handle("/metrics", middleware.MetricsHandler())

	mux.Route("/api", func(rt chi.Router) {
		if opts.RateLimiter != nil {
			rt.Use(middleware.RateLimitMiddleware(opts.RateLimiter))
		}
		rt.Post("/explain", r.wrap(r.handleExplain))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

var errTooLarge = errors.New("request body too large")

// wrap maps handler errors to responses. Only validation messages reach the
// client; everything else is logged and answered with a fixed message.
func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			return
		}

		var verr *explain.ValidationError
		switch {
		case errors.As(err, &verr):
			logger.Warn(req.Context(), "explain request rejected", "field", verr.Field, "reason", verr.Message)
			writeJSON(w, http.StatusBadRequest, explain.ErrorResponse{Error: verr.Message})
		case errors.Is(err, errTooLarge):
			logger.Warn(req.Context(), "explain request rejected", "field", "request", "reason", msgTooLarge, "limit_bytes", r.maxUploadBytes)
			writeJSON(w, http.StatusRequestEntityTooLarge, explain.ErrorResponse{Error: msgTooLarge})
		default:
			if !errors.Is(err, domai.ErrAnalysis) {
				logger.Error(req.Context(), "explain request failed", err)
			}
			writeJSON(w, http.StatusInternalServerError, explain.ErrorResponse{Error: msgGenerateFailed})
		}
	}
}

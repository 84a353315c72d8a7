package server

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/trivia-api/internal/auth"
	"github.com/gokatarajesh/trivia-api/internal/auth/jwt"
	"github.com/gokatarajesh/trivia-api/internal/config"
	"github.com/gokatarajesh/trivia-api/internal/logging"
)

// PingFunc reports whether a dependency is reachable.
type PingFunc func(ctx context.Context) error

// Deps bundles what the router needs beyond configuration.
type Deps struct {
	Handlers *Handlers
	Metrics  *Metrics
	Gatherer prometheus.Gatherer
	// Editor guards mutating routes when non-nil.
	Editor *jwt.Manager
	// Ready is consulted by /readyz, keyed by dependency name.
	Ready map[string]PingFunc
}

// NewRouter wires the trivia routes plus health, readiness and metrics.
func NewRouter(cfg *config.App, logger zerolog.Logger, deps Deps) http.Handler {
	mux := http.NewServeMux()
	h := deps.Handlers
	editor := auth.RequireEditor(deps.Editor, logger)

	route := func(pattern, label string, handler http.Handler) {
		mux.Handle(pattern, instrument(deps.Metrics, label, handler))
	}

	route("GET /categories", "/categories", http.HandlerFunc(h.Categories))
	route("GET /categories/{id}/questions", "/categories/{id}/questions", http.HandlerFunc(h.QuestionsByCategory))
	route("GET /questions", "/questions", http.HandlerFunc(h.ListQuestions))
	route("POST /questions", "/questions", editor(http.HandlerFunc(h.CreateQuestion)))
	route("DELETE /questions/{id}", "/questions/{id}", editor(http.HandlerFunc(h.DeleteQuestion)))
	route("POST /questions/search", "/questions/search", http.HandlerFunc(h.SearchQuestions))
	route("POST /quizzes", "/quizzes", http.HandlerFunc(h.PlayQuiz))

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		for name, ping := range deps.Ready {
			if err := ping(ctx); err != nil {
				logger.Error().Err(err).Str("dependency", name).Msg("dependency ping failed")
				http.Error(w, "upstream error", http.StatusServiceUnavailable)
				return
			}
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ready"}`))
	})

	if deps.Gatherer != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	unmatched := instrument(deps.Metrics, "unmatched", mux)
	root := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, pattern := mux.Handler(r); pattern == "" {
			unmatched.ServeHTTP(&envelopeWriter{ResponseWriter: w}, r)
			return
		}
		mux.ServeHTTP(w, r)
	})

	return logging.Middleware(logger)(cors(cfg.CORS, root))
}

// NewHTTPServer builds the API server around NewRouter.
func NewHTTPServer(cfg *config.App, logger zerolog.Logger, deps Deps) *http.Server {
	return &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           NewRouter(cfg, logger, deps),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

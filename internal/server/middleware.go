package server

import (
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/gokatarajesh/trivia-api/internal/config"
	httperrors "github.com/gokatarajesh/trivia-api/pkg/http/errors"
)

type statusWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

// instrument records request count and latency under a fixed route label.
func instrument(m *Metrics, route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		m.observe(route, r.Method, sw.status, time.Since(start))
	})
}

// cors applies the configured cross-origin headers and answers preflights.
func cors(cfg config.CORS, next http.Handler) http.Handler {
	allowAll := slices.Contains(cfg.AllowedOrigins, "*")
	methods := strings.Join(cfg.AllowedMethods, ",")
	headers := strings.Join(cfg.AllowedHeaders, ", ")
	maxAge := strconv.Itoa(cfg.MaxAge)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		switch {
		case allowAll:
			w.Header().Set("Access-Control-Allow-Origin", "*")
		case origin != "" && slices.Contains(cfg.AllowedOrigins, origin):
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
		}
		w.Header().Set("Access-Control-Allow-Headers", headers)
		w.Header().Set("Access-Control-Allow-Methods", methods)

		if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
			w.Header().Set("Access-Control-Max-Age", maxAge)
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// envelopeWriter turns the mux's plain-text 404/405 replies into JSON envelopes.
type envelopeWriter struct {
	http.ResponseWriter
	replaced bool
}

func (w *envelopeWriter) WriteHeader(code int) {
	if w.replaced {
		return
	}
	w.replaced = true
	w.Header().Del("X-Content-Type-Options")
	switch code {
	case http.StatusMethodNotAllowed:
		httperrors.RespondMethodNotAllowed(w.ResponseWriter)
	case http.StatusNotFound:
		httperrors.RespondNotFound(w.ResponseWriter)
	default:
		httperrors.RespondError(w.ResponseWriter, code, http.StatusText(code))
	}
}

func (w *envelopeWriter) Write(b []byte) (int, error) {
	if !w.replaced {
		w.WriteHeader(http.StatusOK)
	}
	return len(b), nil
}

// Package httpapi is the chi-based HTTP front-end that wraps the analyzer
// and exposes an HTTP upload endpoint: multipart demo upload, /healthz,
// /metrics, and per-IP rate limiting.
package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// maxUploadBytes bounds a single demo upload; it is sized generously since
// a .dem file runs tens of megabytes rather than a JSON event line.
const maxUploadBytes = 256 << 20

// Parser decodes an uploaded demo and returns its analyzer summary. The real
// bitstream decoder is out of scope; cmd/serve.go leaves Parser nil, and
// with a nil Parser the upload endpoint answers 501 with
// errNoBitstreamDecoder's message.
type Parser interface {
	Parse(filename string, body []byte) (any, error)
}

// Store persists a parsed summary for later retrieval via `tf2stats
// list`/`tf2stats summary`.
type Store interface {
	SaveSummary(hash, filename string, summary any) error
}

// Config bundles the collaborators a Server needs. Logger/Limiter/Store/
// Parser are all optional; nil Limiter disables rate limiting, nil Store
// skips persistence.
type Config struct {
	Logger         *zap.Logger
	Parser         Parser
	Store          Store
	Limiter        *IPRateLimiter
	AllowedOrigins []string
}

// Server is the HTTP front-end. Router is exported so cmd/serve.go can hand
// it straight to http.ListenAndServe.
type Server struct {
	Router *chi.Mux

	logger  *zap.Logger
	parser  Parser
	store   Store
	limiter *IPRateLimiter
}

// New builds the router: CORS, request-id middleware, structured access
// logging, the upload endpoint, /healthz, and /metrics.
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	s := &Server{
		logger:  logger,
		parser:  cfg.Parser,
		store:   cfg.Store,
		limiter: cfg.Limiter,
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	if s.limiter != nil {
		r.Use(s.limiter.Middleware)
	}

	r.Get("/healthz", s.handleHealthz)
	r.Handle("/metrics", promhttp.Handler())
	r.Post("/api/v1/demos", s.handleUpload)

	s.Router = r
	return s
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqID := uuid.NewString()
		ctx := withRequestID(r.Context(), reqID)
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r.WithContext(ctx))

		s.logger.Info("request",
			zap.String("request_id", reqID),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

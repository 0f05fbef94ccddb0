package http

import (
	"context"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	applog "finman/internal/log"
	"finman/internal/middleware/ratelimit"
	"finman/internal/middleware/security"
	"finman/internal/middleware/trace"
	"finman/internal/presenter"
	appweb "finman/web"
)

// Options tunes the server's middleware.
type Options struct {
	RateLimitPerMinute int
	Logger             *applog.Logger
}

type Server struct {
	http.Server
	templates *template.Template
	presenter *presenter.Presenter
	logger    *applog.Logger

	rateLimiter      *ratelimit.Limiter
	securityDetector *security.Detector
	traceMiddleware  *trace.Middleware
	headers          *security.HeadersMiddleware

	appMetrics   *appMetrics
	shutdownOnce sync.Once
}

type appMetrics struct {
	uptime         time.Time
	entriesAdded   int64
	entriesRemoved int64
	rejected       int64
}

// NewServer configures routes, middleware and templates, returning a
// ready-to-run server.
func NewServer(addr string, p *presenter.Presenter, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = applog.Discard()
	}
	logger = logger.WithComponent(applog.ComponentHTTP)

	mux := http.NewServeMux()
	detector := security.NewDetector(logger)

	s := &Server{
		Server: http.Server{
			Addr:              addr,
			ReadHeaderTimeout: 10 * time.Second,
		},
		presenter:        p,
		logger:           logger,
		rateLimiter:      ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimitPerMinute}),
		securityDetector: detector,
		traceMiddleware:  trace.NewMiddleware(detector.ExtractClientIP, logger),
		headers:          security.NewHeadersMiddleware(security.DefaultHeadersConfig()),
		appMetrics:       &appMetrics{uptime: time.Now()},
	}

	// Parse embedded templates at startup.
	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		logger.Error("Failed parsing templates",
			applog.FieldError, err,
			applog.FieldErrorType, applog.ErrorTypeConfiguration)
	}
	s.templates = t

	// Static assets (served from embedded FS)
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", security.StaticAssetMiddleware(3600)(static))
	} else {
		logger.Warn("Failed to mount embedded static FS", applog.FieldError, err)
	}

	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)
	mux.HandleFunc("/entries", s.handleAddEntry)
	mux.HandleFunc("/entries/remove", s.handleRemoveEntry)
	mux.HandleFunc("/print", s.handlePrint)
	// UI partials
	mux.HandleFunc("/ui/screen", s.handleScreen)

	s.Handler = s.chain(mux)
	return s
}

// chain wraps h with tracing, request-scoped logging, suspicious request
// detection, security headers and POST rate limiting, outermost first.
func (s *Server) chain(h http.Handler) http.Handler {
	h = s.rateLimiter.Middleware(s.securityDetector.ExtractClientIP, s.onRateLimited, http.MethodPost)(h)
	h = s.headers.Middleware(h)
	h = s.securityDetector.Middleware(h)
	h = applog.RequestIDMiddleware(func(r *http.Request) string {
		return trace.GetRequestID(r.Context())
	})(h)
	h = applog.Middleware(s.logger)(h)
	return s.traceMiddleware.Middleware(h)
}

func (s *Server) onRateLimited(w http.ResponseWriter, r *http.Request) {
	s.logger.WarnContext(r.Context(), "Rate limit exceeded",
		applog.NewFields().
			WithClientIP(s.securityDetector.ExtractClientIP(r)).
			WithHTTPRequest(r.Method, r.URL.Path, "", r.Header.Get("User-Agent"), "").
			WithComponent(applog.ComponentRateLimit).
			ToSlice()...)
	ErrorResponse(http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.").
		Header("Retry-After", "60").
		TriggerErrorNotification("Too many requests, slow down").
		Write(w)
}

// Shutdown gracefully shuts down the server and its background routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func (s *Server) recordAdded()    { atomic.AddInt64(&s.appMetrics.entriesAdded, 1) }
func (s *Server) recordRemoved()  { atomic.AddInt64(&s.appMetrics.entriesRemoved, 1) }
func (s *Server) recordRejected() { atomic.AddInt64(&s.appMetrics.rejected, 1) }

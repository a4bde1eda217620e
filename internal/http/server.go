package http

import (
	"context"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	applog "mgnrega/internal/log"
	"mgnrega/internal/middleware/ratelimit"
	"mgnrega/internal/middleware/security"
	"mgnrega/internal/middleware/trace"
	appweb "mgnrega/web"
)

const staticMaxAge = 3600

// Options configures optional server behavior.
type Options struct {
	Logger                *applog.Logger
	Health                HealthChecker
	QueryTimeout          time.Duration
	ReportRequireSnapshot bool
	ReportRateLimit       int // per client per minute, 0 disables
	MetricsEnabled        bool
	// TrustedProxies lists addresses or CIDRs whose X-Forwarded-For is believed.
	TrustedProxies []string
}

type Server struct {
	http.Server
	templates *template.Template
	reader    DistrictReader
	health    HealthChecker
	logger    *applog.Logger
	events    *applog.StructuredLogger
	opts      Options
	limiter   *ratelimit.Limiter
	ips       ipResolver

	shutdownOnce sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run http.Server.
func NewServer(addr string, reader DistrictReader, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	logger = logger.WithComponent(applog.ComponentHTTP)

	mux := http.NewServeMux()
	s := &Server{
		Server: http.Server{Addr: addr},
		reader: reader,
		health: opts.Health,
		logger: logger,
		events: applog.NewStructuredLogger(logger),
		opts:   opts,
	}

	trusted, err := ParseTrustedProxies(opts.TrustedProxies)
	if err != nil {
		logger.Warn("Ignoring trusted proxies", "error", err)
	}
	s.ips = ipResolver{trusted: trusted}

	// Parse embedded templates at startup.
	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		logger.Warn("Failed parsing templates", "error", err)
	}
	s.templates = t

	// Static assets (served from embedded FS)
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("GET /static/", security.StaticAssetMiddleware(staticMaxAge)(static))
	} else {
		logger.Warn("Failed to mount embedded static FS", "error", err)
	}

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /api/data", s.handleData)
	mux.HandleFunc("GET /api/all_data", s.handleAllData)
	var reportHandler http.Handler = http.HandlerFunc(s.handleReport)
	if opts.ReportRateLimit > 0 {
		s.limiter = ratelimit.NewLimiter(ratelimit.Config{Name: "report", RequestsPerMinute: opts.ReportRateLimit})
		reportHandler = s.limiter.Middleware(s.ips.clientIP, func(w http.ResponseWriter, r *http.Request) {
			applog.FromContext(r.Context()).WarnContext(r.Context(), "Report rate limit exceeded", applog.FieldClientIP, s.ips.clientIP(r))
			writeError(w, http.StatusTooManyRequests, msgRateLimited)
		})(reportHandler)
	}
	mux.Handle("GET /api/report", reportHandler)
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	if opts.MetricsEnabled {
		mux.Handle("GET /metrics", promhttp.Handler())
	}

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	tracer := trace.NewMiddleware(logger, s.ips.clientIP, endpointLabel)

	var h http.Handler = mux
	h = headers.Middleware(h)
	h = applog.RequestIDMiddleware(trace.RequestID)(h)
	h = applog.Middleware(logger)(h)
	h = tracer.Middleware(h)
	s.Handler = h

	return s
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.limiter != nil {
			s.limiter.Stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// queryContext bounds store access for a single request.
func (s *Server) queryContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.opts.QueryTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.opts.QueryTimeout)
}

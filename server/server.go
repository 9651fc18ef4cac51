package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/ardnew/jidelnicek/allergen"
	"github.com/ardnew/jidelnicek/log"
	"github.com/ardnew/jidelnicek/menu"
	"github.com/ardnew/jidelnicek/pkg"
)

// DefaultAddr is the listen address used when none is configured.
const DefaultAddr = ":8080"

// shutdownTimeout bounds graceful shutdown after the run context ends.
const shutdownTimeout = 5 * time.Second

// ErrServe is returned when the listener fails.
var ErrServe = pkg.NewError("serve HTTP")

// Config holds the server settings.
type Config struct {
	// Addr is the TCP listen address.
	Addr string
	// CORSOrigins lists allowed browser origins; "*" allows any. Empty
	// disables CORS handling.
	CORSOrigins []string
	// Dictionary translates allergen codes. Nil selects the bundled one.
	Dictionary *allergen.Dictionary
	// Parser options applied to every feed request (URL template, client).
	Parser []menu.Option
	// Logger receives request and feed logs.
	Logger log.Logger
}

// Server serves the HTTP API.
type Server struct {
	cfg     Config
	router  *gin.Engine
	started time.Time
}

// New builds a Server and registers its routes.
func New(cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}

	if cfg.Dictionary == nil {
		cfg.Dictionary = allergen.Default()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestID())
	r.Use(requestLogger(cfg.Logger))

	if len(cfg.CORSOrigins) > 0 {
		r.Use(cors.New(corsConfig(cfg.CORSOrigins)))
	}

	s := &Server{cfg: cfg, router: r, started: time.Now()}
	s.routes()

	return s
}

// Handler returns the HTTP handler of the API.
func (s *Server) Handler() http.Handler { return s.router }

// Addr returns the configured listen address.
func (s *Server) Addr() string { return s.cfg.Addr }

// Run listens on the configured address until ctx is done, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return ErrServe.With(slog.String("addr", s.cfg.Addr)).Wrap(err)
	}

	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)

	go func() { errc <- srv.Serve(ln) }()

	s.cfg.Logger.InfoContext(ctx, "listening",
		slog.String("addr", ln.Addr().String()))

	select {
	case err := <-errc:
		return ErrServe.With(slog.String("addr", ln.Addr().String())).Wrap(err)

	case <-ctx.Done():
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		s.cfg.Logger.InfoContext(ctx, "shutting down")

		if err := srv.Shutdown(sctx); err != nil {
			return ErrServe.Wrap(err)
		}

		if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return ErrServe.Wrap(err)
		}

		return nil
	}
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Accept", "Content-Type"},
		ExposeHeaders: []string{requestIDHeader},
		MaxAge:        12 * time.Hour,
	}

	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true

			return cfg
		}
	}

	cfg.AllowOrigins = origins

	return cfg
}

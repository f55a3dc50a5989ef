// Package server exposes the math lab over HTTP: a JSON API for the
// calculator, classifier, analysis engine and cards, plus a websocket stream
// for Fibonacci auto-play.
package server

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"mathlab/internal/analysis"
	"mathlab/internal/classify"
	"mathlab/internal/logging"
	"mathlab/internal/session"
	"mathlab/internal/store"
)

const shutdownTimeout = 5 * time.Second

// Options configures a Server. Zero values fall back to the defaults of
// config.DefaultConfig.
type Options struct {
	Addr             string
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	FibMaxTerms      int
	FibDefaultTerms  int
	AutoPlayInterval time.Duration
	HistoryLimit     int
}

func (o Options) withDefaults() Options {
	if o.Addr == "" {
		o.Addr = "localhost:8937"
	}
	if o.ReadTimeout <= 0 {
		o.ReadTimeout = 15 * time.Second
	}
	if o.WriteTimeout <= 0 {
		o.WriteTimeout = 15 * time.Second
	}
	if o.FibMaxTerms <= 0 {
		o.FibMaxTerms = 90
	}
	if o.FibDefaultTerms <= 0 {
		o.FibDefaultTerms = 10
	}
	if o.AutoPlayInterval <= 0 {
		o.AutoPlayInterval = 700 * time.Millisecond
	}
	if o.HistoryLimit <= 0 {
		o.HistoryLimit = 20
	}
	return o
}

// Server provides the HTTP interface for the math lab.
type Server struct {
	opts       Options
	engine     *analysis.Engine
	classifier *classify.Classifier
	sessions   *session.Manager
	history    *store.Store
	logger     *zap.Logger
	router     *httprouter.Router
	upgrader   websocket.Upgrader
}

// New creates a server. A nil history disables recording.
func New(opts Options, sessions *session.Manager, history *store.Store, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if sessions == nil {
		sessions = session.NewManager(0, logger)
	}
	if history == nil {
		history = store.Disabled()
	}
	s := &Server{
		opts:       opts.withDefaults(),
		engine:     analysis.NewEngine(logger.Named("analysis")),
		classifier: classify.New(nil),
		sessions:   sessions,
		history:    history,
		logger:     logger,
		router:     httprouter.New(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // the page is served from its own origin
			},
		},
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	s.router.GET("/healthz", s.handleHealth)

	s.router.POST("/api/calc", s.handleCalc)
	s.router.POST("/api/classify", s.handleClassify)
	s.router.POST("/api/analyze", s.handleAnalyze)

	s.router.POST("/api/quadratic", s.handleQuadratic)
	s.router.GET("/api/fibonacci", s.handleFibonacci)
	s.router.POST("/api/fibonacci/next", s.handleFibonacciNext)

	s.router.POST("/api/sessions", s.handleCreateSession)
	s.router.GET("/api/sessions/:id/explain", s.handleExplain)
	s.router.DELETE("/api/sessions/:id", s.handleDeleteSession)

	s.router.GET("/api/history", s.handleHistory)

	s.router.GET("/ws/fibonacci", s.handleFibonacciStream)
}

// Handler returns the routed handler wrapped in request logging.
func (s *Server) Handler() http.Handler {
	return s.logRequests(s.router)
}

// Run listens on the configured address and serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.opts.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
		// Shutdown does not track hijacked websocket connections; their
		// streams stop when ctx is done.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("server listening", zap.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("server shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// statusRecorder captures the response status for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Hijack lets the websocket upgrader take over the connection.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	return h.Hijack()
}

// slowRequest is the duration above which a request is logged as a warning.
const slowRequest = time.Second

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		timer := logging.StartTimer(s.logger, r.Method+" "+r.URL.Path)
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		if rec.status == http.StatusSwitchingProtocols {
			// websocket streams outlive any request threshold
			timer.Stop(zap.Int("status", rec.status))
			return
		}
		timer.StopWithThreshold(slowRequest, zap.Int("status", rec.status))
	})
}

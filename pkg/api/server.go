package api

import (
	"context"
	"crypto/rand"
	"fmt"
	"net"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/yourusername/gammonboard/internal/log"
	"github.com/yourusername/gammonboard/internal/record"
)

// ServerConfig holds the server configuration.
type ServerConfig struct {
	Host         string        // Host to bind to (default "localhost")
	Port         int           // Port to listen on (default 8080)
	ReadTimeout  time.Duration // Read timeout (default 30s)
	WriteTimeout time.Duration // Write timeout (default 30s)
	IdleTimeout  time.Duration // Idle timeout (default 60s)
	TokenTTL     time.Duration // Seat token lifetime (default 24h)
	MaxTables    int           // Max open tables, 0 for no limit (default 1000)
	TableIdle    time.Duration // Table lifetime without commands or subscribers, 0 to keep tables open (default 30m)
	MaxWorkers   int           // Max concurrent record operations (default 4)
	MessageRate  float64       // Websocket messages per second and client (default 20)
}

// DefaultConfig returns a ServerConfig with sensible defaults.
func DefaultConfig() ServerConfig {
	return ServerConfig{
		Host:         "localhost",
		Port:         8080,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		TokenTTL:     24 * time.Hour,
		MaxTables:    1000,
		TableIdle:    30 * time.Minute,
		MaxWorkers:   4,
		MessageRate:  20,
	}
}

// Server is the HTTP API server.
type Server struct {
	config   ServerConfig
	handlers *Handlers
	server   *http.Server
	pool     *WorkerPool
	version  string
	log      log.Logger
	cancel   context.CancelFunc
}

// NewServer creates a new API server. Records are not kept when backend is nil.
func NewServer(config ServerConfig, backend record.Backend, l log.Logger, version string) (*Server, error) {
	if l == nil {
		l = log.Discard
	}
	if config.TokenTTL <= 0 {
		config.TokenTTL = DefaultConfig().TokenTTL
	}
	if config.MessageRate <= 0 {
		config.MessageRate = DefaultConfig().MessageRate
	}
	tokenizerCfg := TokenizerConfig{
		KeyReader: rand.Reader,
		TTL:       config.TokenTTL,
	}
	tokens, err := tokenizerCfg.NewTokenizer()
	if err != nil {
		return nil, fmt.Errorf("creating seat tokenizer: %w", err)
	}
	pool := NewWorkerPool(PoolConfig{MaxWorkers: config.MaxWorkers})
	ctx, cancel := context.WithCancel(context.Background())
	h := Handlers{
		version:     version,
		tables:      newLobby(ctx, config.MaxTables, config.TableIdle, l),
		tokens:      tokens,
		pool:        pool,
		messageRate: rate.Limit(config.MessageRate),
		log:         l,
	}
	if backend != nil {
		h.saver = &recordSaver{backend: backend, pool: pool}
	}
	s := Server{
		config:   config,
		handlers: &h,
		pool:     pool,
		version:  version,
		log:      l,
		cancel:   cancel,
	}
	return &s, nil
}

// Pool returns the worker pool for monitoring.
func (s *Server) Pool() *WorkerPool {
	return s.pool
}

// corsMiddleware adds CORS headers for browser access.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs all requests.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Printf("%s %s %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// Handler returns the routes with their middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", s.handlers.Health)
	mux.HandleFunc("POST /api/tables", s.handlers.CreateTable)
	mux.HandleFunc("GET /api/tables/{id}", s.handlers.GetTable)
	mux.HandleFunc("POST /api/tables/{id}/seats", s.handlers.CreateSeat)
	mux.HandleFunc("GET /api/tables/{id}/events", s.handlers.TableEvents)
	mux.HandleFunc("GET /api/tables/{id}/ws", s.handlers.WebSocket)
	mux.HandleFunc("GET /api/records/{id}", s.handlers.GetRecord)

	return corsMiddleware(s.loggingMiddleware(mux))
}

// Start listens on the configured address and serves until Shutdown.
func (s *Server) Start() error {
	addr := net.JoinHostPort(s.config.Host, fmt.Sprint(s.config.Port))

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	s.log.Printf("Starting gammonboard table server v%s on %s", s.version, addr)
	s.log.Printf("Endpoints:")
	s.log.Printf("  GET  /api/health              - Health check")
	s.log.Printf("  POST /api/tables              - Open a table")
	s.log.Printf("  GET  /api/tables/{id}         - Table state")
	s.log.Printf("  POST /api/tables/{id}/seats   - Seat token")
	s.log.Printf("  GET  /api/tables/{id}/events  - Table events (SSE)")
	s.log.Printf("  WS   /api/tables/{id}/ws      - Play at a table")
	s.log.Printf("  GET  /api/records/{id}        - Saved game record")

	return s.server.ListenAndServe()
}

// Shutdown stops the tables and gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	if s.server != nil {
		err = s.server.Shutdown(ctx)
	}
	s.Close()
	return err
}

// Close stops every table and waits for them.
func (s *Server) Close() {
	s.cancel()
	s.handlers.tables.wait()
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errChan := make(chan error, 1)

	go func() {
		errChan <- s.Start()
	}()

	select {
	case err := <-errChan:
		s.Close()
		return err
	case <-ctx.Done():
		s.log.Printf("Shutting down...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	if err := <-errChan; err != nil && err != http.ErrServerClosed {
		return err
	}

	s.log.Printf("Server stopped gracefully")
	return nil
}

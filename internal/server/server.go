package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/lox/bigtwo/internal/statistics"
)

const shutdownTimeout = 5 * time.Second

// Server hosts the configured tables over WebSocket
type Server struct {
	cfg      *Config
	upgrader websocket.Upgrader
	tables   map[string]*Table
	order    []string
	logger   *log.Logger

	mu    sync.Mutex
	conns map[*Connection]struct{}
}

// Option configures a Server
type Option func(*serverOptions)

type serverOptions struct {
	clock quartz.Clock
}

// WithClock sets the clock that drives turn timeouts
func WithClock(clock quartz.Clock) Option {
	return func(o *serverOptions) { o.clock = clock }
}

// NewServer creates a server and its tables. It fails if a table's deal
// file cannot be read.
func NewServer(cfg *Config, logger *log.Logger, opts ...Option) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	o := serverOptions{clock: quartz.NewReal()}
	for _, opt := range opts {
		opt(&o)
	}

	s := &Server{
		cfg: cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Clients are game bots and terminals, not browsers.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		tables: make(map[string]*Table, len(cfg.Tables)),
		logger: logger.WithPrefix("server"),
		conns:  make(map[*Connection]struct{}),
	}
	for _, tc := range cfg.Tables {
		table, err := NewTable(tc, o.clock, logger)
		if err != nil {
			return nil, fmt.Errorf("table %s: %w", tc.Name, err)
		}
		s.tables[tc.Name] = table
		s.order = append(s.order, tc.Name)
	}
	return s, nil
}

// Table returns a table by name
func (s *Server) Table(name string) (*Table, bool) {
	t, ok := s.tables[name]
	return t, ok
}

// Handler returns the HTTP handler serving /ws, /health and /stats
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/stats", s.handleStats)
	return mux
}

// Run listens on the configured address and serves until ctx is cancelled
func (s *Server) Run(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.cfg.Address())
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.cfg.Address(), err)
	}
	return s.Serve(ctx, ln)
}

// Serve runs every table and serves HTTP on ln until ctx is cancelled
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)

	for _, name := range s.order {
		table := s.tables[name]
		g.Go(func() error { return table.Run(gctx) })
	}

	httpServer := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	g.Go(func() error {
		s.logger.Info("Listening", "addr", ln.Addr().String(), "tables", len(s.tables))
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("Shutting down")
		err := httpServer.Shutdown(shutdownCtx)
		s.closeConnections()
		return err
	})

	return g.Wait()
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("table")
	if name == "" && len(s.order) > 0 {
		name = s.order[0]
	}
	table, ok := s.tables[name]
	if !ok {
		http.Error(w, "unknown table", http.StatusNotFound)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	client := NewConnection(conn, table, s.logger)
	s.track(client)
	client.Start()
	s.logger.Debug("Client connected", "table", name, "remote", r.RemoteAddr)
}

// track remembers a connection until it closes, so shutdown can close it
func (s *Server) track(c *Connection) {
	s.mu.Lock()
	s.conns[c] = struct{}{}
	s.mu.Unlock()

	go func() {
		<-c.Done()
		s.mu.Lock()
		delete(s.conns, c)
		s.mu.Unlock()
	}()
}

func (s *Server) closeConnections() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.conns {
		_ = c.Close()
	}
}

type healthResponse struct {
	Status string      `json:"status"`
	Tables []TableInfo `json:"tables"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok", Tables: make([]TableInfo, 0, len(s.order))}
	for _, name := range s.order {
		info, err := s.tables[name].Info(r.Context())
		if err != nil {
			resp.Status = "degraded"
			info = TableInfo{Name: name}
		}
		resp.Tables = append(resp.Tables, info)
	}

	w.Header().Set("Content-Type", "application/json")
	if resp.Status != "ok" {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// TableStats pairs a table name with its statistics
type TableStats struct {
	Name  string             `json:"name"`
	Stats statistics.Summary `json:"stats"`
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	out := make([]TableStats, 0, len(s.order))
	for _, name := range s.order {
		sum, err := s.tables[name].Stats(r.Context())
		if err != nil {
			http.Error(w, fmt.Sprintf("table %s: %v", name, err), http.StatusServiceUnavailable)
			return
		}
		out = append(out, TableStats{Name: name, Stats: sum})
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}

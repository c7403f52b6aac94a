package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"github.com/amribhatt/pega/internal/api"
	"github.com/amribhatt/pega/internal/config"
	"github.com/amribhatt/pega/internal/metrics"
	"github.com/amribhatt/pega/pkg/logging"
)

const (
	// Name is the MCP server name announced during initialization.
	Name = "MCPPegaServer"

	// DefaultReadHeaderTimeout is the timeout for reading request headers.
	DefaultReadHeaderTimeout = 10 * time.Second

	// DefaultIdleTimeout is the idle timeout for keepalive connections.
	DefaultIdleTimeout = 120 * time.Second

	// ShutdownTimeout bounds how long Stop waits for in-flight requests.
	ShutdownTimeout = 5 * time.Second

	healthPath      = "/healthz"
	sseEndpoint     = "/sse"
	messageEndpoint = "/message"
)

// CaseService is the set of operations exposed as tools and resources.
// *pega.Client implements it.
type CaseService interface {
	VerifyConnectivity(ctx context.Context) api.Outcome
	ListCaseTypes(ctx context.Context) api.Outcome
	CreateCase(ctx context.Context, caseTypeID string) api.Outcome
	CaseTypesSnapshot(ctx context.Context) string
	ConnectionStatusSnapshot(ctx context.Context) string
}

// Server serves the Pega tools over MCP.
type Server struct {
	cfg      *config.Config
	service  CaseService
	recorder *metrics.Recorder
	version  string

	mcpServer *server.MCPServer

	mu          sync.Mutex
	cancelFunc  context.CancelFunc
	httpServer  *http.Server
	listener    net.Listener
	stdioServer *server.StdioServer
	running     bool
	done        chan struct{}
	wg          sync.WaitGroup
}

// Option configures a Server.
type Option func(*Server)

// WithMetrics exposes recorder on the metrics path of the HTTP transports.
func WithMetrics(recorder *metrics.Recorder) Option {
	return func(s *Server) { s.recorder = recorder }
}

// WithVersion sets the version announced to clients.
func WithVersion(version string) Option {
	return func(s *Server) { s.version = version }
}

// New creates a Server with every tool, resource and prompt registered.
func New(cfg *config.Config, service CaseService, opts ...Option) *Server {
	s := &Server{
		cfg:     cfg,
		service: service,
		version: "dev",
	}
	for _, opt := range opts {
		opt(s)
	}

	s.mcpServer = server.NewMCPServer(
		Name,
		s.version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
	)

	s.registerTools()
	s.registerResources()
	s.registerPrompts()

	return s
}

// MCPServer returns the underlying mcp-go server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// Handler returns the HTTP handler for the configured transport. The stdio
// transport has no MCP routes; only the health and metrics endpoints remain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc(healthPath, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("ok"))
	})

	if s.cfg.Metrics.Enabled && s.recorder != nil {
		mux.Handle(s.cfg.Metrics.Path, s.recorder.Handler())
	}

	switch s.cfg.Server.Transport {
	case config.MCPTransportSSE:
		sseServer := server.NewSSEServer(
			s.mcpServer,
			server.WithSSEEndpoint(sseEndpoint),
			server.WithMessageEndpoint(messageEndpoint),
			server.WithKeepAlive(true),
			server.WithKeepAliveInterval(30*time.Second),
		)
		mux.Handle(sseEndpoint, sseServer)
		mux.Handle(messageEndpoint, sseServer)

	case config.MCPTransportStdio:
		// served on stdin/stdout by Start

	case config.MCPTransportStreamableHTTP:
		fallthrough
	default:
		streamable := server.NewStreamableHTTPServer(s.mcpServer)
		mux.Handle("/mcp", streamable)
		mux.Handle("/mcp/", streamable)
	}

	return mux
}

// Start serves the configured transport in the background. For the HTTP
// transports the listen address is bound before Start returns.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("server already started")
	}

	ctx, cancel := context.WithCancel(ctx)
	s.done = make(chan struct{})

	logging.Info("Server", "Starting MCP Pega Server for %s", s.cfg.BaseURL)

	switch s.cfg.Server.Transport {
	case config.MCPTransportStdio:
		logging.Info("Server", "Serving MCP over stdio")
		s.stdioServer = server.NewStdioServer(s.mcpServer)
		stdioServer := s.stdioServer
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer close(s.done)
			if err := stdioServer.Listen(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
				logging.Error("Server", err, "Stdio server error")
			}
		}()

	default:
		addr := s.cfg.Addr()
		ln, err := net.Listen("tcp", addr)
		if err != nil {
			cancel()
			return fmt.Errorf("failed to listen on %s: %w", addr, err)
		}

		s.listener = ln
		s.httpServer = &http.Server{
			Handler:           s.Handler(),
			ReadHeaderTimeout: DefaultReadHeaderTimeout,
			IdleTimeout:       DefaultIdleTimeout,
			BaseContext:       func(net.Listener) context.Context { return ctx },
		}
		httpServer := s.httpServer

		logging.Info("Server", "Serving MCP over %s on %s", s.cfg.Server.Transport, ln.Addr())
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer close(s.done)
			if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logging.Error("Server", err, "HTTP server error")
			}
		}()
	}

	s.cancelFunc = cancel
	s.running = true
	return nil
}

// Addr returns the bound address of the HTTP transports, or "" before Start
// and for stdio.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Done is closed when the transport stops serving, for example when stdin
// reaches EOF.
func (s *Server) Done() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

// Stop shuts the transport down, waiting up to ShutdownTimeout for
// in-flight requests.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return fmt.Errorf("server not started")
	}

	logging.Info("Server", "Stopping MCP Pega Server")

	cancelFunc := s.cancelFunc
	httpServer := s.httpServer
	s.mu.Unlock()

	// Cancelling ends open SSE streams and the stdio loop.
	cancelFunc()

	shutdownCtx, cancel := context.WithTimeout(ctx, ShutdownTimeout)
	defer cancel()

	var shutdownErr error
	if httpServer != nil {
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logging.Error("Server", err, "Error shutting down HTTP server")
			shutdownErr = fmt.Errorf("failed to shut down HTTP server: %w", err)
		}
	}

	s.wg.Wait()

	s.mu.Lock()
	s.httpServer = nil
	s.listener = nil
	s.stdioServer = nil
	s.cancelFunc = nil
	s.running = false
	s.mu.Unlock()

	return shutdownErr
}

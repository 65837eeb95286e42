// Package server provides the HTTP handlers and routing for the tool server.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"tool-mcp/internal/tools"
)

const (
	healthMessage      = "MCP Server is up and running!"
	msgRequestNotJSON  = "Request must be JSON"
	maxBodyBytes       = 1 << 20
	defaultReqTimeout  = 60 * time.Second
	defaultStopTimeout = 10 * time.Second
	readHeaderTimeout  = 10 * time.Second
	idleTimeout        = 60 * time.Second
)

var errNotJSON = errors.New("request body is not a JSON object")

// Config contains listener and middleware settings.
type Config struct {
	Addr            string
	CORSOrigins     []string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	TLSCertFile     string
	TLSKeyFile      string
}

// Server contains the configured router, tool registry and metrics.
type Server struct {
	cfg      Config
	router   *chi.Mux
	registry *tools.Registry
	metrics  *Metrics
	logger   zerolog.Logger
}

// New constructs a Server with middleware and routes configured.
func New(cfg Config, registry *tools.Registry, logger zerolog.Logger) *Server {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultReqTimeout
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultStopTimeout
	}

	s := &Server{
		cfg:      cfg,
		router:   chi.NewRouter(),
		registry: registry,
		metrics:  NewMetrics(),
		logger:   logger.With().Str("component", "http_server").Logger(),
	}
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.GetHead)
	s.router.Use(s.requestLogger)
	s.router.Use(s.recoverer)
	s.router.Use(s.corsHandler())
	s.router.Use(middleware.Timeout(cfg.RequestTimeout))

	s.router.Get("/", s.handleHealth)
	s.router.Get("/health", s.handleHealth)
	s.router.Get("/tools", s.handleListTools)
	s.router.Post("/tool_code", s.handleToolCode)
	s.router.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	return s
}

// Router exposes the root HTTP handler for the server.
func (s *Server) Router() http.Handler { return s.router }

// Run listens on cfg.Addr and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully
// within cfg.ShutdownTimeout.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	useTLS := s.cfg.TLSCertFile != "" && s.cfg.TLSKeyFile != ""
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: readHeaderTimeout,
		IdleTimeout:       idleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", ln.Addr().String()).Bool("tls", useTLS).Msg("Starting tool server")
		if useTLS {
			errCh <- srv.ServeTLS(ln, s.cfg.TLSCertFile, s.cfg.TLSKeyFile)
			return
		}
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	s.logger.Info().Msg("Shutting down tool server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "OK", Message: healthMessage})
}

func (s *Server) handleListTools(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, ToolList{Tools: s.registry.Describe()})
}

func (s *Server) handleToolCode(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	ref, err := decodeToolName(r)
	if err != nil {
		s.metrics.ObserveInvocation("", outcomeMalformed)
		s.logger.Debug().Err(err).Msg("rejecting tool request")
		writeError(w, http.StatusBadRequest, msgRequestNotJSON)
		return
	}

	res, err := s.registry.Invoke(r.Context(), ref.name)
	switch {
	case errors.Is(err, tools.ErrUnknownTool):
		s.metrics.ObserveInvocation("", outcomeUnknownTool)
		writeError(w, http.StatusNotFound, fmt.Sprintf("Tool '%s' not found.", ref.display))
		return
	case err != nil:
		s.metrics.ObserveInvocation(ref.name, outcomeFault)
		s.logger.Error().Err(err).Str("tool", ref.name).Msg("tool invocation failed")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.metrics.ObserveInvocation(string(res.Name), outcomeSuccess)
	s.logger.Debug().Str("tool", string(res.Name)).Msg("tool invoked")
	writeJSON(w, http.StatusOK, ToolResponse{Result: res.Output, Success: true, ToolName: string(res.Name)})
}

// toolRef is the tool_name of a request: name is matched against the
// registry, display is echoed back in the not-found message.
type toolRef struct {
	name    string
	display string
}

// decodeToolName requires a JSON content type and a JSON object body, and
// returns its tool_name. A missing or null tool_name displays as None and
// booleans as True/False; other non-string values display as their JSON
// text. Other fields are ignored.
func decodeToolName(r *http.Request) (toolRef, error) {
	if ct := r.Header.Get("Content-Type"); !isJSONMediaType(ct) {
		return toolRef{}, fmt.Errorf("%w: content type %q", errNotJSON, ct)
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return toolRef{}, fmt.Errorf("read body: %w", err)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return toolRef{}, fmt.Errorf("%w: %w", errNotJSON, err)
	}
	if fields == nil {
		return toolRef{}, errNotJSON
	}

	raw, ok := fields["tool_name"]
	if !ok {
		return toolRef{display: "None"}, nil
	}
	var name string
	if err := json.Unmarshal(raw, &name); err == nil {
		return toolRef{name: name, display: name}, nil
	}
	switch text := string(bytes.TrimSpace(raw)); text {
	case "null":
		return toolRef{display: "None"}, nil
	case "true":
		return toolRef{name: text, display: "True"}, nil
	case "false":
		return toolRef{name: text, display: "False"}, nil
	default:
		return toolRef{name: text, display: text}, nil
	}
}

func isJSONMediaType(ct string) bool {
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return false
	}
	return mt == "application/json" || strings.HasSuffix(mt, "+json")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message, Success: false})
}

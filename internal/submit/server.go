package submit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/a-h/templ"
)

// Server serves pending form posts on localhost. Each action is served
// until the server stops.
type Server struct {
	port     int
	registry string
	logger   *slog.Logger

	mu      sync.RWMutex
	actions map[string]Action
	addr    string
	srv     *http.Server
}

// NewServer creates a server listening on localhost:port once started.
// Port 0 picks a free port.
func NewServer(port int, logger *slog.Logger) *Server {
	return &Server{
		port:     port,
		registry: RegistryURL,
		logger:   logger.With(slog.String("component", "submit")),
		actions:  make(map[string]Action),
	}
}

// SetRegistryURL overrides where forms post to.
func (s *Server) SetRegistryURL(u string) { s.registry = u }

// Register makes a available under /id.
func (s *Server) Register(id string, a Action) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.actions[id] = a
}

// URL returns the local address of the action registered under id.
func (s *Server) URL(id string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	addr := s.addr
	if addr == "" {
		addr = fmt.Sprintf("localhost:%d", s.port)
	}
	return "http://" + addr + "/" + id
}

// Handler returns the HTTP handler with request logging applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{id}", s.handleAction)
	return logging(s.logger)(mux)
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	a, ok := s.actions[r.PathValue("id")]
	s.mu.RUnlock()
	if !ok {
		http.NotFound(w, r)
		return
	}
	renderTempl(w, r, SubmitForm(s.registry, a))
}

func renderTempl(w http.ResponseWriter, r *http.Request, component templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := component.Render(r.Context(), w); err != nil {
		http.Error(w, "render error", http.StatusInternalServerError)
	}
}

// Start listens and serves in the background until ctx is done or
// Shutdown is called.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", fmt.Sprintf("localhost:%d", s.port))
	if err != nil {
		return fmt.Errorf("listening for submissions: %w", err)
	}
	srv := &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.mu.Lock()
	s.addr = ln.Addr().String()
	s.srv = srv
	s.mu.Unlock()

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("submission server stopped", slog.String("error", err.Error()))
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.Shutdown(shutdownCtx)
	}()

	s.logger.Info("submission server started", slog.String("addr", s.addr))
	return nil
}

// Shutdown stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.RLock()
	srv := s.srv
	s.mu.RUnlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

// logging logs each request with its status and duration.
func logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(sw, r)

			logger.Info("http request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", sw.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

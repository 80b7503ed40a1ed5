// internal/server/server.go
// Description: The HTTP status surface. Serves the latest monitor snapshot
// on the configured endpoint.

package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/bzzzm/ghiseul-monitor/internal/config"
	"github.com/bzzzm/ghiseul-monitor/internal/status"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const shutdownGracePeriod = 5 * time.Second

// Server exposes the status store over HTTP.
type Server struct {
	cfg    config.WebConfig
	store  *status.Store
	logger *zap.Logger
	http   *http.Server
}

// NewServer builds the server with its routes mounted. Run must be called
// to start listening.
func NewServer(cfg config.WebConfig, store *status.Store, logger *zap.Logger) *Server {
	s := &Server{
		cfg:    cfg,
		store:  store,
		logger: logger.Named("server"),
	}

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(s.logRequests)
	r.Get(cfg.Endpoint, s.handleStatus)

	s.http = &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Run listens until ctx is canceled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Listening", zap.String("addr", s.cfg.Addr()), zap.String("endpoint", s.cfg.Endpoint))
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGracePeriod)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn("Shutdown did not complete cleanly", zap.Error(err))
		return err
	}
	<-errCh
	return nil
}

// logRequests emits one structured entry per request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("Request served",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("remote", r.RemoteAddr),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)))
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Read()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(snap); err != nil {
		s.logger.Error("Could not write status response", zap.Error(err))
	}
}

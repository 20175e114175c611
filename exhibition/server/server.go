// Package server exposes the exhibition state over HTTP: the JSON API used
// by the driver and the pages, the control panel endpoints, and the two
// embedded HTML pages themselves.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/EvelinyStark/vides-makslas-sarunas/exhibition/config"
	"github.com/EvelinyStark/vides-makslas-sarunas/exhibition/store"
	"github.com/EvelinyStark/vides-makslas-sarunas/exhibition/web"
	"github.com/rs/zerolog"
)

type Server struct {
	store        *store.Store
	apiKey       string
	historyLimit int
	logger       zerolog.Logger
	now          func() time.Time

	httpServer *http.Server
}

func New(cfg *config.Config, st *store.Store, logger zerolog.Logger) *Server {
	s := &Server{
		store:        st,
		apiKey:       cfg.Exhibition.APIKey,
		historyLimit: cfg.Exhibition.HistoryLimit,
		logger:       logger.With().Str("component", "server").Logger(),
		now:          time.Now,
	}

	s.httpServer = &http.Server{
		Addr:         cfg.Exhibition.ListenAddr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler builds the full route table wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/add-message", s.handleAddMessage)
	mux.HandleFunc("POST /api/update-status", s.handleUpdateStatus)
	mux.HandleFunc("GET /api/conversation", s.handleConversation)
	mux.HandleFunc("POST /api/clear-history", s.handleClearHistory)
	mux.HandleFunc("GET /api/stats", s.handleStats)

	mux.HandleFunc("POST /control/api/command", s.handleCommand)
	mux.HandleFunc("POST /control/api/check-commands", s.handleCheckCommands)
	mux.HandleFunc("GET /control/api/download", s.handleDownload)

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /control", servePage(web.ControlPage))
	mux.HandleFunc("GET /{$}", servePage(web.ViewerPage))

	return s.withRequestID(s.withAccessLog(s.withRecover(mux)))
}

// ListenAndServe runs the server until ctx is canceled, then drains
// in-flight requests.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.httpServer.Addr).Msg("listening")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.logger.Info().Msg("server stopped")
	return nil
}

func servePage(page []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(page)
	}
}

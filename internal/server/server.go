// Package server exposes the board, the labs gallery and the intake form over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/naka-gawa/idealab/internal/usecase"
	"github.com/naka-gawa/idealab/internal/view"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

// Options carries the page limits and links the handlers need.
type Options struct {
	BoardMax int
	LabsMax  int
	BoardURL string
}

// Server wires the usecases to HTTP handlers.
type Server struct {
	board    *usecase.Board
	gallery  *usecase.Gallery
	intake   *usecase.Intake
	health   *usecase.Health
	renderer *view.Renderer
	opts     Options
	logger   *zap.Logger

	now  func() time.Time
	intn func(int) int
}

// New creates a new Server.
func New(board *usecase.Board, gallery *usecase.Gallery, intake *usecase.Intake, health *usecase.Health, renderer *view.Renderer, opts Options, logger *zap.Logger) *Server {
	if opts.BoardURL == "" {
		opts.BoardURL = "/board"
	}
	return &Server{
		board:    board,
		gallery:  gallery,
		intake:   intake,
		health:   health,
		renderer: renderer,
		opts:     opts,
		logger:   logger,
		now:      time.Now,
		intn:     rand.IntN,
	}
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /board", s.handleBoard)
	mux.HandleFunc("GET /labs", s.handleLabs)
	mux.HandleFunc("GET /labs/random", s.handleRandom)
	mux.HandleFunc("GET /submit", s.handleSubmitForm)
	mux.HandleFunc("POST /submit", s.handleSubmit)
	mux.HandleFunc("GET /api/ideas", s.handleAPIIdeas)
	mux.HandleFunc("GET /api/molecules", s.handleAPIMolecules)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	return withRequestID(withAccessLog(s.logger, withSecurityHeaders(mux)))
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to serve on %s: %w", addr, err)
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down: %w", err)
		}
		return nil
	}
}

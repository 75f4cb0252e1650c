package usecase

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ComponentHealth is the outcome of probing one data source.
type ComponentHealth struct {
	Name    string `json:"name"`
	OK      bool   `json:"ok"`
	Records int    `json:"records"`
	Error   string `json:"error,omitempty"`
}

// Health probes the board and gallery sources.
type Health struct {
	board   *Board
	gallery *Gallery
	logger  *zap.Logger
}

func NewHealth(board *Board, gallery *Gallery, logger *zap.Logger) *Health {
	return &Health{board: board, gallery: gallery, logger: logger}
}

// Check loads both sources concurrently. Both probes always run to the end;
// the returned error is the first failure, if any.
func (h *Health) Check(ctx context.Context) ([]ComponentHealth, error) {
	results := []ComponentHealth{{Name: "board"}, {Name: "labs"}}

	var eg errgroup.Group
	eg.Go(func() error {
		ideas, err := h.board.Load(ctx)
		return record(&results[0], len(ideas), err)
	})
	eg.Go(func() error {
		molecules, err := h.gallery.Load(ctx)
		return record(&results[1], len(molecules), err)
	})
	err := eg.Wait()
	if err != nil {
		h.logger.Warn("Health check failed", zap.Error(err))
	}
	return results, err
}

func record(c *ComponentHealth, n int, err error) error {
	if err != nil {
		c.Error = err.Error()
		return err
	}
	c.OK = true
	c.Records = n
	return nil
}

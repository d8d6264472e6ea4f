// Package sheet wires the computation engine between storage and callers:
// load a snapshot, run a pass, optionally persist the results.
package sheet

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/udisondev/charsheet/internal/engine"
	"github.com/udisondev/charsheet/internal/model"
)

// Source loads one character's raw sheet records.
type Source interface {
	LoadSnapshot(ctx context.Context, charID int64) (model.Snapshot, error)
}

// Sink persists one character's computed sheet.
type Sink interface {
	SaveComputed(ctx context.Context, sheet model.ComputedSheet) error
}

// Service recomputes character sheets.
type Service struct {
	source Source
	sink   Sink
}

// New creates a sheet service over a snapshot source and a result sink.
func New(source Source, sink Sink) *Service {
	return &Service{source: source, sink: sink}
}

// Recompute loads, builds and computes one character's sheet without
// persisting anything.
func (s *Service) Recompute(ctx context.Context, charID int64) (model.ComputedSheet, error) {
	snap, err := s.source.LoadSnapshot(ctx, charID)
	if err != nil {
		return model.ComputedSheet{}, fmt.Errorf("load snapshot for character %d: %w", charID, err)
	}
	ws := engine.Build(charID, snap)
	return engine.New(ws).Compute(), nil
}

// RecomputeAndStore computes one character's sheet and hands it to the
// sink. A sink failure is logged, not returned: computed results are
// authoritative in memory and a storage hiccup must not fail the caller.
func (s *Service) RecomputeAndStore(ctx context.Context, charID int64) (model.ComputedSheet, error) {
	sheet, err := s.Recompute(ctx, charID)
	if err != nil {
		return model.ComputedSheet{}, err
	}
	if err := s.sink.SaveComputed(ctx, sheet); err != nil {
		slog.Error("failed to store computed sheet", "char_id", charID, "err", err)
	}
	return sheet, nil
}

// RecomputeMany recomputes and stores a batch of characters with at most
// limit computations in flight. Characters are independent: one failure is
// logged and the rest of the batch continues. Returns the number of
// characters recomputed.
func (s *Service) RecomputeMany(ctx context.Context, charIDs []int64, limit int) int {
	if limit < 1 {
		limit = 1
	}

	var done atomic.Int64
	var g errgroup.Group
	g.SetLimit(limit)

	for _, id := range charIDs {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if _, err := s.RecomputeAndStore(ctx, id); err != nil {
				slog.Error("failed to recompute character", "char_id", id, "err", err)
				return nil
			}
			done.Add(1)
			return nil
		})
	}
	g.Wait() //nolint:errcheck

	return int(done.Load())
}

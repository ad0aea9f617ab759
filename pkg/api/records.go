package api

import (
	"context"

	"github.com/yourusername/gammonboard/internal/record"
)

// recordSaver runs record operations through the worker pool.
type recordSaver struct {
	backend record.Backend
	pool    *WorkerPool
}

// save stores r in the background and reports the outcome to done. Cancelling ctx does
// not cancel the save.
func (s *recordSaver) save(ctx context.Context, r record.Record, done func(error)) {
	ctx = context.WithoutCancel(ctx)
	go func() {
		done(s.pool.Do(ctx, func(ctx context.Context) error {
			return s.backend.Save(ctx, r)
		}))
	}()
}

// load reads a record.
func (s *recordSaver) load(ctx context.Context, id string) (*record.Record, error) {
	var r *record.Record
	err := s.pool.Do(ctx, func(ctx context.Context) error {
		var err error
		r, err = s.backend.Load(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

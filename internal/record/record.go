// Package record stores finished or interrupted games so they can be replayed after the
// server restarts.
package record

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yourusername/gammonboard/internal/log"
	"github.com/yourusername/gammonboard/pkg/board"
)

type (
	// Record is one game: the position it started from, every move played and the
	// position it reached.
	Record struct {
		ID      string    `json:"id"`
		Initial string    `json:"initial"`
		Moves   []Move    `json:"moves"`
		Final   string    `json:"final"`
		Saved   time.Time `json:"saved"`
	}

	// Move is one applied checker move, by squares and in notation.
	Move struct {
		Orig     board.Key `json:"orig"`
		Dest     board.Key `json:"dest"`
		Notation string    `json:"notation"`
	}

	// Backend persists records.
	Backend interface {
		// Setup prepares the storage, creating tables or indexes as needed.
		Setup(ctx context.Context) error
		// Save creates or replaces the record with the same ID.
		Save(ctx context.Context, r Record) error
		// Load reads a record, returning ErrNotFound when there is none.
		Load(ctx context.Context, id string) (*Record, error)
	}

	// Config is shared by the backends.
	Config struct {
		// QueryPeriod is the amount of time that any database action can take before it should timeout
		QueryPeriod time.Duration
	}
)

// ErrNotFound is returned when no record has the requested ID.
var ErrNotFound = errors.New("record not found")

// Validate checks the record can be stored and replayed.
func (r Record) Validate() error {
	switch {
	case len(r.ID) == 0:
		return fmt.Errorf("record id required")
	case len(r.ID) > 64:
		return fmt.Errorf("record id must be at most 64 characters long")
	}
	if _, err := board.ParsePosition(r.Initial); err != nil {
		return fmt.Errorf("initial position: %w", err)
	}
	if _, err := board.ParsePosition(r.Final); err != nil {
		return fmt.Errorf("final position: %w", err)
	}
	return nil
}

// Validate checks the config has a usable query period.
func (cfg Config) Validate() error {
	if cfg.QueryPeriod <= 0 {
		return fmt.Errorf("positive query period required")
	}
	return nil
}

// Replay loads the initial position on a new board, plays every move with both sides
// movable and checks the board arrives at the final position. Moves are replayed free:
// a recorded move may have been authorized by its driver rather than by the legality
// rules, so only the board's own limits (blocked points, wrong off area) still apply.
func (r Record) Replay(l log.Logger) (*board.Board, error) {
	b := board.New(board.Options{Logger: l})
	initial := r.Initial
	both, free := board.MovableBoth, true
	cfg := board.Config{
		Position: &initial,
		Movable:  &board.MovableConfig{Color: &both, Free: &free},
	}
	if err := b.Configure(cfg); err != nil {
		return nil, fmt.Errorf("loading initial position: %w", err)
	}
	for i, m := range r.Moves {
		res, err := b.Play(m.Orig, m.Dest)
		if err != nil {
			return nil, fmt.Errorf("move %d (%s %s): %w", i+1, m.Orig, m.Dest, err)
		}
		if len(m.Notation) != 0 && res.Notation != m.Notation {
			return nil, fmt.Errorf("move %d played as %s, recorded as %s", i+1, res.Notation, m.Notation)
		}
	}
	free = false
	if err := b.Configure(board.Config{Movable: &board.MovableConfig{Free: &free}}); err != nil {
		return nil, err
	}
	b.Queue().Drain()
	final, err := b.Position()
	if err != nil {
		return nil, fmt.Errorf("reading final position: %w", err)
	}
	if len(r.Final) != 0 && !samePosition(final, r.Final) {
		return nil, fmt.Errorf("replay reached %q, recorded %q", final, r.Final)
	}
	return b, nil
}

// samePosition compares the checkers of two position strings, ignoring turn and markers.
func samePosition(a, b string) bool {
	pa, err := board.ParsePosition(a)
	if err != nil {
		return false
	}
	pb, err := board.ParsePosition(b)
	if err != nil {
		return false
	}
	return pa.Counts == pb.Counts
}

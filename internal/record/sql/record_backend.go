package sql

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/yourusername/gammonboard/internal/record"
)

//go:embed setup.sql
var setupSQL []byte

type (
	// RecordBackend stores records through the record_save and record_read functions.
	RecordBackend struct {
		Database Executor
	}

	// Executor contains methods to create and read data.
	Executor interface {
		// Setup initializes the database by reading the files.
		Setup(ctx context.Context, files []io.Reader) error
		// Query reads from the database without updating it.
		Query(ctx context.Context, q Query, dest ...interface{}) error
		// Exec makes a change to existing data, creating/modifying/removing it.
		Exec(ctx context.Context, queries ...Query) error
	}
)

var _ record.Backend = (*RecordBackend)(nil)

// Setup creates the records table and its functions.
func (rb *RecordBackend) Setup(ctx context.Context) error {
	files := []io.Reader{bytes.NewReader(setupSQL)}
	if err := rb.Database.Setup(ctx, files); err != nil {
		return fmt.Errorf("setting up records: %w", err)
	}
	return nil
}

// Save creates or replaces the record.
func (rb *RecordBackend) Save(ctx context.Context, r record.Record) error {
	if err := r.Validate(); err != nil {
		return err
	}
	moves, err := json.Marshal(r.Moves)
	if err != nil {
		return fmt.Errorf("encoding moves: %w", err)
	}
	q := NewExecFunction("record_save", r.ID, r.Initial, moves, r.Final, r.Saved.UTC())
	if err := rb.Database.Exec(ctx, q); err != nil {
		return fmt.Errorf("saving record: %w", err)
	}
	return nil
}

// Load reads the record with the id.
func (rb *RecordBackend) Load(ctx context.Context, id string) (*record.Record, error) {
	cols := []string{
		"id",
		"initial",
		"moves",
		"final",
		"saved",
	}
	q := NewQueryFunction("record_read", cols, id)
	var (
		r     record.Record
		moves []byte
		saved time.Time
	)
	if err := rb.Database.Query(ctx, q, &r.ID, &r.Initial, &moves, &r.Final, &saved); err != nil {
		if errors.Is(err, ErrNoRows) {
			return nil, record.ErrNotFound
		}
		return nil, fmt.Errorf("reading record: %w", err)
	}
	if err := json.Unmarshal(moves, &r.Moves); err != nil {
		return nil, fmt.Errorf("decoding moves of record %v: %w", id, err)
	}
	r.Saved = saved.UTC()
	return &r, nil
}

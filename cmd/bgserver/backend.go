package main

import (
	"context"
	"fmt"

	_ "github.com/lib/pq" // registers the "postgres" database driver
	"google.golang.org/api/option"

	"github.com/yourusername/gammonboard/internal/record"
	"github.com/yourusername/gammonboard/internal/record/firestore"
	"github.com/yourusername/gammonboard/internal/record/mongo"
	"github.com/yourusername/gammonboard/internal/record/sql"
)

// newBackend opens the record backend named by the db flag and sets it up. The returned
// function releases it. The backend is nil when records are not kept.
func (m mainFlags) newBackend(ctx context.Context) (record.Backend, func() error, error) {
	cfg := record.Config{
		QueryPeriod: m.queryPeriod,
	}
	noop := func() error { return nil }
	var (
		backend record.Backend
		closer  = noop
	)
	switch m.db {
	case "none":
		return nil, noop, nil
	case "memory":
		backend = record.NewMemoryBackend()
	case "postgres":
		if len(m.databaseURL) == 0 {
			return nil, nil, fmt.Errorf("data source required for postgres records")
		}
		db, err := sql.NewDatabase("postgres", m.databaseURL, cfg)
		if err != nil {
			return nil, nil, err
		}
		backend, closer = &sql.RecordBackend{Database: db}, db.Close
	case "mongo":
		if len(m.databaseURL) == 0 {
			return nil, nil, fmt.Errorf("data source required for mongo records")
		}
		rb, err := mongo.NewRecordBackend(ctx, cfg, m.databaseURL)
		if err != nil {
			return nil, nil, err
		}
		backend = rb
	case "firestore":
		if len(m.project) == 0 {
			return nil, nil, fmt.Errorf("firestore project required for firestore records")
		}
		var opts []option.ClientOption
		if len(m.credentials) != 0 {
			opts = append(opts, option.WithCredentialsFile(m.credentials))
		}
		rb, err := firestore.NewRecordBackend(ctx, cfg, m.project, opts...)
		if err != nil {
			return nil, nil, err
		}
		backend, closer = rb, rb.Close
	default:
		return nil, nil, fmt.Errorf("unknown record backend %q", m.db)
	}
	if err := backend.Setup(ctx); err != nil {
		closer()
		return nil, nil, fmt.Errorf("setting up %s records: %w", m.db, err)
	}
	return backend, closer, nil
}

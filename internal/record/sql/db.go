// Package sql stores game records in a SQL database through stored functions.
package sql

import (
	"context"
	"database/sql"
	"fmt"
	"io"

	"github.com/yourusername/gammonboard/internal/record"
)

type (
	// Database is a SQL database with the record timeouts.
	Database struct {
		DB *sql.DB
		record.Config
	}
)

// ErrNoRows is returned by Query when there are no rows to scan.
var ErrNoRows = sql.ErrNoRows

// NewDatabase opens a database with a registered driver. The connection is not checked
// until the first query.
func NewDatabase(driverName, databaseURL string, cfg record.Config) (*Database, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("creating sql database: %w", err)
	}
	db, err := sql.Open(driverName, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("opening %v database: %w", driverName, err)
	}
	d := Database{
		DB:     db,
		Config: cfg,
	}
	return &d, nil
}

// Setup initializes the database by reading the files and executing their contents as raw queries.
func (db Database) Setup(ctx context.Context, files []io.Reader) error {
	ctx, cancelFunc := context.WithTimeout(ctx, db.QueryPeriod)
	defer cancelFunc()
	queries := make([]Query, len(files))
	for i, f := range files {
		b, err := io.ReadAll(f)
		if err != nil {
			return fmt.Errorf("reading sql setup query %v: %w", i, err)
		}
		queries[i] = RawQuery(b)
	}
	if err := db.Exec(ctx, queries...); err != nil {
		return fmt.Errorf("running setup queries %w", err)
	}
	return nil
}

// Query queries a single row, scanning into the destination array.
func (db Database) Query(ctx context.Context, q Query, dest ...interface{}) error {
	ctx, cancelFunc := context.WithTimeout(ctx, db.QueryPeriod)
	defer cancelFunc()
	row := db.DB.QueryRowContext(ctx, q.Cmd(), q.Args()...)
	if err := row.Scan(dest...); err != nil {
		if err == sql.ErrNoRows {
			return err
		}
		return fmt.Errorf("querying into destination arguments: %w", err)
	}
	return nil
}

// Exec evaluates multiple queries in a transaction, ensuring each ExecFunction only updates one row.
func (db Database) Exec(ctx context.Context, queries ...Query) error {
	ctx, cancelFunc := context.WithTimeout(ctx, db.QueryPeriod)
	defer cancelFunc()
	tx, err := db.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	for i, q := range queries {
		result, err := tx.ExecContext(ctx, q.Cmd(), q.Args()...)
		if f, ok := q.(ExecFunction); err == nil && ok {
			var n int64
			n, err = result.RowsAffected()
			if err == nil && n != 1 {
				err = fmt.Errorf("wanted to update 1 row, but updated %d when calling %s", n, f.name)
			}
		}
		if err != nil {
			err = fmt.Errorf("executing query %v: %w", i, err)
			if err2 := tx.Rollback(); err2 != nil {
				return fmt.Errorf("rolling back transaction due to %v: %w", err, err2)
			}
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Close closes the database connections.
func (db Database) Close() error {
	return db.DB.Close()
}

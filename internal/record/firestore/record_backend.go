// Package firestore stores game records in a google cloud firestore database.
package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"

	"github.com/yourusername/gammonboard/internal/record"
	"github.com/yourusername/gammonboard/pkg/board"
)

const (
	servicesCollection = "services"
	serviceDocument    = "gammonboard"
	recordsCollection  = "records"
)

// RecordBackend is a backend manager for the records collection.
type RecordBackend struct {
	client *firestore.Client
	record.Config
}

var _ record.Backend = (*RecordBackend)(nil)

type (
	// recordDocument is the stored form of a record, keyed by the record id.
	recordDocument struct {
		Initial string         `firestore:"initial"`
		Moves   []moveDocument `firestore:"moves"`
		Final   string         `firestore:"final"`
		Saved   time.Time      `firestore:"saved"`
	}

	moveDocument struct {
		Orig     string `firestore:"orig"`
		Dest     string `firestore:"dest"`
		Notation string `firestore:"notation"`
	}
)

// NewRecordBackend creates a backend manager for records. Client options such as a
// credentials file are passed to the firestore client.
func NewRecordBackend(ctx context.Context, cfg record.Config, projectID string, opts ...option.ClientOption) (*RecordBackend, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("creating firestore record backend: %w", err)
	}
	client, err := firestore.NewClient(ctx, projectID, opts...) // do not timeout context - the client is used by the backend
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}
	rb := RecordBackend{
		client: client,
		Config: cfg,
	}
	return &rb, nil
}

func (rb *RecordBackend) recordsCollection() *firestore.CollectionRef {
	return rb.client.Collection(servicesCollection).Doc(serviceDocument).Collection(recordsCollection)
}

// withTimeoutContext configures the context to timeout when running the function.
func (rb *RecordBackend) withTimeoutContext(ctx context.Context, f func(ctx context.Context) error) error {
	ctx, cancelFunc := context.WithTimeout(ctx, rb.QueryPeriod)
	defer cancelFunc()
	return f(ctx)
}

// Setup does nothing; collections are created with their first document.
func (*RecordBackend) Setup(ctx context.Context) error {
	return nil
}

// Save creates or replaces the record document.
func (rb *RecordBackend) Save(ctx context.Context, r record.Record) error {
	if err := r.Validate(); err != nil {
		return err
	}
	if err := rb.withTimeoutContext(ctx, func(ctx context.Context) error {
		docRef := rb.recordsCollection().Doc(r.ID)
		_, err := docRef.Set(ctx, toDocument(r))
		return err
	}); err != nil {
		return fmt.Errorf("saving record: %w", err)
	}
	return nil
}

// Load reads the record document with the id.
func (rb *RecordBackend) Load(ctx context.Context, id string) (*record.Record, error) {
	var doc recordDocument
	if err := rb.withTimeoutContext(ctx, func(ctx context.Context) error {
		docRef := rb.recordsCollection().Doc(id)
		snapshot, err := docRef.Get(ctx)
		if err != nil {
			if snapshot != nil && !snapshot.Exists() {
				return record.ErrNotFound
			}
			return err
		}
		return snapshot.DataTo(&doc)
	}); err != nil {
		if err == record.ErrNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("reading record: %w", err)
	}
	r := doc.record(id)
	return &r, nil
}

// Close closes the firestore client.
func (rb *RecordBackend) Close() error {
	return rb.client.Close()
}

func toDocument(r record.Record) recordDocument {
	doc := recordDocument{
		Initial: r.Initial,
		Moves:   make([]moveDocument, len(r.Moves)),
		Final:   r.Final,
		Saved:   r.Saved.UTC(),
	}
	for i, m := range r.Moves {
		doc.Moves[i] = moveDocument{
			Orig:     string(m.Orig),
			Dest:     string(m.Dest),
			Notation: m.Notation,
		}
	}
	return doc
}

func (doc recordDocument) record(id string) record.Record {
	r := record.Record{
		ID:      id,
		Initial: doc.Initial,
		Final:   doc.Final,
		Saved:   doc.Saved.UTC(),
	}
	if len(doc.Moves) != 0 {
		r.Moves = make([]record.Move, len(doc.Moves))
		for i, m := range doc.Moves {
			r.Moves[i] = record.Move{
				Orig:     board.Key(m.Orig),
				Dest:     board.Key(m.Dest),
				Notation: m.Notation,
			}
		}
	}
	return r
}

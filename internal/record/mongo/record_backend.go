// Package mongo stores game records in a mongodb collection.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/yourusername/gammonboard/internal/record"
	"github.com/yourusername/gammonboard/pkg/board"
)

const (
	databaseName   = "gammonboard-db"
	collectionName = "records"
	idField        = "id"
	initialField   = "initial"
	movesField     = "moves"
	finalField     = "final"
	savedField     = "saved"
	origField      = "orig"
	destField      = "dest"
	notationField  = "notation"
)

// RecordBackend is a backend manager for a records collection.
type RecordBackend struct {
	Records *mongo.Collection
	record.Config
}

var _ record.Backend = (*RecordBackend)(nil)

type (
	// recordDocument is how a record is decoded from the collection.
	recordDocument struct {
		ID      string         `bson:"id"`
		Initial string         `bson:"initial"`
		Moves   []moveDocument `bson:"moves"`
		Final   string         `bson:"final"`
		Saved   time.Time      `bson:"saved"`
	}

	moveDocument struct {
		Orig     string `bson:"orig"`
		Dest     string `bson:"dest"`
		Notation string `bson:"notation"`
	}
)

// NewRecordBackend connects to the database and creates a backend manager for its records collection.
func NewRecordBackend(ctx context.Context, cfg record.Config, databaseURL string) (*RecordBackend, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("creating mongodb record backend: %w", err)
	}
	clientOptions := options.Client()
	clientOptions.ApplyURI(databaseURL)
	ctx, cancelFunc := context.WithTimeout(ctx, cfg.QueryPeriod)
	defer cancelFunc()
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("connecting to mongodb: %w", err)
	}
	database := client.Database(databaseName)
	rb := RecordBackend{
		Records: database.Collection(collectionName),
		Config:  cfg,
	}
	return &rb, nil
}

// Setup creates the unique id index.
func (rb *RecordBackend) Setup(ctx context.Context) error {
	indexOptions := options.Index()
	indexOptions.SetUnique(true)
	model := mongo.IndexModel{
		Keys:    d(e(idField, 1)),
		Options: indexOptions,
	}
	indexes := rb.Records.Indexes()
	ctx, cancelFunc := context.WithTimeout(ctx, rb.QueryPeriod)
	defer cancelFunc()
	if _, err := indexes.CreateOne(ctx, model); err != nil {
		return fmt.Errorf("creating unique record id index: %w", err)
	}
	return nil
}

// Save replaces the record with the same id, inserting it when there is none.
func (rb *RecordBackend) Save(ctx context.Context, r record.Record) error {
	if err := r.Validate(); err != nil {
		return err
	}
	filter := d(e(idField, r.ID))
	replaceOptions := options.Replace()
	replaceOptions.SetUpsert(true)
	ctx, cancelFunc := context.WithTimeout(ctx, rb.QueryPeriod)
	defer cancelFunc()
	if _, err := rb.Records.ReplaceOne(ctx, filter, toDocument(r), replaceOptions); err != nil {
		return fmt.Errorf("saving record: %w", err)
	}
	return nil
}

// Load reads the record with the id.
func (rb *RecordBackend) Load(ctx context.Context, id string) (*record.Record, error) {
	filter := d(e(idField, id))
	ctx, cancelFunc := context.WithTimeout(ctx, rb.QueryPeriod)
	defer cancelFunc()
	result := rb.Records.FindOne(ctx, filter)
	var doc recordDocument
	if err := result.Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, record.ErrNotFound
		}
		return nil, fmt.Errorf("reading record: %w", err)
	}
	r := doc.record()
	return &r, nil
}

// toDocument orders the fields of a record for storage.
func toDocument(r record.Record) bson.D {
	moves := make(bson.A, len(r.Moves))
	for i, m := range r.Moves {
		moves[i] = d(
			e(origField, string(m.Orig)),
			e(destField, string(m.Dest)),
			e(notationField, m.Notation),
		)
	}
	return d(
		e(idField, r.ID),
		e(initialField, r.Initial),
		e(movesField, moves),
		e(finalField, r.Final),
		e(savedField, r.Saved.UTC()),
	)
}

func (doc recordDocument) record() record.Record {
	r := record.Record{
		ID:      doc.ID,
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

// d is a helper function to create bson.D elements.
func d(e ...bson.E) bson.D {
	return bson.D(e)
}

// e is a helper function to create bson.E elements.
func e(key string, value interface{}) bson.E {
	return bson.E{Key: key, Value: value}
}

package api

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/yourusername/gammonboard/internal/log"
	"github.com/yourusername/gammonboard/internal/record"
	"github.com/yourusername/gammonboard/pkg/board"
)

// ErrTooManyTables is returned when the lobby is full.
var ErrTooManyTables = errors.New("too many tables")

// Lobby keeps the open tables. Tables run until the lobby's context is done or they
// were idle for a whole idle period.
type Lobby struct {
	mu     sync.RWMutex
	tables map[string]*Table
	max    int
	idle   time.Duration
	ctx    context.Context
	wg     sync.WaitGroup
	log    log.Logger
}

func newLobby(ctx context.Context, max int, idle time.Duration, l log.Logger) *Lobby {
	return &Lobby{
		tables: make(map[string]*Table),
		max:    max,
		idle:   idle,
		ctx:    ctx,
		log:    l,
	}
}

// open starts a table hosting b.
func (l *Lobby) open(b *board.Board, initial string, moves []record.Move) (*Table, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.max > 0 && len(l.tables) >= l.max {
		return nil, ErrTooManyTables
	}
	id, err := l.newID()
	if err != nil {
		return nil, err
	}
	t := newTable(id, b, initial, moves, l.log)
	l.tables[id] = t
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		t.run(l.ctx, l.idle, func() { l.remove(id) })
	}()
	l.log.Printf("opened table %s", id)
	return t, nil
}

// newID returns an unused random id. It is called with the lock held.
func (l *Lobby) newID() (string, error) {
	b := make([]byte, 6)
	for {
		if _, err := rand.Read(b); err != nil {
			return "", fmt.Errorf("generating table id: %w", err)
		}
		id := hex.EncodeToString(b)
		if _, ok := l.tables[id]; !ok {
			return id, nil
		}
	}
}

// remove forgets a table that stopped running.
func (l *Lobby) remove(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.tables[id]; !ok {
		l.log.Printf("no table to remove with id %v", id)
		return
	}
	delete(l.tables, id)
	l.log.Printf("closed table %s", id)
}

func (l *Lobby) get(id string) (*Table, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	t, ok := l.tables[id]
	return t, ok
}

// Len returns the number of open tables.
func (l *Lobby) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.tables)
}

// wait blocks until every table stopped.
func (l *Lobby) wait() {
	l.wg.Wait()
}

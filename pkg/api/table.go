package api

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yourusername/gammonboard/internal/log"
	"github.com/yourusername/gammonboard/internal/positionid"
	"github.com/yourusername/gammonboard/internal/record"
	"github.com/yourusername/gammonboard/pkg/board"
	"github.com/yourusername/gammonboard/pkg/external"
)

// ErrTableClosed is returned for commands sent to a table that stopped running.
var ErrTableClosed = errors.New("table closed")

// errSeat is returned when a seat tries to act for the other color.
var errSeat = errors.New("seat may not act for that color")

// subscriberBuffer is how many messages a subscriber may fall behind before it is dropped.
const subscriberBuffer = 64

// subscriber receives a table's notifications. It is closed by the table.
type subscriber chan WSResponse

// Table hosts one board. Every board call runs on the table's goroutine: commands
// arrive through a channel and queued notifications are drained after each of them.
type Table struct {
	id    string
	board *board.Board
	cmds  chan func()
	done  chan struct{}
	log   log.Logger
	now   func() time.Time

	// owned by the table goroutine
	subs    map[subscriber]struct{}
	initial string
	moves   []record.Move
}

// newTable wraps b. initial and moves are the record the board's position came from.
func newTable(id string, b *board.Board, initial string, moves []record.Move, l log.Logger) *Table {
	t := Table{
		id:      id,
		board:   b,
		cmds:    make(chan func()),
		done:    make(chan struct{}),
		log:     l,
		now:     time.Now,
		subs:    make(map[subscriber]struct{}),
		initial: initial,
		moves:   moves,
	}
	b.SetEvents(board.Events{
		Change: func() {
			t.broadcast(WSResponse{Type: "change", Payload: t.state()})
		},
		Move: func(orig, dest board.Key, captured *board.Piece) {
			t.broadcast(WSResponse{Type: "move", Payload: MoveEvent{Orig: orig, Dest: dest, Captured: captured}})
		},
		DropNewPiece: func(piece board.Piece, key board.Key) {
			t.broadcast(WSResponse{Type: "drop", Payload: DropEvent{Piece: piece, Key: key}})
		},
		Select: func(key board.Key) {
			t.broadcast(WSResponse{Type: "select", Payload: SelectEvent{Key: key}})
		},
		After: func(orig, dest board.Key, meta board.MoveMetadata) {
			t.recordMove(orig, dest)
			t.broadcast(WSResponse{Type: "after", Payload: AfterEvent{Orig: orig, Dest: dest, Meta: meta}})
		},
		AfterNewPiece: func(role board.Role, key board.Key, meta board.MoveMetadata) {
			t.restartRecord()
			t.broadcast(WSResponse{Type: "after", Payload: AfterEvent{Role: role, Key: key, Meta: meta}})
		},
	})
	return &t
}

// ID returns the table id.
func (t *Table) ID() string {
	return t.id
}

// run processes commands and notifications until the context is done, or until a whole
// idle period passed without commands while nobody was subscribed. remove is called
// once the table stopped accepting commands. A zero idle period keeps the table open.
func (t *Table) run(ctx context.Context, idlePeriod time.Duration, remove func()) {
	defer func() {
		for ch := range t.subs {
			close(ch)
		}
		t.subs = nil
		close(t.done)
		if remove != nil {
			remove()
		}
	}()
	var idle <-chan time.Time
	if idlePeriod > 0 {
		idleTicker := time.NewTicker(idlePeriod)
		defer idleTicker.Stop()
		idle = idleTicker.C
	}
	active := false
	q := t.board.Queue()
	for {
		select {
		case <-ctx.Done():
			return
		case f := <-t.cmds:
			active = true
			f()
			q.Drain()
		case <-q.Ready():
			q.Drain()
		case <-idle:
			if !active && len(t.subs) == 0 {
				t.log.Printf("table %s closed due to inactivity", t.id)
				return
			}
			active = false
		}
	}
}

// do runs f on the table goroutine and waits for it to return.
func (t *Table) do(ctx context.Context, f func()) error {
	finished := make(chan struct{})
	cmd := func() {
		defer close(finished)
		f()
	}
	select {
	case t.cmds <- cmd:
	case <-t.done:
		return ErrTableClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-finished:
		return nil
	case <-t.done:
		return ErrTableClosed
	}
}

// State returns a snapshot of the board.
func (t *Table) State(ctx context.Context) (*TableState, error) {
	var s *TableState
	if err := t.do(ctx, func() { s = t.state() }); err != nil {
		return nil, err
	}
	return s, nil
}

// Subscribe registers a new subscriber and sends it the current state.
func (t *Table) Subscribe(ctx context.Context) (subscriber, error) {
	ch := make(subscriber, subscriberBuffer)
	if err := t.do(ctx, func() {
		t.subs[ch] = struct{}{}
		ch <- WSResponse{Type: "state", Payload: t.state()}
	}); err != nil {
		return nil, err
	}
	return ch, nil
}

// Unsubscribe removes and closes a subscriber.
func (t *Table) Unsubscribe(ctx context.Context, ch subscriber) {
	t.do(ctx, func() { t.drop(ch) })
}

// Reply sends a message to one subscriber if it is still registered.
func (t *Table) Reply(ctx context.Context, ch subscriber, msg WSResponse) {
	t.do(ctx, func() { t.send(ch, msg) })
}

// Handle executes a websocket message for a seat of the given color, replying to ch.
func (t *Table) Handle(ctx context.Context, ch subscriber, seat board.MovableColor, msg WSMessage, saver *recordSaver) error {
	return t.do(ctx, func() {
		reply, err := t.handle(ctx, ch, seat, msg, saver)
		switch {
		case err != nil:
			t.send(ch, WSResponse{Type: "error", ID: msg.ID, Error: err.Error()})
		case reply != nil:
			reply.ID = msg.ID
			t.send(ch, *reply)
		}
	})
}

func (t *Table) handle(ctx context.Context, ch subscriber, seat board.MovableColor, msg WSMessage, saver *recordSaver) (*WSResponse, error) {
	switch msg.Type {
	case "ping":
		return &WSResponse{Type: "pong"}, nil
	case "select":
		var p SelectPayload
		if err := decodePayload(msg, &p); err != nil {
			return nil, err
		}
		if !t.maySelect(seat, p.Key) {
			return nil, errSeat
		}
		t.board.SelectSquare(p.Key, p.Force)
		return nil, nil
	case "move":
		var p MovePayload
		if err := decodePayload(msg, &p); err != nil {
			return nil, err
		}
		if !t.owns(seat, p.Orig) {
			return nil, errSeat
		}
		if _, err := t.board.Play(p.Orig, p.Dest); err != nil {
			return nil, err
		}
		return nil, nil
	case "drop":
		var p DropPayload
		if err := decodePayload(msg, &p); err != nil {
			return nil, err
		}
		if !t.owns(seat, p.Orig) {
			return nil, errSeat
		}
		t.board.DropNewPiece(p.Orig, p.Dest, p.Force)
		return nil, nil
	case "config":
		if seat != board.MovableBoth {
			return nil, errSeat
		}
		cfg, err := board.ParseConfig(msg.Payload)
		if err != nil {
			return nil, err
		}
		if err := t.board.Configure(cfg); err != nil {
			return nil, err
		}
		if cfg.Position != nil {
			t.restartRecord()
		}
		return &WSResponse{Type: "state", Payload: t.state()}, nil
	case "position":
		if seat != board.MovableBoth {
			return nil, errSeat
		}
		var p PositionPayload
		if err := decodePayload(msg, &p); err != nil {
			return nil, err
		}
		if err := t.loadPosition(p); err != nil {
			return nil, err
		}
		t.board.Reset()
		t.restartRecord()
		return &WSResponse{Type: "state", Payload: t.state()}, nil
	case "reset":
		if seat != board.MovableBoth {
			return nil, errSeat
		}
		t.board.Reset()
		t.restartRecord()
		return &WSResponse{Type: "state", Payload: t.state()}, nil
	case "save":
		if saver == nil {
			return nil, fmt.Errorf("records are not kept")
		}
		r, err := t.record()
		if err != nil {
			return nil, err
		}
		saver.save(ctx, r, func(err error) {
			resp := WSResponse{Type: "saved", ID: msg.ID, Payload: SavedEvent{Record: r.ID, Moves: len(r.Moves)}}
			if err != nil {
				t.log.Printf("table %s: saving record: %v", t.id, err)
				resp = WSResponse{Type: "error", ID: msg.ID, Error: "saving record failed"}
			}
			t.Reply(context.Background(), ch, resp)
		})
		return nil, nil
	}
	return nil, fmt.Errorf("unknown message type %q", msg.Type)
}

// loadPosition replaces the position from one of the payload's formats.
func (t *Table) loadPosition(p PositionPayload) error {
	switch {
	case len(p.Position) != 0:
		pos := p.Position
		return t.board.Configure(board.Config{Position: &pos})
	case len(p.PositionID) != 0:
		c, err := positionid.CountsFromID(p.PositionID)
		if err != nil {
			return err
		}
		return t.board.LoadCounts(c, t.board.TurnColor())
	case len(p.FIBS) != 0:
		fb, err := external.ParseFIBSBoard(p.FIBS)
		if err != nil {
			return err
		}
		c, err := fb.Counts()
		if err != nil {
			return err
		}
		return t.board.LoadCounts(c, fb.TurnColor())
	}
	return fmt.Errorf("position, position_id or fibs required")
}

// owns reports whether the seat may move the piece on key.
func (t *Table) owns(seat board.MovableColor, key board.Key) bool {
	p, ok := t.board.Pieces()[key]
	return ok && seatAllows(seat, p.Color)
}

// maySelect reports whether the seat may pick key: a piece of its own, or any square
// once one of its pieces is selected.
func (t *Table) maySelect(seat board.MovableColor, key board.Key) bool {
	if sel, ok := t.board.Selected(); ok && t.owns(seat, sel) {
		return true
	}
	if _, taken := t.board.Pieces()[key]; !taken {
		return true
	}
	return t.owns(seat, key)
}

func seatAllows(seat board.MovableColor, c board.Color) bool {
	return seat == board.MovableBoth || string(seat) == c.String()
}

// state builds a snapshot; it runs on the table goroutine.
func (t *Table) state() *TableState {
	s := TableState{
		ID:          t.id,
		Turn:        t.board.TurnColor(),
		Orientation: t.board.Orientation(),
		Pieces:      t.board.Pieces(),
		LastMove:    t.board.LastMove(),
		MoveLog:     t.board.MoveLog(),
	}
	if s.MoveLog == nil {
		s.MoveLog = []string{}
	}
	if pos, err := t.board.Position(); err == nil {
		s.Position = pos
	} else {
		t.log.Printf("table %s: %v", t.id, err)
	}
	if c, ok := t.board.Counts(); ok {
		s.Counts = &c
		s.PositionID = positionid.IDFromCounts(c)
	}
	if sel, ok := t.board.Selected(); ok {
		s.Selected = sel
	}
	return &s
}

// recordMove appends the move just applied, its notation being the last logged.
func (t *Table) recordMove(orig, dest board.Key) {
	moveLog := t.board.MoveLog()
	if len(moveLog) == 0 {
		return
	}
	t.moves = append(t.moves, record.Move{Orig: orig, Dest: dest, Notation: moveLog[len(moveLog)-1]})
}

// restartRecord makes the current position the start of the record.
func (t *Table) restartRecord() {
	pos, err := t.board.Position()
	if err != nil {
		t.log.Printf("table %s: restarting record: %v", t.id, err)
		return
	}
	t.initial = pos
	t.moves = nil
}

// record returns the game so far.
func (t *Table) record() (record.Record, error) {
	final, err := t.board.Position()
	if err != nil {
		return record.Record{}, err
	}
	r := record.Record{
		ID:      t.id,
		Initial: t.initial,
		Moves:   append([]record.Move(nil), t.moves...),
		Final:   final,
		Saved:   t.now().UTC(),
	}
	return r, nil
}

func (t *Table) broadcast(msg WSResponse) {
	for ch := range t.subs {
		t.send(ch, msg)
	}
}

// send delivers msg without blocking, dropping a subscriber that fell behind.
func (t *Table) send(ch subscriber, msg WSResponse) {
	if _, ok := t.subs[ch]; !ok {
		return
	}
	select {
	case ch <- msg:
	default:
		t.log.Printf("table %s: dropping slow subscriber", t.id)
		t.drop(ch)
	}
}

func (t *Table) drop(ch subscriber) {
	if _, ok := t.subs[ch]; ok {
		delete(t.subs, ch)
		close(ch)
	}
}

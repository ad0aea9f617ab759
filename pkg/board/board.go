package board

import (
	"fmt"
	"time"

	"github.com/yourusername/gammonboard/internal/log"
)

// Events are the driver's notification callbacks. They are queued, never called from
// inside the board operation that triggers them.
type Events struct {
	// Change fires after the position changed.
	Change func()
	// Move fires for every elementary relocation, captured set when a checker was hit.
	Move func(orig, dest Key, captured *Piece)
	// DropNewPiece fires when a piece is placed on the board.
	DropNewPiece func(piece Piece, key Key)
	// Select fires for every square the user picks.
	Select func(key Key)
	// After fires once a user move was applied.
	After func(orig, dest Key, meta MoveMetadata)
	// AfterNewPiece fires once a user drop was applied.
	AfterNewPiece func(role Role, key Key, meta MoveMetadata)
}

// Options configure the board's collaborators.
type Options struct {
	Logger log.Logger
	Queue  *Queue
	// Now is the hold timer's clock, time.Now when nil.
	Now func() time.Time
}

// Board holds the sparse piece map, the canonical counts and the interaction state.
// It is not safe for concurrent use; callers serialize every method.
type Board struct {
	pieces Pieces
	counts *Counts
	// shadow follows the counts while tracking is off, so checkers hidden behind an
	// overflow marker survive. It is nil once an edit broke it.
	shadow   *Counts
	lastMove []Key
	moveLog  []string
	selected Key
	settings settings
	hold     *HoldTimer
	stats    Stats
	events   Events
	queue    *Queue
	log      log.Logger
}

// New creates an empty board with the default settings: both sides movable, counts tracked.
func New(opts Options) *Board {
	b := Board{
		pieces:   make(Pieces),
		settings: defaultSettings(),
		hold:     NewHoldTimer(opts.Now),
		queue:    opts.Queue,
		log:      opts.Logger,
	}
	if b.queue == nil {
		b.queue = NewQueue()
	}
	if b.log == nil {
		b.log = log.Discard
	}
	var empty Counts
	empty[WhiteOffSlot] = CheckersPerSide
	empty[BlackOffSlot] = -CheckersPerSide
	b.counts = &empty
	return &b
}

// Queue returns the queue notifications are delivered through.
func (b *Board) Queue() *Queue {
	return b.queue
}

// SetEvents replaces the notification callbacks.
func (b *Board) SetEvents(e Events) {
	b.events = e
}

// SetStats records the gesture of the interaction in progress.
func (b *Board) SetStats(s Stats) {
	b.stats = s
}

// Configure applies every non-nil field of cfg. A bad position or option leaves the
// board untouched.
func (b *Board) Configure(cfg Config) error {
	s := b.settings
	if err := s.apply(cfg); err != nil {
		return err
	}
	var pos *Position
	if cfg.Position != nil {
		p, err := ParsePosition(*cfg.Position)
		if err != nil {
			return err
		}
		pos = p
	}
	var (
		counts    *Counts
		reproject bool
	)
	switch {
	case pos != nil && s.trackCounts:
		c := pos.Counts
		counts = &c
	case pos == nil && s.trackCounts && b.counts == nil:
		c, err := b.currentCounts()
		if err != nil {
			return err
		}
		counts, reproject = &c, true
	case s.trackCounts:
		counts = b.counts
	}
	shadow := b.shadow
	switch {
	case counts != nil:
		shadow = nil
	case pos != nil:
		c := pos.Counts
		shadow = &c
	case b.counts != nil:
		shadow = b.counts
	}
	b.settings = s
	b.counts = counts
	b.shadow = shadow
	if reproject {
		counts.project(b.pieces)
	}
	if pos != nil {
		b.pieces = pos.Pieces()
		if cfg.TurnColor == nil {
			b.settings.turnColor = pos.Turn
		}
		b.emit(b.events.Change)
	}
	if cfg.LastMove != nil {
		b.lastMove = append([]Key(nil), *cfg.LastMove...)
		if len(b.lastMove) == 0 {
			b.lastMove = nil
		}
	}
	if cfg.Selected != nil {
		b.SetSelected(*cfg.Selected)
	}
	return nil
}

// LoadCounts replaces the position with counts, as imported from another format.
func (b *Board) LoadCounts(c Counts, turn Color) error {
	if err := c.Validate(); err != nil {
		return err
	}
	b.pieces = c.Pieces()
	if b.settings.trackCounts {
		b.counts = &c
	} else {
		b.shadow = &c
	}
	b.settings.turnColor = turn
	b.emit(b.events.Change)
	return nil
}

// Reset clears the last move, the move log and the selection.
func (b *Board) Reset() {
	b.lastMove = nil
	b.moveLog = nil
	b.Unselect()
}

// ToggleOrientation flips the side facing the viewer.
func (b *Board) ToggleOrientation() {
	b.settings.orientation = b.settings.orientation.Opposite()
	b.selected = ""
}

// Orientation returns the side facing the viewer.
func (b *Board) Orientation() Color {
	return b.settings.orientation
}

// TurnColor returns the side to move.
func (b *Board) TurnColor() Color {
	return b.settings.turnColor
}

// Pieces returns a snapshot of the sparse map.
func (b *Board) Pieces() Pieces {
	return b.pieces.Clone()
}

// Counts returns a copy of the canonical counts, false when they are not tracked.
func (b *Board) Counts() (Counts, bool) {
	if b.counts == nil {
		return Counts{}, false
	}
	return *b.counts, true
}

// LastMove returns the squares to highlight.
func (b *Board) LastMove() []Key {
	return append([]Key(nil), b.lastMove...)
}

// MoveLog returns the notation of every move since the last reset.
func (b *Board) MoveLog() []string {
	return append([]string(nil), b.moveLog...)
}

// Selected returns the selected square, false when nothing is selected.
func (b *Board) Selected() (Key, bool) {
	return b.selected, b.selected != ""
}

// Position returns the position string of the board.
func (b *Board) Position() (string, error) {
	c, err := b.currentCounts()
	if err != nil {
		return "", err
	}
	return FormatPosition(c, b.settings.turnColor, b.pieces), nil
}

func (b *Board) currentCounts() (Counts, error) {
	switch {
	case b.counts != nil:
		return *b.counts, nil
	case b.shadow != nil:
		return *b.shadow, nil
	}
	return deriveCounts(b.pieces, nil)
}

// emit queues a notification.
func (b *Board) emit(f func()) {
	if f != nil {
		b.queue.Push(f)
	}
}

func (b *Board) emitMove(orig, dest Key, captured *Piece) {
	if f := b.events.Move; f != nil {
		b.queue.Push(func() { f(orig, dest, captured) })
	}
}

// SelectSquare handles the user picking a square: it may select, deselect, or complete
// a move from the selected square.
func (b *Board) SelectSquare(key Key, force bool) {
	if f := b.events.Select; f != nil {
		b.queue.Push(func() { f(key) })
	}
	if b.selected != "" {
		if b.selected == key && !b.settings.draggable {
			b.Unselect()
			return
		}
		if (b.settings.selectable || force) && b.selected != key {
			if b.UserMove(b.selected, key) {
				b.stats.Dragged = false
				return
			}
		}
	}
	if b.IsMovable(key) {
		b.SetSelected(key)
		b.hold.Start()
	}
}

// SetSelected selects key without any checks.
func (b *Board) SetSelected(key Key) {
	b.selected = key
}

// Unselect clears the selection and cancels the hold timer.
func (b *Board) Unselect() {
	b.selected = ""
	b.hold.Cancel()
}

// CancelMove abandons the interaction in progress.
func (b *Board) CancelMove() {
	b.Unselect()
}

// Stop disables moving until the board is configured again.
func (b *Board) Stop() {
	b.settings.movable.color = MovableNone
	b.settings.movable.dests = nil
	b.CancelMove()
}

// IsMovable reports whether the piece on orig may be picked up by the side allowed to move.
func (b *Board) IsMovable(orig Key) bool {
	p, ok := b.pieces[orig]
	if !ok || !p.IsChecker() || b.settings.viewOnly {
		return false
	}
	m := b.settings.movable.color
	return m == MovableBoth || (m.allows(p.Color) && b.settings.turnColor == p.Color)
}

// IsDraggable reports whether the piece on orig may be dragged.
func (b *Board) IsDraggable(orig Key) bool {
	p, ok := b.pieces[orig]
	return ok && b.settings.draggable && !b.settings.viewOnly && b.settings.movable.color.allows(p.Color)
}

// CanMove reports whether UserMove(orig, dest) would be applied.
func (b *Board) CanMove(orig, dest Key) bool {
	return b.checkMove(orig, dest) == nil
}

// CanDrop reports whether the piece on orig may be dropped on dest.
func (b *Board) CanDrop(orig, dest Key) bool {
	p, ok := b.pieces[orig]
	if !ok {
		return false
	}
	if _, taken := b.pieces[dest]; taken && orig != dest {
		return false
	}
	m := b.settings.movable.color
	return m == MovableBoth || (m.allows(p.Color) && b.settings.turnColor == p.Color)
}

// String is a short description used in logs.
func (b *Board) String() string {
	pos, err := b.Position()
	if err != nil {
		return fmt.Sprintf("board(%d pieces, %v)", len(b.pieces), err)
	}
	return pos
}

package board

import (
	"fmt"
)

// occupant returns the side holding col and how many checkers it has there. The counts
// decide when they are tracked; otherwise the visible stack does.
func (b *Board) occupant(col column) (Color, int) {
	if b.counts != nil {
		if slot, ok := slotOf(col); ok {
			return owner(b.counts[slot])
		}
	}
	return stack{col: col, pieces: b.pieces}.count()
}

// checkMove returns why UserMove(orig, dest) must be rejected, or nil.
func (b *Board) checkMove(orig, dest Key) error {
	if orig == dest {
		return ErrSameSquare
	}
	if !b.IsMovable(orig) {
		return ErrNotMovable
	}
	p := b.pieces[orig]
	origCol, _, ok := columnOfKey(orig)
	if !ok {
		return ErrNotMovable
	}
	if origCol.isBar() && origCol != barColumn(p.Color) {
		return ErrNotMovable
	}
	if IsOff(dest) {
		if offColor(dest) != p.Color {
			return ErrWrongOff
		}
		if origCol.isBar() {
			return ErrIllegal
		}
		return nil
	}
	destCol, _, ok := columnOfKey(dest)
	if !ok || destCol.isBar() {
		return ErrNotPoint
	}
	if destCol == origCol {
		return ErrSamePoint
	}
	occ, n := b.occupant(destCol)
	if n >= 2 && occ != p.Color {
		return ErrBlocked
	}
	if b.counts == nil {
		if n >= StackHeight && occ == p.Color {
			return ErrColumnFull
		}
		if n == 1 && occ != p.Color && (stack{col: barColumn(occ), pieces: b.pieces}).height() == StackHeight {
			return ErrColumnFull
		}
	}
	if b.settings.movable.free {
		return nil
	}
	if allowed, listed := b.authorized(orig, dest); listed {
		if !allowed {
			return ErrNotAuthorized
		}
		return nil
	}
	return checkLegal(orig, dest, b.pieces)
}

// authorized looks dest up in the driver's destinations for orig's point. listed is
// false when the driver gave none, leaving the decision to the legality predicate.
func (b *Board) authorized(orig, dest Key) (allowed, listed bool) {
	for from, dests := range b.settings.movable.dests {
		if from != orig && !IsSamePoint(from, orig) {
			continue
		}
		listed = true
		for _, d := range dests {
			if d == dest || IsSamePoint(d, dest) {
				return true, true
			}
		}
	}
	return false, listed
}

// UserMove applies a move requested by the user. A rejected request clears the selection
// and changes nothing else; it reports false without any notification.
func (b *Board) UserMove(orig, dest Key) bool {
	_, err := b.Play(orig, dest)
	return err == nil
}

// MoveResult describes an applied move.
type MoveResult struct {
	// Dest is where the checker landed after redirection to the top of the stack.
	Dest     Key
	Captured *Piece
	Notation string
	// Reconciled is set when a column had to be rebuilt from the counts.
	Reconciled bool
}

// Play is UserMove returning what happened, or why the move was rejected.
func (b *Board) Play(orig, dest Key) (MoveResult, error) {
	if err := b.checkMove(orig, dest); err != nil {
		b.log.Printf("move %s %s rejected: %v", orig, dest, err)
		b.Unselect()
		return MoveResult{}, err
	}
	res := b.apply(orig, dest)
	b.settings.movable.dests = nil
	holdTime := b.hold.Stop()
	b.Unselect()
	meta := MoveMetadata{
		CtrlKey:  b.stats.CtrlKey,
		HoldTime: holdTime,
		Captured: res.Captured,
	}
	if f := b.events.After; f != nil {
		b.queue.Push(func() { f(orig, res.Dest, meta) })
	}
	return res, nil
}

// apply performs a validated move: the hit (if any), the move itself, the slide of the
// checkers left behind, and the count bookkeeping.
func (b *Board) apply(orig, dest Key) MoveResult {
	p := b.pieces[orig]
	p.Overflow = false
	origCol, oi, _ := columnOfKey(orig)
	var (
		res     MoveResult
		destCol column
		touched = []column{origCol}
	)
	if IsOff(dest) {
		res.Dest = dest
		delete(b.pieces, orig)
		b.emitMove(orig, dest, nil)
	} else {
		destCol, _, _ = columnOfKey(dest)
		touched = append(touched, destCol)
		occ, n := b.occupant(destCol)
		ds := stack{col: destCol, pieces: b.pieces}
		switch {
		case n == 0:
			res.Dest = destCol.cell(0)
		case occ == p.Color:
			res.Dest = destCol.cell(ds.landing())
		default:
			res.Dest = destCol.cell(0)
			res.Captured = b.hit(res.Dest, occ)
			touched = append(touched, barColumn(occ))
		}
		delete(b.pieces, orig)
		b.pieces[res.Dest] = p
		b.emitMove(orig, res.Dest, res.Captured)
	}
	for _, r := range (stack{col: origCol, pieces: b.pieces}).compact(oi) {
		b.emitMove(r.orig, r.dest, nil)
	}
	if b.counts == nil && b.shadow != nil {
		countMove(b.shadow, p.Color, origCol, destCol, dest, res.Captured != nil)
	}
	if b.counts != nil {
		countMove(b.counts, p.Color, origCol, destCol, dest, res.Captured != nil)
		for _, col := range touched {
			if b.counts.reconcile(b.pieces, col) {
				res.Reconciled = true
			}
		}
		if res.Reconciled {
			b.log.Printf("move %s %s: columns rebuilt from counts", orig, res.Dest)
		}
	}
	from, to := SquareToPip(orig, p.Color), SquareToPip(res.Dest, p.Color)
	res.Notation = fmt.Sprintf("%d/%d", from, to)
	b.moveLog = append(b.moveLog, res.Notation)
	b.lastMove = []Key{orig, res.Dest}
	b.emit(b.events.Change)
	return res
}

// hit sends the single checker of color occ on key to the top of its bar.
func (b *Board) hit(key Key, occ Color) *Piece {
	captured, ok := b.pieces[key]
	if !ok {
		captured = NewChecker(occ)
	}
	captured.Overflow = false
	bar := stack{col: barColumn(occ), pieces: b.pieces}
	to := bar.col.cell(bar.landing())
	delete(b.pieces, key)
	b.pieces[to] = captured
	b.emitMove(key, to, nil)
	return &captured
}

// countMove updates counts for a move of a checker of color c.
func countMove(counts *Counts, c Color, origCol, destCol column, dest Key, captured bool) {
	s := c.Sign()
	if slot, ok := slotOf(origCol); ok {
		counts[slot] -= s
	}
	if IsOff(dest) {
		counts[OffSlot(c)] += s
		return
	}
	slot, _ := slotOf(destCol)
	if captured {
		counts[slot] = s
		opp := c.Opposite()
		counts[BarSlot(opp)] += opp.Sign()
		return
	}
	counts[slot] += s
}

// BaseMove relocates the piece on orig to dest without any rule check, as an API call
// would. It returns the piece of the other color that stood on dest, if any, and false
// when nothing was moved. Counts are rebuilt from the result; a relocation that would
// break them is refused.
func (b *Board) BaseMove(orig, dest Key) (*Piece, bool) {
	p, ok := b.pieces[orig]
	if orig == dest || !ok {
		return nil, false
	}
	var captured *Piece
	if d, ok := b.pieces[dest]; ok && d.Color != p.Color {
		captured = &d
	}
	if dest == b.selected {
		b.Unselect()
	}
	ok = b.edit(func() {
		if !IsOff(dest) {
			b.pieces[dest] = p
		}
		delete(b.pieces, orig)
	})
	if !ok {
		return nil, false
	}
	b.emitMove(orig, dest, captured)
	if !IsSamePoint(orig, dest) {
		b.lastMove = []Key{orig, dest}
		b.moveLog = append(b.moveLog, fmt.Sprintf("%d/%d", SquareToPip(orig, p.Color), SquareToPip(dest, p.Color)))
	}
	b.emit(b.events.Change)
	return captured, true
}

// SetPieces sets or removes pieces by key.
func (b *Board) SetPieces(diff PiecesDiff) bool {
	ok := b.edit(func() {
		for k, p := range diff {
			if p != nil {
				b.pieces[k] = *p
			} else {
				delete(b.pieces, k)
			}
		}
	})
	if ok {
		b.emit(b.events.Change)
	}
	return ok
}

// NewPiece places piece on key, replacing an occupant only when forced. A checker placed
// on a point lands on top of that point's stack.
func (b *Board) NewPiece(piece Piece, key Key, force bool) bool {
	if _, taken := b.pieces[key]; taken && !force {
		return false
	}
	if !b.edit(func() { b.pieces[key] = piece }) {
		return false
	}
	if f := b.events.DropNewPiece; f != nil {
		b.queue.Push(func() { f(piece, key) })
	}
	b.lastMove = []Key{key}
	b.settings.movable.dests = nil
	b.emit(b.events.Change)
	return true
}

// DropNewPiece moves the piece on orig to dest as a drop.
func (b *Board) DropNewPiece(orig, dest Key, force bool) {
	defer b.Unselect()
	piece, ok := b.pieces[orig]
	if !ok || !(b.CanDrop(orig, dest) || force) {
		return
	}
	delete(b.pieces, orig)
	if !b.NewPiece(piece, dest, force) {
		b.pieces[orig] = piece
		return
	}
	if f := b.events.AfterNewPiece; f != nil {
		b.queue.Push(func() { f(piece.Role, dest, MoveMetadata{}) })
	}
}

// edit runs an unchecked change of the sparse map, then restacks every column so no
// gaps remain and, when counts are tracked, rebuilds the counts from the map. A change
// that breaks the counts is rolled back.
func (b *Board) edit(change func()) bool {
	before := b.pieces.Clone()
	change()
	if b.counts == nil {
		if b.shadow != nil {
			c, err := deriveCounts(b.pieces, b.shadow)
			b.shadow = &c
			if err != nil {
				b.shadow = nil
			}
		}
		restack(b.pieces)
		return true
	}
	c, err := deriveCounts(b.pieces, b.counts)
	if err != nil {
		b.log.Printf("edit rejected: %v", err)
		b.pieces = before
		return false
	}
	b.counts = &c
	restack(b.pieces)
	c.project(b.pieces)
	return true
}

// allColumns lists the 24 point columns and both bars.
func allColumns() []column {
	cols := make([]column, 0, 26)
	for point := 1; point <= 24; point++ {
		col, _ := pointColumn(point)
		cols = append(cols, col)
	}
	return append(cols, barColumn(White), barColumn(Black))
}

// restack moves every column's checkers down to its base, keeping their order.
func restack(pieces Pieces) {
	for _, col := range allColumns() {
		var kept []Piece
		for i := 0; i < StackHeight; i++ {
			k := col.cell(i)
			if p, ok := pieces[k]; ok && p.IsChecker() {
				kept = append(kept, p)
				delete(pieces, k)
			}
		}
		for i, p := range kept {
			pieces[col.cell(i)] = p
		}
	}
}

// deriveCounts rebuilds canonical counts from a sparse map. A column topped by an
// overflow checker keeps the larger magnitude prev records for it. Checkers not on the
// board are borne off.
func deriveCounts(pieces Pieces, prev *Counts) (Counts, error) {
	for k, p := range pieces {
		pos, onGrid := KeyToPos(k)
		if !onGrid {
			return Counts{}, fmt.Errorf("%w: piece on unknown square %q", ErrInvalidPosition, k)
		}
		_, _, inColumn := columnOf(pos)
		switch {
		case p.IsChecker() && !inColumn:
			return Counts{}, fmt.Errorf("%w: checker on %s outside any point", ErrInvalidPosition, k)
		case !p.IsChecker() && pos.Rank != MiddleRank:
			return Counts{}, fmt.Errorf("%w: %s marker on %s outside the middle row", ErrInvalidPosition, p.Role, k)
		}
	}
	var c Counts
	for _, col := range allColumns() {
		var (
			color    Color
			n        int
			overflow bool
		)
		for i := 0; i < StackHeight; i++ {
			p, ok := pieces[col.cell(i)]
			if !ok || !p.IsChecker() {
				continue
			}
			if n > 0 && p.Color != color {
				return Counts{}, fmt.Errorf("%w: mixed colors on %s", ErrInvalidPosition, col.cell(0))
			}
			color, n = p.Color, n+1
			overflow = overflow || p.Overflow
		}
		slot, _ := slotOf(col)
		if col.isBar() && n > 0 && col != barColumn(color) {
			return Counts{}, fmt.Errorf("%w: %s checker on the %s bar", ErrInvalidPosition, color, color.Opposite())
		}
		if overflow && prev != nil {
			if pc, pn := owner(prev[slot]); pc == color && pn > n {
				n = pn
			}
		}
		c[slot] = n * color.Sign()
	}
	for _, color := range []Color{White, Black} {
		rest := CheckersPerSide - c.Total(color)
		if rest < 0 {
			return Counts{}, fmt.Errorf("%w: %s has more than %d checkers", ErrInvalidPosition, color, CheckersPerSide)
		}
		c[OffSlot(color)] = rest * color.Sign()
	}
	return c, nil
}

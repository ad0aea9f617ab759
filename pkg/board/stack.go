package board

// DisplayCap is the number of plain checkers a column shows. A column holding more
// checkers shows an overflow placeholder in the cell above them.
const DisplayCap = StackHeight - 1

// column is one point or bar: StackHeight cells along a file, starting at base and
// stepping by dir. Occupied cells are contiguous from the base.
type column struct {
	file int
	base int
	dir  int
}

func (c column) cell(i int) Key {
	return PosToKey(Pos{File: c.file, Rank: c.base + i*c.dir})
}

// index returns the position of rank along the column.
func (c column) index(rank int) int {
	return (rank - c.base) * c.dir
}

// columnOf returns the column holding p and p's index in it. The middle row belongs
// to no column.
func columnOf(p Pos) (column, int, bool) {
	if !p.Valid() || p.Rank == MiddleRank {
		return column{}, 0, false
	}
	var c column
	switch {
	case p.File == BarFile && p.Rank < MiddleRank:
		c = column{file: BarFile, base: MiddleRank - 1, dir: -1}
	case p.File == BarFile:
		c = column{file: BarFile, base: MiddleRank + 1, dir: 1}
	case p.Rank < MiddleRank:
		c = column{file: p.File, base: 0, dir: 1}
	default:
		c = column{file: p.File, base: Size - 1, dir: -1}
	}
	return c, c.index(p.Rank), true
}

func columnOfKey(k Key) (column, int, bool) {
	p, ok := KeyToPos(k)
	if !ok {
		return column{}, 0, false
	}
	return columnOf(p)
}

// isBar reports whether c is one of the bar columns.
func (c column) isBar() bool {
	return c.file == BarFile
}

// barColumn returns the column captured checkers of color c wait in.
func barColumn(c Color) column {
	if c == Black {
		return column{file: BarFile, base: MiddleRank + 1, dir: 1}
	}
	return column{file: BarFile, base: MiddleRank - 1, dir: -1}
}

// BarKey returns the base cell of c's bar.
func BarKey(c Color) Key {
	return barColumn(c).cell(0)
}

// pointColumn returns the column of an absolute pip number 1..24.
func pointColumn(point int) (column, bool) {
	var p Pos
	switch {
	case point >= 1 && point <= 6:
		p = Pos{File: Size - point, Rank: 0}
	case point >= 7 && point <= 12:
		p = Pos{File: 12 - point, Rank: 0}
	case point >= 13 && point <= 18:
		p = Pos{File: point - 13, Rank: Size - 1}
	case point >= 19 && point <= 24:
		p = Pos{File: point - 12, Rank: Size - 1}
	default:
		return column{}, false
	}
	c, _, _ := columnOf(p)
	return c, true
}

// PointKey returns the base cell of an absolute pip number 1..24.
func PointKey(point int) (Key, bool) {
	c, ok := pointColumn(point)
	if !ok {
		return "", false
	}
	return c.cell(0), true
}

// stack is a column viewed over a piece map.
type stack struct {
	col    column
	pieces Pieces
}

func (s stack) at(i int) (Piece, bool) {
	p, ok := s.pieces[s.col.cell(i)]
	return p, ok
}

// height is the number of contiguous occupied cells from the base.
func (s stack) height() int {
	n := 0
	for n < StackHeight {
		if _, ok := s.at(n); !ok {
			break
		}
		n++
	}
	return n
}

// owner returns the color of the base checker, if any.
func (s stack) owner() (Color, bool) {
	p, ok := s.at(0)
	if !ok || !p.IsChecker() {
		return White, false
	}
	return p.Color, true
}

// landing is the cell an added checker goes to: the first empty cell outward from the
// top, or the top cell itself when the column is full.
func (s stack) landing() int {
	h := s.height()
	if h == StackHeight {
		return StackHeight - 1
	}
	return h
}

// relocation is one elementary move of a piece between cells.
type relocation struct {
	orig, dest Key
}

// compact closes the gap left at index from by moving every cell beyond it one step
// toward the base, one relocation at a time.
func (s stack) compact(from int) []relocation {
	var moves []relocation
	for i := from + 1; i < StackHeight; i++ {
		p, ok := s.at(i)
		if !ok {
			break
		}
		below := s.col.cell(i - 1)
		if _, taken := s.pieces[below]; taken {
			break
		}
		s.pieces[below] = p
		delete(s.pieces, s.col.cell(i))
		moves = append(moves, relocation{orig: s.col.cell(i), dest: below})
	}
	return moves
}

// project rewrites the column to show n checkers of color c and reports whether any
// cell changed.
func (s stack) project(c Color, n int) bool {
	changed := false
	for i := 0; i < StackHeight; i++ {
		k := s.col.cell(i)
		want, show := Piece{}, i < n
		if show {
			want = NewChecker(c)
			if i == DisplayCap && n > DisplayCap {
				want.Overflow = true
			}
		}
		got, has := s.pieces[k]
		switch {
		case show && (!has || got != want):
			s.pieces[k] = want
			changed = true
		case !show && has:
			delete(s.pieces, k)
			changed = true
		}
	}
	return changed
}

// count returns the number of checkers the column shows; an overflow cell counts as one.
func (s stack) count() (Color, int) {
	c, ok := s.owner()
	if !ok {
		return White, 0
	}
	return c, s.height()
}

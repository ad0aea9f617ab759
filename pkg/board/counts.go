package board

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// CheckersPerSide is the number of checkers each side owns.
const CheckersPerSide = 15

// Slots of the canonical count array that are not points.
const (
	WhiteBarSlot = 6
	BlackBarSlot = 19
	WhiteOffSlot = 26
	BlackOffSlot = 27
	NumSlots     = 28
)

// Counts is the canonical board: one signed checker count per point, bar and off area.
// White counts are positive, black counts negative.
type Counts [NumSlots]int

// PointSlot returns the slot of an absolute pip number 1..24.
func PointSlot(point int) (int, bool) {
	switch {
	case point >= 1 && point <= 6:
		return point - 1, true
	case point >= 7 && point <= 12:
		return point, true
	case point >= 13 && point <= 18:
		return point, true
	case point >= 19 && point <= 24:
		return point + 1, true
	}
	return 0, false
}

// BarSlot returns the slot of c's bar.
func BarSlot(c Color) int {
	if c == Black {
		return BlackBarSlot
	}
	return WhiteBarSlot
}

// OffSlot returns the slot of c's borne off checkers.
func OffSlot(c Color) int {
	if c == Black {
		return BlackOffSlot
	}
	return WhiteOffSlot
}

// Point returns the signed count on an absolute pip number 1..24.
func (c *Counts) Point(point int) int {
	s, ok := PointSlot(point)
	if !ok {
		return 0
	}
	return c[s]
}

// SetPoint sets the signed count on an absolute pip number 1..24.
func (c *Counts) SetPoint(point, n int) {
	if s, ok := PointSlot(point); ok {
		c[s] = n
	}
}

// Bar returns the number of c's checkers on the bar.
func (c *Counts) Bar(col Color) int {
	return c[BarSlot(col)] * col.Sign()
}

// Off returns the number of c's checkers borne off.
func (c *Counts) Off(col Color) int {
	return c[OffSlot(col)] * col.Sign()
}

// Total is the sum of magnitudes over every slot holding col's checkers.
func (c *Counts) Total(col Color) int {
	v := make([]float64, 0, NumSlots)
	for _, n := range c {
		if n*col.Sign() > 0 {
			v = append(v, float64(n))
		}
	}
	if len(v) == 0 {
		return 0
	}
	return int(floats.Norm(v, 1))
}

// owner returns the color occupying a slot and its magnitude.
func owner(n int) (Color, int) {
	if n < 0 {
		return Black, -n
	}
	return White, n
}

// slotOf maps a column to its slot.
func slotOf(col column) (int, bool) {
	if col.isBar() {
		if col == barColumn(Black) {
			return BlackBarSlot, true
		}
		return WhiteBarSlot, true
	}
	point, ok := PosToPoint(Pos{File: col.file, Rank: col.base})
	if !ok {
		return 0, false
	}
	return PointSlot(point)
}

// Validate checks both sides own exactly CheckersPerSide checkers and that bar and off
// slots carry their side's sign.
func (c *Counts) Validate() error {
	for _, col := range []Color{White, Black} {
		if n := c[BarSlot(col)] * col.Sign(); n < 0 {
			return fmt.Errorf("%w: %s bar holds %d", ErrInvalidPosition, col, n)
		}
		if n := c[OffSlot(col)] * col.Sign(); n < 0 {
			return fmt.Errorf("%w: %s off holds %d", ErrInvalidPosition, col, n)
		}
		if n := c.Total(col); n != CheckersPerSide {
			return fmt.Errorf("%w: %s has %d checkers, want %d", ErrInvalidPosition, col, n, CheckersPerSide)
		}
	}
	return nil
}

// Pieces projects the counts onto a fresh sparse map.
func (c *Counts) Pieces() Pieces {
	pieces := make(Pieces)
	c.project(pieces)
	return pieces
}

// project writes every point and bar column of the counts into pieces.
func (c *Counts) project(pieces Pieces) {
	for point := 1; point <= 24; point++ {
		col, _ := pointColumn(point)
		color, n := owner(c.Point(point))
		stack{col: col, pieces: pieces}.project(color, n)
	}
	for _, color := range []Color{White, Black} {
		stack{col: barColumn(color), pieces: pieces}.project(color, c.Bar(color))
	}
}

// reconcile rewrites col from its slot and reports whether the sparse map disagreed.
func (c *Counts) reconcile(pieces Pieces, col column) bool {
	slot, ok := slotOf(col)
	if !ok {
		return false
	}
	color, n := owner(c[slot])
	return stack{col: col, pieces: pieces}.project(color, n)
}

// StartingCounts returns the standard backgammon starting position.
func StartingCounts() Counts {
	var c Counts
	c.SetPoint(24, 2)
	c.SetPoint(13, 5)
	c.SetPoint(8, 3)
	c.SetPoint(6, 5)
	c.SetPoint(1, -2)
	c.SetPoint(12, -5)
	c.SetPoint(17, -3)
	c.SetPoint(19, -5)
	return c
}

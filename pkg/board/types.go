// Package board implements the board state engine of an interactive backgammon board.
//
// The board is held twice: as a sparse map of occupied grid cells, where a point with
// several checkers is a stack of cells along one file, and as canonical signed checker
// counts per point, bar and off area. Moves requested by a driver (click or drag) are
// validated and translated into the stack slides, hits, bar entries and bear-offs that
// keep both representations consistent.
package board

import (
	"fmt"
	"time"
)

// Color is the side a piece belongs to.
type Color uint8

const (
	White Color = iota
	Black
)

// String returns the color name.
func (c Color) String() string {
	if c == Black {
		return "black"
	}
	return "white"
}

// Opposite returns the other color.
func (c Color) Opposite() Color {
	if c == White {
		return Black
	}
	return White
}

// Sign is +1 for white and -1 for black, the sign of that side's canonical counts.
func (c Color) Sign() int {
	if c == Black {
		return -1
	}
	return 1
}

// char is the single character used in position strings.
func (c Color) char() byte {
	if c == Black {
		return 'b'
	}
	return 'w'
}

// ParseColor parses "white"/"w" or "black"/"b".
func ParseColor(s string) (Color, error) {
	switch s {
	case "white", "w":
		return White, nil
	case "black", "b":
		return Black, nil
	}
	return White, fmt.Errorf("unknown color %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Color) UnmarshalText(b []byte) error {
	v, err := ParseColor(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// Role identifies what a piece stands for. Only checkers move; the other roles are
// markers for dice faces, the cube, resignation offers and undo.
type Role string

const (
	Checker Role = "checker"
	D1      Role = "d1"
	D2      Role = "d2"
	D3      Role = "d3"
	D4      Role = "d4"
	D5      Role = "d5"
	D6      Role = "d6"
	Undo    Role = "undo"
	Double  Role = "double"
	Resign1 Role = "resign1"
	Resign2 Role = "resign2"
	Resign3 Role = "resign3"
)

var roles = map[Role]bool{
	Checker: true, D1: true, D2: true, D3: true, D4: true, D5: true, D6: true,
	Undo: true, Double: true, Resign1: true, Resign2: true, Resign3: true,
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return roles[r]
}

// Piece is the occupant of a grid cell.
type Piece struct {
	Role  Role  `json:"role"`
	Color Color `json:"color"`
	// Overflow marks the top checker of a full column standing in for more checkers than shown.
	Overflow bool `json:"overflow,omitempty"`
}

// NewChecker returns a plain checker of the given color.
func NewChecker(c Color) Piece {
	return Piece{Role: Checker, Color: c}
}

// IsChecker reports whether p takes part in move logic.
func (p Piece) IsChecker() bool {
	return p.Role == Checker
}

// Same reports whether two pieces have the same role and color.
func (p Piece) Same(o Piece) bool {
	return p.Role == o.Role && p.Color == o.Color
}

// Pieces is the sparse map of occupied cells.
type Pieces map[Key]Piece

// Clone returns a copy of the map.
func (ps Pieces) Clone() Pieces {
	c := make(Pieces, len(ps))
	for k, p := range ps {
		c[k] = p
	}
	return c
}

// PiecesDiff sets (non-nil) or deletes (nil) pieces by key.
type PiecesDiff map[Key]*Piece

// Dests maps an origin square to the destinations a driver authorized for it.
type Dests map[Key][]Key

// MoveMetadata accompanies an after-move notification.
type MoveMetadata struct {
	CtrlKey  bool          `json:"ctrlKey,omitempty"`
	HoldTime time.Duration `json:"holdTime,omitempty"`
	Captured *Piece        `json:"captured,omitempty"`
}

// Stats describes the input gesture that produced the current interaction.
type Stats struct {
	CtrlKey bool
	Dragged bool
}

package board

// Key names a grid cell (file char + rank char) or one of the off-board sentinels.
type Key string

// Grid geometry.
const (
	// Size is the number of files and ranks of the grid.
	Size = 13
	// BarFile is the file holding both bars.
	BarFile = 6
	// MiddleRank separates the lower and upper halves.
	MiddleRank = 6
	// StackHeight is the number of cells in one point or bar column.
	StackHeight = 6
)

// Off-board sentinels. They have no grid position.
const (
	OffWhite Key = "a0"
	OffBlack Key = "a>"
)

const (
	files = "abcdefghijklm"
	ranks = "123456789:;<="
)

// Pos is a (file, rank) grid coordinate.
type Pos struct {
	File int
	Rank int
}

// Valid reports whether p lies on the grid.
func (p Pos) Valid() bool {
	return p.File >= 0 && p.File < Size && p.Rank >= 0 && p.Rank < Size
}

// PosToKey converts a grid coordinate to its key. It panics on an off-grid coordinate.
func PosToKey(p Pos) Key {
	if !p.Valid() {
		panic("board: position off the grid")
	}
	return Key([]byte{files[p.File], ranks[p.Rank]})
}

// KeyToPos converts a key to its grid coordinate. Sentinels and malformed keys report false.
func KeyToPos(k Key) (Pos, bool) {
	if len(k) != 2 || IsOff(k) {
		return Pos{}, false
	}
	f, r := indexByte(files, k[0]), indexByte(ranks, k[1])
	if f < 0 || r < 0 {
		return Pos{}, false
	}
	return Pos{File: f, Rank: r}, true
}

func indexByte(s string, c byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == c {
			return i
		}
	}
	return -1
}

// AllKeys lists every grid key, file by file.
func AllKeys() []Key {
	keys := make([]Key, 0, Size*Size)
	for f := 0; f < Size; f++ {
		for r := 0; r < Size; r++ {
			keys = append(keys, PosToKey(Pos{File: f, Rank: r}))
		}
	}
	return keys
}

// IsOff reports whether k is one of the off-board sentinels.
func IsOff(k Key) bool {
	return k == OffWhite || k == OffBlack
}

// OffKey returns the sentinel for checkers of c borne off.
func OffKey(c Color) Key {
	if c == Black {
		return OffBlack
	}
	return OffWhite
}

// offColor returns the side an off sentinel belongs to.
func offColor(k Key) Color {
	if k == OffBlack {
		return Black
	}
	return White
}

// Special pip numbers in absolute (white) numbering.
const (
	WhiteBarPoint = 25
	BlackBarPoint = 0
)

// PosToPoint returns the absolute pip number of a point or bar cell. White moves from
// 24 down to 1; the white bar is 25 and the black bar 0. Cells on the middle row
// report false.
func PosToPoint(p Pos) (int, bool) {
	if !p.Valid() || p.Rank == MiddleRank {
		return 0, false
	}
	lower := p.Rank < MiddleRank
	switch {
	case p.File == BarFile && lower:
		return WhiteBarPoint, true
	case p.File == BarFile:
		return BlackBarPoint, true
	case lower && p.File > BarFile:
		// white home board: files 7..12 are pips 6..1
		return Size - p.File, true
	case lower:
		// files 0..5 are pips 12..7
		return 12 - p.File, true
	case p.File < BarFile:
		// files 0..5 are pips 13..18
		return 13 + p.File, true
	default:
		// black home board: files 7..12 are pips 19..24
		return 12 + p.File, true
	}
}

// KeyPoint is PosToPoint for a key.
func KeyPoint(k Key) (int, bool) {
	p, ok := KeyToPos(k)
	if !ok {
		return 0, false
	}
	return PosToPoint(p)
}

// RelativePip converts an absolute pip number into the numbering of side c.
func RelativePip(c Color, point int) int {
	if c == Black {
		return 25 - point
	}
	return point
}

// SquareToPip returns the pip of k as seen by the side moving from or to it:
// 25 for that side's bar, 0 for off, otherwise the side-relative point number.
func SquareToPip(k Key, c Color) int {
	if IsOff(k) {
		return 0
	}
	point, ok := KeyPoint(k)
	if !ok {
		return -1
	}
	return RelativePip(c, point)
}

// IsSamePoint reports whether two keys lie on the same point or bar column.
func IsSamePoint(a, b Key) bool {
	ca, _, oka := columnOfKey(a)
	cb, _, okb := columnOfKey(b)
	return oka && okb && ca == cb
}

package board

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// StartingPosition is the standard opening position in position string form.
const StartingPosition = "2b/-/-/-/-/5w/-/3w/-/-/-/5b/5w/-/-/-/3b/-/5b/-/-/-/-/2w 0/0 0/0 w"

// Position is a parsed position string.
type Position struct {
	Counts Counts
	Turn   Color
	// Markers are the non-checker pieces, all on the middle row.
	Markers Pieces
}

// Pieces returns the sparse map of the position: stacked checkers plus markers.
func (p Position) Pieces() Pieces {
	pieces := p.Counts.Pieces()
	for k, m := range p.Markers {
		pieces[k] = m
	}
	return pieces
}

// ParsePosition reads a position string:
//
//	<points> [<bar> [<off> [<turn> [<markers>]]]]
//
// points is 24 '/' separated tokens for pips 1..24 (white's numbering), each "-" or a
// count followed by w or b. bar and off are "<white>/<black>". A missing off field
// is whatever remains of each side's 15 checkers. markers is a comma separated list of
// <role><w|b>@<key>.
func ParsePosition(s string) (*Position, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 || len(fields) > 5 {
		return nil, fmt.Errorf("%w: expected 1 to 5 fields, got %d", ErrInvalidPosition, len(fields))
	}
	p := Position{Markers: make(Pieces)}
	tokens := strings.Split(fields[0], "/")
	if len(tokens) != 24 {
		return nil, fmt.Errorf("%w: expected 24 points, got %d", ErrInvalidPosition, len(tokens))
	}
	for i, tok := range tokens {
		n, err := parsePoint(tok)
		if err != nil {
			return nil, fmt.Errorf("%w: point %d: %v", ErrInvalidPosition, i+1, err)
		}
		p.Counts.SetPoint(i+1, n)
	}
	if len(fields) > 1 {
		w, b, err := parsePair(fields[1])
		if err != nil {
			return nil, fmt.Errorf("%w: bar: %v", ErrInvalidPosition, err)
		}
		p.Counts[WhiteBarSlot], p.Counts[BlackBarSlot] = w, -b
	}
	if len(fields) > 2 {
		w, b, err := parsePair(fields[2])
		if err != nil {
			return nil, fmt.Errorf("%w: off: %v", ErrInvalidPosition, err)
		}
		p.Counts[WhiteOffSlot], p.Counts[BlackOffSlot] = w, -b
	} else {
		for _, c := range []Color{White, Black} {
			rest := CheckersPerSide - p.Counts.Total(c)
			if rest < 0 {
				return nil, fmt.Errorf("%w: %s has more than %d checkers", ErrInvalidPosition, c, CheckersPerSide)
			}
			p.Counts[OffSlot(c)] = rest * c.Sign()
		}
	}
	if len(fields) > 3 {
		turn, err := ParseColor(fields[3])
		if err != nil {
			return nil, fmt.Errorf("%w: turn: %v", ErrInvalidPosition, err)
		}
		p.Turn = turn
	}
	if len(fields) > 4 {
		for _, tok := range strings.Split(fields[4], ",") {
			k, m, err := parseMarker(tok)
			if err != nil {
				return nil, fmt.Errorf("%w: marker %q: %v", ErrInvalidPosition, tok, err)
			}
			p.Markers[k] = m
		}
	}
	if err := p.Counts.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

func parsePoint(tok string) (int, error) {
	if tok == "-" {
		return 0, nil
	}
	if len(tok) < 2 {
		return 0, fmt.Errorf("malformed token %q", tok)
	}
	c, err := ParseColor(tok[len(tok)-1:])
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(tok[:len(tok)-1])
	if err != nil || n < 1 || n > CheckersPerSide {
		return 0, fmt.Errorf("count %q out of range", tok[:len(tok)-1])
	}
	return n * c.Sign(), nil
}

func parsePair(tok string) (int, int, error) {
	parts := strings.Split(tok, "/")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("malformed pair %q", tok)
	}
	var v [2]int
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 || n > CheckersPerSide {
			return 0, 0, fmt.Errorf("count %q out of range", part)
		}
		v[i] = n
	}
	return v[0], v[1], nil
}

func parseMarker(tok string) (Key, Piece, error) {
	i := strings.IndexByte(tok, '@')
	if i < 2 {
		return "", Piece{}, fmt.Errorf("expected <role><color>@<key>")
	}
	role, color := Role(tok[:i-1]), tok[i-1:i]
	if !role.Valid() || role == Checker {
		return "", Piece{}, fmt.Errorf("unknown marker role %q", role)
	}
	c, err := ParseColor(color)
	if err != nil {
		return "", Piece{}, err
	}
	k := Key(tok[i+1:])
	pos, ok := KeyToPos(k)
	if !ok || pos.Rank != MiddleRank {
		return "", Piece{}, fmt.Errorf("marker square %q not on the middle row", k)
	}
	return k, Piece{Role: role, Color: c}, nil
}

// FormatPosition writes counts, turn and markers as a position string.
func FormatPosition(c Counts, turn Color, markers Pieces) string {
	var sb strings.Builder
	for point := 1; point <= 24; point++ {
		if point > 1 {
			sb.WriteByte('/')
		}
		n := c.Point(point)
		if n == 0 {
			sb.WriteByte('-')
			continue
		}
		color, m := owner(n)
		sb.WriteString(strconv.Itoa(m))
		sb.WriteByte(color.char())
	}
	fmt.Fprintf(&sb, " %d/%d %d/%d %c", c.Bar(White), c.Bar(Black), c.Off(White), c.Off(Black), turn.char())
	var marks []string
	for k, p := range markers {
		if !p.IsChecker() {
			marks = append(marks, string(p.Role)+string(p.Color.char())+"@"+string(k))
		}
	}
	if len(marks) > 0 {
		sort.Strings(marks)
		sb.WriteByte(' ')
		sb.WriteString(strings.Join(marks, ","))
	}
	return sb.String()
}

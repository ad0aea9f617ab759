// Package positionid reads and writes GNU Backgammon position IDs.
//
// A position ID is the 80 bit key of a board, written as the first 14 characters of its
// base64 encoding. The key lists, for each player, the checkers on every point from that
// player's 1-point up to the bar: one 1-bit per checker, a 0-bit closing each point.
package positionid

import (
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/yourusername/gammonboard/pkg/board"
)

// IDLength is the length of a position ID.
const IDLength = 14

// ErrInvalidPositionID is returned for malformed IDs and impossible positions.
var ErrInvalidPositionID = errors.New("invalid position ID")

// bar is the index of the bar in a Board row.
const bar = 24

// Board is the board as gnubg stores it: [player][point-1] counted from that player's
// side, with the bar at index 24. Player 0 is white, player 1 black.
type Board [2][25]uint8

// key is the 80 bit position key.
type key [10]uint8

// addBits sets n consecutive bits starting at pos.
func (k *key) addBits(pos, n uint32) {
	i := pos / 8
	bits := ((uint32(1) << n) - 1) << (pos & 7)
	for shift := uint32(0); bits>>shift != 0 && int(i) < len(k); i, shift = i+1, shift+8 {
		k[i] |= uint8(bits >> shift)
	}
}

func makeKey(b Board) key {
	var k key
	var pos uint32
	for player := 0; player < 2; player++ {
		for point := 0; point < 25; point++ {
			n := uint32(b[player][point])
			k.addBits(pos, n)
			pos += n + 1
		}
	}
	return k
}

// board decodes a key, reporting false when the bits run past the last point.
func (k key) board() (Board, bool) {
	var b Board
	player, point := 0, 0
	for _, cur := range k {
		for bit := 0; bit < 8; bit, cur = bit+1, cur>>1 {
			if cur&1 == 0 {
				point++
				if point == 25 {
					player, point = player+1, 0
				}
				continue
			}
			if player >= 2 {
				return b, false
			}
			b[player][point]++
		}
	}
	return b, true
}

// ID returns the position ID of b.
func ID(b Board) string {
	k := makeKey(b)
	return base64.StdEncoding.EncodeToString(k[:])[:IDLength]
}

// FromID decodes a position ID.
func FromID(id string) (Board, error) {
	if len(id) != IDLength {
		return Board{}, fmt.Errorf("%w: %q has %d characters", ErrInvalidPositionID, id, len(id))
	}
	raw, err := base64.StdEncoding.DecodeString(id + "==")
	if err != nil || len(raw) != len(key{}) {
		return Board{}, fmt.Errorf("%w: %q", ErrInvalidPositionID, id)
	}
	var k key
	copy(k[:], raw)
	b, ok := k.board()
	if !ok || !Check(b) {
		return Board{}, fmt.Errorf("%w: %q is not a possible position", ErrInvalidPositionID, id)
	}
	return b, nil
}

// Check reports whether b is a possible position: at most 15 checkers per player, no
// point shared by both players, and not both players stuck on the bar against closed
// boards.
func Check(b Board) bool {
	var total [2]int
	for point := 0; point < 25; point++ {
		total[0] += int(b[0][point])
		total[1] += int(b[1][point])
	}
	if total[0] > board.CheckersPerSide || total[1] > board.CheckersPerSide {
		return false
	}
	for point := 0; point < 24; point++ {
		if b[0][point] > 0 && b[1][23-point] > 0 {
			return false
		}
	}
	for point := 0; point < 6; point++ {
		if b[0][point] < 2 || b[1][point] < 2 {
			return true
		}
	}
	return b[0][bar] == 0 || b[1][bar] == 0
}

// FromCounts converts canonical counts.
func FromCounts(c board.Counts) Board {
	var b Board
	for point := 1; point <= 24; point++ {
		n := c.Point(point)
		switch {
		case n > 0:
			b[0][point-1] = uint8(n)
		case n < 0:
			b[1][24-point] = uint8(-n)
		}
	}
	b[0][bar] = uint8(c.Bar(board.White))
	b[1][bar] = uint8(c.Bar(board.Black))
	return b
}

// Counts converts b to canonical counts; checkers missing from b are borne off.
func (b Board) Counts() board.Counts {
	var c board.Counts
	for point := 1; point <= 24; point++ {
		if n := int(b[0][point-1]); n > 0 {
			c.SetPoint(point, n)
		}
		if n := int(b[1][24-point]); n > 0 {
			c.SetPoint(point, -n)
		}
	}
	c[board.WhiteBarSlot] = int(b[0][bar])
	c[board.BlackBarSlot] = -int(b[1][bar])
	c[board.WhiteOffSlot] = board.CheckersPerSide - c.Total(board.White)
	c[board.BlackOffSlot] = -(board.CheckersPerSide - c.Total(board.Black))
	return c
}

// CountsFromID decodes a position ID into canonical counts.
func CountsFromID(id string) (board.Counts, error) {
	b, err := FromID(id)
	if err != nil {
		return board.Counts{}, err
	}
	c := b.Counts()
	if err := c.Validate(); err != nil {
		return board.Counts{}, fmt.Errorf("%w: %v", ErrInvalidPositionID, err)
	}
	return c, nil
}

// IDFromCounts returns the position ID of canonical counts.
func IDFromCounts(c board.Counts) string {
	return ID(FromCounts(c))
}

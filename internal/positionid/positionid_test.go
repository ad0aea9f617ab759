package positionid

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/yourusername/gammonboard/pkg/board"
)

// gnubg's ID of the opening position
const startingPositionID = "4HPwATDgc/ABMA"

func startingBoard() Board {
	var b Board
	for player := 0; player < 2; player++ {
		b[player][5] = 5
		b[player][7] = 3
		b[player][12] = 5
		b[player][23] = 2
	}
	return b
}

func TestIDStartingPosition(t *testing.T) {
	if got := ID(startingBoard()); got != startingPositionID {
		t.Errorf("ID() = %s, want %s", got, startingPositionID)
	}
	if got := IDFromCounts(board.StartingCounts()); got != startingPositionID {
		t.Errorf("IDFromCounts() = %s, want %s", got, startingPositionID)
	}
}

func TestFromID(t *testing.T) {
	b, err := FromID(startingPositionID)
	if err != nil {
		t.Fatalf("FromID: %v", err)
	}
	if diff := cmp.Diff(startingBoard(), b); diff != "" {
		t.Errorf("board (-want +got):\n%s", diff)
	}
}

func TestCountsFromID(t *testing.T) {
	c, err := CountsFromID(startingPositionID)
	if err != nil {
		t.Fatalf("CountsFromID: %v", err)
	}
	if diff := cmp.Diff(board.StartingCounts(), c); diff != "" {
		t.Errorf("counts (-want +got):\n%s", diff)
	}
}

func TestCountsRoundTrip(t *testing.T) {
	positions := []string{
		board.StartingPosition,
		"2b/-/-/-/-/5w/-/3w/-/-/-/5b/5w/-/-/-/2b/1w/5b/-/-/-/-/1w 0/1 0/0 b",
		"1w/-/-/-/-/-/-/-/-/-/-/-/-/-/-/-/-/-/-/-/-/-/-/15b 0/0 14/0 w",
		"-/-/-/-/-/-/-/-/-/-/-/-/-/-/-/-/-/-/-/-/-/-/-/- 2/0 13/15 w",
	}
	for _, s := range positions {
		p, err := board.ParsePosition(s)
		if err != nil {
			t.Fatalf("ParsePosition(%q): %v", s, err)
		}
		id := IDFromCounts(p.Counts)
		got, err := CountsFromID(id)
		if err != nil {
			t.Errorf("CountsFromID(%s) of %q: %v", id, s, err)
			continue
		}
		if diff := cmp.Diff(p.Counts, got); diff != "" {
			t.Errorf("round trip of %q (-want +got):\n%s", s, diff)
		}
	}
}

func TestFromIDErrors(t *testing.T) {
	var overlap Board
	overlap[0][5] = 2
	overlap[1][18] = 2
	tests := []struct {
		name string
		id   string
	}{
		{"short", "4HPwATDgc/AB"},
		{"long", startingPositionID + "A"},
		{"bad character", "4HPwATDgc!ABMA"},
		{"shared point", ID(overlap)},
		{"too many checkers", "//////////////"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if _, err := CountsFromID(test.id); !errors.Is(err, ErrInvalidPositionID) {
				t.Errorf("CountsFromID(%q) error = %v, want %v", test.id, err, ErrInvalidPositionID)
			}
		})
	}
}

func TestCheck(t *testing.T) {
	if !Check(startingBoard()) {
		t.Error("opening position rejected")
	}
	var closed Board
	for point := 0; point < 6; point++ {
		closed[0][point] = 2
		closed[1][point] = 2
	}
	closed[0][bar] = 1
	closed[1][bar] = 1
	if Check(closed) {
		t.Error("both players stuck on the bar accepted")
	}
}

package external

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/yourusername/gammonboard/pkg/board"
)

// ErrInvalidFIBSBoard is returned for board strings that cannot be read.
var ErrInvalidFIBSBoard = errors.New("invalid FIBS board")

// FIBSBoard represents a parsed FIBS board string.
// See: http://www.fibs.com/fibs_interface.html#board_state
type FIBSBoard struct {
	Player1      string  // Your name
	Player2      string  // Opponent's name
	MatchLength  int     // Match length (0 = unlimited)
	Score1       int     // Your score
	Score2       int     // Opponent's score
	Board        [26]int // Checkers per position, signed by color
	Turn         int     // Color on roll (0 when the game is over)
	Dice         [2]int  // Your dice (0,0 if not rolled)
	OppDice      [2]int  // Opponent's dice
	Cube         int     // Cube value
	CanDouble    bool    // Can you double?
	OppCanDouble bool    // Can opponent double?
	Doubled      bool    // Has opponent doubled?
	Color        int     // Your color (1 or -1)
	Direction    int     // Your direction (1 or -1)
	OnHome       int     // Your checkers borne off, -1 when not sent
	OppOnHome    int     // Opponent's checkers borne off, -1 when not sent
}

// fibsFields is the number of fields up to and including the opponent's borne off
// checkers.
const fibsFields = 46

// ParseFIBSBoard parses a FIBS board string.
// Format: board:player1:player2:matchlen:score1:score2:board[26]:turn:dice[4]:cube:...
func ParseFIBSBoard(s string) (*FIBSBoard, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "board:")
	parts := strings.Split(s, ":")
	if len(parts) < 42 {
		return nil, fmt.Errorf("%w: expected at least 42 fields, got %d", ErrInvalidFIBSBoard, len(parts))
	}

	fb := &FIBSBoard{Player1: parts[0], Player2: parts[1], OnHome: -1, OppOnHome: -1}
	var err error
	num := func(i int) int {
		n, e := strconv.Atoi(parts[i])
		if e != nil && err == nil {
			err = fmt.Errorf("%w: field %d: %v", ErrInvalidFIBSBoard, i, e)
		}
		return n
	}

	fb.MatchLength = num(2)
	fb.Score1 = num(3)
	fb.Score2 = num(4)
	for i := range fb.Board {
		fb.Board[i] = num(5 + i)
	}
	fb.Turn = num(31)
	fb.Dice = [2]int{num(32), num(33)}
	fb.OppDice = [2]int{num(34), num(35)}
	fb.Cube = num(36)
	fb.CanDouble = parts[37] == "1"
	fb.OppCanDouble = parts[38] == "1"
	fb.Doubled = parts[39] == "1"
	fb.Color = num(40)
	fb.Direction = num(41)
	if len(parts) >= fibsFields {
		fb.OnHome = num(44)
		fb.OppOnHome = num(45)
	}
	if err != nil {
		return nil, err
	}
	if fb.Color != 1 && fb.Color != -1 {
		return nil, fmt.Errorf("%w: color %d", ErrInvalidFIBSBoard, fb.Color)
	}
	if fb.Direction != 1 && fb.Direction != -1 {
		return nil, fmt.Errorf("%w: direction %d", ErrInvalidFIBSBoard, fb.Direction)
	}
	return fb, nil
}

// point converts a FIBS board index 1..24 to the absolute pip of the side moving
// toward index 0 when direction is -1.
func (fb *FIBSBoard) point(i int) int {
	if fb.Direction < 0 {
		return i
	}
	return 25 - i
}

// bars returns the board indexes of your bar and the opponent's.
func (fb *FIBSBoard) bars() (int, int) {
	if fb.Direction < 0 {
		return 25, 0
	}
	return 0, 25
}

// Counts converts the board to canonical counts, with you playing white.
func (fb *FIBSBoard) Counts() (board.Counts, error) {
	var c board.Counts
	for i := 1; i <= 24; i++ {
		v := fb.Board[i]
		if v == 0 {
			continue
		}
		c.SetPoint(fb.point(i), v*fb.Color)
	}
	yours, theirs := fb.bars()
	c[board.WhiteBarSlot] = abs(fb.Board[yours])
	c[board.BlackBarSlot] = -abs(fb.Board[theirs])

	white, black := fb.OnHome, fb.OppOnHome
	if white < 0 {
		white = board.CheckersPerSide - c.Total(board.White)
	}
	if black < 0 {
		black = board.CheckersPerSide - c.Total(board.Black)
	}
	c[board.WhiteOffSlot] = white
	c[board.BlackOffSlot] = -black
	if err := c.Validate(); err != nil {
		return board.Counts{}, fmt.Errorf("%w: %v", ErrInvalidFIBSBoard, err)
	}
	return c, nil
}

// TurnColor returns the side on roll, you being white.
func (fb *FIBSBoard) TurnColor() board.Color {
	if fb.Turn == -fb.Color {
		return board.Black
	}
	return board.White
}

// FormatMove formats a move log entry ("24/18", "25/20", "6/0") as a FIBS move
// command argument ("24-18", "bar-20", "6-off").
func FormatMove(notation string) (string, error) {
	from, to, ok := strings.Cut(notation, "/")
	if !ok {
		return "", fmt.Errorf("malformed move %q", notation)
	}
	f, err := strconv.Atoi(from)
	if err != nil {
		return "", fmt.Errorf("malformed move %q: %v", notation, err)
	}
	t, err := strconv.Atoi(to)
	if err != nil {
		return "", fmt.Errorf("malformed move %q: %v", notation, err)
	}
	return formatFIBSPoint(f) + "-" + formatFIBSPoint(t), nil
}

// formatFIBSPoint formats a mover relative pip for FIBS output.
func formatFIBSPoint(pip int) string {
	switch {
	case pip >= 25:
		return "bar"
	case pip <= 0:
		return "off"
	}
	return strconv.Itoa(pip)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

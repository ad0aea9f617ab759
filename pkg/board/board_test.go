package board

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/yourusername/gammonboard/internal/log/logtest"
)

const (
	// white on 24 can hit the lone black checker on 18
	hitPosition = "2b/-/-/-/-/5w/-/3w/-/-/-/5b/5w/-/-/-/2b/1b/5b/-/-/-/-/2w 0/0 0/0 w"
	// seven white checkers on the 6 point
	overflowPosition = "2b/-/-/-/-/7w/-/3w/-/-/-/5b/5w/-/-/-/3b/-/5b/-/-/-/-/- 0/0 0/0 w"
)

var (
	lastCheckerPosition = "1w/" + strings.Repeat("-/", 22) + "15b 0/0 14/0 w"
	bearOffPosition     = "3w/2w/1w/" + strings.Repeat("-/", 20) + "15b 0/0 9/0 w"
)

// recorder collects notifications as text.
type recorder struct {
	events []string
	afters []MoveMetadata
}

func (r *recorder) Events() Events {
	return Events{
		Change: func() { r.events = append(r.events, "change") },
		Move: func(orig, dest Key, captured *Piece) {
			s := fmt.Sprintf("move %s %s", orig, dest)
			if captured != nil {
				s += " x" + captured.Color.String()
			}
			r.events = append(r.events, s)
		},
		Select: func(key Key) { r.events = append(r.events, "select "+string(key)) },
		DropNewPiece: func(piece Piece, key Key) {
			r.events = append(r.events, fmt.Sprintf("drop %s%s %s", piece.Role, piece.Color, key))
		},
		After: func(orig, dest Key, meta MoveMetadata) {
			r.events = append(r.events, fmt.Sprintf("after %s %s", orig, dest))
			r.afters = append(r.afters, meta)
		},
	}
}

func newTestBoard(t *testing.T, pos string) (*Board, *recorder, *logtest.Logger) {
	t.Helper()
	l := new(logtest.Logger)
	b := New(Options{Logger: l})
	if err := b.Configure(Config{Position: &pos}); err != nil {
		t.Fatalf("Configure(%q): %v", pos, err)
	}
	b.Queue().Drain()
	r := new(recorder)
	b.SetEvents(r.Events())
	return b, r, l
}

func mustCounts(t *testing.T, b *Board) Counts {
	t.Helper()
	c, ok := b.Counts()
	if !ok {
		t.Fatal("counts not tracked")
	}
	return c
}

func TestNewBoardIsEmpty(t *testing.T) {
	b := New(Options{})
	if got := len(b.Pieces()); got != 0 {
		t.Errorf("new board has %d pieces", got)
	}
	c := mustCounts(t, b)
	if c.Off(White) != CheckersPerSide || c.Off(Black) != CheckersPerSide {
		t.Errorf("new board counts = %v, want every checker off", c)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestStartingPosition(t *testing.T) {
	b, _, _ := newTestBoard(t, StartingPosition)
	if diff := cmp.Diff(StartingCounts(), mustCounts(t, b)); diff != "" {
		t.Errorf("counts (-want +got):\n%s", diff)
	}
	want := map[Key]Color{"m=": White, "m<": White, "h1": White, "h5": White, "m1": Black, "m2": Black, "a1": Black}
	pieces := b.Pieces()
	for k, c := range want {
		if p, ok := pieces[k]; !ok || p.Color != c || !p.IsChecker() {
			t.Errorf("pieces[%s] = %+v, %v, want %v checker", k, p, ok, c)
		}
	}
	if _, ok := pieces["h6"]; ok {
		t.Error("five checkers use a sixth cell")
	}
	got, err := b.Position()
	if err != nil || got != StartingPosition {
		t.Errorf("Position() = %q, %v", got, err)
	}
}

func TestMoveCapture(t *testing.T) {
	b, r, l := newTestBoard(t, hitPosition)
	res, err := b.Play("m=", "f=")
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	if res.Dest != "f=" || res.Captured == nil || res.Captured.Color != Black || res.Notation != "24/18" {
		t.Errorf("Play = %+v", res)
	}
	c := mustCounts(t, b)
	if c.Point(18) != 1 || c.Point(24) != 1 || c.Bar(Black) != 1 {
		t.Errorf("counts after hit: point 18 = %d, point 24 = %d, black bar = %d", c.Point(18), c.Point(24), c.Bar(Black))
	}
	pieces := b.Pieces()
	if p := pieces[BarKey(Black)]; p != NewChecker(Black) {
		t.Errorf("black bar holds %+v", p)
	}
	if p := pieces["f="]; p != NewChecker(White) {
		t.Errorf("f= holds %+v", p)
	}
	if _, ok := pieces["m<"]; ok {
		t.Error("origin stack did not slide toward its base")
	}
	if diff := cmp.Diff([]string{"24/18"}, b.MoveLog()); diff != "" {
		t.Errorf("move log (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]Key{"m=", "f="}, b.LastMove()); diff != "" {
		t.Errorf("last move (-want +got):\n%s", diff)
	}
	if len(r.events) != 0 {
		t.Errorf("notifications delivered inline: %v", r.events)
	}
	b.Queue().Drain()
	want := []string{
		"move f= g8",
		"move m= f= xblack",
		"move m< m=",
		"change",
		"after m= f=",
	}
	if diff := cmp.Diff(want, r.events); diff != "" {
		t.Errorf("notifications (-want +got):\n%s", diff)
	}
	if r.afters[0].Captured == nil || r.afters[0].Captured.Color != Black {
		t.Errorf("after metadata = %+v", r.afters[0])
	}
	if !l.Empty() {
		t.Errorf("unexpected log output: %s", l.String())
	}
}

func TestMoveCaptureWithoutCounts(t *testing.T) {
	b, _, _ := newTestBoard(t, hitPosition)
	off := false
	if err := b.Configure(Config{TrackCounts: &off}); err != nil {
		t.Fatal(err)
	}
	if _, ok := b.Counts(); ok {
		t.Fatal("counts still tracked")
	}
	if !b.UserMove("m=", "f=") {
		t.Fatal("UserMove rejected")
	}
	pieces := b.Pieces()
	if p := pieces[BarKey(Black)]; p != NewChecker(Black) {
		t.Errorf("black bar holds %+v", p)
	}
	pos, err := b.Position()
	if err != nil {
		t.Fatalf("Position: %v", err)
	}
	want := "2b/-/-/-/-/5w/-/3w/-/-/-/5b/5w/-/-/-/2b/1w/5b/-/-/-/-/1w 0/1 0/0 w"
	if pos != want {
		t.Errorf("Position() = %q, want %q", pos, want)
	}
}

func TestMoveBlocked(t *testing.T) {
	b, _, l := newTestBoard(t, StartingPosition)
	before := b.Pieces()
	_, err := b.Play("m=", "h=")
	if !errors.Is(err, ErrBlocked) {
		t.Fatalf("Play error = %v, want %v", err, ErrBlocked)
	}
	if b.UserMove("m=", "h=") {
		t.Error("UserMove accepted a blocked point")
	}
	if diff := cmp.Diff(before, b.Pieces()); diff != "" {
		t.Errorf("pieces changed (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(StartingCounts(), mustCounts(t, b)); diff != "" {
		t.Errorf("counts changed (-want +got):\n%s", diff)
	}
	if n := b.Queue().Len(); n != 0 {
		t.Errorf("%d notifications queued for a rejected move", n)
	}
	if len(b.MoveLog()) != 0 || len(b.LastMove()) != 0 {
		t.Errorf("rejected move recorded: %v %v", b.MoveLog(), b.LastMove())
	}
	if !strings.Contains(l.String(), ErrBlocked.Error()) {
		t.Errorf("log = %q, want the rejection reason", l.String())
	}
}

func TestBearOffLastChecker(t *testing.T) {
	b, _, _ := newTestBoard(t, lastCheckerPosition)
	if b.UserMove("m1", OffBlack) {
		t.Fatal("white checker borne off to the black off area")
	}
	res, err := b.Play("m1", OffWhite)
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	if res.Dest != OffWhite || res.Notation != "1/0" {
		t.Errorf("Play = %+v", res)
	}
	c := mustCounts(t, b)
	if c.Point(1) != 0 || c.Off(White) != CheckersPerSide {
		t.Errorf("point 1 = %d, white off = %d", c.Point(1), c.Off(White))
	}
	if _, ok := b.Pieces()["m1"]; ok {
		t.Error("checker still on m1")
	}
	if diff := cmp.Diff([]string{"1/0"}, b.MoveLog()); diff != "" {
		t.Errorf("move log (-want +got):\n%s", diff)
	}
}

func TestMoveSequenceConservesCheckers(t *testing.T) {
	b, _, _ := newTestBoard(t, StartingPosition)
	moves := []struct {
		orig, dest Key
	}{
		{"m=", "f="},     // white 24/18
		{"m1", "i1"},     // black 24/20
		{"a=", "f1"},     // white 13/7
		{"a1", "f="},     // black 13/7 hits
		{"g6", "i="},     // white enters 25/20
		{"h1", OffWhite}, // white 6/0
	}
	for i, m := range moves {
		if _, err := b.Play(m.orig, m.dest); err != nil {
			t.Fatalf("step %d: Play(%s, %s): %v", i, m.orig, m.dest, err)
		}
		c := mustCounts(t, b)
		if err := c.Validate(); err != nil {
			t.Errorf("step %d: %v", i, err)
		}
		if diff := cmp.Diff(c.Pieces(), b.Pieces()); diff != "" {
			t.Errorf("step %d: sparse map differs from counts (-counts +map):\n%s", i, diff)
		}
	}
	want := []string{"24/18", "24/20", "13/7", "13/7", "25/20", "6/0"}
	if diff := cmp.Diff(want, b.MoveLog()); diff != "" {
		t.Errorf("move log (-want +got):\n%s", diff)
	}
}

func TestSamePointRedirect(t *testing.T) {
	var first Pieces
	for i := 0; i < StackHeight; i++ {
		dest := Key(fmt.Sprintf("h%d", i+1))
		t.Run(string(dest), func(t *testing.T) {
			b, _, _ := newTestBoard(t, StartingPosition)
			res, err := b.Play("e1", dest)
			if err != nil {
				t.Fatalf("Play: %v", err)
			}
			if res.Dest != "h6" {
				t.Errorf("landed on %s, want h6", res.Dest)
			}
			pieces := b.Pieces()
			if !pieces["h6"].Overflow {
				t.Error("sixth checker is not an overflow placeholder")
			}
			if first == nil {
				first = pieces
				return
			}
			if diff := cmp.Diff(first, pieces); diff != "" {
				t.Errorf("result depends on the requested cell (-first +got):\n%s", diff)
			}
		})
	}
}

func TestOverflowReconcile(t *testing.T) {
	b, _, l := newTestBoard(t, overflowPosition)
	if p := b.Pieces()["h6"]; !p.Overflow {
		t.Fatalf("h6 = %+v, want overflow placeholder", p)
	}
	res, err := b.Play("h6", "j1")
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	if !res.Reconciled {
		t.Error("moving the placeholder did not rebuild the column")
	}
	pieces := b.Pieces()
	if p := pieces["h6"]; !p.Overflow {
		t.Errorf("h6 = %+v after 7 -> 6, want overflow placeholder", p)
	}
	if p := pieces["j1"]; p != NewChecker(White) {
		t.Errorf("moved checker = %+v, want plain checker", p)
	}
	if l.Empty() {
		t.Error("reconciliation not logged")
	}

	res, err = b.Play("h6", "j1")
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	if res.Dest != "j2" || res.Reconciled {
		t.Errorf("Play = %+v", res)
	}
	if _, ok := b.Pieces()["h6"]; ok {
		t.Error("five checkers still show a placeholder")
	}
	c := mustCounts(t, b)
	if c.Point(6) != 5 || c.Point(4) != 2 {
		t.Errorf("point 6 = %d, point 4 = %d", c.Point(6), c.Point(4))
	}
}

func TestBearOffReplay(t *testing.T) {
	moves := [][2]Key{
		{"m1", OffWhite},
		{"l1", OffWhite},
		{"k1", OffWhite},
		{"m1", OffWhite},
		{"m1", OffWhite},
		{"l1", OffWhite},
	}
	play := func() (*Board, []string) {
		b, r, _ := newTestBoard(t, bearOffPosition)
		for _, m := range moves {
			if !b.UserMove(m[0], m[1]) {
				t.Fatalf("UserMove(%s, %s) rejected", m[0], m[1])
			}
		}
		b.Queue().Drain()
		return b, r.events
	}
	b1, events1 := play()
	b2, events2 := play()
	if diff := cmp.Diff(b1.Pieces(), b2.Pieces()); diff != "" {
		t.Errorf("pieces differ (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(mustCounts(t, b1), mustCounts(t, b2)); diff != "" {
		t.Errorf("counts differ (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff(events1, events2); diff != "" {
		t.Errorf("notifications differ (-first +second):\n%s", diff)
	}
	want := []string{"1/0", "2/0", "3/0", "1/0", "1/0", "2/0"}
	if diff := cmp.Diff(want, b1.MoveLog()); diff != "" {
		t.Errorf("move log (-want +got):\n%s", diff)
	}
	if c := mustCounts(t, b1); c.Off(White) != CheckersPerSide {
		t.Errorf("white off = %d", c.Off(White))
	}
}

func TestSelectSameSquareTwice(t *testing.T) {
	b, r, _ := newTestBoard(t, StartingPosition)
	off := false
	if err := b.Configure(Config{Draggable: &DraggableConfig{Enabled: &off}}); err != nil {
		t.Fatal(err)
	}
	before := b.Pieces()
	b.SelectSquare("h1", false)
	if k, ok := b.Selected(); !ok || k != "h1" {
		t.Fatalf("Selected() = %q, %v", k, ok)
	}
	b.SelectSquare("h1", false)
	if k, ok := b.Selected(); ok {
		t.Errorf("Selected() = %q after second pick", k)
	}
	if diff := cmp.Diff(before, b.Pieces()); diff != "" {
		t.Errorf("pieces changed (-want +got):\n%s", diff)
	}
	b.Queue().Drain()
	if diff := cmp.Diff([]string{"select h1", "select h1"}, r.events); diff != "" {
		t.Errorf("notifications (-want +got):\n%s", diff)
	}
}

func TestSelectThenMove(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	b := New(Options{Now: func() time.Time { return now }})
	pos := StartingPosition
	if err := b.Configure(Config{Position: &pos}); err != nil {
		t.Fatal(err)
	}
	b.Queue().Drain()
	r := new(recorder)
	b.SetEvents(r.Events())
	b.SetStats(Stats{CtrlKey: true})

	b.SelectSquare("m<", false)
	if k, _ := b.Selected(); k != "m<" {
		t.Fatalf("Selected() = %q", k)
	}
	now = now.Add(1500 * time.Millisecond)
	b.SelectSquare("f=", false)
	if _, ok := b.Selected(); ok {
		t.Error("selection kept after the move")
	}
	b.Queue().Drain()
	if len(r.afters) != 1 {
		t.Fatalf("%d after-move notifications", len(r.afters))
	}
	want := MoveMetadata{CtrlKey: true, HoldTime: 1500 * time.Millisecond}
	if diff := cmp.Diff(want, r.afters[0]); diff != "" {
		t.Errorf("metadata (-want +got):\n%s", diff)
	}
}

func TestSelectEmptySquare(t *testing.T) {
	b, _, _ := newTestBoard(t, StartingPosition)
	b.SelectSquare("l1", false)
	if _, ok := b.Selected(); ok {
		t.Error("empty square selected")
	}
}

func TestTurnColor(t *testing.T) {
	b, _, _ := newTestBoard(t, StartingPosition)
	white, black := MovableWhite, Black
	if err := b.Configure(Config{Movable: &MovableConfig{Color: &white}, TurnColor: &black}); err != nil {
		t.Fatal(err)
	}
	if b.IsMovable("m=") {
		t.Error("white movable on black's turn")
	}
	if _, err := b.Play("m=", "f="); !errors.Is(err, ErrNotMovable) {
		t.Errorf("Play error = %v, want %v", err, ErrNotMovable)
	}
	w := White
	if err := b.Configure(Config{TurnColor: &w}); err != nil {
		t.Fatal(err)
	}
	if !b.UserMove("m=", "f=") {
		t.Error("white cannot move on its turn")
	}
	if b.IsMovable("m1") {
		t.Error("black movable when only white may move")
	}
}

func TestAuthorizedDests(t *testing.T) {
	b, _, _ := newTestBoard(t, StartingPosition)
	dests := Dests{"m=": {"k="}}
	if err := b.Configure(Config{Movable: &MovableConfig{Dests: &dests}}); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Play("m=", "f="); !errors.Is(err, ErrNotAuthorized) {
		t.Errorf("Play error = %v, want %v", err, ErrNotAuthorized)
	}
	res, err := b.Play("m<", "k<")
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	if res.Dest != "k=" || res.Notation != "24/22" {
		t.Errorf("Play = %+v", res)
	}
	// destinations are consumed by the move
	if !b.CanMove("m=", "f=") {
		t.Error("legal move refused once destinations were cleared")
	}
}

func TestFreeMove(t *testing.T) {
	b, _, _ := newTestBoard(t, StartingPosition)
	free := true
	if err := b.Configure(Config{Movable: &MovableConfig{Free: &free}}); err != nil {
		t.Fatal(err)
	}
	res, err := b.Play("m=", "l1")
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	if res.Dest != "l1" {
		t.Errorf("landed on %s", res.Dest)
	}
	if _, err := b.Play("h1", "m1"); !errors.Is(err, ErrBlocked) {
		t.Errorf("free move onto a blocked point: %v", err)
	}
}

func TestCheckMove(t *testing.T) {
	tests := []struct {
		name       string
		orig, dest Key
		want       error
	}{
		{"same square", "h1", "h1", ErrSameSquare},
		{"empty origin", "l1", "k1", ErrNotMovable},
		{"same point", "h1", "h4", ErrSamePoint},
		{"bar destination", "h1", "g1", ErrNotPoint},
		{"middle row", "h1", "d7", ErrNotPoint},
		{"other off area", "h1", OffBlack, ErrWrongOff},
		{"too far", "m=", "a=", ErrIllegal},
		{"backwards", "h1", "f1", ErrIllegal},
		{"legal", "h1", "k1", nil},
		{"bear off", "h1", OffWhite, nil},
	}
	b, _, _ := newTestBoard(t, StartingPosition)
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := b.checkMove(test.orig, test.dest); !errors.Is(got, test.want) {
				t.Errorf("checkMove(%s, %s) = %v, want %v", test.orig, test.dest, got, test.want)
			}
		})
	}
}

func TestColumnFullWithoutCounts(t *testing.T) {
	b, _, _ := newTestBoard(t, overflowPosition)
	off := false
	if err := b.Configure(Config{TrackCounts: &off}); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Play("e1", "h1"); !errors.Is(err, ErrColumnFull) {
		t.Errorf("Play error = %v, want %v", err, ErrColumnFull)
	}
}

func TestViewOnly(t *testing.T) {
	b, _, _ := newTestBoard(t, StartingPosition)
	on := true
	if err := b.Configure(Config{ViewOnly: &on}); err != nil {
		t.Fatal(err)
	}
	if b.UserMove("m=", "f=") {
		t.Error("move applied on a view only board")
	}
}

func TestStop(t *testing.T) {
	b, _, _ := newTestBoard(t, StartingPosition)
	b.SelectSquare("h1", false)
	b.Stop()
	if _, ok := b.Selected(); ok {
		t.Error("selection survived Stop")
	}
	if b.UserMove("m=", "f=") {
		t.Error("move applied after Stop")
	}
}

func TestReset(t *testing.T) {
	b, _, _ := newTestBoard(t, StartingPosition)
	if !b.UserMove("m=", "f=") {
		t.Fatal("UserMove rejected")
	}
	b.Reset()
	if len(b.MoveLog()) != 0 || len(b.LastMove()) != 0 {
		t.Errorf("Reset kept %v %v", b.MoveLog(), b.LastMove())
	}
	if _, ok := b.Pieces()["f="]; !ok {
		t.Error("Reset changed the position")
	}
}

func TestConfigureInvalidPositionKeepsBoard(t *testing.T) {
	b, _, _ := newTestBoard(t, StartingPosition)
	bad := "2b/-/-"
	if err := b.Configure(Config{Position: &bad}); !errors.Is(err, ErrInvalidPosition) {
		t.Fatalf("Configure error = %v, want %v", err, ErrInvalidPosition)
	}
	if diff := cmp.Diff(StartingCounts(), mustCounts(t, b)); diff != "" {
		t.Errorf("counts changed (-want +got):\n%s", diff)
	}
}

func TestLoadCounts(t *testing.T) {
	b, r, _ := newTestBoard(t, StartingPosition)
	c := StartingCounts()
	c.SetPoint(24, 0)
	c.SetPoint(18, 2)
	if err := b.LoadCounts(c, Black); err != nil {
		t.Fatalf("LoadCounts: %v", err)
	}
	if b.TurnColor() != Black {
		t.Errorf("turn = %v", b.TurnColor())
	}
	if _, ok := b.Pieces()["f<"]; !ok {
		t.Error("f< empty after loading two checkers on 18")
	}
	c.SetPoint(18, 3)
	if err := b.LoadCounts(c, White); !errors.Is(err, ErrInvalidPosition) {
		t.Errorf("LoadCounts of 16 checkers: %v", err)
	}
	b.Queue().Drain()
	if diff := cmp.Diff([]string{"change"}, r.events); diff != "" {
		t.Errorf("notifications (-want +got):\n%s", diff)
	}
}

func TestBaseMove(t *testing.T) {
	b, r, _ := newTestBoard(t, StartingPosition)
	captured, ok := b.BaseMove("m=", "f=")
	if !ok || captured != nil {
		t.Fatalf("BaseMove = %v, %v", captured, ok)
	}
	c := mustCounts(t, b)
	if c.Point(24) != 1 || c.Point(18) != 1 {
		t.Errorf("point 24 = %d, point 18 = %d", c.Point(24), c.Point(18))
	}
	if _, ok := b.Pieces()["m="]; !ok {
		t.Error("origin stack not restacked")
	}
	if _, ok := b.BaseMove("l1", "k1"); ok {
		t.Error("BaseMove from an empty square")
	}
	if _, ok := b.BaseMove("h1", "g8"); ok {
		t.Error("white checker moved onto the black bar")
	}
	b.Queue().Drain()
	if diff := cmp.Diff([]string{"move m= f=", "change"}, r.events); diff != "" {
		t.Errorf("notifications (-want +got):\n%s", diff)
	}
}

func TestNewPiece(t *testing.T) {
	t.Run("full side", func(t *testing.T) {
		b, _, _ := newTestBoard(t, StartingPosition)
		before := b.Pieces()
		if b.NewPiece(NewChecker(White), "l4", false) {
			t.Error("sixteenth white checker placed")
		}
		if diff := cmp.Diff(before, b.Pieces()); diff != "" {
			t.Errorf("pieces changed (-want +got):\n%s", diff)
		}
	})
	t.Run("from off", func(t *testing.T) {
		b, r, _ := newTestBoard(t, lastCheckerPosition)
		if !b.NewPiece(NewChecker(White), "l4", false) {
			t.Fatal("NewPiece rejected")
		}
		pieces := b.Pieces()
		if _, ok := pieces["l4"]; ok {
			t.Error("checker left floating")
		}
		if p := pieces["l1"]; p != NewChecker(White) {
			t.Errorf("l1 = %+v", p)
		}
		if c := mustCounts(t, b); c.Off(White) != 13 || c.Point(2) != 1 {
			t.Errorf("white off = %d, point 2 = %d", c.Off(White), c.Point(2))
		}
		b.Queue().Drain()
		if diff := cmp.Diff([]string{"drop checkerwhite l4", "change"}, r.events); diff != "" {
			t.Errorf("notifications (-want +got):\n%s", diff)
		}
	})
	t.Run("marker", func(t *testing.T) {
		b, _, _ := newTestBoard(t, StartingPosition)
		if !b.NewPiece(Piece{Role: D3, Color: White}, "d7", false) {
			t.Error("die marker rejected on the middle row")
		}
		if b.NewPiece(Piece{Role: Double, Color: White}, "d1", true) {
			t.Error("cube marker placed on a point")
		}
		pos, err := b.Position()
		if err != nil {
			t.Fatal(err)
		}
		if !strings.HasSuffix(pos, " d3w@d7") {
			t.Errorf("Position() = %q, want the marker", pos)
		}
	})
}

func TestSetPieces(t *testing.T) {
	b, _, _ := newTestBoard(t, lastCheckerPosition)
	w := NewChecker(White)
	if !b.SetPieces(PiecesDiff{"m1": nil, "f=": &w}) {
		t.Fatal("SetPieces rejected")
	}
	c := mustCounts(t, b)
	if c.Point(1) != 0 || c.Point(18) != 1 {
		t.Errorf("point 1 = %d, point 18 = %d", c.Point(1), c.Point(18))
	}
	blk := NewChecker(Black)
	if b.SetPieces(PiecesDiff{"f<": &blk}) {
		t.Error("mixed column accepted")
	}
}

func TestDropNewPiece(t *testing.T) {
	b, _, _ := newTestBoard(t, lastCheckerPosition)
	b.DropNewPiece("m1", "l1", false)
	pieces := b.Pieces()
	if _, ok := pieces["m1"]; ok {
		t.Error("origin still occupied")
	}
	if _, ok := pieces["l1"]; !ok {
		t.Error("piece not dropped")
	}
	b.DropNewPiece("l1", "m=", false)
	if _, ok := b.Pieces()["l1"]; !ok {
		t.Error("failed drop lost the piece")
	}
}

func TestToggleOrientation(t *testing.T) {
	b := New(Options{})
	b.ToggleOrientation()
	if b.Orientation() != Black {
		t.Errorf("orientation = %v", b.Orientation())
	}
	b.ToggleOrientation()
	if b.Orientation() != White {
		t.Errorf("orientation = %v", b.Orientation())
	}
}

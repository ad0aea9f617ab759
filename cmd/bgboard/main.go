// bgboard - imports backgammon positions and plays checker moves on them
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/yourusername/gammonboard/internal/log"
	"github.com/yourusername/gammonboard/internal/positionid"
	"github.com/yourusername/gammonboard/pkg/board"
	"github.com/yourusername/gammonboard/pkg/external"
)

func main() {
	if len(os.Args) < 2 {
		printUsage(os.Stderr)
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "show":
		err = cmdShow(args, os.Stdout)
	case "play":
		err = cmdPlay(args, os.Stdout)
	case "help", "-h", "--help":
		printUsage(os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage(os.Stderr)
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `bgboard - Backgammon board tool

Usage: bgboard <command> [options] [moves]

Commands:
  show      Print a position in every supported format
  play      Play checker moves and print the result

Use "bgboard <command> -h" for command-specific help.

Positions:
  -position  position string, e.g. "2b/-/-/-/-/5w/-/3w/-/-/-/5b/5w/-/-/-/3b/-/5b/-/-/-/-/2w 0/0 0/0 w"
  -id        gnubg position ID, e.g. "4HPwATDgc/ABMA" (a ":matchID" suffix is ignored)
  -fibs      FIBS board string
  The starting position is used when none is given.

Moves:
  Origin and destination squares joined by a dash, e.g. "m=-f=" plays white 24/18.`)
}

// source holds the position flags shared by every command.
type source struct {
	position string
	id       string
	fibs     string
	verbose  bool
}

func (s *source) register(fs *flag.FlagSet) {
	fs.StringVar(&s.position, "position", "", "Position string")
	fs.StringVar(&s.id, "id", "", "Position ID (gnubg format)")
	fs.StringVar(&s.fibs, "fibs", "", "FIBS board string")
	fs.BoolVar(&s.verbose, "v", false, "Log rejected moves to stderr")
}

// load builds a board from the one position given.
func (s *source) load() (*board.Board, error) {
	set := 0
	for _, v := range []string{s.position, s.id, s.fibs} {
		if len(v) != 0 {
			set++
		}
	}
	if set > 1 {
		return nil, fmt.Errorf("give at most one of -position, -id and -fibs")
	}
	var l log.Logger = log.Discard
	if s.verbose {
		l = log.Default("bgboard: ")
	}
	b := board.New(board.Options{Logger: l})
	switch {
	case len(s.id) != 0:
		id := s.id
		if idx := strings.Index(id, ":"); idx >= 0 {
			id = id[:idx]
		}
		c, err := positionid.CountsFromID(id)
		if err != nil {
			return nil, err
		}
		return b, b.LoadCounts(c, board.White)
	case len(s.fibs) != 0:
		fb, err := external.ParseFIBSBoard(s.fibs)
		if err != nil {
			return nil, err
		}
		c, err := fb.Counts()
		if err != nil {
			return nil, err
		}
		return b, b.LoadCounts(c, fb.TurnColor())
	}
	pos := board.StartingPosition
	if len(s.position) != 0 {
		pos = s.position
	}
	return b, b.Configure(board.Config{Position: &pos})
}

func cmdShow(args []string, w io.Writer) error {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	var src source
	src.register(fs)
	fs.Parse(args)

	b, err := src.load()
	if err != nil {
		return err
	}
	return printBoard(w, b)
}

func cmdPlay(args []string, w io.Writer) error {
	fs := flag.NewFlagSet("play", flag.ExitOnError)
	var src source
	src.register(fs)
	fs.Parse(args)

	b, err := src.load()
	if err != nil {
		return err
	}
	for _, arg := range fs.Args() {
		orig, dest, ok := strings.Cut(arg, "-")
		if !ok {
			return fmt.Errorf("malformed move %q, want <orig>-<dest>", arg)
		}
		res, err := b.Play(board.Key(orig), board.Key(dest))
		if err != nil {
			return fmt.Errorf("move %s: %w", arg, err)
		}
		fibs, err := external.FormatMove(res.Notation)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%-8s %-8s %s", arg, res.Notation, fibs)
		if res.Captured != nil {
			fmt.Fprintf(w, " (hits %s)", res.Captured.Color)
		}
		fmt.Fprintln(w)
	}
	b.Queue().Drain()
	if n := len(fs.Args()); n > 0 {
		fmt.Fprintln(w)
	}
	return printBoard(w, b)
}

// printBoard writes the position in each format followed by the move log.
func printBoard(w io.Writer, b *board.Board) error {
	pos, err := b.Position()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Position:    %s\n", pos)
	if c, ok := b.Counts(); ok {
		fmt.Fprintf(w, "Position ID: %s\n", positionid.IDFromCounts(c))
		fmt.Fprintf(w, "Pips:        white %d, black %d\n", pips(c, board.White), pips(c, board.Black))
	}
	fmt.Fprintf(w, "Turn:        %s\n", b.TurnColor())
	if moveLog := b.MoveLog(); len(moveLog) > 0 {
		fmt.Fprintf(w, "Moves:       %s\n", strings.Join(moveLog, " "))
	}
	return nil
}

// pips is the pip count of color: the distance its checkers still have to travel.
func pips(c board.Counts, color board.Color) int {
	total := c.Bar(color) * 25
	for point := 1; point <= 24; point++ {
		n := c.Point(point) * color.Sign()
		if n > 0 {
			total += n * board.RelativePip(color, point)
		}
	}
	return total
}

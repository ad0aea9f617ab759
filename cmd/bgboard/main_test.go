package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/yourusername/gammonboard/pkg/board"
)

func TestCmdShow(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "starting position",
			args: nil,
			want: []string{
				"Position:    " + board.StartingPosition,
				"Position ID: 4HPwATDgc/ABMA",
				"Pips:        white 167, black 167",
				"Turn:        white",
			},
		},
		{
			name: "position id with match id",
			args: []string{"-id", "4HPwATDgc/ABMA:cIkqAAAAAAAA"},
			want: []string{"Position:    " + board.StartingPosition},
		},
		{
			name: "black to move",
			args: []string{"-position", strings.TrimSuffix(board.StartingPosition, "w") + "b"},
			want: []string{"Turn:        black"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := cmdShow(tc.args, &buf); err != nil {
				t.Fatalf("cmdShow: %v", err)
			}
			for _, line := range tc.want {
				if !strings.Contains(buf.String(), line+"\n") {
					t.Errorf("output missing %q:\n%s", line, buf.String())
				}
			}
		})
	}
}

func TestCmdShowErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"two positions", []string{"-id", "4HPwATDgc/ABMA", "-position", board.StartingPosition}},
		{"bad id", []string{"-id", "invalid!!!"}},
		{"bad position", []string{"-position", "2b/-"}},
		{"bad fibs", []string{"-fibs", "board:You:Opponent"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := cmdShow(tc.args, &buf); err == nil {
				t.Errorf("cmdShow(%q) succeeded:\n%s", tc.args, buf.String())
			}
		})
	}
}

func TestCmdPlay(t *testing.T) {
	var buf bytes.Buffer
	if err := cmdPlay([]string{"m=-f=", "m=-k="}, &buf); err != nil {
		t.Fatalf("cmdPlay: %v", err)
	}
	out := buf.String()
	for _, line := range []string{
		"m=-f=    24/18    24-18\n",
		"Moves:       24/18 24/22\n",
		"Pips:        white 159, black 167\n",
	} {
		if !strings.Contains(out, line) {
			t.Errorf("output missing %q:\n%s", line, out)
		}
	}
}

func TestCmdPlayErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"malformed", []string{"m=f="}},
		{"illegal", []string{"m=-a="}},
		{"empty origin", []string{"f=-e="}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := cmdPlay(tc.args, &buf); err == nil {
				t.Errorf("cmdPlay(%q) succeeded:\n%s", tc.args, buf.String())
			}
		})
	}
}

func TestPips(t *testing.T) {
	c := board.StartingCounts()
	c[board.BarSlot(board.White)] = 1
	c.SetPoint(24, 1)
	if got := pips(c, board.White); got != 167-24+25 {
		t.Errorf("pips = %d, want %d", got, 167-24+25)
	}
}

package board

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// MovableColor says which side may move.
type MovableColor string

const (
	MovableNone  MovableColor = ""
	MovableWhite MovableColor = "white"
	MovableBlack MovableColor = "black"
	MovableBoth  MovableColor = "both"
)

// allows reports whether pieces of color c may be picked up.
func (m MovableColor) allows(c Color) bool {
	return m == MovableBoth || string(m) == c.String()
}

// MinAnimationDuration is the shortest animation worth running.
const MinAnimationDuration = 70 * time.Millisecond

// Config lists every option a driver may set. Nil fields are left unchanged by
// Board.Configure, so a Config is also a partial update.
type Config struct {
	// Position replaces the pieces and counts.
	Position *string `json:"position,omitempty"`
	// Orientation is the side whose pip numbering faces the viewer.
	Orientation *Color `json:"orientation,omitempty"`
	TurnColor   *Color `json:"turnColor,omitempty"`
	// LastMove replaces the highlighted squares; an empty slice clears them.
	LastMove *[]Key `json:"lastMove,omitempty"`
	Selected *Key   `json:"selected,omitempty"`
	// TrackCounts keeps the canonical counts alongside the sparse map.
	TrackCounts       *bool             `json:"trackCounts,omitempty"`
	HighlightLastMove *bool             `json:"highlightLastMove,omitempty"`
	ViewOnly          *bool             `json:"viewOnly,omitempty"`
	Movable           *MovableConfig    `json:"movable,omitempty"`
	Draggable         *DraggableConfig  `json:"draggable,omitempty"`
	Selectable        *SelectableConfig `json:"selectable,omitempty"`
	Animation         *AnimationConfig  `json:"animation,omitempty"`
}

// MovableConfig controls who may move and where.
type MovableConfig struct {
	Color *MovableColor `json:"color,omitempty"`
	// Free allows any structurally possible relocation, for board editing.
	Free *bool `json:"free,omitempty"`
	// Dests replaces the authorized destinations; they are never merged.
	Dests *Dests `json:"dests,omitempty"`
}

// DraggableConfig toggles dragging, which the driver implements.
type DraggableConfig struct {
	Enabled *bool `json:"enabled,omitempty"`
}

// SelectableConfig toggles click-click moves.
type SelectableConfig struct {
	Enabled *bool `json:"enabled,omitempty"`
}

// AnimationConfig is consumed by the driver.
type AnimationConfig struct {
	Enabled  *bool          `json:"enabled,omitempty"`
	Duration *time.Duration `json:"duration,omitempty"`
}

// ParseConfig decodes a JSON configuration, rejecting unknown keys.
func ParseConfig(b []byte) (Config, error) {
	var cfg Config
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return cfg, nil
}

// settings is the applied configuration of a board.
type settings struct {
	orientation       Color
	turnColor         Color
	trackCounts       bool
	highlightLastMove bool
	viewOnly          bool
	movable           struct {
		color MovableColor
		free  bool
		dests Dests
	}
	draggable  bool
	selectable bool
	animation  struct {
		enabled  bool
		duration time.Duration
	}
}

func defaultSettings() settings {
	var s settings
	s.highlightLastMove = true
	s.trackCounts = true
	s.movable.color = MovableBoth
	s.draggable = true
	s.selectable = true
	s.animation.enabled = true
	s.animation.duration = 200 * time.Millisecond
	return s
}

func (s *settings) apply(cfg Config) error {
	if cfg.Orientation != nil {
		s.orientation = *cfg.Orientation
	}
	if cfg.TurnColor != nil {
		s.turnColor = *cfg.TurnColor
	}
	if cfg.TrackCounts != nil {
		s.trackCounts = *cfg.TrackCounts
	}
	if cfg.HighlightLastMove != nil {
		s.highlightLastMove = *cfg.HighlightLastMove
	}
	if cfg.ViewOnly != nil {
		s.viewOnly = *cfg.ViewOnly
	}
	if m := cfg.Movable; m != nil {
		if m.Color != nil {
			switch *m.Color {
			case MovableNone, MovableWhite, MovableBlack, MovableBoth:
				s.movable.color = *m.Color
			default:
				return fmt.Errorf("%w: movable color %q", ErrInvalidConfig, *m.Color)
			}
		}
		if m.Free != nil {
			s.movable.free = *m.Free
		}
		if m.Dests != nil {
			s.movable.dests = *m.Dests
		}
	}
	if cfg.Draggable != nil && cfg.Draggable.Enabled != nil {
		s.draggable = *cfg.Draggable.Enabled
	}
	if cfg.Selectable != nil && cfg.Selectable.Enabled != nil {
		s.selectable = *cfg.Selectable.Enabled
	}
	if a := cfg.Animation; a != nil {
		if a.Enabled != nil {
			s.animation.enabled = *a.Enabled
		}
		if a.Duration != nil {
			s.animation.duration = *a.Duration
		}
		if s.animation.duration < MinAnimationDuration {
			s.animation.enabled = false
		}
	}
	return nil
}

// Package api hosts interactive backgammon boards behind an HTTP/JSON and websocket API.
package api

import (
	"encoding/json"
	"time"

	"github.com/yourusername/gammonboard/pkg/board"
)

// ============================================================================
// Request Types
// ============================================================================

// CreateTableRequest is the request body for opening a table. At most one of Position,
// PositionID and Record may be set; the starting position is used when none is.
type CreateTableRequest struct {
	Position   string          `json:"position,omitempty"`    // Position string
	PositionID string          `json:"position_id,omitempty"` // gnubg position ID
	Record     string          `json:"record,omitempty"`      // Saved record to resume
	Config     json.RawMessage `json:"config,omitempty"`      // Board configuration
}

// SeatRequest is the request body for taking a seat at a table.
type SeatRequest struct {
	Color board.MovableColor `json:"color"` // "white", "black" or "both"
}

// ============================================================================
// Response Types
// ============================================================================

// TableState is a snapshot of a table's board.
type TableState struct {
	ID          string        `json:"id"`
	Position    string        `json:"position"`              // Position string
	PositionID  string        `json:"position_id,omitempty"` // gnubg position ID
	Turn        board.Color   `json:"turn"`
	Orientation board.Color   `json:"orientation"`
	Pieces      board.Pieces  `json:"pieces"`           // Occupied cells
	Counts      *board.Counts `json:"counts,omitempty"` // Canonical counts, when tracked
	LastMove    []board.Key   `json:"last_move,omitempty"`
	MoveLog     []string      `json:"move_log"`
	Selected    board.Key     `json:"selected,omitempty"`
}

// SeatResponse carries a seat token.
type SeatResponse struct {
	Token   string             `json:"token"`
	Color   board.MovableColor `json:"color"`
	Expires time.Time          `json:"expires"`
}

// ErrorResponse is returned when an error occurs.
type ErrorResponse struct {
	Error   string `json:"error"`             // Error message
	Code    string `json:"code,omitempty"`    // Error code
	Details string `json:"details,omitempty"` // Additional details
}

// HealthResponse is the response for health check.
type HealthResponse struct {
	Status  string     `json:"status"`         // "ok" or "error"
	Version string     `json:"version"`        // Server version
	Tables  int        `json:"tables"`         // Open tables
	Pool    *PoolStats `json:"pool,omitempty"` // Record worker pool statistics
}

// ============================================================================
// Websocket Types
// ============================================================================

// WSMessage is a message from a websocket client.
type WSMessage struct {
	Type    string          `json:"type"`              // "select", "move", "drop", "config", "position", "reset", "save", "ping"
	ID      string          `json:"id,omitempty"`      // Request ID for correlating responses
	Payload json.RawMessage `json:"payload,omitempty"` // Type-specific payload
}

// WSResponse is a message to websocket and event stream clients.
type WSResponse struct {
	Type    string      `json:"type"`              // "change", "move", "select", "drop", "after", "state", "saved", "error", "pong"
	ID      string      `json:"id,omitempty"`      // Request ID
	Payload interface{} `json:"payload,omitempty"` // Response data
	Error   string      `json:"error,omitempty"`   // Error message if any
}

// SelectPayload picks a square.
type SelectPayload struct {
	Key   board.Key `json:"key"`
	Force bool      `json:"force,omitempty"`
}

// MovePayload moves the checker on Orig to Dest.
type MovePayload struct {
	Orig board.Key `json:"orig"`
	Dest board.Key `json:"dest"`
}

// DropPayload drops the piece on Orig onto Dest, replacing an occupant when forced.
type DropPayload struct {
	Orig  board.Key `json:"orig"`
	Dest  board.Key `json:"dest"`
	Force bool      `json:"force,omitempty"`
}

// PositionPayload replaces the position. Exactly one field is set.
type PositionPayload struct {
	Position   string `json:"position,omitempty"`
	PositionID string `json:"position_id,omitempty"`
	FIBS       string `json:"fibs,omitempty"` // FIBS board string, you playing white
}

// MoveEvent reports one relocation on the board.
type MoveEvent struct {
	Orig     board.Key    `json:"orig"`
	Dest     board.Key    `json:"dest"`
	Captured *board.Piece `json:"captured,omitempty"`
}

// SelectEvent reports a picked square.
type SelectEvent struct {
	Key board.Key `json:"key"`
}

// DropEvent reports a placed piece.
type DropEvent struct {
	Piece board.Piece `json:"piece"`
	Key   board.Key   `json:"key"`
}

// AfterEvent reports a completed user move, or a completed drop when Role is set.
type AfterEvent struct {
	Orig board.Key          `json:"orig,omitempty"`
	Dest board.Key          `json:"dest,omitempty"`
	Role board.Role         `json:"role,omitempty"`
	Key  board.Key          `json:"key,omitempty"`
	Meta board.MoveMetadata `json:"meta"`
}

// SavedEvent confirms a saved record.
type SavedEvent struct {
	Record string `json:"record"`
	Moves  int    `json:"moves"`
}

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/time/rate"

	"github.com/yourusername/gammonboard/internal/log"
	"github.com/yourusername/gammonboard/internal/positionid"
	"github.com/yourusername/gammonboard/internal/record"
	"github.com/yourusername/gammonboard/pkg/board"
)

// Handlers holds the HTTP handlers and the open tables.
type Handlers struct {
	version     string
	tables      *Lobby
	tokens      *Tokenizer
	saver       *recordSaver // nil when records are not kept
	pool        *WorkerPool
	messageRate rate.Limit // websocket messages per second and client
	log         log.Logger
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, msg string, code string) {
	writeJSON(w, status, ErrorResponse{
		Error: msg,
		Code:  code,
	})
}

// decodePayload reads the payload of a websocket message.
func decodePayload(msg WSMessage, v interface{}) error {
	if len(msg.Payload) == 0 {
		return fmt.Errorf("%s payload required", msg.Type)
	}
	if err := json.Unmarshal(msg.Payload, v); err != nil {
		return fmt.Errorf("invalid %s payload: %v", msg.Type, err)
	}
	return nil
}

// table looks up the table named in the path, writing a 404 when there is none.
func (h *Handlers) table(w http.ResponseWriter, r *http.Request) (*Table, bool) {
	t, ok := h.tables.get(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "table not found", "TABLE_NOT_FOUND")
	}
	return t, ok
}

// Health handles GET /api/health
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:  "ok",
		Version: h.version,
		Tables:  h.tables.Len(),
	}
	if h.pool != nil {
		stats := h.pool.Stats()
		resp.Pool = &stats
	}
	writeJSON(w, http.StatusOK, resp)
}

// CreateTable handles POST /api/tables
func (h *Handlers) CreateTable(w http.ResponseWriter, r *http.Request) {
	var req CreateTableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON", "INVALID_JSON")
		return
	}
	sources := 0
	for _, s := range []string{req.Position, req.PositionID, req.Record} {
		if len(s) != 0 {
			sources++
		}
	}
	if sources > 1 {
		writeError(w, http.StatusBadRequest, "set at most one of position, position_id and record", "INVALID_REQUEST")
		return
	}

	var (
		b       *board.Board
		initial string
		moves   []record.Move
	)
	if len(req.Record) != 0 {
		if h.saver == nil {
			writeError(w, http.StatusNotFound, "records are not kept", "RECORD_NOT_FOUND")
			return
		}
		rec, err := h.saver.load(r.Context(), req.Record)
		switch {
		case errors.Is(err, record.ErrNotFound):
			writeError(w, http.StatusNotFound, "record not found", "RECORD_NOT_FOUND")
			return
		case err != nil:
			h.log.Printf("loading record %s: %v", req.Record, err)
			writeError(w, http.StatusInternalServerError, "loading record failed", "RECORD_ERROR")
			return
		}
		b, err = rec.Replay(h.log)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error(), "INVALID_RECORD")
			return
		}
		initial, moves = rec.Initial, rec.Moves
	} else {
		pos := board.StartingPosition
		switch {
		case len(req.Position) != 0:
			pos = req.Position
		case len(req.PositionID) != 0:
			c, err := positionid.CountsFromID(req.PositionID)
			if err != nil {
				writeError(w, http.StatusBadRequest, err.Error(), "INVALID_POSITION")
				return
			}
			pos = board.FormatPosition(c, board.White, nil)
		}
		b = board.New(board.Options{Logger: h.log})
		if err := b.Configure(board.Config{Position: &pos}); err != nil {
			writeError(w, http.StatusBadRequest, err.Error(), "INVALID_POSITION")
			return
		}
	}
	restart := len(req.Record) == 0
	if len(req.Config) != 0 {
		cfg, err := board.ParseConfig(req.Config)
		if err == nil {
			err = b.Configure(cfg)
		}
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error(), "INVALID_CONFIG")
			return
		}
		if cfg.Position != nil && !restart {
			// the replayed moves no longer lead to the board's position
			b.Reset()
			restart = true
		}
	}
	if restart {
		pos, err := b.Position()
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error(), "INVALID_POSITION")
			return
		}
		initial, moves = pos, nil
	}

	t, err := h.tables.open(b, initial, moves)
	if err != nil {
		if errors.Is(err, ErrTooManyTables) {
			writeError(w, http.StatusServiceUnavailable, err.Error(), "TOO_MANY_TABLES")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error(), "TABLE_ERROR")
		return
	}
	state, err := t.State(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error(), "TABLE_ERROR")
		return
	}
	writeJSON(w, http.StatusCreated, state)
}

// GetTable handles GET /api/tables/{id}
func (h *Handlers) GetTable(w http.ResponseWriter, r *http.Request) {
	t, ok := h.table(w, r)
	if !ok {
		return
	}
	state, err := t.State(r.Context())
	if err != nil {
		writeError(w, http.StatusGone, err.Error(), "TABLE_CLOSED")
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// CreateSeat handles POST /api/tables/{id}/seats
func (h *Handlers) CreateSeat(w http.ResponseWriter, r *http.Request) {
	t, ok := h.table(w, r)
	if !ok {
		return
	}
	var req SeatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON", "INVALID_JSON")
		return
	}
	switch req.Color {
	case board.MovableWhite, board.MovableBlack, board.MovableBoth:
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("color must be white, black or both, got %q", req.Color), "INVALID_COLOR")
		return
	}
	token, expires, err := h.tokens.Create(t.ID(), req.Color)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error(), "TOKEN_ERROR")
		return
	}
	writeJSON(w, http.StatusCreated, SeatResponse{
		Token:   token,
		Color:   req.Color,
		Expires: expires,
	})
}

// GetRecord handles GET /api/records/{id}
func (h *Handlers) GetRecord(w http.ResponseWriter, r *http.Request) {
	if h.saver == nil {
		writeError(w, http.StatusNotFound, "records are not kept", "RECORD_NOT_FOUND")
		return
	}
	rec, err := h.saver.load(r.Context(), r.PathValue("id"))
	switch {
	case errors.Is(err, record.ErrNotFound):
		writeError(w, http.StatusNotFound, "record not found", "RECORD_NOT_FOUND")
	case err != nil:
		h.log.Printf("loading record %s: %v", r.PathValue("id"), err)
		writeError(w, http.StatusInternalServerError, "loading record failed", "RECORD_ERROR")
	default:
		writeJSON(w, http.StatusOK, rec)
	}
}

package board

import "time"

// HoldTimer measures a press-and-hold gesture. Its elapsed time is reported with the
// move; it never affects how a move is applied.
type HoldTimer struct {
	now   func() time.Time
	start time.Time
	on    bool
}

// NewHoldTimer creates a timer reading the given clock, time.Now when nil.
func NewHoldTimer(now func() time.Time) *HoldTimer {
	if now == nil {
		now = time.Now
	}
	return &HoldTimer{now: now}
}

// Start begins timing.
func (h *HoldTimer) Start() {
	h.start = h.now()
	h.on = true
}

// Cancel stops timing without reporting.
func (h *HoldTimer) Cancel() {
	h.on = false
}

// Stop ends timing and returns the elapsed time, zero when the timer was not running.
func (h *HoldTimer) Stop() time.Duration {
	if !h.on {
		return 0
	}
	h.on = false
	return h.now().Sub(h.start)
}

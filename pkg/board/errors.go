package board

import "errors"

// Import and configuration failures. These prevent the board from being (re)initialized.
var (
	ErrInvalidPosition = errors.New("invalid position")
	ErrInvalidConfig   = errors.New("invalid configuration")
)

// Reasons a move request is rejected. Rejections are silent towards the driver; the
// reason only reaches the board's logger.
var (
	ErrSameSquare    = errors.New("origin equals destination")
	ErrNotMovable    = errors.New("origin holds no movable checker")
	ErrNotAuthorized = errors.New("destination not authorized")
	ErrIllegal       = errors.New("illegal checker move")
	ErrBlocked       = errors.New("destination point blocked")
	ErrSamePoint     = errors.New("destination on the origin point")
	ErrColumnFull    = errors.New("destination column full")
	ErrWrongOff      = errors.New("off area of the other side")
	ErrNotPoint      = errors.New("destination is not a point")
)

package apperror

import "errors"

var (
	ErrInvalidConfig = errors.New("invalid game config")
	ErrIllegalMove   = errors.New("illegal move")
	ErrNoLegalMove   = errors.New("no legal move left")
	ErrStaleMove     = errors.New("stale delayed move")
	ErrGameNotFound  = errors.New("game not found")
)

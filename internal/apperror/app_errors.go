package apperror

import "errors"

var (
	ErrPlayerNotFound = errors.New("player not found")
	ErrInvalidCard    = errors.New("invalid card id")
	ErrUnknownAction  = errors.New("unknown action")
)

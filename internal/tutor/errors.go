package tutor

import "errors"

// The only failures a caller sees. Everything else inside a turn degrades
// to a fallback reply.
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrInvalidRequest  = errors.New("invalid request")
)

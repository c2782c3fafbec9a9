package prompt

import "errors"

var (
	// ErrConfiguration marks invalid prompt options or session setup.
	ErrConfiguration = errors.New("prompt: invalid configuration")
	// ErrBackend marks a failed, cancelled or malformed completion call. A turn
	// failing with ErrBackend leaves history and token usage untouched.
	ErrBackend = errors.New("prompt: completion backend failed")
)

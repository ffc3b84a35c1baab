package store

import "errors"

var (
	// ErrStale is returned by Reload when a newer reload superseded it; its
	// response was discarded.
	ErrStale = errors.New("store: response superseded by a newer reload")
	// ErrClosed is returned by Reload once the store has been closed.
	ErrClosed = errors.New("store: closed")
)

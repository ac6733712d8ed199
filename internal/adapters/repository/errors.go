package repository

import "errors"

// Sentinel errors for snapshot access.
var (
	ErrNoSnapshot      = errors.New("no snapshot loaded")
	ErrInvalidSnapshot = errors.New("invalid snapshot")
	ErrNotFound        = errors.New("player not found")
	ErrClosed          = errors.New("snapshot store closed")
)

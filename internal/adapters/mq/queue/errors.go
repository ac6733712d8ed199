package queue

import "errors"

// Sentinel errors for enqueue failures.
var (
	ErrQueueClosed = errors.New("warm-up queue closed")
	ErrQueueFull   = errors.New("warm-up queue full")
)

package ingest

import "errors"

// ErrInvalidEntry reports a leaderboard entry that cannot become a row.
var ErrInvalidEntry = errors.New("invalid leaderboard entry")

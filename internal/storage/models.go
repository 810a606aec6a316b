package storage

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Generation is one synthesized avatar spec, recorded for history and
// stats. SpecJSON holds the marshaled spec exactly as served.
type Generation struct {
	ID        string
	Repo      string // "owner/name"
	Variant   int
	Seed      string
	Fallback  bool
	SpecJSON  string
	CreatedAt time.Time
}

// Stats summarizes the generation history.
type Stats struct {
	Total       int
	Fallbacks   int
	UniqueRepos int
}

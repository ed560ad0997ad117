package core

import "time"

// Checkpoint records the last catalog import from a source so an unchanged
// catalog is not rewritten.
type Checkpoint struct {
	Source      string
	Fingerprint ID
	Sections    int
	UpdatedAt   time.Time
}

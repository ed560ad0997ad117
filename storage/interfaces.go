package storage

import (
	"context"

	"github.com/poiesic/coursegrid/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close releases resources held by the repository.
	Close() error
}

// SectionRepository stores the course catalog.
type SectionRepository interface {
	Repository

	// AddSections appends sections after those already stored.
	// A section whose ID is already stored replaces the stored copy and
	// keeps its original position.
	AddSections(ctx context.Context, sections ...*core.Section) error

	// ClearSections removes every stored section.
	ClearSections(ctx context.Context) error

	// ReplaceSections starts building a catalog that replaces every stored
	// section at once. Readers keep seeing the current catalog until the
	// replacement commits.
	ReplaceSections(ctx context.Context) (SectionReplacement, error)

	// GetSection retrieves a section by its catalog ID.
	// Returns ErrNotFound if the section doesn't exist.
	GetSection(ctx context.Context, id string) (*core.Section, error)

	// GetSections retrieves multiple sections by catalog ID.
	// Returns only the sections that exist (no error for missing sections).
	GetSections(ctx context.Context, ids ...string) ([]*core.Section, error)

	// ListSections returns every stored section in insertion order.
	ListSections(ctx context.Context) ([]core.Section, error)

	// CountSections returns the number of stored sections.
	CountSections(ctx context.Context) (int, error)
}

// SectionReplacement collects a replacement catalog.
// Exactly one of Commit or Abort should be called. Abort after Commit is a
// no-op, so Abort can be deferred.
type SectionReplacement interface {
	// AddSections appends sections to the replacement.
	AddSections(ctx context.Context, sections ...*core.Section) error

	// Commit swaps the replacement in as the stored catalog.
	Commit(ctx context.Context) error

	// Abort discards the replacement and leaves the stored catalog untouched.
	Abort(ctx context.Context) error
}

// CheckpointRepository stores import checkpoints keyed by source.
type CheckpointRepository interface {
	// SaveCheckpoint persists a checkpoint and stamps its UpdatedAt.
	SaveCheckpoint(ctx context.Context, checkpoint *core.Checkpoint) error

	// LoadCheckpoint retrieves the checkpoint for a source.
	// Returns nil, nil if no checkpoint exists.
	LoadCheckpoint(ctx context.Context, source string) (*core.Checkpoint, error)
}

// SelectionRepository stores the shared schedule selection.
type SelectionRepository interface {
	// SaveSelection persists the ordered list of selected section ids.
	SaveSelection(ctx context.Context, ids []string) error

	// LoadSelection returns the saved selection, or nil when none was saved.
	LoadSelection(ctx context.Context) ([]string, error)
}

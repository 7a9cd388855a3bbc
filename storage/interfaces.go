package storage

import (
	"context"

	"github.com/poiesic/officelines/core"
)

// LineRepository provides operations for managing dialogue lines.
type LineRepository interface {
	// AddLines stores one or more lines keyed by their Id.
	// A line whose Id is already stored replaces the stored copy.
	// Every line is validated with core.ValidateLine before anything is written.
	// Returns the stored lines.
	AddLines(ctx context.Context, lines ...*core.Line) ([]*core.Line, error)

	// DeleteLines removes lines by their IDs.
	// Returns ErrNotFound if any line doesn't exist.
	DeleteLines(ctx context.Context, ids ...core.ID) error

	// GetLine retrieves a single line by ID.
	// Returns ErrNotFound if the line doesn't exist.
	GetLine(ctx context.Context, id core.ID) (*core.Line, error)

	// GetLines retrieves multiple lines by their IDs.
	// Returns only the lines that exist (no error for missing lines),
	// in the order the IDs were given.
	GetLines(ctx context.Context, ids ...core.ID) ([]*core.Line, error)

	// AllLines returns every stored line ordered by ID ascending.
	AllLines(ctx context.Context) ([]*core.Line, error)

	// CountLines returns the number of stored lines.
	CountLines(ctx context.Context) (int, error)

	// Close releases resources held by the repository.
	Close() error
}

// CheckpointRepository stores the last successful import per source.
type CheckpointRepository interface {
	// SaveCheckpoint stores the checkpoint, replacing any previous one for
	// the same source. Sets UpdatedAt.
	SaveCheckpoint(ctx context.Context, checkpoint *core.Checkpoint) error

	// LoadCheckpoint returns the checkpoint for source, or nil if the source
	// has never been imported.
	LoadCheckpoint(ctx context.Context, source string) (*core.Checkpoint, error)
}

package git

import (
	"context"

	"github.com/masmgr/darcslog/internal/changelog"
)

// RepositoryReader defines the interface for turning repository history
// into change records.
type RepositoryReader interface {
	// ReadRecords returns one record per commit, newest first.
	ReadRecords(ctx context.Context) ([]changelog.Record, error)
}

// Compile-time interface conformance check.
var _ RepositoryReader = (*HistoryReader)(nil)

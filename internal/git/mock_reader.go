package git

import (
	"context"

	"github.com/masmgr/darcslog/internal/changelog"
)

// MockHistoryReader is a test double for HistoryReader.
// It returns predefined records without needing a real Git repository.
type MockHistoryReader struct {
	Records []changelog.Record
	Error   error
}

// NewMockHistoryReader creates a new MockHistoryReader with the given data.
func NewMockHistoryReader(records []changelog.Record, err error) *MockHistoryReader {
	return &MockHistoryReader{
		Records: records,
		Error:   err,
	}
}

// ReadRecords returns the predefined records or error.
func (m *MockHistoryReader) ReadRecords(_ context.Context) ([]changelog.Record, error) {
	return m.Records, m.Error
}

// Compile-time interface conformance check.
var _ RepositoryReader = (*MockHistoryReader)(nil)

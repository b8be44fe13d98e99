package git

import (
	"context"
	"errors"
	"testing"

	"github.com/masmgr/darcslog/internal/changelog"
)

func TestMockHistoryReader_ReadRecords(t *testing.T) {
	expected := []changelog.Record{
		changelog.NewRecordBuilder("Test <test@example.com>", "20240101000000", "Mon Jan  1 00:00:00 UTC 2024", "abc123").
			Name("Test commit").
			Modify("file1.go").
			Build(),
	}

	t.Run("returns records", func(t *testing.T) {
		reader := NewMockHistoryReader(expected, nil)

		records, err := reader.ReadRecords(context.Background())

		if err != nil {
			t.Errorf("expected no error, got %v", err)
		}
		if len(records) != len(expected) {
			t.Errorf("expected %d records, got %d", len(expected), len(records))
		}
	})

	t.Run("returns error", func(t *testing.T) {
		expectedErr := errors.New("test error")
		reader := NewMockHistoryReader(nil, expectedErr)

		_, err := reader.ReadRecords(context.Background())

		if err != expectedErr {
			t.Errorf("expected error %v, got %v", expectedErr, err)
		}
	})
}

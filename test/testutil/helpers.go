// Package testutil provides test helper functions for unit and integration tests.
package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/flight-search/flexible-date-search/internal/domain"
)

// ProjectRoot returns the repository root directory.
func ProjectRoot(t *testing.T) string {
	t.Helper()

	_, currentFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	return filepath.Join(filepath.Dir(currentFile), "..", "..")
}

// LoadFixture loads a file from docs/fixtures.
func LoadFixture(t *testing.T, filename string) []byte {
	t.Helper()

	data, err := os.ReadFile(FixturePath(t, filename))
	if err != nil {
		t.Fatalf("Failed to load fixture %s: %v", filename, err)
	}
	return data
}

// FixturePath returns the absolute path of a file in docs/fixtures.
func FixturePath(t *testing.T, filename string) string {
	t.Helper()
	return filepath.Join(ProjectRoot(t), "docs", "fixtures", filename)
}

// MustParseDate parses a date string in YYYY-MM-DD format.
// It fails the test if parsing fails.
func MustParseDate(t *testing.T, dateStr string) time.Time {
	t.Helper()
	parsed, err := time.Parse(domain.DateLayout, dateStr)
	if err != nil {
		t.Fatalf("Failed to parse date %s: %v", dateStr, err)
	}
	return parsed
}

// Range builds an inclusive date range from two YYYY-MM-DD strings.
func Range(t *testing.T, start, end string) domain.DateRange {
	t.Helper()
	return domain.NewDateRange(MustParseDate(t, start), MustParseDate(t, end))
}

// Combination builds a round-trip combination from two YYYY-MM-DD strings.
func Combination(t *testing.T, departure, ret string) domain.DateCombination {
	t.Helper()
	combo, err := domain.NewDateCombination(MustParseDate(t, departure), MustParseDate(t, ret))
	if err != nil {
		t.Fatalf("Invalid combination %s/%s: %v", departure, ret, err)
	}
	return combo
}

// Ptr returns a pointer to the given value.
// Useful for creating pointers to literals in tests.
func Ptr[T any](v T) *T {
	return &v
}

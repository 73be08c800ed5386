// Package testutil provides shared test helpers.
package testutil

import (
	"testing"

	"github.com/pmezard/go-difflib/difflib"
)

// Diff returns a unified diff between expected and actual text.
func Diff(expected, actual string) string {
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(expected),
		B:        difflib.SplitLines(actual),
		FromFile: "expected",
		ToFile:   "actual",
		Context:  3,
	})
	if err != nil {
		return "(diff failed: " + err.Error() + ")"
	}
	return diff
}

// RequireEqualText fails the test with a unified diff when the two texts
// differ. Useful for multi-line prompt and rendering comparisons where
// testify's default output is hard to read.
func RequireEqualText(t *testing.T, expected, actual string) {
	t.Helper()
	if expected != actual {
		t.Fatalf("text mismatch:\n%s", Diff(expected, actual))
	}
}

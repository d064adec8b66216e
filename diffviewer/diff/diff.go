// Package diff computes line-based difference statistics for two texts.
//
// The statistics are derived from the length of the longest common subsequence (LCS) of the lines
// of both texts: every line of the original text that is not part of the LCS counts as removed,
// every line of the changed text that is not part of the LCS counts as added. No edit script is
// produced.
//
// All functions in this package are pure and safe for concurrent use.
package diff

import "fmt"

// Stats summarizes the difference between two texts at line granularity.
//
// Invariant: Added == len(changed lines) - LCS and Removed == len(original lines) - LCS. Both
// values are therefore never negative.
type Stats struct {
	Added   int `json:"added"`   // Lines only present in the changed text
	Removed int `json:"removed"` // Lines only present in the original text
}

// IsZero reports whether s describes two identical line sequences.
func (s Stats) IsZero() bool { return s.Added == 0 && s.Removed == 0 }

// String returns the compact summary form, e.g. "+2 -1".
func (s Stats) String() string { return fmt.Sprintf("+%d -%d", s.Added, s.Removed) }

// Compute splits original and changed into lines and returns how many lines were added and removed
// to get from original to changed.
func Compute(original, changed string) Stats {
	return ComputeLines(SplitLines(original), SplitLines(changed))
}

// ComputeLines is like [Compute] but operates on texts that have already been split into lines.
func ComputeLines(x, y []string) Stats {
	if len(x) == 0 && len(y) == 0 {
		return Stats{}
	}
	common := LCSLength(x, y)
	return Stats{
		Added:   len(y) - common,
		Removed: len(x) - common,
	}
}

package diff

import (
	"math/rand/v2"
	"strings"
	"testing"

	"znkr.io/diff"
)

func TestLCSLength(t *testing.T) {
	tests := []struct {
		name string
		x, y []string
		want int
	}{
		{
			name: "both empty",
		},
		{
			name: "x empty",
			y:    []string{"a", "b"},
		},
		{
			name: "y empty",
			x:    []string{"a"},
		},
		{
			name: "subsequence",
			x:    []string{"a", "b", "c"},
			y:    []string{"a", "c"},
			want: 2,
		},
		{
			name: "disjoint",
			x:    []string{"x", "y", "z"},
			y:    []string{"a", "b", "c"},
			want: 0,
		},
		{
			name: "identical",
			x:    []string{"a", "b", "c"},
			y:    []string{"a", "b", "c"},
			want: 3,
		},
		{
			name: "ABCABBA_to_CBABAC",
			x:    strings.Split("ABCABBA", ""),
			y:    strings.Split("CBABAC", ""),
			want: 4,
		},
		{
			name: "same prefix",
			x:    []string{"foo", "bar"},
			y:    []string{"foo", "baz"},
			want: 1,
		},
		{
			name: "same suffix",
			x:    []string{"foo", "bar"},
			y:    []string{"loo", "bar"},
			want: 1,
		},
		{
			name: "repeated elements",
			x:    []string{"a", "a"},
			y:    []string{"a", "b", "a", "b", "a"},
			want: 2,
		},
		{
			name: "reversed",
			x:    []string{"1", "2", "3", "4"},
			y:    []string{"4", "3", "2", "1"},
			want: 1,
		},
		{
			name: "case sensitive",
			x:    []string{"Foo", "bar"},
			y:    []string{"foo", "bar"},
			want: 1,
		},
		{
			name: "whitespace is significant",
			x:    []string{"a ", "b"},
			y:    []string{"a", "b"},
			want: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LCSLength(tt.x, tt.y); got != tt.want {
				t.Errorf("LCSLength(%q, %q) = %d, want %d", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

// randomLines returns a sequence of n lines drawn from a small alphabet so that random sequences
// have plenty of lines in common.
func randomLines(rnd *rand.Rand, n, alphabet int) []string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = string(rune('a' + rnd.IntN(alphabet)))
	}
	return lines
}

// lcsTable is a textbook implementation that keeps the complete table around.
func lcsTable(x, y []string) int {
	dp := make([][]int, len(x)+1)
	for i := range dp {
		dp[i] = make([]int, len(y)+1)
	}
	for i := 1; i <= len(x); i++ {
		for j := 1; j <= len(y); j++ {
			if x[i-1] == y[j-1] {
				dp[i][j] = dp[i-1][j-1] + 1
			} else {
				dp[i][j] = max(dp[i-1][j], dp[i][j-1])
			}
		}
	}
	return dp[len(x)][len(y)]
}

// matches counts the matches of an optimal edit script, which is exactly the LCS length.
func matches(x, y []string) int {
	n := 0
	for _, e := range diff.Edits(x, y, diff.Minimal()) {
		if e.Op == diff.Match {
			n++
		}
	}
	return n
}

func TestLCSLengthProperties(t *testing.T) {
	rnd := rand.New(rand.NewPCG(1, 2))
	for range 500 {
		x := randomLines(rnd, rnd.IntN(30), 1+rnd.IntN(6))
		y := randomLines(rnd, rnd.IntN(30), 1+rnd.IntN(6))

		got := LCSLength(x, y)
		if want := lcsTable(x, y); got != want {
			t.Fatalf("LCSLength(%q, %q) = %d, want %d (full table)", x, y, got, want)
		}
		if want := matches(x, y); got != want {
			t.Fatalf("LCSLength(%q, %q) = %d, want %d (optimal edit script)", x, y, got, want)
		}
		if sym := LCSLength(y, x); got != sym {
			t.Fatalf("LCSLength is not symmetric for %q, %q: %d vs %d", x, y, got, sym)
		}
		if got < 0 || got > min(len(x), len(y)) {
			t.Fatalf("LCSLength(%q, %q) = %d, out of bounds [0, %d]", x, y, got, min(len(x), len(y)))
		}
		if id := LCSLength(x, x); id != len(x) {
			t.Fatalf("LCSLength(x, x) = %d, want %d for x = %q", id, len(x), x)
		}
	}
}

func BenchmarkLCSLength(b *testing.B) {
	rnd := rand.New(rand.NewPCG(3, 4))
	x := randomLines(rnd, 2000, 20)
	y := randomLines(rnd, 2000, 20)
	b.ResetTimer()
	for range b.N {
		LCSLength(x, y)
	}
}

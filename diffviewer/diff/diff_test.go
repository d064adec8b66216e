package diff

import (
	"math/rand/v2"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCompute(t *testing.T) {
	tests := []struct {
		name              string
		original, changed string
		want              Stats
	}{
		{
			name: "both empty",
		},
		{
			name:     "original empty",
			original: "",
			changed:  "a\nb",
			want:     Stats{Added: 2},
		},
		{
			name:     "changed empty",
			original: "a\nb\nc",
			changed:  "",
			want:     Stats{Removed: 3},
		},
		{
			name:     "added and removed",
			original: "one\ntwo\nthree",
			changed:  "one\nthree\nfour\nfive",
			want:     Stats{Added: 2, Removed: 1},
		},
		{
			name:     "identical",
			original: "one\ntwo\n",
			changed:  "one\ntwo\n",
		},
		{
			name:     "line endings do not matter",
			original: "one\ntwo\nthree",
			changed:  "one\r\ntwo\r\nthree",
		},
		{
			name:     "trailing newline counts as a line",
			original: "one",
			changed:  "one\n",
			want:     Stats{Added: 1},
		},
		{
			name:     "unrelated",
			original: "a\nb",
			changed:  "c\nd\ne",
			want:     Stats{Added: 3, Removed: 2},
		},
		{
			name:     "modified line",
			original: "func f() int {\n\treturn 0\n}\n",
			changed:  "func f() int {\n\treturn 42\n}\n",
			want:     Stats{Added: 1, Removed: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compute(tt.original, tt.changed)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Compute(%q, %q) result is different (-want, +got):\n%s", tt.original, tt.changed, diff)
			}
		})
	}
}

func TestComputeProperties(t *testing.T) {
	rnd := rand.New(rand.NewPCG(5, 6))
	for range 300 {
		original := strings.Join(randomLines(rnd, rnd.IntN(20), 4), "\n")
		changed := strings.Join(randomLines(rnd, rnd.IntN(20), 4), "\r\n")

		got := Compute(original, changed)
		x, y := SplitLines(original), SplitLines(changed)
		common := LCSLength(x, y)
		want := Stats{Added: len(y) - common, Removed: len(x) - common}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("Compute(%q, %q) result is different (-want, +got):\n%s", original, changed, diff)
		}
		if got.Added < 0 || got.Removed < 0 {
			t.Fatalf("Compute(%q, %q) = %v, want non-negative counts", original, changed, got)
		}
		if self := Compute(original, original); !self.IsZero() {
			t.Fatalf("Compute(t, t) = %v, want +0 -0 for t = %q", self, original)
		}
		if got.IsZero() != slices.Equal(x, y) {
			t.Fatalf("Compute(%q, %q).IsZero() = %v, but lines equal = %v", original, changed, got.IsZero(), slices.Equal(x, y))
		}
	}
}

func TestStatsString(t *testing.T) {
	tests := []struct {
		stats Stats
		want  string
	}{
		{Stats{}, "+0 -0"},
		{Stats{Added: 2, Removed: 1}, "+2 -1"},
		{Stats{Added: 35}, "+35 -0"},
	}
	for _, tt := range tests {
		if got := tt.stats.String(); got != tt.want {
			t.Errorf("%#v.String() = %q, want %q", tt.stats, got, tt.want)
		}
	}
}

func TestComputeConcurrent(t *testing.T) {
	const original, changed = "one\ntwo\nthree", "one\nthree\nfour\nfive"
	want := Stats{Added: 2, Removed: 1}

	var wg sync.WaitGroup
	errc := make(chan Stats, 8)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				if got := Compute(original, changed); got != want {
					errc <- got
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errc)
	for got := range errc {
		t.Errorf("Compute() = %v, want %v", got, want)
	}
}

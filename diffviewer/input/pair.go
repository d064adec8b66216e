package input

import (
	"errors"
	"fmt"

	"flo.znkr.io/diffviewer/diff"
)

// Pair holds the two documents to compare.
type Pair struct {
	Original string `json:"original"`
	Changed  string `json:"changed"`
}

// Get returns the document for side.
func (p *Pair) Get(side Side) string {
	if side == Changed {
		return p.Changed
	}
	return p.Original
}

// Set replaces the document for side.
func (p *Pair) Set(side Side, text string) {
	if side == Changed {
		p.Changed = text
	} else {
		p.Original = text
	}
}

// Ready reports whether both documents are present. Comparing against nothing is not very useful.
func (p *Pair) Ready() bool { return p.Original != "" && p.Changed != "" }

// Stats computes the line statistics from the original to the changed document.
func (p *Pair) Stats() diff.Stats { return diff.Compute(p.Original, p.Changed) }

// LoadPair reads both documents from the files at the given paths, see [ReadFile]. At most one of
// the paths may be "-".
func LoadPair(original, changed string, opts Options) (Pair, error) {
	if original == "-" && changed == "-" {
		return Pair{}, errors.New("cannot read both documents from standard input")
	}
	var p Pair
	paths := [...]string{Original: original, Changed: changed}
	for _, side := range Sides {
		text, err := ReadFile(paths[side], opts)
		if err != nil {
			return Pair{}, fmt.Errorf("loading %v document: %w", side, err)
		}
		p.Set(side, text)
	}
	return p, nil
}

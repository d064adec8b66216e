// Package sample provides a pair of example documents to try out the diff viewer with.
package sample

import (
	_ "embed"

	"flo.znkr.io/diffviewer/input"
)

var (
	//go:embed original.txt
	Original string

	//go:embed changed.txt
	Changed string
)

// Pair returns the sample documents as a pair.
func Pair() input.Pair {
	return input.Pair{Original: Original, Changed: Changed}
}

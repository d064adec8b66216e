package input

import "fmt"

// Side identifies one of the two documents being compared.
//
//go:generate go tool stringer -type=Side -linecomment
type Side int

const (
	Original Side = iota // original
	Changed              // changed
)

// Sides lists all sides in document order.
var Sides = [...]Side{Original, Changed}

// ParseSide returns the side with the given name, as returned by [Side.String].
func ParseSide(s string) (Side, error) {
	for _, side := range Sides {
		if side.String() == s {
			return side, nil
		}
	}
	return 0, fmt.Errorf("unknown side %q", s)
}

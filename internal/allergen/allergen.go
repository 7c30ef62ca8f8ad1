// Package allergen defines the fixed universe of allergen categories and a
// bitmask set over it.
package allergen

import (
	"fmt"
	"strings"
)

// Category is a single allergen bit.
type Category uint32

// Known categories, in declaration order. Rendering and member iteration
// always follow this order.
const (
	EGGS Category = 1 << iota
	PNTS
	SHFS
	STWB
	TMTO
	CHLT
	PLLN
	CATS
)

// All lists every known category in declaration order.
var All = [...]Category{EGGS, PNTS, SHFS, STWB, TMTO, CHLT, PLLN, CATS}

// ValidMask is the union of all category bits.
const ValidMask = uint32(EGGS | PNTS | SHFS | STWB | TMTO | CHLT | PLLN | CATS)

var names = map[Category]string{
	EGGS: "EGGS",
	PNTS: "PNTS",
	SHFS: "SHFS",
	STWB: "STWB",
	TMTO: "TMTO",
	CHLT: "CHLT",
	PLLN: "PLLN",
	CATS: "CATS",
}

func (c Category) String() string {
	if n, ok := names[c]; ok {
		return n
	}
	return fmt.Sprintf("Category(%d)", uint32(c))
}

// Lookup resolves a short category name, ignoring case.
func Lookup(name string) (Category, bool) {
	name = strings.ToUpper(strings.TrimSpace(name))
	for _, c := range All {
		if names[c] == name {
			return c, true
		}
	}
	return 0, false
}

// Menu renders the universe as shown before each prompt.
func Menu() string {
	parts := make([]string, 0, len(All))
	for _, c := range All {
		parts = append(parts, fmt.Sprintf("%s=%d", c, uint32(c)))
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Package station resolves report-format regions from station identifiers
// and serves station metadata from a local database.
package station

import "errors"

// ErrUnknownRegion is returned when a station identifier's prefix belongs to
// neither regional letter set.
var ErrUnknownRegion = errors.New("station prefix not in any known region")

// North American first letters, excluding the split Central American M block.
var naPrefixes = []string{"C", "K", "P", "T"}

// International first letters, excluding M.
var intlPrefixes = []string{
	"A", "B", "D", "E", "F", "G", "H", "L", "N", "O",
	"R", "S", "U", "V", "W", "Y", "Z",
}

// The Central American region is split, so M stations need the first two
// letters to resolve.
var naMPrefixes = []string{"MB", "MD", "MK", "MM", "MT", "MU", "MW", "MY"}
var intlMPrefixes = []string{"MG", "MH", "MN", "MP", "MR", "MS", "MZ"}

// UsesNorthAmericanFormat reports which regional grammar a station's reports
// follow. Identifiers starting with M resolve through the two-letter lookup.
func UsesNorthAmericanFormat(ident string) (bool, error) {
	if ident == "" {
		return false, ErrUnknownRegion
	}
	first := ident[:1]
	if first == "M" {
		if len(ident) < 2 {
			return false, ErrUnknownRegion
		}
		two := ident[:2]
		if inList(two, naMPrefixes) {
			return true, nil
		}
		if inList(two, intlMPrefixes) {
			return false, nil
		}
		return false, ErrUnknownRegion
	}
	if inList(first, naPrefixes) {
		return true, nil
	}
	if inList(first, intlPrefixes) {
		return false, nil
	}
	return false, ErrUnknownRegion
}

func inList(s string, items []string) bool {
	for _, item := range items {
		if s == item {
			return true
		}
	}
	return false
}

package fields

import (
	"strings"

	"wx_parser/internal/report"
)

// AltimeterNA extracts the altimeter setting from the back of the token list
// for North American reports. A-prefixed tokens are the region default
// (inches of mercury, hundredths); a Q-prefixed token switches the unit to
// hectopascals; a bare 4-digit trailing token is accepted as-is. When a
// station reports both forms the redundant second token is discarded.
func AltimeterNA(wx []string, units *report.Units) (remaining []string, altimeter string) {
	if len(wx) == 0 {
		return wx, ""
	}
	last := wx[len(wx)-1]
	switch {
	case last[0] == 'A':
		altimeter = last[1:]
		wx = wx[:len(wx)-1]
	case last[0] == 'Q':
		units.Altimeter = "hPa"
		altimeter = strings.TrimPrefix(last[1:], ".")
		wx = wx[:len(wx)-1]
	case len(last) == 4 && isDigits(last):
		altimeter = last
		wx = wx[:len(wx)-1]
	}
	// Some stations report both, but we only need one
	if altimeter != "" && len(wx) > 0 && (wx[len(wx)-1][0] == 'A' || wx[len(wx)-1][0] == 'Q') {
		wx = wx[:len(wx)-1]
	}
	return wx, altimeter
}

// AltimeterInternational mirrors AltimeterNA with hectopascals as the
// default and an A-prefixed token switching the unit to inches of mercury.
func AltimeterInternational(wx []string, units *report.Units) (remaining []string, altimeter string) {
	if len(wx) == 0 {
		return wx, ""
	}
	last := wx[len(wx)-1]
	switch {
	case last[0] == 'Q':
		altimeter = strings.TrimPrefix(last[1:], ".")
		wx = wx[:len(wx)-1]
	case last[0] == 'A':
		units.Altimeter = "inHg"
		altimeter = last[1:]
		wx = wx[:len(wx)-1]
	}
	if altimeter != "" && len(wx) > 0 && (wx[len(wx)-1][0] == 'A' || wx[len(wx)-1][0] == 'Q') {
		wx = wx[:len(wx)-1]
	}
	return wx, altimeter
}

// TafAltIceTurb scans a TAF period's remaining tokens for a QNH-prefixed
// altimeter and the coded icing (6xxxxx) and turbulence (5xxxxx) groups.
func TafAltIceTurb(wx []string) (remaining []string, altimeter string, icing, turbulence []string) {
	remaining = wx[:0:0]
	for _, item := range wx {
		switch {
		case len(item) > 6 && strings.HasPrefix(item, "QNH") && isDigits(item[3:7]):
			altimeter = item[3:7]
		case isDigits(item) && item[0] == '6':
			icing = append(icing, item)
		case isDigits(item) && item[0] == '5':
			turbulence = append(turbulence, item)
		default:
			remaining = append(remaining, item)
		}
	}
	return remaining, altimeter, icing, turbulence
}

package fields

import (
	"strconv"
	"strings"

	"wx_parser/internal/report"
)

// Visibility extracts the visibility value from the front of the token list
// and records the unit it was reported in. Recognized forms, in priority
// order:
//
//	10SM      statute miles ("10"); P6SM -> "P6", M1/4SM -> "M1/4"
//	9999      bare meters
//	4000NE    meters with a direction qualifier (also NDV)
//	P5000     meters with an M/P/B qualifier prefix
//	15KM      kilometers, converted to meters
//	2 1/2SM   split statute-mile fraction, combined to "5/2"
func Visibility(wx []string, units *report.Units) (remaining []string, visibility string) {
	if len(wx) == 0 {
		return wx, ""
	}
	item := wx[0]
	switch {
	case strings.Contains(item, "SM"):
		switch item {
		case "P6SM":
			visibility = "P6"
		case "M1/4SM":
			visibility = "M1/4"
		default:
			vis := item[:strings.Index(item, "SM")]
			if !strings.Contains(vis, "/") {
				// str->int->str fixes zero-padded values like 01SM
				if n, err := strconv.Atoi(vis); err == nil {
					vis = strconv.Itoa(n)
				}
			}
			visibility = vis
		}
		wx = wx[1:]
		units.Visibility = "sm"
	case len(item) == 4 && isDigits(item):
		visibility = item
		wx = wx[1:]
		units.Visibility = "m"
	case len(item) >= 5 && len(item) <= 7 && isDigits(item[:4]) && hasDirQualifier(item[4:]):
		visibility = item[:4]
		wx = wx[1:]
		units.Visibility = "m"
	case len(item) == 5 && isDigits(item[1:]) && strings.ContainsRune("MPB", rune(item[0])):
		visibility = item[1:]
		wx = wx[1:]
		units.Visibility = "m"
	case strings.HasSuffix(item, "KM") && isDigits(strings.TrimSuffix(item, "KM")):
		visibility = strings.TrimSuffix(item, "KM") + "000"
		wx = wx[1:]
		units.Visibility = "m"
	case len(wx) > 1 && strings.Contains(wx[1], "SM") && strings.Contains(wx[1], "/") && isDigits(item):
		// 2 1/2SM -> 5/2
		whole, _ := strconv.Atoi(item)
		frac := wx[1][:strings.Index(wx[1], "SM")]
		if len(frac) == 3 && isDigits(frac[:1]) && frac[1] == '/' && isDigits(frac[2:]) {
			num, _ := strconv.Atoi(frac[:1])
			den, _ := strconv.Atoi(frac[2:])
			visibility = strconv.Itoa(whole*den+num) + frac[1:]
			wx = wx[2:]
			units.Visibility = "sm"
		}
	}
	return wx, visibility
}

// hasDirQualifier matches the direction suffix on a metric visibility token:
// a single cardinal letter or M, or the NDV (no directional variation) code.
func hasDirQualifier(suffix string) bool {
	if suffix == "NDV" {
		return true
	}
	if len(suffix) >= 1 && strings.ContainsRune("MNSEW", rune(suffix[0])) {
		return true
	}
	return false
}

// Package rules classifies reports into flight-rules categories from
// visibility and cloud ceiling.
package rules

import (
	"strconv"
	"strings"

	"wx_parser/internal/report"
)

// Ceiling returns the first cloud layer that counts as a ceiling: broken,
// overcast, or vertical visibility with a usable height. Nil means no
// ceiling.
func Ceiling(clouds []report.CloudLayer) *report.CloudLayer {
	for i, cloud := range clouds {
		if cloud.Type == "OVC" || cloud.Type == "BKN" || cloud.Type == "VV" {
			if cloud.Height != "" && isDigits(cloud.Height) {
				return &clouds[i]
			}
		}
	}
	return nil
}

// FlightRules classifies a visibility string and ceiling layer. Unknown
// visibility is reported as IFR, the conventional cautious default.
func FlightRules(visibility string, ceiling *report.CloudLayer) report.FlightRules {
	var vis float64
	switch {
	case visibility == "" || strings.Trim(visibility, "/") == "":
		return report.IFR
	case visibility == "P6":
		vis = 10
	case strings.Contains(visibility, "/"):
		if visibility[0] == 'M' {
			vis = 0
		} else {
			parts := strings.SplitN(visibility, "/", 2)
			num, nerr := strconv.Atoi(parts[0])
			den, derr := strconv.Atoi(parts[1])
			if nerr != nil || derr != nil || den == 0 {
				return report.IFR
			}
			vis = float64(num) / float64(den)
		}
	case len(visibility) == 4 && isDigits(visibility):
		meters, _ := strconv.Atoi(visibility)
		vis = float64(meters) * 0.000621371
	default:
		n, err := strconv.Atoi(visibility)
		if err != nil {
			return report.IFR
		}
		vis = float64(n)
	}
	cld := 99
	if ceiling != nil {
		cld, _ = strconv.Atoi(ceiling.Height)
	}
	if vis <= 5 || cld <= 30 {
		if vis < 3 || cld < 10 {
			if vis < 1 || cld < 5 {
				return report.LIFR
			}
			return report.IFR
		}
		return report.MVFR
	}
	return report.VFR
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

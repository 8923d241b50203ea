// Package fields contains the ordered field extractors that turn a
// sanitized token list into structured report values.
//
// Each extractor takes the remaining token list and returns the updated list
// plus the value(s) it removed. Extraction order matters: every extractor
// mutates the list the next one consumes, so callers must run them in the
// documented sequence (station+time, wind, visibility, altimeter,
// temperature/dewpoint, clouds).
package fields

import (
	"strings"

	"wx_parser/internal/report"
)

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

// StationAndTime pops the station identifier and, when present, the
// observation time. A 6-digit time without the trailing Z gets one appended.
func StationAndTime(wx []string) (remaining []string, station, rtime string) {
	if len(wx) == 0 {
		return wx, "", ""
	}
	station, wx = wx[0], wx[1:]
	if len(wx) == 0 {
		return wx, station, ""
	}
	next := wx[0]
	switch {
	case strings.HasSuffix(next, "Z") && isDigits(next[:len(next)-1]):
		rtime, wx = next, wx[1:]
	case len(next) == 6 && isDigits(next):
		rtime, wx = next+"Z", wx[1:]
	}
	return wx, station, rtime
}

// windShape matches the unit-less direction+speed form: 3-digit direction or
// VRB, 2+ digit speed, optional G+gust, no slash. Ex: 09010, VRB05, 32023G32.
func windShape(item string) bool {
	if strings.Contains(item, "/") {
		return false
	}
	if len(item) == 5 && isDigits(item) {
		return true
	}
	if len(item) >= 8 && strings.Contains(item, "G") && !strings.Contains(item, "MPS") {
		return isDigits(item[:5]) || strings.HasPrefix(item, "VRB") && isDigits(item[3:5])
	}
	if strings.HasPrefix(item, "VRB") && len(item) >= 5 && isDigits(item[3:5]) {
		return true
	}
	return false
}

// Wind extracts direction, speed, and gust from the front of the token list,
// then an optional separated gust token (G15) and an optional 7-character
// variable-direction range (180V240). Non-default speed units (MPS, KMH) are
// recorded into the units record.
func Wind(wx []string, units *report.Units) (remaining []string, direction, speed, gust string, variable []string) {
	if len(wx) > 0 {
		item := wx[0]
		matched := true
		switch {
		case strings.HasSuffix(item, "KTS"):
			item = strings.TrimSuffix(item, "KTS")
		case strings.HasSuffix(item, "KT"):
			item = strings.TrimSuffix(item, "KT")
		case strings.HasSuffix(item, "MPS"):
			units.WindSpeed = "m/s"
			item = strings.TrimSuffix(item, "MPS")
		case strings.HasSuffix(item, "KMH"):
			units.WindSpeed = "km/h"
			item = strings.TrimSuffix(item, "KMH")
		case windShape(item):
		default:
			matched = false
		}
		if matched && len(item) >= 3 {
			direction = item[:3]
			if g := strings.Index(item, "G"); g > 2 {
				gust = item[g+1:]
				speed = item[3:g]
			} else {
				speed = item[3:]
			}
			wx = wx[1:]
		}
	}
	// Separated gust
	if len(wx) > 0 && len(wx[0]) > 1 && len(wx[0]) < 4 && wx[0][0] == 'G' && isDigits(wx[0][1:]) {
		gust = wx[0][1:]
		wx = wx[1:]
	}
	// Variable wind direction
	if len(wx) > 0 && len(wx[0]) == 7 && isDigits(wx[0][:3]) && wx[0][3] == 'V' && isDigits(wx[0][4:]) {
		variable = strings.Split(wx[0], "V")
		wx = wx[1:]
	}
	return wx, direction, speed, gust, variable
}

package fields

import (
	"strconv"
	"strings"
)

// TypeAndTimes pops the forecast-period type and validity times from the
// front of a period's token list. A leading TEMPO/BECMG/INTER or PROBnn
// token sets the type (default BASE), followed by either a dddd/dddd range
// or an FM token (type FROM) with an optional TL end-time token.
func TypeAndTimes(wx []string) (remaining []string, lineType, startTime, endTime string) {
	lineType = "BASE"
	if len(wx) > 0 {
		switch {
		case wx[0] == "TEMPO" || wx[0] == "BECMG" || wx[0] == "INTER":
			lineType, wx = wx[0], wx[1:]
		case len(wx[0]) == 6 && strings.HasPrefix(wx[0], "PROB"):
			lineType, wx = wx[0], wx[1:]
		}
	}
	if len(wx) == 0 {
		return wx, lineType, "", ""
	}
	item := wx[0]
	switch {
	case len(item) == 9 && item[4] == '/' && isDigits(item[:4]) && isDigits(item[5:]):
		startTime, endTime = item[:4], item[5:]
		wx = wx[1:]
	case len(item) > 7 && strings.HasPrefix(item, "FM"):
		lineType = "FROM"
		if slash := strings.Index(item, "/"); slash > 2 && isDigits(item[2:slash]) && isDigits(item[slash+1:]) {
			startTime, endTime = item[2:slash], item[slash+1:]
			wx = wx[1:]
		} else if len(item) >= 8 && isDigits(item[2:8]) {
			startTime = item[2:6]
			wx = wx[1:]
		}
		if len(wx) > 0 && len(wx[0]) > 7 && strings.HasPrefix(wx[0], "TL") && isDigits(wx[0][2:8]) {
			endTime = wx[0][2:6]
			wx = wx[1:]
		}
	}
	return wx, lineType, startTime, endTime
}

// TempMinMax pulls the forecast max/min temperature remarks out of a token
// list. Explicit TX/TN tokens are taken directly. An ambiguous TM or
// T+digit token is assigned to whichever of the two is still unknown; when
// it would be the second of a pair the numeric values decide which is which.
func TempMinMax(other []string) (remaining []string, tempMax, tempMin string) {
	wx := other
	for i := len(wx) - 1; i >= 0; i-- {
		item := wx[i]
		if len(item) <= 6 || item[0] != 'T' || !strings.Contains(item, "/") {
			continue
		}
		switch {
		case item[1] == 'X':
			tempMax = item
		case item[1] == 'N':
			tempMin = item
		case item[1] == 'M' || item[1] >= '0' && item[1] <= '9':
			if tempMin != "" {
				if tempValue(tempMin[2:]) > tempValue(item[1:]) {
					tempMax = "TX" + tempMin[2:]
					tempMin = "TN" + item[1:]
				} else {
					tempMax = "TX" + item[1:]
				}
			} else {
				tempMin = "TN" + item[1:]
			}
		default:
			continue
		}
		wx = append(wx[:i:i], wx[i+1:]...)
	}
	return wx, tempMax, tempMin
}

// tempValue parses the leading temperature of a dd/ddddZ group, with M as
// the minus sign.
func tempValue(s string) int {
	if slash := strings.Index(s, "/"); slash != -1 {
		s = s[:slash]
	}
	n, _ := strconv.Atoi(strings.ReplaceAll(s, "M", "-"))
	return n
}

// OceaniaTempAlt strips the T temperature and Q altimeter digit-run groups
// that Australian-region stations append to the final forecast period.
func OceaniaTempAlt(other []string) (remaining []string, temps, alts []string) {
	other, temps = popDigitRun(other, "T")
	other, alts = popDigitRun(other, "Q")
	return other, temps, alts
}

// popDigitRun removes a marker token and the run of all-digit tokens that
// follows it, returning the run separately.
func popDigitRun(wx []string, marker string) ([]string, []string) {
	for i, item := range wx {
		if item != marker {
			continue
		}
		var run []string
		j := i + 1
		for j < len(wx) && isDigits(wx[j]) {
			run = append(run, wx[j])
			j++
		}
		return append(wx[:i:i], wx[j:]...), run
	}
	return wx, nil
}

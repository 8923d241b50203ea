package sanitize

import "strings"

// metarRemarksStarts are the recognized remarks-section signifiers for a
// METAR, including military color-state codes. Leading spaces keep them from
// matching inside other tokens.
var metarRemarksStarts = []string{
	" BLU", " BLU+", " WHT", " GRN", " YLO", " AMB", " RED",
	" BECMG", " TEMPO", " INTER", " NOSIG", " RMK", " WIND",
	" QFE", " INFO", " RWY", " CHECK",
}

// altimeterMarkers introduce an altimeter-looking token; whichever of these
// or a remarks signifier occurs earliest in the report marks the start of
// the remarks section.
var altimeterMarkers = []string{" A2", " A3", " Q1", " Q0", " Q9"}

// SplitRemarks separates the main body of a METAR from its free-text
// remarks. The earliest recognized signifier wins: either an altimeter token
// (which stays with the body) or a remarks-start marker (which starts the
// remarks). If neither is found the whole report is body.
func SplitRemarks(txt string) (body []string, remarks string) {
	txt = strings.TrimSpace(strings.ReplaceAll(txt, "?", ""))
	altIndex := len(txt) + 1
	for _, item := range altimeterMarkers {
		index := strings.Index(txt, item)
		if index > -1 && index < len(txt)-6 && isDigits(txt[index+2:index+6]) {
			altIndex = index
		}
	}
	sigIndex := FirstIndexAny(txt, metarRemarksStarts)
	if sigIndex == -1 {
		sigIndex = len(txt) + 1
	}
	if altIndex < sigIndex && altIndex < len(txt) {
		return strings.Fields(txt[:altIndex+6]), txt[altIndex+7:]
	}
	if sigIndex < altIndex && sigIndex < len(txt) {
		return strings.Fields(txt[:sigIndex]), txt[sigIndex+1:]
	}
	return strings.Fields(txt), ""
}

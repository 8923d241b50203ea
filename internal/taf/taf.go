// Package taf decodes TAF terminal aerodrome forecasts.
package taf

import (
	"strings"

	"wx_parser/internal/fields"
	"wx_parser/internal/report"
	"wx_parser/internal/rules"
	"wx_parser/internal/sanitize"
	"wx_parser/internal/station"
)

// lineFixes repairs the common transmission misspellings of the
// forecast-period keywords. Applied in order, first occurrence only.
var lineFixes = [][2]string{
	{"TEMP0", "TEMPO"},
	{"TEMP O", "TEMPO"},
	{"TMPO", "TEMPO"},
	{"TE MPO", "TEMPO"},
	{"TEMP ", "TEMPO "},
	{" EMPO", " TEMPO"},
	{"TEMO", "TEMPO"},
	{"T EMPO", "TEMPO"},
	{"BECM G", "BECMG"},
	{"BEMCG", "BECMG"},
	{"BE CMG", "BECMG"},
	{"BEMG", "BECMG"},
	{" BEC ", " BECMG "},
	{"BCEMG", "BECMG"},
	{"B ECMG", "BECMG"},
}

// remarksStarts are the recognized remarks-section signifiers inside a TAF
// forecast line.
var remarksStarts = []string{
	"RMK ", "AUTOMATED ", "COR ", "AMD ", "LAST ", "FCST ",
	"CANCEL ", "CHECK ", "WND ", "MOD ", " BY", " QFE",
}

// newLineStarts mark a forecast period that should have started on its own
// line but did not.
var newLineStarts = []string{" INTER ", " FM", " BECMG ", " TEMPO "}

// Parse decodes a raw TAF into a structured report. delim is the divider
// between forecast lines in the source text; periods the source failed to
// split are recovered from embedded period markers regardless.
func Parse(raw, delim string) (*report.Taf, error) {
	raw = strings.TrimSpace(raw)
	if len(raw) < 2 {
		return nil, report.ErrEmptyReport
	}
	t := &report.Taf{Raw: raw}

	txt := raw
	for len(txt) > 3 && (strings.HasPrefix(txt, "TAF ") ||
		strings.HasPrefix(txt, "AMD ") || strings.HasPrefix(txt, "COR ")) {
		txt = txt[4:]
	}

	head := txt
	if len(head) > 20 {
		head = head[:20]
	}
	_, t.Station, t.Time = fields.StationAndTime(strings.Fields(head))
	if t.Station != "" {
		txt = strings.Replace(txt, t.Station, "", 1)
	}
	if t.Time != "" {
		txt = strings.Replace(txt, t.Time, "", 1)
	}

	northAmerican, err := station.UsesNorthAmericanFormat(t.Station)
	if err != nil {
		return nil, err
	}
	if northAmerican {
		t.Units = report.NorthAmericanUnits()
	} else {
		t.Units = report.InternationalUnits()
	}

	prob := ""
	lines := strings.Split(strings.Trim(txt, " "), delim)
	for len(lines) > 0 {
		line := strings.TrimSpace(lines[0])
		lines = lines[1:]
		line = sanitizeLine(line)

		if index := sanitize.FirstIndexAny(line, remarksStarts); index != -1 {
			t.Remarks = line[index:]
			line = strings.TrimSpace(line[:index])
		}

		// A period marker mid-line means the source missed a line break.
		if index := sanitize.FirstIndexAny(line, newLineStarts); index != -1 {
			lines = append([]string{line[index+1:]}, lines...)
			line = line[:index]
		}

		rawLine := line
		// A bare probability tag belongs to the next period
		if len(line) == 6 && strings.HasPrefix(line, "PROB") {
			prob = line
			line = ""
		}
		if line != "" {
			parsed := parseLine(line, northAmerican, &t.Units)
			parsed.Probability = prob
			parsed.Raw = rawLine
			prob = ""
			t.Forecast = append(t.Forecast, parsed)
		}
	}

	if len(t.Forecast) > 0 {
		last := len(t.Forecast) - 1
		t.Forecast[last].Other, t.MaxTemp, t.MinTemp = fields.TempMinMax(t.Forecast[last].Other)
		if t.MaxTemp == "" && t.MinTemp == "" {
			t.Forecast[0].Other, t.MaxTemp, t.MinTemp = fields.TempMinMax(t.Forecast[0].Other)
		}
		findMissingTimes(t.Forecast)
		applyFlightRules(t.Forecast)

		if strings.HasPrefix(t.Station, "A") {
			t.Forecast[last].Other, t.TempList, t.AltList = fields.OceaniaTempAlt(t.Forecast[last].Other)
		}
	}

	return t, nil
}

// sanitizeLine repairs misspelled period keywords and inserts the space a
// run-on TEMPO/BECMG is missing.
func sanitizeLine(txt string) string {
	for _, fix := range lineFixes {
		if index := strings.Index(txt, fix[0]); index != -1 {
			txt = txt[:index] + fix[1] + txt[index+len(fix[0]):]
		}
	}
	for _, item := range []string{"BECMG", "TEMPO"} {
		if strings.Contains(txt, item) && !strings.Contains(txt, item+" ") {
			index := strings.Index(txt, item) + len(item)
			txt = txt[:index] + " " + txt[index:]
		}
	}
	return txt
}

// parseLine runs the field extractors over a single forecast period.
func parseLine(line string, northAmerican bool, units *report.Units) report.TafLine {
	var parsed report.TafLine
	wx := strings.Fields(line)
	wx, _, parsed.WindShear = sanitize.Tokens(wx, true)
	wx, parsed.Type, parsed.StartTime, parsed.EndTime = fields.TypeAndTimes(wx)
	wx, parsed.WindDirection, parsed.WindSpeed, parsed.WindGust, _ = fields.Wind(wx, units)

	cavok := false
	if !northAmerican {
		for i, item := range wx {
			if item == "CAVOK" {
				cavok = true
				wx = append(wx[:i:i], wx[i+1:]...)
				break
			}
		}
	}
	if cavok {
		parsed.Visibility = "9999"
	} else {
		wx, parsed.Visibility = fields.Visibility(wx, units)
		wx, parsed.Clouds = fields.Clouds(wx)
	}

	parsed.Other, parsed.Altimeter, parsed.IcingList, parsed.TurbList = fields.TafAltIceTurb(wx)
	return parsed
}

func isTempoOrProb(lineType string) bool {
	return lineType == "TEMPO" || len(lineType) == 6 && strings.HasPrefix(lineType, "PROB")
}

// findMissingTimes fills blank end times by borrowing the start time of the
// next scheduled period; the final scheduled period closes on the overall
// forecast window's end time.
func findMissingTimes(lines []report.TafLine) {
	lastScheduled := 0
	for i := range lines {
		if lines[i].EndTime == "" && !isTempoOrProb(lines[i].Type) {
			lastScheduled = i
			for j := i + 1; j < len(lines); j++ {
				if !isTempoOrProb(lines[j].Type) {
					lines[i].EndTime = lines[j].StartTime
					break
				}
			}
		}
	}
	if lastScheduled > 0 {
		lines[lastScheduled].EndTime = lines[0].EndTime
	}
}

// applyFlightRules classifies each period, inheriting missing visibility and
// cloud data from prior scheduled periods. An explicit SKC/CLR in a prior
// period means "no ceiling" and stops cloud inheritance.
func applyFlightRules(lines []report.TafLine) {
	for i := range lines {
		vis := lines[i].Visibility
		clouds := lines[i].Clouds
		clear := false
		for j := i - 1; j >= 0; j-- {
			prior := &lines[j]
			if isTempoOrProb(prior.Type) {
				continue
			}
			if vis == "" {
				vis = prior.Visibility
			}
			if hasSkyClear(prior.Other) {
				clear = true
			} else if len(clouds) == 0 && !clear {
				clouds = prior.Clouds
			}
			if vis != "" && (len(clouds) > 0 || clear) {
				break
			}
		}
		if clear {
			clouds = nil
		}
		lines[i].FlightRules = rules.FlightRules(vis, rules.Ceiling(clouds))
	}
}

func hasSkyClear(other []string) bool {
	for _, item := range other {
		if item == "SKC" || item == "CLR" {
			return true
		}
	}
	return false
}

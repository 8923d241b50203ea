// Package metar decodes METAR surface observation reports.
package metar

import (
	"strings"

	"wx_parser/internal/fields"
	"wx_parser/internal/report"
	"wx_parser/internal/rules"
	"wx_parser/internal/sanitize"
	"wx_parser/internal/station"
)

// Parse decodes a raw METAR into a structured report. The station prefix
// selects between the North American and International token grammars.
func Parse(raw string) (*report.Metar, error) {
	raw = strings.TrimSpace(raw)
	if len(raw) < 2 {
		return nil, report.ErrEmptyReport
	}
	northAmerican, err := station.UsesNorthAmericanFormat(raw)
	if err != nil {
		return nil, err
	}

	m := &report.Metar{Raw: raw}
	if northAmerican {
		m.Units = report.NorthAmericanUnits()
	} else {
		m.Units = report.InternationalUnits()
	}

	cleaned := sanitize.CleanReport(raw)
	body, remarks := sanitize.SplitRemarks(cleaned)
	m.Remarks = remarks

	wx, rvr, _ := sanitize.Tokens(body, false)
	m.RunwayVisibility = rvr

	wx, m.Station, m.Time = fields.StationAndTime(wx)
	wx, m.WindDirection, m.WindSpeed, m.WindGust, m.WindVariableDir = fields.Wind(wx, &m.Units)

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
		m.Visibility = "9999"
	} else {
		wx, m.Visibility = fields.Visibility(wx, &m.Units)
	}

	if northAmerican {
		wx, m.Altimeter = fields.AltimeterNA(wx, &m.Units)
	} else {
		wx, m.Altimeter = fields.AltimeterInternational(wx, &m.Units)
	}

	wx, m.Temperature, m.Dewpoint = fields.TempAndDewpoint(wx)

	if !cavok {
		wx, m.Clouds = fields.Clouds(wx)
	}
	m.Other = wx

	m.FlightRules = rules.FlightRules(m.Visibility, rules.Ceiling(m.Clouds))
	m.RemarksInfo = decodeRemarks(remarks)

	return m, nil
}

// decodeRemarks pulls the decimal temperature refinement out of the T-group.
// T02330206 reads as temperature 23.3 and dewpoint 20.6, a leading 1 on
// either half marking a negative value.
func decodeRemarks(remarks string) report.RemarksInfo {
	var info report.RemarksInfo
	for _, code := range strings.Fields(remarks) {
		if (len(code) == 5 || len(code) == 9) && code[0] == 'T' && isDigits(code[1:]) {
			info.TemperatureDecimal = decimalCode(code[1:5])
			if len(code) == 9 {
				info.DewpointDecimal = decimalCode(code[5:])
			}
			break
		}
	}
	return info
}

func decimalCode(code string) string {
	sign := ""
	if code[0] == '1' {
		sign = "-"
	}
	whole := strings.TrimLeft(code[1:3], "0")
	if whole == "" {
		whole = "0"
	}
	return sign + whole + "." + code[3:]
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

// Package speech converts decoded reports into strings suitable for
// text-to-speech playback.
package speech

import (
	"strings"

	"wx_parser/internal/report"
	"wx_parser/internal/translate"
)

var numberWords = map[rune]string{
	'.': "point",
	'-': "minus",
	'M': "minus",
	'0': "zero",
	'1': "one",
	'2': "two",
	'3': "three",
	'4': "four",
	'5': "five",
	'6': "six",
	'7': "seven",
	'8': "eight",
	'9': "nine",
}

var fractionWords = map[string]string{
	"1/4": "one quarter of a",
	"1/2": "one half",
	"3/4": "three quarters of a",
}

var spokenUnits = map[string]string{
	"sm": "mile",
	"km": "kilometer",
	"C":  "Celsius",
	"F":  "Fahrenheit",
}

// SpokenNumber renders a numeric string digit by digit.
// Ex: 1.2 -> "one point two", M04 -> "minus zero four"
func SpokenNumber(num string) string {
	var parts []string
	for _, field := range strings.Fields(num) {
		if frac, ok := fractionWords[field]; ok {
			parts = append(parts, frac)
			continue
		}
		var words []string
		for _, c := range field {
			if w, ok := numberWords[c]; ok {
				words = append(words, w)
			}
		}
		parts = append(parts, strings.Join(words, " "))
	}
	return strings.Join(parts, " and ")
}

func removeLeadingZeros(num string) string {
	if num == "" {
		return num
	}
	prefix := ""
	if num[0] == 'M' || num[0] == '-' {
		prefix, num = num[:1], num[1:]
	}
	num = strings.TrimLeft(num, "0")
	if num == "" {
		return "0"
	}
	return prefix + num
}

// Wind renders wind details as spoken words.
func Wind(direction, speed, gust string, variable []string, unit string) string {
	if u, ok := spokenUnits[unit]; ok {
		unit = u
	}
	var b strings.Builder
	switch {
	case direction == "000":
		b.WriteString("Calm")
	case direction == "VRB":
		b.WriteString("Variable")
	default:
		b.WriteString(SpokenNumber(removeLeadingZeros(direction)))
	}
	if len(variable) == 2 {
		b.WriteString(" variable between " + SpokenNumber(removeLeadingZeros(variable[0])) +
			" and " + SpokenNumber(removeLeadingZeros(variable[1])))
	}
	if speed != "" && speed != "00" {
		b.WriteString(" at " + SpokenNumber(removeLeadingZeros(speed)) + " " + unit)
	}
	if gust != "" {
		b.WriteString(" gusting to " + SpokenNumber(removeLeadingZeros(gust)))
	}
	return "Winds " + b.String()
}

// Temperature renders a temperature value as spoken words with a header
// like "Temperature" or "Dew point".
func Temperature(header, temp, unit string) string {
	if temp == "" {
		return header + " unknown"
	}
	if u, ok := spokenUnits[unit]; ok {
		unit = u
	}
	spoken := SpokenNumber(removeLeadingZeros(temp))
	plural := "s"
	if spoken == "one" || spoken == "minus one" {
		plural = ""
	}
	return header + " " + spoken + " degree" + plural + " " + unit
}

// Visibility renders a visibility value as spoken words.
func Visibility(vis, unit string) string {
	if vis == "" {
		return "Visibility unknown"
	}
	switch vis {
	case "P6":
		return "Visibility greater than six miles"
	case "M1/4":
		return "Visibility less than one quarter of a mile"
	}
	spokenUnit := unit
	value := vis
	if unit == "m" {
		// Spoken metric visibility uses the km rendering
		rendered := translate.Visibility(vis, unit)
		if index := strings.Index(rendered, " km"); index != -1 {
			value = rendered[:index]
		}
		spokenUnit = "km"
	}
	spoken := SpokenNumber(removeLeadingZeros(value))
	ret := "Visibility " + spoken
	if name, ok := spokenUnits[spokenUnit]; ok {
		if strings.Contains(vis, "/") && !strings.Contains(spoken, "half") {
			ret += " of a"
		}
		ret += " " + name
		if !(spoken == "one half" || strings.Contains(ret, "of a")) {
			ret += "s"
		}
	} else {
		ret += spokenUnit
	}
	return ret
}

// Altimeter renders the altimeter setting as spoken words.
func Altimeter(alt, unit string) string {
	if alt == "" {
		return "Altimeter unknown"
	}
	switch unit {
	case "inHg":
		if len(alt) >= 4 {
			return "Altimeter " + SpokenNumber(alt[:2]) + " point " + SpokenNumber(alt[2:])
		}
	case "hPa":
		return "Altimeter " + SpokenNumber(alt)
	}
	return "Altimeter " + SpokenNumber(alt)
}

// Other renders weather phenomena codes as spoken phrases. Vicinity codes
// read more naturally with the location last.
func Other(codes []string) string {
	var parts []string
	for _, code := range codes {
		item := translate.WxCode(code)
		if strings.HasPrefix(item, "Vicinity ") {
			item = strings.TrimPrefix(item, "Vicinity ") + " in the Vicinity"
		}
		parts = append(parts, item)
	}
	return strings.Join(parts, ". ")
}

// Metar converts a decoded METAR into a text-to-speech string.
func Metar(m *report.Metar) string {
	var parts []string
	if m.WindDirection != "" && m.WindSpeed != "" {
		parts = append(parts, Wind(m.WindDirection, m.WindSpeed, m.WindGust, m.WindVariableDir, m.Units.WindSpeed))
	}
	if m.Visibility != "" {
		parts = append(parts, Visibility(m.Visibility, m.Units.Visibility))
	}
	if m.Temperature != "" {
		parts = append(parts, Temperature("Temperature", m.Temperature, m.Units.Temperature))
	}
	if m.Dewpoint != "" {
		parts = append(parts, Temperature("Dew point", m.Dewpoint, m.Units.Temperature))
	}
	if m.Altimeter != "" {
		parts = append(parts, Altimeter(m.Altimeter, m.Units.Altimeter))
	}
	if len(m.Other) > 0 {
		parts = append(parts, Other(m.Other))
	}
	clouds := strings.Replace(translate.Clouds(m.Clouds, m.Units.Altitude), " - Reported AGL", "", 1)
	parts = append(parts, clouds)

	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.ReplaceAll(strings.Join(kept, ". "), ",", ".")
}

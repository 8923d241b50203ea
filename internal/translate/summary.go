package translate

import "strings"

// trimConversion drops the parenthesized converted value from a rendering.
func trimConversion(s string) string {
	if index := strings.Index(s, " ("); index != -1 {
		return s[:index]
	}
	return s
}

// MetarSummary condenses METAR translations into a single sentence.
func MetarSummary(trans MetarTranslations) string {
	var parts []string
	if trans.Wind != "" {
		parts = append(parts, "Winds "+trans.Wind)
	}
	if trans.Visibility != "" {
		parts = append(parts, "Vis "+strings.ToLower(trimConversion(trans.Visibility)))
	}
	if trans.Temperature != "" {
		parts = append(parts, "Temp "+trimConversion(trans.Temperature))
	}
	if trans.Dewpoint != "" {
		parts = append(parts, "Dew "+trimConversion(trans.Dewpoint))
	}
	if trans.Altimeter != "" {
		parts = append(parts, "Alt "+trimConversion(trans.Altimeter))
	}
	if trans.Other != "" {
		parts = append(parts, trans.Other)
	}
	if trans.Clouds != "" {
		parts = append(parts, strings.Replace(trans.Clouds, " - Reported AGL", "", 1))
	}
	return strings.Join(parts, ", ")
}

// TafLineSummary condenses one forecast period's translations into a single
// sentence.
func TafLineSummary(trans TafLineTranslations) string {
	var parts []string
	if trans.Wind != "" {
		parts = append(parts, "Winds "+trans.Wind)
	}
	if trans.Visibility != "" {
		parts = append(parts, "Vis "+strings.ToLower(trimConversion(trans.Visibility)))
	}
	if trans.Altimeter != "" {
		parts = append(parts, "Alt "+trimConversion(trans.Altimeter))
	}
	if trans.Other != "" {
		parts = append(parts, trans.Other)
	}
	if trans.Clouds != "" {
		parts = append(parts, strings.Replace(trans.Clouds, " - Reported AGL", "", 1))
	}
	if trans.WindShear != "" {
		parts = append(parts, trans.WindShear)
	}
	if trans.Turbulence != "" {
		parts = append(parts, trans.Turbulence)
	}
	if trans.Icing != "" {
		parts = append(parts, trans.Icing)
	}
	return strings.Join(parts, ", ")
}

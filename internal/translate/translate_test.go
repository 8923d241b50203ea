package translate

import (
	"testing"

	"wx_parser/internal/report"
)

func TestCardinal(t *testing.T) {
	tests := []struct {
		degrees int
		want    string
	}{
		{0, "N"},
		{360, "N"},
		{45, "NE"},
		{90, "E"},
		{180, "S"},
		{270, "W"},
		{330, "NNW"},
		{12, "NNE"},
	}
	for _, tt := range tests {
		if got := Cardinal(tt.degrees); got != tt.want {
			t.Errorf("Cardinal(%d) = %q, want %q", tt.degrees, got, tt.want)
		}
	}
}

func TestWind(t *testing.T) {
	tests := []struct {
		name      string
		direction string
		speed     string
		gust      string
		variable  []string
		want      string
	}{
		{
			name:      "simple",
			direction: "180",
			speed:     "14",
			want:      "S-180° at 14kt",
		},
		{
			name:      "calm",
			direction: "000",
			speed:     "00",
			want:      "Calm",
		},
		{
			name:      "variable direction",
			direction: "VRB",
			speed:     "03",
			want:      "Variable at 03kt",
		},
		{
			name:      "gusting with range",
			direction: "030",
			speed:     "14",
			gust:      "20",
			variable:  []string{"010", "040"},
			want:      "NNE-30° (variable 010 to 040) at 14kt gusting to 20",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Wind(tt.direction, tt.speed, tt.gust, tt.variable, "kt")
			if got != tt.want {
				t.Errorf("Wind = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestVisibility(t *testing.T) {
	tests := []struct {
		vis  string
		unit string
		want string
	}{
		{"P6", "sm", "Greater than 6sm ( >9999m )"},
		{"M1/4", "sm", "Less than .25sm ( <0400m )"},
		{"10", "sm", "10 sm (16.1 km)"},
		{"3/4", "sm", "0.8 sm (1.2 km)"},
		{"8000", "m", "8 km (5 sm)"},
		{"9999", "m", "10 km (6.2 sm)"},
		{"", "sm", ""},
	}
	for _, tt := range tests {
		if got := Visibility(tt.vis, tt.unit); got != tt.want {
			t.Errorf("Visibility(%q, %q) = %q, want %q", tt.vis, tt.unit, got, tt.want)
		}
	}
}

func TestTemperature(t *testing.T) {
	tests := []struct {
		temp string
		unit string
		want string
	}{
		{"34", "C", "34°C (93°F)"},
		{"M05", "C", "-5°C (23°F)"},
		{"0", "C", "0°C (32°F)"},
		{"", "C", ""},
	}
	for _, tt := range tests {
		if got := Temperature(tt.temp, tt.unit); got != tt.want {
			t.Errorf("Temperature(%q, %q) = %q, want %q", tt.temp, tt.unit, got, tt.want)
		}
	}
}

func TestAltimeter(t *testing.T) {
	tests := []struct {
		alt  string
		unit string
		want string
	}{
		{"3011", "inHg", "30.11 inHg (1020 hPa)"},
		{"1015", "hPa", "1015 hPa (29.97 inHg)"},
		{"", "inHg", ""},
	}
	for _, tt := range tests {
		if got := Altimeter(tt.alt, tt.unit); got != tt.want {
			t.Errorf("Altimeter(%q, %q) = %q, want %q", tt.alt, tt.unit, got, tt.want)
		}
	}
}

func TestClouds(t *testing.T) {
	clouds := []report.CloudLayer{
		{Type: "SCT", Height: "011"},
		{Type: "BKN", Height: "022", Modifier: "CB"},
	}
	want := "Scattered clouds at 1100ft, Broken layer at 2200ft (Cumulonimbus) - Reported AGL"
	if got := Clouds(clouds, "ft"); got != want {
		t.Errorf("Clouds = %q, want %q", got, want)
	}

	if got := Clouds(nil, "ft"); got != "Sky clear" {
		t.Errorf("Clouds(nil) = %q, want Sky clear", got)
	}

	// Unknown heights are skipped.
	if got := Clouds([]report.CloudLayer{{Type: "FEW", Height: "///"}}, "ft"); got != "Sky clear" {
		t.Errorf("Clouds unknown height = %q, want Sky clear", got)
	}
}

func TestWxCode(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"RA", "Rain"},
		{"+TSRA", "Heavy Thunderstorm Rain"},
		{"-SHSN", "Light Showers Snow"},
		{"VCFG", "Vicinity Fog"},
		{"FZFG", "Freezing Fog"},
		{"BCBLDU", "Patchy Blowing Wide Dust"},
		{"NOSIG", "NOSIG"},
	}
	for _, tt := range tests {
		if got := WxCode(tt.code); got != tt.want {
			t.Errorf("WxCode(%q) = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestWindShear(t *testing.T) {
	want := "Wind shear 2000ft from 140° at 30kt"
	if got := WindShear("WS020/14030", "ft", "kt"); got != want {
		t.Errorf("WindShear = %q, want %q", got, want)
	}
	if got := WindShear("", "ft", "kt"); got != "" {
		t.Errorf("WindShear empty = %q, want empty", got)
	}
}

func TestTurbIce(t *testing.T) {
	// Single icing layer.
	want := "Moderate icing in clouds from 3000ft to 5000ft"
	if got := TurbIce([]string{"650302"}, "ft"); got != want {
		t.Errorf("TurbIce = %q, want %q", got, want)
	}

	// Adjacent full-depth layers of the same kind merge.
	want = "Occasional moderate turbulence in clouds from 3000ft to 14000ft"
	if got := TurbIce([]string{"540309", "541202"}, "ft"); got != want {
		t.Errorf("TurbIce merged = %q, want %q", got, want)
	}

	if got := TurbIce(nil, "ft"); got != "" {
		t.Errorf("TurbIce(nil) = %q, want empty", got)
	}
}

func TestMinMaxTemp(t *testing.T) {
	want := "Maximum temperature of 23°C (73°F) at 18-15:00Z"
	if got := MinMaxTemp("TX23/1815Z", "C"); got != want {
		t.Errorf("MinMaxTemp = %q, want %q", got, want)
	}
	want = "Minimum temperature of -5°C (23°F) at 30-09:00Z"
	if got := MinMaxTemp("TNM05/3009Z", "C"); got != want {
		t.Errorf("MinMaxTemp = %q, want %q", got, want)
	}
	if got := MinMaxTemp("", "C"); got != "" {
		t.Errorf("MinMaxTemp empty = %q, want empty", got)
	}
}

func TestMetar(t *testing.T) {
	m := &report.Metar{
		Station:       "KJFK",
		WindDirection: "180",
		WindSpeed:     "14",
		Visibility:    "10",
		Temperature:   "26",
		Dewpoint:      "17",
		Altimeter:     "3003",
		Clouds: []report.CloudLayer{
			{Type: "FEW", Height: "048"},
		},
		Other: []string{"HZ"},
		Units: report.NorthAmericanUnits(),
	}
	trans := Metar(m)
	if trans.Wind != "S-180° at 14kt" {
		t.Errorf("Wind = %q", trans.Wind)
	}
	if trans.Visibility != "10 sm (16.1 km)" {
		t.Errorf("Visibility = %q", trans.Visibility)
	}
	if trans.Temperature != "26°C (79°F)" {
		t.Errorf("Temperature = %q", trans.Temperature)
	}
	if trans.Altimeter != "30.03 inHg (1017 hPa)" {
		t.Errorf("Altimeter = %q", trans.Altimeter)
	}
	if trans.Other != "Haze" {
		t.Errorf("Other = %q", trans.Other)
	}
	if trans.Clouds != "Few clouds at 4800ft - Reported AGL" {
		t.Errorf("Clouds = %q", trans.Clouds)
	}
}

func TestMetarSummary(t *testing.T) {
	trans := MetarTranslations{
		Wind:        "S-180° at 14kt",
		Visibility:  "10 sm (16.1 km)",
		Temperature: "26°C (79°F)",
		Dewpoint:    "17°C (63°F)",
		Altimeter:   "30.03 inHg (1017 hPa)",
		Other:       "Haze",
		Clouds:      "Few clouds at 4800ft - Reported AGL",
	}
	want := "Winds S-180° at 14kt, Vis 10 sm, Temp 26°C, Dew 17°C, Alt 30.03 inHg, Haze, Few clouds at 4800ft"
	if got := MetarSummary(trans); got != want {
		t.Errorf("MetarSummary = %q, want %q", got, want)
	}
}

func TestTafLineSummary(t *testing.T) {
	trans := TafLineTranslations{
		Wind:       "S-180° at 12kt",
		Visibility: "Greater than 6sm ( >9999m )",
		WindShear:  "Wind shear 2000ft from 140° at 30kt",
	}
	want := "Winds S-180° at 12kt, Vis greater than 6sm, Wind shear 2000ft from 140° at 30kt"
	if got := TafLineSummary(trans); got != want {
		t.Errorf("TafLineSummary = %q, want %q", got, want)
	}
}

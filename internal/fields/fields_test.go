package fields

import (
	"strings"
	"testing"

	"wx_parser/internal/report"
)

func TestStationAndTime(t *testing.T) {
	tests := []struct {
		name        string
		in          []string
		wantStation string
		wantTime    string
		wantLeft    int
	}{
		{
			name:        "station and zulu time",
			in:          []string{"KJFK", "291751Z", "18014KT"},
			wantStation: "KJFK",
			wantTime:    "291751Z",
			wantLeft:    1,
		},
		{
			name:        "missing Z appended",
			in:          []string{"KJFK", "291751", "18014KT"},
			wantStation: "KJFK",
			wantTime:    "291751Z",
			wantLeft:    1,
		},
		{
			name:        "no time token",
			in:          []string{"KJFK", "18014KT"},
			wantStation: "KJFK",
			wantTime:    "",
			wantLeft:    1,
		},
		{
			name:        "station only",
			in:          []string{"KJFK"},
			wantStation: "KJFK",
			wantTime:    "",
			wantLeft:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			left, station, rtime := StationAndTime(tt.in)
			if station != tt.wantStation {
				t.Errorf("station = %q, want %q", station, tt.wantStation)
			}
			if rtime != tt.wantTime {
				t.Errorf("time = %q, want %q", rtime, tt.wantTime)
			}
			if len(left) != tt.wantLeft {
				t.Errorf("remaining = %v, want %d tokens", left, tt.wantLeft)
			}
		})
	}
}

func TestWind(t *testing.T) {
	tests := []struct {
		name     string
		in       []string
		wantDir  string
		wantSpd  string
		wantGust string
		wantVar  string
		wantUnit string
	}{
		{
			name:     "simple knots",
			in:       []string{"18014KT", "10SM"},
			wantDir:  "180",
			wantSpd:  "14",
			wantUnit: "kt",
		},
		{
			name:     "gusting",
			in:       []string{"32023G32KT"},
			wantDir:  "320",
			wantSpd:  "23",
			wantGust: "32",
			wantUnit: "kt",
		},
		{
			name:     "variable direction token",
			in:       []string{"18014KT", "150V210"},
			wantDir:  "180",
			wantSpd:  "14",
			wantVar:  "150,210",
			wantUnit: "kt",
		},
		{
			name:     "meters per second",
			in:       []string{"04007MPS"},
			wantDir:  "040",
			wantSpd:  "07",
			wantUnit: "m/s",
		},
		{
			name:     "variable low speed",
			in:       []string{"VRB03KT"},
			wantDir:  "VRB",
			wantSpd:  "03",
			wantUnit: "kt",
		},
		{
			name:     "unitless wind",
			in:       []string{"09010", "9999"},
			wantDir:  "090",
			wantSpd:  "10",
			wantUnit: "kt",
		},
		{
			name:     "separated gust token",
			in:       []string{"18014KT", "G22"},
			wantDir:  "180",
			wantSpd:  "14",
			wantGust: "22",
			wantUnit: "kt",
		},
		{
			name:     "not a wind token",
			in:       []string{"10SM"},
			wantUnit: "kt",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			units := report.NorthAmericanUnits()
			_, dir, spd, gust, variable := Wind(tt.in, &units)
			if dir != tt.wantDir {
				t.Errorf("direction = %q, want %q", dir, tt.wantDir)
			}
			if spd != tt.wantSpd {
				t.Errorf("speed = %q, want %q", spd, tt.wantSpd)
			}
			if gust != tt.wantGust {
				t.Errorf("gust = %q, want %q", gust, tt.wantGust)
			}
			if got := strings.Join(variable, ","); got != tt.wantVar {
				t.Errorf("variable = %q, want %q", got, tt.wantVar)
			}
			if units.WindSpeed != tt.wantUnit {
				t.Errorf("unit = %q, want %q", units.WindSpeed, tt.wantUnit)
			}
		})
	}
}

func TestVisibility(t *testing.T) {
	tests := []struct {
		name     string
		in       []string
		want     string
		wantUnit string
	}{
		{name: "statute miles", in: []string{"10SM"}, want: "10", wantUnit: "sm"},
		{name: "zero padded miles", in: []string{"01SM"}, want: "1", wantUnit: "sm"},
		{name: "greater than six", in: []string{"P6SM"}, want: "P6", wantUnit: "sm"},
		{name: "less than quarter", in: []string{"M1/4SM"}, want: "M1/4", wantUnit: "sm"},
		{name: "fraction miles", in: []string{"3/4SM"}, want: "3/4", wantUnit: "sm"},
		{name: "bare meters", in: []string{"9999"}, want: "9999", wantUnit: "m"},
		{name: "meters with direction", in: []string{"4000NE"}, want: "4000", wantUnit: "m"},
		{name: "meters with NDV", in: []string{"6000NDV"}, want: "6000", wantUnit: "m"},
		{name: "qualified meters", in: []string{"P5000"}, want: "5000", wantUnit: "m"},
		{name: "kilometers", in: []string{"15KM"}, want: "15000", wantUnit: "m"},
		{name: "split mixed fraction", in: []string{"2", "1/2SM"}, want: "5/2", wantUnit: "sm"},
		{name: "no visibility", in: []string{"FEW048"}, want: "", wantUnit: "sm"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			units := report.NorthAmericanUnits()
			_, vis := Visibility(tt.in, &units)
			if vis != tt.want {
				t.Errorf("Visibility(%v) = %q, want %q", tt.in, vis, tt.want)
			}
			if vis != "" && units.Visibility != tt.wantUnit {
				t.Errorf("unit = %q, want %q", units.Visibility, tt.wantUnit)
			}
		})
	}
}

func TestAltimeterNA(t *testing.T) {
	units := report.NorthAmericanUnits()
	left, alt := AltimeterNA([]string{"26/17", "A3003"}, &units)
	if alt != "3003" {
		t.Errorf("altimeter = %q, want %q", alt, "3003")
	}
	if units.Altimeter != "inHg" {
		t.Errorf("unit = %q, want inHg", units.Altimeter)
	}
	if len(left) != 1 || left[0] != "26/17" {
		t.Errorf("remaining = %v", left)
	}

	// Q token flips the unit.
	units = report.NorthAmericanUnits()
	_, alt = AltimeterNA([]string{"Q1015"}, &units)
	if alt != "1015" {
		t.Errorf("altimeter = %q, want %q", alt, "1015")
	}
	if units.Altimeter != "hPa" {
		t.Errorf("unit = %q, want hPa", units.Altimeter)
	}

	// Redundant second report discarded.
	left, alt = AltimeterNA([]string{"26/17", "Q1017", "A3003"}, &units)
	if alt != "3003" {
		t.Errorf("altimeter = %q, want %q", alt, "3003")
	}
	if len(left) != 1 {
		t.Errorf("redundant token kept: %v", left)
	}
}

func TestAltimeterInternational(t *testing.T) {
	units := report.InternationalUnits()
	_, alt := AltimeterInternational([]string{"18/12", "Q1015"}, &units)
	if alt != "1015" {
		t.Errorf("altimeter = %q, want %q", alt, "1015")
	}
	if units.Altimeter != "hPa" {
		t.Errorf("unit = %q, want hPa", units.Altimeter)
	}

	units = report.InternationalUnits()
	_, alt = AltimeterInternational([]string{"A2992"}, &units)
	if alt != "2992" {
		t.Errorf("altimeter = %q, want %q", alt, "2992")
	}
	if units.Altimeter != "inHg" {
		t.Errorf("unit = %q, want inHg", units.Altimeter)
	}
}

func TestTempAndDewpoint(t *testing.T) {
	tests := []struct {
		name    string
		in      []string
		wantT   string
		wantD   string
		wantLen int
	}{
		{
			name:    "simple pair",
			in:      []string{"FEW048", "26/17"},
			wantT:   "26",
			wantD:   "17",
			wantLen: 1,
		},
		{
			name:    "negative values",
			in:      []string{"M05/M12"},
			wantT:   "M05",
			wantD:   "M12",
			wantLen: 0,
		},
		{
			name:    "missing dewpoint",
			in:      []string{"26/MM"},
			wantT:   "26",
			wantD:   "",
			wantLen: 0,
		},
		{
			name:    "extra leading slashes",
			in:      []string{"///07"},
			wantT:   "",
			wantD:   "07",
			wantLen: 0,
		},
		{
			name:    "extra trailing slashes",
			in:      []string{"07///"},
			wantT:   "07",
			wantD:   "",
			wantLen: 0,
		},
		{
			name:    "implausible candidate skipped",
			in:      []string{"R06/1200"},
			wantT:   "",
			wantD:   "",
			wantLen: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			left, temp, dew := TempAndDewpoint(tt.in)
			if temp != tt.wantT {
				t.Errorf("temp = %q, want %q", temp, tt.wantT)
			}
			if dew != tt.wantD {
				t.Errorf("dewpoint = %q, want %q", dew, tt.wantD)
			}
			if len(left) != tt.wantLen {
				t.Errorf("remaining = %v, want %d tokens", left, tt.wantLen)
			}
		})
	}
}

func TestClouds(t *testing.T) {
	_, clouds := Clouds([]string{"FEW048", "SCT250", "TS"})
	if len(clouds) != 2 {
		t.Fatalf("expected 2 layers, got %v", clouds)
	}
	if clouds[0].Type != "FEW" || clouds[0].Height != "048" {
		t.Errorf("clouds[0] = %+v, want FEW048", clouds[0])
	}
	if clouds[1].Type != "SCT" || clouds[1].Height != "250" {
		t.Errorf("clouds[1] = %+v, want SCT250", clouds[1])
	}
}

func TestCloudsSorted(t *testing.T) {
	_, clouds := Clouds([]string{"OVC080", "BKN015CB", "FEW004"})
	heights := make([]string, len(clouds))
	for i, c := range clouds {
		heights[i] = c.Height
	}
	want := []string{"004", "015", "080"}
	for i := range want {
		if heights[i] != want[i] {
			t.Errorf("heights = %v, want %v", heights, want)
			break
		}
	}
	if clouds[1].Modifier != "CB" {
		t.Errorf("modifier = %q, want CB", clouds[1].Modifier)
	}
}

func TestSplitCloud(t *testing.T) {
	tests := []struct {
		name string
		in   string
		vv   bool
		want report.CloudLayer
	}{
		{
			name: "plain layer",
			in:   "BKN022",
			want: report.CloudLayer{Type: "BKN", Height: "022"},
		},
		{
			name: "with modifier",
			in:   "OVC015CB",
			want: report.CloudLayer{Type: "OVC", Height: "015", Modifier: "CB"},
		},
		{
			name: "unknown height",
			in:   "FEW///",
			want: report.CloudLayer{Type: "FEW", Height: "///"},
		},
		{
			name: "vertical visibility",
			in:   "VV002",
			vv:   true,
			want: report.CloudLayer{Type: "VV", Height: "002"},
		},
		{
			name: "letter O for zero",
			in:   "FEWO03",
			want: report.CloudLayer{Type: "FEW", Height: "003"},
		},
		{
			name: "misplaced modifier",
			in:   "BKNC015",
			want: report.CloudLayer{Type: "BKN", Height: "015", Modifier: "C"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitCloud(tt.in, tt.vv)
			if got != tt.want {
				t.Errorf("SplitCloud(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestTypeAndTimes(t *testing.T) {
	tests := []struct {
		name      string
		in        []string
		wantType  string
		wantStart string
		wantEnd   string
	}{
		{
			name:      "base line with range",
			in:        []string{"2918/3024", "18012KT"},
			wantType:  "BASE",
			wantStart: "2918",
			wantEnd:   "3024",
		},
		{
			name:      "tempo line",
			in:        []string{"TEMPO", "3000/3004", "5SM"},
			wantType:  "TEMPO",
			wantStart: "3000",
			wantEnd:   "3004",
		},
		{
			name:      "probability line",
			in:        []string{"PROB30", "3006/3010"},
			wantType:  "PROB30",
			wantStart: "3006",
			wantEnd:   "3010",
		},
		{
			name:      "from line",
			in:        []string{"FM300200", "19008KT"},
			wantType:  "FROM",
			wantStart: "3002",
			wantEnd:   "",
		},
		{
			name:      "from with TL end",
			in:        []string{"FM300200", "TL301200", "19008KT"},
			wantType:  "FROM",
			wantStart: "3002",
			wantEnd:   "3012",
		},
		{
			name:      "from with slash",
			in:        []string{"FM0200/0600", "19008KT"},
			wantType:  "FROM",
			wantStart: "0200",
			wantEnd:   "0600",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, lineType, start, end := TypeAndTimes(tt.in)
			if lineType != tt.wantType {
				t.Errorf("type = %q, want %q", lineType, tt.wantType)
			}
			if start != tt.wantStart {
				t.Errorf("start = %q, want %q", start, tt.wantStart)
			}
			if end != tt.wantEnd {
				t.Errorf("end = %q, want %q", end, tt.wantEnd)
			}
		})
	}
}

func TestTempMinMax(t *testing.T) {
	tests := []struct {
		name    string
		in      []string
		wantMax string
		wantMin string
	}{
		{
			name:    "explicit pair",
			in:      []string{"NSW", "TX20/3018Z", "TN12/3009Z"},
			wantMax: "TX20/3018Z",
			wantMin: "TN12/3009Z",
		},
		{
			name:    "ambiguous pair resolved by value",
			in:      []string{"T24/3018Z", "T13/3009Z"},
			wantMax: "TX24/3018Z",
			wantMin: "TN13/3009Z",
		},
		{
			name:    "ambiguous pair needing swap",
			in:      []string{"T13/3009Z", "T24/3018Z"},
			wantMax: "TX24/3018Z",
			wantMin: "TN13/3009Z",
		},
		{
			name:    "single ambiguous is min",
			in:      []string{"TM02/3009Z"},
			wantMax: "",
			wantMin: "TNM02/3009Z",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			left, tempMax, tempMin := TempMinMax(tt.in)
			if tempMax != tt.wantMax {
				t.Errorf("max = %q, want %q", tempMax, tt.wantMax)
			}
			if tempMin != tt.wantMin {
				t.Errorf("min = %q, want %q", tempMin, tt.wantMin)
			}
			for _, item := range left {
				if strings.HasPrefix(item, "TX") || strings.HasPrefix(item, "TN") {
					t.Errorf("temperature group left in list: %v", left)
				}
			}
		})
	}
}

func TestOceaniaTempAlt(t *testing.T) {
	in := []string{"FM300600", "T", "24", "26", "25", "23", "Q", "1013", "1012", "1011", "1014"}
	left, temps, alts := OceaniaTempAlt(in)
	if len(left) != 1 || left[0] != "FM300600" {
		t.Errorf("remaining = %v", left)
	}
	if len(temps) != 4 || temps[0] != "24" {
		t.Errorf("temps = %v", temps)
	}
	if len(alts) != 4 || alts[0] != "1013" {
		t.Errorf("alts = %v", alts)
	}
}

package rules

import (
	"testing"

	"wx_parser/internal/report"
)

func TestCeiling(t *testing.T) {
	tests := []struct {
		name   string
		clouds []report.CloudLayer
		want   string // height of the ceiling layer, "" for none
	}{
		{
			name: "broken counts",
			clouds: []report.CloudLayer{
				{Type: "FEW", Height: "010"},
				{Type: "BKN", Height: "022"},
				{Type: "OVC", Height: "080"},
			},
			want: "022",
		},
		{
			name: "scattered does not count",
			clouds: []report.CloudLayer{
				{Type: "FEW", Height: "048"},
				{Type: "SCT", Height: "250"},
			},
			want: "",
		},
		{
			name: "vertical visibility counts",
			clouds: []report.CloudLayer{
				{Type: "VV", Height: "002"},
			},
			want: "002",
		},
		{
			name: "unknown height skipped",
			clouds: []report.CloudLayer{
				{Type: "BKN", Height: "///"},
				{Type: "OVC", Height: "035"},
			},
			want: "035",
		},
		{name: "no clouds", clouds: nil, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Ceiling(tt.clouds)
			if tt.want == "" {
				if got != nil {
					t.Errorf("Ceiling = %+v, want nil", got)
				}
				return
			}
			if got == nil {
				t.Fatal("Ceiling = nil, want a layer")
			}
			if got.Height != tt.want {
				t.Errorf("Ceiling height = %q, want %q", got.Height, tt.want)
			}
		})
	}
}

func TestFlightRules(t *testing.T) {
	bkn := func(height string) *report.CloudLayer {
		return &report.CloudLayer{Type: "BKN", Height: height}
	}

	tests := []struct {
		name    string
		vis     string
		ceiling *report.CloudLayer
		want    report.FlightRules
	}{
		{name: "clear and ten miles", vis: "10", want: report.VFR},
		{name: "greater than six", vis: "P6", want: report.VFR},
		{name: "vis at five is marginal", vis: "5", want: report.MVFR},
		{name: "ceiling at thirty is marginal", vis: "10", ceiling: bkn("030"), want: report.MVFR},
		{name: "vis below three", vis: "2", want: report.IFR},
		{name: "ceiling below ten", vis: "10", ceiling: bkn("008"), want: report.IFR},
		{name: "vis below one", vis: "1/2", want: report.LIFR},
		{name: "ceiling below five", vis: "10", ceiling: bkn("002"), want: report.LIFR},
		{name: "less than quarter mile", vis: "M1/4", want: report.LIFR},
		{name: "meters above limits", vis: "9999", want: report.VFR},
		{name: "meters marginal", vis: "8000", ceiling: bkn("025"), want: report.MVFR},
		{name: "meters low", vis: "0800", want: report.LIFR},
		{name: "unknown visibility", vis: "", want: report.IFR},
		{name: "slashes only", vis: "////", want: report.IFR},
		{name: "unparseable", vis: "FOG", want: report.IFR},
		{name: "zero denominator", vis: "1/0", want: report.IFR},
		{name: "mixed fraction", vis: "5/2", want: report.IFR},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FlightRules(tt.vis, tt.ceiling)
			if got != tt.want {
				t.Errorf("FlightRules(%q, %+v) = %s, want %s", tt.vis, tt.ceiling, got, tt.want)
			}
		})
	}
}

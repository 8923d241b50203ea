// Package report defines the typed records produced by the METAR and TAF
// decoders, plus the per-report units record.
package report

import "errors"

// ErrEmptyReport is returned when a report string is too short to contain
// even a station identifier.
var ErrEmptyReport = errors.New("report text is empty or too short")

// Report is the common interface for all decoded report types.
type Report interface {
	Kind() string
	StationID() string
}

// FlightRules is the coarse operational category derived from visibility
// and ceiling.
type FlightRules string

const (
	VFR  FlightRules = "VFR"
	MVFR FlightRules = "MVFR"
	IFR  FlightRules = "IFR"
	LIFR FlightRules = "LIFR"
)

// Units records the unit of measurement identified for each field during a
// single parse call. A fresh copy is seeded per call from the station's
// region defaults and mutated as region-specific tokens are recognized
// (e.g. an MPS wind suffix or a Q-prefixed altimeter).
type Units struct {
	WindSpeed   string `json:"wind_speed"`
	Visibility  string `json:"visibility"`
	Altitude    string `json:"altitude"`
	Temperature string `json:"temperature"`
	Altimeter   string `json:"altimeter"`
}

// NorthAmericanUnits returns the default units for NA-format stations.
func NorthAmericanUnits() Units {
	return Units{
		WindSpeed:   "kt",
		Visibility:  "sm",
		Altitude:    "ft",
		Temperature: "C",
		Altimeter:   "inHg",
	}
}

// InternationalUnits returns the default units for international stations.
func InternationalUnits() Units {
	return Units{
		WindSpeed:   "kt",
		Visibility:  "m",
		Altitude:    "ft",
		Temperature: "C",
		Altimeter:   "hPa",
	}
}

// CloudLayer is one reported cloud group. Height is in hundreds of feet and
// kept as the zero-padded string from the report ("060" = 6000 ft) so that
// unknown heights ("///") survive untouched.
type CloudLayer struct {
	Type     string `json:"type"`
	Height   string `json:"height"`
	Modifier string `json:"modifier,omitempty"`
}

// RemarksInfo holds the decoded sub-fields of a METAR remarks section.
// Currently just the decimal temperature refinement from the T-group.
type RemarksInfo struct {
	TemperatureDecimal string `json:"temperature_decimal,omitempty"`
	DewpointDecimal    string `json:"dewpoint_decimal,omitempty"`
}

// Metar is a fully decoded surface observation. Absent fields are empty
// strings or nil slices; absence is an expected value, not an error.
type Metar struct {
	Raw              string       `json:"raw"`
	Station          string       `json:"station"`
	Time             string       `json:"time,omitempty"`
	WindDirection    string       `json:"wind_direction,omitempty"`
	WindSpeed        string       `json:"wind_speed,omitempty"`
	WindGust         string       `json:"wind_gust,omitempty"`
	WindVariableDir  []string     `json:"wind_variable_dir,omitempty"`
	Visibility       string       `json:"visibility,omitempty"`
	RunwayVisibility []string     `json:"runway_visibility,omitempty"`
	Altimeter        string       `json:"altimeter,omitempty"`
	Temperature      string       `json:"temperature,omitempty"`
	Dewpoint         string       `json:"dewpoint,omitempty"`
	Clouds           []CloudLayer `json:"clouds,omitempty"`
	Other            []string     `json:"other,omitempty"`
	Remarks          string       `json:"remarks,omitempty"`
	RemarksInfo      RemarksInfo  `json:"remarks_info,omitempty"`
	FlightRules      FlightRules  `json:"flight_rules"`
	Units            Units        `json:"units"`
}

// Kind identifies the report type for registry dispatch.
func (m *Metar) Kind() string { return "metar" }

// StationID returns the reporting station identifier.
func (m *Metar) StationID() string { return m.Station }

// TafLine is one forecast period of a TAF.
type TafLine struct {
	Type          string       `json:"type"`
	StartTime     string       `json:"start_time,omitempty"`
	EndTime       string       `json:"end_time,omitempty"`
	Probability   string       `json:"probability,omitempty"`
	Raw           string       `json:"raw"`
	WindDirection string       `json:"wind_direction,omitempty"`
	WindSpeed     string       `json:"wind_speed,omitempty"`
	WindGust      string       `json:"wind_gust,omitempty"`
	WindShear     string       `json:"wind_shear,omitempty"`
	Visibility    string       `json:"visibility,omitempty"`
	Altimeter     string       `json:"altimeter,omitempty"`
	Clouds        []CloudLayer `json:"clouds,omitempty"`
	IcingList     []string     `json:"icing,omitempty"`
	TurbList      []string     `json:"turbulence,omitempty"`
	Other         []string     `json:"other,omitempty"`
	FlightRules   FlightRules  `json:"flight_rules"`
}

// Taf is a fully decoded terminal aerodrome forecast.
type Taf struct {
	Raw      string    `json:"raw"`
	Station  string    `json:"station"`
	Time     string    `json:"time,omitempty"`
	Remarks  string    `json:"remarks,omitempty"`
	MinTemp  string    `json:"min_temp,omitempty"`
	MaxTemp  string    `json:"max_temp,omitempty"`
	Forecast []TafLine `json:"forecast"`

	// Oceania stations report trailing temperature and altimeter groups.
	TempList []string `json:"temp_list,omitempty"`
	AltList  []string `json:"alt_list,omitempty"`

	Units Units `json:"units"`
}

// Kind identifies the report type for registry dispatch.
func (t *Taf) Kind() string { return "taf" }

// StationID returns the reporting station identifier.
func (t *Taf) StationID() string { return t.Station }

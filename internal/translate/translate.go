// Package translate renders decoded report fields into plain-English
// strings.
package translate

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"wx_parser/internal/report"
)

// wxReplacements maps the two-letter weather phenomena codes to their
// readable names.
var wxReplacements = map[string]string{
	"RA": "Rain", "TS": "Thunderstorm", "SH": "Showers", "DZ": "Drizzle",
	"VC": "Vicinity", "UP": "Unknown Precip", "SN": "Snow", "FZ": "Freezing",
	"SG": "Snow Grains", "IC": "Ice Crystals", "PL": "Ice Pellets",
	"GR": "Hail", "GS": "Small Hail", "FG": "Fog", "BR": "Mist", "HZ": "Haze",
	"VA": "Volcanic Ash", "DU": "Wide Dust", "FU": "Smoke", "SA": "Sand",
	"SY": "Spray", "SQ": "Squall", "PO": "Dust Whirls", "DS": "Duststorm",
	"SS": "Sandstorm", "FC": "Funnel Cloud", "BL": "Blowing", "MI": "Shallow",
	"BC": "Patchy", "PR": "Partial",
}

var cloudNames = map[string]string{
	"OVC": "Overcast layer at %d%s",
	"BKN": "Broken layer at %d%s",
	"SCT": "Scattered clouds at %d%s",
	"FEW": "Few clouds at %d%s",
	"VV":  "Vertical visibility up to %d%s",
}

var cloudModifiers = map[string]string{
	"CLR": "Sky Clear",
	"SKC": "Sky Clear",
	"TCU": "Towering Cumulus",
	"CB":  "Cumulonimbus",
	"ACC": "Altocumulus Castellanus",
}

var compassPoints = []string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

// Cardinal returns the 16-point compass name for a direction in degrees.
func Cardinal(degrees int) string {
	index := int(math.Round(float64(degrees)/22.5)) % 16
	if index < 0 {
		index += 16
	}
	return compassPoints[index]
}

// Wind formats wind elements into a readable sentence.
// Ex: NNE-030° (variable 010 to 040) at 14kt gusting to 20
func Wind(direction, speed, gust string, variable []string, unit string) string {
	var b strings.Builder
	switch {
	case direction == "000":
		b.WriteString("Calm")
	case direction == "VRB":
		b.WriteString("Variable")
	case isDigits(direction):
		deg, _ := strconv.Atoi(direction)
		b.WriteString(Cardinal(deg))
		b.WriteString("-")
		b.WriteString(strconv.Itoa(deg))
		b.WriteString("°")
	}
	if len(variable) == 2 {
		fmt.Fprintf(&b, " (variable %s to %s)", variable[0], variable[1])
	}
	if speed != "" && speed != "00" {
		b.WriteString(" at " + speed + unit)
	}
	if gust != "" {
		b.WriteString(" gusting to " + gust)
	}
	return b.String()
}

// Visibility formats a visibility value with both native and converted
// units. Ex: 8.0 km (5.0 sm)
func Visibility(vis, unit string) string {
	switch vis {
	case "":
		return ""
	case "P6":
		return "Greater than 6sm ( >9999m )"
	case "M1/4":
		return "Less than .25sm ( <0400m )"
	}
	var value float64
	if num, den, ok := splitFraction(vis); ok {
		value = float64(num) / float64(den)
	} else {
		n, err := strconv.ParseFloat(vis, 64)
		if err != nil {
			return ""
		}
		value = n
	}
	switch unit {
	case "m":
		return fmt.Sprintf("%s km (%s sm)", round1(value/1000), round1(value*0.000621371))
	case "sm":
		return fmt.Sprintf("%s sm (%s km)", round1(value), round1(value/0.621371))
	}
	return ""
}

// Temperature formats a temperature with both C and F values. Used for both
// temperature and dewpoint. Ex: 34°C (93°F)
func Temperature(temp, unit string) string {
	temp = strings.ReplaceAll(temp, "M", "-")
	n, err := strconv.Atoi(temp)
	if err != nil {
		return ""
	}
	switch strings.ToUpper(unit) {
	case "C":
		f := int(math.Round(float64(n)*1.8 + 32))
		return fmt.Sprintf("%d°C (%d°F)", n, f)
	case "F":
		c := int(math.Round((float64(n) - 32) / 1.8))
		return fmt.Sprintf("%d°F (%d°C)", n, c)
	}
	return ""
}

// Altimeter formats the altimeter setting with both inHg and hPa values.
// Ex: 30.11 inHg (1020 hPa)
func Altimeter(alt, unit string) string {
	if !isDigits(alt) {
		if len(alt) == 5 && isDigits(alt[1:]) {
			alt = alt[1:]
		} else {
			return ""
		}
	}
	switch unit {
	case "hPa":
		n, _ := strconv.Atoi(alt)
		inHg := math.Round(float64(n)/33.8638866667*100) / 100
		return fmt.Sprintf("%s hPa (%.2f inHg)", alt, inHg)
	case "inHg":
		if len(alt) < 4 {
			return ""
		}
		display := alt[:2] + "." + alt[2:]
		v, _ := strconv.ParseFloat(display, 64)
		return fmt.Sprintf("%s inHg (%d hPa)", display, int(math.Round(v*33.8638866667)))
	}
	return ""
}

// Clouds formats a cloud layer list into a readable sentence.
// Ex: Scattered clouds at 1100ft, Broken layer at 2200ft (Cumulonimbus) - Reported AGL
func Clouds(clouds []report.CloudLayer, unit string) string {
	var parts []string
	for _, cloud := range clouds {
		name, ok := cloudNames[cloud.Type]
		if !ok || !isDigits(cloud.Height) {
			continue
		}
		height, _ := strconv.Atoi(cloud.Height)
		line := fmt.Sprintf(name, height*100, unit)
		if mod, ok := cloudModifiers[cloud.Modifier]; ok {
			line += " (" + mod + ")"
		}
		parts = append(parts, line)
	}
	if len(parts) == 0 {
		return "Sky clear"
	}
	return strings.Join(parts, ", ") + " - Reported AGL"
}

// WxCode translates a weather phenomena code into a readable string.
// Unrecognized shapes pass through unchanged.
func WxCode(code string) string {
	var b strings.Builder
	wx := code
	if strings.HasPrefix(wx, "+") {
		b.WriteString("Heavy ")
		wx = wx[1:]
	} else if strings.HasPrefix(wx, "-") {
		b.WriteString("Light ")
		wx = wx[1:]
	}
	if len(wx) != 2 && len(wx) != 4 && len(wx) != 6 {
		return code
	}
	for len(wx) >= 2 {
		if name, ok := wxReplacements[wx[:2]]; ok {
			b.WriteString(name + " ")
		} else {
			b.WriteString(wx[:2])
		}
		wx = wx[2:]
	}
	return strings.TrimRight(b.String(), " ")
}

// OtherList translates a list of weather codes into one sentence.
func OtherList(codes []string) string {
	var parts []string
	for _, code := range codes {
		parts = append(parts, WxCode(code))
	}
	return strings.Join(parts, ", ")
}

// WindShear translates a wind-shear group into a readable string.
// Ex: Wind shear 2000ft from 140° at 30kt
func WindShear(shear, altUnit, windUnit string) string {
	if shear == "" || !strings.HasPrefix(shear, "WS") || !strings.Contains(shear, "/") {
		return ""
	}
	parts := strings.SplitN(shear[2:], "/", 2)
	height, _ := strconv.Atoi(parts[0])
	if len(parts[1]) < 4 {
		return ""
	}
	return fmt.Sprintf("Wind shear %d%s from %s° at %s%s",
		height*100, altUnit, parts[1][:3], parts[1][3:], windUnit)
}

var turbConditions = map[byte]string{
	'0': "None",
	'1': "Light turbulence",
	'2': "Occasional moderate turbulence in clear air",
	'3': "Frequent moderate turbulence in clear air",
	'4': "Occasional moderate turbulence in clouds",
	'5': "Frequent moderate turbulence in clouds",
	'6': "Occasional severe turbulence in clear air",
	'7': "Frequent severe turbulence in clear air",
	'8': "Occasional severe turbulence in clouds",
	'9': "Frequent severe turbulence in clouds",
	'X': "Extreme turbulence",
}

var iceConditions = map[byte]string{
	'0': "No icing",
	'1': "Light icing",
	'2': "Light icing in clouds",
	'3': "Light icing in precipitation",
	'4': "Moderate icing",
	'5': "Moderate icing in clouds",
	'6': "Moderate icing in precipitation",
	'7': "Severe icing",
	'8': "Severe icing in clouds",
	'9': "Severe icing in precipitation",
}

// TurbIce translates a list of coded turbulence (5xxxxx) or icing (6xxxxx)
// groups into a readable sentence, merging adjacent groups that describe one
// layer deeper than 9000 ft.
// Ex: Occasional moderate turbulence in clouds from 3000ft to 14000ft
func TurbIce(codes []string, unit string) string {
	if len(codes) == 0 {
		return ""
	}
	var conditions map[byte]string
	switch codes[0][0] {
	case '5':
		conditions = turbConditions
	case '6':
		conditions = iceConditions
	default:
		return ""
	}

	type layer struct {
		kind  byte
		floor int
		depth int
	}
	var layers []layer
	for _, item := range codes {
		if len(item) != 6 {
			continue
		}
		floor, _ := strconv.Atoi(item[2:5])
		depth, _ := strconv.Atoi(item[5:])
		layers = append(layers, layer{kind: item[1], floor: floor, depth: depth})
	}
	for i := len(layers) - 2; i >= 0; i-- {
		next := layers[i+1]
		if layers[i].depth == 9 && layers[i].kind == next.kind &&
			next.floor == layers[i].floor+layers[i].depth*10 {
			layers[i].depth += next.depth
			layers = append(layers[:i+1], layers[i+2:]...)
		}
	}

	var parts []string
	for _, l := range layers {
		parts = append(parts, fmt.Sprintf("%s from %d%s to %d%s",
			conditions[l.kind], l.floor*100, unit, l.floor*100+l.depth*1000, unit))
	}
	return strings.Join(parts, ", ")
}

// MinMaxTemp formats a TX/TN temperature remark into a readable string.
// Ex: Maximum temperature of 23°C (73°F) at 18-15:00Z
func MinMaxTemp(temp, unit string) string {
	if len(temp) < 7 {
		return ""
	}
	var kind string
	switch temp[:2] {
	case "TX":
		kind = "Maximum"
	case "TN":
		kind = "Minimum"
	default:
		return ""
	}
	rest := strings.ReplaceAll(strings.TrimSuffix(temp[2:], "Z"), "M", "-")
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) != 2 {
		return ""
	}
	at := parts[1]
	if len(at) > 2 {
		at = at[:2] + "-" + at[2:]
	}
	return fmt.Sprintf("%s temperature of %s at %s:00Z", kind, Temperature(parts[0], unit), at)
}

// MetarTranslations holds the readable renderings of a METAR's fields.
type MetarTranslations struct {
	Wind        string `json:"wind"`
	Visibility  string `json:"visibility"`
	Clouds      string `json:"clouds"`
	Temperature string `json:"temperature"`
	Dewpoint    string `json:"dewpoint"`
	Altimeter   string `json:"altimeter"`
	Other       string `json:"other"`
}

// Metar renders every translatable field of a decoded METAR.
func Metar(m *report.Metar) MetarTranslations {
	return MetarTranslations{
		Wind:        Wind(m.WindDirection, m.WindSpeed, m.WindGust, m.WindVariableDir, m.Units.WindSpeed),
		Visibility:  Visibility(m.Visibility, m.Units.Visibility),
		Clouds:      Clouds(m.Clouds, m.Units.Altitude),
		Temperature: Temperature(m.Temperature, m.Units.Temperature),
		Dewpoint:    Temperature(m.Dewpoint, m.Units.Temperature),
		Altimeter:   Altimeter(m.Altimeter, m.Units.Altimeter),
		Other:       OtherList(m.Other),
	}
}

// TafLineTranslations holds the readable renderings of one forecast period.
type TafLineTranslations struct {
	Wind       string `json:"wind"`
	Visibility string `json:"visibility"`
	Clouds     string `json:"clouds"`
	Altimeter  string `json:"altimeter"`
	WindShear  string `json:"wind_shear"`
	Turbulence string `json:"turbulence"`
	Icing      string `json:"icing"`
	Other      string `json:"other"`
}

// TafTranslations holds the readable renderings of a decoded TAF.
type TafTranslations struct {
	Forecast []TafLineTranslations `json:"forecast"`
	MinTemp  string                `json:"min_temp"`
	MaxTemp  string                `json:"max_temp"`
}

// Taf renders every translatable field of a decoded TAF.
func Taf(t *report.Taf) TafTranslations {
	out := TafTranslations{
		MinTemp: MinMaxTemp(t.MinTemp, t.Units.Temperature),
		MaxTemp: MinMaxTemp(t.MaxTemp, t.Units.Temperature),
	}
	for _, line := range t.Forecast {
		out.Forecast = append(out.Forecast, TafLineTranslations{
			Wind:       Wind(line.WindDirection, line.WindSpeed, line.WindGust, nil, t.Units.WindSpeed),
			Visibility: Visibility(line.Visibility, t.Units.Visibility),
			Clouds:     Clouds(line.Clouds, t.Units.Altitude),
			Altimeter:  Altimeter(line.Altimeter, t.Units.Altimeter),
			WindShear:  WindShear(line.WindShear, t.Units.Altitude, t.Units.WindSpeed),
			Turbulence: TurbIce(line.TurbList, t.Units.Altitude),
			Icing:      TurbIce(line.IcingList, t.Units.Altitude),
			Other:      OtherList(line.Other),
		})
	}
	return out
}

func splitFraction(s string) (num, den int, ok bool) {
	slash := strings.Index(s, "/")
	if slash <= 0 {
		return 0, 0, false
	}
	num, nerr := strconv.Atoi(s[:slash])
	den, derr := strconv.Atoi(s[slash+1:])
	if nerr != nil || derr != nil || den == 0 {
		return 0, 0, false
	}
	return num, den, true
}

func round1(f float64) string {
	return strconv.FormatFloat(math.Round(f*10)/10, 'f', -1, 64)
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

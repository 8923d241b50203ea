// Package sanitize repairs and tokenizes raw METAR/TAF report text.
//
// Reports arrive over noisy telegraphic links: spaces go missing, single
// fields get split across two tokens, unit suffixes get mangled. The
// functions here fix the systematic transmission errors before the field
// extractors run, and pull out the tokens (runway visual range, wind shear)
// whose position in the report is non-standard.
package sanitize

import "strings"

// CloudTypes are the four cloud coverage codes that start a cloud group.
var CloudTypes = []string{"FEW", "SCT", "BKN", "OVC"}

// cloudDescriptors are cloud-description codes that can trail a cloud group
// as a separate token (BKN015 CB -> BKN015CB).
var cloudDescriptors = []string{"CB", "TCU", "ACC", "CLR", "SKC", "VV"}

// noiseTokens are dropped outright during the token pass.
var noiseTokens = []string{
	"AUTO", "COR", "NSC", "NCD", "$", "M", ".", "RTD", "SPECI", "METAR", "CORR",
}

// strFixes are applied to the whole report string (station identifier
// excluded) before tokenization. Order matters for overlapping keys.
var strFixes = [][2]string{
	{" C A V O K ", " CAVOK "},
	{"?", " "},
	{"\"", ""},
	{"'", ""},
	{"`", ""},
	{"N0SIG", "NOSIG"},
	{"KKT ", "KT "},
	{"KLT ", "KT "},
	{"CALMKT ", "CALM "},
	{" VTB", " VRB"},
	{" VBR", " VRB"},
	{" VRV", " VRB"},
	{" VAB", " VRB"},
	{" <1/", " M1/"},
}

// visPermutations holds every ordering of the characters P6SM except 6MPS,
// which is a legitimate metric wind speed, not a scrambled visibility.
var visPermutations = func() []string {
	var perms []string
	var build func(prefix string, rest []byte)
	build = func(prefix string, rest []byte) {
		if len(rest) == 0 {
			if prefix != "6MPS" {
				perms = append(perms, prefix)
			}
			return
		}
		for i := range rest {
			next := make([]byte, 0, len(rest)-1)
			next = append(next, rest[:i]...)
			next = append(next, rest[i+1:]...)
			build(prefix+string(rest[i]), next)
		}
	}
	build("", []byte("P6SM"))
	return perms
}()

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

func inList(s string, list []string) bool {
	for _, item := range list {
		if s == item {
			return true
		}
	}
	return false
}

// FirstIndexAny returns the byte offset of the earliest occurrence of any
// marker in txt, or -1 if none occur.
func FirstIndexAny(txt string, markers []string) int {
	first := -1
	for _, m := range markers {
		if i := strings.Index(txt, m); i > -1 && (first == -1 || i < first) {
			first = i
		}
	}
	return first
}

// CleanReport performs the first-pass string fixes on a whole report line.
// The first four characters (the station identifier) are protected from
// modification. Missing spaces in front of cloud groups are re-inserted:
// TSFEW004SCT012FEW///CBBKN080 -> TS FEW004 SCT012 FEW///CB BKN080.
func CleanReport(raw string) string {
	txt := strings.ToUpper(strings.TrimSpace(raw))
	if len(txt) < 4 {
		return txt
	}
	txt = strings.Join(strings.Fields(txt), " ")
	stid, txt := txt[:4], txt[4:]
	for _, fix := range strFixes {
		txt = strings.ReplaceAll(txt, fix[0], fix[1])
	}
	for _, cloud := range CloudTypes {
		if strings.Count(txt, cloud) == strings.Count(txt, " "+cloud) {
			continue
		}
		start, counter := 0, 0
		for strings.Count(txt, cloud) != strings.Count(txt, " "+cloud) {
			idx := strings.Index(txt[start:], cloud)
			if idx == -1 {
				break
			}
			cloudIndex := start + idx
			tail := txt[cloudIndex+len(cloud):]
			if len(tail) >= 3 {
				target := tail[:3]
				if isDigits(target) || strings.Trim(target, "/") == "" {
					txt = txt[:cloudIndex] + " " + txt[cloudIndex:]
					cloudIndex++
				}
			}
			start = cloudIndex + len(cloud)
			// Bounded iteration in case a cloud code repeats unmergeably.
			if counter > strings.Count(txt, cloud) {
				break
			}
			counter++
		}
	}
	return stid + txt
}

// extraSpaceExists reports whether s1 and s2 are two halves of a single
// logical field that a transmission error split apart.
func extraSpaceExists(s1, s2 string) bool {
	ls1, ls2 := len(s1), len(s2)
	if isDigits(s1) {
		// 10 SM
		if s2 == "SM" || s2 == "0SM" {
			return true
		}
		// 12 /10
		if ls2 > 2 && s2[0] == '/' && isDigits(s2[1:]) {
			return true
		}
	}
	if isDigits(s2) {
		// OVC 040
		if inList(s1, CloudTypes) {
			return true
		}
		// 12/ 10
		if ls1 > 2 && strings.HasSuffix(s1, "/") && isDigits(s1[:ls1-1]) {
			return true
		}
		// 12/1 0
		if ls2 == 1 && ls1 > 3 && isDigits(s1[:2]) && strings.Contains(s1, "/") && isDigits(s1[3:]) {
			return true
		}
		// Q 1001
		if s1 == "Q" || s1 == "A" {
			return true
		}
	}
	// 36010G20 KT
	if s2 == "KT" && ls1 > 0 && isDigits(s1[ls1-1:]) &&
		(ls1 >= 5 && isDigits(s1[:5]) || strings.HasPrefix(s1, "VRB") && ls1 >= 5 && isDigits(s1[3:5])) {
		return true
	}
	// 36010K T
	if s2 == "T" && ls1 >= 6 && s1[ls1-1] == 'K' &&
		(isDigits(s1[:5]) || strings.HasPrefix(s1, "VRB") && isDigits(s1[3:5])) {
		return true
	}
	// OVC022 CB
	if inList(s2, cloudDescriptors) && ls1 >= 3 && inList(s1[:3], CloudTypes) {
		return true
	}
	// FM 122400
	if (s1 == "FM" || s1 == "TL") &&
		(isDigits(s2) || strings.HasSuffix(s2, "Z") && isDigits(s2[:ls2-1])) {
		return true
	}
	// TX 20/10
	if (s1 == "TX" || s1 == "TN") && strings.Contains(s2, "/") {
		return true
	}
	return false
}

// isRunwayVisibility matches runway visual range tokens: R followed by two
// digits with a slash within the first five characters. Ex: R06/1200FT.
func isRunwayVisibility(item string) bool {
	return len(item) > 4 && item[0] == 'R' && isDigits(item[1:3]) &&
		(item[3] == '/' || item[4] == '/')
}

// windWithBadSuffix matches wind tokens whose KT suffix lost a character:
// 06012K or 06012T (6 chars), or 06012G22K / 06012G22T (9 chars with gust).
func windWithBadSuffix(item string) bool {
	n := len(item)
	if strings.HasSuffix(item, "KT") {
		return false
	}
	if n == 6 && (item[5] == 'K' || item[5] == 'T') {
		return isDigits(item[:5]) || strings.HasPrefix(item, "VRB") && isDigits(item[3:5])
	}
	if n == 9 && (item[8] == 'K' || item[8] == 'T') && item[5] == 'G' {
		return isDigits(item[:5]) || strings.HasPrefix(item, "VRB")
	}
	return false
}

// Tokens runs the token-level sanitizer over a report already split on
// whitespace. It returns the cleaned token list plus the extracted runway
// visual range tokens and wind shear token.
//
// Sky-clear tokens (CLR/SKC) are dropped for METARs but kept for TAFs,
// where they carry forecast-ceiling information; pass keepSkyClear
// accordingly.
//
// The pass runs right to left over a copy of the input so the current index
// stays valid when a token is deleted or merged into its predecessor.
func Tokens(items []string, keepSkyClear bool) (tokens, runwayVis []string, windShear string) {
	wx := make([]string, len(items))
	copy(wx, items)
	for i := len(wx) - 1; i >= 0; i-- {
		item := wx[i]
		ilen := len(item)
		switch {
		// Remove elements containing only '/'
		case strings.Trim(item, "/") == "":
			wx = append(wx[:i], wx[i+1:]...)
		case isRunwayVisibility(item):
			runwayVis = append(runwayVis, item)
			wx = append(wx[:i], wx[i+1:]...)
		// Remove RE'd recent-weather codes, REVCTS -> dropped
		case (ilen == 4 || ilen == 6) && strings.HasPrefix(item, "RE"):
			wx = append(wx[:i], wx[i+1:]...)
		// Fix a slew of easily identifiable conditions where a space does not belong
		case i > 0 && extraSpaceExists(wx[i-1], item):
			wx[i-1] += item
			wx = append(wx[:i], wx[i+1:]...)
		case inList(item, noiseTokens):
			wx = append(wx[:i], wx[i+1:]...)
		// Remove 'Sky Clear' from METAR but not TAF
		case !keepSkyClear && (item == "CLR" || item == "SKC"):
			wx = append(wx[:i], wx[i+1:]...)
		case item == "CALM":
			wx[i] = "00000KT"
		// Remove amend signifier from start of report (CCA, CCB, ...)
		case ilen == 3 && strings.HasPrefix(item, "CC") && item[2] >= 'A' && item[2] <= 'Z':
			wx = append(wx[:i], wx[i+1:]...)
		case ilen > 6 && strings.HasPrefix(item, "WS") && strings.Contains(item, "/"):
			windShear = strings.ReplaceAll(item, "KT", "")
			wx = append(wx[:i], wx[i+1:]...)
		// Fix inconsistent P6SM. Ex: TP6SM or 6PSM -> P6SM
		case ilen > 3 && inList(item[ilen-4:], visPermutations):
			wx[i] = "P6SM"
		case windWithBadSuffix(item):
			wx[i] = item[:ilen-1] + "KT"
		// Fix joined TX-TN. Ex: TX20/19ZTNM02/23Z
		case ilen > 16 && strings.Count(item, "/") == 2:
			split := -1
			if strings.HasPrefix(item, "TX") {
				split = strings.Index(item, "TN")
			} else if strings.HasPrefix(item, "TN") {
				split = strings.Index(item, "TX")
			}
			if split > 0 {
				wx[i] = item[:split]
				wx = append(wx[:i+1], append([]string{item[split:]}, wx[i+1:]...)...)
			}
		}
	}
	return wx, runwayVis, windShear
}

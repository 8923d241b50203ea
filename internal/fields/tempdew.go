package fields

import "strings"

// possibleTemp reports whether every character is a digit or an M minus sign.
func possibleTemp(temp string) bool {
	if temp == "" {
		return true
	}
	for _, c := range temp {
		if !(c >= '0' && c <= '9' || c == 'M') {
			return false
		}
	}
	return true
}

// TempAndDewpoint scans from the back of the token list for the
// temperature/dewpoint group. A stray extra slash on either side is
// tolerated (///07, 07///), and the MM/XX "missing" markers become empty
// values. A candidate token whose halves are not plausible temperatures is
// left alone and the scan continues.
func TempAndDewpoint(wx []string) (remaining []string, temp, dewpoint string) {
	for i := len(wx) - 1; i >= 0; i-- {
		item := wx[i]
		if !strings.Contains(item, "/") {
			continue
		}
		if item[0] == '/' {
			item = "/" + strings.TrimLeft(item, "/")
		} else if item[len(item)-1] == '/' {
			item = strings.TrimRight(item, "/") + "/"
		}
		parts := strings.Split(item, "/")
		if len(parts) != 2 {
			continue
		}
		valid := true
		for j, part := range parts {
			if part == "MM" || part == "XX" {
				parts[j] = ""
			} else if !possibleTemp(part) {
				valid = false
				break
			}
		}
		if valid {
			remaining = append(wx[:i:i], wx[i+1:]...)
			return remaining, parts[0], parts[1]
		}
	}
	return wx, "", ""
}

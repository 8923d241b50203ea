package fields

import (
	"sort"
	"strings"

	"wx_parser/internal/report"
	"wx_parser/internal/sanitize"
)

// sanitizeCloud repairs rare cloud-group defects: a letter O where the
// height's leading zero should be (FEWO03), or a modifier letter stuck
// between the type and height (BKNC015 becomes BKN015C).
func sanitizeCloud(cloud string) string {
	if len(cloud) < 4 {
		return cloud
	}
	if c := cloud[3]; (c < '0' || c > '9') && c != '/' {
		if c == 'O' {
			cloud = cloud[:3] + "0" + cloud[4:]
		} else {
			cloud = cloud[:3] + cloud[4:] + string(c)
		}
	}
	return cloud
}

// SplitCloud breaks a cloud group token into its type, height, and optional
// modifier. Vertical-visibility groups use a 2-character type code.
func SplitCloud(cloud string, beginsWithVV bool) report.CloudLayer {
	cloud = sanitizeCloud(cloud)
	var layer report.CloudLayer
	if beginsWithVV {
		layer.Type, cloud = cloud[:2], cloud[2:]
	} else if len(cloud) >= 3 {
		layer.Type, cloud = cloud[:3], cloud[3:]
	} else {
		layer.Type = cloud
		return layer
	}
	if len(cloud) >= 3 {
		layer.Height, cloud = cloud[:3], cloud[3:]
	} else {
		layer.Height, cloud = cloud, ""
	}
	layer.Modifier = cloud
	return layer
}

// Clouds extracts every cloud group from the token list and returns the
// layers sorted by height then type.
func Clouds(wx []string) (remaining []string, clouds []report.CloudLayer) {
	for i := len(wx) - 1; i >= 0; i-- {
		item := wx[i]
		switch {
		case len(item) >= 3 && inCloudTypes(item[:3]):
			clouds = append(clouds, SplitCloud(item, false))
			wx = append(wx[:i:i], wx[i+1:]...)
		case strings.HasPrefix(item, "VV"):
			clouds = append(clouds, SplitCloud(item, true))
			wx = append(wx[:i:i], wx[i+1:]...)
		}
	}
	sort.SliceStable(clouds, func(a, b int) bool {
		if clouds[a].Height != clouds[b].Height {
			return clouds[a].Height < clouds[b].Height
		}
		return clouds[a].Type < clouds[b].Type
	})
	return wx, clouds
}

func inCloudTypes(s string) bool {
	for _, c := range sanitize.CloudTypes {
		if s == c {
			return true
		}
	}
	return false
}

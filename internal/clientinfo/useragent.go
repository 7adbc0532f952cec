package clientinfo

import "strings"

const (
	BrowserChrome  = "Chrome"
	BrowserFirefox = "Firefox"
	BrowserSafari  = "Safari"
	BrowserEdge    = "Edge"
	BrowserOpera   = "Opera"
	BrowserUnknown = "Unknown"
)

const (
	DeviceIPhone    = "iPhone"
	DeviceIPad      = "iPad"
	DeviceAndroid   = "Android"
	DeviceMobile    = "Mobile"
	DeviceTablet    = "Tablet"
	DeviceWindowsPC = "Windows PC"
	DeviceMac       = "Mac"
	DeviceLinux     = "Linux"
	DeviceUnknown   = "Unknown"
)

var (
	edgeMarkers    = []string{"edge", "edg/", "edga/", "edgios/"}
	operaMarkers   = []string{"opr/", "opera"}
	chromeMarkers  = []string{"chrome", "crios", "chromium"}
	firefoxMarkers = []string{"firefox", "fxios"}
)

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}

// ParseBrowser classifies a user agent. Order matters: Edge and Opera user
// agents also carry the Chrome token, and Chrome carries the Safari token.
func ParseBrowser(userAgent string) string {
	ua := strings.ToLower(userAgent)
	switch {
	case containsAny(ua, edgeMarkers):
		return BrowserEdge
	case containsAny(ua, operaMarkers):
		return BrowserOpera
	case containsAny(ua, chromeMarkers):
		return BrowserChrome
	case containsAny(ua, firefoxMarkers):
		return BrowserFirefox
	case strings.Contains(ua, "safari"):
		return BrowserSafari
	default:
		return BrowserUnknown
	}
}

var deviceRules = []struct {
	marker string
	device string
}{
	{"iphone", DeviceIPhone},
	{"ipad", DeviceIPad},
	{"android", DeviceAndroid},
	{"mobile", DeviceMobile},
	{"tablet", DeviceTablet},
	{"windows", DeviceWindowsPC},
	{"mac", DeviceMac},
	{"linux", DeviceLinux},
}

// ParseDevice classifies a user agent into a coarse device category. The
// first matching rule wins.
func ParseDevice(userAgent string) string {
	ua := strings.ToLower(userAgent)
	for _, rule := range deviceRules {
		if strings.Contains(ua, rule.marker) {
			return rule.device
		}
	}
	return DeviceUnknown
}

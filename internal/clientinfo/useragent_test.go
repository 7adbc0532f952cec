package clientinfo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const (
	uaChromeWindows = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
	uaEdgeLegacy    = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/70.0.3538.102 Safari/537.36 Edge/18.19582"
	uaEdgeChromium  = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36 Edg/124.0.2478.51"
	uaOpera         = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36 OPR/108.0.0.0"
	uaFirefoxLinux  = "Mozilla/5.0 (X11; Linux x86_64; rv:125.0) Gecko/20100101 Firefox/125.0"
	uaSafariMac     = "Mozilla/5.0 (Macintosh; Intel Mac OS X 14_4_1) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4.1 Safari/605.1.15"
	uaSafariIPhone  = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_4 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Mobile/15E148 Safari/604.1"
	uaChromeIOS     = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_4 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) CriOS/124.0.6367.88 Mobile/15E148 Safari/604.1"
	uaSafariIPad    = "Mozilla/5.0 (iPad; CPU OS 17_4 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Mobile/15E148 Safari/604.1"
	uaChromeAndroid = "Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.6367.82 Mobile Safari/537.36"
	uaCurl          = "curl/8.5.0"
)

func TestParseBrowser(t *testing.T) {
	tests := []struct {
		ua   string
		want string
	}{
		{uaChromeWindows, BrowserChrome},
		{uaEdgeLegacy, BrowserEdge},
		{uaEdgeChromium, BrowserEdge},
		{uaOpera, BrowserOpera},
		{uaFirefoxLinux, BrowserFirefox},
		{uaSafariMac, BrowserSafari},
		{uaSafariIPhone, BrowserSafari},
		{uaChromeIOS, BrowserChrome},
		{uaChromeAndroid, BrowserChrome},
		{uaCurl, BrowserUnknown},
		{"", BrowserUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseBrowser(tt.ua), tt.ua)
	}
}

func TestParseBrowser_EdgeNeverChrome(t *testing.T) {
	assert.Equal(t, BrowserEdge, ParseBrowser("Chrome/99 Edge/99"))
	assert.Equal(t, BrowserEdge, ParseBrowser("EDGE CHROME"))
}

func TestParseBrowser_ChromeNotSafari(t *testing.T) {
	assert.Equal(t, BrowserChrome, ParseBrowser("Safari/537.36 Chrome/124"))
	assert.Equal(t, BrowserSafari, ParseBrowser("Safari/605.1.15"))
}

func TestParseDevice(t *testing.T) {
	tests := []struct {
		ua   string
		want string
	}{
		{uaChromeWindows, DeviceWindowsPC},
		{uaOpera, DeviceMac},
		{uaFirefoxLinux, DeviceLinux},
		{uaSafariIPhone, DeviceIPhone},
		{uaSafariIPad, DeviceIPad},
		{uaChromeAndroid, DeviceAndroid},
		{"SomeBrowser (Mobile)", DeviceMobile},
		{"Kindle Tablet", DeviceTablet},
		{uaCurl, DeviceUnknown},
		{"Unknown", DeviceUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseDevice(tt.ua), tt.ua)
	}
}

func TestNew(t *testing.T) {
	info := New(headers(HeaderUserAgent, uaEdgeChromium, HeaderXForwardedFor, "203.0.113.7", HeaderCFIPCountry, "DE"), "10.0.0.1:1")
	assert.Equal(t, ClientInfo{
		IP:        "203.0.113.7",
		UserAgent: uaEdgeChromium,
		Browser:   BrowserEdge,
		Device:    DeviceWindowsPC,
		Location:  "DE",
	}, info)

	info = New(headers(), "")
	assert.Equal(t, "Unknown", info.UserAgent)
	assert.Equal(t, BrowserUnknown, info.Browser)
	assert.Equal(t, DeviceUnknown, info.Device)
	assert.Equal(t, "Unknown", info.IP)
}

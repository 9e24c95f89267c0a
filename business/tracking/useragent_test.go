package tracking

import "testing"

const (
	uaChromeWindows = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
	uaEdgeWindows   = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36 Edg/124.0"
	uaSafariIPhone  = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1"
	uaFirefoxLinux  = "Mozilla/5.0 (X11; Linux x86_64; rv:125.0) Gecko/20100101 Firefox/125.0"
	uaIPad          = "Mozilla/5.0 (iPad; CPU OS 16_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Mobile/15E148"
	uaAndroid       = "Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Mobile Safari/537.36"
)

func TestDetectDevice(t *testing.T) {
	tests := []struct {
		ua   string
		want string
	}{
		{uaChromeWindows, "desktop"},
		{uaSafariIPhone, "mobile"},
		{uaAndroid, "mobile"},
		{uaIPad, "tablet"},
		{"", "desktop"},
	}

	for _, tc := range tests {
		if got := DetectDevice(tc.ua); got != tc.want {
			t.Errorf("DetectDevice(%q) = %q, want %q", tc.ua, got, tc.want)
		}
	}
}

func TestDetectOS(t *testing.T) {
	tests := []struct {
		ua   string
		want string
	}{
		{uaChromeWindows, "windows"},
		{uaSafariIPhone, "ios"},
		{uaAndroid, "android"},
		{uaFirefoxLinux, "linux"},
		{"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15)", "macos"},
		{"", "unknown"},
	}

	for _, tc := range tests {
		if got := DetectOS(tc.ua); got != tc.want {
			t.Errorf("DetectOS(%q) = %q, want %q", tc.ua, got, tc.want)
		}
	}
}

func TestDetectBrowser(t *testing.T) {
	tests := []struct {
		ua   string
		want string
	}{
		{uaChromeWindows, "chrome"},
		{uaEdgeWindows, "edge"}, // edge carries chrome/ too, edg/ wins
		{uaSafariIPhone, "safari"},
		{uaFirefoxLinux, "firefox"},
		{"", "unknown"},
	}

	for _, tc := range tests {
		if got := DetectBrowser(tc.ua); got != tc.want {
			t.Errorf("DetectBrowser(%q) = %q, want %q", tc.ua, got, tc.want)
		}
	}
}

package tracking

import "strings"

// Substring heuristics over the raw user-agent. Good enough for device-class
// targeting; not a full UA parser.

func DetectDevice(ua string) string {
	u := strings.ToLower(ua)
	if strings.Contains(u, "ipad") || strings.Contains(u, "tablet") {
		return "tablet"
	}
	if strings.Contains(u, "mobi") || strings.Contains(u, "android") || strings.Contains(u, "iphone") {
		return "mobile"
	}
	return "desktop"
}

func DetectOS(ua string) string {
	u := strings.ToLower(ua)
	switch {
	case strings.Contains(u, "windows"):
		return "windows"
	// iphone/ipad UAs also claim "like Mac OS X", so check them first
	case strings.Contains(u, "iphone"), strings.Contains(u, "ipad"), strings.Contains(u, "ios"):
		return "ios"
	case strings.Contains(u, "mac os"), strings.Contains(u, "macintosh"):
		return "macos"
	case strings.Contains(u, "android"):
		return "android"
	case strings.Contains(u, "linux"):
		return "linux"
	default:
		return "unknown"
	}
}

func DetectBrowser(ua string) string {
	u := strings.ToLower(ua)
	switch {
	case strings.Contains(u, "edg/"):
		return "edge"
	case strings.Contains(u, "chrome/"):
		return "chrome"
	case strings.Contains(u, "safari/"):
		return "safari"
	case strings.Contains(u, "firefox/"):
		return "firefox"
	default:
		return "unknown"
	}
}

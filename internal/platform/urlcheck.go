package platform

import (
	"net/url"
	"strings"
)

// Hosts whose short-video URLs the app accepts
var supportedHosts = map[string]bool{
	"instagram.com":     true,
	"www.instagram.com": true,
	"youtube.com":       true,
	"www.youtube.com":   true,
	"youtu.be":          true,
	"tiktok.com":        true,
	"www.tiktok.com":    true,
	"vm.tiktok.com":     true,
}

// Path markers that identify a single short-video page on the supported hosts
var videoPathMarkers = []string{"/reel/", "/reels/", "/p/", "/tv/", "/shorts/", "/video/", "/watch"}

// IsSupportedVideoURL reports whether the URL points at a single short
// video on one of the supported platforms
func IsSupportedVideoURL(raw string) bool {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return false
	}
	if !supportedHosts[strings.ToLower(parsed.Host)] {
		return false
	}

	// youtu.be short links carry the video ID as the whole path
	if strings.EqualFold(parsed.Host, "youtu.be") {
		return len(strings.Trim(parsed.Path, "/")) > 0
	}

	path := parsed.Path
	if !strings.HasSuffix(path, "/") {
		path += "/"
	}
	for _, marker := range videoPathMarkers {
		if strings.Contains(path, marker) {
			return true
		}
	}
	return false
}

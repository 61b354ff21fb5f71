package media

import (
	"net/url"
	"regexp"
	"strings"
)

var videoID = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// YouTubeID extracts the 11-character video id from the URL shapes the
// dashboard accepts (watch?v=, youtu.be/, embed/, v/, shorts/) or a bare id.
func YouTubeID(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	if videoID.MatchString(raw) {
		return raw, true
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	host = strings.TrimPrefix(host, "m.")

	var candidate string
	switch host {
	case "youtu.be":
		candidate = firstSegment(u.Path)
	case "youtube.com", "music.youtube.com", "youtube-nocookie.com":
		if v := u.Query().Get("v"); v != "" {
			candidate = v
			break
		}
		parts := strings.Split(strings.Trim(u.Path, "/"), "/")
		if len(parts) >= 2 {
			switch parts[0] {
			case "embed", "v", "shorts", "live":
				candidate = parts[1]
			}
		}
	default:
		return "", false
	}
	if !videoID.MatchString(candidate) {
		return "", false
	}
	return candidate, true
}

func firstSegment(p string) string {
	p = strings.Trim(p, "/")
	if i := strings.IndexByte(p, '/'); i >= 0 {
		return p[:i]
	}
	return p
}

// WatchURL is the canonical link stored next to an extracted id.
func WatchURL(id string) string { return "https://www.youtube.com/watch?v=" + id }

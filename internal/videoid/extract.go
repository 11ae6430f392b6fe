// Package videoid pulls a video identifier out of a watch-page or short-link URL.
package videoid

import (
	"errors"
	"net/url"
	"strings"

	"video-chat-agent/internal/domain"
)

// ShortLinkHost is the host whose first path segment is the identifier.
const ShortLinkHost = "youtu.be"

// ErrNoVideoID reports a URL that carries no video identifier.
var ErrNoVideoID = errors.New("videoid: no video id in url")

// Extract returns the identifier carried by rawURL. On the short-link host it
// is the first path segment; everywhere else it is the "v" query parameter.
// ok is false when the URL cannot be parsed or yields an empty token.
func Extract(rawURL string) (domain.VideoID, bool) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u.Host == "" {
		return "", false
	}

	var token string
	if strings.EqualFold(u.Hostname(), ShortLinkHost) {
		token, _, _ = strings.Cut(strings.TrimPrefix(u.Path, "/"), "/")
	} else {
		token = u.Query().Get("v")
	}
	if token == "" {
		return "", false
	}
	return domain.VideoID(token), true
}

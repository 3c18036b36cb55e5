package feed

import (
	"strings"

	sderrors "git.home.luguber.info/inful/substack-dl/internal/foundation/errors"
)

// DefaultPath is the feed endpoint appended to a publication host.
const DefaultPath = "/feed"

const schemeSeparator = "://"

// Resolve turns a bare domain or a full URL into the publication's feed URL.
//
// A leading scheme (text before "://" containing no "/") is dropped, the
// remainder is prefixed with https:// and suffixed with feedPath. No network
// access.
func Resolve(input, feedPath string) (string, error) {
	remainder := strings.TrimSpace(input)
	if remainder == "" {
		return "", sderrors.InvalidInputError("source must not be empty").Build()
	}
	remainder = stripScheme(remainder)
	remainder = strings.TrimRight(remainder, "/")
	if remainder == "" || stripScheme(remainder) != remainder {
		return "", sderrors.InvalidInputError("source has no host").
			WithContext("source", input).
			Build()
	}
	return "https://" + remainder + normalizePath(feedPath), nil
}

// stripScheme drops a leading "scheme://". A "://" after the first "/" belongs
// to the path or query and is kept.
func stripScheme(s string) string {
	i := strings.Index(s, schemeSeparator)
	if i < 0 || strings.Contains(s[:i], "/") {
		return s
	}
	return s[i+len(schemeSeparator):]
}

func normalizePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return DefaultPath
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}

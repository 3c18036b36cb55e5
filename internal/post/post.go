// Package post turns raw feed entries into Posts ready to be written.
package post

import (
	"net/url"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	sderrors "git.home.luguber.info/inful/substack-dl/internal/foundation/errors"
)

// filenameDateLayout renders MM-DD-YYYY.
const filenameDateLayout = "01-02-2006"

// Post is one converted feed entry. It is not modified after Build returns.
type Post struct {
	Slug        string
	Title       string
	Link        string
	Body        string
	PublishedAt time.Time
}

// Filename returns the output file name, MM-DD-YYYY-{slug}.md. The date is
// taken in the offset the entry was published with.
func (p Post) Filename() string {
	return p.PublishedAt.Format(filenameDateLayout) + "-" + p.Slug + ".md"
}

// SlugFromLink returns the last non-empty path segment of link in Unicode
// NFC form. Query strings and fragments are ignored.
func SlugFromLink(link string) (string, error) {
	trimmed := strings.TrimSpace(link)
	if u, err := url.Parse(trimmed); err == nil && u.Path != "" {
		trimmed = u.Path
	} else if i := strings.IndexAny(trimmed, "?#"); i >= 0 {
		trimmed = trimmed[:i]
	}

	var slug string
	for _, seg := range strings.Split(trimmed, "/") {
		if seg != "" {
			slug = norm.NFC.String(seg)
		}
	}

	switch {
	case slug == "":
		return "", sderrors.MalformedLinkError("entry link has no path segment").
			WithContext("link", link).
			Build()
	case slug == "." || slug == ".." || strings.ContainsAny(slug, `\:`):
		return "", sderrors.MalformedLinkError("entry link does not end in a usable slug").
			WithContext("link", link).
			WithContext("slug", slug).
			Build()
	}
	return slug, nil
}

// dateLayouts are tried in order. Go checks the weekday name for syntax only.
var dateLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04:05 MST",
	"Mon, 02 Jan 2006 15:04 -0700",
	"Mon, 02 Jan 2006 15:04 MST",
	"02 Jan 2006 15:04:05 -0700",
	"02 Jan 2006 15:04:05 MST",
	"2 Jan 2006 15:04:05 -0700",
	"2 Jan 2006 15:04:05 MST",
	time.RFC822Z,
	time.RFC822,
	time.RFC3339,
}

// rfc2822Zones maps the zone names RFC 2822 allows to their offsets in hours.
// Other names are obsolete and read as +0000.
var rfc2822Zones = map[string]int{
	"UT": 0, "UTC": 0, "GMT": 0, "Z": 0,
	"EST": -5, "EDT": -4,
	"CST": -6, "CDT": -5,
	"MST": -7, "MDT": -6,
	"PST": -8, "PDT": -7,
}

// fixZone rebuilds t in a fixed zone so the result does not depend on the
// host's time zone database. time.Parse resolves zone abbreviations through
// the local zone and falls back to offset 0 for names it does not know.
func fixZone(t time.Time, layout string) time.Time {
	name, offset := t.Zone()
	if strings.Contains(layout, "MST") {
		offset = rfc2822Zones[strings.ToUpper(name)] * 3600
	} else {
		name = ""
	}
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(),
		time.FixedZone(name, offset))
}

// ParseDate parses an RFC 2822 style publication date, keeping its offset.
func ParseDate(raw string) (time.Time, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, sderrors.InvalidDateError("entry has no publication date").Build()
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return fixZone(t, layout), nil
		}
	}
	return time.Time{}, sderrors.InvalidDateError("unrecognized publication date").
		WithContext("date", raw).
		Build()
}

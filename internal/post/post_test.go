package post

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	sderrors "git.home.luguber.info/inful/substack-dl/internal/foundation/errors"
)

func TestSlugFromLink(t *testing.T) {
	tests := []struct {
		link string
		want string
	}{
		{"https://example.substack.com/p/my-first-post", "my-first-post"},
		{"https://x.example/a/b/slug-text", "slug-text"},
		{"a/b/slug-text", "slug-text"},
		{"https://example.substack.com/p/my-first-post/", "my-first-post"},
		{"https://example.substack.com/p/post?utm_source=rss#footnote-1", "post"},
		{"  https://example.substack.com/p/spaced  ", "spaced"},
		{"https://example.substack.com/p/cafe\u0301", "caf\u00e9"},
	}
	for _, tt := range tests {
		t.Run(tt.link, func(t *testing.T) {
			got, err := SlugFromLink(tt.link)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
			require.NotContains(t, got, "/")
		})
	}
}

func TestSlugFromLink_Malformed(t *testing.T) {
	for _, link := range []string{"", "   ", "/", "///", "https://", "https://example.com/p/..", `https://example.com/p/a\b`} {
		_, err := SlugFromLink(link)
		require.Error(t, err, "link %q", link)
		require.True(t, sderrors.HasCategory(err, sderrors.CategoryMalformedLink), "link %q: %v", link, err)
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Time
	}{
		{"Mon, 02 Mar 2024 10:00:00 GMT", time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC)},
		{"Sat, 02 Mar 2024 10:00:00 +0000", time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC)},
		{"Sat, 2 Mar 2024 10:00:00 +0100", time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC)},
		{"02 Mar 2024 10:00:00 -0500", time.Date(2024, 3, 2, 15, 0, 0, 0, time.UTC)},
		{"02 Mar 24 10:00 +0000", time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC)},
		{"2024-03-02T10:00:00Z", time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseDate(tt.raw)
			require.NoError(t, err)
			require.True(t, tt.want.Equal(got), "got %s", got)
		})
	}
}

func TestParseDate_KeepsOffset(t *testing.T) {
	got, err := ParseDate("Sat, 02 Mar 2024 23:30:00 -0800")
	require.NoError(t, err)
	_, offset := got.Zone()
	require.Equal(t, -8*3600, offset)
	require.Equal(t, "03-02-2024", got.Format(filenameDateLayout), "local publication date, not UTC")
}

func TestParseDate_ZoneAbbreviations(t *testing.T) {
	tests := []struct {
		raw    string
		offset int
	}{
		{"Sat, 02 Mar 2024 23:00:00 EST", -5 * 3600},
		{"Sat, 02 Mar 2024 23:00:00 EDT", -4 * 3600},
		{"Sat, 02 Mar 2024 23:00:00 CST", -6 * 3600},
		{"Sat, 02 Mar 2024 23:00:00 MDT", -6 * 3600},
		{"Sat, 02 Mar 2024 23:00:00 PST", -8 * 3600},
		{"Sat, 02 Mar 2024 23:00:00 PDT", -7 * 3600},
		{"Sat, 02 Mar 2024 23:00:00 GMT", 0},
		{"Sat, 02 Mar 2024 23:00:00 UTC", 0},
		{"Sat, 02 Mar 2024 23:00:00 XYZ", 0},
		{"02 Mar 24 23:00 PST", -8 * 3600},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := ParseDate(tt.raw)
			require.NoError(t, err)
			_, offset := got.Zone()
			require.Equal(t, tt.offset, offset)
			require.Equal(t, 23, got.Hour(), "wall clock kept")
			require.Equal(t, "03-02-2024", got.Format(filenameDateLayout))
		})
	}
}

func TestParseDate_IndependentOfLocalZone(t *testing.T) {
	newYork, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("time zone database unavailable")
	}
	saved := time.Local
	t.Cleanup(func() { time.Local = saved })

	time.Local = time.UTC
	inUTC, err := ParseDate("Sat, 02 Mar 2024 23:00:00 EST")
	require.NoError(t, err)

	time.Local = newYork
	inNewYork, err := ParseDate("Sat, 02 Mar 2024 23:00:00 EST")
	require.NoError(t, err)

	require.True(t, inUTC.Equal(inNewYork))
	require.Equal(t, "2024-03-02T23:00:00-05:00", inUTC.Format(time.RFC3339))
	require.Equal(t, inUTC.Format(time.RFC3339), inNewYork.Format(time.RFC3339))
}

func TestParseDate_Invalid(t *testing.T) {
	for _, raw := range []string{"", "yesterday", "2024/03/02", "Mon, 32 Mar 2024 10:00:00 GMT"} {
		_, err := ParseDate(raw)
		require.Error(t, err, raw)
		require.True(t, sderrors.HasCategory(err, sderrors.CategoryInvalidDate), raw)
	}
}

func TestPost_Filename(t *testing.T) {
	p := Post{Slug: "my-post", PublishedAt: time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)}
	require.Equal(t, "03-02-2024-my-post.md", p.Filename())
}

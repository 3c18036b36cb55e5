package frontmatter

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// readDocument splits a rendered document back into its fields and body.
func readDocument(t *testing.T, doc string) (map[string]any, string) {
	t.Helper()
	rest, ok := strings.CutPrefix(doc, delimiter)
	require.True(t, ok, "document starts with a delimiter")
	fm, body, ok := strings.Cut(rest, delimiter)
	require.True(t, ok, "document has a closing delimiter")

	fields := map[string]any{}
	require.NoError(t, yaml.Unmarshal([]byte(fm), &fields))
	return fields, body
}

func TestJoin(t *testing.T) {
	require.Equal(t, "---\nkey: value\n---\n# Title\n", string(Join([]byte("key: value\n"), []byte("# Title\n"))))
	require.Equal(t, "---\n---\n# Title\n", string(Join(nil, []byte("# Title\n"))))
}

func TestSerializeYAML_SortedKeys(t *testing.T) {
	out, err := SerializeYAML(map[string]any{"b": "two", "a": "one", "c": 3})
	require.NoError(t, err)
	require.Equal(t, "a: one\nb: two\nc: 3\n", string(out))
}

func TestSerializeYAML_Empty(t *testing.T) {
	out, err := SerializeYAML(nil)
	require.NoError(t, err)
	require.Empty(t, out)
}

func TestSerializeYAML_QuotesAmbiguousStrings(t *testing.T) {
	out, err := SerializeYAML(map[string]any{"title": "true", "n": "42"})
	require.NoError(t, err)

	fields, _ := readDocument(t, string(Join(out, nil)))
	require.Equal(t, "true", fields["title"])
	require.Equal(t, "42", fields["n"])
}

func TestSerializeYAML_UnsupportedType(t *testing.T) {
	_, err := SerializeYAML(map[string]any{"x": struct{}{}})
	require.Error(t, err)
}

func TestFingerprint_IgnoresUIDAndFingerprint(t *testing.T) {
	base := map[string]any{"title": "Hello"}
	fp1, err := Fingerprint(base, "body")
	require.NoError(t, err)
	require.NotEmpty(t, fp1)

	fp2, err := Fingerprint(map[string]any{"title": "Hello", "uid": "abc", FieldFingerprint: "old"}, "body")
	require.NoError(t, err)
	require.Equal(t, fp1, fp2)

	fp3, err := Fingerprint(base, "other body")
	require.NoError(t, err)
	require.NotEqual(t, fp1, fp3)
}

func TestRender(t *testing.T) {
	date := time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC)
	fields := map[string]any{"title": "My First Post", "date": date, "uid": "u-1"}

	doc, err := Render(fields, "# Title\n\nHello")
	require.NoError(t, err)
	require.NotContains(t, fields, FieldFingerprint, "input map is not modified")

	parsed, body := readDocument(t, doc)
	require.Equal(t, "# Title\n\nHello", body)
	require.Equal(t, "My First Post", parsed["title"])
	require.Equal(t, "2024-03-02T10:00:00Z", parsed["date"])
	require.Equal(t, "u-1", parsed["uid"])

	want, err := Fingerprint(fields, "# Title\n\nHello")
	require.NoError(t, err)
	require.Equal(t, want, parsed[FieldFingerprint])
}

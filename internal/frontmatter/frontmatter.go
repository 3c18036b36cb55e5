// Package frontmatter writes YAML front matter blocks delimited by "---"
// lines.
package frontmatter

const delimiter = "---\n"

// Join prefixes body with fm wrapped in delimiters. An empty fm still yields
// an (empty) block.
func Join(fm []byte, body []byte) []byte {
	out := make([]byte, 0, 2*len(delimiter)+len(fm)+len(body))
	out = append(out, delimiter...)
	out = append(out, fm...)
	out = append(out, delimiter...)
	out = append(out, body...)
	return out
}

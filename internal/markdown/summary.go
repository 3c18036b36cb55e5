// Package markdown inspects converted post bodies with goldmark.
package markdown

import (
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Summary returns the plain text of the first non-empty paragraph of body,
// cut to at most maxRunes runes. maxRunes <= 0 means no limit.
func Summary(body []byte, maxRunes int) string {
	root := goldmark.New().Parser().Parse(text.NewReader(body))

	var summary string
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		para, ok := n.(*gmast.Paragraph)
		if !ok {
			return gmast.WalkContinue, nil
		}
		if s := plainText(para, body); s != "" {
			summary = s
			return gmast.WalkStop, nil
		}
		return gmast.WalkSkipChildren, nil
	})

	return truncate(summary, maxRunes)
}

func plainText(n gmast.Node, source []byte) string {
	var b strings.Builder
	_ = gmast.Walk(n, func(c gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch node := c.(type) {
		case *gmast.Image:
			return gmast.WalkSkipChildren, nil
		case *gmast.Text:
			b.Write(node.Segment.Value(source))
			if node.SoftLineBreak() || node.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *gmast.CodeSpan:
			for cc := node.FirstChild(); cc != nil; cc = cc.NextSibling() {
				if t, ok := cc.(*gmast.Text); ok {
					b.Write(t.Segment.Value(source))
				}
			}
			return gmast.WalkSkipChildren, nil
		}
		return gmast.WalkContinue, nil
	})
	return strings.Join(strings.Fields(b.String()), " ")
}

func truncate(s string, maxRunes int) string {
	if maxRunes <= 0 || utf8.RuneCountInString(s) <= maxRunes {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:maxRunes]))
}

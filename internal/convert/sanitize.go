package convert

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
)

// droppedElements never carry post content.
var droppedElements = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"form":     true,
	"button":   true,
	"iframe":   true,
	"input":    true,
	"svg":      true,
}

// droppedClassPrefixes match Substack call-to-action widgets embedded in posts.
var droppedClassPrefixes = []string{
	"subscription-widget",
	"subscribe-widget",
	"button-wrapper",
	"captioned-button-wrap",
	"share-dialog",
	"post-ufi",
}

// Sanitize removes scripts, embeds and subscription widgets from an HTML
// fragment and returns the remaining markup.
func Sanitize(fragment string) (string, error) {
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return "", err
	}

	prune(doc)

	body := findBody(doc)
	if body == nil {
		body = doc
	}

	var buf bytes.Buffer
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

func prune(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		switch {
		case c.Type == html.CommentNode:
			n.RemoveChild(c)
		case c.Type == html.ElementNode && (droppedElements[c.Data] || hasDroppedClass(c)):
			n.RemoveChild(c)
		default:
			prune(c)
		}
		c = next
	}
}

func hasDroppedClass(n *html.Node) bool {
	for _, class := range strings.Fields(getAttr(n, "class")) {
		for _, prefix := range droppedClassPrefixes {
			if strings.HasPrefix(class, prefix) {
				return true
			}
		}
	}
	return false
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}

func getAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

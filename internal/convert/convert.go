// Package convert turns post HTML into Markdown.
package convert

import (
	"strings"

	htm "github.com/JohannesKaufmann/html-to-markdown/v2"

	sderrors "git.home.luguber.info/inful/substack-dl/internal/foundation/errors"
)

// Converter converts one HTML fragment to Markdown.
type Converter interface {
	Convert(html string) (string, error)
}

// ConverterFunc adapts a plain function to Converter.
type ConverterFunc func(html string) (string, error)

// Convert calls f(html).
func (f ConverterFunc) Convert(html string) (string, error) { return f(html) }

// MarkdownConverter sanitizes the HTML tree and renders it with html-to-markdown.
type MarkdownConverter struct {
	sanitize bool
}

// NewMarkdownConverter returns the default converter.
func NewMarkdownConverter() *MarkdownConverter {
	return &MarkdownConverter{sanitize: true}
}

// WithoutSanitizer disables the pre-conversion cleanup pass.
func (c *MarkdownConverter) WithoutSanitizer() *MarkdownConverter {
	c.sanitize = false
	return c
}

// Convert implements Converter.
func (c *MarkdownConverter) Convert(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", nil
	}

	input := html
	if c.sanitize {
		cleaned, err := Sanitize(html)
		if err != nil {
			return "", sderrors.ConvertFailedError("failed to parse post HTML").WithCause(err).Build()
		}
		input = cleaned
	}

	md, err := htm.ConvertString(input)
	if err != nil {
		return "", sderrors.ConvertFailedError("failed to convert HTML to Markdown").WithCause(err).Build()
	}
	return strings.TrimSpace(md), nil
}

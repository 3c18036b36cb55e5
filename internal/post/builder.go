package post

import (
	"fmt"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/substack-dl/internal/convert"
	"git.home.luguber.info/inful/substack-dl/internal/feed"
	sderrors "git.home.luguber.info/inful/substack-dl/internal/foundation/errors"
	"git.home.luguber.info/inful/substack-dl/internal/frontmatter"
	"git.home.luguber.info/inful/substack-dl/internal/markdown"
)

// DescriptionMaxRunes bounds the front matter description.
const DescriptionMaxRunes = 160

// Policy selects how BuildAll treats entries that fail to build.
type Policy int

const (
	// SkipInvalid records a Rejection and continues.
	SkipInvalid Policy = iota
	// FailFast returns the first entry error.
	FailFast
)

// Rejection describes one entry BuildAll skipped.
type Rejection struct {
	Index int
	Link  string
	Title string
	Err   error
}

// Kind returns the error category of the rejection.
func (r Rejection) Kind() string {
	return string(sderrors.GetCategory(r.Err))
}

// Builder converts raw entries into Posts.
type Builder struct {
	converter   convert.Converter
	frontMatter bool
}

// Option configures a Builder.
type Option func(*Builder)

// WithFrontMatter prefixes every body with a YAML front matter block.
func WithFrontMatter(enabled bool) Option {
	return func(b *Builder) { b.frontMatter = enabled }
}

// NewBuilder returns a Builder using c, or the default Markdown converter when c is nil.
func NewBuilder(c convert.Converter, opts ...Option) *Builder {
	if c == nil {
		c = convert.NewMarkdownConverter()
	}
	b := &Builder{converter: c}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build turns one entry into a Post. It performs no I/O.
func (b *Builder) Build(entry feed.RawEntry) (Post, error) {
	slug, err := SlugFromLink(entry.Link)
	if err != nil {
		return Post{}, err
	}

	published, err := ParseDate(entry.PubDate)
	if err != nil {
		return Post{}, withEntry(err, entry)
	}

	body, err := b.converter.Convert(entry.Content)
	if err != nil {
		if !sderrors.IsClassified(err) {
			err = sderrors.ConvertFailedError("failed to convert entry content").WithCause(err).Build()
		}
		return Post{}, withEntry(err, entry)
	}

	p := Post{
		Slug:        slug,
		Title:       entry.Title,
		Link:        entry.Link,
		Body:        body,
		PublishedAt: published,
	}

	if b.frontMatter {
		p.Body, err = renderFrontMatter(p)
		if err != nil {
			return Post{}, sderrors.InternalError("failed to render front matter").WithCause(err).
				WithContext("slug", slug).
				Build()
		}
	}
	return p, nil
}

// BuildAll builds entries in order. With SkipInvalid every failing entry is
// returned as a Rejection; with FailFast the first failure is returned as an
// error together with the posts built so far.
func (b *Builder) BuildAll(entries []feed.RawEntry, policy Policy) ([]Post, []Rejection, error) {
	posts := make([]Post, 0, len(entries))
	var rejected []Rejection
	for i, entry := range entries {
		p, err := b.Build(entry)
		if err != nil {
			if policy == FailFast {
				return posts, rejected, withIndex(err, i)
			}
			rejected = append(rejected, Rejection{Index: i, Link: entry.Link, Title: entry.Title, Err: err})
			continue
		}
		posts = append(posts, p)
	}
	return posts, rejected, nil
}

func renderFrontMatter(p Post) (string, error) {
	fields := map[string]any{
		"title":              p.Title,
		"date":               p.PublishedAt,
		"slug":               p.Slug,
		"source":             p.Link,
		frontmatter.FieldUID: uuid.NewSHA1(uuid.NameSpaceURL, []byte(p.Link)).String(),
	}
	if desc := markdown.Summary([]byte(p.Body), DescriptionMaxRunes); desc != "" {
		fields["description"] = desc
	}
	return frontmatter.Render(fields, p.Body)
}

func withEntry(err error, entry feed.RawEntry) error {
	if ce, ok := sderrors.AsClassified(err); ok {
		return ce.WithContext("link", entry.Link)
	}
	return err
}

func withIndex(err error, i int) error {
	if ce, ok := sderrors.AsClassified(err); ok {
		return ce.WithContext("entry", i)
	}
	return fmt.Errorf("entry %d: %w", i, err)
}

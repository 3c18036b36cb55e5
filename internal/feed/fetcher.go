package feed

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/net/html/charset"

	sderrors "git.home.luguber.info/inful/substack-dl/internal/foundation/errors"
)

// Fetcher retrieves the entries of a feed.
type Fetcher interface {
	Fetch(ctx context.Context, feedURL string) ([]RawEntry, error)
}

// HTTPFetcher fetches feeds with a single GET request. It never retries.
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
}

// NewHTTPFetcher returns a fetcher with the given client timeout (0 disables it).
func NewHTTPFetcher(timeout time.Duration, userAgent string) *HTTPFetcher {
	return &HTTPFetcher{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

// WithClient replaces the HTTP client (for testing).
func (f *HTTPFetcher) WithClient(c *http.Client) *HTTPFetcher {
	f.client = c
	return f
}

// Fetch downloads feedURL and returns its items in document order.
func (f *HTTPFetcher) Fetch(ctx context.Context, feedURL string) ([]RawEntry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, sderrors.InvalidInputError("invalid feed URL").WithCause(err).
			WithContext("url", feedURL).
			Build()
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}
	req.Header.Set("Accept", "application/rss+xml, application/xml;q=0.9, text/xml;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, sderrors.CanceledError("feed request canceled").WithCause(ctx.Err()).Build()
		}
		return nil, sderrors.NetworkError("feed request failed").WithCause(err).
			WithContext("url", feedURL).
			Build()
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, sderrors.NetworkError(fmt.Sprintf("feed request returned %s", resp.Status)).
			WithContext("url", feedURL).
			WithContext("status", resp.StatusCode).
			Build()
	}

	entries, err := Parse(resp.Body)
	if err != nil {
		if ctx.Err() != nil {
			return nil, sderrors.CanceledError("feed download canceled").WithCause(ctx.Err()).Build()
		}
		if classified, ok := sderrors.AsClassified(err); ok {
			return nil, classified.WithContext("url", feedURL)
		}
		return nil, err
	}
	return entries, nil
}

// Parse decodes an RSS 2.0 document. Documents declaring a non-UTF-8
// encoding are transcoded.
func Parse(r io.Reader) ([]RawEntry, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel

	var doc rssDocument
	if err := dec.Decode(&doc); err != nil {
		return nil, sderrors.FeedParseError("feed is not a well-formed RSS document").WithCause(err).Build()
	}
	if doc.Channel == nil {
		return nil, sderrors.FeedParseError("feed has no channel element").Build()
	}

	entries := make([]RawEntry, 0, len(doc.Channel.Items))
	for _, it := range doc.Channel.Items {
		entries = append(entries, it.entry())
	}
	return entries, nil
}

// Package feed resolves publication feed URLs and fetches RSS 2.0 documents
// into raw entries.
package feed

import "encoding/xml"

// RawEntry is one <item> of a feed, before any transformation.
type RawEntry struct {
	Title       string
	Link        string
	PubDate     string
	Content     string // content:encoded, or description when absent
	Description string
	GUID        string
}

type rssDocument struct {
	XMLName xml.Name    `xml:"rss"`
	Channel *rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title string    `xml:"title"`
	Link  string    `xml:"link"`
	Items []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	Encoded     string `xml:"http://purl.org/rss/1.0/modules/content/ encoded"`
	PubDate     string `xml:"pubDate"`
	GUID        string `xml:"guid"`
}

func (it rssItem) entry() RawEntry {
	content := it.Encoded
	if content == "" {
		content = it.Description
	}
	return RawEntry{
		Title:       it.Title,
		Link:        it.Link,
		PubDate:     it.PubDate,
		Content:     content,
		Description: it.Description,
		GUID:        it.GUID,
	}
}

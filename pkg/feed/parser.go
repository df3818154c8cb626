package feed

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/mmcdole/gofeed"

	"github.com/allegro/techsite/pkg/domain"
	"github.com/allegro/techsite/pkg/remote"
)

// Fetcher downloads raw feed documents
type Fetcher interface {
	Get(ctx context.Context, url string, opts ...remote.RequestOption) ([]byte, error)
}

// Parser parses RSS/Atom feeds
type Parser struct {
	fetcher Fetcher
}

// NewParser creates a new feed parser
func NewParser(fetcher Fetcher) *Parser {
	return &Parser{fetcher: fetcher}
}

// Parse fetches and parses a feed from the given URL
func (p *Parser) Parse(ctx context.Context, url string) (*domain.ParsedFeed, error) {
	body, err := p.fetcher.Get(ctx, url, remote.WithAccept("application/rss+xml,application/atom+xml,application/xml;q=0.9,text/xml;q=0.8"))
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}

	feed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	result := &domain.ParsedFeed{
		Title:       feed.Title,
		Description: feed.Description,
		Link:        feed.Link,
		Items:       make([]domain.ParsedItem, 0, len(feed.Items)),
	}
	for _, item := range feed.Items {
		result.Items = append(result.Items, convertItem(feed.Title, item))
	}
	return result, nil
}

func convertItem(feedTitle string, item *gofeed.Item) domain.ParsedItem {
	parsed := domain.ParsedItem{
		Title:       strings.TrimSpace(item.Title),
		Link:        strings.TrimSpace(item.Link),
		Description: item.Description,
		Content:     item.Content,
		Categories:  item.Categories,
	}

	// set GUID
	switch {
	case item.GUID != "":
		parsed.GUID = item.GUID
	case parsed.Link != "":
		parsed.GUID = parsed.Link
	default:
		parsed.GUID = fmt.Sprintf("%s-%s", feedTitle, parsed.Title)
	}

	// authors, dc:creator may list co-authors missing from the author element
	seen := map[string]bool{}
	addAuthor := func(name string) {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		parsed.Authors = append(parsed.Authors, name)
	}
	for _, a := range item.Authors {
		if a != nil {
			addAuthor(a.Name)
		}
	}
	if item.DublinCoreExt != nil {
		for _, c := range item.DublinCoreExt.Creator {
			addAuthor(c)
		}
	}

	if item.ITunesExt != nil {
		parsed.Summary = item.ITunesExt.Summary
	}

	// set published time
	if item.PublishedParsed != nil {
		parsed.Published = *item.PublishedParsed
	} else if item.UpdatedParsed != nil {
		parsed.Published = *item.UpdatedParsed
	}
	return parsed
}

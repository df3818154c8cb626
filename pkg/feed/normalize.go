package feed

import (
	"strings"

	"github.com/allegro/techsite/pkg/content"
	"github.com/allegro/techsite/pkg/domain"
)

// slugPlaceholder is replaced by the author slug in link templates
const slugPlaceholder = "{slug}"

// Normalizer converts parsed feed items into presentational records
type Normalizer struct {
	ExcerptWords int
	ProfileURL   string // template with {slug}, empty disables profile links
	PhotoURL     string // template with {slug}, empty disables photos
}

// Normalize makes a FeedItem from a parsed item. Missing excerpt becomes "",
// missing authors and categories become empty slices.
func (n Normalizer) Normalize(item domain.ParsedItem) domain.FeedItem {
	res := domain.FeedItem{
		GUID:        item.GUID,
		Title:       item.Title,
		Link:        item.Link,
		PublishedAt: item.Published,
		Excerpt:     content.Excerpt(n.excerptText(item), n.ExcerptWords),
		Categories:  uniqueCategories(item.Categories),
		Authors:     make([]domain.Author, 0, len(item.Authors)),
	}
	if res.GUID == "" {
		res.GUID = res.Link
	}
	for _, name := range item.Authors {
		res.Authors = append(res.Authors, n.author(name))
	}
	return res
}

// NormalizeAll normalizes up to limit items, limit <= 0 means all
func (n Normalizer) NormalizeAll(items []domain.ParsedItem, limit int) []domain.FeedItem {
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	res := make([]domain.FeedItem, 0, len(items))
	for _, item := range items {
		res = append(res, n.Normalize(item))
	}
	return res
}

// Excerpt converts HTML or plain text to an excerpt of ExcerptWords words
func (n Normalizer) Excerpt(html string) string {
	return content.Excerpt(content.PlainText(html), n.ExcerptWords)
}

// excerptText picks the first non-empty text of description, content and podcast summary
func (n Normalizer) excerptText(item domain.ParsedItem) string {
	for _, src := range []string{item.Description, item.Content, item.Summary} {
		if text := content.PlainText(src); text != "" {
			return text
		}
	}
	return ""
}

func (n Normalizer) author(name string) domain.Author {
	res := domain.Author{Name: name}
	slug := content.Slugify(name)
	if slug == "" {
		return res
	}
	if n.ProfileURL != "" {
		res.ProfileURL = strings.ReplaceAll(n.ProfileURL, slugPlaceholder, slug)
	}
	if n.PhotoURL != "" {
		res.PhotoURL = strings.ReplaceAll(n.PhotoURL, slugPlaceholder, slug)
	}
	return res
}

// uniqueCategories trims and de-duplicates categories keeping first-seen order
func uniqueCategories(categories []string) []string {
	res := make([]string, 0, len(categories))
	seen := make(map[string]bool, len(categories))
	for _, c := range categories {
		c = strings.TrimSpace(c)
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		res = append(res, c)
	}
	return res
}

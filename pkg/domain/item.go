package domain

import "time"

// ParsedFeed represents a fetched RSS/Atom feed before normalization
type ParsedFeed struct {
	Title       string
	Description string
	Link        string
	Items       []ParsedItem
}

// ParsedItem represents a raw feed entry as returned by the feed parser
type ParsedItem struct {
	GUID        string
	Title       string
	Link        string
	Description string
	Content     string
	Summary     string // itunes:summary for podcast episodes
	Authors     []string
	Categories  []string
	Published   time.Time
}

// FeedItem is a normalized blog post or podcast episode ready for rendering
type FeedItem struct {
	GUID        string    `json:"guid"`
	Title       string    `json:"title"`
	Link        string    `json:"link"`
	PublishedAt time.Time `json:"published_at"`
	Excerpt     string    `json:"excerpt"`
	Categories  []string  `json:"categories"`
	Authors     []Author  `json:"authors"`
}

// Author of a feed item
type Author struct {
	Name       string `json:"name"`
	PhotoURL   string `json:"photo_url"`
	ProfileURL string `json:"profile_url"`
}

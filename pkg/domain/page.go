package domain

import "time"

// Page is the aggregated landing page snapshot
type Page struct {
	GeneratedAt time.Time    `json:"generated_at"`
	Posts       []FeedItem   `json:"posts"`
	Podcasts    []FeedItem   `json:"podcasts"`
	Jobs        []JobPosting `json:"jobs"`
	Events      []Event      `json:"events"`
	Buckets     []Bucket     `json:"buckets"`
}

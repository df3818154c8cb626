package domain

import "time"

// JobPosting is a single open position with its de-duplicated cities
type JobPosting struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	City             string    `json:"city"`
	AdditionalCities []string  `json:"additional_cities"`
	URL              string    `json:"url"`
	ReleasedAt       time.Time `json:"released_at"`
}

// JobListing is the result of a job board refresh
type JobListing struct {
	Total int          `json:"total"`
	Jobs  []JobPosting `json:"jobs"`
}

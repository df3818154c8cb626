// Package jobs fetches open positions from the job board and de-duplicates their cities
package jobs

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/allegro/techsite/pkg/config"
	"github.com/allegro/techsite/pkg/content"
	"github.com/allegro/techsite/pkg/domain"
	"github.com/allegro/techsite/pkg/remote"
)

// JSONFetcher downloads and decodes JSON documents
type JSONFetcher interface {
	GetJSON(ctx context.Context, url string, v any, opts ...remote.RequestOption) error
}

// Service builds the job listing
type Service struct {
	fetcher  JSONFetcher
	source   config.JobsSource
	squasher *Squasher
}

// postings is the job board response
type postings struct {
	TotalFound int       `json:"totalFound"`
	Content    []posting `json:"content"`
}

type posting struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Location struct {
		City string `json:"city"`
	} `json:"location"`
	CustomField []struct {
		FieldLabel string `json:"fieldLabel"`
		ValueLabel string `json:"valueLabel"`
	} `json:"customField"`
	ReleasedDate time.Time `json:"releasedDate"`
}

// NewService makes a jobs service for the given source and city table
func NewService(fetcher JSONFetcher, source config.JobsSource, cities []config.City) *Service {
	return &Service{fetcher: fetcher, source: source, squasher: NewSquasher(cities)}
}

// Fetch gets postings and converts them to a JobListing
func (s *Service) Fetch(ctx context.Context) (domain.JobListing, error) {
	var resp postings
	if err := s.fetcher.GetJSON(ctx, s.source.URL, &resp); err != nil {
		return domain.JobListing{}, fmt.Errorf("fetch job postings: %w", err)
	}

	res := domain.JobListing{Total: resp.TotalFound, Jobs: make([]domain.JobPosting, 0, len(resp.Content))}
	for _, p := range resp.Content {
		if p.ID == "" || strings.TrimSpace(p.Name) == "" {
			lgr.Printf("[DEBUG] skip posting without id or name: %q", p.ID)
			continue
		}
		res.Jobs = append(res.Jobs, s.convert(p))
	}
	lgr.Printf("[DEBUG] fetched %d job postings, total %d", len(res.Jobs), res.Total)
	return res, nil
}

func (s *Service) convert(p posting) domain.JobPosting {
	// primary city first, then cities flagged with the "yes" value
	cities := []string{p.Location.City}
	for _, f := range p.CustomField {
		if s.squasher.Known(f.FieldLabel) && f.ValueLabel == s.source.FlagValue {
			cities = append(cities, f.FieldLabel)
		}
	}
	squashed := s.squasher.Squash(cities)

	res := domain.JobPosting{
		ID:               p.ID,
		Name:             strings.TrimSpace(p.Name),
		AdditionalCities: []string{},
		URL:              s.link(p.ID, p.Name),
		ReleasedAt:       p.ReleasedDate,
	}
	if len(squashed) > 0 {
		res.City = squashed[0]
		res.AdditionalCities = squashed[1:]
	}
	return res
}

// link makes the public posting link, <base>/<id>-<slug>?trid=<tracking id>
func (s *Service) link(id, name string) string {
	if s.source.LinkBase == "" {
		return ""
	}
	link := fmt.Sprintf("%s/%s-%s", strings.TrimRight(s.source.LinkBase, "/"), id, content.Slugify(name))
	if s.source.TrackingID != "" {
		link += "?trid=" + url.QueryEscape(s.source.TrackingID)
	}
	return link
}

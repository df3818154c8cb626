// Package events fetches meetup events, joins them with registration links and renders event pages
package events

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/allegro/techsite/pkg/config"
	"github.com/allegro/techsite/pkg/domain"
	"github.com/allegro/techsite/pkg/remote"
)

// JSONFetcher downloads and decodes JSON documents
type JSONFetcher interface {
	GetJSON(ctx context.Context, url string, v any, opts ...remote.RequestOption) error
}

// registration start times are compared with minute precision
const startLayout = "2006-01-02T15:04"

// Service builds the events list
type Service struct {
	fetcher JSONFetcher
	source  config.EventsSource
	token   string
	now     func() time.Time
}

type meetupEvent struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Time      int64  `json:"time"` // ms since epoch
	LocalDate string `json:"local_date"`
	LocalTime string `json:"local_time"`
	Link      string `json:"link"`
	Venue     *struct {
		Name     string `json:"name"`
		City     string `json:"city"`
		Address1 string `json:"address_1"`
	} `json:"venue"`
	Description string `json:"description"`
}

type eventbriteResponse struct {
	Events []struct {
		URL   string `json:"url"`
		Start struct {
			Local string `json:"local"`
		} `json:"start"`
	} `json:"events"`
}

// NewService makes an events service, empty token disables registration links
func NewService(fetcher JSONFetcher, source config.EventsSource, token string) *Service {
	return &Service{fetcher: fetcher, source: source, token: token, now: time.Now}
}

// Fetch gets meetup events, drops events without a venue, adds registration links
// and marks the nearest upcoming event
func (s *Service) Fetch(ctx context.Context) ([]domain.Event, error) {
	var resp []meetupEvent
	if err := s.fetcher.GetJSON(ctx, s.source.URL, &resp); err != nil {
		return nil, fmt.Errorf("fetch meetup events: %w", err)
	}

	res := make([]domain.Event, 0, len(resp))
	starts := make([]string, 0, len(resp))
	for _, e := range resp {
		if e.Venue == nil {
			lgr.Printf("[DEBUG] skip event %q without venue", e.Name)
			continue
		}
		res = append(res, domain.Event{
			ID:          e.ID,
			Name:        strings.TrimSpace(e.Name),
			Time:        time.UnixMilli(e.Time).UTC(),
			LocalDate:   e.LocalDate,
			Venue:       domain.Venue{Name: e.Venue.Name, City: e.Venue.City, Address: e.Venue.Address1},
			Link:        e.Link,
			Description: e.Description,
			Status:      domain.EventNormal,
		})
		starts = append(starts, localStart(e.LocalDate, e.LocalTime))
	}

	if s.token != "" {
		s.joinRegistrations(ctx, res, starts)
	}
	lgr.Printf("[DEBUG] fetched %d events", len(res))
	return MarkNearest(res, s.now()), nil
}

// joinRegistrations sets registration links of events matched by local start time.
// Failure is logged and leaves events without registration.
func (s *Service) joinRegistrations(ctx context.Context, events []domain.Event, starts []string) {
	var resp eventbriteResponse
	if err := s.fetcher.GetJSON(ctx, s.source.EventbriteURL, &resp, remote.WithBearer(s.token)); err != nil {
		lgr.Printf("[WARN] failed to fetch registrations: %v", err)
		return
	}

	links := make(map[string]string, len(resp.Events))
	for _, e := range resp.Events {
		start := normalizeStart(e.Start.Local)
		if _, ok := links[start]; start == "" || ok {
			continue
		}
		links[start] = e.URL
	}
	for i := range events {
		if link, ok := links[starts[i]]; ok && starts[i] != "" {
			events[i].Registration = link
		}
	}
}

// localStart joins meetup local date and time ("2024-05-10", "18:00")
func localStart(date, clock string) string {
	if date == "" || clock == "" {
		return ""
	}
	return normalizeStart(date + "T" + clock)
}

// normalizeStart truncates a local timestamp to minutes, unparsable values become ""
func normalizeStart(s string) string {
	for _, layout := range []string{"2006-01-02T15:04:05", startLayout} {
		if t, err := time.Parse(layout, strings.TrimSpace(s)); err == nil {
			return t.Format(startLayout)
		}
	}
	return ""
}

package events

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/go-pkgz/lgr"
	"gopkg.in/yaml.v3"

	"github.com/allegro/techsite/pkg/content"
	"github.com/allegro/techsite/pkg/domain"
)

const pageLayout = "event"

// frontMatter is the header of an event page, field order is kept in the output
type frontMatter struct {
	Layout       string `yaml:"layout"`
	Title        string `yaml:"title"`
	Time         int64  `yaml:"time"` // ms since epoch
	VenueAddress string `yaml:"venue_address_1"`
	VenueCity    string `yaml:"venue_city"`
	VenueName    string `yaml:"venue_name"`
	Status       string `yaml:"status"`
	ID           string `yaml:"id"`
	Registration string `yaml:"registration"`
	Link         string `yaml:"link"`
}

// FileName returns the page file name, YYYY-MM-DD-<slug>.md with the event local date
func FileName(e domain.Event) string {
	date := e.Time.UTC().Format(time.DateOnly)
	if d, err := time.Parse(time.DateOnly, e.LocalDate); err == nil {
		date = d.Format(time.DateOnly)
	}
	slug := content.Slugify(e.Name)
	if slug == "" {
		slug = content.Slugify(e.ID)
	}
	return fmt.Sprintf("%s-%s.md", date, slug)
}

// FileNames returns a page file name per event in input order. A name already taken
// by an earlier event gets the event id appended, so pages never overwrite each other.
func FileNames(list []domain.Event) []string {
	res := make([]string, 0, len(list))
	taken := make(map[string]bool, len(list))
	for _, e := range list {
		name := FileName(e)
		if taken[name] {
			base := strings.TrimSuffix(name, ".md")
			name = fmt.Sprintf("%s-%s.md", base, content.Slugify(e.ID))
			for i := 2; taken[name]; i++ {
				name = fmt.Sprintf("%s-%s-%d.md", base, content.Slugify(e.ID), i)
			}
			lgr.Printf("[WARN] event %s shares page name with another event, saved as %s", e.ID, name)
		}
		taken[name] = true
		res = append(res, name)
	}
	return res
}

// Render makes an event page: YAML front matter followed by the sanitized description
func Render(e domain.Event) ([]byte, error) {
	fm := frontMatter{
		Layout:       pageLayout,
		Title:        e.Name,
		Time:         e.Time.UnixMilli(),
		VenueAddress: e.Venue.Address,
		VenueCity:    e.Venue.City,
		VenueName:    e.Venue.Name,
		Status:       string(e.Status),
		ID:           e.ID,
		Registration: e.Registration,
		Link:         e.Link,
	}
	if fm.Status == "" {
		fm.Status = string(domain.EventNormal)
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(fm); err != nil {
		return nil, fmt.Errorf("encode front matter for event %s: %w", e.ID, err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("close front matter encoder: %w", err)
	}
	buf.WriteString("---\n\n")
	if body := content.Sanitize(e.Description); body != "" {
		buf.WriteString(body)
		buf.WriteString("\n")
	}
	return buf.Bytes(), nil
}

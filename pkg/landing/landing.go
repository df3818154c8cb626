// Package landing assembles the landing page snapshot from all sources.
// Every source is optional, a failed source is logged and shown as an empty section.
package landing

import (
	"context"
	"time"

	"github.com/go-pkgz/lgr"
	"golang.org/x/sync/errgroup"

	"github.com/allegro/techsite/pkg/config"
	"github.com/allegro/techsite/pkg/domain"
	"github.com/allegro/techsite/pkg/feed"
)

//go:generate moq -out mocks/parser.go -pkg mocks -skip-ensure -fmt goimports . Parser
//go:generate moq -out mocks/jobs.go -pkg mocks -skip-ensure -fmt goimports . JobsFetcher
//go:generate moq -out mocks/events.go -pkg mocks -skip-ensure -fmt goimports . EventsFetcher
//go:generate moq -out mocks/repos.go -pkg mocks -skip-ensure -fmt goimports . ReposFetcher
//go:generate moq -out mocks/extractor.go -pkg mocks -skip-ensure -fmt goimports . Extractor

// Parser fetches and parses RSS/Atom feeds
type Parser interface {
	Parse(ctx context.Context, url string) (*domain.ParsedFeed, error)
}

// JobsFetcher returns open positions
type JobsFetcher interface {
	Fetch(ctx context.Context) (domain.JobListing, error)
}

// EventsFetcher returns meetup events with the nearest one marked
type EventsFetcher interface {
	Fetch(ctx context.Context) ([]domain.Event, error)
}

// ReposFetcher returns the repositories catalog
type ReposFetcher interface {
	Fetch(ctx context.Context) (domain.Catalog, error)
}

// Extractor extracts article text from a page
type Extractor interface {
	Extract(ctx context.Context, url string) (string, error)
}

// Params holds builder dependencies, nil Extractor disables article extraction
type Params struct {
	Parser    Parser
	Jobs      JobsFetcher
	Events    EventsFetcher
	Repos     ReposFetcher
	Extractor Extractor

	Blog              config.FeedSource
	Podcast           config.FeedSource
	Authors           config.AuthorsConfig
	ExtractionTimeout time.Duration
}

// Builder assembles landing pages
type Builder struct {
	Params
	now func() time.Time
}

// NewBuilder makes a landing page builder
func NewBuilder(params Params) *Builder {
	if params.ExtractionTimeout == 0 {
		params.ExtractionTimeout = 30 * time.Second
	}
	return &Builder{Params: params, now: time.Now}
}

// Build fetches all sources concurrently and returns a fresh page.
// It never fails, sources with errors produce empty sections.
func (b *Builder) Build(ctx context.Context) domain.Page {
	page := domain.Page{
		Posts:    []domain.FeedItem{},
		Podcasts: []domain.FeedItem{},
		Jobs:     []domain.JobPosting{},
		Events:   []domain.Event{},
		Buckets:  []domain.Bucket{},
	}

	// each goroutine writes only its own section of the page
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		page.Posts = b.feedItems(ctx, "blog", b.Blog)
		b.fillExcerpts(ctx, page.Posts)
		return nil
	})
	g.Go(func() error {
		page.Podcasts = b.feedItems(ctx, "podcast", b.Podcast)
		return nil
	})
	g.Go(func() error {
		if b.Jobs == nil {
			return nil
		}
		listing, err := b.Jobs.Fetch(ctx)
		if err != nil {
			lgr.Printf("[WARN] jobs source skipped: %v", err)
			return nil
		}
		page.Jobs = listing.Jobs
		return nil
	})
	g.Go(func() error {
		if b.Events == nil {
			return nil
		}
		events, err := b.Events.Fetch(ctx)
		if err != nil {
			lgr.Printf("[WARN] events source skipped: %v", err)
			return nil
		}
		page.Events = events
		return nil
	})
	g.Go(func() error {
		if b.Repos == nil {
			return nil
		}
		catalog, err := b.Repos.Fetch(ctx)
		if err != nil {
			lgr.Printf("[WARN] repositories source skipped: %v", err)
			return nil
		}
		page.Buckets = catalog.Buckets
		return nil
	})
	if err := g.Wait(); err != nil {
		lgr.Printf("[ERROR] landing build error: %v", err)
	}

	page.GeneratedAt = b.now()
	lgr.Printf("[INFO] landing page built: %d posts, %d podcasts, %d jobs, %d events, %d buckets",
		len(page.Posts), len(page.Podcasts), len(page.Jobs), len(page.Events), len(page.Buckets))
	return page
}

// feedItems parses a feed and normalizes up to the source limit, unreachable feed gives an empty list
func (b *Builder) feedItems(ctx context.Context, name string, src config.FeedSource) []domain.FeedItem {
	if b.Parser == nil || src.URL == "" {
		return []domain.FeedItem{}
	}
	parsed, err := b.Parser.Parse(ctx, src.URL)
	if err != nil {
		lgr.Printf("[WARN] %s feed skipped: %v", name, err)
		return []domain.FeedItem{}
	}
	n := feed.Normalizer{ExcerptWords: src.ExcerptWords, ProfileURL: b.Authors.ProfileURL, PhotoURL: b.Authors.PhotoURL}
	items := n.NormalizeAll(parsed.Items, src.Limit)
	lgr.Printf("[DEBUG] %s feed: %d of %d items", name, len(items), len(parsed.Items))
	return items
}

// fillExcerpts sets excerpts of posts without one from the article text
func (b *Builder) fillExcerpts(ctx context.Context, posts []domain.FeedItem) {
	if b.Extractor == nil {
		return
	}
	for i := range posts {
		if posts[i].Excerpt != "" || posts[i].Link == "" {
			continue
		}
		extractCtx, cancel := context.WithTimeout(ctx, b.ExtractionTimeout)
		text, err := b.Extractor.Extract(extractCtx, posts[i].Link)
		cancel()
		if err != nil {
			lgr.Printf("[DEBUG] no excerpt for %s: %v", posts[i].Link, err)
			continue
		}
		posts[i].Excerpt = feed.Normalizer{ExcerptWords: b.Blog.ExcerptWords}.Excerpt(text)
	}
}

package landing

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allegro/techsite/pkg/config"
	"github.com/allegro/techsite/pkg/domain"
	"github.com/allegro/techsite/pkg/landing/mocks"
)

func parsedItems(prefix string, n int) []domain.ParsedItem {
	res := make([]domain.ParsedItem, 0, n)
	for i := range n {
		res = append(res, domain.ParsedItem{
			GUID:        fmt.Sprintf("%s-%d", prefix, i),
			Title:       fmt.Sprintf("%s %d", prefix, i),
			Link:        fmt.Sprintf("https://example.com/%s/%d", prefix, i),
			Description: "<p>one two three four five six</p>",
			Authors:     []string{"Jan Kowalski"},
		})
	}
	return res
}

func testParams(parser *mocks.ParserMock) Params {
	return Params{
		Parser: parser,
		Jobs: &mocks.JobsFetcherMock{FetchFunc: func(ctx context.Context) (domain.JobListing, error) {
			return domain.JobListing{Total: 1, Jobs: []domain.JobPosting{{ID: "1", Name: "Engineer", City: "Warsaw"}}}, nil
		}},
		Events: &mocks.EventsFetcherMock{FetchFunc: func(ctx context.Context) ([]domain.Event, error) {
			return []domain.Event{{ID: "e1", Status: domain.EventNear}}, nil
		}},
		Repos: &mocks.ReposFetcherMock{FetchFunc: func(ctx context.Context) (domain.Catalog, error) {
			return domain.Catalog{Buckets: []domain.Bucket{{Name: "ralph", Repositories: []domain.Repository{{Name: "ralph"}}}}}, nil
		}},
		Blog:    config.FeedSource{URL: "https://example.com/blog.xml", Limit: 8, ExcerptWords: 3},
		Podcast: config.FeedSource{URL: "https://example.com/podcast.xml", Limit: 5, ExcerptWords: 2},
		Authors: config.AuthorsConfig{ProfileURL: "https://example.com/authors/{slug}/"},
	}
}

func TestBuilder_Build(t *testing.T) {
	parser := &mocks.ParserMock{ParseFunc: func(ctx context.Context, url string) (*domain.ParsedFeed, error) {
		if url == "https://example.com/blog.xml" {
			return &domain.ParsedFeed{Items: parsedItems("post", 10)}, nil
		}
		return &domain.ParsedFeed{Items: parsedItems("episode", 7)}, nil
	}}

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	b := NewBuilder(testParams(parser))
	b.now = func() time.Time { return now }

	page := b.Build(context.Background())
	assert.Equal(t, now, page.GeneratedAt)

	require.Len(t, page.Posts, 8, "blog limited")
	assert.Equal(t, "post 0", page.Posts[0].Title)
	assert.Equal(t, "one two three…", page.Posts[0].Excerpt)
	require.Len(t, page.Posts[0].Authors, 1)
	assert.Equal(t, "https://example.com/authors/jan-kowalski/", page.Posts[0].Authors[0].ProfileURL)

	require.Len(t, page.Podcasts, 5, "podcasts limited")
	assert.Equal(t, "one two…", page.Podcasts[0].Excerpt)

	require.Len(t, page.Jobs, 1)
	assert.Equal(t, "Warsaw", page.Jobs[0].City)
	require.Len(t, page.Events, 1)
	assert.Equal(t, domain.EventNear, page.Events[0].Status)
	require.Len(t, page.Buckets, 1)
	assert.Equal(t, "ralph", page.Buckets[0].Name)

	assert.Len(t, parser.ParseCalls(), 2)
}

func TestBuilder_Build_FailedSources(t *testing.T) {
	parser := &mocks.ParserMock{ParseFunc: func(ctx context.Context, url string) (*domain.ParsedFeed, error) {
		if url == "https://example.com/podcast.xml" {
			return nil, errors.New("connection refused")
		}
		return &domain.ParsedFeed{Items: parsedItems("post", 2)}, nil
	}}
	params := testParams(parser)
	params.Jobs = &mocks.JobsFetcherMock{FetchFunc: func(ctx context.Context) (domain.JobListing, error) {
		return domain.JobListing{}, errors.New("status 503")
	}}
	params.Events = &mocks.EventsFetcherMock{FetchFunc: func(ctx context.Context) ([]domain.Event, error) {
		return nil, errors.New("timeout")
	}}
	params.Repos = &mocks.ReposFetcherMock{FetchFunc: func(ctx context.Context) (domain.Catalog, error) {
		return domain.Catalog{}, errors.New("rate limited")
	}}

	page := NewBuilder(params).Build(context.Background())
	assert.Len(t, page.Posts, 2, "working source unaffected")
	assert.NotNil(t, page.Podcasts)
	assert.Empty(t, page.Podcasts)
	assert.NotNil(t, page.Jobs)
	assert.Empty(t, page.Jobs)
	assert.NotNil(t, page.Events)
	assert.Empty(t, page.Events)
	assert.NotNil(t, page.Buckets)
	assert.Empty(t, page.Buckets)
}

func TestBuilder_Build_NoSources(t *testing.T) {
	page := NewBuilder(Params{}).Build(context.Background())
	assert.Empty(t, page.Posts)
	assert.Empty(t, page.Podcasts)
	assert.Empty(t, page.Jobs)
	assert.Empty(t, page.Events)
	assert.Empty(t, page.Buckets)
	assert.False(t, page.GeneratedAt.IsZero())
}

func TestBuilder_Build_Extraction(t *testing.T) {
	parser := &mocks.ParserMock{ParseFunc: func(ctx context.Context, url string) (*domain.ParsedFeed, error) {
		return &domain.ParsedFeed{Items: []domain.ParsedItem{
			{Title: "with excerpt", Link: "https://example.com/a", Description: "already here"},
			{Title: "empty", Link: "https://example.com/b"},
			{Title: "broken", Link: "https://example.com/c"},
		}}, nil
	}}
	extractor := &mocks.ExtractorMock{ExtractFunc: func(ctx context.Context, url string) (string, error) {
		_, ok := ctx.Deadline()
		assert.True(t, ok, "extraction has a timeout")
		if url == "https://example.com/c" {
			return "", errors.New("too short")
		}
		return "article text from the page itself", nil
	}}

	params := testParams(parser)
	params.Podcast = config.FeedSource{}
	params.Extractor = extractor
	params.ExtractionTimeout = time.Second

	page := NewBuilder(params).Build(context.Background())
	require.Len(t, page.Posts, 3)
	assert.Equal(t, "already here", page.Posts[0].Excerpt)
	assert.Equal(t, "article text from…", page.Posts[1].Excerpt)
	assert.Equal(t, "", page.Posts[2].Excerpt)

	calls := extractor.ExtractCalls()
	require.Len(t, calls, 2)
	assert.Equal(t, "https://example.com/b", calls[0].URL)
	assert.Empty(t, page.Podcasts, "podcast source without url")
}

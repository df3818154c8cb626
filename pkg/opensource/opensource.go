// Package opensource builds the catalog of the organization's public repositories
package opensource

import (
	"context"
	"fmt"
	"slices"

	"github.com/go-pkgz/lgr"

	"github.com/allegro/techsite/pkg/config"
	"github.com/allegro/techsite/pkg/domain"
	"github.com/allegro/techsite/pkg/remote"
)

// JSONFetcher downloads and decodes JSON documents
type JSONFetcher interface {
	GetJSON(ctx context.Context, url string, v any, opts ...remote.RequestOption) error
}

// Service builds the repositories catalog
type Service struct {
	fetcher JSONFetcher
	source  config.GitHubSource
	schema  config.OpenSourceConfig
}

type githubRepo struct {
	Name        string `json:"name"`
	HTMLURL     string `json:"html_url"`
	Stars       int    `json:"stargazers_count"`
	Description string `json:"description"`
}

// NewService makes an open-source service with the static repository schema
func NewService(fetcher JSONFetcher, source config.GitHubSource, schema config.OpenSourceConfig) *Service {
	return &Service{fetcher: fetcher, source: source, schema: schema}
}

// Fetch gets repositories with more than MinStars stars and builds the catalog
func (s *Service) Fetch(ctx context.Context) (domain.Catalog, error) {
	var resp []githubRepo
	if err := s.fetcher.GetJSON(ctx, s.source.URL, &resp, remote.WithAccept("application/vnd.github+json")); err != nil {
		return domain.Catalog{}, fmt.Errorf("fetch repositories: %w", err)
	}

	repos := make([]domain.Repository, 0, len(resp))
	for _, r := range resp {
		if r.Stars <= s.source.MinStars {
			continue
		}
		repos = append(repos, s.convert(r))
	}
	SortByStars(repos)

	res := domain.Catalog{
		Repos:      repos,
		Popularity: make([]string, 0, len(repos)),
		Buckets:    Classify(repos, s.schema.Buckets),
	}
	for _, r := range repos {
		res.Popularity = append(res.Popularity, r.Name)
	}
	lgr.Printf("[DEBUG] %d of %d repositories above %d stars", len(repos), len(resp), s.source.MinStars)
	return res, nil
}

func (s *Service) convert(r githubRepo) domain.Repository {
	res := domain.Repository{
		Name:        r.Name,
		URL:         r.HTMLURL,
		Stars:       r.Stars,
		Description: r.Description,
		Bucket:      BucketOf(r.Name, s.schema.Buckets),
		Featured: domain.Featured{
			Primary:   slices.Contains(s.schema.Featured.Primary, r.Name),
			Secondary: slices.Contains(s.schema.Featured.Secondary, r.Name),
		},
	}
	if md, ok := s.schema.Metadata[r.Name]; ok {
		res.Metadata = domain.RepoMetadata{Docs: optional(md.Docs), Twitter: optional(md.Twitter), Contact: optional(md.Contact)}
	}
	return res
}

// optional returns nil for empty strings, rendered as null
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

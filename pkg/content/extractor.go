package content

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/markusmobius/go-trafilatura"

	"github.com/allegro/techsite/pkg/remote"
)

// PageFetcher downloads article pages
type PageFetcher interface {
	Get(ctx context.Context, url string, opts ...remote.RequestOption) ([]byte, error)
}

// ArticleExtractor pulls the main text of an article page with trafilatura
type ArticleExtractor struct {
	fetcher       PageFetcher
	minTextLength int
}

// NewArticleExtractor creates an extractor, texts shorter than minTextLength are rejected
func NewArticleExtractor(fetcher PageFetcher, minTextLength int) *ArticleExtractor {
	return &ArticleExtractor{fetcher: fetcher, minTextLength: minTextLength}
}

// Extract returns plain text of the article at pageURL
func (e *ArticleExtractor) Extract(ctx context.Context, pageURL string) (string, error) {
	parsedURL, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("parse URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return "", fmt.Errorf("invalid URL: %s", pageURL)
	}

	page, err := e.fetcher.Get(ctx, pageURL, remote.WithAccept("text/html,application/xhtml+xml"))
	if err != nil {
		return "", fmt.Errorf("fetch article %s: %w", pageURL, err)
	}

	opts := trafilatura.Options{
		EnableFallback:  true,
		ExcludeComments: true,
		ExcludeTables:   true,
		IncludeImages:   false,
		IncludeLinks:    false,
		Deduplicate:     true,
		OriginalURL:     parsedURL,
	}
	result, err := trafilatura.Extract(bytes.NewReader(page), opts)
	if err != nil {
		return "", fmt.Errorf("extract content from %s: %w", pageURL, err)
	}
	if result == nil {
		return "", fmt.Errorf("no content extracted from %s", pageURL)
	}

	text := strings.Join(strings.Fields(result.ContentText), " ")
	if len(text) < e.minTextLength {
		return "", fmt.Errorf("extracted text from %s too short: %d chars", pageURL, len(text))
	}
	return text, nil
}

package opensource

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allegro/techsite/pkg/config"
	"github.com/allegro/techsite/pkg/domain"
)

func names(repos []domain.Repository) []string {
	res := make([]string, 0, len(repos))
	for _, r := range repos {
		res = append(res, r.Name)
	}
	return res
}

func TestClassify(t *testing.T) {
	repos := []domain.Repository{
		{Name: "ralph_assets", Stars: 12},
		{Name: "ralph", Stars: 2000},
		{Name: "selena", Stars: 40},
		{Name: "bigcache", Stars: 7000},
		{Name: "ralph_beast", Stars: 12},
		{Name: "selena-agent", Stars: 15},
	}
	buckets := []config.Bucket{
		{Name: "ralph", Repos: []string{"ralph", "ralph_assets", "ralph_beast"}},
		{Name: "selena", Repos: []string{"selena", "selena-agent"}},
		{Name: "tools", Repos: []string{"grunt-maven-npm"}},
		{Name: "all-stars", Repos: []string{"ralph", "selena"}},
	}

	res := Classify(repos, buckets)
	require.Len(t, res, 4)

	assert.Equal(t, "ralph", res[0].Name)
	assert.Equal(t, []string{"ralph", "ralph_assets", "ralph_beast"}, names(res[0].Repositories), "stable on equal stars")
	assert.Equal(t, "selena", res[1].Name)
	assert.Equal(t, []string{"selena", "selena-agent"}, names(res[1].Repositories))
	assert.Equal(t, "tools", res[2].Name)
	assert.NotNil(t, res[2].Repositories)
	assert.Empty(t, res[2].Repositories)
	assert.Equal(t, []string{"ralph", "selena"}, names(res[3].Repositories), "repository kept in every listing bucket")

	for _, b := range res {
		assert.NotContains(t, names(b.Repositories), "bigcache", "unlisted repository excluded")
	}

	// input untouched
	assert.Equal(t, "ralph_assets", repos[0].Name)
	assert.Equal(t, res, Classify(repos, buckets), "classification is deterministic")
}

func TestBucketOf(t *testing.T) {
	buckets := []config.Bucket{
		{Name: "ralph", Repos: []string{"ralph", "ralph_assets"}},
		{Name: "favorites", Repos: []string{"ralph", "hermes"}},
	}
	assert.Equal(t, "ralph", BucketOf("ralph", buckets), "first bucket wins")
	assert.Equal(t, "favorites", BucketOf("hermes", buckets))
	assert.Equal(t, domain.Unclassified, BucketOf("bigcache", buckets))
	assert.Equal(t, domain.Unclassified, BucketOf("ralph", nil))
}

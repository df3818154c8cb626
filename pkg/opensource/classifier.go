package opensource

import (
	"cmp"
	"slices"

	"github.com/allegro/techsite/pkg/config"
	"github.com/allegro/techsite/pkg/domain"
)

// Classify groups repositories into the configured buckets, in bucket order.
// Repositories inside a bucket are sorted by stars, descending, keeping input order on ties.
// A repository listed in several buckets appears in each of them, repositories
// not listed in any bucket are left out.
func Classify(repos []domain.Repository, buckets []config.Bucket) []domain.Bucket {
	res := make([]domain.Bucket, 0, len(buckets))
	for _, b := range buckets {
		members := make(map[string]bool, len(b.Repos))
		for _, name := range b.Repos {
			members[name] = true
		}
		bucket := domain.Bucket{Name: b.Name, Repositories: []domain.Repository{}}
		for _, r := range repos {
			if members[r.Name] {
				bucket.Repositories = append(bucket.Repositories, r)
			}
		}
		SortByStars(bucket.Repositories)
		res = append(res, bucket)
	}
	return res
}

// BucketOf returns the first bucket listing the repository, or domain.Unclassified
func BucketOf(name string, buckets []config.Bucket) string {
	for _, b := range buckets {
		if slices.Contains(b.Repos, name) {
			return b.Name
		}
	}
	return domain.Unclassified
}

// SortByStars sorts repositories in place by stars, descending, stable
func SortByStars(repos []domain.Repository) {
	slices.SortStableFunc(repos, func(a, b domain.Repository) int {
		return cmp.Compare(b.Stars, a.Stars)
	})
}

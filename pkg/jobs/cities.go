package jobs

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/allegro/techsite/pkg/config"
)

// Squasher collapses spelling variants of city names into canonical labels
type Squasher struct {
	canonical map[string]string // variant -> canonical name
}

// NewSquasher makes a Squasher from an ordered city table. The first city listing
// a variant wins, every canonical name is a variant of itself.
func NewSquasher(cities []config.City) *Squasher {
	res := &Squasher{canonical: make(map[string]string)}
	// canonical names first, so a canonical name never maps to another city
	for _, c := range cities {
		res.add(c.Name, c.Name)
	}
	for _, c := range cities {
		for _, v := range c.Variants {
			res.add(v, c.Name)
		}
	}
	return res
}

func (s *Squasher) add(variant, name string) {
	variant, name = key(variant), key(name)
	if variant == "" || name == "" {
		return
	}
	if _, ok := s.canonical[variant]; ok {
		return
	}
	s.canonical[variant] = name
}

// Squash maps names to canonical labels keeping first-seen order.
// Unknown names pass through unchanged, empty names are dropped.
// Squash(Squash(x)) == Squash(x).
func (s *Squasher) Squash(names []string) []string {
	res := make([]string, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		label := s.Canonical(name)
		if label == "" || seen[label] {
			continue
		}
		seen[label] = true
		res = append(res, label)
	}
	return res
}

// Canonical returns the canonical label of a single name
func (s *Squasher) Canonical(name string) string {
	name = key(name)
	if c, ok := s.canonical[name]; ok {
		return c
	}
	return name
}

// Known reports whether the name is a variant of a configured city
func (s *Squasher) Known(name string) bool {
	_, ok := s.canonical[key(name)]
	return ok
}

// key brings a name to composed form, so "Krako\u0301w" and "Kraków" match
func key(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

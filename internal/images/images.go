// Package images finds a stock photo for an article. Providers are
// tried in a fixed priority order and every failure degrades to "no
// image"; a missing photo never fails a generation run.
package images

import (
	"context"
	"log"
	"math/rand"
	"strings"
)

// Photo is one search hit, already mapped to the fields we keep.
type Photo struct {
	URL    string
	Credit string
}

// Provider is one photo-search backend.
type Provider interface {
	Name() string
	Search(ctx context.Context, query string) ([]Photo, error)
}

// pickWindow caps the random-selection window so we don't always take
// the top hit but still stay among relevant results.
const pickWindow = 5

// Fetcher queries providers in order until one returns results.
type Fetcher struct {
	providers []Provider
	rng       *rand.Rand
}

// NewFetcher builds a fetcher over the given providers. rng is
// injectable for deterministic tests.
func NewFetcher(rng *rand.Rand, providers ...Provider) *Fetcher {
	return &Fetcher{providers: providers, rng: rng}
}

// Fetch builds a query from the first two keywords and returns a photo
// chosen at random among the top results, or nil when every provider
// fails or none is configured.
func (f *Fetcher) Fetch(ctx context.Context, keywords []string) *Photo {
	query := buildQuery(keywords)

	for _, p := range f.providers {
		photos, err := p.Search(ctx, query)
		if err != nil {
			log.Printf("WARN: %s search: %v", p.Name(), err)
			continue
		}
		if len(photos) == 0 {
			log.Printf("%s: no results for %q", p.Name(), query)
			continue
		}

		window := len(photos)
		if window > pickWindow {
			window = pickWindow
		}
		photo := photos[f.rng.Intn(window)]
		return &photo
	}
	return nil
}

func buildQuery(keywords []string) string {
	if len(keywords) > 2 {
		keywords = keywords[:2]
	}
	return strings.Join(keywords, " ") + " technology"
}

// Package trends pulls recent headlines from AI-news RSS feeds. The
// headlines are offered to the topic proposer as extra context; fetching
// is strictly best effort and an empty result is always acceptable.
package trends

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"
)

const (
	httpTimeout = 15 * time.Second
	maxPerFeed  = 5
)

// FetchHeadlines returns up to maxPerFeed recent item titles from each
// configured feed. Failing feeds are logged and skipped.
func FetchHeadlines(ctx context.Context, feedURLs []string) []string {
	var headlines []string
	for _, url := range feedURLs {
		titles, err := fetchFeed(ctx, url)
		if err != nil {
			log.Printf("WARN: trend feed %s: %v", url, err)
			continue
		}
		headlines = append(headlines, titles...)
	}
	return headlines
}

func fetchFeed(ctx context.Context, url string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, httpTimeout)
	defer cancel()

	fp := gofeed.NewParser()
	fp.Client = &http.Client{Timeout: httpTimeout}

	feed, err := fp.ParseURLWithContext(url, ctx)
	if err != nil {
		return nil, err
	}

	var titles []string
	for i, item := range feed.Items {
		if i >= maxPerFeed {
			break
		}
		if item.Title != "" {
			titles = append(titles, item.Title)
		}
	}
	return titles, nil
}

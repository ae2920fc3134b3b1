package trends

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func rssServer(t *testing.T, itemCount int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var items strings.Builder
		for i := 0; i < itemCount; i++ {
			fmt.Fprintf(&items, "<item><title>Headline %d</title><link>https://news.example/%d</link></item>", i, i)
		}
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprintf(w, `<?xml version="1.0"?>
<rss version="2.0"><channel><title>AI News</title>%s</channel></rss>`, items.String())
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchHeadlines(t *testing.T) {
	srv := rssServer(t, 3)

	got := FetchHeadlines(context.Background(), []string{srv.URL})
	if len(got) != 3 {
		t.Fatalf("got %d headlines, want 3: %v", len(got), got)
	}
	if got[0] != "Headline 0" {
		t.Fatalf("got[0] = %q", got[0])
	}
}

func TestFetchHeadlinesCapsPerFeed(t *testing.T) {
	srv := rssServer(t, 12)

	got := FetchHeadlines(context.Background(), []string{srv.URL})
	if len(got) != maxPerFeed {
		t.Fatalf("got %d headlines, want %d", len(got), maxPerFeed)
	}
}

func TestFetchHeadlinesSkipsFailingFeeds(t *testing.T) {
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(bad.Close)
	good := rssServer(t, 2)

	got := FetchHeadlines(context.Background(), []string{bad.URL, good.URL})
	if len(got) != 2 {
		t.Fatalf("got %d headlines, want 2 from the healthy feed", len(got))
	}
}

func TestFetchHeadlinesNoFeeds(t *testing.T) {
	if got := FetchHeadlines(context.Background(), nil); got != nil {
		t.Fatalf("got %v, want nil", got)
	}
}

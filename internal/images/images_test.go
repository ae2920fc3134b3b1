package images

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func unsplashServer(t *testing.T, status int, results int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/photos" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Client-ID test-key" {
			t.Errorf("Authorization = %q", got)
		}
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		var items []string
		for i := 0; i < results; i++ {
			items = append(items, fmt.Sprintf(
				`{"urls": {"regular": "https://u.example/%d.jpg"}, "user": {"name": "Photographer %d"}}`, i, i))
		}
		fmt.Fprintf(w, `{"results": [%s]}`, strings.Join(items, ","))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func pexelsServer(t *testing.T, results int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/search" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "pexels-key" {
			t.Errorf("Authorization = %q", got)
		}
		var items []string
		for i := 0; i < results; i++ {
			items = append(items, fmt.Sprintf(
				`{"src": {"large": "https://p.example/%d.jpg"}, "photographer": "Pexels User %d"}`, i, i))
		}
		fmt.Fprintf(w, `{"photos": [%s]}`, strings.Join(items, ","))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNewProvidersWithoutKeys(t *testing.T) {
	if NewUnsplash("") != nil {
		t.Error("NewUnsplash(\"\") should be nil")
	}
	if NewPexels("") != nil {
		t.Error("NewPexels(\"\") should be nil")
	}
}

func TestUnsplashSearch(t *testing.T) {
	srv := unsplashServer(t, http.StatusOK, 2)
	u := NewUnsplash("test-key")
	u.baseURL = srv.URL

	photos, err := u.Search(context.Background(), "GPT-4o technology")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(photos) != 2 {
		t.Fatalf("got %d photos", len(photos))
	}
	if photos[0].URL != "https://u.example/0.jpg" || photos[0].Credit != "Photographer 0 on Unsplash" {
		t.Fatalf("photos[0] = %+v", photos[0])
	}
}

func TestPexelsSearch(t *testing.T) {
	srv := pexelsServer(t, 1)
	p := NewPexels("pexels-key")
	p.baseURL = srv.URL

	photos, err := p.Search(context.Background(), "AI technology")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(photos) != 1 || photos[0].Credit != "Pexels User 0 on Pexels" {
		t.Fatalf("photos = %+v", photos)
	}
}

func TestFetchFallsBackToSecondProvider(t *testing.T) {
	u := NewUnsplash("test-key")
	u.baseURL = unsplashServer(t, http.StatusForbidden, 0).URL
	p := NewPexels("pexels-key")
	p.baseURL = pexelsServer(t, 1).URL

	f := NewFetcher(rand.New(rand.NewSource(1)), u, p)
	photo := f.Fetch(context.Background(), []string{"AI"})
	if photo == nil {
		t.Fatal("expected fallback photo")
	}
	if !strings.Contains(photo.Credit, "Pexels") {
		t.Fatalf("photo = %+v, want one from the fallback provider", photo)
	}
}

func TestFetchAllProvidersFail(t *testing.T) {
	u := NewUnsplash("test-key")
	u.baseURL = unsplashServer(t, http.StatusInternalServerError, 0).URL

	f := NewFetcher(rand.New(rand.NewSource(1)), u)
	if photo := f.Fetch(context.Background(), []string{"AI"}); photo != nil {
		t.Fatalf("expected nil photo, got %+v", photo)
	}
}

func TestFetchNoProviders(t *testing.T) {
	f := NewFetcher(rand.New(rand.NewSource(1)))
	if photo := f.Fetch(context.Background(), []string{"AI"}); photo != nil {
		t.Fatalf("expected nil photo, got %+v", photo)
	}
}

func TestFetchPicksWithinWindow(t *testing.T) {
	u := NewUnsplash("test-key")
	u.baseURL = unsplashServer(t, http.StatusOK, 10).URL

	// Regardless of seed the pick must come from the first 5 results.
	for seed := int64(0); seed < 20; seed++ {
		f := NewFetcher(rand.New(rand.NewSource(seed)), u)
		photo := f.Fetch(context.Background(), []string{"AI"})
		if photo == nil {
			t.Fatal("expected a photo")
		}
		ok := false
		for i := 0; i < pickWindow; i++ {
			if photo.URL == fmt.Sprintf("https://u.example/%d.jpg", i) {
				ok = true
			}
		}
		if !ok {
			t.Fatalf("seed %d picked %s outside the first %d results", seed, photo.URL, pickWindow)
		}
	}
}

func TestBuildQuery(t *testing.T) {
	cases := []struct {
		keywords []string
		want     string
	}{
		{[]string{"GPT-4o", "OpenAI", "LLM"}, "GPT-4o OpenAI technology"},
		{[]string{"AI"}, "AI technology"},
		{nil, " technology"},
	}
	for _, c := range cases {
		if got := buildQuery(c.keywords); got != c.want {
			t.Errorf("buildQuery(%v) = %q, want %q", c.keywords, got, c.want)
		}
	}
}

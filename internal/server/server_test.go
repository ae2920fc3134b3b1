package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/mmcdole/gofeed"
	"golang.org/x/crypto/bcrypt"

	"github.com/ennekai/ennekai-lab/internal/article"
	"github.com/ennekai/ennekai-lab/internal/config"
)

func newTestServer(t *testing.T) (*Server, *article.Store) {
	t.Helper()
	store, err := article.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	cfg := &config.Config{}
	cfg.Site.Title = "ennekai Lab"
	cfg.Site.Description = "AI技術ブログ"
	cfg.Site.BaseURL = "https://ennekai-lab.example"
	cfg.Admin.Username = "admin"
	cfg.Admin.Password = "secret"

	return New(store, cfg), store
}

func seedArticle(t *testing.T, store *article.Store, slug, date, title string) {
	t.Helper()
	err := store.Save(&article.Article{
		Slug: slug,
		Meta: article.Meta{
			Title:    title,
			Date:     date,
			Excerpt:  "記事の概要です。",
			Category: "技術解説",
			Tags:     []string{"AI", "LLM"},
			Image:    "https://images.example/hero.jpg",
		},
		Content: "## 見出し\n\n本文の段落です。",
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
}

func get(s *Server, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

// login authenticates and returns the session cookie.
func login(t *testing.T, s *Server) *http.Cookie {
	t.Helper()
	form := url.Values{"username": {"admin"}, "password": {"secret"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("login status = %d, want 302", rec.Code)
	}
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookie {
			return c
		}
	}
	t.Fatal("no session cookie issued")
	return nil
}

func TestHome(t *testing.T) {
	s, store := newTestServer(t)
	seedArticle(t, store, "20250601-abc123", "2025-06-01", "最初の記事")

	rec := get(s, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "最初の記事") || !strings.Contains(body, "/articles/20250601-abc123") {
		t.Fatalf("home page missing article:\n%s", body)
	}
}

func TestHomeEmptyState(t *testing.T) {
	s, _ := newTestServer(t)
	rec := get(s, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "まだ記事がありません") {
		t.Fatal("empty state message missing")
	}
}

func TestHomeUnknownPath(t *testing.T) {
	s, _ := newTestServer(t)
	if rec := get(s, "/no-such-page"); rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestArticlePageRendersMarkdown(t *testing.T) {
	s, store := newTestServer(t)
	seedArticle(t, store, "20250601-abc123", "2025-06-01", "記事タイトル")

	rec := get(s, "/articles/20250601-abc123")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "<h2") || !strings.Contains(body, "本文の段落です。") {
		t.Fatalf("markdown not rendered:\n%s", body)
	}
	if !strings.Contains(body, "https://images.example/hero.jpg") {
		t.Fatal("hero image missing")
	}
}

func TestArticleNotFound(t *testing.T) {
	s, _ := newTestServer(t)
	if rec := get(s, "/articles/20990101-zzzzzz"); rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if rec := get(s, "/articles/"); rec.Code != http.StatusNotFound {
		t.Fatalf("empty slug status = %d, want 404", rec.Code)
	}
	if rec := get(s, "/articles/a/b"); rec.Code != http.StatusNotFound {
		t.Fatalf("nested slug status = %d, want 404", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)
	rec := get(s, "/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" {
		t.Fatalf("body = %v", body)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	s, _ := newTestServer(t)

	form := url.Values{"username": {"admin"}, "password": {"wrong"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookie {
			t.Fatal("session cookie issued for bad credentials")
		}
	}
}

func TestLoginWithBcryptHash(t *testing.T) {
	store, err := article.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	defer store.Close()

	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	cfg := &config.Config{}
	cfg.Site.Title = "t"
	cfg.Admin.Username = "admin"
	cfg.Admin.PasswordHash = string(hash)
	// The plain-text fallback must be ignored once a hash is set.
	cfg.Admin.Password = "other"

	s := New(store, cfg)
	login(t, s)

	if s.checkCredentials("admin", "other") {
		t.Fatal("plain password accepted despite configured hash")
	}
}

func TestLoginRejectedWithoutPassword(t *testing.T) {
	store, err := article.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	defer store.Close()

	cfg := &config.Config{}
	cfg.Admin.Username = "admin"
	s := New(store, cfg)

	if s.checkCredentials("admin", "") || s.checkCredentials("admin", "anything") {
		t.Fatal("login must be rejected when no password is configured")
	}
}

func TestAdminRedirectsWithoutSession(t *testing.T) {
	s, _ := newTestServer(t)

	rec := get(s, "/admin")
	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Fatalf("Location = %q", loc)
	}
}

func TestAdminDashboard(t *testing.T) {
	s, store := newTestServer(t)
	seedArticle(t, store, "20250601-abc123", "2025-06-01", "管理対象の記事")
	cookie := login(t, s)

	rec := get(s, "/admin", cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "管理対象の記事") {
		t.Fatal("dashboard missing article")
	}
}

func TestAdminEditPage(t *testing.T) {
	s, store := newTestServer(t)
	seedArticle(t, store, "20250601-abc123", "2025-06-01", "編集する記事")
	cookie := login(t, s)

	rec := get(s, "/admin/articles/20250601-abc123", cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "編集する記事") {
		t.Fatal("edit form missing article title")
	}

	if rec := get(s, "/admin/articles/missing", cookie); rec.Code != http.StatusNotFound {
		t.Fatalf("missing slug status = %d, want 404", rec.Code)
	}
}

func TestLogoutEndsSession(t *testing.T) {
	s, _ := newTestServer(t)
	cookie := login(t, s)

	rec := get(s, "/logout", cookie)
	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}

	if rec := get(s, "/admin", cookie); rec.Code != http.StatusFound {
		t.Fatalf("session still valid after logout: status = %d", rec.Code)
	}
}

func TestFeed(t *testing.T) {
	s, store := newTestServer(t)
	seedArticle(t, store, "20250602-def456", "2025-06-02", "新しい記事")
	seedArticle(t, store, "20250601-abc123", "2025-06-01", "古い記事")

	rec := get(s, "/feed.xml")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/rss+xml") {
		t.Fatalf("Content-Type = %q", ct)
	}

	feed, err := gofeed.NewParser().ParseString(rec.Body.String())
	if err != nil {
		t.Fatalf("feed does not parse: %v", err)
	}
	if feed.Title != "ennekai Lab" {
		t.Errorf("feed title = %q", feed.Title)
	}
	if len(feed.Items) != 2 {
		t.Fatalf("got %d items, want 2", len(feed.Items))
	}
	// Newest article first, absolute links.
	if feed.Items[0].Title != "新しい記事" {
		t.Errorf("items[0].Title = %q", feed.Items[0].Title)
	}
	if feed.Items[0].Link != "https://ennekai-lab.example/articles/20250602-def456" {
		t.Errorf("items[0].Link = %q", feed.Items[0].Link)
	}
	if feed.Items[0].Published == "" {
		t.Error("items[0] missing pubDate")
	}
}

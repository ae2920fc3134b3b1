package article

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Store persists articles as markdown files in a single directory,
// named "<slug>.md". Listings are cached in memory; a filesystem watch
// drops the cache when anything in the directory changes, so articles
// written by the generator or edited by hand show up without a restart.
type Store struct {
	dir     string
	watcher *fsnotify.Watcher

	mu     sync.Mutex
	cached []Summary
	valid  bool
}

// NewStore opens (and creates if needed) the content directory.
// A failed watcher is not fatal: the store just runs uncached.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create content dir: %w", err)
	}

	s := &Store{dir: dir}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		log.Printf("WARN: content watcher unavailable: %v", err)
		return s, nil
	}
	if err := w.Add(dir); err != nil {
		log.Printf("WARN: watch %s: %v", dir, err)
		w.Close()
		return s, nil
	}
	s.watcher = w
	go s.watch()
	return s, nil
}

func (s *Store) watch() {
	for {
		select {
		case _, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			s.invalidate()
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("WARN: content watcher: %v", err)
		}
	}
}

func (s *Store) invalidate() {
	s.mu.Lock()
	s.valid = false
	s.cached = nil
	s.mu.Unlock()
}

// Close stops the filesystem watcher.
func (s *Store) Close() error {
	if s.watcher != nil {
		return s.watcher.Close()
	}
	return nil
}

func (s *Store) path(slug string) string {
	return filepath.Join(s.dir, slug+".md")
}

// List returns summaries of all articles, newest date first.
func (s *Store) List() ([]Summary, error) {
	s.mu.Lock()
	if s.valid {
		out := make([]Summary, len(s.cached))
		copy(out, s.cached)
		s.mu.Unlock()
		return out, nil
	}
	s.mu.Unlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read content dir: %w", err)
	}

	var summaries []Summary
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".md") {
			continue
		}
		slug := strings.TrimSuffix(name, ".md")
		raw, err := os.ReadFile(filepath.Join(s.dir, name))
		if err != nil {
			return nil, fmt.Errorf("read article %s: %w", slug, err)
		}
		meta, body, err := DecodeDocument(raw)
		if err != nil {
			log.Printf("WARN: skip malformed article %s: %v", slug, err)
			continue
		}
		summaries = append(summaries, Summary{
			Slug:        slug,
			Meta:        meta,
			ReadingTime: readingTime(body),
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].Date != summaries[j].Date {
			return summaries[i].Date > summaries[j].Date
		}
		return summaries[i].Slug > summaries[j].Slug
	})

	s.mu.Lock()
	s.cached = summaries
	s.valid = s.watcher != nil
	s.mu.Unlock()

	out := make([]Summary, len(summaries))
	copy(out, summaries)
	return out, nil
}

// Get loads one article by slug. Returns (nil, nil) when it does not exist.
func (s *Store) Get(slug string) (*Article, error) {
	raw, err := os.ReadFile(s.path(slug))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read article %s: %w", slug, err)
	}

	meta, body, err := DecodeDocument(raw)
	if err != nil {
		return nil, fmt.Errorf("article %s: %w", slug, err)
	}
	return &Article{Slug: slug, Meta: meta, Content: body}, nil
}

// Save creates or fully replaces the article document for a.Slug.
func (s *Store) Save(a *Article) error {
	if a.Slug == "" {
		return fmt.Errorf("article has no slug")
	}
	doc, err := EncodeDocument(a.Meta, a.Content)
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path(a.Slug), doc, 0o644); err != nil {
		return fmt.Errorf("write article %s: %w", a.Slug, err)
	}
	s.invalidate()
	return nil
}

// Delete removes the article document. Deleting a missing slug is an error.
func (s *Store) Delete(slug string) error {
	if err := os.Remove(s.path(slug)); err != nil {
		return fmt.Errorf("delete article %s: %w", slug, err)
	}
	s.invalidate()
	return nil
}

// Slugs returns the slugs of all stored articles, unsorted.
func (s *Store) Slugs() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read content dir: %w", err)
	}
	var slugs []string
	for _, e := range entries {
		if name := e.Name(); !e.IsDir() && strings.HasSuffix(name, ".md") {
			slugs = append(slugs, strings.TrimSuffix(name, ".md"))
		}
	}
	return slugs, nil
}

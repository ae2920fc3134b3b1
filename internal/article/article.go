package article

import (
	"strings"
	"unicode/utf8"
)

// Meta is the frontmatter block of one article document.
type Meta struct {
	Title       string   `yaml:"title"`
	Date        string   `yaml:"date"`
	Excerpt     string   `yaml:"excerpt"`
	Category    string   `yaml:"category"`
	Tags        []string `yaml:"tags"`
	Image       string   `yaml:"image"`
	ImageCredit string   `yaml:"imageCredit"`
}

// Article is one persisted markdown document, identified by its slug.
type Article struct {
	Slug string
	Meta
	Content string
}

// Summary is a listing entry: frontmatter plus derived fields, no body.
type Summary struct {
	Slug string
	Meta
	ReadingTime int
}

// ReadingTime estimates minutes to read, assuming 400 Japanese
// characters per minute.
func (a *Article) ReadingTime() int {
	return readingTime(a.Content)
}

func readingTime(content string) int {
	n := utf8.RuneCountInString(content)
	if n == 0 {
		return 0
	}
	return (n + 399) / 400
}

// Normalize trims whitespace from string fields and drops empty tags.
func (m *Meta) Normalize() {
	m.Title = strings.TrimSpace(m.Title)
	m.Date = strings.TrimSpace(m.Date)
	m.Excerpt = strings.TrimSpace(m.Excerpt)
	m.Category = strings.TrimSpace(m.Category)
	tags := m.Tags[:0]
	for _, t := range m.Tags {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	m.Tags = tags
}

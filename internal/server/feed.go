package server

import (
	"encoding/xml"
	"log"
	"net/http"
	"time"
)

const feedItemLimit = 20

type rssFeed struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Language    string    `xml:"language"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	Category    string `xml:"category,omitempty"`
	GUID        string `xml:"guid"`
	PubDate     string `xml:"pubDate,omitempty"`
}

// handleFeed serves an RSS 2.0 feed of the newest articles.
func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.store.List()
	if err != nil {
		log.Printf("ERROR: list articles for feed: %v", err)
		http.Error(w, "feed unavailable", http.StatusInternalServerError)
		return
	}
	if len(summaries) > feedItemLimit {
		summaries = summaries[:feedItemLimit]
	}

	feed := rssFeed{
		Version: "2.0",
		Channel: rssChannel{
			Title:       s.site.Title,
			Link:        s.site.BaseURL,
			Description: s.site.Description,
			Language:    "ja",
		},
	}
	for _, sum := range summaries {
		link := s.site.BaseURL + "/articles/" + sum.Slug
		item := rssItem{
			Title:       sum.Title,
			Link:        link,
			Description: sum.Excerpt,
			Category:    sum.Category,
			GUID:        link,
		}
		if t, err := time.Parse("2006-01-02", sum.Date); err == nil {
			item.PubDate = t.Format(time.RFC1123Z)
		}
		feed.Channel.Items = append(feed.Channel.Items, item)
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	w.Write([]byte(xml.Header))
	if err := xml.NewEncoder(w).Encode(feed); err != nil {
		log.Printf("ERROR: encode feed: %v", err)
	}
}

package generator

import (
	"context"
	"log"
	"math/rand"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ennekai/ennekai-lab/internal/ai"
	"github.com/ennekai/ennekai-lab/internal/article"
	"github.com/ennekai/ennekai-lab/internal/config"
	"github.com/ennekai/ennekai-lab/internal/images"
	"github.com/ennekai/ennekai-lab/internal/topiclog"
	"github.com/ennekai/ennekai-lab/internal/trends"
)

const slugTokenLen = 6

// Pipeline runs one full generation pass: topic proposal, content
// generation, image lookup, and persistence of both the article and the
// topic-log entry.
type Pipeline struct {
	store      *article.Store
	logPath    string
	proposer   *Proposer
	content    *ContentGenerator
	images     *images.Fetcher
	trendFeeds []string
	minChars   int
	maxChars   int
	loc        *time.Location
	now        func() time.Time
	rng        *rand.Rand
}

// New assembles a pipeline from configuration. The stored article date
// uses the configured timezone (Asia/Tokyo by default), same as the
// schedule.
func New(cfg *config.Config, llm ai.Completer, store *article.Store, fetcher *images.Fetcher) *Pipeline {
	loc, err := time.LoadLocation(cfg.Schedule.Timezone)
	if err != nil {
		log.Printf("WARN: unknown timezone %q, using local time: %v", cfg.Schedule.Timezone, err)
		loc = time.Local
	}
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	return &Pipeline{
		store:      store,
		logPath:    cfg.Site.TopicLog,
		proposer:   NewProposer(llm, cfg.OpenAI.TopicModel, cfg.Generator, rng),
		content:    NewContentGenerator(llm, cfg.OpenAI.ContentModel, cfg.Generator),
		images:     fetcher,
		trendFeeds: cfg.Generator.TrendFeeds,
		minChars:   cfg.Generator.MinChars,
		maxChars:   cfg.Generator.MaxChars,
		loc:        loc,
		now:        time.Now,
		rng:        rng,
	}
}

// Run executes one generation pass and returns the new article's slug.
// Nothing is persisted until both the topic and content calls have
// succeeded; the topic log is only updated after the article file is
// safely written, so a failed write leaves the log untouched.
func (p *Pipeline) Run(ctx context.Context) (string, error) {
	tlog, err := topiclog.Load(p.logPath)
	if err != nil {
		return "", err
	}

	var headlines []string
	if len(p.trendFeeds) > 0 {
		headlines = trends.FetchHeadlines(ctx, p.trendFeeds)
	}

	log.Println("Generating topic...")
	proposal, err := p.proposer.Propose(ctx, tlog, headlines)
	if err != nil {
		return "", err
	}
	log.Printf("Topic: %s", proposal.Topic)

	log.Println("Generating article content...")
	draft, err := p.content.Generate(ctx, proposal.Topic, proposal.Keywords)
	if err != nil {
		return "", err
	}

	// The length target is advisory; the original system never enforced
	// it, so out-of-range bodies are published with a warning.
	chars := utf8.RuneCountInString(draft.Content)
	log.Printf("Title: %s (%d chars)", draft.Title, chars)
	if chars < p.minChars || chars > p.maxChars {
		log.Printf("WARN: body length %d outside target %d-%d", chars, p.minChars, p.maxChars)
	}

	var imageURL, imageCredit string
	if p.images != nil {
		if photo := p.images.Fetch(ctx, proposal.Keywords); photo != nil {
			imageURL, imageCredit = photo.URL, photo.Credit
			log.Printf("Image: %s", imageCredit)
		} else {
			log.Println("No image found, publishing without one")
		}
	}

	date := p.now().In(p.loc).Format("2006-01-02")
	slug, err := p.newSlug(date)
	if err != nil {
		return "", err
	}

	art := &article.Article{
		Slug: slug,
		Meta: article.Meta{
			Title:       draft.Title,
			Date:        date,
			Excerpt:     draft.Excerpt,
			Category:    draft.Category,
			Tags:        draft.Tags,
			Image:       imageURL,
			ImageCredit: imageCredit,
		},
		Content: draft.Content,
	}
	if err := p.store.Save(art); err != nil {
		return "", err
	}

	tlog.Append(topiclog.Entry{
		Topic:    proposal.Topic,
		Keywords: proposal.Keywords,
		Date:     date,
		Slug:     slug,
	})
	if err := topiclog.Save(p.logPath, tlog); err != nil {
		return "", err
	}

	log.Printf("Article saved: %s", slug)
	return slug, nil
}

const slugAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// newSlug derives "<yyyymmdd>-<random token>" and regenerates the token
// on the off chance it collides with an existing article.
func (p *Pipeline) newSlug(date string) (string, error) {
	existing, err := p.store.Slugs()
	if err != nil {
		return "", err
	}
	taken := make(map[string]bool, len(existing))
	for _, s := range existing {
		taken[s] = true
	}

	datePart := strings.ReplaceAll(date, "-", "") + "-"
	for {
		token := make([]byte, slugTokenLen)
		for i := range token {
			token[i] = slugAlphabet[p.rng.Intn(len(slugAlphabet))]
		}
		slug := datePart + string(token)
		if !taken[slug] {
			return slug, nil
		}
	}
}

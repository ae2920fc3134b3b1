package server

import (
	"html/template"
	"log"
	"net/http"
	"strings"
)

var homeTmpl = template.Must(template.New("home").Parse(homeHTML))

const homeHTML = `<!DOCTYPE html>
<html lang="ja">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.SiteTitle}}</title>
<meta name="description" content="{{.SiteDescription}}">
<link rel="alternate" type="application/rss+xml" title="{{.SiteTitle}}" href="/feed.xml">
<style>
  * { margin: 0; padding: 0; box-sizing: border-box; }
  body { font-family: -apple-system, BlinkMacSystemFont, "Hiragino Sans", "Segoe UI", sans-serif; background: #f5f5f5; color: #333; }
  .container { max-width: 860px; margin: 0 auto; padding: 20px; }
  header { margin-bottom: 28px; }
  header h1 a { font-size: 26px; color: #1a1a1a; text-decoration: none; }
  header p { font-size: 14px; color: #888; margin-top: 4px; }
  .card { background: #fff; border-radius: 8px; padding: 18px 22px; margin-bottom: 14px; box-shadow: 0 1px 3px rgba(0,0,0,0.08); }
  .card-header { display: flex; align-items: baseline; gap: 10px; margin-bottom: 6px; flex-wrap: wrap; }
  .category { font-size: 12px; background: #e8f0fe; color: #1a73e8; padding: 2px 8px; border-radius: 4px; }
  .date { font-size: 12px; color: #aaa; }
  .reading { font-size: 12px; color: #aaa; }
  .title a { font-size: 18px; font-weight: 600; color: #1a1a1a; text-decoration: none; }
  .title a:hover { color: #1a73e8; }
  .excerpt { font-size: 14px; color: #666; margin-top: 6px; line-height: 1.6; }
  .tags { margin-top: 8px; }
  .tag { font-size: 12px; color: #888; margin-right: 8px; }
  .empty { text-align: center; padding: 60px 20px; color: #999; }
</style>
</head>
<body>
<div class="container">
  <header>
    <h1><a href="/">{{.SiteTitle}}</a></h1>
    <p>{{.SiteDescription}}</p>
  </header>
  {{if .Articles}}
  {{range .Articles}}
  <div class="card">
    <div class="card-header">
      {{if .Category}}<span class="category">{{.Category}}</span>{{end}}
      <span class="date">{{.Date}}</span>
      {{if .ReadingTime}}<span class="reading">約{{.ReadingTime}}分で読めます</span>{{end}}
    </div>
    <div class="title"><a href="/articles/{{.Slug}}">{{.Title}}</a></div>
    {{if .Excerpt}}<div class="excerpt">{{.Excerpt}}</div>{{end}}
    {{if .Tags}}<div class="tags">{{range .Tags}}<span class="tag">#{{.}}</span>{{end}}</div>{{end}}
  </div>
  {{end}}
  {{else}}
  <div class="empty">まだ記事がありません。</div>
  {{end}}
</div>
</body>
</html>`

var articleTmpl = template.Must(template.New("article").Parse(articleHTML))

const articleHTML = `<!DOCTYPE html>
<html lang="ja">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}} - {{.SiteTitle}}</title>
<meta name="description" content="{{.Excerpt}}">
<style>
  * { margin: 0; padding: 0; box-sizing: border-box; }
  body { font-family: -apple-system, BlinkMacSystemFont, "Hiragino Sans", "Segoe UI", sans-serif; background: #f5f5f5; color: #333; }
  .container { max-width: 760px; margin: 0 auto; padding: 20px; }
  .back { font-size: 14px; }
  .back a { color: #1a73e8; text-decoration: none; }
  article { background: #fff; border-radius: 8px; padding: 28px 32px; margin-top: 16px; box-shadow: 0 1px 3px rgba(0,0,0,0.08); }
  .meta { display: flex; align-items: baseline; gap: 10px; flex-wrap: wrap; margin-bottom: 10px; }
  .category { font-size: 12px; background: #e8f0fe; color: #1a73e8; padding: 2px 8px; border-radius: 4px; }
  .date, .reading { font-size: 12px; color: #aaa; }
  h1.title { font-size: 24px; line-height: 1.4; margin-bottom: 16px; }
  .hero { margin: 0 0 6px; }
  .hero img { width: 100%; border-radius: 8px; }
  .credit { font-size: 11px; color: #aaa; margin-bottom: 16px; }
  .tags { margin-top: 20px; }
  .tag { font-size: 12px; color: #888; margin-right: 8px; }
  .body { line-height: 1.9; font-size: 15px; }
  .body h2 { font-size: 20px; margin: 28px 0 12px; border-bottom: 1px solid #eee; padding-bottom: 6px; }
  .body h3 { font-size: 17px; margin: 22px 0 10px; }
  .body p { margin-bottom: 14px; }
  .body ul, .body ol { margin: 0 0 14px 24px; }
  .body pre { background: #f6f8fa; padding: 14px; border-radius: 6px; overflow-x: auto; margin-bottom: 14px; font-size: 13px; }
  .body code { background: #f6f8fa; padding: 1px 5px; border-radius: 4px; font-size: 13px; }
  .body pre code { padding: 0; }
  .body blockquote { border-left: 3px solid #ddd; padding-left: 14px; color: #777; margin-bottom: 14px; }
</style>
</head>
<body>
<div class="container">
  <div class="back"><a href="/">← 記事一覧に戻る</a></div>
  <article>
    <div class="meta">
      {{if .Category}}<span class="category">{{.Category}}</span>{{end}}
      <span class="date">{{.Date}}</span>
      {{if .ReadingTime}}<span class="reading">約{{.ReadingTime}}分で読めます</span>{{end}}
    </div>
    <h1 class="title">{{.Title}}</h1>
    {{if .Image}}
    <div class="hero"><img src="{{.Image}}" alt="{{.Title}}"></div>
    {{if .ImageCredit}}<div class="credit">Photo by {{.ImageCredit}}</div>{{end}}
    {{end}}
    <div class="body">{{.Body}}</div>
    {{if .Tags}}<div class="tags">{{range .Tags}}<span class="tag">#{{.}}</span>{{end}}</div>{{end}}
  </article>
</div>
</body>
</html>`

type homePage struct {
	SiteTitle       string
	SiteDescription string
	Articles        []articleCard
}

type articleCard struct {
	Slug        string
	Title       string
	Date        string
	Excerpt     string
	Category    string
	Tags        []string
	ReadingTime int
}

type articlePage struct {
	SiteTitle   string
	Title       string
	Date        string
	Excerpt     string
	Category    string
	Tags        []string
	Image       string
	ImageCredit string
	ReadingTime int
	Body        template.HTML
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	summaries, err := s.store.List()
	if err != nil {
		log.Printf("ERROR: list articles: %v", err)
		http.Error(w, "記事の読み込みに失敗しました", http.StatusInternalServerError)
		return
	}

	page := homePage{
		SiteTitle:       s.site.Title,
		SiteDescription: s.site.Description,
	}
	for _, sum := range summaries {
		page.Articles = append(page.Articles, articleCard{
			Slug:        sum.Slug,
			Title:       sum.Title,
			Date:        sum.Date,
			Excerpt:     sum.Excerpt,
			Category:    sum.Category,
			Tags:        sum.Tags,
			ReadingTime: sum.ReadingTime,
		})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := homeTmpl.Execute(w, page); err != nil {
		log.Printf("ERROR: render home: %v", err)
	}
}

func (s *Server) handleArticle(w http.ResponseWriter, r *http.Request) {
	slug := strings.TrimPrefix(r.URL.Path, "/articles/")
	if slug == "" || strings.Contains(slug, "/") {
		http.NotFound(w, r)
		return
	}

	art, err := s.store.Get(slug)
	if err != nil {
		log.Printf("ERROR: load article %s: %v", slug, err)
		http.Error(w, "記事の読み込みに失敗しました", http.StatusInternalServerError)
		return
	}
	if art == nil {
		http.NotFound(w, r)
		return
	}

	body, err := s.md.Render(art.Content)
	if err != nil {
		log.Printf("ERROR: render article %s: %v", slug, err)
		http.Error(w, "記事の表示に失敗しました", http.StatusInternalServerError)
		return
	}

	page := articlePage{
		SiteTitle:   s.site.Title,
		Title:       art.Title,
		Date:        art.Date,
		Excerpt:     art.Excerpt,
		Category:    art.Category,
		Tags:        art.Tags,
		Image:       art.Image,
		ImageCredit: art.ImageCredit,
		ReadingTime: art.ReadingTime(),
		Body:        body,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := articleTmpl.Execute(w, page); err != nil {
		log.Printf("ERROR: render article page: %v", err)
	}
}

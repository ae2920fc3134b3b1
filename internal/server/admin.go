package server

import (
	"encoding/json"
	"html/template"
	"log"
	"net/http"
	"strings"

	"github.com/ennekai/ennekai-lab/internal/article"
)

// JSON shapes of the admin CRUD API.

type apiListEntry struct {
	Slug     string   `json:"slug"`
	Title    string   `json:"title"`
	Date     string   `json:"date"`
	Category string   `json:"category"`
	Tags     []string `json:"tags"`
}

type apiArticle struct {
	Title    string   `json:"title"`
	Date     string   `json:"date"`
	Excerpt  string   `json:"excerpt"`
	Category string   `json:"category"`
	Tags     []string `json:"tags"`
	Image    string   `json:"image"`
	Content  string   `json:"content"`
}

type apiError struct {
	Error string `json:"error"`
}

type apiOK struct {
	Success bool `json:"success"`
}

// requireSession gates the JSON API: requests without a live session
// get a 401 and the handler must return.
func (s *Server) requireSession(w http.ResponseWriter, r *http.Request) bool {
	if !s.authenticated(r) {
		writeJSON(w, http.StatusUnauthorized, apiError{Error: "unauthorized"})
		return false
	}
	return true
}

// GET /api/admin/articles
func (s *Server) handleAPIList(w http.ResponseWriter, r *http.Request) {
	if !s.requireSession(w, r) {
		return
	}
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, apiError{Error: "method not allowed"})
		return
	}

	summaries, err := s.store.List()
	if err != nil {
		log.Printf("ERROR: list articles: %v", err)
		writeJSON(w, http.StatusInternalServerError, apiError{Error: "failed to list articles"})
		return
	}

	entries := make([]apiListEntry, 0, len(summaries))
	for _, sum := range summaries {
		entries = append(entries, apiListEntry{
			Slug:     sum.Slug,
			Title:    sum.Title,
			Date:     sum.Date,
			Category: sum.Category,
			Tags:     sum.Tags,
		})
	}
	writeJSON(w, http.StatusOK, entries)
}

// GET/PUT/DELETE /api/admin/articles/{slug}
func (s *Server) handleAPIArticle(w http.ResponseWriter, r *http.Request) {
	if !s.requireSession(w, r) {
		return
	}

	slug := strings.TrimPrefix(r.URL.Path, "/api/admin/articles/")
	if slug == "" || strings.Contains(slug, "/") {
		writeJSON(w, http.StatusNotFound, apiError{Error: "article not found"})
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.apiGetArticle(w, slug)
	case http.MethodPut:
		s.apiPutArticle(w, r, slug)
	case http.MethodDelete:
		s.apiDeleteArticle(w, slug)
	default:
		writeJSON(w, http.StatusMethodNotAllowed, apiError{Error: "method not allowed"})
	}
}

func (s *Server) apiGetArticle(w http.ResponseWriter, slug string) {
	art, err := s.store.Get(slug)
	if err != nil {
		log.Printf("ERROR: load article %s: %v", slug, err)
		writeJSON(w, http.StatusInternalServerError, apiError{Error: "failed to load article"})
		return
	}
	if art == nil {
		writeJSON(w, http.StatusNotFound, apiError{Error: "article not found"})
		return
	}
	writeJSON(w, http.StatusOK, apiArticle{
		Title:    art.Title,
		Date:     art.Date,
		Excerpt:  art.Excerpt,
		Category: art.Category,
		Tags:     art.Tags,
		Image:    art.Image,
		Content:  art.Content,
	})
}

// apiPutArticle fully replaces the document. When the request omits the
// image, the stored image URL and credit survive the edit, so editing
// text in the admin never loses the featured photo.
func (s *Server) apiPutArticle(w http.ResponseWriter, r *http.Request, slug string) {
	var body apiArticle
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, apiError{Error: "invalid request body"})
		return
	}

	existing, err := s.store.Get(slug)
	if err != nil {
		log.Printf("ERROR: load article %s: %v", slug, err)
		writeJSON(w, http.StatusInternalServerError, apiError{Error: "failed to load article"})
		return
	}

	image, credit := body.Image, ""
	if existing != nil {
		credit = existing.ImageCredit
		if image == "" {
			image = existing.Image
		} else if image != existing.Image {
			credit = ""
		}
	}

	art := &article.Article{
		Slug: slug,
		Meta: article.Meta{
			Title:       body.Title,
			Date:        body.Date,
			Excerpt:     body.Excerpt,
			Category:    body.Category,
			Tags:        body.Tags,
			Image:       image,
			ImageCredit: credit,
		},
		Content: body.Content,
	}
	art.Normalize()

	if err := s.store.Save(art); err != nil {
		log.Printf("ERROR: save article %s: %v", slug, err)
		writeJSON(w, http.StatusInternalServerError, apiError{Error: "failed to save article"})
		return
	}
	writeJSON(w, http.StatusOK, apiOK{Success: true})
}

func (s *Server) apiDeleteArticle(w http.ResponseWriter, slug string) {
	art, err := s.store.Get(slug)
	if err != nil {
		log.Printf("ERROR: load article %s: %v", slug, err)
		writeJSON(w, http.StatusInternalServerError, apiError{Error: "failed to load article"})
		return
	}
	if art == nil {
		writeJSON(w, http.StatusNotFound, apiError{Error: "article not found"})
		return
	}
	if err := s.store.Delete(slug); err != nil {
		log.Printf("ERROR: delete article %s: %v", slug, err)
		writeJSON(w, http.StatusInternalServerError, apiError{Error: "failed to delete article"})
		return
	}
	writeJSON(w, http.StatusOK, apiOK{Success: true})
}

// Admin HTML pages. The edit form talks to the JSON API from the
// browser, same as the original admin screens.

var adminTmpl = template.Must(template.New("admin").Parse(adminHTML))

const adminHTML = `<!DOCTYPE html>
<html lang="ja">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>記事管理 - {{.SiteTitle}}</title>
<style>
  * { margin: 0; padding: 0; box-sizing: border-box; }
  body { font-family: -apple-system, BlinkMacSystemFont, "Hiragino Sans", "Segoe UI", sans-serif; background: #f5f5f5; color: #333; }
  .container { max-width: 960px; margin: 0 auto; padding: 20px; }
  .bar { display: flex; justify-content: space-between; align-items: baseline; margin-bottom: 20px; }
  h1 { font-size: 22px; }
  .bar a { font-size: 13px; color: #1a73e8; text-decoration: none; margin-left: 12px; }
  table { width: 100%; border-collapse: collapse; background: #fff; border-radius: 8px; box-shadow: 0 1px 3px rgba(0,0,0,0.08); }
  th, td { text-align: left; padding: 10px 14px; border-bottom: 1px solid #eee; font-size: 14px; }
  th { color: #888; font-weight: 500; font-size: 12px; }
  td a { color: #1a1a1a; text-decoration: none; }
  td a:hover { color: #1a73e8; }
  .category { font-size: 12px; background: #e8f0fe; color: #1a73e8; padding: 2px 8px; border-radius: 4px; }
  button.del { background: none; border: 1px solid #c5221f; color: #c5221f; border-radius: 4px; padding: 3px 10px; font-size: 12px; cursor: pointer; }
  .empty { text-align: center; padding: 60px 20px; color: #999; }
</style>
</head>
<body>
<div class="container">
  <div class="bar">
    <h1>記事管理</h1>
    <div>
      <a href="/">サイトを見る</a>
      <a href="/logout">ログアウト</a>
    </div>
  </div>
  {{if .Articles}}
  <table>
    <tr><th>タイトル</th><th>日付</th><th>カテゴリ</th><th></th></tr>
    {{range .Articles}}
    <tr id="row-{{.Slug}}">
      <td><a href="/admin/articles/{{.Slug}}">{{.Title}}</a></td>
      <td>{{.Date}}</td>
      <td>{{if .Category}}<span class="category">{{.Category}}</span>{{end}}</td>
      <td><button class="del" data-slug="{{.Slug}}">削除</button></td>
    </tr>
    {{end}}
  </table>
  {{else}}
  <div class="empty">まだ記事がありません。</div>
  {{end}}
</div>
<script>
document.querySelectorAll('button.del').forEach(function (btn) {
  btn.addEventListener('click', function () {
    var slug = btn.dataset.slug;
    if (!confirm('この記事を削除しますか？')) return;
    fetch('/api/admin/articles/' + slug, { method: 'DELETE' }).then(function (res) {
      if (res.ok) document.getElementById('row-' + slug).remove();
      else alert('削除に失敗しました');
    });
  });
});
</script>
</body>
</html>`

var adminEditTmpl = template.Must(template.New("adminEdit").Parse(adminEditHTML))

const adminEditHTML = `<!DOCTYPE html>
<html lang="ja">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>記事を編集 - {{.SiteTitle}}</title>
<style>
  * { margin: 0; padding: 0; box-sizing: border-box; }
  body { font-family: -apple-system, BlinkMacSystemFont, "Hiragino Sans", "Segoe UI", sans-serif; background: #f5f5f5; color: #333; }
  .container { max-width: 860px; margin: 0 auto; padding: 20px; }
  .bar { display: flex; justify-content: space-between; align-items: baseline; margin-bottom: 20px; }
  h1 { font-size: 20px; }
  .bar a { font-size: 13px; color: #1a73e8; text-decoration: none; }
  form { background: #fff; border-radius: 8px; padding: 24px; box-shadow: 0 1px 3px rgba(0,0,0,0.08); }
  label { display: block; font-size: 13px; color: #666; margin: 14px 0 4px; }
  input, textarea { width: 100%; padding: 8px 10px; border: 1px solid #ccc; border-radius: 6px; font-size: 14px; font-family: inherit; }
  textarea#content { min-height: 420px; font-family: ui-monospace, monospace; font-size: 13px; line-height: 1.6; }
  button { margin-top: 18px; padding: 10px 24px; background: #1a73e8; color: #fff; border: none; border-radius: 6px; font-size: 14px; font-weight: 600; cursor: pointer; }
  .status { display: inline-block; margin-left: 12px; font-size: 13px; color: #188038; }
</style>
</head>
<body>
<div class="container">
  <div class="bar">
    <h1>記事を編集: {{.Slug}}</h1>
    <a href="/admin">← 一覧に戻る</a>
  </div>
  <form id="edit">
    <label for="title">タイトル</label>
    <input id="title" value="{{.Article.Title}}">
    <label for="date">日付</label>
    <input id="date" value="{{.Article.Date}}">
    <label for="category">カテゴリ</label>
    <input id="category" value="{{.Article.Category}}">
    <label for="tags">タグ（カンマ区切り）</label>
    <input id="tags" value="{{.TagsJoined}}">
    <label for="excerpt">概要</label>
    <input id="excerpt" value="{{.Article.Excerpt}}">
    <label for="image">画像URL</label>
    <input id="image" value="{{.Article.Image}}">
    <label for="content">本文（Markdown）</label>
    <textarea id="content">{{.Article.Content}}</textarea>
    <button type="submit">保存</button><span class="status" id="status"></span>
  </form>
</div>
<script>
document.getElementById('edit').addEventListener('submit', function (ev) {
  ev.preventDefault();
  var field = function (id) { return document.getElementById(id).value; };
  var tags = field('tags').split(',').map(function (t) { return t.trim(); }).filter(Boolean);
  fetch('/api/admin/articles/{{.Slug}}', {
    method: 'PUT',
    headers: { 'Content-Type': 'application/json' },
    body: JSON.stringify({
      title: field('title'), date: field('date'), category: field('category'),
      tags: tags, excerpt: field('excerpt'), image: field('image'), content: field('content')
    })
  }).then(function (res) {
    document.getElementById('status').textContent = res.ok ? '保存しました' : '保存に失敗しました';
  });
});
</script>
</body>
</html>`

type adminPage struct {
	SiteTitle string
	Articles  []apiListEntry
}

type adminEditPage struct {
	SiteTitle  string
	Slug       string
	Article    *article.Article
	TagsJoined string
}

func (s *Server) handleAdmin(w http.ResponseWriter, r *http.Request) {
	if !s.authenticated(r) {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	summaries, err := s.store.List()
	if err != nil {
		log.Printf("ERROR: list articles: %v", err)
		http.Error(w, "記事の読み込みに失敗しました", http.StatusInternalServerError)
		return
	}

	page := adminPage{SiteTitle: s.site.Title}
	for _, sum := range summaries {
		page.Articles = append(page.Articles, apiListEntry{
			Slug:     sum.Slug,
			Title:    sum.Title,
			Date:     sum.Date,
			Category: sum.Category,
		})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := adminTmpl.Execute(w, page); err != nil {
		log.Printf("ERROR: render admin: %v", err)
	}
}

func (s *Server) handleAdminEdit(w http.ResponseWriter, r *http.Request) {
	if !s.authenticated(r) {
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	slug := strings.TrimPrefix(r.URL.Path, "/admin/articles/")
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

	page := adminEditPage{
		SiteTitle:  s.site.Title,
		Slug:       slug,
		Article:    art,
		TagsJoined: strings.Join(art.Tags, ", "),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := adminEditTmpl.Execute(w, page); err != nil {
		log.Printf("ERROR: render edit page: %v", err)
	}
}

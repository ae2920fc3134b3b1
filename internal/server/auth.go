package server

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"html/template"
	"log"
	"net/http"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const (
	sessionCookie = "ennekai_session"
	sessionTTL    = 24 * time.Hour
)

// sessionStore keeps issued admin sessions in memory. Sessions do not
// survive a restart, which matches the at-most-one-admin use of this
// site.
type sessionStore struct {
	mu       sync.Mutex
	sessions map[string]time.Time // token -> expiry
}

func newSessionStore() *sessionStore {
	return &sessionStore{sessions: make(map[string]time.Time)}
}

func (st *sessionStore) create() string {
	buf := make([]byte, 32)
	rand.Read(buf)
	token := hex.EncodeToString(buf)

	st.mu.Lock()
	st.sessions[token] = time.Now().Add(sessionTTL)
	st.mu.Unlock()
	return token
}

func (st *sessionStore) valid(token string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()

	expiry, ok := st.sessions[token]
	if !ok {
		return false
	}
	if time.Now().After(expiry) {
		delete(st.sessions, token)
		return false
	}
	return true
}

func (st *sessionStore) destroy(token string) {
	st.mu.Lock()
	delete(st.sessions, token)
	st.mu.Unlock()
}

// authenticated reports whether the request carries a live admin session.
func (s *Server) authenticated(r *http.Request) bool {
	c, err := r.Cookie(sessionCookie)
	if err != nil {
		return false
	}
	return s.sessions.valid(c.Value)
}

// checkCredentials verifies the admin username and password. A bcrypt
// hash is preferred; the plain-text password is a development fallback
// used only when no hash is configured.
func (s *Server) checkCredentials(username, password string) bool {
	if subtle.ConstantTimeCompare([]byte(username), []byte(s.admin.Username)) != 1 {
		return false
	}
	if s.admin.PasswordHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(s.admin.PasswordHash), []byte(password)) == nil
	}
	if s.admin.Password != "" {
		return subtle.ConstantTimeCompare([]byte(password), []byte(s.admin.Password)) == 1
	}
	log.Println("WARN: admin login rejected: no password configured")
	return false
}

var loginTmpl = template.Must(template.New("login").Parse(loginHTML))

const loginHTML = `<!DOCTYPE html>
<html lang="ja">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>ログイン - {{.SiteTitle}}</title>
<style>
  * { margin: 0; padding: 0; box-sizing: border-box; }
  body { font-family: -apple-system, BlinkMacSystemFont, "Hiragino Sans", "Segoe UI", sans-serif; background: #f5f5f5; color: #333; }
  .box { max-width: 360px; margin: 80px auto; background: #fff; border-radius: 8px; padding: 32px; box-shadow: 0 1px 3px rgba(0,0,0,0.08); }
  h1 { font-size: 20px; margin-bottom: 20px; }
  label { display: block; font-size: 13px; color: #666; margin-bottom: 4px; }
  input { width: 100%; padding: 8px 10px; margin-bottom: 16px; border: 1px solid #ccc; border-radius: 6px; font-size: 14px; }
  button { width: 100%; padding: 10px; background: #1a73e8; color: #fff; border: none; border-radius: 6px; font-size: 14px; font-weight: 600; cursor: pointer; }
  .error { color: #c5221f; font-size: 13px; margin-bottom: 12px; }
</style>
</head>
<body>
<div class="box">
  <h1>管理者ログイン</h1>
  {{if .Error}}<div class="error">{{.Error}}</div>{{end}}
  <form method="post" action="/login">
    <label for="username">ユーザー名</label>
    <input id="username" name="username" type="text" autocomplete="username">
    <label for="password">パスワード</label>
    <input id="password" name="password" type="password" autocomplete="current-password">
    <button type="submit">ログイン</button>
  </form>
</div>
</body>
</html>`

type loginPage struct {
	SiteTitle string
	Error     string
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.renderLogin(w, "")
	case http.MethodPost:
		if !s.checkCredentials(r.FormValue("username"), r.FormValue("password")) {
			w.WriteHeader(http.StatusUnauthorized)
			s.renderLogin(w, "ユーザー名またはパスワードが正しくありません")
			return
		}
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    s.sessions.create(),
			Path:     "/",
			MaxAge:   int(sessionTTL.Seconds()),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		http.Redirect(w, r, "/admin", http.StatusFound)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) renderLogin(w http.ResponseWriter, errMsg string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := loginTmpl.Execute(w, loginPage{SiteTitle: s.site.Title, Error: errMsg}); err != nil {
		log.Printf("ERROR: render login: %v", err)
	}
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(sessionCookie); err == nil {
		s.sessions.destroy(c.Value)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	http.Redirect(w, r, "/login", http.StatusFound)
}

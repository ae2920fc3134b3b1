package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/ennekai/ennekai-lab/internal/article"
	"github.com/ennekai/ennekai-lab/internal/config"
	"github.com/ennekai/ennekai-lab/internal/render"
)

// Server serves the public blog and the session-gated admin surface.
type Server struct {
	store    *article.Store
	site     config.SiteConfig
	admin    config.AdminConfig
	md       *render.Markdown
	sessions *sessionStore
	srv      *http.Server
}

func New(store *article.Store, cfg *config.Config) *Server {
	s := &Server{
		store:    store,
		site:     cfg.Site,
		admin:    cfg.Admin,
		md:       render.NewMarkdown(),
		sessions: newSessionStore(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleHome)
	mux.HandleFunc("/articles/", s.handleArticle)
	mux.HandleFunc("/feed.xml", s.handleFeed)
	mux.HandleFunc("/health", s.handleHealth)

	mux.HandleFunc("/login", s.handleLogin)
	mux.HandleFunc("/logout", s.handleLogout)
	mux.HandleFunc("/admin", s.handleAdmin)
	mux.HandleFunc("/admin/articles/", s.handleAdminEdit)

	// JSON CRUD API
	mux.HandleFunc("/api/admin/articles", s.handleAPIList)
	mux.HandleFunc("/api/admin/articles/", s.handleAPIArticle)

	s.srv = &http.Server{
		Addr:    cfg.Site.Addr,
		Handler: mux,
	}
	return s
}

// Handler exposes the routing table for tests.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// Start begins listening. It blocks until the server is shut down.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.srv.Addr, err)
	}
	log.Printf("HTTP server listening on %s", ln.Addr())

	go func() {
		<-ctx.Done()
		s.Shutdown()
	}()

	if err := s.srv.Serve(ln); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.srv.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("ERROR: encode response: %v", err)
	}
}

package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/ennekai/ennekai-lab/internal/ai"
	"github.com/ennekai/ennekai-lab/internal/article"
	"github.com/ennekai/ennekai-lab/internal/config"
	"github.com/ennekai/ennekai-lab/internal/generator"
	"github.com/ennekai/ennekai-lab/internal/images"
	"github.com/ennekai/ennekai-lab/internal/notify"
	"github.com/ennekai/ennekai-lab/internal/notify/telegram"
	"github.com/ennekai/ennekai-lab/internal/scheduler"
	"github.com/ennekai/ennekai-lab/internal/server"
)

const configPath = "ennekai.yaml"

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	if os.Args[1] == "hash-password" {
		cmdHashPassword()
		return
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	store, err := article.NewStore(cfg.Site.ContentDir)
	if err != nil {
		log.Fatalf("Failed to open article store: %v", err)
	}
	defer store.Close()

	switch os.Args[1] {
	case "serve":
		cmdServe(store, cfg)
	case "generate":
		cmdGenerate(store, cfg)
	case "run":
		cmdRun(store, cfg)
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: ennekai-lab <command>

Commands:
  serve                 Start the blog HTTP server
  generate              Generate one article now and exit
  run                   Start server plus the daily generation scheduler
  hash-password <pass>  Print a bcrypt hash for ADMIN_PASSWORD_HASH
`)
}

func cmdServe(store *article.Store, cfg *config.Config) {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	srv := server.New(store, cfg)
	if err := srv.Start(ctx); err != nil {
		log.Fatalf("HTTP server error: %v", err)
	}
}

func cmdGenerate(store *article.Store, cfg *config.Config) {
	pipe, err := newPipeline(store, cfg)
	if err != nil {
		log.Fatalf("Failed to build generator: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	slug, err := pipe.Run(ctx)
	if err != nil {
		log.Fatalf("Generation failed: %v", err)
	}
	fmt.Printf("Generated article: %s\n", slug)
}

func cmdRun(store *article.Store, cfg *config.Config) {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	pipe, err := newPipeline(store, cfg)
	if err != nil {
		log.Fatalf("Failed to build generator: %v", err)
	}

	// Start HTTP server in background
	srv := server.New(store, cfg)
	go func() {
		if err := srv.Start(ctx); err != nil {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	var notifier notify.Notifier
	if tg := telegram.New(cfg.Telegram.BotToken, cfg.Telegram.ChatID); tg != nil {
		notifier = tg
	}

	// Cron scheduler blocks until ctx is cancelled
	if err := scheduler.Run(ctx, cfg.Schedule, pipe.Run, notifier); err != nil {
		log.Fatalf("Scheduler error: %v", err)
	}
}

func newPipeline(store *article.Store, cfg *config.Config) (*generator.Pipeline, error) {
	llm, err := ai.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL)
	if err != nil {
		return nil, err
	}

	var providers []images.Provider
	if u := images.NewUnsplash(cfg.Images.UnsplashAccessKey); u != nil {
		providers = append(providers, u)
	}
	if p := images.NewPexels(cfg.Images.PexelsAPIKey); p != nil {
		providers = append(providers, p)
	}
	if len(providers) == 0 {
		log.Println("WARN: no image providers configured, articles will have no featured image")
	}
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	fetcher := images.NewFetcher(rng, providers...)

	return generator.New(cfg, llm, store, fetcher), nil
}

func cmdHashPassword() {
	if len(os.Args) < 3 {
		log.Fatal("Usage: ennekai-lab hash-password <password>")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(os.Args[2]), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}
	fmt.Println(string(hash))
}

package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/ennekai/ennekai-lab/internal/config"
	"github.com/ennekai/ennekai-lab/internal/notify"
	"github.com/robfig/cron/v3"
)

// RunFunc executes one full generation pass and returns the new
// article's slug.
type RunFunc func(ctx context.Context) (string, error)

// Run starts a cron scheduler in the configured timezone and invokes
// the generation pass on every tick. It blocks until ctx is cancelled.
// A failed run is logged (and reported via notifier when configured)
// but never crashes the process or cancels future ticks.
func Run(ctx context.Context, cfg config.ScheduleConfig, run RunFunc, notifier notify.Notifier) error {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return fmt.Errorf("load timezone %q: %w", cfg.Timezone, err)
	}

	if cfg.RunOnStart {
		log.Println("Running initial generation...")
		runOnce(ctx, run, notifier)
	}

	c := cron.New(cron.WithLocation(loc))
	if _, err := c.AddFunc(cfg.Cron, func() {
		runOnce(ctx, run, notifier)
	}); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", cfg.Cron, err)
	}

	c.Start()
	log.Printf("Scheduler started: %s (%s)", cfg.Cron, cfg.Timezone)

	<-ctx.Done()
	c.Stop()
	return nil
}

func runOnce(ctx context.Context, run RunFunc, notifier notify.Notifier) {
	log.Println("Starting scheduled article generation...")

	slug, err := run(ctx)
	if err != nil {
		log.Printf("ERROR: generation run: %v", err)
		send(ctx, notifier, "記事生成に失敗しました", err.Error())
		return
	}

	log.Printf("Generated article: %s", slug)
	send(ctx, notifier, "新しい記事を公開しました", "/articles/"+slug)
}

func send(ctx context.Context, notifier notify.Notifier, title, body string) {
	if notifier == nil {
		return
	}
	if err := notifier.Send(ctx, title, body); err != nil {
		log.Printf("WARN: notify: %v", err)
	}
}

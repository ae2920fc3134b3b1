package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.OpenAI.TopicModel != "gpt-4o-mini" || cfg.OpenAI.ContentModel != "gpt-4o" {
		t.Errorf("models = %q / %q", cfg.OpenAI.TopicModel, cfg.OpenAI.ContentModel)
	}
	if cfg.Site.Addr != ":8080" || cfg.Site.ContentDir != "content/articles" {
		t.Errorf("site = %+v", cfg.Site)
	}
	if cfg.Site.TopicLog != "content/topics-log.json" {
		t.Errorf("topic log = %q", cfg.Site.TopicLog)
	}
	if cfg.Schedule.Cron != "0 8 * * *" || cfg.Schedule.Timezone != "Asia/Tokyo" {
		t.Errorf("schedule = %+v", cfg.Schedule)
	}
	if cfg.Generator.MinChars != 4000 || cfg.Generator.MaxChars != 5000 {
		t.Errorf("char range = %d-%d", cfg.Generator.MinChars, cfg.Generator.MaxChars)
	}
	if len(cfg.Generator.Categories) == 0 || len(cfg.Generator.TrendKeywords) == 0 ||
		len(cfg.Generator.Sources) == 0 || len(cfg.Generator.ArticleCategories) == 0 {
		t.Error("default pools not filled")
	}
}

func TestLoadYAMLOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ennekai.yaml")
	yaml := `
site:
  title: テストブログ
  addr: ":9090"
generator:
  min_chars: 1000
  max_chars: 2000
  categories:
    - カスタム
schedule:
  cron: "30 9 * * *"
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Site.Title != "テストブログ" || cfg.Site.Addr != ":9090" {
		t.Errorf("site = %+v", cfg.Site)
	}
	if cfg.Generator.MinChars != 1000 || cfg.Generator.MaxChars != 2000 {
		t.Errorf("char range = %d-%d", cfg.Generator.MinChars, cfg.Generator.MaxChars)
	}
	if len(cfg.Generator.Categories) != 1 || cfg.Generator.Categories[0] != "カスタム" {
		t.Errorf("categories = %v", cfg.Generator.Categories)
	}
	if cfg.Schedule.Cron != "30 9 * * *" {
		t.Errorf("cron = %q", cfg.Schedule.Cron)
	}
	// Unset fields still default.
	if cfg.Site.BaseURL != "https://ennekai-lab.com" {
		t.Errorf("base url = %q", cfg.Site.BaseURL)
	}
}

func TestEnvOverridesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ennekai.yaml")
	yaml := `
openai:
  api_key: from-yaml
admin:
  username: yaml-admin
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	t.Setenv("OPENAI_API_KEY", "from-env")
	t.Setenv("ADMIN_USERNAME", "env-admin")
	t.Setenv("GENERATION_TIME", "15 7 * * *")
	t.Setenv("GENERATION_RUN_ON_START", "true")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.OpenAI.APIKey != "from-env" {
		t.Errorf("api key = %q", cfg.OpenAI.APIKey)
	}
	if cfg.Admin.Username != "env-admin" {
		t.Errorf("username = %q", cfg.Admin.Username)
	}
	if cfg.Schedule.Cron != "15 7 * * *" || !cfg.Schedule.RunOnStart {
		t.Errorf("schedule = %+v", cfg.Schedule)
	}
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := `
# comment line
PEXELS_API_KEY=px-123
TG_BOT_TOKEN="quoted-token"
ALREADY_SET_VAR=from-file
malformed line without equals
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	t.Setenv("PEXELS_API_KEY", "")
	t.Setenv("TG_BOT_TOKEN", "")
	t.Setenv("ALREADY_SET_VAR", "from-process")

	loadEnvFile(path)

	if got := os.Getenv("PEXELS_API_KEY"); got != "px-123" {
		t.Errorf("PEXELS_API_KEY = %q", got)
	}
	if got := os.Getenv("TG_BOT_TOKEN"); got != "quoted-token" {
		t.Errorf("TG_BOT_TOKEN = %q (quotes should be stripped)", got)
	}
	// Process environment wins over the file.
	if got := os.Getenv("ALREADY_SET_VAR"); got != "from-process" {
		t.Errorf("ALREADY_SET_VAR = %q", got)
	}
}

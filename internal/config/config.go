package config

import (
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	OpenAI    OpenAIConfig    `yaml:"openai"`
	Images    ImagesConfig    `yaml:"images"`
	Admin     AdminConfig     `yaml:"admin"`
	Site      SiteConfig      `yaml:"site"`
	Generator GeneratorConfig `yaml:"generator"`
	Schedule  ScheduleConfig  `yaml:"schedule"`
	Telegram  TelegramConfig  `yaml:"telegram"`
}

type OpenAIConfig struct {
	APIKey       string `yaml:"api_key"`
	BaseURL      string `yaml:"base_url"`
	TopicModel   string `yaml:"topic_model"`
	ContentModel string `yaml:"content_model"`
}

type ImagesConfig struct {
	UnsplashAccessKey string `yaml:"unsplash_access_key"`
	PexelsAPIKey      string `yaml:"pexels_api_key"`
}

type AdminConfig struct {
	Username     string `yaml:"username"`
	PasswordHash string `yaml:"password_hash"`
	// Password is a plain-text fallback for local development,
	// consulted only when no hash is configured.
	Password string `yaml:"password"`
}

type SiteConfig struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	BaseURL     string `yaml:"base_url"`
	Addr        string `yaml:"addr"`
	ContentDir  string `yaml:"content_dir"`
	TopicLog    string `yaml:"topic_log"`
}

type GeneratorConfig struct {
	Categories    []string `yaml:"categories"`
	TrendKeywords []string `yaml:"trend_keywords"`
	Sources       []string `yaml:"sources"`
	// ArticleCategories is the closed set the content model may assign.
	ArticleCategories []string `yaml:"article_categories"`
	MinChars          int      `yaml:"min_chars"`
	MaxChars          int      `yaml:"max_chars"`
	TrendFeeds        []string `yaml:"trend_feeds"`
}

type ScheduleConfig struct {
	Cron       string `yaml:"cron"`
	Timezone   string `yaml:"timezone"`
	RunOnStart bool   `yaml:"run_on_start"`
}

type TelegramConfig struct {
	BotToken string `yaml:"bot_token"`
	ChatID   string `yaml:"chat_id"`
}

// Topic categories the proposer rotates through.
var defaultCategories = []string{
	"大規模言語モデル（LLM）",
	"画像生成AI",
	"AIチャットボット",
	"機械学習の実践",
	"AIツール・サービス",
	"AI開発フレームワーク",
	"AIと倫理・規制",
	"AI活用ビジネス事例",
	"AIエージェント",
	"音声認識・合成AI",
	"コンピュータビジョン",
	"AIの最新研究",
	"ローカルLLM",
	"RAG・検索拡張生成",
	"AIプロンプトエンジニアリング",
	"マルチモーダルAI",
	"AI自動化・RPA",
	"AIセキュリティ",
	"エッジAI",
	"強化学習",
}

var defaultTrendKeywords = []string{
	"GPT-4o", "Claude 3.5", "Gemini 2.0", "Llama 3", "Mistral",
	"DALL-E 3", "Midjourney V6", "Stable Diffusion 3", "Flux",
	"RAG", "ファインチューニング", "プロンプトエンジニアリング",
	"AIエージェント", "AutoGPT", "CrewAI", "LangChain", "LlamaIndex",
	"Ollama", "vLLM", "ローカルLLM",
	"マルチモーダル", "Vision-Language Model",
	"AI規制", "AI倫理", "AI安全性",
	"AIコーディング", "Cursor", "GitHub Copilot", "Devin",
	"Text-to-Speech", "Speech-to-Text", "ElevenLabs",
	"AI動画生成", "Sora", "Runway", "Pika",
	"リアルタイムAI", "エッジAI", "オンデバイスAI",
}

var defaultSources = []string{
	"OpenAI公式ブログ",
	"Google AI Blog",
	"Anthropic公式ニュース",
	"arXivの注目論文",
	"Hacker Newsの話題",
	"Hugging Faceのトレンドモデル",
	"GitHub Trendingの人気リポジトリ",
	"日経クロステックのAI特集",
	"QiitaやZennの技術記事",
}

var defaultArticleCategories = []string{
	"AI技術", "機械学習", "LLM", "画像生成AI", "AIツール",
}

// Load reads the YAML config at path, fills in defaults, and applies
// environment-variable overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	loadEnvFile(".env")

	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	fillDefaults(cfg)
	applyEnv(cfg)
	return cfg, nil
}

func fillDefaults(cfg *Config) {
	if cfg.OpenAI.TopicModel == "" {
		cfg.OpenAI.TopicModel = "gpt-4o-mini"
	}
	if cfg.OpenAI.ContentModel == "" {
		cfg.OpenAI.ContentModel = "gpt-4o"
	}
	if cfg.Admin.Username == "" {
		cfg.Admin.Username = "admin"
	}
	if cfg.Site.Title == "" {
		cfg.Site.Title = "ennekai Lab"
	}
	if cfg.Site.Description == "" {
		cfg.Site.Description = "AI技術の最新情報をお届けするブログ"
	}
	if cfg.Site.BaseURL == "" {
		cfg.Site.BaseURL = "https://ennekai-lab.com"
	}
	if cfg.Site.Addr == "" {
		cfg.Site.Addr = ":8080"
	}
	if cfg.Site.ContentDir == "" {
		cfg.Site.ContentDir = "content/articles"
	}
	if cfg.Site.TopicLog == "" {
		cfg.Site.TopicLog = "content/topics-log.json"
	}
	if len(cfg.Generator.Categories) == 0 {
		cfg.Generator.Categories = defaultCategories
	}
	if len(cfg.Generator.TrendKeywords) == 0 {
		cfg.Generator.TrendKeywords = defaultTrendKeywords
	}
	if len(cfg.Generator.Sources) == 0 {
		cfg.Generator.Sources = defaultSources
	}
	if len(cfg.Generator.ArticleCategories) == 0 {
		cfg.Generator.ArticleCategories = defaultArticleCategories
	}
	if cfg.Generator.MinChars == 0 {
		cfg.Generator.MinChars = 4000
	}
	if cfg.Generator.MaxChars == 0 {
		cfg.Generator.MaxChars = 5000
	}
	if cfg.Schedule.Cron == "" {
		cfg.Schedule.Cron = "0 8 * * *"
	}
	if cfg.Schedule.Timezone == "" {
		cfg.Schedule.Timezone = "Asia/Tokyo"
	}
}

// applyEnv overrides config fields with environment variables when set.
// Env vars take precedence over YAML config values.
func applyEnv(cfg *Config) {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.OpenAI.APIKey = v
	}
	if v := os.Getenv("OPENAI_BASE_URL"); v != "" {
		cfg.OpenAI.BaseURL = v
	}
	if v := os.Getenv("UNSPLASH_ACCESS_KEY"); v != "" {
		cfg.Images.UnsplashAccessKey = v
	}
	if v := os.Getenv("PEXELS_API_KEY"); v != "" {
		cfg.Images.PexelsAPIKey = v
	}
	if v := os.Getenv("ADMIN_USERNAME"); v != "" {
		cfg.Admin.Username = v
	}
	if v := os.Getenv("ADMIN_PASSWORD_HASH"); v != "" {
		cfg.Admin.PasswordHash = v
	}
	if v := os.Getenv("ADMIN_PASSWORD"); v != "" {
		cfg.Admin.Password = v
	}
	if v := os.Getenv("GENERATION_TIME"); v != "" {
		cfg.Schedule.Cron = v
	}
	if v := os.Getenv("GENERATION_RUN_ON_START"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Schedule.RunOnStart = b
		}
	}
	if v := os.Getenv("TG_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TG_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
}

// loadEnvFile reads a .env file and sets environment variables
// that are not already set in the process environment.
func loadEnvFile(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, val, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		val = strings.TrimSpace(val)
		val = strings.Trim(val, `"'`)
		// Only set if not already in environment
		if os.Getenv(key) == "" {
			os.Setenv(key, val)
		}
	}
}

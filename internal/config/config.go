package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	configPathEnv     = "NARRATIVE_SCANNER_CONFIG"
	databaseDSNEnv    = "DATABASE_DSN"
	openAIKeyEnv      = "OPENAI_API_KEY"
	openAIModelEnv    = "OPENAI_MODEL"
	telegramTokenEnv  = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv = "TELEGRAM_CHAT_ID"
	ingestLocationEnv = "ARTICLE_EXPORT_URL"
	classifierURLEnv  = "CLASSIFIER_INFERENCE_URL"
	classifierKeyEnv  = "CLASSIFIER_API_KEY"
	renderEndpointEnv = "RENDER_ENDPOINT"
	defaultExportURL  = "https://raw.githubusercontent.com/hanna-tes/CfA-media-narrtives-monitoring/refs/heads/main/south-africa-or-nigeria-or-all-story-urls-20250828145206.csv"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging    LoggingConfig    `yaml:"logging"`
	Ingest     IngestConfig     `yaml:"ingest"`
	Fetcher    FetcherConfig    `yaml:"fetcher"`
	Summarizer SummarizerConfig `yaml:"summarizer"`
	Classifier ClassifierConfig `yaml:"classifier"`
	Database   DatabaseConfig   `yaml:"database"`
	Telegram   TelegramConfig   `yaml:"telegram"`
	Scheduler  SchedulerConfig  `yaml:"scheduler"`
}

// LoggingConfig controls slog verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// IngestConfig locates the story-URL CSV export (path or URL).
type IngestConfig struct {
	Location string `yaml:"location"`
}

// FetcherConfig selects the scraping backend and its retry budget.
type FetcherConfig struct {
	Strategy       string        `yaml:"strategy"` // "http" or "rendered"
	RenderEndpoint string        `yaml:"renderEndpoint"`
	MaxRetries     int           `yaml:"maxRetries"`
	BaseDelay      time.Duration `yaml:"baseDelay"`
	Timeout        time.Duration `yaml:"timeout"`
	Workers        int           `yaml:"workers"`
	SkipFetch      bool          `yaml:"skipFetch"`
}

// SummarizerConfig wires the optional OpenAI summarization stage.
type SummarizerConfig struct {
	APIKey    string `yaml:"apiKey"`
	Model     string `yaml:"model"`
	BaseURL   string `yaml:"baseUrl"`
	MinLength int    `yaml:"minLength"`
}

// ClassifierConfig points at an optional remote label-inference service;
// when empty, the built-in keyword scorer is used.
type ClassifierConfig struct {
	InferenceURL string `yaml:"inferenceUrl"`
	APIKey       string `yaml:"apiKey"`
}

// DatabaseConfig describes the optional Postgres dataset sink.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// TelegramConfig wires the per-batch report channel.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
}

// SchedulerConfig defines how often the pipeline re-runs; zero means a
// single batch per invocation.
type SchedulerConfig struct {
	Interval time.Duration `yaml:"interval"`
}

// Load reads .env, then YAML configuration (if present), then applies
// environment overrides.
func Load() Config {
	_ = godotenv.Load()

	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv(openAIKeyEnv); v != "" {
		c.Summarizer.APIKey = v
	}
	if v := os.Getenv(openAIModelEnv); v != "" {
		c.Summarizer.Model = v
	}
	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv(telegramChatIDEnv); v != "" {
		c.Telegram.ChatID = v
	}
	if v := os.Getenv(ingestLocationEnv); v != "" {
		c.Ingest.Location = v
	}
	if v := os.Getenv(classifierURLEnv); v != "" {
		c.Classifier.InferenceURL = v
	}
	if v := os.Getenv(classifierKeyEnv); v != "" {
		c.Classifier.APIKey = v
	}
	if v := os.Getenv(renderEndpointEnv); v != "" {
		c.Fetcher.RenderEndpoint = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Ingest.Location != "" {
		base.Ingest.Location = override.Ingest.Location
	}

	if override.Fetcher.Strategy != "" {
		base.Fetcher.Strategy = override.Fetcher.Strategy
	}
	if override.Fetcher.RenderEndpoint != "" {
		base.Fetcher.RenderEndpoint = override.Fetcher.RenderEndpoint
	}
	if override.Fetcher.MaxRetries > 0 {
		base.Fetcher.MaxRetries = override.Fetcher.MaxRetries
	}
	if override.Fetcher.BaseDelay > 0 {
		base.Fetcher.BaseDelay = override.Fetcher.BaseDelay
	}
	if override.Fetcher.Timeout > 0 {
		base.Fetcher.Timeout = override.Fetcher.Timeout
	}
	if override.Fetcher.Workers > 0 {
		base.Fetcher.Workers = override.Fetcher.Workers
	}
	if override.Fetcher.SkipFetch {
		base.Fetcher.SkipFetch = true
	}

	if override.Summarizer.APIKey != "" {
		base.Summarizer.APIKey = override.Summarizer.APIKey
	}
	if override.Summarizer.Model != "" {
		base.Summarizer.Model = override.Summarizer.Model
	}
	if override.Summarizer.BaseURL != "" {
		base.Summarizer.BaseURL = override.Summarizer.BaseURL
	}
	if override.Summarizer.MinLength > 0 {
		base.Summarizer.MinLength = override.Summarizer.MinLength
	}

	if override.Classifier.InferenceURL != "" {
		base.Classifier.InferenceURL = override.Classifier.InferenceURL
	}
	if override.Classifier.APIKey != "" {
		base.Classifier.APIKey = override.Classifier.APIKey
	}

	if override.Database.DSN != "" {
		base.Database.DSN = override.Database.DSN
	}
	if override.Telegram.BotToken != "" {
		base.Telegram.BotToken = override.Telegram.BotToken
	}
	if override.Telegram.ChatID != "" {
		base.Telegram.ChatID = override.Telegram.ChatID
	}
	if override.Scheduler.Interval > 0 {
		base.Scheduler.Interval = override.Scheduler.Interval
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Logging: LoggingConfig{Level: "info"},
		Ingest:  IngestConfig{Location: defaultExportURL},
		Fetcher: FetcherConfig{
			Strategy:   "http",
			MaxRetries: 3,
			BaseDelay:  time.Second,
			Timeout:    15 * time.Second,
			Workers:    4,
		},
		Summarizer: SummarizerConfig{
			Model:     "gpt-4o-mini",
			MinLength: 150,
		},
	}
}

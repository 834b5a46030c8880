package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone        = "UTC"
	defaultTimeoutSeconds  = 30.0
	defaultIntervalSeconds = 1.0
	defaultConcurrency     = 3

	configPathEnv    = "CONTENT_RADAR_CONFIG"
	databaseDSNEnv   = "DATABASE_DSN"
	telegramTokenEnv = "TELEGRAM_BOT_TOKEN"
	telegramChatEnv  = "TELEGRAM_CHAT_ID"
	githubTokenEnv   = "GITHUB_TOKEN"
	githubRepoEnv    = "GITHUB_REPO"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging       LoggingConfig      `yaml:"logging"`
	Database      DatabaseConfig     `yaml:"database"`
	Fetcher       FetcherConfig      `yaml:"fetcher"`
	Pipeline      PipelineConfig     `yaml:"pipeline"`
	Scheduler     SchedulerConfig    `yaml:"scheduler"`
	Notifications NotificationConfig `yaml:"notifications"`
	GitHub        GitHubConfig       `yaml:"github"`
	Providers     []ProviderConfig   `yaml:"providers"`
}

// LoggingConfig selects the slog level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DatabaseConfig describes Postgres connection details.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// FetcherConfig tunes the shared rate-limited page fetcher.
type FetcherConfig struct {
	TimeoutSeconds  float64 `yaml:"timeoutSeconds"`
	IntervalSeconds float64 `yaml:"intervalSeconds"`
}

// Timeout resolves the HTTP client timeout, defaulting to 30s.
func (f FetcherConfig) Timeout() time.Duration {
	if f.TimeoutSeconds <= 0 {
		return time.Duration(defaultTimeoutSeconds * float64(time.Second))
	}
	return time.Duration(f.TimeoutSeconds * float64(time.Second))
}

// Interval resolves the minimum inter-request interval, defaulting to 1s.
func (f FetcherConfig) Interval() time.Duration {
	if f.IntervalSeconds <= 0 {
		return time.Duration(defaultIntervalSeconds * float64(time.Second))
	}
	return time.Duration(f.IntervalSeconds * float64(time.Second))
}

// PipelineConfig bounds how many provider pipelines run at once.
type PipelineConfig struct {
	Concurrency int `yaml:"concurrency"`
}

// Limit resolves the provider admission gate, defaulting to 3.
func (p PipelineConfig) Limit() int {
	if p.Concurrency <= 0 {
		return defaultConcurrency
	}
	return p.Concurrency
}

// SchedulerConfig defines when discovery runs execute. EveryHours of zero
// means a single run.
type SchedulerConfig struct {
	EveryHours int            `yaml:"everyHours"`
	Timezone   string         `yaml:"timezone"`
	location   *time.Location `yaml:"-"`
}

// Every resolves the run cadence.
func (s SchedulerConfig) Every() time.Duration {
	if s.EveryHours <= 0 {
		return 0
	}
	return time.Duration(s.EveryHours) * time.Hour
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// NotificationConfig encapsulates outbound channels (Telegram, etc.).
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig wires all data required to send messages.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
}

// GitHubConfig enables issue filing for failed providers.
type GitHubConfig struct {
	Token string `yaml:"token"`
	Repo  string `yaml:"repo"` // owner/name
}

// ProviderConfig describes a single content provider. Element is either a
// plain selector/tag string or a JSON object with container,
// title_selector and date_selector keys.
type ProviderConfig struct {
	Name     string `yaml:"name"`
	URL      string `yaml:"url"`
	Strategy string `yaml:"strategy"`
	Element  string `yaml:"element"`
}

// Load reads .env, YAML configuration (if present) and applies
// environment overrides.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("config: cannot load .env: %v", err)
	}

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
	cfg.bindTimezone()

	if len(cfg.Providers) == 0 {
		cfg.Providers = defaultConfig().Providers
	}

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}

	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}

	if v := os.Getenv(telegramChatEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}

	if v := os.Getenv(githubTokenEnv); v != "" {
		c.GitHub.Token = v
	}

	if v := os.Getenv(githubRepoEnv); v != "" {
		c.GitHub.Repo = v
	}
}

func (c *Config) bindTimezone() {
	tz := c.Scheduler.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Scheduler.location = loc
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging = override.Logging
	}

	if override.Database.DSN != "" {
		base.Database = override.Database
	}

	if override.Fetcher.TimeoutSeconds > 0 {
		base.Fetcher.TimeoutSeconds = override.Fetcher.TimeoutSeconds
	}
	if override.Fetcher.IntervalSeconds > 0 {
		base.Fetcher.IntervalSeconds = override.Fetcher.IntervalSeconds
	}

	if override.Pipeline.Concurrency > 0 {
		base.Pipeline = override.Pipeline
	}

	if override.Scheduler.EveryHours > 0 {
		base.Scheduler.EveryHours = override.Scheduler.EveryHours
	}
	if override.Scheduler.Timezone != "" {
		base.Scheduler.Timezone = override.Scheduler.Timezone
	}

	if override.Notifications.Telegram.BotToken != "" {
		base.Notifications.Telegram.BotToken = override.Notifications.Telegram.BotToken
	}
	if override.Notifications.Telegram.ChatID != "" {
		base.Notifications.Telegram.ChatID = override.Notifications.Telegram.ChatID
	}

	if override.GitHub.Token != "" {
		base.GitHub.Token = override.GitHub.Token
	}
	if override.GitHub.Repo != "" {
		base.GitHub.Repo = override.GitHub.Repo
	}

	if len(override.Providers) > 0 {
		base.Providers = override.Providers
	}

	return base
}

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Logging:  LoggingConfig{Level: "info"},
		Database: DatabaseConfig{DSN: ""},
		Fetcher: FetcherConfig{
			TimeoutSeconds:  defaultTimeoutSeconds,
			IntervalSeconds: defaultIntervalSeconds,
		},
		Pipeline:  PipelineConfig{Concurrency: defaultConcurrency},
		Scheduler: SchedulerConfig{EveryHours: 0, Timezone: defaultTimezone, location: tz},
		Providers: []ProviderConfig{
			{
				Name:     "freeCodeCamp",
				URL:      "https://www.freecodecamp.org/news/rss/",
				Strategy: "rss",
			},
			{
				Name:     "GitHub",
				URL:      "https://github.blog/engineering/",
				Strategy: "html",
				Element:  `{"container": "article"}`,
			},
			{
				Name:     "Shopify",
				URL:      "https://shopify.engineering/",
				Strategy: "html",
				Element:  "article",
			},
			{
				Name:     "Stripe",
				URL:      "https://stripe.com/blog/engineering",
				Strategy: "html",
				Element:  `{"container": ".BlogIndexPost", "title_selector": ".BlogIndexPost__title"}`,
			},
			{
				Name:     "Substack",
				URL:      "https://blog.bytebytego.com/archive",
				Strategy: "substack",
				Element:  "portable-archive-post",
			},
		},
	}
}

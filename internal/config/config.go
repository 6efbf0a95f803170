package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	OpenAIAPIKey  string        `env:"OPENAI_API_KEY,required,notEmpty"`
	OpenAIModel   string        `env:"OPENAI_MODEL"           envDefault:"gpt-4.1-mini"`
	OpenAIBaseURL string        `env:"OPENAI_BASE_URL"`
	OpenAITimeout time.Duration `env:"OPENAI_TIMEOUT"         envDefault:"60s"`

	NewsAPIKey        string        `env:"NEWS_API_KEY"`
	NewsAPIURL        string        `env:"NEWS_API_URL"        envDefault:"https://newsapi.org/v2/everything"`
	GoogleNewsRSSURL  string        `env:"GOOGLE_NEWS_RSS_URL" envDefault:"https://news.google.com/rss/search"`
	NewsLanguage      string        `env:"NEWS_LANGUAGE"       envDefault:"en"`
	NewsTimeout       time.Duration `env:"NEWS_TIMEOUT"        envDefault:"10s"`
	NewsRetryAttempts int           `env:"NEWS_RETRY_ATTEMPTS" envDefault:"1"`

	ArticleLimit         int `env:"ARTICLE_LIMIT"          envDefault:"4"`
	ArticleMaxChars      int `env:"ARTICLE_MAX_CHARS"      envDefault:"2000"`
	ConsolidatedMaxChars int `env:"CONSOLIDATED_MAX_CHARS" envDefault:"12000"`

	ExtractTimeout     time.Duration `env:"EXTRACT_TIMEOUT"     envDefault:"15s"`
	ExtractBudget      time.Duration `env:"EXTRACT_BUDGET"      envDefault:"30s"`
	ExtractConcurrency int           `env:"EXTRACT_CONCURRENCY" envDefault:"4"`

	HTTPAddr           string        `env:"HTTP_ADDR"            envDefault:":8000"`
	HTTPRequestTimeout time.Duration `env:"HTTP_REQUEST_TIMEOUT" envDefault:"120s"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	Token        string  `env:"TOKEN"`
	AllowedUsers []int64 `env:"ALLOWED_USERS"`

	DigestSchedule string   `env:"DIGEST_SCHEDULE" envDefault:"0 8 * * *"`
	DigestTopics   []string `env:"DIGEST_TOPICS"`
	DigestChatIDs  []int64  `env:"DIGEST_CHAT_IDS"`
}

func LoadConfig() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if err = cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) validate() error {
	switch {
	case c.ArticleLimit <= 0:
		return fmt.Errorf("ARTICLE_LIMIT must be positive (got %d)", c.ArticleLimit)
	case c.ArticleMaxChars <= 0:
		return fmt.Errorf("ARTICLE_MAX_CHARS must be positive (got %d)", c.ArticleMaxChars)
	case c.ConsolidatedMaxChars <= 0:
		return fmt.Errorf("CONSOLIDATED_MAX_CHARS must be positive (got %d)", c.ConsolidatedMaxChars)
	case c.ExtractConcurrency <= 0:
		return fmt.Errorf("EXTRACT_CONCURRENCY must be positive (got %d)", c.ExtractConcurrency)
	case c.NewsRetryAttempts <= 0:
		return fmt.Errorf("NEWS_RETRY_ATTEMPTS must be positive (got %d)", c.NewsRetryAttempts)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error (got %q)", c.LogLevel)
	}

	return nil
}

// DigestEnabled reports whether scheduled digests have something to send and somewhere to send it.
func (c Config) DigestEnabled() bool {
	return c.Token != "" && len(c.DigestTopics) > 0 && len(c.DigestChatIDs) > 0
}

// SlogLevel falls back to info for a level validate would reject.
func (c Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return slog.LevelInfo
	}

	return level
}

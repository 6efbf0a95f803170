package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"newsbrief/internal/domain"
)

const (
	maxResponseBytes      = 4 << 20
	initialBackoff        = 500 * time.Millisecond
	backoffGrowthFactor   = 2
	maxBackoff            = 4 * time.Second
	defaultNewsAPITimeout = 10 * time.Second
)

var errRetryable = errors.New("retryable")

type NewsAPIConfig struct {
	Endpoint      string
	APIKey        string
	Language      string
	Timeout       time.Duration
	RetryAttempts int
}

// NewsAPI searches the NewsAPI "everything" endpoint.
type NewsAPI struct {
	endpoint      string
	apiKey        string
	language      string
	retryAttempts int
	client        *http.Client
	log           *slog.Logger
}

type newsAPIResponse struct {
	Status   string            `json:"status"`
	Code     string            `json:"code"`
	Message  string            `json:"message"`
	Articles []json.RawMessage `json:"articles"`
}

type newsAPIArticle struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

func NewNewsAPI(cfg NewsAPIConfig, log *slog.Logger) *NewsAPI {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultNewsAPITimeout
	}

	return &NewsAPI{
		endpoint:      strings.TrimSpace(cfg.Endpoint),
		apiKey:        strings.TrimSpace(cfg.APIKey),
		language:      strings.TrimSpace(cfg.Language),
		retryAttempts: max(cfg.RetryAttempts, 1),
		client:        &http.Client{Timeout: timeout},
		log:           log,
	}
}

func (n *NewsAPI) Fetch(ctx context.Context, topic string, limit int) []domain.Article {
	topic = strings.TrimSpace(topic)
	if topic == "" || limit <= 0 {
		return nil
	}

	backoff := initialBackoff

	for attempt := 1; ; attempt++ {
		articles, err := n.search(ctx, topic, limit)
		if err == nil {
			n.log.InfoContext(ctx, "Articles are fetched",
				"provider", "newsapi",
				"topic", topic,
				"articleCount", len(articles),
				"attempt", attempt)

			return articles
		}

		if !errors.Is(err, errRetryable) || attempt >= n.retryAttempts {
			n.log.WarnContext(ctx, "Failed to fetch articles so empty result will be used",
				"error", err,
				"provider", "newsapi",
				"topic", topic,
				"attempt", attempt)

			return nil
		}

		n.log.WarnContext(ctx, "Failed to fetch articles, retrying...",
			"error", err,
			"provider", "newsapi",
			"topic", topic,
			"attempt", attempt,
			"backoff", backoff)

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(backoff):
		}

		backoff = min(backoff*backoffGrowthFactor, maxBackoff)
	}
}

func (n *NewsAPI) search(ctx context.Context, topic string, limit int) ([]domain.Article, error) {
	u, err := url.Parse(n.endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse endpoint: %w", err)
	}

	q := u.Query()
	q.Set("q", topic)
	q.Set("language", n.language)
	q.Set("sortBy", "relevancy")
	q.Set("pageSize", strconv.Itoa(limit))
	q.Set("apiKey", n.apiKey)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w: %w", errRetryable, err)
	}
	defer func() {
		if err = resp.Body.Close(); err != nil {
			n.log.ErrorContext(ctx, "Failed to close response body",
				"error", err,
				"operation", "newsapiSearch")
		}
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w: %w", errRetryable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err = fmt.Errorf("unexpected status: %d", resp.StatusCode)
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			err = fmt.Errorf("%w: %w", errRetryable, err)
		}
		return nil, err
	}

	var parsed newsAPIResponse
	if err = json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode body: %w", err)
	}

	if parsed.Status == "error" {
		return nil, fmt.Errorf("provider error (code = %s): %s", parsed.Code, parsed.Message)
	}

	articles := make([]domain.Article, 0, min(len(parsed.Articles), limit))
	for i, raw := range parsed.Articles {
		if len(articles) == limit {
			break
		}

		var item newsAPIArticle
		if err = json.Unmarshal(raw, &item); err != nil {
			n.log.WarnContext(ctx, "Skipping malformed article",
				"error", err,
				"provider", "newsapi",
				"index", i)

			continue
		}

		articles = append(articles, newArticle(item.Title, item.URL, item.Description))
	}

	return articles, nil
}

package source

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"newsbrief/internal/domain"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
)

const defaultRSSTimeout = 10 * time.Second

type GoogleNewsRSSConfig struct {
	Endpoint string
	Language string
	Timeout  time.Duration
}

// GoogleNewsRSS searches the Google News RSS feed. It needs no credential and is used
// when NewsAPI is not configured.
type GoogleNewsRSS struct {
	endpoint string
	language string
	parser   *gofeed.Parser
	log      *slog.Logger
}

func NewGoogleNewsRSS(cfg GoogleNewsRSSConfig, log *slog.Logger) *GoogleNewsRSS {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultRSSTimeout
	}

	parser := gofeed.NewParser()
	parser.Client = &http.Client{Timeout: timeout}
	parser.UserAgent = userAgent

	return &GoogleNewsRSS{
		endpoint: strings.TrimSpace(cfg.Endpoint),
		language: strings.TrimSpace(cfg.Language),
		parser:   parser,
		log:      log,
	}
}

func (g *GoogleNewsRSS) Fetch(ctx context.Context, topic string, limit int) []domain.Article {
	topic = strings.TrimSpace(topic)
	if topic == "" || limit <= 0 {
		return nil
	}

	searchURL, err := g.searchURL(topic)
	if err != nil {
		g.log.ErrorContext(ctx, "Failed to build search URL so empty result will be used",
			"error", err,
			"provider", "googlenews",
			"endpoint", g.endpoint)

		return nil
	}

	feed, err := g.parser.ParseURLWithContext(searchURL, ctx)
	if err != nil {
		g.log.WarnContext(ctx, "Failed to fetch articles so empty result will be used",
			"error", err,
			"provider", "googlenews",
			"topic", topic)

		return nil
	}

	articles := make([]domain.Article, 0, min(len(feed.Items), limit))
	for _, item := range feed.Items {
		if len(articles) == limit {
			break
		}
		if item == nil {
			continue
		}

		articles = append(articles, newArticle(item.Title, item.Link, plainText(item.Description)))
	}

	g.log.InfoContext(ctx, "Articles are fetched",
		"provider", "googlenews",
		"topic", topic,
		"articleCount", len(articles))

	return articles
}

func (g *GoogleNewsRSS) searchURL(topic string) (string, error) {
	u, err := url.Parse(g.endpoint)
	if err != nil {
		return "", fmt.Errorf("parse endpoint: %w", err)
	}

	lang := strings.ToLower(g.language)
	if lang == "" {
		lang = "en"
	}

	region := "US"
	if lang != "en" {
		region = strings.ToUpper(lang)
	}

	q := u.Query()
	q.Set("q", topic)
	q.Set("hl", lang+"-"+region)
	q.Set("gl", region)
	q.Set("ceid", region+":"+lang)
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// plainText flattens the HTML snippets Google News puts into item descriptions.
func plainText(fragment string) string {
	fragment = strings.TrimSpace(fragment)
	if !strings.Contains(fragment, "<") {
		return fragment
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return fragment
	}

	return strings.Join(strings.Fields(doc.Text()), " ")
}

package extractor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"newsbrief/internal/domain"

	"golang.org/x/sync/errgroup"
	"mvdan.cc/xurls/v2"
)

const (
	defaultTimeout     = 15 * time.Second
	defaultBudget      = 30 * time.Second
	defaultConcurrency = 4
)

var errEmptyText = errors.New("extracted text is empty")

type Config struct {
	// Timeout bounds a single page download and parse.
	Timeout time.Duration
	// Budget bounds the whole batch; pages still in flight when it runs out are left without text.
	Budget      time.Duration
	Concurrency int
}

// Extractor turns candidate articles into enriched ones. A failing page only
// loses its own text; the batch always comes back complete and in input order.
type Extractor struct {
	fetcher     *pageFetcher
	timeout     time.Duration
	budget      time.Duration
	concurrency int
	urlRe       *regexp.Regexp
	log         *slog.Logger
}

func New(cfg Config, log *slog.Logger) *Extractor {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	budget := cfg.Budget
	if budget <= 0 {
		budget = defaultBudget
	}

	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}

	return &Extractor{
		fetcher:     newPageFetcher(timeout, log),
		timeout:     timeout,
		budget:      budget,
		concurrency: concurrency,
		urlRe:       xurls.Strict(),
		log:         log,
	}
}

func (e *Extractor) Enrich(
	ctx context.Context,
	articles []domain.Article,
	maxChars int,
) []domain.EnrichedArticle {
	enriched := make([]domain.EnrichedArticle, len(articles))
	for i := range articles {
		enriched[i].Article = articles[i]
	}

	if len(articles) == 0 {
		return enriched
	}

	ctx, cancel := context.WithTimeout(ctx, e.budget)
	defer cancel()

	var g errgroup.Group
	g.SetLimit(min(e.concurrency, len(articles)))

	for i := range articles {
		articleURL := strings.TrimSpace(articles[i].URL)
		if articleURL == "" {
			e.log.WarnContext(ctx, "Skipping article without URL",
				"index", i,
				"title", articles[i].Title)

			continue
		}

		g.Go(func() error {
			enriched[i].FullText = e.extractText(ctx, articleURL, maxChars)
			return nil
		})
	}

	_ = g.Wait()

	return enriched
}

func (e *Extractor) extractText(ctx context.Context, articleURL string, maxChars int) string {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	text, err := e.extract(ctx, articleURL)
	if err == nil {
		text = truncate(text, maxChars)
		if text == "" {
			err = errEmptyText
		}
	}

	if err != nil {
		e.log.WarnContext(ctx, "Failed to extract article text",
			"error", err,
			"url", articleURL,
			"elapsed", time.Since(start))

		return ""
	}

	e.log.DebugContext(ctx, "Article text is extracted",
		"url", articleURL,
		"chars", utf8.RuneCountInString(text),
		"elapsed", time.Since(start))

	return text
}

func (e *Extractor) extract(ctx context.Context, articleURL string) (string, error) {
	page, err := e.fetcher.fetch(ctx, articleURL)
	if err != nil {
		return "", fmt.Errorf("fetch page: %w", err)
	}

	text, err := parseArticle(page)
	if err != nil {
		return "", fmt.Errorf("parse page: %w", err)
	}

	return e.clean(text), nil
}

// clean drops bare links and collapses whitespace inside each line, keeping paragraph breaks.
func (e *Extractor) clean(text string) string {
	text = e.urlRe.ReplaceAllString(text, "")

	lines := strings.Split(text, "\n")
	kept := lines[:0]

	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			continue
		}
		kept = append(kept, line)
	}

	return strings.Join(kept, "\n")
}

func truncate(text string, maxChars int) string {
	text = strings.TrimSpace(text)
	if maxChars <= 0 || utf8.RuneCountInString(text) <= maxChars {
		return text
	}

	return strings.TrimSpace(string([]rune(text)[:maxChars]))
}

package source

import (
	"context"
	"strings"

	"newsbrief/internal/domain"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/127.0.0.0 Safari/537.36"

// Source finds candidate articles for a topic. Implementations fail open: provider
// errors are logged and reported as an empty result, never returned.
type Source interface {
	Fetch(ctx context.Context, topic string, limit int) []domain.Article
}

func newArticle(title, url, description string) domain.Article {
	return domain.Article{
		Title:       strings.TrimSpace(title),
		URL:         strings.TrimSpace(url),
		Description: strings.TrimSpace(description),
	}
}

package bot

import (
	"fmt"
	"strings"

	"newsbrief/internal/domain"
	"newsbrief/internal/markdown"
)

const (
	maxDigestArticles       = 5
	maxDescriptionRuneCount = 300
)

func formatDigest(topic string, digest domain.Digest) []string {
	blocks := []string{
		fmt.Sprintf("📰 *%s*\n\n%s", markdown.EscapeV2(topic), markdown.EscapeV2(digest.Summary)),
	}

	if len(digest.Articles) > 0 {
		var b strings.Builder
		b.WriteString("*Sources*")

		for i, article := range digest.Articles[:min(len(digest.Articles), maxDigestArticles)] {
			b.WriteString("\n\n")
			fmt.Fprintf(&b, "%d\\. %s", i+1, markdown.Link(articleTitle(article), article.URL))

			if description := shorten(article.Description, maxDescriptionRuneCount); description != "" {
				b.WriteString("\n")
				b.WriteString(markdown.EscapeV2(description))
			}
		}

		blocks = append(blocks, b.String())
	}

	return markdown.Split(blocks, markdown.MaxMessageLength)
}

func articleTitle(article domain.EnrichedArticle) string {
	if article.Title != "" {
		return article.Title
	}
	if article.URL != "" {
		return article.URL
	}

	return "Untitled"
}

func shorten(s string, maxRunes int) string {
	s = strings.TrimSpace(s)

	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}

	return strings.TrimSpace(string(runes[:maxRunes-1])) + "…"
}

package consolidator

import (
	"strconv"
	"strings"

	"newsbrief/internal/domain"
)

const (
	// NoContent stands in for the consolidated text when no article yielded any.
	NoContent = "Couldn't find news"

	separator = "\n\n"
)

// Consolidate joins extracted texts as "<position>. <text>" blocks, where position is the
// article's original 1-based index. The result is cut at maxChars runes with no regard for
// word or sentence boundaries; it is model input, not user-facing text.
func Consolidate(articles []domain.EnrichedArticle, maxChars int) string {
	var b strings.Builder

	for i, article := range articles {
		text := strings.TrimSpace(article.FullText)
		if text == "" {
			continue
		}

		if b.Len() > 0 {
			b.WriteString(separator)
		}
		b.WriteString(strconv.Itoa(i + 1))
		b.WriteString(". ")
		b.WriteString(text)
	}

	if b.Len() == 0 {
		return NoContent
	}

	return truncate(b.String(), maxChars)
}

func truncate(s string, maxChars int) string {
	if maxChars <= 0 || len(s) <= maxChars {
		return s
	}

	count := 0
	for i := range s {
		if count == maxChars {
			return s[:i]
		}
		count++
	}

	return s
}

package markdown

import (
	"strings"
	"unicode/utf8"
)

// MaxMessageLength is Telegram's limit for one text message, in characters.
const MaxMessageLength = 4096

// Split packs blocks into messages of at most limit characters, joining blocks with a blank
// line. A block longer than limit is cut at line breaks, then at rune boundaries that do not
// leave a dangling escape backslash.
func Split(blocks []string, limit int) []string {
	if limit <= 0 {
		limit = MaxMessageLength
	}

	var (
		messages []string
		current  strings.Builder
		size     int
	)

	flush := func() {
		if current.Len() > 0 {
			messages = append(messages, current.String())
			current.Reset()
			size = 0
		}
	}

	add := func(part string) {
		n := utf8.RuneCountInString(part)

		sep := 0
		if size > 0 {
			sep = 2
		}
		if size+sep+n > limit {
			flush()
			sep = 0
		}
		if sep > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(part)
		size += sep + n
	}

	for _, block := range blocks {
		if block == "" {
			continue
		}

		for _, part := range cut(block, limit) {
			add(part)
		}
	}

	flush()

	return messages
}

func cut(block string, limit int) []string {
	if utf8.RuneCountInString(block) <= limit {
		return []string{block}
	}

	var (
		parts []string
		line  strings.Builder
		size  int
	)

	for _, l := range strings.Split(block, "\n") {
		n := utf8.RuneCountInString(l)
		if size > 0 && size+1+n > limit {
			parts = append(parts, line.String())
			line.Reset()
			size = 0
		}

		if n > limit {
			chunks := hardCut(l, limit)
			parts = append(parts, chunks[:len(chunks)-1]...)
			l = chunks[len(chunks)-1]
			n = utf8.RuneCountInString(l)
		}

		if size > 0 {
			line.WriteByte('\n')
			size++
		}
		line.WriteString(l)
		size += n
	}

	if line.Len() > 0 {
		parts = append(parts, line.String())
	}

	return parts
}

func hardCut(s string, limit int) []string {
	runes := []rune(s)

	var chunks []string
	for len(runes) > limit {
		end := limit
		// An odd run of trailing backslashes means the last one escapes the next rune.
		backslashes := 0
		for i := end - 1; i >= 0 && runes[i] == '\\'; i-- {
			backslashes++
		}
		if backslashes%2 == 1 {
			end--
		}

		chunks = append(chunks, string(runes[:end]))
		runes = runes[end:]
	}

	return append(chunks, string(runes))
}

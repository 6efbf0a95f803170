package extractor

import (
	"log/slog"
	"net/url"
	"testing"
)

func TestClean(t *testing.T) {
	e := New(Config{}, slog.Default())

	got := e.clean("  First   line  \n\n\n  Second\tline see https://example.com/x  \n   ")
	want := "First line\nSecond line see"

	if got != want {
		t.Fatalf("clean mismatch: got %q want %q", got, want)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		maxChars int
		want     string
	}{
		{"under bound", "short", 10, "short"},
		{"exact bound", "exact", 5, "exact"},
		{"over bound", "abcdefghij", 4, "abcd"},
		{"runes", "地震が発生", 2, "地震"},
		{"trailing space after cut", "abc def", 4, "abc"},
		{"whitespace only", "   ", 10, ""},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := truncate(test.text, test.maxChars); got != test.want {
				t.Fatalf("truncate mismatch: got %q want %q", got, test.want)
			}
		})
	}
}

func TestParseArticleFallsBackToParagraphs(t *testing.T) {
	u, _ := url.Parse("https://news.example/short")
	p := &page{url: u, body: []byte("<html><body><div><p>Short note.</p></div></body></html>")}

	got, err := parseArticle(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got != "Short note." {
		t.Fatalf("unexpected text: %q", got)
	}
}

func TestParseArticleEmptyPage(t *testing.T) {
	u, _ := url.Parse("https://news.example/empty")
	p := &page{url: u, body: []byte("<html><body></body></html>")}

	if _, err := parseArticle(p); err == nil {
		t.Fatalf("expected error for empty page")
	}
}

package extractor_test

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"newsbrief/internal/domain"
	"newsbrief/internal/extractor"
)

func articlePage(headline string, paragraphs ...string) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html><html><head><title>")
	b.WriteString(headline)
	b.WriteString("</title></head><body><nav><a href=\"/\">Home</a></nav><main><article><h1>")
	b.WriteString(headline)
	b.WriteString("</h1>")
	for _, p := range paragraphs {
		b.WriteString("<p>")
		b.WriteString(p)
		b.WriteString("</p>")
	}
	b.WriteString("</article></main><footer>Copyright</footer></body></html>")
	return b.String()
}

func longParagraph(subject string) string {
	return fmt.Sprintf("%s was reported by officials on Monday, who said that emergency crews "+
		"were working through the night to reach the affected areas and restore power to thousands "+
		"of homes, while residents gathered in shelters across the region.", subject)
}

func newNewsServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/one", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(articlePage("Quake one", longParagraph("Article one"), longParagraph("Article one detail"))))
	})
	mux.HandleFunc("/two", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(articlePage("Quake two", longParagraph("Article two"), longParagraph("Article two detail"))))
	})
	mux.HandleFunc("/dead", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	})
	mux.HandleFunc("/four", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(articlePage("Quake four", longParagraph("Article four"), longParagraph("Article four detail"))))
	})
	mux.HandleFunc("/blank", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><body><p>   </p><p>\n\t</p></body></html>"))
	})
	mux.HandleFunc("/json", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"text":"not a page"}`))
	})
	mux.HandleFunc("/links", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(articlePage("Links",
			longParagraph("Linked story")+" Read more at https://news.example/more/story",
			longParagraph("Linked story detail"))))
	})

	return httptest.NewServer(mux)
}

func newExtractor(timeout, budget time.Duration) *extractor.Extractor {
	return extractor.New(extractor.Config{
		Timeout:     timeout,
		Budget:      budget,
		Concurrency: 4,
	}, slog.Default())
}

func TestEnrichPreservesOrderAndIsolatesFailures(t *testing.T) {
	srv := newNewsServer(t)
	defer srv.Close()

	articles := []domain.Article{
		{Title: "one", URL: srv.URL + "/one"},
		{Title: "two", URL: srv.URL + "/two"},
		{Title: "dead", URL: srv.URL + "/dead"},
		{Title: "four", URL: srv.URL + "/four"},
	}

	got := newExtractor(5*time.Second, 10*time.Second).Enrich(context.Background(), articles, 2000)

	if len(got) != len(articles) {
		t.Fatalf("expected %d enriched articles, got %d", len(articles), len(got))
	}

	for i := range articles {
		if got[i].Article != articles[i] {
			t.Fatalf("article %d changed: got %+v want %+v", i, got[i].Article, articles[i])
		}
	}

	wantPhrases := []string{"Article one", "Article two", "", "Article four"}
	for i, phrase := range wantPhrases {
		if phrase == "" {
			if got[i].FullText != "" {
				t.Fatalf("expected article %d to have no text, got %q", i, got[i].FullText)
			}
			continue
		}
		if !strings.Contains(got[i].FullText, phrase) {
			t.Fatalf("expected article %d text to contain %q, got %q", i, phrase, got[i].FullText)
		}
	}
}

func TestEnrichArticleWithoutURL(t *testing.T) {
	got := newExtractor(time.Second, time.Second).Enrich(
		context.Background(),
		[]domain.Article{{Title: "no url"}},
		2000,
	)

	if len(got) != 1 || got[0].FullText != "" || got[0].Title != "no url" {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestEnrichEmptyInput(t *testing.T) {
	got := newExtractor(time.Second, time.Second).Enrich(context.Background(), nil, 2000)

	if len(got) != 0 {
		t.Fatalf("expected empty result, got %d", len(got))
	}
}

func TestEnrichTruncatesToMaxChars(t *testing.T) {
	srv := newNewsServer(t)
	defer srv.Close()

	got := newExtractor(5*time.Second, 10*time.Second).Enrich(
		context.Background(),
		[]domain.Article{{URL: srv.URL + "/one"}},
		50,
	)

	n := utf8.RuneCountInString(got[0].FullText)
	if n == 0 || n > 50 {
		t.Fatalf("expected 1..50 characters, got %d (%q)", n, got[0].FullText)
	}
}

func TestEnrichTreatsUnusablePagesAsAbsent(t *testing.T) {
	srv := newNewsServer(t)
	defer srv.Close()

	articles := []domain.Article{
		{URL: srv.URL + "/blank"},
		{URL: srv.URL + "/json"},
		{URL: "ftp://news.example/file"},
		{URL: "http://127.0.0.1:1/unreachable"},
	}

	got := newExtractor(2*time.Second, 5*time.Second).Enrich(context.Background(), articles, 2000)

	for i := range got {
		if got[i].FullText != "" {
			t.Fatalf("expected article %d to have no text, got %q", i, got[i].FullText)
		}
	}
}

func TestEnrichStripsBareLinks(t *testing.T) {
	srv := newNewsServer(t)
	defer srv.Close()

	got := newExtractor(5*time.Second, 10*time.Second).Enrich(
		context.Background(),
		[]domain.Article{{URL: srv.URL + "/links"}},
		2000,
	)

	if !strings.Contains(got[0].FullText, "Linked story") {
		t.Fatalf("expected article text, got %q", got[0].FullText)
	}
	if strings.Contains(got[0].FullText, "https://news.example") {
		t.Fatalf("expected links to be stripped, got %q", got[0].FullText)
	}
}

func TestEnrichSlowPageDoesNotHoldBatch(t *testing.T) {
	release := make(chan struct{})
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer slow.Close()
	defer close(release)

	srv := newNewsServer(t)
	defer srv.Close()

	articles := []domain.Article{
		{URL: slow.URL + "/stuck"},
		{URL: srv.URL + "/two"},
	}

	start := time.Now()
	got := newExtractor(200*time.Millisecond, 5*time.Second).Enrich(context.Background(), articles, 2000)

	if elapsed := time.Since(start); elapsed > 3*time.Second {
		t.Fatalf("expected per-article timeout to bound the batch, took %v", elapsed)
	}
	if got[0].FullText != "" {
		t.Fatalf("expected slow article to have no text, got %q", got[0].FullText)
	}
	if !strings.Contains(got[1].FullText, "Article two") {
		t.Fatalf("expected second article text, got %q", got[1].FullText)
	}
}

func TestEnrichRespectsBatchBudget(t *testing.T) {
	release := make(chan struct{})
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer slow.Close()
	defer close(release)

	articles := []domain.Article{
		{URL: slow.URL + "/a"},
		{URL: slow.URL + "/b"},
		{URL: slow.URL + "/c"},
	}

	start := time.Now()
	got := newExtractor(10*time.Second, 200*time.Millisecond).Enrich(context.Background(), articles, 2000)

	if elapsed := time.Since(start); elapsed > 3*time.Second {
		t.Fatalf("expected budget to bound the batch, took %v", elapsed)
	}
	if len(got) != len(articles) {
		t.Fatalf("expected %d results, got %d", len(articles), len(got))
	}
	for i := range got {
		if got[i].FullText != "" {
			t.Fatalf("expected article %d to have no text, got %q", i, got[i].FullText)
		}
	}
}

package extractor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

const (
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/127.0.0.0 Safari/537.36"

	maxPageBytes = 5 << 20
	maxRedirects = 10
)

var fallbackSelectors = []string{"article p", "main p", "p"}

type page struct {
	url  *url.URL
	body []byte
}

type pageFetcher struct {
	client *http.Client
	log    *slog.Logger
}

func newPageFetcher(timeout time.Duration, log *slog.Logger) *pageFetcher {
	return &pageFetcher{
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(_ *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("stopped after %d redirects", maxRedirects)
				}
				return nil
			},
		},
		log: log,
	}
}

func (f *pageFetcher) fetch(ctx context.Context, rawURL string) (*page, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported scheme: %q", u.Scheme)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.client.Do(req) //nolint:gosec // URLs come from the news provider
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer func() {
		if err = resp.Body.Close(); err != nil {
			f.log.ErrorContext(ctx, "Failed to close response body",
				"error", err,
				"url", rawURL,
				"operation", "fetchPage")
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("do request: unexpected status: %d", resp.StatusCode)
	}

	if contentType := resp.Header.Get("Content-Type"); contentType != "" {
		mediaType, _, parseErr := mime.ParseMediaType(contentType)
		if parseErr != nil || !strings.Contains(mediaType, "html") {
			return nil, fmt.Errorf("unsupported content type: %s", contentType)
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if len(body) > maxPageBytes {
		return nil, fmt.Errorf("body exceeds %d bytes", maxPageBytes)
	}

	// Redirects may have moved us; relative links resolve against the final URL.
	finalURL := u
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL
	}

	return &page{url: finalURL, body: body}, nil
}

// parseArticle prefers readability's main-content detection and falls back to
// collecting paragraphs when it finds nothing.
func parseArticle(p *page) (string, error) {
	article, err := readability.FromReader(bytes.NewReader(p.body), p.url)
	if err == nil {
		if text := strings.TrimSpace(article.TextContent); text != "" {
			return text, nil
		}
	}

	doc, docErr := goquery.NewDocumentFromReader(bytes.NewReader(p.body))
	if docErr != nil {
		return "", errors.Join(err, fmt.Errorf("create document from reader: %w", docErr))
	}

	for _, selector := range fallbackSelectors {
		if text := paragraphs(doc.Find(selector)); text != "" {
			return text, nil
		}
	}

	return "", errEmptyText
}

func paragraphs(sel *goquery.Selection) string {
	var b strings.Builder

	sel.Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if text == "" {
			return
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(text)
	})

	return b.String()
}

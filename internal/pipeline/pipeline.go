package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"newsbrief/internal/consolidator"
	"newsbrief/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrBlankTopic       = errors.New("topic is blank")
	ErrInvalidTopic     = errors.New("topic is not a news topic")
	ErrTopicCheckFailed = errors.New("topic check failed")
	ErrSummarizeFailed  = errors.New("summarize failed")
)

// IsUserInput reports whether err was caused by the caller's topic rather than by the service.
func IsUserInput(err error) bool {
	return errors.Is(err, ErrBlankTopic) || errors.Is(err, ErrInvalidTopic)
}

type Validator interface {
	Validate(ctx context.Context, topic string) (domain.Verdict, error)
}

type Source interface {
	Fetch(ctx context.Context, topic string, limit int) []domain.Article
}

type Extractor interface {
	Enrich(ctx context.Context, articles []domain.Article, maxChars int) []domain.EnrichedArticle
}

type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

type Config struct {
	ArticleLimit         int
	ArticleMaxChars      int
	ConsolidatedMaxChars int
}

type Deps struct {
	Validator  Validator
	Source     Source
	Extractor  Extractor
	Summarizer Summarizer
}

type Pipeline struct {
	validator  Validator
	source     Source
	extractor  Extractor
	summarizer Summarizer
	cfg        Config
	log        *slog.Logger
}

func New(deps Deps, cfg Config, log *slog.Logger) *Pipeline {
	return &Pipeline{
		validator:  deps.Validator,
		source:     deps.Source,
		extractor:  deps.Extractor,
		summarizer: deps.Summarizer,
		cfg:        cfg,
		log:        log,
	}
}

// Run turns a topic into a digest. Stages run in order and only the topic check and
// the summary can fail the run; missing articles or texts degrade the summary input instead.
func (p *Pipeline) Run(ctx context.Context, topic string) (domain.Digest, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return domain.Digest{}, ErrBlankTopic
	}

	requestID := RequestID(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
	}

	log := p.log.With("requestID", requestID, "topic", topic)
	runStart := time.Now()

	start := time.Now()
	verdict, err := p.validator.Validate(ctx, topic)

	log.InfoContext(ctx, "Topic is checked",
		"verdict", verdict.String(),
		"elapsed", time.Since(start))

	switch verdict {
	case domain.VerdictValid:
	case domain.VerdictInvalid:
		return domain.Digest{}, ErrInvalidTopic
	default:
		if err == nil {
			err = errors.New("no verdict")
		}

		log.ErrorContext(ctx, "Failed to check topic",
			"error", err)

		return domain.Digest{}, fmt.Errorf("%w: %w", ErrTopicCheckFailed, err)
	}

	start = time.Now()
	articles := p.source.Fetch(ctx, topic, p.cfg.ArticleLimit)

	log.InfoContext(ctx, "Articles are fetched",
		"count", len(articles),
		"elapsed", time.Since(start))

	start = time.Now()
	enriched := p.extractor.Enrich(ctx, articles, p.cfg.ArticleMaxChars)

	log.InfoContext(ctx, "Article texts are extracted",
		"extracted", countExtracted(enriched),
		"count", len(enriched),
		"elapsed", time.Since(start))

	text := consolidator.Consolidate(enriched, p.cfg.ConsolidatedMaxChars)

	start = time.Now()
	summary, err := p.summarizer.Summarize(ctx, text)
	if err != nil {
		log.ErrorContext(ctx, "Failed to summarize articles",
			"error", err,
			"elapsed", time.Since(start))

		return domain.Digest{}, fmt.Errorf("%w: %w", ErrSummarizeFailed, err)
	}

	log.InfoContext(ctx, "Digest is ready",
		"summarizeElapsed", time.Since(start),
		"elapsed", time.Since(runStart))

	if enriched == nil {
		enriched = []domain.EnrichedArticle{}
	}

	return domain.Digest{Summary: summary, Articles: enriched}, nil
}

func countExtracted(articles []domain.EnrichedArticle) int {
	n := 0
	for _, article := range articles {
		if article.FullText != "" {
			n++
		}
	}

	return n
}

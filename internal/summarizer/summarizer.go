package summarizer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"newsbrief/internal/llm"
)

const systemPrompt = `You are a news summarizer. You will be given text from several top news articles on a single topic.

Rules:
1. If most articles describe the same news event, write ONE unified summary in a concise, neutral tone.
2. If the articles present different views or perspectives, summarize the key points of each and state that multiple perspectives exist.
3. Keep the summary clear, professional and fact-based.
4. Do not copy text directly from the articles.
5. Avoid repetition and do not list every article individually.`

// Summarizer produces a single summary for the consolidated text of several articles.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

// ModelSummarizer delegates synthesis entirely to a language model.
type ModelSummarizer struct {
	model llm.Model
}

func New(model llm.Model) *ModelSummarizer {
	return &ModelSummarizer{model: model}
}

func (s *ModelSummarizer) Summarize(ctx context.Context, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", errors.New("input is empty")
	}

	if s.model == nil {
		return "", errors.New("model is not configured")
	}

	summary, err := s.model.Complete(ctx, systemPrompt, text)
	if err != nil {
		return "", fmt.Errorf("complete: %w", err)
	}

	summary = strings.TrimSpace(summary)
	if summary == "" {
		return "", errors.New("summary is empty")
	}

	return summary, nil
}

package validator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"newsbrief/internal/domain"
	"newsbrief/internal/llm"
)

const (
	negativeAnswer = "no"

	systemPrompt = `You are a news topic validator.
Treat the whole user message as a single topic and decide whether it can be the subject of news.
Judge by whether searching the internet for this topic would return relevant recent news articles.

Rules:
- Reply strictly with "yes" or "no" in lowercase letters.
- "yes" if the topic is relevant and newsworthy.
- "no" if it is gibberish, too vague, or not something news is written about.
- Output nothing else.`
)

// Validator is a permissive gate: only an explicit "no" from the model rejects a topic.
type Validator struct {
	model llm.Model
	log   *slog.Logger
}

func New(model llm.Model, log *slog.Logger) *Validator {
	return &Validator{model: model, log: log}
}

// Validate returns VerdictIndeterminate together with the cause when the model call fails.
func (v *Validator) Validate(ctx context.Context, topic string) (domain.Verdict, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return domain.VerdictInvalid, nil
	}

	if v.model == nil {
		return domain.VerdictIndeterminate, errors.New("model is not configured")
	}

	answer, err := v.model.Complete(ctx, systemPrompt, topic)
	if errors.Is(err, llm.ErrEmptyOutput) {
		// The call succeeded; an empty answer is not "no".
		v.log.DebugContext(ctx, "Topic check answer is empty so topic is accepted",
			"topic", topic,
			"error", err)

		return domain.VerdictValid, nil
	}
	if err != nil {
		return domain.VerdictIndeterminate, fmt.Errorf("complete: %w", err)
	}

	// Trimmed on purpose: a trailing newline after "no" still rejects.
	answer = strings.TrimSpace(answer)

	verdict := domain.VerdictValid
	if answer == negativeAnswer {
		verdict = domain.VerdictInvalid
	}

	v.log.DebugContext(ctx, "Topic is checked",
		"topic", topic,
		"answer", answer,
		"verdict", verdict.String())

	return verdict, nil
}

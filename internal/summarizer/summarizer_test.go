package summarizer_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"newsbrief/internal/llm"
	"newsbrief/internal/llm/llmtest"
	"newsbrief/internal/summarizer"
)

func TestSummarizePassesTextAsSoleInput(t *testing.T) {
	model := &llmtest.Model{Output: "  A unified summary.  "}
	s := summarizer.New(model)

	got, err := s.Summarize(context.Background(), "1. first\n\n2. second")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got != "A unified summary." {
		t.Fatalf("unexpected summary: %q", got)
	}

	calls := model.Calls()
	if len(calls) != 1 {
		t.Fatalf("expected one model call, got %d", len(calls))
	}
	if calls[0].Input != "1. first\n\n2. second" {
		t.Fatalf("unexpected input: %q", calls[0].Input)
	}
	if !strings.Contains(calls[0].Instructions, "multiple perspectives") {
		t.Fatalf("expected instructions to mention multiple perspectives")
	}
}

func TestSummarizeModelFailure(t *testing.T) {
	cause := errors.New("connection reset")
	s := summarizer.New(&llmtest.Model{Err: cause})

	got, err := s.Summarize(context.Background(), "Couldn't find news")
	if !errors.Is(err, cause) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}

	if got != "" {
		t.Fatalf("expected no summary on failure, got %q", got)
	}
}

func TestSummarizeEmptyOutput(t *testing.T) {
	s := summarizer.New(&llmtest.Model{Output: "  "})

	if _, err := s.Summarize(context.Background(), "text"); err == nil {
		t.Fatalf("expected error for empty model output")
	}
}

func TestSummarizeEmptyInput(t *testing.T) {
	model := &llmtest.Model{Output: "summary"}
	s := summarizer.New(model)

	if _, err := s.Summarize(context.Background(), " "); err == nil {
		t.Fatalf("expected error for empty input")
	}

	if len(model.Calls()) != 0 {
		t.Fatalf("expected no model calls for empty input")
	}
}

func TestSummarizeEmptyModelAnswerIsError(t *testing.T) {
	s := summarizer.New(&llmtest.Model{Err: llm.ErrEmptyOutput})

	if _, err := s.Summarize(context.Background(), "1. text"); !errors.Is(err, llm.ErrEmptyOutput) {
		t.Fatalf("expected empty output error, got %v", err)
	}
}

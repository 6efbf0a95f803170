package validator_test

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"newsbrief/internal/domain"
	"newsbrief/internal/llm"
	"newsbrief/internal/llm/llmtest"
	"newsbrief/internal/validator"
)

func TestValidateMapsModelOutput(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   domain.Verdict
	}{
		{"explicit no", "no", domain.VerdictInvalid},
		{"no with trailing newline", "no\n", domain.VerdictInvalid},
		{"explicit yes", "yes", domain.VerdictValid},
		{"capitalised no is not an exact match", "No", domain.VerdictValid},
		{"malformed output", "I think this might be a topic", domain.VerdictValid},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			model := &llmtest.Model{Output: test.output}
			v := validator.New(model, slog.Default())

			got, err := v.Validate(context.Background(), "Earthquake in Japan")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got != test.want {
				t.Fatalf("verdict mismatch: got %s want %s", got, test.want)
			}
		})
	}
}

func TestValidateSendsTopicAsSoleInput(t *testing.T) {
	model := &llmtest.Model{Output: "yes"}
	v := validator.New(model, slog.Default())

	if _, err := v.Validate(context.Background(), "  AI in healthcare  "); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	calls := model.Calls()
	if len(calls) != 1 {
		t.Fatalf("expected one model call, got %d", len(calls))
	}
	if calls[0].Input != "AI in healthcare" {
		t.Fatalf("unexpected input: %q", calls[0].Input)
	}
	if calls[0].Instructions == "" {
		t.Fatalf("expected instructions to be set")
	}
}

func TestValidateModelFailureIsIndeterminate(t *testing.T) {
	cause := errors.New("quota exceeded")
	v := validator.New(&llmtest.Model{Err: cause}, slog.Default())

	got, err := v.Validate(context.Background(), "Earthquake in Japan")
	if got != domain.VerdictIndeterminate {
		t.Fatalf("expected indeterminate verdict, got %s", got)
	}

	if !errors.Is(err, cause) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
}

func TestValidateBlankTopicSkipsModel(t *testing.T) {
	model := &llmtest.Model{Output: "yes"}
	v := validator.New(model, slog.Default())

	got, err := v.Validate(context.Background(), "   ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got != domain.VerdictInvalid {
		t.Fatalf("expected invalid verdict for blank topic, got %s", got)
	}

	if len(model.Calls()) != 0 {
		t.Fatalf("expected no model calls for blank topic")
	}
}

func TestValidateEmptyModelAnswerIsValid(t *testing.T) {
	v := validator.New(&llmtest.Model{Err: fmt.Errorf("%w (status = completed)", llm.ErrEmptyOutput)}, slog.Default())

	got, err := v.Validate(context.Background(), "Earthquake in Japan")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got != domain.VerdictValid {
		t.Fatalf("expected valid verdict for empty answer, got %s", got)
	}
}

func TestValidateEmptyOpenAIAnswerIsValid(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "resp_1",
			"object": "response",
			"created_at": 1700000000,
			"status": "completed",
			"model": "gpt-4.1-mini",
			"output": [{
				"type": "message",
				"id": "msg_1",
				"status": "completed",
				"role": "assistant",
				"content": [{"type": "output_text", "text": "", "annotations": []}]
			}]
		}`))
	}))
	defer srv.Close()

	model, err := llm.NewOpenAIModel(llm.OpenAIConfig{
		APIKey:  "sk-test",
		Model:   "gpt-4.1-mini",
		BaseURL: srv.URL + "/",
		Timeout: 5 * time.Second,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := validator.New(model, slog.Default()).Validate(context.Background(), "Earthquake in Japan")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got != domain.VerdictValid {
		t.Fatalf("expected valid verdict, got %s", got)
	}
}

func TestValidateTrailingWhitespaceNoIsInvalid(t *testing.T) {
	v := validator.New(&llmtest.Model{Output: "no\n"}, slog.Default())

	got, err := v.Validate(context.Background(), "asdkjhasd123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got != domain.VerdictInvalid {
		t.Fatalf("expected invalid verdict, got %s", got)
	}
}

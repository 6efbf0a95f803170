package llm

import "context"

// Model is a single-turn text model: one instruction, one user message, plain text back.
type Model interface {
	Complete(ctx context.Context, instructions string, input string) (string, error)
}

// Package llmtest provides a scripted llm.Model for tests.
package llmtest

import (
	"context"
	"sync"
)

type Call struct {
	Instructions string
	Input        string
}

// Model returns Output (or Err) for every call and records what it was asked.
type Model struct {
	Output string
	Err    error

	mu    sync.Mutex
	calls []Call
}

func (m *Model) Complete(_ context.Context, instructions string, input string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, Call{Instructions: instructions, Input: input})

	if m.Err != nil {
		return "", m.Err
	}

	return m.Output, nil
}

func (m *Model) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]Call(nil), m.calls...)
}

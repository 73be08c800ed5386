package geography

import (
	"context"
	"errors"
	"sync"

	"github.com/kgent-dev/kgent"
)

// ScriptedBackend replays a fixed sequence of responses and records every
// prompt it receives. It implements kgent.Backend for deterministic
// end-to-end runs without a live model.
type ScriptedBackend struct {
	mu        sync.Mutex
	responses []string
	calls     int
	prompts   []string
}

// NewScriptedBackend creates a backend replaying the given responses in
// order.
func NewScriptedBackend(responses ...string) *ScriptedBackend {
	return &ScriptedBackend{responses: responses}
}

// Complete implements kgent.Backend.
func (b *ScriptedBackend) Complete(ctx context.Context, prompt string, opts kgent.CompletionOptions) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.prompts = append(b.prompts, prompt)
	if b.calls >= len(b.responses) {
		return "", &kgent.BackendError{Err: errors.New("scripted backend exhausted")}
	}
	response := b.responses[b.calls]
	b.calls++
	return response, nil
}

// Calls returns how many times Complete was invoked.
func (b *ScriptedBackend) Calls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls
}

// Prompts returns a copy of all received prompts.
func (b *ScriptedBackend) Prompts() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.prompts))
	copy(out, b.prompts)
	return out
}

// Compile-time check that ScriptedBackend implements kgent.Backend.
var _ kgent.Backend = (*ScriptedBackend)(nil)

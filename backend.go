package kgent

import "context"

// CompletionOptions configure a single backend call.
type CompletionOptions struct {
	// MaxTokens caps the response length. Zero means backend default.
	MaxTokens int

	// Temperature sets sampling randomness. Zero means backend default.
	Temperature float64

	// StopSequences terminate generation early when emitted.
	StopSequences []string
}

// Backend is the language-model capability the planner consumes. It is
// injected at construction and owned by the caller; the planner treats the
// call as opaque and propagates cancellation from ctx unchanged.
//
// Failures (rate limit, timeout, malformed response) must surface as
// *BackendError so the loop can apply its retry policy.
type Backend interface {
	Complete(ctx context.Context, prompt string, opts CompletionOptions) (string, error)
}

// BackendFunc adapts a function to the Backend interface.
type BackendFunc func(ctx context.Context, prompt string, opts CompletionOptions) (string, error)

// Complete implements Backend.
func (f BackendFunc) Complete(ctx context.Context, prompt string, opts CompletionOptions) (string, error) {
	return f(ctx, prompt, opts)
}

// Package models adapts LangChainGo model implementations to kgent's
// Backend interface.
package models

import (
	"context"
	"errors"
	"strings"

	"github.com/kgent-dev/kgent"
	"github.com/tmc/langchaingo/llms"
)

// LangChain wraps an llms.Model as a kgent.Backend.
//
// Example:
//
//	llm, _ := openai.New(openai.WithToken(apiKey))
//	backend := models.NewLangChain(llm).WithName("gpt-4o-mini")
type LangChain struct {
	model llms.Model
	name  string
}

// NewLangChain creates an adapter around the given llms.Model.
func NewLangChain(model llms.Model) *LangChain {
	return &LangChain{model: model}
}

// WithName sets the model name used in logs. Returns the adapter for
// chaining.
func (m *LangChain) WithName(name string) *LangChain {
	m.name = name
	return m
}

// Name returns the configured model name.
func (m *LangChain) Name() string {
	return m.name
}

// Unwrap returns the underlying llms.Model.
func (m *LangChain) Unwrap() llms.Model {
	return m.model
}

// Complete implements kgent.Backend. Failures surface as *kgent.BackendError
// with a Retryable hint; context cancellation propagates unchanged.
func (m *LangChain) Complete(
	ctx context.Context,
	prompt string,
	opts kgent.CompletionOptions,
) (string, error) {
	var callOpts []llms.CallOption
	if opts.MaxTokens > 0 {
		callOpts = append(callOpts, llms.WithMaxTokens(opts.MaxTokens))
	}
	if opts.Temperature > 0 {
		callOpts = append(callOpts, llms.WithTemperature(opts.Temperature))
	}
	if len(opts.StopSequences) > 0 {
		callOpts = append(callOpts, llms.WithStopWords(opts.StopSequences))
	}

	out, err := llms.GenerateFromSinglePrompt(ctx, m.model, prompt, callOpts...)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return "", err
		}
		return "", &kgent.BackendError{Retryable: retryable(err), Err: err}
	}
	return out, nil
}

// retryable classifies provider failures worth retrying with backoff.
// Providers return untyped errors, so this is a best-effort string match.
func retryable(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{
		"rate limit",
		"429",
		"timeout",
		"temporarily",
		"overloaded",
		"unavailable",
		"502",
		"503",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// Compile-time check that LangChain implements kgent.Backend.
var _ kgent.Backend = (*LangChain)(nil)

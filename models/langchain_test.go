package models

import (
	"context"
	"errors"
	"testing"

	"github.com/kgent-dev/kgent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

// fakeModel is an llms.Model returning a fixed response or error.
type fakeModel struct {
	response string
	err      error
	lastOpts llms.CallOptions
}

func (m *fakeModel) GenerateContent(
	ctx context.Context,
	messages []llms.MessageContent,
	options ...llms.CallOption,
) (*llms.ContentResponse, error) {
	m.lastOpts = llms.CallOptions{}
	for _, opt := range options {
		opt(&m.lastOpts)
	}
	if m.err != nil {
		return nil, m.err
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: m.response}},
	}, nil
}

func (m *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

func TestLangChain_Complete(t *testing.T) {
	model := &fakeModel{response: "<answer>Berlin</answer>"}
	backend := NewLangChain(model).WithName("test-model")

	out, err := backend.Complete(context.Background(), "prompt", kgent.CompletionOptions{
		MaxTokens:     256,
		Temperature:   0.3,
		StopSequences: []string{"</answer>"},
	})
	require.NoError(t, err)
	assert.Equal(t, "<answer>Berlin</answer>", out)
	assert.Equal(t, "test-model", backend.Name())

	assert.Equal(t, 256, model.lastOpts.MaxTokens)
	assert.Equal(t, 0.3, model.lastOpts.Temperature)
	assert.Equal(t, []string{"</answer>"}, model.lastOpts.StopWords)
}

func TestLangChain_CompleteZeroOptionsOmitted(t *testing.T) {
	model := &fakeModel{response: "ok"}
	backend := NewLangChain(model)

	_, err := backend.Complete(context.Background(), "prompt", kgent.CompletionOptions{})
	require.NoError(t, err)

	assert.Zero(t, model.lastOpts.MaxTokens)
	assert.Zero(t, model.lastOpts.Temperature)
	assert.Empty(t, model.lastOpts.StopWords)
}

func TestLangChain_CompleteWrapsProviderErrors(t *testing.T) {
	type testCase struct {
		name      string
		err       error
		retryable bool
	}

	run := func(t *testing.T, tc testCase) {
		backend := NewLangChain(&fakeModel{err: tc.err})

		_, err := backend.Complete(context.Background(), "prompt", kgent.CompletionOptions{})

		var be *kgent.BackendError
		require.ErrorAs(t, err, &be)
		assert.Equal(t, tc.retryable, be.Retryable)
		assert.ErrorIs(t, err, tc.err)
	}

	testCases := []testCase{
		{
			name:      "rate limit is retryable",
			err:       errors.New("429: rate limit exceeded"),
			retryable: true,
		},
		{
			name:      "timeout is retryable",
			err:       errors.New("request timeout"),
			retryable: true,
		},
		{
			name:      "service unavailable is retryable",
			err:       errors.New("503 service unavailable"),
			retryable: true,
		},
		{
			name:      "auth failure is not retryable",
			err:       errors.New("invalid api key"),
			retryable: false,
		},
		{
			name:      "bad request is not retryable",
			err:       errors.New("model not found"),
			retryable: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			run(t, tc)
		})
	}
}

func TestLangChain_CompletePreservesContextErrors(t *testing.T) {
	backend := NewLangChain(&fakeModel{err: context.Canceled})

	_, err := backend.Complete(context.Background(), "prompt", kgent.CompletionOptions{})

	assert.ErrorIs(t, err, context.Canceled)
	var be *kgent.BackendError
	assert.False(t, errors.As(err, &be))
}

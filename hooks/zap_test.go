package hooks

import (
	"context"
	"errors"
	"testing"

	"github.com/kgent-dev/kgent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedZap() (*ZapObserver, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return NewZapObserver(zap.New(core)), logs
}

func TestZapObserver_OnStep(t *testing.T) {
	type testCase struct {
		name     string
		step     *kgent.Step
		expected map[string]any
	}

	run := func(t *testing.T, tc testCase) {
		obs, logs := newObservedZap()
		obs.OnStep(context.Background(), kgent.NewTask("q"), tc.step)

		entries := logs.All()
		require.Len(t, entries, 1)
		assert.Equal(t, "step", entries[0].Message)
		fields := entries[0].ContextMap()
		for key, value := range tc.expected {
			assert.Equal(t, value, fields[key], "field %q", key)
		}
	}

	testCases := []testCase{
		{
			name: "tool step",
			step: &kgent.Step{
				Thought:     "check neighbors",
				Action:      &kgent.ToolCall{Tool: "find_neighbor", Args: map[string]any{"entity": "France"}},
				Observation: "Germany",
			},
			expected: map[string]any{
				"thought":     "check neighbors",
				"tool":        "find_neighbor",
				"observation": "Germany",
			},
		},
		{
			name: "finish step",
			step: &kgent.Step{Finish: &kgent.FinishAction{Answer: "Berlin"}},
			expected: map[string]any{
				"answer": "Berlin",
			},
		},
		{
			name: "corrective step",
			step: &kgent.Step{Observation: "unknown tool, try again"},
			expected: map[string]any{
				"observation": "unknown tool, try again",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			run(t, tc)
		})
	}
}

func TestZapObserver_OnDone(t *testing.T) {
	obs, logs := newObservedZap()

	obs.OnDone(context.Background(), kgent.NewTask("q"), &kgent.Answer{
		ID:   "run-1",
		Text: "Berlin",
	}, nil)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "run done", entries[0].Message)
	assert.Equal(t, "Berlin", entries[0].ContextMap()["answer"])
}

func TestZapObserver_OnDoneError(t *testing.T) {
	obs, logs := newObservedZap()

	obs.OnDone(context.Background(), kgent.NewTask("q"), nil, errors.New("budget blown"))

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "run failed", entries[0].Message)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
}

func TestNewZapObserver_NilLogger(t *testing.T) {
	obs := NewZapObserver(nil)
	// Must not panic with a nil logger.
	obs.OnStep(context.Background(), kgent.NewTask("q"), &kgent.Step{Observation: "x"})
	obs.OnDone(context.Background(), kgent.NewTask("q"), &kgent.Answer{}, nil)
}

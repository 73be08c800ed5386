package kgent

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Config holds the AgentLoop's retry and budget policy.
type Config struct {
	// StepBudget is the default maximum number of steps per run, used
	// when Run is called with a non-positive budget.
	StepBudget int

	// CorrectiveRetries bounds consecutive recoverable failures (parse
	// errors, unknown tools, invalid arguments). Each failure appends a
	// corrective observation step; exceeding the bound is fatal.
	CorrectiveRetries int

	// BackendRetries is the number of retries per backend call.
	BackendRetries int

	// ToolRetries is the number of retries per tool execution.
	ToolRetries int

	// RetryableOnly restricts backend retries to errors marked
	// Retryable by the adapter.
	RetryableOnly bool

	// InitialBackoff, MaxBackoff, and BackoffFactor shape the
	// exponential backoff between retries.
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	BackoffFactor  float64
}

// DefaultConfig returns the default loop policy.
func DefaultConfig() Config {
	return Config{
		StepBudget:        10,
		CorrectiveRetries: 2,
		BackendRetries:    2,
		ToolRetries:       2,
		InitialBackoff:    500 * time.Millisecond,
		MaxBackoff:        10 * time.Second,
		BackoffFactor:     2.0,
	}
}

// AgentLoop drives the reasoning cycle: ask the Planner for the next
// action, execute it through the registry, append the observation to
// Memory, and repeat until a finish action, budget exhaustion, or a fatal
// error.
//
// One loop instance is safe to use for parallel runs over independent
// tasks: each run owns its Memory exclusively, while the registry and the
// graph port behind the tools are shared read-mostly collaborators.
type AgentLoop struct {
	planner   *Planner
	registry  *ToolRegistry
	config    Config
	logger    *zap.Logger
	counter   TokenCounter
	observers []Observer
}

// NewAgentLoop creates a loop with the default config, a nop logger, and
// estimated token counting.
func NewAgentLoop(planner *Planner, registry *ToolRegistry) *AgentLoop {
	return &AgentLoop{
		planner:  planner,
		registry: registry,
		config:   DefaultConfig(),
		logger:   zap.NewNop(),
		counter:  EstimateCounter{},
	}
}

// WithConfig sets the loop policy. Returns the loop for chaining.
func (l *AgentLoop) WithConfig(config Config) *AgentLoop {
	l.config = config
	return l
}

// WithLogger sets the logger. Returns the loop for chaining.
func (l *AgentLoop) WithLogger(logger *zap.Logger) *AgentLoop {
	if logger == nil {
		logger = zap.NewNop()
	}
	l.logger = logger
	return l
}

// WithTokenCounter sets the counter used for run statistics.
func (l *AgentLoop) WithTokenCounter(counter TokenCounter) *AgentLoop {
	l.counter = counter
	return l
}

// WithObserver registers an observer for step notifications.
func (l *AgentLoop) WithObserver(obs Observer) *AgentLoop {
	l.observers = append(l.observers, obs)
	return l
}

// Run executes the agent loop for the task within stepBudget steps.
// A non-positive stepBudget falls back to Config.StepBudget.
//
// Run never leaks an unhandled error: it returns either a well-formed
// Answer (marked Incomplete when the budget ran out) or a single
// *FatalAgentError wrapping the root cause. The run's Memory is owned
// exclusively by this call and discarded when it returns; the ordered step
// log survives on the Answer or the error.
func (l *AgentLoop) Run(ctx context.Context, task *Task, stepBudget int) (*Answer, error) {
	if task == nil {
		return nil, &FatalAgentError{Err: errors.New("kgent: nil task")}
	}

	budget := stepBudget
	if budget <= 0 {
		budget = l.config.StepBudget
	}

	runID := uuid.NewString()
	mem := NewMemory()
	stats := RunStats{ToolCalls: make(map[string]int)}
	start := time.Now()
	corrective := 0

	logger := l.logger.With(zap.String("run_id", runID))
	logger.Info("agent run started",
		zap.String("task", task.Text),
		zap.Int("step_budget", budget))

	fatal := func(cause error) (*Answer, error) {
		err := &FatalAgentError{Steps: mem.Steps(), Err: cause}
		logger.Error("agent run failed", zap.Int("steps", mem.Len()), zap.Error(cause))
		l.notifyDone(ctx, task, nil, err)
		return nil, err
	}

	finish := func(text string, incomplete bool) *Answer {
		stats.Steps = mem.Len()
		stats.Elapsed = time.Since(start)
		answer := &Answer{
			ID:         runID,
			Text:       text,
			Incomplete: incomplete,
			Steps:      mem.Steps(),
			Stats:      stats,
		}
		logger.Info("agent run finished",
			zap.Int("steps", stats.Steps),
			zap.Bool("incomplete", incomplete))
		l.notifyDone(ctx, task, answer, nil)
		return answer
	}

	for mem.Len() < budget {
		if err := ctx.Err(); err != nil {
			return fatal(err)
		}

		decision, err := l.decide(ctx, task, mem, logger)
		if err != nil {
			if observation, ok := l.correctiveObservation(err); ok {
				corrective++
				if corrective > l.config.CorrectiveRetries {
					return fatal(err)
				}
				l.appendStep(ctx, task, mem, &Step{Observation: observation, At: time.Now()}, logger)
				continue
			}
			return fatal(err)
		}

		stats.PromptTokens += l.counter.Count(decision.Prompt)
		stats.ResponseTokens += l.counter.Count(decision.Raw)

		if decision.Finish != nil {
			l.appendStep(ctx, task, mem, &Step{
				Thought: decision.Thought,
				Finish:  decision.Finish,
				At:      time.Now(),
			}, logger)
			return finish(decision.Finish.Answer, false), nil
		}

		call := decision.Call

		// Resolve again at execution time: the registry may have been
		// hot-reloaded since the planner validated the name.
		tool, err := l.registry.Resolve(call.Tool)
		if err != nil {
			observation, _ := l.correctiveObservation(err)
			corrective++
			if corrective > l.config.CorrectiveRetries {
				return fatal(err)
			}
			l.appendStep(ctx, task, mem, &Step{
				Thought:     decision.Thought,
				Action:      call,
				Observation: observation,
				At:          time.Now(),
			}, logger)
			continue
		}

		if err := tool.Validate(call.Args); err != nil {
			observation, _ := l.correctiveObservation(err)
			corrective++
			if corrective > l.config.CorrectiveRetries {
				return fatal(err)
			}
			l.appendStep(ctx, task, mem, &Step{
				Thought:     decision.Thought,
				Action:      call,
				Observation: observation,
				At:          time.Now(),
			}, logger)
			continue
		}

		observation, err := l.execute(ctx, tool, call.Args, logger)
		stats.ToolCalls[call.Tool]++
		if err != nil {
			return fatal(err)
		}

		l.appendStep(ctx, task, mem, &Step{
			Thought:     decision.Thought,
			Action:      call,
			Observation: observation,
			At:          time.Now(),
		}, logger)
		corrective = 0
	}

	text := fmt.Sprintf(
		"Step budget of %d exhausted before a final answer was reached; this result is incomplete.",
		budget)
	if last := mem.Last(); last != nil && last.Observation != "" {
		text += " Last observation: " + last.Observation
	}
	return finish(text, true), nil
}

// decide asks the planner for the next action, retrying backend failures
// with exponential backoff.
func (l *AgentLoop) decide(
	ctx context.Context,
	task *Task,
	mem *Memory,
	logger *zap.Logger,
) (*Decision, error) {
	var lastErr error
	for attempt := 0; attempt <= l.config.BackendRetries; attempt++ {
		if attempt > 0 {
			if err := l.sleep(ctx, attempt); err != nil {
				return nil, err
			}
		}

		decision, err := l.planner.NextAction(ctx, task, mem)
		if err == nil {
			return decision, nil
		}
		lastErr = err

		var be *BackendError
		if !errors.As(err, &be) {
			return nil, err
		}
		if l.config.RetryableOnly && !be.Retryable {
			return nil, err
		}
		logger.Warn("backend call failed, retrying",
			zap.Int("attempt", attempt+1),
			zap.Error(err))
	}
	return nil, lastErr
}

// execute runs the tool, retrying execution failures with backoff.
// Arguments were validated by the caller; only *ToolExecutionError occurs
// here.
func (l *AgentLoop) execute(
	ctx context.Context,
	tool *Tool,
	args map[string]any,
	logger *zap.Logger,
) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= l.config.ToolRetries; attempt++ {
		if attempt > 0 {
			if err := l.sleep(ctx, attempt); err != nil {
				return "", err
			}
		}

		observation, err := tool.Execute(ctx, args)
		if err == nil {
			return observation, nil
		}
		lastErr = err

		var te *ToolExecutionError
		if !errors.As(err, &te) {
			return "", err
		}
		logger.Warn("tool execution failed, retrying",
			zap.String("tool", tool.Spec().Name),
			zap.Int("attempt", attempt+1),
			zap.Error(err))
	}
	return "", lastErr
}

// correctiveObservation maps a recoverable error to the observation text
// fed back to the model. The second return value is false for fatal errors.
func (l *AgentLoop) correctiveObservation(err error) (string, bool) {
	var parseErr *ActionParseError
	if errors.As(err, &parseErr) {
		return fmt.Sprintf(
			"Your last response could not be parsed: %v. "+
				"Respond using the documented sections.", parseErr.Err), true
	}
	if errors.Is(err, ErrUnknownTool) {
		return fmt.Sprintf(
			"%v; valid tools are: %s", err, strings.Join(l.registry.Names(), ", ")), true
	}
	var valErr *ArgumentValidationError
	if errors.As(err, &valErr) {
		return fmt.Sprintf(
			"Invalid arguments for tool %q: %s. Check the tool's parameter schema.",
			valErr.Tool, valErr.Constraint), true
	}
	return "", false
}

// appendStep commits a step to memory and notifies observers. A step is
// appended whole or not at all; there is no partial append.
func (l *AgentLoop) appendStep(ctx context.Context, task *Task, mem *Memory, step *Step, logger *zap.Logger) {
	if err := mem.Append(step); err != nil {
		// Only empty steps are rejected; the loop never builds one.
		logger.Warn("dropped malformed step", zap.Error(err))
		return
	}
	logger.Debug("step recorded",
		zap.Int("step", mem.Len()),
		zap.Bool("finish", step.IsFinish()))
	for _, obs := range l.observers {
		obs.OnStep(ctx, task, step)
	}
}

func (l *AgentLoop) notifyDone(ctx context.Context, task *Task, answer *Answer, err error) {
	for _, obs := range l.observers {
		obs.OnDone(ctx, task, answer, err)
	}
}

// backoffDelay computes the exponential backoff delay for the given attempt
// (1-indexed), capped at MaxBackoff.
func (l *AgentLoop) backoffDelay(attempt int) time.Duration {
	factor := l.config.BackoffFactor
	if factor <= 0 {
		factor = 2.0
	}
	delay := float64(l.config.InitialBackoff) * math.Pow(factor, float64(attempt-1))
	if max := float64(l.config.MaxBackoff); l.config.MaxBackoff > 0 && delay > max {
		delay = max
	}
	return time.Duration(delay)
}

// sleep waits out the backoff delay, aborting early on cancellation.
func (l *AgentLoop) sleep(ctx context.Context, attempt int) error {
	delay := l.backoffDelay(attempt)
	if delay <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(delay):
		return nil
	}
}

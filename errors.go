package kgent

import (
	"errors"
	"fmt"
)

// Registry errors.
var (
	// ErrDuplicateTool is returned when registering a tool whose name is
	// already taken. The registry is left unchanged.
	ErrDuplicateTool = errors.New("kgent: tool already registered")

	// ErrUnknownTool is returned when resolving a tool name that was
	// never registered.
	ErrUnknownTool = errors.New("kgent: unknown tool")
)

// ArgumentValidationError indicates a tool call's arguments failed schema
// validation. Constraint names the specific violation so it can be fed back
// to the model as a corrective observation.
type ArgumentValidationError struct {
	Tool       string
	Constraint string
	Err        error
}

func (e *ArgumentValidationError) Error() string {
	return fmt.Sprintf("invalid arguments for tool %q: %s", e.Tool, e.Constraint)
}

func (e *ArgumentValidationError) Unwrap() error {
	return e.Err
}

// ActionParseError indicates the model's output could not be parsed into a
// tool call or finish action. Raw holds the output that failed to parse.
type ActionParseError struct {
	Raw string
	Err error
}

func (e *ActionParseError) Error() string {
	return fmt.Sprintf("cannot parse action from model output: %v", e.Err)
}

func (e *ActionParseError) Unwrap() error {
	return e.Err
}

// ToolExecutionError wraps a failure from the underlying graph query.
// The raw backend error is never surfaced past the tool boundary directly.
type ToolExecutionError struct {
	Tool string
	Err  error
}

func (e *ToolExecutionError) Error() string {
	return fmt.Sprintf("tool %q failed: %v", e.Tool, e.Err)
}

func (e *ToolExecutionError) Unwrap() error {
	return e.Err
}

// BackendError wraps a failure from the language-model backend.
// Retryable hints whether the loop should retry the call with backoff.
type BackendError struct {
	Retryable bool
	Err       error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("backend call failed: %v", e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// FatalAgentError is the single error type AgentLoop.Run returns. It wraps
// the root cause and carries the steps recorded before the failure so a
// partial run remains auditable.
type FatalAgentError struct {
	Steps []*Step
	Err   error
}

func (e *FatalAgentError) Error() string {
	return fmt.Sprintf("agent run failed after %d steps: %v", len(e.Steps), e.Err)
}

func (e *FatalAgentError) Unwrap() error {
	return e.Err
}

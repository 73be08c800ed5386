package kgent

import (
	"context"
	"fmt"

	"github.com/kgent-dev/kgent/schema"
)

// ToolSpec declares a tool: its unique name, a description for the model,
// and a JSON Schema for its parameters. Specs are registered once and
// immutable thereafter.
type ToolSpec struct {
	// Name identifies the tool in tool calls. Unique within a registry.
	Name string `yaml:"name"`

	// Description tells the model what the tool does.
	Description string `yaml:"description"`

	// Parameters is a raw JSON Schema map for the tool's arguments.
	// Nil means the tool takes no arguments. Build with the schema
	// package.
	Parameters map[string]any `yaml:"parameters,omitempty"`
}

// ToolHandler executes one graph-query operation and returns a
// plain-text-renderable observation.
type ToolHandler func(ctx context.Context, args map[string]any) (string, error)

// Tool binds a spec, its compiled parameter schema, and a handler.
// Each tool wraps exactly one graph-query operation.
type Tool struct {
	spec     ToolSpec
	compiled *schema.Schema
	handler  ToolHandler
}

// NewTool creates a Tool, compiling the spec's parameter schema.
// Fails if the schema is invalid or the handler is nil.
func NewTool(spec ToolSpec, handler ToolHandler) (*Tool, error) {
	if spec.Name == "" {
		return nil, fmt.Errorf("kgent: tool spec has no name")
	}
	if handler == nil {
		return nil, fmt.Errorf("kgent: tool %q has no handler", spec.Name)
	}
	compiled, err := schema.Compile(spec.Parameters)
	if err != nil {
		return nil, fmt.Errorf("kgent: tool %q schema: %w", spec.Name, err)
	}
	return &Tool{spec: spec, compiled: compiled, handler: handler}, nil
}

// Spec returns the tool's declaration.
func (t *Tool) Spec() ToolSpec {
	return t.spec
}

// Validate checks arguments against the declared parameter schema.
// Returns an *ArgumentValidationError naming the violated constraint.
func (t *Tool) Validate(args map[string]any) error {
	if args == nil {
		args = map[string]any{}
	}
	if err := t.compiled.Validate(args); err != nil {
		return &ArgumentValidationError{
			Tool:       t.spec.Name,
			Constraint: err.Error(),
			Err:        err,
		}
	}
	return nil
}

// Execute validates the arguments and calls the bound handler.
// Any handler failure is wrapped in a *ToolExecutionError; the raw backend
// error never escapes upward unwrapped.
func (t *Tool) Execute(ctx context.Context, args map[string]any) (string, error) {
	if err := t.Validate(args); err != nil {
		return "", err
	}

	observation, err := t.handler(ctx, args)
	if err != nil {
		return "", &ToolExecutionError{Tool: t.spec.Name, Err: err}
	}
	return observation, nil
}

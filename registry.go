package kgent

import (
	"fmt"
	"sync"
)

// ToolRegistry holds the set of tools available to an agent and resolves
// requested tool names to their callable contracts.
//
// Registration order is preserved: Specs feeds prompt construction and must
// be reproducible. Access is guarded by an RWMutex favoring readers, since
// resolution happens once per step while mutation (tool hot-reload) is rare.
type ToolRegistry struct {
	mu    sync.RWMutex
	order []string
	tools map[string]*Tool
}

// NewToolRegistry creates an empty registry.
func NewToolRegistry() *ToolRegistry {
	return &ToolRegistry{
		tools: make(map[string]*Tool),
	}
}

// Register creates a tool from the spec and handler and adds it.
// Fails with ErrDuplicateTool if the name is taken; the registry contents
// are unchanged after a failed call.
func (r *ToolRegistry) Register(spec ToolSpec, handler ToolHandler) error {
	tool, err := NewTool(spec, handler)
	if err != nil {
		return err
	}
	return r.RegisterTool(tool)
}

// RegisterTool adds an already-constructed tool.
func (r *ToolRegistry) RegisterTool(tool *Tool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := tool.Spec().Name
	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateTool, name)
	}
	r.tools[name] = tool
	r.order = append(r.order, name)
	return nil
}

// Resolve returns the tool registered under name.
// Fails with ErrUnknownTool when no such tool exists.
func (r *ToolRegistry) Resolve(name string) (*Tool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tool, ok := r.tools[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	return tool, nil
}

// Specs returns the registered tool specs in registration order.
func (r *ToolRegistry) Specs() []ToolSpec {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]ToolSpec, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name].Spec())
	}
	return out
}

// Names returns the registered tool names in registration order.
func (r *ToolRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of registered tools.
func (r *ToolRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

package kgent

import (
	"errors"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Memory is the append-only ordered log of reasoning steps for one task.
// It is created by the loop at the start of a run and discarded when the run
// ends; the loop is its sole mutator. Reads are mutex-guarded so observers
// can render memory while a run is in flight.
type Memory struct {
	mu    sync.RWMutex
	steps []*Step
}

// NewMemory creates an empty Memory.
func NewMemory() *Memory {
	return &Memory{}
}

// Append records a step. The only validation is shape checking: the step
// must be non-nil and carry at least one of thought, action, finish, or
// observation. Appended steps are never mutated or removed.
func (m *Memory) Append(step *Step) error {
	if step == nil {
		return errors.New("kgent: cannot append nil step")
	}
	if step.Thought == "" && step.Action == nil && step.Finish == nil && step.Observation == "" {
		return errors.New("kgent: cannot append empty step")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.steps = append(m.steps, step)
	return nil
}

// Len returns the number of recorded steps.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.steps)
}

// Steps returns a copy of the recorded step sequence.
func (m *Memory) Steps() []*Step {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Step, len(m.steps))
	copy(out, m.steps)
	return out
}

// Last returns the most recent step, or nil when memory is empty.
func (m *Memory) Last() *Step {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.steps) == 0 {
		return nil
	}
	return m.steps[len(m.steps)-1]
}

// stepView is the prompt-facing rendering of a Step. Timestamps are
// excluded so renders are stable across runs with identical content.
type stepView struct {
	Thought     string        `yaml:"thought,omitempty"`
	Action      *ToolCall     `yaml:"action,omitempty"`
	Finish      *FinishAction `yaml:"finish,omitempty"`
	Observation string        `yaml:"observation,omitempty"`
}

// renderStep serializes one step as a YAML document.
func renderStep(step *Step) string {
	view := stepView{
		Thought:     step.Thought,
		Action:      step.Action,
		Finish:      step.Finish,
		Observation: step.Observation,
	}
	data, err := yaml.Marshal(view)
	if err != nil {
		// yaml.Marshal on plain structs and scalar maps does not fail;
		// degrade to the observation text rather than lose the step.
		return "observation: " + step.Observation + "\n"
	}
	return string(data)
}

// Render serializes the step log for inclusion in a prompt, oldest first.
//
// When the total serialized length exceeds maxChars, the earliest steps are
// dropped until the rest fits. The most recent step is always kept in full,
// even when it alone exceeds maxChars: bounded context must never cost the
// model its latest observation. maxChars <= 0 disables truncation.
//
// The result is deterministic for a given step sequence.
func (m *Memory) Render(maxChars int) string {
	m.mu.RLock()
	steps := make([]*Step, len(m.steps))
	copy(steps, m.steps)
	m.mu.RUnlock()

	if len(steps) == 0 {
		return ""
	}

	rendered := make([]string, len(steps))
	for i, step := range steps {
		rendered[i] = renderStep(step)
	}

	start := 0
	if maxChars > 0 {
		for start < len(rendered)-1 && joinedLen(rendered[start:]) > maxChars {
			start++
		}
	}

	return strings.Join(rendered[start:], stepSeparator)
}

const stepSeparator = "---\n"

func joinedLen(parts []string) int {
	total := 0
	for _, p := range parts {
		total += len(p)
	}
	if len(parts) > 1 {
		total += (len(parts) - 1) * len(stepSeparator)
	}
	return total
}

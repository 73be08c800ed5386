package kgent

import "time"

// ToolCall is a parsed tool invocation from model output.
type ToolCall struct {
	Tool string         `json:"tool" yaml:"tool"`
	Args map[string]any `json:"args,omitempty" yaml:"args,omitempty"`
}

// FinishAction is the terminal action carrying the final answer text.
type FinishAction struct {
	Answer string `json:"answer" yaml:"answer"`
}

// Step is one reasoning cycle: the model's thought, the action it chose,
// and the observation produced by executing that action. Steps are
// append-only; once recorded in Memory they are never mutated.
//
// At most one of Action and Finish is set. A corrective step (recorded when
// the model produced an unusable action) has neither, only an Observation.
type Step struct {
	Thought     string        `json:"thought,omitempty" yaml:"thought,omitempty"`
	Action      *ToolCall     `json:"action,omitempty" yaml:"action,omitempty"`
	Finish      *FinishAction `json:"finish,omitempty" yaml:"finish,omitempty"`
	Observation string        `json:"observation,omitempty" yaml:"observation,omitempty"`
	At          time.Time     `json:"at" yaml:"at"`
}

// IsFinish reports whether this step carries the final answer.
func (s *Step) IsFinish() bool {
	return s.Finish != nil
}

// RunStats aggregates counters for one agent run.
type RunStats struct {
	// Steps is the number of steps recorded in Memory.
	Steps int `json:"steps"`

	// PromptTokens and ResponseTokens are counted by the loop's
	// TokenCounter over every backend exchange.
	PromptTokens   int `json:"prompt_tokens"`
	ResponseTokens int `json:"response_tokens"`

	// ToolCalls counts successful and failed calls per tool name.
	ToolCalls map[string]int `json:"tool_calls,omitempty"`

	// Elapsed is the wall-clock duration of the run.
	Elapsed time.Duration `json:"elapsed"`
}

// Answer is the terminal output of one agent run: the final text plus the
// full ordered step sequence for auditability.
//
// An Answer exists if and only if the loop reached a finish action or
// exhausted its step budget; in the latter case Incomplete is true and Text
// states the incompleteness explicitly.
type Answer struct {
	// ID uniquely identifies the run, for transcript correlation.
	ID string `json:"id"`

	// Text is the final answer (or a best-effort statement when
	// Incomplete).
	Text string `json:"text"`

	// Incomplete is true when the step budget ran out before a finish
	// action.
	Incomplete bool `json:"incomplete,omitempty"`

	// Steps is the full ordered reasoning record.
	Steps []*Step `json:"steps"`

	// Stats aggregates counters for the run.
	Stats RunStats `json:"stats"`
}

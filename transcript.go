package kgent

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// Transcript is the serialized audit record of one run: the task, the
// outcome, and the full ordered step sequence. Writing and re-reading a
// transcript reproduces an identical step sequence.
type Transcript struct {
	// RunID matches the Answer's ID.
	RunID string `json:"run_id"`

	Task *Task `json:"task"`

	Answer     string `json:"answer"`
	Incomplete bool   `json:"incomplete,omitempty"`

	Steps []*Step `json:"steps"`

	Stats RunStats `json:"stats"`

	CreatedAt time.Time `json:"created_at"`
}

// NewTranscript builds a transcript from a task and its answer.
func NewTranscript(task *Task, answer *Answer) *Transcript {
	return &Transcript{
		RunID:      answer.ID,
		Task:       task,
		Answer:     answer.Text,
		Incomplete: answer.Incomplete,
		Steps:      answer.Steps,
		Stats:      answer.Stats,
		CreatedAt:  time.Now().UTC(),
	}
}

// WriteJSON writes the transcript as indented JSON.
func (t *Transcript) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(t); err != nil {
		return fmt.Errorf("kgent: write transcript: %w", err)
	}
	return nil
}

// ReadTranscript decodes a transcript written by WriteJSON.
func ReadTranscript(r io.Reader) (*Transcript, error) {
	var t Transcript
	if err := json.NewDecoder(r).Decode(&t); err != nil {
		return nil, fmt.Errorf("kgent: read transcript: %w", err)
	}
	return &t, nil
}

package kgent

import "context"

// Observer receives step-by-step notifications from an AgentLoop run.
// Implementations live in the hooks package; register them via
// AgentLoop.WithObserver.
//
// Observers are called synchronously from the loop goroutine after the step
// is committed to Memory, so they see a consistent log. They must not block
// for long and must not mutate the step.
type Observer interface {
	// OnStep is called after each step is appended to Memory.
	OnStep(ctx context.Context, task *Task, step *Step)

	// OnDone is called once when the run ends. Exactly one of answer and
	// err is non-nil.
	OnDone(ctx context.Context, task *Task, answer *Answer, err error)
}

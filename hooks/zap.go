// Package hooks provides reusable Observer implementations for logging and
// transcript capture during agent runs.
package hooks

import (
	"context"

	"github.com/kgent-dev/kgent"
	"go.uber.org/zap"
)

// ZapObserver logs each step and the run outcome through a zap logger.
type ZapObserver struct {
	logger *zap.Logger
}

// NewZapObserver creates an observer over the given logger.
// A nil logger falls back to zap.NewNop().
func NewZapObserver(logger *zap.Logger) *ZapObserver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapObserver{logger: logger}
}

// OnStep implements kgent.Observer.
func (o *ZapObserver) OnStep(ctx context.Context, task *kgent.Task, step *kgent.Step) {
	fields := []zap.Field{
		zap.String("thought", step.Thought),
	}
	switch {
	case step.Finish != nil:
		fields = append(fields, zap.String("answer", step.Finish.Answer))
	case step.Action != nil:
		fields = append(fields,
			zap.String("tool", step.Action.Tool),
			zap.Any("args", step.Action.Args),
			zap.String("observation", step.Observation))
	default:
		fields = append(fields, zap.String("observation", step.Observation))
	}
	o.logger.Info("step", fields...)
}

// OnDone implements kgent.Observer.
func (o *ZapObserver) OnDone(ctx context.Context, task *kgent.Task, answer *kgent.Answer, err error) {
	if err != nil {
		o.logger.Error("run failed", zap.Error(err))
		return
	}
	o.logger.Info("run done",
		zap.String("run_id", answer.ID),
		zap.String("answer", answer.Text),
		zap.Bool("incomplete", answer.Incomplete),
		zap.Int("steps", answer.Stats.Steps))
}

// Compile-time check that ZapObserver implements kgent.Observer.
var _ kgent.Observer = (*ZapObserver)(nil)

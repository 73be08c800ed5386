package hooks

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/kgent-dev/kgent"
	"gopkg.in/yaml.v3"
)

// YAMLLogger writes every step and the final outcome to a writer as YAML
// with block scalars, for human-readable run logs. Nothing is truncated.
type YAMLLogger struct {
	out io.Writer
}

// NewYAMLLogger creates a logger writing to w.
func NewYAMLLogger(w io.Writer) *YAMLLogger {
	return &YAMLLogger{out: w}
}

func (l *YAMLLogger) header(name string) {
	fmt.Fprintf(l.out, "\n>>> [%s]: %s\n", name, time.Now().Format("2006-01-02 15:04:05.000"))
}

func (l *YAMLLogger) dump(v any) {
	data, err := yaml.Marshal(v)
	if err != nil {
		fmt.Fprintf(l.out, "(failed to marshal: %v)\n", err)
		return
	}
	fmt.Fprint(l.out, string(data))
}

// OnStep implements kgent.Observer.
func (l *YAMLLogger) OnStep(ctx context.Context, task *kgent.Task, step *kgent.Step) {
	l.header("step")
	l.dump(step)
}

// OnDone implements kgent.Observer.
func (l *YAMLLogger) OnDone(ctx context.Context, task *kgent.Task, answer *kgent.Answer, err error) {
	if err != nil {
		l.header("failed")
		fmt.Fprintf(l.out, "error: %v\n", err)
		return
	}
	l.header("done")
	l.dump(map[string]any{
		"run_id":     answer.ID,
		"answer":     answer.Text,
		"incomplete": answer.Incomplete,
		"steps":      answer.Stats.Steps,
	})
}

// Compile-time check that YAMLLogger implements kgent.Observer.
var _ kgent.Observer = (*YAMLLogger)(nil)

package kgent

// Task is the immutable input for one agent run: a natural-language question
// plus optional structured hints. Construct it once per invocation; the loop
// never mutates it.
type Task struct {
	// Text is the question to answer.
	Text string `json:"text" yaml:"text"`

	// Seeds are entity names known to be relevant, included in the prompt
	// as starting points for graph exploration.
	Seeds []string `json:"seeds,omitempty" yaml:"seeds,omitempty"`

	// TargetSchema describes the expected shape of the final answer
	// (e.g., "a single city name").
	TargetSchema string `json:"target_schema,omitempty" yaml:"target_schema,omitempty"`
}

// NewTask creates a Task with the given question text.
func NewTask(text string) *Task {
	return &Task{Text: text}
}

// WithSeeds sets the seed entities. Returns the task for chaining.
func (t *Task) WithSeeds(seeds ...string) *Task {
	t.Seeds = seeds
	return t
}

// WithTargetSchema sets the expected answer shape. Returns the task for
// chaining.
func (t *Task) WithTargetSchema(schema string) *Task {
	t.TargetSchema = schema
	return t
}

package kgent

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/kgent-dev/kgent/format"
	"gopkg.in/yaml.v3"
)

// Section names in the model's output.
const (
	SectionThought = "thought"
	SectionAction  = "action"
	SectionAnswer  = "answer"
)

//go:embed prompt.tmpl
var defaultPromptTemplateContent string

// defaultPromptTemplate renders the full prompt for one planner decision.
// Replace it via Planner.WithTemplate for full control over prompting.
var defaultPromptTemplate = template.Must(
	template.New("kgent_prompt").
		Funcs(template.FuncMap{"join": strings.Join}).
		Parse(defaultPromptTemplateContent),
)

// PromptData is the data passed to the prompt template.
type PromptData struct {
	// SystemPrompt is additional context set via WithSystemPrompt.
	SystemPrompt string

	// OutputPrompt explains the output section structure.
	OutputPrompt string

	// Tools is the rendered tool catalog.
	Tools string

	// Question, Seeds, and TargetSchema come from the Task.
	Question     string
	Seeds        []string
	TargetSchema string

	// Memory is the truncated rendering of the step log.
	Memory string
}

// Decision is the planner's output for one step: the model's thought plus
// either a tool call or a finish action, never both.
//
// Prompt and Raw preserve the exchange verbatim for token accounting and
// observers; they are not part of the decision itself.
type Decision struct {
	Thought string
	Call    *ToolCall
	Finish  *FinishAction

	Prompt string
	Raw    string
}

// Planner is the reasoning core: given the task and memory, it asks the
// backend for the next action and parses the response.
//
// A Planner holds no per-run state; all continuity lives in the Memory
// owned by the loop, so one Planner is safe to share across concurrent runs.
type Planner struct {
	backend      Backend
	registry     *ToolRegistry
	format       *format.XML
	template     *template.Template
	opts         CompletionOptions
	systemPrompt string
	memoryBudget int
}

// DefaultMemoryBudget is the default cap, in characters, on the memory
// rendering included in a prompt.
const DefaultMemoryBudget = 24000

// NewPlanner creates a Planner over the given backend and registry.
// Defaults: XML section format, the embedded prompt template, and a memory
// rendering budget of DefaultMemoryBudget characters.
func NewPlanner(backend Backend, registry *ToolRegistry) *Planner {
	return &Planner{
		backend:      backend,
		registry:     registry,
		format:       format.NewXML(defaultSections()...),
		template:     defaultPromptTemplate,
		memoryBudget: DefaultMemoryBudget,
	}
}

// WithSystemPrompt adds caller context to the prompt, after the built-in
// instructions. Returns the planner for chaining.
func (p *Planner) WithSystemPrompt(prompt string) *Planner {
	p.systemPrompt = prompt
	return p
}

// WithCompletionOptions sets the options passed to every backend call.
func (p *Planner) WithCompletionOptions(opts CompletionOptions) *Planner {
	p.opts = opts
	return p
}

// WithTemplate replaces the prompt template. The template executes against
// PromptData.
func (p *Planner) WithTemplate(tmpl *template.Template) *Planner {
	p.template = tmpl
	return p
}

// WithMemoryBudget caps the memory rendering included in prompts, in
// characters. Zero or negative disables truncation.
func (p *Planner) WithMemoryBudget(chars int) *Planner {
	p.memoryBudget = chars
	return p
}

func defaultSections() []format.Section {
	return []format.Section{
		{
			Name:   SectionThought,
			Prompt: "Explain your reasoning about what to do next.",
		},
		{
			Name: SectionAction,
			Prompt: "Call exactly one tool using YAML format:\n" +
				"tool: tool_name\n" +
				"args:\n" +
				"  param: value\n" +
				"Omit this section when you finish instead.",
		},
		{
			Name: SectionAnswer,
			Prompt: "Write your final answer once the observations contain enough " +
				"information. Use this section only when you are done; omit it otherwise.",
		},
	}
}

// catalog renders the registered tool specs for the prompt, in registration
// order, with parameter schemas as indented YAML.
func (p *Planner) catalog() string {
	var sb strings.Builder
	for _, spec := range p.registry.Specs() {
		fmt.Fprintf(&sb, "- %s: %s\n", spec.Name, spec.Description)
		if spec.Parameters == nil {
			continue
		}
		schemaYAML, err := yaml.Marshal(spec.Parameters)
		if err != nil {
			continue
		}
		sb.WriteString("  parameters:\n")
		for _, line := range strings.Split(strings.TrimRight(string(schemaYAML), "\n"), "\n") {
			sb.WriteString("    ")
			sb.WriteString(line)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// RenderPrompt builds the full prompt for the given task and memory.
// Exposed for testing and prompt debugging.
func (p *Planner) RenderPrompt(task *Task, mem *Memory) (string, error) {
	data := PromptData{
		SystemPrompt: p.systemPrompt,
		OutputPrompt: p.format.Describe(),
		Tools:        p.catalog(),
		Question:     task.Text,
		Seeds:        task.Seeds,
		TargetSchema: task.TargetSchema,
		Memory:       mem.Render(p.memoryBudget),
	}

	var buf bytes.Buffer
	if err := p.template.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("kgent: render prompt: %w", err)
	}
	return buf.String(), nil
}

// NextAction decides the next action for the task given the current memory.
//
// The backend call is the sole suspension point; cancellation and timeout
// from ctx propagate unchanged. Parse failures return *ActionParseError and
// a tool call naming an unregistered tool surfaces ErrUnknownTool; the loop
// decides whether to retry. No state is retained between calls.
func (p *Planner) NextAction(ctx context.Context, task *Task, mem *Memory) (*Decision, error) {
	prompt, err := p.RenderPrompt(task, mem)
	if err != nil {
		return nil, err
	}

	raw, err := p.backend.Complete(ctx, prompt, p.opts)
	if err != nil {
		return nil, asBackendError(err)
	}

	decision, err := p.parseResponse(raw)
	if err != nil {
		return nil, err
	}
	decision.Prompt = prompt
	decision.Raw = raw
	return decision, nil
}

// asBackendError ensures backend failures surface as *BackendError while
// leaving context cancellation observable through errors.Is.
func asBackendError(err error) error {
	var be *BackendError
	if errors.As(err, &be) {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return &BackendError{Err: err}
}

// parseResponse turns the raw model output into a Decision.
// An answer section takes precedence over an action section.
func (p *Planner) parseResponse(raw string) (*Decision, error) {
	parsed, err := p.format.Parse(raw)
	if err != nil {
		return nil, &ActionParseError{Raw: raw, Err: err}
	}

	decision := &Decision{}
	if thoughts := parsed[SectionThought]; len(thoughts) > 0 {
		decision.Thought = strings.Join(thoughts, "\n")
	}

	if answers := parsed[SectionAnswer]; len(answers) > 0 {
		answer := strings.TrimSpace(strings.Join(answers, "\n"))
		if answer != "" {
			decision.Finish = &FinishAction{Answer: answer}
			return decision, nil
		}
	}

	actions := parsed[SectionAction]
	if len(actions) == 0 {
		return nil, &ActionParseError{
			Raw: raw,
			Err: errors.New("output contains neither an action nor an answer section"),
		}
	}

	call, err := parseToolCall(actions[0])
	if err != nil {
		return nil, &ActionParseError{Raw: raw, Err: err}
	}

	// Unknown tool names surface as-is, never silently substituted.
	if _, err := p.registry.Resolve(call.Tool); err != nil {
		return nil, err
	}

	decision.Call = call
	return decision, nil
}

// parseToolCall decodes a YAML tool call from action section content.
func parseToolCall(content string) (*ToolCall, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errors.New("action section is empty")
	}

	var call ToolCall
	if err := yaml.Unmarshal([]byte(content), &call); err != nil {
		return nil, fmt.Errorf("invalid YAML in action section: %w", err)
	}
	if call.Tool == "" {
		return nil, errors.New("tool call missing 'tool' field")
	}
	return &call, nil
}

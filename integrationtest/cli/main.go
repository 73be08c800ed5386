// Package main provides an interactive CLI for asking questions against
// the geography fixture graph with a live model backend.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/chzyer/readline"
	"github.com/kgent-dev/kgent"
	"github.com/kgent-dev/kgent/hooks"
	"github.com/kgent-dev/kgent/integrationtest/geography"
	"github.com/kgent-dev/kgent/models"
	"github.com/tmc/langchaingo/llms/openai"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorBold   = "\033[1m"
	colorDim    = "\033[2m"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr,
			"%sError: %v%s\n",
			colorRed, err, colorReset)
		os.Exit(1)
	}
}

func run() error {
	if os.Getenv("OPENAI_API_KEY") == "" {
		fmt.Fprintf(os.Stderr,
			"%sWARNING: OPENAI_API_KEY environment variable "+
				"is not set; runs will fail.%s\n",
			colorYellow, colorReset)
	}

	logDir := ".logs"
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	logFile, err := os.Create(filepath.Join(logDir, "cli_geography.log"))
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}
	defer logFile.Close()

	llm, err := openai.New()
	if err != nil {
		return fmt.Errorf("failed to create model: %w", err)
	}
	backend := models.NewLangChain(llm)

	store := geography.NewFixtureStore()
	registry, err := geography.NewFixtureRegistry(store)
	if err != nil {
		return fmt.Errorf("failed to build registry: %w", err)
	}

	planner := kgent.NewPlanner(backend, registry).
		WithCompletionOptions(kgent.CompletionOptions{Temperature: 0.1})
	loop := kgent.NewAgentLoop(planner, registry).
		WithObserver(hooks.NewYAMLLogger(logFile)).
		WithObserver(stepPrinter{})

	fmt.Printf("%s%sGeography Agent%s\n", colorBold, colorYellow, colorReset)
	fmt.Printf("%s%s%s\n", colorYellow, strings.Repeat("=", 15), colorReset)
	fmt.Printf("%sAsk questions about the toy geography graph "+
		"(France, Germany, Spain, Italy, Poland).%s\n", colorDim, colorReset)
	fmt.Printf("%sExample: What is the capital of the country bordering "+
		"France with code DE?%s\n", colorDim, colorReset)
	fmt.Printf("%sType 'q' to quit.%s\n\n", colorDim, colorReset)

	rl, err := readline.New(colorCyan + colorBold + "Question: " + colorReset)
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}
	defer rl.Close()

	for {
		input, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				fmt.Printf("\n%sGoodbye!%s\n", colorGreen, colorReset)
				return nil
			}
			return fmt.Errorf("failed to read input: %w", err)
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		if input == "q" || input == "Q" || input == "exit" {
			fmt.Printf("%sGoodbye!%s\n", colorGreen, colorReset)
			return nil
		}

		ctx, cancel := context.WithCancel(context.Background())
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			<-sigCh
			fmt.Printf("\n%sReceived interrupt, cancelling...%s\n",
				colorYellow, colorReset)
			cancel()
		}()

		start := time.Now()
		answer, err := loop.Run(ctx, kgent.NewTask(input), 10)

		signal.Stop(sigCh)
		cancel()

		if err != nil {
			fmt.Fprintf(os.Stderr, "%sRun failed: %v%s\n\n",
				colorRed, err, colorReset)
			continue
		}

		label := "Answer"
		color := colorGreen
		if answer.Incomplete {
			label = "Incomplete"
			color = colorYellow
		}
		fmt.Printf("\n%s%s%s:%s %s\n", colorBold, color, label, colorReset, answer.Text)
		fmt.Printf("%s[%d steps, %d prompt tokens, %d response tokens, %s]%s\n\n",
			colorDim,
			answer.Stats.Steps,
			answer.Stats.PromptTokens,
			answer.Stats.ResponseTokens,
			time.Since(start).Round(time.Millisecond),
			colorReset)
	}
}

// stepPrinter streams each step to stdout as the run progresses.
type stepPrinter struct{}

func (stepPrinter) OnStep(ctx context.Context, task *kgent.Task, step *kgent.Step) {
	switch {
	case step.Finish != nil:
		return
	case step.Action != nil:
		fmt.Printf("%s[Tool: %s]%s", colorCyan, step.Action.Tool, colorReset)
		fmt.Printf("%s %v -> %s%s\n", colorDim, step.Action.Args, step.Observation, colorReset)
	default:
		fmt.Printf("%s[Corrective: %s]%s\n", colorYellow, step.Observation, colorReset)
	}
}

func (stepPrinter) OnDone(ctx context.Context, task *kgent.Task, answer *kgent.Answer, err error) {
}

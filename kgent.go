// Package kgent implements an autonomous agent that answers questions by
// reasoning over a knowledge graph.
//
// The agent works in steps: a Planner renders the task, the tool catalog,
// and the step log into a prompt, asks a language-model Backend for the
// next action, and parses the response into either a tool call or a finish
// action. The AgentLoop validates tool calls against a ToolRegistry,
// executes them through a graph.QueryPort, appends the observation to
// Memory, and repeats until the model finishes or the step budget runs out.
//
// Minimal setup:
//
//	store := graph.NewTripleStore()
//	store.Load(graph.Triple{Subject: "France", Predicate: "borders", Object: "Germany"})
//
//	registry := kgent.NewToolRegistry()
//	graphtools.RegisterAll(registry, store)
//
//	planner := kgent.NewPlanner(backend, registry)
//	loop := kgent.NewAgentLoop(planner, registry)
//
//	answer, err := loop.Run(ctx, kgent.NewTask("Which country borders France?"), 10)
package kgent

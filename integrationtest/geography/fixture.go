// Package geography provides an end-to-end fixture: a small geography
// knowledge graph and a pre-wired agent over it.
package geography

import (
	"github.com/kgent-dev/kgent"
	"github.com/kgent-dev/kgent/graph"
	"github.com/kgent-dev/kgent/graphtools"
)

// NewFixtureStore builds the toy geography graph used by the integration
// scenarios.
func NewFixtureStore() *graph.TripleStore {
	store := graph.NewTripleStore()
	store.Load(
		graph.Triple{Subject: "France", Predicate: "borders", Object: "Germany"},
		graph.Triple{Subject: "France", Predicate: "borders", Object: "Spain"},
		graph.Triple{Subject: "France", Predicate: "borders", Object: "Italy"},
		graph.Triple{Subject: "France", Predicate: "capital", Object: "Paris"},
		graph.Triple{Subject: "Germany", Predicate: "borders", Object: "France"},
		graph.Triple{Subject: "Germany", Predicate: "borders", Object: "Poland"},
		graph.Triple{Subject: "Germany", Predicate: "capital", Object: "Berlin"},
		graph.Triple{Subject: "Germany", Predicate: "country_code", Object: "DE"},
		graph.Triple{Subject: "Spain", Predicate: "capital", Object: "Madrid"},
		graph.Triple{Subject: "Italy", Predicate: "capital", Object: "Rome"},
		graph.Triple{Subject: "Poland", Predicate: "capital", Object: "Warsaw"},
		graph.Triple{Subject: "Paris", Predicate: "population", Object: "2102650"},
		graph.Triple{Subject: "Berlin", Predicate: "population", Object: "3878100"},
	)
	return store
}

// NewFixtureRegistry builds a registry with the full graph tool set over
// the given store.
func NewFixtureRegistry(store *graph.TripleStore) (*kgent.ToolRegistry, error) {
	registry := kgent.NewToolRegistry()
	if err := graphtools.RegisterAll(registry, store); err != nil {
		return nil, err
	}
	return registry, nil
}

// NewFixtureLoop wires a complete agent loop over the fixture store with
// the given backend and fast retry timings suitable for tests.
func NewFixtureLoop(backend kgent.Backend) (*kgent.AgentLoop, *kgent.ToolRegistry, error) {
	registry, err := NewFixtureRegistry(NewFixtureStore())
	if err != nil {
		return nil, nil, err
	}

	planner := kgent.NewPlanner(backend, registry)
	config := kgent.DefaultConfig()
	config.InitialBackoff = 0
	config.MaxBackoff = 0

	loop := kgent.NewAgentLoop(planner, registry).WithConfig(config)
	return loop, registry, nil
}

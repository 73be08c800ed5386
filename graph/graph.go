// Package graph defines the query port the agent's tools use to reach a
// knowledge graph, and an in-memory triple store implementation of it.
package graph

import (
	"context"
	"fmt"
)

// Triple is a single (subject, predicate, object) fact.
type Triple struct {
	Subject   string `json:"subject" yaml:"subject"`
	Predicate string `json:"predicate" yaml:"predicate"`
	Object    string `json:"object" yaml:"object"`
}

// Pattern is a triple pattern where an empty field matches anything.
type Pattern struct {
	Subject   string
	Predicate string
	Object    string
}

// IsWildcard reports whether the pattern matches every triple.
func (p Pattern) IsWildcard() bool {
	return p.Subject == "" && p.Predicate == "" && p.Object == ""
}

// Matches reports whether the triple satisfies the pattern.
func (p Pattern) Matches(t Triple) bool {
	return (p.Subject == "" || p.Subject == t.Subject) &&
		(p.Predicate == "" || p.Predicate == t.Predicate) &&
		(p.Object == "" || p.Object == t.Object)
}

func (p Pattern) String() string {
	f := func(s string) string {
		if s == "" {
			return "?"
		}
		return s
	}
	return fmt.Sprintf("(%s, %s, %s)", f(p.Subject), f(p.Predicate), f(p.Object))
}

// QueryPort is the capability the agent's tools use to query a knowledge
// graph. Implementations must be safe for concurrent reads; the agent loop
// may run in parallel for independent tasks over a shared port.
type QueryPort interface {
	// Query returns all triples matching the pattern.
	// Fails with *UnavailableError when the backing store cannot be
	// reached, and *QueryError for a malformed pattern.
	Query(ctx context.Context, pattern Pattern) ([]Triple, error)
}

// UnavailableError indicates the graph store could not be reached.
type UnavailableError struct {
	Endpoint string
	Err      error
}

func (e *UnavailableError) Error() string {
	if e.Endpoint != "" {
		return fmt.Sprintf("graph unavailable (%s): %v", e.Endpoint, e.Err)
	}
	return fmt.Sprintf("graph unavailable: %v", e.Err)
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}

// QueryError indicates the pattern was rejected by the graph store.
type QueryError struct {
	Pattern Pattern
	Reason  string
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("invalid graph query %s: %s", e.Pattern, e.Reason)
}

// Neighbors returns the objects of all triples (entity, relation, ?).
func Neighbors(ctx context.Context, port QueryPort, entity, relation string) ([]string, error) {
	triples, err := port.Query(ctx, Pattern{Subject: entity, Predicate: relation})
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(triples))
	for _, t := range triples {
		out = append(out, t.Object)
	}
	return out, nil
}

// Attribute returns the object of the first triple (entity, attribute, ?).
// The second return value is false when no such triple exists.
func Attribute(ctx context.Context, port QueryPort, entity, attribute string) (string, bool, error) {
	triples, err := port.Query(ctx, Pattern{Subject: entity, Predicate: attribute})
	if err != nil {
		return "", false, err
	}
	if len(triples) == 0 {
		return "", false, nil
	}
	return triples[0].Object, true, nil
}

// Count returns the number of triples matching the pattern.
func Count(ctx context.Context, port QueryPort, pattern Pattern) (int, error) {
	triples, err := port.Query(ctx, pattern)
	if err != nil {
		return 0, err
	}
	return len(triples), nil
}

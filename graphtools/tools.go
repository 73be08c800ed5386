// Package graphtools provides the standard tool set for reasoning over a
// knowledge graph: each tool wraps exactly one graph.QueryPort operation
// and renders its result as a plain-text observation.
package graphtools

import (
	"context"
	"fmt"
	"strings"

	"github.com/kgent-dev/kgent"
	"github.com/kgent-dev/kgent/graph"
	"github.com/kgent-dev/kgent/schema"
)

// DefaultLimit caps match_triples output when no limit argument is given.
const DefaultLimit = 25

// RegisterAll registers the full tool set against the given port.
func RegisterAll(registry *kgent.ToolRegistry, port graph.QueryPort) error {
	for _, register := range []func(*kgent.ToolRegistry, graph.QueryPort) error{
		RegisterFindNeighbor,
		RegisterGetAttribute,
		RegisterMatchTriples,
		RegisterCountMatches,
	} {
		if err := register(registry, port); err != nil {
			return err
		}
	}
	return nil
}

// RegisterFindNeighbor registers find_neighbor: entities connected to an
// entity via a relation.
func RegisterFindNeighbor(registry *kgent.ToolRegistry, port graph.QueryPort) error {
	spec := kgent.ToolSpec{
		Name:        "find_neighbor",
		Description: "Find entities connected to an entity via a relation",
		Parameters: schema.Object(map[string]*schema.Property{
			"entity":   schema.String("Entity to start from"),
			"relation": schema.String("Relation to follow"),
		}, "entity", "relation"),
	}
	return registry.Register(spec, func(ctx context.Context, args map[string]any) (string, error) {
		entity, relation := stringArg(args, "entity"), stringArg(args, "relation")
		neighbors, err := graph.Neighbors(ctx, port, entity, relation)
		if err != nil {
			return "", err
		}
		if len(neighbors) == 0 {
			return fmt.Sprintf("no entities connected to %q via %q", entity, relation), nil
		}
		return strings.Join(neighbors, ", "), nil
	})
}

// RegisterGetAttribute registers get_attribute: the value of a named
// attribute of an entity.
func RegisterGetAttribute(registry *kgent.ToolRegistry, port graph.QueryPort) error {
	spec := kgent.ToolSpec{
		Name:        "get_attribute",
		Description: "Get the value of an entity's attribute",
		Parameters: schema.Object(map[string]*schema.Property{
			"entity":    schema.String("Entity to inspect"),
			"attribute": schema.String("Attribute name"),
		}, "entity", "attribute"),
	}
	return registry.Register(spec, func(ctx context.Context, args map[string]any) (string, error) {
		entity, attribute := stringArg(args, "entity"), stringArg(args, "attribute")
		value, found, err := graph.Attribute(ctx, port, entity, attribute)
		if err != nil {
			return "", err
		}
		if !found {
			return fmt.Sprintf("entity %q has no attribute %q", entity, attribute), nil
		}
		return value, nil
	})
}

// RegisterMatchTriples registers match_triples: all triples matching a
// pattern, where omitted fields are wildcards.
func RegisterMatchTriples(registry *kgent.ToolRegistry, port graph.QueryPort) error {
	spec := kgent.ToolSpec{
		Name:        "match_triples",
		Description: "List triples matching a pattern; omitted fields match anything",
		Parameters: schema.Object(map[string]*schema.Property{
			"subject":   schema.String("Subject entity, omit as wildcard"),
			"predicate": schema.String("Relation name, omit as wildcard"),
			"object":    schema.String("Object entity, omit as wildcard"),
			"limit":     schema.Integer("Max triples to return").Min(1).Max(100).Default(DefaultLimit),
		}),
	}
	return registry.Register(spec, func(ctx context.Context, args map[string]any) (string, error) {
		triples, err := port.Query(ctx, patternArg(args))
		if err != nil {
			return "", err
		}
		if len(triples) == 0 {
			return "no matching triples", nil
		}

		limit := intArg(args, "limit", DefaultLimit)
		truncated := len(triples) > limit
		if truncated {
			triples = triples[:limit]
		}

		var sb strings.Builder
		for _, t := range triples {
			fmt.Fprintf(&sb, "(%s, %s, %s)\n", t.Subject, t.Predicate, t.Object)
		}
		if truncated {
			fmt.Fprintf(&sb, "... truncated to first %d matches; use count_matches for the total\n", limit)
		}
		return strings.TrimRight(sb.String(), "\n"), nil
	})
}

// RegisterCountMatches registers count_matches: the number of triples
// matching a pattern.
func RegisterCountMatches(registry *kgent.ToolRegistry, port graph.QueryPort) error {
	spec := kgent.ToolSpec{
		Name:        "count_matches",
		Description: "Count triples matching a pattern; omitted fields match anything",
		Parameters: schema.Object(map[string]*schema.Property{
			"subject":   schema.String("Subject entity, omit as wildcard"),
			"predicate": schema.String("Relation name, omit as wildcard"),
			"object":    schema.String("Object entity, omit as wildcard"),
		}),
	}
	return registry.Register(spec, func(ctx context.Context, args map[string]any) (string, error) {
		count, err := graph.Count(ctx, port, patternArg(args))
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%d", count), nil
	})
}

func stringArg(args map[string]any, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}

func intArg(args map[string]any, key string, fallback int) int {
	switch v := args[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return fallback
	}
}

func patternArg(args map[string]any) graph.Pattern {
	return graph.Pattern{
		Subject:   stringArg(args, "subject"),
		Predicate: stringArg(args, "predicate"),
		Object:    stringArg(args, "object"),
	}
}

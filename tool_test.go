package kgent

import (
	"context"
	"errors"
	"testing"

	"github.com/kgent-dev/kgent/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func neighborSpec() ToolSpec {
	return ToolSpec{
		Name:        "find_neighbor",
		Description: "Find entities connected to an entity via a relation",
		Parameters: schema.Object(map[string]*schema.Property{
			"entity":   schema.String("Entity to start from"),
			"relation": schema.String("Relation to follow"),
		}, "entity", "relation"),
	}
}

func TestTool_Validate(t *testing.T) {
	type testCase struct {
		name    string
		args    map[string]any
		invalid bool
	}

	tool, err := NewTool(neighborSpec(), echoHandler)
	require.NoError(t, err)

	run := func(t *testing.T, tc testCase) {
		err := tool.Validate(tc.args)
		if !tc.invalid {
			require.NoError(t, err)
			return
		}
		var valErr *ArgumentValidationError
		require.ErrorAs(t, err, &valErr)
		assert.Equal(t, "find_neighbor", valErr.Tool)
		assert.NotEmpty(t, valErr.Constraint)
	}

	testCases := []testCase{
		{
			name: "valid arguments",
			args: map[string]any{"entity": "France", "relation": "borders"},
		},
		{
			name:    "missing required argument",
			args:    map[string]any{"entity": "France"},
			invalid: true,
		},
		{
			name:    "wrong type",
			args:    map[string]any{"entity": 42, "relation": "borders"},
			invalid: true,
		},
		{
			name:    "nil args with required params",
			args:    nil,
			invalid: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			run(t, tc)
		})
	}
}

func TestTool_ValidateNoSchema(t *testing.T) {
	tool, err := NewTool(ToolSpec{Name: "noop"}, echoHandler)
	require.NoError(t, err)

	assert.NoError(t, tool.Validate(nil))
	assert.NoError(t, tool.Validate(map[string]any{"anything": "goes"}))
}

func TestTool_Execute(t *testing.T) {
	tool, err := NewTool(neighborSpec(), func(ctx context.Context, args map[string]any) (string, error) {
		return args["entity"].(string) + " -> Germany", nil
	})
	require.NoError(t, err)

	out, err := tool.Execute(context.Background(), map[string]any{
		"entity":   "France",
		"relation": "borders",
	})
	require.NoError(t, err)
	assert.Equal(t, "France -> Germany", out)
}

func TestTool_ExecuteWrapsHandlerError(t *testing.T) {
	cause := errors.New("endpoint unreachable")
	tool, err := NewTool(neighborSpec(), func(ctx context.Context, args map[string]any) (string, error) {
		return "", cause
	})
	require.NoError(t, err)

	_, err = tool.Execute(context.Background(), map[string]any{
		"entity":   "France",
		"relation": "borders",
	})

	var execErr *ToolExecutionError
	require.ErrorAs(t, err, &execErr)
	assert.Equal(t, "find_neighbor", execErr.Tool)
	assert.ErrorIs(t, err, cause)
}

func TestTool_ExecuteValidatesFirst(t *testing.T) {
	called := false
	tool, err := NewTool(neighborSpec(), func(ctx context.Context, args map[string]any) (string, error) {
		called = true
		return "", nil
	})
	require.NoError(t, err)

	_, err = tool.Execute(context.Background(), map[string]any{"entity": "France"})

	var valErr *ArgumentValidationError
	require.ErrorAs(t, err, &valErr)
	assert.False(t, called)
}

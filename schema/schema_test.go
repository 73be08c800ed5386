package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileAndValidate(t *testing.T) {
	type testCase struct {
		name    string
		args    map[string]any
		invalid bool
	}

	s, err := Compile(Object(map[string]*Property{
		"entity":   String("Entity to start from"),
		"relation": String("Relation to follow").Enum("borders", "capital"),
		"limit":    Integer("Max results").Min(1).Max(100),
	}, "entity", "relation"))
	require.NoError(t, err)

	run := func(t *testing.T, tc testCase) {
		err := s.Validate(tc.args)
		if !tc.invalid {
			assert.NoError(t, err)
			return
		}
		var valErr *ValidationError
		require.ErrorAs(t, err, &valErr)
		assert.Contains(t, valErr.Error(), "schema validation failed")
	}

	testCases := []testCase{
		{
			name: "valid",
			args: map[string]any{"entity": "France", "relation": "borders"},
		},
		{
			name: "valid with integer limit",
			args: map[string]any{"entity": "France", "relation": "borders", "limit": 10},
		},
		{
			name:    "missing required",
			args:    map[string]any{"entity": "France"},
			invalid: true,
		},
		{
			name:    "enum violation",
			args:    map[string]any{"entity": "France", "relation": "near"},
			invalid: true,
		},
		{
			name:    "integer below minimum",
			args:    map[string]any{"entity": "France", "relation": "borders", "limit": 0},
			invalid: true,
		},
		{
			name:    "wrong type",
			args:    map[string]any{"entity": 42, "relation": "borders"},
			invalid: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			run(t, tc)
		})
	}
}

func TestCompileNil(t *testing.T) {
	s, err := Compile(nil)
	require.NoError(t, err)
	require.Nil(t, s)

	// A nil schema accepts anything.
	assert.NoError(t, s.Validate(map[string]any{"anything": 1}))
	assert.Nil(t, s.Raw())
}

func TestCompileInvalidSchema(t *testing.T) {
	_, err := Compile(map[string]any{"type": 12345})
	require.Error(t, err)
}

func TestMustCompilePanics(t *testing.T) {
	assert.Panics(t, func() {
		MustCompile(map[string]any{"type": 12345})
	})
}

func TestObjectBuilder(t *testing.T) {
	raw := Object(map[string]*Property{
		"subject": String("Subject entity").Pattern(`^[A-Z]`),
		"limit":   Integer("Max results").Min(1).Max(100).Default(25),
		"deep":    Boolean("Follow transitive relations"),
		"weights": Number("Edge weight threshold"),
		"seeds":   Array("Seed entities", map[string]any{"type": "string"}),
	}, "subject")

	assert.Equal(t, "object", raw["type"])
	assert.Equal(t, []string{"subject"}, raw["required"])

	props, ok := raw["properties"].(map[string]any)
	require.True(t, ok)

	subject := props["subject"].(map[string]any)
	assert.Equal(t, "string", subject["type"])
	assert.Equal(t, `^[A-Z]`, subject["pattern"])

	limit := props["limit"].(map[string]any)
	assert.Equal(t, "integer", limit["type"])
	assert.Equal(t, 1.0, limit["minimum"])
	assert.Equal(t, 100.0, limit["maximum"])
	assert.Equal(t, 25, limit["default"])

	assert.Equal(t, "boolean", props["deep"].(map[string]any)["type"])
	assert.Equal(t, "number", props["weights"].(map[string]any)["type"])

	seeds := props["seeds"].(map[string]any)
	assert.Equal(t, "array", seeds["type"])
	assert.Equal(t, map[string]any{"type": "string"}, seeds["items"])
}

func TestValidateNormalizesInts(t *testing.T) {
	s := MustCompile(Object(map[string]*Property{
		"limit": Integer("Max results").Min(1),
		"tags":  Array("Tags", map[string]any{"type": "integer"}),
	}))

	assert.NoError(t, s.Validate(map[string]any{
		"limit": int64(5),
		"tags":  []any{1, 2, 3},
	}))
}

package graph

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTripleStore_Query(t *testing.T) {
	type testCase struct {
		name     string
		pattern  Pattern
		expected []Triple
	}

	store := testStore()

	testCases := []testCase{
		{
			name:    "by subject and predicate",
			pattern: Pattern{Subject: "France", Predicate: "borders"},
			expected: []Triple{
				{Subject: "France", Predicate: "borders", Object: "Germany"},
				{Subject: "France", Predicate: "borders", Object: "Spain"},
			},
		},
		{
			name:    "by object",
			pattern: Pattern{Object: "Berlin"},
			expected: []Triple{
				{Subject: "Germany", Predicate: "capital", Object: "Berlin"},
			},
		},
		{
			name:    "wildcard returns everything in load order",
			pattern: Pattern{},
			expected: []Triple{
				{Subject: "France", Predicate: "borders", Object: "Germany"},
				{Subject: "France", Predicate: "borders", Object: "Spain"},
				{Subject: "Germany", Predicate: "capital", Object: "Berlin"},
			},
		},
		{
			name:     "no match",
			pattern:  Pattern{Subject: "Atlantis"},
			expected: nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			triples, err := store.Query(context.Background(), tc.pattern)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, triples)
		})
	}
}

func TestTripleStore_QueryCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := testStore().Query(ctx, Pattern{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTripleStore_Len(t *testing.T) {
	store := NewTripleStore()
	assert.Equal(t, 0, store.Len())

	store.Load(Triple{Subject: "a", Predicate: "b", Object: "c"})
	assert.Equal(t, 1, store.Len())
}

func TestTripleStore_ConcurrentLoadAndQuery(t *testing.T) {
	store := NewTripleStore()
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			store.Load(Triple{
				Subject:   fmt.Sprintf("entity-%d", i),
				Predicate: "linked_to",
				Object:    fmt.Sprintf("entity-%d", i+1),
			})
		}
	}()
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_, _ = store.Query(context.Background(), Pattern{Predicate: "linked_to"})
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, store.Len())
}

package json

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type node struct {
	Name string `json:"name"`
	Next *node  `json:"next"`
}

func TestCycleDetection(t *testing.T) {
	s := New()

	t.Run("SelfReferencingMap", func(t *testing.T) {
		a := map[string]any{}
		a["self"] = a

		out, err := s.Normalize(a)
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"self": "<CircularReference map>"}, out)
	})

	t.Run("SelfReferencingSlice", func(t *testing.T) {
		sl := make([]any, 1)
		sl[0] = sl

		out, err := s.Normalize(sl)
		require.NoError(t, err)
		assert.Equal(t, []any{"<CircularReference slice>"}, out)
	})

	t.Run("PointerCycle", func(t *testing.T) {
		n := &node{Name: "a"}
		n.Next = n

		out, err := s.Normalize(n)
		require.NoError(t, err)
		tree := out.(map[string]any)
		assert.Equal(t, "a", tree["name"])
		assert.Contains(t, tree["next"], "<CircularReference ")
	})

	t.Run("IndirectCycle", func(t *testing.T) {
		a := map[string]any{"name": "a"}
		b := map[string]any{"name": "b"}
		a["peer"] = b
		b["peer"] = a

		out, err := s.Normalize(a)
		require.NoError(t, err)
		tree := out.(map[string]any)
		peer := tree["peer"].(map[string]any)
		assert.Equal(t, "b", peer["name"])
		assert.Equal(t, "<CircularReference map>", peer["peer"])
	})
}

func TestFailOnCircular(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FailOnCircular = true
	s := New(cfg)

	a := map[string]any{}
	a["self"] = a

	_, err := s.Normalize(a)
	require.Error(t, err)
	assert.True(t, IsCircularReference(err))
	assert.ErrorIs(t, err, ErrCircularReference)
	assert.Equal(t, "map", OffendingType(err))

	var serr *SerializationError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, "encode", serr.Op)
}

func TestSharedReferenceIsNotACycle(t *testing.T) {
	s := New()

	t.Run("SharedMap", func(t *testing.T) {
		shared := map[string]any{"x": 1}
		root := map[string]any{"a": shared, "b": shared}

		out, err := s.Normalize(root)
		require.NoError(t, err)
		tree := out.(map[string]any)
		assert.Equal(t, map[string]any{"x": 1}, tree["a"], "first occurrence fully expanded")
		assert.Equal(t, map[string]any{"x": 1}, tree["b"], "second occurrence fully expanded")
	})

	t.Run("SharedSlice", func(t *testing.T) {
		shared := []any{1, 2}
		out, err := s.Normalize([]any{shared, shared})
		require.NoError(t, err)
		assert.Equal(t, []any{[]any{1, 2}, []any{1, 2}}, out)
	})

	t.Run("SharedPointer", func(t *testing.T) {
		leaf := &node{Name: "leaf"}
		out, err := s.Normalize(map[string]any{"l": leaf, "r": leaf})
		require.NoError(t, err)
		tree := out.(map[string]any)
		assert.Equal(t, tree["l"], tree["r"])
		assert.Equal(t, "leaf", tree["l"].(map[string]any)["name"])
	})

	t.Run("RepeatedSiblingOccurrences", func(t *testing.T) {
		shared := map[string]any{"v": true}
		row := []any{shared, shared, shared}
		out, err := s.Normalize(map[string]any{"rows": []any{row, row}})
		require.NoError(t, err)

		rows := out.(map[string]any)["rows"].([]any)
		for _, r := range rows {
			for _, cell := range r.([]any) {
				assert.Equal(t, map[string]any{"v": true}, cell)
			}
		}
	})
}

func TestGuardUnwound(t *testing.T) {
	t.Run("AfterSuccess", func(t *testing.T) {
		s := New()
		state := &walkState{guard: newCycleGuard()}
		_, err := s.encodeValue(state, map[string]any{"a": []any{1, map[string]any{"b": 2}}})
		require.NoError(t, err)
		assert.Equal(t, 0, state.guard.size(), "guard must be empty after the walk")
	})

	t.Run("AfterError", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.FailOnCircular = true
		s := New(cfg)

		a := map[string]any{"k": []any{nil}}
		a["k"].([]any)[0] = a

		state := &walkState{guard: newCycleGuard()}
		_, err := s.encodeValue(state, a)
		require.Error(t, err)
		assert.Equal(t, 0, state.guard.size(), "guard must unwind on error exits")
	})
}

func TestSerializerReusableAfterError(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FailOnCircular = true
	s := New(cfg)

	a := map[string]any{}
	a["self"] = a
	_, err := s.Normalize(a)
	require.Error(t, err)

	// Guard state is per-call, so a failed walk must not poison the next.
	out, err := s.Normalize(map[string]any{"ok": true})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"ok": true}, out)
}

func TestConcurrentWalks(t *testing.T) {
	s := New()
	input := map[string]any{
		"user": map[string]any{"name": "Alice", "tags": []any{"a", "b"}},
		"n":    42,
	}

	var wg sync.WaitGroup
	errs := make(chan error, 32)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Normalize(input); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent walk failed: %v", err)
	}
}

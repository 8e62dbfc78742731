package json

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackageLevelAPI(t *testing.T) {
	t.Run("Normalize", func(t *testing.T) {
		result, err := Normalize(map[string]any{"d": 90 * time.Second})
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"d": 90.0}, result)
	})

	t.Run("Marshal", func(t *testing.T) {
		data, err := Marshal(map[string]any{"name": "test", "value": 123})
		require.NoError(t, err)
		assert.JSONEq(t, `{"name":"test","value":123}`, string(data))
	})

	t.Run("MarshalIndent", func(t *testing.T) {
		data, err := MarshalIndent(map[string]any{"key": "value"}, "", "  ")
		require.NoError(t, err)
		assert.Contains(t, string(data), "\n")
		assert.Contains(t, string(data), `  "key"`)
	})

	t.Run("Unmarshal", func(t *testing.T) {
		var out map[string]any
		err := Unmarshal([]byte(`{"a":1}`), &out)
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"a": float64(1)}, out)
	})

	t.Run("Encode", func(t *testing.T) {
		text, err := Encode(map[string]any{"active": true})
		require.NoError(t, err)
		assert.Equal(t, `{"active":true}`, text)
	})

	t.Run("EncodePretty", func(t *testing.T) {
		text, err := EncodePretty(map[string]any{"a": 1, "b": 2})
		require.NoError(t, err)
		assert.Contains(t, text, "\n")
		assert.Contains(t, text, `  "a"`)
	})

	t.Run("EncodePretty with custom config", func(t *testing.T) {
		text, err := EncodePretty(map[string]any{"a": 1}, &EncodeConfig{
			Pretty: true,
			Indent: "\t",
		})
		require.NoError(t, err)
		assert.Contains(t, text, "\t\"a\"")
	})

	t.Run("Valid", func(t *testing.T) {
		assert.True(t, Valid([]byte(`{"ok":true}`)))
		assert.True(t, Valid([]byte(`[1,2,3]`)))
		assert.False(t, Valid([]byte(`{broken`)))
		assert.False(t, Valid([]byte(``)))
	})
}

func TestSafeEncode(t *testing.T) {
	t.Run("plain value", func(t *testing.T) {
		text, err := SafeEncode(map[string]any{"a": 1})
		require.NoError(t, err)
		assert.Equal(t, `{"a":1}`, text)
	})

	t.Run("cycle becomes marker by default", func(t *testing.T) {
		m := map[string]any{}
		m["self"] = m
		text, err := SafeEncode(m)
		require.NoError(t, err)
		assert.Equal(t, `{"self":"<CircularReference map>"}`, text)
	})

	t.Run("cycle fails when requested", func(t *testing.T) {
		m := map[string]any{}
		m["self"] = m
		_, err := SafeEncode(m, &SafeOptions{FailOnCircular: true})
		require.Error(t, err)
		assert.True(t, IsCircularReference(err))
	})

	t.Run("errors swallowed with IgnoreErrors", func(t *testing.T) {
		text, err := SafeEncode(map[string]any{"ch": make(chan int)},
			&SafeOptions{IgnoreErrors: true})
		require.NoError(t, err)
		assert.Equal(t, "null", text)
	})

	t.Run("custom default value", func(t *testing.T) {
		text, err := SafeEncode(make(chan int), &SafeOptions{
			IgnoreErrors: true,
			DefaultValue: "{}",
		})
		require.NoError(t, err)
		assert.Equal(t, "{}", text)
	})

	t.Run("errors propagate without IgnoreErrors", func(t *testing.T) {
		_, err := SafeEncode(make(chan int))
		require.Error(t, err)
		assert.True(t, IsUnsupportedType(err))
	})

	t.Run("cycle failure swallowed with IgnoreErrors", func(t *testing.T) {
		m := map[string]any{}
		m["self"] = m
		text, err := SafeEncode(m, &SafeOptions{
			FailOnCircular: true,
			IgnoreErrors:   true,
		})
		require.NoError(t, err)
		assert.Equal(t, "null", text)
	})

	t.Run("pretty output", func(t *testing.T) {
		text, err := SafeEncode(map[string]any{"a": 1}, &SafeOptions{Pretty: true})
		require.NoError(t, err)
		assert.Contains(t, text, "\n")
	})
}

func TestSetDefaultSerializer(t *testing.T) {
	original := getDefaultSerializer()
	defer SetDefaultSerializer(original)

	t.Run("replacement takes effect", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.IgnoreUnknown = true
		SetDefaultSerializer(New(cfg))

		result, err := Normalize(map[string]any{"ch": make(chan int)})
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"ch": nil}, result)
	})

	t.Run("nil is ignored", func(t *testing.T) {
		before := getDefaultSerializer()
		SetDefaultSerializer(nil)
		assert.Same(t, before, getDefaultSerializer())
	})
}

func TestDefaultSerializerLazyInit(t *testing.T) {
	s := getDefaultSerializer()
	require.NotNil(t, s)
	assert.Same(t, s, getDefaultSerializer())

	// The default configuration applies: unknowns raise, cycles do not.
	_, err := Marshal(func() {})
	assert.Error(t, err)
}

package json

import (
	"fmt"
	"log/slog"
	"reflect"
	"strconv"
)

// Serializer is the recursive encoding engine. It walks an arbitrary value
// graph depth-first, applies the first matching conversion rule at each
// node, and assembles a JSON-compatible tree of nil, bool, numbers, string,
// []any, and map[string]any. Input values are never mutated; the output
// tree shares no containers with the input.
//
// Configuration and the rule table are frozen at construction, and all walk
// state is per-call, so one Serializer is safe for concurrent use.
type Serializer struct {
	config   *Config
	registry *typeRegistry
	backend  Backend
	logger   *slog.Logger
}

// walkState is the per-call state of one top-level walk. It is never shared
// across calls: every Normalize constructs a fresh guard.
type walkState struct {
	guard *cycleGuard
	depth int
}

// New creates a Serializer. The configuration is cloned, validated, and
// frozen; later mutation of the original Config has no effect.
func New(config ...*Config) *Serializer {
	var cfg *Config
	if len(config) > 0 && config[0] != nil {
		cfg = config[0].Clone()
	} else {
		cfg = DefaultConfig()
	}

	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("invalid configuration: %v", err))
	}

	backend, err := NewBackend(cfg.Backend)
	if err != nil {
		panic(fmt.Sprintf("invalid configuration: %v", err))
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default().With("component", "json-serializer")
	}

	s := &Serializer{
		config:  cfg,
		backend: backend,
		logger:  logger,
	}

	registry := &typeRegistry{}
	for _, rule := range cfg.CustomRules {
		registry.register(rule)
	}
	for _, rule := range s.builtinRules() {
		registry.register(rule)
	}
	s.registry = registry

	return s
}

// Backend returns the serializer's text backend.
func (s *Serializer) Backend() Backend {
	return s.backend
}

// Config returns a copy of the serializer's configuration.
func (s *Serializer) Config() *Config {
	return s.config.Clone()
}

// Normalize converts value into a JSON-compatible tree without emitting
// text. The walk fails fast: any error aborts the whole call and no partial
// tree is returned.
func (s *Serializer) Normalize(value any) (any, error) {
	state := &walkState{guard: newCycleGuard()}
	return s.encodeValue(state, value)
}

// Marshal normalizes value and emits compact JSON text via the backend.
func (s *Serializer) Marshal(value any) ([]byte, error) {
	tree, err := s.Normalize(value)
	if err != nil {
		return nil, err
	}
	data, err := s.backend.Marshal(tree)
	if err != nil {
		return nil, WrapError(err, "marshal", "text backend failed")
	}
	return data, nil
}

// MarshalIndent normalizes value and emits indented JSON text.
func (s *Serializer) MarshalIndent(value any, prefix, indent string) ([]byte, error) {
	tree, err := s.Normalize(value)
	if err != nil {
		return nil, err
	}
	data, err := s.backend.MarshalIndent(tree, prefix, indent)
	if err != nil {
		return nil, WrapError(err, "marshal_indent", "text backend failed")
	}
	return data, nil
}

// Unmarshal parses JSON text into v. Decoding is pure backend delegation;
// the engine adds nothing on the way in.
func (s *Serializer) Unmarshal(data []byte, v any) error {
	if err := s.backend.Unmarshal(data, v); err != nil {
		return WrapError(err, "unmarshal", "text backend failed")
	}
	return nil
}

// Encode converts value to a compact JSON string.
func (s *Serializer) Encode(value any) (string, error) {
	data, err := s.Marshal(value)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// EncodePretty converts value to an indented JSON string.
func (s *Serializer) EncodePretty(value any) (string, error) {
	return s.EncodeWithConfig(value, NewPrettyConfig())
}

// EncodeWithConfig converts value to a JSON string with explicit formatting.
func (s *Serializer) EncodeWithConfig(value any, cfg *EncodeConfig) (string, error) {
	if cfg == nil {
		cfg = DefaultEncodeConfig()
	}
	if !cfg.Pretty {
		return s.Encode(value)
	}

	indent := cfg.Indent
	if indent == "" {
		indent = DefaultIndent
	}
	data, err := s.MarshalIndent(value, cfg.Prefix, indent)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// encodeValue is the recursive walk. Discipline: primitives short-circuit;
// container-like and opaque values are registered with the cycle guard
// before descent and released on the way back up, including error exits,
// so the guard is empty again when the top-level call returns.
func (s *Serializer) encodeValue(state *walkState, value any) (any, error) {
	if value == nil {
		return nil, nil
	}

	// Fast path: JSON primitives pass through untouched, no rule scan.
	// A type switch matches exact types only, so defined scalar types
	// (enum members) fall through to the rule chain.
	switch value.(type) {
	case bool, string,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return value, nil
	}

	if state.depth >= s.config.MaxDepth {
		return nil, newDepthError("encode", state.depth, s.config.MaxDepth)
	}

	rv := reflect.ValueOf(value)

	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice:
		if rv.IsNil() {
			return nil, nil
		}
	}

	if key, guarded := identityOf(rv); guarded {
		if !state.guard.enter(key) {
			typeName := guardTypeName(rv)
			if s.config.FailOnCircular {
				return nil, newCircularError("encode", typeName)
			}
			s.logger.Debug("cycle degraded to marker", "type", typeName)
			return "<CircularReference " + typeName + ">", nil
		}
		defer state.guard.leave(key)
	}

	state.depth++
	defer func() { state.depth-- }()

	// Pointers are transparently dereferenced before rule matching, so a
	// *time.Time converts exactly like a time.Time. Capability rules still
	// match dereferenced values whose methods live on the pointer receiver.
	if rv.Kind() == reflect.Pointer {
		return s.encodeValue(state, rv.Elem().Interface())
	}

	if rule := s.registry.resolve(rv); rule != nil {
		converted, err := rule.Convert(value, rv)
		if err != nil {
			return nil, err
		}
		return s.encodeValue(state, converted)
	}

	switch rv.Kind() {
	case reflect.Map:
		return s.encodeMap(state, rv)
	case reflect.Slice:
		return s.encodeSlice(state, rv)
	}

	return s.resolveUnknown(state, value, rv)
}

// encodeMap walks a mapping. Keys are coerced to strings; values recurse
// with the same guard and policy.
func (s *Serializer) encodeMap(state *walkState, rv reflect.Value) (any, error) {
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		key, err := s.coerceKey(state, iter.Key())
		if err != nil {
			return nil, err
		}
		encoded, err := s.encodeValue(state, iter.Value().Interface())
		if err != nil {
			return nil, err
		}
		out[key] = encoded
	}
	return out, nil
}

// encodeSlice walks a sequence element by element.
func (s *Serializer) encodeSlice(state *walkState, rv reflect.Value) (any, error) {
	out := make([]any, rv.Len())
	for i := range out {
		encoded, err := s.encodeValue(state, rv.Index(i).Interface())
		if err != nil {
			return nil, err
		}
		out[i] = encoded
	}
	return out, nil
}

// coerceKey converts a map key to its string form. Non-string keys are run
// through the full conversion chain first, so numeric, enum, and time keys
// coerce to the string form of their converted value.
func (s *Serializer) coerceKey(state *walkState, key reflect.Value) (string, error) {
	if key.Kind() == reflect.Interface {
		key = key.Elem()
	}
	if str, ok := key.Interface().(string); ok {
		return str, nil
	}

	encoded, err := s.encodeValue(state, key.Interface())
	if err != nil {
		return "", err
	}
	return stringifyKey(encoded), nil
}

// stringifyKey renders an already-converted key value as a JSON object key.
func stringifyKey(encoded any) string {
	switch k := encoded.(type) {
	case nil:
		return "null"
	case string:
		return k
	case bool:
		return strconv.FormatBool(k)
	case int:
		return strconv.Itoa(k)
	case int8:
		return strconv.FormatInt(int64(k), 10)
	case int16:
		return strconv.FormatInt(int64(k), 10)
	case int32:
		return strconv.FormatInt(int64(k), 10)
	case int64:
		return strconv.FormatInt(k, 10)
	case uint:
		return strconv.FormatUint(uint64(k), 10)
	case uint8:
		return strconv.FormatUint(uint64(k), 10)
	case uint16:
		return strconv.FormatUint(uint64(k), 10)
	case uint32:
		return strconv.FormatUint(uint64(k), 10)
	case uint64:
		return strconv.FormatUint(k, 10)
	case float32:
		return strconv.FormatFloat(float64(k), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(k, 'g', -1, 64)
	default:
		return fmt.Sprintf("%v", k)
	}
}

package json

import (
	"encoding/json"
	"sync"
	"sync/atomic"
)

var (
	defaultSerializer   atomic.Pointer[Serializer]
	defaultSerializerMu sync.Mutex
)

// getDefaultSerializer returns the lazily-created default serializer.
func getDefaultSerializer() *Serializer {
	if s := defaultSerializer.Load(); s != nil {
		return s
	}

	defaultSerializerMu.Lock()
	defer defaultSerializerMu.Unlock()

	if s := defaultSerializer.Load(); s != nil {
		return s
	}

	s := New()
	defaultSerializer.Store(s)
	return s
}

// SetDefaultSerializer replaces the serializer behind the package-level API
// (thread-safe). Nil is ignored.
func SetDefaultSerializer(s *Serializer) {
	if s == nil {
		return
	}
	defaultSerializerMu.Lock()
	defer defaultSerializerMu.Unlock()
	defaultSerializer.Store(s)
}

// Normalize converts value into a JSON-compatible tree using the default
// serializer.
func Normalize(value any) (any, error) {
	return getDefaultSerializer().Normalize(value)
}

// Marshal returns the JSON encoding of v using the default serializer.
func Marshal(v any) ([]byte, error) {
	return getDefaultSerializer().Marshal(v)
}

// MarshalIndent is like Marshal but applies indentation to format the output.
func MarshalIndent(v any, prefix, indent string) ([]byte, error) {
	return getDefaultSerializer().MarshalIndent(v, prefix, indent)
}

// Unmarshal parses the JSON-encoded data and stores the result in v.
func Unmarshal(data []byte, v any) error {
	return getDefaultSerializer().Unmarshal(data, v)
}

// Encode converts any Go value to a compact JSON string.
func Encode(value any) (string, error) {
	return getDefaultSerializer().Encode(value)
}

// EncodePretty converts any Go value to a pretty-formatted JSON string.
func EncodePretty(value any, config ...*EncodeConfig) (string, error) {
	var cfg *EncodeConfig
	if len(config) > 0 && config[0] != nil {
		cfg = config[0]
	} else {
		cfg = NewPrettyConfig()
	}
	return getDefaultSerializer().EncodeWithConfig(value, cfg)
}

// SafeEncode converts value to JSON text with a policy of its own. It is
// the only layer allowed to swallow errors: with IgnoreErrors set, any
// serialization failure yields the fixed DefaultValue ("null" unless
// overridden) instead of propagating. Without IgnoreErrors it behaves like
// Encode with the requested cycle policy.
func SafeEncode(value any, options ...*SafeOptions) (string, error) {
	opts := DefaultSafeOptions()
	if len(options) > 0 && options[0] != nil {
		opts = options[0]
	}
	defaultValue := opts.DefaultValue
	if defaultValue == "" {
		defaultValue = DefaultSafeValue
	}

	cfg := DefaultConfig()
	cfg.FailOnCircular = opts.FailOnCircular
	s := New(cfg)

	var out string
	var err error
	if opts.Pretty {
		out, err = s.EncodePretty(value)
	} else {
		out, err = s.Encode(value)
	}
	if err != nil {
		if opts.IgnoreErrors {
			return defaultValue, nil
		}
		return "", err
	}
	return out, nil
}

// Valid reports whether data is valid JSON.
func Valid(data []byte) bool {
	return json.Valid(data)
}

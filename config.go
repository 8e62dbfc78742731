package json

import (
	"log/slog"
	"strconv"
)

// FallbackFunc is a custom last-chance conversion hook. It is consulted when
// no conversion rule matches a value. A false second return means the hook
// does not handle the value and the strict/ignore-unknown policy applies.
// A returned value re-enters the serializer and is recursively processed.
type FallbackFunc func(value any) (any, bool)

// Config governs the serializer's decision at every fork of the walk.
// A Serializer clones its Config at construction; later mutation of the
// original has no effect on it.
type Config struct {
	// Strict raises a SerializationError as soon as an unresolvable type is
	// hit. Takes precedence over IgnoreUnknown when both are set.
	Strict bool

	// IgnoreUnknown substitutes null for each unresolvable field instead of
	// failing the whole call.
	IgnoreUnknown bool

	// FailOnCircular raises a SerializationError carrying
	// ErrCircularReference when a cycle is detected. When false, cycles
	// degrade to a "<CircularReference TYPE>" marker string.
	FailOnCircular bool

	// Fallback is tried for unresolvable values before Strict and
	// IgnoreUnknown are consulted.
	Fallback FallbackFunc

	// CustomRules are tried before the built-in rule chain, in order.
	CustomRules []ConversionRule

	// MaxDepth bounds recursion depth. Values <= 0 select DefaultMaxDepth.
	MaxDepth int

	// TimeLayout is the layout for time.Time values. Empty selects
	// DefaultTimeLayout (RFC 3339 with nanoseconds).
	TimeLayout string

	// Backend selects the text backend by name: "standard", "goccy",
	// "sonic", or "auto". Empty selects "auto".
	Backend string

	// Logger receives debug records for policy mitigations (null
	// substitution, cycle markers). Nil disables logging.
	Logger *slog.Logger
}

// DefaultConfig returns the default configuration: unknown types and cycles
// surface errors or markers per the documented default policy, recursion is
// bounded by DefaultMaxDepth, and the backend is auto-selected.
func DefaultConfig() *Config {
	return &Config{
		Strict:         false,
		IgnoreUnknown:  false,
		FailOnCircular: false,
		MaxDepth:       DefaultMaxDepth,
		TimeLayout:     DefaultTimeLayout,
		Backend:        BackendAuto,
	}
}

// StrictConfig returns a configuration that fails fast on unknown types and
// reference cycles.
func StrictConfig() *Config {
	cfg := DefaultConfig()
	cfg.Strict = true
	cfg.FailOnCircular = true
	return cfg
}

// LenientConfig returns a configuration that never fails on content:
// unknown fields become null and cycles become marker strings.
func LenientConfig() *Config {
	cfg := DefaultConfig()
	cfg.IgnoreUnknown = true
	return cfg
}

// Clone creates a copy of the configuration. The rule slice is copied;
// rule functions and the logger are shared.
func (c *Config) Clone() *Config {
	if c == nil {
		return DefaultConfig()
	}

	clone := *c
	if len(c.CustomRules) > 0 {
		clone.CustomRules = make([]ConversionRule, len(c.CustomRules))
		copy(clone.CustomRules, c.CustomRules)
	}
	return &clone
}

// Validate validates the configuration and applies corrections
func (c *Config) Validate() error {
	if c == nil {
		return newConfigError("validate_config", "config cannot be nil")
	}

	if c.MaxDepth <= 0 {
		c.MaxDepth = DefaultMaxDepth
	}
	if c.TimeLayout == "" {
		c.TimeLayout = DefaultTimeLayout
	}
	if c.Backend == "" {
		c.Backend = BackendAuto
	}

	for i, rule := range c.CustomRules {
		if rule.Match == nil || rule.Convert == nil {
			return newConfigError("validate_config",
				"custom rule must carry both a predicate and a converter (rule "+strconv.Itoa(i)+")")
		}
	}

	return nil
}

// EncodeConfig controls text formatting of the encoded tree
type EncodeConfig struct {
	Pretty bool   // Emit indented output
	Prefix string // Prefix for each line when Pretty
	Indent string // Indentation unit when Pretty
}

// DefaultEncodeConfig returns default encoding configuration
func DefaultEncodeConfig() *EncodeConfig {
	return &EncodeConfig{
		Pretty: false,
		Prefix: "",
		Indent: DefaultIndent,
	}
}

// NewPrettyConfig returns configuration for pretty-printed JSON
func NewPrettyConfig() *EncodeConfig {
	cfg := DefaultEncodeConfig()
	cfg.Pretty = true
	return cfg
}

// NewCompactConfig returns configuration for compact JSON
func NewCompactConfig() *EncodeConfig {
	cfg := DefaultEncodeConfig()
	cfg.Pretty = false
	return cfg
}

// SafeOptions controls SafeEncode behavior
type SafeOptions struct {
	// FailOnCircular raises instead of emitting cycle marker strings.
	FailOnCircular bool

	// IgnoreErrors swallows any serialization error and returns
	// DefaultValue instead.
	IgnoreErrors bool

	// DefaultValue is the text returned when errors are ignored.
	// Empty selects DefaultSafeValue ("null").
	DefaultValue string

	// Pretty emits indented output.
	Pretty bool
}

// DefaultSafeOptions returns the default SafeEncode options
func DefaultSafeOptions() *SafeOptions {
	return &SafeOptions{
		FailOnCircular: false,
		IgnoreErrors:   false,
		DefaultValue:   DefaultSafeValue,
	}
}

package json

import "time"

// Default configuration values
const (
	// DefaultMaxDepth bounds the recursion depth of one walk. Structures
	// nested deeper fail with ErrDepthLimit instead of exhausting the stack.
	DefaultMaxDepth = 1000

	// DefaultTimeLayout is the layout used for time.Time values.
	DefaultTimeLayout = time.RFC3339Nano

	// DefaultSafeValue is the text SafeEncode returns when errors are ignored.
	DefaultSafeValue = "null"

	// DefaultIndent is the indentation unit for pretty output.
	DefaultIndent = "  "
)

// Backend names accepted by NewBackend and Config.Backend
const (
	BackendAuto     = "auto"
	BackendStandard = "standard"
	BackendGoccy    = "goccy"
	BackendSonic    = "sonic"
)

package json

import (
	"errors"
	"fmt"
)

// Core error definitions
var (
	// Primary errors for common cases
	ErrUnsupportedType   = errors.New("unsupported type for serialization")
	ErrCircularReference = errors.New("circular reference detected")
	ErrOperationFailed   = errors.New("operation failed")
	ErrInvalidConfig     = errors.New("invalid configuration")

	// Limit-related errors
	ErrDepthLimit = errors.New("depth limit exceeded")
)

// SerializationError represents a serialization failure with essential context
type SerializationError struct {
	Op       string `json:"op"`        // Operation that failed
	TypeName string `json:"type_name"` // Type of the offending value
	Message  string `json:"message"`   // Human-readable error message
	Err      error  `json:"err"`       // Underlying error
}

func (e *SerializationError) Error() string {
	if e.TypeName != "" {
		return fmt.Sprintf("JSON %s failed for type %s: %s", e.Op, e.TypeName, e.Message)
	}
	return fmt.Sprintf("JSON %s failed: %s", e.Op, e.Message)
}

// Unwrap returns the underlying error for error chain support
func (e *SerializationError) Unwrap() error {
	return e.Err
}

// Is implements error matching for Go 1.13+ error handling
func (e *SerializationError) Is(target error) bool {
	if target == nil {
		return false
	}

	if targetErr, ok := target.(*SerializationError); ok {
		return e.Op == targetErr.Op && e.Err == targetErr.Err
	}

	return errors.Is(e.Err, target)
}

// Error helper functions for creating consistent error messages

// newTypeError creates a SerializationError for an unresolvable type
func newTypeError(operation, typeName string) error {
	return &SerializationError{
		Op:       operation,
		TypeName: typeName,
		Message:  "value is not JSON serializable",
		Err:      ErrUnsupportedType,
	}
}

// newCircularError creates a SerializationError for a detected cycle
func newCircularError(operation, typeName string) error {
	return &SerializationError{
		Op:       operation,
		TypeName: typeName,
		Message:  "circular reference detected",
		Err:      ErrCircularReference,
	}
}

// newDepthError creates a SerializationError for depth limit violations
func newDepthError(operation string, depth, limit int) error {
	return &SerializationError{
		Op:      operation,
		Message: fmt.Sprintf("depth %d exceeds limit %d", depth, limit),
		Err:     ErrDepthLimit,
	}
}

// newConfigError creates a SerializationError for invalid configuration
func newConfigError(operation, message string) error {
	return &SerializationError{
		Op:      operation,
		Message: message,
		Err:     ErrInvalidConfig,
	}
}

// WrapError wraps an error with additional context
func WrapError(err error, op, message string) error {
	if err == nil {
		return nil
	}
	return &SerializationError{
		Op:      op,
		Message: message,
		Err:     err,
	}
}

// WrapTypeError wraps an error with type context
func WrapTypeError(err error, op, typeName, message string) error {
	if err == nil {
		return nil
	}
	return &SerializationError{
		Op:       op,
		TypeName: typeName,
		Message:  message,
		Err:      err,
	}
}

// IsCircularReference reports whether err was caused by a reference cycle
// under the fail-on-circular policy.
func IsCircularReference(err error) bool {
	return errors.Is(err, ErrCircularReference)
}

// IsUnsupportedType reports whether err was caused by a value no conversion
// rule or fallback could handle.
func IsUnsupportedType(err error) bool {
	return errors.Is(err, ErrUnsupportedType)
}

// OffendingType returns the type name recorded in err, if any.
func OffendingType(err error) string {
	var serr *SerializationError
	if errors.As(err, &serr) {
		return serr.TypeName
	}
	return ""
}

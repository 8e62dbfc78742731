package json

import "reflect"

// resolveUnknown applies the policy ladder to a value no conversion rule
// matched. Precedence: the custom fallback hook is tried first and its
// output re-enters the walk (recursively processed, never emitted
// verbatim); then Strict raises; then IgnoreUnknown substitutes null; and
// with neither set the default stance is still to surface the error.
func (s *Serializer) resolveUnknown(state *walkState, value any, rv reflect.Value) (any, error) {
	typeName := rv.Type().String()

	if s.config.Fallback != nil {
		if replacement, ok := s.config.Fallback(value); ok {
			return s.encodeValue(state, replacement)
		}
	}

	if s.config.Strict {
		return nil, newTypeError("encode", typeName)
	}

	if s.config.IgnoreUnknown {
		s.logger.Debug("unresolvable value replaced with null", "type", typeName)
		return nil, nil
	}

	return nil, newTypeError("encode", typeName)
}

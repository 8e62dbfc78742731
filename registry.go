package json

import (
	"encoding"
	"encoding/json"
	"math/big"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/mat"
)

// Path is a filesystem path. The serializer emits it in forward-slash form
// regardless of host platform, for cross-platform stable output.
type Path string

// DictMarshaler is the duck-typed "to dict" capability: any value may expose
// a zero-argument map conversion. Absence is not an error, just a non-match
// for that conversion rule. The returned map is recursively converted.
type DictMarshaler interface {
	ToDict() map[string]any
}

// Predicate reports whether a conversion rule applies to a value.
// Predicates must be cheap (a type check, not deep inspection): every
// non-primitive node scans the rule list until a match.
type Predicate func(rv reflect.Value) bool

// ConverterFunc converts one matched value. The result is fed back into the
// serializer and recursively processed, so converters may return containers
// and other convertible values, not only JSON primitives.
type ConverterFunc func(value any, rv reflect.Value) (any, error)

// ConversionRule pairs a predicate with a converter. Rules are evaluated in
// registration order and the first match wins, so precedence is part of the
// contract: reordering silently changes behavior for values that satisfy
// more than one predicate.
type ConversionRule struct {
	Name    string
	Match   Predicate
	Convert ConverterFunc
}

// typeRegistry is the ordered rule table. It is assembled once per
// Serializer and never mutated afterwards, so concurrent walks share it
// without locking.
type typeRegistry struct {
	rules []ConversionRule
}

// register appends a rule to the table.
func (r *typeRegistry) register(rule ConversionRule) {
	r.rules = append(r.rules, rule)
}

// resolve returns the first rule whose predicate matches rv, or nil.
func (r *typeRegistry) resolve(rv reflect.Value) *ConversionRule {
	for i := range r.rules {
		if r.rules[i].Match(rv) {
			return &r.rules[i]
		}
	}
	return nil
}

// Cached reflect types for the built-in predicates
var (
	timeType        = reflect.TypeOf(time.Time{})
	durationType    = reflect.TypeOf(time.Duration(0))
	decimalType   = reflect.TypeOf(decimal.Decimal{})
	bigRatType    = reflect.TypeOf(big.Rat{})
	bigFloatType  = reflect.TypeOf(big.Float{})
	bigIntType    = reflect.TypeOf(big.Int{})
	uuidType      = reflect.TypeOf(uuid.UUID{})
	pathType      = reflect.TypeOf(Path(""))
	numberType    = reflect.TypeOf(json.Number(""))
	dataFrameType = reflect.TypeOf(dataframe.DataFrame{})
	seriesType    = reflect.TypeOf(series.Series{})

	vectorType        = reflect.TypeOf((*mat.Vector)(nil)).Elem()
	matrixType        = reflect.TypeOf((*mat.Matrix)(nil)).Elem()
	dictMarshalerType = reflect.TypeOf((*DictMarshaler)(nil)).Elem()
	jsonMarshalerType = reflect.TypeOf((*json.Marshaler)(nil)).Elem()
	textMarshalerType = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
)

// exactType builds a predicate matching one concrete type.
func exactType(t reflect.Type) Predicate {
	return func(rv reflect.Value) bool { return rv.Type() == t }
}

// oneOfTypes builds a predicate matching any of the given concrete types.
func oneOfTypes(types ...reflect.Type) Predicate {
	return func(rv reflect.Value) bool {
		t := rv.Type()
		for _, candidate := range types {
			if t == candidate {
				return true
			}
		}
		return false
	}
}

// capability builds a predicate matching values whose type, or pointer
// type, implements the given interface.
func capability(iface reflect.Type) Predicate {
	return func(rv reflect.Value) bool {
		t := rv.Type()
		if t.Implements(iface) {
			return true
		}
		return rv.Kind() != reflect.Pointer && reflect.PointerTo(t).Implements(iface)
	}
}

// materialize returns rv as the given interface, taking an addressable copy
// when the capability lives on the pointer method set.
func materialize(rv reflect.Value, iface reflect.Type) any {
	if rv.Type().Implements(iface) {
		return rv.Interface()
	}
	pv := reflect.New(rv.Type())
	pv.Elem().Set(rv)
	return pv.Interface()
}

// isDefinedScalar reports whether t is a user-defined type with a plain
// scalar kind, the Go shape of an enumeration member (e.g. type Color int).
// Predeclared scalars have an empty package path and never match; specific
// named scalars such as time.Duration and json.Number are claimed by earlier
// rules, preserving their precedence.
func isDefinedScalar(t reflect.Type) bool {
	if t.PkgPath() == "" {
		return false
	}
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64,
		reflect.String:
		return true
	default:
		return false
	}
}

// isSetLike reports whether t is the conventional Go set shape: a map with
// empty-struct values. Such maps encode as an array of keys.
func isSetLike(t reflect.Type) bool {
	if t.Kind() != reflect.Map {
		return false
	}
	elem := t.Elem()
	return elem.Kind() == reflect.Struct && elem.NumField() == 0
}

// builtinRules assembles the built-in rule chain, most specific first.
// The documented priority order:
//
//  1. time.Time -> ISO-8601 string (layout from Config.TimeLayout)
//  2. time.Duration -> total seconds as float64
//  3. decimal.Decimal and math/big numbers -> float64 (lossy by design;
//     big.Int stays integral while it fits in int64)
//  4. uuid.UUID -> canonical hyphenated lowercase string
//  5. Path -> forward-slash string form
//  6. json.Number -> native int64 or float64
//  7. gonum vector -> []float64, gonum matrix -> [][]float64
//  8. gota dataframe -> array of row maps ("records" orientation),
//     gota series -> {name: [values]} map
//  9. defined scalar types (enum members) -> underlying value
//  10. set-like map[T]struct{} -> array of keys (iteration order of the Go
//     map: a documented non-determinism, never sorted)
//  11. fixed-size arrays -> array
//  12. DictMarshaler capability -> returned map
//  13. json.Marshaler / encoding.TextMarshaler -> decoded output / string
//  14. structs -> map of exported fields (json tags honored)
//
// Exact-type rules sit above the capability rules they would otherwise
// shadow: uuid.UUID is a [16]byte array and also a TextMarshaler, json.Number
// is a defined string type, and both must convert by their own rule.
func (s *Serializer) builtinRules() []ConversionRule {
	return []ConversionRule{
		{
			Name:  "time",
			Match: exactType(timeType),
			Convert: func(value any, _ reflect.Value) (any, error) {
				return value.(time.Time).Format(s.config.TimeLayout), nil
			},
		},
		{
			Name:  "duration",
			Match: exactType(durationType),
			Convert: func(value any, _ reflect.Value) (any, error) {
				return value.(time.Duration).Seconds(), nil
			},
		},
		{
			Name:  "decimal",
			Match: exactType(decimalType),
			Convert: func(value any, _ reflect.Value) (any, error) {
				// Lossy: arbitrary precision collapses to float64.
				return value.(decimal.Decimal).InexactFloat64(), nil
			},
		},
		{
			Name:    "big_number",
			Match:   oneOfTypes(bigRatType, bigFloatType, bigIntType),
			Convert: convertBigNumber,
		},
		{
			Name:  "uuid",
			Match: exactType(uuidType),
			Convert: func(value any, _ reflect.Value) (any, error) {
				return value.(uuid.UUID).String(), nil
			},
		},
		{
			Name:  "path",
			Match: exactType(pathType),
			Convert: func(value any, _ reflect.Value) (any, error) {
				return filepath.ToSlash(string(value.(Path))), nil
			},
		},
		{
			Name:    "number",
			Match:   exactType(numberType),
			Convert: convertNumber,
		},
		{
			Name:  "vector",
			Match: capability(vectorType),
			Convert: func(_ any, rv reflect.Value) (any, error) {
				v := materialize(rv, vectorType).(mat.Vector)
				out := make([]float64, v.Len())
				for i := range out {
					out[i] = v.AtVec(i)
				}
				return out, nil
			},
		},
		{
			Name:  "matrix",
			Match: capability(matrixType),
			Convert: func(_ any, rv reflect.Value) (any, error) {
				m := materialize(rv, matrixType).(mat.Matrix)
				rows, cols := m.Dims()
				out := make([][]float64, rows)
				for i := range out {
					row := make([]float64, cols)
					for j := range row {
						row[j] = m.At(i, j)
					}
					out[i] = row
				}
				return out, nil
			},
		},
		{
			Name:  "dataframe",
			Match: exactType(dataFrameType),
			Convert: func(value any, _ reflect.Value) (any, error) {
				df := value.(dataframe.DataFrame)
				if df.Err != nil {
					return nil, WrapTypeError(df.Err, "convert", "dataframe.DataFrame", "dataframe carries an error")
				}
				return df.Maps(), nil
			},
		},
		{
			Name:    "series",
			Match:   exactType(seriesType),
			Convert: convertSeries,
		},
		{
			Name: "enum",
			Match: func(rv reflect.Value) bool {
				return isDefinedScalar(rv.Type())
			},
			Convert: convertDefinedScalar,
		},
		{
			Name: "set",
			Match: func(rv reflect.Value) bool {
				return isSetLike(rv.Type())
			},
			Convert: func(_ any, rv reflect.Value) (any, error) {
				out := make([]any, 0, rv.Len())
				iter := rv.MapRange()
				for iter.Next() {
					out = append(out, iter.Key().Interface())
				}
				return out, nil
			},
		},
		{
			Name: "tuple",
			Match: func(rv reflect.Value) bool {
				return rv.Kind() == reflect.Array
			},
			Convert: func(_ any, rv reflect.Value) (any, error) {
				out := make([]any, rv.Len())
				for i := range out {
					out[i] = rv.Index(i).Interface()
				}
				return out, nil
			},
		},
		{
			Name:  "to_dict",
			Match: capability(dictMarshalerType),
			Convert: func(_ any, rv reflect.Value) (any, error) {
				return materialize(rv, dictMarshalerType).(DictMarshaler).ToDict(), nil
			},
		},
		{
			Name:  "json_marshaler",
			Match: capability(jsonMarshalerType),
			Convert: func(_ any, rv reflect.Value) (any, error) {
				data, err := materialize(rv, jsonMarshalerType).(json.Marshaler).MarshalJSON()
				if err != nil {
					return nil, WrapTypeError(err, "convert", rv.Type().String(), "MarshalJSON failed")
				}
				var out any
				if err := s.backend.Unmarshal(data, &out); err != nil {
					return nil, WrapTypeError(err, "convert", rv.Type().String(), "MarshalJSON produced invalid JSON")
				}
				return out, nil
			},
		},
		{
			Name:  "text_marshaler",
			Match: capability(textMarshalerType),
			Convert: func(_ any, rv reflect.Value) (any, error) {
				text, err := materialize(rv, textMarshalerType).(encoding.TextMarshaler).MarshalText()
				if err != nil {
					return nil, WrapTypeError(err, "convert", rv.Type().String(), "MarshalText failed")
				}
				return string(text), nil
			},
		},
		{
			Name: "struct",
			Match: func(rv reflect.Value) bool {
				return rv.Kind() == reflect.Struct
			},
			Convert: func(_ any, rv reflect.Value) (any, error) {
				return structToMap(rv), nil
			},
		},
	}
}

// convertBigNumber collapses math/big values to JSON numbers. Rationals and
// floats lose precision by design; integers stay integral while they fit.
func convertBigNumber(value any, rv reflect.Value) (any, error) {
	switch x := value.(type) {
	case big.Rat:
		f, _ := x.Float64()
		return f, nil
	case big.Float:
		f, _ := x.Float64()
		return f, nil
	case big.Int:
		if x.IsInt64() {
			return x.Int64(), nil
		}
		f, _ := new(big.Float).SetInt(&x).Float64()
		return f, nil
	}
	return nil, newTypeError("convert", rv.Type().String())
}

// convertNumber unwraps a json.Number to its native numeric form.
func convertNumber(value any, rv reflect.Value) (any, error) {
	n := value.(json.Number)
	if i, err := n.Int64(); err == nil {
		return i, nil
	}
	if f, err := n.Float64(); err == nil {
		return f, nil
	}
	return nil, WrapTypeError(ErrOperationFailed, "convert", rv.Type().String(),
		"number literal "+strconv.Quote(n.String())+" is not a valid JSON number")
}

// convertSeries emits a labeled vector as {name: [values]} when the series
// is named, mirroring the records shape of its parent frame; unnamed series
// fall back to an index-keyed map.
func convertSeries(value any, _ reflect.Value) (any, error) {
	s := value.(series.Series)
	if s.Err != nil {
		return nil, WrapTypeError(s.Err, "convert", "series.Series", "series carries an error")
	}
	values := make([]any, s.Len())
	for i := range values {
		values[i] = s.Val(i)
	}
	if s.Name != "" {
		return map[string]any{s.Name: values}, nil
	}
	indexed := make(map[string]any, len(values))
	for i, v := range values {
		indexed[strconv.Itoa(i)] = v
	}
	return indexed, nil
}

// convertDefinedScalar strips a named scalar type down to its underlying
// value: the enumeration rule.
func convertDefinedScalar(_ any, rv reflect.Value) (any, error) {
	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint(), nil
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	case reflect.String:
		return rv.String(), nil
	}
	return nil, newTypeError("convert", rv.Type().String())
}

// structToMap converts a struct to a map of its exported fields. The json
// struct tag is honored for renames, "-" skips, and omitempty; unexported
// fields are always skipped. Untagged anonymous struct fields are flattened
// into the enclosing map, matching encoding/json embedding.
func structToMap(rv reflect.Value) map[string]any {
	out := make(map[string]any, rv.NumField())
	collectStructFields(rv, out)
	return out
}

func collectStructFields(rv reflect.Value, out map[string]any) {
	t := rv.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.PkgPath != "" {
			continue // unexported
		}

		tag := field.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name, opts, _ := strings.Cut(tag, ",")

		fv := rv.Field(i)
		if field.Anonymous && tag == "" {
			embedded := fv
			if embedded.Kind() == reflect.Pointer {
				if embedded.IsNil() {
					continue
				}
				embedded = embedded.Elem()
			}
			if embedded.Kind() == reflect.Struct {
				collectStructFields(embedded, out)
				continue
			}
		}

		if strings.Contains(opts, "omitempty") && fv.IsZero() {
			continue
		}
		if name == "" {
			name = field.Name
		}
		out[name] = fv.Interface()
	}
}

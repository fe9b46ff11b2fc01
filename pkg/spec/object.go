package spec

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Object is a JSON object that remembers key insertion order.
type Object = orderedmap.OrderedMap[string, any]

// NewObject returns an empty ordered object.
func NewObject() *Object {
	return orderedmap.New[string, any]()
}

// Field is one member of a JSON object.
type Field struct {
	Key   string
	Value any
}

// Fields returns the members of v when v is a JSON object. Ordered objects
// yield insertion order; plain maps yield sorted keys so that output stays
// deterministic.
func Fields(v any) ([]Field, bool) {
	switch o := v.(type) {
	case *Object:
		if o == nil {
			return nil, false
		}
		fields := make([]Field, 0, o.Len())
		for pair := o.Oldest(); pair != nil; pair = pair.Next() {
			fields = append(fields, Field{Key: pair.Key, Value: pair.Value})
		}
		return fields, true
	case map[string]any:
		keys := make([]string, 0, len(o))
		for k := range o {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fields := make([]Field, 0, len(keys))
		for _, k := range keys {
			fields = append(fields, Field{Key: k, Value: o[k]})
		}
		return fields, true
	}
	return nil, false
}

// Lookup finds key among fields.
func Lookup(fields []Field, key string) (any, bool) {
	for _, f := range fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// KindOf names the JSON kind of v for diagnostics.
func KindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case float64, float32, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, json.Number:
		return "number"
	case []any:
		return "array"
	}
	if _, ok := Fields(v); ok {
		return "object"
	}
	return fmt.Sprintf("%T", v)
}

// MaxValueDepth bounds how deeply nested a value may be.
const MaxValueDepth = 64

var (
	// ErrValueTooDeep is returned when a value nests deeper than MaxValueDepth,
	// which also catches cyclic maps and slices.
	ErrValueTooDeep = errors.New("value exceeds maximum nesting depth")

	// ErrUnsupportedValue is returned for values that are not JSON values.
	ErrUnsupportedValue = errors.New("unsupported value type")
)

// CloneValue deep-copies a JSON value into the canonical value domain:
// nil, bool, string, float64, []any and *Object. Every number becomes a
// float64 so that later stages need a single numeric case.
func CloneValue(v any) (any, error) {
	return cloneValue(v, 0)
}

func cloneValue(v any, depth int) (any, error) {
	if depth > MaxValueDepth {
		return nil, fmt.Errorf("%w of %d", ErrValueTooDeep, MaxValueDepth)
	}
	switch x := v.(type) {
	case nil, bool, string:
		return x, nil
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil, fmt.Errorf("%w: non-finite number", ErrUnsupportedValue)
		}
		return x, nil
	case float32:
		return cloneValue(float64(x), depth)
	case int:
		return float64(x), nil
	case int8:
		return float64(x), nil
	case int16:
		return float64(x), nil
	case int32:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case uint:
		return float64(x), nil
	case uint8:
		return float64(x), nil
	case uint16:
		return float64(x), nil
	case uint32:
		return float64(x), nil
	case uint64:
		return float64(x), nil
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return nil, fmt.Errorf("%w: invalid number %q", ErrUnsupportedValue, x.String())
		}
		return f, nil
	case []any:
		out := make([]any, len(x))
		for i, elem := range x {
			c, err := cloneValue(elem, depth+1)
			if err != nil {
				return nil, err
			}
			out[i] = c
		}
		return out, nil
	}

	fields, ok := Fields(v)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedValue, v)
	}
	out := NewObject()
	for _, f := range fields {
		c, err := cloneValue(f.Value, depth+1)
		if err != nil {
			return nil, err
		}
		out.Set(f.Key, c)
	}
	return out, nil
}

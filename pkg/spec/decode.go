package spec

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/buger/jsonparser"
)

// ErrInvalidJSON is returned by Decode for malformed input.
var ErrInvalidJSON = errors.New("invalid JSON")

// Decode parses JSON into the canonical value domain, keeping object keys in
// document order. Prop emission order depends on it.
func Decode(data []byte) (any, error) {
	// jsonparser is lenient about trailing data, so check well-formedness first.
	if !json.Valid(data) {
		return nil, ErrInvalidJSON
	}
	value, dataType, _, err := jsonparser.Get(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	return decodeValue(value, dataType, 0)
}

func decodeValue(raw []byte, dataType jsonparser.ValueType, depth int) (any, error) {
	if depth > MaxValueDepth {
		return nil, fmt.Errorf("%w of %d", ErrValueTooDeep, MaxValueDepth)
	}

	switch dataType {
	case jsonparser.Null:
		return nil, nil
	case jsonparser.Boolean:
		return jsonparser.ParseBoolean(raw)
	case jsonparser.Number:
		return jsonparser.ParseFloat(raw)
	case jsonparser.String:
		return jsonparser.ParseString(raw)
	case jsonparser.Array:
		out := make([]any, 0)
		var elemErr error
		_, err := jsonparser.ArrayEach(raw, func(value []byte, dt jsonparser.ValueType, _ int, _ error) {
			if elemErr != nil {
				return
			}
			v, err := decodeValue(value, dt, depth+1)
			if err != nil {
				elemErr = err
				return
			}
			out = append(out, v)
		})
		if elemErr != nil {
			return nil, elemErr
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
		}
		return out, nil
	case jsonparser.Object:
		obj := NewObject()
		err := jsonparser.ObjectEach(raw, func(key, value []byte, dt jsonparser.ValueType, _ int) error {
			k, err := jsonparser.ParseString(key)
			if err != nil {
				return fmt.Errorf("%w: %v", ErrInvalidJSON, err)
			}
			v, err := decodeValue(value, dt, depth+1)
			if err != nil {
				return err
			}
			obj.Set(k, v)
			return nil
		})
		if err != nil {
			return nil, err
		}
		return obj, nil
	}
	return nil, fmt.Errorf("%w: unexpected value type %v", ErrInvalidJSON, dataType)
}

package value

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// FromGoValue converts a plain Go value, typically the result of decoding
// JSON into map[string]any, into a Value. Supported inputs are nil, bool,
// the integer and float types, json.Number, string, time.Time, []any,
// map[string]any, and Value itself (returned as-is). Anything else is an
// error.
func FromGoValue(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return Null(), nil
	case Value:
		return val, nil
	case bool:
		return FromBoolean(val), nil
	case int:
		return FromInteger(int64(val)), nil
	case int8:
		return FromInteger(int64(val)), nil
	case int16:
		return FromInteger(int64(val)), nil
	case int32:
		return FromInteger(int64(val)), nil
	case int64:
		return FromInteger(val), nil
	case uint:
		if uint64(val) > math.MaxInt64 {
			return Value{}, fmt.Errorf("uint value %d overflows int64", val)
		}
		return FromInteger(int64(val)), nil
	case uint8:
		return FromInteger(int64(val)), nil
	case uint16:
		return FromInteger(int64(val)), nil
	case uint32:
		return FromInteger(int64(val)), nil
	case uint64:
		if val > math.MaxInt64 {
			return Value{}, fmt.Errorf("uint64 value %d overflows int64", val)
		}
		return FromInteger(int64(val)), nil
	case float32:
		return FromDouble(float64(val)), nil
	case float64:
		return FromDouble(val), nil
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return FromInteger(i), nil
		}
		f, err := val.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("cannot convert json.Number %q: %w", val, err)
		}
		return FromDouble(f), nil
	case string:
		return FromString(val), nil
	case time.Time:
		return FromTimestamp(val), nil
	case []any:
		elements := make([]Value, len(val))
		for i, elem := range val {
			converted, err := FromGoValue(elem)
			if err != nil {
				return Value{}, fmt.Errorf("array element %d: %w", i, err)
			}
			elements[i] = converted
		}
		return FromArray(elements...), nil
	case map[string]any:
		fields := make(map[string]Value, len(val))
		for k, elem := range val {
			converted, err := FromGoValue(elem)
			if err != nil {
				return Value{}, fmt.Errorf("field %q: %w", k, err)
			}
			fields[k] = converted
		}
		return FromMap(fields), nil
	default:
		return Value{}, fmt.Errorf("unsupported Go type %T", v)
	}
}

// ToGoValue converts a Value back into plain Go data: nil, bool, int64,
// float64, string, time.Time, []any, or map[string]any. It is the inverse
// of FromGoValue for values FromGoValue produces.
func ToGoValue(v Value) any {
	switch v.Kind() {
	case KindNull:
		return nil
	case KindBoolean:
		return v.boolean
	case KindInteger:
		return v.integer
	case KindDouble:
		return v.double
	case KindString:
		return v.str
	case KindTimestamp:
		return v.ts
	case KindArray:
		out := make([]any, len(v.array))
		for i, elem := range v.array {
			out[i] = ToGoValue(elem)
		}
		return out
	case KindMap:
		out := make(map[string]any, len(v.fields))
		for k, elem := range v.fields {
			out[k] = ToGoValue(elem)
		}
		return out
	default:
		panic(fmt.Sprintf("value: unknown kind %q", v.Kind()))
	}
}

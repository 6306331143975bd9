// Package value defines the tagged-union field value type used throughout
// the client: every document field, transform operand, and server result is
// a Value. Values are immutable once constructed and safe to share across
// goroutines; equality and hashing are structural and kind-strict.
package value

import (
	"fmt"
	"hash/fnv"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Kind identifies which variant a Value holds.
type Kind string

const (
	KindNull      Kind = "null"      // The explicit null value
	KindBoolean   Kind = "boolean"   // True/false
	KindInteger   Kind = "integer"   // Signed 64-bit integer
	KindDouble    Kind = "double"    // IEEE 754 double
	KindTimestamp Kind = "timestamp" // Point in time
	KindString    Kind = "string"    // Text data
	KindArray     Kind = "array"     // Ordered list of values
	KindMap       Kind = "map"       // String-keyed mapping of values
)

// Value is a closed tagged union over the field types the database supports.
// The zero Value is null.
type Value struct {
	kind    Kind
	boolean bool
	integer int64
	double  float64
	str     string
	ts      time.Time
	array   []Value
	fields  map[string]Value
}

// Null returns the null value.
func Null() Value {
	return Value{kind: KindNull}
}

// Boolean returns a boolean value.
func FromBoolean(b bool) Value {
	return Value{kind: KindBoolean, boolean: b}
}

// Integer returns a 64-bit integer value.
func FromInteger(i int64) Value {
	return Value{kind: KindInteger, integer: i}
}

// Double returns a floating-point value.
func FromDouble(d float64) Value {
	return Value{kind: KindDouble, double: d}
}

// FromString returns a string value.
func FromString(s string) Value {
	return Value{kind: KindString, str: s}
}

// Timestamp returns a timestamp value.
func FromTimestamp(t time.Time) Value {
	return Value{kind: KindTimestamp, ts: t}
}

// Array returns an array value holding the given elements. The elements are
// copied; later changes to the argument slice are not observable.
func FromArray(elements ...Value) Value {
	copied := make([]Value, len(elements))
	copy(copied, elements)
	return Value{kind: KindArray, array: copied}
}

// Map returns a map value holding the given fields. The map is copied.
func FromMap(fields map[string]Value) Value {
	copied := make(map[string]Value, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	return Value{kind: KindMap, fields: copied}
}

// Kind reports which variant v holds.
func (v Value) Kind() Kind {
	if v.kind == "" {
		return KindNull
	}
	return v.kind
}

// IsNumber reports whether v is an integer or a double.
func (v Value) IsNumber() bool {
	k := v.Kind()
	return k == KindInteger || k == KindDouble
}

// BooleanValue returns the boolean payload. Calling it on a non-boolean
// value is a programming error.
func (v Value) BooleanValue() bool {
	v.mustBe(KindBoolean, "BooleanValue")
	return v.boolean
}

// IntegerValue returns the integer payload. Calling it on a non-integer
// value is a programming error.
func (v Value) IntegerValue() int64 {
	v.mustBe(KindInteger, "IntegerValue")
	return v.integer
}

// DoubleValue returns the double payload. Calling it on a non-double value
// is a programming error.
func (v Value) DoubleValue() float64 {
	v.mustBe(KindDouble, "DoubleValue")
	return v.double
}

// StringValue returns the string payload. Calling it on a non-string value
// is a programming error.
func (v Value) StringValue() string {
	v.mustBe(KindString, "StringValue")
	return v.str
}

// TimestampValue returns the timestamp payload. Calling it on a
// non-timestamp value is a programming error.
func (v Value) TimestampValue() time.Time {
	v.mustBe(KindTimestamp, "TimestampValue")
	return v.ts
}

// ArrayValue returns the element slice of an array value. The returned
// slice must be treated as read-only. Calling it on a non-array value is a
// programming error.
func (v Value) ArrayValue() []Value {
	v.mustBe(KindArray, "ArrayValue")
	return v.array
}

// MapValue returns the field map of a map value. The returned map must be
// treated as read-only. Calling it on a non-map value is a programming
// error.
func (v Value) MapValue() map[string]Value {
	v.mustBe(KindMap, "MapValue")
	return v.fields
}

func (v Value) mustBe(k Kind, accessor string) {
	if v.Kind() != k {
		panic(fmt.Sprintf("value: %s called on %s value", accessor, v.Kind()))
	}
}

// Equals reports deep structural equality. Equality is kind-strict: an
// integer 2 and a double 2.0 are not equal. Array equality is
// order-sensitive; map equality compares key sets and per-key values.
func (v Value) Equals(other Value) bool {
	if v.Kind() != other.Kind() {
		return false
	}
	switch v.Kind() {
	case KindNull:
		return true
	case KindBoolean:
		return v.boolean == other.boolean
	case KindInteger:
		return v.integer == other.integer
	case KindDouble:
		// NaN never equals anything, standard IEEE semantics.
		return v.double == other.double
	case KindString:
		return v.str == other.str
	case KindTimestamp:
		return v.ts.Equal(other.ts)
	case KindArray:
		if len(v.array) != len(other.array) {
			return false
		}
		for i := range v.array {
			if !v.array[i].Equals(other.array[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if len(v.fields) != len(other.fields) {
			return false
		}
		for k, fv := range v.fields {
			ov, ok := other.fields[k]
			if !ok || !fv.Equals(ov) {
				return false
			}
		}
		return true
	default:
		panic(fmt.Sprintf("value: unknown kind %q", v.Kind()))
	}
}

// Per-kind seeds keep structurally different values from colliding on the
// same mix, e.g. the empty array vs the empty map.
const (
	hashSeedNull      uint64 = 13
	hashSeedBoolean   uint64 = 17
	hashSeedNumber    uint64 = 19
	hashSeedString    uint64 = 23
	hashSeedTimestamp uint64 = 29
	hashSeedArray     uint64 = 31
	hashSeedMap       uint64 = 41
)

func mix(h, v uint64) uint64 {
	return 31*h + v
}

// Hash returns a stable, process-local hash consistent with Equals: equal
// values hash equal. It is not a persisted format.
func (v Value) Hash() uint64 {
	switch v.Kind() {
	case KindNull:
		return hashSeedNull
	case KindBoolean:
		if v.boolean {
			return mix(hashSeedBoolean, 1231)
		}
		return mix(hashSeedBoolean, 1237)
	case KindInteger:
		return mix(hashSeedNumber, uint64(v.integer))
	case KindDouble:
		return mix(mix(hashSeedNumber, 3), math.Float64bits(v.double))
	case KindString:
		return mix(hashSeedString, hashString(v.str))
	case KindTimestamp:
		h := mix(hashSeedTimestamp, uint64(v.ts.Unix()))
		return mix(h, uint64(v.ts.Nanosecond()))
	case KindArray:
		h := hashSeedArray
		for _, elem := range v.array {
			h = mix(h, elem.Hash())
		}
		return h
	case KindMap:
		// Map iteration order is randomized; sort keys so the hash is
		// deterministic for a given value.
		keys := sortedKeys(v.fields)
		h := hashSeedMap
		for _, k := range keys {
			h = mix(h, hashString(k))
			h = mix(h, v.fields[k].Hash())
		}
		return h
	default:
		panic(fmt.Sprintf("value: unknown kind %q", v.Kind()))
	}
}

func hashString(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}

func sortedKeys(fields map[string]Value) []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// String renders a deterministic debug form: map keys are sorted, doubles
// always carry a decimal marker so they read differently from integers.
// The output is stable for logs and tests but is not a wire format.
func (v Value) String() string {
	switch v.Kind() {
	case KindNull:
		return "null"
	case KindBoolean:
		return strconv.FormatBool(v.boolean)
	case KindInteger:
		return strconv.FormatInt(v.integer, 10)
	case KindDouble:
		s := strconv.FormatFloat(v.double, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eE") && !math.IsInf(v.double, 0) && !math.IsNaN(v.double) {
			s += ".0"
		}
		return s
	case KindString:
		return strconv.Quote(v.str)
	case KindTimestamp:
		return v.ts.UTC().Format(time.RFC3339Nano)
	case KindArray:
		parts := make([]string, len(v.array))
		for i, elem := range v.array {
			parts[i] = elem.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindMap:
		keys := sortedKeys(v.fields)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = k + ": " + v.fields[k].String()
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		panic(fmt.Sprintf("value: unknown kind %q", v.Kind()))
	}
}

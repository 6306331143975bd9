// Package transform implements field transforms: mutation operations whose
// final value is resolved by the server rather than supplied by the client.
// Three kinds exist — server timestamps, array union/removal, and numeric
// increment. Each operation can compute an optimistic local result before
// the server acknowledges the write, and the authoritative result once the
// server's answer is known, without double-applying increments on rebase.
package transform

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/asaidimu/go-fieldsync/core/value"
)

// Type identifies a transform variant.
type Type string

const (
	TypeServerTimestamp Type = "server_timestamp"
	TypeIncrement       Type = "increment"
	TypeArrayUnion      Type = "array_union"
	TypeArrayRemove     Type = "array_remove"
)

// Operation is a closed sum over the transform variants. The zero Operation
// is an empty shell: it equals only another empty shell and supports no
// application. Operations are immutable after construction and safe to
// share across goroutines.
type Operation struct {
	opType   Type
	elements []value.Value // array union / remove candidates
	operand  value.Value   // numeric increment operand
}

// ServerTimestamp returns the transform that assigns the server's commit
// time to the field. All server timestamp operations are interchangeable.
func ServerTimestamp() Operation {
	return Operation{opType: TypeServerTimestamp}
}

// ArrayUnion returns the transform that appends each candidate element to
// the field's array unless an equal element is already present.
func ArrayUnion(elements ...value.Value) Operation {
	return newArrayOperation(TypeArrayUnion, elements)
}

// ArrayRemove returns the transform that strips every occurrence of each
// candidate element from the field's array.
func ArrayRemove(elements ...value.Value) Operation {
	return newArrayOperation(TypeArrayRemove, elements)
}

func newArrayOperation(t Type, elements []value.Value) Operation {
	copied := make([]value.Value, len(elements))
	copy(copied, elements)
	return Operation{opType: t, elements: copied}
}

// Increment returns the transform that adds operand to the field's current
// numeric value. A non-numeric operand is a programming error.
func Increment(operand value.Value) Operation {
	if !operand.IsNumber() {
		panic(fmt.Sprintf("transform: increment operand must be numeric, got %s", operand.Kind()))
	}
	return Operation{opType: TypeIncrement, operand: operand}
}

// Type returns the variant tag; the empty string for the zero Operation.
func (op Operation) Type() Type {
	return op.opType
}

// IsEmpty reports whether op is the zero-value shell.
func (op Operation) IsEmpty() bool {
	return op.opType == ""
}

// Equals reports structural equality: same variant tag and same payload.
// Operations of different variants are never equal; the empty shell equals
// only another empty shell.
func (op Operation) Equals(other Operation) bool {
	if op.opType != other.opType {
		return false
	}
	switch op.opType {
	case "", TypeServerTimestamp:
		return true
	case TypeArrayUnion, TypeArrayRemove:
		if len(op.elements) != len(other.elements) {
			return false
		}
		for i := range op.elements {
			if !op.elements[i].Equals(other.elements[i]) {
				return false
			}
		}
		return true
	case TypeIncrement:
		return op.operand.Equals(other.operand)
	default:
		panic(fmt.Sprintf("transform: unknown type %q", op.opType))
	}
}

// Hash returns a stable, process-local hash consistent with Equals.
func (op Operation) Hash() uint64 {
	switch op.opType {
	case "":
		return 0
	case TypeServerTimestamp:
		// Arbitrary constant; all instances are equal.
		return 37
	case TypeArrayUnion, TypeArrayRemove:
		h := uint64(37)
		if op.opType == TypeArrayUnion {
			h = 31*h + 1231
		} else {
			h = 31*h + 1237
		}
		for _, elem := range op.elements {
			h = 31*h + elem.Hash()
		}
		return h
	case TypeIncrement:
		return op.operand.Hash()
	default:
		panic(fmt.Sprintf("transform: unknown type %q", op.opType))
	}
}

// String renders a debug form such as "ArrayUnion([1, 2])" or
// "NumericIncrement(3)". Stable for logs and tests, not a wire format.
func (op Operation) String() string {
	switch op.opType {
	case "":
		return "None"
	case TypeServerTimestamp:
		return "ServerTimestamp"
	case TypeArrayUnion, TypeArrayRemove:
		name := "ArrayUnion"
		if op.opType == TypeArrayRemove {
			name = "ArrayRemove"
		}
		parts := make([]string, len(op.elements))
		for i, elem := range op.elements {
			parts[i] = elem.String()
		}
		return name + "([" + strings.Join(parts, ", ") + "])"
	case TypeIncrement:
		return "NumericIncrement(" + op.operand.String() + ")"
	default:
		panic(fmt.Sprintf("transform: unknown type %q", op.opType))
	}
}

// ApplyToLocalView computes the optimistic result visible to local readers
// before the server acknowledges the write. previous is the field's current
// value, or nil when the field is absent; localWriteTime is the client's
// wall-clock time for the write.
func (op Operation) ApplyToLocalView(previous *value.Value, localWriteTime time.Time) value.Value {
	switch op.opType {
	case TypeServerTimestamp:
		return value.ServerTimestampSentinel(localWriteTime, previous)
	case TypeArrayUnion, TypeArrayRemove:
		return op.applyToArray(previous)
	case TypeIncrement:
		return op.applyIncrement(previous)
	default:
		panic(fmt.Sprintf("transform: ApplyToLocalView on %q operation", op.opType))
	}
}

// ApplyToRemoteDocument computes the authoritative result once the server
// has resolved the transform. transformResult is the server's answer for
// this operation; for array transforms the server sends no materialized
// result, so the client recomputes exactly as it does locally.
func (op Operation) ApplyToRemoteDocument(previous *value.Value, transformResult value.Value) value.Value {
	switch op.opType {
	case TypeServerTimestamp, TypeIncrement:
		// The server is authoritative.
		return transformResult
	case TypeArrayUnion, TypeArrayRemove:
		return op.applyToArray(previous)
	default:
		panic(fmt.Sprintf("transform: ApplyToRemoteDocument on %q operation", op.opType))
	}
}

// ComputeBaseValue returns the value a rebase must replay this transform
// against, or nil for idempotent transforms that need no base. Only
// numeric increments track a base: replaying an increment against an
// updated snapshot without one would double-count the pending delta.
func (op Operation) ComputeBaseValue(previous *value.Value) *value.Value {
	switch op.opType {
	case TypeServerTimestamp, TypeArrayUnion, TypeArrayRemove:
		return nil
	case TypeIncrement:
		if previous != nil && previous.IsNumber() {
			base := *previous
			return &base
		}
		zero := value.FromInteger(0)
		return &zero
	default:
		panic(fmt.Sprintf("transform: ComputeBaseValue on %q operation", op.opType))
	}
}

// coercedArray returns a fresh element slice to transform: a copy of the
// previous array when there is one, an empty slice when the field is
// absent, null, or holds any other type.
func coercedArray(previous *value.Value) []value.Value {
	if previous != nil && previous.Kind() == value.KindArray {
		existing := previous.ArrayValue()
		return append(make([]value.Value, 0, len(existing)), existing...)
	}
	return nil
}

func (op Operation) applyToArray(previous *value.Value) value.Value {
	result := coercedArray(previous)
	for _, elem := range op.elements {
		if op.opType == TypeArrayUnion {
			if !containsEqual(result, elem) {
				result = append(result, elem)
			}
			continue
		}
		// Removal strips every occurrence of the candidate, not just the
		// first, before moving to the next candidate.
		kept := result[:0]
		for _, existing := range result {
			if !existing.Equals(elem) {
				kept = append(kept, existing)
			}
		}
		result = kept
	}
	return value.FromArray(result...)
}

func containsEqual(elements []value.Value, candidate value.Value) bool {
	for _, elem := range elements {
		if elem.Equals(candidate) {
			return true
		}
	}
	return false
}

func (op Operation) applyIncrement(previous *value.Value) value.Value {
	base := op.ComputeBaseValue(previous)
	// The sum stays an integer only when both the base and the operand are
	// integers; any double promotes the whole addition to floating point.
	if base.Kind() == value.KindInteger && op.operand.Kind() == value.KindInteger {
		return value.FromInteger(saturatedAdd(base.IntegerValue(), op.operand.IntegerValue()))
	}
	return value.FromDouble(asDouble(*base) + asDouble(op.operand))
}

// saturatedAdd adds two signed 64-bit integers, clamping to the
// representable range instead of wrapping on overflow.
func saturatedAdd(x, y int64) int64 {
	if x > 0 && y > math.MaxInt64-x {
		return math.MaxInt64
	}
	if x < 0 && y < math.MinInt64-x {
		return math.MinInt64
	}
	return x + y
}

func asDouble(v value.Value) float64 {
	switch v.Kind() {
	case value.KindDouble:
		return v.DoubleValue()
	case value.KindInteger:
		return float64(v.IntegerValue())
	default:
		panic(fmt.Sprintf("transform: expected numeric value, got %s (%s)", v, v.Kind()))
	}
}

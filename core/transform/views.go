package transform

import (
	"fmt"

	"github.com/asaidimu/go-fieldsync/core/value"
)

// ArrayTransform is a typed view over an array union or removal operation,
// giving access to the candidate elements. Constructing one from any other
// operation is a programming error.
type ArrayTransform struct {
	Operation
}

// NewArrayTransform builds an array transform of the given kind. The kind
// must be TypeArrayUnion or TypeArrayRemove.
func NewArrayTransform(t Type, elements ...value.Value) ArrayTransform {
	if t != TypeArrayUnion && t != TypeArrayRemove {
		panic(fmt.Sprintf("transform: expected array transform type, got %q", t))
	}
	return ArrayTransform{newArrayOperation(t, elements)}
}

// AsArrayTransform reinterprets a generic operation as an array transform.
func AsArrayTransform(op Operation) ArrayTransform {
	if op.opType != TypeArrayUnion && op.opType != TypeArrayRemove {
		panic(fmt.Sprintf("transform: expected array transform type, got %q", op.opType))
	}
	return ArrayTransform{op}
}

// Elements returns the candidate elements, in construction order. The
// returned slice must be treated as read-only.
func (a ArrayTransform) Elements() []value.Value {
	return a.elements
}

// NumericIncrementTransform is a typed view over a numeric increment
// operation, giving access to the operand. Constructing one from any other
// operation is a programming error.
type NumericIncrementTransform struct {
	Operation
}

// NewNumericIncrement builds an increment transform. The operand must be
// an integer or a double.
func NewNumericIncrement(operand value.Value) NumericIncrementTransform {
	return NumericIncrementTransform{Increment(operand)}
}

// AsNumericIncrement reinterprets a generic operation as an increment.
func AsNumericIncrement(op Operation) NumericIncrementTransform {
	if op.opType != TypeIncrement {
		panic(fmt.Sprintf("transform: expected increment type, got %q", op.opType))
	}
	return NumericIncrementTransform{op}
}

// Operand returns the increment's numeric operand.
func (n NumericIncrementTransform) Operand() value.Value {
	return n.operand
}

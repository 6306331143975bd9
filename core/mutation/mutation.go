package mutation

import (
	"fmt"
	"time"

	"github.com/asaidimu/go-fieldsync/core/transform"
	"github.com/asaidimu/go-fieldsync/core/value"
)

// FieldTransform pairs a transform operation with the document field it
// targets.
type FieldTransform struct {
	Path FieldPath
	Op   transform.Operation
}

// String renders "path: operation" for diagnostics.
func (ft FieldTransform) String() string {
	return ft.Path.String() + ": " + ft.Op.String()
}

// Equals reports whether two field transforms target the same path with
// equal operations.
func (ft FieldTransform) Equals(other FieldTransform) bool {
	return ft.Path.Equals(other.Path) && ft.Op.Equals(other.Op)
}

// ApplyTransformsToLocalView returns a copy of doc with every transform
// replaced by its optimistic local result, applied in order. Later
// transforms observe the effects of earlier ones.
func ApplyTransformsToLocalView(doc value.Value, localWriteTime time.Time, transforms []FieldTransform) value.Value {
	result := doc
	for _, ft := range transforms {
		previous := fieldPointer(result, ft.Path)
		result = SetField(result, ft.Path, ft.Op.ApplyToLocalView(previous, localWriteTime))
	}
	return result
}

// ApplyTransformsToRemoteDocument returns a copy of doc with every
// transform replaced by its authoritative result. results carries the
// server's answer for each transform, in the same order; a length mismatch
// means the caller's bookkeeping is broken and is a programming error.
func ApplyTransformsToRemoteDocument(doc value.Value, transforms []FieldTransform, results []value.Value) value.Value {
	if len(results) != len(transforms) {
		panic(fmt.Sprintf("mutation: server returned %d transform results for %d transforms", len(results), len(transforms)))
	}
	result := doc
	for i, ft := range transforms {
		previous := fieldPointer(result, ft.Path)
		result = SetField(result, ft.Path, ft.Op.ApplyToRemoteDocument(previous, results[i]))
	}
	return result
}

// ExtractBaseValues collects, keyed by path string, the base value each
// transform must be replayed against when pending writes are rebased onto
// a newer document snapshot. Idempotent transforms contribute nothing.
func ExtractBaseValues(doc value.Value, transforms []FieldTransform) map[string]value.Value {
	bases := make(map[string]value.Value)
	for _, ft := range transforms {
		previous := fieldPointer(doc, ft.Path)
		if base := ft.Op.ComputeBaseValue(previous); base != nil {
			bases[ft.Path.String()] = *base
		}
	}
	return bases
}

func fieldPointer(doc value.Value, path FieldPath) *value.Value {
	v, ok := GetField(doc, path)
	if !ok {
		return nil
	}
	return &v
}

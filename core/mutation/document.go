package mutation

import (
	"fmt"

	"github.com/asaidimu/go-fieldsync/core/value"
)

// Document helpers operate on map-kind values without ever mutating their
// input: every write rebuilds the spine of maps along the path and shares
// everything else. Handing a non-map value to a writer is a programming
// error.

// GetField looks up the value at path. The second result is false when any
// segment along the path is missing or traverses a non-map value.
func GetField(doc value.Value, path FieldPath) (value.Value, bool) {
	current := doc
	for _, segment := range path {
		if current.Kind() != value.KindMap {
			return value.Value{}, false
		}
		next, ok := current.MapValue()[segment]
		if !ok {
			return value.Value{}, false
		}
		current = next
	}
	return current, true
}

// SetField returns a copy of doc with v stored at path. Intermediate
// segments that are missing or hold non-map values are replaced by fresh
// maps.
func SetField(doc value.Value, path FieldPath, v value.Value) value.Value {
	mustBeDocument(doc, "SetField")
	if len(path) == 0 {
		panic("mutation: SetField with empty path")
	}
	return setIn(doc, path, v)
}

func setIn(doc value.Value, path FieldPath, v value.Value) value.Value {
	fields := copyFields(doc)
	head := path[0]
	if len(path) == 1 {
		fields[head] = v
	} else {
		child, ok := fields[head]
		if !ok || child.Kind() != value.KindMap {
			child = value.FromMap(nil)
		}
		fields[head] = setIn(child, path[1:], v)
	}
	return value.FromMap(fields)
}

// DeleteField returns a copy of doc with the field at path removed. A
// missing field is a no-op.
func DeleteField(doc value.Value, path FieldPath) value.Value {
	mustBeDocument(doc, "DeleteField")
	if len(path) == 0 {
		panic("mutation: DeleteField with empty path")
	}
	return deleteIn(doc, path)
}

func deleteIn(doc value.Value, path FieldPath) value.Value {
	head := path[0]
	child, ok := doc.MapValue()[head]
	if !ok {
		return doc
	}
	fields := copyFields(doc)
	if len(path) == 1 {
		delete(fields, head)
	} else {
		if child.Kind() != value.KindMap {
			return doc
		}
		fields[head] = deleteIn(child, path[1:])
	}
	return value.FromMap(fields)
}

func copyFields(doc value.Value) map[string]value.Value {
	existing := doc.MapValue()
	fields := make(map[string]value.Value, len(existing)+1)
	for k, v := range existing {
		fields[k] = v
	}
	return fields
}

func mustBeDocument(doc value.Value, op string) {
	if doc.Kind() != value.KindMap {
		panic(fmt.Sprintf("mutation: %s requires a map value, got %s", op, doc.Kind()))
	}
}

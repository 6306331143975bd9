// Package mutation applies field transforms to whole documents: it
// addresses fields by path, rewrites documents copy-on-write, extracts the
// base values a rebase needs, and groups transforms into write batches.
package mutation

import (
	"fmt"
	"strings"
)

// FieldPath addresses a field inside a document, one segment per nesting
// level. Paths are immutable after construction.
type FieldPath []string

// ParseFieldPath parses a dot-separated path such as "profile.visits".
// Empty paths and empty segments are rejected.
func ParseFieldPath(path string) (FieldPath, error) {
	if path == "" {
		return nil, fmt.Errorf("field path cannot be empty")
	}
	segments := strings.Split(path, ".")
	for _, segment := range segments {
		if segment == "" {
			return nil, fmt.Errorf("field path %q contains an empty segment", path)
		}
	}
	return FieldPath(segments), nil
}

// MustFieldPath is ParseFieldPath for paths known valid at compile time;
// it panics on a malformed path.
func MustFieldPath(path string) FieldPath {
	p, err := ParseFieldPath(path)
	if err != nil {
		panic("mutation: " + err.Error())
	}
	return p
}

// String renders the dot-separated form.
func (p FieldPath) String() string {
	return strings.Join(p, ".")
}

// Equals reports segment-wise equality.
func (p FieldPath) Equals(other FieldPath) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

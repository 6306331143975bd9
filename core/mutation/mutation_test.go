package mutation

import (
	"math"
	"testing"
	"time"

	"github.com/asaidimu/go-fieldsync/core/transform"
	"github.com/asaidimu/go-fieldsync/core/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var writeTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func TestApplyTransformsToLocalView(t *testing.T) {
	base := doc(map[string]value.Value{
		"visits": value.FromInteger(2),
		"tags":   value.FromArray(value.FromString("a")),
	})
	transforms := []FieldTransform{
		{Path: MustFieldPath("visits"), Op: transform.Increment(value.FromInteger(3))},
		{Path: MustFieldPath("tags"), Op: transform.ArrayUnion(value.FromString("b"))},
		{Path: MustFieldPath("updatedAt"), Op: transform.ServerTimestamp()},
	}

	result := ApplyTransformsToLocalView(base, writeTime, transforms)

	visits, ok := GetField(result, MustFieldPath("visits"))
	require.True(t, ok)
	assert.True(t, visits.Equals(value.FromInteger(5)))

	tags, ok := GetField(result, MustFieldPath("tags"))
	require.True(t, ok)
	assert.True(t, tags.Equals(value.FromArray(value.FromString("a"), value.FromString("b"))))

	updatedAt, ok := GetField(result, MustFieldPath("updatedAt"))
	require.True(t, ok)
	assert.True(t, value.IsServerTimestamp(updatedAt))
	assert.True(t, writeTime.Equal(value.SentinelLocalWriteTime(updatedAt)))

	// The base document is untouched.
	visits, _ = GetField(base, MustFieldPath("visits"))
	assert.True(t, visits.Equals(value.FromInteger(2)))
}

func TestLaterTransformsObserveEarlierOnes(t *testing.T) {
	base := doc(nil)
	transforms := []FieldTransform{
		{Path: MustFieldPath("n"), Op: transform.Increment(value.FromInteger(1))},
		{Path: MustFieldPath("n"), Op: transform.Increment(value.FromInteger(2))},
	}

	result := ApplyTransformsToLocalView(base, writeTime, transforms)
	n, ok := GetField(result, MustFieldPath("n"))
	require.True(t, ok)
	assert.True(t, n.Equals(value.FromInteger(3)))
}

func TestApplyTransformsToRemoteDocument(t *testing.T) {
	base := doc(map[string]value.Value{
		"visits": value.FromInteger(2),
		"tags":   value.FromArray(value.FromString("a"), value.FromString("b")),
	})
	serverTime := value.FromTimestamp(writeTime.Add(time.Second))
	transforms := []FieldTransform{
		{Path: MustFieldPath("visits"), Op: transform.Increment(value.FromInteger(3))},
		{Path: MustFieldPath("tags"), Op: transform.ArrayRemove(value.FromString("a"))},
		{Path: MustFieldPath("updatedAt"), Op: transform.ServerTimestamp()},
	}
	// The server's answers, one per transform. Array transforms get null;
	// the client recomputes those.
	results := []value.Value{
		value.FromInteger(5),
		value.Null(),
		serverTime,
	}

	result := ApplyTransformsToRemoteDocument(base, transforms, results)

	visits, _ := GetField(result, MustFieldPath("visits"))
	assert.True(t, visits.Equals(value.FromInteger(5)))

	tags, _ := GetField(result, MustFieldPath("tags"))
	assert.True(t, tags.Equals(value.FromArray(value.FromString("b"))))

	updatedAt, _ := GetField(result, MustFieldPath("updatedAt"))
	assert.True(t, updatedAt.Equals(serverTime), "the server's timestamp is authoritative")
}

func TestApplyTransformsToRemoteDocumentResultCountMismatchPanics(t *testing.T) {
	base := doc(nil)
	transforms := []FieldTransform{
		{Path: MustFieldPath("n"), Op: transform.Increment(value.FromInteger(1))},
	}
	assert.Panics(t, func() {
		ApplyTransformsToRemoteDocument(base, transforms, nil)
	})
	assert.Panics(t, func() {
		ApplyTransformsToRemoteDocument(base, transforms, []value.Value{value.Null(), value.Null()})
	})
}

func TestExtractBaseValues(t *testing.T) {
	base := doc(map[string]value.Value{
		"visits": value.FromInteger(9),
		"name":   value.FromString("alice"),
	})
	transforms := []FieldTransform{
		{Path: MustFieldPath("visits"), Op: transform.Increment(value.FromInteger(1))},
		{Path: MustFieldPath("name"), Op: transform.Increment(value.FromInteger(1))},
		{Path: MustFieldPath("missing"), Op: transform.Increment(value.FromDouble(0.5))},
		{Path: MustFieldPath("tags"), Op: transform.ArrayUnion(value.FromString("a"))},
		{Path: MustFieldPath("updatedAt"), Op: transform.ServerTimestamp()},
	}

	bases := ExtractBaseValues(base, transforms)

	// Only increments contribute; idempotent transforms need no base.
	require.Len(t, bases, 3)
	assert.True(t, bases["visits"].Equals(value.FromInteger(9)))
	assert.True(t, bases["name"].Equals(value.FromInteger(0)), "non-numeric previous value falls back to integer zero")
	assert.True(t, bases["missing"].Equals(value.FromInteger(0)))
}

func TestBatchLifecycle(t *testing.T) {
	transforms := []FieldTransform{
		{Path: MustFieldPath("n"), Op: transform.Increment(value.FromInteger(math.MaxInt64))},
	}
	batch := NewBatch(transforms)
	assert.NotEqual(t, batch.ID.String(), NewBatch(transforms).ID.String())

	base := doc(map[string]value.Value{"n": value.FromInteger(5)})

	local := batch.ApplyToLocalView(base)
	n, _ := GetField(local, MustFieldPath("n"))
	assert.True(t, n.Equals(value.FromInteger(math.MaxInt64)), "integer addition saturates instead of wrapping")

	remote := batch.ApplyToRemoteDocument(base, []value.Value{value.FromInteger(123)})
	n, _ = GetField(remote, MustFieldPath("n"))
	assert.True(t, n.Equals(value.FromInteger(123)))

	bases := batch.BaseValues(base)
	assert.True(t, bases["n"].Equals(value.FromInteger(5)))
}

func TestFieldTransformStringAndEquals(t *testing.T) {
	ft := FieldTransform{Path: MustFieldPath("visits"), Op: transform.Increment(value.FromInteger(3))}
	assert.Equal(t, "visits: NumericIncrement(3)", ft.String())
	assert.True(t, ft.Equals(FieldTransform{Path: MustFieldPath("visits"), Op: transform.Increment(value.FromInteger(3))}))
	assert.False(t, ft.Equals(FieldTransform{Path: MustFieldPath("other"), Op: transform.Increment(value.FromInteger(3))}))
	assert.False(t, ft.Equals(FieldTransform{Path: MustFieldPath("visits"), Op: transform.Increment(value.FromInteger(4))}))
}

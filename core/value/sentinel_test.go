package value

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServerTimestampSentinel(t *testing.T) {
	writeTime := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	previous := FromInteger(7)

	sentinel := ServerTimestampSentinel(writeTime, &previous)

	assert.True(t, IsServerTimestamp(sentinel))
	assert.Equal(t, KindMap, sentinel.Kind(), "local readers must see a taggable estimate, not a plain timestamp")
	assert.True(t, writeTime.Equal(SentinelLocalWriteTime(sentinel)))

	got := SentinelPreviousValue(sentinel)
	require.NotNil(t, got)
	assert.True(t, got.Equals(previous))
}

func TestServerTimestampSentinelWithoutPrevious(t *testing.T) {
	sentinel := ServerTimestampSentinel(time.Now(), nil)
	assert.True(t, IsServerTimestamp(sentinel))
	assert.Nil(t, SentinelPreviousValue(sentinel))
}

func TestSentinelChainUnwrapsToFirstConcreteValue(t *testing.T) {
	t0 := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Second)

	concrete := FromString("original")
	first := ServerTimestampSentinel(t0, &concrete)
	second := ServerTimestampSentinel(t1, &first)

	assert.True(t, t1.Equal(SentinelLocalWriteTime(second)))
	got := SentinelPreviousValue(second)
	require.NotNil(t, got)
	assert.True(t, got.Equals(concrete))
}

func TestIsServerTimestampRejectsOtherValues(t *testing.T) {
	tests := []struct {
		name  string
		value Value
	}{
		{"null", Null()},
		{"timestamp", FromTimestamp(time.Now())},
		{"plain_map", FromMap(map[string]Value{"a": FromInteger(1)})},
		{"map_with_wrong_tag", FromMap(map[string]Value{"__type__": FromString("other")})},
		{"map_with_non_string_tag", FromMap(map[string]Value{"__type__": FromInteger(1)})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, IsServerTimestamp(tt.value))
		})
	}
}

func TestSentinelAccessorsPanicOnNonSentinel(t *testing.T) {
	assert.Panics(t, func() { SentinelLocalWriteTime(FromInteger(1)) })
	assert.Panics(t, func() { SentinelPreviousValue(Null()) })
}

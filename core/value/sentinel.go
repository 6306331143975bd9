package value

import (
	"fmt"
	"time"
)

// A pending server timestamp is surfaced to local readers as a map value
// with a reserved shape, so the snapshot layer can tell an estimate apart
// from a committed timestamp. The keys are reserved and never collide with
// user data because user field names cannot start and end with "__".
const (
	sentinelTypeKey      = "__type__"
	sentinelTypeValue    = "server_timestamp"
	sentinelWriteTimeKey = "__local_write_time__"
	sentinelPreviousKey  = "__previous_value__"
)

// ServerTimestampSentinel builds the local-view placeholder for a pending
// server timestamp: it records the local write time as the estimate and
// carries the previous field value, if any, for readers that prefer it.
func ServerTimestampSentinel(localWriteTime time.Time, previous *Value) Value {
	fields := map[string]Value{
		sentinelTypeKey:      FromString(sentinelTypeValue),
		sentinelWriteTimeKey: FromTimestamp(localWriteTime),
	}
	if previous != nil {
		fields[sentinelPreviousKey] = *previous
	}
	return FromMap(fields)
}

// IsServerTimestamp reports whether v is a pending-server-timestamp
// placeholder produced by ServerTimestampSentinel.
func IsServerTimestamp(v Value) bool {
	if v.Kind() != KindMap {
		return false
	}
	tag, ok := v.fields[sentinelTypeKey]
	return ok && tag.Kind() == KindString && tag.str == sentinelTypeValue
}

// SentinelLocalWriteTime returns the local write time recorded in a
// pending-server-timestamp placeholder. Calling it on any other value is a
// programming error.
func SentinelLocalWriteTime(v Value) time.Time {
	if !IsServerTimestamp(v) {
		panic(fmt.Sprintf("value: SentinelLocalWriteTime called on non-sentinel value %s", v))
	}
	return v.fields[sentinelWriteTimeKey].TimestampValue()
}

// SentinelPreviousValue returns the last concrete value the field held
// before any pending server timestamps were layered on top, unwrapping
// chained placeholders. It returns nil when the field had no previous
// value. Calling it on a non-sentinel value is a programming error.
func SentinelPreviousValue(v Value) *Value {
	if !IsServerTimestamp(v) {
		panic(fmt.Sprintf("value: SentinelPreviousValue called on non-sentinel value %s", v))
	}
	previous, ok := v.fields[sentinelPreviousKey]
	if !ok {
		return nil
	}
	if IsServerTimestamp(previous) {
		return SentinelPreviousValue(previous)
	}
	return &previous
}

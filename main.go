package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/asaidimu/go-fieldsync/core/localstore"
	"github.com/asaidimu/go-fieldsync/core/mutation"
	"github.com/asaidimu/go-fieldsync/core/transform"
	"github.com/asaidimu/go-fieldsync/core/value"
)

func main() {
	// The committed document, as last seen from the server.
	committed, err := value.FromGoValue(map[string]any{
		"name":   "alice",
		"visits": int64(41),
		"tags":   []any{"early-adopter"},
	})
	if err != nil {
		log.Fatalf("Failed to build document: %v", err)
	}
	fmt.Printf("Committed document: %s\n", committed)

	queue, err := localstore.NewWriteQueue(nil)
	if err != nil {
		log.Fatalf("Failed to create write queue: %v", err)
	}

	queue.RegisterSubscription(localstore.RegisterSubscriptionOptions{
		Event: localstore.WriteAcknowledged,
		Callback: func(ctx context.Context, event localstore.WriteEvent) error {
			fmt.Printf("Batch %s acknowledged, %d still pending\n", event.BatchID, event.Pending)
			return nil
		},
	})

	// Record a write: bump the visit counter, tag the user, and stamp the
	// time of the visit. None of these values is known until the server
	// commits, but local readers should see a best-effort view right away.
	batch, err := queue.Enqueue([]mutation.FieldTransform{
		{Path: mutation.MustFieldPath("visits"), Op: transform.Increment(value.FromInteger(1))},
		{Path: mutation.MustFieldPath("tags"), Op: transform.ArrayUnion(value.FromString("active"))},
		{Path: mutation.MustFieldPath("lastSeen"), Op: transform.ServerTimestamp()},
	})
	if err != nil {
		log.Fatalf("Failed to enqueue batch: %v", err)
	}

	optimistic := queue.LocalView(committed)
	fmt.Printf("Optimistic local view: %s\n", optimistic)

	lastSeen, _ := mutation.GetField(optimistic, mutation.MustFieldPath("lastSeen"))
	if value.IsServerTimestamp(lastSeen) {
		fmt.Printf("lastSeen is still an estimate (local write time %s)\n",
			value.SentinelLocalWriteTime(lastSeen))
	}

	// The server commits and reports its authoritative results, one per
	// transform. Array transforms get no materialized result.
	serverResults := []value.Value{
		value.FromInteger(42),
		value.Null(),
		value.FromTimestamp(batch.LocalWriteTime.Add(50 * time.Millisecond)),
	}
	committed, err = queue.Acknowledge(batch.ID, committed, serverResults)
	if err != nil {
		log.Fatalf("Failed to acknowledge batch: %v", err)
	}
	fmt.Printf("Committed document after ack: %s\n", committed)
}

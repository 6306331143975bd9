// Package localstore tracks the client's pending writes: batches of field
// transforms that have been applied optimistically but not yet committed by
// the server. It computes the overlaid local view of a document, reconciles
// batches against server results on acknowledgment, and emits lifecycle
// events for observability.
package localstore

import (
	"fmt"
	"sync"
	"time"

	"github.com/asaidimu/go-events"
	"github.com/asaidimu/go-fieldsync/core/mutation"
	"github.com/asaidimu/go-fieldsync/core/value"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// WriteQueue is the in-memory, ordered set of batches awaiting server
// acknowledgment. All methods are safe for concurrent use.
type WriteQueue struct {
	mu            sync.RWMutex
	batches       []*mutation.Batch
	logger        *zap.Logger
	bus           *events.TypedEventBus[WriteEvent]
	subscriptions map[string]*SubscriptionInfo
}

// NewWriteQueue creates an empty queue. A nil logger disables logging.
func NewWriteQueue(logger *zap.Logger) (*WriteQueue, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	bus, err := events.NewTypedEventBus[WriteEvent](events.DefaultConfig())
	if err != nil {
		return nil, fmt.Errorf("could not initialize event bus: %w", err)
	}
	return &WriteQueue{
		logger:        logger,
		bus:           bus,
		subscriptions: make(map[string]*SubscriptionInfo),
	}, nil
}

// Enqueue records a new batch of field transforms as pending and returns
// it. At least one transform is required.
func (q *WriteQueue) Enqueue(transforms []mutation.FieldTransform) (*mutation.Batch, error) {
	if len(transforms) == 0 {
		return nil, fmt.Errorf("cannot enqueue a batch with no transforms")
	}
	batch := mutation.NewBatch(transforms)

	q.mu.Lock()
	q.batches = append(q.batches, batch)
	pending := len(q.batches)
	q.mu.Unlock()

	q.logger.Debug("Enqueued write batch",
		zap.String("batchId", batch.ID.String()),
		zap.Int("transforms", len(transforms)),
		zap.Int("pending", pending))
	q.emit(WriteEvent{Type: WriteEnqueued, BatchID: batch.ID, Pending: pending, Timestamp: time.Now()})
	return batch, nil
}

// Acknowledge reconciles a committed batch: it applies the server's
// transform results against base, removes the batch from the queue, and
// returns the authoritative document. An unknown batch ID is a recoverable
// error; a result-count mismatch is a programming error and panics.
func (q *WriteQueue) Acknowledge(id uuid.UUID, base value.Value, results []value.Value) (value.Value, error) {
	q.mu.Lock()
	batch, index := q.findLocked(id)
	if batch == nil {
		q.mu.Unlock()
		return value.Value{}, fmt.Errorf("no pending batch with id %s", id)
	}
	q.batches = append(q.batches[:index], q.batches[index+1:]...)
	pending := len(q.batches)
	q.mu.Unlock()

	doc := batch.ApplyToRemoteDocument(base, results)
	q.logger.Debug("Acknowledged write batch",
		zap.String("batchId", id.String()),
		zap.Int("pending", pending))
	q.emit(WriteEvent{Type: WriteAcknowledged, BatchID: id, Pending: pending, Timestamp: time.Now()})
	return doc, nil
}

// Reject drops a batch the server refused to commit. The local view
// computed afterwards no longer includes its effects.
func (q *WriteQueue) Reject(id uuid.UUID, cause error) error {
	q.mu.Lock()
	batch, index := q.findLocked(id)
	if batch == nil {
		q.mu.Unlock()
		return fmt.Errorf("no pending batch with id %s", id)
	}
	q.batches = append(q.batches[:index], q.batches[index+1:]...)
	pending := len(q.batches)
	q.mu.Unlock()

	var errStr *string
	if cause != nil {
		s := cause.Error()
		errStr = &s
	}
	q.logger.Warn("Rejected write batch",
		zap.String("batchId", id.String()),
		zap.Error(cause))
	q.emit(WriteEvent{Type: WriteRejected, BatchID: id, Pending: pending, Timestamp: time.Now(), Error: errStr})
	return nil
}

// LocalView overlays every pending batch onto base, in enqueue order, and
// returns the optimistic document local readers should see.
func (q *WriteQueue) LocalView(base value.Value) value.Value {
	q.mu.RLock()
	batches := make([]*mutation.Batch, len(q.batches))
	copy(batches, q.batches)
	q.mu.RUnlock()

	doc := base
	for _, batch := range batches {
		doc = batch.ApplyToLocalView(doc)
	}
	return doc
}

// PendingCount returns the number of batches awaiting acknowledgment.
func (q *WriteQueue) PendingCount() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return len(q.batches)
}

// findLocked locates a batch by ID. Callers must hold q.mu.
func (q *WriteQueue) findLocked(id uuid.UUID) (*mutation.Batch, int) {
	for i, batch := range q.batches {
		if batch.ID == id {
			return batch, i
		}
	}
	return nil, -1
}

func (q *WriteQueue) emit(event WriteEvent) {
	if q.bus != nil {
		q.bus.Emit(string(event.Type), event)
	}
}

// RegisterSubscription subscribes a callback to a write event type and
// returns an ID for later unregistration.
func (q *WriteQueue) RegisterSubscription(options RegisterSubscriptionOptions) string {
	q.mu.Lock()
	defer q.mu.Unlock()
	unsubscribe := q.bus.Subscribe(string(options.Event), options.Callback)
	callbackID := uuid.New().String()
	q.subscriptions[callbackID] = &SubscriptionInfo{
		Event:       options.Event,
		Label:       options.Label,
		Description: options.Description,
		Unsubscribe: unsubscribe,
	}
	return callbackID
}

// UnregisterSubscription removes a previously registered subscription.
func (q *WriteQueue) UnregisterSubscription(id string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	info := q.subscriptions[id]
	if info != nil {
		info.Unsubscribe()
		delete(q.subscriptions, id)
	}
}

package localstore

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// WriteEventType enumerates the lifecycle events a write queue emits.
type WriteEventType string

const (
	WriteEnqueued     WriteEventType = "write:enqueued"     // A batch entered the queue
	WriteAcknowledged WriteEventType = "write:acknowledged" // The server committed a batch
	WriteRejected     WriteEventType = "write:rejected"     // The server rejected a batch
)

// WriteEvent describes one write lifecycle transition.
type WriteEvent struct {
	Type      WriteEventType `json:"type"`
	BatchID   uuid.UUID      `json:"batchId"`
	Pending   int            `json:"pending"` // Queue depth after the transition
	Timestamp time.Time      `json:"timestamp"`
	Error     *string        `json:"error,omitempty"` // Rejection cause, if any
}

// EventCallbackFunction handles a write event delivered by the bus.
type EventCallbackFunction func(ctx context.Context, event WriteEvent) error

// RegisterSubscriptionOptions configures a write event subscription.
type RegisterSubscriptionOptions struct {
	Event       WriteEventType `json:"event"`
	Label       *string        `json:"label,omitempty"`
	Description *string        `json:"description,omitempty"`
	Callback    EventCallbackFunction
}

// SubscriptionInfo describes a registered subscription.
type SubscriptionInfo struct {
	Event       WriteEventType `json:"event"`
	Label       *string        `json:"label,omitempty"`
	Description *string        `json:"description,omitempty"`
	Unsubscribe func()
}

package mutation

import (
	"time"

	"github.com/asaidimu/go-fieldsync/core/value"
	"github.com/google/uuid"
)

// Batch groups the field transforms of a single logical write. A batch is
// stamped with a client-local write time when created and keeps it for the
// batch's whole lifetime, so every server timestamp inside the batch
// resolves to the same estimate locally.
type Batch struct {
	ID             uuid.UUID
	LocalWriteTime time.Time
	Transforms     []FieldTransform
}

// NewBatch creates a batch over the given transforms, stamping a fresh ID
// and the current wall-clock time. The transforms slice is copied.
func NewBatch(transforms []FieldTransform) *Batch {
	copied := make([]FieldTransform, len(transforms))
	copy(copied, transforms)
	return &Batch{
		ID:             uuid.New(),
		LocalWriteTime: time.Now(),
		Transforms:     copied,
	}
}

// ApplyToLocalView overlays the batch's optimistic results onto doc.
func (b *Batch) ApplyToLocalView(doc value.Value) value.Value {
	return ApplyTransformsToLocalView(doc, b.LocalWriteTime, b.Transforms)
}

// ApplyToRemoteDocument overlays the server's authoritative results onto
// doc, one result per transform in order.
func (b *Batch) ApplyToRemoteDocument(doc value.Value, results []value.Value) value.Value {
	return ApplyTransformsToRemoteDocument(doc, b.Transforms, results)
}

// BaseValues returns the rebase base values for the batch against doc.
func (b *Batch) BaseValues(doc value.Value) map[string]value.Value {
	return ExtractBaseValues(doc, b.Transforms)
}

package interfaces

import (
	"context"

	"github.com/syokota-cyber/study-tracker/pkg/model"
)

// RecordStore defines the interface for study record persistence. A lookup miss
// is not an error: Get returns nil and Update/Delete return false.
type RecordStore interface {
	// Insert stores a new record and returns its assigned ID
	Insert(ctx context.Context, input *model.RecordInput) (model.RecordID, error)

	// Get retrieves a record by ID
	Get(ctx context.Context, id model.RecordID) (*model.Record, error)

	// ScanAll retrieves every record ordered by created_at descending
	ScanAll(ctx context.Context) ([]*model.Record, error)

	// Update applies a partial update and refreshes updated_at
	Update(ctx context.Context, id model.RecordID, update *model.RecordUpdate) (bool, error)

	// Delete removes a record
	Delete(ctx context.Context, id model.RecordID) (bool, error)

	// Close releases the underlying connection
	Close() error
}

package repository

import (
	"context"

	"docregistry/internal/model"
)

// SnapshotStore persists the full ordered document collection as one
// consistent snapshot. There is no incremental update primitive: every
// mutation is load-modify-save, performed by the service layer.
type SnapshotStore interface {
	// Load returns the complete snapshot in persisted order.
	// A missing or malformed backing store yields an empty slice, not an
	// error: corruption must never block the application from starting.
	Load(ctx context.Context) ([]model.Document, error)

	// Save atomically replaces the persisted snapshot. Readers never
	// observe a partially written state. Creates the backing store on
	// first use.
	Save(ctx context.Context, docs []model.Document) error
}

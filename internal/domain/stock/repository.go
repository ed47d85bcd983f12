package stock

import (
	"context"

	"doceria/internal/core/id"
	"doceria/internal/core/types"
	"doceria/internal/domain"
)

// BatchFilter narrows batch listings.
type BatchFilter struct {
	domain.ListFilter
	MaterialID *id.ID
}

// WriteoffFilter narrows write-off listings.
type WriteoffFilter struct {
	domain.ListFilter
	BatchID           *id.ID
	MaterialID        *id.ID
	ProductionOrderID *id.ID
}

// Repository persists batches and the write-off log.
type Repository interface {
	CreateBatch(ctx context.Context, b *Batch) error
	GetBatch(ctx context.Context, batchID id.ID) (*Batch, error)
	UpdateBatch(ctx context.Context, b *Batch) error
	DeleteBatch(ctx context.Context, batchID id.ID) error
	ListBatches(ctx context.Context, filter BatchFilter) ([]*Batch, error)

	// BatchesForUpdate returns the batches of a material oldest-first
	// with their remaining quantity computed from the write-off log,
	// locking the rows for the duration of the transaction. Must be
	// called inside a transaction.
	BatchesForUpdate(ctx context.Context, materialID id.ID) ([]BatchRemainder, error)

	// RebuildBatchProjection recomputes current_qty of a batch as
	// GREATEST(0, initial_qty - sum of its write-offs).
	RebuildBatchProjection(ctx context.Context, batchID id.ID) error

	CreateWriteoff(ctx context.Context, w *Writeoff) error
	CreateWriteoffs(ctx context.Context, ws []Writeoff) error
	GetWriteoff(ctx context.Context, writeoffID id.ID) (*Writeoff, error)
	DeleteWriteoff(ctx context.Context, writeoffID id.ID) error
	ListWriteoffs(ctx context.Context, filter WriteoffFilter) ([]Writeoff, error)

	// SumWriteoffsByMaterial totals the log entries whose batch belongs
	// to the material.
	SumWriteoffsByMaterial(ctx context.Context, materialID id.ID) (types.Quantity, error)

	// ListBatchUnitPrices returns the non-null unit prices of a
	// material's batches.
	ListBatchUnitPrices(ctx context.Context, materialID id.ID) ([]types.Money, error)

	// SetMaterialAvgPrice stores the computed average unit price on the
	// material record.
	SetMaterialAvgPrice(ctx context.Context, materialID id.ID, price types.Money) error

	// MaterialIDs lists every material in the catalog, so bulk level
	// computation reports a zero-valued entry for materials without
	// batches.
	MaterialIDs(ctx context.Context) ([]id.ID, error)
}

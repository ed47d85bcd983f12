// Package stock implements raw-material stock accounting: purchase
// batches, the append-only write-off log and the levels derived from it.
package stock

import (
	"context"
	"time"

	"doceria/internal/core/apperror"
	"doceria/internal/core/entity"
	"doceria/internal/core/id"
	"doceria/internal/core/types"
)

// Batch is a purchase batch of a raw material. InitialQty is fixed at
// creation; CurrentQty is a projection rebuilt from the write-off log
// and must never be written directly by callers.
type Batch struct {
	entity.Base

	MaterialID id.ID           `db:"material_id" json:"materialId"`
	InitialQty types.Quantity  `db:"initial_qty" json:"initialQty"`
	CurrentQty types.Quantity  `db:"current_qty" json:"currentQty"`
	ExpiresAt  *time.Time      `db:"expires_at" json:"expiresAt,omitempty"`
	TotalCost  *types.Money    `db:"total_cost" json:"totalCost,omitempty"`
	UnitPrice  *types.Money    `db:"unit_price" json:"unitPrice,omitempty"`
}

// NewBatch creates a batch with the current quantity primed from the
// initial one.
func NewBatch(materialID id.ID, initial types.Quantity) *Batch {
	return &Batch{
		Base:       entity.NewBase(),
		MaterialID: materialID,
		InitialQty: initial,
		CurrentQty: initial,
	}
}

func (b *Batch) Validate(_ context.Context) error {
	if id.IsNil(b.MaterialID) {
		return apperror.NewValidation("material is required", map[string]any{"field": "materialId"})
	}
	if b.InitialQty.IsNegative() {
		return apperror.NewValidation("initial quantity cannot be negative", map[string]any{"field": "initialQty"})
	}
	if b.UnitPrice != nil && b.UnitPrice.IsNegative() {
		return apperror.NewValidation("unit price cannot be negative", map[string]any{"field": "unitPrice"})
	}
	if b.TotalCost != nil && b.TotalCost.IsNegative() {
		return apperror.NewValidation("total cost cannot be negative", map[string]any{"field": "totalCost"})
	}
	return nil
}

// Remaining reports the undeducted quantity of the batch.
func (b *Batch) Remaining() types.Quantity {
	if b.CurrentQty.IsNegative() {
		return 0
	}
	return b.CurrentQty
}

// Reason classifies a stock write-off.
type Reason string

const (
	ReasonWaste      Reason = "waste"
	ReasonExpiration Reason = "expiration"
	ReasonDamage     Reason = "damage"
	ReasonTheft      Reason = "theft"
	ReasonProduction Reason = "production"
	ReasonOther      Reason = "other"
)

func (r Reason) Valid() bool {
	switch r {
	case ReasonWaste, ReasonExpiration, ReasonDamage, ReasonTheft, ReasonProduction, ReasonOther:
		return true
	}
	return false
}

// Writeoff is one append-only deduction record against a batch. The
// write-off log is the source of truth for stock levels; batch
// current quantities are projections over it.
type Writeoff struct {
	ID                id.ID          `db:"id" json:"id"`
	BatchID           id.ID          `db:"batch_id" json:"batchId"`
	Quantity          types.Quantity `db:"quantity" json:"quantity"`
	Reason            Reason         `db:"reason" json:"reason"`
	Note              string         `db:"note" json:"note,omitempty"`
	WrittenOffAt      time.Time      `db:"written_off_at" json:"writtenOffAt"`
	ProductionOrderID *id.ID         `db:"production_order_id" json:"productionOrderId,omitempty"`
	CreatedAt         time.Time      `db:"created_at" json:"createdAt"`
}

// NewWriteoff creates a write-off timestamped now.
func NewWriteoff(batchID id.ID, qty types.Quantity, reason Reason) *Writeoff {
	now := time.Now()
	return &Writeoff{
		ID:           id.New(),
		BatchID:      batchID,
		Quantity:     qty,
		Reason:       reason,
		WrittenOffAt: now,
		CreatedAt:    now,
	}
}

func (w *Writeoff) Validate(_ context.Context) error {
	if id.IsNil(w.BatchID) {
		return apperror.NewValidation("batch is required", map[string]any{"field": "batchId"})
	}
	if !w.Quantity.IsPositive() {
		return apperror.NewValidation("quantity must be positive", map[string]any{"field": "quantity"})
	}
	if !w.Reason.Valid() {
		return apperror.NewValidation("invalid write-off reason", map[string]any{"field": "reason", "value": string(w.Reason)})
	}
	return nil
}

// Level is the computed stock position of one material.
type Level struct {
	MaterialID      id.ID          `json:"materialId"`
	InitialTotal    types.Quantity `json:"initialTotal"`
	WrittenOffTotal types.Quantity `json:"writtenOffTotal"`
	Current         types.Quantity `json:"current"`
}

// NewLevel derives a level, clamping the current quantity at zero so
// historical over-deductions never surface as negative stock.
func NewLevel(materialID id.ID, initial, writtenOff types.Quantity) Level {
	current := initial - writtenOff
	if current.IsNegative() {
		current = 0
	}
	return Level{
		MaterialID:      materialID,
		InitialTotal:    initial,
		WrittenOffTotal: writtenOff,
		Current:         current,
	}
}

// BatchRemainder is a batch reference with its undeducted quantity,
// used while planning FIFO deductions.
type BatchRemainder struct {
	BatchID   id.ID          `db:"id"`
	Remaining types.Quantity `db:"remaining"`
}

// Allocation is a planned deduction against one batch.
type Allocation struct {
	BatchID  id.ID
	Quantity types.Quantity
}

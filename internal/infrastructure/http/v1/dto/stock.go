package dto

import (
	"time"

	"doceria/internal/core/types"
	"doceria/internal/domain/stock"
)

// --- Batches ---

// CreateBatchRequest is the request body for registering a purchase batch.
type CreateBatchRequest struct {
	MaterialID string         `json:"materialId" binding:"required,uuid"`
	InitialQty types.Quantity `json:"initialQty" binding:"required"`
	ExpiresAt  *time.Time     `json:"expiresAt"`
	TotalCost  *types.Money   `json:"totalCost"`
	UnitPrice  *types.Money   `json:"unitPrice"`
}

// UpdateBatchRequest is the request body for updating a batch. The
// material and the initial quantity are immutable and must match the
// stored values.
type UpdateBatchRequest struct {
	MaterialID string         `json:"materialId" binding:"required,uuid"`
	InitialQty types.Quantity `json:"initialQty" binding:"required"`
	ExpiresAt  *time.Time     `json:"expiresAt"`
	TotalCost  *types.Money   `json:"totalCost"`
	UnitPrice  *types.Money   `json:"unitPrice"`
	Version    int            `json:"version" binding:"required,min=1"`
}

// BatchResponse is the response body for a batch.
type BatchResponse struct {
	ID         string         `json:"id"`
	MaterialID string         `json:"materialId"`
	InitialQty types.Quantity `json:"initialQty"`
	CurrentQty types.Quantity `json:"currentQty"`
	ExpiresAt  *time.Time     `json:"expiresAt,omitempty"`
	TotalCost  *types.Money   `json:"totalCost,omitempty"`
	UnitPrice  *types.Money   `json:"unitPrice,omitempty"`
	Version    int            `json:"version"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
}

// FromBatch creates response DTO from domain entity.
func FromBatch(b *stock.Batch) *BatchResponse {
	return &BatchResponse{
		ID:         b.ID.String(),
		MaterialID: b.MaterialID.String(),
		InitialQty: b.InitialQty,
		CurrentQty: b.CurrentQty,
		ExpiresAt:  b.ExpiresAt,
		TotalCost:  b.TotalCost,
		UnitPrice:  b.UnitPrice,
		Version:    b.Version,
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
	}
}

// --- Write-offs ---

// CreateWriteoffRequest is the request body for a manual write-off.
type CreateWriteoffRequest struct {
	BatchID      string         `json:"batchId" binding:"required,uuid"`
	Quantity     types.Quantity `json:"quantity" binding:"required"`
	Reason       stock.Reason   `json:"reason" binding:"required"`
	Note         string         `json:"note"`
	WrittenOffAt *time.Time     `json:"writtenOffAt"`
}

// WriteoffResponse is the response body for a write-off.
type WriteoffResponse struct {
	ID                string         `json:"id"`
	BatchID           string         `json:"batchId"`
	Quantity          types.Quantity `json:"quantity"`
	Reason            stock.Reason   `json:"reason"`
	Note              string         `json:"note,omitempty"`
	WrittenOffAt      time.Time      `json:"writtenOffAt"`
	ProductionOrderID *string        `json:"productionOrderId,omitempty"`
	CreatedAt         time.Time      `json:"createdAt"`
}

// FromWriteoff creates response DTO from domain entity.
func FromWriteoff(w *stock.Writeoff) *WriteoffResponse {
	resp := &WriteoffResponse{
		ID:           w.ID.String(),
		BatchID:      w.BatchID.String(),
		Quantity:     w.Quantity,
		Reason:       w.Reason,
		Note:         w.Note,
		WrittenOffAt: w.WrittenOffAt,
		CreatedAt:    w.CreatedAt,
	}
	if w.ProductionOrderID != nil {
		s := w.ProductionOrderID.String()
		resp.ProductionOrderID = &s
	}
	return resp
}

// --- Levels ---

// StockLevelResponse is the computed stock position of a material.
type StockLevelResponse struct {
	MaterialID      string         `json:"materialId"`
	InitialTotal    types.Quantity `json:"initialTotal"`
	WrittenOffTotal types.Quantity `json:"writtenOffTotal"`
	Current         types.Quantity `json:"current"`
}

// FromLevel creates response DTO from the computed level.
func FromLevel(l stock.Level) StockLevelResponse {
	return StockLevelResponse{
		MaterialID:      l.MaterialID.String(),
		InitialTotal:    l.InitialTotal,
		WrittenOffTotal: l.WrittenOffTotal,
		Current:         l.Current,
	}
}

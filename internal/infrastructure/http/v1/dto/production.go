package dto

import (
	"time"

	"doceria/internal/core/types"
	"doceria/internal/domain/production"
)

// CreateOrderRequest is the request body for creating a production order.
type CreateOrderRequest struct {
	ProductID string         `json:"productId" binding:"required,uuid"`
	Quantity  types.Quantity `json:"quantity" binding:"required"`
	Notes     string         `json:"notes"`
}

// UpdateOrderRequest is the request body for updating a production order.
type UpdateOrderRequest struct {
	Quantity types.Quantity `json:"quantity" binding:"required"`
	Notes    string         `json:"notes"`
	Version  int            `json:"version" binding:"required,min=1"`
}

// ValidateStockRequest asks whether stock covers a planned run.
type ValidateStockRequest struct {
	ProductID string         `json:"productId" binding:"required,uuid"`
	Quantity  types.Quantity `json:"quantity" binding:"required"`
}

// OrderResponse is the response body for a production order.
type OrderResponse struct {
	ID          string            `json:"id"`
	Number      string            `json:"number"`
	ProductID   string            `json:"productId"`
	Status      production.Status `json:"status"`
	Quantity    types.Quantity    `json:"quantity"`
	Notes       string            `json:"notes,omitempty"`
	StartedAt   *time.Time        `json:"startedAt,omitempty"`
	CompletedAt *time.Time        `json:"completedAt,omitempty"`
	Version     int               `json:"version"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// FromOrder creates response DTO from domain entity.
func FromOrder(o *production.Order) *OrderResponse {
	return &OrderResponse{
		ID:          o.ID.String(),
		Number:      o.Number,
		ProductID:   o.ProductID.String(),
		Status:      o.Status,
		Quantity:    o.Quantity,
		Notes:       o.Notes,
		StartedAt:   o.StartedAt,
		CompletedAt: o.CompletedAt,
		Version:     o.Version,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}

// RequirementResponse is one material requirement line.
type RequirementResponse struct {
	MaterialID   string         `json:"materialId"`
	MaterialName string         `json:"materialName"`
	Required     types.Quantity `json:"required"`
	Available    types.Quantity `json:"available"`
}

func fromRequirement(r production.Requirement) RequirementResponse {
	return RequirementResponse{
		MaterialID:   r.MaterialID.String(),
		MaterialName: r.MaterialName,
		Required:     r.Required,
		Available:    r.Available,
	}
}

// ValidationResultResponse reports a stock validation outcome.
type ValidationResultResponse struct {
	Valid        bool                  `json:"valid"`
	Message      string                `json:"message,omitempty"`
	Shortfall    *RequirementResponse  `json:"shortfall,omitempty"`
	Requirements []RequirementResponse `json:"requirements,omitempty"`
}

// FromValidationResult creates response DTO from the domain result.
func FromValidationResult(vr production.ValidationResult) ValidationResultResponse {
	resp := ValidationResultResponse{
		Valid:   vr.Valid,
		Message: vr.Message,
	}
	if vr.Shortfall != nil {
		s := fromRequirement(*vr.Shortfall)
		resp.Shortfall = &s
	}
	for _, r := range vr.Requirements {
		resp.Requirements = append(resp.Requirements, fromRequirement(r))
	}
	return resp
}

// DeductionResultResponse reports a deduction outcome.
type DeductionResultResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Package production implements production orders and the stock
// validation and FIFO deduction that accompany them.
package production

import (
	"context"
	"time"

	"doceria/internal/core/apperror"
	"doceria/internal/core/entity"
	"doceria/internal/core/id"
	"doceria/internal/core/types"
)

// Status of a production order.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Order is a production order. Quantity counts recipe preparations:
// producing quantity N consumes N times each recipe's ingredient
// amounts.
type Order struct {
	entity.Base

	Number      string         `db:"number" json:"number"`
	ProductID   id.ID          `db:"product_id" json:"productId"`
	Status      Status         `db:"status" json:"status"`
	Quantity    types.Quantity `db:"quantity" json:"quantity"`
	Notes       string         `db:"notes" json:"notes,omitempty"`
	StartedAt   *time.Time     `db:"started_at" json:"startedAt,omitempty"`
	CompletedAt *time.Time     `db:"completed_at" json:"completedAt,omitempty"`
}

func NewOrder(productID id.ID, qty types.Quantity) *Order {
	return &Order{
		Base:      entity.NewBase(),
		ProductID: productID,
		Status:    StatusPending,
		Quantity:  qty,
	}
}

func (o *Order) Validate(_ context.Context) error {
	if id.IsNil(o.ProductID) {
		return apperror.NewValidation("product is required", map[string]any{"field": "productId"})
	}
	if !o.Quantity.IsPositive() {
		return apperror.NewValidation("quantity must be positive", map[string]any{"field": "quantity"})
	}
	if !o.Status.Valid() {
		return apperror.NewValidation("invalid status", map[string]any{"field": "status", "value": string(o.Status)})
	}
	return nil
}

// Requirement is one material amount needed for a production run.
type Requirement struct {
	MaterialID   id.ID          `json:"materialId"`
	MaterialName string         `json:"materialName"`
	Required     types.Quantity `json:"required"`
	Available    types.Quantity `json:"available"`
}

// ValidationResult reports whether stock covers a production run.
// Insufficiency is a normal outcome, not an error.
type ValidationResult struct {
	Valid        bool          `json:"valid"`
	Message      string        `json:"message,omitempty"`
	Shortfall    *Requirement  `json:"shortfall,omitempty"`
	Requirements []Requirement `json:"requirements,omitempty"`
}

// DeductionResult reports the outcome of a deduction attempt. A failed
// deduction leaves stock untouched.
type DeductionResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

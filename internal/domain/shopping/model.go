// Package shopping implements purchase planning lists and their cost
// estimates.
package shopping

import (
	"context"
	"time"

	"doceria/internal/core/apperror"
	"doceria/internal/core/entity"
	"doceria/internal/core/id"
	"doceria/internal/core/types"
)

// List is a shopping list for a planned purchase run.
type List struct {
	entity.Base

	Number   string     `db:"number" json:"number"`
	Name     string     `db:"name" json:"name"`
	ListDate *time.Time `db:"list_date" json:"listDate,omitempty"`
	Notes    string     `db:"notes" json:"notes,omitempty"`

	// Items is loaded on demand.
	Items []ItemWithMaterial `db:"-" json:"items,omitempty"`
}

func NewList(name string) *List {
	return &List{Base: entity.NewBase(), Name: name}
}

func (l *List) Validate(_ context.Context) error {
	if l.Name == "" {
		return apperror.NewValidation("name is required", map[string]any{"field": "name"})
	}
	return nil
}

// Item is one material line on a shopping list.
type Item struct {
	ID         id.ID          `db:"id" json:"id"`
	ListID     id.ID          `db:"list_id" json:"listId"`
	MaterialID id.ID          `db:"material_id" json:"materialId"`
	Quantity   types.Quantity `db:"quantity" json:"quantity"`
	Purchased  bool           `db:"purchased" json:"purchased"`
	CreatedAt  time.Time      `db:"created_at" json:"createdAt"`
}

func NewItem(listID, materialID id.ID, qty types.Quantity) *Item {
	return &Item{
		ID:         id.New(),
		ListID:     listID,
		MaterialID: materialID,
		Quantity:   qty,
		CreatedAt:  time.Now(),
	}
}

func (i *Item) Validate(_ context.Context) error {
	if id.IsNil(i.ListID) {
		return apperror.NewValidation("list is required", map[string]any{"field": "listId"})
	}
	if id.IsNil(i.MaterialID) {
		return apperror.NewValidation("material is required", map[string]any{"field": "materialId"})
	}
	if !i.Quantity.IsPositive() {
		return apperror.NewValidation("quantity must be positive", map[string]any{"field": "quantity"})
	}
	return nil
}

// ItemWithMaterial joins an item with its material fields for display
// and cost estimation.
type ItemWithMaterial struct {
	Item

	MaterialName     string       `db:"material_name" json:"materialName"`
	MaterialUnit     string       `db:"material_unit" json:"materialUnit"`
	MaterialAvgPrice *types.Money `db:"material_avg_price" json:"materialAvgPrice,omitempty"`
}

// ListWithTotal pairs a list with its estimated cost. Items whose
// material has no average price contribute zero to the estimate.
type ListWithTotal struct {
	List
	ItemCount     int         `json:"itemCount"`
	EstimatedCost types.Money `json:"estimatedCost"`
}

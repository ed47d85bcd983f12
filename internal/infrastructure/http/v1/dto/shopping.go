package dto

import (
	"time"

	"doceria/internal/core/types"
	"doceria/internal/domain/shopping"
)

// CreateShoppingListRequest is the request body for creating a list.
type CreateShoppingListRequest struct {
	Name     string     `json:"name" binding:"required"`
	ListDate *time.Time `json:"listDate"`
	Notes    string     `json:"notes"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateShoppingListRequest) ToEntity() *shopping.List {
	l := shopping.NewList(r.Name)
	l.ListDate = r.ListDate
	l.Notes = r.Notes
	return l
}

// UpdateShoppingListRequest is the request body for updating a list.
type UpdateShoppingListRequest struct {
	Name     string     `json:"name" binding:"required"`
	ListDate *time.Time `json:"listDate"`
	Notes    string     `json:"notes"`
	Version  int        `json:"version" binding:"required,min=1"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateShoppingListRequest) ApplyTo(l *shopping.List) {
	l.Name = r.Name
	l.ListDate = r.ListDate
	l.Notes = r.Notes
	l.Version = r.Version
}

// AddShoppingItemRequest adds a material line to a list.
type AddShoppingItemRequest struct {
	MaterialID string         `json:"materialId" binding:"required,uuid"`
	Quantity   types.Quantity `json:"quantity" binding:"required"`
}

// UpdateShoppingItemRequest changes a material line.
type UpdateShoppingItemRequest struct {
	MaterialID string         `json:"materialId" binding:"required,uuid"`
	Quantity   types.Quantity `json:"quantity" binding:"required"`
	Purchased  bool           `json:"purchased"`
}

// ShoppingItemResponse is one list item with material info.
type ShoppingItemResponse struct {
	ID               string         `json:"id"`
	MaterialID       string         `json:"materialId"`
	MaterialName     string         `json:"materialName"`
	MaterialUnit     string         `json:"materialUnit"`
	MaterialAvgPrice *types.Money   `json:"materialAvgPrice,omitempty"`
	Quantity         types.Quantity `json:"quantity"`
	Purchased        bool           `json:"purchased"`
}

// FromShoppingItem creates response DTO from the joined domain row.
func FromShoppingItem(i shopping.ItemWithMaterial) ShoppingItemResponse {
	return ShoppingItemResponse{
		ID:               i.ID.String(),
		MaterialID:       i.MaterialID.String(),
		MaterialName:     i.MaterialName,
		MaterialUnit:     i.MaterialUnit,
		MaterialAvgPrice: i.MaterialAvgPrice,
		Quantity:         i.Quantity,
		Purchased:        i.Purchased,
	}
}

// ShoppingListResponse is the response body for a shopping list.
type ShoppingListResponse struct {
	ID        string                 `json:"id"`
	Number    string                 `json:"number"`
	Name      string                 `json:"name"`
	ListDate  *time.Time             `json:"listDate,omitempty"`
	Notes     string                 `json:"notes,omitempty"`
	Items     []ShoppingItemResponse `json:"items,omitempty"`
	Version   int                    `json:"version"`
	CreatedAt time.Time              `json:"createdAt"`
	UpdatedAt time.Time              `json:"updatedAt"`
}

// FromShoppingList creates response DTO from domain entity.
func FromShoppingList(l *shopping.List) *ShoppingListResponse {
	resp := &ShoppingListResponse{
		ID:        l.ID.String(),
		Number:    l.Number,
		Name:      l.Name,
		ListDate:  l.ListDate,
		Notes:     l.Notes,
		Version:   l.Version,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
	for _, i := range l.Items {
		resp.Items = append(resp.Items, FromShoppingItem(i))
	}
	return resp
}

// ShoppingListWithTotalResponse adds the cost estimate to a list.
type ShoppingListWithTotalResponse struct {
	ShoppingListResponse
	ItemCount     int         `json:"itemCount"`
	EstimatedCost types.Money `json:"estimatedCost"`
}

// FromShoppingListWithTotal creates response DTO from the domain listing row.
func FromShoppingListWithTotal(lt shopping.ListWithTotal) *ShoppingListWithTotalResponse {
	return &ShoppingListWithTotalResponse{
		ShoppingListResponse: *FromShoppingList(&lt.List),
		ItemCount:            lt.ItemCount,
		EstimatedCost:        lt.EstimatedCost,
	}
}

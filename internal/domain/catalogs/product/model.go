// Package product implements the sellable-product catalog and its
// links to recipes.
package product

import (
	"context"

	"doceria/internal/core/apperror"
	"doceria/internal/core/entity"
	"doceria/internal/core/id"
	"doceria/internal/core/types"
)

// Product is a sellable item. Its recipes describe how it is produced
// and drive stock deduction on production orders.
type Product struct {
	entity.Base

	Name        string      `db:"name" json:"name"`
	Description string      `db:"description" json:"description,omitempty"`
	Category    string      `db:"category" json:"category,omitempty"`
	SalePrice   types.Money `db:"sale_price" json:"salePrice"`
	PhotoURL    string      `db:"photo_url" json:"photoUrl,omitempty"`
	Active      bool        `db:"active" json:"active"`

	// RecipeIDs is loaded on demand from the link table.
	RecipeIDs []id.ID `db:"-" json:"recipeIds,omitempty"`
}

func NewProduct(name string) *Product {
	return &Product{Base: entity.NewBase(), Name: name, Active: true}
}

func (p *Product) Validate(_ context.Context) error {
	if p.Name == "" {
		return apperror.NewValidation("name is required", map[string]any{"field": "name"})
	}
	if p.SalePrice.IsNegative() {
		return apperror.NewValidation("sale price cannot be negative", map[string]any{"field": "salePrice"})
	}
	return nil
}

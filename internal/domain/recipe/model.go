// Package recipe implements recipes (technical sheets), their
// ingredient lists and cost calculation.
package recipe

import (
	"context"
	"time"

	"doceria/internal/core/apperror"
	"doceria/internal/core/entity"
	"doceria/internal/core/id"
	"doceria/internal/core/types"
)

// Recipe describes how a product is made: the ingredient quantities
// for one preparation, and how many sale units that preparation
// yields.
type Recipe struct {
	entity.Base

	Name         string         `db:"name" json:"name"`
	Instructions string         `db:"instructions" json:"instructions,omitempty"`
	PrepTime     string         `db:"prep_time" json:"prepTime,omitempty"`
	YieldQty     types.Quantity `db:"yield_qty" json:"yieldQty"`
	YieldUnit    string         `db:"yield_unit" json:"yieldUnit,omitempty"`

	// Ingredients is loaded on demand, not persisted with the recipe row.
	Ingredients []IngredientWithMaterial `db:"-" json:"ingredients,omitempty"`
}

func NewRecipe(name string) *Recipe {
	return &Recipe{Base: entity.NewBase(), Name: name}
}

func (r *Recipe) Validate(_ context.Context) error {
	if r.Name == "" {
		return apperror.NewValidation("name is required", map[string]any{"field": "name"})
	}
	if r.YieldQty.IsNegative() {
		return apperror.NewValidation("yield cannot be negative", map[string]any{"field": "yieldQty"})
	}
	return nil
}

// Ingredient ties a material and quantity to a recipe.
type Ingredient struct {
	ID         id.ID          `db:"id" json:"id"`
	RecipeID   id.ID          `db:"recipe_id" json:"recipeId"`
	MaterialID id.ID          `db:"material_id" json:"materialId"`
	Quantity   types.Quantity `db:"quantity" json:"quantity"`
	CreatedAt  time.Time      `db:"created_at" json:"createdAt"`
}

func NewIngredient(recipeID, materialID id.ID, qty types.Quantity) *Ingredient {
	return &Ingredient{
		ID:         id.New(),
		RecipeID:   recipeID,
		MaterialID: materialID,
		Quantity:   qty,
		CreatedAt:  time.Now(),
	}
}

func (i *Ingredient) Validate(_ context.Context) error {
	if id.IsNil(i.RecipeID) {
		return apperror.NewValidation("recipe is required", map[string]any{"field": "recipeId"})
	}
	if id.IsNil(i.MaterialID) {
		return apperror.NewValidation("material is required", map[string]any{"field": "materialId"})
	}
	if !i.Quantity.IsPositive() {
		return apperror.NewValidation("quantity must be positive", map[string]any{"field": "quantity"})
	}
	return nil
}

// IngredientWithMaterial joins an ingredient with the material fields
// needed for display and costing.
type IngredientWithMaterial struct {
	Ingredient

	MaterialName     string       `db:"material_name" json:"materialName"`
	MaterialUnit     string       `db:"material_unit" json:"materialUnit"`
	MaterialAvgPrice *types.Money `db:"material_avg_price" json:"materialAvgPrice,omitempty"`
}

// CostSummary is the computed cost of one recipe preparation.
type CostSummary struct {
	RecipeID  id.ID       `json:"recipeId"`
	TotalCost types.Money `json:"totalCost"`
	UnitCost  types.Money `json:"unitCost"`
}

// MaterialUsage reports one recipe referencing a material.
type MaterialUsage struct {
	RecipeID   id.ID          `db:"recipe_id" json:"recipeId"`
	RecipeName string         `db:"recipe_name" json:"recipeName"`
	Quantity   types.Quantity `db:"quantity" json:"quantity"`
}

// RecipeWithCost pairs a recipe with its computed cost, for listings.
type RecipeWithCost struct {
	Recipe
	TotalCost types.Money `json:"totalCost"`
	UnitCost  types.Money `json:"unitCost"`
}

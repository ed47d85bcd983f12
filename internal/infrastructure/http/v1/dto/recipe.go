package dto

import (
	"time"

	"doceria/internal/core/types"
	"doceria/internal/domain/recipe"
)

// CreateRecipeRequest is the request body for creating a recipe.
type CreateRecipeRequest struct {
	Name         string         `json:"name" binding:"required"`
	Instructions string         `json:"instructions"`
	PrepTime     string         `json:"prepTime"`
	YieldQty     types.Quantity `json:"yieldQty"`
	YieldUnit    string         `json:"yieldUnit"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateRecipeRequest) ToEntity() *recipe.Recipe {
	rec := recipe.NewRecipe(r.Name)
	rec.Instructions = r.Instructions
	rec.PrepTime = r.PrepTime
	rec.YieldQty = r.YieldQty
	rec.YieldUnit = r.YieldUnit
	return rec
}

// UpdateRecipeRequest is the request body for updating a recipe.
type UpdateRecipeRequest struct {
	Name         string         `json:"name" binding:"required"`
	Instructions string         `json:"instructions"`
	PrepTime     string         `json:"prepTime"`
	YieldQty     types.Quantity `json:"yieldQty"`
	YieldUnit    string         `json:"yieldUnit"`
	Version      int            `json:"version" binding:"required,min=1"`
}

// ApplyTo applies update DTO to existing entity.
func (r *UpdateRecipeRequest) ApplyTo(rec *recipe.Recipe) {
	rec.Name = r.Name
	rec.Instructions = r.Instructions
	rec.PrepTime = r.PrepTime
	rec.YieldQty = r.YieldQty
	rec.YieldUnit = r.YieldUnit
	rec.Version = r.Version
}

// AddIngredientRequest adds an ingredient line to a recipe.
type AddIngredientRequest struct {
	MaterialID string         `json:"materialId" binding:"required,uuid"`
	Quantity   types.Quantity `json:"quantity" binding:"required"`
}

// UpdateIngredientRequest changes an ingredient line.
type UpdateIngredientRequest struct {
	MaterialID string         `json:"materialId" binding:"required,uuid"`
	Quantity   types.Quantity `json:"quantity" binding:"required"`
}

// IngredientResponse is one ingredient line with material info.
type IngredientResponse struct {
	ID               string         `json:"id"`
	MaterialID       string         `json:"materialId"`
	MaterialName     string         `json:"materialName"`
	MaterialUnit     string         `json:"materialUnit"`
	MaterialAvgPrice *types.Money   `json:"materialAvgPrice,omitempty"`
	Quantity         types.Quantity `json:"quantity"`
}

// FromIngredient creates response DTO from the joined domain row.
func FromIngredient(i recipe.IngredientWithMaterial) IngredientResponse {
	return IngredientResponse{
		ID:               i.ID.String(),
		MaterialID:       i.MaterialID.String(),
		MaterialName:     i.MaterialName,
		MaterialUnit:     i.MaterialUnit,
		MaterialAvgPrice: i.MaterialAvgPrice,
		Quantity:         i.Quantity,
	}
}

// RecipeResponse is the response body for a recipe.
type RecipeResponse struct {
	ID           string               `json:"id"`
	Name         string               `json:"name"`
	Instructions string               `json:"instructions,omitempty"`
	PrepTime     string               `json:"prepTime,omitempty"`
	YieldQty     types.Quantity       `json:"yieldQty"`
	YieldUnit    string               `json:"yieldUnit,omitempty"`
	Ingredients  []IngredientResponse `json:"ingredients,omitempty"`
	Version      int                  `json:"version"`
	CreatedAt    time.Time            `json:"createdAt"`
	UpdatedAt    time.Time            `json:"updatedAt"`
}

// FromRecipe creates response DTO from domain entity.
func FromRecipe(rec *recipe.Recipe) *RecipeResponse {
	resp := &RecipeResponse{
		ID:           rec.ID.String(),
		Name:         rec.Name,
		Instructions: rec.Instructions,
		PrepTime:     rec.PrepTime,
		YieldQty:     rec.YieldQty,
		YieldUnit:    rec.YieldUnit,
		Version:      rec.Version,
		CreatedAt:    rec.CreatedAt,
		UpdatedAt:    rec.UpdatedAt,
	}
	for _, i := range rec.Ingredients {
		resp.Ingredients = append(resp.Ingredients, FromIngredient(i))
	}
	return resp
}

// RecipeCostResponse is the computed cost of a recipe.
type RecipeCostResponse struct {
	RecipeID  string      `json:"recipeId"`
	TotalCost types.Money `json:"totalCost"`
	UnitCost  types.Money `json:"unitCost"`
}

// FromCostSummary creates response DTO from the domain summary.
func FromCostSummary(cs recipe.CostSummary) RecipeCostResponse {
	return RecipeCostResponse{
		RecipeID:  cs.RecipeID.String(),
		TotalCost: cs.TotalCost,
		UnitCost:  cs.UnitCost,
	}
}

// RecipeWithCostResponse pairs a recipe with its computed cost.
type RecipeWithCostResponse struct {
	RecipeResponse
	TotalCost types.Money `json:"totalCost"`
	UnitCost  types.Money `json:"unitCost"`
}

// FromRecipeWithCost creates response DTO from the domain listing row.
func FromRecipeWithCost(rc recipe.RecipeWithCost) *RecipeWithCostResponse {
	return &RecipeWithCostResponse{
		RecipeResponse: *FromRecipe(&rc.Recipe),
		TotalCost:      rc.TotalCost,
		UnitCost:       rc.UnitCost,
	}
}

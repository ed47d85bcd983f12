package recipe

import (
	"context"

	"doceria/internal/core/id"
	"doceria/internal/domain"
)

// Repository persists recipes and their ingredient lists.
type Repository interface {
	Create(ctx context.Context, r *Recipe) error
	GetByID(ctx context.Context, recipeID id.ID) (*Recipe, error)
	Update(ctx context.Context, r *Recipe) error
	Delete(ctx context.Context, recipeID id.ID) error
	List(ctx context.Context, filter domain.ListFilter) ([]*Recipe, error)

	CreateIngredient(ctx context.Context, i *Ingredient) error
	UpdateIngredient(ctx context.Context, i *Ingredient) error
	DeleteIngredient(ctx context.Context, ingredientID id.ID) error
	GetIngredient(ctx context.Context, ingredientID id.ID) (*Ingredient, error)

	// ListIngredients returns a recipe's ingredients joined with
	// material name, unit and average price.
	ListIngredients(ctx context.Context, recipeID id.ID) ([]IngredientWithMaterial, error)

	// RecipesUsingMaterial lists recipes that reference a material as
	// an ingredient.
	RecipesUsingMaterial(ctx context.Context, materialID id.ID) ([]MaterialUsage, error)
}

package production

import (
	"context"

	"doceria/internal/core/id"
	"doceria/internal/domain"
	"doceria/internal/domain/recipe"
	"doceria/internal/domain/stock"
)

// OrderFilter narrows order listings.
type OrderFilter struct {
	domain.ListFilter
	ProductID *id.ID
	Status    *Status
}

// Repository persists production orders.
type Repository interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, orderID id.ID) (*Order, error)
	Update(ctx context.Context, o *Order) error
	Delete(ctx context.Context, orderID id.ID) error
	List(ctx context.Context, filter OrderFilter) ([]*Order, error)
}

// RecipeResolver resolves the recipes behind a product and their
// ingredient lists. Implemented by the product and recipe services.
type RecipeResolver interface {
	RecipeIDsByProduct(ctx context.Context, productID id.ID) ([]id.ID, error)
	IngredientsByRecipe(ctx context.Context, recipeID id.ID) ([]recipe.IngredientWithMaterial, error)
}

// ProductLinks is the product-side half of a RecipeResolver.
type ProductLinks interface {
	RecipeIDsByProduct(ctx context.Context, productID id.ID) ([]id.ID, error)
}

// IngredientLister is the recipe-side half of a RecipeResolver.
type IngredientLister interface {
	IngredientsByRecipe(ctx context.Context, recipeID id.ID) ([]recipe.IngredientWithMaterial, error)
}

type recipeSource struct {
	products    ProductLinks
	ingredients IngredientLister
}

// NewRecipeSource combines the product and recipe services into a
// RecipeResolver.
func NewRecipeSource(products ProductLinks, ingredients IngredientLister) RecipeResolver {
	return &recipeSource{products: products, ingredients: ingredients}
}

func (s *recipeSource) RecipeIDsByProduct(ctx context.Context, productID id.ID) ([]id.ID, error) {
	return s.products.RecipeIDsByProduct(ctx, productID)
}

func (s *recipeSource) IngredientsByRecipe(ctx context.Context, recipeID id.ID) ([]recipe.IngredientWithMaterial, error) {
	return s.ingredients.IngredientsByRecipe(ctx, recipeID)
}

// StockKeeper is the slice of the stock service production depends on.
type StockKeeper interface {
	CurrentStock(ctx context.Context, materialID id.ID) (stock.Level, error)
	BatchesForDeduction(ctx context.Context, materialID id.ID) ([]stock.BatchRemainder, error)
	ApplyDeductions(ctx context.Context, orderID id.ID, allocs []stock.Allocation) error
}

package recipe

import (
	"context"

	"github.com/shopspring/decimal"

	"doceria/internal/core/id"
	"doceria/internal/core/types"
	"doceria/internal/domain"
	"doceria/pkg/logger"
)

// Service implements recipe operations.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, r *Recipe) error {
	if err := r.Validate(ctx); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, r); err != nil {
		return err
	}
	logger.Info(ctx, "recipe created", "recipe_id", r.ID, "name", r.Name)
	return nil
}

// GetByID loads a recipe with its ingredients.
func (s *Service) GetByID(ctx context.Context, recipeID id.ID) (*Recipe, error) {
	r, err := s.repo.GetByID(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	ingredients, err := s.repo.ListIngredients(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	r.Ingredients = ingredients
	return r, nil
}

func (s *Service) Update(ctx context.Context, r *Recipe) error {
	if err := r.Validate(ctx); err != nil {
		return err
	}
	r.Touch()
	return s.repo.Update(ctx, r)
}

func (s *Service) Delete(ctx context.Context, recipeID id.ID) error {
	return s.repo.Delete(ctx, recipeID)
}

func (s *Service) List(ctx context.Context, filter domain.ListFilter) ([]*Recipe, error) {
	return s.repo.List(ctx, filter)
}

// ListWithCost lists recipes with their computed cost attached.
func (s *Service) ListWithCost(ctx context.Context, filter domain.ListFilter) ([]RecipeWithCost, error) {
	recipes, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	out := make([]RecipeWithCost, 0, len(recipes))
	for _, r := range recipes {
		ingredients, err := s.repo.ListIngredients(ctx, r.ID)
		if err != nil {
			return nil, err
		}
		total, unit := computeCost(ingredients, r.YieldQty)
		out = append(out, RecipeWithCost{Recipe: *r, TotalCost: total, UnitCost: unit})
	}
	return out, nil
}

// Cost computes the total cost of one preparation and the cost per
// yielded unit. Ingredients whose material has no average price
// contribute zero.
func (s *Service) Cost(ctx context.Context, recipeID id.ID) (CostSummary, error) {
	r, err := s.repo.GetByID(ctx, recipeID)
	if err != nil {
		return CostSummary{}, err
	}
	ingredients, err := s.repo.ListIngredients(ctx, recipeID)
	if err != nil {
		return CostSummary{}, err
	}

	total, unit := computeCost(ingredients, r.YieldQty)
	return CostSummary{RecipeID: recipeID, TotalCost: total, UnitCost: unit}, nil
}

func computeCost(ingredients []IngredientWithMaterial, yield types.Quantity) (total, unit types.Money) {
	sum := decimal.Zero
	for _, ing := range ingredients {
		if ing.MaterialAvgPrice == nil {
			continue
		}
		sum = sum.Add(ing.Quantity.Decimal().Mul(decimal.Decimal(*ing.MaterialAvgPrice)))
	}

	// A zero or missing yield divides by one so the unit cost stays
	// meaningful instead of blowing up.
	divisor := yield.Decimal()
	if !yield.IsPositive() {
		divisor = decimal.NewFromInt(1)
	}
	return types.Money(sum), types.Money(sum.Div(divisor))
}

func (s *Service) AddIngredient(ctx context.Context, i *Ingredient) error {
	if err := i.Validate(ctx); err != nil {
		return err
	}
	if _, err := s.repo.GetByID(ctx, i.RecipeID); err != nil {
		return err
	}
	return s.repo.CreateIngredient(ctx, i)
}

func (s *Service) UpdateIngredient(ctx context.Context, i *Ingredient) error {
	if err := i.Validate(ctx); err != nil {
		return err
	}
	return s.repo.UpdateIngredient(ctx, i)
}

func (s *Service) RemoveIngredient(ctx context.Context, ingredientID id.ID) error {
	return s.repo.DeleteIngredient(ctx, ingredientID)
}

// RecipesUsingMaterial reports which recipes reference a material.
func (s *Service) RecipesUsingMaterial(ctx context.Context, materialID id.ID) ([]MaterialUsage, error) {
	return s.repo.RecipesUsingMaterial(ctx, materialID)
}

// IngredientsByRecipe exposes the joined ingredient list for
// production planning.
func (s *Service) IngredientsByRecipe(ctx context.Context, recipeID id.ID) ([]IngredientWithMaterial, error) {
	return s.repo.ListIngredients(ctx, recipeID)
}

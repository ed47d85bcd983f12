// Package recipe_repo provides the PostgreSQL implementation for the
// recipe repository.
package recipe_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"doceria/internal/core/apperror"
	"doceria/internal/core/id"
	"doceria/internal/domain"
	"doceria/internal/domain/recipe"
	"doceria/internal/infrastructure/storage/postgres"
)

const (
	recipesTable     = "cat_recipes"
	ingredientsTable = "recipe_ingredients"
)

var (
	recipeCols     = postgres.ExtractDBColumns[recipe.Recipe]()
	ingredientCols = postgres.ExtractDBColumns[recipe.Ingredient]()
)

// RecipeRepo implements recipe.Repository.
type RecipeRepo struct {
	tm      *postgres.TxManager
	builder squirrel.StatementBuilderType
}

func NewRecipeRepo(tm *postgres.TxManager) *RecipeRepo {
	return &RecipeRepo{
		tm:      tm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *RecipeRepo) querier(ctx context.Context) postgres.Querier {
	return r.tm.GetQuerier(ctx)
}

func (r *RecipeRepo) Create(ctx context.Context, rec *recipe.Recipe) error {
	data := postgres.StructToMap(rec)

	q := r.builder.Insert(recipesTable).SetMap(data)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert recipe: %w", err)
	}
	return nil
}

func (r *RecipeRepo) GetByID(ctx context.Context, recipeID id.ID) (*recipe.Recipe, error) {
	q := r.builder.Select(recipeCols...).
		From(recipesTable).
		Where(squirrel.Eq{"id": recipeID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rec recipe.Recipe
	if err := pgxscan.Get(ctx, r.querier(ctx), &rec, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("recipe", recipeID.String())
		}
		return nil, fmt.Errorf("get recipe: %w", err)
	}
	return &rec, nil
}

func (r *RecipeRepo) Update(ctx context.Context, rec *recipe.Recipe) error {
	data := postgres.StructToMap(rec)

	version, ok := data["version"].(int)
	if !ok {
		return fmt.Errorf("recipe has no version field")
	}
	delete(data, "id")
	delete(data, "version")

	q := r.builder.Update(recipesTable).
		SetMap(data).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": rec.ID}).
		Where(squirrel.Eq{"version": version})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update recipe: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification("recipe", rec.ID.String())
	}
	return nil
}

func (r *RecipeRepo) Delete(ctx context.Context, recipeID id.ID) error {
	q := r.builder.Delete(recipesTable).Where(squirrel.Eq{"id": recipeID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete recipe: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("recipe", recipeID.String())
	}
	return nil
}

func (r *RecipeRepo) List(ctx context.Context, filter domain.ListFilter) ([]*recipe.Recipe, error) {
	q := r.builder.Select(recipeCols...).From(recipesTable)

	if filter.Search != "" {
		q = q.Where(squirrel.ILike{"name": "%" + filter.Search + "%"})
	}
	if len(filter.IDs) > 0 {
		q = q.Where(squirrel.Eq{"id": filter.IDs})
	}

	q = q.OrderBy("name")

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var recipes []*recipe.Recipe
	if err := pgxscan.Select(ctx, r.querier(ctx), &recipes, sql, args...); err != nil {
		return nil, fmt.Errorf("select recipes: %w", err)
	}
	return recipes, nil
}

// --- ingredients ---

func (r *RecipeRepo) CreateIngredient(ctx context.Context, i *recipe.Ingredient) error {
	data := postgres.StructToMap(i)

	q := r.builder.Insert(ingredientsTable).SetMap(data)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert ingredient: %w", err)
	}
	return nil
}

func (r *RecipeRepo) UpdateIngredient(ctx context.Context, i *recipe.Ingredient) error {
	q := r.builder.Update(ingredientsTable).
		Set("material_id", i.MaterialID).
		Set("quantity", i.Quantity).
		Where(squirrel.Eq{"id": i.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update ingredient: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("ingredient", i.ID.String())
	}
	return nil
}

func (r *RecipeRepo) DeleteIngredient(ctx context.Context, ingredientID id.ID) error {
	q := r.builder.Delete(ingredientsTable).Where(squirrel.Eq{"id": ingredientID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete ingredient: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("ingredient", ingredientID.String())
	}
	return nil
}

func (r *RecipeRepo) GetIngredient(ctx context.Context, ingredientID id.ID) (*recipe.Ingredient, error) {
	q := r.builder.Select(ingredientCols...).
		From(ingredientsTable).
		Where(squirrel.Eq{"id": ingredientID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var i recipe.Ingredient
	if err := pgxscan.Get(ctx, r.querier(ctx), &i, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("ingredient", ingredientID.String())
		}
		return nil, fmt.Errorf("get ingredient: %w", err)
	}
	return &i, nil
}

// ListIngredients joins ingredients with their material fields.
func (r *RecipeRepo) ListIngredients(ctx context.Context, recipeID id.ID) ([]recipe.IngredientWithMaterial, error) {
	sql := `
		SELECT i.id, i.recipe_id, i.material_id, i.quantity, i.created_at,
		       m.name AS material_name,
		       m.base_unit AS material_unit,
		       m.avg_unit_price AS material_avg_price
		FROM recipe_ingredients i
		JOIN cat_materials m ON m.id = i.material_id
		WHERE i.recipe_id = $1
		ORDER BY i.created_at, i.id
	`

	var items []recipe.IngredientWithMaterial
	if err := pgxscan.Select(ctx, r.querier(ctx), &items, sql, recipeID); err != nil {
		return nil, fmt.Errorf("select ingredients: %w", err)
	}
	return items, nil
}

// RecipesUsingMaterial lists recipes holding a material as ingredient.
func (r *RecipeRepo) RecipesUsingMaterial(ctx context.Context, materialID id.ID) ([]recipe.MaterialUsage, error) {
	sql := `
		SELECT rec.id AS recipe_id, rec.name AS recipe_name, i.quantity
		FROM recipe_ingredients i
		JOIN cat_recipes rec ON rec.id = i.recipe_id
		WHERE i.material_id = $1
		ORDER BY rec.name
	`

	var usages []recipe.MaterialUsage
	if err := pgxscan.Select(ctx, r.querier(ctx), &usages, sql, materialID); err != nil {
		return nil, fmt.Errorf("select material usages: %w", err)
	}
	return usages, nil
}

// Ensure interface compliance.
var _ recipe.Repository = (*RecipeRepo)(nil)

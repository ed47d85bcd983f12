package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"doceria/internal/core/id"
	"doceria/internal/domain/catalogs/product"
	"doceria/internal/infrastructure/storage/postgres"
)

const (
	productTable       = "cat_products"
	productRecipeTable = "product_recipes"
)

// ProductRepo implements product.Repository, including the
// product-recipe link table.
type ProductRepo struct {
	*BaseCatalogRepo[*product.Product]
}

func NewProductRepo(tm *postgres.TxManager) *ProductRepo {
	return &ProductRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			tm,
			productTable,
			postgres.ExtractDBColumns[product.Product](),
			func() *product.Product { return &product.Product{} },
		),
	}
}

func (r *ProductRepo) LinkRecipe(ctx context.Context, productID, recipeID id.ID) error {
	q := r.Builder().
		Insert(productRecipeTable).
		Columns("product_id", "recipe_id").
		Values(productID, recipeID).
		Suffix("ON CONFLICT (product_id, recipe_id) DO NOTHING")

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build link insert: %w", err)
	}
	if _, err := r.Querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("link recipe: %w", err)
	}
	return nil
}

func (r *ProductRepo) UnlinkRecipe(ctx context.Context, productID, recipeID id.ID) error {
	q := r.Builder().
		Delete(productRecipeTable).
		Where(squirrel.Eq{"product_id": productID, "recipe_id": recipeID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build link delete: %w", err)
	}
	if _, err := r.Querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("unlink recipe: %w", err)
	}
	return nil
}

func (r *ProductRepo) RecipeIDsByProduct(ctx context.Context, productID id.ID) ([]id.ID, error) {
	q := r.Builder().
		Select("recipe_id").
		From(productRecipeTable).
		Where(squirrel.Eq{"product_id": productID}).
		OrderBy("recipe_id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var ids []id.ID
	if err := pgxscan.Select(ctx, r.Querier(ctx), &ids, sql, args...); err != nil {
		return nil, fmt.Errorf("recipe ids by product: %w", err)
	}
	return ids, nil
}

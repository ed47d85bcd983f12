// Package shopping_repo provides the PostgreSQL implementation for
// the shopping list repository.
package shopping_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"doceria/internal/core/apperror"
	"doceria/internal/core/id"
	"doceria/internal/domain"
	"doceria/internal/domain/shopping"
	"doceria/internal/infrastructure/storage/postgres"
)

const (
	listsTable = "shopping_lists"
	itemsTable = "shopping_list_items"
)

var (
	listCols = postgres.ExtractDBColumns[shopping.List]()
	itemCols = postgres.ExtractDBColumns[shopping.Item]()
)

// ShoppingRepo implements shopping.Repository.
type ShoppingRepo struct {
	tm      *postgres.TxManager
	builder squirrel.StatementBuilderType
}

func NewShoppingRepo(tm *postgres.TxManager) *ShoppingRepo {
	return &ShoppingRepo{
		tm:      tm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *ShoppingRepo) querier(ctx context.Context) postgres.Querier {
	return r.tm.GetQuerier(ctx)
}

func (r *ShoppingRepo) Create(ctx context.Context, l *shopping.List) error {
	data := postgres.StructToMap(l)

	q := r.builder.Insert(listsTable).SetMap(data)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert list: %w", err)
	}
	return nil
}

func (r *ShoppingRepo) GetByID(ctx context.Context, listID id.ID) (*shopping.List, error) {
	q := r.builder.Select(listCols...).
		From(listsTable).
		Where(squirrel.Eq{"id": listID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var l shopping.List
	if err := pgxscan.Get(ctx, r.querier(ctx), &l, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("shopping list", listID.String())
		}
		return nil, fmt.Errorf("get list: %w", err)
	}
	return &l, nil
}

func (r *ShoppingRepo) Update(ctx context.Context, l *shopping.List) error {
	data := postgres.StructToMap(l)

	version, ok := data["version"].(int)
	if !ok {
		return fmt.Errorf("list has no version field")
	}
	delete(data, "id")
	delete(data, "version")

	q := r.builder.Update(listsTable).
		SetMap(data).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": l.ID}).
		Where(squirrel.Eq{"version": version})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update list: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification("shopping list", l.ID.String())
	}
	return nil
}

func (r *ShoppingRepo) Delete(ctx context.Context, listID id.ID) error {
	q := r.builder.Delete(listsTable).Where(squirrel.Eq{"id": listID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete list: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("shopping list", listID.String())
	}
	return nil
}

func (r *ShoppingRepo) List(ctx context.Context, filter domain.ListFilter) ([]*shopping.List, error) {
	q := r.builder.Select(listCols...).From(listsTable)

	if filter.Search != "" {
		q = q.Where(squirrel.ILike{"name": "%" + filter.Search + "%"})
	}

	q = q.OrderBy("created_at DESC", "id DESC")

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

	var lists []*shopping.List
	if err := pgxscan.Select(ctx, r.querier(ctx), &lists, sql, args...); err != nil {
		return nil, fmt.Errorf("select lists: %w", err)
	}
	return lists, nil
}

// --- items ---

func (r *ShoppingRepo) CreateItem(ctx context.Context, i *shopping.Item) error {
	data := postgres.StructToMap(i)

	q := r.builder.Insert(itemsTable).SetMap(data)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

func (r *ShoppingRepo) UpdateItem(ctx context.Context, i *shopping.Item) error {
	q := r.builder.Update(itemsTable).
		Set("material_id", i.MaterialID).
		Set("quantity", i.Quantity).
		Set("purchased", i.Purchased).
		Where(squirrel.Eq{"id": i.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("shopping item", i.ID.String())
	}
	return nil
}

func (r *ShoppingRepo) DeleteItem(ctx context.Context, itemID id.ID) error {
	q := r.builder.Delete(itemsTable).Where(squirrel.Eq{"id": itemID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("shopping item", itemID.String())
	}
	return nil
}

func (r *ShoppingRepo) GetItem(ctx context.Context, itemID id.ID) (*shopping.Item, error) {
	q := r.builder.Select(itemCols...).
		From(itemsTable).
		Where(squirrel.Eq{"id": itemID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var i shopping.Item
	if err := pgxscan.Get(ctx, r.querier(ctx), &i, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("shopping item", itemID.String())
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return &i, nil
}

// ListItems joins list items with their material fields.
func (r *ShoppingRepo) ListItems(ctx context.Context, listID id.ID) ([]shopping.ItemWithMaterial, error) {
	sql := `
		SELECT i.id, i.list_id, i.material_id, i.quantity, i.purchased, i.created_at,
		       m.name AS material_name,
		       m.base_unit AS material_unit,
		       m.avg_unit_price AS material_avg_price
		FROM shopping_list_items i
		JOIN cat_materials m ON m.id = i.material_id
		WHERE i.list_id = $1
		ORDER BY i.created_at, i.id
	`

	var items []shopping.ItemWithMaterial
	if err := pgxscan.Select(ctx, r.querier(ctx), &items, sql, listID); err != nil {
		return nil, fmt.Errorf("select items: %w", err)
	}
	return items, nil
}

// Ensure interface compliance.
var _ shopping.Repository = (*ShoppingRepo)(nil)

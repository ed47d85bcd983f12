// Package production_repo provides the PostgreSQL implementation for
// the production order repository.
package production_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"doceria/internal/core/apperror"
	"doceria/internal/core/id"
	"doceria/internal/domain/production"
	"doceria/internal/infrastructure/storage/postgres"
)

const ordersTable = "doc_production_orders"

var orderCols = postgres.ExtractDBColumns[production.Order]()

// OrderRepo implements production.Repository.
type OrderRepo struct {
	tm      *postgres.TxManager
	builder squirrel.StatementBuilderType
}

func NewOrderRepo(tm *postgres.TxManager) *OrderRepo {
	return &OrderRepo{
		tm:      tm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *OrderRepo) querier(ctx context.Context) postgres.Querier {
	return r.tm.GetQuerier(ctx)
}

func (r *OrderRepo) Create(ctx context.Context, o *production.Order) error {
	data := postgres.StructToMap(o)

	q := r.builder.Insert(ordersTable).SetMap(data)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (r *OrderRepo) GetByID(ctx context.Context, orderID id.ID) (*production.Order, error) {
	q := r.builder.Select(orderCols...).
		From(ordersTable).
		Where(squirrel.Eq{"id": orderID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var o production.Order
	if err := pgxscan.Get(ctx, r.querier(ctx), &o, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("production order", orderID.String())
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return &o, nil
}

func (r *OrderRepo) Update(ctx context.Context, o *production.Order) error {
	data := postgres.StructToMap(o)

	version, ok := data["version"].(int)
	if !ok {
		return fmt.Errorf("order has no version field")
	}
	delete(data, "id")
	delete(data, "version")

	q := r.builder.Update(ordersTable).
		SetMap(data).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": o.ID}).
		Where(squirrel.Eq{"version": version})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification("production order", o.ID.String())
	}
	o.SetVersion(o.Version + 1)
	return nil
}

func (r *OrderRepo) Delete(ctx context.Context, orderID id.ID) error {
	q := r.builder.Delete(ordersTable).Where(squirrel.Eq{"id": orderID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("production order", orderID.String())
	}
	return nil
}

func (r *OrderRepo) List(ctx context.Context, filter production.OrderFilter) ([]*production.Order, error) {
	q := r.builder.Select(orderCols...).From(ordersTable)

	if filter.ProductID != nil {
		q = q.Where(squirrel.Eq{"product_id": *filter.ProductID})
	}
	if filter.Status != nil {
		q = q.Where(squirrel.Eq{"status": *filter.Status})
	}
	if filter.Search != "" {
		q = q.Where(squirrel.ILike{"number": "%" + filter.Search + "%"})
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

	var orders []*production.Order
	if err := pgxscan.Select(ctx, r.querier(ctx), &orders, sql, args...); err != nil {
		return nil, fmt.Errorf("select orders: %w", err)
	}
	return orders, nil
}

// Ensure interface compliance.
var _ production.Repository = (*OrderRepo)(nil)

// Package stock_repo provides the PostgreSQL implementation for the
// stock repository: purchase batches and the write-off log.
package stock_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"doceria/internal/core/apperror"
	"doceria/internal/core/id"
	"doceria/internal/core/types"
	"doceria/internal/domain/stock"
	"doceria/internal/infrastructure/storage/postgres"
)

const (
	batchesTable   = "stock_batches"
	writeoffsTable = "stock_writeoffs"
	materialsTable = "cat_materials"
)

// StockRepo implements stock.Repository.
type StockRepo struct {
	tm      *postgres.TxManager
	builder squirrel.StatementBuilderType
}

func NewStockRepo(tm *postgres.TxManager) *StockRepo {
	return &StockRepo{
		tm:      tm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *StockRepo) querier(ctx context.Context) postgres.Querier {
	return r.tm.GetQuerier(ctx)
}

// --- batches ---

var batchCols = postgres.ExtractDBColumns[stock.Batch]()

func (r *StockRepo) CreateBatch(ctx context.Context, b *stock.Batch) error {
	data := postgres.StructToMap(b)

	q := r.builder.Insert(batchesTable).SetMap(data)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert batch: %w", err)
	}
	return nil
}

func (r *StockRepo) GetBatch(ctx context.Context, batchID id.ID) (*stock.Batch, error) {
	q := r.builder.Select(batchCols...).
		From(batchesTable).
		Where(squirrel.Eq{"id": batchID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var b stock.Batch
	if err := pgxscan.Get(ctx, r.querier(ctx), &b, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("batch", batchID.String())
		}
		return nil, fmt.Errorf("get batch: %w", err)
	}
	return &b, nil
}

func (r *StockRepo) UpdateBatch(ctx context.Context, b *stock.Batch) error {
	data := postgres.StructToMap(b)

	version, ok := data["version"].(int)
	if !ok {
		return fmt.Errorf("batch has no version field")
	}
	delete(data, "id")
	delete(data, "version")

	q := r.builder.Update(batchesTable).
		SetMap(data).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": b.ID}).
		Where(squirrel.Eq{"version": version})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update batch: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification("batch", b.ID.String())
	}
	return nil
}

func (r *StockRepo) DeleteBatch(ctx context.Context, batchID id.ID) error {
	q := r.builder.Delete(batchesTable).Where(squirrel.Eq{"id": batchID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete batch: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("batch", batchID.String())
	}
	return nil
}

func (r *StockRepo) ListBatches(ctx context.Context, filter stock.BatchFilter) ([]*stock.Batch, error) {
	q := r.builder.Select(batchCols...).From(batchesTable)

	if filter.MaterialID != nil {
		q = q.Where(squirrel.Eq{"material_id": *filter.MaterialID})
	}
	// UUIDv7 ids are time-ordered, so id order is purchase order.
	q = q.OrderBy("id")

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

	var batches []*stock.Batch
	if err := pgxscan.Select(ctx, r.querier(ctx), &batches, sql, args...); err != nil {
		return nil, fmt.Errorf("select batches: %w", err)
	}
	return batches, nil
}

// BatchesForUpdate locks a material's batch rows and returns them
// oldest-first with remaining quantities computed from the log.
func (r *StockRepo) BatchesForUpdate(ctx context.Context, materialID id.ID) ([]stock.BatchRemainder, error) {
	sql := `
		SELECT b.id,
		       GREATEST(0, b.initial_qty - COALESCE(
		           (SELECT SUM(w.quantity) FROM stock_writeoffs w WHERE w.batch_id = b.id), 0
		       )) AS remaining
		FROM stock_batches b
		WHERE b.material_id = $1
		ORDER BY b.id
		FOR UPDATE OF b
	`

	var remainders []stock.BatchRemainder
	if err := pgxscan.Select(ctx, r.querier(ctx), &remainders, sql, materialID); err != nil {
		return nil, fmt.Errorf("select batches for update: %w", err)
	}
	return remainders, nil
}

// RebuildBatchProjection recomputes the cached current quantity of a
// batch from the write-off log.
func (r *StockRepo) RebuildBatchProjection(ctx context.Context, batchID id.ID) error {
	sql := `
		UPDATE stock_batches b
		SET current_qty = GREATEST(0, b.initial_qty - COALESCE(
		        (SELECT SUM(w.quantity) FROM stock_writeoffs w WHERE w.batch_id = b.id), 0
		    )),
		    updated_at = now()
		WHERE b.id = $1
	`

	result, err := r.querier(ctx).Exec(ctx, sql, batchID)
	if err != nil {
		return fmt.Errorf("rebuild batch projection: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("batch", batchID.String())
	}
	return nil
}

// --- write-offs ---

var writeoffCols = postgres.ExtractDBColumns[stock.Writeoff]()

func (r *StockRepo) CreateWriteoff(ctx context.Context, w *stock.Writeoff) error {
	data := postgres.StructToMap(w)

	q := r.builder.Insert(writeoffsTable).SetMap(data)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert writeoff: %w", err)
	}
	return nil
}

// CreateWriteoffs batch inserts write-offs. Uses COPY inside a
// transaction, plain multi-row insert otherwise.
func (r *StockRepo) CreateWriteoffs(ctx context.Context, ws []stock.Writeoff) error {
	if len(ws) == 0 {
		return nil
	}

	columns := []string{
		"id", "batch_id", "quantity", "reason", "note",
		"written_off_at", "production_order_id", "created_at",
	}

	if tx := r.tm.GetTx(ctx); tx != nil {
		inserter := postgres.NewBatchInserter(r.tm)
		rows := make([][]any, 0, len(ws))
		for _, w := range ws {
			rows = append(rows, []any{
				w.ID, w.BatchID, w.Quantity, w.Reason, w.Note,
				w.WrittenOffAt, w.ProductionOrderID, w.CreatedAt,
			})
		}
		if _, err := inserter.CopyFromSlice(ctx, writeoffsTable, columns, rows); err != nil {
			return fmt.Errorf("copy writeoffs: %w", err)
		}
		return nil
	}

	q := r.builder.Insert(writeoffsTable).Columns(columns...)
	for _, w := range ws {
		q = q.Values(
			w.ID, w.BatchID, w.Quantity, w.Reason, w.Note,
			w.WrittenOffAt, w.ProductionOrderID, w.CreatedAt,
		)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert writeoffs: %w", err)
	}
	return nil
}

func (r *StockRepo) GetWriteoff(ctx context.Context, writeoffID id.ID) (*stock.Writeoff, error) {
	q := r.builder.Select(writeoffCols...).
		From(writeoffsTable).
		Where(squirrel.Eq{"id": writeoffID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var w stock.Writeoff
	if err := pgxscan.Get(ctx, r.querier(ctx), &w, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("writeoff", writeoffID.String())
		}
		return nil, fmt.Errorf("get writeoff: %w", err)
	}
	return &w, nil
}

func (r *StockRepo) DeleteWriteoff(ctx context.Context, writeoffID id.ID) error {
	q := r.builder.Delete(writeoffsTable).Where(squirrel.Eq{"id": writeoffID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete writeoff: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("writeoff", writeoffID.String())
	}
	return nil
}

func (r *StockRepo) ListWriteoffs(ctx context.Context, filter stock.WriteoffFilter) ([]stock.Writeoff, error) {
	q := r.builder.Select(
		"w.id", "w.batch_id", "w.quantity", "w.reason", "w.note",
		"w.written_off_at", "w.production_order_id", "w.created_at",
	).From(writeoffsTable + " w")

	if filter.BatchID != nil {
		q = q.Where(squirrel.Eq{"w.batch_id": *filter.BatchID})
	}
	if filter.MaterialID != nil {
		q = q.Join(batchesTable + " b ON b.id = w.batch_id").
			Where(squirrel.Eq{"b.material_id": *filter.MaterialID})
	}
	if filter.ProductionOrderID != nil {
		q = q.Where(squirrel.Eq{"w.production_order_id": *filter.ProductionOrderID})
	}

	q = q.OrderBy("w.written_off_at DESC", "w.id DESC")

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

	var ws []stock.Writeoff
	if err := pgxscan.Select(ctx, r.querier(ctx), &ws, sql, args...); err != nil {
		return nil, fmt.Errorf("select writeoffs: %w", err)
	}
	return ws, nil
}

func (r *StockRepo) SumWriteoffsByMaterial(ctx context.Context, materialID id.ID) (types.Quantity, error) {
	sql := `
		SELECT COALESCE(SUM(w.quantity), 0)
		FROM stock_writeoffs w
		JOIN stock_batches b ON b.id = w.batch_id
		WHERE b.material_id = $1
	`

	var sumScaled int64
	err := r.querier(ctx).QueryRow(ctx, sql, materialID).Scan(&sumScaled)
	if err != nil && err != pgx.ErrNoRows {
		return 0, fmt.Errorf("sum writeoffs: %w", err)
	}
	return types.NewQuantityFromInt64Scaled(sumScaled), nil
}

// --- material price ---

func (r *StockRepo) ListBatchUnitPrices(ctx context.Context, materialID id.ID) ([]types.Money, error) {
	q := r.builder.Select("unit_price").
		From(batchesTable).
		Where(squirrel.Eq{"material_id": materialID}).
		Where("unit_price IS NOT NULL").
		OrderBy("id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var prices []types.Money
	if err := pgxscan.Select(ctx, r.querier(ctx), &prices, sql, args...); err != nil {
		return nil, fmt.Errorf("select unit prices: %w", err)
	}
	return prices, nil
}

func (r *StockRepo) SetMaterialAvgPrice(ctx context.Context, materialID id.ID, price types.Money) error {
	q := r.builder.Update(materialsTable).
		Set("avg_unit_price", price).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": materialID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("set avg price: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("material", materialID.String())
	}
	return nil
}

func (r *StockRepo) MaterialIDs(ctx context.Context) ([]id.ID, error) {
	sql := `SELECT id FROM cat_materials ORDER BY name`

	var ids []id.ID
	if err := pgxscan.Select(ctx, r.querier(ctx), &ids, sql); err != nil {
		return nil, fmt.Errorf("select material ids: %w", err)
	}
	return ids, nil
}

// Ensure interface compliance.
var _ stock.Repository = (*StockRepo)(nil)

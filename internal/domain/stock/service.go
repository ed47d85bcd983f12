package stock

import (
	"context"

	"github.com/shopspring/decimal"

	"doceria/internal/core/apperror"
	"doceria/internal/core/id"
	"doceria/internal/core/tx"
	"doceria/internal/core/types"
	"doceria/pkg/logger"
)

// Service implements stock operations over the write-off log.
type Service struct {
	repo Repository
	txm  tx.ReadOnlyManager
}

func NewService(repo Repository, txm tx.ReadOnlyManager) *Service {
	return &Service{repo: repo, txm: txm}
}

// CurrentStock computes the stock level of one material by aggregating
// its batches against the write-off log.
func (s *Service) CurrentStock(ctx context.Context, materialID id.ID) (Level, error) {
	batches, err := s.repo.ListBatches(ctx, BatchFilter{MaterialID: &materialID})
	if err != nil {
		return Level{}, err
	}

	var initial types.Quantity
	for _, b := range batches {
		initial += b.InitialQty
	}

	writtenOff, err := s.repo.SumWriteoffsByMaterial(ctx, materialID)
	if err != nil {
		return Level{}, err
	}

	return NewLevel(materialID, initial, writtenOff), nil
}

// CurrentStockAll computes one level per catalog material; materials
// without batches report zero. Runs in a read-only transaction so the
// levels form one consistent snapshot.
func (s *Service) CurrentStockAll(ctx context.Context) ([]Level, error) {
	var levels []Level
	err := s.txm.ReadOnly(ctx, func(ctx context.Context) error {
		ids, err := s.repo.MaterialIDs(ctx)
		if err != nil {
			return err
		}

		levels = make([]Level, 0, len(ids))
		for _, materialID := range ids {
			level, err := s.CurrentStock(ctx, materialID)
			if err != nil {
				return err
			}
			levels = append(levels, level)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return levels, nil
}

// CreateBatch registers a purchase batch and refreshes the material's
// average unit price when the batch carries one.
func (s *Service) CreateBatch(ctx context.Context, b *Batch) error {
	if err := b.Validate(ctx); err != nil {
		return err
	}
	b.CurrentQty = b.InitialQty

	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.CreateBatch(ctx, b); err != nil {
			return err
		}
		if b.UnitPrice != nil {
			return s.refreshAveragePrice(ctx, b.MaterialID)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "batch created",
		"batch_id", b.ID,
		"material_id", b.MaterialID,
		"initial_qty", b.InitialQty.String(),
	)
	return nil
}

func (s *Service) GetBatch(ctx context.Context, batchID id.ID) (*Batch, error) {
	return s.repo.GetBatch(ctx, batchID)
}

func (s *Service) ListBatches(ctx context.Context, filter BatchFilter) ([]*Batch, error) {
	return s.repo.ListBatches(ctx, filter)
}

// UpdateBatch updates mutable batch fields. The material and the
// initial quantity are fixed at creation; changes to either are
// rejected, which keeps the material's write-off log and average
// price consistent.
func (s *Service) UpdateBatch(ctx context.Context, b *Batch) error {
	if err := b.Validate(ctx); err != nil {
		return err
	}

	existing, err := s.repo.GetBatch(ctx, b.ID)
	if err != nil {
		return err
	}
	if existing.MaterialID != b.MaterialID {
		return apperror.NewValidation("material cannot be changed", map[string]any{
			"field": "materialId",
		})
	}
	if existing.InitialQty != b.InitialQty {
		return apperror.NewValidation("initial quantity is immutable", map[string]any{
			"field": "initialQty",
		})
	}
	b.CurrentQty = existing.CurrentQty

	return s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.UpdateBatch(ctx, b); err != nil {
			return err
		}
		if b.UnitPrice != nil || existing.UnitPrice != nil {
			return s.refreshAveragePrice(ctx, b.MaterialID)
		}
		return nil
	})
}

// DeleteBatch removes a batch together with its manual write-offs. A
// batch referenced by production write-offs cannot be deleted, so the
// production audit trail survives.
func (s *Service) DeleteBatch(ctx context.Context, batchID id.ID) error {
	b, err := s.repo.GetBatch(ctx, batchID)
	if err != nil {
		return err
	}

	writeoffs, err := s.repo.ListWriteoffs(ctx, WriteoffFilter{BatchID: &batchID})
	if err != nil {
		return err
	}
	for _, w := range writeoffs {
		if w.Reason == ReasonProduction {
			return apperror.NewBusinessRule("batch has production write-offs and cannot be deleted", map[string]any{
				"batchId":           batchID.String(),
				"productionOrderId": w.ProductionOrderID,
			})
		}
	}

	return s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.DeleteBatch(ctx, batchID); err != nil {
			return err
		}
		return s.refreshAveragePrice(ctx, b.MaterialID)
	})
}

// RegisterWriteoff appends a write-off to the log and rebuilds the
// batch projection atomically.
func (s *Service) RegisterWriteoff(ctx context.Context, w *Writeoff) error {
	if err := w.Validate(ctx); err != nil {
		return err
	}
	if id.IsNil(w.ID) {
		w.ID = id.New()
	}

	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.repo.GetBatch(ctx, w.BatchID); err != nil {
			return err
		}
		if err := s.repo.CreateWriteoff(ctx, w); err != nil {
			return err
		}
		return s.repo.RebuildBatchProjection(ctx, w.BatchID)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "write-off registered",
		"writeoff_id", w.ID,
		"batch_id", w.BatchID,
		"quantity", w.Quantity.String(),
		"reason", string(w.Reason),
	)
	return nil
}

// DeleteWriteoff removes a log entry and restores the batch
// projection. Production write-offs are part of an order's audit trail
// and cannot be deleted individually.
func (s *Service) DeleteWriteoff(ctx context.Context, writeoffID id.ID) error {
	return s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		w, err := s.repo.GetWriteoff(ctx, writeoffID)
		if err != nil {
			return err
		}
		if w.Reason == ReasonProduction {
			return apperror.NewBusinessRule("production write-offs cannot be deleted", map[string]any{
				"writeoffId":        writeoffID.String(),
				"productionOrderId": w.ProductionOrderID,
			})
		}
		if err := s.repo.DeleteWriteoff(ctx, writeoffID); err != nil {
			return err
		}
		return s.repo.RebuildBatchProjection(ctx, w.BatchID)
	})
}

func (s *Service) GetWriteoff(ctx context.Context, writeoffID id.ID) (*Writeoff, error) {
	return s.repo.GetWriteoff(ctx, writeoffID)
}

func (s *Service) ListWriteoffs(ctx context.Context, filter WriteoffFilter) ([]Writeoff, error) {
	return s.repo.ListWriteoffs(ctx, filter)
}

// RefreshAveragePrice recomputes the material's average unit price
// from its batches. Materials with no priced batches keep their
// previous value.
func (s *Service) RefreshAveragePrice(ctx context.Context, materialID id.ID) error {
	return s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.refreshAveragePrice(ctx, materialID)
	})
}

func (s *Service) refreshAveragePrice(ctx context.Context, materialID id.ID) error {
	prices, err := s.repo.ListBatchUnitPrices(ctx, materialID)
	if err != nil {
		return err
	}
	if len(prices) == 0 {
		logger.Debug(ctx, "no priced batches, keeping average price", "material_id", materialID)
		return nil
	}

	sum := decimal.Zero
	for _, p := range prices {
		sum = sum.Add(decimal.Decimal(p))
	}
	avg := sum.Div(decimal.NewFromInt(int64(len(prices))))

	return s.repo.SetMaterialAvgPrice(ctx, materialID, types.Money(avg))
}

// BatchesForDeduction returns a material's batches oldest-first with
// row locks held, for FIFO planning inside a production transaction.
func (s *Service) BatchesForDeduction(ctx context.Context, materialID id.ID) ([]BatchRemainder, error) {
	return s.repo.BatchesForUpdate(ctx, materialID)
}

// ApplyDeductions records write-offs for a production order's planned
// allocations and rebuilds the affected batch projections. Must run
// inside the caller's transaction.
func (s *Service) ApplyDeductions(ctx context.Context, orderID id.ID, allocs []Allocation) error {
	if len(allocs) == 0 {
		return nil
	}

	ws := make([]Writeoff, 0, len(allocs))
	for _, a := range allocs {
		w := NewWriteoff(a.BatchID, a.Quantity, ReasonProduction)
		w.ProductionOrderID = &orderID
		ws = append(ws, *w)
	}

	if err := s.repo.CreateWriteoffs(ctx, ws); err != nil {
		return err
	}
	for _, a := range allocs {
		if err := s.repo.RebuildBatchProjection(ctx, a.BatchID); err != nil {
			return err
		}
	}
	return nil
}

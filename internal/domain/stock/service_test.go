package stock

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"doceria/internal/core/apperror"
	"doceria/internal/core/id"
	"doceria/internal/core/types"
)

// mockTxManager runs the callback directly.
type mockTxManager struct{}

func (m *mockTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (m *mockTxManager) ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// mockRepo is an in-memory Repository.
type mockRepo struct {
	materials []id.ID
	batches   map[id.ID]*Batch
	writeoffs map[id.ID]*Writeoff

	avgPrices  map[id.ID]types.Money
	unitPrices map[id.ID][]types.Money

	rebuilt []id.ID
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		batches:    make(map[id.ID]*Batch),
		writeoffs:  make(map[id.ID]*Writeoff),
		avgPrices:  make(map[id.ID]types.Money),
		unitPrices: make(map[id.ID][]types.Money),
	}
}

func (m *mockRepo) CreateBatch(_ context.Context, b *Batch) error {
	m.batches[b.ID] = b
	return nil
}

func (m *mockRepo) GetBatch(_ context.Context, batchID id.ID) (*Batch, error) {
	b, ok := m.batches[batchID]
	if !ok {
		return nil, apperror.NewNotFound("batch", batchID.String())
	}
	cp := *b
	return &cp, nil
}

func (m *mockRepo) UpdateBatch(_ context.Context, b *Batch) error {
	m.batches[b.ID] = b
	return nil
}

func (m *mockRepo) DeleteBatch(_ context.Context, batchID id.ID) error {
	delete(m.batches, batchID)
	return nil
}

func (m *mockRepo) ListBatches(_ context.Context, filter BatchFilter) ([]*Batch, error) {
	var out []*Batch
	for _, b := range m.batches {
		if filter.MaterialID != nil && b.MaterialID != *filter.MaterialID {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (m *mockRepo) BatchesForUpdate(_ context.Context, materialID id.ID) ([]BatchRemainder, error) {
	var out []BatchRemainder
	for _, b := range m.batches {
		if b.MaterialID != materialID {
			continue
		}
		out = append(out, BatchRemainder{BatchID: b.ID, Remaining: b.CurrentQty})
	}
	return out, nil
}

func (m *mockRepo) RebuildBatchProjection(_ context.Context, batchID id.ID) error {
	b, ok := m.batches[batchID]
	if !ok {
		return apperror.NewNotFound("batch", batchID.String())
	}
	var written types.Quantity
	for _, w := range m.writeoffs {
		if w.BatchID == batchID {
			written += w.Quantity
		}
	}
	remaining := b.InitialQty - written
	if remaining.IsNegative() {
		remaining = 0
	}
	b.CurrentQty = remaining
	m.rebuilt = append(m.rebuilt, batchID)
	return nil
}

func (m *mockRepo) CreateWriteoff(_ context.Context, w *Writeoff) error {
	cp := *w
	m.writeoffs[w.ID] = &cp
	return nil
}

func (m *mockRepo) CreateWriteoffs(ctx context.Context, ws []Writeoff) error {
	for i := range ws {
		if err := m.CreateWriteoff(ctx, &ws[i]); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockRepo) GetWriteoff(_ context.Context, writeoffID id.ID) (*Writeoff, error) {
	w, ok := m.writeoffs[writeoffID]
	if !ok {
		return nil, apperror.NewNotFound("writeoff", writeoffID.String())
	}
	cp := *w
	return &cp, nil
}

func (m *mockRepo) DeleteWriteoff(_ context.Context, writeoffID id.ID) error {
	delete(m.writeoffs, writeoffID)
	return nil
}

func (m *mockRepo) ListWriteoffs(_ context.Context, filter WriteoffFilter) ([]Writeoff, error) {
	var out []Writeoff
	for _, w := range m.writeoffs {
		if filter.BatchID != nil && w.BatchID != *filter.BatchID {
			continue
		}
		out = append(out, *w)
	}
	return out, nil
}

func (m *mockRepo) SumWriteoffsByMaterial(_ context.Context, materialID id.ID) (types.Quantity, error) {
	var sum types.Quantity
	for _, w := range m.writeoffs {
		b, ok := m.batches[w.BatchID]
		if ok && b.MaterialID == materialID {
			sum += w.Quantity
		}
	}
	return sum, nil
}

func (m *mockRepo) ListBatchUnitPrices(_ context.Context, materialID id.ID) ([]types.Money, error) {
	var out []types.Money
	for _, b := range m.batches {
		if b.MaterialID == materialID && b.UnitPrice != nil {
			out = append(out, *b.UnitPrice)
		}
	}
	return out, nil
}

func (m *mockRepo) SetMaterialAvgPrice(_ context.Context, materialID id.ID, price types.Money) error {
	m.avgPrices[materialID] = price
	return nil
}

func (m *mockRepo) addMaterial() id.ID {
	materialID := id.New()
	m.materials = append(m.materials, materialID)
	return materialID
}

func (m *mockRepo) MaterialIDs(_ context.Context) ([]id.ID, error) {
	out := make([]id.ID, len(m.materials))
	copy(out, m.materials)
	return out, nil
}

var _ Repository = (*mockRepo)(nil)

func newTestService() (*Service, *mockRepo) {
	repo := newMockRepo()
	return NewService(repo, &mockTxManager{}), repo
}

func money(s string) *types.Money {
	m := types.MustMoney(s)
	return &m
}

func TestCurrentStock_AggregatesBatchesAndWriteoffs(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	materialID := id.New()

	b := NewBatch(materialID, qty(10))
	require.NoError(t, svc.CreateBatch(ctx, b))

	w1 := NewWriteoff(b.ID, qty(3), ReasonWaste)
	require.NoError(t, svc.RegisterWriteoff(ctx, w1))

	w2 := NewWriteoff(b.ID, qty(2), ReasonDamage)
	require.NoError(t, svc.RegisterWriteoff(ctx, w2))

	level, err := svc.CurrentStock(ctx, materialID)
	require.NoError(t, err)

	assert.Equal(t, qty(10), level.InitialTotal)
	assert.Equal(t, qty(5), level.WrittenOffTotal)
	assert.Equal(t, qty(5), level.Current)
}

func TestCurrentStock_ClampsAtZero(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	materialID := id.New()

	b := NewBatch(materialID, qty(5))
	require.NoError(t, repo.CreateBatch(ctx, b))

	// Log entries exceeding the batch, e.g. after a batch was trimmed.
	w := NewWriteoff(b.ID, qty(8), ReasonWaste)
	require.NoError(t, repo.CreateWriteoff(ctx, w))

	level, err := svc.CurrentStock(ctx, materialID)
	require.NoError(t, err)

	assert.Equal(t, qty(5), level.InitialTotal)
	assert.Equal(t, qty(8), level.WrittenOffTotal)
	assert.True(t, level.Current.IsZero())
}

func TestCurrentStock_SuccessiveWriteoffsClampAtZero(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	materialID := id.New()

	b := NewBatch(materialID, qty(10))
	require.NoError(t, svc.CreateBatch(ctx, b))

	level, err := svc.CurrentStock(ctx, materialID)
	require.NoError(t, err)
	assert.Equal(t, qty(10), level.Current)

	require.NoError(t, svc.RegisterWriteoff(ctx, NewWriteoff(b.ID, qty(3), ReasonWaste)))
	level, err = svc.CurrentStock(ctx, materialID)
	require.NoError(t, err)
	assert.Equal(t, qty(7), level.Current)

	require.NoError(t, svc.RegisterWriteoff(ctx, NewWriteoff(b.ID, qty(2), ReasonExpiration)))
	level, err = svc.CurrentStock(ctx, materialID)
	require.NoError(t, err)
	assert.Equal(t, qty(5), level.Current)

	require.NoError(t, svc.RegisterWriteoff(ctx, NewWriteoff(b.ID, qty(10), ReasonWaste)))
	level, err = svc.CurrentStock(ctx, materialID)
	require.NoError(t, err)
	assert.True(t, level.Current.IsZero())
	assert.Equal(t, qty(10), level.InitialTotal)
	assert.Equal(t, qty(15), level.WrittenOffTotal)

	got, err := svc.GetBatch(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, qty(10), got.InitialQty)
}

func TestCurrentStockAll_IncludesMaterialsWithoutBatches(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	stocked := repo.addMaterial()
	empty := repo.addMaterial()

	b := NewBatch(stocked, qty(4))
	require.NoError(t, svc.CreateBatch(ctx, b))

	levels, err := svc.CurrentStockAll(ctx)
	require.NoError(t, err)
	require.Len(t, levels, 2)

	byMaterial := make(map[id.ID]Level, len(levels))
	for _, l := range levels {
		byMaterial[l.MaterialID] = l
	}

	assert.Equal(t, qty(4), byMaterial[stocked].Current)
	assert.True(t, byMaterial[empty].InitialTotal.IsZero())
	assert.True(t, byMaterial[empty].Current.IsZero())
}

func TestRegisterWriteoff_RebuildsProjection(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	materialID := id.New()

	b := NewBatch(materialID, qty(10))
	require.NoError(t, svc.CreateBatch(ctx, b))

	w := NewWriteoff(b.ID, qty(4), ReasonExpiration)
	require.NoError(t, svc.RegisterWriteoff(ctx, w))

	stored, err := repo.GetBatch(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, qty(6), stored.CurrentQty)
}

func TestRegisterWriteoff_UnknownBatch(t *testing.T) {
	svc, _ := newTestService()

	w := NewWriteoff(id.New(), qty(1), ReasonWaste)
	err := svc.RegisterWriteoff(context.Background(), w)

	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeNotFound, appErr.Code)
}

func TestRegisterWriteoff_InvalidReason(t *testing.T) {
	svc, _ := newTestService()

	w := NewWriteoff(id.New(), qty(1), Reason("evaporated"))
	err := svc.RegisterWriteoff(context.Background(), w)

	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestDeleteWriteoff_RestoresProjection(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	b := NewBatch(id.New(), qty(10))
	require.NoError(t, svc.CreateBatch(ctx, b))

	w := NewWriteoff(b.ID, qty(4), ReasonWaste)
	require.NoError(t, svc.RegisterWriteoff(ctx, w))
	require.NoError(t, svc.DeleteWriteoff(ctx, w.ID))

	stored, err := repo.GetBatch(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, qty(10), stored.CurrentQty)
}

func TestDeleteWriteoff_ProductionEntriesProtected(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	b := NewBatch(id.New(), qty(10))
	require.NoError(t, svc.CreateBatch(ctx, b))

	orderID := id.New()
	w := NewWriteoff(b.ID, qty(4), ReasonProduction)
	w.ProductionOrderID = &orderID
	require.NoError(t, repo.CreateWriteoff(ctx, w))

	err := svc.DeleteWriteoff(ctx, w.ID)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeBusinessRule, appErr.Code)
}

func TestDeleteBatch_ProductionWriteoffsProtect(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	b := NewBatch(id.New(), qty(10))
	require.NoError(t, svc.CreateBatch(ctx, b))

	orderID := id.New()
	require.NoError(t, svc.ApplyDeductions(ctx, orderID, []Allocation{
		{BatchID: b.ID, Quantity: qty(4)},
	}))

	err := svc.DeleteBatch(ctx, b.ID)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeBusinessRule, appErr.Code)

	stored, err := svc.GetBatch(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, qty(6), stored.CurrentQty)
}

func TestDeleteBatch_ManualWriteoffsAllowed(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	b := NewBatch(id.New(), qty(10))
	require.NoError(t, svc.CreateBatch(ctx, b))
	require.NoError(t, svc.RegisterWriteoff(ctx, NewWriteoff(b.ID, qty(2), ReasonWaste)))

	require.NoError(t, svc.DeleteBatch(ctx, b.ID))

	_, err := repo.GetBatch(ctx, b.ID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestUpdateBatch_InitialQtyImmutable(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	b := NewBatch(id.New(), qty(10))
	require.NoError(t, svc.CreateBatch(ctx, b))

	changed := *b
	changed.InitialQty = qty(20)
	err := svc.UpdateBatch(ctx, &changed)

	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestUpdateBatch_MaterialImmutable(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	b := NewBatch(id.New(), qty(10))
	require.NoError(t, svc.CreateBatch(ctx, b))

	changed := *b
	changed.MaterialID = id.New()
	err := svc.UpdateBatch(ctx, &changed)

	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestCreateBatch_RefreshesAveragePrice(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	materialID := id.New()

	b1 := NewBatch(materialID, qty(10))
	b1.UnitPrice = money("10.00")
	require.NoError(t, svc.CreateBatch(ctx, b1))

	b2 := NewBatch(materialID, qty(10))
	b2.UnitPrice = money("12.00")
	require.NoError(t, svc.CreateBatch(ctx, b2))

	avg, ok := repo.avgPrices[materialID]
	require.True(t, ok)
	assert.True(t, avg.Equal(types.MustMoney("11.00")), "got %s", avg.String())
}

func TestCreateBatch_UnpricedKeepsAverage(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	materialID := id.New()

	b := NewBatch(materialID, qty(10))
	require.NoError(t, svc.CreateBatch(ctx, b))

	_, ok := repo.avgPrices[materialID]
	assert.False(t, ok)
}

func TestApplyDeductions_WritesProductionEntries(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	materialID := id.New()

	b1 := NewBatch(materialID, qty(2))
	b2 := NewBatch(materialID, qty(5))
	require.NoError(t, repo.CreateBatch(ctx, b1))
	require.NoError(t, repo.CreateBatch(ctx, b2))

	orderID := id.New()
	allocs := []Allocation{
		{BatchID: b1.ID, Quantity: qty(2)},
		{BatchID: b2.ID, Quantity: qty(1)},
	}
	require.NoError(t, svc.ApplyDeductions(ctx, orderID, allocs))

	ws, err := repo.ListWriteoffs(ctx, WriteoffFilter{})
	require.NoError(t, err)
	require.Len(t, ws, 2)
	for _, w := range ws {
		assert.Equal(t, ReasonProduction, w.Reason)
		require.NotNil(t, w.ProductionOrderID)
		assert.Equal(t, orderID, *w.ProductionOrderID)
	}

	stored1, _ := repo.GetBatch(ctx, b1.ID)
	stored2, _ := repo.GetBatch(ctx, b2.ID)
	assert.True(t, stored1.CurrentQty.IsZero())
	assert.Equal(t, qty(4), stored2.CurrentQty)
}

package production

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"doceria/internal/core/apperror"
	"doceria/internal/core/id"
	"doceria/internal/core/types"
	"doceria/internal/domain/recipe"
	"doceria/internal/domain/stock"
	"doceria/pkg/numerator"
)

func qty(v float64) types.Quantity { return types.NewQuantityFromFloat64(v) }

type mockTxManager struct{}

func (m *mockTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type mockOrderRepo struct {
	orders map[id.ID]*Order
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{orders: make(map[id.ID]*Order)}
}

func (m *mockOrderRepo) Create(_ context.Context, o *Order) error {
	cp := *o
	m.orders[o.ID] = &cp
	return nil
}

func (m *mockOrderRepo) GetByID(_ context.Context, orderID id.ID) (*Order, error) {
	o, ok := m.orders[orderID]
	if !ok {
		return nil, apperror.NewNotFound("production order", orderID.String())
	}
	cp := *o
	return &cp, nil
}

func (m *mockOrderRepo) Update(_ context.Context, o *Order) error {
	if _, ok := m.orders[o.ID]; !ok {
		return apperror.NewNotFound("production order", o.ID.String())
	}
	cp := *o
	m.orders[o.ID] = &cp
	return nil
}

func (m *mockOrderRepo) Delete(_ context.Context, orderID id.ID) error {
	delete(m.orders, orderID)
	return nil
}

func (m *mockOrderRepo) List(_ context.Context, _ OrderFilter) ([]*Order, error) {
	var out []*Order
	for _, o := range m.orders {
		out = append(out, o)
	}
	return out, nil
}

// mockResolver maps products to recipes and recipes to ingredients.
type mockResolver struct {
	productRecipes map[id.ID][]id.ID
	ingredients    map[id.ID][]recipe.IngredientWithMaterial
}

func newMockResolver() *mockResolver {
	return &mockResolver{
		productRecipes: make(map[id.ID][]id.ID),
		ingredients:    make(map[id.ID][]recipe.IngredientWithMaterial),
	}
}

func (m *mockResolver) RecipeIDsByProduct(_ context.Context, productID id.ID) ([]id.ID, error) {
	return m.productRecipes[productID], nil
}

func (m *mockResolver) IngredientsByRecipe(_ context.Context, recipeID id.ID) ([]recipe.IngredientWithMaterial, error) {
	return m.ingredients[recipeID], nil
}

// mockStock keeps per-material batches in insertion order.
type mockStock struct {
	batches    map[id.ID][]stock.BatchRemainder
	deductions []stock.Allocation
}

func newMockStock() *mockStock {
	return &mockStock{batches: make(map[id.ID][]stock.BatchRemainder)}
}

func (m *mockStock) CurrentStock(_ context.Context, materialID id.ID) (stock.Level, error) {
	var current types.Quantity
	for _, b := range m.batches[materialID] {
		current += b.Remaining
	}
	return stock.Level{MaterialID: materialID, InitialTotal: current, Current: current}, nil
}

func (m *mockStock) BatchesForDeduction(_ context.Context, materialID id.ID) ([]stock.BatchRemainder, error) {
	return m.batches[materialID], nil
}

func (m *mockStock) ApplyDeductions(_ context.Context, _ id.ID, allocs []stock.Allocation) error {
	m.deductions = append(m.deductions, allocs...)
	for materialID, batches := range m.batches {
		for i := range batches {
			for _, a := range allocs {
				if batches[i].BatchID == a.BatchID {
					batches[i].Remaining -= a.Quantity
				}
			}
		}
		m.batches[materialID] = batches
	}
	return nil
}

type fixture struct {
	svc      *Service
	repo     *mockOrderRepo
	resolver *mockResolver
	stock    *mockStock
}

func newFixture() *fixture {
	repo := newMockOrderRepo()
	resolver := newMockResolver()
	stk := newMockStock()
	numbers := numerator.NewMockGenerator("OP")
	svc := NewService(repo, resolver, stk, &mockTxManager{}, numbers)
	return &fixture{svc: svc, repo: repo, resolver: resolver, stock: stk}
}

// addRecipe wires product -> recipe -> one ingredient line.
func (f *fixture) addIngredient(productID id.ID, materialName string, perUnit types.Quantity) id.ID {
	recipeID := id.New()
	materialID := id.New()
	f.resolver.productRecipes[productID] = append(f.resolver.productRecipes[productID], recipeID)
	ing := recipe.IngredientWithMaterial{
		Ingredient:   *recipe.NewIngredient(recipeID, materialID, perUnit),
		MaterialName: materialName,
		MaterialUnit: "kg",
	}
	f.resolver.ingredients[recipeID] = append(f.resolver.ingredients[recipeID], ing)
	return materialID
}

func (f *fixture) addBatch(materialID id.ID, remaining types.Quantity) id.ID {
	batchID := id.New()
	f.stock.batches[materialID] = append(f.stock.batches[materialID], stock.BatchRemainder{
		BatchID:   batchID,
		Remaining: remaining,
	})
	return batchID
}

func TestCreate_AssignsNumber(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	o := NewOrder(id.New(), qty(2))
	require.NoError(t, f.svc.Create(ctx, o))

	assert.Equal(t, "OP-00001", o.Number)
	assert.Equal(t, StatusPending, o.Status)
}

func TestCreate_KeepsExplicitNumber(t *testing.T) {
	f := newFixture()

	o := NewOrder(id.New(), qty(1))
	o.Number = "OP-CUSTOM"
	require.NoError(t, f.svc.Create(context.Background(), o))

	assert.Equal(t, "OP-CUSTOM", o.Number)
}

func TestValidateStock_NoIngredientsPasses(t *testing.T) {
	f := newFixture()

	result, err := f.svc.ValidateStock(context.Background(), id.New(), qty(3))
	require.NoError(t, err)

	assert.True(t, result.Valid)
	assert.Contains(t, result.Message, "no recipe ingredients")
}

func TestValidateStock_ZeroQuantityPasses(t *testing.T) {
	f := newFixture()

	result, err := f.svc.ValidateStock(context.Background(), id.New(), 0)
	require.NoError(t, err)
	assert.True(t, result.Valid)

	productID := id.New()
	materialID := f.addIngredient(productID, "flour", qty(2))
	f.addBatch(materialID, qty(1))

	result, err = f.svc.ValidateStock(context.Background(), productID, 0)
	require.NoError(t, err)
	assert.True(t, result.Valid)
}

func TestValidateStock_RejectsNegativeQuantity(t *testing.T) {
	f := newFixture()

	_, err := f.svc.ValidateStock(context.Background(), id.New(), qty(-1))
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestValidateStock_CoveredRequirements(t *testing.T) {
	f := newFixture()
	productID := id.New()
	materialID := f.addIngredient(productID, "flour", qty(0.5))
	f.addBatch(materialID, qty(10))

	result, err := f.svc.ValidateStock(context.Background(), productID, qty(4))
	require.NoError(t, err)

	assert.True(t, result.Valid)
	require.Len(t, result.Requirements, 1)
	assert.Equal(t, qty(2), result.Requirements[0].Required)
	assert.Equal(t, qty(10), result.Requirements[0].Available)
}

func TestValidateStock_ReportsFirstShortfall(t *testing.T) {
	f := newFixture()
	productID := id.New()
	materialID := f.addIngredient(productID, "sugar", qty(2))
	f.addBatch(materialID, qty(3))

	result, err := f.svc.ValidateStock(context.Background(), productID, qty(5))
	require.NoError(t, err)

	assert.False(t, result.Valid)
	require.NotNil(t, result.Shortfall)
	assert.Equal(t, qty(10), result.Shortfall.Required)
	assert.Equal(t, qty(3), result.Shortfall.Available)
	assert.Contains(t, result.Message, "sugar")
}

func TestStart_DeductsFIFOAndMovesInProgress(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	productID := id.New()
	materialID := f.addIngredient(productID, "flour", qty(1))
	older := f.addBatch(materialID, qty(2))
	newer := f.addBatch(materialID, qty(5))

	o := NewOrder(productID, qty(3))
	require.NoError(t, f.svc.Create(ctx, o))

	result, err := f.svc.Start(ctx, o.ID)
	require.NoError(t, err)
	assert.True(t, result.Success)

	stored, err := f.repo.GetByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, stored.Status)
	assert.NotNil(t, stored.StartedAt)

	require.Len(t, f.stock.deductions, 2)
	assert.Equal(t, older, f.stock.deductions[0].BatchID)
	assert.Equal(t, qty(2), f.stock.deductions[0].Quantity)
	assert.Equal(t, newer, f.stock.deductions[1].BatchID)
	assert.Equal(t, qty(1), f.stock.deductions[1].Quantity)
}

func TestStart_InsufficientStockIsResultNotError(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	productID := id.New()
	materialID := f.addIngredient(productID, "butter", qty(2))
	f.addBatch(materialID, qty(1))

	o := NewOrder(productID, qty(1))
	require.NoError(t, f.svc.Create(ctx, o))

	result, err := f.svc.Start(ctx, o.ID)
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, result.Message, "butter")

	stored, err := f.repo.GetByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, stored.Status)
}

func TestStart_AlreadyInProgress(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	o := NewOrder(id.New(), qty(1))
	require.NoError(t, f.svc.Create(ctx, o))

	_, err := f.svc.Start(ctx, o.ID)
	require.NoError(t, err)

	_, err = f.svc.Start(ctx, o.ID)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeBusinessRule, appErr.Code)
}

func TestComplete_Lifecycle(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	o := NewOrder(id.New(), qty(1))
	require.NoError(t, f.svc.Create(ctx, o))

	// pending orders cannot complete
	_, err := f.svc.Complete(ctx, o.ID)
	require.Error(t, err)

	_, err = f.svc.Start(ctx, o.ID)
	require.NoError(t, err)

	completed, err := f.svc.Complete(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, completed.Status)
	assert.NotNil(t, completed.CompletedAt)

	// completing twice fails
	_, err = f.svc.Complete(ctx, o.ID)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeOrderCompleted, appErr.Code)
}

func TestUpdate_CompletedOrderImmutable(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	o := NewOrder(id.New(), qty(1))
	require.NoError(t, f.svc.Create(ctx, o))
	_, err := f.svc.Start(ctx, o.ID)
	require.NoError(t, err)
	_, err = f.svc.Complete(ctx, o.ID)
	require.NoError(t, err)

	o.Notes = "changed"
	err = f.svc.Update(ctx, o)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeOrderCompleted, appErr.Code)
}

func TestUpdate_InProgressQuantityFrozen(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	o := NewOrder(id.New(), qty(2))
	require.NoError(t, f.svc.Create(ctx, o))
	_, err := f.svc.Start(ctx, o.ID)
	require.NoError(t, err)

	changed, err := f.repo.GetByID(ctx, o.ID)
	require.NoError(t, err)
	changed.Quantity = qty(5)
	err = f.svc.Update(ctx, changed)
	require.Error(t, err)

	// notes may still change
	changed, err = f.repo.GetByID(ctx, o.ID)
	require.NoError(t, err)
	changed.Notes = "rush order"
	require.NoError(t, f.svc.Update(ctx, changed))
}

func TestDelete_AnyStatus(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	started := NewOrder(id.New(), qty(1))
	require.NoError(t, f.svc.Create(ctx, started))
	_, err := f.svc.Start(ctx, started.ID)
	require.NoError(t, err)
	require.NoError(t, f.svc.Delete(ctx, started.ID))

	pending := NewOrder(id.New(), qty(1))
	require.NoError(t, f.svc.Create(ctx, pending))
	require.NoError(t, f.svc.Delete(ctx, pending.ID))

	err = f.svc.Delete(ctx, id.New())
	assert.True(t, apperror.IsNotFound(err))
}

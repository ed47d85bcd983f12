package material

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"doceria/internal/core/apperror"
	"doceria/internal/core/id"
	"doceria/internal/core/types"
	"doceria/internal/domain"
	"doceria/internal/domain/recipe"
	"doceria/internal/domain/stock"
)

func qty(v float64) types.Quantity { return types.NewQuantityFromFloat64(v) }

type mockRepo struct {
	materials map[id.ID]*Material
}

func newMockRepo() *mockRepo {
	return &mockRepo{materials: make(map[id.ID]*Material)}
}

func (m *mockRepo) Create(_ context.Context, mat *Material) error {
	cp := *mat
	m.materials[mat.ID] = &cp
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, materialID id.ID) (*Material, error) {
	mat, ok := m.materials[materialID]
	if !ok {
		return nil, apperror.NewNotFound("material", materialID.String())
	}
	cp := *mat
	return &cp, nil
}

func (m *mockRepo) Update(_ context.Context, mat *Material) error {
	cp := *mat
	m.materials[mat.ID] = &cp
	return nil
}

func (m *mockRepo) Delete(_ context.Context, materialID id.ID) error {
	delete(m.materials, materialID)
	return nil
}

func (m *mockRepo) List(_ context.Context, _ domain.ListFilter) ([]*Material, error) {
	var out []*Material
	for _, mat := range m.materials {
		out = append(out, mat)
	}
	return out, nil
}

type mockUsage struct {
	usages map[id.ID][]recipe.MaterialUsage
}

func (m *mockUsage) RecipesUsingMaterial(_ context.Context, materialID id.ID) ([]recipe.MaterialUsage, error) {
	return m.usages[materialID], nil
}

type mockStocker struct {
	levels map[id.ID]types.Quantity
}

func (m *mockStocker) CurrentStock(_ context.Context, materialID id.ID) (stock.Level, error) {
	current := m.levels[materialID]
	return stock.Level{MaterialID: materialID, Current: current}, nil
}

type fixture struct {
	svc     *Service
	repo    *mockRepo
	usage   *mockUsage
	stocker *mockStocker
}

func newFixture() *fixture {
	repo := newMockRepo()
	usage := &mockUsage{usages: make(map[id.ID][]recipe.MaterialUsage)}
	stocker := &mockStocker{levels: make(map[id.ID]types.Quantity)}
	return &fixture{
		svc:     NewService(repo, usage, stocker),
		repo:    repo,
		usage:   usage,
		stocker: stocker,
	}
}

func TestCreate_Validates(t *testing.T) {
	f := newFixture()

	err := f.svc.Create(context.Background(), NewMaterial("", UnitKilogram))
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)

	require.NoError(t, f.svc.Create(context.Background(), NewMaterial("farinha", UnitKilogram)))
}

func TestCreate_RejectsUnknownUnit(t *testing.T) {
	f := newFixture()

	err := f.svc.Create(context.Background(), NewMaterial("farinha", Unit("barrel")))
	require.Error(t, err)
}

func TestUpdate_PreservesAveragePrice(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	m := NewMaterial("chocolate", UnitKilogram)
	require.NoError(t, f.svc.Create(ctx, m))

	price := types.MustMoney("45.50")
	stored := f.repo.materials[m.ID]
	stored.AvgUnitPrice = &price

	changed := *m
	changed.Name = "chocolate 70%"
	changed.AvgUnitPrice = nil
	require.NoError(t, f.svc.Update(ctx, &changed))

	after, err := f.svc.GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "chocolate 70%", after.Name)
	require.NotNil(t, after.AvgUnitPrice)
	assert.True(t, after.AvgUnitPrice.Equal(price))
}

func TestDelete_BlockedWhenUsedByRecipes(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	m := NewMaterial("leite condensado", UnitCan)
	require.NoError(t, f.svc.Create(ctx, m))
	f.usage.usages[m.ID] = []recipe.MaterialUsage{
		{RecipeID: id.New(), RecipeName: "brigadeiro", Quantity: qty(2)},
	}

	err := f.svc.Delete(ctx, m.ID)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeMaterialInUse, appErr.Code)

	// still present
	_, err = f.svc.GetByID(ctx, m.ID)
	require.NoError(t, err)
}

func TestDelete_UnusedMaterial(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	m := NewMaterial("corante", UnitPiece)
	require.NoError(t, f.svc.Create(ctx, m))
	require.NoError(t, f.svc.Delete(ctx, m.ID))

	_, err := f.svc.GetByID(ctx, m.ID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestCheckUsage(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	m := NewMaterial("manteiga", UnitKilogram)
	require.NoError(t, f.svc.Create(ctx, m))

	report, err := f.svc.CheckUsage(ctx, m.ID)
	require.NoError(t, err)
	assert.False(t, report.IsUsed)

	f.usage.usages[m.ID] = []recipe.MaterialUsage{
		{RecipeID: id.New(), RecipeName: "bolo", Quantity: qty(0.2)},
	}

	report, err = f.svc.CheckUsage(ctx, m.ID)
	require.NoError(t, err)
	assert.True(t, report.IsUsed)
	require.Len(t, report.Recipes, 1)
	assert.Equal(t, "bolo", report.Recipes[0].RecipeName)
}

func TestCritical_AtOrBelowMinimum(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	low := NewMaterial("acucar", UnitKilogram)
	low.MinLevel = qty(5)
	require.NoError(t, f.svc.Create(ctx, low))
	f.stocker.levels[low.ID] = qty(5) // exactly at minimum

	ok := NewMaterial("farinha", UnitKilogram)
	ok.MinLevel = qty(5)
	require.NoError(t, f.svc.Create(ctx, ok))
	f.stocker.levels[ok.ID] = qty(8)

	zeroMin := NewMaterial("fermento", UnitGram)
	require.NoError(t, f.svc.Create(ctx, zeroMin))
	f.stocker.levels[zeroMin.ID] = qty(1)

	critical, err := f.svc.Critical(ctx)
	require.NoError(t, err)
	require.Len(t, critical, 1)
	assert.Equal(t, low.ID, critical[0].ID)
	assert.Equal(t, qty(5), critical[0].CurrentStock)
}

func TestCritical_ZeroMinShowsWhenOut(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	m := NewMaterial("baunilha", UnitMillil)
	require.NoError(t, f.svc.Create(ctx, m))
	// no stock at all

	critical, err := f.svc.Critical(ctx)
	require.NoError(t, err)
	require.Len(t, critical, 1)
	assert.Equal(t, m.ID, critical[0].ID)
}

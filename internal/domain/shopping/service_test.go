package shopping

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"doceria/internal/core/apperror"
	"doceria/internal/core/id"
	"doceria/internal/core/types"
	"doceria/internal/domain"
	"doceria/pkg/numerator"
)

func qty(v float64) types.Quantity { return types.NewQuantityFromFloat64(v) }

func money(s string) *types.Money {
	m := types.MustMoney(s)
	return &m
}

type mockRepo struct {
	lists     map[id.ID]*List
	items     map[id.ID]*Item
	materials map[id.ID]struct {
		name  string
		unit  string
		price *types.Money
	}
}

var _ Repository = (*mockRepo)(nil)

func newMockRepo() *mockRepo {
	return &mockRepo{
		lists: make(map[id.ID]*List),
		items: make(map[id.ID]*Item),
		materials: make(map[id.ID]struct {
			name  string
			unit  string
			price *types.Money
		}),
	}
}

func (r *mockRepo) addMaterial(name, unit string, price *types.Money) id.ID {
	mid := id.New()
	r.materials[mid] = struct {
		name  string
		unit  string
		price *types.Money
	}{name, unit, price}
	return mid
}

func (r *mockRepo) Create(_ context.Context, l *List) error {
	r.lists[l.ID] = l
	return nil
}

func (r *mockRepo) GetByID(_ context.Context, listID id.ID) (*List, error) {
	l, ok := r.lists[listID]
	if !ok {
		return nil, apperror.NewNotFound("shopping list", listID)
	}
	cp := *l
	return &cp, nil
}

func (r *mockRepo) Update(_ context.Context, l *List) error {
	if _, ok := r.lists[l.ID]; !ok {
		return apperror.NewNotFound("shopping list", l.ID)
	}
	r.lists[l.ID] = l
	return nil
}

func (r *mockRepo) Delete(_ context.Context, listID id.ID) error {
	delete(r.lists, listID)
	return nil
}

func (r *mockRepo) List(_ context.Context, _ domain.ListFilter) ([]*List, error) {
	out := make([]*List, 0, len(r.lists))
	for _, l := range r.lists {
		out = append(out, l)
	}
	return out, nil
}

func (r *mockRepo) CreateItem(_ context.Context, i *Item) error {
	r.items[i.ID] = i
	return nil
}

func (r *mockRepo) UpdateItem(_ context.Context, i *Item) error {
	if _, ok := r.items[i.ID]; !ok {
		return apperror.NewNotFound("shopping list item", i.ID)
	}
	r.items[i.ID] = i
	return nil
}

func (r *mockRepo) DeleteItem(_ context.Context, itemID id.ID) error {
	delete(r.items, itemID)
	return nil
}

func (r *mockRepo) GetItem(_ context.Context, itemID id.ID) (*Item, error) {
	i, ok := r.items[itemID]
	if !ok {
		return nil, apperror.NewNotFound("shopping list item", itemID)
	}
	cp := *i
	return &cp, nil
}

func (r *mockRepo) ListItems(_ context.Context, listID id.ID) ([]ItemWithMaterial, error) {
	var out []ItemWithMaterial
	for _, i := range r.items {
		if i.ListID != listID {
			continue
		}
		mat := r.materials[i.MaterialID]
		out = append(out, ItemWithMaterial{
			Item:             *i,
			MaterialName:     mat.name,
			MaterialUnit:     mat.unit,
			MaterialAvgPrice: mat.price,
		})
	}
	return out, nil
}

func TestCreate_RequiresName(t *testing.T) {
	svc := NewService(newMockRepo(), numerator.NewMockGenerator("LC"))

	err := svc.Create(context.Background(), NewList(""))

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestCreate_AssignsNumber(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, numerator.NewMockGenerator("LC"))

	first := NewList("feira da semana")
	require.NoError(t, svc.Create(context.Background(), first))
	assert.Equal(t, "LC-00001", first.Number)

	second := NewList("reposição de embalagens")
	require.NoError(t, svc.Create(context.Background(), second))
	assert.Equal(t, "LC-00002", second.Number)
}

func TestAddItem_UnknownList(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, numerator.NewMockGenerator("LC"))
	mid := repo.addMaterial("farinha", "kg", money("4.50"))

	err := svc.AddItem(context.Background(), NewItem(id.New(), mid, qty(2)))

	assert.True(t, apperror.IsNotFound(err))
}

func TestAddItem_RejectsNonPositiveQuantity(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, numerator.NewMockGenerator("LC"))
	l := NewList("feira da semana")
	require.NoError(t, svc.Create(context.Background(), l))
	mid := repo.addMaterial("farinha", "kg", nil)

	err := svc.AddItem(context.Background(), NewItem(l.ID, mid, qty(0)))

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestGetByID_LoadsItems(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, numerator.NewMockGenerator("LC"))
	ctx := context.Background()

	l := NewList("feira da semana")
	require.NoError(t, svc.Create(ctx, l))
	mid := repo.addMaterial("leite condensado", "lata", money("6.80"))
	require.NoError(t, svc.AddItem(ctx, NewItem(l.ID, mid, qty(4))))

	got, err := svc.GetByID(ctx, l.ID)

	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "leite condensado", got.Items[0].MaterialName)
	assert.Equal(t, "lata", got.Items[0].MaterialUnit)
}

func TestListWithTotals_EstimatesFromAveragePrices(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, numerator.NewMockGenerator("LC"))
	ctx := context.Background()

	l := NewList("compras do mes")
	require.NoError(t, svc.Create(ctx, l))

	flour := repo.addMaterial("farinha", "kg", money("4.50"))
	sugar := repo.addMaterial("acucar", "kg", money("3.20"))
	require.NoError(t, svc.AddItem(ctx, NewItem(l.ID, flour, qty(2))))
	require.NoError(t, svc.AddItem(ctx, NewItem(l.ID, sugar, qty(1.5))))

	totals, err := svc.ListWithTotals(ctx, domain.DefaultListFilter())

	require.NoError(t, err)
	require.Len(t, totals, 1)
	assert.Equal(t, 2, totals[0].ItemCount)
	// 2 * 4.50 + 1.5 * 3.20 = 13.80
	assert.True(t, totals[0].EstimatedCost.Equal(*money("13.80")))
}

func TestListWithTotals_UnpricedMaterialContributesZero(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, numerator.NewMockGenerator("LC"))
	ctx := context.Background()

	l := NewList("encomenda especial")
	require.NoError(t, svc.Create(ctx, l))

	priced := repo.addMaterial("chocolate", "kg", money("30.00"))
	unpriced := repo.addMaterial("corante", "un", nil)
	require.NoError(t, svc.AddItem(ctx, NewItem(l.ID, priced, qty(0.5))))
	require.NoError(t, svc.AddItem(ctx, NewItem(l.ID, unpriced, qty(3))))

	totals, err := svc.ListWithTotals(ctx, domain.DefaultListFilter())

	require.NoError(t, err)
	require.Len(t, totals, 1)
	assert.Equal(t, 2, totals[0].ItemCount)
	assert.True(t, totals[0].EstimatedCost.Equal(*money("15.00")))
}

func TestTogglePurchased_Flips(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, numerator.NewMockGenerator("LC"))
	ctx := context.Background()

	l := NewList("feira")
	require.NoError(t, svc.Create(ctx, l))
	mid := repo.addMaterial("manteiga", "kg", nil)
	item := NewItem(l.ID, mid, qty(1))
	require.NoError(t, svc.AddItem(ctx, item))

	got, err := svc.TogglePurchased(ctx, item.ID)
	require.NoError(t, err)
	assert.True(t, got.Purchased)

	got, err = svc.TogglePurchased(ctx, item.ID)
	require.NoError(t, err)
	assert.False(t, got.Purchased)
}

func TestTogglePurchased_UnknownItem(t *testing.T) {
	svc := NewService(newMockRepo(), numerator.NewMockGenerator("LC"))

	_, err := svc.TogglePurchased(context.Background(), id.New())

	assert.True(t, apperror.IsNotFound(err))
}

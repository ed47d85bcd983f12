package recipe

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"doceria/internal/core/apperror"
	"doceria/internal/core/id"
	"doceria/internal/core/types"
	"doceria/internal/domain"
)

func qty(v float64) types.Quantity { return types.NewQuantityFromFloat64(v) }

func money(s string) *types.Money {
	m := types.MustMoney(s)
	return &m
}

type mockRepo struct {
	recipes     map[id.ID]*Recipe
	ingredients map[id.ID][]IngredientWithMaterial
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		recipes:     make(map[id.ID]*Recipe),
		ingredients: make(map[id.ID][]IngredientWithMaterial),
	}
}

func (m *mockRepo) Create(_ context.Context, r *Recipe) error {
	cp := *r
	m.recipes[r.ID] = &cp
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, recipeID id.ID) (*Recipe, error) {
	r, ok := m.recipes[recipeID]
	if !ok {
		return nil, apperror.NewNotFound("recipe", recipeID.String())
	}
	cp := *r
	return &cp, nil
}

func (m *mockRepo) Update(_ context.Context, r *Recipe) error {
	cp := *r
	m.recipes[r.ID] = &cp
	return nil
}

func (m *mockRepo) Delete(_ context.Context, recipeID id.ID) error {
	delete(m.recipes, recipeID)
	return nil
}

func (m *mockRepo) List(_ context.Context, _ domain.ListFilter) ([]*Recipe, error) {
	var out []*Recipe
	for _, r := range m.recipes {
		out = append(out, r)
	}
	return out, nil
}

func (m *mockRepo) CreateIngredient(_ context.Context, i *Ingredient) error {
	m.ingredients[i.RecipeID] = append(m.ingredients[i.RecipeID], IngredientWithMaterial{Ingredient: *i})
	return nil
}

func (m *mockRepo) UpdateIngredient(_ context.Context, i *Ingredient) error {
	for recipeID, list := range m.ingredients {
		for idx := range list {
			if list[idx].ID == i.ID {
				list[idx].Ingredient = *i
				m.ingredients[recipeID] = list
				return nil
			}
		}
	}
	return apperror.NewNotFound("ingredient", i.ID.String())
}

func (m *mockRepo) DeleteIngredient(_ context.Context, ingredientID id.ID) error {
	for recipeID, list := range m.ingredients {
		for idx := range list {
			if list[idx].ID == ingredientID {
				m.ingredients[recipeID] = append(list[:idx], list[idx+1:]...)
				return nil
			}
		}
	}
	return nil
}

func (m *mockRepo) GetIngredient(_ context.Context, ingredientID id.ID) (*Ingredient, error) {
	for _, list := range m.ingredients {
		for _, i := range list {
			if i.ID == ingredientID {
				cp := i.Ingredient
				return &cp, nil
			}
		}
	}
	return nil, apperror.NewNotFound("ingredient", ingredientID.String())
}

func (m *mockRepo) ListIngredients(_ context.Context, recipeID id.ID) ([]IngredientWithMaterial, error) {
	return m.ingredients[recipeID], nil
}

func (m *mockRepo) RecipesUsingMaterial(_ context.Context, materialID id.ID) ([]MaterialUsage, error) {
	var out []MaterialUsage
	for recipeID, list := range m.ingredients {
		for _, i := range list {
			if i.MaterialID == materialID {
				r := m.recipes[recipeID]
				name := ""
				if r != nil {
					name = r.Name
				}
				out = append(out, MaterialUsage{RecipeID: recipeID, RecipeName: name, Quantity: i.Quantity})
			}
		}
	}
	return out, nil
}

var _ Repository = (*mockRepo)(nil)

func addIngredient(repo *mockRepo, recipeID id.ID, quantity types.Quantity, price *types.Money) {
	ing := IngredientWithMaterial{
		Ingredient:       *NewIngredient(recipeID, id.New(), quantity),
		MaterialName:     "material",
		MaterialUnit:     "kg",
		MaterialAvgPrice: price,
	}
	repo.ingredients[recipeID] = append(repo.ingredients[recipeID], ing)
}

func TestCost_SumsIngredientCosts(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	ctx := context.Background()

	r := NewRecipe("brigadeiro")
	r.YieldQty = qty(10)
	require.NoError(t, svc.Create(ctx, r))

	// 5 kg at 10.67 + 2 un at 5.00 + 1 l at 25.00 = 53.35 + 10.00 + 25.00 = 88.35
	addIngredient(repo, r.ID, qty(5), money("10.67"))
	addIngredient(repo, r.ID, qty(2), money("5.00"))
	addIngredient(repo, r.ID, qty(1), money("25.00"))

	summary, err := svc.Cost(ctx, r.ID)
	require.NoError(t, err)

	assert.True(t, summary.TotalCost.Equal(types.MustMoney("88.35")), "total %s", summary.TotalCost.String())
	assert.True(t, summary.UnitCost.Equal(types.MustMoney("8.835")), "unit %s", summary.UnitCost.String())
}

func TestCost_UnpricedIngredientContributesZero(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	ctx := context.Background()

	r := NewRecipe("bolo")
	r.YieldQty = qty(1)
	require.NoError(t, svc.Create(ctx, r))

	addIngredient(repo, r.ID, qty(2), money("10.00"))
	addIngredient(repo, r.ID, qty(3), nil)

	summary, err := svc.Cost(ctx, r.ID)
	require.NoError(t, err)
	assert.True(t, summary.TotalCost.Equal(types.MustMoney("20.00")))
}

func TestCost_ZeroYieldUsesDivisorOne(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	ctx := context.Background()

	r := NewRecipe("calda")
	require.NoError(t, svc.Create(ctx, r))
	addIngredient(repo, r.ID, qty(1), money("5.00"))

	summary, err := svc.Cost(ctx, r.ID)
	require.NoError(t, err)
	assert.True(t, summary.UnitCost.Equal(types.MustMoney("5.00")))
}

func TestCost_NoIngredients(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	ctx := context.Background()

	r := NewRecipe("vazio")
	require.NoError(t, svc.Create(ctx, r))

	summary, err := svc.Cost(ctx, r.ID)
	require.NoError(t, err)
	assert.True(t, summary.TotalCost.IsZero())
	assert.True(t, summary.UnitCost.IsZero())
}

func TestAddIngredient_UnknownRecipe(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)

	ing := NewIngredient(id.New(), id.New(), qty(1))
	err := svc.AddIngredient(context.Background(), ing)

	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestListWithCost(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	ctx := context.Background()

	r := NewRecipe("torta")
	r.YieldQty = qty(8)
	require.NoError(t, svc.Create(ctx, r))
	addIngredient(repo, r.ID, qty(2), money("12.00"))

	out, err := svc.ListWithCost(ctx, domain.DefaultListFilter())
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.True(t, out[0].TotalCost.Equal(types.MustMoney("24.00")))
	assert.True(t, out[0].UnitCost.Equal(types.MustMoney("3.00")))
}

package shopping

import (
	"context"

	"github.com/shopspring/decimal"

	"doceria/internal/core/id"
	"doceria/internal/core/types"
	"doceria/internal/domain"
	"doceria/pkg/logger"
	"doceria/pkg/numerator"
)

// Repository persists shopping lists and their items.
type Repository interface {
	Create(ctx context.Context, l *List) error
	GetByID(ctx context.Context, listID id.ID) (*List, error)
	Update(ctx context.Context, l *List) error
	Delete(ctx context.Context, listID id.ID) error
	List(ctx context.Context, filter domain.ListFilter) ([]*List, error)

	CreateItem(ctx context.Context, i *Item) error
	UpdateItem(ctx context.Context, i *Item) error
	DeleteItem(ctx context.Context, itemID id.ID) error
	GetItem(ctx context.Context, itemID id.ID) (*Item, error)

	// ListItems returns a list's items joined with material name, unit
	// and average price.
	ListItems(ctx context.Context, listID id.ID) ([]ItemWithMaterial, error)
}

// Service implements shopping list operations.
type Service struct {
	repo    Repository
	numbers numerator.Generator
}

func NewService(repo Repository, numbers numerator.Generator) *Service {
	return &Service{repo: repo, numbers: numbers}
}

func (s *Service) Create(ctx context.Context, l *List) error {
	if err := l.Validate(ctx); err != nil {
		return err
	}
	if l.Number == "" {
		number, err := s.numbers.Next(ctx)
		if err != nil {
			return err
		}
		l.Number = number
	}
	if err := s.repo.Create(ctx, l); err != nil {
		return err
	}
	logger.Info(ctx, "shopping list created", "list_id", l.ID, "number", l.Number, "name", l.Name)
	return nil
}

// GetByID loads a list with its items.
func (s *Service) GetByID(ctx context.Context, listID id.ID) (*List, error) {
	l, err := s.repo.GetByID(ctx, listID)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.ListItems(ctx, listID)
	if err != nil {
		return nil, err
	}
	l.Items = items
	return l, nil
}

func (s *Service) Update(ctx context.Context, l *List) error {
	if err := l.Validate(ctx); err != nil {
		return err
	}
	l.Touch()
	return s.repo.Update(ctx, l)
}

func (s *Service) Delete(ctx context.Context, listID id.ID) error {
	return s.repo.Delete(ctx, listID)
}

func (s *Service) List(ctx context.Context, filter domain.ListFilter) ([]*List, error) {
	return s.repo.List(ctx, filter)
}

// ListWithTotals lists shopping lists with item counts and estimated
// costs from current average material prices.
func (s *Service) ListWithTotals(ctx context.Context, filter domain.ListFilter) ([]ListWithTotal, error) {
	lists, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	out := make([]ListWithTotal, 0, len(lists))
	for _, l := range lists {
		items, err := s.repo.ListItems(ctx, l.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, ListWithTotal{
			List:          *l,
			ItemCount:     len(items),
			EstimatedCost: estimateCost(items),
		})
	}
	return out, nil
}

func estimateCost(items []ItemWithMaterial) types.Money {
	sum := decimal.Zero
	for _, it := range items {
		if it.MaterialAvgPrice == nil {
			continue
		}
		sum = sum.Add(it.Quantity.Decimal().Mul(decimal.Decimal(*it.MaterialAvgPrice)))
	}
	return types.Money(sum)
}

func (s *Service) AddItem(ctx context.Context, i *Item) error {
	if err := i.Validate(ctx); err != nil {
		return err
	}
	if _, err := s.repo.GetByID(ctx, i.ListID); err != nil {
		return err
	}
	return s.repo.CreateItem(ctx, i)
}

func (s *Service) UpdateItem(ctx context.Context, i *Item) error {
	if err := i.Validate(ctx); err != nil {
		return err
	}
	return s.repo.UpdateItem(ctx, i)
}

func (s *Service) RemoveItem(ctx context.Context, itemID id.ID) error {
	return s.repo.DeleteItem(ctx, itemID)
}

// TogglePurchased flips the purchased flag on an item.
func (s *Service) TogglePurchased(ctx context.Context, itemID id.ID) (*Item, error) {
	item, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	item.Purchased = !item.Purchased
	if err := s.repo.UpdateItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

package material

import (
	"context"

	"doceria/internal/core/apperror"
	"doceria/internal/core/id"
	"doceria/internal/domain"
	"doceria/internal/domain/recipe"
	"doceria/internal/domain/stock"
	"doceria/pkg/logger"
)

// Repository persists materials.
type Repository interface {
	Create(ctx context.Context, m *Material) error
	GetByID(ctx context.Context, materialID id.ID) (*Material, error)
	Update(ctx context.Context, m *Material) error
	Delete(ctx context.Context, materialID id.ID) error
	List(ctx context.Context, filter domain.ListFilter) ([]*Material, error)
}

// UsageChecker reports recipes referencing a material. Implemented by
// the recipe service.
type UsageChecker interface {
	RecipesUsingMaterial(ctx context.Context, materialID id.ID) ([]recipe.MaterialUsage, error)
}

// Stocker exposes stock levels for the critical-materials report.
// Implemented by the stock service.
type Stocker interface {
	CurrentStock(ctx context.Context, materialID id.ID) (stock.Level, error)
}

// Service implements material catalog operations.
type Service struct {
	repo    Repository
	usage   UsageChecker
	stocker Stocker
}

func NewService(repo Repository, usage UsageChecker, stocker Stocker) *Service {
	return &Service{repo: repo, usage: usage, stocker: stocker}
}

func (s *Service) Create(ctx context.Context, m *Material) error {
	if err := m.Validate(ctx); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return err
	}
	logger.Info(ctx, "material created", "material_id", m.ID, "name", m.Name)
	return nil
}

func (s *Service) GetByID(ctx context.Context, materialID id.ID) (*Material, error) {
	return s.repo.GetByID(ctx, materialID)
}

// Update changes catalog fields. The average unit price is owned by
// the stock service and preserved across updates.
func (s *Service) Update(ctx context.Context, m *Material) error {
	if err := m.Validate(ctx); err != nil {
		return err
	}
	existing, err := s.repo.GetByID(ctx, m.ID)
	if err != nil {
		return err
	}
	m.AvgUnitPrice = existing.AvgUnitPrice
	m.Touch()
	return s.repo.Update(ctx, m)
}

// Delete removes a material unless recipes still reference it.
func (s *Service) Delete(ctx context.Context, materialID id.ID) error {
	usages, err := s.usage.RecipesUsingMaterial(ctx, materialID)
	if err != nil {
		return err
	}
	if len(usages) > 0 {
		names := make([]string, 0, len(usages))
		for _, u := range usages {
			names = append(names, u.RecipeName)
		}
		return apperror.NewMaterialInUse(materialID.String(), names)
	}
	return s.repo.Delete(ctx, materialID)
}

func (s *Service) List(ctx context.Context, filter domain.ListFilter) ([]*Material, error) {
	return s.repo.List(ctx, filter)
}

// CheckUsage reports whether a material can be deleted and which
// recipes hold it.
func (s *Service) CheckUsage(ctx context.Context, materialID id.ID) (UsageReport, error) {
	usages, err := s.usage.RecipesUsingMaterial(ctx, materialID)
	if err != nil {
		return UsageReport{}, err
	}
	report := UsageReport{IsUsed: len(usages) > 0}
	for _, u := range usages {
		report.Recipes = append(report.Recipes, UsageLine{RecipeName: u.RecipeName, Quantity: u.Quantity})
	}
	return report, nil
}

// Critical lists materials whose current stock is at or below their
// minimum level. Materials with a zero minimum level only show up
// once fully out of stock.
func (s *Service) Critical(ctx context.Context) ([]CriticalMaterial, error) {
	materials, err := s.repo.List(ctx, domain.ListFilter{OrderBy: "name"})
	if err != nil {
		return nil, err
	}

	var critical []CriticalMaterial
	for _, m := range materials {
		level, err := s.stocker.CurrentStock(ctx, m.ID)
		if err != nil {
			return nil, err
		}
		if level.Current <= m.MinLevel {
			critical = append(critical, CriticalMaterial{Material: *m, CurrentStock: level.Current})
		}
	}
	return critical, nil
}

package product

import (
	"context"

	"doceria/internal/core/id"
	"doceria/internal/domain"
	"doceria/pkg/logger"
)

// Repository persists products and the product-recipe links.
type Repository interface {
	Create(ctx context.Context, p *Product) error
	GetByID(ctx context.Context, productID id.ID) (*Product, error)
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, productID id.ID) error
	List(ctx context.Context, filter domain.ListFilter) ([]*Product, error)

	LinkRecipe(ctx context.Context, productID, recipeID id.ID) error
	UnlinkRecipe(ctx context.Context, productID, recipeID id.ID) error
	RecipeIDsByProduct(ctx context.Context, productID id.ID) ([]id.ID, error)
}

// Service implements product catalog operations.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, p *Product) error {
	if err := p.Validate(ctx); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return err
	}
	logger.Info(ctx, "product created", "product_id", p.ID, "name", p.Name)
	return nil
}

// GetByID loads a product with its recipe links.
func (s *Service) GetByID(ctx context.Context, productID id.ID) (*Product, error) {
	p, err := s.repo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	recipeIDs, err := s.repo.RecipeIDsByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	p.RecipeIDs = recipeIDs
	return p, nil
}

func (s *Service) Update(ctx context.Context, p *Product) error {
	if err := p.Validate(ctx); err != nil {
		return err
	}
	p.Touch()
	return s.repo.Update(ctx, p)
}

func (s *Service) Delete(ctx context.Context, productID id.ID) error {
	return s.repo.Delete(ctx, productID)
}

func (s *Service) List(ctx context.Context, filter domain.ListFilter) ([]*Product, error) {
	return s.repo.List(ctx, filter)
}

func (s *Service) LinkRecipe(ctx context.Context, productID, recipeID id.ID) error {
	if _, err := s.repo.GetByID(ctx, productID); err != nil {
		return err
	}
	return s.repo.LinkRecipe(ctx, productID, recipeID)
}

func (s *Service) UnlinkRecipe(ctx context.Context, productID, recipeID id.ID) error {
	return s.repo.UnlinkRecipe(ctx, productID, recipeID)
}

// RecipeIDsByProduct exposes the recipe links for production planning.
func (s *Service) RecipeIDsByProduct(ctx context.Context, productID id.ID) ([]id.ID, error) {
	return s.repo.RecipeIDsByProduct(ctx, productID)
}

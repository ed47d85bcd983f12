package customer

import (
	"context"

	"doceria/internal/core/id"
	"doceria/internal/domain"
	"doceria/pkg/logger"
)

// Repository persists customers.
type Repository interface {
	Create(ctx context.Context, c *Customer) error
	GetByID(ctx context.Context, customerID id.ID) (*Customer, error)
	Update(ctx context.Context, c *Customer) error
	Delete(ctx context.Context, customerID id.ID) error
	List(ctx context.Context, filter domain.ListFilter) ([]*Customer, error)
}

// Service implements customer catalog operations.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, c *Customer) error {
	if err := c.Validate(ctx); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return err
	}
	logger.Info(ctx, "customer created", "customer_id", c.ID, "name", c.Name)
	return nil
}

func (s *Service) GetByID(ctx context.Context, customerID id.ID) (*Customer, error) {
	return s.repo.GetByID(ctx, customerID)
}

func (s *Service) Update(ctx context.Context, c *Customer) error {
	if err := c.Validate(ctx); err != nil {
		return err
	}
	c.Touch()
	return s.repo.Update(ctx, c)
}

func (s *Service) Delete(ctx context.Context, customerID id.ID) error {
	return s.repo.Delete(ctx, customerID)
}

func (s *Service) List(ctx context.Context, filter domain.ListFilter) ([]*Customer, error) {
	return s.repo.List(ctx, filter)
}

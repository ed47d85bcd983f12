package production

import (
	"context"
	"fmt"
	"time"

	"doceria/internal/core/apperror"
	"doceria/internal/core/id"
	"doceria/internal/core/tx"
	"doceria/internal/core/types"
	"doceria/internal/domain/stock"
	"doceria/pkg/logger"
	"doceria/pkg/numerator"
)

// Service implements production order operations: CRUD, stock
// validation and the FIFO deduction that happens when an order starts.
type Service struct {
	repo    Repository
	recipes RecipeResolver
	stock   StockKeeper
	txm     tx.Manager
	numbers numerator.Generator
}

func NewService(repo Repository, recipes RecipeResolver, stk StockKeeper, txm tx.Manager, numbers numerator.Generator) *Service {
	return &Service{
		repo:    repo,
		recipes: recipes,
		stock:   stk,
		txm:     txm,
		numbers: numbers,
	}
}

func (s *Service) Create(ctx context.Context, o *Order) error {
	if o.Status == "" {
		o.Status = StatusPending
	}
	if err := o.Validate(ctx); err != nil {
		return err
	}

	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		if o.Number == "" {
			number, err := s.numbers.Next(ctx)
			if err != nil {
				return err
			}
			o.Number = number
		}
		return s.repo.Create(ctx, o)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "production order created",
		"order_id", o.ID,
		"number", o.Number,
		"product_id", o.ProductID,
		"quantity", o.Quantity.String(),
	)
	return nil
}

func (s *Service) GetByID(ctx context.Context, orderID id.ID) (*Order, error) {
	return s.repo.GetByID(ctx, orderID)
}

func (s *Service) List(ctx context.Context, filter OrderFilter) ([]*Order, error) {
	return s.repo.List(ctx, filter)
}

// Update changes mutable fields of an order. Completed orders are
// immutable, and the quantity of an order already in progress is
// fixed because its stock has been deducted.
func (s *Service) Update(ctx context.Context, o *Order) error {
	if err := o.Validate(ctx); err != nil {
		return err
	}
	existing, err := s.repo.GetByID(ctx, o.ID)
	if err != nil {
		return err
	}
	if existing.Status == StatusCompleted {
		return apperror.NewOrderCompleted(o.ID.String())
	}
	if existing.Status == StatusInProgress && existing.Quantity != o.Quantity {
		return apperror.NewBusinessRule("quantity of an order in progress cannot change", map[string]any{
			"orderId": o.ID.String(),
		})
	}
	o.Number = existing.Number
	o.Touch()
	return s.repo.Update(ctx, o)
}

// Delete removes an order at any status. Write-offs created by a
// deduction keep their order reference as the audit trail.
func (s *Service) Delete(ctx context.Context, orderID id.ID) error {
	if _, err := s.repo.GetByID(ctx, orderID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, orderID)
}

// requirements flattens the product's recipes into material amounts
// for the given number of preparations. Each ingredient contributes
// its own line; a material appearing in several recipes is checked
// per line.
func (s *Service) requirements(ctx context.Context, productID id.ID, preparations types.Quantity) ([]Requirement, error) {
	recipeIDs, err := s.recipes.RecipeIDsByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	var reqs []Requirement
	for _, recipeID := range recipeIDs {
		ingredients, err := s.recipes.IngredientsByRecipe(ctx, recipeID)
		if err != nil {
			return nil, err
		}
		for _, ing := range ingredients {
			reqs = append(reqs, Requirement{
				MaterialID:   ing.MaterialID,
				MaterialName: ing.MaterialName,
				Required:     ing.Quantity.Mul(preparations),
			})
		}
	}
	return reqs, nil
}

// ValidateStock checks whether current stock covers producing the
// given number of preparations. Zero preparations, a product without
// recipes, or recipes without ingredients all pass trivially. The
// check stops at the first shortfall.
func (s *Service) ValidateStock(ctx context.Context, productID id.ID, preparations types.Quantity) (ValidationResult, error) {
	if preparations.IsNegative() {
		return ValidationResult{}, apperror.NewValidation("quantity must not be negative", map[string]any{"field": "quantity"})
	}

	reqs, err := s.requirements(ctx, productID, preparations)
	if err != nil {
		return ValidationResult{}, err
	}
	if len(reqs) == 0 {
		return ValidationResult{Valid: true, Message: "product has no recipe ingredients to consume"}, nil
	}

	checked := make([]Requirement, 0, len(reqs))
	for _, req := range reqs {
		level, err := s.stock.CurrentStock(ctx, req.MaterialID)
		if err != nil {
			return ValidationResult{}, err
		}
		req.Available = level.Current
		if req.Available < req.Required {
			shortfall := req
			return ValidationResult{
				Valid: false,
				Message: fmt.Sprintf("insufficient stock of %s: required %s, available %s",
					req.MaterialName, req.Required.String(), req.Available.String()),
				Shortfall: &shortfall,
			}, nil
		}
		checked = append(checked, req)
	}

	return ValidationResult{Valid: true, Requirements: checked}, nil
}

// deductLocked plans and applies FIFO deductions for every
// requirement. Must run inside a transaction; returns an
// insufficient-stock error to abort it when any material cannot be
// covered, leaving no partial deduction behind.
func (s *Service) deductLocked(ctx context.Context, orderID, productID id.ID, preparations types.Quantity) error {
	reqs, err := s.requirements(ctx, productID, preparations)
	if err != nil {
		return err
	}

	for _, req := range reqs {
		batches, err := s.stock.BatchesForDeduction(ctx, req.MaterialID)
		if err != nil {
			return err
		}
		allocs, shortfall := stock.PlanFIFO(batches, req.Required)
		if shortfall.IsPositive() {
			available := req.Required - shortfall
			return apperror.NewInsufficientStock(req.MaterialName, req.Required.Float64(), available.Float64())
		}
		if err := s.stock.ApplyDeductions(ctx, orderID, allocs); err != nil {
			return err
		}
	}
	return nil
}

// DeductStock runs the FIFO deduction for an order atomically. A
// shortfall rolls everything back and is reported as a failed result,
// not an error.
func (s *Service) DeductStock(ctx context.Context, orderID, productID id.ID, preparations types.Quantity) (DeductionResult, error) {
	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.deductLocked(ctx, orderID, productID, preparations)
	})
	if err != nil {
		if appErr, ok := apperror.AsAppError(err); ok && appErr.Code == apperror.CodeInsufficientStock {
			return DeductionResult{Success: false, Message: appErr.Message}, nil
		}
		return DeductionResult{}, err
	}
	return DeductionResult{Success: true, Message: "stock deducted"}, nil
}

// Start moves a pending order to in progress, deducting its material
// requirements FIFO in the same transaction as the status change.
func (s *Service) Start(ctx context.Context, orderID id.ID) (DeductionResult, error) {
	order, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return DeductionResult{}, err
	}
	if order.Status == StatusCompleted {
		return DeductionResult{}, apperror.NewOrderCompleted(orderID.String())
	}
	if order.Status == StatusInProgress {
		return DeductionResult{}, apperror.NewBusinessRule("order is already in progress", map[string]any{
			"orderId": orderID.String(),
		})
	}

	err = s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.deductLocked(ctx, order.ID, order.ProductID, order.Quantity); err != nil {
			return err
		}
		now := time.Now()
		order.Status = StatusInProgress
		order.StartedAt = &now
		order.Touch()
		return s.repo.Update(ctx, order)
	})
	if err != nil {
		if appErr, ok := apperror.AsAppError(err); ok && appErr.Code == apperror.CodeInsufficientStock {
			logger.Warn(ctx, "production start rejected",
				"order_id", orderID,
				"reason", appErr.Message,
			)
			return DeductionResult{Success: false, Message: appErr.Message}, nil
		}
		return DeductionResult{}, err
	}

	logger.Info(ctx, "production order started", "order_id", orderID, "number", order.Number)
	return DeductionResult{Success: true, Message: "production started"}, nil
}

// Complete marks an in-progress order as completed.
func (s *Service) Complete(ctx context.Context, orderID id.ID) (*Order, error) {
	order, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status == StatusCompleted {
		return nil, apperror.NewOrderCompleted(orderID.String())
	}
	if order.Status != StatusInProgress {
		return nil, apperror.NewBusinessRule("only orders in progress can be completed", map[string]any{
			"orderId": orderID.String(),
			"status":  string(order.Status),
		})
	}

	now := time.Now()
	order.Status = StatusCompleted
	order.CompletedAt = &now
	order.Touch()
	if err := s.repo.Update(ctx, order); err != nil {
		return nil, err
	}

	logger.Info(ctx, "production order completed", "order_id", orderID, "number", order.Number)
	return order, nil
}

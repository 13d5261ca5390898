package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/eventis/budget-api/internal/domain"
	"github.com/eventis/budget-api/internal/mapper"
	"github.com/eventis/budget-api/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// WorkOrderPolicy selects when a budget spawns its service order
type WorkOrderPolicy string

const (
	// PolicyOnCreate spawns the order as soon as the budget is created
	PolicyOnCreate WorkOrderPolicy = "on_create"
	// PolicyOnApproval defers the order until the client approves
	PolicyOnApproval WorkOrderPolicy = "on_approval"
)

// IsValid checks if the WorkOrderPolicy is a valid enum value
func (p WorkOrderPolicy) IsValid() bool {
	return p == PolicyOnCreate || p == PolicyOnApproval
}

// ServiceOrderService handles business logic for service orders
type ServiceOrderService struct {
	orderRepo *repository.ServiceOrderRepository
	logger    *zap.Logger
}

// NewServiceOrderService creates a new ServiceOrderService instance
func NewServiceOrderService(orderRepo *repository.ServiceOrderRepository, logger *zap.Logger) *ServiceOrderService {
	return &ServiceOrderService{orderRepo: orderRepo, logger: logger}
}

// EnsureForBudgetTx creates the budget's service order inside the caller's
// transaction unless one already exists. Safe to call from both creation
// policies; a budget never gets a second order.
func (s *ServiceOrderService) EnsureForBudgetTx(tx *gorm.DB, budget *domain.Budget) (*domain.ServiceOrder, error) {
	exists, err := s.orderRepo.ExistsForBudget(tx, budget.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check service order: %w", err)
	}
	if exists {
		return nil, nil
	}

	order := &domain.ServiceOrder{
		BudgetID:      budget.ID,
		ProjectID:     budget.ProjectID,
		Status:        domain.ExecutionStatusPending,
		CreatedByID:   budget.CreatedByID,
		CreatedByName: budget.CreatedByName,
	}
	for i := range budget.Items {
		item := &budget.Items[i]
		if !item.IsApproved {
			continue
		}
		order.Items = append(order.Items, domain.ServiceOrderItem{
			Name:        item.Name,
			Description: item.Description,
			Quantity:    item.Quantity,
			Status:      domain.ExecutionStatusPending,
		})
	}

	if err := s.orderRepo.CreateTx(tx, order); err != nil {
		return nil, fmt.Errorf("failed to create service order: %w", err)
	}

	s.logger.Info("service order created",
		zap.String("serviceOrderId", order.ID.String()),
		zap.String("budgetId", budget.ID.String()),
		zap.Int("items", len(order.Items)))
	return order, nil
}

// GetByID returns a service order with its items
func (s *ServiceOrderService) GetByID(ctx context.Context, id uuid.UUID) (*domain.ServiceOrderDTO, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrServiceOrderNotFound
		}
		return nil, fmt.Errorf("failed to get service order: %w", err)
	}

	dto := mapper.ToServiceOrderDTO(order)
	return &dto, nil
}

// GetByBudget returns the service order spawned by a budget, if any
func (s *ServiceOrderService) GetByBudget(ctx context.Context, budgetID uuid.UUID) (*domain.ServiceOrderDTO, error) {
	order, err := s.orderRepo.GetByBudget(ctx, budgetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrServiceOrderNotFound
		}
		return nil, fmt.Errorf("failed to get service order: %w", err)
	}

	dto := mapper.ToServiceOrderDTO(order)
	return &dto, nil
}

// List returns all service orders
func (s *ServiceOrderService) List(ctx context.Context) ([]domain.ServiceOrderDTO, error) {
	orders, err := s.orderRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list service orders: %w", err)
	}

	dtos := make([]domain.ServiceOrderDTO, 0, len(orders))
	for i := range orders {
		dtos = append(dtos, mapper.ToServiceOrderDTO(&orders[i]))
	}
	return dtos, nil
}

// UpdateStatus moves a service order to a new execution state
func (s *ServiceOrderService) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ExecutionStatus) (*domain.ServiceOrderDTO, error) {
	if !status.IsValid() {
		return nil, ErrInvalidInput
	}

	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrServiceOrderNotFound
		}
		return nil, fmt.Errorf("failed to get service order: %w", err)
	}

	order.Status = status
	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to update service order: %w", err)
	}

	s.logger.Info("service order status changed",
		zap.String("serviceOrderId", id.String()),
		zap.String("status", string(status)))

	dto := mapper.ToServiceOrderDTO(order)
	return &dto, nil
}

// UpdateItemStatus moves a single order item to a new execution state
func (s *ServiceOrderService) UpdateItemStatus(ctx context.Context, itemID uuid.UUID, status domain.ExecutionStatus) error {
	if !status.IsValid() {
		return ErrInvalidInput
	}

	item, err := s.orderRepo.GetItem(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrServiceOrderNotFound
		}
		return fmt.Errorf("failed to get service order item: %w", err)
	}

	item.Status = status
	if err := s.orderRepo.UpdateItem(ctx, item); err != nil {
		return fmt.Errorf("failed to update service order item: %w", err)
	}
	return nil
}

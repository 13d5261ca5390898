package repository

import (
	"context"

	"github.com/eventis/budget-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ServiceOrderRepository handles database operations for service orders
type ServiceOrderRepository struct {
	db *gorm.DB
}

// NewServiceOrderRepository creates a new ServiceOrderRepository instance
func NewServiceOrderRepository(db *gorm.DB) *ServiceOrderRepository {
	return &ServiceOrderRepository{db: db}
}

// Create inserts a service order with its items
func (r *ServiceOrderRepository) Create(ctx context.Context, order *domain.ServiceOrder) error {
	return r.db.WithContext(ctx).Create(order).Error
}

// CreateTx inserts a service order inside the caller's transaction
func (r *ServiceOrderRepository) CreateTx(tx *gorm.DB, order *domain.ServiceOrder) error {
	return tx.Create(order).Error
}

// GetByID retrieves a service order with its items preloaded
func (r *ServiceOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ServiceOrder, error) {
	var order domain.ServiceOrder
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetByBudget retrieves the service order created for a budget, if any
func (r *ServiceOrderRepository) GetByBudget(ctx context.Context, budgetID uuid.UUID) (*domain.ServiceOrder, error) {
	var order domain.ServiceOrder
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("budget_id = ?", budgetID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ExistsForBudget reports whether a budget already has a service order
func (r *ServiceOrderRepository) ExistsForBudget(tx *gorm.DB, budgetID uuid.UUID) (bool, error) {
	var count int64
	err := tx.Model(&domain.ServiceOrder{}).
		Where("budget_id = ?", budgetID).
		Count(&count).Error
	return count > 0, err
}

// List returns all service orders, newest first
func (r *ServiceOrderRepository) List(ctx context.Context) ([]domain.ServiceOrder, error) {
	var orders []domain.ServiceOrder
	err := r.db.WithContext(ctx).
		Preload("Items").
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

// Update saves changes to a service order
func (r *ServiceOrderRepository) Update(ctx context.Context, order *domain.ServiceOrder) error {
	return r.db.WithContext(ctx).Save(order).Error
}

// GetItem retrieves a single service order item
func (r *ServiceOrderRepository) GetItem(ctx context.Context, id uuid.UUID) (*domain.ServiceOrderItem, error) {
	var item domain.ServiceOrderItem
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateItem saves changes to a service order item
func (r *ServiceOrderRepository) UpdateItem(ctx context.Context, item *domain.ServiceOrderItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

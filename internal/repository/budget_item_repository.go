package repository

import (
	"context"

	"github.com/eventis/budget-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BudgetItemRepository handles database operations for budget items
type BudgetItemRepository struct {
	db *gorm.DB
}

// NewBudgetItemRepository creates a new BudgetItemRepository instance
func NewBudgetItemRepository(db *gorm.DB) *BudgetItemRepository {
	return &BudgetItemRepository{db: db}
}

// Create inserts a new budget item into the database
func (r *BudgetItemRepository) Create(ctx context.Context, item *domain.BudgetItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// GetByID retrieves a budget item by its ID
func (r *BudgetItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.BudgetItem, error) {
	var item domain.BudgetItem
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Update saves changes to an existing budget item
func (r *BudgetItemRepository) Update(ctx context.Context, item *domain.BudgetItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// Delete removes a budget item from the database
func (r *BudgetItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&domain.BudgetItem{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListByBudget returns all items for a budget in display order
func (r *BudgetItemRepository) ListByBudget(ctx context.Context, budgetID uuid.UUID) ([]domain.BudgetItem, error) {
	var items []domain.BudgetItem
	err := r.db.WithContext(ctx).
		Where("budget_id = ?", budgetID).
		Order("display_order ASC, created_at ASC").
		Find(&items).Error
	return items, err
}

// CountByBudget returns the number of items on a budget
func (r *BudgetItemRepository) CountByBudget(ctx context.Context, budgetID uuid.UUID) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.BudgetItem{}).
		Where("budget_id = ?", budgetID).
		Count(&count).Error
	return int(count), err
}

// SetApprovalByMembership marks the listed items approved and every other item
// on the budget excluded, inside the caller's transaction.
func (r *BudgetItemRepository) SetApprovalByMembership(tx *gorm.DB, budgetID uuid.UUID, approvedIDs []uuid.UUID) error {
	if len(approvedIDs) == 0 {
		return tx.Model(&domain.BudgetItem{}).
			Where("budget_id = ?", budgetID).
			Update("is_approved", false).Error
	}

	if err := tx.Model(&domain.BudgetItem{}).
		Where("budget_id = ? AND id IN ?", budgetID, approvedIDs).
		Update("is_approved", true).Error; err != nil {
		return err
	}
	return tx.Model(&domain.BudgetItem{}).
		Where("budget_id = ? AND id NOT IN ?", budgetID, approvedIDs).
		Update("is_approved", false).Error
}

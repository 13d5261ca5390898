package repository

import (
	"context"
	"time"

	"github.com/eventis/budget-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BudgetRepository handles database operations for budgets
type BudgetRepository struct {
	db *gorm.DB
}

// NewBudgetRepository creates a new BudgetRepository instance
func NewBudgetRepository(db *gorm.DB) *BudgetRepository {
	return &BudgetRepository{db: db}
}

// DB exposes the underlying handle for transactional service flows
func (r *BudgetRepository) DB() *gorm.DB {
	return r.db
}

func preloadItems(db *gorm.DB) *gorm.DB {
	return db.Order("display_order ASC, created_at ASC")
}

// Create inserts a new budget, cascading any attached items
func (r *BudgetRepository) Create(ctx context.Context, budget *domain.Budget) error {
	return r.db.WithContext(ctx).Create(budget).Error
}

// GetByID retrieves a budget with its items preloaded in display order
func (r *BudgetRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Budget, error) {
	var budget domain.Budget
	err := r.db.WithContext(ctx).
		Preload("Project").
		Preload("Items", preloadItems).
		Where("id = ?", id).
		First(&budget).Error
	if err != nil {
		return nil, err
	}
	return &budget, nil
}

// GetByToken retrieves a budget by its public approval token
func (r *BudgetRepository) GetByToken(ctx context.Context, token string) (*domain.Budget, error) {
	var budget domain.Budget
	err := r.db.WithContext(ctx).
		Preload("Project").
		Preload("Items", preloadItems).
		Where("approval_token = ?", token).
		First(&budget).Error
	if err != nil {
		return nil, err
	}
	return &budget, nil
}

// Update saves changes to an existing budget
func (r *BudgetRepository) Update(ctx context.Context, budget *domain.Budget) error {
	return r.db.WithContext(ctx).Save(budget).Error
}

// Delete soft-deletes a budget
func (r *BudgetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&domain.Budget{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListByProject returns all budgets for a project with items preloaded
func (r *BudgetRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]domain.Budget, error) {
	var budgets []domain.Budget
	err := r.db.WithContext(ctx).
		Preload("Items", preloadItems).
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&budgets).Error
	return budgets, err
}

// List returns all budgets, newest first
func (r *BudgetRepository) List(ctx context.Context) ([]domain.Budget, error) {
	var budgets []domain.Budget
	err := r.db.WithContext(ctx).
		Preload("Items", preloadItems).
		Order("created_at DESC").
		Find(&budgets).Error
	return budgets, err
}

// ListPendingSentSince returns sent budgets still awaiting a decision whose
// last update is older than the cutoff. Used by the reminder job.
func (r *BudgetRepository) ListPendingSentSince(ctx context.Context, cutoff time.Time) ([]domain.Budget, error) {
	var budgets []domain.Budget
	err := r.db.WithContext(ctx).
		Where("status = ? AND approval_status = ? AND updated_at < ?",
			domain.BudgetStatusSent, domain.ApprovalStatusPending, cutoff).
		Order("updated_at ASC").
		Find(&budgets).Error
	return budgets, err
}

// ClaimPendingApproval flips the approval status from pending to the target
// state with a compare-and-set update. It returns false when another request
// already decided the budget, leaving the row untouched.
func (r *BudgetRepository) ClaimPendingApproval(tx *gorm.DB, id uuid.UUID, target domain.ApprovalStatus, approvedAt *time.Time, clientNotes string) (bool, error) {
	updates := map[string]interface{}{
		"approval_status": target,
		"approved_at":     approvedAt,
		"client_notes":    clientNotes,
	}
	if target == domain.ApprovalStatusApproved {
		updates["status"] = domain.BudgetStatusApproved
	} else {
		updates["status"] = domain.BudgetStatusRejected
	}

	result := tx.Model(&domain.Budget{}).
		Where("id = ? AND approval_status = ?", id, domain.ApprovalStatusPending).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

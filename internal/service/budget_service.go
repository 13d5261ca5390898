package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/eventis/budget-api/internal/auth"
	"github.com/eventis/budget-api/internal/domain"
	"github.com/eventis/budget-api/internal/mapper"
	"github.com/eventis/budget-api/internal/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// BudgetService handles business logic for budgets and their items
type BudgetService struct {
	budgetRepo   *repository.BudgetRepository
	itemRepo     *repository.BudgetItemRepository
	projectRepo  *repository.ProjectRepository
	orderService *ServiceOrderService
	policy       WorkOrderPolicy
	logger       *zap.Logger
}

// NewBudgetService creates a new BudgetService instance
func NewBudgetService(
	budgetRepo *repository.BudgetRepository,
	itemRepo *repository.BudgetItemRepository,
	projectRepo *repository.ProjectRepository,
	orderService *ServiceOrderService,
	policy WorkOrderPolicy,
	logger *zap.Logger,
) *BudgetService {
	if !policy.IsValid() {
		policy = PolicyOnCreate
	}
	return &BudgetService{
		budgetRepo:   budgetRepo,
		itemRepo:     itemRepo,
		projectRepo:  projectRepo,
		orderService: orderService,
		policy:       policy,
		logger:       logger,
	}
}

// newApprovalToken builds the public link token. Two UUIDs worth of entropy,
// generated once at creation and never rotated: the link a client received
// must keep working.
func newApprovalToken() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "") +
		strings.ReplaceAll(uuid.New().String(), "-", "")
}

// maskToken shortens a token so logs never carry a usable link
func maskToken(token string) string {
	if len(token) <= 8 {
		return "****"
	}
	return token[:8] + "****"
}

func checkNonNegative(values ...*decimal.Decimal) error {
	for _, v := range values {
		if v != nil && v.IsNegative() {
			return ErrNegativeAmount
		}
	}
	return nil
}

func itemFromRequest(req *domain.CreateBudgetItemRequest) (*domain.BudgetItem, error) {
	if err := checkNonNegative(&req.UnitPrice, req.Length, req.Width, req.Height, req.Measurement, req.Weight); err != nil {
		return nil, err
	}

	item := &domain.BudgetItem{
		Name:            req.Name,
		Description:     req.Description,
		Quantity:        req.Quantity,
		UnitPrice:       req.UnitPrice,
		Length:          req.Length,
		Width:           req.Width,
		Height:          req.Height,
		Measurement:     req.Measurement,
		MeasurementUnit: req.MeasurementUnit,
		Weight:          req.Weight,
		IsApproved:      true,
		DisplayOrder:    req.DisplayOrder,
	}
	item.Recalculate()
	return item, nil
}

// Create creates a budget with its initial items in one transaction. The
// approval token is minted here; under the on_create policy the service order
// is spawned in the same transaction so a budget never exists without one.
func (s *BudgetService) Create(ctx context.Context, req *domain.CreateBudgetRequest) (*domain.BudgetWithLinkDTO, error) {
	if len(req.Items) == 0 {
		return nil, ErrBudgetNeedsItem
	}
	if _, err := s.projectRepo.GetByID(ctx, req.ProjectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	budget := &domain.Budget{
		Name:           req.Name,
		ProjectID:      req.ProjectID,
		Status:         domain.BudgetStatusDraft,
		ApprovalStatus: domain.ApprovalStatusPending,
		ApprovalToken:  newApprovalToken(),
	}
	if userCtx, ok := auth.FromContext(ctx); ok {
		budget.CreatedByID = userCtx.UserID
		budget.CreatedByName = userCtx.DisplayName
		budget.UpdatedByID = userCtx.UserID
		budget.UpdatedByName = userCtx.DisplayName
	}
	for i := range req.Items {
		item, err := itemFromRequest(&req.Items[i])
		if err != nil {
			return nil, err
		}
		if item.DisplayOrder == 0 {
			item.DisplayOrder = i
		}
		budget.Items = append(budget.Items, *item)
	}

	err := s.budgetRepo.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(budget).Error; err != nil {
			return fmt.Errorf("failed to create budget: %w", err)
		}
		if s.policy == PolicyOnCreate {
			if _, err := s.orderService.EnsureForBudgetTx(tx, budget); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("budget created",
		zap.String("budgetId", budget.ID.String()),
		zap.String("projectId", budget.ProjectID.String()),
		zap.Int("items", len(budget.Items)),
		zap.String("approvalToken", maskToken(budget.ApprovalToken)))

	dto := mapper.ToBudgetWithLinkDTO(budget)
	return &dto, nil
}

// GetByID returns a budget including its approval link
func (s *BudgetService) GetByID(ctx context.Context, id uuid.UUID) (*domain.BudgetWithLinkDTO, error) {
	budget, err := s.budgetRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBudgetNotFound
		}
		return nil, fmt.Errorf("failed to get budget: %w", err)
	}

	dto := mapper.ToBudgetWithLinkDTO(budget)
	return &dto, nil
}

// ListItems returns a budget's items in display order
func (s *BudgetService) ListItems(ctx context.Context, budgetID uuid.UUID) ([]domain.BudgetItemDTO, error) {
	budget, err := s.budgetRepo.GetByID(ctx, budgetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBudgetNotFound
		}
		return nil, fmt.Errorf("failed to get budget: %w", err)
	}

	dtos := make([]domain.BudgetItemDTO, 0, len(budget.Items))
	for i := range budget.Items {
		dtos = append(dtos, mapper.ToBudgetItemDTO(&budget.Items[i]))
	}
	return dtos, nil
}

// List returns all budgets without their approval links
func (s *BudgetService) List(ctx context.Context) ([]domain.BudgetDTO, error) {
	budgets, err := s.budgetRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}

	dtos := make([]domain.BudgetDTO, 0, len(budgets))
	for i := range budgets {
		dtos = append(dtos, mapper.ToBudgetDTO(&budgets[i]))
	}
	return dtos, nil
}

// ListByProject returns a project's budgets
func (s *BudgetService) ListByProject(ctx context.Context, projectID uuid.UUID) ([]domain.BudgetDTO, error) {
	budgets, err := s.budgetRepo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}

	dtos := make([]domain.BudgetDTO, 0, len(budgets))
	for i := range budgets {
		dtos = append(dtos, mapper.ToBudgetDTO(&budgets[i]))
	}
	return dtos, nil
}

// Update renames a budget and optionally replaces its item collection. When
// Items is present it is the complete new set: rows with an ID are updated,
// rows without one are created, and existing rows left out are deleted, all in
// one transaction.
func (s *BudgetService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateBudgetRequest) (*domain.BudgetWithLinkDTO, error) {
	budget, err := s.budgetRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBudgetNotFound
		}
		return nil, fmt.Errorf("failed to get budget: %w", err)
	}
	if !budget.IsEditable() {
		return nil, ErrBudgetNotEditable
	}

	err = s.budgetRepo.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{}
		if req.Name != nil {
			budget.Name = *req.Name
			updates["name"] = *req.Name
		}
		if userCtx, ok := auth.FromContext(ctx); ok {
			updates["updated_by_id"] = userCtx.UserID
			updates["updated_by_name"] = userCtx.DisplayName
		}
		if len(updates) > 0 {
			if err := tx.Model(&domain.Budget{}).Where("id = ?", id).Updates(updates).Error; err != nil {
				return fmt.Errorf("failed to update budget: %w", err)
			}
		}
		if req.Items == nil {
			return nil
		}
		if len(req.Items) == 0 {
			return ErrBudgetNeedsItem
		}

		existing := make(map[uuid.UUID]*domain.BudgetItem, len(budget.Items))
		for i := range budget.Items {
			existing[budget.Items[i].ID] = &budget.Items[i]
		}

		kept := make(map[uuid.UUID]bool, len(req.Items))
		for i := range req.Items {
			row := &req.Items[i]
			if row.ID != nil {
				current, ok := existing[*row.ID]
				if !ok {
					return ErrBudgetItemNotFound
				}
				if err := applyItemRow(current, &row.CreateBudgetItemRequest); err != nil {
					return err
				}
				if err := tx.Save(current).Error; err != nil {
					return fmt.Errorf("failed to update item: %w", err)
				}
				kept[*row.ID] = true
				continue
			}

			item, err := itemFromRequest(&row.CreateBudgetItemRequest)
			if err != nil {
				return err
			}
			item.BudgetID = id
			if err := tx.Create(item).Error; err != nil {
				return fmt.Errorf("failed to create item: %w", err)
			}
		}

		for itemID := range existing {
			if !kept[itemID] {
				if err := tx.Delete(&domain.BudgetItem{}, "id = ?", itemID).Error; err != nil {
					return fmt.Errorf("failed to delete item: %w", err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetByID(ctx, id)
}

func applyItemRow(item *domain.BudgetItem, req *domain.CreateBudgetItemRequest) error {
	if err := checkNonNegative(&req.UnitPrice, req.Length, req.Width, req.Height, req.Measurement, req.Weight); err != nil {
		return err
	}
	item.Name = req.Name
	item.Description = req.Description
	item.Quantity = req.Quantity
	item.UnitPrice = req.UnitPrice
	item.Length = req.Length
	item.Width = req.Width
	item.Height = req.Height
	item.Measurement = req.Measurement
	item.MeasurementUnit = req.MeasurementUnit
	item.Weight = req.Weight
	item.DisplayOrder = req.DisplayOrder
	item.Recalculate()
	return nil
}

// Send marks a budget as sent to the client. The public link works regardless;
// sending records that the client was actually given it.
func (s *BudgetService) Send(ctx context.Context, id uuid.UUID) (*domain.BudgetWithLinkDTO, error) {
	budget, err := s.budgetRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBudgetNotFound
		}
		return nil, fmt.Errorf("failed to get budget: %w", err)
	}
	if !budget.IsEditable() {
		return nil, ErrBudgetNotEditable
	}
	if len(budget.Items) == 0 {
		return nil, ErrBudgetNotSendable
	}

	budget.Status = domain.BudgetStatusSent
	if err := s.budgetRepo.Update(ctx, budget); err != nil {
		return nil, fmt.Errorf("failed to send budget: %w", err)
	}

	s.logger.Info("budget sent",
		zap.String("budgetId", id.String()),
		zap.String("approvalToken", maskToken(budget.ApprovalToken)))

	dto := mapper.ToBudgetWithLinkDTO(budget)
	return &dto, nil
}

// Delete soft-deletes a budget. The approval link stops resolving with it.
func (s *BudgetService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.budgetRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBudgetNotFound
		}
		return fmt.Errorf("failed to delete budget: %w", err)
	}

	s.logger.Info("budget deleted", zap.String("budgetId", id.String()))
	return nil
}

// AddItem appends an item to an editable budget
func (s *BudgetService) AddItem(ctx context.Context, budgetID uuid.UUID, req *domain.CreateBudgetItemRequest) (*domain.BudgetItemDTO, error) {
	budget, err := s.budgetRepo.GetByID(ctx, budgetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBudgetNotFound
		}
		return nil, fmt.Errorf("failed to get budget: %w", err)
	}
	if !budget.IsEditable() {
		return nil, ErrBudgetNotEditable
	}

	item, err := itemFromRequest(req)
	if err != nil {
		return nil, err
	}
	item.BudgetID = budgetID
	if item.DisplayOrder == 0 {
		item.DisplayOrder = len(budget.Items)
	}

	if err := s.itemRepo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	dto := mapper.ToBudgetItemDTO(item)
	return &dto, nil
}

// UpdateItem applies a partial update to a budget item and recomputes its
// derived fields
func (s *BudgetService) UpdateItem(ctx context.Context, budgetID, itemID uuid.UUID, req *domain.UpdateBudgetItemRequest) (*domain.BudgetItemDTO, error) {
	budget, err := s.budgetRepo.GetByID(ctx, budgetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBudgetNotFound
		}
		return nil, fmt.Errorf("failed to get budget: %w", err)
	}
	if !budget.IsEditable() {
		return nil, ErrBudgetNotEditable
	}

	item, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil || item.BudgetID != budgetID {
		if err == nil || errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBudgetItemNotFound
		}
		return nil, fmt.Errorf("failed to get item: %w", err)
	}

	if err := checkNonNegative(req.UnitPrice, req.Length, req.Width, req.Height, req.Measurement, req.Weight); err != nil {
		return nil, err
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.Quantity != nil {
		item.Quantity = *req.Quantity
	}
	if req.UnitPrice != nil {
		item.UnitPrice = *req.UnitPrice
	}
	if req.Length != nil {
		item.Length = req.Length
	}
	if req.Width != nil {
		item.Width = req.Width
	}
	if req.Height != nil {
		item.Height = req.Height
	}
	if req.Measurement != nil {
		item.Measurement = req.Measurement
	}
	if req.MeasurementUnit != nil {
		item.MeasurementUnit = *req.MeasurementUnit
	}
	if req.Weight != nil {
		item.Weight = req.Weight
	}
	if req.DisplayOrder != nil {
		item.DisplayOrder = *req.DisplayOrder
	}
	item.Recalculate()

	if err := s.itemRepo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to update item: %w", err)
	}

	dto := mapper.ToBudgetItemDTO(item)
	return &dto, nil
}

// DeleteItem removes an item from an editable budget, refusing to empty it
func (s *BudgetService) DeleteItem(ctx context.Context, budgetID, itemID uuid.UUID) error {
	budget, err := s.budgetRepo.GetByID(ctx, budgetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBudgetNotFound
		}
		return fmt.Errorf("failed to get budget: %w", err)
	}
	if !budget.IsEditable() {
		return ErrBudgetNotEditable
	}

	item, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil || item.BudgetID != budgetID {
		if err == nil || errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBudgetItemNotFound
		}
		return fmt.Errorf("failed to get item: %w", err)
	}

	count, err := s.itemRepo.CountByBudget(ctx, budgetID)
	if err != nil {
		return fmt.Errorf("failed to count items: %w", err)
	}
	if count <= 1 {
		return ErrBudgetNeedsItem
	}

	if err := s.itemRepo.Delete(ctx, itemID); err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	return nil
}

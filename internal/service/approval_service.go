package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/eventis/budget-api/internal/domain"
	"github.com/eventis/budget-api/internal/mapper"
	"github.com/eventis/budget-api/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ApprovalService handles the client-facing approval flow reached through the
// public token link
type ApprovalService struct {
	budgetRepo   *repository.BudgetRepository
	itemRepo     *repository.BudgetItemRepository
	orderService *ServiceOrderService
	policy       WorkOrderPolicy
	logger       *zap.Logger
}

// NewApprovalService creates a new ApprovalService instance
func NewApprovalService(
	budgetRepo *repository.BudgetRepository,
	itemRepo *repository.BudgetItemRepository,
	orderService *ServiceOrderService,
	policy WorkOrderPolicy,
	logger *zap.Logger,
) *ApprovalService {
	if !policy.IsValid() {
		policy = PolicyOnCreate
	}
	return &ApprovalService{
		budgetRepo:   budgetRepo,
		itemRepo:     itemRepo,
		orderService: orderService,
		policy:       policy,
		logger:       logger,
	}
}

// GetByToken resolves the public view of a budget. An unknown token is a
// plain not-found; the handler never distinguishes unknown from deleted.
func (s *ApprovalService) GetByToken(ctx context.Context, token string) (*domain.PublicApprovalDTO, error) {
	budget, err := s.budgetRepo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBudgetNotFound
		}
		return nil, fmt.Errorf("failed to get budget by token: %w", err)
	}

	dto := mapper.ToPublicApprovalDTO(budget)
	return &dto, nil
}

// GetDocumentByToken builds the export read model consumed by document
// rendering, keyed by the same capability token as the approval screen.
func (s *ApprovalService) GetDocumentByToken(ctx context.Context, token string) (*domain.BudgetDocumentDTO, error) {
	budget, err := s.budgetRepo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBudgetNotFound
		}
		return nil, fmt.Errorf("failed to get budget by token: %w", err)
	}

	dto := mapper.ToBudgetDocumentDTO(budget)
	return &dto, nil
}

// Decide records the client's approval or rejection. The transition out of
// pending happens exactly once: a compare-and-set inside the transaction makes
// the second of two racing submissions fail without touching the row. An
// approval may exclude items by listing only the IDs to keep; an omitted list
// approves everything. Rejection never modifies items.
func (s *ApprovalService) Decide(ctx context.Context, token string, req *domain.ApprovalDecisionRequest) (*domain.ApprovalResultDTO, error) {
	if req.Decision != domain.ApprovalStatusApproved && req.Decision != domain.ApprovalStatusRejected {
		return nil, ErrInvalidDecision
	}

	budget, err := s.budgetRepo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBudgetNotFound
		}
		return nil, fmt.Errorf("failed to get budget by token: %w", err)
	}
	if budget.ApprovalStatus.IsTerminal() {
		return nil, ErrBudgetAlreadyProcessed
	}

	approvedIDs, err := resolveApprovedItems(budget, req)
	if err != nil {
		return nil, err
	}

	var order *domain.ServiceOrder
	now := time.Now().UTC()
	err = s.budgetRepo.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// both terminal transitions record when the decision was made
		claimed, err := s.budgetRepo.ClaimPendingApproval(tx, budget.ID, req.Decision, &now, req.ClientNotes)
		if err != nil {
			return fmt.Errorf("failed to record decision: %w", err)
		}
		if !claimed {
			return ErrBudgetAlreadyProcessed
		}

		if req.Decision != domain.ApprovalStatusApproved {
			return nil
		}

		if err := s.itemRepo.SetApprovalByMembership(tx, budget.ID, approvedIDs); err != nil {
			return fmt.Errorf("failed to mark approved items: %w", err)
		}

		if s.policy == PolicyOnApproval {
			approved := make(map[uuid.UUID]bool, len(approvedIDs))
			for _, id := range approvedIDs {
				approved[id] = true
			}
			for i := range budget.Items {
				budget.Items[i].IsApproved = approved[budget.Items[i].ID]
			}
			order, err = s.orderService.EnsureForBudgetTx(tx, budget)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("approval decision recorded",
		zap.String("budgetId", budget.ID.String()),
		zap.String("decision", string(req.Decision)),
		zap.Int("approvedItems", len(approvedIDs)))

	reloaded, err := s.budgetRepo.GetByID(ctx, budget.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload budget: %w", err)
	}

	result := &domain.ApprovalResultDTO{
		ApprovalStatus: reloaded.ApprovalStatus,
		ApprovedValue:  reloaded.ApprovedValue(),
	}
	if reloaded.ApprovedAt != nil {
		at := reloaded.ApprovedAt.UTC().Format(time.RFC3339)
		result.ApprovedAt = &at
	}
	if order != nil {
		result.ServiceOrderID = &order.ID
	}
	return result, nil
}

// resolveApprovedItems expands the request's item selection against the
// budget's actual items. Approving rejects nothing implicitly: an omitted
// list keeps everything, while an explicit list must name known items and may
// not be empty.
func resolveApprovedItems(budget *domain.Budget, req *domain.ApprovalDecisionRequest) ([]uuid.UUID, error) {
	if req.Decision != domain.ApprovalStatusApproved {
		return nil, nil
	}

	known := make(map[uuid.UUID]bool, len(budget.Items))
	for i := range budget.Items {
		known[budget.Items[i].ID] = true
	}

	if req.ApprovedItemIDs == nil {
		ids := make([]uuid.UUID, 0, len(budget.Items))
		for i := range budget.Items {
			ids = append(ids, budget.Items[i].ID)
		}
		return ids, nil
	}
	if len(req.ApprovedItemIDs) == 0 {
		return nil, ErrApprovedItemsRequired
	}

	for _, id := range req.ApprovedItemIDs {
		if !known[id] {
			return nil, ErrBudgetItemNotFound
		}
	}
	return req.ApprovedItemIDs, nil
}

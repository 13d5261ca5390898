package service_test

import (
	"context"
	"testing"

	"github.com/eventis/budget-api/internal/domain"
	"github.com/eventis/budget-api/internal/service"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApprovalService_GetByToken(t *testing.T) {
	env := setupServices(t, service.PolicyOnCreate)
	dto := env.createBudget(t)

	view, err := env.approvals.GetByToken(context.Background(), dto.ApprovalToken)
	require.NoError(t, err)
	assert.Equal(t, "Main budget", view.BudgetName)
	assert.Equal(t, "Test Project", view.ProjectName)
	assert.Equal(t, domain.ApprovalStatusPending, view.ApprovalStatus)
	assert.Len(t, view.Items, 2)
	assert.True(t, view.Editable)
	assert.True(t, view.TotalValue.Equal(decimal.NewFromInt(2200)))
	assert.True(t, view.DisplayTotal.Equal(decimal.NewFromInt(2200)))
}

func TestApprovalService_GetByToken_Unknown(t *testing.T) {
	env := setupServices(t, service.PolicyOnCreate)

	_, err := env.approvals.GetByToken(context.Background(), "deadbeef")
	assert.ErrorIs(t, err, service.ErrBudgetNotFound)
}

func TestApprovalService_Decide_ApproveAll(t *testing.T) {
	env := setupServices(t, service.PolicyOnCreate)
	ctx := context.Background()
	dto := env.createBudget(t)

	result, err := env.approvals.Decide(ctx, dto.ApprovalToken, &domain.ApprovalDecisionRequest{
		Decision:    domain.ApprovalStatusApproved,
		ClientNotes: "go ahead",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ApprovalStatusApproved, result.ApprovalStatus)
	assert.NotNil(t, result.ApprovedAt)
	assert.True(t, result.ApprovedValue.Equal(decimal.NewFromInt(2200)))

	reloaded, err := env.budgets.GetByID(ctx, dto.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BudgetStatusApproved, reloaded.Status)
	assert.Equal(t, "go ahead", reloaded.ClientNotes)
	for _, item := range reloaded.Items {
		assert.True(t, item.IsApproved)
	}
}

func TestApprovalService_Decide_ApproveSubset(t *testing.T) {
	env := setupServices(t, service.PolicyOnCreate)
	ctx := context.Background()
	dto := env.createBudget(t)

	keep := dto.Items[1].ID // the 1200 item
	result, err := env.approvals.Decide(ctx, dto.ApprovalToken, &domain.ApprovalDecisionRequest{
		Decision:        domain.ApprovalStatusApproved,
		ApprovedItemIDs: []uuid.UUID{keep},
	})
	require.NoError(t, err)
	assert.True(t, result.ApprovedValue.Equal(decimal.NewFromInt(1200)))

	reloaded, err := env.budgets.GetByID(ctx, dto.ID)
	require.NoError(t, err)
	for _, item := range reloaded.Items {
		assert.Equal(t, item.ID == keep, item.IsApproved)
	}
	// the display total follows the approved subset
	assert.True(t, reloaded.ApprovedValue.Equal(decimal.NewFromInt(1200)))
	assert.True(t, reloaded.TotalValue.Equal(decimal.NewFromInt(2200)))

	view, err := env.approvals.GetByToken(ctx, dto.ApprovalToken)
	require.NoError(t, err)
	assert.False(t, view.Editable)
	assert.True(t, view.DisplayTotal.Equal(decimal.NewFromInt(1200)))
}

func TestApprovalService_Decide_EmptySelectionRefused(t *testing.T) {
	env := setupServices(t, service.PolicyOnCreate)
	dto := env.createBudget(t)

	_, err := env.approvals.Decide(context.Background(), dto.ApprovalToken, &domain.ApprovalDecisionRequest{
		Decision:        domain.ApprovalStatusApproved,
		ApprovedItemIDs: []uuid.UUID{},
	})
	assert.ErrorIs(t, err, service.ErrApprovedItemsRequired)
}

func TestApprovalService_Decide_UnknownItemRefused(t *testing.T) {
	env := setupServices(t, service.PolicyOnCreate)
	dto := env.createBudget(t)

	_, err := env.approvals.Decide(context.Background(), dto.ApprovalToken, &domain.ApprovalDecisionRequest{
		Decision:        domain.ApprovalStatusApproved,
		ApprovedItemIDs: []uuid.UUID{uuid.New()},
	})
	assert.ErrorIs(t, err, service.ErrBudgetItemNotFound)
}

func TestApprovalService_GetDocumentByToken(t *testing.T) {
	env := setupServices(t, service.PolicyOnCreate)
	ctx := context.Background()
	dto := env.createBudget(t)

	doc, err := env.approvals.GetDocumentByToken(ctx, dto.ApprovalToken)
	require.NoError(t, err)
	assert.Equal(t, "Main budget", doc.BudgetName)
	assert.Equal(t, "Test Project", doc.ProjectName)
	assert.Len(t, doc.Items, 2)
	assert.True(t, doc.Total.Equal(decimal.NewFromInt(2200)))

	// once approved the document narrows to the approved subset
	keep := dto.Items[1].ID
	_, err = env.approvals.Decide(ctx, dto.ApprovalToken, &domain.ApprovalDecisionRequest{
		Decision:        domain.ApprovalStatusApproved,
		ApprovedItemIDs: []uuid.UUID{keep},
	})
	require.NoError(t, err)

	doc, err = env.approvals.GetDocumentByToken(ctx, dto.ApprovalToken)
	require.NoError(t, err)
	require.Len(t, doc.Items, 1)
	assert.Equal(t, keep, doc.Items[0].ID)
	assert.True(t, doc.Total.Equal(decimal.NewFromInt(1200)))
	assert.NotNil(t, doc.ApprovedAt)
}

func TestApprovalService_Decide_Reject(t *testing.T) {
	env := setupServices(t, service.PolicyOnCreate)
	ctx := context.Background()
	dto := env.createBudget(t)

	result, err := env.approvals.Decide(ctx, dto.ApprovalToken, &domain.ApprovalDecisionRequest{
		Decision:    domain.ApprovalStatusRejected,
		ClientNotes: "too expensive",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ApprovalStatusRejected, result.ApprovalStatus)
	// the decision timestamp is recorded on rejection too
	assert.NotNil(t, result.ApprovedAt)

	reloaded, err := env.budgets.GetByID(ctx, dto.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BudgetStatusRejected, reloaded.Status)
	// rejection leaves item approval flags untouched
	for _, item := range reloaded.Items {
		assert.True(t, item.IsApproved)
	}
}

func TestApprovalService_Decide_SecondDecisionRefused(t *testing.T) {
	env := setupServices(t, service.PolicyOnCreate)
	ctx := context.Background()
	dto := env.createBudget(t)

	_, err := env.approvals.Decide(ctx, dto.ApprovalToken, &domain.ApprovalDecisionRequest{
		Decision: domain.ApprovalStatusApproved,
	})
	require.NoError(t, err)

	_, err = env.approvals.Decide(ctx, dto.ApprovalToken, &domain.ApprovalDecisionRequest{
		Decision: domain.ApprovalStatusRejected,
	})
	assert.ErrorIs(t, err, service.ErrBudgetAlreadyProcessed)

	reloaded, err := env.budgets.GetByID(ctx, dto.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ApprovalStatusApproved, reloaded.ApprovalStatus)
}

func TestApprovalService_Decide_InvalidDecision(t *testing.T) {
	env := setupServices(t, service.PolicyOnCreate)
	dto := env.createBudget(t)

	_, err := env.approvals.Decide(context.Background(), dto.ApprovalToken, &domain.ApprovalDecisionRequest{
		Decision: domain.ApprovalStatus("maybe"),
	})
	assert.ErrorIs(t, err, service.ErrInvalidDecision)
}

func TestApprovalService_Decide_OnApprovalPolicySpawnsOrder(t *testing.T) {
	env := setupServices(t, service.PolicyOnApproval)
	ctx := context.Background()
	dto := env.createBudget(t)

	keep := dto.Items[0].ID
	result, err := env.approvals.Decide(ctx, dto.ApprovalToken, &domain.ApprovalDecisionRequest{
		Decision:        domain.ApprovalStatusApproved,
		ApprovedItemIDs: []uuid.UUID{keep},
	})
	require.NoError(t, err)
	require.NotNil(t, result.ServiceOrderID)

	order, err := env.orders.GetByID(ctx, *result.ServiceOrderID)
	require.NoError(t, err)
	assert.Equal(t, dto.ID, order.BudgetID)
	// only the approved item carries over into execution
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Stage deck", order.Items[0].Name)
}

func TestApprovalService_Decide_OnApprovalPolicyRejectionSkipsOrder(t *testing.T) {
	env := setupServices(t, service.PolicyOnApproval)
	ctx := context.Background()
	dto := env.createBudget(t)

	result, err := env.approvals.Decide(ctx, dto.ApprovalToken, &domain.ApprovalDecisionRequest{
		Decision: domain.ApprovalStatusRejected,
	})
	require.NoError(t, err)
	assert.Nil(t, result.ServiceOrderID)

	_, err = env.orders.GetByBudget(ctx, dto.ID)
	assert.ErrorIs(t, err, service.ErrServiceOrderNotFound)
}

func TestApprovalService_Decide_OnCreatePolicyNeverDuplicatesOrder(t *testing.T) {
	env := setupServices(t, service.PolicyOnCreate)
	ctx := context.Background()
	dto := env.createBudget(t)

	result, err := env.approvals.Decide(ctx, dto.ApprovalToken, &domain.ApprovalDecisionRequest{
		Decision: domain.ApprovalStatusApproved,
	})
	require.NoError(t, err)
	assert.Nil(t, result.ServiceOrderID)

	var count int64
	require.NoError(t, env.db.Model(&domain.ServiceOrder{}).Where("budget_id = ?", dto.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

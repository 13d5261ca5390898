package service_test

import (
	"context"
	"testing"

	"github.com/eventis/budget-api/internal/domain"
	"github.com/eventis/budget-api/internal/repository"
	"github.com/eventis/budget-api/internal/service"
	"github.com/eventis/budget-api/internal/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testEnv struct {
	db            *gorm.DB
	budgetRepo    *repository.BudgetRepository
	orderRepo     *repository.ServiceOrderRepository
	freightRepo   *repository.FreightRepository
	projects      *service.ProjectService
	budgets       *service.BudgetService
	approvals     *service.ApprovalService
	freight       *service.FreightService
	freightConfig *service.FreightConfigService
	orders        *service.ServiceOrderService
}

func setupServices(t *testing.T, policy service.WorkOrderPolicy) *testEnv {
	t.Helper()

	db := testutil.SetupTestDB(t)
	log := testutil.NewTestLogger()

	projectRepo := repository.NewProjectRepository(db)
	budgetRepo := repository.NewBudgetRepository(db)
	itemRepo := repository.NewBudgetItemRepository(db)
	freightRepo := repository.NewFreightRepository(db)
	orderRepo := repository.NewServiceOrderRepository(db)

	orders := service.NewServiceOrderService(orderRepo, log)

	return &testEnv{
		db:            db,
		budgetRepo:    budgetRepo,
		orderRepo:     orderRepo,
		freightRepo:   freightRepo,
		projects:      service.NewProjectService(projectRepo, log),
		budgets:       service.NewBudgetService(budgetRepo, itemRepo, projectRepo, orders, policy, log),
		approvals:     service.NewApprovalService(budgetRepo, itemRepo, orders, policy, log),
		freight:       service.NewFreightService(budgetRepo, freightRepo, log),
		freightConfig: service.NewFreightConfigService(freightRepo, log),
		orders:        orders,
	}
}

func (e *testEnv) createBudget(t *testing.T, items ...domain.CreateBudgetItemRequest) *domain.BudgetWithLinkDTO {
	t.Helper()

	project := testutil.CreateTestProject(t, e.db, "Test Project")
	if len(items) == 0 {
		items = []domain.CreateBudgetItemRequest{
			{Name: "Stage deck", Quantity: 2, UnitPrice: decimal.NewFromInt(500)},
			{Name: "Sound system", Quantity: 1, UnitPrice: decimal.NewFromInt(1200)},
		}
	}
	dto, err := e.budgets.Create(context.Background(), &domain.CreateBudgetRequest{
		ProjectID: project.ID,
		Name:      "Main budget",
		Items:     items,
	})
	require.NoError(t, err)
	return dto
}

func TestBudgetService_Create(t *testing.T) {
	env := setupServices(t, service.PolicyOnCreate)
	ctx := context.Background()

	dto := env.createBudget(t)

	assert.Equal(t, domain.BudgetStatusDraft, dto.Status)
	assert.Equal(t, domain.ApprovalStatusPending, dto.ApprovalStatus)
	assert.Len(t, dto.ApprovalToken, 64)
	assert.True(t, dto.TotalValue.Equal(decimal.NewFromInt(2200)))
	require.Len(t, dto.Items, 2)
	assert.True(t, dto.Items[0].TotalPrice.Equal(decimal.NewFromInt(1000)))
	assert.True(t, dto.Items[0].IsApproved)

	// on_create spawns the service order alongside the budget
	order, err := env.orders.GetByBudget(ctx, dto.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ExecutionStatusPending, order.Status)
	assert.Len(t, order.Items, 2)
}

func TestBudgetService_Create_OnApprovalPolicyDefersOrder(t *testing.T) {
	env := setupServices(t, service.PolicyOnApproval)

	dto := env.createBudget(t)

	_, err := env.orders.GetByBudget(context.Background(), dto.ID)
	assert.ErrorIs(t, err, service.ErrServiceOrderNotFound)
}

func TestBudgetService_Create_UnknownProject(t *testing.T) {
	env := setupServices(t, service.PolicyOnCreate)

	_, err := env.budgets.Create(context.Background(), &domain.CreateBudgetRequest{
		ProjectID: uuid.New(),
		Name:      "Orphan",
	})
	assert.ErrorIs(t, err, service.ErrProjectNotFound)
}

func TestBudgetService_Create_NegativePrice(t *testing.T) {
	env := setupServices(t, service.PolicyOnCreate)
	project := testutil.CreateTestProject(t, env.db, "Test Project")

	_, err := env.budgets.Create(context.Background(), &domain.CreateBudgetRequest{
		ProjectID: project.ID,
		Name:      "Bad",
		Items: []domain.CreateBudgetItemRequest{
			{Name: "Broken", Quantity: 1, UnitPrice: decimal.NewFromInt(-5)},
		},
	})
	assert.ErrorIs(t, err, service.ErrNegativeAmount)
}

func TestBudgetService_Create_TokensAreUnique(t *testing.T) {
	env := setupServices(t, service.PolicyOnCreate)

	first := env.createBudget(t)
	second := env.createBudget(t)

	assert.NotEqual(t, first.ApprovalToken, second.ApprovalToken)
}

func TestBudgetService_List_OmitsToken(t *testing.T) {
	env := setupServices(t, service.PolicyOnCreate)
	env.createBudget(t)

	budgets, err := env.budgets.List(context.Background())
	require.NoError(t, err)
	require.Len(t, budgets, 1)
	// BudgetDTO has no token field; the link only appears on single gets
	assert.NotEmpty(t, budgets[0].ID)
}

func TestBudgetService_Update_Rename(t *testing.T) {
	env := setupServices(t, service.PolicyOnCreate)
	dto := env.createBudget(t)

	name := "Revised budget"
	updated, err := env.budgets.Update(context.Background(), dto.ID, &domain.UpdateBudgetRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Revised budget", updated.Name)
	assert.Len(t, updated.Items, 2)
}

func TestBudgetService_Update_ReplacesItemSet(t *testing.T) {
	env := setupServices(t, service.PolicyOnCreate)
	ctx := context.Background()
	dto := env.createBudget(t)

	keptID := dto.Items[0].ID
	updated, err := env.budgets.Update(ctx, dto.ID, &domain.UpdateBudgetRequest{
		Items: []domain.UpsertBudgetItemRequest{
			{
				ID: &keptID,
				CreateBudgetItemRequest: domain.CreateBudgetItemRequest{
					Name:      "Stage deck XL",
					Quantity:  3,
					UnitPrice: decimal.NewFromInt(600),
				},
			},
			{
				CreateBudgetItemRequest: domain.CreateBudgetItemRequest{
					Name:      "Lighting",
					Quantity:  1,
					UnitPrice: decimal.NewFromInt(800),
				},
			},
		},
	})
	require.NoError(t, err)
	require.Len(t, updated.Items, 2)

	byName := map[string]domain.BudgetItemDTO{}
	for _, item := range updated.Items {
		byName[item.Name] = item
	}
	kept, ok := byName["Stage deck XL"]
	require.True(t, ok)
	assert.Equal(t, keptID, kept.ID)
	assert.True(t, kept.TotalPrice.Equal(decimal.NewFromInt(1800)))

	_, ok = byName["Lighting"]
	assert.True(t, ok)
	_, ok = byName["Sound system"]
	assert.False(t, ok, "omitted row should be deleted")
}

func TestBudgetService_Update_EmptyItemSetRefused(t *testing.T) {
	env := setupServices(t, service.PolicyOnCreate)
	dto := env.createBudget(t)

	_, err := env.budgets.Update(context.Background(), dto.ID, &domain.UpdateBudgetRequest{
		Items: []domain.UpsertBudgetItemRequest{},
	})
	assert.ErrorIs(t, err, service.ErrBudgetNeedsItem)
}

func TestBudgetService_Update_UnknownItemID(t *testing.T) {
	env := setupServices(t, service.PolicyOnCreate)
	dto := env.createBudget(t)

	stranger := uuid.New()
	_, err := env.budgets.Update(context.Background(), dto.ID, &domain.UpdateBudgetRequest{
		Items: []domain.UpsertBudgetItemRequest{
			{
				ID: &stranger,
				CreateBudgetItemRequest: domain.CreateBudgetItemRequest{
					Name:      "Ghost",
					Quantity:  1,
					UnitPrice: decimal.NewFromInt(1),
				},
			},
		},
	})
	assert.ErrorIs(t, err, service.ErrBudgetItemNotFound)
}

func TestBudgetService_Update_LockedAfterDecision(t *testing.T) {
	env := setupServices(t, service.PolicyOnCreate)
	ctx := context.Background()
	dto := env.createBudget(t)

	_, err := env.approvals.Decide(ctx, dto.ApprovalToken, &domain.ApprovalDecisionRequest{
		Decision: domain.ApprovalStatusApproved,
	})
	require.NoError(t, err)

	name := "Too late"
	_, err = env.budgets.Update(ctx, dto.ID, &domain.UpdateBudgetRequest{Name: &name})
	assert.ErrorIs(t, err, service.ErrBudgetNotEditable)
}

func TestBudgetService_Send(t *testing.T) {
	env := setupServices(t, service.PolicyOnCreate)
	dto := env.createBudget(t)

	sent, err := env.budgets.Send(context.Background(), dto.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BudgetStatusSent, sent.Status)
	assert.Equal(t, domain.ApprovalStatusPending, sent.ApprovalStatus)
}

func TestBudgetService_Create_RefusesEmptyItemSet(t *testing.T) {
	env := setupServices(t, service.PolicyOnCreate)
	project := testutil.CreateTestProject(t, env.db, "Test Project")

	_, err := env.budgets.Create(context.Background(), &domain.CreateBudgetRequest{
		ProjectID: project.ID,
		Name:      "Nothing in it",
	})
	assert.ErrorIs(t, err, service.ErrBudgetNeedsItem)
}

func TestBudgetService_Send_RefusesEmptyBudget(t *testing.T) {
	env := setupServices(t, service.PolicyOnCreate)
	project := testutil.CreateTestProject(t, env.db, "Test Project")

	// an item-less budget can only exist through direct storage writes
	budget := testutil.NewTestBudget(project.ID, "Nothing in it")
	budget.Items = nil
	require.NoError(t, env.db.Create(budget).Error)

	_, err := env.budgets.Send(context.Background(), budget.ID)
	assert.ErrorIs(t, err, service.ErrBudgetNotSendable)
}

func TestBudgetService_Delete_KillsApprovalLink(t *testing.T) {
	env := setupServices(t, service.PolicyOnCreate)
	ctx := context.Background()
	dto := env.createBudget(t)

	require.NoError(t, env.budgets.Delete(ctx, dto.ID))

	_, err := env.approvals.GetByToken(ctx, dto.ApprovalToken)
	assert.ErrorIs(t, err, service.ErrBudgetNotFound)
}

func TestBudgetService_AddItem(t *testing.T) {
	env := setupServices(t, service.PolicyOnCreate)
	ctx := context.Background()
	dto := env.createBudget(t)

	item, err := env.budgets.AddItem(ctx, dto.ID, &domain.CreateBudgetItemRequest{
		Name:      "Backdrop",
		Quantity:  4,
		UnitPrice: decimal.RequireFromString("19.99"),
	})
	require.NoError(t, err)
	assert.True(t, item.TotalPrice.Equal(decimal.RequireFromString("79.96")))
	assert.True(t, item.IsApproved)

	reloaded, err := env.budgets.GetByID(ctx, dto.ID)
	require.NoError(t, err)
	assert.Len(t, reloaded.Items, 3)
}

func TestBudgetService_UpdateItem_RecomputesDerivedFields(t *testing.T) {
	env := setupServices(t, service.PolicyOnCreate)
	ctx := context.Background()
	dto := env.createBudget(t)

	qty := 5
	item, err := env.budgets.UpdateItem(ctx, dto.ID, dto.Items[0].ID, &domain.UpdateBudgetItemRequest{
		Quantity: &qty,
		Length:   testutil.DecimalPtr("2"),
		Width:    testutil.DecimalPtr("1.5"),
		Height:   testutil.DecimalPtr("0.4"),
	})
	require.NoError(t, err)
	assert.True(t, item.TotalPrice.Equal(decimal.NewFromInt(2500)))
	require.NotNil(t, item.Measurement)
	assert.True(t, item.Measurement.Equal(decimal.RequireFromString("1.2")))
	assert.Equal(t, domain.UnitCubicMeter, item.MeasurementUnit)
}

func TestBudgetService_UpdateItem_WrongBudget(t *testing.T) {
	env := setupServices(t, service.PolicyOnCreate)
	ctx := context.Background()
	first := env.createBudget(t)
	second := env.createBudget(t)

	name := "Hijacked"
	_, err := env.budgets.UpdateItem(ctx, first.ID, second.Items[0].ID, &domain.UpdateBudgetItemRequest{Name: &name})
	assert.ErrorIs(t, err, service.ErrBudgetItemNotFound)
}

func TestBudgetService_DeleteItem_RefusesLastItem(t *testing.T) {
	env := setupServices(t, service.PolicyOnCreate)
	ctx := context.Background()
	dto := env.createBudget(t, domain.CreateBudgetItemRequest{
		Name: "Only one", Quantity: 1, UnitPrice: decimal.NewFromInt(100),
	})

	err := env.budgets.DeleteItem(ctx, dto.ID, dto.Items[0].ID)
	assert.ErrorIs(t, err, service.ErrBudgetNeedsItem)
}

func TestBudgetService_DeleteItem(t *testing.T) {
	env := setupServices(t, service.PolicyOnCreate)
	ctx := context.Background()
	dto := env.createBudget(t)

	require.NoError(t, env.budgets.DeleteItem(ctx, dto.ID, dto.Items[1].ID))

	reloaded, err := env.budgets.GetByID(ctx, dto.ID)
	require.NoError(t, err)
	assert.Len(t, reloaded.Items, 1)
}

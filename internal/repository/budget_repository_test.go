package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/eventis/budget-api/internal/domain"
	"github.com/eventis/budget-api/internal/repository"
	"github.com/eventis/budget-api/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestBudgetRepository_GetByToken(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewBudgetRepository(db)
	ctx := context.Background()

	project := testutil.CreateTestProject(t, db, "Summer Festival")
	budget := testutil.CreateTestBudget(t, db, project.ID, "Main stage")

	found, err := repo.GetByToken(ctx, budget.ApprovalToken)
	require.NoError(t, err)
	assert.Equal(t, budget.ID, found.ID)
	assert.Len(t, found.Items, 1)
	require.NotNil(t, found.Project)
	assert.Equal(t, "Summer Festival", found.Project.Name)
}

func TestBudgetRepository_GetByToken_Unknown(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewBudgetRepository(db)

	_, err := repo.GetByToken(context.Background(), testutil.NewTestToken())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestBudgetRepository_GetByToken_ExcludesDeleted(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewBudgetRepository(db)
	ctx := context.Background()

	project := testutil.CreateTestProject(t, db, "Conference")
	budget := testutil.CreateTestBudget(t, db, project.ID, "AV setup")

	require.NoError(t, repo.Delete(ctx, budget.ID))

	_, err := repo.GetByToken(ctx, budget.ApprovalToken)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestBudgetRepository_ClaimPendingApproval(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewBudgetRepository(db)
	ctx := context.Background()

	project := testutil.CreateTestProject(t, db, "Expo")
	budget := testutil.CreateTestBudget(t, db, project.ID, "Booth build")

	now := time.Now().UTC()
	claimed, err := repo.ClaimPendingApproval(db, budget.ID, domain.ApprovalStatusApproved, &now, "looks good")
	require.NoError(t, err)
	assert.True(t, claimed)

	reloaded, err := repo.GetByID(ctx, budget.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ApprovalStatusApproved, reloaded.ApprovalStatus)
	assert.Equal(t, domain.BudgetStatusApproved, reloaded.Status)
	assert.NotNil(t, reloaded.ApprovedAt)
	assert.Equal(t, "looks good", reloaded.ClientNotes)
}

func TestBudgetRepository_ClaimPendingApproval_SecondClaimFails(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewBudgetRepository(db)
	ctx := context.Background()

	project := testutil.CreateTestProject(t, db, "Expo")
	budget := testutil.CreateTestBudget(t, db, project.ID, "Booth build")

	now := time.Now().UTC()
	claimed, err := repo.ClaimPendingApproval(db, budget.ID, domain.ApprovalStatusApproved, &now, "")
	require.NoError(t, err)
	require.True(t, claimed)

	// the losing request must not overwrite the recorded decision
	claimed, err = repo.ClaimPendingApproval(db, budget.ID, domain.ApprovalStatusRejected, nil, "changed my mind")
	require.NoError(t, err)
	assert.False(t, claimed)

	reloaded, err := repo.GetByID(ctx, budget.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ApprovalStatusApproved, reloaded.ApprovalStatus)
	assert.Equal(t, "", reloaded.ClientNotes)
}

func TestBudgetRepository_ClaimPendingApproval_Reject(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewBudgetRepository(db)
	ctx := context.Background()

	project := testutil.CreateTestProject(t, db, "Expo")
	budget := testutil.CreateTestBudget(t, db, project.ID, "Booth build")

	now := time.Now().UTC()
	claimed, err := repo.ClaimPendingApproval(db, budget.ID, domain.ApprovalStatusRejected, &now, "over budget")
	require.NoError(t, err)
	assert.True(t, claimed)

	reloaded, err := repo.GetByID(ctx, budget.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ApprovalStatusRejected, reloaded.ApprovalStatus)
	assert.Equal(t, domain.BudgetStatusRejected, reloaded.Status)
	assert.NotNil(t, reloaded.ApprovedAt)
}

func TestBudgetRepository_ListPendingSentSince(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewBudgetRepository(db)
	ctx := context.Background()

	project := testutil.CreateTestProject(t, db, "Expo")

	stale := testutil.NewTestBudget(project.ID, "Stale")
	stale.Status = domain.BudgetStatusSent
	require.NoError(t, db.Create(stale).Error)
	require.NoError(t, db.Model(stale).UpdateColumn("updated_at", time.Now().Add(-72*time.Hour)).Error)

	fresh := testutil.NewTestBudget(project.ID, "Fresh")
	fresh.Status = domain.BudgetStatusSent
	require.NoError(t, db.Create(fresh).Error)

	draft := testutil.NewTestBudget(project.ID, "Draft")
	require.NoError(t, db.Create(draft).Error)
	require.NoError(t, db.Model(draft).UpdateColumn("updated_at", time.Now().Add(-72*time.Hour)).Error)

	pending, err := repo.ListPendingSentSince(ctx, time.Now().Add(-48*time.Hour))
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "Stale", pending[0].Name)
}

func TestBudgetItemRepository_SetApprovalByMembership(t *testing.T) {
	db := testutil.SetupTestDB(t)
	budgetRepo := repository.NewBudgetRepository(db)
	itemRepo := repository.NewBudgetItemRepository(db)
	ctx := context.Background()

	project := testutil.CreateTestProject(t, db, "Expo")
	budget := testutil.NewTestBudget(project.ID, "Booth build")
	budget.Items = append(budget.Items, domain.BudgetItem{
		Name:      "Lighting rig",
		Quantity:  1,
		UnitPrice: budget.Items[0].UnitPrice,
	})
	require.NoError(t, db.Create(budget).Error)

	keep := budget.Items[0].ID
	require.NoError(t, itemRepo.SetApprovalByMembership(db, budget.ID, []uuid.UUID{keep}))

	reloaded, err := budgetRepo.GetByID(ctx, budget.ID)
	require.NoError(t, err)
	for _, item := range reloaded.Items {
		if item.ID == keep {
			assert.True(t, item.IsApproved)
		} else {
			assert.False(t, item.IsApproved)
		}
	}
}

func TestBudgetItemRepository_SetApprovalByMembership_EmptyExcludesAll(t *testing.T) {
	db := testutil.SetupTestDB(t)
	budgetRepo := repository.NewBudgetRepository(db)
	itemRepo := repository.NewBudgetItemRepository(db)
	ctx := context.Background()

	project := testutil.CreateTestProject(t, db, "Expo")
	budget := testutil.CreateTestBudget(t, db, project.ID, "Booth build")

	require.NoError(t, itemRepo.SetApprovalByMembership(db, budget.ID, nil))

	reloaded, err := budgetRepo.GetByID(ctx, budget.ID)
	require.NoError(t, err)
	for _, item := range reloaded.Items {
		assert.False(t, item.IsApproved)
	}
}

package testutil

import (
	"strings"
	"testing"

	"github.com/eventis/budget-api/internal/database"
	"github.com/eventis/budget-api/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB opens an in-memory SQLite database with the full schema.
// Connections are capped at one so every query sees the same memory database.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "failed to open test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.AutoMigrate(db), "failed to migrate test database")

	return db
}

// NewTestLogger returns a no-op logger for wiring services under test
func NewTestLogger() *zap.Logger {
	return zap.NewNop()
}

// CreateTestProject inserts a project with sensible defaults
func CreateTestProject(t *testing.T, db *gorm.DB, name string) *domain.Project {
	t.Helper()

	project := &domain.Project{
		Name:       name,
		ClientName: "Acme Events",
		Location:   "Oslo",
	}
	require.NoError(t, db.Create(project).Error)
	return project
}

// CreateTestBudget inserts a budget in the given project with one default item
func CreateTestBudget(t *testing.T, db *gorm.DB, projectID uuid.UUID, name string) *domain.Budget {
	t.Helper()

	budget := NewTestBudget(projectID, name)
	require.NoError(t, db.Create(budget).Error)
	return budget
}

// NewTestBudget builds an unsaved budget with a fresh token and one item
func NewTestBudget(projectID uuid.UUID, name string) *domain.Budget {
	return &domain.Budget{
		Name:           name,
		ProjectID:      projectID,
		Status:         domain.BudgetStatusDraft,
		ApprovalStatus: domain.ApprovalStatusPending,
		ApprovalToken:  NewTestToken(),
		Items: []domain.BudgetItem{
			{
				Name:      "Stage deck",
				Quantity:  2,
				UnitPrice: decimal.NewFromInt(500),
			},
		},
	}
}

// NewTestToken builds a 64-character token in the production format
func NewTestToken() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "") +
		strings.ReplaceAll(uuid.New().String(), "-", "")
}

// DecimalPtr returns a pointer to a decimal built from the given string
func DecimalPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

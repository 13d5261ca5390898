package jobs

import (
	"context"
	"time"

	"github.com/eventis/budget-api/internal/domain"
	"go.uber.org/zap"
)

// ApprovalReminderJobName is the name of the pending approval reminder job
const ApprovalReminderJobName = "approval_reminder"

// PendingBudgetLister lists sent budgets still awaiting a client decision.
// The interface keeps the job decoupled from the repository package.
type PendingBudgetLister interface {
	ListPendingSentSince(ctx context.Context, cutoff time.Time) ([]domain.Budget, error)
}

// ApprovalReminderJob reports budgets that were sent to a client and have sat
// undecided past the configured age. It only logs; notification delivery is
// handled by whatever ships operator alerts off the log stream.
type ApprovalReminderJob struct {
	budgets PendingBudgetLister
	logger  *zap.Logger
	maxAge  time.Duration
	timeout time.Duration
}

// NewApprovalReminderJob creates a new pending approval reminder job.
func NewApprovalReminderJob(budgets PendingBudgetLister, logger *zap.Logger, maxAge time.Duration) *ApprovalReminderJob {
	return &ApprovalReminderJob{
		budgets: budgets,
		logger:  logger,
		maxAge:  maxAge,
		timeout: 30 * time.Second,
	}
}

// Run executes the reminder job.
func (j *ApprovalReminderJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	cutoff := time.Now().Add(-j.maxAge)
	budgets, err := j.budgets.ListPendingSentSince(ctx, cutoff)
	if err != nil {
		j.logger.Error("failed to list pending budgets", zap.Error(err))
		return
	}
	if len(budgets) == 0 {
		return
	}

	for i := range budgets {
		b := &budgets[i]
		j.logger.Warn("budget awaiting client decision",
			zap.String("budgetId", b.ID.String()),
			zap.String("name", b.Name),
			zap.Time("sentUpdatedAt", b.UpdatedAt),
		)
	}
	j.logger.Info("approval reminder finished",
		zap.Int("pending", len(budgets)),
		zap.Duration("max_age", j.maxAge),
	)
}

package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/planilla-backend-go/internal/domain/debt"
)

// DebtJobs keeps loans and advances tidy between payroll runs.
type DebtJobs struct {
	loanRepo    debt.LoanRepository
	advanceRepo debt.AdvanceRepository
	interval    time.Duration
	now         func() time.Time
}

func NewDebtJobs(loanRepo debt.LoanRepository, advanceRepo debt.AdvanceRepository, interval time.Duration) *DebtJobs {
	if interval <= 0 {
		interval = time.Hour
	}
	return &DebtJobs{
		loanRepo:    loanRepo,
		advanceRepo: advanceRepo,
		interval:    interval,
		now:         time.Now,
	}
}

func (j *DebtJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("close_settled_loans", j.interval, j.CloseSettledLoans)
	scheduler.AddJob("report_stale_advances", j.interval, j.ReportStaleAdvances)
}

// CloseSettledLoans deactivates active loans whose balance already reached zero.
func (j *DebtJobs) CloseSettledLoans(ctx context.Context) error {
	closed, err := j.loanRepo.CloseSettled(ctx, j.now().UTC())
	if err != nil {
		return fmt.Errorf("failed to close settled loans: %w", err)
	}
	if closed > 0 {
		slog.Info("Cron: Closed settled loans", "count", closed)
	}
	return nil
}

// ReportStaleAdvances logs pending advances whose target period has already
// passed. They are never deducted by a later run, so an operator has to
// cancel or reissue them.
func (j *DebtJobs) ReportStaleAdvances(ctx context.Context) error {
	now := j.now()
	stale, err := j.advanceRepo.ListStale(ctx, int(now.Month()), now.Year())
	if err != nil {
		return fmt.Errorf("failed to list stale advances: %w", err)
	}

	for _, a := range stale {
		name := ""
		if a.EmployeeName != nil {
			name = *a.EmployeeName
		}
		slog.Warn("Cron: Stale salary advance",
			"advance_id", a.ID,
			"employee_id", a.EmployeeID,
			"employee_name", name,
			"amount", a.Amount.String(),
			"target", fmt.Sprintf("%04d-%02d", a.TargetYear, a.TargetMonth),
		)
	}
	if len(stale) > 0 {
		slog.Info("Cron: Stale advances reported", "count", len(stale))
	}
	return nil
}

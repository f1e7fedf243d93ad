package cron

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cmlabs-hris/planilla-backend-go/internal/domain/debt"
	"github.com/cmlabs-hris/planilla-backend-go/internal/domain/employer"
	"github.com/cmlabs-hris/planilla-backend-go/internal/repository/sqlite/sqlitetest"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_RunOnce(t *testing.T) {
	s := NewScheduler()
	var calls []string
	boom := errors.New("boom")

	s.AddJob("first", time.Hour, func(ctx context.Context) error {
		calls = append(calls, "first")
		return boom
	})
	s.AddJob("second", time.Hour, func(ctx context.Context) error {
		calls = append(calls, "second")
		return errors.New("later")
	})

	assert.Equal(t, []string{"first", "second"}, s.Jobs())

	err := s.RunOnce(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"first", "second"}, calls)
}

func TestScheduler_StartStop(t *testing.T) {
	s := NewScheduler()
	var runs atomic.Int32
	s.AddJob("tick", 10*time.Millisecond, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	})

	// Stop before Start is a no-op.
	s.Stop()

	s.Start(context.Background())
	s.Start(context.Background())
	require.Eventually(t, func() bool { return runs.Load() >= 2 }, time.Second, 5*time.Millisecond)
	s.Stop()

	after := runs.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, runs.Load())
}

func TestDebtJobs(t *testing.T) {
	ctx := context.Background()
	set := sqlitetest.NewSet(t)
	er := sqlitetest.SeedEmployer(t, set, "20123456789", employer.RegimeGeneral)
	emp := sqlitetest.SeedEmployee(t, set, er.ID, "41234567", "3000")

	issued := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	settled, err := set.Loans.Create(ctx, debt.Loan{
		EmployeeID:          emp.ID,
		Principal:           decimal.NewFromInt(600),
		Remaining:           decimal.Zero,
		Installment:         decimal.NewFromInt(100),
		InstallmentCount:    6,
		MonthlyInterestRate: decimal.Zero,
		IssuedOn:            issued,
		Active:              true,
	})
	require.NoError(t, err)
	open, err := set.Loans.Create(ctx, debt.Loan{
		EmployeeID:          emp.ID,
		Principal:           decimal.NewFromInt(600),
		Remaining:           decimal.NewFromInt(300),
		Installment:         decimal.NewFromInt(100),
		InstallmentCount:    6,
		MonthlyInterestRate: decimal.Zero,
		IssuedOn:            issued,
		Active:              true,
	})
	require.NoError(t, err)

	stale, err := set.Advances.Create(ctx, debt.Advance{
		EmployeeID:  emp.ID,
		Amount:      decimal.NewFromInt(150),
		IssuedOn:    time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
		TargetMonth: 7,
		TargetYear:  2024,
	})
	require.NoError(t, err)
	current, err := set.Advances.Create(ctx, debt.Advance{
		EmployeeID:  emp.ID,
		Amount:      decimal.NewFromInt(80),
		IssuedOn:    time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC),
		TargetMonth: 9,
		TargetYear:  2024,
	})
	require.NoError(t, err)

	jobs := NewDebtJobs(set.Loans, set.Advances, 0)
	jobs.now = func() time.Time { return time.Date(2024, 9, 10, 8, 0, 0, 0, time.UTC) }

	s := NewScheduler()
	jobs.RegisterJobs(s)
	assert.Equal(t, []string{"close_settled_loans", "report_stale_advances"}, s.Jobs())

	var logs bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&logs, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	require.NoError(t, s.RunOnce(ctx))

	got, err := set.Loans.GetByID(ctx, settled.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)
	require.NotNil(t, got.EndsOn)
	assert.Equal(t, "2024-09-10", got.EndsOn.Format("2006-01-02"))

	got, err = set.Loans.GetByID(ctx, open.ID)
	require.NoError(t, err)
	assert.True(t, got.Active)

	assert.Contains(t, logs.String(), "Stale salary advance")
	assert.Contains(t, logs.String(), stale.ID)
	assert.NotContains(t, logs.String(), current.ID)
}

func TestNewDebtJobs_DefaultInterval(t *testing.T) {
	jobs := NewDebtJobs(nil, nil, -time.Second)
	assert.Equal(t, time.Hour, jobs.interval)
}

package debt

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/planilla-backend-go/internal/domain/debt"
	"github.com/cmlabs-hris/planilla-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/planilla-backend-go/internal/domain/employer"
	"github.com/cmlabs-hris/planilla-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/planilla-backend-go/internal/repository"
	"github.com/cmlabs-hris/planilla-backend-go/internal/repository/sqlite/sqlitetest"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc debt.DebtService
	set repository.Set
	er  employer.Employer
	emp employee.Employee
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	set := sqlitetest.NewSet(t)
	er := sqlitetest.SeedEmployer(t, set, "20123456789", employer.RegimeGeneral)
	return fixture{
		svc: NewDebtService(set.Transactor, set.Loans, set.Advances, set.Employees, set.Employers),
		set: set,
		er:  er,
		emp: sqlitetest.SeedEmployee(t, set, er.ID, "12345678", "3000"),
	}
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func strPtr(s string) *string { return &s }

func TestInstallment(t *testing.T) {
	tests := []struct {
		name      string
		principal string
		count     int
		rate      string
		want      string
	}{
		{"interest free", "1200", 12, "0", "100.00"},
		{"uneven split rounds to cents", "1000", 3, "0", "333.33"},
		{"one percent monthly annuity", "1000", 12, "1", "88.85"},
		{"single installment with interest", "500", 1, "2", "510.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Installment(d(tt.principal), tt.count, d(tt.rate))
			assert.Equal(t, tt.want, got.StringFixed(2))
		})
	}
}

func TestDebtService_CreateLoan(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	loan, err := f.svc.CreateLoan(ctx, debt.CreateLoanRequest{
		EmployeeID:       f.emp.ID,
		Principal:        d("1200"),
		InstallmentCount: 12,
		IssuedOn:         strPtr("2024-03-15"),
		Reason:           strPtr("emergencia familiar"),
	})
	require.NoError(t, err)
	assert.Equal(t, "100.00", loan.Installment.StringFixed(2))
	assert.True(t, loan.Remaining.Equal(d("1200")))
	assert.Equal(t, "2024-03-15", loan.IssuedOn)
	require.NotNil(t, loan.EndsOn)
	assert.Equal(t, "2025-03-15", *loan.EndsOn)
	assert.True(t, loan.Active)

	_, err = f.svc.CreateLoan(ctx, debt.CreateLoanRequest{EmployeeID: f.emp.ID, Principal: d("-5"), InstallmentCount: 0})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "principal")
	assert.Contains(t, verrs.ToMap(), "installment_count")

	_, err = f.svc.CreateLoan(ctx, debt.CreateLoanRequest{EmployeeID: repository.NewID(), Principal: d("100"), InstallmentCount: 1})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	loans, err := f.svc.ListLoans(ctx, f.emp.ID, true)
	require.NoError(t, err)
	assert.Len(t, loans, 1)
}

func TestDebtService_PaymentCapacity(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	now := time.Now().UTC()

	_, err := f.svc.CreateLoan(ctx, debt.CreateLoanRequest{EmployeeID: f.emp.ID, Principal: d("1200"), InstallmentCount: 12})
	require.NoError(t, err)
	_, err = f.svc.CreateAdvance(ctx, debt.CreateAdvanceRequest{
		EmployeeID: f.emp.ID, Amount: d("200"), TargetMonth: int(now.Month()), TargetYear: now.Year(),
	})
	require.NoError(t, err)

	// 100 installment + 200 advance already use 300 of the 900 limit.
	capacity, err := f.svc.CheckPaymentCapacity(ctx, debt.PaymentCapacityRequest{
		EmployeeID: f.emp.ID, Principal: d("7200"), InstallmentCount: 12,
	})
	require.NoError(t, err)
	assert.True(t, capacity.CanBorrow)
	assert.Equal(t, "300.00", capacity.CurrentDebts.StringFixed(2))
	assert.Equal(t, "600.00", capacity.NewInstallment.StringFixed(2))
	assert.Equal(t, "900.00", capacity.Limit.StringFixed(2))
	assert.Equal(t, "30.00", capacity.PercentageUsed.StringFixed(2))

	_, err = f.svc.CreateLoan(ctx, debt.CreateLoanRequest{EmployeeID: f.emp.ID, Principal: d("7212"), InstallmentCount: 12})
	assert.ErrorIs(t, err, debt.ErrPaymentCapacityExceeded)

	defaulted, err := f.svc.CheckPaymentCapacity(ctx, debt.PaymentCapacityRequest{EmployeeID: f.emp.ID, Principal: d("1200")})
	require.NoError(t, err)
	assert.Equal(t, "100.00", defaulted.NewInstallment.StringFixed(2))
}

func TestDebtService_RecordLoanPayment(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	loan, err := f.svc.CreateLoan(ctx, debt.CreateLoanRequest{EmployeeID: f.emp.ID, Principal: d("1200"), InstallmentCount: 12})
	require.NoError(t, err)

	partial, err := f.svc.RecordLoanPayment(ctx, debt.LoanPaymentRequest{LoanID: loan.ID, Amount: d("500"), PaidOn: strPtr("2024-04-01")})
	require.NoError(t, err)
	assert.Equal(t, "700.00", partial.Remaining.StringFixed(2))
	assert.True(t, partial.Active)

	settled, err := f.svc.RecordLoanPayment(ctx, debt.LoanPaymentRequest{LoanID: loan.ID, Amount: d("1000"), PaidOn: strPtr("2024-05-01")})
	require.NoError(t, err)
	assert.True(t, settled.Remaining.IsZero())
	assert.False(t, settled.Active)
	require.NotNil(t, settled.EndsOn)
	assert.Equal(t, "2024-05-01", *settled.EndsOn)

	payments, err := f.set.Loans.ListPayments(ctx, loan.ID)
	require.NoError(t, err)
	require.Len(t, payments, 2)
	total := payments[0].Amount.Add(payments[1].Amount)
	assert.Equal(t, "1200.00", total.StringFixed(2), "only the owed amount is recorded")

	_, err = f.svc.RecordLoanPayment(ctx, debt.LoanPaymentRequest{LoanID: loan.ID, Amount: d("10")})
	assert.ErrorIs(t, err, debt.ErrLoanInactive)

	_, err = f.svc.RecordLoanPayment(ctx, debt.LoanPaymentRequest{LoanID: repository.NewID(), Amount: d("10")})
	assert.ErrorIs(t, err, debt.ErrLoanNotFound)
}

func TestDebtService_CancelLoan(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	loan, err := f.svc.CreateLoan(ctx, debt.CreateLoanRequest{EmployeeID: f.emp.ID, Principal: d("600"), InstallmentCount: 6})
	require.NoError(t, err)

	cancelled, err := f.svc.CancelLoan(ctx, loan.ID)
	require.NoError(t, err)
	assert.False(t, cancelled.Active)
	assert.True(t, cancelled.Remaining.IsZero())

	_, err = f.svc.CancelLoan(ctx, loan.ID)
	assert.ErrorIs(t, err, debt.ErrLoanInactive)

	active, err := f.svc.ListLoans(ctx, f.emp.ID, true)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestDebtService_Advances(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.CreateAdvance(ctx, debt.CreateAdvanceRequest{
		EmployeeID: f.emp.ID, Amount: d("300"), TargetMonth: 6, TargetYear: 2024, IssuedOn: strPtr("2024-07-10"),
	})
	assert.ErrorIs(t, err, debt.ErrAdvancePastPeriod)

	adv, err := f.svc.CreateAdvance(ctx, debt.CreateAdvanceRequest{
		EmployeeID: f.emp.ID, Amount: d("300"), TargetMonth: 7, TargetYear: 2024, IssuedOn: strPtr("2024-07-10"),
	})
	require.NoError(t, err)
	assert.False(t, adv.Applied)

	pending, err := f.svc.ListAdvances(ctx, f.emp.ID, true)
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	cancelled, err := f.svc.CancelAdvance(ctx, adv.ID)
	require.NoError(t, err)
	assert.True(t, cancelled.Applied)
	assert.Nil(t, cancelled.AppliedRunID)
	assert.NotNil(t, cancelled.AppliedAt)

	_, err = f.svc.CancelAdvance(ctx, adv.ID)
	assert.ErrorIs(t, err, debt.ErrAdvanceAlreadyApplied)
	_, err = f.svc.CancelAdvance(ctx, repository.NewID())
	assert.ErrorIs(t, err, debt.ErrAdvanceNotFound)

	pending, err = f.svc.ListAdvances(ctx, f.emp.ID, true)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestDebtService_Summaries(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	other := sqlitetest.SeedEmployee(t, f.set, f.er.ID, "87654321", "2000")

	_, err := f.svc.CreateLoan(ctx, debt.CreateLoanRequest{EmployeeID: f.emp.ID, Principal: d("1200"), InstallmentCount: 12})
	require.NoError(t, err)
	_, err = f.svc.CreateLoan(ctx, debt.CreateLoanRequest{EmployeeID: other.ID, Principal: d("300"), InstallmentCount: 3})
	require.NoError(t, err)
	_, err = f.svc.CreateAdvance(ctx, debt.CreateAdvanceRequest{EmployeeID: other.ID, Amount: d("150"), TargetMonth: 12, TargetYear: 2099})
	require.NoError(t, err)

	emp, err := f.svc.EmployeeSummary(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, emp.ActiveLoans)
	assert.Equal(t, 1, emp.PendingAdvances)
	assert.Equal(t, "100.00", emp.MonthlyInstallments.StringFixed(2))
	assert.Equal(t, "150.00", emp.AdvancesPending.StringFixed(2))
	assert.True(t, emp.AdvancesCurrentPeriod.IsZero())

	er, err := f.svc.EmployerSummary(ctx, f.er.ID)
	require.NoError(t, err)
	assert.Len(t, er.Loans, 2)
	assert.Len(t, er.Advances, 1)
	assert.Equal(t, "1500.00", er.LoansRemaining.StringFixed(2))
	assert.Equal(t, "1650.00", er.TotalDebt.StringFixed(2))

	_, err = f.svc.EmployerSummary(ctx, repository.NewID())
	assert.ErrorIs(t, err, employer.ErrEmployerNotFound)
}

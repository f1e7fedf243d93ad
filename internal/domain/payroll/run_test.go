package payroll

import (
	"context"
	"errors"
	"testing"

	"github.com/cmlabs-hris/planilla-backend-go/internal/domain/absence"
	"github.com/cmlabs-hris/planilla-backend-go/internal/domain/contractor"
	"github.com/cmlabs-hris/planilla-backend-go/internal/domain/debt"
	"github.com/cmlabs-hris/planilla-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/planilla-backend-go/internal/domain/employer"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRoster struct {
	employer     employer.Employer
	employerErr  error
	employees    []employee.Employee
	contractors  []contractor.Contractor
	absences     map[string][]absence.Absence
	loans        map[string][]debt.Loan
	advances     map[string][]debt.Advance
	absenceErrs  map[string]error
	contractErr  error
	absenceCalls int
}

func (f *fakeRoster) GetEmployer(ctx context.Context, employerID string) (employer.Employer, error) {
	if f.employerErr != nil {
		return employer.Employer{}, f.employerErr
	}
	return f.employer, nil
}

func (f *fakeRoster) ListActiveEmployees(ctx context.Context, employerID string) ([]employee.Employee, error) {
	return f.employees, nil
}

func (f *fakeRoster) ListActiveContractors(ctx context.Context, employerID string) ([]contractor.Contractor, error) {
	if f.contractErr != nil {
		return nil, f.contractErr
	}
	return f.contractors, nil
}

func (f *fakeRoster) ListAbsences(ctx context.Context, employeeID string, period Period) ([]absence.Absence, error) {
	f.absenceCalls++
	if err := f.absenceErrs[employeeID]; err != nil {
		return nil, err
	}
	return f.absences[employeeID], nil
}

func (f *fakeRoster) ListActiveLoans(ctx context.Context, employeeID string) ([]debt.Loan, error) {
	return f.loans[employeeID], nil
}

func (f *fakeRoster) ListPendingAdvances(ctx context.Context, employeeID string) ([]debt.Advance, error) {
	return f.advances[employeeID], nil
}

func newFakeRoster() *fakeRoster {
	ana := testEmployee("3000")

	bad := testEmployee("0")
	bad.ID = "emp-bad"
	bad.DNI = "11111111"

	broken := testEmployee("2000")
	broken.ID = "emp-broken"
	broken.DNI = "22222222"

	foreign := testEmployee("2000")
	foreign.ID = "emp-foreign"
	foreign.EmployerID = "er-2"

	return &fakeRoster{
		employer: employer.Employer{
			ID:     "er-1",
			Name:   "Textiles Andinos SAC",
			RUC:    "20123456789",
			Regime: employer.RegimeGeneral,
			Active: true,
		},
		employees: []employee.Employee{ana, bad, broken, foreign, ana},
		contractors: []contractor.Contractor{
			{ID: "ctr-1", EmployerID: "er-1", FirstName: "Luis", LastName: "Mamani", MonthlyFee: d("1200"), FoodDeduction: decimal.Zero, BankAccount: strPtr("002-1")},
			{ID: "ctr-2", EmployerID: "er-1", FirstName: "Rosa", LastName: "Huamán", MonthlyFee: d("2000"), FoodDeduction: decimal.Zero},
		},
		advances: map[string][]debt.Advance{
			"emp-1": {{ID: "adv-1", EmployeeID: "emp-1", Amount: d("100"), TargetMonth: 7, TargetYear: 2024}},
		},
		absenceErrs: map[string]error{
			"emp-broken": errors.New("connection reset"),
		},
	}
}

func TestComputePayrollRun(t *testing.T) {
	roster := newFakeRoster()

	result, err := ComputePayrollRun(context.Background(), roster, "er-1", Period{Month: 7, Year: 2024}, DefaultRates())
	require.NoError(t, err)

	assert.Equal(t, "Textiles Andinos SAC", result.EmployerName)
	assert.Equal(t, employer.RegimeGeneral, result.Regime)

	require.Len(t, result.Employees, 1)
	assert.Equal(t, "emp-1", result.Employees[0].PersonID)
	assertAmount(t, "8754.25", result.Employees[0].Net, "net after advance")
	assert.Equal(t, []string{"adv-1"}, result.ConsumedAdvanceIDs())

	require.Len(t, result.Contractors, 2)

	require.Len(t, result.Errors, 3)
	byID := make(map[string]PersonError)
	for _, pe := range result.Errors {
		byID[pe.PersonID] = pe
	}
	assert.Equal(t, PersonErrorValidation, byID["emp-bad"].Kind)
	assert.Contains(t, byID["emp-bad"].Details, "base_salary")
	assert.Equal(t, PersonErrorLoad, byID["emp-broken"].Kind)
	assert.Contains(t, byID["emp-broken"].Message, "connection reset")
	assert.Equal(t, PersonErrorReferential, byID["emp-foreign"].Kind)

	assert.Equal(t, 1, result.Totals.EmployeeCount)
	assert.Equal(t, 2, result.Totals.ContractorCount)
	assert.Equal(t, 3, result.Totals.FailedCount)

	// the duplicated employee is computed once
	assert.Equal(t, 3, roster.absenceCalls)

	// the contractor without a bank account is flagged
	var missing int
	for _, w := range result.Warnings {
		if w.Code == WarningMissingBankAccount {
			missing++
			assert.Equal(t, "ctr-2", w.PersonID)
		}
	}
	assert.Equal(t, 1, missing)
}

func TestComputePayrollRun_TotalsAreSumsOfRoundedFigures(t *testing.T) {
	roster := newFakeRoster()

	result, err := ComputePayrollRun(context.Background(), roster, "er-1", Period{Month: 7, Year: 2024}, DefaultRates())
	require.NoError(t, err)

	gross, deductions, net := decimal.Zero, decimal.Zero, decimal.Zero
	for _, e := range result.Employees {
		gross = gross.Add(e.Gross)
		deductions = deductions.Add(e.Deductions)
		net = net.Add(e.Net)
	}
	for _, c := range result.Contractors {
		gross = gross.Add(c.Gross)
		deductions = deductions.Add(c.Deductions)
		net = net.Add(c.Net)
	}

	assert.True(t, result.Totals.Gross.Equal(gross))
	assert.True(t, result.Totals.Deductions.Equal(deductions))
	assert.True(t, result.Totals.Net.Equal(net))
	assert.True(t, result.Totals.Net.Equal(result.Totals.Gross.Sub(result.Totals.Deductions)))
	assertAmount(t, "12720.00", result.Totals.Gross, "gross")
}

func TestComputePayrollRun_EveryPersonAppearsOnce(t *testing.T) {
	roster := newFakeRoster()

	result, err := ComputePayrollRun(context.Background(), roster, "er-1", Period{Month: 3, Year: 2024}, DefaultRates())
	require.NoError(t, err)

	seen := make(map[string]int)
	for _, e := range result.Employees {
		seen[e.PersonID]++
	}
	for _, c := range result.Contractors {
		seen[c.PersonID]++
	}
	for _, pe := range result.Errors {
		seen[pe.PersonID]++
	}

	assert.Len(t, seen, 6)
	for id, n := range seen {
		assert.Equal(t, 1, n, id)
	}
}

func TestComputePayrollRun_Failures(t *testing.T) {
	t.Run("invalid period", func(t *testing.T) {
		_, err := ComputePayrollRun(context.Background(), newFakeRoster(), "er-1", Period{Month: 0, Year: 2024}, DefaultRates())
		require.Error(t, err)
	})

	t.Run("employer lookup fails", func(t *testing.T) {
		roster := newFakeRoster()
		roster.employerErr = employer.ErrEmployerNotFound
		_, err := ComputePayrollRun(context.Background(), roster, "er-1", Period{Month: 3, Year: 2024}, DefaultRates())
		assert.ErrorIs(t, err, employer.ErrEmployerNotFound)
	})

	t.Run("inactive employer", func(t *testing.T) {
		roster := newFakeRoster()
		roster.employer.Active = false
		_, err := ComputePayrollRun(context.Background(), roster, "er-1", Period{Month: 3, Year: 2024}, DefaultRates())
		assert.ErrorIs(t, err, ErrEmployerInactive)
	})

	t.Run("contractor roster fails", func(t *testing.T) {
		roster := newFakeRoster()
		roster.contractErr = errors.New("timeout")
		_, err := ComputePayrollRun(context.Background(), roster, "er-1", Period{Month: 3, Year: 2024}, DefaultRates())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to load contractors")
	})
}

func TestRunResult_Records(t *testing.T) {
	roster := newFakeRoster()
	result, err := ComputePayrollRun(context.Background(), roster, "er-1", Period{Month: 7, Year: 2024}, DefaultRates())
	require.NoError(t, err)

	records := result.Records()
	require.Len(t, records, 3)

	emp := records[0]
	assert.Equal(t, PersonEmployee, emp.PersonKind)
	assert.Equal(t, "er-1", emp.EmployerID)
	assertAmount(t, "3270.00", emp.Amount(DetailBonus), "bonus")
	assertAmount(t, "100.00", emp.Amount(DetailAdvances), "advances")
	assertAmount(t, "0.00", emp.Amount("unknown"), "unknown detail")
	assert.True(t, emp.Net.Equal(emp.Gross.Sub(emp.TotalDeductions)))

	assert.Equal(t, PersonContractor, records[1].PersonKind)
	assert.False(t, records[1].WithholdingSuspended())
	assert.False(t, emp.WithholdingSuspended())
}

func TestContractorRecord_Suspended(t *testing.T) {
	res, err := ComputeContractorPayroll(ContractorInput{
		Contractor: contractor.Contractor{ID: "ctr-9", MonthlyFee: d("2000"), Suspended: true, FoodDeduction: decimal.Zero},
		Period:     Period{Month: 7, Year: 2024},
	}, DefaultRates())
	require.NoError(t, err)

	rec := ContractorRecord("er-1", Period{Month: 7, Year: 2024}, res)
	assert.True(t, rec.WithholdingSuspended())
	assertAmount(t, "0.00", rec.Amount(DetailWithholding), "withholding")
	assertAmount(t, "2000.00", rec.Net, "net")
}

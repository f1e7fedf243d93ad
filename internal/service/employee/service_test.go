package employee

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/planilla-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/planilla-backend-go/internal/domain/employer"
	"github.com/cmlabs-hris/planilla-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/planilla-backend-go/internal/repository"
	"github.com/cmlabs-hris/planilla-backend-go/internal/repository/sqlite/sqlitetest"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (employee.EmployeeService, repository.Set, employer.Employer) {
	t.Helper()
	set := sqlitetest.NewSet(t)
	er := sqlitetest.SeedEmployer(t, set, "20123456789", employer.RegimeGeneral)
	return NewEmployeeService(set.Employees, set.Employers), set, er
}

func validRequest(employerID, dni string) employee.CreateEmployeeRequest {
	return employee.CreateEmployeeRequest{
		EmployerID:    employerID,
		FirstName:     "Rosa",
		LastName:      "Huamán",
		DNI:           dni,
		BaseSalary:    decimal.NewFromInt(2500),
		HireDate:      "2023-02-15",
		FoodDeduction: decimal.Zero,
	}
}

func strPtr(s string) *string { return &s }

func TestEmployeeService_CreateEmployee(t *testing.T) {
	ctx := context.Background()
	svc, _, er := newTestService(t)

	t.Run("defaults pension and cadence", func(t *testing.T) {
		created, err := svc.CreateEmployee(ctx, validRequest(er.ID, "40123456"))
		require.NoError(t, err)
		assert.Equal(t, employee.PensionState, created.PensionScheme)
		assert.Equal(t, employee.CadenceMonthly, created.PayCadence)
		assert.Equal(t, "2023-02-15", created.HireDate)
		assert.True(t, created.Active)
	})

	t.Run("duplicate DNI", func(t *testing.T) {
		_, err := svc.CreateEmployee(ctx, validRequest(er.ID, "40123456"))
		assert.ErrorIs(t, err, employee.ErrDNIExists)
	})

	t.Run("private fund keeps its code", func(t *testing.T) {
		req := validRequest(er.ID, "40999999")
		req.PensionScheme = employee.PensionPrivateFund
		req.FundCode = strPtr("INTEGRA")
		req.BirthDate = strPtr("1990-05-20")
		created, err := svc.CreateEmployee(ctx, req)
		require.NoError(t, err)
		require.NotNil(t, created.FundCode)
		assert.Equal(t, "INTEGRA", *created.FundCode)
		require.NotNil(t, created.BirthDate)
		assert.Equal(t, "1990-05-20", *created.BirthDate)
	})

	t.Run("state scheme drops fund code", func(t *testing.T) {
		req := validRequest(er.ID, "40888888")
		req.PensionScheme = employee.PensionState
		req.FundCode = strPtr("PRIMA")
		created, err := svc.CreateEmployee(ctx, req)
		require.NoError(t, err)
		assert.Nil(t, created.FundCode)
	})

	t.Run("validation", func(t *testing.T) {
		req := validRequest(er.ID, "123")
		req.BaseSalary = decimal.Zero
		req.PensionScheme = employee.PensionPrivateFund
		req.HireDate = "15/02/2023"
		_, err := svc.CreateEmployee(ctx, req)
		var verrs validator.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		fields := verrs.ToMap()
		assert.Contains(t, fields, "dni")
		assert.Contains(t, fields, "base_salary")
		assert.Contains(t, fields, "hire_date")
		assert.Contains(t, fields, "fund_code")
	})

	t.Run("unknown employer", func(t *testing.T) {
		_, err := svc.CreateEmployee(ctx, validRequest(repository.NewID(), "40777777"))
		assert.ErrorIs(t, err, employer.ErrEmployerNotFound)
	})
}

func TestEmployeeService_InactiveEmployer(t *testing.T) {
	ctx := context.Background()
	svc, set, er := newTestService(t)
	require.NoError(t, set.Employers.Deactivate(ctx, er.ID))

	_, err := svc.CreateEmployee(ctx, validRequest(er.ID, "40123456"))
	assert.ErrorIs(t, err, employer.ErrEmployerInactive)
}

func TestEmployeeService_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	svc, set, er := newTestService(t)
	emp := sqlitetest.SeedEmployee(t, set, er.ID, "12345678", "3000")
	other := sqlitetest.SeedEmployer(t, set, "20987654321", employer.RegimeMicroenterprise)

	salary := decimal.NewFromInt(3500)
	scheme := employee.PensionPrivateFund
	updated, err := svc.UpdateEmployee(ctx, er.ID, employee.UpdateEmployeeRequest{
		ID:            emp.ID,
		BaseSalary:    &salary,
		PensionScheme: &scheme,
		FundCode:      strPtr("PRIMA"),
	})
	require.NoError(t, err)
	assert.True(t, updated.BaseSalary.Equal(salary))
	assert.Equal(t, employee.PensionPrivateFund, updated.PensionScheme)

	_, err = svc.UpdateEmployee(ctx, other.ID, employee.UpdateEmployeeRequest{ID: emp.ID, BaseSalary: &salary})
	assert.ErrorIs(t, err, employee.ErrEmployerMismatch)

	_, err = svc.GetEmployee(ctx, other.ID, emp.ID)
	assert.ErrorIs(t, err, employee.ErrEmployerMismatch)

	require.NoError(t, svc.DeleteEmployee(ctx, er.ID, emp.ID))
	assert.ErrorIs(t, svc.DeleteEmployee(ctx, er.ID, emp.ID), employee.ErrEmployeeAlreadyInactive)
	assert.ErrorIs(t, svc.DeleteEmployee(ctx, er.ID, repository.NewID()), employee.ErrEmployeeNotFound)

	active, err := svc.ListEmployees(ctx, er.ID, true)
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err := svc.ListEmployees(ctx, er.ID, false)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.False(t, all[0].Active)

	_, err = svc.ListEmployees(ctx, repository.NewID(), false)
	assert.ErrorIs(t, err, employer.ErrEmployerNotFound)
}

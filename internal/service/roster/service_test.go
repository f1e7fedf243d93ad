package roster

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/cmlabs-hris/planilla-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/planilla-backend-go/internal/domain/employer"
	"github.com/cmlabs-hris/planilla-backend-go/internal/domain/roster"
	"github.com/cmlabs-hris/planilla-backend-go/internal/pkg/spreadsheet"
	"github.com/cmlabs-hris/planilla-backend-go/internal/repository"
	"github.com/cmlabs-hris/planilla-backend-go/internal/repository/sqlite/sqlitetest"
	contractorservice "github.com/cmlabs-hris/planilla-backend-go/internal/service/contractor"
	employeeservice "github.com/cmlabs-hris/planilla-backend-go/internal/service/employee"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newTestService(t *testing.T) (roster.RosterService, repository.Set, employer.Employer) {
	t.Helper()
	set := sqlitetest.NewSet(t)
	er := sqlitetest.SeedEmployer(t, set, "20123456789", employer.RegimeGeneral)
	svc := NewRosterService(
		set.Employers,
		employeeservice.NewEmployeeService(set.Employees, set.Employers),
		contractorservice.NewContractorService(set.Contractors, set.Employers),
	)
	return svc, set, er
}

// workbook builds a roster file from raw rows below the template header.
func workbook(t *testing.T, rows ...[]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	header := make([]interface{}, len(spreadsheet.RosterHeaders))
	for i, h := range spreadsheet.RosterHeaders {
		header[i] = h
	}
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &header))
	for i, row := range rows {
		row := row
		require.NoError(t, f.SetSheetRow("Sheet1", fmt.Sprintf("A%d", i+2), &row))
	}

	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	require.NoError(t, err)
	return &buf
}

func TestRosterService_Template(t *testing.T) {
	ctx := context.Background()
	svc, set, er := newTestService(t)

	file, err := svc.Template(ctx, er.ID)
	require.NoError(t, err)
	assert.Equal(t, "plantilla_20123456789.xlsx", file.Filename)
	assert.Equal(t, spreadsheet.ContentType, file.ContentType)

	// The template's example rows import cleanly.
	result, err := svc.Import(ctx, er.ID, bytes.NewReader(file.Content))
	require.NoError(t, err)
	assert.Equal(t, 1, result.EmployeesCreated)
	assert.Equal(t, 1, result.ContractorsCreated)
	assert.Empty(t, result.Errors)

	employees, err := set.Employees.ListByEmployerID(ctx, er.ID, true)
	require.NoError(t, err)
	require.Len(t, employees, 1)
	assert.Equal(t, "12345678", employees[0].DNI)
	assert.Equal(t, employee.PensionState, employees[0].PensionScheme)

	_, err = svc.Template(ctx, "missing")
	assert.ErrorIs(t, err, employer.ErrEmployerNotFound)
}

func TestRosterService_Import(t *testing.T) {
	ctx := context.Background()
	svc, set, er := newTestService(t)

	file := workbook(t,
		[]interface{}{"EMPLEADO", "Carlos", "Rojas", 1234567, 2800, "2023-05-02", "", "", "", "", "AFP", "prima", "", "", "quincenal", 50},
		[]interface{}{"locador", "Lucía", "Flores", "45678901", 1800, "02/01/2024", "", "", "", "", "", "", "", "", "Sí", 0},
		[]interface{}{"EMPLEADO", "Pedro", "Díaz", "ABC", 1500, "2023-05-02"},
		[]interface{}{"OTRO", "Nadie", "Nada", "11112222", 1000, "2023-05-02"},
		[]interface{}{"EMPLEADO", "Eva", "Soto", "22223333", "mucho", "2023-05-02"},
		[]interface{}{"EMPLEADO", "Carlos", "Rojas", "01234567", 2800, "2023-05-02"},
	)

	result, err := svc.Import(ctx, er.ID, file)
	require.NoError(t, err)
	assert.Equal(t, 1, result.EmployeesCreated)
	assert.Equal(t, 1, result.ContractorsCreated)

	failed := map[int]string{}
	for _, e := range result.Errors {
		failed[e.Row] = e.Message
	}
	assert.Len(t, failed, 4)
	assert.Contains(t, failed[4], "dni")
	assert.Contains(t, failed[5], "OTRO")
	assert.Contains(t, failed[6], "Sueldo/Monto")
	assert.Equal(t, employee.ErrDNIExists.Error(), failed[7])

	employees, err := set.Employees.ListByEmployerID(ctx, er.ID, true)
	require.NoError(t, err)
	require.Len(t, employees, 1)
	carlos := employees[0]
	assert.Equal(t, "01234567", carlos.DNI)
	assert.Equal(t, employee.PensionPrivateFund, carlos.PensionScheme)
	require.NotNil(t, carlos.FundCode)
	assert.Equal(t, "PRIMA", *carlos.FundCode)
	assert.Equal(t, employee.CadenceSemiMonthly, carlos.PayCadence)
	assert.True(t, carlos.FoodDeduction.Equal(decimal.NewFromInt(50)))

	contractors, err := set.Contractors.ListByEmployerID(ctx, er.ID, true)
	require.NoError(t, err)
	require.Len(t, contractors, 1)
	assert.True(t, contractors[0].Suspended)
	assert.Equal(t, "2024-01-02", contractors[0].StartDate.Format("2006-01-02"))

	assert.Equal(t, 6, result.Rows())
}

func TestRosterService_Import_InactiveEmployer(t *testing.T) {
	ctx := context.Background()
	svc, set, er := newTestService(t)
	require.NoError(t, set.Employers.Deactivate(ctx, er.ID))

	_, err := svc.Import(ctx, er.ID, workbook(t))
	assert.ErrorIs(t, err, employer.ErrEmployerInactive)
}

func TestRosterService_Import_NotAWorkbook(t *testing.T) {
	svc, _, er := newTestService(t)

	_, err := svc.Import(context.Background(), er.ID, bytes.NewReader([]byte("not a workbook")))
	assert.Error(t, err)
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, employee.PensionState, pensionScheme("ONP"))
	assert.Equal(t, employee.PensionPrivateFund, pensionScheme(" afp "))
	assert.Equal(t, employee.CadenceMonthly, payCadence(""))
	assert.Equal(t, employee.CadenceSemiMonthly, payCadence("Quincenal"))
	assert.True(t, truthy("SUSPENDIDO"))
	assert.False(t, truthy("no"))
	assert.Nil(t, optional("  "))
}

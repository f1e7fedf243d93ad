package spreadsheet

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestWritePayroll(t *testing.T) {
	wb := PayrollWorkbook{
		Summary: Summary{
			EmployerName:    "Textiles Andinos SAC",
			EmployerRUC:     "20123456789",
			Regime:          "general",
			Period:          "2024-07",
			Status:          "draft",
			EmployeeCount:   1,
			ContractorCount: 1,
			Gross:           d("10720"),
			Deductions:      d("761.75"),
			Net:             d("9958.25"),
		},
		Employees: []EmployeeLine{{
			FirstName: "Ana", LastName: "Quispe", DNI: "45678912",
			BaseSalary: d("3000"), WorkedDays: d("30"), ProratedBase: d("3000"),
			Vacation: d("250"), CTS: d("3000"), Bonus: d("3270"), FamilyAllowance: decimal.Zero,
			Pension: d("390"), Withholding: d("275.75"),
			Gross: d("9520"), Deductions: d("665.75"), Net: d("8854.25"),
		}},
		Contractors: []ContractorLine{{
			FirstName: "Luis", LastName: "Rojas", DNI: "41234567",
			Fee: d("1200"), Suspended: true, Deductions: decimal.Zero, Net: d("1200"),
		}},
	}

	var buf bytes.Buffer
	require.NoError(t, WritePayroll(&buf, wb))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetEmployees, SheetContractors, SheetSummary}, f.GetSheetList())

	rows, err := f.GetRows(SheetEmployees)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Len(t, rows[0], len(employeeHeaders))
	assert.Equal(t, "Neto a Pagar", rows[0][17])
	assert.Equal(t, "Ana", rows[1][0])
	assert.Equal(t, "8854.25", rows[1][17])

	rows, err = f.GetRows(SheetContractors)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Len(t, rows[0], 9)
	assert.Equal(t, "Sí", rows[1][4])

	total, err := f.GetCellValue(SheetSummary, "B12")
	require.NoError(t, err)
	assert.Equal(t, "9958.25", total)
	name, err := f.GetCellValue(SheetSummary, "B2")
	require.NoError(t, err)
	assert.Equal(t, "Textiles Andinos SAC", name)
}

func TestTemplateRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTemplate(&buf, time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)))

	rows, rowErrs, err := ReadRoster(&buf)
	require.NoError(t, err)
	assert.Empty(t, rowErrs)
	require.Len(t, rows, 2)

	emp := rows[0]
	assert.Equal(t, 2, emp.Row)
	assert.Equal(t, KindEmployee, emp.Kind)
	assert.Equal(t, "12345678", emp.DNI)
	assert.True(t, emp.Amount.Equal(d("1500")))
	assert.Equal(t, "2024-07-01", emp.StartDate)
	assert.Equal(t, "1990-01-01", emp.BirthDate)
	assert.Equal(t, "ONP", emp.Pension)
	assert.Equal(t, "mensual", emp.PayType)

	ctr := rows[1]
	assert.Equal(t, KindContractor, ctr.Kind)
	assert.True(t, ctr.Amount.Equal(d("3000")))
	assert.Equal(t, "BBVA", ctr.BankName)
	assert.Empty(t, ctr.BirthDate)
}

func TestReadRoster_BadRows(t *testing.T) {
	f := excelize.NewFile()
	sheet := "Sheet1"
	rows := [][]interface{}{
		headerRow(),
		{"empleado", "Rosa", "Huamán", 1234567, "abc", "2024-01-15"},
		{"socio", "Pedro", "Soto", "11111111", 1000, "2024-01-15"},
		{"locador", "Luis", "Rojas", "41234567", 1200, 45292},
		{"EMPLEADO", "Carla", "Vega", "22222222", 1800, "31/12/2023", "no-date"},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	var buf bytes.Buffer
	_, err := f.WriteTo(&buf)
	require.NoError(t, err)

	parsed, rowErrs, err := ReadRoster(&buf)
	require.NoError(t, err)

	require.Len(t, parsed, 1)
	assert.Equal(t, KindContractor, parsed[0].Kind)
	assert.Equal(t, 4, parsed[0].Row)
	assert.Equal(t, "2024-01-01", parsed[0].StartDate)

	require.Len(t, rowErrs, 3)
	assert.Equal(t, 2, rowErrs[0].Row)
	assert.Contains(t, rowErrs[0].Message, "Sueldo/Monto")
	assert.Equal(t, 3, rowErrs[1].Row)
	assert.Contains(t, rowErrs[1].Message, "unknown row type")
	assert.Equal(t, 5, rowErrs[2].Row)
	assert.Contains(t, rowErrs[2].Message, "Fecha Nacimiento")
}

func headerRow() []interface{} {
	out := make([]interface{}, len(RosterHeaders))
	for i, h := range RosterHeaders {
		out[i] = h
	}
	return out
}

func TestParseHelpers(t *testing.T) {
	got, err := parseDate("31/12/2023")
	require.NoError(t, err)
	assert.Equal(t, "2023-12-31", got)

	got, err = parseDate("")
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = parseDate("yesterday")
	assert.Error(t, err)

	amount, err := parseAmount("1,250.50")
	require.NoError(t, err)
	assert.True(t, amount.Equal(d("1250.50")))

	assert.Equal(t, "01234567", normalizeDNI("1234567"))
	assert.Equal(t, "12345678", normalizeDNI("12345678"))
}

// Package spreadsheet reads and writes the Excel workbooks exchanged with
// payroll operators: the period export and the roster bulk-load template.
package spreadsheet

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	SheetEmployees   = "Empleados"
	SheetContractors = "Locadores"
	SheetSummary     = "Resumen"

	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var employeeHeaders = []string{
	"Nombres", "Apellidos", "DNI", "Sueldo Base", "Días Trabajados", "Sueldo Prorrateado",
	"Vacaciones", "CTS", "Gratificación", "Asignación Familiar",
	"Pensión", "Impuesto Renta", "Descuento Alimentos", "Préstamos", "Adelantos",
	"Total Ingresos", "Total Descuentos", "Neto a Pagar",
}

var contractorHeaders = []string{
	"Nombres", "Apellidos", "DNI", "Monto Mensual", "Suspendido",
	"Retención 4ta Cat", "Descuento Alimentos", "Total Descuentos", "Neto a Pagar",
}

type EmployeeLine struct {
	FirstName       string
	LastName        string
	DNI             string
	BaseSalary      decimal.Decimal
	WorkedDays      decimal.Decimal
	ProratedBase    decimal.Decimal
	Vacation        decimal.Decimal
	CTS             decimal.Decimal
	Bonus           decimal.Decimal
	FamilyAllowance decimal.Decimal
	Pension         decimal.Decimal
	Withholding     decimal.Decimal
	FoodDeduction   decimal.Decimal
	Loans           decimal.Decimal
	Advances        decimal.Decimal
	Gross           decimal.Decimal
	Deductions      decimal.Decimal
	Net             decimal.Decimal
}

func (l EmployeeLine) values() []interface{} {
	return []interface{}{
		l.FirstName, l.LastName, l.DNI,
		money(l.BaseSalary), money(l.WorkedDays), money(l.ProratedBase),
		money(l.Vacation), money(l.CTS), money(l.Bonus), money(l.FamilyAllowance),
		money(l.Pension), money(l.Withholding), money(l.FoodDeduction), money(l.Loans), money(l.Advances),
		money(l.Gross), money(l.Deductions), money(l.Net),
	}
}

type ContractorLine struct {
	FirstName     string
	LastName      string
	DNI           string
	Fee           decimal.Decimal
	Suspended     bool
	Withholding   decimal.Decimal
	FoodDeduction decimal.Decimal
	Deductions    decimal.Decimal
	Net           decimal.Decimal
}

func (l ContractorLine) values() []interface{} {
	suspended := "No"
	if l.Suspended {
		suspended = "Sí"
	}
	return []interface{}{
		l.FirstName, l.LastName, l.DNI, money(l.Fee), suspended,
		money(l.Withholding), money(l.FoodDeduction), money(l.Deductions), money(l.Net),
	}
}

// Summary fills the Resumen sheet.
type Summary struct {
	EmployerName    string
	EmployerRUC     string
	Regime          string
	Period          string
	Status          string
	EmployeeCount   int
	ContractorCount int
	FailedCount     int
	Gross           decimal.Decimal
	Deductions      decimal.Decimal
	Net             decimal.Decimal
}

type PayrollWorkbook struct {
	Summary     Summary
	Employees   []EmployeeLine
	Contractors []ContractorLine
}

// money keeps two decimals while letting Excel treat the cell as a number.
func money(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}

// WritePayroll renders the period workbook and writes it to w.
func WritePayroll(w io.Writer, p PayrollWorkbook) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetEmployees); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetContractors); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	if _, err := f.NewSheet(SheetSummary); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	headerStyle, err := headerStyle(f)
	if err != nil {
		return err
	}

	if err := writeTable(f, SheetEmployees, headerStyle, employeeHeaders, len(p.Employees), func(i int) []interface{} {
		return p.Employees[i].values()
	}); err != nil {
		return err
	}
	if err := writeTable(f, SheetContractors, headerStyle, contractorHeaders, len(p.Contractors), func(i int) []interface{} {
		return p.Contractors[i].values()
	}); err != nil {
		return err
	}

	s := p.Summary
	summaryRows := [][]interface{}{
		{"Concepto", "Valor"},
		{"Empresa", s.EmployerName},
		{"RUC", s.EmployerRUC},
		{"Régimen Laboral", s.Regime},
		{"Período", s.Period},
		{"Estado", s.Status},
		{"Total Empleados", s.EmployeeCount},
		{"Total Locadores", s.ContractorCount},
		{"Registros con Error", s.FailedCount},
		{"Total Ingresos", money(s.Gross)},
		{"Total Descuentos", money(s.Deductions)},
		{"Total Neto", money(s.Net)},
	}
	for i, row := range summaryRows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(SheetSummary, cell, &row); err != nil {
			return fmt.Errorf("failed to write summary: %w", err)
		}
	}
	if err := f.SetCellStyle(SheetSummary, "A1", "B1", headerStyle); err != nil {
		return fmt.Errorf("failed to style summary: %w", err)
	}
	_ = f.SetColWidth(SheetSummary, "A", "B", 22)

	f.SetActiveSheet(0)
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func headerStyle(f *excelize.File) (int, error) {
	style, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"366092"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create header style: %w", err)
	}
	return style, nil
}

func writeTable(f *excelize.File, sheet string, style int, headers []string, n int, row func(i int) []interface{}) error {
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i := 0; i < n; i++ {
		values := row(i)
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	lastCol, _ := excelize.ColumnNumberToName(len(headers))
	_ = f.SetColWidth(sheet, "A", lastCol, 16)
	return nil
}

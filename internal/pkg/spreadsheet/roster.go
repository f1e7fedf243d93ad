package spreadsheet

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const SheetRoster = "Plantilla Carga Masiva"

// Row kinds of the roster template.
const (
	KindEmployee   = "EMPLEADO"
	KindContractor = "LOCADOR"
)

// RosterHeaders are the sixteen template columns, shared by employee and
// contractor rows. Contractors leave the personal columns empty and use the
// pay type column for their suspension flag.
var RosterHeaders = []string{
	"Tipo", "Nombres", "Apellidos", "DNI", "Sueldo/Monto", "Fecha Ingreso/Inicio",
	"Fecha Nacimiento", "Dirección", "Teléfono", "Email", "Tipo Pensión",
	"Código AFP", "Cuenta Bancaria", "Banco", "Tipo Pago/Suspendido", "Descuento Alimentos",
}

// RosterRow is one parsed template row. Row is the 1-based sheet row.
type RosterRow struct {
	Row           int
	Kind          string
	FirstName     string
	LastName      string
	DNI           string
	Amount        decimal.Decimal
	StartDate     string
	BirthDate     string
	Address       string
	Phone         string
	Email         string
	Pension       string
	FundCode      string
	BankAccount   string
	BankName      string
	PayType       string
	FoodDeduction decimal.Decimal
}

// RowError reports a template row that could not be parsed.
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// WriteTemplate writes the bulk-load template with one example row of each kind.
func WriteTemplate(w io.Writer, today time.Time) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetRoster); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	style, err := headerStyle(f)
	if err != nil {
		return err
	}

	start := today.Format("2006-01-02")
	examples := [][]interface{}{
		{KindEmployee, "Juan", "Pérez", "12345678", 1500, start, "1990-01-01", "Av. Arequipa 123", "987654321",
			"juan@email.com", "ONP", "", "1234567890123456", "BCP", "mensual", 0},
		{KindContractor, "María", "García", "87654321", 3000, start, "", "", "",
			"", "", "", "9876543210987654", "BBVA", "no", 0},
	}
	if err := writeTable(f, SheetRoster, style, RosterHeaders, len(examples), func(i int) []interface{} {
		return examples[i]
	}); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write template: %w", err)
	}
	return nil
}

// ReadRoster parses the first sheet of a template workbook. Rows that cannot
// be parsed are reported in the returned RowErrors and skipped; reading stops
// at the first row with an empty kind column.
func ReadRoster(r io.Reader) ([]RosterRow, []RowError, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read rows: %w", err)
	}

	var parsed []RosterRow
	var rowErrs []RowError
	for i, cells := range rows {
		if i == 0 {
			continue
		}
		rowNum := i + 1
		col := func(n int) string {
			if n < len(cells) {
				return strings.TrimSpace(cells[n])
			}
			return ""
		}

		kind := strings.ToUpper(col(0))
		if kind == "" {
			break
		}
		if kind != KindEmployee && kind != KindContractor {
			rowErrs = append(rowErrs, RowError{Row: rowNum, Message: fmt.Sprintf("unknown row type %q", col(0))})
			continue
		}

		row := RosterRow{
			Row:         rowNum,
			Kind:        kind,
			FirstName:   col(1),
			LastName:    col(2),
			DNI:         normalizeDNI(col(3)),
			Address:     col(7),
			Phone:       col(8),
			Email:       col(9),
			Pension:     col(10),
			FundCode:    strings.ToUpper(col(11)),
			BankAccount: col(12),
			BankName:    col(13),
			PayType:     strings.ToLower(col(14)),
		}

		if row.Amount, err = parseAmount(col(4)); err != nil {
			rowErrs = append(rowErrs, RowError{Row: rowNum, Message: "Sueldo/Monto: " + err.Error()})
			continue
		}
		if row.FoodDeduction, err = parseAmount(col(15)); err != nil {
			rowErrs = append(rowErrs, RowError{Row: rowNum, Message: "Descuento Alimentos: " + err.Error()})
			continue
		}
		if row.StartDate, err = parseDate(col(5)); err != nil {
			rowErrs = append(rowErrs, RowError{Row: rowNum, Message: "Fecha Ingreso/Inicio: " + err.Error()})
			continue
		}
		if row.BirthDate, err = parseDate(col(6)); err != nil {
			rowErrs = append(rowErrs, RowError{Row: rowNum, Message: "Fecha Nacimiento: " + err.Error()})
			continue
		}

		parsed = append(parsed, row)
	}
	return parsed, rowErrs, nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", ""))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%q is not a number", s)
	}
	return d, nil
}

var dateLayouts = []string{"2006-01-02", "02/01/2006", "2/1/2006", "2006/01/02"}

// parseDate accepts ISO and day-first dates typed as text, and Excel date
// serials. It returns the date as YYYY-MM-DD, or "" for an empty cell.
func parseDate(s string) (string, error) {
	if s == "" {
		return "", nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02"), nil
		}
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err == nil {
			return t.Format("2006-01-02"), nil
		}
	}
	return "", fmt.Errorf("%q is not a date", s)
}

// normalizeDNI restores leading zeros Excel drops from numeric cells.
func normalizeDNI(s string) string {
	if n, err := strconv.Atoi(s); err == nil && n >= 0 && len(s) < 8 {
		return fmt.Sprintf("%08d", n)
	}
	return s
}

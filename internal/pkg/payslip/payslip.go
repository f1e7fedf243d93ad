// Package payslip renders one-page employee payslips as PDF.
package payslip

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
	"github.com/skip2/go-qrcode"
)

const ContentType = "application/pdf"

type Line struct {
	Label  string
	Amount decimal.Decimal
}

type Payslip struct {
	RecordID        string
	EmployerName    string
	EmployerRUC     string
	EmployeeName    string
	DNI             string
	Period          string
	BankName        string
	BankAccount     string
	BaseAmount      decimal.Decimal
	WorkedDays      decimal.Decimal
	Earnings        []Line
	Deductions      []Line
	Gross           decimal.Decimal
	TotalDeductions decimal.Decimal
	Net             decimal.Decimal
	IssuedAt        time.Time
}

// VerificationCode is the text carried by the payslip QR code.
func VerificationCode(p Payslip) string {
	return fmt.Sprintf("PLANILLA|%s|%s|%s|%s", p.RecordID, p.DNI, p.Period, p.Net.StringFixed(2))
}

// Render writes the payslip PDF to w.
func Render(w io.Writer, p Payslip) error {
	qr, err := qrcode.Encode(VerificationCode(p), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to encode verification code: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Boleta de pago "+p.Period, true)
	pdf.SetCreator("planilla", true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, tr("Boleta de Pago"))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	header := [][2]string{
		{"Empresa", p.EmployerName},
		{"RUC", p.EmployerRUC},
		{"Trabajador", p.EmployeeName},
		{"DNI", p.DNI},
		{"Período", p.Period},
		{"Días trabajados", p.WorkedDays.StringFixed(2)},
		{"Sueldo base", p.BaseAmount.StringFixed(2)},
	}
	if p.BankAccount != "" {
		header = append(header, [2]string{"Cuenta", p.BankName + " " + p.BankAccount})
	}
	for _, kv := range header {
		pdf.CellFormat(45, 7, tr(kv[0]+":"), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 7, tr(kv[1]), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	section := func(title string, lines []Line, total decimal.Decimal, totalLabel string) {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.SetFillColor(54, 96, 146)
		pdf.SetTextColor(255, 255, 255)
		pdf.CellFormat(0, 8, tr(title), "", 1, "L", true, 0, "")
		pdf.SetTextColor(0, 0, 0)
		pdf.SetFont("Helvetica", "", 11)
		for _, l := range lines {
			pdf.CellFormat(130, 7, tr(l.Label), "B", 0, "L", false, 0, "")
			pdf.CellFormat(0, 7, l.Amount.StringFixed(2), "B", 1, "R", false, 0, "")
		}
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(130, 7, tr(totalLabel), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 7, total.StringFixed(2), "", 1, "R", false, 0, "")
		pdf.Ln(4)
	}
	section("Ingresos", p.Earnings, p.Gross, "Total ingresos")
	section("Descuentos", p.Deductions, p.TotalDeductions, "Total descuentos")

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(130, 10, tr("Neto a pagar"), "T", 0, "L", false, 0, "")
	pdf.CellFormat(0, 10, "S/ "+p.Net.StringFixed(2), "T", 1, "R", false, 0, "")
	pdf.Ln(6)

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("verification", opts, bytes.NewReader(qr))
	y := pdf.GetY()
	pdf.ImageOptions("verification", 10, y, 35, 35, false, opts, 0, "")
	pdf.SetXY(50, y+10)
	pdf.SetFont("Helvetica", "", 9)
	pdf.MultiCell(0, 5, tr(fmt.Sprintf("Registro %s\nEmitido %s", p.RecordID, p.IssuedAt.Format("2006-01-02 15:04"))), "", "L", false)

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render payslip: %w", err)
	}
	return nil
}

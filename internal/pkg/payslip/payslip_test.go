package payslip

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePayslip() Payslip {
	return Payslip{
		RecordID:     "0190c5a8-7f3e-7a2b-9c1d-2e3f4a5b6c7d",
		EmployerName: "Textiles Andinos SAC",
		EmployerRUC:  "20123456789",
		EmployeeName: "Ana Quispe",
		DNI:          "45678912",
		Period:       "2024-07",
		BankName:     "BCP",
		BankAccount:  "191-45678912",
		BaseAmount:   decimal.NewFromInt(3000),
		WorkedDays:   decimal.NewFromInt(30),
		Earnings: []Line{
			{Label: "Sueldo", Amount: decimal.NewFromInt(3000)},
			{Label: "Gratificación", Amount: decimal.NewFromInt(3270)},
		},
		Deductions: []Line{
			{Label: "Pensión", Amount: decimal.NewFromInt(390)},
		},
		Gross:           decimal.NewFromInt(6270),
		TotalDeductions: decimal.NewFromInt(390),
		Net:             decimal.NewFromInt(5880),
		IssuedAt:        time.Date(2024, 8, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestVerificationCode(t *testing.T) {
	assert.Equal(t,
		"PLANILLA|0190c5a8-7f3e-7a2b-9c1d-2e3f4a5b6c7d|45678912|2024-07|5880.00",
		VerificationCode(samplePayslip()))
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, samplePayslip()))

	out := buf.Bytes()
	require.Greater(t, len(out), 1000)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.Contains(t, string(out), "%%EOF")
}

func TestRender_WithoutBankAccount(t *testing.T) {
	p := samplePayslip()
	p.BankAccount = ""
	p.Deductions = nil

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, p))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cmlabs-hris/planilla-backend-go/internal/domain/employer"
	"github.com/cmlabs-hris/planilla-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/planilla-backend-go/internal/repository/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSetupLogging(t *testing.T) {
	assert.NoError(t, setupLogging("debug", "json"))
	assert.NoError(t, setupLogging("", ""))
	assert.ErrorContains(t, setupLogging("loud", "console"), "invalid log level")
	assert.ErrorContains(t, setupLogging("info", "xml"), "invalid log format")
}

func TestVersionAndHashPassword(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "planilla dev\n", out)

	out, err = execute(t, "s3cret\n", "hash-password")
	require.NoError(t, err)
	hash := strings.TrimSpace(out)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret")))

	_, err = execute(t, "\n", "hash-password")
	assert.ErrorContains(t, err, "must not be empty")
}

func TestRosterAndPayrollCommands(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	dbPath := filepath.Join(home, "planilla.db")

	ctx := context.Background()
	db, err := sqlite.Open(ctx, dbPath)
	require.NoError(t, err)
	er, err := sqlite.NewRepositories(db).Employers.Create(ctx, employer.Employer{
		Name:   "Textiles Andinos SAC",
		RUC:    "20123456789",
		Regime: employer.RegimeGeneral,
		Active: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.Close())

	templatePath := filepath.Join(home, "plantilla.xlsx")
	_, err = execute(t, "", "template", "--db", dbPath, "--employer", er.ID, "-o", templatePath)
	require.NoError(t, err)
	raw, err := os.ReadFile(templatePath)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("PK")))

	out, err := execute(t, "", "import", templatePath, "--db", dbPath, "--employer", er.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Employees created:   1")
	assert.Contains(t, out, "Contractors created: 1")

	_, err = execute(t, "", "preview", "--db", dbPath)
	assert.ErrorContains(t, err, "exactly one of --employer or --all")

	out, err = execute(t, "", "preview", "--db", dbPath, "--employer", er.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Textiles Andinos SAC")
	assert.Contains(t, out, "Total")
}

func TestPrintResult(t *testing.T) {
	result := payroll.RunResult{
		EmployerName: "Textiles Andinos SAC",
		EmployerRUC:  "20123456789",
		Regime:       employer.RegimeGeneral,
		Period:       payroll.Period{Month: 7, Year: 2024},
		Contractors: []payroll.ContractorResult{{
			FirstName:   "Luis",
			LastName:    "Mamani",
			DNI:         "70000001",
			Gross:       decimal.NewFromInt(2000),
			Deductions:  decimal.NewFromInt(160),
			Net:         decimal.NewFromInt(1840),
			Withholding: decimal.NewFromInt(160),
		}},
		Totals: payroll.RunTotals{
			ContractorCount: 1,
			Gross:           decimal.NewFromInt(2000),
			Deductions:      decimal.NewFromInt(160),
			Net:             decimal.NewFromInt(1840),
		},
	}

	var buf bytes.Buffer
	require.NoError(t, printResult(&buf, result, false))
	assert.Contains(t, buf.String(), "Luis Mamani")
	assert.Contains(t, buf.String(), "1840.00")

	buf.Reset()
	require.NoError(t, printResult(&buf, result, true))
	assert.Contains(t, buf.String(), `"employer_ruc": "20123456789"`)
}

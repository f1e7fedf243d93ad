// Package sqlitetest opens throwaway SQLite databases for service tests.
package sqlitetest

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/cmlabs-hris/planilla-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/planilla-backend-go/internal/domain/employer"
	"github.com/cmlabs-hris/planilla-backend-go/internal/repository"
	"github.com/cmlabs-hris/planilla-backend-go/internal/repository/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// NewSet returns the repositories of a migrated database in t.TempDir.
func NewSet(t *testing.T) repository.Set {
	t.Helper()

	db, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "planilla.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return sqlite.NewRepositories(db)
}

func SeedEmployer(t *testing.T, set repository.Set, ruc string, regime employer.Regime) employer.Employer {
	t.Helper()
	e, err := set.Employers.Create(context.Background(), employer.Employer{
		Name:   "Empresa " + ruc,
		RUC:    ruc,
		Regime: regime,
		Active: true,
	})
	require.NoError(t, err)
	return e
}

func SeedEmployee(t *testing.T, set repository.Set, employerID, dni, salary string) employee.Employee {
	t.Helper()
	account := "191-" + dni
	bank := "BCP"
	e, err := set.Employees.Create(context.Background(), employee.Employee{
		EmployerID:    employerID,
		FirstName:     "Ana",
		LastName:      "Quispe " + dni,
		DNI:           dni,
		BaseSalary:    decimal.RequireFromString(salary),
		HireDate:      time.Date(2022, 3, 1, 0, 0, 0, 0, time.UTC),
		PensionScheme: employee.PensionState,
		PayCadence:    employee.CadenceMonthly,
		FoodDeduction: decimal.Zero,
		BankName:      &bank,
		BankAccount:   &account,
		Active:        true,
	})
	require.NoError(t, err)
	return e
}

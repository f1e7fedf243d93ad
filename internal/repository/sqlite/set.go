package sqlite

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/planilla-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/planilla-backend-go/internal/repository"
)

func NewRepositories(db *database.SQLiteDB) repository.Set {
	return repository.Set{
		Transactor:  NewTransactor(db),
		Employers:   NewEmployerRepository(db),
		Employees:   NewEmployeeRepository(db),
		Contractors: NewContractorRepository(db),
		Absences:    NewAbsenceRepository(db),
		Loans:       NewLoanRepository(db),
		Advances:    NewAdvanceRepository(db),
		Payroll:     NewPayrollRepository(db),
		Settings:    NewSettingsRepository(db),
	}
}

// Open opens the database file and brings its schema up to date.
func Open(ctx context.Context, path string) (*database.SQLiteDB, error) {
	db, err := database.NewSQLiteDB(ctx, path)
	if err != nil {
		return nil, err
	}

	applied, err := Migrate(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	if len(applied) > 0 {
		slog.Info("applied migrations", "path", path, "versions", applied)
	}
	return db, nil
}

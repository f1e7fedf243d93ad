package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/planilla-backend-go/internal/pkg/database"
)

// ExpectedSchemaVersion is the schema version this build writes.
const ExpectedSchemaVersion = 2

// Migration is one forward schema step, tracked in PRAGMA user_version.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

func execAll(tx *sql.Tx, queries []string) error {
	for _, query := range queries {
		if _, err := tx.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
	}
	return nil
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema",
		Up: func(tx *sql.Tx) error {
			return execAll(tx, []string{
				`CREATE TABLE IF NOT EXISTS employers (
					id TEXT PRIMARY KEY,
					name TEXT NOT NULL,
					ruc TEXT NOT NULL UNIQUE,
					regime TEXT NOT NULL CHECK (regime IN ('microenterprise', 'small-business', 'general')),
					address TEXT,
					phone TEXT,
					email TEXT,
					active BOOLEAN NOT NULL DEFAULT 1,
					created_at DATETIME NOT NULL,
					updated_at DATETIME NOT NULL
				)`,
				`CREATE TABLE IF NOT EXISTS employees (
					id TEXT PRIMARY KEY,
					employer_id TEXT NOT NULL REFERENCES employers(id),
					first_name TEXT NOT NULL,
					last_name TEXT NOT NULL,
					dni TEXT NOT NULL,
					base_salary TEXT NOT NULL,
					hire_date DATE NOT NULL,
					birth_date DATE,
					address TEXT,
					phone TEXT,
					email TEXT,
					pension_scheme TEXT NOT NULL DEFAULT 'state',
					fund_code TEXT,
					pay_cadence TEXT NOT NULL DEFAULT 'monthly',
					food_deduction TEXT NOT NULL DEFAULT '0',
					bank_name TEXT,
					bank_account TEXT,
					active BOOLEAN NOT NULL DEFAULT 1,
					created_at DATETIME NOT NULL,
					updated_at DATETIME NOT NULL,
					UNIQUE (employer_id, dni)
				)`,
				`CREATE INDEX IF NOT EXISTS idx_employees_employer ON employees(employer_id)`,
				`CREATE TABLE IF NOT EXISTS contractors (
					id TEXT PRIMARY KEY,
					employer_id TEXT NOT NULL REFERENCES employers(id),
					first_name TEXT NOT NULL,
					last_name TEXT NOT NULL,
					dni TEXT NOT NULL,
					monthly_fee TEXT NOT NULL,
					start_date DATE NOT NULL,
					end_date DATE,
					suspended BOOLEAN NOT NULL DEFAULT 0,
					food_deduction TEXT NOT NULL DEFAULT '0',
					bank_name TEXT,
					bank_account TEXT,
					active BOOLEAN NOT NULL DEFAULT 1,
					created_at DATETIME NOT NULL,
					updated_at DATETIME NOT NULL,
					UNIQUE (employer_id, dni)
				)`,
				`CREATE INDEX IF NOT EXISTS idx_contractors_employer ON contractors(employer_id)`,
				`CREATE TABLE IF NOT EXISTS absences (
					id TEXT PRIMARY KEY,
					employee_id TEXT NOT NULL REFERENCES employees(id),
					date DATE NOT NULL,
					kind TEXT NOT NULL,
					excused BOOLEAN NOT NULL DEFAULT 0,
					hours_lost TEXT NOT NULL DEFAULT '8',
					reason TEXT,
					created_at DATETIME NOT NULL,
					UNIQUE (employee_id, date)
				)`,
				`CREATE TABLE IF NOT EXISTS loans (
					id TEXT PRIMARY KEY,
					employee_id TEXT NOT NULL REFERENCES employees(id),
					principal TEXT NOT NULL,
					remaining TEXT NOT NULL,
					installment TEXT NOT NULL,
					installment_count INTEGER NOT NULL,
					monthly_interest_rate TEXT NOT NULL DEFAULT '0',
					issued_on DATE NOT NULL,
					ends_on DATE,
					reason TEXT,
					active BOOLEAN NOT NULL DEFAULT 1,
					created_at DATETIME NOT NULL,
					updated_at DATETIME NOT NULL
				)`,
				`CREATE INDEX IF NOT EXISTS idx_loans_employee ON loans(employee_id)`,
				`CREATE TABLE IF NOT EXISTS loan_payments (
					id TEXT PRIMARY KEY,
					loan_id TEXT NOT NULL REFERENCES loans(id),
					amount TEXT NOT NULL,
					paid_on DATE NOT NULL,
					created_at DATETIME NOT NULL
				)`,
				`CREATE TABLE IF NOT EXISTS payroll_runs (
					id TEXT PRIMARY KEY,
					employer_id TEXT NOT NULL REFERENCES employers(id),
					period_month INTEGER NOT NULL CHECK (period_month BETWEEN 1 AND 12),
					period_year INTEGER NOT NULL,
					regime TEXT NOT NULL,
					status TEXT NOT NULL DEFAULT 'draft',
					employee_count INTEGER NOT NULL DEFAULT 0,
					contractor_count INTEGER NOT NULL DEFAULT 0,
					failed_count INTEGER NOT NULL DEFAULT 0,
					total_gross TEXT NOT NULL DEFAULT '0',
					total_deductions TEXT NOT NULL DEFAULT '0',
					total_net TEXT NOT NULL DEFAULT '0',
					paid_at DATETIME,
					created_at DATETIME NOT NULL,
					updated_at DATETIME NOT NULL,
					UNIQUE (employer_id, period_month, period_year)
				)`,
				`CREATE TABLE IF NOT EXISTS payroll_records (
					id TEXT PRIMARY KEY,
					run_id TEXT NOT NULL REFERENCES payroll_runs(id) ON DELETE CASCADE,
					employer_id TEXT NOT NULL REFERENCES employers(id),
					person_id TEXT NOT NULL,
					person_kind TEXT NOT NULL,
					first_name TEXT NOT NULL,
					last_name TEXT NOT NULL,
					dni TEXT NOT NULL,
					bank_name TEXT,
					bank_account TEXT,
					period_month INTEGER NOT NULL,
					period_year INTEGER NOT NULL,
					base_amount TEXT NOT NULL,
					worked_days TEXT NOT NULL,
					prorated_base TEXT NOT NULL,
					earnings TEXT NOT NULL DEFAULT '{}',
					deductions TEXT NOT NULL DEFAULT '{}',
					gross TEXT NOT NULL,
					total_deductions TEXT NOT NULL,
					net TEXT NOT NULL,
					created_at DATETIME NOT NULL
				)`,
				`CREATE INDEX IF NOT EXISTS idx_payroll_records_run ON payroll_records(run_id)`,
				`CREATE TABLE IF NOT EXISTS advances (
					id TEXT PRIMARY KEY,
					employee_id TEXT NOT NULL REFERENCES employees(id),
					amount TEXT NOT NULL,
					issued_on DATE NOT NULL,
					target_month INTEGER NOT NULL CHECK (target_month BETWEEN 1 AND 12),
					target_year INTEGER NOT NULL,
					reason TEXT,
					applied BOOLEAN NOT NULL DEFAULT 0,
					applied_at DATETIME,
					applied_run_id TEXT REFERENCES payroll_runs(id) ON DELETE SET NULL,
					created_at DATETIME NOT NULL
				)`,
				`CREATE INDEX IF NOT EXISTS idx_advances_employee ON advances(employee_id, applied)`,
			})
		},
	},
	{
		Version:     2,
		Description: "Add per-employer rate overrides",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
				CREATE TABLE IF NOT EXISTS payroll_settings (
					employer_id TEXT PRIMARY KEY REFERENCES employers(id),
					rates TEXT NOT NULL,
					created_at DATETIME NOT NULL,
					updated_at DATETIME NOT NULL
				)
			`)
			return err
		},
	},
}

// Migrate brings the schema up to ExpectedSchemaVersion, one transaction
// per step. It returns the versions applied.
func Migrate(ctx context.Context, db *database.SQLiteDB) ([]int, error) {
	var currentVersion int
	if err := db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion); err != nil {
		return nil, fmt.Errorf("failed to get schema version: %w", err)
	}

	var applied []int
	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := db.BeginTx(ctx, nil)
		if txErr != nil {
			return applied, fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return applied, fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return applied, fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return applied, fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		slog.Info("applied migration", "version", migration.Version, "description", migration.Description)
		applied = append(applied, migration.Version)
	}

	var finalVersion int
	if err := db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&finalVersion); err != nil {
		return applied, fmt.Errorf("failed to verify final schema version: %w", err)
	}
	if finalVersion != ExpectedSchemaVersion {
		return applied, fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, finalVersion)
	}
	return applied, nil
}

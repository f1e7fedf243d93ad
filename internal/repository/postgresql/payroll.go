package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/planilla-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/planilla-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/planilla-backend-go/internal/repository"
	"github.com/jackc/pgx/v5"
)

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}

// ========== RUNS ==========

const runColumns = `r.id, r.employer_id, r.period_month, r.period_year, r.regime, r.status,
	r.employee_count, r.contractor_count, r.failed_count, r.total_gross, r.total_deductions, r.total_net,
	r.paid_at, r.created_at, r.updated_at, er.name, er.ruc`

func scanRun(row pgx.Row) (payroll.PayrollRun, error) {
	var run payroll.PayrollRun
	err := row.Scan(
		&run.ID, &run.EmployerID, &run.PeriodMonth, &run.PeriodYear, &run.Regime, &run.Status,
		&run.EmployeeCount, &run.ContractorCount, &run.FailedCount, &run.TotalGross, &run.TotalDeductions, &run.TotalNet,
		&run.PaidAt, &run.CreatedAt, &run.UpdatedAt, &run.EmployerName, &run.EmployerRUC,
	)
	return run, err
}

func (r *payrollRepository) CreateRun(ctx context.Context, run payroll.PayrollRun) (payroll.PayrollRun, error) {
	q := GetQuerier(ctx, r.db)

	if run.ID == "" {
		run.ID = repository.NewID()
	}

	query := `
		INSERT INTO payroll_runs (
			id, employer_id, period_month, period_year, regime, status,
			employee_count, contractor_count, failed_count, total_gross, total_deductions, total_net
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := q.Exec(ctx, query,
		run.ID, run.EmployerID, run.PeriodMonth, run.PeriodYear, run.Regime, run.Status,
		run.EmployeeCount, run.ContractorCount, run.FailedCount, run.TotalGross, run.TotalDeductions, run.TotalNet,
	)
	if err != nil {
		if strings.Contains(err.Error(), "uk_payroll_run_period") {
			return payroll.PayrollRun{}, payroll.ErrPayrollRunExists
		}
		return payroll.PayrollRun{}, fmt.Errorf("failed to create payroll run: %w", err)
	}
	return r.GetRunByID(ctx, run.ID)
}

func (r *payrollRepository) GetRunByID(ctx context.Context, id string) (payroll.PayrollRun, error) {
	q := GetQuerier(ctx, r.db)

	run, err := scanRun(q.QueryRow(ctx, `SELECT `+runColumns+` FROM payroll_runs r JOIN employers er ON er.id = r.employer_id WHERE r.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollRun{}, payroll.ErrPayrollRunNotFound
		}
		return payroll.PayrollRun{}, fmt.Errorf("failed to get payroll run: %w", err)
	}
	return run, nil
}

func (r *payrollRepository) ListRuns(ctx context.Context, employerID string, year *int) ([]payroll.PayrollRun, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + runColumns + ` FROM payroll_runs r JOIN employers er ON er.id = r.employer_id WHERE r.employer_id = $1`
	args := []interface{}{employerID}
	if year != nil {
		query += ` AND r.period_year = $2`
		args = append(args, *year)
	}
	query += ` ORDER BY r.period_year DESC, r.period_month DESC`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll runs: %w", err)
	}
	defer rows.Close()

	var runs []payroll.PayrollRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func (r *payrollRepository) MarkRunPaid(ctx context.Context, id string, at time.Time) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		UPDATE payroll_runs SET status = $1, paid_at = $2, updated_at = NOW()
		WHERE id = $3 AND status = $4
	`, payroll.RunStatusPaid, at, id, payroll.RunStatusDraft)
	if err != nil {
		return fmt.Errorf("failed to mark payroll run paid: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrPayrollRunAlreadyPaid
	}
	return nil
}

func (r *payrollRepository) DeleteRun(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM payroll_runs WHERE id = $1 AND status = $2`, id, payroll.RunStatusDraft)
	if err != nil {
		return fmt.Errorf("failed to delete payroll run: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrPayrollRunAlreadyPaid
	}
	return nil
}

// ========== RECORDS ==========

const recordColumns = `id, run_id, employer_id, person_id, person_kind, first_name, last_name, dni,
	bank_name, bank_account, period_month, period_year, base_amount, worked_days, prorated_base,
	earnings, deductions, gross, total_deductions, net, created_at`

func scanRecord(row pgx.Row) (payroll.PayrollRecord, error) {
	var rec payroll.PayrollRecord
	var earningsBytes, deductionsBytes []byte
	err := row.Scan(
		&rec.ID, &rec.RunID, &rec.EmployerID, &rec.PersonID, &rec.PersonKind, &rec.FirstName, &rec.LastName, &rec.DNI,
		&rec.BankName, &rec.BankAccount, &rec.PeriodMonth, &rec.PeriodYear, &rec.BaseAmount, &rec.WorkedDays, &rec.ProratedBase,
		&earningsBytes, &deductionsBytes, &rec.Gross, &rec.TotalDeductions, &rec.Net, &rec.CreatedAt,
	)
	if err != nil {
		return payroll.PayrollRecord{}, err
	}
	_ = json.Unmarshal(earningsBytes, &rec.Earnings)
	_ = json.Unmarshal(deductionsBytes, &rec.Deductions)
	return rec, nil
}

func (r *payrollRepository) CreateRecord(ctx context.Context, record payroll.PayrollRecord) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	if record.ID == "" {
		record.ID = repository.NewID()
	}

	earningsJSON, _ := json.Marshal(record.Earnings)
	deductionsJSON, _ := json.Marshal(record.Deductions)

	query := `
		INSERT INTO payroll_records (
			id, run_id, employer_id, person_id, person_kind, first_name, last_name, dni,
			bank_name, bank_account, period_month, period_year, base_amount, worked_days, prorated_base,
			earnings, deductions, gross, total_deductions, net
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8,
			$9, $10, $11, $12, $13, $14, $15,
			$16, $17, $18, $19, $20
		)
		RETURNING ` + recordColumns

	created, err := scanRecord(q.QueryRow(ctx, query,
		record.ID, record.RunID, record.EmployerID, record.PersonID, record.PersonKind,
		record.FirstName, record.LastName, record.DNI, record.BankName, record.BankAccount,
		record.PeriodMonth, record.PeriodYear, record.BaseAmount, record.WorkedDays, record.ProratedBase,
		earningsJSON, deductionsJSON, record.Gross, record.TotalDeductions, record.Net,
	))
	if err != nil {
		return payroll.PayrollRecord{}, fmt.Errorf("failed to create payroll record: %w", err)
	}
	return created, nil
}

func (r *payrollRepository) GetRecordByID(ctx context.Context, id string) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	rec, err := scanRecord(q.QueryRow(ctx, `SELECT `+recordColumns+` FROM payroll_records WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
		}
		return payroll.PayrollRecord{}, fmt.Errorf("failed to get payroll record: %w", err)
	}
	return rec, nil
}

func (r *payrollRepository) ListRecordsByRun(ctx context.Context, runID string) ([]payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+recordColumns+` FROM payroll_records WHERE run_id = $1 ORDER BY person_kind DESC, last_name, first_name`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll records: %w", err)
	}
	defer rows.Close()

	var records []payroll.PayrollRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// ========== SETTINGS ==========

type settingsRepository struct {
	db *database.DB
}

func NewSettingsRepository(db *database.DB) payroll.SettingsRepository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) GetSettings(ctx context.Context, employerID string) (payroll.Settings, error) {
	q := GetQuerier(ctx, r.db)

	var s payroll.Settings
	var ratesBytes []byte
	err := q.QueryRow(ctx, `SELECT employer_id, rates, created_at, updated_at FROM payroll_settings WHERE employer_id = $1`, employerID).
		Scan(&s.EmployerID, &ratesBytes, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Settings{}, payroll.ErrSettingsNotFound
		}
		return payroll.Settings{}, fmt.Errorf("failed to get payroll settings: %w", err)
	}
	if err := json.Unmarshal(ratesBytes, &s.Rates); err != nil {
		return payroll.Settings{}, fmt.Errorf("failed to decode payroll rates: %w", err)
	}
	return s, nil
}

func (r *settingsRepository) UpsertSettings(ctx context.Context, settings payroll.Settings) (payroll.Settings, error) {
	q := GetQuerier(ctx, r.db)

	ratesJSON, err := json.Marshal(settings.Rates)
	if err != nil {
		return payroll.Settings{}, fmt.Errorf("failed to encode payroll rates: %w", err)
	}

	query := `
		INSERT INTO payroll_settings (employer_id, rates)
		VALUES ($1, $2)
		ON CONFLICT (employer_id) DO UPDATE SET
			rates = EXCLUDED.rates,
			updated_at = NOW()
		RETURNING employer_id, created_at, updated_at
	`

	s := payroll.Settings{Rates: settings.Rates}
	if err := q.QueryRow(ctx, query, settings.EmployerID, ratesJSON).Scan(&s.EmployerID, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return payroll.Settings{}, fmt.Errorf("failed to upsert payroll settings: %w", err)
	}
	return s, nil
}

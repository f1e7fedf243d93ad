package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/planilla-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/planilla-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/planilla-backend-go/internal/repository"
)

type payrollRepository struct {
	db *database.SQLiteDB
}

func NewPayrollRepository(db *database.SQLiteDB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}

// ========== RUNS ==========

const runColumns = `r.id, r.employer_id, r.period_month, r.period_year, r.regime, r.status,
	r.employee_count, r.contractor_count, r.failed_count, r.total_gross, r.total_deductions, r.total_net,
	r.paid_at, r.created_at, r.updated_at, er.name, er.ruc`

func scanRun(row rowScanner) (payroll.PayrollRun, error) {
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
	ts := now()

	_, err := q.ExecContext(ctx, `
		INSERT INTO payroll_runs (
			id, employer_id, period_month, period_year, regime, status,
			employee_count, contractor_count, failed_count, total_gross, total_deductions, total_net,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID, run.EmployerID, run.PeriodMonth, run.PeriodYear, string(run.Regime), string(run.Status),
		run.EmployeeCount, run.ContractorCount, run.FailedCount, run.TotalGross, run.TotalDeductions, run.TotalNet,
		ts, ts,
	)
	if err != nil {
		if isUniqueViolation(err, "payroll_runs.employer_id") {
			return payroll.PayrollRun{}, payroll.ErrPayrollRunExists
		}
		return payroll.PayrollRun{}, fmt.Errorf("failed to create payroll run: %w", err)
	}
	return r.GetRunByID(ctx, run.ID)
}

func (r *payrollRepository) GetRunByID(ctx context.Context, id string) (payroll.PayrollRun, error) {
	q := GetQuerier(ctx, r.db)

	run, err := scanRun(q.QueryRowContext(ctx, `SELECT `+runColumns+` FROM payroll_runs r JOIN employers er ON er.id = r.employer_id WHERE r.id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return payroll.PayrollRun{}, payroll.ErrPayrollRunNotFound
		}
		return payroll.PayrollRun{}, fmt.Errorf("failed to get payroll run: %w", err)
	}
	return run, nil
}

func (r *payrollRepository) ListRuns(ctx context.Context, employerID string, year *int) ([]payroll.PayrollRun, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + runColumns + ` FROM payroll_runs r JOIN employers er ON er.id = r.employer_id WHERE r.employer_id = ?`
	args := []any{employerID}
	if year != nil {
		query += ` AND r.period_year = ?`
		args = append(args, *year)
	}
	query += ` ORDER BY r.period_year DESC, r.period_month DESC`

	rows, err := q.QueryContext(ctx, query, args...)
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

	res, err := q.ExecContext(ctx, `UPDATE payroll_runs SET status = ?, paid_at = ?, updated_at = ? WHERE id = ? AND status = ?`,
		string(payroll.RunStatusPaid), at.UTC(), now(), id, string(payroll.RunStatusDraft))
	if err != nil {
		return fmt.Errorf("failed to mark payroll run paid: %w", err)
	}
	return expectAffected(res, payroll.ErrPayrollRunAlreadyPaid)
}

func (r *payrollRepository) DeleteRun(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	res, err := q.ExecContext(ctx, `DELETE FROM payroll_runs WHERE id = ? AND status = ?`, id, string(payroll.RunStatusDraft))
	if err != nil {
		return fmt.Errorf("failed to delete payroll run: %w", err)
	}
	return expectAffected(res, payroll.ErrPayrollRunAlreadyPaid)
}

// ========== RECORDS ==========

const recordColumns = `id, run_id, employer_id, person_id, person_kind, first_name, last_name, dni,
	bank_name, bank_account, period_month, period_year, base_amount, worked_days, prorated_base,
	earnings, deductions, gross, total_deductions, net, created_at`

func scanRecord(row rowScanner) (payroll.PayrollRecord, error) {
	var rec payroll.PayrollRecord
	var earnings, deductions string
	err := row.Scan(
		&rec.ID, &rec.RunID, &rec.EmployerID, &rec.PersonID, &rec.PersonKind, &rec.FirstName, &rec.LastName, &rec.DNI,
		&rec.BankName, &rec.BankAccount, &rec.PeriodMonth, &rec.PeriodYear, &rec.BaseAmount, &rec.WorkedDays, &rec.ProratedBase,
		&earnings, &deductions, &rec.Gross, &rec.TotalDeductions, &rec.Net, &rec.CreatedAt,
	)
	if err != nil {
		return payroll.PayrollRecord{}, err
	}
	_ = json.Unmarshal([]byte(earnings), &rec.Earnings)
	_ = json.Unmarshal([]byte(deductions), &rec.Deductions)
	return rec, nil
}

func (r *payrollRepository) CreateRecord(ctx context.Context, record payroll.PayrollRecord) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	if record.ID == "" {
		record.ID = repository.NewID()
	}

	earningsJSON, _ := json.Marshal(record.Earnings)
	deductionsJSON, _ := json.Marshal(record.Deductions)

	_, err := q.ExecContext(ctx, `
		INSERT INTO payroll_records (
			id, run_id, employer_id, person_id, person_kind, first_name, last_name, dni,
			bank_name, bank_account, period_month, period_year, base_amount, worked_days, prorated_base,
			earnings, deductions, gross, total_deductions, net, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		record.ID, record.RunID, record.EmployerID, record.PersonID, string(record.PersonKind),
		record.FirstName, record.LastName, record.DNI, record.BankName, record.BankAccount,
		record.PeriodMonth, record.PeriodYear, record.BaseAmount, record.WorkedDays, record.ProratedBase,
		string(earningsJSON), string(deductionsJSON), record.Gross, record.TotalDeductions, record.Net, now(),
	)
	if err != nil {
		return payroll.PayrollRecord{}, fmt.Errorf("failed to create payroll record: %w", err)
	}
	return r.GetRecordByID(ctx, record.ID)
}

func (r *payrollRepository) GetRecordByID(ctx context.Context, id string) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	rec, err := scanRecord(q.QueryRowContext(ctx, `SELECT `+recordColumns+` FROM payroll_records WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
		}
		return payroll.PayrollRecord{}, fmt.Errorf("failed to get payroll record: %w", err)
	}
	return rec, nil
}

func (r *payrollRepository) ListRecordsByRun(ctx context.Context, runID string) ([]payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.QueryContext(ctx, `SELECT `+recordColumns+` FROM payroll_records WHERE run_id = ? ORDER BY person_kind DESC, last_name, first_name`, runID)
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
	db *database.SQLiteDB
}

func NewSettingsRepository(db *database.SQLiteDB) payroll.SettingsRepository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) GetSettings(ctx context.Context, employerID string) (payroll.Settings, error) {
	q := GetQuerier(ctx, r.db)

	var s payroll.Settings
	var rates string
	err := q.QueryRowContext(ctx, `SELECT employer_id, rates, created_at, updated_at FROM payroll_settings WHERE employer_id = ?`, employerID).
		Scan(&s.EmployerID, &rates, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return payroll.Settings{}, payroll.ErrSettingsNotFound
		}
		return payroll.Settings{}, fmt.Errorf("failed to get payroll settings: %w", err)
	}
	if err := json.Unmarshal([]byte(rates), &s.Rates); err != nil {
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
	ts := now()

	_, err = q.ExecContext(ctx, `
		INSERT INTO payroll_settings (employer_id, rates, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (employer_id) DO UPDATE SET rates = excluded.rates, updated_at = excluded.updated_at
	`, settings.EmployerID, string(ratesJSON), ts, ts)
	if err != nil {
		return payroll.Settings{}, fmt.Errorf("failed to upsert payroll settings: %w", err)
	}
	return r.GetSettings(ctx, settings.EmployerID)
}

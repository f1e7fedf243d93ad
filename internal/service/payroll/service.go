package payroll

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/planilla-backend-go/internal/domain/debt"
	"github.com/cmlabs-hris/planilla-backend-go/internal/domain/employer"
	"github.com/cmlabs-hris/planilla-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/planilla-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/planilla-backend-go/internal/pkg/payslip"
	"github.com/cmlabs-hris/planilla-backend-go/internal/pkg/spreadsheet"
)

type PayrollServiceImpl struct {
	transactor   database.Transactor
	roster       payroll.RosterReader
	payrollRepo  payroll.PayrollRepository
	settingsRepo payroll.SettingsRepository
	employerRepo employer.EmployerRepository
	advanceRepo  debt.AdvanceRepository
}

func NewPayrollService(
	transactor database.Transactor,
	roster payroll.RosterReader,
	payrollRepo payroll.PayrollRepository,
	settingsRepo payroll.SettingsRepository,
	employerRepo employer.EmployerRepository,
	advanceRepo debt.AdvanceRepository,
) payroll.PayrollService {
	return &PayrollServiceImpl{
		transactor:   transactor,
		roster:       roster,
		payrollRepo:  payrollRepo,
		settingsRepo: settingsRepo,
		employerRepo: employerRepo,
		advanceRepo:  advanceRepo,
	}
}

// rates returns the employer's stored rates, or the statutory defaults.
func (s *PayrollServiceImpl) rates(ctx context.Context, employerID string) (payroll.Rates, bool, error) {
	settings, err := s.settingsRepo.GetSettings(ctx, employerID)
	if err != nil {
		if errors.Is(err, payroll.ErrSettingsNotFound) {
			return payroll.DefaultRates(), true, nil
		}
		return payroll.Rates{}, false, fmt.Errorf("failed to load payroll settings: %w", err)
	}
	return settings.Rates, false, nil
}

// ========== RUNS ==========

func (s *PayrollServiceImpl) Preview(ctx context.Context, req payroll.RunPayrollRequest) (payroll.RunResult, error) {
	if err := req.Validate(); err != nil {
		return payroll.RunResult{}, err
	}

	rates, _, err := s.rates(ctx, req.EmployerID)
	if err != nil {
		return payroll.RunResult{}, err
	}
	return payroll.ComputePayrollRun(ctx, s.roster, req.EmployerID, req.Period(), rates)
}

// Commit computes and stores the run in one transaction. Every advance the
// run deducted is marked applied there too; if another run already applied
// one, the whole commit rolls back.
func (s *PayrollServiceImpl) Commit(ctx context.Context, req payroll.RunPayrollRequest) (payroll.CommitResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.CommitResponse{}, err
	}

	rates, _, err := s.rates(ctx, req.EmployerID)
	if err != nil {
		return payroll.CommitResponse{}, err
	}

	var (
		result payroll.RunResult
		run    payroll.PayrollRun
	)
	err = s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		result, err = payroll.ComputePayrollRun(ctx, s.roster, req.EmployerID, req.Period(), rates)
		if err != nil {
			return err
		}

		run, err = s.payrollRepo.CreateRun(ctx, payroll.PayrollRun{
			EmployerID:      req.EmployerID,
			PeriodMonth:     req.PeriodMonth,
			PeriodYear:      req.PeriodYear,
			Regime:          result.Regime,
			Status:          payroll.RunStatusDraft,
			EmployeeCount:   result.Totals.EmployeeCount,
			ContractorCount: result.Totals.ContractorCount,
			FailedCount:     result.Totals.FailedCount,
			TotalGross:      result.Totals.Gross,
			TotalDeductions: result.Totals.Deductions,
			TotalNet:        result.Totals.Net,
		})
		if err != nil {
			return err
		}

		for _, record := range result.Records() {
			record.RunID = run.ID
			if _, err := s.payrollRepo.CreateRecord(ctx, record); err != nil {
				return fmt.Errorf("failed to store record for %s: %w", record.PersonID, err)
			}
		}

		appliedAt := time.Now().UTC()
		for _, id := range result.ConsumedAdvanceIDs() {
			if err := s.advanceRepo.MarkApplied(ctx, id, &run.ID, appliedAt); err != nil {
				return fmt.Errorf("failed to apply advance %s: %w", id, err)
			}
		}
		return nil
	})
	if err != nil {
		return payroll.CommitResponse{}, err
	}

	slog.Info("payroll run committed",
		"run_id", run.ID,
		"employer_id", run.EmployerID,
		"period", req.Period().String(),
		"employees", run.EmployeeCount,
		"contractors", run.ContractorCount,
		"failed", run.FailedCount,
		"total_net", run.TotalNet.String(),
	)
	return payroll.CommitResponse{Run: payroll.ToRunResponse(run), Result: result}, nil
}

func (s *PayrollServiceImpl) GetRun(ctx context.Context, id string) (payroll.RunDetailResponse, error) {
	run, err := s.payrollRepo.GetRunByID(ctx, id)
	if err != nil {
		return payroll.RunDetailResponse{}, err
	}

	records, err := s.payrollRepo.ListRecordsByRun(ctx, id)
	if err != nil {
		return payroll.RunDetailResponse{}, fmt.Errorf("failed to list records: %w", err)
	}

	resp := payroll.RunDetailResponse{
		RunResponse: payroll.ToRunResponse(run),
		Records:     make([]payroll.RecordResponse, 0, len(records)),
	}
	for _, r := range records {
		resp.Records = append(resp.Records, payroll.ToRecordResponse(r))
	}
	return resp, nil
}

func (s *PayrollServiceImpl) ListRuns(ctx context.Context, employerID string, year *int) ([]payroll.RunResponse, error) {
	if _, err := s.employerRepo.GetByID(ctx, employerID); err != nil {
		return nil, err
	}

	runs, err := s.payrollRepo.ListRuns(ctx, employerID, year)
	if err != nil {
		return nil, err
	}

	resp := make([]payroll.RunResponse, 0, len(runs))
	for _, r := range runs {
		resp = append(resp, payroll.ToRunResponse(r))
	}
	return resp, nil
}

func (s *PayrollServiceImpl) MarkPaid(ctx context.Context, id string) (payroll.RunResponse, error) {
	run, err := s.payrollRepo.GetRunByID(ctx, id)
	if err != nil {
		return payroll.RunResponse{}, err
	}
	if run.Status == payroll.RunStatusPaid {
		return payroll.RunResponse{}, payroll.ErrPayrollRunAlreadyPaid
	}

	if err := s.payrollRepo.MarkRunPaid(ctx, id, time.Now().UTC()); err != nil {
		return payroll.RunResponse{}, err
	}

	run, err = s.payrollRepo.GetRunByID(ctx, id)
	if err != nil {
		return payroll.RunResponse{}, err
	}
	slog.Info("payroll run paid", "run_id", id)
	return payroll.ToRunResponse(run), nil
}

// DeleteRun removes a draft run and makes the advances it deducted pending again.
func (s *PayrollServiceImpl) DeleteRun(ctx context.Context, id string) error {
	var released int64
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		run, err := s.payrollRepo.GetRunByID(ctx, id)
		if err != nil {
			return err
		}
		if run.Status == payroll.RunStatusPaid {
			return payroll.ErrPayrollRunAlreadyPaid
		}

		if released, err = s.advanceRepo.ReleaseByRun(ctx, id); err != nil {
			return err
		}
		return s.payrollRepo.DeleteRun(ctx, id)
	})
	if err != nil {
		return err
	}

	slog.Info("payroll run deleted", "run_id", id, "advances_released", released)
	return nil
}

// ========== DOCUMENTS ==========

func (s *PayrollServiceImpl) ExportRun(ctx context.Context, id string) (payroll.FileResponse, error) {
	run, err := s.payrollRepo.GetRunByID(ctx, id)
	if err != nil {
		return payroll.FileResponse{}, err
	}
	records, err := s.payrollRepo.ListRecordsByRun(ctx, id)
	if err != nil {
		return payroll.FileResponse{}, fmt.Errorf("failed to list records: %w", err)
	}

	summary := spreadsheet.Summary{
		Regime:          string(run.Regime),
		Period:          payroll.Period{Month: run.PeriodMonth, Year: run.PeriodYear}.String(),
		Status:          string(run.Status),
		EmployeeCount:   run.EmployeeCount,
		ContractorCount: run.ContractorCount,
		FailedCount:     run.FailedCount,
		Gross:           run.TotalGross,
		Deductions:      run.TotalDeductions,
		Net:             run.TotalNet,
	}
	if run.EmployerName != nil {
		summary.EmployerName = *run.EmployerName
	}
	if run.EmployerRUC != nil {
		summary.EmployerRUC = *run.EmployerRUC
	}
	return exportWorkbook(summary, records)
}

func (s *PayrollServiceImpl) ExportPreview(ctx context.Context, req payroll.RunPayrollRequest) (payroll.FileResponse, error) {
	result, err := s.Preview(ctx, req)
	if err != nil {
		return payroll.FileResponse{}, err
	}

	summary := spreadsheet.Summary{
		EmployerName:    result.EmployerName,
		EmployerRUC:     result.EmployerRUC,
		Regime:          string(result.Regime),
		Period:          result.Period.String(),
		Status:          "preview",
		EmployeeCount:   result.Totals.EmployeeCount,
		ContractorCount: result.Totals.ContractorCount,
		FailedCount:     result.Totals.FailedCount,
		Gross:           result.Totals.Gross,
		Deductions:      result.Totals.Deductions,
		Net:             result.Totals.Net,
	}
	return exportWorkbook(summary, result.Records())
}

func exportWorkbook(summary spreadsheet.Summary, records []payroll.PayrollRecord) (payroll.FileResponse, error) {
	wb := spreadsheet.PayrollWorkbook{Summary: summary}
	for _, r := range records {
		switch r.PersonKind {
		case payroll.PersonEmployee:
			wb.Employees = append(wb.Employees, spreadsheet.EmployeeLine{
				FirstName:       r.FirstName,
				LastName:        r.LastName,
				DNI:             r.DNI,
				BaseSalary:      r.BaseAmount,
				WorkedDays:      r.WorkedDays,
				ProratedBase:    r.ProratedBase,
				Vacation:        r.Amount(payroll.DetailVacation),
				CTS:             r.Amount(payroll.DetailCTS),
				Bonus:           r.Amount(payroll.DetailBonus),
				FamilyAllowance: r.Amount(payroll.DetailFamilyAllowance),
				Pension:         r.Amount(payroll.DetailPension),
				Withholding:     r.Amount(payroll.DetailWithholding),
				FoodDeduction:   r.Amount(payroll.DetailFoodDeduction),
				Loans:           r.Amount(payroll.DetailLoans),
				Advances:        r.Amount(payroll.DetailAdvances),
				Gross:           r.Gross,
				Deductions:      r.TotalDeductions,
				Net:             r.Net,
			})
		case payroll.PersonContractor:
			wb.Contractors = append(wb.Contractors, spreadsheet.ContractorLine{
				FirstName:     r.FirstName,
				LastName:      r.LastName,
				DNI:           r.DNI,
				Fee:           r.BaseAmount,
				Suspended:     r.WithholdingSuspended(),
				Withholding:   r.Amount(payroll.DetailWithholding),
				FoodDeduction: r.Amount(payroll.DetailFoodDeduction),
				Deductions:    r.TotalDeductions,
				Net:           r.Net,
			})
		}
	}

	var buf bytes.Buffer
	if err := spreadsheet.WritePayroll(&buf, wb); err != nil {
		return payroll.FileResponse{}, err
	}
	return payroll.FileResponse{
		Filename:    fmt.Sprintf("planilla_%s_%s.xlsx", summary.EmployerRUC, summary.Period),
		ContentType: spreadsheet.ContentType,
		Content:     buf.Bytes(),
	}, nil
}

var (
	earningLabels = []struct{ key, label string }{
		{payroll.DetailVacation, "Vacaciones"},
		{payroll.DetailCTS, "CTS"},
		{payroll.DetailBonus, "Gratificación"},
		{payroll.DetailFamilyAllowance, "Asignación familiar"},
	}
	deductionLabels = []struct{ key, label string }{
		{payroll.DetailPension, "Aporte pensionario"},
		{payroll.DetailWithholding, "Renta de quinta categoría"},
		{payroll.DetailFoodDeduction, "Descuento por alimentos"},
		{payroll.DetailLoans, "Cuota de préstamos"},
		{payroll.DetailAdvances, "Adelantos de sueldo"},
	}
)

func (s *PayrollServiceImpl) Payslip(ctx context.Context, recordID string) (payroll.FileResponse, error) {
	record, err := s.payrollRepo.GetRecordByID(ctx, recordID)
	if err != nil {
		return payroll.FileResponse{}, err
	}
	if record.PersonKind != payroll.PersonEmployee {
		return payroll.FileResponse{}, payroll.ErrNotAnEmployeeRecord
	}

	run, err := s.payrollRepo.GetRunByID(ctx, record.RunID)
	if err != nil {
		return payroll.FileResponse{}, err
	}

	slip := payslip.Payslip{
		RecordID:        record.ID,
		EmployeeName:    record.FullName(),
		DNI:             record.DNI,
		Period:          record.Period().String(),
		BaseAmount:      record.BaseAmount,
		WorkedDays:      record.WorkedDays,
		Earnings:        []payslip.Line{{Label: "Remuneración del período", Amount: record.ProratedBase}},
		Gross:           record.Gross,
		TotalDeductions: record.TotalDeductions,
		Net:             record.Net,
		IssuedAt:        time.Now(),
	}
	if run.EmployerName != nil {
		slip.EmployerName = *run.EmployerName
	}
	if run.EmployerRUC != nil {
		slip.EmployerRUC = *run.EmployerRUC
	}
	if record.BankName != nil {
		slip.BankName = *record.BankName
	}
	if record.BankAccount != nil {
		slip.BankAccount = *record.BankAccount
	}
	for _, l := range earningLabels {
		if amount := record.Amount(l.key); !amount.IsZero() {
			slip.Earnings = append(slip.Earnings, payslip.Line{Label: l.label, Amount: amount})
		}
	}
	for _, l := range deductionLabels {
		if amount := record.Amount(l.key); !amount.IsZero() {
			slip.Deductions = append(slip.Deductions, payslip.Line{Label: l.label, Amount: amount})
		}
	}

	var buf bytes.Buffer
	if err := payslip.Render(&buf, slip); err != nil {
		return payroll.FileResponse{}, err
	}
	return payroll.FileResponse{
		Filename:    fmt.Sprintf("boleta_%s_%s.pdf", record.DNI, slip.Period),
		ContentType: payslip.ContentType,
		Content:     buf.Bytes(),
	}, nil
}

// ========== SETTINGS ==========

func (s *PayrollServiceImpl) GetSettings(ctx context.Context, employerID string) (payroll.SettingsResponse, error) {
	if _, err := s.employerRepo.GetByID(ctx, employerID); err != nil {
		return payroll.SettingsResponse{}, err
	}

	rates, isDefault, err := s.rates(ctx, employerID)
	if err != nil {
		return payroll.SettingsResponse{}, err
	}
	return payroll.SettingsResponse{EmployerID: employerID, IsDefault: isDefault, Rates: rates}, nil
}

func (s *PayrollServiceImpl) UpdateSettings(ctx context.Context, req payroll.UpdateSettingsRequest) (payroll.SettingsResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.SettingsResponse{}, err
	}
	if _, err := s.employerRepo.GetByID(ctx, req.EmployerID); err != nil {
		return payroll.SettingsResponse{}, err
	}

	current, _, err := s.rates(ctx, req.EmployerID)
	if err != nil {
		return payroll.SettingsResponse{}, err
	}

	updated, err := s.settingsRepo.UpsertSettings(ctx, payroll.Settings{
		EmployerID: req.EmployerID,
		Rates:      req.Apply(current),
	})
	if err != nil {
		return payroll.SettingsResponse{}, err
	}

	slog.Info("payroll settings updated", "employer_id", req.EmployerID)
	return payroll.SettingsResponse{EmployerID: req.EmployerID, Rates: updated.Rates}, nil
}

func (s *PayrollServiceImpl) RegimeSummary(ctx context.Context, employerID string) (payroll.RegimeSummaryResponse, error) {
	er, err := s.employerRepo.GetByID(ctx, employerID)
	if err != nil {
		return payroll.RegimeSummaryResponse{}, err
	}

	rules, ok := payroll.RegimeSummary(er.Regime)
	if !ok {
		return payroll.RegimeSummaryResponse{}, employer.ErrInvalidRegime
	}

	rates, _, err := s.rates(ctx, employerID)
	if err != nil {
		return payroll.RegimeSummaryResponse{}, err
	}
	return payroll.RegimeSummaryResponse{
		EmployerID: employerID,
		Regime:     er.Regime,
		Rules:      rules,
		Rates:      rates,
	}, nil
}

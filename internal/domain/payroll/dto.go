package payroll

import (
	"time"

	"github.com/cmlabs-hris/planilla-backend-go/internal/domain/employer"
	"github.com/cmlabs-hris/planilla-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== RUN DTOs ==========

type RunPayrollRequest struct {
	EmployerID  string `json:"-"`
	PeriodMonth int    `json:"period_month"`
	PeriodYear  int    `json:"period_year"`
}

func (r *RunPayrollRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployerID) {
		errs = append(errs, validator.ValidationError{Field: "employer_id", Message: "employer_id is required"})
	}
	if r.PeriodMonth < 1 || r.PeriodMonth > 12 {
		errs = append(errs, validator.ValidationError{Field: "period_month", Message: "must be between 1 and 12"})
	}
	if r.PeriodYear < 2000 || r.PeriodYear > 2100 {
		errs = append(errs, validator.ValidationError{Field: "period_year", Message: "must be between 2000 and 2100"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (r RunPayrollRequest) Period() Period {
	return Period{Month: r.PeriodMonth, Year: r.PeriodYear}
}

type RunResponse struct {
	ID              string          `json:"id"`
	EmployerID      string          `json:"employer_id"`
	EmployerName    *string         `json:"employer_name,omitempty"`
	PeriodMonth     int             `json:"period_month"`
	PeriodYear      int             `json:"period_year"`
	Regime          employer.Regime `json:"regime"`
	Status          RunStatus       `json:"status"`
	EmployeeCount   int             `json:"employee_count"`
	ContractorCount int             `json:"contractor_count"`
	FailedCount     int             `json:"failed_count"`
	TotalGross      decimal.Decimal `json:"total_gross"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	TotalNet        decimal.Decimal `json:"total_net"`
	PaidAt          *time.Time      `json:"paid_at,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

func ToRunResponse(r PayrollRun) RunResponse {
	return RunResponse{
		ID:              r.ID,
		EmployerID:      r.EmployerID,
		EmployerName:    r.EmployerName,
		PeriodMonth:     r.PeriodMonth,
		PeriodYear:      r.PeriodYear,
		Regime:          r.Regime,
		Status:          r.Status,
		EmployeeCount:   r.EmployeeCount,
		ContractorCount: r.ContractorCount,
		FailedCount:     r.FailedCount,
		TotalGross:      r.TotalGross,
		TotalDeductions: r.TotalDeductions,
		TotalNet:        r.TotalNet,
		PaidAt:          r.PaidAt,
		CreatedAt:       r.CreatedAt,
	}
}

type RecordResponse struct {
	ID              string                     `json:"id"`
	RunID           string                     `json:"run_id"`
	PersonID        string                     `json:"person_id"`
	PersonKind      PersonKind                 `json:"person_kind"`
	FullName        string                     `json:"full_name"`
	DNI             string                     `json:"dni"`
	BaseAmount      decimal.Decimal            `json:"base_amount"`
	WorkedDays      decimal.Decimal            `json:"worked_days"`
	ProratedBase    decimal.Decimal            `json:"prorated_base"`
	Earnings        map[string]decimal.Decimal `json:"earnings"`
	Deductions      map[string]decimal.Decimal `json:"deductions"`
	Gross           decimal.Decimal            `json:"gross"`
	TotalDeductions decimal.Decimal            `json:"total_deductions"`
	Net             decimal.Decimal            `json:"net"`
}

func ToRecordResponse(r PayrollRecord) RecordResponse {
	return RecordResponse{
		ID:              r.ID,
		RunID:           r.RunID,
		PersonID:        r.PersonID,
		PersonKind:      r.PersonKind,
		FullName:        r.FullName(),
		DNI:             r.DNI,
		BaseAmount:      r.BaseAmount,
		WorkedDays:      r.WorkedDays,
		ProratedBase:    r.ProratedBase,
		Earnings:        r.Earnings,
		Deductions:      r.Deductions,
		Gross:           r.Gross,
		TotalDeductions: r.TotalDeductions,
		Net:             r.Net,
	}
}

type RunDetailResponse struct {
	RunResponse
	Records []RecordResponse `json:"records"`
}

type CommitResponse struct {
	Run    RunResponse `json:"run"`
	Result RunResult   `json:"result"`
}

type FileResponse struct {
	Filename    string
	ContentType string
	Content     []byte
}

// ========== SETTINGS DTOs ==========

type SettingsResponse struct {
	EmployerID string `json:"employer_id"`
	IsDefault  bool   `json:"is_default"`
	Rates      Rates  `json:"rates"`
}

type UpdateSettingsRequest struct {
	EmployerID           string                     `json:"-"`
	FamilyAllowance      *decimal.Decimal           `json:"family_allowance,omitempty"`
	AllowanceThreshold   *decimal.Decimal           `json:"allowance_threshold,omitempty"`
	WithholdingThreshold *decimal.Decimal           `json:"withholding_threshold,omitempty"`
	StatePensionRate     *decimal.Decimal           `json:"state_pension_rate,omitempty"`
	DefaultFundRate      *decimal.Decimal           `json:"default_fund_rate,omitempty"`
	FundRates            map[string]decimal.Decimal `json:"fund_rates,omitempty"`
	ContractorThreshold  *decimal.Decimal           `json:"contractor_threshold,omitempty"`
	ContractorRate       *decimal.Decimal           `json:"contractor_rate,omitempty"`
}

func (r *UpdateSettingsRequest) Validate() error {
	var errs validator.ValidationErrors

	amounts := map[string]*decimal.Decimal{
		"family_allowance":      r.FamilyAllowance,
		"allowance_threshold":   r.AllowanceThreshold,
		"withholding_threshold": r.WithholdingThreshold,
		"contractor_threshold":  r.ContractorThreshold,
	}
	for field, v := range amounts {
		if v != nil && v.IsNegative() {
			errs = append(errs, validator.ValidationError{Field: field, Message: "must be non-negative"})
		}
	}

	rates := map[string]*decimal.Decimal{
		"state_pension_rate": r.StatePensionRate,
		"default_fund_rate":  r.DefaultFundRate,
		"contractor_rate":    r.ContractorRate,
	}
	for code, v := range r.FundRates {
		v := v
		rates["fund_rates."+code] = &v
	}
	for field, v := range rates {
		if v != nil && (v.IsNegative() || v.GreaterThanOrEqual(decimal.NewFromInt(1))) {
			errs = append(errs, validator.ValidationError{Field: field, Message: "must be a fraction between 0 and 1"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Apply overlays the request on current rates.
func (r *UpdateSettingsRequest) Apply(current Rates) Rates {
	if r.FamilyAllowance != nil {
		current.FamilyAllowance = *r.FamilyAllowance
	}
	if r.AllowanceThreshold != nil {
		current.AllowanceThreshold = *r.AllowanceThreshold
	}
	if r.WithholdingThreshold != nil {
		current.WithholdingThreshold = *r.WithholdingThreshold
	}
	if r.StatePensionRate != nil {
		current.StatePensionRate = *r.StatePensionRate
	}
	if r.DefaultFundRate != nil {
		current.DefaultFundRate = *r.DefaultFundRate
	}
	if len(r.FundRates) > 0 {
		merged := make(map[string]decimal.Decimal, len(current.FundRates)+len(r.FundRates))
		for code, rate := range current.FundRates {
			merged[code] = rate
		}
		for code, rate := range r.FundRates {
			merged[code] = rate
		}
		current.FundRates = merged
	}
	if r.ContractorThreshold != nil {
		current.ContractorThreshold = *r.ContractorThreshold
	}
	if r.ContractorRate != nil {
		current.ContractorRate = *r.ContractorRate
	}
	return current
}

type RegimeSummaryResponse struct {
	EmployerID string          `json:"employer_id"`
	Regime     employer.Regime `json:"regime"`
	Rules      []string        `json:"rules"`
	Rates      Rates           `json:"rates"`
}

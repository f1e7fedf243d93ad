package payroll

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/planilla-backend-go/internal/domain/absence"
	"github.com/cmlabs-hris/planilla-backend-go/internal/domain/contractor"
	"github.com/cmlabs-hris/planilla-backend-go/internal/domain/debt"
	"github.com/cmlabs-hris/planilla-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/planilla-backend-go/internal/domain/employer"
	"github.com/cmlabs-hris/planilla-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// RosterReader is the persistence port a payroll run reads through.
type RosterReader interface {
	GetEmployer(ctx context.Context, employerID string) (employer.Employer, error)
	ListActiveEmployees(ctx context.Context, employerID string) ([]employee.Employee, error)
	ListActiveContractors(ctx context.Context, employerID string) ([]contractor.Contractor, error)
	ListAbsences(ctx context.Context, employeeID string, period Period) ([]absence.Absence, error)
	ListActiveLoans(ctx context.Context, employeeID string) ([]debt.Loan, error)
	ListPendingAdvances(ctx context.Context, employeeID string) ([]debt.Advance, error)
}

// Person error kinds
const (
	PersonErrorValidation  = "validation"
	PersonErrorReferential = "referential"
	PersonErrorLoad        = "load"
)

// PersonError reports one person whose pay could not be computed.
type PersonError struct {
	PersonID   string            `json:"person_id"`
	PersonKind PersonKind        `json:"person_kind"`
	Name       string            `json:"name"`
	Kind       string            `json:"kind"`
	Message    string            `json:"message"`
	Details    map[string]string `json:"details,omitempty"`
}

type RunTotals struct {
	EmployeeCount   int             `json:"employee_count"`
	ContractorCount int             `json:"contractor_count"`
	FailedCount     int             `json:"failed_count"`
	Gross           decimal.Decimal `json:"gross"`
	Deductions      decimal.Decimal `json:"deductions"`
	Net             decimal.Decimal `json:"net"`
}

type RunResult struct {
	EmployerID   string             `json:"employer_id"`
	EmployerName string             `json:"employer_name"`
	EmployerRUC  string             `json:"employer_ruc"`
	Regime       employer.Regime    `json:"regime"`
	Period       Period             `json:"period"`
	Employees    []EmployeeResult   `json:"employees"`
	Contractors  []ContractorResult `json:"contractors"`
	Errors       []PersonError      `json:"errors"`
	Warnings     []Warning          `json:"warnings"`
	Totals       RunTotals          `json:"totals"`
}

// ConsumedAdvanceIDs lists every advance the run deducted.
func (r RunResult) ConsumedAdvanceIDs() []string {
	var ids []string
	for _, e := range r.Employees {
		ids = append(ids, e.ConsumedAdvanceIDs...)
	}
	return ids
}

// ComputePayrollRun computes pay for every active employee and contractor of
// an employer. A person that fails validation or loading is reported in
// Errors and never aborts the run; only failing to load the employer or the
// rosters does.
func ComputePayrollRun(ctx context.Context, roster RosterReader, employerID string, period Period, rates Rates) (RunResult, error) {
	if err := period.Validate(); err != nil {
		return RunResult{}, err
	}

	emp, err := roster.GetEmployer(ctx, employerID)
	if err != nil {
		return RunResult{}, err
	}
	if !emp.Active {
		return RunResult{}, ErrEmployerInactive
	}

	employees, err := roster.ListActiveEmployees(ctx, employerID)
	if err != nil {
		return RunResult{}, fmt.Errorf("failed to load employees: %w", err)
	}
	contractors, err := roster.ListActiveContractors(ctx, employerID)
	if err != nil {
		return RunResult{}, fmt.Errorf("failed to load contractors: %w", err)
	}

	result := RunResult{
		EmployerID:   emp.ID,
		EmployerName: emp.Name,
		EmployerRUC:  emp.RUC,
		Regime:       emp.Regime,
		Period:       period,
		Employees:    make([]EmployeeResult, 0, len(employees)),
		Contractors:  make([]ContractorResult, 0, len(contractors)),
		Errors:       []PersonError{},
		Warnings:     []Warning{},
		Totals: RunTotals{
			Gross:      decimal.Zero,
			Deductions: decimal.Zero,
			Net:        decimal.Zero,
		},
	}

	seen := make(map[string]bool, len(employees)+len(contractors))

	for _, e := range employees {
		if seen[e.ID] {
			continue
		}
		seen[e.ID] = true

		if e.EmployerID != emp.ID {
			result.addError(e.ID, PersonEmployee, e.FullName(), PersonErrorReferential, employee.ErrEmployerMismatch)
			continue
		}

		in, loadErr := loadEmployeeInput(ctx, roster, e, emp.Regime, period)
		if loadErr != nil {
			result.addError(e.ID, PersonEmployee, e.FullName(), PersonErrorLoad, loadErr)
			continue
		}

		res, calcErr := ComputeEmployeePayroll(in, rates)
		if calcErr != nil {
			result.addError(e.ID, PersonEmployee, e.FullName(), PersonErrorValidation, calcErr)
			continue
		}

		result.Employees = append(result.Employees, res)
		result.Warnings = append(result.Warnings, res.Warnings...)
		result.Totals.EmployeeCount++
		result.Totals.Gross = result.Totals.Gross.Add(res.Gross)
		result.Totals.Deductions = result.Totals.Deductions.Add(res.Deductions)
		result.Totals.Net = result.Totals.Net.Add(res.Net)
	}

	for _, c := range contractors {
		if seen[c.ID] {
			continue
		}
		seen[c.ID] = true

		if c.EmployerID != emp.ID {
			result.addError(c.ID, PersonContractor, c.FullName(), PersonErrorReferential, contractor.ErrEmployerMismatch)
			continue
		}

		res, calcErr := ComputeContractorPayroll(ContractorInput{Contractor: c, Period: period}, rates)
		if calcErr != nil {
			result.addError(c.ID, PersonContractor, c.FullName(), PersonErrorValidation, calcErr)
			continue
		}

		result.Contractors = append(result.Contractors, res)
		result.Warnings = append(result.Warnings, res.Warnings...)
		result.Totals.ContractorCount++
		result.Totals.Gross = result.Totals.Gross.Add(res.Gross)
		result.Totals.Deductions = result.Totals.Deductions.Add(res.Deductions)
		result.Totals.Net = result.Totals.Net.Add(res.Net)
	}

	return result, nil
}

func loadEmployeeInput(ctx context.Context, roster RosterReader, e employee.Employee, regime employer.Regime, period Period) (EmployeeInput, error) {
	absences, err := roster.ListAbsences(ctx, e.ID, period)
	if err != nil {
		return EmployeeInput{}, fmt.Errorf("failed to load absences: %w", err)
	}
	loans, err := roster.ListActiveLoans(ctx, e.ID)
	if err != nil {
		return EmployeeInput{}, fmt.Errorf("failed to load loans: %w", err)
	}
	advances, err := roster.ListPendingAdvances(ctx, e.ID)
	if err != nil {
		return EmployeeInput{}, fmt.Errorf("failed to load advances: %w", err)
	}

	return EmployeeInput{
		Employee: e,
		Regime:   regime,
		Period:   period,
		Absences: absences,
		Loans:    loans,
		Advances: advances,
	}, nil
}

func (r *RunResult) addError(personID string, kind PersonKind, name, errKind string, err error) {
	pe := PersonError{
		PersonID:   personID,
		PersonKind: kind,
		Name:       name,
		Kind:       errKind,
		Message:    err.Error(),
	}
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		pe.Details = validationErrs.ToMap()
	}
	r.Errors = append(r.Errors, pe)
	r.Totals.FailedCount++
}

package repository

import (
	"context"

	"github.com/cmlabs-hris/planilla-backend-go/internal/domain/absence"
	"github.com/cmlabs-hris/planilla-backend-go/internal/domain/contractor"
	"github.com/cmlabs-hris/planilla-backend-go/internal/domain/debt"
	"github.com/cmlabs-hris/planilla-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/planilla-backend-go/internal/domain/employer"
	"github.com/cmlabs-hris/planilla-backend-go/internal/domain/payroll"
)

// Roster reads a payroll run's inputs through the domain repositories of
// either backend.
type Roster struct {
	Employers   employer.EmployerRepository
	Employees   employee.EmployeeRepository
	Contractors contractor.ContractorRepository
	Absences    absence.AbsenceRepository
	Loans       debt.LoanRepository
	Advances    debt.AdvanceRepository
}

var _ payroll.RosterReader = (*Roster)(nil)

func (r *Roster) GetEmployer(ctx context.Context, employerID string) (employer.Employer, error) {
	return r.Employers.GetByID(ctx, employerID)
}

func (r *Roster) ListActiveEmployees(ctx context.Context, employerID string) ([]employee.Employee, error) {
	return r.Employees.ListByEmployerID(ctx, employerID, true)
}

func (r *Roster) ListActiveContractors(ctx context.Context, employerID string) ([]contractor.Contractor, error) {
	return r.Contractors.ListByEmployerID(ctx, employerID, true)
}

func (r *Roster) ListAbsences(ctx context.Context, employeeID string, period payroll.Period) ([]absence.Absence, error) {
	return r.Absences.ListByEmployee(ctx, employeeID, period.Start(), period.End())
}

func (r *Roster) ListActiveLoans(ctx context.Context, employeeID string) ([]debt.Loan, error) {
	return r.Loans.ListByEmployee(ctx, employeeID, true)
}

func (r *Roster) ListPendingAdvances(ctx context.Context, employeeID string) ([]debt.Advance, error) {
	return r.Advances.ListByEmployee(ctx, employeeID, true)
}

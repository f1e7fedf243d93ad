package repository

import (
	"github.com/cmlabs-hris/planilla-backend-go/internal/domain/absence"
	"github.com/cmlabs-hris/planilla-backend-go/internal/domain/contractor"
	"github.com/cmlabs-hris/planilla-backend-go/internal/domain/debt"
	"github.com/cmlabs-hris/planilla-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/planilla-backend-go/internal/domain/employer"
	"github.com/cmlabs-hris/planilla-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/planilla-backend-go/internal/pkg/database"
)

// Set bundles every repository of one backend with its transactor.
type Set struct {
	Transactor  database.Transactor
	Employers   employer.EmployerRepository
	Employees   employee.EmployeeRepository
	Contractors contractor.ContractorRepository
	Absences    absence.AbsenceRepository
	Loans       debt.LoanRepository
	Advances    debt.AdvanceRepository
	Payroll     payroll.PayrollRepository
	Settings    payroll.SettingsRepository
}

func (s Set) Roster() *Roster {
	return &Roster{
		Employers:   s.Employers,
		Employees:   s.Employees,
		Contractors: s.Contractors,
		Absences:    s.Absences,
		Loans:       s.Loans,
		Advances:    s.Advances,
	}
}

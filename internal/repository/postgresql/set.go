package postgresql

import (
	"github.com/cmlabs-hris/planilla-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/planilla-backend-go/internal/repository"
)

func NewRepositories(db *database.DB) repository.Set {
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

package roster

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/cmlabs-hris/planilla-backend-go/internal/domain/contractor"
	"github.com/cmlabs-hris/planilla-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/planilla-backend-go/internal/domain/employer"
	"github.com/cmlabs-hris/planilla-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/planilla-backend-go/internal/domain/roster"
	"github.com/cmlabs-hris/planilla-backend-go/internal/pkg/spreadsheet"
	"github.com/cmlabs-hris/planilla-backend-go/internal/pkg/validator"
)

type RosterServiceImpl struct {
	employerRepo      employer.EmployerRepository
	employeeService   employee.EmployeeService
	contractorService contractor.ContractorService
}

func NewRosterService(
	employerRepo employer.EmployerRepository,
	employeeService employee.EmployeeService,
	contractorService contractor.ContractorService,
) roster.RosterService {
	return &RosterServiceImpl{
		employerRepo:      employerRepo,
		employeeService:   employeeService,
		contractorService: contractorService,
	}
}

func (s *RosterServiceImpl) Template(ctx context.Context, employerID string) (payroll.FileResponse, error) {
	er, err := s.employerRepo.GetByID(ctx, employerID)
	if err != nil {
		return payroll.FileResponse{}, err
	}

	var buf bytes.Buffer
	if err := spreadsheet.WriteTemplate(&buf, time.Now()); err != nil {
		return payroll.FileResponse{}, fmt.Errorf("failed to write template: %w", err)
	}
	return payroll.FileResponse{
		Filename:    fmt.Sprintf("plantilla_%s.xlsx", er.RUC),
		ContentType: spreadsheet.ContentType,
		Content:     buf.Bytes(),
	}, nil
}

func (s *RosterServiceImpl) Import(ctx context.Context, employerID string, workbook io.Reader) (roster.ImportResult, error) {
	er, err := s.employerRepo.GetByID(ctx, employerID)
	if err != nil {
		return roster.ImportResult{}, err
	}
	if !er.Active {
		return roster.ImportResult{}, employer.ErrEmployerInactive
	}

	rows, rowErrs, err := spreadsheet.ReadRoster(workbook)
	if err != nil {
		return roster.ImportResult{}, err
	}

	result := roster.ImportResult{Errors: rowErrs}
	for _, row := range rows {
		switch row.Kind {
		case spreadsheet.KindEmployee:
			_, err = s.employeeService.CreateEmployee(ctx, employeeRequest(employerID, row))
			if err == nil {
				result.EmployeesCreated++
			}
		case spreadsheet.KindContractor:
			_, err = s.contractorService.CreateContractor(ctx, contractorRequest(employerID, row))
			if err == nil {
				result.ContractorsCreated++
			}
		}
		if err != nil {
			result.Errors = append(result.Errors, spreadsheet.RowError{Row: row.Row, Message: rowMessage(err)})
		}
	}

	slog.Info("roster imported",
		"employer_id", employerID,
		"employees", result.EmployeesCreated,
		"contractors", result.ContractorsCreated,
		"errors", len(result.Errors),
	)
	return result, nil
}

func employeeRequest(employerID string, row spreadsheet.RosterRow) employee.CreateEmployeeRequest {
	req := employee.CreateEmployeeRequest{
		EmployerID:    employerID,
		FirstName:     row.FirstName,
		LastName:      row.LastName,
		DNI:           row.DNI,
		BaseSalary:    row.Amount,
		HireDate:      row.StartDate,
		BirthDate:     optional(row.BirthDate),
		Address:       optional(row.Address),
		Phone:         optional(row.Phone),
		Email:         optional(row.Email),
		PensionScheme: pensionScheme(row.Pension),
		PayCadence:    payCadence(row.PayType),
		FoodDeduction: row.FoodDeduction,
		BankName:      optional(row.BankName),
		BankAccount:   optional(row.BankAccount),
	}
	if req.PensionScheme == employee.PensionPrivateFund {
		req.FundCode = optional(strings.ToUpper(row.FundCode))
	}
	return req
}

func contractorRequest(employerID string, row spreadsheet.RosterRow) contractor.CreateContractorRequest {
	return contractor.CreateContractorRequest{
		EmployerID:    employerID,
		FirstName:     row.FirstName,
		LastName:      row.LastName,
		DNI:           row.DNI,
		MonthlyFee:    row.Amount,
		StartDate:     row.StartDate,
		Suspended:     truthy(row.PayType),
		FoodDeduction: row.FoodDeduction,
		BankName:      optional(row.BankName),
		BankAccount:   optional(row.BankAccount),
	}
}

// pensionScheme accepts the Spanish labels of the template as well as the
// stored values; anything unrecognised is passed through for validation.
func pensionScheme(s string) employee.PensionScheme {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "onp", "state":
		return employee.PensionState
	case "afp", "private-fund":
		return employee.PensionPrivateFund
	}
	return employee.PensionScheme(s)
}

func payCadence(s string) employee.PayCadence {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "mensual", "monthly":
		return employee.CadenceMonthly
	case "quincenal", "semi-monthly":
		return employee.CadenceSemiMonthly
	}
	return employee.PayCadence(s)
}

func truthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "si", "sí", "s", "yes", "true", "1", "suspendido":
		return true
	}
	return false
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func rowMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return verrs.Error()
	}
	return err.Error()
}

package employee

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/planilla-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/planilla-backend-go/internal/domain/employer"
)

type EmployeeServiceImpl struct {
	employeeRepo employee.EmployeeRepository
	employerRepo employer.EmployerRepository
}

func NewEmployeeService(
	employeeRepo employee.EmployeeRepository,
	employerRepo employer.EmployerRepository,
) employee.EmployeeService {
	return &EmployeeServiceImpl{
		employeeRepo: employeeRepo,
		employerRepo: employerRepo,
	}
}

// getOwned loads an employee and checks it belongs to employerID. An empty
// employerID skips the ownership check.
func (s *EmployeeServiceImpl) getOwned(ctx context.Context, employerID, id string) (employee.Employee, error) {
	emp, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return employee.Employee{}, err
	}
	if employerID != "" && emp.EmployerID != employerID {
		return employee.Employee{}, employee.ErrEmployerMismatch
	}
	return emp, nil
}

func (s *EmployeeServiceImpl) CreateEmployee(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	er, err := s.employerRepo.GetByID(ctx, req.EmployerID)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	if !er.Active {
		return employee.EmployeeResponse{}, employer.ErrEmployerInactive
	}

	exists, err := s.employeeRepo.ExistsByDNI(ctx, req.EmployerID, req.DNI)
	if err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to check DNI existence: %w", err)
	}
	if exists {
		return employee.EmployeeResponse{}, employee.ErrDNIExists
	}

	// Dates were checked by Validate
	hireDate, _ := time.Parse("2006-01-02", req.HireDate)
	var birthDate *time.Time
	if req.BirthDate != nil && *req.BirthDate != "" {
		parsed, _ := time.Parse("2006-01-02", *req.BirthDate)
		birthDate = &parsed
	}

	// Fund codes only apply to private funds
	fundCode := req.FundCode
	if req.PensionScheme == employee.PensionState {
		fundCode = nil
	}

	created, err := s.employeeRepo.Create(ctx, employee.Employee{
		EmployerID:    req.EmployerID,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		DNI:           req.DNI,
		BaseSalary:    req.BaseSalary,
		HireDate:      hireDate,
		BirthDate:     birthDate,
		Address:       req.Address,
		Phone:         req.Phone,
		Email:         req.Email,
		PensionScheme: req.PensionScheme,
		FundCode:      fundCode,
		PayCadence:    req.PayCadence,
		FoodDeduction: req.FoodDeduction,
		BankName:      req.BankName,
		BankAccount:   req.BankAccount,
		Active:        true,
	})
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	slog.Info("employee created", "employee_id", created.ID, "employer_id", created.EmployerID)
	return employee.ToResponse(created), nil
}

func (s *EmployeeServiceImpl) GetEmployee(ctx context.Context, employerID, id string) (employee.EmployeeResponse, error) {
	emp, err := s.getOwned(ctx, employerID, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.ToResponse(emp), nil
}

func (s *EmployeeServiceImpl) ListEmployees(ctx context.Context, employerID string, activeOnly bool) ([]employee.EmployeeResponse, error) {
	if _, err := s.employerRepo.GetByID(ctx, employerID); err != nil {
		return nil, err
	}

	employees, err := s.employeeRepo.ListByEmployerID(ctx, employerID, activeOnly)
	if err != nil {
		return nil, err
	}

	resp := make([]employee.EmployeeResponse, 0, len(employees))
	for _, e := range employees {
		resp = append(resp, employee.ToResponse(e))
	}
	return resp, nil
}

func (s *EmployeeServiceImpl) UpdateEmployee(ctx context.Context, employerID string, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	if _, err := s.getOwned(ctx, employerID, req.ID); err != nil {
		return employee.EmployeeResponse{}, err
	}

	if err := s.employeeRepo.Update(ctx, req.ID, req); err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to update employee: %w", err)
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.ID)
	if err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to get updated employee: %w", err)
	}
	return employee.ToResponse(emp), nil
}

func (s *EmployeeServiceImpl) DeleteEmployee(ctx context.Context, employerID, id string) error {
	emp, err := s.getOwned(ctx, employerID, id)
	if err != nil {
		return err
	}
	if !emp.Active {
		return employee.ErrEmployeeAlreadyInactive
	}

	if err := s.employeeRepo.Deactivate(ctx, id); err != nil {
		if errors.Is(err, employee.ErrEmployeeAlreadyInactive) {
			return err
		}
		return fmt.Errorf("failed to delete employee: %w", err)
	}
	return nil
}

package employee

import "context"

// EmployeeService defines business logic for employee operations
type EmployeeService interface {
	CreateEmployee(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)
	GetEmployee(ctx context.Context, employerID, id string) (EmployeeResponse, error)
	ListEmployees(ctx context.Context, employerID string, activeOnly bool) ([]EmployeeResponse, error)
	UpdateEmployee(ctx context.Context, employerID string, req UpdateEmployeeRequest) (EmployeeResponse, error)

	// DeleteEmployee soft deletes so historical payroll records keep their owner.
	DeleteEmployee(ctx context.Context, employerID, id string) error
}

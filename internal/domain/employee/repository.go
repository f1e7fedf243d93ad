package employee

import "context"

type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	Create(ctx context.Context, newEmployee Employee) (Employee, error)
	ExistsByDNI(ctx context.Context, employerID string, dni string) (bool, error)
	Update(ctx context.Context, id string, req UpdateEmployeeRequest) error
	Deactivate(ctx context.Context, id string) error
	ListByEmployerID(ctx context.Context, employerID string, activeOnly bool) ([]Employee, error)
}

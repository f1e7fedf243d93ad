package employer

import "context"

type EmployerRepository interface {
	GetByID(ctx context.Context, id string) (Employer, error)
	List(ctx context.Context, activeOnly bool) ([]Employer, error)
	Create(ctx context.Context, newEmployer Employer) (Employer, error)
	Update(ctx context.Context, id string, req UpdateEmployerRequest) error
	Deactivate(ctx context.Context, id string) error
	HasCommittedRuns(ctx context.Context, id string) (bool, error)
}

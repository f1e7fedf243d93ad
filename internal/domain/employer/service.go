package employer

import "context"

type EmployerService interface {
	Create(ctx context.Context, req CreateEmployerRequest) (EmployerResponse, error)
	GetByID(ctx context.Context, id string) (EmployerResponse, error)
	List(ctx context.Context, activeOnly bool) ([]EmployerResponse, error)
	Update(ctx context.Context, id string, req UpdateEmployerRequest) error
	Deactivate(ctx context.Context, id string) error
}

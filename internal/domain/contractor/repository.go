package contractor

import "context"

type ContractorRepository interface {
	GetByID(ctx context.Context, id string) (Contractor, error)
	Create(ctx context.Context, newContractor Contractor) (Contractor, error)
	ExistsByDNI(ctx context.Context, employerID string, dni string) (bool, error)
	Update(ctx context.Context, id string, req UpdateContractorRequest) error
	SetSuspended(ctx context.Context, id string, suspended bool) error
	Deactivate(ctx context.Context, id string) error
	ListByEmployerID(ctx context.Context, employerID string, activeOnly bool) ([]Contractor, error)
}

package contractor

import "context"

type ContractorService interface {
	CreateContractor(ctx context.Context, req CreateContractorRequest) (ContractorResponse, error)
	GetContractor(ctx context.Context, employerID, id string) (ContractorResponse, error)
	ListContractors(ctx context.Context, employerID string, activeOnly bool) ([]ContractorResponse, error)
	UpdateContractor(ctx context.Context, employerID string, req UpdateContractorRequest) (ContractorResponse, error)
	SetSuspended(ctx context.Context, employerID, id string, suspended bool) (ContractorResponse, error)
	DeleteContractor(ctx context.Context, employerID, id string) error
}

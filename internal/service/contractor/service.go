package contractor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/planilla-backend-go/internal/domain/contractor"
	"github.com/cmlabs-hris/planilla-backend-go/internal/domain/employer"
)

type ContractorServiceImpl struct {
	contractorRepo contractor.ContractorRepository
	employerRepo   employer.EmployerRepository
}

func NewContractorService(
	contractorRepo contractor.ContractorRepository,
	employerRepo employer.EmployerRepository,
) contractor.ContractorService {
	return &ContractorServiceImpl{
		contractorRepo: contractorRepo,
		employerRepo:   employerRepo,
	}
}

func (s *ContractorServiceImpl) getOwned(ctx context.Context, employerID, id string) (contractor.Contractor, error) {
	c, err := s.contractorRepo.GetByID(ctx, id)
	if err != nil {
		return contractor.Contractor{}, err
	}
	if employerID != "" && c.EmployerID != employerID {
		return contractor.Contractor{}, contractor.ErrEmployerMismatch
	}
	return c, nil
}

func (s *ContractorServiceImpl) CreateContractor(ctx context.Context, req contractor.CreateContractorRequest) (contractor.ContractorResponse, error) {
	if err := req.Validate(); err != nil {
		return contractor.ContractorResponse{}, err
	}

	er, err := s.employerRepo.GetByID(ctx, req.EmployerID)
	if err != nil {
		return contractor.ContractorResponse{}, err
	}
	if !er.Active {
		return contractor.ContractorResponse{}, employer.ErrEmployerInactive
	}

	exists, err := s.contractorRepo.ExistsByDNI(ctx, req.EmployerID, req.DNI)
	if err != nil {
		return contractor.ContractorResponse{}, fmt.Errorf("failed to check DNI existence: %w", err)
	}
	if exists {
		return contractor.ContractorResponse{}, contractor.ErrDNIExists
	}

	startDate, _ := time.Parse("2006-01-02", req.StartDate)
	var endDate *time.Time
	if req.EndDate != nil && *req.EndDate != "" {
		parsed, _ := time.Parse("2006-01-02", *req.EndDate)
		endDate = &parsed
	}

	created, err := s.contractorRepo.Create(ctx, contractor.Contractor{
		EmployerID:    req.EmployerID,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		DNI:           req.DNI,
		MonthlyFee:    req.MonthlyFee,
		StartDate:     startDate,
		EndDate:       endDate,
		Suspended:     req.Suspended,
		FoodDeduction: req.FoodDeduction,
		BankName:      req.BankName,
		BankAccount:   req.BankAccount,
		Active:        true,
	})
	if err != nil {
		return contractor.ContractorResponse{}, err
	}

	slog.Info("contractor created", "contractor_id", created.ID, "employer_id", created.EmployerID)
	return contractor.ToResponse(created), nil
}

func (s *ContractorServiceImpl) GetContractor(ctx context.Context, employerID, id string) (contractor.ContractorResponse, error) {
	c, err := s.getOwned(ctx, employerID, id)
	if err != nil {
		return contractor.ContractorResponse{}, err
	}
	return contractor.ToResponse(c), nil
}

func (s *ContractorServiceImpl) ListContractors(ctx context.Context, employerID string, activeOnly bool) ([]contractor.ContractorResponse, error) {
	if _, err := s.employerRepo.GetByID(ctx, employerID); err != nil {
		return nil, err
	}

	contractors, err := s.contractorRepo.ListByEmployerID(ctx, employerID, activeOnly)
	if err != nil {
		return nil, err
	}

	resp := make([]contractor.ContractorResponse, 0, len(contractors))
	for _, c := range contractors {
		resp = append(resp, contractor.ToResponse(c))
	}
	return resp, nil
}

func (s *ContractorServiceImpl) UpdateContractor(ctx context.Context, employerID string, req contractor.UpdateContractorRequest) (contractor.ContractorResponse, error) {
	if err := req.Validate(); err != nil {
		return contractor.ContractorResponse{}, err
	}

	if _, err := s.getOwned(ctx, employerID, req.ID); err != nil {
		return contractor.ContractorResponse{}, err
	}

	if err := s.contractorRepo.Update(ctx, req.ID, req); err != nil {
		return contractor.ContractorResponse{}, fmt.Errorf("failed to update contractor: %w", err)
	}

	c, err := s.contractorRepo.GetByID(ctx, req.ID)
	if err != nil {
		return contractor.ContractorResponse{}, fmt.Errorf("failed to get updated contractor: %w", err)
	}
	return contractor.ToResponse(c), nil
}

// SetSuspended toggles the fourth-category withholding suspension.
func (s *ContractorServiceImpl) SetSuspended(ctx context.Context, employerID, id string, suspended bool) (contractor.ContractorResponse, error) {
	if _, err := s.getOwned(ctx, employerID, id); err != nil {
		return contractor.ContractorResponse{}, err
	}

	if err := s.contractorRepo.SetSuspended(ctx, id, suspended); err != nil {
		return contractor.ContractorResponse{}, fmt.Errorf("failed to set suspension: %w", err)
	}

	c, err := s.contractorRepo.GetByID(ctx, id)
	if err != nil {
		return contractor.ContractorResponse{}, err
	}
	return contractor.ToResponse(c), nil
}

func (s *ContractorServiceImpl) DeleteContractor(ctx context.Context, employerID, id string) error {
	c, err := s.getOwned(ctx, employerID, id)
	if err != nil {
		return err
	}
	if !c.Active {
		return contractor.ErrContractorAlreadyInactive
	}
	return s.contractorRepo.Deactivate(ctx, id)
}

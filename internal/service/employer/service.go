package employer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/planilla-backend-go/internal/domain/employer"
	"github.com/cmlabs-hris/planilla-backend-go/internal/pkg/database"
)

type EmployerServiceImpl struct {
	transactor   database.Transactor
	employerRepo employer.EmployerRepository
}

func NewEmployerService(transactor database.Transactor, employerRepo employer.EmployerRepository) employer.EmployerService {
	return &EmployerServiceImpl{
		transactor:   transactor,
		employerRepo: employerRepo,
	}
}

func (s *EmployerServiceImpl) Create(ctx context.Context, req employer.CreateEmployerRequest) (employer.EmployerResponse, error) {
	if err := req.Validate(); err != nil {
		return employer.EmployerResponse{}, err
	}

	created, err := s.employerRepo.Create(ctx, employer.Employer{
		Name:    req.Name,
		RUC:     req.RUC,
		Regime:  req.Regime,
		Address: req.Address,
		Phone:   req.Phone,
		Email:   req.Email,
		Active:  true,
	})
	if err != nil {
		return employer.EmployerResponse{}, err
	}

	slog.Info("employer created", "employer_id", created.ID, "ruc", created.RUC, "regime", created.Regime)
	return employer.ToResponse(created), nil
}

func (s *EmployerServiceImpl) GetByID(ctx context.Context, id string) (employer.EmployerResponse, error) {
	e, err := s.employerRepo.GetByID(ctx, id)
	if err != nil {
		return employer.EmployerResponse{}, err
	}
	return employer.ToResponse(e), nil
}

func (s *EmployerServiceImpl) List(ctx context.Context, activeOnly bool) ([]employer.EmployerResponse, error) {
	employers, err := s.employerRepo.List(ctx, activeOnly)
	if err != nil {
		return nil, err
	}

	resp := make([]employer.EmployerResponse, 0, len(employers))
	for _, e := range employers {
		resp = append(resp, employer.ToResponse(e))
	}
	return resp, nil
}

// Update rejects a regime change once the employer has a committed run, so
// stored records never disagree with the regime they were computed under.
func (s *EmployerServiceImpl) Update(ctx context.Context, id string, req employer.UpdateEmployerRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	return s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		current, err := s.employerRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if req.Regime != nil && *req.Regime != current.Regime {
			locked, err := s.employerRepo.HasCommittedRuns(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to check committed runs: %w", err)
			}
			if locked {
				return employer.ErrRegimeLocked
			}
		}

		if err := s.employerRepo.Update(ctx, id, req); err != nil {
			return err
		}
		return nil
	})
}

func (s *EmployerServiceImpl) Deactivate(ctx context.Context, id string) error {
	if err := s.employerRepo.Deactivate(ctx, id); err != nil {
		if errors.Is(err, employer.ErrEmployerNotFound) {
			return employer.ErrEmployerNotFound
		}
		return fmt.Errorf("failed to deactivate employer: %w", err)
	}
	slog.Info("employer deactivated", "employer_id", id)
	return nil
}

package absence

import "context"

type AbsenceService interface {
	Register(ctx context.Context, req RegisterAbsenceRequest) (AbsenceResponse, error)
	RegisterRange(ctx context.Context, req RegisterRangeRequest) ([]AbsenceResponse, error)
	Excuse(ctx context.Context, req ExcuseAbsenceRequest) (AbsenceResponse, error)
	Delete(ctx context.Context, id string) error
	ListByEmployee(ctx context.Context, employeeID string, month, year int) ([]AbsenceResponse, error)
	MonthlySummary(ctx context.Context, employerID string, month, year int) (MonthlySummaryResponse, error)
	YearlyStats(ctx context.Context, employerID string, year int) (YearlyStatsResponse, error)
}

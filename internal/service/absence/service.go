package absence

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/cmlabs-hris/planilla-backend-go/internal/domain/absence"
	"github.com/cmlabs-hris/planilla-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/planilla-backend-go/internal/domain/employer"
	"github.com/cmlabs-hris/planilla-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/planilla-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type AbsenceServiceImpl struct {
	transactor   database.Transactor
	absenceRepo  absence.AbsenceRepository
	employeeRepo employee.EmployeeRepository
	employerRepo employer.EmployerRepository
}

func NewAbsenceService(
	transactor database.Transactor,
	absenceRepo absence.AbsenceRepository,
	employeeRepo employee.EmployeeRepository,
	employerRepo employer.EmployerRepository,
) absence.AbsenceService {
	return &AbsenceServiceImpl{
		transactor:   transactor,
		absenceRepo:  absenceRepo,
		employeeRepo: employeeRepo,
		employerRepo: employerRepo,
	}
}

func monthRange(month, year int) (time.Time, time.Time) {
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, 0)
}

func isWeekday(d time.Time) bool {
	return d.Weekday() != time.Saturday && d.Weekday() != time.Sunday
}

func (s *AbsenceServiceImpl) Register(ctx context.Context, req absence.RegisterAbsenceRequest) (absence.AbsenceResponse, error) {
	if err := req.Validate(); err != nil {
		return absence.AbsenceResponse{}, err
	}

	if _, err := s.employeeRepo.GetByID(ctx, req.EmployeeID); err != nil {
		return absence.AbsenceResponse{}, err
	}

	date, _ := time.Parse("2006-01-02", req.Date)
	hours := absence.DefaultHoursLost
	if req.HoursLost != nil {
		hours = *req.HoursLost
	}

	created, err := s.absenceRepo.Create(ctx, absence.Absence{
		EmployeeID: req.EmployeeID,
		Date:       date,
		Kind:       req.Kind,
		Excused:    req.Excused,
		HoursLost:  hours,
		Reason:     req.Reason,
	})
	if err != nil {
		return absence.AbsenceResponse{}, err
	}
	return absence.ToResponse(created), nil
}

// RegisterRange books one excused full-day record per weekday in the range.
// The range is all-or-nothing: a day already booked rolls every day back.
func (s *AbsenceServiceImpl) RegisterRange(ctx context.Context, req absence.RegisterRangeRequest) ([]absence.AbsenceResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.employeeRepo.GetByID(ctx, req.EmployeeID); err != nil {
		return nil, err
	}

	start, _ := time.Parse("2006-01-02", req.StartDate)
	end, _ := time.Parse("2006-01-02", req.EndDate)

	var days []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if isWeekday(d) {
			days = append(days, d)
		}
	}
	if len(days) == 0 {
		return nil, absence.ErrNoWorkingDaysInRange
	}

	resp := make([]absence.AbsenceResponse, 0, len(days))
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		for _, d := range days {
			created, err := s.absenceRepo.Create(ctx, absence.Absence{
				EmployeeID: req.EmployeeID,
				Date:       d,
				Kind:       req.Kind,
				Excused:    true,
				HoursLost:  absence.DefaultHoursLost,
				Reason:     req.Reason,
			})
			if err != nil {
				return err
			}
			resp = append(resp, absence.ToResponse(created))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("absence range registered", "employee_id", req.EmployeeID, "kind", req.Kind, "days", len(resp))
	return resp, nil
}

func (s *AbsenceServiceImpl) Excuse(ctx context.Context, req absence.ExcuseAbsenceRequest) (absence.AbsenceResponse, error) {
	current, err := s.absenceRepo.GetByID(ctx, req.ID)
	if err != nil {
		return absence.AbsenceResponse{}, err
	}
	if current.Excused {
		return absence.AbsenceResponse{}, absence.ErrAbsenceAlreadyExcused
	}

	if err := s.absenceRepo.Excuse(ctx, req.ID, req.Reason); err != nil {
		return absence.AbsenceResponse{}, err
	}

	updated, err := s.absenceRepo.GetByID(ctx, req.ID)
	if err != nil {
		return absence.AbsenceResponse{}, err
	}
	return absence.ToResponse(updated), nil
}

func (s *AbsenceServiceImpl) Delete(ctx context.Context, id string) error {
	return s.absenceRepo.Delete(ctx, id)
}

func (s *AbsenceServiceImpl) ListByEmployee(ctx context.Context, employeeID string, month, year int) ([]absence.AbsenceResponse, error) {
	if !validator.IsValidPeriod(month, year) {
		return nil, validator.ValidationErrors{{Field: "period", Message: "month must be between 1 and 12 and year between 2000 and 2100"}}
	}
	if _, err := s.employeeRepo.GetByID(ctx, employeeID); err != nil {
		return nil, err
	}

	from, to := monthRange(month, year)
	records, err := s.absenceRepo.ListByEmployee(ctx, employeeID, from, to)
	if err != nil {
		return nil, err
	}

	resp := make([]absence.AbsenceResponse, 0, len(records))
	for _, a := range records {
		resp = append(resp, absence.ToResponse(a))
	}
	return resp, nil
}

func (s *AbsenceServiceImpl) MonthlySummary(ctx context.Context, employerID string, month, year int) (absence.MonthlySummaryResponse, error) {
	if !validator.IsValidPeriod(month, year) {
		return absence.MonthlySummaryResponse{}, validator.ValidationErrors{{Field: "period", Message: "month must be between 1 and 12 and year between 2000 and 2100"}}
	}
	if _, err := s.employerRepo.GetByID(ctx, employerID); err != nil {
		return absence.MonthlySummaryResponse{}, err
	}

	from, to := monthRange(month, year)
	records, err := s.absenceRepo.ListByEmployer(ctx, employerID, from, to)
	if err != nil {
		return absence.MonthlySummaryResponse{}, fmt.Errorf("failed to list absences: %w", err)
	}

	summary := absence.MonthlySummaryResponse{
		EmployerID:    employerID,
		Month:         month,
		Year:          year,
		TotalRecords:  len(records),
		UnexcusedDays: decimal.Zero,
		HoursLost:     decimal.Zero,
		ByKind:        make(map[absence.Kind]int),
		ByEmployee:    []absence.EmployeeAbsenceCount{},
	}

	byEmployee := make(map[string]*absence.EmployeeAbsenceCount)
	for _, a := range records {
		summary.ByKind[a.Kind]++
		summary.HoursLost = summary.HoursLost.Add(a.HoursLost)
		summary.UnexcusedDays = summary.UnexcusedDays.Add(a.DaysLost())
		if a.Excused {
			summary.ExcusedRecords++
		}

		count, ok := byEmployee[a.EmployeeID]
		if !ok {
			count = &absence.EmployeeAbsenceCount{EmployeeID: a.EmployeeID, UnexcusedDays: decimal.Zero}
			if a.EmployeeName != nil {
				count.EmployeeName = *a.EmployeeName
			}
			byEmployee[a.EmployeeID] = count
		}
		count.Records++
		count.UnexcusedDays = count.UnexcusedDays.Add(a.DaysLost())
	}

	for _, count := range byEmployee {
		summary.ByEmployee = append(summary.ByEmployee, *count)
	}
	sort.Slice(summary.ByEmployee, func(i, j int) bool {
		if summary.ByEmployee[i].Records != summary.ByEmployee[j].Records {
			return summary.ByEmployee[i].Records > summary.ByEmployee[j].Records
		}
		return summary.ByEmployee[i].EmployeeName < summary.ByEmployee[j].EmployeeName
	})

	return summary, nil
}

// YearlyStats averages over the months that have at least one record.
func (s *AbsenceServiceImpl) YearlyStats(ctx context.Context, employerID string, year int) (absence.YearlyStatsResponse, error) {
	if !validator.IsValidPeriod(1, year) {
		return absence.YearlyStatsResponse{}, validator.ValidationErrors{{Field: "year", Message: "year must be between 2000 and 2100"}}
	}
	if _, err := s.employerRepo.GetByID(ctx, employerID); err != nil {
		return absence.YearlyStatsResponse{}, err
	}

	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	records, err := s.absenceRepo.ListByEmployer(ctx, employerID, from, from.AddDate(1, 0, 0))
	if err != nil {
		return absence.YearlyStatsResponse{}, fmt.Errorf("failed to list absences: %w", err)
	}

	stats := absence.YearlyStatsResponse{
		EmployerID:     employerID,
		Year:           year,
		TotalRecords:   len(records),
		ByMonth:        make(map[int]int, 12),
		ByKind:         make(map[absence.Kind]int),
		MonthlyAverage: decimal.Zero,
	}
	for m := 1; m <= 12; m++ {
		stats.ByMonth[m] = 0
	}
	for _, a := range records {
		stats.ByMonth[int(a.Date.Month())]++
		stats.ByKind[a.Kind]++
	}

	activeMonths := 0
	for _, n := range stats.ByMonth {
		if n > 0 {
			activeMonths++
		}
	}
	if activeMonths > 0 {
		stats.MonthlyAverage = decimal.NewFromInt(int64(stats.TotalRecords)).
			DivRound(decimal.NewFromInt(int64(activeMonths)), 2)
	}
	return stats, nil
}

package absence

import (
	"time"

	"github.com/cmlabs-hris/planilla-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type AbsenceResponse struct {
	ID           string          `json:"id"`
	EmployeeID   string          `json:"employee_id"`
	EmployeeName *string         `json:"employee_name,omitempty"`
	Date         string          `json:"date"`
	Kind         Kind            `json:"kind"`
	Excused      bool            `json:"excused"`
	HoursLost    decimal.Decimal `json:"hours_lost"`
	DaysLost     decimal.Decimal `json:"days_lost"`
	Reason       *string         `json:"reason,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

func ToResponse(a Absence) AbsenceResponse {
	return AbsenceResponse{
		ID:           a.ID,
		EmployeeID:   a.EmployeeID,
		EmployeeName: a.EmployeeName,
		Date:         a.Date.Format("2006-01-02"),
		Kind:         a.Kind,
		Excused:      a.Excused,
		HoursLost:    a.HoursLost,
		DaysLost:     a.DaysLost(),
		Reason:       a.Reason,
		CreatedAt:    a.CreatedAt,
	}
}

type RegisterAbsenceRequest struct {
	EmployeeID string           `json:"-"`
	Date       string           `json:"date"`
	Kind       Kind             `json:"kind"`
	Excused    bool             `json:"excused"`
	HoursLost  *decimal.Decimal `json:"hours_lost,omitempty"`
	Reason     *string          `json:"reason,omitempty"`
}

func (r *RegisterAbsenceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "employee_id is required"})
	}
	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{Field: "date", Message: "date must be in YYYY-MM-DD format"})
	}
	if !r.Kind.IsValid() {
		errs = append(errs, validator.ValidationError{Field: "kind", Message: "kind must be unexcused-absence, permission, vacation or leave"})
	}
	if r.HoursLost != nil && (r.HoursLost.IsNegative() || r.HoursLost.GreaterThan(decimal.NewFromInt(24))) {
		errs = append(errs, validator.ValidationError{Field: "hours_lost", Message: "hours_lost must be between 0 and 24"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// RegisterRangeRequest books vacation or leave over consecutive days.
type RegisterRangeRequest struct {
	EmployeeID string  `json:"-"`
	StartDate  string  `json:"start_date"`
	EndDate    string  `json:"end_date"`
	Kind       Kind    `json:"kind"`
	Reason     *string `json:"reason,omitempty"`
}

func (r *RegisterRangeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "employee_id is required"})
	}
	start, startOK := validator.IsValidDate(r.StartDate)
	if !startOK {
		errs = append(errs, validator.ValidationError{Field: "start_date", Message: "start_date must be in YYYY-MM-DD format"})
	}
	end, endOK := validator.IsValidDate(r.EndDate)
	if !endOK {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "end_date must be in YYYY-MM-DD format"})
	}
	if startOK && endOK {
		if end.Before(start) {
			errs = append(errs, validator.ValidationError{Field: "end_date", Message: "end_date cannot be before start_date"})
		} else if end.Sub(start) >= 31*24*time.Hour {
			errs = append(errs, validator.ValidationError{Field: "end_date", Message: ErrRangeTooLong.Error()})
		}
	}
	if r.Kind != KindVacation && r.Kind != KindLeave {
		errs = append(errs, validator.ValidationError{Field: "kind", Message: "kind must be vacation or leave"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ExcuseAbsenceRequest struct {
	ID     string  `json:"-"`
	Reason *string `json:"reason,omitempty"`
}

type EmployeeAbsenceCount struct {
	EmployeeID    string          `json:"employee_id"`
	EmployeeName  string          `json:"employee_name"`
	Records       int             `json:"records"`
	UnexcusedDays decimal.Decimal `json:"unexcused_days"`
}

type MonthlySummaryResponse struct {
	EmployerID     string                 `json:"employer_id"`
	Month          int                    `json:"month"`
	Year           int                    `json:"year"`
	TotalRecords   int                    `json:"total_records"`
	ExcusedRecords int                    `json:"excused_records"`
	UnexcusedDays  decimal.Decimal        `json:"unexcused_days"`
	HoursLost      decimal.Decimal        `json:"hours_lost"`
	ByKind         map[Kind]int           `json:"by_kind"`
	ByEmployee     []EmployeeAbsenceCount `json:"by_employee"`
}

type YearlyStatsResponse struct {
	EmployerID     string          `json:"employer_id"`
	Year           int             `json:"year"`
	TotalRecords   int             `json:"total_records"`
	ByMonth        map[int]int     `json:"by_month"`
	ByKind         map[Kind]int    `json:"by_kind"`
	MonthlyAverage decimal.Decimal `json:"monthly_average"`
}

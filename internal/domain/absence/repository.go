package absence

import (
	"context"
	"time"
)

type AbsenceRepository interface {
	Create(ctx context.Context, newAbsence Absence) (Absence, error)
	GetByID(ctx context.Context, id string) (Absence, error)
	Excuse(ctx context.Context, id string, reason *string) error
	Delete(ctx context.Context, id string) error
	ExistsOnDate(ctx context.Context, employeeID string, date time.Time) (bool, error)

	// ListByEmployee returns records dated in [from, to).
	ListByEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]Absence, error)

	// ListByEmployer returns records of the employer's employees dated in [from, to), with EmployeeName joined.
	ListByEmployer(ctx context.Context, employerID string, from, to time.Time) ([]Absence, error)
}

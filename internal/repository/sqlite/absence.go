package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/planilla-backend-go/internal/domain/absence"
	"github.com/cmlabs-hris/planilla-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/planilla-backend-go/internal/repository"
)

type absenceRepository struct {
	db *database.SQLiteDB
}

func NewAbsenceRepository(db *database.SQLiteDB) absence.AbsenceRepository {
	return &absenceRepository{db: db}
}

const absenceColumns = `a.id, a.employee_id, a.date, a.kind, a.excused, a.hours_lost, a.reason, a.created_at,
	e.first_name || ' ' || e.last_name`

func scanAbsence(row rowScanner) (absence.Absence, error) {
	var a absence.Absence
	err := row.Scan(&a.ID, &a.EmployeeID, &a.Date, &a.Kind, &a.Excused, &a.HoursLost, &a.Reason, &a.CreatedAt, &a.EmployeeName)
	return a, err
}

func (r *absenceRepository) query(ctx context.Context, where string, args ...any) ([]absence.Absence, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.QueryContext(ctx, `SELECT `+absenceColumns+` FROM absences a JOIN employees e ON e.id = a.employee_id WHERE `+where+` ORDER BY a.date, e.last_name`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list absences: %w", err)
	}
	defer rows.Close()

	var absences []absence.Absence
	for rows.Next() {
		a, err := scanAbsence(rows)
		if err != nil {
			return nil, err
		}
		absences = append(absences, a)
	}
	return absences, rows.Err()
}

func (r *absenceRepository) Create(ctx context.Context, newAbsence absence.Absence) (absence.Absence, error) {
	q := GetQuerier(ctx, r.db)

	if newAbsence.ID == "" {
		newAbsence.ID = repository.NewID()
	}

	_, err := q.ExecContext(ctx, `
		INSERT INTO absences (id, employee_id, date, kind, excused, hours_lost, reason, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, newAbsence.ID, newAbsence.EmployeeID, newAbsence.Date.UTC(), string(newAbsence.Kind),
		newAbsence.Excused, newAbsence.HoursLost, newAbsence.Reason, now())
	if err != nil {
		if isUniqueViolation(err, "absences.employee_id") {
			return absence.Absence{}, absence.ErrDuplicateAbsence
		}
		return absence.Absence{}, fmt.Errorf("failed to create absence: %w", err)
	}
	return r.GetByID(ctx, newAbsence.ID)
}

func (r *absenceRepository) GetByID(ctx context.Context, id string) (absence.Absence, error) {
	q := GetQuerier(ctx, r.db)

	a, err := scanAbsence(q.QueryRowContext(ctx, `SELECT `+absenceColumns+` FROM absences a JOIN employees e ON e.id = a.employee_id WHERE a.id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return absence.Absence{}, absence.ErrAbsenceNotFound
		}
		return absence.Absence{}, fmt.Errorf("failed to get absence: %w", err)
	}
	return a, nil
}

func (r *absenceRepository) Excuse(ctx context.Context, id string, reason *string) error {
	q := GetQuerier(ctx, r.db)

	res, err := q.ExecContext(ctx, `UPDATE absences SET excused = 1, reason = COALESCE(?, reason) WHERE id = ?`, reason, id)
	if err != nil {
		return fmt.Errorf("failed to excuse absence: %w", err)
	}
	return expectAffected(res, absence.ErrAbsenceNotFound)
}

func (r *absenceRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	res, err := q.ExecContext(ctx, `DELETE FROM absences WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete absence: %w", err)
	}
	return expectAffected(res, absence.ErrAbsenceNotFound)
}

func (r *absenceRepository) ExistsOnDate(ctx context.Context, employeeID string, date time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM absences WHERE employee_id = ? AND date = ?)`, employeeID, date.UTC()).Scan(&exists)
	return exists, err
}

func (r *absenceRepository) ListByEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]absence.Absence, error) {
	return r.query(ctx, `a.employee_id = ? AND a.date >= ? AND a.date < ?`, employeeID, from.UTC(), to.UTC())
}

func (r *absenceRepository) ListByEmployer(ctx context.Context, employerID string, from, to time.Time) ([]absence.Absence, error) {
	return r.query(ctx, `e.employer_id = ? AND a.date >= ? AND a.date < ?`, employerID, from.UTC(), to.UTC())
}

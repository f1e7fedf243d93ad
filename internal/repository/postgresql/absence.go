package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/planilla-backend-go/internal/domain/absence"
	"github.com/cmlabs-hris/planilla-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/planilla-backend-go/internal/repository"
	"github.com/jackc/pgx/v5"
)

type absenceRepositoryImpl struct {
	db *database.DB
}

func NewAbsenceRepository(db *database.DB) absence.AbsenceRepository {
	return &absenceRepositoryImpl{db: db}
}

const absenceColumns = `id, employee_id, date, kind, excused, hours_lost, reason, created_at`

func (r *absenceRepositoryImpl) Create(ctx context.Context, newAbsence absence.Absence) (absence.Absence, error) {
	q := GetQuerier(ctx, r.db)

	if newAbsence.ID == "" {
		newAbsence.ID = repository.NewID()
	}

	query := `
		INSERT INTO absences (id, employee_id, date, kind, excused, hours_lost, reason)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + absenceColumns

	var a absence.Absence
	err := q.QueryRow(ctx, query,
		newAbsence.ID, newAbsence.EmployeeID, newAbsence.Date, newAbsence.Kind,
		newAbsence.Excused, newAbsence.HoursLost, newAbsence.Reason,
	).Scan(&a.ID, &a.EmployeeID, &a.Date, &a.Kind, &a.Excused, &a.HoursLost, &a.Reason, &a.CreatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "uk_absence_employee_date") {
			return absence.Absence{}, absence.ErrDuplicateAbsence
		}
		return absence.Absence{}, fmt.Errorf("failed to create absence: %w", err)
	}
	return a, nil
}

func (r *absenceRepositoryImpl) GetByID(ctx context.Context, id string) (absence.Absence, error) {
	q := GetQuerier(ctx, r.db)

	var a absence.Absence
	err := q.QueryRow(ctx, `SELECT `+absenceColumns+` FROM absences WHERE id = $1`, id).
		Scan(&a.ID, &a.EmployeeID, &a.Date, &a.Kind, &a.Excused, &a.HoursLost, &a.Reason, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return absence.Absence{}, absence.ErrAbsenceNotFound
		}
		return absence.Absence{}, fmt.Errorf("failed to get absence: %w", err)
	}
	return a, nil
}

func (r *absenceRepositoryImpl) Excuse(ctx context.Context, id string, reason *string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE absences SET excused = TRUE, reason = COALESCE($1, reason) WHERE id = $2`, reason, id)
	if err != nil {
		return fmt.Errorf("failed to excuse absence: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return absence.ErrAbsenceNotFound
	}
	return nil
}

func (r *absenceRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM absences WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete absence: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return absence.ErrAbsenceNotFound
	}
	return nil
}

func (r *absenceRepositoryImpl) ExistsOnDate(ctx context.Context, employeeID string, date time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM absences WHERE employee_id = $1 AND date = $2)`, employeeID, date).Scan(&exists)
	return exists, err
}

func (r *absenceRepositoryImpl) ListByEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]absence.Absence, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + absenceColumns + ` FROM absences WHERE employee_id = $1 AND date >= $2 AND date < $3 ORDER BY date`

	rows, err := q.Query(ctx, query, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list absences: %w", err)
	}
	defer rows.Close()

	var absences []absence.Absence
	for rows.Next() {
		var a absence.Absence
		if err := rows.Scan(&a.ID, &a.EmployeeID, &a.Date, &a.Kind, &a.Excused, &a.HoursLost, &a.Reason, &a.CreatedAt); err != nil {
			return nil, err
		}
		absences = append(absences, a)
	}
	return absences, rows.Err()
}

func (r *absenceRepositoryImpl) ListByEmployer(ctx context.Context, employerID string, from, to time.Time) ([]absence.Absence, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT a.id, a.employee_id, a.date, a.kind, a.excused, a.hours_lost, a.reason, a.created_at,
			e.first_name || ' ' || e.last_name
		FROM absences a
		JOIN employees e ON e.id = a.employee_id
		WHERE e.employer_id = $1 AND a.date >= $2 AND a.date < $3
		ORDER BY a.date, e.last_name
	`

	rows, err := q.Query(ctx, query, employerID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list employer absences: %w", err)
	}
	defer rows.Close()

	var absences []absence.Absence
	for rows.Next() {
		var a absence.Absence
		if err := rows.Scan(&a.ID, &a.EmployeeID, &a.Date, &a.Kind, &a.Excused, &a.HoursLost, &a.Reason, &a.CreatedAt, &a.EmployeeName); err != nil {
			return nil, err
		}
		absences = append(absences, a)
	}
	return absences, rows.Err()
}

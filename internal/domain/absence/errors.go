package absence

import "errors"

var (
	ErrAbsenceNotFound       = errors.New("absence not found")
	ErrAbsenceAlreadyExcused = errors.New("absence is already excused")
	ErrDuplicateAbsence      = errors.New("an absence is already registered for this employee on this date")
	ErrRangeTooLong          = errors.New("date range cannot exceed 31 days")
	ErrNoWorkingDaysInRange  = errors.New("date range contains no working days")
)

package employer

import "errors"

var (
	ErrEmployerNotFound = errors.New("employer not found")
	ErrRUCExists        = errors.New("RUC already registered")
	ErrInvalidRegime    = errors.New("regime must be microenterprise, small-business or general")
	ErrRegimeLocked     = errors.New("regime cannot change after a payroll run has been committed")
	ErrEmployerInactive = errors.New("employer is inactive")
)

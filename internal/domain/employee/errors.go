package employee

import "errors"

var (
	ErrEmployeeNotFound        = errors.New("employee not found")
	ErrDNIExists               = errors.New("DNI already registered for this employer")
	ErrInvalidDNI              = errors.New("DNI must be exactly 8 digits")
	ErrEmployeeAlreadyInactive = errors.New("employee is already inactive")
	ErrEmployerMismatch        = errors.New("employee does not belong to this employer")
)

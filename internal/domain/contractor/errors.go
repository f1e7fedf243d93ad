package contractor

import "errors"

var (
	ErrContractorNotFound        = errors.New("contractor not found")
	ErrDNIExists                 = errors.New("DNI already registered for this employer")
	ErrContractorAlreadyInactive = errors.New("contractor is already inactive")
	ErrEmployerMismatch          = errors.New("contractor does not belong to this employer")
)

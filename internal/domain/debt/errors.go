package debt

import "errors"

var (
	ErrLoanNotFound            = errors.New("loan not found")
	ErrLoanInactive            = errors.New("loan is not active")
	ErrAdvanceNotFound         = errors.New("advance not found")
	ErrAdvanceAlreadyApplied   = errors.New("advance has already been applied")
	ErrAdvancePastPeriod       = errors.New("advance cannot target a period before its issue date")
	ErrPaymentCapacityExceeded = errors.New("monthly debt installments would exceed 30% of base salary")
)

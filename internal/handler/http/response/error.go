package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/planilla-backend-go/internal/domain/absence"
	"github.com/cmlabs-hris/planilla-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/planilla-backend-go/internal/domain/contractor"
	"github.com/cmlabs-hris/planilla-backend-go/internal/domain/debt"
	"github.com/cmlabs-hris/planilla-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/planilla-backend-go/internal/domain/employer"
	"github.com/cmlabs-hris/planilla-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/planilla-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrOperatorDisabled):
		Forbidden(w, err.Error())

	// Employer domain errors
	case errors.Is(err, employer.ErrEmployerNotFound):
		NotFound(w, "Employer not found")
	case errors.Is(err, employer.ErrRUCExists):
		Conflict(w, "RUC already registered")
	case errors.Is(err, employer.ErrRegimeLocked):
		Conflict(w, err.Error())
	case errors.Is(err, employer.ErrInvalidRegime):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, employer.ErrEmployerInactive), errors.Is(err, payroll.ErrEmployerInactive):
		Conflict(w, err.Error())

	// Employee and contractor domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound), errors.Is(err, employee.ErrEmployerMismatch):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrDNIExists), errors.Is(err, contractor.ErrDNIExists):
		Conflict(w, "DNI already registered for this employer")
	case errors.Is(err, employee.ErrEmployeeAlreadyInactive):
		Conflict(w, "Employee is already inactive")
	case errors.Is(err, contractor.ErrContractorNotFound), errors.Is(err, contractor.ErrEmployerMismatch):
		NotFound(w, "Contractor not found")
	case errors.Is(err, contractor.ErrContractorAlreadyInactive):
		Conflict(w, "Contractor is already inactive")

	// Absence domain errors
	case errors.Is(err, absence.ErrAbsenceNotFound):
		NotFound(w, "Absence not found")
	case errors.Is(err, absence.ErrDuplicateAbsence), errors.Is(err, absence.ErrAbsenceAlreadyExcused):
		Conflict(w, err.Error())
	case errors.Is(err, absence.ErrRangeTooLong), errors.Is(err, absence.ErrNoWorkingDaysInRange):
		BadRequest(w, err.Error(), nil)

	// Debt domain errors
	case errors.Is(err, debt.ErrLoanNotFound):
		NotFound(w, "Loan not found")
	case errors.Is(err, debt.ErrAdvanceNotFound):
		NotFound(w, "Advance not found")
	case errors.Is(err, debt.ErrLoanInactive), errors.Is(err, debt.ErrAdvanceAlreadyApplied):
		Conflict(w, err.Error())
	case errors.Is(err, debt.ErrAdvancePastPeriod), errors.Is(err, debt.ErrPaymentCapacityExceeded):
		BadRequest(w, err.Error(), nil)

	// Payroll domain errors
	case errors.Is(err, payroll.ErrPayrollRunNotFound):
		NotFound(w, "Payroll run not found")
	case errors.Is(err, payroll.ErrPayrollRecordNotFound):
		NotFound(w, "Payroll record not found")
	case errors.Is(err, payroll.ErrPayrollRunExists), errors.Is(err, payroll.ErrPayrollRunAlreadyPaid):
		Conflict(w, err.Error())
	case errors.Is(err, payroll.ErrNotAnEmployeeRecord):
		BadRequest(w, err.Error(), nil)

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}

package payroll

import "errors"

var (
	ErrInvalidEmployeeInput   = errors.New("invalid employee payroll input")
	ErrInvalidContractorInput = errors.New("invalid contractor payroll input")
	ErrPayrollRunNotFound     = errors.New("payroll run not found")
	ErrPayrollRunExists       = errors.New("payroll run already exists for this period")
	ErrPayrollRunAlreadyPaid  = errors.New("payroll run already paid, cannot modify")
	ErrPayrollRecordNotFound  = errors.New("payroll record not found")
	ErrSettingsNotFound       = errors.New("payroll settings not found")
	ErrNotAnEmployeeRecord    = errors.New("payslips are issued for employee records only")
	ErrEmployerInactive       = errors.New("cannot run payroll for an inactive employer")
)

package payroll

import (
	"fmt"

	"github.com/cmlabs-hris/planilla-backend-go/internal/domain/absence"
	"github.com/cmlabs-hris/planilla-backend-go/internal/domain/contractor"
	"github.com/cmlabs-hris/planilla-backend-go/internal/domain/debt"
	"github.com/cmlabs-hris/planilla-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/planilla-backend-go/internal/domain/employer"
	"github.com/cmlabs-hris/planilla-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

var (
	daysInPeriod = decimal.NewFromInt(30)
	half         = decimal.RequireFromString("0.5")
)

// Warning codes
const (
	WarningStaleAdvance       = "stale_advance"
	WarningNegativeNet        = "negative_net"
	WarningMissingBankAccount = "missing_bank_account"
)

// Warning flags a result that was computed but deserves a look.
type Warning struct {
	PersonID string `json:"person_id"`
	Code     string `json:"code"`
	Message  string `json:"message"`
}

type EmployeeInput struct {
	Employee employee.Employee
	Regime   employer.Regime
	Period   Period
	Absences []absence.Absence
	Loans    []debt.Loan
	Advances []debt.Advance
}

type EmployeeResult struct {
	PersonID      string                 `json:"person_id"`
	FirstName     string                 `json:"first_name"`
	LastName      string                 `json:"last_name"`
	DNI           string                 `json:"dni"`
	BankName      *string                `json:"bank_name,omitempty"`
	BankAccount   *string                `json:"bank_account,omitempty"`
	PayCadence    employee.PayCadence    `json:"pay_cadence"`
	PensionScheme employee.PensionScheme `json:"pension_scheme"`
	FundCode      *string                `json:"fund_code,omitempty"`
	BaseSalary    decimal.Decimal        `json:"base_salary"`
	WorkedDays    decimal.Decimal        `json:"worked_days"`
	ProratedBase  decimal.Decimal        `json:"prorated_base"`

	Vacation        decimal.Decimal `json:"vacation"`
	CTS             decimal.Decimal `json:"cts"`
	Bonus           decimal.Decimal `json:"bonus"`
	FamilyAllowance decimal.Decimal `json:"family_allowance"`

	Pension          decimal.Decimal `json:"pension"`
	Withholding      decimal.Decimal `json:"withholding"`
	FoodDeduction    decimal.Decimal `json:"food_deduction"`
	LoanInstallments decimal.Decimal `json:"loan_installments"`
	Advances         decimal.Decimal `json:"advances"`

	Gross      decimal.Decimal `json:"gross"`
	Deductions decimal.Decimal `json:"deductions"`
	Net        decimal.Decimal `json:"net"`

	// ConsumedAdvanceIDs must be marked applied by the caller, in the same
	// transaction that stores this result.
	ConsumedAdvanceIDs []string  `json:"consumed_advance_ids,omitempty"`
	Warnings           []Warning `json:"warnings,omitempty"`
}

type ContractorInput struct {
	Contractor contractor.Contractor
	Period     Period
}

type ContractorResult struct {
	PersonID      string          `json:"person_id"`
	FirstName     string          `json:"first_name"`
	LastName      string          `json:"last_name"`
	DNI           string          `json:"dni"`
	BankName      *string         `json:"bank_name,omitempty"`
	BankAccount   *string         `json:"bank_account,omitempty"`
	Suspended     bool            `json:"suspended"`
	Fee           decimal.Decimal `json:"fee"`
	Withholding   decimal.Decimal `json:"withholding"`
	FoodDeduction decimal.Decimal `json:"food_deduction"`
	Gross         decimal.Decimal `json:"gross"`
	Deductions    decimal.Decimal `json:"deductions"`
	Net           decimal.Decimal `json:"net"`
	Warnings      []Warning       `json:"warnings,omitempty"`
}

// round2 rounds half away from zero to cents.
func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// WorkedDays returns 30 minus the days lost to unexcused absences and
// permissions inside the period, never below zero.
func WorkedDays(absences []absence.Absence, period Period) decimal.Decimal {
	lost := decimal.Zero
	for _, a := range absences {
		if !a.InPeriod(period.Month, period.Year) {
			continue
		}
		lost = lost.Add(a.DaysLost())
	}
	worked := daysInPeriod.Sub(lost)
	if worked.IsNegative() {
		return decimal.Zero
	}
	return worked
}

func validateEmployeeInput(in EmployeeInput) error {
	var errs validator.ValidationErrors

	if !in.Regime.IsValid() {
		errs = append(errs, validator.ValidationError{Field: "regime", Message: "employer regime is missing or unknown"})
	}
	if err := in.Period.Validate(); err != nil {
		errs = append(errs, err.(validator.ValidationErrors)...)
	}
	e := in.Employee
	if !e.BaseSalary.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "base_salary", Message: "base_salary must be greater than zero"})
	}
	if !e.PayCadence.IsValid() {
		errs = append(errs, validator.ValidationError{Field: "pay_cadence", Message: "pay_cadence must be monthly or semi-monthly"})
	}
	if !e.PensionScheme.IsValid() {
		errs = append(errs, validator.ValidationError{Field: "pension_scheme", Message: "pension_scheme must be state or private-fund"})
	}
	if e.FoodDeduction.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "food_deduction", Message: "food_deduction must be non-negative"})
	}
	for _, l := range in.Loans {
		if l.Installment.IsNegative() {
			errs = append(errs, validator.ValidationError{Field: "loan_installment", Message: fmt.Sprintf("loan %s has a negative installment", l.ID)})
			break
		}
	}
	for _, a := range in.Advances {
		if a.Amount.IsNegative() {
			errs = append(errs, validator.ValidationError{Field: "advance_amount", Message: fmt.Sprintf("advance %s has a negative amount", a.ID)})
			break
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidEmployeeInput, errs)
	}
	return nil
}

// ComputeEmployeePayroll derives one employee's pay for a period. It reads
// only its inputs; advances it deducts are listed in ConsumedAdvanceIDs.
func ComputeEmployeePayroll(in EmployeeInput, rates Rates) (EmployeeResult, error) {
	if err := validateEmployeeInput(in); err != nil {
		return EmployeeResult{}, err
	}
	rule, _ := ruleFor(in.Regime)
	e := in.Employee

	res := EmployeeResult{
		PersonID:      e.ID,
		FirstName:     e.FirstName,
		LastName:      e.LastName,
		DNI:           e.DNI,
		BankName:      e.BankName,
		BankAccount:   e.BankAccount,
		PayCadence:    e.PayCadence,
		PensionScheme: e.PensionScheme,
		FundCode:      e.FundCode,
		BaseSalary:    e.BaseSalary,
	}

	// Day proration, then cadence.
	worked := WorkedDays(in.Absences, in.Period)
	base := e.BaseSalary.Mul(worked).Div(daysInPeriod)
	if e.PayCadence == employee.CadenceSemiMonthly {
		base = base.Mul(half)
	}
	res.WorkedDays = worked
	res.ProratedBase = round2(base)

	// Benefit accrual
	res.Vacation = round2(rule.vacation.of(base))
	res.CTS = round2(rule.cts.of(base))
	if bonusMonths[in.Period.Month] {
		res.Bonus = round2(rule.bonus.of(base))
	} else {
		res.Bonus = decimal.Zero
	}
	res.FamilyAllowance = decimal.Zero
	if rule.familyAllowance && base.LessThanOrEqual(rates.AllowanceThreshold) {
		res.FamilyAllowance = round2(rates.FamilyAllowance)
	}

	// Statutory deductions
	pensionRate := rates.PensionRate(e.PensionScheme == employee.PensionState, e.FundCode)
	res.Pension = round2(base.Mul(pensionRate))
	res.Withholding = round2(rates.Withholding(base))
	res.FoodDeduction = decimal.Zero
	if e.PayCadence == employee.CadenceMonthly {
		res.FoodDeduction = round2(e.FoodDeduction)
	}

	// Internal debts
	loans := decimal.Zero
	for _, l := range in.Loans {
		if !l.Active {
			continue
		}
		loans = loans.Add(l.Installment)
	}
	res.LoanInstallments = round2(loans)

	advances := decimal.Zero
	for _, a := range in.Advances {
		if a.Applied {
			continue
		}
		switch {
		case a.Targets(in.Period.Month, in.Period.Year):
			advances = advances.Add(a.Amount)
			res.ConsumedAdvanceIDs = append(res.ConsumedAdvanceIDs, a.ID)
		case a.TargetsBefore(in.Period.Month, in.Period.Year):
			res.Warnings = append(res.Warnings, Warning{
				PersonID: e.ID,
				Code:     WarningStaleAdvance,
				Message: fmt.Sprintf("advance %s of %s targeting %04d-%02d was never applied",
					a.ID, a.Amount.StringFixed(2), a.TargetYear, a.TargetMonth),
			})
		}
	}
	res.Advances = round2(advances)

	// Totals are sums of the rounded lines so every displayed figure adds up.
	res.Gross = res.ProratedBase.Add(res.Vacation).Add(res.CTS).Add(res.Bonus).Add(res.FamilyAllowance)
	res.Deductions = res.Pension.Add(res.Withholding).Add(res.FoodDeduction).Add(res.LoanInstallments).Add(res.Advances)
	res.Net = res.Gross.Sub(res.Deductions)

	res.Warnings = append(res.Warnings, resultWarnings(e.ID, res.Net, e.BankAccount)...)
	return res, nil
}

// ComputeContractorPayroll derives a contractor's fee net of fourth-category
// withholding and food deduction.
func ComputeContractorPayroll(in ContractorInput, rates Rates) (ContractorResult, error) {
	var errs validator.ValidationErrors
	if err := in.Period.Validate(); err != nil {
		errs = append(errs, err.(validator.ValidationErrors)...)
	}
	c := in.Contractor
	if !c.MonthlyFee.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "monthly_fee", Message: "monthly_fee must be greater than zero"})
	}
	if c.FoodDeduction.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "food_deduction", Message: "food_deduction must be non-negative"})
	}
	if len(errs) > 0 {
		return ContractorResult{}, fmt.Errorf("%w: %w", ErrInvalidContractorInput, errs)
	}

	res := ContractorResult{
		PersonID:    c.ID,
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		DNI:         c.DNI,
		BankName:    c.BankName,
		BankAccount: c.BankAccount,
		Suspended:   c.Suspended,
		Fee:         round2(c.MonthlyFee),
	}

	res.Withholding = decimal.Zero
	if !c.Suspended && c.MonthlyFee.GreaterThan(rates.ContractorThreshold) {
		res.Withholding = round2(c.MonthlyFee.Mul(rates.ContractorRate))
	}
	res.FoodDeduction = round2(c.FoodDeduction)

	res.Gross = res.Fee
	res.Deductions = res.Withholding.Add(res.FoodDeduction)
	res.Net = res.Gross.Sub(res.Deductions)

	res.Warnings = resultWarnings(c.ID, res.Net, c.BankAccount)
	return res, nil
}

func resultWarnings(personID string, net decimal.Decimal, bankAccount *string) []Warning {
	var warnings []Warning
	if net.IsNegative() {
		warnings = append(warnings, Warning{
			PersonID: personID,
			Code:     WarningNegativeNet,
			Message:  "deductions exceed gross pay",
		})
	}
	if bankAccount == nil || validator.IsEmpty(*bankAccount) {
		warnings = append(warnings, Warning{
			PersonID: personID,
			Code:     WarningMissingBankAccount,
			Message:  "no bank account registered",
		})
	}
	return warnings
}

package payroll

import "github.com/shopspring/decimal"

// EmployeeRecord converts an engine result into its stored form.
func EmployeeRecord(employerID string, period Period, res EmployeeResult) PayrollRecord {
	return PayrollRecord{
		EmployerID:   employerID,
		PersonID:     res.PersonID,
		PersonKind:   PersonEmployee,
		FirstName:    res.FirstName,
		LastName:     res.LastName,
		DNI:          res.DNI,
		BankName:     res.BankName,
		BankAccount:  res.BankAccount,
		PeriodMonth:  period.Month,
		PeriodYear:   period.Year,
		BaseAmount:   res.BaseSalary,
		WorkedDays:   res.WorkedDays,
		ProratedBase: res.ProratedBase,
		Earnings: map[string]decimal.Decimal{
			DetailVacation:        res.Vacation,
			DetailCTS:             res.CTS,
			DetailBonus:           res.Bonus,
			DetailFamilyAllowance: res.FamilyAllowance,
		},
		Deductions: map[string]decimal.Decimal{
			DetailPension:       res.Pension,
			DetailWithholding:   res.Withholding,
			DetailFoodDeduction: res.FoodDeduction,
			DetailLoans:         res.LoanInstallments,
			DetailAdvances:      res.Advances,
		},
		Gross:           res.Gross,
		TotalDeductions: res.Deductions,
		Net:             res.Net,
	}
}

// ContractorRecord converts a contractor result into its stored form. A
// suspended contractor's record carries no withholding line at all.
func ContractorRecord(employerID string, period Period, res ContractorResult) PayrollRecord {
	deductions := map[string]decimal.Decimal{
		DetailFoodDeduction: res.FoodDeduction,
	}
	if !res.Suspended {
		deductions[DetailWithholding] = res.Withholding
	}
	return PayrollRecord{
		EmployerID:      employerID,
		PersonID:        res.PersonID,
		PersonKind:      PersonContractor,
		FirstName:       res.FirstName,
		LastName:        res.LastName,
		DNI:             res.DNI,
		BankName:        res.BankName,
		BankAccount:     res.BankAccount,
		PeriodMonth:     period.Month,
		PeriodYear:      period.Year,
		BaseAmount:      res.Fee,
		WorkedDays:      decimal.Zero,
		ProratedBase:    res.Fee,
		Earnings:        map[string]decimal.Decimal{},
		Deductions:      deductions,
		Gross:           res.Gross,
		TotalDeductions: res.Deductions,
		Net:             res.Net,
	}
}

// Records converts every computed person of a run, employees first.
func (r RunResult) Records() []PayrollRecord {
	records := make([]PayrollRecord, 0, len(r.Employees)+len(r.Contractors))
	for _, e := range r.Employees {
		records = append(records, EmployeeRecord(r.EmployerID, r.Period, e))
	}
	for _, c := range r.Contractors {
		records = append(records, ContractorRecord(r.EmployerID, r.Period, c))
	}
	return records
}

// Amount returns a detail line, zero when absent.
func (r PayrollRecord) Amount(detail string) decimal.Decimal {
	if v, ok := r.Earnings[detail]; ok {
		return v
	}
	if v, ok := r.Deductions[detail]; ok {
		return v
	}
	return decimal.Zero
}

// WithholdingSuspended reports whether a contractor record was paid under a
// withholding suspension.
func (r PayrollRecord) WithholdingSuspended() bool {
	if r.PersonKind != PersonContractor {
		return false
	}
	_, ok := r.Deductions[DetailWithholding]
	return !ok
}

package payroll

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/planilla-backend-go/internal/domain/employer"
	"github.com/cmlabs-hris/planilla-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// Period is a payroll month.
type Period struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

func (p Period) Validate() error {
	if !validator.IsValidPeriod(p.Month, p.Year) {
		return validator.ValidationErrors{{Field: "period", Message: "month must be between 1 and 12 and year between 2000 and 2100"}}
	}
	return nil
}

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

// Start is the first instant of the period; End is the first instant of the next one.
func (p Period) Start() time.Time {
	return time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, time.UTC)
}

func (p Period) End() time.Time {
	return p.Start().AddDate(0, 1, 0)
}

func PeriodOf(t time.Time) Period {
	return Period{Month: int(t.Month()), Year: t.Year()}
}

// RunStatus enum
type RunStatus string

const (
	RunStatusDraft RunStatus = "draft"
	RunStatusPaid  RunStatus = "paid"
)

// PersonKind enum
type PersonKind string

const (
	PersonEmployee   PersonKind = "employee"
	PersonContractor PersonKind = "contractor"
)

// Detail keys used in PayrollRecord.Earnings and PayrollRecord.Deductions.
const (
	DetailVacation        = "vacation"
	DetailCTS             = "cts"
	DetailBonus           = "bonus"
	DetailFamilyAllowance = "family_allowance"
	DetailPension         = "pension"
	DetailWithholding     = "withholding"
	DetailFoodDeduction   = "food_deduction"
	DetailLoans           = "loans"
	DetailAdvances        = "advances"
)

// PayrollRun - committed payroll for one employer and period
type PayrollRun struct {
	ID              string
	EmployerID      string
	PeriodMonth     int
	PeriodYear      int
	Regime          employer.Regime
	Status          RunStatus
	EmployeeCount   int
	ContractorCount int
	FailedCount     int
	TotalGross      decimal.Decimal
	TotalDeductions decimal.Decimal
	TotalNet        decimal.Decimal
	PaidAt          *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// Joined fields
	EmployerName *string
	EmployerRUC  *string
}

// PayrollRecord - one person's line in a committed run
type PayrollRecord struct {
	ID              string
	RunID           string
	EmployerID      string
	PersonID        string
	PersonKind      PersonKind
	FirstName       string
	LastName        string
	DNI             string
	BankName        *string
	BankAccount     *string
	PeriodMonth     int
	PeriodYear      int
	BaseAmount      decimal.Decimal
	WorkedDays      decimal.Decimal
	ProratedBase    decimal.Decimal
	Earnings        map[string]decimal.Decimal // {"vacation": 250, "cts": 3000}
	Deductions      map[string]decimal.Decimal // {"pension": 390}
	Gross           decimal.Decimal
	TotalDeductions decimal.Decimal
	Net             decimal.Decimal
	CreatedAt       time.Time
}

func (r PayrollRecord) FullName() string {
	return r.FirstName + " " + r.LastName
}

func (r PayrollRecord) Period() Period {
	return Period{Month: r.PeriodMonth, Year: r.PeriodYear}
}

// Settings - per-employer overrides of the statutory rates
type Settings struct {
	EmployerID string
	Rates      Rates
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

package contractor

import (
	"time"

	"github.com/shopspring/decimal"
)

// Contractor is an independent service provider paid a flat monthly fee.
// Suspended contractors are still paid but skip fourth-category withholding.
type Contractor struct {
	ID            string
	EmployerID    string
	FirstName     string
	LastName      string
	DNI           string
	MonthlyFee    decimal.Decimal
	StartDate     time.Time
	EndDate       *time.Time
	Suspended     bool
	FoodDeduction decimal.Decimal
	BankName      *string
	BankAccount   *string
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (c Contractor) FullName() string {
	return c.FirstName + " " + c.LastName
}

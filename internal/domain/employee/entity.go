package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

type Employee struct {
	ID            string
	EmployerID    string
	FirstName     string
	LastName      string
	DNI           string
	BaseSalary    decimal.Decimal
	HireDate      time.Time
	BirthDate     *time.Time
	Address       *string
	Phone         *string
	Email         *string
	PensionScheme PensionScheme
	FundCode      *string
	PayCadence    PayCadence
	FoodDeduction decimal.Decimal
	BankName      *string
	BankAccount   *string
	Active        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (e Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}

type PensionScheme string

const (
	PensionState       PensionScheme = "state"
	PensionPrivateFund PensionScheme = "private-fund"
)

func (p PensionScheme) IsValid() bool {
	return p == PensionState || p == PensionPrivateFund
}

type PayCadence string

const (
	CadenceMonthly     PayCadence = "monthly"
	CadenceSemiMonthly PayCadence = "semi-monthly"
)

func (c PayCadence) IsValid() bool {
	return c == CadenceMonthly || c == CadenceSemiMonthly
}

// Private pension fund codes.
var FundCodes = []string{"PRIMA", "INTEGRA", "PROFUTURO", "HABITAT"}

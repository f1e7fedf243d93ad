package employee

import (
	"time"

	"github.com/cmlabs-hris/planilla-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type EmployeeResponse struct {
	ID            string          `json:"id"`
	EmployerID    string          `json:"employer_id"`
	FirstName     string          `json:"first_name"`
	LastName      string          `json:"last_name"`
	DNI           string          `json:"dni"`
	BaseSalary    decimal.Decimal `json:"base_salary"`
	HireDate      string          `json:"hire_date"`
	BirthDate     *string         `json:"birth_date,omitempty"`
	Address       *string         `json:"address,omitempty"`
	Phone         *string         `json:"phone,omitempty"`
	Email         *string         `json:"email,omitempty"`
	PensionScheme PensionScheme   `json:"pension_scheme"`
	FundCode      *string         `json:"fund_code,omitempty"`
	PayCadence    PayCadence      `json:"pay_cadence"`
	FoodDeduction decimal.Decimal `json:"food_deduction"`
	BankName      *string         `json:"bank_name,omitempty"`
	BankAccount   *string         `json:"bank_account,omitempty"`
	Active        bool            `json:"active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func ToResponse(e Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:            e.ID,
		EmployerID:    e.EmployerID,
		FirstName:     e.FirstName,
		LastName:      e.LastName,
		DNI:           e.DNI,
		BaseSalary:    e.BaseSalary,
		HireDate:      e.HireDate.Format("2006-01-02"),
		Address:       e.Address,
		Phone:         e.Phone,
		Email:         e.Email,
		PensionScheme: e.PensionScheme,
		FundCode:      e.FundCode,
		PayCadence:    e.PayCadence,
		FoodDeduction: e.FoodDeduction,
		BankName:      e.BankName,
		BankAccount:   e.BankAccount,
		Active:        e.Active,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
	if e.BirthDate != nil {
		s := e.BirthDate.Format("2006-01-02")
		resp.BirthDate = &s
	}
	return resp
}

type CreateEmployeeRequest struct {
	EmployerID    string          `json:"-"`
	FirstName     string          `json:"first_name"`
	LastName      string          `json:"last_name"`
	DNI           string          `json:"dni"`
	BaseSalary    decimal.Decimal `json:"base_salary"`
	HireDate      string          `json:"hire_date"`
	BirthDate     *string         `json:"birth_date,omitempty"`
	Address       *string         `json:"address,omitempty"`
	Phone         *string         `json:"phone,omitempty"`
	Email         *string         `json:"email,omitempty"`
	PensionScheme PensionScheme   `json:"pension_scheme"`
	FundCode      *string         `json:"fund_code,omitempty"`
	PayCadence    PayCadence      `json:"pay_cadence"`
	FoodDeduction decimal.Decimal `json:"food_deduction"`
	BankName      *string         `json:"bank_name,omitempty"`
	BankAccount   *string         `json:"bank_account,omitempty"`
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.PayCadence == "" {
		r.PayCadence = CadenceMonthly
	}
	if r.PensionScheme == "" {
		r.PensionScheme = PensionState
	}

	if validator.IsEmpty(r.FirstName) {
		errs = append(errs, validator.ValidationError{Field: "first_name", Message: "first_name is required"})
	}
	if validator.IsEmpty(r.LastName) {
		errs = append(errs, validator.ValidationError{Field: "last_name", Message: "last_name is required"})
	}
	if !validator.IsValidDNI(r.DNI) {
		errs = append(errs, validator.ValidationError{Field: "dni", Message: ErrInvalidDNI.Error()})
	}
	if !r.BaseSalary.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "base_salary", Message: "base_salary must be greater than zero"})
	}
	if _, ok := validator.IsValidDate(r.HireDate); !ok {
		errs = append(errs, validator.ValidationError{Field: "hire_date", Message: "hire_date must be in YYYY-MM-DD format"})
	}
	if r.BirthDate != nil {
		if _, ok := validator.IsValidDate(*r.BirthDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "birth_date", Message: "birth_date must be in YYYY-MM-DD format"})
		}
	}
	errs = append(errs, validatePension(r.PensionScheme, r.FundCode)...)
	if !r.PayCadence.IsValid() {
		errs = append(errs, validator.ValidationError{Field: "pay_cadence", Message: "pay_cadence must be monthly or semi-monthly"})
	}
	if r.FoodDeduction.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "food_deduction", Message: "food_deduction must be non-negative"})
	}
	errs = append(errs, validateContact(r.Phone, r.Email)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateEmployeeRequest struct {
	ID            string           `json:"-"`
	FirstName     *string          `json:"first_name,omitempty"`
	LastName      *string          `json:"last_name,omitempty"`
	BaseSalary    *decimal.Decimal `json:"base_salary,omitempty"`
	Address       *string          `json:"address,omitempty"`
	Phone         *string          `json:"phone,omitempty"`
	Email         *string          `json:"email,omitempty"`
	PensionScheme *PensionScheme   `json:"pension_scheme,omitempty"`
	FundCode      *string          `json:"fund_code,omitempty"`
	PayCadence    *PayCadence      `json:"pay_cadence,omitempty"`
	FoodDeduction *decimal.Decimal `json:"food_deduction,omitempty"`
	BankName      *string          `json:"bank_name,omitempty"`
	BankAccount   *string          `json:"bank_account,omitempty"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.FirstName != nil && validator.IsEmpty(*r.FirstName) {
		errs = append(errs, validator.ValidationError{Field: "first_name", Message: "first_name cannot be empty"})
	}
	if r.LastName != nil && validator.IsEmpty(*r.LastName) {
		errs = append(errs, validator.ValidationError{Field: "last_name", Message: "last_name cannot be empty"})
	}
	if r.BaseSalary != nil && !r.BaseSalary.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "base_salary", Message: "base_salary must be greater than zero"})
	}
	if r.PensionScheme != nil {
		errs = append(errs, validatePension(*r.PensionScheme, r.FundCode)...)
	} else if r.FundCode != nil && !validator.IsInSlice(*r.FundCode, FundCodes) {
		errs = append(errs, validator.ValidationError{Field: "fund_code", Message: "fund_code must be one of PRIMA, INTEGRA, PROFUTURO, HABITAT"})
	}
	if r.PayCadence != nil && !r.PayCadence.IsValid() {
		errs = append(errs, validator.ValidationError{Field: "pay_cadence", Message: "pay_cadence must be monthly or semi-monthly"})
	}
	if r.FoodDeduction != nil && r.FoodDeduction.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "food_deduction", Message: "food_deduction must be non-negative"})
	}
	errs = append(errs, validateContact(r.Phone, r.Email)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validatePension(scheme PensionScheme, fundCode *string) validator.ValidationErrors {
	var errs validator.ValidationErrors
	if !scheme.IsValid() {
		errs = append(errs, validator.ValidationError{Field: "pension_scheme", Message: "pension_scheme must be state or private-fund"})
		return errs
	}
	if scheme == PensionPrivateFund {
		if fundCode == nil || !validator.IsInSlice(*fundCode, FundCodes) {
			errs = append(errs, validator.ValidationError{Field: "fund_code", Message: "fund_code must be one of PRIMA, INTEGRA, PROFUTURO, HABITAT"})
		}
	}
	return errs
}

func validateContact(phone, email *string) validator.ValidationErrors {
	var errs validator.ValidationErrors
	if phone != nil && *phone != "" && !validator.IsValidPhoneNumber(*phone) {
		errs = append(errs, validator.ValidationError{Field: "phone", Message: "phone is not a valid Peruvian number"})
	}
	if email != nil && *email != "" && !validator.IsValidEmail(*email) {
		errs = append(errs, validator.ValidationError{Field: "email", Message: "email is invalid"})
	}
	return errs
}

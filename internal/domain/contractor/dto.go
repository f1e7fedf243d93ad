package contractor

import (
	"time"

	"github.com/cmlabs-hris/planilla-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type ContractorResponse struct {
	ID            string          `json:"id"`
	EmployerID    string          `json:"employer_id"`
	FirstName     string          `json:"first_name"`
	LastName      string          `json:"last_name"`
	DNI           string          `json:"dni"`
	MonthlyFee    decimal.Decimal `json:"monthly_fee"`
	StartDate     string          `json:"start_date"`
	EndDate       *string         `json:"end_date,omitempty"`
	Suspended     bool            `json:"suspended"`
	FoodDeduction decimal.Decimal `json:"food_deduction"`
	BankName      *string         `json:"bank_name,omitempty"`
	BankAccount   *string         `json:"bank_account,omitempty"`
	Active        bool            `json:"active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func ToResponse(c Contractor) ContractorResponse {
	resp := ContractorResponse{
		ID:            c.ID,
		EmployerID:    c.EmployerID,
		FirstName:     c.FirstName,
		LastName:      c.LastName,
		DNI:           c.DNI,
		MonthlyFee:    c.MonthlyFee,
		StartDate:     c.StartDate.Format("2006-01-02"),
		Suspended:     c.Suspended,
		FoodDeduction: c.FoodDeduction,
		BankName:      c.BankName,
		BankAccount:   c.BankAccount,
		Active:        c.Active,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
	if c.EndDate != nil {
		s := c.EndDate.Format("2006-01-02")
		resp.EndDate = &s
	}
	return resp
}

type CreateContractorRequest struct {
	EmployerID    string          `json:"-"`
	FirstName     string          `json:"first_name"`
	LastName      string          `json:"last_name"`
	DNI           string          `json:"dni"`
	MonthlyFee    decimal.Decimal `json:"monthly_fee"`
	StartDate     string          `json:"start_date"`
	EndDate       *string         `json:"end_date,omitempty"`
	Suspended     bool            `json:"suspended"`
	FoodDeduction decimal.Decimal `json:"food_deduction"`
	BankName      *string         `json:"bank_name,omitempty"`
	BankAccount   *string         `json:"bank_account,omitempty"`
}

func (r *CreateContractorRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.FirstName) {
		errs = append(errs, validator.ValidationError{Field: "first_name", Message: "first_name is required"})
	}
	if validator.IsEmpty(r.LastName) {
		errs = append(errs, validator.ValidationError{Field: "last_name", Message: "last_name is required"})
	}
	if !validator.IsValidDNI(r.DNI) {
		errs = append(errs, validator.ValidationError{Field: "dni", Message: "DNI must be exactly 8 digits"})
	}
	if !r.MonthlyFee.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "monthly_fee", Message: "monthly_fee must be greater than zero"})
	}
	start, ok := validator.IsValidDate(r.StartDate)
	if !ok {
		errs = append(errs, validator.ValidationError{Field: "start_date", Message: "start_date must be in YYYY-MM-DD format"})
	}
	if r.EndDate != nil {
		end, endOK := validator.IsValidDate(*r.EndDate)
		if !endOK {
			errs = append(errs, validator.ValidationError{Field: "end_date", Message: "end_date must be in YYYY-MM-DD format"})
		} else if ok && end.Before(start) {
			errs = append(errs, validator.ValidationError{Field: "end_date", Message: "end_date cannot be before start_date"})
		}
	}
	if r.FoodDeduction.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "food_deduction", Message: "food_deduction must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateContractorRequest struct {
	ID            string           `json:"-"`
	FirstName     *string          `json:"first_name,omitempty"`
	LastName      *string          `json:"last_name,omitempty"`
	MonthlyFee    *decimal.Decimal `json:"monthly_fee,omitempty"`
	EndDate       *string          `json:"end_date,omitempty"`
	FoodDeduction *decimal.Decimal `json:"food_deduction,omitempty"`
	BankName      *string          `json:"bank_name,omitempty"`
	BankAccount   *string          `json:"bank_account,omitempty"`
}

func (r *UpdateContractorRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.FirstName != nil && validator.IsEmpty(*r.FirstName) {
		errs = append(errs, validator.ValidationError{Field: "first_name", Message: "first_name cannot be empty"})
	}
	if r.LastName != nil && validator.IsEmpty(*r.LastName) {
		errs = append(errs, validator.ValidationError{Field: "last_name", Message: "last_name cannot be empty"})
	}
	if r.MonthlyFee != nil && !r.MonthlyFee.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "monthly_fee", Message: "monthly_fee must be greater than zero"})
	}
	if r.EndDate != nil {
		if _, ok := validator.IsValidDate(*r.EndDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "end_date", Message: "end_date must be in YYYY-MM-DD format"})
		}
	}
	if r.FoodDeduction != nil && r.FoodDeduction.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "food_deduction", Message: "food_deduction must be non-negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type SetSuspendedRequest struct {
	Suspended bool `json:"suspended"`
}

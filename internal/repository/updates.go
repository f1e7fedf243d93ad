// Package repository holds what the postgresql and sqlite adapters share:
// column sets for partial updates and ID generation.
package repository

import (
	"time"

	"github.com/cmlabs-hris/planilla-backend-go/internal/domain/contractor"
	"github.com/cmlabs-hris/planilla-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/planilla-backend-go/internal/domain/employer"
	"github.com/google/uuid"
)

// NewID returns a time-ordered UUIDv7.
func NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// nullable maps "" to NULL.
func nullable(s *string) interface{} {
	if *s == "" {
		return nil
	}
	return *s
}

// EmployerUpdates returns the columns a partial employer update touches.
func EmployerUpdates(req employer.UpdateEmployerRequest) map[string]interface{} {
	updates := make(map[string]interface{})

	if req.Name != nil && *req.Name != "" {
		updates["name"] = *req.Name
	}
	if req.Regime != nil && *req.Regime != "" {
		updates["regime"] = string(*req.Regime)
	}
	if req.Address != nil {
		updates["address"] = nullable(req.Address)
	}
	if req.Phone != nil {
		updates["phone"] = nullable(req.Phone)
	}
	if req.Email != nil {
		updates["email"] = nullable(req.Email)
	}
	return updates
}

// EmployeeUpdates returns the columns a partial employee update touches.
func EmployeeUpdates(req employee.UpdateEmployeeRequest) map[string]interface{} {
	updates := make(map[string]interface{})

	if req.FirstName != nil && *req.FirstName != "" {
		updates["first_name"] = *req.FirstName
	}
	if req.LastName != nil && *req.LastName != "" {
		updates["last_name"] = *req.LastName
	}
	if req.BaseSalary != nil {
		updates["base_salary"] = *req.BaseSalary
	}
	if req.Address != nil {
		updates["address"] = nullable(req.Address)
	}
	if req.Phone != nil {
		updates["phone"] = nullable(req.Phone)
	}
	if req.Email != nil {
		updates["email"] = nullable(req.Email)
	}
	if req.PensionScheme != nil && *req.PensionScheme != "" {
		updates["pension_scheme"] = string(*req.PensionScheme)
		if *req.PensionScheme == employee.PensionState {
			updates["fund_code"] = nil
		}
	}
	if req.FundCode != nil {
		if _, cleared := updates["fund_code"]; !cleared {
			updates["fund_code"] = nullable(req.FundCode)
		}
	}
	if req.PayCadence != nil && *req.PayCadence != "" {
		updates["pay_cadence"] = string(*req.PayCadence)
	}
	if req.FoodDeduction != nil {
		updates["food_deduction"] = *req.FoodDeduction
	}
	if req.BankName != nil {
		updates["bank_name"] = nullable(req.BankName)
	}
	if req.BankAccount != nil {
		updates["bank_account"] = nullable(req.BankAccount)
	}
	return updates
}

// ContractorUpdates returns the columns a partial contractor update touches.
func ContractorUpdates(req contractor.UpdateContractorRequest) map[string]interface{} {
	updates := make(map[string]interface{})

	if req.FirstName != nil && *req.FirstName != "" {
		updates["first_name"] = *req.FirstName
	}
	if req.LastName != nil && *req.LastName != "" {
		updates["last_name"] = *req.LastName
	}
	if req.MonthlyFee != nil {
		updates["monthly_fee"] = *req.MonthlyFee
	}
	if req.EndDate != nil {
		if *req.EndDate == "" {
			updates["end_date"] = nil
		} else {
			parsedEndDate, _ := time.Parse("2006-01-02", *req.EndDate)
			updates["end_date"] = parsedEndDate
		}
	}
	if req.FoodDeduction != nil {
		updates["food_deduction"] = *req.FoodDeduction
	}
	if req.BankName != nil {
		updates["bank_name"] = nullable(req.BankName)
	}
	if req.BankAccount != nil {
		updates["bank_account"] = nullable(req.BankAccount)
	}
	return updates
}

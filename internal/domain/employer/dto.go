package employer

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/planilla-backend-go/internal/pkg/validator"
)

type EmployerResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	RUC       string    `json:"ruc"`
	Regime    Regime    `json:"regime"`
	Address   *string   `json:"address,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	Email     *string   `json:"email,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func ToResponse(e Employer) EmployerResponse {
	return EmployerResponse{
		ID:        e.ID,
		Name:      e.Name,
		RUC:       e.RUC,
		Regime:    e.Regime,
		Address:   e.Address,
		Phone:     e.Phone,
		Email:     e.Email,
		Active:    e.Active,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

type CreateEmployerRequest struct {
	Name    string  `json:"name"`
	RUC     string  `json:"ruc"`
	Regime  Regime  `json:"regime"`
	Address *string `json:"address,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Email   *string `json:"email,omitempty"`
}

func (r *CreateEmployerRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Name = strings.TrimSpace(r.Name)
	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "name is required"})
	}
	if len(r.Name) > 255 {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "name must not exceed 255 characters"})
	}
	if !validator.IsValidRUC(r.RUC) {
		errs = append(errs, validator.ValidationError{Field: "ruc", Message: "ruc must be 11 digits with a valid prefix"})
	}
	if !r.Regime.IsValid() {
		errs = append(errs, validator.ValidationError{Field: "regime", Message: ErrInvalidRegime.Error()})
	}
	errs = append(errs, validateContact(r.Phone, r.Email)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateEmployerRequest struct {
	Name    *string `json:"name,omitempty"`
	Regime  *Regime `json:"regime,omitempty"`
	Address *string `json:"address,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Email   *string `json:"email,omitempty"`
}

func (r *UpdateEmployerRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name != nil {
		if validator.IsEmpty(*r.Name) {
			errs = append(errs, validator.ValidationError{Field: "name", Message: "name cannot be empty"})
		}
		if len(*r.Name) > 255 {
			errs = append(errs, validator.ValidationError{Field: "name", Message: "name must not exceed 255 characters"})
		}
	}
	if r.Regime != nil && !r.Regime.IsValid() {
		errs = append(errs, validator.ValidationError{Field: "regime", Message: ErrInvalidRegime.Error()})
	}
	errs = append(errs, validateContact(r.Phone, r.Email)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
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

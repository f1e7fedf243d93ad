package employer

import "time"

// Regime is the legal employment-cost category of an employer.
type Regime string

const (
	RegimeMicroenterprise Regime = "microenterprise"
	RegimeSmallBusiness   Regime = "small-business"
	RegimeGeneral         Regime = "general"
)

func (r Regime) IsValid() bool {
	switch r {
	case RegimeMicroenterprise, RegimeSmallBusiness, RegimeGeneral:
		return true
	}
	return false
}

type Employer struct {
	ID        string
	Name      string
	RUC       string
	Regime    Regime
	Address   *string
	Phone     *string
	Email     *string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

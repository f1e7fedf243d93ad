package payroll

import (
	"github.com/cmlabs-hris/planilla-backend-go/internal/domain/employer"
	"github.com/shopspring/decimal"
)

// Bracket is one slice of the fifth-category withholding schedule. A zero
// Width means the bracket is unbounded.
type Bracket struct {
	Width decimal.Decimal
	Rate  decimal.Decimal
}

// Rates are the statutory amounts the engine applies. They default to the
// values below and can be overridden per employer.
type Rates struct {
	FamilyAllowance      decimal.Decimal            `json:"family_allowance"`
	AllowanceThreshold   decimal.Decimal            `json:"allowance_threshold"`
	WithholdingThreshold decimal.Decimal            `json:"withholding_threshold"`
	StatePensionRate     decimal.Decimal            `json:"state_pension_rate"`
	DefaultFundRate      decimal.Decimal            `json:"default_fund_rate"`
	FundRates            map[string]decimal.Decimal `json:"fund_rates"`
	ContractorThreshold  decimal.Decimal            `json:"contractor_threshold"`
	ContractorRate       decimal.Decimal            `json:"contractor_rate"`
}

func DefaultRates() Rates {
	return Rates{
		FamilyAllowance:      decimal.RequireFromString("102.50"),
		AllowanceThreshold:   decimal.NewFromInt(1025),
		WithholdingThreshold: decimal.NewFromInt(1025),
		StatePensionRate:     decimal.RequireFromString("0.13"),
		DefaultFundRate:      decimal.RequireFromString("0.12"),
		FundRates: map[string]decimal.Decimal{
			"PRIMA":     decimal.RequireFromString("0.12"),
			"INTEGRA":   decimal.RequireFromString("0.12"),
			"PROFUTURO": decimal.RequireFromString("0.12"),
			"HABITAT":   decimal.RequireFromString("0.12"),
		},
		ContractorThreshold: decimal.NewFromInt(1500),
		ContractorRate:      decimal.RequireFromString("0.08"),
	}
}

// WithholdingBrackets apply over the excess of the withholding threshold.
var WithholdingBrackets = []Bracket{
	{Width: decimal.NewFromInt(500), Rate: decimal.RequireFromString("0.08")},
	{Width: decimal.NewFromInt(500), Rate: decimal.RequireFromString("0.14")},
	{Width: decimal.Zero, Rate: decimal.RequireFromString("0.17")},
}

// Gratification is paid in July and December.
var bonusMonths = map[int]bool{7: true, 12: true}

// fraction multiplies before dividing so exact ratios like 30/360 stay exact.
type fraction struct {
	num, den int64
}

func (f fraction) of(amount decimal.Decimal) decimal.Decimal {
	if f.num == 0 {
		return decimal.Zero
	}
	return amount.Mul(decimal.NewFromInt(f.num)).Div(decimal.NewFromInt(f.den))
}

type regimeRule struct {
	vacation        fraction
	cts             fraction
	bonus           fraction
	familyAllowance bool
	summary         []string
}

var (
	regimeRules = map[employer.Regime]regimeRule{
		employer.RegimeMicroenterprise: {
			vacation:        fraction{15, 360},
			cts:             fraction{0, 1},
			bonus:           fraction{0, 1},
			familyAllowance: false,
			summary: []string{
				"Vacation accrues 15 days per year (base x 15/360)",
				"No CTS",
				"No gratification",
				"No family allowance",
			},
		},
		employer.RegimeSmallBusiness: {
			vacation:        fraction{15, 360},
			cts:             fraction{15, 12},
			bonus:           fraction{1, 2},
			familyAllowance: true,
			summary: []string{
				"Vacation accrues 15 days per year (base x 15/360)",
				"CTS of base x 15/12",
				"Gratification of half a salary in July and December",
				"Family allowance for salaries up to the allowance threshold",
			},
		},
		employer.RegimeGeneral: {
			vacation:        fraction{30, 360},
			cts:             fraction{1, 1},
			bonus:           fraction{109, 100},
			familyAllowance: true,
			summary: []string{
				"Vacation accrues 30 days per year (base x 30/360)",
				"CTS of one full salary",
				"Gratification of a full salary plus 9% in July and December",
				"Family allowance for salaries up to the allowance threshold",
			},
		},
	}
)

func ruleFor(regime employer.Regime) (regimeRule, bool) {
	rule, ok := regimeRules[regime]
	return rule, ok
}

// RegimeSummary describes the benefits a regime grants, in plain words.
func RegimeSummary(regime employer.Regime) ([]string, bool) {
	rule, ok := ruleFor(regime)
	if !ok {
		return nil, false
	}
	out := make([]string, len(rule.summary))
	copy(out, rule.summary)
	return out, true
}

// PensionRate returns the rate for a scheme and fund code. Unknown funds
// fall back to DefaultFundRate.
func (r Rates) PensionRate(state bool, fundCode *string) decimal.Decimal {
	if state {
		return r.StatePensionRate
	}
	if fundCode != nil {
		if rate, ok := r.FundRates[*fundCode]; ok {
			return rate
		}
	}
	return r.DefaultFundRate
}

// Withholding applies the bracket schedule to the amount above the threshold.
func (r Rates) Withholding(base decimal.Decimal) decimal.Decimal {
	excess := base.Sub(r.WithholdingThreshold)
	if !excess.IsPositive() {
		return decimal.Zero
	}

	tax := decimal.Zero
	remaining := excess
	for _, b := range WithholdingBrackets {
		if !remaining.IsPositive() {
			break
		}
		portion := remaining
		if b.Width.IsPositive() && portion.GreaterThan(b.Width) {
			portion = b.Width
		}
		tax = tax.Add(portion.Mul(b.Rate))
		remaining = remaining.Sub(portion)
	}
	return tax
}

package domain

import (
	"github.com/shopspring/decimal"
)

// FilingStatus determines the bracket schedule and standard deduction used
// for ordinary income tax.
type FilingStatus string

const (
	FilingSingle         FilingStatus = "single"
	FilingMarriedJointly FilingStatus = "married_filing_jointly"
)

// ReturnMode selects how annual nominal returns are produced.
type ReturnMode string

const (
	ReturnModeFixed      ReturnMode = "fixed"
	ReturnModeRandomWalk ReturnMode = "random_walk"
)

// Documented baseline defaults. Every missing or invalid input field is
// replaced by one of these rather than rejected; callers may pass
// partially-built records.
const (
	DefaultCurrentAge           = 30
	DefaultRetirementAge        = 65
	DefaultLifeExpectancy       = 90
	DefaultInheritanceTailYears = 5
	DefaultSSClaimAge           = 67
	DefaultSeed                 = 42

	MinSSClaimAge = 62
	MaxSSClaimAge = 70
)

var (
	DefaultNominalReturn  = decimal.NewFromFloat(0.07)
	DefaultInflationRate  = decimal.NewFromFloat(0.03)
	DefaultWithdrawalRate = decimal.NewFromFloat(0.04)
)

// Person holds the per-person slice of a household's inputs. Contribution
// fields are annual dollar amounts per bucket.
type Person struct {
	Name                  string          `yaml:"name" json:"name"`
	CurrentAge            int             `yaml:"current_age" json:"current_age"`
	AnnualIncome          decimal.Decimal `yaml:"annual_income" json:"annual_income"`
	IncludeSocialSecurity bool            `yaml:"include_social_security" json:"include_social_security"`
	SSClaimAge            int             `yaml:"ss_claim_age" json:"ss_claim_age"`
	ContributionTaxable   decimal.Decimal `yaml:"contribution_taxable" json:"contribution_taxable"`
	ContributionPreTax    decimal.Decimal `yaml:"contribution_pretax" json:"contribution_pretax"`
	ContributionRoth      decimal.Decimal `yaml:"contribution_roth" json:"contribution_roth"`
	EmployerMatch         decimal.Decimal `yaml:"employer_match" json:"employer_match"`
}

// TotalContributions returns the person's own annual contributions across
// all three buckets, excluding the employer match.
func (p Person) TotalContributions() decimal.Decimal {
	return p.ContributionTaxable.Add(p.ContributionPreTax).Add(p.ContributionRoth)
}

// Balances holds the household's starting balance per account bucket.
type Balances struct {
	Taxable decimal.Decimal `yaml:"taxable" json:"taxable"`
	PreTax  decimal.Decimal `yaml:"pretax" json:"pretax"`
	Roth    decimal.Decimal `yaml:"roth" json:"roth"`
}

// Total returns the sum across all three buckets.
func (b Balances) Total() decimal.Decimal {
	return b.Taxable.Add(b.PreTax).Add(b.Roth)
}

// Rates holds the household's economic assumptions.
type Rates struct {
	NominalReturn      decimal.Decimal `yaml:"nominal_return" json:"nominal_return"`
	Inflation          decimal.Decimal `yaml:"inflation" json:"inflation"`
	StateTaxMultiplier decimal.Decimal `yaml:"state_tax_multiplier" json:"state_tax_multiplier"`
	WithdrawalRate     decimal.Decimal `yaml:"withdrawal_rate" json:"withdrawal_rate"`
	IncomeGrowthRate   decimal.Decimal `yaml:"income_growth_rate" json:"income_growth_rate"`

	// EscalateContributions grows contribution amounts alongside income
	// when income growth is configured.
	EscalateContributions bool `yaml:"escalate_contributions" json:"escalate_contributions"`
}

// SimulationInputs is the complete configuration record for one trial.
// The engine treats every field as untrusted; Normalize fills defaults and
// clamps ranges before any arithmetic happens.
type SimulationInputs struct {
	FilingStatus         FilingStatus `yaml:"filing_status" json:"filing_status"`
	RetirementAge        int          `yaml:"retirement_age" json:"retirement_age"`
	LifeExpectancy       int          `yaml:"life_expectancy" json:"life_expectancy"`
	InheritanceTailYears int          `yaml:"inheritance_tail_years" json:"inheritance_tail_years"`

	Primary Person  `yaml:"primary" json:"primary"`
	Spouse  *Person `yaml:"spouse,omitempty" json:"spouse,omitempty"`

	Balances Balances `yaml:"balances" json:"balances"`
	Rates    Rates    `yaml:"rates" json:"rates"`

	ReturnMode   ReturnMode `yaml:"return_mode" json:"return_mode"`
	ReturnSeries string     `yaml:"return_series" json:"return_series"`
	Seed         int64      `yaml:"seed" json:"seed"`
}

// CurrentAge is the household reference age driving the projection horizon.
func (in SimulationInputs) CurrentAge() int {
	return in.Primary.CurrentAge
}

// HorizonYears is the number of year records one trial produces:
// (lifeExpectancy - currentAge) + inheritanceTailYears.
func (in SimulationInputs) HorizonYears() int {
	return (in.LifeExpectancy - in.CurrentAge()) + in.InheritanceTailYears
}

// Persons returns the one or two people in the household.
func (in SimulationInputs) Persons() []Person {
	if in.Spouse == nil {
		return []Person{in.Primary}
	}
	return []Person{in.Primary, *in.Spouse}
}

// Normalize returns a fully populated copy of the inputs with every missing
// or out-of-range field replaced by its documented default. The receiver is
// not modified. The result is safe to hand to the engine.
func (in SimulationInputs) Normalize() SimulationInputs {
	out := in

	if out.FilingStatus != FilingSingle && out.FilingStatus != FilingMarriedJointly {
		if out.Spouse != nil {
			out.FilingStatus = FilingMarriedJointly
		} else {
			out.FilingStatus = FilingSingle
		}
	}

	out.Primary = normalizePerson(out.Primary, DefaultCurrentAge)
	if out.Spouse != nil {
		spouse := normalizePerson(*out.Spouse, out.Primary.CurrentAge)
		out.Spouse = &spouse
	}

	if out.RetirementAge <= out.Primary.CurrentAge {
		out.RetirementAge = maxInt(DefaultRetirementAge, out.Primary.CurrentAge+1)
	}
	if out.LifeExpectancy <= out.RetirementAge {
		out.LifeExpectancy = maxInt(DefaultLifeExpectancy, out.RetirementAge+1)
	}
	if out.InheritanceTailYears <= 0 {
		out.InheritanceTailYears = DefaultInheritanceTailYears
	}

	out.Balances.Taxable = clampNonNegative(out.Balances.Taxable)
	out.Balances.PreTax = clampNonNegative(out.Balances.PreTax)
	out.Balances.Roth = clampNonNegative(out.Balances.Roth)

	out.Rates = normalizeRates(out.Rates)

	if out.ReturnMode != ReturnModeFixed && out.ReturnMode != ReturnModeRandomWalk {
		out.ReturnMode = ReturnModeFixed
	}
	if out.ReturnSeries == "" {
		out.ReturnSeries = "balanced"
	}
	if out.Seed == 0 {
		out.Seed = DefaultSeed
	}

	return out
}

func normalizePerson(p Person, fallbackAge int) Person {
	if p.CurrentAge <= 0 || p.CurrentAge > 120 {
		p.CurrentAge = fallbackAge
	}
	p.AnnualIncome = clampNonNegative(p.AnnualIncome)
	p.ContributionTaxable = clampNonNegative(p.ContributionTaxable)
	p.ContributionPreTax = clampNonNegative(p.ContributionPreTax)
	p.ContributionRoth = clampNonNegative(p.ContributionRoth)
	p.EmployerMatch = clampNonNegative(p.EmployerMatch)

	if p.SSClaimAge == 0 {
		p.SSClaimAge = DefaultSSClaimAge
	}
	if p.SSClaimAge < MinSSClaimAge {
		p.SSClaimAge = MinSSClaimAge
	}
	if p.SSClaimAge > MaxSSClaimAge {
		p.SSClaimAge = MaxSSClaimAge
	}

	return p
}

func normalizeRates(r Rates) Rates {
	if r.NominalReturn.IsZero() {
		r.NominalReturn = DefaultNominalReturn
	}
	r.NominalReturn = clampDecimal(r.NominalReturn, decimal.NewFromFloat(-0.95), decimal.NewFromInt(1))

	if r.Inflation.IsZero() {
		r.Inflation = DefaultInflationRate
	}
	// Allow mild deflation but cap extreme values, matching the validation
	// bounds used at the config boundary.
	r.Inflation = clampDecimal(r.Inflation, decimal.NewFromFloat(-0.10), decimal.NewFromFloat(0.20))

	if r.WithdrawalRate.IsZero() {
		r.WithdrawalRate = DefaultWithdrawalRate
	}
	r.WithdrawalRate = clampDecimal(r.WithdrawalRate, decimal.Zero, decimal.NewFromFloat(0.20))

	r.StateTaxMultiplier = clampDecimal(r.StateTaxMultiplier, decimal.Zero, decimal.NewFromInt(1))
	r.IncomeGrowthRate = clampDecimal(r.IncomeGrowthRate, decimal.Zero, decimal.NewFromFloat(0.20))

	return r
}

func clampNonNegative(d decimal.Decimal) decimal.Decimal {
	if d.LessThan(decimal.Zero) {
		return decimal.Zero
	}
	return d
}

func clampDecimal(d, lo, hi decimal.Decimal) decimal.Decimal {
	if d.LessThan(lo) {
		return lo
	}
	if d.GreaterThan(hi) {
		return hi
	}
	return d
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/finsim/retirement-simulator/internal/calculation"
	"github.com/finsim/retirement-simulator/internal/domain"
)

// File is the top-level document a simulation config file unmarshals
// into: the household inputs plus an optional Monte Carlo block.
type File struct {
	Simulation domain.SimulationInputs      `yaml:"simulation" json:"simulation"`
	MonteCarlo calculation.MonteCarloConfig `yaml:"monte_carlo" json:"monte_carlo"`
}

// InputParser handles parsing of input configuration files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads configuration from a YAML file. Files are validated
// strictly here; the engine's own normalization only backstops callers
// that build inputs programmatically.
func (ip *InputParser) LoadFromFile(filename string) (*File, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ip.ValidateInputs(&file.Simulation); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &file, nil
}

// ValidateInputs validates the household inputs
func (ip *InputParser) ValidateInputs(in *domain.SimulationInputs) error {
	if err := ip.validatePerson("primary", &in.Primary); err != nil {
		return err
	}
	if in.Spouse != nil {
		if err := ip.validatePerson("spouse", in.Spouse); err != nil {
			return err
		}
	}

	if in.FilingStatus != "" && in.FilingStatus != domain.FilingSingle && in.FilingStatus != domain.FilingMarriedJointly {
		return fmt.Errorf("filing status must be 'single' or 'married_filing_jointly'")
	}
	if in.FilingStatus == domain.FilingMarriedJointly && in.Spouse == nil {
		return fmt.Errorf("married filing jointly requires a spouse")
	}

	if in.RetirementAge != 0 && in.RetirementAge <= in.Primary.CurrentAge {
		return fmt.Errorf("retirement age must be greater than current age")
	}
	if in.LifeExpectancy != 0 && in.RetirementAge != 0 && in.LifeExpectancy <= in.RetirementAge {
		return fmt.Errorf("life expectancy must be greater than retirement age")
	}
	if in.InheritanceTailYears < 0 || in.InheritanceTailYears > 30 {
		return fmt.Errorf("inheritance tail years must be between 0 and 30")
	}

	if err := ip.validateBalances(&in.Balances); err != nil {
		return err
	}
	if err := ip.validateRates(&in.Rates); err != nil {
		return err
	}

	if in.ReturnMode != "" && in.ReturnMode != domain.ReturnModeFixed && in.ReturnMode != domain.ReturnModeRandomWalk {
		return fmt.Errorf("return mode must be 'fixed' or 'random_walk'")
	}
	if in.ReturnSeries != "" {
		if _, ok := calculation.LookupReturnSeries(in.ReturnSeries); !ok {
			return fmt.Errorf("unknown return series %q", in.ReturnSeries)
		}
	}

	return nil
}

// validatePerson validates a single person's data
func (ip *InputParser) validatePerson(label string, p *domain.Person) error {
	if p.CurrentAge <= 0 || p.CurrentAge > 120 {
		return fmt.Errorf("%s: current age must be between 1 and 120", label)
	}
	if p.AnnualIncome.LessThan(decimal.Zero) {
		return fmt.Errorf("%s: annual income cannot be negative", label)
	}
	if p.ContributionTaxable.LessThan(decimal.Zero) {
		return fmt.Errorf("%s: taxable contribution cannot be negative", label)
	}
	if p.ContributionPreTax.LessThan(decimal.Zero) {
		return fmt.Errorf("%s: pre-tax contribution cannot be negative", label)
	}
	if p.ContributionRoth.LessThan(decimal.Zero) {
		return fmt.Errorf("%s: Roth contribution cannot be negative", label)
	}
	if p.EmployerMatch.LessThan(decimal.Zero) {
		return fmt.Errorf("%s: employer match cannot be negative", label)
	}
	if p.TotalContributions().Add(p.EmployerMatch).GreaterThan(p.AnnualIncome.Mul(decimal.NewFromInt(2))) {
		return fmt.Errorf("%s: contributions cannot exceed twice annual income", label)
	}
	if p.SSClaimAge != 0 && (p.SSClaimAge < domain.MinSSClaimAge || p.SSClaimAge > domain.MaxSSClaimAge) {
		return fmt.Errorf("%s: social security claim age must be between %d and %d",
			label, domain.MinSSClaimAge, domain.MaxSSClaimAge)
	}
	return nil
}

// validateBalances validates starting account balances
func (ip *InputParser) validateBalances(b *domain.Balances) error {
	if b.Taxable.LessThan(decimal.Zero) {
		return fmt.Errorf("taxable balance cannot be negative")
	}
	if b.PreTax.LessThan(decimal.Zero) {
		return fmt.Errorf("pre-tax balance cannot be negative")
	}
	if b.Roth.LessThan(decimal.Zero) {
		return fmt.Errorf("Roth balance cannot be negative")
	}
	return nil
}

// validateRates validates economic assumptions
func (ip *InputParser) validateRates(r *domain.Rates) error {
	if r.NominalReturn.LessThan(decimal.NewFromFloat(-0.95)) {
		return fmt.Errorf("nominal return cannot be less than -95%%")
	}
	if r.NominalReturn.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("nominal return cannot exceed 100%%")
	}
	if r.Inflation.LessThan(decimal.NewFromFloat(-0.10)) {
		return fmt.Errorf("inflation rate cannot be less than -10%% (extreme deflation)")
	}
	if r.Inflation.GreaterThan(decimal.NewFromFloat(0.20)) {
		return fmt.Errorf("inflation rate cannot exceed 20%%")
	}
	if r.StateTaxMultiplier.LessThan(decimal.Zero) || r.StateTaxMultiplier.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("state tax multiplier must be between 0 and 1")
	}
	if r.WithdrawalRate.LessThan(decimal.Zero) || r.WithdrawalRate.GreaterThan(decimal.NewFromFloat(0.20)) {
		return fmt.Errorf("withdrawal rate must be between 0 and 20%%")
	}
	if r.IncomeGrowthRate.LessThan(decimal.Zero) || r.IncomeGrowthRate.GreaterThan(decimal.NewFromFloat(0.20)) {
		return fmt.Errorf("income growth rate must be between 0 and 20%%")
	}
	return nil
}

// CreateExampleFile creates an example configuration with a two-person
// household, suitable for writing out as a starting template.
func (ip *InputParser) CreateExampleFile() *File {
	spouse := domain.Person{
		Name:                  "Jordan",
		CurrentAge:            33,
		AnnualIncome:          decimal.NewFromInt(85000),
		IncludeSocialSecurity: true,
		SSClaimAge:            67,
		ContributionTaxable:   decimal.NewFromInt(3000),
		ContributionPreTax:    decimal.NewFromInt(12000),
		ContributionRoth:      decimal.NewFromInt(4000),
		EmployerMatch:         decimal.NewFromInt(3400),
	}

	return &File{
		Simulation: domain.SimulationInputs{
			FilingStatus:         domain.FilingMarriedJointly,
			RetirementAge:        65,
			LifeExpectancy:       90,
			InheritanceTailYears: 5,
			Primary: domain.Person{
				Name:                  "Avery",
				CurrentAge:            35,
				AnnualIncome:          decimal.NewFromInt(110000),
				IncludeSocialSecurity: true,
				SSClaimAge:            67,
				ContributionTaxable:   decimal.NewFromInt(5000),
				ContributionPreTax:    decimal.NewFromInt(18000),
				ContributionRoth:      decimal.NewFromInt(6000),
				EmployerMatch:         decimal.NewFromInt(4400),
			},
			Spouse: &spouse,
			Balances: domain.Balances{
				Taxable: decimal.NewFromInt(60000),
				PreTax:  decimal.NewFromInt(150000),
				Roth:    decimal.NewFromInt(40000),
			},
			Rates: domain.Rates{
				NominalReturn:         decimal.NewFromFloat(0.07),
				Inflation:             decimal.NewFromFloat(0.03),
				StateTaxMultiplier:    decimal.NewFromFloat(0.05),
				WithdrawalRate:        decimal.NewFromFloat(0.04),
				IncomeGrowthRate:      decimal.NewFromFloat(0.02),
				EscalateContributions: true,
			},
			ReturnMode:   domain.ReturnModeRandomWalk,
			ReturnSeries: "balanced",
			Seed:         domain.DefaultSeed,
		},
		MonteCarlo: calculation.MonteCarloConfig{
			NumTrials:   1000,
			BaseSeed:    domain.DefaultSeed,
			MaxParallel: calculation.DefaultMaxParallel,
		},
	}
}

// WriteExampleFile renders the example configuration as YAML to filename.
func (ip *InputParser) WriteExampleFile(filename string) error {
	data, err := yaml.Marshal(ip.CreateExampleFile())
	if err != nil {
		return fmt.Errorf("failed to marshal example configuration: %w", err)
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return nil
}

package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/finsim/retirement-simulator/internal/domain"
)

// TAX CALCULATION ASSUMPTIONS:
//
// 1. Federal brackets: 2025 schedules for all projection years, no
//    inflation indexing of bracket thresholds.
//    - Standard deduction: $30,000 MFJ / $15,000 single
// 2. State tax: modeled as a multiplier on the federal-equivalent figure
//    rather than a separate schedule. 0 disables it.
// 3. FICA: 2025 wage base and rates, earned income only.
// 4. Social Security taxation: provisional-income thresholds, not indexed.

// TaxBracket is one marginal bracket of an ordinary income schedule.
type TaxBracket struct {
	Min  decimal.Decimal
	Max  decimal.Decimal
	Rate decimal.Decimal
}

// bracketSchedule2025MFJ is the 2025 married-filing-jointly schedule.
var bracketSchedule2025MFJ = []TaxBracket{
	{decimal.Zero, decimal.NewFromInt(23200), decimal.NewFromFloat(0.10)},
	{decimal.NewFromInt(23200), decimal.NewFromInt(94300), decimal.NewFromFloat(0.12)},
	{decimal.NewFromInt(94300), decimal.NewFromInt(201050), decimal.NewFromFloat(0.22)},
	{decimal.NewFromInt(201050), decimal.NewFromInt(383900), decimal.NewFromFloat(0.24)},
	{decimal.NewFromInt(383900), decimal.NewFromInt(487450), decimal.NewFromFloat(0.32)},
	{decimal.NewFromInt(487450), decimal.NewFromInt(731200), decimal.NewFromFloat(0.35)},
	{decimal.NewFromInt(731200), decimal.NewFromInt(999999999), decimal.NewFromFloat(0.37)},
}

// bracketSchedule2025Single has thresholds at half the MFJ values.
var bracketSchedule2025Single = halveBrackets(bracketSchedule2025MFJ)

var (
	standardDeductionMFJ    = decimal.NewFromInt(30000)
	standardDeductionSingle = decimal.NewFromInt(15000)
)

func halveBrackets(in []TaxBracket) []TaxBracket {
	two := decimal.NewFromInt(2)
	out := make([]TaxBracket, len(in))
	for i, b := range in {
		out[i] = TaxBracket{Min: b.Min.Div(two), Max: b.Max.Div(two), Rate: b.Rate}
	}
	return out
}

// OrdinaryTaxCalculator applies a marginal-bracket schedule keyed by filing
// status with a pre-subtracted standard deduction. It is pure: the bracket
// tables are immutable package data copied in at construction.
type OrdinaryTaxCalculator struct {
	brackets   map[domain.FilingStatus][]TaxBracket
	deductions map[domain.FilingStatus]decimal.Decimal
}

// NewOrdinaryTaxCalculator2025 builds a calculator over the 2025 schedules.
func NewOrdinaryTaxCalculator2025() *OrdinaryTaxCalculator {
	return &OrdinaryTaxCalculator{
		brackets: map[domain.FilingStatus][]TaxBracket{
			domain.FilingMarriedJointly: bracketSchedule2025MFJ,
			domain.FilingSingle:         bracketSchedule2025Single,
		},
		deductions: map[domain.FilingStatus]decimal.Decimal{
			domain.FilingMarriedJointly: standardDeductionMFJ,
			domain.FilingSingle:         standardDeductionSingle,
		},
	}
}

// StandardDeduction returns the standard deduction for a filing status.
// Unknown statuses fall back to single.
func (tc *OrdinaryTaxCalculator) StandardDeduction(status domain.FilingStatus) decimal.Decimal {
	if d, ok := tc.deductions[status]; ok {
		return d
	}
	return tc.deductions[domain.FilingSingle]
}

// Tax computes the federal-equivalent ordinary income tax on gross income.
// The standard deduction is subtracted first and the result floors at
// zero. Callers apply any state multiplier separately.
func (tc *OrdinaryTaxCalculator) Tax(grossIncome decimal.Decimal, status domain.FilingStatus) decimal.Decimal {
	brackets, ok := tc.brackets[status]
	if !ok {
		brackets = tc.brackets[domain.FilingSingle]
	}

	taxable := grossIncome.Sub(tc.StandardDeduction(status))
	if taxable.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}

	var total decimal.Decimal
	for _, b := range brackets {
		if taxable.LessThanOrEqual(b.Min) {
			break
		}
		inBracket := decimal.Min(taxable, b.Max).Sub(b.Min)
		if inBracket.GreaterThan(decimal.Zero) {
			total = total.Add(inBracket.Mul(b.Rate))
		}
	}
	return total
}

// FICACalculator computes Social Security and Medicare payroll taxes on
// earned income. It never applies to retirement income.
type FICACalculator struct {
	SSWageBase          decimal.Decimal
	SSRate              decimal.Decimal
	MedicareRate        decimal.Decimal
	AdditionalRate      decimal.Decimal
	HighIncomeThreshold map[domain.FilingStatus]decimal.Decimal
}

// NewFICACalculator2025 builds a FICA calculator with 2025 figures.
func NewFICACalculator2025() *FICACalculator {
	return &FICACalculator{
		SSWageBase:     decimal.NewFromInt(176100),
		SSRate:         decimal.NewFromFloat(0.062),
		MedicareRate:   decimal.NewFromFloat(0.0145),
		AdditionalRate: decimal.NewFromFloat(0.009),
		HighIncomeThreshold: map[domain.FilingStatus]decimal.Decimal{
			domain.FilingMarriedJointly: decimal.NewFromInt(250000),
			domain.FilingSingle:         decimal.NewFromInt(200000),
		},
	}
}

// Tax computes FICA for one person's wages. The SS wage base caps per
// individual; the additional Medicare rate is allocated proportionally to
// this person's share of total household wages above the threshold.
func (fc *FICACalculator) Tax(wages, totalHouseholdWages decimal.Decimal, status domain.FilingStatus) decimal.Decimal {
	if wages.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}

	ssWages := decimal.Min(wages, fc.SSWageBase)
	tax := ssWages.Mul(fc.SSRate).Add(wages.Mul(fc.MedicareRate))

	threshold, ok := fc.HighIncomeThreshold[status]
	if !ok {
		threshold = fc.HighIncomeThreshold[domain.FilingSingle]
	}
	if totalHouseholdWages.GreaterThan(threshold) {
		excess := totalHouseholdWages.Sub(threshold)
		share := wages.Div(totalHouseholdWages)
		tax = tax.Add(excess.Mul(fc.AdditionalRate).Mul(share))
	}

	return tax
}

// ssTaxThresholds holds the provisional-income thresholds for one filing
// status.
type ssTaxThresholds struct {
	Lower decimal.Decimal
	Upper decimal.Decimal
}

// SSTaxCalculator determines the federally taxable portion of Social
// Security benefits via the provisional income test.
type SSTaxCalculator struct {
	thresholds map[domain.FilingStatus]ssTaxThresholds
}

// NewSSTaxCalculator builds an SS taxation calculator with the statutory
// (unindexed) thresholds.
func NewSSTaxCalculator() *SSTaxCalculator {
	return &SSTaxCalculator{
		thresholds: map[domain.FilingStatus]ssTaxThresholds{
			domain.FilingMarriedJointly: {
				Lower: decimal.NewFromInt(32000),
				Upper: decimal.NewFromInt(44000),
			},
			domain.FilingSingle: {
				Lower: decimal.NewFromInt(25000),
				Upper: decimal.NewFromInt(34000),
			},
		},
	}
}

// ProvisionalIncome is other taxable income plus half of SS benefits.
func (sstc *SSTaxCalculator) ProvisionalIncome(otherIncome, ssBenefits decimal.Decimal) decimal.Decimal {
	return otherIncome.Add(ssBenefits.Mul(decimal.NewFromFloat(0.5)))
}

// TaxablePortion returns how much of the annual SS benefit is subject to
// ordinary income tax: none below the lower threshold, up to 50% between
// the thresholds, up to 85% above the upper threshold.
func (sstc *SSTaxCalculator) TaxablePortion(ssBenefitAnnual, provisionalIncome decimal.Decimal, status domain.FilingStatus) decimal.Decimal {
	th, ok := sstc.thresholds[status]
	if !ok {
		th = sstc.thresholds[domain.FilingSingle]
	}

	half := decimal.NewFromFloat(0.5)
	if provisionalIncome.LessThanOrEqual(th.Lower) {
		return decimal.Zero
	}
	if provisionalIncome.LessThanOrEqual(th.Upper) {
		return decimal.Min(
			provisionalIncome.Sub(th.Lower).Mul(half),
			ssBenefitAnnual.Mul(half),
		)
	}

	most := decimal.NewFromFloat(0.85)
	capped := ssBenefitAnnual.Mul(most)
	computed := provisionalIncome.Sub(th.Upper).Mul(most).Add(th.Upper.Sub(th.Lower).Mul(half))
	return decimal.Min(capped, computed)
}

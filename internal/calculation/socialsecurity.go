package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/finsim/retirement-simulator/pkg/agemath"
)

// SocialSecurityCalculator estimates an annual benefit from a career
// income basis and adjusts it for the chosen claiming age. The estimate is
// an approximation for strategy comparison, not a benefit statement.
type SocialSecurityCalculator struct {
	FullRetirementAge int

	// 2025 monthly PIA bend points.
	BendPoint1 decimal.Decimal
	BendPoint2 decimal.Decimal
}

// NewSocialSecurityCalculator builds a calculator for a claimant born in
// the given year.
func NewSocialSecurityCalculator(birthYear int) *SocialSecurityCalculator {
	return &SocialSecurityCalculator{
		FullRetirementAge: agemath.FullRetirementAge(birthYear),
		BendPoint1:        decimal.NewFromInt(1226),
		BendPoint2:        decimal.NewFromInt(7391),
	}
}

// benefitAtFRA approximates the monthly primary insurance amount from an
// annual income basis using the bend-point formula: 90% of the first
// segment, 32% of the second, 15% above the second bend point.
func (ssc *SocialSecurityCalculator) benefitAtFRA(incomeBasis decimal.Decimal) decimal.Decimal {
	if incomeBasis.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	monthly := incomeBasis.Div(decimal.NewFromInt(12))

	pia := decimal.Min(monthly, ssc.BendPoint1).Mul(decimal.NewFromFloat(0.90))
	if monthly.GreaterThan(ssc.BendPoint1) {
		mid := decimal.Min(monthly, ssc.BendPoint2).Sub(ssc.BendPoint1)
		pia = pia.Add(mid.Mul(decimal.NewFromFloat(0.32)))
	}
	if monthly.GreaterThan(ssc.BendPoint2) {
		pia = pia.Add(monthly.Sub(ssc.BendPoint2).Mul(decimal.NewFromFloat(0.15)))
	}
	return pia
}

// AnnualBenefit estimates the annual benefit for a claiming age. Claiming
// ages are clamped to the valid window [62, 70]. Early claiming is reduced
// 5/9 of 1% per month for the first 36 months and 5/12 of 1% per month
// beyond; delayed claiming earns 2/3 of 1% per month through age 70. The
// result is monotonic non-decreasing in claiming age.
func (ssc *SocialSecurityCalculator) AnnualBenefit(incomeBasis decimal.Decimal, claimAge int) decimal.Decimal {
	claimAge = agemath.ClampAge(claimAge, 62, 70)
	monthlyFRA := ssc.benefitAtFRA(incomeBasis)
	if monthlyFRA.IsZero() {
		return decimal.Zero
	}

	one := decimal.NewFromInt(1)
	var monthly decimal.Decimal

	switch {
	case claimAge < ssc.FullRetirementAge:
		monthsEarly := (ssc.FullRetirementAge - claimAge) * 12
		var reduction decimal.Decimal
		if monthsEarly <= 36 {
			reduction = decimal.NewFromFloat(5.0 / 9.0 / 100.0).Mul(decimal.NewFromInt(int64(monthsEarly)))
		} else {
			first := decimal.NewFromFloat(5.0 / 9.0 / 100.0).Mul(decimal.NewFromInt(36))
			rest := decimal.NewFromFloat(5.0 / 12.0 / 100.0).Mul(decimal.NewFromInt(int64(monthsEarly - 36)))
			reduction = first.Add(rest)
		}
		monthly = monthlyFRA.Mul(one.Sub(reduction))

	case claimAge > ssc.FullRetirementAge:
		monthsDelayed := (claimAge - ssc.FullRetirementAge) * 12
		if monthsDelayed > 48 { // credits stop at 70
			monthsDelayed = 48
		}
		credit := decimal.NewFromFloat(2.0 / 3.0 / 100.0).Mul(decimal.NewFromInt(int64(monthsDelayed)))
		monthly = monthlyFRA.Mul(one.Add(credit))

	default:
		monthly = monthlyFRA
	}

	return monthly.Mul(decimal.NewFromInt(12))
}

// ApplyCOLA escalates a benefit already in payment by one year's
// cost-of-living adjustment.
func ApplyCOLA(currentBenefit, colaRate decimal.Decimal) decimal.Decimal {
	return currentBenefit.Mul(decimal.NewFromInt(1).Add(colaRate))
}

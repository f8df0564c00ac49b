package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeFillsDefaults(t *testing.T) {
	out := SimulationInputs{}.Normalize()

	assert.Equal(t, FilingSingle, out.FilingStatus)
	assert.Equal(t, DefaultCurrentAge, out.Primary.CurrentAge)
	assert.Equal(t, DefaultRetirementAge, out.RetirementAge)
	assert.Equal(t, DefaultLifeExpectancy, out.LifeExpectancy)
	assert.Equal(t, DefaultInheritanceTailYears, out.InheritanceTailYears)
	assert.Equal(t, DefaultSSClaimAge, out.Primary.SSClaimAge)
	assert.Equal(t, ReturnModeFixed, out.ReturnMode)
	assert.Equal(t, int64(DefaultSeed), out.Seed)

	assert.True(t, out.Rates.NominalReturn.Equal(DefaultNominalReturn))
	assert.True(t, out.Rates.Inflation.Equal(DefaultInflationRate))
	assert.True(t, out.Rates.WithdrawalRate.Equal(DefaultWithdrawalRate))
}

func TestNormalizeDoesNotMutateReceiver(t *testing.T) {
	in := SimulationInputs{}
	_ = in.Normalize()

	assert.Equal(t, SimulationInputs{}, in)
}

func TestNormalizeClampsRanges(t *testing.T) {
	in := SimulationInputs{
		Primary: Person{
			CurrentAge:   40,
			AnnualIncome: decimal.NewFromInt(-5),
			SSClaimAge:   90,
		},
		Balances: Balances{Taxable: decimal.NewFromInt(-100)},
		Rates: Rates{
			Inflation:          decimal.NewFromFloat(0.50),
			WithdrawalRate:     decimal.NewFromFloat(0.90),
			StateTaxMultiplier: decimal.NewFromInt(3),
		},
	}

	out := in.Normalize()

	assert.True(t, out.Primary.AnnualIncome.IsZero())
	assert.Equal(t, MaxSSClaimAge, out.Primary.SSClaimAge)
	assert.True(t, out.Balances.Taxable.IsZero())
	assert.True(t, out.Rates.Inflation.Equal(decimal.NewFromFloat(0.20)))
	assert.True(t, out.Rates.WithdrawalRate.Equal(decimal.NewFromFloat(0.20)))
	assert.True(t, out.Rates.StateTaxMultiplier.Equal(decimal.NewFromInt(1)))
}

func TestNormalizeRepairsAgeOrdering(t *testing.T) {
	in := SimulationInputs{
		RetirementAge:  50,
		LifeExpectancy: 45,
		Primary:        Person{CurrentAge: 60},
	}

	out := in.Normalize()

	assert.Greater(t, out.RetirementAge, out.Primary.CurrentAge)
	assert.Greater(t, out.LifeExpectancy, out.RetirementAge)
}

func TestNormalizeInfersFilingStatus(t *testing.T) {
	spouse := Person{CurrentAge: 40}
	out := SimulationInputs{Spouse: &spouse}.Normalize()
	assert.Equal(t, FilingMarriedJointly, out.FilingStatus)

	// The spouse copy is normalized without touching the original.
	require.NotSame(t, &spouse, out.Spouse)
	assert.Equal(t, DefaultSSClaimAge, out.Spouse.SSClaimAge)
	assert.Equal(t, 0, spouse.SSClaimAge)
}

func TestNormalizeDefaultsInheritanceTail(t *testing.T) {
	// A zero or negative tail means the field was never set; both get the
	// default so the horizon always extends past life expectancy.
	for _, tail := range []int{0, -3} {
		out := SimulationInputs{InheritanceTailYears: tail}.Normalize()
		assert.Equal(t, DefaultInheritanceTailYears, out.InheritanceTailYears)
	}

	out := SimulationInputs{}.Normalize()
	assert.Equal(t,
		(DefaultLifeExpectancy-DefaultCurrentAge)+DefaultInheritanceTailYears,
		out.HorizonYears())
}

func TestHorizonYears(t *testing.T) {
	in := SimulationInputs{
		LifeExpectancy:       90,
		InheritanceTailYears: 5,
		Primary:              Person{CurrentAge: 35},
	}
	assert.Equal(t, 60, in.HorizonYears())
}

func TestPersons(t *testing.T) {
	solo := SimulationInputs{Primary: Person{Name: "A"}}
	assert.Len(t, solo.Persons(), 1)

	spouse := Person{Name: "B"}
	pair := SimulationInputs{Primary: Person{Name: "A"}, Spouse: &spouse}
	persons := pair.Persons()
	require.Len(t, persons, 2)
	assert.Equal(t, "B", persons[1].Name)
}

func TestTotalContributionsExcludesMatch(t *testing.T) {
	p := Person{
		ContributionTaxable: decimal.NewFromInt(100),
		ContributionPreTax:  decimal.NewFromInt(200),
		ContributionRoth:    decimal.NewFromInt(300),
		EmployerMatch:       decimal.NewFromInt(999),
	}
	assert.True(t, p.TotalContributions().Equal(decimal.NewFromInt(600)))
}

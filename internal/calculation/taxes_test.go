package calculation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/finsim/retirement-simulator/internal/domain"
)

// TestOrdinaryTaxCalculation tests ordinary income tax using the 2025
// bracket schedules.
func TestOrdinaryTaxCalculation(t *testing.T) {
	calculator := NewOrdinaryTaxCalculator2025()

	tests := []struct {
		name        string
		grossIncome decimal.Decimal
		status      domain.FilingStatus
		expectedTax decimal.Decimal
		description string
	}{
		{
			name:        "No tax below standard deduction MFJ",
			grossIncome: decimal.NewFromInt(25000),
			status:      domain.FilingMarriedJointly,
			expectedTax: decimal.Zero,
			description: "Income below $30,000 standard deduction",
		},
		{
			name:        "No tax at exactly the deduction",
			grossIncome: decimal.NewFromInt(30000),
			status:      domain.FilingMarriedJointly,
			expectedTax: decimal.Zero,
			description: "Taxable income of exactly zero",
		},
		{
			name:        "Low tax bracket MFJ",
			grossIncome: decimal.NewFromInt(50000),
			status:      domain.FilingMarriedJointly,
			expectedTax: decimal.NewFromInt(2000), // (50000-30000) * 0.10
			description: "Income in 10% bracket only",
		},
		{
			name:        "Multiple tax brackets MFJ",
			grossIncome: decimal.NewFromInt(100000),
			status:      domain.FilingMarriedJointly,
			expectedTax: decimal.NewFromInt(7936), // 23200*0.10 + 46800*0.12
			description: "Income spanning multiple tax brackets",
		},
		{
			name:        "Single filer halved thresholds",
			grossIncome: decimal.NewFromInt(50000),
			status:      domain.FilingSingle,
			expectedTax: decimal.NewFromInt(3968), // 11600*0.10 + 23400*0.12
			description: "Single schedule at half the MFJ thresholds",
		},
		{
			name:        "High income MFJ",
			grossIncome: decimal.NewFromInt(300000),
			status:      domain.FilingMarriedJointly,
			expectedTax: decimal.NewFromInt(50885), // 270000 taxable across brackets
			description: "Income reaching the 24% bracket",
		},
		{
			name:        "Negative income is not taxed",
			grossIncome: decimal.NewFromInt(-5000),
			status:      domain.FilingSingle,
			expectedTax: decimal.Zero,
			description: "Tax floors at zero",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tax := calculator.Tax(tt.grossIncome, tt.status)
			assert.True(t, tax.Equal(tt.expectedTax),
				"%s: expected %s, got %s", tt.description,
				tt.expectedTax.StringFixed(2), tax.StringFixed(2))
		})
	}
}

// TestOrdinaryTaxMonotonicity checks that more income never produces less
// tax.
func TestOrdinaryTaxMonotonicity(t *testing.T) {
	calculator := NewOrdinaryTaxCalculator2025()

	for _, status := range []domain.FilingStatus{domain.FilingSingle, domain.FilingMarriedJointly} {
		prev := decimal.Zero
		for income := 0; income <= 1000000; income += 25000 {
			tax := calculator.Tax(decimal.NewFromInt(int64(income)), status)
			assert.True(t, tax.GreaterThanOrEqual(prev),
				"tax decreased at income %d for %s: %s < %s",
				income, status, tax.StringFixed(2), prev.StringFixed(2))
			prev = tax
		}
	}
}

func TestStandardDeduction(t *testing.T) {
	calculator := NewOrdinaryTaxCalculator2025()

	assert.True(t, calculator.StandardDeduction(domain.FilingMarriedJointly).Equal(decimal.NewFromInt(30000)))
	assert.True(t, calculator.StandardDeduction(domain.FilingSingle).Equal(decimal.NewFromInt(15000)))
	// Unknown statuses fall back to single.
	assert.True(t, calculator.StandardDeduction("unknown").Equal(decimal.NewFromInt(15000)))
}

func TestFICACalculation(t *testing.T) {
	calculator := NewFICACalculator2025()

	tests := []struct {
		name        string
		wages       decimal.Decimal
		household   decimal.Decimal
		status      domain.FilingStatus
		expectedTax decimal.Decimal
	}{
		{
			name:        "Below wage base",
			wages:       decimal.NewFromInt(100000),
			household:   decimal.NewFromInt(100000),
			status:      domain.FilingMarriedJointly,
			expectedTax: decimal.NewFromInt(7650), // 6200 SS + 1450 Medicare
		},
		{
			name:        "Above wage base caps SS portion",
			wages:       decimal.NewFromInt(200000),
			household:   decimal.NewFromInt(200000),
			status:      domain.FilingSingle,
			expectedTax: decimal.NewFromFloat(13818.20), // 176100*0.062 + 200000*0.0145
		},
		{
			name:        "Additional Medicare above threshold",
			wages:       decimal.NewFromInt(300000),
			household:   decimal.NewFromInt(300000),
			status:      domain.FilingSingle,
			expectedTax: decimal.NewFromFloat(16168.20), // capped SS + 4350 + 100000*0.009
		},
		{
			name:        "Zero wages",
			wages:       decimal.Zero,
			household:   decimal.NewFromInt(150000),
			status:      domain.FilingMarriedJointly,
			expectedTax: decimal.Zero,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tax := calculator.Tax(tt.wages, tt.household, tt.status)
			assert.True(t, tax.Equal(tt.expectedTax),
				"expected %s, got %s", tt.expectedTax.StringFixed(2), tax.StringFixed(2))
		})
	}
}

func TestSocialSecurityTaxablePortion(t *testing.T) {
	calculator := NewSSTaxCalculator()

	tests := []struct {
		name        string
		benefit     decimal.Decimal
		provisional decimal.Decimal
		status      domain.FilingStatus
		expected    decimal.Decimal
	}{
		{
			name:        "Below lower threshold nothing taxable",
			benefit:     decimal.NewFromInt(20000),
			provisional: decimal.NewFromInt(30000),
			status:      domain.FilingMarriedJointly,
			expected:    decimal.Zero,
		},
		{
			name:        "Between thresholds up to 50%",
			benefit:     decimal.NewFromInt(20000),
			provisional: decimal.NewFromInt(40000),
			status:      domain.FilingMarriedJointly,
			expected:    decimal.NewFromInt(4000), // (40000-32000)*0.5
		},
		{
			name:        "Above upper threshold capped at 85% of benefit",
			benefit:     decimal.NewFromInt(20000),
			provisional: decimal.NewFromInt(60000),
			status:      domain.FilingMarriedJointly,
			expected:    decimal.NewFromInt(17000), // 85% cap binds
		},
		{
			name:        "Single thresholds",
			benefit:     decimal.NewFromInt(20000),
			provisional: decimal.NewFromInt(30000),
			status:      domain.FilingSingle,
			expected:    decimal.NewFromInt(2500), // (30000-25000)*0.5
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			taxable := calculator.TaxablePortion(tt.benefit, tt.provisional, tt.status)
			assert.True(t, taxable.Equal(tt.expected),
				"expected %s, got %s", tt.expected.StringFixed(2), taxable.StringFixed(2))
		})
	}
}

func TestProvisionalIncome(t *testing.T) {
	calculator := NewSSTaxCalculator()

	provisional := calculator.ProvisionalIncome(decimal.NewFromInt(30000), decimal.NewFromInt(20000))
	assert.True(t, provisional.Equal(decimal.NewFromInt(40000)),
		"expected other income plus half of benefits, got %s", provisional)
}

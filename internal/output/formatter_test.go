package output

import (
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsim/retirement-simulator/internal/calculation"
	"github.com/finsim/retirement-simulator/internal/domain"
)

func sampleReport() *Report {
	return &Report{
		Single: &domain.SimulationResult{
			Seed: 42,
			Years: []domain.YearRecord{
				{
					YearIndex: 0,
					Age:       35,
					Phase:     domain.PhaseWorking,
					Nominal: domain.BucketBalances{
						Taxable: decimal.NewFromInt(107000),
						PreTax:  decimal.NewFromInt(10700),
					},
					Real:            domain.BucketBalances{Taxable: decimal.NewFromInt(103883)},
					GrossIncome:     decimal.NewFromInt(60000),
					Contributions:   decimal.NewFromInt(10000),
					AfterTaxIncome:  decimal.NewFromInt(39000),
					InflationFactor: decimal.NewFromFloat(1.03),
				},
				{
					YearIndex: 1,
					Age:       36,
					Phase:     domain.PhaseWorking,
				},
			},
			BalanceAtRetirement:     decimal.NewFromInt(1700000),
			EndOfLifeRealWealth:     decimal.NewFromInt(800000),
			FirstYearAfterTaxIncome: decimal.NewFromInt(39000),
			DepletionYearIndex:      -1,
			YearsToIndependence:     23,
		},
	}
}

func TestConsoleFormatterSingleTrial(t *testing.T) {
	data, err := ConsoleFormatter{}.Format(sampleReport())
	require.NoError(t, err)

	text := string(data)
	assert.Contains(t, text, "HOUSEHOLD TRAJECTORY SUMMARY")
	assert.Contains(t, text, "Seed: 42")
	assert.Contains(t, text, "Final year: age 36, nominal balance $0.00")
	assert.Contains(t, text, "Balance at retirement: $1700000.00")
	assert.Contains(t, text, "Portfolio lasted the full horizon")
	assert.Contains(t, text, "Financial independence: year 23")
}

func TestConsoleFormatterRuinedTrial(t *testing.T) {
	report := sampleReport()
	report.Single.Ruined = true
	report.Single.DepletionYearIndex = 40
	report.Single.YearsSurvived = 10
	report.Single.YearsToIndependence = domain.YearsUnreachable

	data, err := ConsoleFormatter{}.Format(report)
	require.NoError(t, err)

	text := string(data)
	assert.Contains(t, text, "Portfolio depleted in year 40")
	assert.Contains(t, text, "not reachable")
}

func TestConsoleFormatterMonteCarlo(t *testing.T) {
	report := &Report{
		MonteCarlo: &calculation.MonteCarloResult{
			BatchID:         "batch-1",
			NumTrials:       100,
			BaseSeed:        42,
			Elapsed:         250 * time.Millisecond,
			RuinProbability: decimal.NewFromFloat(0.08),
			SuccessRate:     decimal.NewFromFloat(0.92),
			Wealth: []calculation.PercentileBand{
				{Percentile: 10, Value: decimal.NewFromInt(100000)},
				{Percentile: 50, Value: decimal.NewFromInt(600000)},
				{Percentile: 90, Value: decimal.NewFromInt(2000000)},
			},
			MeanDepletionYear: -1,
		},
	}

	data, err := ConsoleFormatter{}.Format(report)
	require.NoError(t, err)

	text := string(data)
	assert.Contains(t, text, "MONTE CARLO SUMMARY")
	assert.Contains(t, text, "Ruin probability: 8.0%")
	assert.Contains(t, text, "P50")
}

func TestJSONFormatterRoundTrips(t *testing.T) {
	data, err := JSONFormatter{}.Format(sampleReport())
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Contains(t, decoded, "single")
}

func TestCSVYearExporter(t *testing.T) {
	data, err := CSVYearExporter{}.Format(sampleReport())
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	require.NoError(t, err)

	// Header plus one row per simulated year.
	require.Len(t, records, 3)
	assert.Equal(t, "YearIndex", records[0][0])
	assert.Equal(t, "35", records[1][1])
	assert.Equal(t, "working", records[1][2])
}

func TestCSVRequiresSingleTrial(t *testing.T) {
	_, err := CSVYearExporter{}.Format(&Report{})
	require.Error(t, err)
}

func TestFormatterRegistry(t *testing.T) {
	assert.NotNil(t, GetFormatterByName("console"))
	assert.NotNil(t, GetFormatterByName("JSON"))
	assert.NotNil(t, GetFormatterByName("csv-years"), "aliases resolve")
	assert.Nil(t, GetFormatterByName("xml"))

	assert.Equal(t, []string{"console", "csv", "json"}, AvailableFormatterNames())
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "$1234.50", FormatCurrency(decimal.NewFromFloat(1234.5)))
	assert.Equal(t, "8.0%", FormatPercent(decimal.NewFromFloat(0.08)))
}

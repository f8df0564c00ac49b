package output

import (
	"bytes"
	"fmt"
	"time"

	"github.com/finsim/retirement-simulator/internal/domain"
)

// ConsoleFormatter renders a concise human-readable summary.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(report *Report) ([]byte, error) {
	var buf bytes.Buffer

	if report.Single != nil {
		c.writeSingle(&buf, report.Single)
	}
	if report.MonteCarlo != nil {
		if report.Single != nil {
			fmt.Fprintln(&buf)
		}
		c.writeMonteCarlo(&buf, report)
	}
	if report.Single == nil && report.MonteCarlo == nil {
		fmt.Fprintln(&buf, "(no results)")
	}

	return buf.Bytes(), nil
}

func (c ConsoleFormatter) writeSingle(buf *bytes.Buffer, res *domain.SimulationResult) {
	fmt.Fprintln(buf, "HOUSEHOLD TRAJECTORY SUMMARY")
	fmt.Fprintln(buf, "================================")
	if res.Failed {
		fmt.Fprintf(buf, "Trial failed: %s\n", res.FailureReason)
		return
	}

	fmt.Fprintf(buf, "Seed: %d\n", res.Seed)
	fmt.Fprintf(buf, "Years simulated: %d\n", len(res.Years))
	if final := res.FinalRecord(); final != nil {
		fmt.Fprintf(buf, "Final year: age %d, nominal balance %s\n",
			final.Age, FormatCurrency(final.Nominal.Total()))
	}
	fmt.Fprintf(buf, "Balance at retirement: %s\n", FormatCurrency(res.BalanceAtRetirement))
	fmt.Fprintf(buf, "End-of-life real wealth: %s\n", FormatCurrency(res.EndOfLifeRealWealth))
	fmt.Fprintf(buf, "First-year after-tax income: %s\n", FormatCurrency(res.FirstYearAfterTaxIncome))

	if res.Ruined {
		fmt.Fprintf(buf, "Portfolio depleted in year %d (%d years into retirement)\n",
			res.DepletionYearIndex, res.YearsSurvived)
	} else {
		fmt.Fprintln(buf, "Portfolio lasted the full horizon")
	}

	if res.YearsToIndependence == domain.YearsUnreachable {
		fmt.Fprintln(buf, "Financial independence: not reachable on current savings")
	} else {
		fmt.Fprintf(buf, "Financial independence: year %d\n", res.YearsToIndependence)
	}
}

func (c ConsoleFormatter) writeMonteCarlo(buf *bytes.Buffer, report *Report) {
	mc := report.MonteCarlo
	fmt.Fprintln(buf, "MONTE CARLO SUMMARY")
	fmt.Fprintln(buf, "================================")
	fmt.Fprintf(buf, "Batch: %s (%d trials, base seed %d, %s)\n",
		mc.BatchID, mc.NumTrials, mc.BaseSeed, mc.Elapsed.Round(time.Millisecond))
	fmt.Fprintf(buf, "Success rate: %s  Ruin probability: %s\n",
		FormatPercent(mc.SuccessRate), FormatPercent(mc.RuinProbability))
	if mc.FailedTrials > 0 {
		fmt.Fprintf(buf, "Failed trials (excluded from statistics): %d\n", mc.FailedTrials)
	}
	if mc.MeanDepletionYear >= 0 {
		fmt.Fprintf(buf, "Mean depletion year among ruined trials: %d\n", mc.MeanDepletionYear)
	}
	fmt.Fprintf(buf, "Median balance at retirement: %s\n", FormatCurrency(mc.MedianBalanceAtRetirement))
	fmt.Fprintln(buf)
	fmt.Fprintln(buf, "End-of-life real wealth percentiles:")
	for _, band := range mc.Wealth {
		fmt.Fprintf(buf, "  P%-3d %s\n", band.Percentile, FormatCurrency(band.Value))
	}
}

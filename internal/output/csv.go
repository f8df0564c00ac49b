package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
)

// CSVYearExporter writes one row per simulated year of the single-trial
// result, nominal and real balances side by side.
type CSVYearExporter struct{}

func (c CSVYearExporter) Name() string { return "csv" }

func (c CSVYearExporter) Format(report *Report) ([]byte, error) {
	if report.Single == nil {
		return nil, fmt.Errorf("csv formatter requires a single-trial result")
	}

	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{
		"YearIndex", "Age", "Phase",
		"TaxableNominal", "PreTaxNominal", "RothNominal", "TotalNominal", "TotalReal",
		"GrossIncome", "SSBenefit", "Contributions", "Withdrawal", "RMDAmount",
		"TaxOrdinary", "TaxFICA", "TaxRMD", "AfterTaxIncome", "Ruined",
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, y := range report.Single.Years {
		row := []string{
			strconv.Itoa(y.YearIndex),
			strconv.Itoa(y.Age),
			string(y.Phase),
			y.Nominal.Taxable.StringFixed(2),
			y.Nominal.PreTax.StringFixed(2),
			y.Nominal.Roth.StringFixed(2),
			y.Nominal.Total().StringFixed(2),
			y.Real.Total().StringFixed(2),
			y.GrossIncome.StringFixed(2),
			y.SSBenefit.StringFixed(2),
			y.Contributions.StringFixed(2),
			y.Withdrawal.StringFixed(2),
			y.RMDAmount.StringFixed(2),
			y.TaxOrdinary.StringFixed(2),
			y.TaxFICA.StringFixed(2),
			y.TaxRMD.StringFixed(2),
			y.AfterTaxIncome.StringFixed(2),
			strconv.FormatBool(y.Ruined),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

package domain

import (
	"github.com/shopspring/decimal"
)

// Phase is the age-driven lifecycle stage a simulated year belongs to.
// Transitions are one-directional: working -> early_retirement -> rmd ->
// terminal, with no re-entry.
type Phase string

const (
	PhaseWorking         Phase = "working"
	PhaseEarlyRetirement Phase = "early_retirement"
	PhaseRMD             Phase = "rmd"
	PhaseTerminal        Phase = "terminal"
)

// Accumulating reports whether contributions flow into the ledger during
// this phase.
func (p Phase) Accumulating() bool {
	return p == PhaseWorking
}

// Decumulating reports whether portfolio withdrawals occur during this
// phase. The terminal phase models the estate: growth continues but no
// cash flows in or out.
func (p Phase) Decumulating() bool {
	return p == PhaseEarlyRetirement || p == PhaseRMD
}

// YearsUnreachable is the sentinel for a financial-independence horizon
// that can never be reached (for example a 0% savings rate). It is a
// defined outcome, never an error or a NaN.
const YearsUnreachable = -1

// BucketBalances is a per-bucket snapshot of the three account balances.
type BucketBalances struct {
	Taxable decimal.Decimal `json:"taxable"`
	PreTax  decimal.Decimal `json:"pretax"`
	Roth    decimal.Decimal `json:"roth"`
}

// Total returns the sum across all three buckets.
func (b BucketBalances) Total() decimal.Decimal {
	return b.Taxable.Add(b.PreTax).Add(b.Roth)
}

// YearRecord captures everything the engine computed for one simulated
// year. Balances are end-of-year; every monetary figure carries both a
// nominal and an inflation-deflated real form.
type YearRecord struct {
	YearIndex int   `json:"year_index"`
	Age       int   `json:"age"`
	SpouseAge int   `json:"spouse_age,omitempty"`
	Phase     Phase `json:"phase"`

	Nominal BucketBalances `json:"nominal"`
	Real    BucketBalances `json:"real"`

	GrossIncome     decimal.Decimal `json:"gross_income"`
	SSBenefit       decimal.Decimal `json:"ss_benefit"`
	Contributions   decimal.Decimal `json:"contributions"`
	Withdrawal      decimal.Decimal `json:"withdrawal"`
	RMDAmount       decimal.Decimal `json:"rmd_amount"`
	TaxOrdinary     decimal.Decimal `json:"tax_ordinary"`
	TaxFICA         decimal.Decimal `json:"tax_fica"`
	TaxRMD          decimal.Decimal `json:"tax_rmd"`
	AfterTaxIncome  decimal.Decimal `json:"after_tax_income"`
	InflationFactor decimal.Decimal `json:"inflation_factor"`
	Ruined          bool            `json:"ruined"`
}

// SimulationResult is the complete output of one trial. Once returned it
// is immutable: callers derive reported numbers from it without mutating
// it, and the engine retains no reference.
type SimulationResult struct {
	Seed  int64        `json:"seed"`
	Years []YearRecord `json:"years"`

	// Summary scalars.
	BalanceAtRetirement     decimal.Decimal `json:"balance_at_retirement"`
	EndOfLifeRealWealth     decimal.Decimal `json:"end_of_life_real_wealth"`
	FirstYearAfterTaxIncome decimal.Decimal `json:"first_year_after_tax_income"`

	// YearsSurvived counts decumulation years completed before depletion;
	// zero means the portfolio never depleted.
	YearsSurvived int  `json:"years_survived"`
	Ruined        bool `json:"ruined"`

	// DepletionYearIndex is the year index at which ruin occurred, or -1.
	DepletionYearIndex int `json:"depletion_year_index"`

	// YearsToIndependence is the number of working years until invested
	// assets first cover 25x annual spending, or YearsUnreachable.
	YearsToIndependence int `json:"years_to_independence"`

	// Failed marks a trial whose computation hit an internal defect. The
	// series is zeroed and the trial is skipped during batch aggregation.
	Failed        bool   `json:"failed"`
	FailureReason string `json:"failure_reason,omitempty"`
}

// FinalRecord returns the last year record, or nil for an empty series.
func (r *SimulationResult) FinalRecord() *YearRecord {
	if len(r.Years) == 0 {
		return nil
	}
	return &r.Years[len(r.Years)-1]
}

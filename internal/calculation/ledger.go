package calculation

import (
	"github.com/shopspring/decimal"

	"github.com/finsim/retirement-simulator/internal/domain"
)

// ContributionSet is one year's inflows per bucket. EmployerMatch lands in
// the pre-tax bucket.
type ContributionSet struct {
	Taxable       decimal.Decimal
	PreTax        decimal.Decimal
	Roth          decimal.Decimal
	EmployerMatch decimal.Decimal
}

// Total returns all inflows including the employer match.
func (c ContributionSet) Total() decimal.Decimal {
	return c.Taxable.Add(c.PreTax).Add(c.Roth).Add(c.EmployerMatch)
}

// WithdrawalOutcome reports how one year's withdrawal was satisfied across
// buckets.
type WithdrawalOutcome struct {
	FromTaxable decimal.Decimal
	FromRoth    decimal.Decimal
	FromPreTax  decimal.Decimal

	// RMDForced is the part of the pre-tax outflow mandated by the RMD
	// beyond what priority ordering would have taken anyway.
	RMDForced decimal.Decimal

	// Shortfall is how much of the request could not be met. A positive
	// shortfall means the ledger is now ruined.
	Shortfall decimal.Decimal
}

// Total returns the amount actually withdrawn.
func (w WithdrawalOutcome) Total() decimal.Decimal {
	return w.FromTaxable.Add(w.FromRoth).Add(w.FromPreTax)
}

// AccountLedger holds the household's three balances and the running
// inflation factor for one trial. Balances never go negative; once the
// ledger is ruined every bucket stays at zero.
type AccountLedger struct {
	Taxable decimal.Decimal
	PreTax  decimal.Decimal
	Roth    decimal.Decimal

	// InflationFactor compounds once per year; real = nominal / factor.
	InflationFactor decimal.Decimal

	Ruined bool
}

// NewAccountLedger opens a ledger at the household's starting balances.
func NewAccountLedger(b domain.Balances) *AccountLedger {
	return &AccountLedger{
		Taxable:         b.Taxable,
		PreTax:          b.PreTax,
		Roth:            b.Roth,
		InflationFactor: decimal.NewFromInt(1),
	}
}

// Total is the sum of all three bucket balances.
func (l *AccountLedger) Total() decimal.Decimal {
	return l.Taxable.Add(l.PreTax).Add(l.Roth)
}

// ApplyContributions adds the year's inflows. Ruined ledgers accept
// nothing: the portfolio is gone and stays gone.
func (l *AccountLedger) ApplyContributions(c ContributionSet) {
	if l.Ruined {
		return
	}
	l.Taxable = l.Taxable.Add(c.Taxable)
	l.PreTax = l.PreTax.Add(c.PreTax).Add(c.EmployerMatch)
	l.Roth = l.Roth.Add(c.Roth)
}

// Grow applies one year's nominal return to all three buckets. A return
// below -100% clamps so balances cannot go negative through growth.
func (l *AccountLedger) Grow(rate decimal.Decimal) {
	if l.Ruined {
		return
	}
	factor := decimal.NewFromInt(1).Add(rate)
	if factor.LessThan(decimal.Zero) {
		factor = decimal.Zero
	}
	l.Taxable = l.Taxable.Mul(factor)
	l.PreTax = l.PreTax.Mul(factor)
	l.Roth = l.Roth.Mul(factor)
}

// AdvanceInflation compounds the trial's inflation path by one year.
func (l *AccountLedger) AdvanceInflation(rate decimal.Decimal) {
	l.InflationFactor = l.InflationFactor.Mul(decimal.NewFromInt(1).Add(rate))
}

// Real deflates a nominal figure to constant purchasing power using the
// ledger's inflation path.
func (l *AccountLedger) Real(nominal decimal.Decimal) decimal.Decimal {
	if l.InflationFactor.LessThanOrEqual(decimal.Zero) {
		return nominal
	}
	return nominal.Div(l.InflationFactor)
}

// Snapshot returns the current per-bucket balances in nominal terms.
func (l *AccountLedger) Snapshot() domain.BucketBalances {
	return domain.BucketBalances{Taxable: l.Taxable, PreTax: l.PreTax, Roth: l.Roth}
}

// RealSnapshot returns the current per-bucket balances deflated by the
// inflation path.
func (l *AccountLedger) RealSnapshot() domain.BucketBalances {
	return domain.BucketBalances{
		Taxable: l.Real(l.Taxable),
		PreTax:  l.Real(l.PreTax),
		Roth:    l.Real(l.Roth),
	}
}

// Withdraw satisfies a withdrawal request in priority order: taxable
// first, then Roth, then pre-tax. An RMD overrides priority: the mandated
// amount comes out of pre-tax before anything else, and counts toward the
// request. If the total request exceeds everything available, the ledger
// pays out what exists, records the shortfall, and transitions to ruin:
// all buckets zero now and forever.
func (l *AccountLedger) Withdraw(need, rmd decimal.Decimal) WithdrawalOutcome {
	var out WithdrawalOutcome
	if l.Ruined {
		out.Shortfall = need
		return out
	}
	if need.LessThan(decimal.Zero) {
		need = decimal.Zero
	}
	if rmd.LessThan(decimal.Zero) {
		rmd = decimal.Zero
	}

	// What priority ordering alone would have pulled from pre-tax; the
	// excess of the actual pre-tax outflow over this is RMD-forced.
	pretaxByPriority := decimal.Min(
		maxDecimal(need.Sub(l.Taxable).Sub(l.Roth), decimal.Zero),
		l.PreTax,
	)

	// The RMD comes out of pre-tax regardless of priority, capped at what
	// the bucket holds, and counts toward the request.
	rmdTaken := decimal.Min(rmd, l.PreTax)
	l.PreTax = l.PreTax.Sub(rmdTaken)
	out.FromPreTax = rmdTaken

	remaining := need.Sub(rmdTaken)
	if remaining.LessThan(decimal.Zero) {
		remaining = decimal.Zero
	}

	// Priority order for the rest of the request.
	take := decimal.Min(remaining, l.Taxable)
	l.Taxable = l.Taxable.Sub(take)
	out.FromTaxable = take
	remaining = remaining.Sub(take)

	take = decimal.Min(remaining, l.Roth)
	l.Roth = l.Roth.Sub(take)
	out.FromRoth = take
	remaining = remaining.Sub(take)

	take = decimal.Min(remaining, l.PreTax)
	l.PreTax = l.PreTax.Sub(take)
	out.FromPreTax = out.FromPreTax.Add(take)
	remaining = remaining.Sub(take)

	out.RMDForced = maxDecimal(out.FromPreTax.Sub(pretaxByPriority), decimal.Zero)

	if remaining.GreaterThan(decimal.Zero) {
		// Depleted mid-request: clamp, flag, zero everything.
		out.Shortfall = remaining
		l.ruin()
	}

	return out
}

// ruin zeroes every bucket and latches the ruined flag. There is no
// recovery path.
func (l *AccountLedger) ruin() {
	l.Taxable = decimal.Zero
	l.PreTax = decimal.Zero
	l.Roth = decimal.Zero
	l.Ruined = true
}

func maxDecimal(a, b decimal.Decimal) decimal.Decimal {
	if a.GreaterThan(b) {
		return a
	}
	return b
}

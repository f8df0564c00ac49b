package calculation

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/finsim/retirement-simulator/internal/domain"
	"github.com/finsim/retirement-simulator/pkg/agemath"
)

// fiMultiple is the financial-independence target: invested assets at 25x
// annual spending.
var fiMultiple = decimal.NewFromInt(25)

// SimulationEngine composes the tax engine, return generator, account
// ledger, and phase machine into full-horizon trials. It holds only
// immutable calculators plus a logger, so one engine is safe to share
// across concurrent trials.
type SimulationEngine struct {
	TaxCalc  *OrdinaryTaxCalculator
	FICACalc *FICACalculator
	SSTax    *SSTaxCalculator
	RMDCalc  *RMDCalculator
	Logger   Logger
}

// NewSimulationEngine builds an engine over the 2025 tax figures with a
// no-op logger.
func NewSimulationEngine() *SimulationEngine {
	return &SimulationEngine{
		TaxCalc:  NewOrdinaryTaxCalculator2025(),
		FICACalc: NewFICACalculator2025(),
		SSTax:    NewSSTaxCalculator(),
		RMDCalc:  NewRMDCalculator(),
		Logger:   NopLogger{},
	}
}

// SetLogger replaces the engine logger. A nil logger restores the no-op.
func (e *SimulationEngine) SetLogger(l Logger) {
	if l == nil {
		e.Logger = NopLogger{}
		return
	}
	e.Logger = l
}

// RunSingleTrial projects one household from its current age through life
// expectancy plus the inheritance tail. It is a pure function of
// (inputs, seed): the inputs record is normalized into a private copy and
// never mutated, and identical arguments always produce identical
// results. Any internal defect is contained here and surfaced as a failed
// sentinel result rather than a panic or a NaN.
func (e *SimulationEngine) RunSingleTrial(inputs domain.SimulationInputs, seed int64) (result *domain.SimulationResult) {
	in := inputs.Normalize()

	defer func() {
		if r := recover(); r != nil {
			e.Logger.Errorf("trial with seed %d failed: %v", seed, r)
			result = &domain.SimulationResult{
				Seed:                seed,
				Failed:              true,
				FailureReason:       fmt.Sprintf("internal defect: %v", r),
				DepletionYearIndex:  -1,
				YearsToIndependence: domain.YearsUnreachable,
			}
		}
	}()

	gen := NewReturnGenerator(in, seed)
	ledger := NewAccountLedger(in.Balances)
	trial := newTrialState(e, in)

	horizon := in.HorizonYears()
	years := make([]domain.YearRecord, 0, horizon)

	for i := 0; i < horizon; i++ {
		age := in.CurrentAge() + i
		years = append(years, trial.simulateYear(i, age, ledger, gen.Next()))
	}

	return trial.buildResult(seed, years, ledger)
}

// trialState carries the mutable per-trial bookkeeping that spans years:
// the escalating withdrawal target, per-person Social Security
// calculators, and the depletion/retirement markers feeding the summary
// scalars.
type trialState struct {
	engine *SimulationEngine
	in     domain.SimulationInputs

	persons []domain.Person
	ssCalcs []*SocialSecurityCalculator

	withdrawalTarget    decimal.Decimal // zero until decumulation starts
	retirementYearIndex int
	depletionYearIndex  int
	balanceAtRetirement decimal.Decimal
	lastLivingRealTotal decimal.Decimal
	yearsToIndependence int
}

func newTrialState(e *SimulationEngine, in domain.SimulationInputs) *trialState {
	persons := in.Persons()
	ssCalcs := make([]*SocialSecurityCalculator, len(persons))
	for i, p := range persons {
		ssCalcs[i] = NewSocialSecurityCalculator(agemath.BirthYear(p.CurrentAge))
	}
	return &trialState{
		engine:              e,
		in:                  in,
		persons:             persons,
		ssCalcs:             ssCalcs,
		retirementYearIndex: -1,
		depletionYearIndex:  -1,
		yearsToIndependence: domain.YearsUnreachable,
	}
}

func (t *trialState) simulateYear(yearIndex, age int, ledger *AccountLedger, annualReturn decimal.Decimal) domain.YearRecord {
	phase := PhaseForAge(age, t.in)

	if age >= t.in.RetirementAge && t.retirementYearIndex < 0 {
		t.retirementYearIndex = yearIndex
		t.balanceAtRetirement = ledger.Total()
	}

	rec := domain.YearRecord{
		YearIndex: yearIndex,
		Age:       age,
		Phase:     phase,
	}
	if t.in.Spouse != nil {
		rec.SpouseAge = t.in.Spouse.CurrentAge + yearIndex
	}

	switch phase {
	case domain.PhaseWorking:
		t.workingYear(yearIndex, &rec, ledger, annualReturn)
	case domain.PhaseEarlyRetirement, domain.PhaseRMD:
		t.decumulationYear(yearIndex, age, phase, &rec, ledger, annualReturn)
	default:
		// Terminal: the estate keeps growing nominally while its real
		// value decays along the inflation path. No cash flows.
		ledger.Grow(annualReturn)
	}

	ledger.AdvanceInflation(t.in.Rates.Inflation)

	rec.Nominal = ledger.Snapshot()
	rec.Real = ledger.RealSnapshot()
	rec.InflationFactor = ledger.InflationFactor
	rec.Ruined = ledger.Ruined

	if phase != domain.PhaseTerminal {
		t.lastLivingRealTotal = rec.Real.Total()
	}
	return rec
}

// workingYear applies salary, payroll and income taxes, and contribution
// inflows, then grows the ledger.
func (t *trialState) workingYear(yearIndex int, rec *domain.YearRecord, ledger *AccountLedger, annualReturn decimal.Decimal) {
	growthFactor := t.incomeGrowthFactor(yearIndex)

	var gross decimal.Decimal
	var contrib ContributionSet
	for _, p := range t.persons {
		gross = gross.Add(p.AnnualIncome.Mul(growthFactor))

		escalation := decimal.NewFromInt(1)
		if t.in.Rates.EscalateContributions {
			escalation = growthFactor
		}
		contrib.Taxable = contrib.Taxable.Add(p.ContributionTaxable.Mul(escalation))
		contrib.PreTax = contrib.PreTax.Add(p.ContributionPreTax.Mul(escalation))
		contrib.Roth = contrib.Roth.Add(p.ContributionRoth.Mul(escalation))
		contrib.EmployerMatch = contrib.EmployerMatch.Add(p.EmployerMatch.Mul(escalation))
	}

	ordinary := t.applyStateMultiplier(t.engine.TaxCalc.Tax(gross, t.in.FilingStatus))

	var fica decimal.Decimal
	for _, p := range t.persons {
		wages := p.AnnualIncome.Mul(growthFactor)
		fica = fica.Add(t.engine.FICACalc.Tax(wages, gross, t.in.FilingStatus))
	}

	ownContrib := contrib.Taxable.Add(contrib.PreTax).Add(contrib.Roth)
	afterTax := gross.Sub(ordinary).Sub(fica).Sub(ownContrib)

	ledger.ApplyContributions(contrib)
	ledger.Grow(annualReturn)

	rec.GrossIncome = gross
	rec.Contributions = contrib.Total()
	rec.TaxOrdinary = ordinary
	rec.TaxFICA = fica
	rec.AfterTaxIncome = afterTax

	t.checkIndependence(yearIndex, ledger, ownContrib, afterTax)
}

// decumulationYear grows the ledger, then pulls the withdrawal target
// (plus any RMD override) and settles retirement-income taxes.
func (t *trialState) decumulationYear(yearIndex, age int, phase domain.Phase, rec *domain.YearRecord, ledger *AccountLedger, annualReturn decimal.Decimal) {
	// RMDs key off the balance carried into the year.
	var rmd decimal.Decimal
	if phase == domain.PhaseRMD {
		rmd = t.engine.RMDCalc.Distribution(ledger.PreTax, age)
	}

	ledger.Grow(annualReturn)

	if t.withdrawalTarget.IsZero() {
		t.withdrawalTarget = ledger.Total().Mul(t.in.Rates.WithdrawalRate)
	} else {
		t.withdrawalTarget = t.withdrawalTarget.Mul(decimal.NewFromInt(1).Add(t.in.Rates.Inflation))
	}

	ssBenefit := t.socialSecurityFor(yearIndex)

	outcome := ledger.Withdraw(t.withdrawalTarget, rmd)
	if outcome.Shortfall.GreaterThan(decimal.Zero) && t.depletionYearIndex < 0 {
		t.depletionYearIndex = yearIndex
		t.engine.Logger.Debugf("portfolio depleted at age %d (year %d)", age, yearIndex)
	}

	// Pre-tax withdrawals and the taxable share of SS are ordinary income;
	// taxable-bucket and Roth withdrawals are not re-taxed here.
	provisional := t.engine.SSTax.ProvisionalIncome(outcome.FromPreTax, ssBenefit)
	taxableSS := t.engine.SSTax.TaxablePortion(ssBenefit, provisional, t.in.FilingStatus)
	taxableIncome := outcome.FromPreTax.Add(taxableSS)

	fullTax := t.applyStateMultiplier(t.engine.TaxCalc.Tax(taxableIncome, t.in.FilingStatus))
	baseTax := t.applyStateMultiplier(t.engine.TaxCalc.Tax(taxableIncome.Sub(outcome.RMDForced), t.in.FilingStatus))
	rmdTax := fullTax.Sub(baseTax)

	rec.GrossIncome = ssBenefit.Add(outcome.Total())
	rec.SSBenefit = ssBenefit
	rec.Withdrawal = outcome.Total()
	rec.RMDAmount = rmd
	rec.TaxOrdinary = baseTax
	rec.TaxRMD = rmdTax
	rec.AfterTaxIncome = ssBenefit.Add(outcome.Total()).Sub(fullTax)
}

// socialSecurityFor totals the household's benefits in payment for a
// year, COLA-escalated along the inflation path since each claim.
func (t *trialState) socialSecurityFor(yearIndex int) decimal.Decimal {
	var total decimal.Decimal
	for i, p := range t.persons {
		if !p.IncludeSocialSecurity {
			continue
		}
		personAge := p.CurrentAge + yearIndex
		if personAge < p.SSClaimAge {
			continue
		}
		benefit := t.ssCalcs[i].AnnualBenefit(p.AnnualIncome, p.SSClaimAge)
		for y := 0; y < personAge-p.SSClaimAge; y++ {
			benefit = ApplyCOLA(benefit, t.in.Rates.Inflation)
		}
		total = total.Add(benefit)
	}
	return total
}

// checkIndependence resolves the years-to-FI scalar: the first working
// year whose end-of-year assets cover 25x that year's spending. A
// household saving nothing can never reach it.
func (t *trialState) checkIndependence(yearIndex int, ledger *AccountLedger, ownContrib, afterTax decimal.Decimal) {
	if t.yearsToIndependence != domain.YearsUnreachable {
		return
	}
	if ownContrib.LessThanOrEqual(decimal.Zero) || afterTax.LessThanOrEqual(decimal.Zero) {
		return
	}
	if ledger.Total().GreaterThanOrEqual(afterTax.Mul(fiMultiple)) {
		t.yearsToIndependence = yearIndex + 1
	}
}

func (t *trialState) incomeGrowthFactor(yearIndex int) decimal.Decimal {
	one := decimal.NewFromInt(1)
	if t.in.Rates.IncomeGrowthRate.IsZero() || yearIndex == 0 {
		return one
	}
	return one.Add(t.in.Rates.IncomeGrowthRate).Pow(decimal.NewFromInt(int64(yearIndex)))
}

func (t *trialState) applyStateMultiplier(federal decimal.Decimal) decimal.Decimal {
	return federal.Mul(decimal.NewFromInt(1).Add(t.in.Rates.StateTaxMultiplier))
}

// buildResult assembles the immutable result record and its summary
// scalars from the completed year series.
func (t *trialState) buildResult(seed int64, years []domain.YearRecord, ledger *AccountLedger) *domain.SimulationResult {
	res := &domain.SimulationResult{
		Seed:                seed,
		Years:               years,
		BalanceAtRetirement: t.balanceAtRetirement,
		EndOfLifeRealWealth: t.lastLivingRealTotal,
		Ruined:              ledger.Ruined,
		DepletionYearIndex:  t.depletionYearIndex,
		YearsToIndependence: t.yearsToIndependence,
	}
	if len(years) > 0 {
		res.FirstYearAfterTaxIncome = years[0].AfterTaxIncome
	}
	if t.retirementYearIndex < 0 {
		// Horizon ended before retirement age; retirement balance is the
		// final balance.
		res.BalanceAtRetirement = ledger.Total()
	}
	if res.Ruined && t.depletionYearIndex >= 0 && t.retirementYearIndex >= 0 {
		res.YearsSurvived = t.depletionYearIndex - t.retirementYearIndex
	}
	return res
}

package calculation

import (
	"math"
	"math/rand"

	"github.com/shopspring/decimal"

	"github.com/finsim/retirement-simulator/internal/domain"
)

// ReturnSeries is a named mean/volatility pair a random-walk generator
// draws from.
type ReturnSeries struct {
	Name   string
	Mean   decimal.Decimal
	StdDev decimal.Decimal
}

// returnSeriesCatalog holds the built-in series. Immutable package data;
// unknown names fall back to the inputs' fixed nominal return with default
// volatility.
var returnSeriesCatalog = map[string]ReturnSeries{
	"sp500": {
		Name:   "sp500",
		Mean:   decimal.NewFromFloat(0.1050),
		StdDev: decimal.NewFromFloat(0.1750),
	},
	"balanced": {
		Name:   "balanced",
		Mean:   decimal.NewFromFloat(0.0700),
		StdDev: decimal.NewFromFloat(0.1100),
	},
	"conservative": {
		Name:   "conservative",
		Mean:   decimal.NewFromFloat(0.0500),
		StdDev: decimal.NewFromFloat(0.0550),
	},
}

// defaultReturnStdDev applies when a random-walk run names no known series.
var defaultReturnStdDev = decimal.NewFromFloat(0.15)

// LookupReturnSeries resolves a series name, reporting whether it exists.
func LookupReturnSeries(name string) (ReturnSeries, bool) {
	s, ok := returnSeriesCatalog[name]
	return s, ok
}

// ReturnGenerator produces one annual nominal return per simulated year.
// Implementations are deterministic per (inputs, seed): Reset rewinds the
// sequence to its start.
type ReturnGenerator interface {
	Next() decimal.Decimal
	Reset()
}

// FixedReturns yields the same nominal return every year, independent of
// the seed.
type FixedReturns struct {
	Rate decimal.Decimal
}

func (f *FixedReturns) Next() decimal.Decimal { return f.Rate }
func (f *FixedReturns) Reset()                {}

// RandomWalkReturns draws one normal return per year around the series
// mean, from a source owned by this generator so that trials never share
// random state.
type RandomWalkReturns struct {
	seed   int64
	mean   decimal.Decimal
	stdDev decimal.Decimal
	rng    *rand.Rand
}

// NewRandomWalkReturns builds a seeded generator over a mean/volatility
// pair.
func NewRandomWalkReturns(seed int64, mean, stdDev decimal.Decimal) *RandomWalkReturns {
	g := &RandomWalkReturns{seed: seed, mean: mean, stdDev: stdDev}
	g.Reset()
	return g
}

// Next draws the next annual return. Draws are capped at three standard
// deviations and floored at -95% so a single year can never zero or flip
// the portfolio on its own.
func (g *RandomWalkReturns) Next() decimal.Decimal {
	z := boxMuller(g.rng)
	draw := g.mean.Add(decimal.NewFromFloat(z).Mul(g.stdDev))

	cap3 := g.stdDev.Mul(decimal.NewFromInt(3))
	draw = decimal.Min(draw, g.mean.Add(cap3))
	draw = decimal.Max(draw, g.mean.Sub(cap3))

	floor := decimal.NewFromFloat(-0.95)
	return decimal.Max(draw, floor)
}

// Reset rewinds the generator so an identical seed replays an identical
// sequence.
func (g *RandomWalkReturns) Reset() {
	g.rng = rand.New(rand.NewSource(g.seed))
}

// boxMuller converts two uniform draws into one standard normal draw.
func boxMuller(rng *rand.Rand) float64 {
	u1 := rng.Float64()
	u2 := rng.Float64()
	if u1 <= 0 {
		u1 = math.SmallestNonzeroFloat64
	}
	return math.Sqrt(-2.0*math.Log(u1)) * math.Cos(2.0*math.Pi*u2)
}

// NewReturnGenerator builds the generator the inputs' return mode asks
// for. Fixed mode ignores the seed entirely.
func NewReturnGenerator(in domain.SimulationInputs, seed int64) ReturnGenerator {
	switch in.ReturnMode {
	case domain.ReturnModeRandomWalk:
		if series, ok := LookupReturnSeries(in.ReturnSeries); ok {
			return NewRandomWalkReturns(seed, series.Mean, series.StdDev)
		}
		return NewRandomWalkReturns(seed, in.Rates.NominalReturn, defaultReturnStdDev)
	default:
		return &FixedReturns{Rate: in.Rates.NominalReturn}
	}
}

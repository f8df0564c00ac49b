package calculation

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finsim/retirement-simulator/internal/domain"
)

// DefaultMaxParallel caps concurrent trials when the caller does not
// choose a limit.
const DefaultMaxParallel = 10

// MonteCarloConfig controls a batch run. Trial i runs with seed
// BaseSeed+i, so a batch is reproducible from (inputs, BaseSeed,
// NumTrials) alone.
type MonteCarloConfig struct {
	NumTrials   int   `yaml:"num_trials" json:"num_trials"`
	BaseSeed    int64 `yaml:"base_seed" json:"base_seed"`
	MaxParallel int   `yaml:"max_parallel" json:"max_parallel"`
}

func (c MonteCarloConfig) normalize() MonteCarloConfig {
	if c.NumTrials <= 0 {
		c.NumTrials = 1000
	}
	if c.BaseSeed == 0 {
		c.BaseSeed = domain.DefaultSeed
	}
	if c.MaxParallel <= 0 {
		c.MaxParallel = DefaultMaxParallel
	}
	return c
}

// PercentileBand is one point of the end-of-life real wealth distribution.
type PercentileBand struct {
	Percentile int             `json:"percentile"`
	Value      decimal.Decimal `json:"value"`
}

// MonteCarloResult aggregates a batch of trials. Trials that failed
// internally are counted but excluded from every distribution statistic.
type MonteCarloResult struct {
	BatchID   string        `json:"batch_id"`
	NumTrials int           `json:"num_trials"`
	BaseSeed  int64         `json:"base_seed"`
	Elapsed   time.Duration `json:"elapsed"`

	Trials []*domain.SimulationResult `json:"-"`

	FailedTrials int `json:"failed_trials"`
	RuinedTrials int `json:"ruined_trials"`

	// RuinProbability is ruined trials over completed trials.
	RuinProbability decimal.Decimal `json:"ruin_probability"`
	SuccessRate     decimal.Decimal `json:"success_rate"`

	// Wealth is the end-of-life real wealth distribution at the
	// 10th/25th/50th/75th/90th percentiles.
	Wealth []PercentileBand `json:"wealth_percentiles"`

	MedianBalanceAtRetirement decimal.Decimal `json:"median_balance_at_retirement"`

	// MeanDepletionYear averages the depletion year index over ruined
	// trials only; -1 when no trial was ruined.
	MeanDepletionYear int `json:"mean_depletion_year"`
}

var wealthPercentiles = []int{10, 25, 50, 75, 90}

// MonteCarloDriver fans trials out across a bounded worker set and folds
// the per-trial results into distribution statistics.
type MonteCarloDriver struct {
	Engine *SimulationEngine
	Logger Logger
}

// NewMonteCarloDriver wraps an engine; a nil engine gets the 2025 default.
func NewMonteCarloDriver(engine *SimulationEngine) *MonteCarloDriver {
	if engine == nil {
		engine = NewSimulationEngine()
	}
	return &MonteCarloDriver{Engine: engine, Logger: NopLogger{}}
}

// SetLogger replaces the driver logger. A nil logger restores the no-op.
func (d *MonteCarloDriver) SetLogger(l Logger) {
	if l == nil {
		d.Logger = NopLogger{}
		return
	}
	d.Logger = l
}

// Run executes cfg.NumTrials independent trials of the same inputs and
// aggregates them. Cancellation is coarse: a trial already running is
// allowed to finish, but no new trial starts once ctx is done.
func (d *MonteCarloDriver) Run(ctx context.Context, inputs domain.SimulationInputs, cfg MonteCarloConfig) (*MonteCarloResult, error) {
	cfg = cfg.normalize()
	in := inputs.Normalize()

	batchID := uuid.New().String()
	start := time.Now()
	d.Logger.Infof("monte carlo batch %s: %d trials, base seed %d, parallelism %d",
		batchID, cfg.NumTrials, cfg.BaseSeed, cfg.MaxParallel)

	trials := make([]*domain.SimulationResult, cfg.NumTrials)

	var wg sync.WaitGroup
	sem := make(chan struct{}, cfg.MaxParallel)

	launched := 0
	for i := 0; i < cfg.NumTrials; i++ {
		// Check cancellation before racing it against a free worker slot.
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return nil, fmt.Errorf("monte carlo batch %s cancelled after %d of %d trials: %w",
				batchID, launched, cfg.NumTrials, err)
		}
		select {
		case <-ctx.Done():
			wg.Wait()
			return nil, fmt.Errorf("monte carlo batch %s cancelled after %d of %d trials: %w",
				batchID, launched, cfg.NumTrials, ctx.Err())
		case sem <- struct{}{}:
		}

		wg.Add(1)
		launched++
		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()
			trials[idx] = d.Engine.RunSingleTrial(in, cfg.BaseSeed+int64(idx))
		}(i)
	}
	wg.Wait()

	res := d.aggregate(trials)
	res.BatchID = batchID
	res.NumTrials = cfg.NumTrials
	res.BaseSeed = cfg.BaseSeed
	res.Elapsed = time.Since(start)

	d.Logger.Infof("monte carlo batch %s done in %s: ruin probability %s, %d failed trials",
		batchID, res.Elapsed, res.RuinProbability.StringFixed(4), res.FailedTrials)
	return res, nil
}

func (d *MonteCarloDriver) aggregate(trials []*domain.SimulationResult) *MonteCarloResult {
	res := &MonteCarloResult{
		Trials:            trials,
		MeanDepletionYear: -1,
	}

	wealth := make([]decimal.Decimal, 0, len(trials))
	retirementBalances := make([]decimal.Decimal, 0, len(trials))
	depletionSum := 0

	for _, tr := range trials {
		if tr == nil || tr.Failed {
			res.FailedTrials++
			if tr != nil && tr.FailureReason != "" {
				d.Logger.Warnf("trial seed %d failed: %s", tr.Seed, tr.FailureReason)
			}
			continue
		}
		wealth = append(wealth, tr.EndOfLifeRealWealth)
		retirementBalances = append(retirementBalances, tr.BalanceAtRetirement)
		if tr.Ruined {
			res.RuinedTrials++
			depletionSum += tr.DepletionYearIndex
		}
	}

	completed := len(wealth)
	if completed == 0 {
		return res
	}

	n := decimal.NewFromInt(int64(completed))
	res.RuinProbability = decimal.NewFromInt(int64(res.RuinedTrials)).Div(n)
	res.SuccessRate = decimal.NewFromInt(1).Sub(res.RuinProbability)
	if res.RuinedTrials > 0 {
		res.MeanDepletionYear = depletionSum / res.RuinedTrials
	}

	sortDecimals(wealth)
	sortDecimals(retirementBalances)

	for _, p := range wealthPercentiles {
		res.Wealth = append(res.Wealth, PercentileBand{
			Percentile: p,
			Value:      percentileOf(wealth, p),
		})
	}
	res.MedianBalanceAtRetirement = percentileOf(retirementBalances, 50)

	return res
}

func sortDecimals(values []decimal.Decimal) {
	sort.Slice(values, func(i, j int) bool { return values[i].LessThan(values[j]) })
}

// percentileOf reads the nearest-rank percentile from an ascending slice.
func percentileOf(sorted []decimal.Decimal, p int) decimal.Decimal {
	if len(sorted) == 0 {
		return decimal.Zero
	}
	idx := (p * len(sorted)) / 100
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

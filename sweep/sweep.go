package sweep

import (
	"context"
	"fmt"
	"runtime"

	"asyncsim"
	"asyncsim/config"
	"asyncsim/logging"
	"asyncsim/simulator"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"
)

// The outcome of the simulation with a single seed
type Result struct {
	Seed   int64
	Report simulator.FinalReport
	Err    error
}

// Summary statistics of a quantity over the runs of a sweep
type Aggregate struct {
	N      int     `json:"n"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stdDev"`
	Median float64 `json:"median"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

func aggregate(values []float64) Aggregate {
	if len(values) == 0 {
		return Aggregate{}
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	mean, std := stat.MeanStdDev(sorted, nil)
	if len(sorted) < 2 {
		std = 0
	}
	return Aggregate{
		N:      len(sorted),
		Mean:   mean,
		StdDev: std,
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
	}
}

// The summary of a sweep
type Summary struct {
	Runs   int `json:"runs"`
	Failed int `json:"failed"`
	// Number of runs per final state
	States map[string]int `json:"states"`

	Steps     Aggregate `json:"steps"`
	MeanDelay Aggregate `json:"meanDelay"`
	Faults    Aggregate `json:"faults"`
	// Only runs that became strongly connected are included
	StronglyConnectedAt Aggregate `json:"stronglyConnectedAt"`

	// Runs in which every alive process decided the same value, by decided value
	Unanimous map[int]int `json:"unanimous"`
	// Runs in which all checked properties held
	PropertiesHeld int `json:"propertiesHeld"`
}

// Return n consecutive seeds starting with first
func Seeds(first int64, n int) []int64 {
	seeds := make([]int64, n)
	for i := range seeds {
		seeds[i] = first + int64(i)
	}
	return seeds
}

// Run the configured simulation once for every seed.
//
// At most parallel simulations run at the same time, GOMAXPROCS if parallel is not positive.
// Every simulation has its own network and random source, so the results do not depend on the parallelism.
// The results are returned in the order of the seeds.
// If some of the runs failed an error aggregating their errors is returned together with all results.
func Run(ctx context.Context, cfg config.Config, seeds []int64, parallel int, logger logging.LoggerI) ([]Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if parallel <= 0 {
		parallel = runtime.GOMAXPROCS(0)
	}
	if logger == nil {
		logger = logging.NewNullLogger()
	}

	results := make([]Result, len(seeds))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	for i, seed := range seeds {
		i, seed := i, seed
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i] = Result{Seed: seed, Err: err}
				return nil
			}
			c := cfg
			c.Seed = seed
			report, err := asyncsim.Run(gctx, c)
			results[i] = Result{Seed: seed, Report: report, Err: err}
			if err != nil {
				logger.Warnf("Run with seed %v failed: %v", seed, err)
			} else {
				logger.Debugf("Run with seed %v: %v after %v steps", seed, report.State, report.Steps)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}

	errorSlice := []error{}
	for _, r := range results {
		if r.Err != nil {
			errorSlice = append(errorSlice, fmt.Errorf("seed %v: %w", r.Seed, r.Err))
		}
	}
	if len(errorSlice) > 0 {
		return results, sweepError{errorSlice: errorSlice}
	}
	return results, nil
}

// Summarize the results of a sweep
func Summarize(results []Result) Summary {
	s := Summary{
		Runs:      len(results),
		States:    map[string]int{},
		Unanimous: map[int]int{},
	}
	var steps, delays, faults, connected []float64
	for _, r := range results {
		if r.Err != nil {
			s.Failed++
			continue
		}
		s.States[r.Report.State]++
		steps = append(steps, float64(r.Report.Steps))
		delays = append(delays, r.Report.Delay.Mean)
		faults = append(faults, float64(len(r.Report.Faults)))
		if r.Report.StronglyConnectedAt >= 0 {
			connected = append(connected, float64(r.Report.StronglyConnectedAt))
		}
		if v, ok := r.Report.Unanimous(); ok {
			s.Unanimous[v]++
		}
		if r.Report.Properties != nil && r.Report.Properties.Result {
			s.PropertiesHeld++
		}
	}
	s.Steps = aggregate(steps)
	s.MeanDelay = aggregate(delays)
	s.Faults = aggregate(faults)
	s.StronglyConnectedAt = aggregate(connected)
	return s
}

// The final states of the summary in sorted order
func (s Summary) StateNames() []string {
	names := maps.Keys(s.States)
	slices.Sort(names)
	return names
}

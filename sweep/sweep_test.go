package sweep

import (
	"context"
	"errors"
	"testing"

	"asyncsim/config"
	"asyncsim/simulator"

	"github.com/stretchr/testify/require"
)

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Nodes = 5
	cfg.Protocol = config.ProtocolEchoAll
	cfg.FaultInjector = config.FaultsProbabilistic
	cfg.FaultProbability = 0.02
	maxFaults := 2
	cfg.MaxFaults = &maxFaults
	cfg.AnalysisInterval = 10
	cfg.MaxSteps = 300
	return cfg
}

func TestResultsIndependentOfParallelism(t *testing.T) {
	seeds := Seeds(100, 12)
	sequential, err := Run(context.Background(), testConfig(), seeds, 1, nil)
	require.NoError(t, err)
	parallel, err := Run(context.Background(), testConfig(), seeds, 4, nil)
	require.NoError(t, err)

	require.Len(t, parallel, len(seeds))
	for i := range seeds {
		require.Equal(t, seeds[i], parallel[i].Seed)
		require.Equal(t, sequential[i].Report, parallel[i].Report)
	}
}

func TestSummarize(t *testing.T) {
	results, err := Run(context.Background(), testConfig(), Seeds(1, 8), 0, nil)
	require.NoError(t, err)
	s := Summarize(results)
	require.Equal(t, 8, s.Runs)
	require.Equal(t, 0, s.Failed)
	require.Equal(t, 8, s.States[simulator.HaltedMaxSteps.String()])
	require.Equal(t, []string{simulator.HaltedMaxSteps.String()}, s.StateNames())
	require.Equal(t, float64(300), s.Steps.Mean)
	require.Equal(t, float64(0), s.Steps.StdDev)
	require.LessOrEqual(t, s.Faults.Max, float64(2))
}

func TestSummarizeConsensus(t *testing.T) {
	cfg := config.Default()
	cfg.Nodes = 3
	cfg.Faults = 1
	cfg.Rounds = 2
	cfg.Protocol = config.ProtocolConsensus
	cfg.InitialValue = config.InitialOne
	cfg.MaxSteps = 0

	results, err := Run(context.Background(), cfg, Seeds(0, 5), 2, nil)
	require.NoError(t, err)
	s := Summarize(results)
	require.Equal(t, 5, s.Unanimous[1])
	require.Equal(t, 5, s.PropertiesHeld)
}

func TestInvalidConfiguration(t *testing.T) {
	cfg := config.Default()
	cfg.Nodes = 0
	_, err := Run(context.Background(), cfg, Seeds(0, 3), 2, nil)
	require.ErrorIs(t, err, config.ConfigurationError)
}

func TestCancelledSweep(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	results, err := Run(ctx, testConfig(), Seeds(0, 3), 1, nil)
	require.Error(t, err)
	require.True(t, errors.Is(err, context.Canceled))
	require.Len(t, results, 3)
	require.Equal(t, 3, Summarize(results).Failed)
}

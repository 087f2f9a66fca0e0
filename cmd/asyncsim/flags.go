package main

import (
	"fmt"

	"asyncsim/config"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Values of the configuration flags. They are only applied when set on the command line.
var (
	configPath string
	overrides  = config.Default()
	maxFaults  = 0
)

func addConfigFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&configPath, "config", "c", "", "YAML or JSON configuration file")
	f.IntVarP(&overrides.Nodes, "nodes", "n", overrides.Nodes, "number of processes")
	f.StringVarP(&overrides.Protocol, "protocol", "p", overrides.Protocol, fmt.Sprintf("protocol run by every process %v", config.Protocols))
	f.StringVarP(&overrides.Traffic, "traffic", "t", overrides.Traffic, fmt.Sprintf("initial traffic %v", config.Traffics))
	f.IntVarP(&overrides.Faults, "faults", "f", overrides.Faults, "number of faults tolerated by the consensus protocol")
	f.IntVarP(&overrides.Rounds, "rounds", "r", overrides.Rounds, "number of rounds per consensus phase")
	f.IntVar(&overrides.CommitteeSize, "committee-size", overrides.CommitteeSize, "number of committee members")
	f.StringVar(&overrides.InitialValue, "initial-value", overrides.InitialValue, "initial value of the consensus processes: random, 0 or 1")
	f.IntSliceVar(&overrides.InitialValues, "initial-values", nil, "explicit initial value of every consensus process")
	f.StringVar(&overrides.FaultInjector, "fault-injector", overrides.FaultInjector, fmt.Sprintf("fault injector %v", config.Injectors))
	f.Float64Var(&overrides.FaultProbability, "fault-probability", overrides.FaultProbability, "probability of a crash after every step")
	f.IntVar(&maxFaults, "max-faults", 0, "maximum number of crashes, defaults to --faults")
	f.IntVar(&overrides.AnalysisInterval, "analysis-interval", overrides.AnalysisInterval, "analyse the connectivity every n steps, 0 disables the analysis")
	f.BoolVar(&overrides.StopAnalysisWhenStronglyConnected, "stop-analysis", overrides.StopAnalysisWhenStronglyConnected, "stop the analysis once the graph is strongly connected")
	f.IntVar(&overrides.MaxSteps, "max-steps", overrides.MaxSteps, "maximum number of deliveries, 0 means no limit")
	f.Int64Var(&overrides.Seed, "seed", overrides.Seed, "seed of the random source")
}

// Load the configuration file, if any, and apply the flags that were set on the command line
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return config.Config{}, err
		}
	}
	cmd.Flags().Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "nodes":
			cfg.Nodes = overrides.Nodes
		case "protocol":
			cfg.Protocol = overrides.Protocol
		case "traffic":
			cfg.Traffic = overrides.Traffic
		case "faults":
			cfg.Faults = overrides.Faults
		case "rounds":
			cfg.Rounds = overrides.Rounds
		case "committee-size":
			cfg.CommitteeSize = overrides.CommitteeSize
		case "initial-value":
			cfg.InitialValue = overrides.InitialValue
		case "initial-values":
			cfg.InitialValues = overrides.InitialValues
		case "fault-injector":
			cfg.FaultInjector = overrides.FaultInjector
		case "fault-probability":
			cfg.FaultProbability = overrides.FaultProbability
		case "max-faults":
			budget := maxFaults
			cfg.MaxFaults = &budget
		case "analysis-interval":
			cfg.AnalysisInterval = overrides.AnalysisInterval
		case "stop-analysis":
			cfg.StopAnalysisWhenStronglyConnected = overrides.StopAnalysisWhenStronglyConnected
		case "max-steps":
			cfg.MaxSteps = overrides.MaxSteps
		case "seed":
			cfg.Seed = overrides.Seed
		}
	})
	return cfg, cfg.Validate()
}

package config

import (
	"errors"
	"fmt"

	"asyncsim/failureManager"

	"golang.org/x/exp/slices"
)

var ConfigurationError = errors.New("config: Invalid configuration")

// The names of the available strategies
const (
	ProtocolEchoAll         = "echo-all"
	ProtocolPingPong        = "ping-pong"
	ProtocolRequestResponse = "request-response"
	ProtocolRespondToSender = "respond-to-sender"
	ProtocolRandomSingle    = "random-single"
	ProtocolCommittee       = "committee"
	ProtocolConsensus       = "consensus"

	TrafficProtocol       = "protocol"
	TrafficAllToAll       = "all-to-all"
	TrafficAllToCommittee = "all-to-committee"
	TrafficCommitteeToAll = "committee-to-all"
	TrafficNone           = "none"

	FaultsNone          = "none"
	FaultsProbabilistic = "probabilistic"
	FaultsPlanned       = "planned"

	InitialRandom = "random"
	InitialZero   = "0"
	InitialOne    = "1"
)

var (
	Protocols = []string{ProtocolEchoAll, ProtocolPingPong, ProtocolRequestResponse, ProtocolRespondToSender, ProtocolRandomSingle, ProtocolCommittee, ProtocolConsensus}
	Traffics  = []string{TrafficProtocol, TrafficAllToAll, TrafficAllToCommittee, TrafficCommitteeToAll, TrafficNone}
	Injectors = []string{FaultsNone, FaultsProbabilistic, FaultsPlanned}
)

// A fully resolved configuration of a single simulation
type Config struct {
	// Number of processes
	Nodes int `yaml:"nodes" json:"nodes"`
	// Name of the protocol run by every process
	Protocol string `yaml:"protocol" json:"protocol"`
	// Name of the generator of the initial traffic
	Traffic string `yaml:"traffic" json:"traffic"`

	// Number of faults the consensus protocol tolerates
	Faults int `yaml:"faults" json:"faults"`
	// Number of rounds in every phase of the consensus protocol
	Rounds int `yaml:"rounds" json:"rounds"`
	// Processes with id < CommitteeSize are committee members
	CommitteeSize int `yaml:"committee-size" json:"committee-size"`
	// Initial value of the consensus processes, random, 0 or 1. Ignored if InitialValues is set.
	InitialValue string `yaml:"initial-value" json:"initial-value"`
	// Explicit initial value of every consensus process
	InitialValues []int `yaml:"initial-values,omitempty" json:"initial-values,omitempty"`

	FaultInjector    string  `yaml:"fault-injector" json:"fault-injector"`
	FaultProbability float64 `yaml:"fault-probability" json:"fault-probability"`
	// Fault budget of the injector. Defaults to Faults when nil.
	MaxFaults     *int                          `yaml:"max-faults,omitempty" json:"max-faults,omitempty"`
	PlannedFaults []failureManager.PlannedFault `yaml:"planned-faults,omitempty" json:"planned-faults,omitempty"`

	// Analyse the connectivity every AnalysisInterval steps. Zero disables the analysis.
	AnalysisInterval                  int  `yaml:"analysis-interval" json:"analysis-interval"`
	StopAnalysisWhenStronglyConnected bool `yaml:"stop-analysis-when-strongly-connected" json:"stop-analysis-when-strongly-connected"`

	// Maximum number of deliveries. Zero means no limit.
	MaxSteps int   `yaml:"max-steps" json:"max-steps"`
	Seed     int64 `yaml:"seed" json:"seed"`
}

func Default() Config {
	return Config{
		Nodes:                             10,
		Protocol:                          ProtocolEchoAll,
		Traffic:                           TrafficProtocol,
		Faults:                            0,
		Rounds:                            0,
		CommitteeSize:                     0,
		InitialValue:                      InitialRandom,
		FaultInjector:                     FaultsNone,
		FaultProbability:                  0,
		AnalysisInterval:                  0,
		StopAnalysisWhenStronglyConnected: true,
		MaxSteps:                          1000,
		Seed:                              42,
	}
}

// The fault budget of the injector
func (c Config) FaultBudget() int {
	if c.MaxFaults != nil {
		return *c.MaxFaults
	}
	return c.Faults
}

// Check that the configuration describes a runnable simulation.
// All errors wrap ConfigurationError.
func (c Config) Validate() error {
	if c.Nodes < 1 {
		return fmt.Errorf("%w: at least one node is required, got %v", ConfigurationError, c.Nodes)
	}
	if !slices.Contains(Protocols, c.Protocol) {
		return fmt.Errorf("%w: unknown protocol %q, must be one of %v", ConfigurationError, c.Protocol, Protocols)
	}
	if !slices.Contains(Traffics, c.Traffic) {
		return fmt.Errorf("%w: unknown traffic %q, must be one of %v", ConfigurationError, c.Traffic, Traffics)
	}
	if !slices.Contains(Injectors, c.FaultInjector) {
		return fmt.Errorf("%w: unknown fault injector %q, must be one of %v", ConfigurationError, c.FaultInjector, Injectors)
	}
	if c.Faults < 0 {
		return fmt.Errorf("%w: faults must not be negative, got %v", ConfigurationError, c.Faults)
	}
	if c.MaxSteps < 0 {
		return fmt.Errorf("%w: max-steps must not be negative, got %v", ConfigurationError, c.MaxSteps)
	}
	if c.AnalysisInterval < 0 {
		return fmt.Errorf("%w: analysis-interval must not be negative, got %v", ConfigurationError, c.AnalysisInterval)
	}

	if c.Protocol == ProtocolConsensus {
		if err := c.validateConsensus(); err != nil {
			return err
		}
	}
	if c.Protocol == ProtocolCommittee || c.Traffic == TrafficAllToCommittee || c.Traffic == TrafficCommitteeToAll {
		if c.CommitteeSize < 1 || c.CommitteeSize > c.Nodes {
			return fmt.Errorf("%w: committee-size must be between 1 and %v, got %v", ConfigurationError, c.Nodes, c.CommitteeSize)
		}
	}

	if c.FaultProbability < 0 || c.FaultProbability > 1 {
		return fmt.Errorf("%w: fault-probability must be in [0, 1], got %v", ConfigurationError, c.FaultProbability)
	}
	if c.FaultBudget() < 0 {
		return fmt.Errorf("%w: max-faults must not be negative, got %v", ConfigurationError, c.FaultBudget())
	}
	for _, pf := range c.PlannedFaults {
		if pf.Process < 0 || pf.Process >= c.Nodes {
			return fmt.Errorf("%w: planned fault of process %v out of range", ConfigurationError, pf.Process)
		}
		if pf.Step < 0 {
			return fmt.Errorf("%w: planned fault at negative step %v", ConfigurationError, pf.Step)
		}
	}
	return nil
}

func (c Config) validateConsensus() error {
	if c.Rounds < 1 {
		return fmt.Errorf("%w: the consensus protocol requires rounds >= 1, got %v", ConfigurationError, c.Rounds)
	}
	if c.Nodes < 2*c.Faults+1 {
		return fmt.Errorf("%w: the consensus protocol requires nodes >= 2*faults+1, got %v nodes and %v faults", ConfigurationError, c.Nodes, c.Faults)
	}
	if c.Traffic != TrafficProtocol {
		return fmt.Errorf("%w: the consensus protocol generates its own traffic, got traffic %q", ConfigurationError, c.Traffic)
	}
	if c.InitialValues != nil {
		if len(c.InitialValues) != c.Nodes {
			return fmt.Errorf("%w: got %v initial values for %v nodes", ConfigurationError, len(c.InitialValues), c.Nodes)
		}
		for id, v := range c.InitialValues {
			if v != 0 && v != 1 {
				return fmt.Errorf("%w: initial value of process %v must be 0 or 1, got %v", ConfigurationError, id, v)
			}
		}
		return nil
	}
	switch c.InitialValue {
	case InitialRandom, InitialZero, InitialOne:
	default:
		return fmt.Errorf("%w: initial-value must be random, 0 or 1, got %q", ConfigurationError, c.InitialValue)
	}
	return nil
}

package asyncsim

import (
	"context"
	"fmt"
	"math/rand"

	"asyncsim/analysis"
	"asyncsim/config"
	"asyncsim/consensus"
	"asyncsim/failureManager"
	"asyncsim/logging"
	"asyncsim/network"
	"asyncsim/protocol"
	"asyncsim/scheduler"
	"asyncsim/simulator"
)

// Create a simulator from the configuration.
//
// The configuration is validated first, an invalid configuration returns an error wrapping config.ConfigurationError.
// The options override the components the configuration would otherwise select.
func PrepareSimulation(cfg config.Config, opts ...Option) (*simulator.Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	var (
		logger    = logging.NewNullLogger()
		sch       scheduler.Scheduler
		rng       *rand.Rand
		checker   simulator.PropertyChecker
		observers = []simulator.Observer{}
	)

	for _, opt := range opts {
		switch t := opt.(type) {
		case loggerOption:
			logger = t.logger
		case schedulerOption:
			sch = t.sch
		case randOption:
			rng = t.rng
		case checkerOption:
			checker = t.checker
		case observerOption:
			observers = append(observers, t.observer)
		}
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(cfg.Seed))
	}
	if sch == nil {
		sch = scheduler.NewRandom()
	}

	proto, err := ResolveProtocol(cfg)
	if err != nil {
		return nil, err
	}
	if checker == nil {
		if _, ok := proto.(*consensus.Algorithm3); ok {
			checker = consensus.NewChecker()
		}
	}
	traffic, err := ResolveTraffic(cfg)
	if err != nil {
		return nil, err
	}
	fi, err := ResolveFaultInjector(cfg)
	if err != nil {
		return nil, err
	}

	sim, err := simulator.New(simulator.Parameters{
		Network:       network.New(cfg.Nodes),
		Rand:          rng,
		Protocol:      proto,
		Scheduler:     sch,
		Traffic:       traffic,
		FaultInjector: fi,
		Analyzer:      analysis.NewAnalyzer(cfg.Nodes, cfg.AnalysisInterval, cfg.StopAnalysisWhenStronglyConnected),
		Checker:       checker,
		Logger:        logger,
		MaxSteps:      cfg.MaxSteps,
	})
	if err != nil {
		return nil, err
	}
	for _, o := range observers {
		sim.AddObserver(o)
	}
	return sim, nil
}

// Prepare a simulation from the configuration and run it to completion
func Run(ctx context.Context, cfg config.Config, opts ...Option) (simulator.FinalReport, error) {
	sim, err := PrepareSimulation(cfg, opts...)
	if err != nil {
		return simulator.FinalReport{}, err
	}
	return sim.RunToCompletion(ctx)
}

// Return the protocol selected by the configuration
func ResolveProtocol(cfg config.Config) (protocol.Protocol, error) {
	switch cfg.Protocol {
	case config.ProtocolEchoAll:
		return protocol.EchoAll{}, nil
	case config.ProtocolPingPong:
		return protocol.PingPong{}, nil
	case config.ProtocolRequestResponse:
		return protocol.RequestResponse{}, nil
	case config.ProtocolRespondToSender:
		return protocol.RespondToSender{}, nil
	case config.ProtocolRandomSingle:
		return protocol.RandomSingle{}, nil
	case config.ProtocolCommittee:
		return protocol.NewCommittee(cfg.CommitteeSize), nil
	case config.ProtocolConsensus:
		alg := consensus.NewAlgorithm3(cfg.Faults, cfg.Rounds, initialValue(cfg))
		if err := alg.Validate(cfg.Nodes); err != nil {
			return nil, fmt.Errorf("%w: %v", config.ConfigurationError, err)
		}
		return alg, nil
	default:
		return nil, fmt.Errorf("%w: unknown protocol %q", config.ConfigurationError, cfg.Protocol)
	}
}

func initialValue(cfg config.Config) consensus.InitialValue {
	if cfg.InitialValues != nil {
		return consensus.ListInput{Bits: cfg.InitialValues}
	}
	switch cfg.InitialValue {
	case config.InitialZero:
		return consensus.FixedInput{Bit: 0}
	case config.InitialOne:
		return consensus.FixedInput{Bit: 1}
	default:
		return consensus.RandomInput{}
	}
}

// Return the traffic generator selected by the configuration.
// Returns nil if the protocol generates its own initial traffic.
func ResolveTraffic(cfg config.Config) (protocol.TrafficGenerator, error) {
	switch cfg.Traffic {
	case config.TrafficProtocol:
		return nil, nil
	case config.TrafficAllToAll:
		return protocol.AllToAll{}, nil
	case config.TrafficAllToCommittee:
		return protocol.AllToCommittee{Size: cfg.CommitteeSize}, nil
	case config.TrafficCommitteeToAll:
		return protocol.CommitteeToAll{Size: cfg.CommitteeSize}, nil
	case config.TrafficNone:
		return protocol.NoTraffic{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown traffic %q", config.ConfigurationError, cfg.Traffic)
	}
}

// Return the fault injector selected by the configuration
func ResolveFaultInjector(cfg config.Config) (failureManager.FaultInjector, error) {
	switch cfg.FaultInjector {
	case config.FaultsNone:
		return failureManager.NewNone(), nil
	case config.FaultsProbabilistic:
		return failureManager.NewProbabilistic(cfg.FaultProbability, cfg.FaultBudget()), nil
	case config.FaultsPlanned:
		return failureManager.NewPlanned(cfg.PlannedFaults, cfg.FaultBudget()), nil
	default:
		return nil, fmt.Errorf("%w: unknown fault injector %q", config.ConfigurationError, cfg.FaultInjector)
	}
}

package simulator

import (
	"asyncsim/analysis"
	"asyncsim/checking"
	"asyncsim/failureManager"
	"asyncsim/logging"
	"asyncsim/network"
	"asyncsim/protocol"
	"asyncsim/scheduler"
	"context"
	"errors"
	"fmt"
	"math/rand"
)

var ParameterError = errors.New("simulator: Invalid parameters")

// Checks properties of the processes at the end of a run
type PropertyChecker interface {
	Check(net *network.Network, terminal bool) checking.Response
}

// The components of a simulation.
//
// Network, Rand and Protocol are required. The remaining fields have defaults:
// the Random scheduler, the protocol's own initial traffic, no faults,
// no scheduled analysis and a logger that discards everything.
type Parameters struct {
	Network   *network.Network
	Rand      *rand.Rand
	Protocol  protocol.Protocol
	Scheduler scheduler.Scheduler
	// Replaces the initial traffic of the protocol if set
	Traffic       protocol.TrafficGenerator
	FaultInjector failureManager.FaultInjector
	Analyzer      *analysis.Analyzer
	Checker       PropertyChecker
	Logger        logging.LoggerI
	// Maximum number of deliveries. Zero means no limit.
	MaxSteps int
}

// The outcome of a single step
type StepResult struct {
	// The delivered message, nil if no message was delivered
	Delivered *network.Message
	// The processes that crashed in the step
	Crashed []int
	State   State
}

// Runs a single simulation.
//
// Every step delivers exactly one message: a link is selected by the scheduler, its oldest message is delivered,
// the receiving process handles it, the messages it sends are enqueued, the fault injector runs and finally the network
// is analysed if an analysis is due.
// All randomness is drawn from a single source in that order, which makes runs reproducible from the seed.
//
// The Simulator is not safe for concurrent use.
type Simulator struct {
	net      *network.Network
	rng      *rand.Rand
	proto    protocol.Protocol
	sch      scheduler.Scheduler
	fi       failureManager.FaultInjector
	analyzer *analysis.Analyzer
	checker  PropertyChecker
	log      logging.LoggerI

	observers []Observer

	maxSteps int
	step     int
	state    State
	err      error

	faults []Fault
	stats  *statistics
}

// Create a simulator and initialize the processes.
//
// Protocol.Init is called for every alive process in increasing id order.
// If a traffic generator is configured its messages replace the ones returned by Init.
func New(params Parameters) (*Simulator, error) {
	if params.Network == nil || params.Rand == nil || params.Protocol == nil {
		return nil, fmt.Errorf("%w: network, random source and protocol are required", ParameterError)
	}
	if params.MaxSteps < 0 {
		return nil, fmt.Errorf("%w: negative max steps %v", ParameterError, params.MaxSteps)
	}
	s := &Simulator{
		net:       params.Network,
		rng:       params.Rand,
		proto:     params.Protocol,
		sch:       params.Scheduler,
		fi:        params.FaultInjector,
		analyzer:  params.Analyzer,
		checker:   params.Checker,
		log:       params.Logger,
		observers: []Observer{},
		maxSteps:  params.MaxSteps,
		state:     Running,
		faults:    []Fault{},
		stats:     newStatistics(),
	}
	if s.sch == nil {
		s.sch = scheduler.NewRandom()
	}
	if s.fi == nil {
		s.fi = failureManager.NewNone()
	}
	if s.analyzer == nil {
		s.analyzer = analysis.NewAnalyzer(s.net.N(), 0, true)
	}
	if s.log == nil {
		s.log = logging.NewNullLogger()
	}
	if err := s.init(params.Traffic); err != nil {
		return nil, err
	}
	s.log.Infof("Starting simulation of %v processes running %v (max steps: %v, initial messages: %v)", s.net.N(), s.proto.Name(), s.maxSteps, s.net.Created())
	return s, nil
}

func (s *Simulator) init(traffic protocol.TrafficGenerator) error {
	env := protocol.Env{N: s.net.N(), Step: 0, Rand: s.rng}
	for _, id := range s.net.AliveIds() {
		p, err := s.net.Process(id)
		if err != nil {
			return err
		}
		out := s.proto.Init(env, p)
		if traffic != nil {
			continue
		}
		if err := s.send(id, out); err != nil {
			return err
		}
	}
	if traffic == nil {
		return nil
	}
	for _, m := range traffic.Generate(s.net.N()) {
		if _, err := s.net.Enqueue(m.From, m.To, 0, m.Payload); err != nil {
			return err
		}
	}
	return nil
}

func (s *Simulator) send(from int, out []protocol.Outgoing) error {
	for _, o := range out {
		if _, err := s.net.Enqueue(from, o.To, s.step, o.Payload); err != nil {
			return fmt.Errorf("simulator: process %v sent an invalid message: %w", from, err)
		}
	}
	return nil
}

// Add an observer that is notified about the events of the simulation
func (s *Simulator) AddObserver(o Observer) {
	s.observers = append(s.observers, o)
}

// Execute a single step of the simulation.
//
// In a terminal state a result with the same state is returned.
// An error is only returned if the step failed, the simulator is then in the HaltedError state.
func (s *Simulator) RunStep() (StepResult, error) {
	if s.state.Terminal() {
		return StepResult{State: s.state}, nil
	}
	if s.maxSteps > 0 && s.step >= s.maxSteps {
		return s.halt(HaltedMaxSteps), nil
	}
	links := s.net.ActiveLinks()
	if len(links) == 0 {
		return s.halt(HaltedExhausted), nil
	}

	link, err := s.sch.Select(links, s.rng)
	if errors.Is(err, scheduler.NoActiveLinksError) {
		return s.halt(HaltedExhausted), nil
	} else if err != nil {
		return s.fail(err)
	}
	msg, err := s.net.DequeueEarliest(link)
	if err != nil {
		return s.fail(err)
	}

	// The message is delivered in step s.step+1, messages sent while handling it are sent at the same step
	s.step++
	s.analyzer.Observe(msg)
	s.stats.delivered(s.step - msg.SentAt)

	p, err := s.net.Process(msg.To)
	if err != nil {
		return s.fail(err)
	}
	if p.Alive {
		out := s.proto.OnReceive(protocol.Env{N: s.net.N(), Step: s.step, Rand: s.rng}, p, msg)
		if err := s.send(p.ID, out); err != nil {
			return s.fail(err)
		}
	}
	for _, o := range s.observers {
		o.OnDelivery(s.step, msg)
	}

	crashed, err := s.fi.Inject(s.step, s.net, s.rng)
	if err != nil {
		return s.fail(err)
	}
	for _, id := range crashed {
		s.faults = append(s.faults, Fault{Step: s.step, Process: id})
		s.log.Infof("Process %v crashed at step %v", id, s.step)
		for _, o := range s.observers {
			o.OnFault(s.step, id)
		}
	}

	if s.analyzer.Due(s.step) {
		report := s.analyzer.Analyze(s.step, s.net.PendingLinks())
		s.log.Debug(report.String())
		for _, o := range s.observers {
			o.OnAnalysisSnapshot(s.step, report)
		}
	}
	s.stats.load(s.net.Pending(), s.net.ActiveCount())

	return StepResult{Delivered: &msg, Crashed: crashed, State: s.state}, nil
}

// Run steps until the simulation reaches a terminal state.
//
// The step limit is Parameters.MaxSteps: the run halts in HaltedMaxSteps after that many deliveries, zero means no limit.
// The context is checked between steps. If it is cancelled the simulation halts with the error of the context.
func (s *Simulator) RunToCompletion(ctx context.Context) (FinalReport, error) {
	for !s.state.Terminal() {
		if err := ctx.Err(); err != nil {
			s.fail(err)
			return s.Report(), err
		}
		if _, err := s.RunStep(); err != nil {
			return s.Report(), err
		}
	}
	return s.Report(), s.err
}

func (s *Simulator) halt(state State) StepResult {
	s.state = state
	s.log.Infof("Simulation stopped after %v steps: %v (pending messages: %v)", s.step, state, s.net.Pending())
	return StepResult{State: state}
}

func (s *Simulator) fail(err error) (StepResult, error) {
	s.state = HaltedError
	s.err = err
	s.log.Errorf("Simulation failed at step %v: %v", s.step, err)
	return StepResult{State: HaltedError}, err
}

// The number of messages delivered so far
func (s *Simulator) Step() int {
	return s.step
}

func (s *Simulator) State() State {
	return s.state
}

// The error that halted the simulation, nil unless the state is HaltedError
func (s *Simulator) Err() error {
	return s.err
}

func (s *Simulator) Network() *network.Network {
	return s.net
}

func (s *Simulator) Analyzer() *analysis.Analyzer {
	return s.analyzer
}

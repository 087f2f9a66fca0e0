package consensus

import (
	"asyncsim/network"
	"asyncsim/protocol"
	"errors"
	"fmt"
	"math/rand"
)

var ParameterError = errors.New("consensus: Invalid protocol parameters")

const (
	RuleSupermajority = "supermajority"
	RuleMajority      = "majority"
	RuleTieBreak      = "tie-break"
)

// Selects the initial value of every process
type InitialValue interface {
	value(id int, rng *rand.Rand) int
}

// Every process draws its initial value uniformly from {0, 1}.
// The draws happen when the processes are initialized, in increasing id order.
type RandomInput struct{}

func (RandomInput) value(_ int, rng *rand.Rand) int {
	return rng.Intn(2)
}

// Every process starts with the same value
type FixedInput struct {
	Bit int
}

func (i FixedInput) value(int, *rand.Rand) int {
	return i.Bit
}

// Process i starts with Bits[i]
type ListInput struct {
	Bits []int
}

func (i ListInput) value(id int, _ *rand.Rand) int {
	return i.Bits[id]
}

// Binary Byzantine consensus for n = 2f+1 processes using signature chains.
//
// A run consists of f+1 phases of R rounds each.
// A process moves to the next round after hearing from n-f distinct processes, itself included, in its current phase and round.
// Values travel with the processes that have signed them. In phase p a process only accepts a value signed by at least p processes,
// and it accepts at most one value per origin.
// At the end of every phase the estimate becomes the bit held by more than (n+f)/2 of the accepted values, if such a bit exists.
// After the last round of the last phase the process decides the supermajority bit, else the majority bit, and 0 on a tie.
type Algorithm3 struct {
	F      int
	Rounds int
	Input  InitialValue
}

func NewAlgorithm3(f, rounds int, input InitialValue) *Algorithm3 {
	if input == nil {
		input = RandomInput{}
	}
	return &Algorithm3{F: f, Rounds: rounds, Input: input}
}

func (a *Algorithm3) Name() string { return "consensus" }

// Check that the parameters are usable in a network of n processes
func (a *Algorithm3) Validate(n int) error {
	if a.F < 0 {
		return fmt.Errorf("%w: negative fault tolerance %v", ParameterError, a.F)
	}
	if n < 2*a.F+1 {
		return fmt.Errorf("%w: %v processes can not tolerate %v faults, need at least %v", ParameterError, n, a.F, 2*a.F+1)
	}
	if a.Rounds < 1 {
		return fmt.Errorf("%w: at least one round per phase is required, got %v", ParameterError, a.Rounds)
	}
	if list, ok := a.Input.(ListInput); ok {
		if len(list.Bits) != n {
			return fmt.Errorf("%w: got %v initial values for %v processes", ParameterError, len(list.Bits), n)
		}
		for id, b := range list.Bits {
			if b != 0 && b != 1 {
				return fmt.Errorf("%w: initial value of process %v is %v, must be 0 or 1", ParameterError, id, b)
			}
		}
	}
	if fixed, ok := a.Input.(FixedInput); ok && fixed.Bit != 0 && fixed.Bit != 1 {
		return fmt.Errorf("%w: initial value %v must be 0 or 1", ParameterError, fixed.Bit)
	}
	return nil
}

func (a *Algorithm3) Init(env protocol.Env, p *network.Process) []protocol.Outgoing {
	input := a.Input
	if input == nil {
		input = RandomInput{}
	}
	s := newState(p.ID, input.value(p.ID, env.Rand))
	p.Data = s
	// Without peers the process is its own quorum
	return append(protocol.Broadcast(p.ID, env.N, s.payload()), a.progress(s, p.ID, env.N)...)
}

func (a *Algorithm3) OnReceive(env protocol.Env, p *network.Process, msg network.Message) []protocol.Outgoing {
	s, ok := p.Data.(*State)
	if !ok {
		return nil
	}
	if s.Decided {
		s.LateDeliveries++
		return nil
	}
	payload, ok := msg.Payload.(Payload)
	if !ok {
		return nil
	}
	if payload.Phase < s.Phase {
		return nil
	}
	s.merge(p.ID, payload.Values)

	if payload.Phase == s.Phase && payload.Round < s.Round {
		return nil
	}
	s.record(stage{phase: payload.Phase, round: payload.Round}, msg.From)
	return a.progress(s, p.ID, env.N)
}

// Advance the process while its current round has a quorum, broadcasting the value map for every round it starts.
// Messages kept from earlier deliveries may complete the quorum of the next round as well.
func (a *Algorithm3) progress(s *State, id, n int) []protocol.Outgoing {
	out := []protocol.Outgoing{}
	for !s.Decided && s.valid() >= n-a.F {
		delete(s.senders, s.stage())
		a.advance(s, n)
		if !s.Decided {
			out = append(out, protocol.Broadcast(id, n, s.payload())...)
		}
	}
	return out
}

// Move the process to its next round, ending the phase or deciding when the last round is completed
func (a *Algorithm3) advance(s *State, n int) {
	if s.Round < a.Rounds {
		s.Round++
		return
	}
	if s.Phase < a.F+1 {
		if bit, ok := a.supermajority(s, n); ok {
			s.Estimate = bit
		}
		s.Phase++
		s.Round = 1
		return
	}
	s.Estimate, s.Rule = a.final(s, n)
	s.decide(s.Estimate, s.Rule)
}

// Returns the bit held by more than (n+f)/2 of the accepted values
func (a *Algorithm3) supermajority(s *State, n int) (int, bool) {
	zeros, ones := s.count()
	if 2*ones > n+a.F {
		return 1, true
	}
	if 2*zeros > n+a.F {
		return 0, true
	}
	return 0, false
}

func (a *Algorithm3) final(s *State, n int) (int, string) {
	if bit, ok := a.supermajority(s, n); ok {
		return bit, RuleSupermajority
	}
	zeros, ones := s.count()
	switch {
	case ones > zeros:
		return 1, RuleMajority
	case zeros > ones:
		return 0, RuleMajority
	default:
		// The same value map gives the same decision on every process
		return 0, RuleTieBreak
	}
}

func (a *Algorithm3) Decision(p *network.Process) protocol.Decision {
	s, ok := p.Data.(*State)
	if !ok || !s.Decided {
		return protocol.Decision{}
	}
	return protocol.Decision{Decided: true, Value: s.Decision, Rule: s.Rule}
}

package consensus

import (
	"fmt"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// A binary value together with the ids of the processes that have signed it.
// Signers is kept sorted and free of duplicates.
type Signed struct {
	Bit     int
	Signers []int
}

func (s Signed) String() string {
	return fmt.Sprintf("%v%v", s.Bit, s.Signers)
}

// Return a copy of the value that also carries the signature of id
func (s Signed) signedBy(id int) Signed {
	signers := slices.Clone(s.Signers)
	index, found := slices.BinarySearch(signers, id)
	if !found {
		signers = slices.Insert(signers, index, id)
	}
	return Signed{Bit: s.Bit, Signers: signers}
}

// The content of every message sent by the protocol.
//
// Values is a snapshot of the value map of the sender at the time the message was sent.
// It is never modified after the message has been created.
type Payload struct {
	Phase    int
	Round    int
	Estimate int
	Values   map[int]Signed
}

func (p Payload) String() string {
	return fmt.Sprintf("{Phase: %v, Round: %v, Values: %v}", p.Phase, p.Round, len(p.Values))
}

type stage struct {
	phase int
	round int
}

// The local state of a process running the consensus protocol
type State struct {
	// The current phase, between 1 and f+1
	Phase int
	// The current round of the phase, between 1 and R
	Round int
	// The accepted values. The key is the id of the process the value originates from.
	Values map[int]Signed

	// The initial value of the process
	Initial int
	// The current estimate of the process. Updated at the end of every phase.
	Estimate int

	Decided  bool
	Decision int
	// The rule that produced the decision
	Rule string

	// Number of messages delivered after the process decided
	LateDeliveries int

	// Number of times the process has decided. Never more than one.
	decideCount int
	// The distinct senders heard from per (phase, round), including future rounds
	senders map[stage]map[int]bool
}

func newState(id, initial int) *State {
	return &State{
		Phase:    1,
		Round:    1,
		Values:   map[int]Signed{id: {Bit: initial, Signers: []int{id}}},
		Initial:  initial,
		Estimate: initial,
		senders:  make(map[stage]map[int]bool),
	}
}

func (s *State) stage() stage {
	return stage{phase: s.Phase, round: s.Round}
}

// Accept every value from an origin not seen before that is signed by at least Phase processes
func (s *State) merge(self int, values map[int]Signed) {
	for origin, value := range values {
		if _, ok := s.Values[origin]; ok {
			continue
		}
		if len(value.Signers) < s.Phase {
			continue
		}
		s.Values[origin] = value.signedBy(self)
	}
}

func (s *State) record(st stage, sender int) {
	senders, ok := s.senders[st]
	if !ok {
		senders = make(map[int]bool)
		s.senders[st] = senders
	}
	senders[sender] = true
}

// The number of distinct processes heard from in the current phase and round.
// The process counts itself.
func (s *State) valid() int {
	return len(s.senders[s.stage()]) + 1
}

// Count the accepted values for each bit
func (s *State) count() (zeros, ones int) {
	for _, v := range s.Values {
		if v.Bit == 1 {
			ones++
		} else {
			zeros++
		}
	}
	return zeros, ones
}

func (s *State) decide(value int, rule string) {
	if s.Decided {
		return
	}
	s.Decided = true
	s.Decision = value
	s.Rule = rule
	s.decideCount++
}

func (s *State) payload() Payload {
	return Payload{
		Phase:    s.Phase,
		Round:    s.Round,
		Estimate: s.Estimate,
		Values:   maps.Clone(s.Values),
	}
}

func (s State) String() string {
	if s.Decided {
		return fmt.Sprintf("Decided %v (%v)", s.Decision, s.Rule)
	}
	return fmt.Sprintf("Phase %v Round %v Estimate %v Values %v", s.Phase, s.Round, s.Estimate, len(s.Values))
}

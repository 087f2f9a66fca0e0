package consensus

import (
	"asyncsim/checking"
	"asyncsim/failureManager"
	"asyncsim/network"
)

// Collect the consensus state of every process in the network.
// Processes that were never initialized with the consensus protocol are left out.
func Collect(net *network.Network, terminal bool) checking.State[State] {
	local := make(map[int]State, net.N())
	for id := 0; id < net.N(); id++ {
		p, err := net.Process(id)
		if err != nil {
			continue
		}
		if s, ok := p.Data.(*State); ok {
			local[id] = *s
		}
	}
	return checking.State[State]{
		LocalStates: local,
		Correct:     failureManager.CorrectNodes(net),
		IsTerminal:  terminal,
	}
}

// Eventually every correct process decides
var Termination = checking.Property[State]{
	Name: "Termination",
	Pred: checking.Eventually(func(s checking.State[State]) bool {
		return checking.ForAllProcesses(func(ls State) bool { return ls.Decided }, s, true)
	}),
}

// No two correct processes decide differently
var Agreement = checking.Property[State]{
	Name: "Agreement",
	Pred: func(s checking.State[State]) bool {
		decided := make(map[int]bool)
		for id, ls := range s.LocalStates {
			if s.Correct[id] && ls.Decided {
				decided[ls.Decision] = true
			}
		}
		return len(decided) < 2
	},
}

// A decided value is the initial value of some process
var Validity = checking.Property[State]{
	Name: "Validity",
	Pred: func(s checking.State[State]) bool {
		proposed := make(map[int]bool)
		for _, ls := range s.LocalStates {
			proposed[ls.Initial] = true
		}
		return checking.ForAllProcesses(func(ls State) bool {
			return !ls.Decided || proposed[ls.Decision]
		}, s, false)
	},
}

// No process decides more than once
var Integrity = checking.Property[State]{
	Name: "Integrity",
	Pred: func(s checking.State[State]) bool {
		return checking.ForAllProcesses(func(ls State) bool { return ls.decideCount < 2 }, s, false)
	},
}

// The properties every run of the protocol must satisfy
func Properties() []checking.Property[State] {
	return []checking.Property[State]{Agreement, Validity, Integrity, Termination}
}

// Checks the consensus properties on the processes of a network
type Checker struct {
	pc *checking.PredicateChecker[State]
}

func NewChecker(properties ...checking.Property[State]) *Checker {
	if len(properties) == 0 {
		properties = Properties()
	}
	return &Checker{pc: checking.NewPredicateChecker(properties...)}
}

func (c *Checker) Check(net *network.Network, terminal bool) checking.Response {
	return c.pc.Check(Collect(net, terminal))
}

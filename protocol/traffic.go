package protocol

import "fmt"

// A message of the initial traffic
type Initial struct {
	From    int
	To      int
	Payload any
}

// Generates the initial traffic of a simulation.
//
// When a TrafficGenerator is configured the messages it generates replace the initial traffic returned by Protocol.Init.
// Protocol.Init is still called to initialize the process state.
type TrafficGenerator interface {
	Name() string
	Generate(n int) []Initial
}

// Every process sends a message to every other process, n*(n-1) messages in total.
type AllToAll struct{}

func (AllToAll) Name() string { return "all-to-all" }

func (AllToAll) Generate(n int) []Initial {
	out := make([]Initial, 0, n*(n-1))
	for from := 0; from < n; from++ {
		for to := 0; to < n; to++ {
			if from != to {
				out = append(out, Initial{From: from, To: to, Payload: fmt.Sprintf("INIT %v->%v", from, to)})
			}
		}
	}
	return out
}

// All processes send a request to every committee member
type AllToCommittee struct {
	Size int
}

func (AllToCommittee) Name() string { return "all-to-committee" }

func (g AllToCommittee) Generate(n int) []Initial {
	out := []Initial{}
	for from := 0; from < n; from++ {
		for to := 0; to < g.Size && to < n; to++ {
			if from != to {
				out = append(out, Initial{From: from, To: to, Payload: fmt.Sprintf("INIT_REQUEST %v->%v", from, to)})
			}
		}
	}
	return out
}

// Every committee member sends a command to every other process
type CommitteeToAll struct {
	Size int
}

func (CommitteeToAll) Name() string { return "committee-to-all" }

func (g CommitteeToAll) Generate(n int) []Initial {
	out := []Initial{}
	for from := 0; from < g.Size && from < n; from++ {
		for to := 0; to < n; to++ {
			if from != to {
				out = append(out, Initial{From: from, To: to, Payload: fmt.Sprintf("INIT_COMMAND %v->%v", from, to)})
			}
		}
	}
	return out
}

// No initial traffic at all
type NoTraffic struct{}

func (NoTraffic) Name() string { return "none" }

func (NoTraffic) Generate(int) []Initial {
	return nil
}

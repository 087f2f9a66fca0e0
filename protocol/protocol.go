package protocol

import (
	"asyncsim/network"
	"math/rand"
)

// Describes how a process reacts to messages.
//
// A Protocol is shared by all processes in a simulation.
// Per process state must be stored in the Data field of the process, never in the protocol itself.
// The protocol of a process is only invoked while the process is alive.
type Protocol interface {
	// The name used to select the protocol in the configuration
	Name() string
	// Called once for every alive process before the first step.
	// Initializes the process state and returns the initial traffic of the process.
	Init(env Env, p *network.Process) []Outgoing
	// Called once for every message delivered to the process.
	// Returns zero or more messages that will be sent by the process.
	OnReceive(env Env, p *network.Process, msg network.Message) []Outgoing
}

// The environment the protocol is executed in
type Env struct {
	// The number of processes in the network
	N int
	// The current step. It is 0 during initialization and k while the k-th delivery is handled.
	Step int
	// The random source of the simulation. It must be the only source of randomness used by protocols.
	Rand *rand.Rand
}

// A message that a process wants to send.
// The sender and send time are assigned by the simulator when the message is enqueued.
type Outgoing struct {
	To      int
	Payload any
}

// The outcome of a decision for protocols that decide on a value
type Decision struct {
	Decided bool
	Value   int
	// Describes how the value was chosen
	Rule string
}

// Implemented by protocols whose processes decide on a value, e.g. consensus protocols
type Decider interface {
	Decision(p *network.Process) Decision
}

// Create messages with the provided payload to every process except self
func Broadcast(self, n int, payload any) []Outgoing {
	out := make([]Outgoing, 0, n)
	for to := 0; to < n; to++ {
		if to != self {
			out = append(out, Outgoing{To: to, Payload: payload})
		}
	}
	return out
}

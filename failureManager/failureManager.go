package failureManager

import (
	"asyncsim/network"
	"math/rand"
)

// Decides if and when processes crash during the simulation.
//
// The fault injector is invoked once per step, after the delivered message has been handled and before the network is analysed.
// It models halting failures only: a crashed process never sends or handles messages again.
type FaultInjector interface {
	// Possibly crash some processes in the network.
	// step is the number of messages delivered so far.
	// Returns the ids of the processes crashed by this invocation.
	Inject(step int, net *network.Network, rng *rand.Rand) ([]int, error)
	// The number of crashes the injector is still allowed to perform
	Remaining() int
}

// Return a map of the process ids and the status of the corresponding process
//
// If the status is true the process is currently running.
// If it is false the process has crashed.
func CorrectNodes(net *network.Network) map[int]bool {
	correct := make(map[int]bool, net.N())
	for id := 0; id < net.N(); id++ {
		correct[id] = net.Alive(id)
	}
	return correct
}

// A fault injector that never crashes any process.
type None struct{}

func NewNone() *None {
	return &None{}
}

func (n *None) Inject(int, *network.Network, *rand.Rand) ([]int, error) {
	return nil, nil
}

func (n *None) Remaining() int {
	return 0
}

// The fault budget shared by the injectors.
// It starts at max and is decremented by one for every crash, it never goes below zero.
type budget struct {
	max  int
	used int
}

func (b *budget) remaining() int {
	if b.used >= b.max {
		return 0
	}
	return b.max - b.used
}

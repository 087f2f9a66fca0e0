package failureManager

import (
	"asyncsim/network"
	"math/rand"
)

// A fault injector that crashes one process at random with a fixed probability in each step.
//
// In each step with remaining budget it draws a uniform value in [0,1).
// If the value is less than the configured probability, a victim is chosen uniformly among the alive processes with a second draw.
// No draws are consumed once the budget is exhausted.
type Probabilistic struct {
	p      float64
	budget budget
}

// Create a new Probabilistic fault injector.
//
// p is the probability of crashing a process in each step.
// maxFaults is the maximum number of crashes that will be performed.
func NewProbabilistic(p float64, maxFaults int) *Probabilistic {
	return &Probabilistic{
		p:      p,
		budget: budget{max: maxFaults},
	}
}

func (pf *Probabilistic) Inject(_ int, net *network.Network, rng *rand.Rand) ([]int, error) {
	if pf.budget.remaining() == 0 {
		return nil, nil
	}
	if rng.Float64() >= pf.p {
		return nil, nil
	}
	alive := net.AliveIds()
	if len(alive) == 0 {
		return nil, nil
	}
	victim := alive[rng.Intn(len(alive))]
	crashed, err := net.MarkCrashed(victim)
	if err != nil {
		return nil, err
	}
	if !crashed {
		return nil, nil
	}
	pf.budget.used++
	return []int{victim}, nil
}

func (pf *Probabilistic) Remaining() int {
	return pf.budget.remaining()
}

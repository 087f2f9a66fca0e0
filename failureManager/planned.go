package failureManager

import (
	"asyncsim/network"
	"math/rand"

	"golang.org/x/exp/slices"
)

// A crash of a specific process that is planned to happen at a specific step
type PlannedFault struct {
	Step    int `json:"step" yaml:"step"`
	Process int `json:"process" yaml:"process"`
}

// A fault injector that crashes a configured set of processes at configured steps.
//
// A planned crash is performed in the first invocation whose step is greater or equal to the planned step.
// Crashes of processes that have already crashed are skipped and do not use the budget.
// The injector never consumes random draws.
type Planned struct {
	plan   []PlannedFault
	next   int
	budget budget
}

// Create a new Planned fault injector.
//
// The plan is sorted by step, keeping the configured order for crashes planned at the same step.
// At most maxFaults crashes are performed.
func NewPlanned(plan []PlannedFault, maxFaults int) *Planned {
	sorted := slices.Clone(plan)
	slices.SortStableFunc(sorted, func(a, b PlannedFault) int {
		return a.Step - b.Step
	})
	return &Planned{
		plan:   sorted,
		budget: budget{max: maxFaults},
	}
}

func (pl *Planned) Inject(step int, net *network.Network, _ *rand.Rand) ([]int, error) {
	var crashed []int
	for pl.next < len(pl.plan) && pl.plan[pl.next].Step <= step {
		fault := pl.plan[pl.next]
		pl.next++
		if pl.budget.remaining() == 0 {
			continue
		}
		ok, err := net.MarkCrashed(fault.Process)
		if err != nil {
			return crashed, err
		}
		if ok {
			pl.budget.used++
			crashed = append(crashed, fault.Process)
		}
	}
	return crashed, nil
}

func (pl *Planned) Remaining() int {
	return pl.budget.remaining()
}

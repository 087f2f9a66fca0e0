package scheduler

import (
	"asyncsim/network"
	"fmt"
	"math/rand"
)

// A scheduler that replays a recorded sequence of links.
//
// Used to reproduce a run that was recorded, e.g. with the simulator Recorder,
// without depending on the random source. It consumes no random draws.
// Returns a ReplayDivergedError if the recorded link is not active when it is scheduled.
type Replay struct {
	run   []network.Link
	index int
}

// Create a new Replay scheduler that will schedule the provided links in order
func NewReplay(run []network.Link) *Replay {
	return &Replay{
		run:   run,
		index: 0,
	}
}

func (r *Replay) Select(links []network.Link, _ *rand.Rand) (network.Link, error) {
	if len(links) == 0 {
		return network.Link{}, NoActiveLinksError
	}
	if r.index >= len(r.run) {
		return network.Link{}, ReplayExhaustedError
	}
	next := r.run[r.index]
	for _, link := range links {
		if link == next {
			r.index++
			return link, nil
		}
	}
	return network.Link{}, fmt.Errorf("%w: link %v at position %v", ReplayDivergedError, next, r.index)
}

// The number of links that have been replayed
func (r *Replay) Replayed() int {
	return r.index
}

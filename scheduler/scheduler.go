package scheduler

import (
	"asyncsim/network"
	"errors"
	"math/rand"
)

// Selects the link whose earliest message is delivered in the next step of the simulation.
//
// The scheduler only chooses between links. The message delivered is always the oldest message on the chosen link.
type Scheduler interface {
	// Select one of the provided links.
	// Returns NoActiveLinksError if links is empty.
	// Any randomness must be drawn from rng so that runs can be reproduced from a seed.
	Select(links []network.Link, rng *rand.Rand) (network.Link, error)
}

var (
	NoActiveLinksError   = errors.New("scheduler: No active links to schedule")
	ReplayDivergedError  = errors.New("scheduler: The recorded link is not active. The run has diverged from the recording")
	ReplayExhaustedError = errors.New("scheduler: The recorded run has no more links")
)

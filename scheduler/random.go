package scheduler

import (
	"asyncsim/network"
	"math/rand"
)

// A scheduler implementing the Random Asynchronous Model.
//
// In every step it picks one of the active links with uniform probability.
// The probability does not depend on how many messages a link holds or how old they are.
// Exactly one random draw is consumed per selection.
type Random struct{}

// Create a new Random scheduler
func NewRandom() *Random {
	return &Random{}
}

// Select a link uniformly at random among the provided links.
//
// Returns NoActiveLinksError if there are no links to select from. No random draw is consumed in that case.
func (r *Random) Select(links []network.Link, rng *rand.Rand) (network.Link, error) {
	if len(links) == 0 {
		return network.Link{}, NoActiveLinksError
	}
	return links[rng.Intn(len(links))], nil
}

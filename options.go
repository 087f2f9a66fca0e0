package asyncsim

import (
	"math/rand"

	"asyncsim/logging"
	"asyncsim/scheduler"
	"asyncsim/simulator"
)

type Option interface{}

type loggerOption struct{ logger logging.LoggerI }

// Log the progress of the simulation with the provided logger.
//
// Default value is a logger that discards everything.
func WithLogger(logger logging.LoggerI) Option {
	return loggerOption{logger: logger}
}

type schedulerOption struct{ sch scheduler.Scheduler }

// Use the provided scheduler instead of the Random scheduler
func WithScheduler(sch scheduler.Scheduler) Option {
	return schedulerOption{sch: sch}
}

// Replay the recorded sequence of links instead of selecting links at random.
//
// The run is only reproduced if the protocol and the fault injector draw no random numbers.
func ReplayScheduler(run simulator.Trace) Option {
	return schedulerOption{sch: scheduler.NewReplay(run.Links())}
}

type randOption struct{ rng *rand.Rand }

// Use the provided random source instead of one seeded with the configured seed
func WithRand(rng *rand.Rand) Option {
	return randOption{rng: rng}
}

type checkerOption struct{ checker simulator.PropertyChecker }

// Check the provided properties at the end of the run.
//
// Default value is the consensus properties for the consensus protocol and nothing otherwise.
func WithChecker(checker simulator.PropertyChecker) Option {
	return checkerOption{checker: checker}
}

type observerOption struct{ observer simulator.Observer }

// Notify the observer about the events of the simulation.
// Can be applied multiple times to add multiple observers.
func WithObserver(o simulator.Observer) Option {
	return observerOption{observer: o}
}

package checking

import (
	"fmt"
	"strings"
)

// The processes of a run at the point they are checked.
//
// A simulation is checked once, after it halts, but a checker may also be run on an intermediate state.
type State[S any] struct {
	// Protocol state of every process, keyed by id
	LocalStates map[int]S
	// False for the processes that have crashed
	Correct map[int]bool
	// True if no further deliveries will happen in the run
	IsTerminal bool
}

type Predicate[S any] func(s State[S]) bool

// Wrap a liveness predicate.
// The predicate is only evaluated on a terminal state, an intermediate state can still make progress and always passes.
func Eventually[S any](pred Predicate[S]) Predicate[S] {
	return func(s State[S]) bool {
		return !s.IsTerminal || pred(s)
	}
}

// Returns true if cond holds for every process.
// Crashed processes are skipped if correctOnly is set.
func ForAllProcesses[S any](cond func(S) bool, s State[S], correctOnly bool) bool {
	for id, ls := range s.LocalStates {
		if correctOnly && !s.Correct[id] {
			continue
		}
		if !cond(ls) {
			return false
		}
	}
	return true
}

// A named predicate
type Property[S any] struct {
	Name string
	Pred Predicate[S]
}

// The result of checking a state against a set of properties
type Response struct {
	// True if all properties hold. False otherwise
	Result bool `json:"result"`
	// The names of the properties that do not hold, in the order they were configured
	Broken []string `json:"broken"`
}

// Returns true if all properties hold.
// The string describes which properties are broken.
func (r Response) Response() (bool, string) {
	if r.Result {
		return true, "All predicates holds"
	}
	return false, fmt.Sprintf("Predicates broken: %v", strings.Join(r.Broken, ", "))
}

type PredicateChecker[S any] struct {
	properties []Property[S]
}

func NewPredicateChecker[S any](properties ...Property[S]) *PredicateChecker[S] {
	return &PredicateChecker[S]{
		properties: properties,
	}
}

// Check all properties on the state.
// Every property is evaluated so that all broken properties are reported.
func (pc *PredicateChecker[S]) Check(s State[S]) Response {
	resp := Response{Result: true, Broken: []string{}}
	for _, prop := range pc.properties {
		if !prop.Pred(s) {
			resp.Result = false
			resp.Broken = append(resp.Broken, prop.Name)
		}
	}
	return resp
}

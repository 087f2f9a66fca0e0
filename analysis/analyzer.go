package analysis

import (
	"asyncsim/network"
	"fmt"
)

// A snapshot of the connectivity of the communication graphs at a given step
type Report struct {
	Step int `json:"step"`

	// Computed over the cumulative graph, which has an edge u->v once a message from u has been delivered to v.
	Edges             int  `json:"edges"`
	WeakComponents    int  `json:"weakComponents"`
	StrongComponents  int  `json:"strongComponents"`
	Partitioned       bool `json:"partitioned"`
	StronglyConnected bool `json:"stronglyConnected"`
	// The strongly connected components of the cumulative graph
	Components [][]int `json:"components"`

	// Computed over the pending graph, which has an edge u->v while a message from u to v is queued.
	PendingEdges          int  `json:"pendingEdges"`
	PendingWeakComponents int  `json:"pendingWeakComponents"`
	PendingPartitioned    bool `json:"pendingPartitioned"`
}

func (r Report) String() string {
	return fmt.Sprintf("Step %v: %v edges, %v weak, %v strong components, partitioned: %v, strongly connected: %v, pending edges: %v",
		r.Step, r.Edges, r.WeakComponents, r.StrongComponents, r.Partitioned, r.StronglyConnected, r.PendingEdges)
}

// Observes the communication of the processes and analyses the connectivity of the network.
//
// The analyzer only reads the data it is handed. It never changes the network or the processes.
type Analyzer struct {
	graph *Graph

	interval                  int
	stopWhenStronglyConnected bool

	weaklyConnectedAt   int
	stronglyConnectedAt int

	snapshots []Report
}

// Create an analyzer for a network of n processes.
//
// The connectivity is analysed every interval steps, zero disables the scheduled analysis.
// If stopWhenStronglyConnected is true no scheduled analysis is performed after the cumulative graph became strongly connected.
func NewAnalyzer(n, interval int, stopWhenStronglyConnected bool) *Analyzer {
	return &Analyzer{
		graph:                     NewGraph(n),
		interval:                  interval,
		stopWhenStronglyConnected: stopWhenStronglyConnected,
		weaklyConnectedAt:         -1,
		stronglyConnectedAt:       -1,
		snapshots:                 []Report{},
	}
}

// Record a delivered message in the cumulative graph
func (a *Analyzer) Observe(msg network.Message) {
	a.graph.AddEdge(msg.From, msg.To)
}

// Returns true if a scheduled analysis should be performed at the step
func (a *Analyzer) Due(step int) bool {
	if a.interval <= 0 || step%a.interval != 0 {
		return false
	}
	return !(a.stopWhenStronglyConnected && a.stronglyConnectedAt >= 0)
}

// Analyse the cumulative graph and the pending graph given by the pending links.
// The report is stored as a snapshot.
func (a *Analyzer) Analyze(step int, pending []network.Link) Report {
	r := a.Inspect(step, pending)
	if !r.Partitioned && a.graph.N() > 0 && a.weaklyConnectedAt < 0 {
		a.weaklyConnectedAt = step
	}
	if r.StronglyConnected && a.stronglyConnectedAt < 0 {
		a.stronglyConnectedAt = step
	}
	a.snapshots = append(a.snapshots, r)
	return r
}

// Same as Analyze, but the report is neither stored nor used to update the first connected steps
func (a *Analyzer) Inspect(step int, pending []network.Link) Report {
	n := a.graph.N()
	weak := a.graph.WeakComponents()
	strong := a.graph.StrongComponents()
	pendingGraph := FromLinks(n, pending)
	pendingWeak := pendingGraph.WeakComponents()

	return Report{
		Step:                  step,
		Edges:                 a.graph.Size(),
		WeakComponents:        len(weak),
		StrongComponents:      len(strong),
		Partitioned:           len(weak) > 1,
		StronglyConnected:     n > 0 && len(strong) == 1,
		Components:            strong,
		PendingEdges:          pendingGraph.Size(),
		PendingWeakComponents: len(pendingWeak),
		PendingPartitioned:    len(pendingWeak) > 1,
	}
}

// The first analysed step at which the cumulative graph was weakly connected
func (a *Analyzer) WeaklyConnectedAt() (int, bool) {
	return a.weaklyConnectedAt, a.weaklyConnectedAt >= 0
}

// The first analysed step at which the cumulative graph was strongly connected
func (a *Analyzer) StronglyConnectedAt() (int, bool) {
	return a.stronglyConnectedAt, a.stronglyConnectedAt >= 0
}

// All reports produced so far, in step order
func (a *Analyzer) Snapshots() []Report {
	out := make([]Report, len(a.snapshots))
	copy(out, a.snapshots)
	return out
}

// A copy of the cumulative graph
func (a *Analyzer) Graph() *Graph {
	return a.graph.Clone()
}

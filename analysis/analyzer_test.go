package analysis

import (
	"asyncsim/network"
	"testing"
)

func deliver(a *Analyzer, from, to int) {
	a.Observe(network.Message{From: from, To: to})
}

func TestAnalyzerCumulativeGraph(t *testing.T) {
	a := NewAnalyzer(3, 1, true)
	deliver(a, 0, 1)
	r := a.Analyze(1, []network.Link{{From: 1, To: 2}})
	if !r.Partitioned || r.WeakComponents != 2 || r.StronglyConnected {
		t.Errorf("Expected a partitioned graph. Got: %v", r)
	}
	if r.PendingEdges != 1 || r.PendingWeakComponents != 2 || !r.PendingPartitioned {
		t.Errorf("Expected the pending graph to have one edge. Got: %v", r)
	}
	if _, ok := a.WeaklyConnectedAt(); ok {
		t.Errorf("Did not expect the graph to be weakly connected")
	}

	deliver(a, 1, 2)
	r = a.Analyze(2, nil)
	if r.Partitioned || r.StronglyConnected || r.StrongComponents != 3 {
		t.Errorf("Expected a weakly connected graph. Got: %v", r)
	}
	if step, ok := a.WeaklyConnectedAt(); !ok || step != 2 {
		t.Errorf("Expected weak connectivity at step 2. Got: %v", step)
	}

	deliver(a, 2, 0)
	deliver(a, 2, 0)
	r = a.Analyze(3, nil)
	if !r.StronglyConnected || r.Edges != 3 {
		t.Errorf("Expected a strongly connected graph with 3 edges. Got: %v", r)
	}
	if step, ok := a.StronglyConnectedAt(); !ok || step != 3 {
		t.Errorf("Expected strong connectivity at step 3. Got: %v", step)
	}
	if step, _ := a.WeaklyConnectedAt(); step != 2 {
		t.Errorf("Expected the first weakly connected step to be kept. Got: %v", step)
	}
	if len(a.Snapshots()) != 3 {
		t.Errorf("Expected 3 snapshots. Got: %v", len(a.Snapshots()))
	}
}

func TestAnalyzerDue(t *testing.T) {
	for i, test := range dueTest {
		a := NewAnalyzer(2, test.interval, test.stop)
		if test.connected {
			deliver(a, 0, 1)
			deliver(a, 1, 0)
			a.Analyze(0, nil)
		}
		if out := a.Due(test.step); out != test.expected {
			t.Errorf("Test %v: Expected Due to be %v. Got: %v", i, test.expected, out)
		}
	}
}

func TestAnalyzerIsReadOnly(t *testing.T) {
	net := network.New(2)
	net.Enqueue(0, 1, 0, nil)
	a := NewAnalyzer(2, 1, false)
	a.Analyze(0, net.PendingLinks())
	if net.Pending() != 1 || net.ActiveCount() != 1 {
		t.Errorf("Expected the analysis to leave the network unchanged")
	}
	g := a.Graph()
	g.AddEdge(0, 1)
	if a.Analyze(1, nil).Edges != 0 {
		t.Errorf("Expected the returned graph to be a copy")
	}
}

var dueTest = []struct {
	interval  int
	stop      bool
	connected bool
	step      int
	expected  bool
}{
	{0, true, false, 0, false},
	{0, true, false, 10, false},
	{10, true, false, 10, true},
	{10, true, false, 15, false},
	{10, true, true, 20, false},
	{10, false, true, 20, true},
	{1, false, false, 7, true},
}

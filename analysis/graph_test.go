package analysis

import (
	"asyncsim/network"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

func randomLinks(rng *rand.Rand, n, m int) []network.Link {
	links := make([]network.Link, 0, m)
	for len(links) < m {
		from, to := rng.Intn(n), rng.Intn(n)
		if from != to {
			links = append(links, network.Link{From: from, To: to})
		}
	}
	return links
}

// Count the components with gonum as a reference
func referenceCounts(n int, links []network.Link) (weak, strong int) {
	directed := simple.NewDirectedGraph()
	undirected := simple.NewUndirectedGraph()
	for i := 0; i < n; i++ {
		directed.AddNode(simple.Node(i))
		undirected.AddNode(simple.Node(i))
	}
	for _, l := range links {
		directed.SetEdge(simple.Edge{F: simple.Node(l.From), T: simple.Node(l.To)})
		undirected.SetEdge(simple.Edge{F: simple.Node(l.From), T: simple.Node(l.To)})
	}
	return len(topo.ConnectedComponents(undirected)), len(topo.TarjanSCC(directed))
}

func TestComponentsMatchReference(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 200; i++ {
		n := 1 + rng.Intn(20)
		m := 0
		if n > 1 {
			m = rng.Intn(3 * n)
		}
		links := randomLinks(rng, n, m)
		g := FromLinks(n, links)

		weak, strong := referenceCounts(n, links)
		if got := len(g.WeakComponents()); got != weak {
			t.Errorf("Graph %v: Expected %v weak components. Got: %v", i, weak, got)
		}
		if got := len(g.StrongComponents()); got != strong {
			t.Errorf("Graph %v: Expected %v strong components. Got: %v", i, strong, got)
		}
	}
}

func TestComponents(t *testing.T) {
	for i, test := range componentTest {
		g := FromLinks(test.n, test.links)
		weak := g.WeakComponents()
		strong := g.StrongComponents()
		if !equalComponents(weak, test.weak) {
			t.Errorf("Test %v: Expected weak components %v. Got: %v", i, test.weak, weak)
		}
		if !equalComponents(strong, test.strong) {
			t.Errorf("Test %v: Expected strong components %v. Got: %v", i, test.strong, strong)
		}
	}
}

func TestGraphEdges(t *testing.T) {
	g := NewGraph(3)
	if !g.AddEdge(2, 0) || !g.AddEdge(0, 1) {
		t.Errorf("Expected new edges to be added")
	}
	if g.AddEdge(0, 1) {
		t.Errorf("Expected a parallel edge to collapse")
	}
	if g.AddEdge(1, 1) || g.AddEdge(0, 3) {
		t.Errorf("Expected self loops and out of range edges to be ignored")
	}
	edges := g.Edges()
	if len(edges) != 2 || edges[0] != (network.Link{From: 0, To: 1}) || edges[1] != (network.Link{From: 2, To: 0}) {
		t.Errorf("Expected sorted edges. Got: %v", edges)
	}

	c := g.Clone()
	c.AddEdge(1, 2)
	if g.HasEdge(1, 2) || g.Size() != 2 {
		t.Errorf("Expected the clone to be independent of the graph")
	}
}

func equalComponents(a, b [][]int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if len(a[i]) != len(b[i]) {
			return false
		}
		for j := range a[i] {
			if a[i][j] != b[i][j] {
				return false
			}
		}
	}
	return true
}

var componentTest = []struct {
	n      int
	links  []network.Link
	weak   [][]int
	strong [][]int
}{
	{
		n:      3,
		links:  []network.Link{},
		weak:   [][]int{{0}, {1}, {2}},
		strong: [][]int{{0}, {1}, {2}},
	},
	{
		n:      3,
		links:  []network.Link{{From: 0, To: 1}, {From: 1, To: 2}},
		weak:   [][]int{{0, 1, 2}},
		strong: [][]int{{0}, {1}, {2}},
	},
	{
		n:      3,
		links:  []network.Link{{From: 0, To: 1}, {From: 1, To: 2}, {From: 2, To: 0}},
		weak:   [][]int{{0, 1, 2}},
		strong: [][]int{{0, 1, 2}},
	},
	{
		n:      5,
		links:  []network.Link{{From: 0, To: 1}, {From: 1, To: 0}, {From: 3, To: 4}, {From: 4, To: 3}},
		weak:   [][]int{{0, 1}, {2}, {3, 4}},
		strong: [][]int{{0, 1}, {2}, {3, 4}},
	},
	{
		n:      4,
		links:  []network.Link{{From: 3, To: 2}, {From: 2, To: 3}, {From: 1, To: 2}, {From: 0, To: 1}, {From: 1, To: 0}},
		weak:   [][]int{{0, 1, 2, 3}},
		strong: [][]int{{0, 1}, {2, 3}},
	},
}

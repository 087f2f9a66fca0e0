package analysis

import (
	"asyncsim/network"

	"golang.org/x/exp/slices"
)

// A directed graph over the process ids 0..n-1.
// Parallel edges collapse into one edge, self loops are ignored.
type Graph struct {
	n     int
	edges map[network.Link]bool
	out   [][]int
}

func NewGraph(n int) *Graph {
	return &Graph{
		n:     n,
		edges: make(map[network.Link]bool),
		out:   make([][]int, n),
	}
}

// Create a graph from a list of edges
func FromLinks(n int, links []network.Link) *Graph {
	g := NewGraph(n)
	for _, l := range links {
		g.AddEdge(l.From, l.To)
	}
	return g
}

func (g *Graph) N() int {
	return g.n
}

// Add the edge from -> to. Returns true if the edge was not present before.
func (g *Graph) AddEdge(from, to int) bool {
	if from == to || from < 0 || to < 0 || from >= g.n || to >= g.n {
		return false
	}
	link := network.Link{From: from, To: to}
	if g.edges[link] {
		return false
	}
	g.edges[link] = true
	g.out[from] = append(g.out[from], to)
	return true
}

func (g *Graph) HasEdge(from, to int) bool {
	return g.edges[network.Link{From: from, To: to}]
}

// The number of distinct edges
func (g *Graph) Size() int {
	return len(g.edges)
}

// Return the edges sorted by source and then target
func (g *Graph) Edges() []network.Link {
	out := make([]network.Link, 0, len(g.edges))
	for from, targets := range g.out {
		for _, to := range targets {
			out = append(out, network.Link{From: from, To: to})
		}
	}
	slices.SortFunc(out, func(a, b network.Link) int {
		if a.From != b.From {
			return a.From - b.From
		}
		return a.To - b.To
	})
	return out
}

// Return a deep copy of the graph
func (g *Graph) Clone() *Graph {
	c := NewGraph(g.n)
	for from, targets := range g.out {
		c.out[from] = slices.Clone(targets)
	}
	for l := range g.edges {
		c.edges[l] = true
	}
	return c
}

// The weakly connected components of the graph, i.e. the components when the direction of the edges is ignored.
//
// Every component is sorted, the components are sorted by their smallest id.
func (g *Graph) WeakComponents() [][]int {
	uf := newUnionFind(g.n)
	for from, targets := range g.out {
		for _, to := range targets {
			uf.union(from, to)
		}
	}
	byRoot := make(map[int][]int)
	roots := []int{}
	for id := 0; id < g.n; id++ {
		r := uf.find(id)
		if _, ok := byRoot[r]; !ok {
			roots = append(roots, r)
		}
		byRoot[r] = append(byRoot[r], id)
	}
	out := make([][]int, 0, len(roots))
	for _, r := range roots {
		out = append(out, byRoot[r])
	}
	return out
}

// The strongly connected components of the graph, computed with Tarjan's algorithm.
//
// Every component is sorted, the components are sorted by their smallest id.
func (g *Graph) StrongComponents() [][]int {
	t := tarjan{
		g:       g,
		index:   make([]int, g.n),
		lowlink: make([]int, g.n),
		onStack: make([]bool, g.n),
	}
	for i := range t.index {
		t.index[i] = -1
	}
	for v := 0; v < g.n; v++ {
		if t.index[v] < 0 {
			t.strongConnect(v)
		}
	}
	for _, c := range t.components {
		slices.Sort(c)
	}
	slices.SortFunc(t.components, func(a, b []int) int {
		return a[0] - b[0]
	})
	return t.components
}

type tarjan struct {
	g          *Graph
	next       int
	index      []int
	lowlink    []int
	onStack    []bool
	stack      []int
	components [][]int
}

func (t *tarjan) strongConnect(v int) {
	t.index[v] = t.next
	t.lowlink[v] = t.next
	t.next++
	t.stack = append(t.stack, v)
	t.onStack[v] = true

	for _, w := range t.g.out[v] {
		if t.index[w] < 0 {
			t.strongConnect(w)
			t.lowlink[v] = min(t.lowlink[v], t.lowlink[w])
		} else if t.onStack[w] {
			t.lowlink[v] = min(t.lowlink[v], t.index[w])
		}
	}

	if t.lowlink[v] == t.index[v] {
		component := []int{}
		for {
			w := t.stack[len(t.stack)-1]
			t.stack = t.stack[:len(t.stack)-1]
			t.onStack[w] = false
			component = append(component, w)
			if w == v {
				break
			}
		}
		t.components = append(t.components, component)
	}
}

type unionFind struct {
	parent []int
	rank   []int
}

func newUnionFind(n int) *unionFind {
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	return &unionFind{parent: parent, rank: make([]int, n)}
}

func (u *unionFind) find(x int) int {
	for u.parent[x] != x {
		u.parent[x] = u.parent[u.parent[x]]
		x = u.parent[x]
	}
	return x
}

func (u *unionFind) union(a, b int) {
	ra, rb := u.find(a), u.find(b)
	if ra == rb {
		return
	}
	switch {
	case u.rank[ra] < u.rank[rb]:
		u.parent[ra] = rb
	case u.rank[ra] > u.rank[rb]:
		u.parent[rb] = ra
	default:
		u.parent[rb] = ra
		u.rank[ra]++
	}
}

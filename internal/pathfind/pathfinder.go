// Package pathfind finds routes across an area's waypoint graph.
//
// The graph is built once per area load and is immutable afterwards;
// reloading an area builds a new Pathfinder.
package pathfind

import (
	"container/heap"
	"log/slog"
	"math"

	"github.com/udisondev/areasim/internal/geom"
)

// Point is one authored graph point: 2D position and neighbor indices
// into the same point list.
type Point struct {
	X, Y      float64
	Neighbors []int
}

// ElevationFunc resolves the ground height under (x, y).
// ok=false means the point has no walkable ground and is dropped.
type ElevationFunc func(x, y float64) (z float64, ok bool)

// Finder is the read side of the pathfinder consumed by navigation.
type Finder interface {
	FindPath(from, to geom.Vec3) []geom.Vec3
}

type edge struct {
	to     int
	length float64
}

// Pathfinder holds the vertex list and symmetric adjacency of a waypoint graph.
type Pathfinder struct {
	vertices []geom.Vec3
	adjacent [][]edge
}

// New returns an empty pathfinder; FindPath falls back to a direct line.
func New() *Pathfinder {
	return &Pathfinder{}
}

// Load builds the graph. Points whose elevation cannot be resolved are
// skipped with a warning and references to them are dropped. Authored
// adjacency is not guaranteed to be symmetric, so every edge is mirrored.
func (p *Pathfinder) Load(points []Point, elevation ElevationFunc) {
	remap := make([]int, len(points))
	p.vertices = make([]geom.Vec3, 0, len(points))

	skipped := 0
	for i, pt := range points {
		z := 0.0
		if elevation != nil {
			var ok bool
			z, ok = elevation(pt.X, pt.Y)
			if !ok {
				remap[i] = -1
				skipped++
				slog.Warn("path point has no elevation, skipping", "index", i, "x", pt.X, "y", pt.Y)
				continue
			}
		}
		remap[i] = len(p.vertices)
		p.vertices = append(p.vertices, geom.V(pt.X, pt.Y, z))
	}

	links := make([]map[int]struct{}, len(p.vertices))
	for i := range links {
		links[i] = make(map[int]struct{})
	}

	repaired := 0
	for i, pt := range points {
		from := remap[i]
		if from < 0 {
			continue
		}
		for _, n := range pt.Neighbors {
			if n < 0 || n >= len(points) || remap[n] < 0 || remap[n] == from {
				continue
			}
			to := remap[n]
			links[from][to] = struct{}{}
			if _, ok := links[to][from]; !ok && !listsNeighbor(points[n], i) {
				repaired++
			}
			links[to][from] = struct{}{}
		}
	}

	p.adjacent = make([][]edge, len(p.vertices))
	for from, set := range links {
		edges := make([]edge, 0, len(set))
		for to := range set {
			edges = append(edges, edge{to: to, length: geom.Distance(p.vertices[from], p.vertices[to])})
		}
		sortEdges(edges)
		p.adjacent[from] = edges
	}

	if repaired > 0 {
		slog.Warn("path graph adjacency was asymmetric, mirrored edges", "edges", repaired)
	}
	slog.Debug("path graph loaded",
		"vertices", len(p.vertices),
		"skipped", skipped)
}

func listsNeighbor(pt Point, idx int) bool {
	for _, n := range pt.Neighbors {
		if n == idx {
			return true
		}
	}
	return false
}

// sortEdges keeps adjacency order by target index (insertion sort, lists are tiny).
func sortEdges(edges []edge) {
	for i := 1; i < len(edges); i++ {
		for j := i; j > 0 && edges[j].to < edges[j-1].to; j-- {
			edges[j], edges[j-1] = edges[j-1], edges[j]
		}
	}
}

// VertexCount returns the number of graph vertices.
func (p *Pathfinder) VertexCount() int {
	return len(p.vertices)
}

// Vertex returns vertex i.
func (p *Pathfinder) Vertex(i int) geom.Vec3 {
	return p.vertices[i]
}

// Neighbors returns the neighbor indices of vertex i in ascending order.
func (p *Pathfinder) Neighbors(i int) []int {
	out := make([]int, len(p.adjacent[i]))
	for k, e := range p.adjacent[i] {
		out[k] = e.to
	}
	return out
}

// FindPath returns a route from `from` to `to`. The first element is always
// the literal from and the last the literal to. With no graph the route is
// the direct line [from, to].
func (p *Pathfinder) FindPath(from, to geom.Vec3) []geom.Vec3 {
	if len(p.vertices) == 0 {
		return []geom.Vec3{from, to}
	}

	start := p.nearestVertex(from)
	goal := p.nearestVertex(to)

	chain := p.search(start, goal)

	path := make([]geom.Vec3, 0, len(chain)+2)
	path = append(path, from)
	for _, idx := range chain {
		v := p.vertices[idx]
		if v == path[len(path)-1] {
			continue
		}
		path = append(path, v)
	}
	if path[len(path)-1] != to {
		path = append(path, to)
	}
	if len(path) == 1 {
		// from == to: keep the two-point contract
		path = append(path, to)
	}
	return path
}

// nearestVertex is a linear scan by squared 2D distance; ties go to the lowest index.
func (p *Pathfinder) nearestVertex(pt geom.Vec3) int {
	best := 0
	bestDist := math.Inf(1)
	for i, v := range p.vertices {
		d := geom.DistanceSquared2D(v, pt)
		if d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}

// search runs A* with a Euclidean heuristic. Returns the vertex chain from
// start to goal, or just [start] when goal is unreachable.
func (p *Pathfinder) search(start, goal int) []int {
	if start == goal {
		return []int{start}
	}

	n := len(p.vertices)
	gCost := make([]float64, n)
	parent := make([]int, n)
	closed := make([]bool, n)
	for i := range gCost {
		gCost[i] = math.Inf(1)
		parent[i] = -1
	}
	gCost[start] = 0

	open := &nodeHeap{}
	seq := 0
	heap.Push(open, &searchNode{vertex: start, fCost: p.heuristic(start, goal), seq: seq})

	found := false
	for open.Len() > 0 {
		current := heap.Pop(open).(*searchNode)
		if closed[current.vertex] {
			continue
		}
		if current.vertex == goal {
			found = true
			break
		}
		closed[current.vertex] = true

		for _, e := range p.adjacent[current.vertex] {
			if closed[e.to] {
				continue
			}
			g := gCost[current.vertex] + e.length
			if g >= gCost[e.to] {
				continue
			}
			gCost[e.to] = g
			parent[e.to] = current.vertex
			seq++
			heap.Push(open, &searchNode{vertex: e.to, fCost: g + p.heuristic(e.to, goal), seq: seq})
		}
	}

	if !found {
		return []int{start}
	}

	chain := make([]int, 0, 16)
	for v := goal; v != -1; v = parent[v] {
		chain = append(chain, v)
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

func (p *Pathfinder) heuristic(from, to int) float64 {
	return geom.Distance(p.vertices[from], p.vertices[to])
}

// searchNode is an open-set entry. seq orders equal-cost entries by insertion.
type searchNode struct {
	vertex int
	fCost  float64
	seq    int
	index  int
}

// nodeHeap implements container/heap (min-heap by fCost, then seq).
type nodeHeap []*searchNode

func (h nodeHeap) Len() int { return len(h) }
func (h nodeHeap) Less(i, j int) bool {
	if h[i].fCost != h[j].fCost {
		return h[i].fCost < h[j].fCost
	}
	return h[i].seq < h[j].seq
}
func (h nodeHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i]; h[i].index = i; h[j].index = j }
func (h *nodeHeap) Push(x any)   { n := x.(*searchNode); n.index = len(*h); *h = append(*h, n) }
func (h *nodeHeap) Pop() any {
	old := *h
	n := len(old)
	node := old[n-1]
	old[n-1] = nil // GC
	node.index = -1
	*h = old[:n-1]
	return node
}

// Package routing computes shortest paths over the map graph.
//
// Distances are hop counts: every edge costs one step of travel, matching
// how players count movement on the board. When several minimum-hop paths
// exist, the one with the smallest summed Euclidean length is returned, so
// the drawn route hugs the map instead of zig-zagging.
//
// Edges can be excluded by an EdgeFilter, which is how externally tracked
// unlock conditions (the Boat Dock for water crossings, restored passages)
// gate traversal. An unreachable destination is a normal outcome, reported
// via the ok return, never an error.
package routing

import (
	"container/heap"

	"github.com/isofar/wayfinder/pkg/mapgraph"
)

// Unlock conditions recognised by AvailabilityFromUnlocks.
const (
	// UnlockBoatDock gates all water edges. Until the Boat Dock is built
	// the party cannot cross open water.
	UnlockBoatDock = "boat_dock"

	// UnlockRestoration gates edges flagged RequiresUnlock: passages that
	// only open once the relevant restoration project is finished.
	UnlockRestoration = "restoration"
)

// EdgeFilter reports whether an edge is currently traversable.
type EdgeFilter func(mapgraph.Edge) bool

// AllEdges is the filter that admits every edge.
func AllEdges(mapgraph.Edge) bool { return true }

// AvailabilityFromUnlocks builds an EdgeFilter from the player's unlocked
// condition set. Water edges need UnlockBoatDock; edges flagged
// RequiresUnlock need UnlockRestoration.
func AvailabilityFromUnlocks(unlocked map[string]bool) EdgeFilter {
	return func(e mapgraph.Edge) bool {
		if e.Type == mapgraph.EdgeWater && !unlocked[UnlockBoatDock] {
			return false
		}
		if e.RequiresUnlock && !unlocked[UnlockRestoration] {
			return false
		}
		return true
	}
}

// Path is a concrete route between two nodes.
type Path struct {
	Nodes  []string // node IDs from source to destination, inclusive
	Hops   int      // edge count, == len(Nodes)-1
	Length float64  // summed Euclidean length of the traversed edges
}

// Engine answers distance and path queries against the current graph state.
//
// Per-source hop distances are computed lazily by breadth-first search and
// cached; the cache is dropped automatically whenever the graph's version
// counter moves, so editor mutations are visible to the next query without
// any explicit invalidation call.
type Engine struct {
	graph  *mapgraph.Store
	filter EdgeFilter

	version uint64
	dist    map[string]map[string]int
}

// NewEngine creates an engine over the given store. A nil filter admits
// every edge.
func NewEngine(g *mapgraph.Store, filter EdgeFilter) *Engine {
	if filter == nil {
		filter = AllEdges
	}
	return &Engine{
		graph:  g,
		filter: filter,
		dist:   make(map[string]map[string]int),
	}
}

// neighbors returns the traversable neighbors of u in deterministic order.
func (e *Engine) neighbors(u string) []string {
	var out []string
	for _, v := range e.graph.Neighbors(u) {
		edge, ok := e.graph.Edge(u, v)
		if !ok || !e.filter(edge) {
			continue
		}
		out = append(out, v)
	}
	return out
}

// checkVersion drops cached distances if the graph changed underneath us.
func (e *Engine) checkVersion() {
	if v := e.graph.Version(); v != e.version {
		e.version = v
		e.dist = make(map[string]map[string]int)
	}
}

// bfs computes hop distances from a single source over the filtered graph.
func (e *Engine) bfs(from string) map[string]int {
	dist := map[string]int{from: 0}
	queue := []string{from}
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		for _, v := range e.neighbors(u) {
			if _, seen := dist[v]; !seen {
				dist[v] = dist[u] + 1
				queue = append(queue, v)
			}
		}
	}
	return dist
}

// Distance returns the minimum number of hops from one node to another
// under the current edge filter. The second return is false when no path
// exists (including unknown node IDs) - a normal planning outcome.
func (e *Engine) Distance(from, to string) (int, bool) {
	if _, ok := e.graph.Node(from); !ok {
		return 0, false
	}
	if _, ok := e.graph.Node(to); !ok {
		return 0, false
	}
	e.checkVersion()
	row, ok := e.dist[from]
	if !ok {
		row = e.bfs(from)
		e.dist[from] = row
	}
	d, ok := row[to]
	return d, ok
}

// Path returns a concrete minimum-hop path from one node to another.
// Among all minimum-hop paths it picks the one with the smallest summed
// Euclidean length, found by a weighted relaxation restricted to the BFS
// level structure. Returns false when the destination is unreachable.
func (e *Engine) Path(from, to string) (Path, bool) {
	if _, ok := e.Distance(from, to); !ok {
		return Path{}, false
	}
	if from == to {
		return Path{Nodes: []string{from}}, true
	}

	hop := e.dist[from]

	// Dijkstra over the shortest-path DAG: only edges that advance one BFS
	// level are considered, so any route found keeps the minimum hop count
	// while the relaxation minimises geometric length.
	length := map[string]float64{from: 0}
	prev := map[string]string{}
	pq := &nodeQueue{{id: from, priority: 0}}
	heap.Init(pq)

	for pq.Len() > 0 {
		item := heap.Pop(pq).(nodeItem)
		if l, ok := length[item.id]; ok && item.priority > l {
			continue
		}
		for _, v := range e.neighbors(item.id) {
			if hop[v] != hop[item.id]+1 {
				continue
			}
			nl := item.priority + e.graph.EdgeCost(item.id, v)
			if l, seen := length[v]; !seen || nl < l {
				length[v] = nl
				prev[v] = item.id
				heap.Push(pq, nodeItem{id: v, priority: nl})
			}
		}
	}

	nodes := []string{to}
	for cur := to; cur != from; {
		p, ok := prev[cur]
		if !ok {
			return Path{}, false // should not happen once Distance succeeded
		}
		nodes = append([]string{p}, nodes...)
		cur = p
	}
	return Path{Nodes: nodes, Hops: len(nodes) - 1, Length: length[to]}, true
}

// nodeItem is a priority-queue entry for the weighted relaxation.
type nodeItem struct {
	id       string
	priority float64
}

type nodeQueue []nodeItem

func (q nodeQueue) Len() int { return len(q) }
func (q nodeQueue) Less(i, j int) bool {
	if q[i].priority != q[j].priority {
		return q[i].priority < q[j].priority
	}
	return mapgraph.CompareIDs(q[i].id, q[j].id) < 0
}
func (q nodeQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *nodeQueue) Push(x any)   { *q = append(*q, x.(nodeItem)) }
func (q *nodeQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

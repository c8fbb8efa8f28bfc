// Package mapgraph holds the editable location graph traced over the game
// map: nodes with pixel positions and gathering metadata, and undirected
// edges between them.
//
// The zero value of Store is not usable - use New or FromSnapshot. Store is
// not safe for concurrent use; the application is single-threaded and
// ordering is call order.
package mapgraph

import (
	"errors"
	"math"
	"slices"
	"strconv"
	"strings"
)

var (
	// ErrDuplicateNodeID is returned by [Store.AddNode] when a node with the
	// same ID already exists in the graph. Node IDs must be unique.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrNodeNotFound is returned when an operation references a node ID
	// that is not present in the graph.
	ErrNodeNotFound = errors.New("node not found")

	// ErrEdgeNotFound is returned by [Store.SetEdgeUnlockRequirement] when
	// no edge exists between the given pair.
	ErrEdgeNotFound = errors.New("edge not found")

	// ErrSelfLoop is returned by [Store.ToggleEdge] when both endpoints are
	// the same node. The map graph has no self-loops.
	ErrSelfLoop = errors.New("edge endpoints must differ")
)

// Map image dimensions in pixels. Node positions are coordinates on this
// canvas, traced from the printed map.
const (
	MapWidth  = 3000
	MapHeight = 4511
)

// Node types. Numbered exploration nodes carry an empty type.
const (
	NodeTypeTown    = "town"
	NodeTypeSpecial = "special"
)

// EdgeType distinguishes land routes from water crossings. Water edges are
// only traversable once the Boat Dock has been built.
type EdgeType string

const (
	EdgeLand  EdgeType = "land"
	EdgeWater EdgeType = "water"
)

// Node is a location on the game map.
//
// The ID is immutable once created; the position may be mutated freely in
// editor mode. A node with no incident edges is legal but unreachable.
type Node struct {
	ID   string  // unique identifier: "42", "mir", "fw_ice_fields"
	X, Y float64 // pixel position on the map image
	Name string  // display name (defaults to ID)

	Type      string   // "", NodeTypeTown, or NodeTypeSpecial
	Chapters  []int    // chapters in which the node is active
	Enemies   []string // enemy names encountered here
	Resources []string // materials harvestable here
}

// IsTown reports whether the node is a town (market, route start candidate).
func (n Node) IsTown() bool { return n.Type == NodeTypeTown }

// DisplayName returns the name if set, otherwise the ID.
func (n Node) DisplayName() string {
	if n.Name != "" {
		return n.Name
	}
	return n.ID
}

// Edge is an undirected connection between two distinct nodes.
// A and B are kept in canonical order (A < B per CompareIDs).
type Edge struct {
	A, B string
	Type EdgeType

	// RequiresUnlock gates traversal on an externally tracked condition
	// (a constructed building) independent of the edge type.
	RequiresUnlock bool

	// Cost overrides the Euclidean length when non-zero. Used for edges
	// whose drawn length misrepresents travel effort (mountain passes).
	Cost float64
}

// Other returns the endpoint opposite to id, or "" if id is not an endpoint.
func (e Edge) Other(id string) string {
	switch id {
	case e.A:
		return e.B
	case e.B:
		return e.A
	}
	return ""
}

// edgeKey is the canonical unordered pair of endpoint IDs.
type edgeKey struct {
	a, b string
}

func keyFor(a, b string) edgeKey {
	if CompareIDs(a, b) > 0 {
		a, b = b, a
	}
	return edgeKey{a, b}
}

// Store is the single owner of all node and edge data.
//
// All other components read it for the duration of a planning request and
// never retain mutable aliases across requests, so edits made in the editor
// are immediately visible to subsequent planning calls.
type Store struct {
	nodes map[string]*Node
	edges map[edgeKey]*Edge
	adj   map[string][]string // neighbor IDs, unsorted

	version uint64 // bumped on every mutation
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		nodes: make(map[string]*Node),
		edges: make(map[edgeKey]*Edge),
		adj:   make(map[string][]string),
	}
}

// Version returns a counter that increases on every mutation. Consumers
// holding derived data (distance caches) compare versions instead of
// subscribing to change events.
func (s *Store) Version() uint64 { return s.version }

// AddNode adds a node to the graph and returns its ID.
// If n.ID is empty a fresh numeric ID is allocated (smallest unused).
// Returns ErrDuplicateNodeID if the ID is already in use.
// The node's slices are copied so the caller keeps no mutable alias.
func (s *Store) AddNode(n Node) (string, error) {
	if n.ID == "" {
		n.ID = s.allocateID()
	}
	if _, exists := s.nodes[n.ID]; exists {
		return "", ErrDuplicateNodeID
	}
	n.Chapters = slices.Clone(n.Chapters)
	n.Enemies = slices.Clone(n.Enemies)
	n.Resources = slices.Clone(n.Resources)
	node := &n
	s.nodes[node.ID] = node
	s.version++
	return node.ID, nil
}

// allocateID returns the smallest positive integer not in use as a node ID.
func (s *Store) allocateID() string {
	for i := 1; ; i++ {
		id := strconv.Itoa(i)
		if _, exists := s.nodes[id]; !exists {
			return id
		}
	}
}

// MoveNode updates a node's position.
// Returns ErrNodeNotFound if the ID is absent. Derived edge costs are
// Euclidean and computed on demand, so no cache is kept here; the version
// bump invalidates any caches held by consumers.
func (s *Store) MoveNode(id string, x, y float64) error {
	n, ok := s.nodes[id]
	if !ok {
		return ErrNodeNotFound
	}
	n.X, n.Y = x, y
	s.version++
	return nil
}

// RemoveNode removes the node and all incident edges atomically.
// Returns ErrNodeNotFound if the ID is absent.
func (s *Store) RemoveNode(id string) error {
	if _, ok := s.nodes[id]; !ok {
		return ErrNodeNotFound
	}
	for _, nb := range s.adj[id] {
		delete(s.edges, keyFor(id, nb))
		s.adj[nb] = slices.DeleteFunc(s.adj[nb], func(v string) bool { return v == id })
	}
	delete(s.adj, id)
	delete(s.nodes, id)
	s.version++
	return nil
}

// ToggleEdge creates the a-b edge if absent and removes it if present,
// mirroring the editor's click-to-connect interaction. A newly created edge
// gets the given type and a cost derived from the current endpoint
// positions. Reports whether an edge now exists between the pair.
//
// Returns ErrSelfLoop when a == b and ErrNodeNotFound when either endpoint
// is absent.
func (s *Store) ToggleEdge(a, b string, typ EdgeType) (bool, error) {
	if a == b {
		return false, ErrSelfLoop
	}
	if _, ok := s.nodes[a]; !ok {
		return false, ErrNodeNotFound
	}
	if _, ok := s.nodes[b]; !ok {
		return false, ErrNodeNotFound
	}
	key := keyFor(a, b)
	if _, exists := s.edges[key]; exists {
		delete(s.edges, key)
		s.adj[a] = slices.DeleteFunc(s.adj[a], func(v string) bool { return v == b })
		s.adj[b] = slices.DeleteFunc(s.adj[b], func(v string) bool { return v == a })
		s.version++
		return false, nil
	}
	if typ == "" {
		typ = EdgeLand
	}
	s.edges[key] = &Edge{A: key.a, B: key.b, Type: typ}
	s.adj[a] = append(s.adj[a], b)
	s.adj[b] = append(s.adj[b], a)
	s.version++
	return true, nil
}

// SetEdgeUnlockRequirement flags whether the a-b edge needs an external
// unlock condition before it is traversable.
// Returns ErrEdgeNotFound if no such edge exists.
func (s *Store) SetEdgeUnlockRequirement(a, b string, requiresUnlock bool) error {
	e, ok := s.edges[keyFor(a, b)]
	if !ok {
		return ErrEdgeNotFound
	}
	e.RequiresUnlock = requiresUnlock
	s.version++
	return nil
}

// Node returns a copy of the node with the given ID.
func (s *Store) Node(id string) (Node, bool) {
	n, ok := s.nodes[id]
	if !ok {
		return Node{}, false
	}
	return *n, true
}

// Edge returns a copy of the edge between a and b, in canonical order.
func (s *Store) Edge(a, b string) (Edge, bool) {
	e, ok := s.edges[keyFor(a, b)]
	if !ok {
		return Edge{}, false
	}
	return *e, true
}

// Nodes returns copies of all nodes sorted by ID (numeric IDs first, in
// numeric order, then named IDs lexicographically) for deterministic output.
func (s *Store) Nodes() []Node {
	nodes := make([]Node, 0, len(s.nodes))
	for _, n := range s.nodes {
		nodes = append(nodes, *n)
	}
	slices.SortFunc(nodes, func(a, b Node) int { return CompareIDs(a.ID, b.ID) })
	return nodes
}

// Edges returns copies of all edges sorted by endpoint IDs.
func (s *Store) Edges() []Edge {
	edges := make([]Edge, 0, len(s.edges))
	for _, e := range s.edges {
		edges = append(edges, *e)
	}
	slices.SortFunc(edges, func(x, y Edge) int {
		if c := CompareIDs(x.A, y.A); c != 0 {
			return c
		}
		return CompareIDs(x.B, y.B)
	})
	return edges
}

// Neighbors returns the IDs adjacent to id, sorted for determinism.
// Returns nil for an unknown or isolated node.
func (s *Store) Neighbors(id string) []string {
	nbs := slices.Clone(s.adj[id])
	slices.SortFunc(nbs, CompareIDs)
	return nbs
}

// NodeCount returns the number of nodes in the graph.
func (s *Store) NodeCount() int { return len(s.nodes) }

// EdgeCount returns the number of edges in the graph.
func (s *Store) EdgeCount() int { return len(s.edges) }

// EdgeCost returns the traversal length of the a-b edge: the explicit cost
// override when set, otherwise the Euclidean distance between the current
// endpoint positions. Returns +Inf for a missing edge.
func (s *Store) EdgeCost(a, b string) float64 {
	e, ok := s.edges[keyFor(a, b)]
	if !ok {
		return math.Inf(1)
	}
	if e.Cost > 0 {
		return e.Cost
	}
	na, okA := s.nodes[e.A]
	nb, okB := s.nodes[e.B]
	if !okA || !okB {
		return math.Inf(1)
	}
	return math.Hypot(na.X-nb.X, na.Y-nb.Y)
}

// Clone returns a deep copy of the store. The copy starts at version 0.
func (s *Store) Clone() *Store {
	c := New()
	for id, n := range s.nodes {
		cp := *n
		cp.Chapters = slices.Clone(n.Chapters)
		cp.Enemies = slices.Clone(n.Enemies)
		cp.Resources = slices.Clone(n.Resources)
		c.nodes[id] = &cp
	}
	for k, e := range s.edges {
		cp := *e
		c.edges[k] = &cp
	}
	for id, nbs := range s.adj {
		c.adj[id] = slices.Clone(nbs)
	}
	return c
}

// CompareIDs orders node IDs the way the map lists them: numeric IDs first
// in numeric order, then named IDs (towns, special areas) lexicographically.
func CompareIDs(a, b string) int {
	na, aNum := strconv.Atoi(a)
	nb, bNum := strconv.Atoi(b)
	switch {
	case aNum == nil && bNum == nil:
		if na != nb {
			if na < nb {
				return -1
			}
			return 1
		}
		return 0
	case aNum == nil:
		return -1
	case bNum == nil:
		return 1
	}
	return strings.Compare(a, b)
}

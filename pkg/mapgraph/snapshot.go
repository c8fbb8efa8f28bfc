package mapgraph

import (
	"bytes"
	"encoding/json"
	"io"
	"os"

	"github.com/isofar/wayfinder/pkg/errors"
)

// SnapshotVersion is the current snapshot format version. Decoding rejects
// snapshots written by a newer format.
const SnapshotVersion = 1

// Snapshot is the canonical serialization format for the map graph.
// Used for export/import, persisted storage, and the baked-in default.
//
// The format is human-readable and designed for round-trip fidelity:
// export → import produces an identical node and edge set.
type Snapshot struct {
	Version int            `json:"version"`
	Nodes   []SnapshotNode `json:"nodes"`
	Edges   []SnapshotEdge `json:"edges"`
}

// SnapshotNode is the serialized form of a Node.
type SnapshotNode struct {
	ID        string   `json:"id"`
	X         float64  `json:"x"`
	Y         float64  `json:"y"`
	Name      string   `json:"name,omitempty"`
	Type      string   `json:"type,omitempty"`
	Chapters  []int    `json:"chapters,omitempty"`
	Enemies   []string `json:"enemies,omitempty"`
	Resources []string `json:"resources,omitempty"`
}

// SnapshotEdge is the serialized form of an Edge.
type SnapshotEdge struct {
	A              string   `json:"a"`
	B              string   `json:"b"`
	Type           EdgeType `json:"type,omitempty"`
	RequiresUnlock bool     `json:"requires_unlock,omitempty"`
	Cost           float64  `json:"cost,omitempty"`
}

// Snapshot captures the current graph state in deterministic order.
func (s *Store) Snapshot() Snapshot {
	snap := Snapshot{
		Version: SnapshotVersion,
		Nodes:   make([]SnapshotNode, 0, len(s.nodes)),
		Edges:   make([]SnapshotEdge, 0, len(s.edges)),
	}
	for _, n := range s.Nodes() {
		snap.Nodes = append(snap.Nodes, SnapshotNode{
			ID:        n.ID,
			X:         n.X,
			Y:         n.Y,
			Name:      n.Name,
			Type:      n.Type,
			Chapters:  n.Chapters,
			Enemies:   n.Enemies,
			Resources: n.Resources,
		})
	}
	for _, e := range s.Edges() {
		typ := e.Type
		if typ == EdgeLand {
			typ = "" // land is the default; keep snapshots compact
		}
		snap.Edges = append(snap.Edges, SnapshotEdge{
			A:              e.A,
			B:              e.B,
			Type:           typ,
			RequiresUnlock: e.RequiresUnlock,
			Cost:           e.Cost,
		})
	}
	return snap
}

// FromSnapshot builds a Store from a snapshot, validating fully before any
// state is created. On error the returned store is nil and nothing is
// partially applied.
func FromSnapshot(snap Snapshot) (*Store, error) {
	if err := ValidateSnapshot(snap); err != nil {
		return nil, err
	}
	s := New()
	for _, sn := range snap.Nodes {
		_, _ = s.AddNode(Node{
			ID:        sn.ID,
			X:         sn.X,
			Y:         sn.Y,
			Name:      sn.Name,
			Type:      sn.Type,
			Chapters:  sn.Chapters,
			Enemies:   sn.Enemies,
			Resources: sn.Resources,
		})
	}
	for _, se := range snap.Edges {
		typ := se.Type
		if typ == "" {
			typ = EdgeLand
		}
		key := keyFor(se.A, se.B)
		s.edges[key] = &Edge{
			A:              key.a,
			B:              key.b,
			Type:           typ,
			RequiresUnlock: se.RequiresUnlock,
			Cost:           se.Cost,
		}
		s.adj[se.A] = append(s.adj[se.A], se.B)
		s.adj[se.B] = append(s.adj[se.B], se.A)
	}
	s.version = 0
	return s, nil
}

// ValidateSnapshot checks structural integrity: a supported version, valid
// unique node IDs, in-bounds finite positions, and edges between distinct
// existing endpoints with no duplicates. Returns a FORMAT_* coded error on
// the first violation.
func ValidateSnapshot(snap Snapshot) error {
	if snap.Version > SnapshotVersion || snap.Version < 1 {
		return errors.New(errors.ErrCodeFormatVersion, "unsupported snapshot version %d", snap.Version)
	}
	seen := make(map[string]bool, len(snap.Nodes))
	for _, n := range snap.Nodes {
		if err := errors.ValidateNodeID(n.ID); err != nil {
			return errors.Wrap(errors.ErrCodeFormat, err, "node %q", n.ID)
		}
		if seen[n.ID] {
			return errors.New(errors.ErrCodeFormat, "duplicate node id %q", n.ID)
		}
		seen[n.ID] = true
		if err := errors.ValidatePosition(n.X, n.Y, MapWidth, MapHeight); err != nil {
			return errors.Wrap(errors.ErrCodeFormat, err, "node %q", n.ID)
		}
		switch n.Type {
		case "", NodeTypeTown, NodeTypeSpecial:
		default:
			return errors.New(errors.ErrCodeFormat, "node %q has unknown type %q", n.ID, n.Type)
		}
	}
	seenEdges := make(map[edgeKey]bool, len(snap.Edges))
	for _, e := range snap.Edges {
		if e.A == e.B {
			return errors.New(errors.ErrCodeFormat, "self-loop edge on %q", e.A)
		}
		if !seen[e.A] || !seen[e.B] {
			return errors.New(errors.ErrCodeFormat, "edge %s-%s references missing node", e.A, e.B)
		}
		key := keyFor(e.A, e.B)
		if seenEdges[key] {
			return errors.New(errors.ErrCodeFormat, "duplicate edge %s-%s", key.a, key.b)
		}
		seenEdges[key] = true
		switch e.Type {
		case "", EdgeLand, EdgeWater:
		default:
			return errors.New(errors.ErrCodeFormat, "edge %s-%s has unknown type %q", e.A, e.B, e.Type)
		}
		if e.Cost < 0 {
			return errors.New(errors.ErrCodeFormat, "edge %s-%s has negative cost", e.A, e.B)
		}
	}
	return nil
}

// MarshalSnapshot converts the store's snapshot to indented JSON bytes.
func MarshalSnapshot(s *Store) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteSnapshot(s, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteSnapshot writes the store as JSON to an io.Writer.
func WriteSnapshot(s *Store, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s.Snapshot()); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode snapshot")
	}
	return nil
}

// WriteSnapshotFile writes the store to a JSON file with 0644 permissions.
func WriteSnapshotFile(s *Store, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "create %s", path)
	}
	defer f.Close()
	return WriteSnapshot(s, f)
}

// snapshotFile mirrors Snapshot with pointer fields so decoding can tell a
// missing required array from an empty one.
type snapshotFile struct {
	Version *int            `json:"version"`
	Nodes   *[]SnapshotNode `json:"nodes"`
	Edges   *[]SnapshotEdge `json:"edges"`
}

// UnmarshalSnapshot decodes and validates JSON snapshot bytes.
// Returns a FORMAT_* coded error on malformed input or missing required
// fields; the caller's current graph is never touched.
func UnmarshalSnapshot(data []byte) (Snapshot, error) {
	var file snapshotFile
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&file); err != nil {
		return Snapshot{}, errors.Wrap(errors.ErrCodeFormat, err, "decode snapshot")
	}
	if file.Version == nil {
		return Snapshot{}, errors.New(errors.ErrCodeFormat, "snapshot missing version field")
	}
	if file.Nodes == nil {
		return Snapshot{}, errors.New(errors.ErrCodeFormat, "snapshot missing nodes array")
	}
	if file.Edges == nil {
		return Snapshot{}, errors.New(errors.ErrCodeFormat, "snapshot missing edges array")
	}
	snap := Snapshot{Version: *file.Version, Nodes: *file.Nodes, Edges: *file.Edges}
	if err := ValidateSnapshot(snap); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// ReadSnapshot decodes a snapshot from an io.Reader into a new Store.
func ReadSnapshot(r io.Reader) (*Store, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "read snapshot")
	}
	snap, err := UnmarshalSnapshot(data)
	if err != nil {
		return nil, err
	}
	return FromSnapshot(snap)
}

// ReadSnapshotFile reads a JSON snapshot file into a new Store.
func ReadSnapshotFile(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "open %s", path)
	}
	defer f.Close()
	return ReadSnapshot(f)
}

// Package editor provides an interactive editing session over the map
// graph: mutation commands, JSON snapshot import/export, and
// persistence of a single named snapshot.
//
// Import is atomic: a snapshot is fully validated before it replaces
// the current graph, so a malformed import leaves the session exactly
// as it was.
package editor

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/isofar/wayfinder/pkg/errors"
	"github.com/isofar/wayfinder/pkg/mapgraph"
	"github.com/isofar/wayfinder/pkg/refdata"
)

// Change records one applied edit command for the session audit trail.
type Change struct {
	Seq     int
	Session string
	Time    time.Time
	Op      string
	Detail  string
}

// Session wraps a map graph with edit commands and persistence.
type Session struct {
	// ID identifies the session in logs and on its audit trail.
	ID string

	store   SnapshotStore
	graph   *mapgraph.Store
	dirty   bool
	history []Change
}

// NewSession opens an editing session backed by the given store. The
// persisted snapshot is loaded when present; otherwise the session
// starts from the embedded default map.
func NewSession(ctx context.Context, store SnapshotStore) (*Session, error) {
	s := &Session{
		ID:    uuid.NewString(),
		store: store,
	}
	data, err := store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if data == nil {
		g, err := refdata.DefaultGraph()
		if err != nil {
			return nil, err
		}
		s.graph = g
		return s, nil
	}
	if err := s.ImportSnapshot(data); err != nil {
		return nil, err
	}
	s.dirty = false
	return s, nil
}

// NewSessionWithGraph opens a session over an existing graph.
// Used by tests and by commands that already hold a graph.
func NewSessionWithGraph(store SnapshotStore, graph *mapgraph.Store) *Session {
	return &Session{
		ID:    uuid.NewString(),
		store: store,
		graph: graph,
	}
}

// Graph returns the live graph for reading and route planning.
func (s *Session) Graph() *mapgraph.Store {
	return s.graph
}

// Dirty reports whether the graph has unsaved changes.
func (s *Session) Dirty() bool {
	return s.dirty
}

// History returns the audit trail of commands applied in this session,
// in application order.
func (s *Session) History() []Change {
	out := make([]Change, len(s.history))
	copy(out, s.history)
	return out
}

func (s *Session) record(op, format string, args ...any) {
	s.history = append(s.history, Change{
		Seq:     len(s.history) + 1,
		Session: s.ID,
		Time:    time.Now(),
		Op:      op,
		Detail:  fmt.Sprintf(format, args...),
	})
}

// AddNode creates a node and returns its id.
func (s *Session) AddNode(n mapgraph.Node) (string, error) {
	id, err := s.graph.AddNode(n)
	if err != nil {
		return "", err
	}
	s.dirty = true
	s.record("add_node", "id=%s name=%q", id, n.Name)
	return id, nil
}

// MoveNode updates a node's position.
func (s *Session) MoveNode(id string, x, y float64) error {
	if err := s.graph.MoveNode(id, x, y); err != nil {
		return err
	}
	s.dirty = true
	s.record("move_node", "id=%s x=%.0f y=%.0f", id, x, y)
	return nil
}

// RemoveNode deletes a node and its incident edges.
func (s *Session) RemoveNode(id string) error {
	if err := s.graph.RemoveNode(id); err != nil {
		return err
	}
	s.dirty = true
	s.record("remove_node", "id=%s", id)
	return nil
}

// ToggleEdge creates the edge if absent and removes it if present.
// Returns true when the edge exists after the call.
func (s *Session) ToggleEdge(a, b string, typ mapgraph.EdgeType) (bool, error) {
	created, err := s.graph.ToggleEdge(a, b, typ)
	if err != nil {
		return false, err
	}
	s.dirty = true
	if created {
		s.record("add_edge", "%s--%s type=%s", a, b, typ)
	} else {
		s.record("remove_edge", "%s--%s", a, b)
	}
	return created, nil
}

// SetEdgeUnlockRequirement marks an edge as gated on an unlock.
func (s *Session) SetEdgeUnlockRequirement(a, b string, requiresUnlock bool) error {
	if err := s.graph.SetEdgeUnlockRequirement(a, b, requiresUnlock); err != nil {
		return err
	}
	s.dirty = true
	s.record("set_edge_unlock", "%s--%s requires_unlock=%t", a, b, requiresUnlock)
	return nil
}

// ExportSnapshot serializes the current graph in the same JSON format
// used for persistence.
func (s *Session) ExportSnapshot() ([]byte, error) {
	return mapgraph.MarshalSnapshot(s.graph)
}

// ImportSnapshot replaces the entire graph with the given snapshot.
// The snapshot is validated first; on any failure the prior graph is
// retained unchanged and a format error is returned.
func (s *Session) ImportSnapshot(data []byte) error {
	snap, err := mapgraph.UnmarshalSnapshot(data)
	if err != nil {
		return err
	}
	g, err := mapgraph.FromSnapshot(snap)
	if err != nil {
		return err
	}
	s.graph = g
	s.dirty = true
	s.record("import_snapshot", "%d nodes, %d edges", g.NodeCount(), g.EdgeCount())
	return nil
}

// Save persists the current graph under the fixed snapshot key,
// overwriting any prior save.
func (s *Session) Save(ctx context.Context) error {
	data, err := s.ExportSnapshot()
	if err != nil {
		return err
	}
	if err := s.store.Save(ctx, data); err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "saving snapshot")
	}
	s.dirty = false
	return nil
}

// Load replaces the graph with the persisted snapshot. Fails with a
// not-found error when nothing has been saved yet.
func (s *Session) Load(ctx context.Context) error {
	data, err := s.store.Load(ctx)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "loading snapshot")
	}
	if data == nil {
		return errors.New(errors.ErrCodeNotFound, "no saved map snapshot")
	}
	if err := s.ImportSnapshot(data); err != nil {
		return err
	}
	s.dirty = false
	return nil
}

// ResetToDefault discards the current graph and restores the embedded
// default map. The persisted snapshot is untouched until Save.
func (s *Session) ResetToDefault() error {
	g, err := refdata.DefaultGraph()
	if err != nil {
		return err
	}
	s.graph = g
	s.dirty = true
	s.record("reset", "restored default map")
	return nil
}

package mapgraph

import (
	"errors"
	"math"
	"testing"
)

func TestAddNode(t *testing.T) {
	s := New()

	id, err := s.AddNode(Node{ID: "mir", X: 100, Y: 200, Name: "Mir", Type: NodeTypeTown})
	if err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	if id != "mir" {
		t.Errorf("id = %q, want mir", id)
	}

	if _, err := s.AddNode(Node{ID: "mir", X: 1, Y: 1}); !errors.Is(err, ErrDuplicateNodeID) {
		t.Errorf("duplicate AddNode error = %v, want ErrDuplicateNodeID", err)
	}

	n, ok := s.Node("mir")
	if !ok {
		t.Fatal("Node(mir) not found")
	}
	if !n.IsTown() || n.DisplayName() != "Mir" {
		t.Errorf("node = %+v", n)
	}
}

func TestAddNodeAllocatesID(t *testing.T) {
	s := New()
	for _, id := range []string{"1", "2", "4"} {
		if _, err := s.AddNode(Node{ID: id}); err != nil {
			t.Fatalf("AddNode(%s): %v", id, err)
		}
	}

	// Smallest unused numeric ID is 3.
	id, err := s.AddNode(Node{X: 10, Y: 10})
	if err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	if id != "3" {
		t.Errorf("allocated id = %q, want 3", id)
	}
}

func TestMoveNode(t *testing.T) {
	s := New()
	s.AddNode(Node{ID: "1", X: 0, Y: 0})

	v := s.Version()
	if err := s.MoveNode("1", 55, 66); err != nil {
		t.Fatalf("MoveNode: %v", err)
	}
	n, _ := s.Node("1")
	if n.X != 55 || n.Y != 66 {
		t.Errorf("position = (%v, %v), want (55, 66)", n.X, n.Y)
	}
	if s.Version() == v {
		t.Error("MoveNode did not bump version")
	}

	if err := s.MoveNode("ghost", 1, 1); !errors.Is(err, ErrNodeNotFound) {
		t.Errorf("MoveNode(ghost) error = %v, want ErrNodeNotFound", err)
	}
}

func TestRemoveNodeCascades(t *testing.T) {
	s := New()
	s.AddNode(Node{ID: "a"})
	s.AddNode(Node{ID: "b"})
	s.AddNode(Node{ID: "c"})
	s.ToggleEdge("a", "b", EdgeLand)
	s.ToggleEdge("b", "c", EdgeLand)

	if err := s.RemoveNode("b"); err != nil {
		t.Fatalf("RemoveNode: %v", err)
	}
	if s.NodeCount() != 2 || s.EdgeCount() != 0 {
		t.Errorf("after cascade: %d nodes, %d edges, want 2, 0", s.NodeCount(), s.EdgeCount())
	}
	if nbs := s.Neighbors("a"); len(nbs) != 0 {
		t.Errorf("Neighbors(a) = %v, want empty", nbs)
	}

	if err := s.RemoveNode("b"); !errors.Is(err, ErrNodeNotFound) {
		t.Errorf("second RemoveNode error = %v, want ErrNodeNotFound", err)
	}
}

func TestToggleEdge(t *testing.T) {
	s := New()
	s.AddNode(Node{ID: "1", X: 0, Y: 0})
	s.AddNode(Node{ID: "2", X: 3, Y: 4})

	created, err := s.ToggleEdge("1", "2", EdgeLand)
	if err != nil || !created {
		t.Fatalf("ToggleEdge create = (%v, %v), want (true, nil)", created, err)
	}
	if got := s.EdgeCost("1", "2"); got != 5 {
		t.Errorf("EdgeCost = %v, want 5 (Euclidean)", got)
	}

	// Toggling again removes, regardless of argument order.
	created, err = s.ToggleEdge("2", "1", EdgeLand)
	if err != nil || created {
		t.Fatalf("ToggleEdge remove = (%v, %v), want (false, nil)", created, err)
	}
	if s.EdgeCount() != 0 {
		t.Errorf("EdgeCount = %d, want 0", s.EdgeCount())
	}

	if _, err := s.ToggleEdge("1", "1", EdgeLand); !errors.Is(err, ErrSelfLoop) {
		t.Errorf("self-loop error = %v, want ErrSelfLoop", err)
	}
	if _, err := s.ToggleEdge("1", "ghost", EdgeLand); !errors.Is(err, ErrNodeNotFound) {
		t.Errorf("missing endpoint error = %v, want ErrNodeNotFound", err)
	}
}

func TestSetEdgeUnlockRequirement(t *testing.T) {
	s := New()
	s.AddNode(Node{ID: "ryba"})
	s.AddNode(Node{ID: "42"})
	s.ToggleEdge("ryba", "42", EdgeWater)

	if err := s.SetEdgeUnlockRequirement("42", "ryba", true); err != nil {
		t.Fatalf("SetEdgeUnlockRequirement: %v", err)
	}
	e, ok := s.Edge("ryba", "42")
	if !ok || !e.RequiresUnlock || e.Type != EdgeWater {
		t.Errorf("edge = %+v, ok = %v", e, ok)
	}

	if err := s.SetEdgeUnlockRequirement("42", "ghost", true); !errors.Is(err, ErrEdgeNotFound) {
		t.Errorf("missing edge error = %v, want ErrEdgeNotFound", err)
	}
}

func TestEdgeCostOverride(t *testing.T) {
	s := New()
	s.AddNode(Node{ID: "1", X: 0, Y: 0})
	s.AddNode(Node{ID: "2", X: 30, Y: 40})
	s.ToggleEdge("1", "2", EdgeLand)

	e, _ := s.Edge("1", "2")
	e.Cost = 7
	s.edges[keyFor("1", "2")].Cost = 7
	if got := s.EdgeCost("1", "2"); got != 7 {
		t.Errorf("EdgeCost with override = %v, want 7", got)
	}

	if got := s.EdgeCost("1", "ghost"); !math.IsInf(got, 1) {
		t.Errorf("EdgeCost missing edge = %v, want +Inf", got)
	}
}

func TestMoveNodeUpdatesDerivedCost(t *testing.T) {
	s := New()
	s.AddNode(Node{ID: "1", X: 0, Y: 0})
	s.AddNode(Node{ID: "2", X: 3, Y: 4})
	s.ToggleEdge("1", "2", EdgeLand)

	s.MoveNode("2", 6, 8)
	if got := s.EdgeCost("1", "2"); got != 10 {
		t.Errorf("EdgeCost after move = %v, want 10", got)
	}
}

func TestDeterministicOrdering(t *testing.T) {
	s := New()
	for _, id := range []string{"vouno", "10", "2", "mir", "1"} {
		s.AddNode(Node{ID: id})
	}
	s.ToggleEdge("mir", "1", EdgeLand)
	s.ToggleEdge("2", "1", EdgeLand)

	var ids []string
	for _, n := range s.Nodes() {
		ids = append(ids, n.ID)
	}
	want := []string{"1", "2", "10", "mir", "vouno"}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("Nodes order = %v, want %v", ids, want)
		}
	}

	edges := s.Edges()
	if edges[0].A != "1" || edges[0].B != "2" {
		t.Errorf("first edge = %+v, want 1-2", edges[0])
	}
	if edges[1].A != "1" || edges[1].B != "mir" {
		t.Errorf("second edge = %+v, want 1-mir", edges[1])
	}
}

func TestClone(t *testing.T) {
	s := New()
	s.AddNode(Node{ID: "1", Resources: []string{"Iron"}})
	s.AddNode(Node{ID: "2"})
	s.ToggleEdge("1", "2", EdgeLand)

	c := s.Clone()
	c.MoveNode("1", 99, 99)
	c.ToggleEdge("1", "2", EdgeLand)

	if n, _ := s.Node("1"); n.X == 99 {
		t.Error("mutating clone changed original node")
	}
	if s.EdgeCount() != 1 {
		t.Error("mutating clone changed original edges")
	}
}

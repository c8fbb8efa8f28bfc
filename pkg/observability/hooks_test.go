package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Planner hooks
	p := NoopPlannerHooks{}
	p.OnResolveComplete(ctx, 3, 2, 1)
	p.OnPlanStart(ctx, "mir", 3)
	p.OnRefineComplete(ctx, 2, true)
	p.OnPlanComplete(ctx, "mir", 4, 12, time.Second)

	// Storage hooks
	s := NoopStorageHooks{}
	s.OnLoad(ctx, "file", 1024, nil)
	s.OnSave(ctx, "redis", 1024, nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Planner().(NoopPlannerHooks); !ok {
		t.Error("Planner() should return NoopPlannerHooks by default")
	}
	if _, ok := Storage().(NoopStorageHooks); !ok {
		t.Error("Storage() should return NoopStorageHooks by default")
	}

	// Set custom hooks
	customPlanner := &testPlannerHooks{}
	SetPlannerHooks(customPlanner)
	if Planner() != customPlanner {
		t.Error("SetPlannerHooks should set custom hooks")
	}

	customStorage := &testStorageHooks{}
	SetStorageHooks(customStorage)
	if Storage() != customStorage {
		t.Error("SetStorageHooks should set custom hooks")
	}

	// Reset and verify
	Reset()
	if _, ok := Planner().(NoopPlannerHooks); !ok {
		t.Error("Reset() should restore NoopPlannerHooks")
	}
	if _, ok := Storage().(NoopStorageHooks); !ok {
		t.Error("Reset() should restore NoopStorageHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testPlannerHooks{}
	SetPlannerHooks(custom)
	SetPlannerHooks(nil)
	if Planner() != custom {
		t.Error("SetPlannerHooks(nil) should keep previously registered hooks")
	}

	customStorage := &testStorageHooks{}
	SetStorageHooks(customStorage)
	SetStorageHooks(nil)
	if Storage() != customStorage {
		t.Error("SetStorageHooks(nil) should keep previously registered hooks")
	}

	Reset()
}

func TestCustomHooksReceiveEvents(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testPlannerHooks{}
	SetPlannerHooks(custom)

	ctx := context.Background()
	Planner().OnPlanStart(ctx, "mir", 2)
	Planner().OnPlanComplete(ctx, "mir", 2, 7, time.Millisecond)

	if custom.planStarts != 1 {
		t.Errorf("planStarts = %d, want 1", custom.planStarts)
	}
	if custom.planCompletes != 1 {
		t.Errorf("planCompletes = %d, want 1", custom.planCompletes)
	}
}

// testPlannerHooks counts received events.
type testPlannerHooks struct {
	resolves      int
	planStarts    int
	refines       int
	planCompletes int
}

func (h *testPlannerHooks) OnResolveComplete(context.Context, int, int, int) { h.resolves++ }
func (h *testPlannerHooks) OnPlanStart(context.Context, string, int)         { h.planStarts++ }
func (h *testPlannerHooks) OnRefineComplete(context.Context, int, bool)      { h.refines++ }
func (h *testPlannerHooks) OnPlanComplete(context.Context, string, int, int, time.Duration) {
	h.planCompletes++
}

// testStorageHooks counts received events.
type testStorageHooks struct {
	loads, saves int
}

func (h *testStorageHooks) OnLoad(context.Context, string, int, error) { h.loads++ }
func (h *testStorageHooks) OnSave(context.Context, string, int, error) { h.saves++ }

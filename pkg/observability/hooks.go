// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about route planning and snapshot storage operations.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the core library dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, plain logging, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetPlannerHooks(&myPlannerHooks{})
//	    observability.SetStorageHooks(&myStorageHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Planner().OnPlanStart(ctx, start, itemCount)
//	// ... plan route ...
//	observability.Planner().OnPlanComplete(ctx, start, stops, totalHops, duration)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Planner Hooks
// =============================================================================

// PlannerHooks receives events from the route planning pipeline.
type PlannerHooks interface {
	// Resolve events
	OnResolveComplete(ctx context.Context, itemCount, resolved, missing int)

	// Plan events
	OnPlanStart(ctx context.Context, start string, itemCount int)
	OnRefineComplete(ctx context.Context, passes int, improved bool)
	OnPlanComplete(ctx context.Context, start string, stops, totalHops int, duration time.Duration)
}

// =============================================================================
// Storage Hooks
// =============================================================================

// StorageHooks receives events from snapshot storage operations.
type StorageHooks interface {
	// OnLoad records a snapshot load attempt.
	OnLoad(ctx context.Context, backend string, size int, err error)

	// OnSave records a snapshot save attempt.
	OnSave(ctx context.Context, backend string, size int, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPlannerHooks is a no-op implementation of PlannerHooks.
type NoopPlannerHooks struct{}

func (NoopPlannerHooks) OnResolveComplete(context.Context, int, int, int)              {}
func (NoopPlannerHooks) OnPlanStart(context.Context, string, int)                      {}
func (NoopPlannerHooks) OnRefineComplete(context.Context, int, bool)                   {}
func (NoopPlannerHooks) OnPlanComplete(context.Context, string, int, int, time.Duration) {}

// NoopStorageHooks is a no-op implementation of StorageHooks.
type NoopStorageHooks struct{}

func (NoopStorageHooks) OnLoad(context.Context, string, int, error) {}
func (NoopStorageHooks) OnSave(context.Context, string, int, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	plannerHooks PlannerHooks = NoopPlannerHooks{}
	storageHooks StorageHooks = NoopStorageHooks{}
	hooksMu      sync.RWMutex
)

// SetPlannerHooks registers custom planner hooks.
// This should be called once at application startup before any planning operations.
func SetPlannerHooks(h PlannerHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		plannerHooks = h
	}
}

// SetStorageHooks registers custom storage hooks.
// This should be called once at application startup before any storage operations.
func SetStorageHooks(h StorageHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		storageHooks = h
	}
}

// Planner returns the registered planner hooks.
func Planner() PlannerHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return plannerHooks
}

// Storage returns the registered storage hooks.
func Storage() StorageHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return storageHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	plannerHooks = NoopPlannerHooks{}
	storageHooks = NoopStorageHooks{}
}

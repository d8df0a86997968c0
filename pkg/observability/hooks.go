// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about solver searches, race progression, and replay storage.
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
//   - Allows different backends (OpenTelemetry, Prometheus, DataDog, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetSolverHooks(&mySolverHooks{})
//	    observability.SetRaceHooks(&myRaceHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Solver().OnSearchStart(ctx, name, nodeCount)
//	// ... run the search ...
//	observability.Solver().OnSearchComplete(ctx, name, candidates, reduction, duration)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Solver Hooks
// =============================================================================

// SolverHooks receives events from strategy searches.
type SolverHooks interface {
	// OnSearchStart fires when FindBestMove begins evaluating candidates.
	OnSearchStart(ctx context.Context, strategy string, nodeCount, intersections int)

	// OnSearchComplete fires when FindBestMove returns. reduction is
	// negative-free: zero for neutral-spread or invalid moves.
	OnSearchComplete(ctx context.Context, strategy string, candidates, reduction int, duration time.Duration)
}

// =============================================================================
// Race Hooks
// =============================================================================

// RaceHooks receives events from race orchestration.
type RaceHooks interface {
	// OnRaceStart fires when a race begins with the starting crossing count.
	OnRaceStart(ctx context.Context, strategy string, intersections int)

	// OnMoveApplied fires after a completed search result is applied to the
	// CPU graph.
	OnMoveApplied(ctx context.Context, moveNumber, intersectionsAfter int)

	// OnRaceFinished fires once with the final outcome ("human", "cpu",
	// "tie", or "stuck") and the CPU's move count.
	OnRaceFinished(ctx context.Context, outcome string, cpuMoves int)
}

// =============================================================================
// Store Hooks
// =============================================================================

// StoreHooks receives events from replay storage operations.
type StoreHooks interface {
	// OnSave records a replay write with its serialized size.
	OnSave(ctx context.Context, backend, id string, size int)

	// OnLoad records a replay read.
	OnLoad(ctx context.Context, backend, id string, found bool)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopSolverHooks is a no-op implementation of SolverHooks.
type NoopSolverHooks struct{}

func (NoopSolverHooks) OnSearchStart(context.Context, string, int, int)                   {}
func (NoopSolverHooks) OnSearchComplete(context.Context, string, int, int, time.Duration) {}

// NoopRaceHooks is a no-op implementation of RaceHooks.
type NoopRaceHooks struct{}

func (NoopRaceHooks) OnRaceStart(context.Context, string, int)    {}
func (NoopRaceHooks) OnMoveApplied(context.Context, int, int)     {}
func (NoopRaceHooks) OnRaceFinished(context.Context, string, int) {}

// NoopStoreHooks is a no-op implementation of StoreHooks.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnSave(context.Context, string, string, int)  {}
func (NoopStoreHooks) OnLoad(context.Context, string, string, bool) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	solverHooks SolverHooks = NoopSolverHooks{}
	raceHooks   RaceHooks   = NoopRaceHooks{}
	storeHooks  StoreHooks  = NoopStoreHooks{}
	hooksMu     sync.RWMutex
)

// SetSolverHooks registers custom solver hooks.
// This should be called once at application startup before any searches run.
func SetSolverHooks(h SolverHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		solverHooks = h
	}
}

// SetRaceHooks registers custom race hooks.
// This should be called once at application startup before any race starts.
func SetRaceHooks(h RaceHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		raceHooks = h
	}
}

// SetStoreHooks registers custom store hooks.
// This should be called once at application startup before any store operations.
func SetStoreHooks(h StoreHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		storeHooks = h
	}
}

// Solver returns the registered solver hooks.
func Solver() SolverHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return solverHooks
}

// Race returns the registered race hooks.
func Race() RaceHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return raceHooks
}

// Store returns the registered store hooks.
func Store() StoreHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return storeHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	solverHooks = NoopSolverHooks{}
	raceHooks = NoopRaceHooks{}
	storeHooks = NoopStoreHooks{}
}

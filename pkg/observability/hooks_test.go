package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	s := NoopSolverHooks{}
	s.OnSearchStart(ctx, "greedy", 10, 4)
	s.OnSearchComplete(ctx, "greedy", 1200, 2, time.Second)

	r := NoopRaceHooks{}
	r.OnRaceStart(ctx, "greedy", 4)
	r.OnMoveApplied(ctx, 1, 3)
	r.OnRaceFinished(ctx, "cpu", 5)

	st := NoopStoreHooks{}
	st.OnSave(ctx, "memory", "id", 1024)
	st.OnLoad(ctx, "memory", "id", true)
}

type recordingRaceHooks struct {
	NoopRaceHooks
	finished string
}

func (h *recordingRaceHooks) OnRaceFinished(_ context.Context, outcome string, _ int) {
	h.finished = outcome
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	if _, ok := Solver().(NoopSolverHooks); !ok {
		t.Error("Solver() should return NoopSolverHooks by default")
	}
	if _, ok := Race().(NoopRaceHooks); !ok {
		t.Error("Race() should return NoopRaceHooks by default")
	}
	if _, ok := Store().(NoopStoreHooks); !ok {
		t.Error("Store() should return NoopStoreHooks by default")
	}

	rec := &recordingRaceHooks{}
	SetRaceHooks(rec)
	Race().OnRaceFinished(context.Background(), "tie", 7)
	if rec.finished != "tie" {
		t.Errorf("registered hook not invoked, finished = %q", rec.finished)
	}

	// nil registration keeps the current hooks.
	SetRaceHooks(nil)
	if Race() != rec {
		t.Error("SetRaceHooks(nil) replaced registered hooks")
	}

	Reset()
	if _, ok := Race().(NoopRaceHooks); !ok {
		t.Error("Reset did not restore noop race hooks")
	}
}

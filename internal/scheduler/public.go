package scheduler

import (
	"context"
	"fmt"
	"os"

	"github.com/dagucloud/wfengine/pkg/wf"
)

// Build runs w (and its full dependency graph) to completion and
// returns its own final Trace. It is the `build(w)` entry point spec.md
// §4.3 describes.
func (s *Scheduler) Build(ctx context.Context, w wf.Workflow) (Trace, error) {
	traces, err := s.Run(ctx, w)
	if err != nil {
		return Trace{}, err
	}
	return traces[w.Identity()], nil
}

// EvalPath runs build(w) to completion and returns the on-disk path for
// a Path or Extract workflow.
func (s *Scheduler) EvalPath(ctx context.Context, w wf.Workflow) (string, error) {
	if w.Kind() == wf.KindValue {
		return "", fmt.Errorf("scheduler: EvalPath called on a Value workflow")
	}
	t, err := s.Build(ctx, w)
	if err != nil {
		return "", err
	}
	if !t.Successful() {
		return "", traceError(t)
	}
	return s.store.CachePath(w), nil
}

// traceError renders a non-successful Trace as an error, for callers of
// the high-level eval/build entry points that want a single err return.
func traceError(t Trace) error {
	if t.Skipped {
		if t.Reason == AllocationError {
			return fmt.Errorf("scheduler: %s skipped: %s", t.TaskID, t.AllocMsg)
		}
		return fmt.Errorf("scheduler: %s skipped: %s", t.TaskID, t.Reason)
	}
	return t.Outcome.Err
}

// Eval runs build(v) to completion and returns the deserialised value,
// matching spec.md's `eval(w)` for a Value workflow. It is a free
// function (not a Scheduler method) because Go cannot attach additional
// type parameters to a method of a non-generic receiver.
func Eval[T any](ctx context.Context, s *Scheduler, v wf.Value[T]) (T, error) {
	var zero T
	t, err := s.Build(ctx, v)
	if err != nil {
		return zero, err
	}
	if !t.Successful() {
		return zero, traceError(t)
	}
	data, err := os.ReadFile(s.store.CachePath(v))
	if err != nil {
		return zero, err
	}
	return v.Decode(data)
}

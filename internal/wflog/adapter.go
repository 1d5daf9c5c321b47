package wflog

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dagucloud/wfengine/internal/applog"
)

type runIDKey struct{}

// WithRunID attaches a correlation id to ctx for NewSlogAdapter to
// include on every event it logs. The workflow identity itself is
// always the content hash (never a uuid); a run id only labels one
// attempt at running a graph, for telling concurrent `wfengine run`
// invocations apart in a shared log.
func WithRunID(ctx context.Context, runID uuid.UUID) context.Context {
	return context.WithValue(ctx, runIDKey{}, runID)
}

func runIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(runIDKey{}).(uuid.UUID); ok {
		return id.String()
	}
	return ""
}

// NewSlogAdapter returns a Logger that renders each scheduler event as a
// structured applog line, for callers (notably the CLI) that want
// scheduler activity folded into the ambient operational log instead of
// consumed as a typed event stream.
func NewSlogAdapter(ctx context.Context) Logger {
	return &slogAdapter{ctx: ctx, runID: runIDFromContext(ctx)}
}

type slogAdapter struct {
	ctx   context.Context
	runID string
}

func (a *slogAdapter) Event(e Event) {
	switch e.Kind {
	case Init:
		applog.Info(a.ctx, "dag initialized", "run_id", a.runID, "tasks", e.DAGSize)
	case TaskReady:
		applog.Debug(a.ctx, "task ready", "run_id", a.runID, "task", e.TaskID)
	case TaskStarted:
		applog.Info(a.ctx, "task started", "run_id", a.runID, "task", e.TaskID)
	case TaskEnded:
		if e.Outcome != nil {
			applog.Error(a.ctx, "task ended", "run_id", a.runID, "task", e.TaskID, "error", e.Outcome)
		} else {
			applog.Info(a.ctx, "task ended", "run_id", a.runID, "task", e.TaskID)
		}
	case TaskSkipped:
		applog.Debug(a.ctx, "task skipped", "run_id", a.runID, "task", e.TaskID, "reason", reasonString(e.Reason, e.AllocMsg))
	}
}

func (a *slogAdapter) Stop()          {}
func (a *slogAdapter) Wait4Shutdown() {}

func reasonString(r SkipReason, allocMsg string) string {
	switch r {
	case DoneAlready:
		return "done_already"
	case MissingDep:
		return "missing_dep"
	case AllocationError:
		return fmt.Sprintf("allocation_error: %s", allocMsg)
	default:
		return "unknown"
	}
}

package scheduler

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/dagucloud/wfengine/internal/allocator"
	"github.com/dagucloud/wfengine/internal/store"
	"github.com/dagucloud/wfengine/internal/wflog"
	"github.com/dagucloud/wfengine/pkg/wf"
)

// Scheduler is the concurrent evaluator from spec.md §4.3. One Scheduler
// owns one run's memoization table; identities already resolved within
// this run are never recomputed (P-identity structural sharing), and
// concurrent requests for the same identity collapse onto a single
// in-flight computation via singleflight.
type Scheduler struct {
	store     *store.Store
	allocator *allocator.Allocator
	logger    wflog.Logger

	group singleflight.Group
}

// New constructs a Scheduler over the given store and allocator. logger
// may be wflog.NullLogger{} when no event stream is wanted.
func New(s *store.Store, a *allocator.Allocator, logger wflog.Logger) *Scheduler {
	if logger == nil {
		logger = wflog.NullLogger{}
	}
	return &Scheduler{store: s, allocator: a, logger: logger}
}

// Run resolves every task reachable from root, rejecting a cyclic
// dependency graph before any task executes, and returns the Trace
// recorded for every identity that was visited.
func (s *Scheduler) Run(ctx context.Context, root wf.Workflow) (map[string]Trace, error) {
	dag, err := BuildDAG(root)
	if err != nil {
		return nil, err
	}
	s.logger.Event(wflog.Event{Time: time.Now(), Kind: wflog.Init, DAGSize: len(dag.Nodes)})

	traces := make(map[string]Trace, len(dag.Nodes))
	var mu sync.Mutex

	_, err = s.resolve(ctx, root, traces, &mu)
	if err != nil {
		return traces, err
	}
	return traces, nil
}

// resolve runs the per-task algorithm (or the Extract/Value/Path
// specializations) for w, memoizing by identity so concurrent callers
// within this run share one computation.
func (s *Scheduler) resolve(ctx context.Context, w wf.Workflow, traces map[string]Trace, mu *sync.Mutex) (Trace, error) {
	id := w.Identity()

	v, err, _ := s.group.Do(id, func() (any, error) {
		mu.Lock()
		prev, resolved := traces[id]
		mu.Unlock()
		if resolved {
			return prev, nil
		}
		var t Trace
		var rerr error
		if w.Kind() == wf.KindExtract {
			t, rerr = s.evalExtract(ctx, w.(wf.Extract), traces, mu)
		} else {
			t, rerr = s.runTask(ctx, w, traces, mu)
		}
		mu.Lock()
		traces[id] = t
		mu.Unlock()
		return t, rerr
	})
	if err != nil {
		return Trace{}, err
	}
	return v.(Trace), nil
}

// runTask implements spec.md §4.3's six-step per-task algorithm for a
// Value or Path workflow.
func (s *Scheduler) runTask(ctx context.Context, w wf.Workflow, traces map[string]Trace, mu *sync.Mutex) (Trace, error) {
	id := w.Identity()

	// Step 1: already in the store?
	exists, err := s.store.CacheExists(w)
	if err != nil {
		return Trace{}, err
	}
	if exists {
		now := time.Now()
		if err := s.store.RecordUsed(w, now); err != nil {
			return Trace{}, err
		}
		s.logger.Event(wflog.Event{Time: now, Kind: wflog.TaskSkipped, TaskID: id, Reason: wflog.DoneAlready})
		return Trace{TaskID: id, Skipped: true, Reason: DoneAlready}, nil
	}

	// Step 2: resolve successors concurrently.
	depWorkflows := deps(w)
	depTraces := make([]Trace, len(depWorkflows))
	g, gctx := errgroup.WithContext(ctx)
	for i, dw := range depWorkflows {
		i, dw := i, dw
		g.Go(func() error {
			t, err := s.resolve(gctx, dw, traces, mu)
			if err != nil {
				return err
			}
			depTraces[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Trace{}, err
	}

	// Step 3: every dependency must have succeeded.
	for _, t := range depTraces {
		if !t.Successful() {
			now := time.Now()
			s.logger.Event(wflog.Event{Time: now, Kind: wflog.TaskSkipped, TaskID: id, Reason: wflog.MissingDep})
			return Trace{TaskID: id, Skipped: true, Reason: MissingDep}, nil
		}
	}

	// Step 4: request resources.
	tReady := time.Now()
	s.logger.Event(wflog.Event{Time: tReady, Kind: wflog.TaskReady, TaskID: id})
	req := requirement(w)
	res, err := s.allocator.Request(ctx, req)
	if err != nil {
		msg := err.Error()
		s.logger.Event(wflog.Event{Time: time.Now(), Kind: wflog.TaskSkipped, TaskID: id, Reason: wflog.AllocationError, AllocMsg: msg})
		return Trace{TaskID: id, Skipped: true, Reason: AllocationError, AllocMsg: msg}, nil
	}

	// Step 5: perform.
	tStart := time.Now()
	s.logger.Event(wflog.Event{Time: tStart, Kind: wflog.TaskStarted, TaskID: id})

	var performErr error
	if w.Kind() == wf.KindPath {
		performErr = s.performPath(ctx, w, res)
	} else {
		performErr = s.performValue(ctx, w, res)
	}

	// Step 6: release, emit, return.
	s.allocator.Release(res)
	tEnd := time.Now()
	s.logger.Event(wflog.Event{Time: tEnd, Kind: wflog.TaskEnded, TaskID: id, Outcome: performErr})

	return Trace{
		TaskID:  id,
		Ready:   tReady.UnixNano(),
		Start:   tStart.UnixNano(),
		End:     tEnd.UnixNano(),
		Outcome: Outcome{Err: performErr},
	}, nil
}

// invoke calls prim.Impl, converting both a returned error and a panic
// (spec.md §5's "an exception thrown by perform is caught and converted
// to an error trace; it does not abort the scheduler") into a *TaskError.
func (s *Scheduler) invoke(ctx context.Context, id string, prim wf.Prim, env wf.Env) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &TaskError{Identity: id, Msg: fmt.Sprintf("%v", r)}
		}
	}()
	result, implErr := prim.Impl(ctx, env)
	if implErr != nil {
		return nil, &TaskError{Identity: id, Msg: implErr.Error()}
	}
	return result, nil
}

func (s *Scheduler) performValue(ctx context.Context, w wf.Workflow, res wf.Resource) (err error) {
	id := w.Identity()
	prim, ok := rootPrim(w.Expr())
	if !ok {
		return &TaskError{Identity: id, Msg: "no primitive found at expression root"}
	}

	env := buildEnv(ctx, s.store, w, res, nil, nil)
	result, err := s.invoke(ctx, id, prim, env)
	if err != nil {
		return err
	}

	enc, ok := w.(wf.ValueEncoder)
	if !ok {
		return &TaskError{Identity: id, Msg: "value workflow does not implement ValueEncoder"}
	}
	data, err := enc.EncodeResult(result)
	if err != nil {
		return &TaskError{Identity: id, Msg: err.Error()}
	}

	if err := os.WriteFile(s.store.BuildPath(w), data, 0o644); err != nil {
		return err
	}
	if err := s.store.Promote(w); err != nil {
		return err
	}
	return s.store.RecordCreated(w, time.Now())
}

func (s *Scheduler) performPath(ctx context.Context, w wf.Workflow, res wf.Resource) error {
	id := w.Identity()
	prim, ok := rootPrim(w.Expr())
	if !ok {
		return &TaskError{Identity: id, Msg: "no primitive found at expression root"}
	}

	// Steps 1-2: reset scratch.
	if err := s.store.ResetScratch(w); err != nil {
		return err
	}

	stdout, err := os.Create(s.store.StdoutPath(w))
	if err != nil {
		return err
	}
	defer stdout.Close()
	stderr, err := os.Create(s.store.StderrPath(w))
	if err != nil {
		return err
	}
	defer stderr.Close()

	env := buildEnv(ctx, s.store, w, res, stdout, stderr)

	// Step 3: invoke, capturing failures (including panics) as task errors.
	if _, err := s.invoke(ctx, id, prim, env); err != nil {
		return err
	}

	// Step 4: require build/h to exist.
	if _, statErr := os.Stat(s.store.BuildPath(w)); statErr != nil {
		if os.IsNotExist(statErr) {
			return noTargetError(id)
		}
		return statErr
	}
	if err := s.store.RemoveTmp(w); err != nil {
		return err
	}
	if err := s.store.Promote(w); err != nil {
		return err
	}
	return s.store.RecordCreated(w, time.Now())
}

// evalExtract implements spec.md §4.3's three-step Extract evaluation.
func (s *Scheduler) evalExtract(ctx context.Context, e wf.Extract, traces map[string]Trace, mu *sync.Mutex) (Trace, error) {
	id := e.Identity()
	parent := e.Parent()

	// Step 1: build dir to ensure cache/id(dir) exists.
	parentTrace, err := s.resolve(ctx, parent, traces, mu)
	if err != nil {
		return Trace{}, err
	}
	if !parentTrace.Successful() {
		return Trace{TaskID: id, Skipped: true, Reason: MissingDep}, nil
	}

	// Step 2: check cache_path(dir)/p exists.
	if _, statErr := os.Stat(s.store.CachePath(e)); statErr != nil {
		now := time.Now()
		return Trace{
			TaskID:  id,
			Ready:   now.UnixNano(),
			Start:   now.UnixNano(),
			End:     now.UnixNano(),
			Outcome: Outcome{Err: &InvalidSelectError{ParentID: parent.Identity(), Segments: e.Segments()}},
		}, nil
	}

	// Step 3: record_used(dir). The extract has no cache entry of its own.
	now := time.Now()
	if err := s.store.RecordUsed(parent, now); err != nil {
		return Trace{}, err
	}
	return Trace{TaskID: id, Ready: now.UnixNano(), Start: now.UnixNano(), End: now.UnixNano()}, nil
}

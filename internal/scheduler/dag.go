package scheduler

import "github.com/dagucloud/wfengine/pkg/wf"

// DAG is the persistent digraph of tasks reachable from a root workflow:
// vertices are workflow identities, an edge u -> v means "u depends on
// v". Acyclicity is checked once, up front, by BuildDAG.
type DAG struct {
	Root  wf.Workflow
	Nodes map[string]wf.Workflow
	Edges map[string][]string
}

// deps returns w's immediate dependencies: for Value/Path, the
// WorkflowDep nodes in its expression tree; for Extract, its single
// Parent.
func deps(w wf.Workflow) []wf.Workflow {
	if w.Kind() == wf.KindExtract {
		return []wf.Workflow{w.(wf.Extract).Parent()}
	}
	return wf.Deps(w.Expr())
}

// walkGraph is the mark/sweep DFS core of cycle detection, over a graph
// described purely by identity strings and a neighbor-lookup function.
// It calls visit(id, depIDs) the first time each node is fully resolved,
// and returns a *CyclicGraphError the first time a path revisits a node
// that is still on the current stack.
//
// BuildDAG drives this against real wf.Workflow identities; factoring the
// state machine out like this lets cycle detection be exercised directly
// against a synthetic identity graph in tests, since pkg/wf's Workflow sum
// type is closed to callers outside that package (no test-only fake node
// can satisfy it).
func walkGraph(rootID string, neighbors func(id string) []string, visit func(id string, depIDs []string)) error {
	const (
		unvisited = 0
		visiting  = 1
		done      = 2
	)
	state := map[string]int{}

	var walk func(id string) error
	walk = func(id string) error {
		switch state[id] {
		case visiting:
			return &CyclicGraphError{Identity: id}
		case done:
			return nil
		}
		state[id] = visiting

		depIDs := neighbors(id)
		for _, depID := range depIDs {
			if err := walk(depID); err != nil {
				return err
			}
		}
		visit(id, depIDs)
		state[id] = done
		return nil
	}

	return walk(rootID)
}

// BuildDAG walks every workflow reachable from root and rejects a cyclic
// graph before any task runs, matching spec.md §5's "only a cyclic graph
// aborts the run synchronously before execution begins".
func BuildDAG(root wf.Workflow) (*DAG, error) {
	d := &DAG{
		Root:  root,
		Nodes: map[string]wf.Workflow{},
		Edges: map[string][]string{},
	}

	byID := map[string]wf.Workflow{root.Identity(): root}
	neighbors := func(id string) []string {
		ds := deps(byID[id])
		ids := make([]string, len(ds))
		for i, dep := range ds {
			ids[i] = dep.Identity()
			byID[ids[i]] = dep
		}
		return ids
	}
	visit := func(id string, depIDs []string) {
		d.Nodes[id] = byID[id]
		d.Edges[id] = depIDs
	}

	if err := walkGraph(root.Identity(), neighbors, visit); err != nil {
		return nil, err
	}
	return d, nil
}

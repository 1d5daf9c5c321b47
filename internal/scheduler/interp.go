package scheduler

import "github.com/dagucloud/wfengine/pkg/wf"

// rootPrim descends an expression's App spine to find the Prim at its
// root. The tree's structure (App/Label) exists only to produce the
// correct canonical description and to let Deps discover dependency
// edges; the actual computation is always the root Prim's opaque
// PrimFunc closure, which already closes over whatever Go values its
// author needed.
func rootPrim(e wf.Expression) (wf.Prim, bool) {
	switch x := e.(type) {
	case wf.Prim:
		return x, true
	case wf.App:
		return rootPrim(x.F)
	default:
		return wf.Prim{}, false
	}
}

// requirement returns w's resource requirement, taken from its root
// Prim's NP/Mem fields.
func requirement(w wf.Workflow) wf.Resource {
	p, ok := rootPrim(w.Expr())
	if !ok {
		return wf.Resource{}
	}
	return wf.Resource{NP: p.NP, Mem: p.Mem}
}

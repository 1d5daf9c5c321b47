package wf

import "context"

// PrimFunc is the opaque implementation a Prim carries. It receives no
// argument values: the closure holds whatever Go values it needs, and the
// App spine above the Prim only shapes the description and dependency
// edges. It runs arbitrary Go code and returns a single result value
// (ignored for Path-producing primitives, whose effect is to write to the
// prescribed build location).
type PrimFunc func(ctx context.Context, env Env) (any, error)

// Expression is the argument language of a workflow. It is a closed sum
// type: Prim, App, String, Int, Bool, WorkflowDep, Opt and List are the
// only implementations, matching the algebra in the specification.
type Expression interface {
	isExpression()
	describe() Expr
}

// Prim is a named primitive with metadata that participates in hashing
// and an opaque implementation that does not.
type Prim struct {
	ID      string
	Version string
	NP      int
	Mem     int
	Impl    PrimFunc
}

func (Prim) isExpression() {}

func (p Prim) describe() Expr {
	return Expr{
		Kind:        ExprPrim,
		PrimID:      p.ID,
		PrimVersion: p.Version,
		PrimNP:      p.NP,
		PrimMem:     p.Mem,
	}
}

// NewPrim constructs a primitive expression. version may be empty; np/mem
// are the primitive's resource requirement when it is the root of a
// workflow.
func NewPrim(id, version string, np, mem int, impl PrimFunc) Prim {
	return Prim{ID: id, Version: version, NP: np, Mem: mem, Impl: impl}
}

// App is the application of one expression to another. The label, when
// present, participates in hashing: renaming a labeled argument changes
// identity.
type App struct {
	F     Expression
	X     Expression
	Label *string
}

func (App) isExpression() {}

func (a App) describe() Expr {
	f := a.F.describe()
	x := a.X.describe()
	e := Expr{Kind: ExprApp, Func: &f, Arg: &x}
	if a.Label != nil {
		e.HasLabel = true
		e.Label = *a.Label
	}
	return e
}

// Apply builds an unlabeled application of f to x.
func Apply(f, x Expression) App {
	return App{F: f, X: x}
}

// ApplyLabeled builds a labeled application of f to x.
func ApplyLabeled(f, x Expression, label string) App {
	return App{F: f, X: x, Label: &label}
}

// String is a string literal expression.
type String string

func (String) isExpression()      {}
func (s String) describe() Expr   { return Expr{Kind: ExprString, Str: string(s)} }

// Int is an integer literal expression.
type Int int64

func (Int) isExpression()    {}
func (i Int) describe() Expr { return Expr{Kind: ExprInt, Int: int64(i)} }

// Bool is a boolean literal expression.
type Bool bool

func (Bool) isExpression()    {}
func (b Bool) describe() Expr { return Expr{Kind: ExprBool, Bool: bool(b)} }

// WorkflowDep is a dependency on another workflow: its identity
// participates in hashing, and the scheduler discovers DAG edges by
// walking expression trees for these nodes.
type WorkflowDep struct {
	W Workflow
}

func (WorkflowDep) isExpression() {}

func (w WorkflowDep) describe() Expr {
	return Expr{Kind: ExprWorkflow, WorkflowID: w.W.Identity()}
}

// Dep wraps a workflow as an expression dependency.
func Dep(w Workflow) WorkflowDep {
	return WorkflowDep{W: w}
}

// Opt is a structured container for an optional sub-expression.
type Opt struct {
	Inner Expression // nil means None
}

func (Opt) isExpression() {}

func (o Opt) describe() Expr {
	if o.Inner == nil {
		return Expr{Kind: ExprOption, None: true}
	}
	inner := o.Inner.describe()
	return Expr{Kind: ExprOption, Some: &inner}
}

// Some builds a populated Opt.
func Some(e Expression) Opt { return Opt{Inner: e} }

// None builds an empty Opt.
func None() Opt { return Opt{} }

// List is a structured container for a sequence of sub-expressions.
type List struct {
	Items []Expression
}

func (List) isExpression() {}

func (l List) describe() Expr {
	items := make([]Expr, len(l.Items))
	for i, it := range l.Items {
		items[i] = it.describe()
	}
	return Expr{Kind: ExprList, Items: items}
}

// Seq builds a List expression from the given items.
func Seq(items ...Expression) List {
	return List{Items: items}
}

// Deps walks an expression tree and returns every workflow it depends on,
// in a stable left-to-right, depth-first order. Duplicate identities are
// collapsed to their first occurrence.
func Deps(e Expression) []Workflow {
	var out []Workflow
	seen := map[string]bool{}
	var walk func(Expression)
	walk = func(e Expression) {
		switch x := e.(type) {
		case Prim:
			// no dependencies beyond what App spines carry
		case App:
			walk(x.F)
			walk(x.X)
		case WorkflowDep:
			if !seen[x.W.Identity()] {
				seen[x.W.Identity()] = true
				out = append(out, x.W)
			}
		case Opt:
			if x.Inner != nil {
				walk(x.Inner)
			}
		case List:
			for _, it := range x.Items {
				walk(it)
			}
		}
	}
	walk(e)
	return out
}

package wf

import (
	"fmt"
	"reflect"
	"strings"
)

// ExprKind tags the variant of a Expr description node.
type ExprKind int

const (
	ExprPrim ExprKind = iota
	ExprApp
	ExprString
	ExprInt
	ExprBool
	ExprWorkflow
	ExprOption
	ExprList
)

func (k ExprKind) String() string {
	switch k {
	case ExprPrim:
		return "prim"
	case ExprApp:
		return "app"
	case ExprString:
		return "string"
	case ExprInt:
		return "int"
	case ExprBool:
		return "bool"
	case ExprWorkflow:
		return "workflow"
	case ExprOption:
		return "option"
	case ExprList:
		return "list"
	default:
		return "unknown"
	}
}

// Expr is the canonical, implementation-erased projection of an
// Expression used for hashing. It mirrors Expression exactly, dropping
// only opaque fields (Prim.Impl).
type Expr struct {
	Kind ExprKind `json:"kind"`

	// Prim
	PrimID      string `json:"prim_id,omitempty"`
	PrimVersion string `json:"prim_version,omitempty"`
	PrimNP      int    `json:"prim_np,omitempty"`
	PrimMem     int    `json:"prim_mem,omitempty"`

	// App
	Func     *Expr  `json:"func,omitempty"`
	Arg      *Expr  `json:"arg,omitempty"`
	HasLabel bool   `json:"has_label,omitempty"`
	Label    string `json:"label,omitempty"`

	// Literals
	Str  string `json:"str,omitempty"`
	Int  int64  `json:"int,omitempty"`
	Bool bool   `json:"bool,omitempty"`

	// Workflow dependency
	WorkflowID string `json:"workflow_id,omitempty"`

	// Option
	Some *Expr `json:"some,omitempty"`
	None bool  `json:"none,omitempty"`

	// List
	Items []Expr `json:"items,omitempty"`
}

// Describe returns w's canonical description: its expression's describe()
// for Value/Path, or for Extract, its parent's description paired with
// the flattened segment list rendered as a synthetic ExprList of strings
// so the two remain comparable with Equal/String.
func Describe(w Workflow) Expr {
	if w.Kind() == KindExtract {
		e := w.(Extract)
		parent := e.Parent().core.expr.describe()
		segs := make([]Expr, len(e.Segments()))
		for i, s := range e.Segments() {
			segs[i] = Expr{Kind: ExprString, Str: s}
		}
		return Expr{Kind: ExprApp, Func: &parent, Arg: &Expr{Kind: ExprList, Items: segs}}
	}
	return w.Expr().describe()
}

// Equal reports whether two descriptions are structurally identical. It is
// the basis of the `diff` CLI subcommand: two workflows built from
// differently-shaped expressions will disagree on Equal even when their
// hashes happen to look superficially similar while debugging.
func (e Expr) Equal(other Expr) bool {
	return reflect.DeepEqual(e, other)
}

// String renders a compact, human-readable form of a description, used by
// the diff CLI subcommand to explain why two workflows hash differently.
func (e Expr) String() string {
	var b strings.Builder
	e.write(&b)
	return b.String()
}

func (e Expr) write(b *strings.Builder) {
	switch e.Kind {
	case ExprPrim:
		fmt.Fprintf(b, "%s", e.PrimID)
		if e.PrimVersion != "" {
			fmt.Fprintf(b, "@%s", e.PrimVersion)
		}
	case ExprApp:
		e.Func.write(b)
		b.WriteString("(")
		if e.HasLabel {
			fmt.Fprintf(b, "%s=", e.Label)
		}
		e.Arg.write(b)
		b.WriteString(")")
	case ExprString:
		fmt.Fprintf(b, "%q", e.Str)
	case ExprInt:
		fmt.Fprintf(b, "%d", e.Int)
	case ExprBool:
		fmt.Fprintf(b, "%t", e.Bool)
	case ExprWorkflow:
		fmt.Fprintf(b, "<%s>", e.WorkflowID)
	case ExprOption:
		if e.None {
			b.WriteString("none")
			return
		}
		b.WriteString("some(")
		e.Some.write(b)
		b.WriteString(")")
	case ExprList:
		b.WriteString("[")
		for i, it := range e.Items {
			if i > 0 {
				b.WriteString(", ")
			}
			it.write(b)
		}
		b.WriteString("]")
	}
}

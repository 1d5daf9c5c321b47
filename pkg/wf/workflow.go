package wf

// Kind tags which of the three workflow variants a Workflow is.
type Kind int

const (
	KindValue Kind = iota
	KindPath
	KindExtract
)

func (k Kind) String() string {
	switch k {
	case KindValue:
		return "value"
	case KindPath:
		return "path"
	case KindExtract:
		return "extract"
	default:
		return "unknown"
	}
}

// Workflow is the erased handle the scheduler and store operate on. Its
// three implementations - Value, Path and Extract - are the only closed
// variants, matching the specification's tagged sum.
type Workflow interface {
	// Identity is the stable hex digest that is the primary key of the
	// store and the scheduler's memoization table.
	Identity() string
	// Kind reports which variant this is.
	Kind() Kind
	// Expr is the expression tree that produces this workflow's effect,
	// or nil for Extract (whose dependency is its Parent, not an
	// expression).
	Expr() Expression

	isWorkflow()
}

// ValueEncoder is implemented by Value[T] so the scheduler can serialise a
// computed result to the store's cache without itself depending on T.
type ValueEncoder interface {
	EncodeResult(v any) ([]byte, error)
}

type valueCore struct {
	id   string
	expr Expression
}

// Value is a workflow denoting an in-process computation producing a
// value of type T, serialised to the cache in the codec's format.
type Value[T any] struct {
	core  *valueCore
	codec Codec[T]
}

func (v Value[T]) Identity() string    { return v.core.id }
func (v Value[T]) Kind() Kind          { return KindValue }
func (v Value[T]) Expr() Expression    { return v.core.expr }
func (Value[T]) isWorkflow()           {}

// EncodeResult implements ValueEncoder.
func (v Value[T]) EncodeResult(result any) ([]byte, error) {
	t, ok := result.(T)
	if !ok {
		return nil, &TypeMismatchError{Identity: v.core.id, Want: v.codec}
	}
	return v.codec.Encode(t)
}

// Decode decodes raw cache bytes back into T using this workflow's codec.
func (v Value[T]) Decode(data []byte) (T, error) {
	return v.codec.Decode(data)
}

// NewValue constructs a Value workflow whose identity is H(description(expr), "value").
func NewValue[T any](expr Expression, codec Codec[T]) Value[T] {
	id := H(expr.describe(), "value")
	return Value[T]{core: &valueCore{id: id, expr: expr}, codec: codec}
}

type pathCore struct {
	id   string
	expr Expression
}

// Path is a workflow denoting an external/process computation whose
// result is a file or directory written at a prescribed store location.
type Path struct {
	core *pathCore
}

func (p Path) Identity() string { return p.core.id }
func (p Path) Kind() Kind       { return KindPath }
func (p Path) Expr() Expression { return p.core.expr }
func (Path) isWorkflow()        {}

// pathCoreOf implements the unexported dirProducer contract so NewExtract
// can accept both Path and Extract while rejecting Value.
func (p Path) pathCoreOf() (*pathCore, []string) { return p.core, nil }

// NewPath constructs a Path workflow whose identity is H(description(expr), "path").
func NewPath(expr Expression) Path {
	id := H(expr.describe(), "path")
	return Path{core: &pathCore{id: id, expr: expr}}
}

type extractCore struct {
	id       string
	parent   *pathCore
	segments []string
}

// Extract is a projection of a non-empty relative sub-path inside a
// directory-producing (Path) workflow's result. It shares the parent's
// cache entry and carries no independent one.
type Extract struct {
	core *extractCore
}

func (e Extract) Identity() string { return e.core.id }
func (e Extract) Kind() Kind       { return KindExtract }
func (e Extract) Expr() Expression { return nil }
func (Extract) isWorkflow()        {}

func (e Extract) pathCoreOf() (*pathCore, []string) {
	return e.core.parent, append([]string{}, e.core.segments...)
}

// Parent returns the Path workflow this Extract projects a sub-path of.
func (e Extract) Parent() Path { return Path{core: e.core.parent} }

// Segments returns the fully-flattened path segments, relative to Parent.
func (e Extract) Segments() []string { return append([]string{}, e.core.segments...) }

// dirProducer is implemented by workflows that produce a directory a
// sub-path can be projected from: Path directly, and Extract by
// delegating to its own flattened parent.
type dirProducer interface {
	pathCoreOf() (*pathCore, []string)
}

// NewExtract projects a non-empty relative path out of a directory
// workflow. If dir is itself an Extract, the result flattens onto dir's
// parent with the segment lists concatenated (I3/P3). If dir is a Value
// workflow, this is a static error: ErrExtractOverValue.
func NewExtract(dir Workflow, segments ...string) (Extract, error) {
	if len(segments) == 0 {
		return Extract{}, ErrEmptySegments
	}
	for _, s := range segments {
		if err := validateSegment(s); err != nil {
			return Extract{}, err
		}
	}
	dp, ok := dir.(dirProducer)
	if !ok {
		return Extract{}, ErrExtractOverValue
	}
	parent, prefix := dp.pathCoreOf()
	all := append(append([]string{}, prefix...), segments...)
	id := hExtract(parent.expr.describe(), all)
	return Extract{core: &extractCore{id: id, parent: parent, segments: all}}, nil
}

// TypeMismatchError is returned by Value.EncodeResult when the scheduler
// hands back a result of a different Go type than the workflow was typed
// with - a programming error in a Prim implementation, not a user input
// error.
type TypeMismatchError struct {
	Identity string
	Want     any
}

func (e *TypeMismatchError) Error() string {
	return "wf: primitive for " + e.Identity + " returned a value of the wrong type"
}

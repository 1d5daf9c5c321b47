package wf

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func constPrim(id string) Prim {
	return NewPrim(id, "v1", 1, 64, func(ctx context.Context, env Env) (any, error) {
		return nil, nil
	})
}

// S1 / P1: identical descriptions yield identical identities; changing a
// literal changes the identity.
func TestIdentityDeterminismAndSensitivity(t *testing.T) {
	a := NewValue(Apply(constPrim("f"), String("x")), YAMLCodec[int]())
	aPrime := NewValue(Apply(constPrim("f"), String("x")), YAMLCodec[int]())
	require.Equal(t, a.Identity(), aPrime.Identity())

	b := NewValue(Apply(constPrim("f"), String("y")), YAMLCodec[int]())
	require.NotEqual(t, a.Identity(), b.Identity())
}

// P2: a labeled argument's label participates in hashing.
func TestLabelSensitivity(t *testing.T) {
	f := constPrim("f")
	x := String("x")
	a := NewValue(ApplyLabeled(f, x, "a"), YAMLCodec[int]())
	b := NewValue(ApplyLabeled(f, x, "b"), YAMLCodec[int]())
	require.NotEqual(t, a.Identity(), b.Identity())
}

// P3: extract flattening - nested and flat construction converge on the
// same identity.
func TestExtractFlattening(t *testing.T) {
	d := NewPath(constPrim("dir"))

	nested, err := NewExtract(d, "a")
	require.NoError(t, err)
	nested2, err := NewExtract(nested, "b")
	require.NoError(t, err)

	flat, err := NewExtract(d, "a", "b")
	require.NoError(t, err)

	require.Equal(t, flat.Identity(), nested2.Identity())
}

func TestExtractOverValueIsRejected(t *testing.T) {
	v := NewValue(constPrim("v"), YAMLCodec[int]())
	_, err := NewExtract(v, "x")
	require.ErrorIs(t, err, ErrExtractOverValue)
}

func TestExtractRequiresAtLeastOneSegment(t *testing.T) {
	d := NewPath(constPrim("dir"))
	_, err := NewExtract(d)
	require.ErrorIs(t, err, ErrEmptySegments)
}

func TestDepsWalksExpressionTree(t *testing.T) {
	dep1 := NewPath(constPrim("dep1"))
	dep2 := NewValue(constPrim("dep2"), YAMLCodec[int]())

	e := Apply(Apply(constPrim("f"), Dep(dep1)), Dep(dep2))
	ds := Deps(e)
	require.Len(t, ds, 2)
	require.Equal(t, dep1.Identity(), ds[0].Identity())
	require.Equal(t, dep2.Identity(), ds[1].Identity())
}

func TestDepsDedupesRepeatedWorkflow(t *testing.T) {
	dep := NewPath(constPrim("dep"))
	e := Seq(Dep(dep), Dep(dep))
	require.Len(t, Deps(e), 1)
}

func TestDescribeEqualAndString(t *testing.T) {
	a := NewValue(Apply(constPrim("f"), String("x")), YAMLCodec[int]())
	b := NewValue(Apply(constPrim("f"), String("x")), YAMLCodec[int]())
	require.True(t, Describe(a).Equal(Describe(b)))
	require.Contains(t, Describe(a).String(), "f(")
}

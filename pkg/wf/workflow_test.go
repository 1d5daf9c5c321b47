package wf

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValueEncodeResultTypeMismatch(t *testing.T) {
	v := NewValue(constPrim("v"), YAMLCodec[int]())
	_, err := v.EncodeResult("not an int")
	require.Error(t, err)
	var mismatch *TypeMismatchError
	require.ErrorAs(t, err, &mismatch)
}

func TestValueEncodeDecodeRoundTrip(t *testing.T) {
	v := NewValue(constPrim("v2"), YAMLCodec[int]())
	data, err := v.EncodeResult(7)
	require.NoError(t, err)

	got, err := v.Decode(data)
	require.NoError(t, err)
	require.Equal(t, 7, got)
}

func TestKindStringers(t *testing.T) {
	require.Equal(t, "value", KindValue.String())
	require.Equal(t, "path", KindPath.String())
	require.Equal(t, "extract", KindExtract.String())
}

func TestPathAndValueHaveDistinctIdentitiesForSameExpr(t *testing.T) {
	e := constPrim("shared")
	v := NewValue(e, YAMLCodec[int]())
	p := NewPath(e)
	require.NotEqual(t, v.Identity(), p.Identity())
}

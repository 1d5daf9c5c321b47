package wf

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateSegmentRejectsEscapes(t *testing.T) {
	cases := []string{"", ".", "..", "a/b", "a\\b"}
	for _, c := range cases {
		require.Error(t, validateSegment(c), "expected %q to be rejected", c)
	}
}

func TestValidateSegmentAcceptsPlainNames(t *testing.T) {
	cases := []string{"a", "file.txt", "sub-dir_1"}
	for _, c := range cases {
		require.NoError(t, validateSegment(c), "expected %q to be accepted", c)
	}
}

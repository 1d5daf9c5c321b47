package wf

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// H computes the stable, collision-resistant identity of a description
// tagged with a discriminator (the workflow kind, "value" or "path";
// Extract identities come from hExtract instead). encoding/json produces a deterministic byte sequence for
// a fixed Go struct shape (field order is declaration order, and Expr
// contains no maps), so hashing its encoding is a faithful canonical
// serialisation of the description without pulling in a third-party
// canonicalisation library - see DESIGN.md for why this one corner stays
// on the standard library.
func H(d Expr, tag string) string {
	data, err := json.Marshal(d)
	if err != nil {
		// Expr is a plain data struct with no cyclic or unsupported
		// fields; Marshal can only fail here if that invariant breaks.
		panic("wf: description is not serialisable: " + err.Error())
	}
	h := sha256.New()
	h.Write(data)
	h.Write([]byte{0})
	h.Write([]byte(tag))
	return hex.EncodeToString(h.Sum(nil))
}

// hExtract computes an Extract's identity per spec: H(description(dir), p)
// where p is the fully-flattened segment list.
func hExtract(parentExpr Expr, segments []string) string {
	data, err := json.Marshal(parentExpr)
	if err != nil {
		panic("wf: description is not serialisable: " + err.Error())
	}
	h := sha256.New()
	h.Write(data)
	for _, s := range segments {
		h.Write([]byte{0})
		h.Write([]byte(s))
	}
	return hex.EncodeToString(h.Sum(nil))
}

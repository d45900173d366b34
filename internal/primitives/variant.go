// Package primitives defines the foundational data structures shared by the
// graph model, the event runtime, and the path enumerator: the tagged-union
// stand-in for domain State/Event values, the predicate-narrowing Matcher,
// and an insertion-ordered map used wherever registration order matters.
//
// All implementations here are stdlib-only: these are the library's own
// core abstractions, not a concern any ecosystem package already covers.
package primitives

// Variant is implemented by domain State and Event types. StateProof treats
// states and events as values drawn from closed tagged-union families; Go
// has no native tagged union, so each concrete variant type reports its own
// discriminator string. Two different Go types may legitimately report the
// same name only if the caller intends them to be indistinguishable to
// the graph; in practice each variant is its own type.
type Variant interface {
	VariantName() string
}

// NameOf returns the variant name of v, or "" if v is nil.
func NameOf(v Variant) string {
	if v == nil {
		return ""
	}
	return v.VariantName()
}

package primitives

// Matcher is a predicate-carrying type discriminator: it narrows a Variant
// value of some supertype to one variant class, optionally conjoined with
// additional predicates. Matches is true iff the value's VariantName
// equals the matcher's target class AND every predicate accepts the value.
//
// Matcher is also used as an index key into StateDef/EventTransition
// associations; two Matcher values are distinct keys even if they target
// the same class (identity is per-instance, not per-name).
type Matcher struct {
	class string
	preds []func(Variant) bool
}

// Any returns a matcher that accepts every value whose VariantName equals
// class. class is typically the zero-value instance's VariantName() for
// the Go type being matched; callers construct it via AnyOf.
func Any(class string) *Matcher {
	return &Matcher{class: class}
}

// AnyOf returns a matcher for the variant class of the given sample value.
// The sample is used only to read its VariantName(); it is not retained.
func AnyOf(sample Variant) *Matcher {
	return Any(NameOf(sample))
}

// Eq returns a matcher that additionally requires the matched value to
// equal value (via ==, so value's underlying type must be comparable).
func Eq(value Variant) *Matcher {
	m := AnyOf(value)
	return m.Where(func(v Variant) bool { return v == value })
}

// Where returns a new Matcher with predicate conjoined to m's existing
// predicates. m is not mutated; the returned matcher is a distinct value.
func (m *Matcher) Where(predicate func(Variant) bool) *Matcher {
	preds := make([]func(Variant) bool, len(m.preds), len(m.preds)+1)
	copy(preds, m.preds)
	preds = append(preds, predicate)
	return &Matcher{class: m.class, preds: preds}
}

// Matches returns true iff value's VariantName equals the matcher's target
// class and every conjoined predicate accepts value.
func (m *Matcher) Matches(value Variant) bool {
	if NameOf(value) != m.class {
		return false
	}
	for _, p := range m.preds {
		if !p(value) {
			return false
		}
	}
	return true
}

// MatchedClass returns the variant class this matcher targets.
func (m *Matcher) MatchedClass() string {
	return m.class
}

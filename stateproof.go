package stateproof

import (
	"github.com/comalice/stateproof/internal/primitives"
)

// Variant is a closed-variant-family value: a tagged union discriminated
// by VariantName.
type Variant = primitives.Variant

// Matcher narrows a Variant supertype to one variant class, optionally
// conjoined with additional predicates.
type Matcher = primitives.Matcher

// Any returns a Matcher accepting every value tagged with the given variant
// class name.
func Any(class string) *Matcher { return primitives.Any(class) }

// AnyOf returns a Matcher accepting every value of sample's variant class.
func AnyOf(sample Variant) *Matcher { return primitives.AnyOf(sample) }

// Eq returns a Matcher accepting only values equal to value.
func Eq(value Variant) *Matcher { return primitives.Eq(value) }

// NameOf returns v's variant class name, or "" when v is nil.
func NameOf(v Variant) string { return primitives.NameOf(v) }

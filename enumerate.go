package stateproof

import (
	"github.com/comalice/stateproof/internal/enumerator"
)

// HashAlgorithm selects the CRC variant a TestCase's name is hashed
// with.
type HashAlgorithm = enumerator.HashAlgorithm

const (
	CRC16 = enumerator.CRC16
	CRC32 = enumerator.CRC32
)

// TestGenConfig tunes the path enumerator's bounded DFS.
type TestGenConfig = enumerator.Config

// TestCase is one emitted path rendered as a named test.
type TestCase = enumerator.TestCase

// Enumerate walks g and returns the deterministic TestCase set, sorted by
// path length ascending.
func Enumerate(g *Graph, cfg TestGenConfig) []TestCase {
	return enumerator.Enumerate(g, cfg)
}

// EnumeratorError reports a failure on the enumerator's introspection
// surface.
type EnumeratorError = enumerator.Error

// IntrospectionFailure: a GraphProvider factory could not be invoked or
// returned no usable Graph.
const IntrospectionFailure = enumerator.IntrospectionFailure

// GraphProvider is an introspection-provider factory: given a machine's
// display name, it returns the Graph backing that machine.
type GraphProvider = enumerator.GraphProvider

// Introspect invokes provider and wraps any failure as an EnumeratorError.
func Introspect(name string, provider GraphProvider) (*Graph, error) {
	return enumerator.Introspect(name, provider)
}

package enumerator

import "github.com/comalice/stateproof/internal/graph"

// ErrKind identifies a category of enumerator-surface failure.
type ErrKind int

const (
	// IntrospectionFailure: a supplied GraphProvider factory could not be
	// invoked or returned no usable graph.
	IntrospectionFailure ErrKind = iota
)

func (k ErrKind) String() string {
	switch k {
	case IntrospectionFailure:
		return "introspection failure"
	default:
		return "unknown enumerator error"
	}
}

// Error is the enumerator package's error type.
type Error struct {
	Kind ErrKind
	Name string // the introspected machine's display name, if known
	Err  error  // the underlying cause, if any
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Name != "" {
		msg = msg + ": " + e.Name
	}
	if e.Err != nil {
		msg = msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// GraphProvider is an introspection-provider factory, typically supplied
// by a build-tool layer: given a machine's display name, it returns the
// graph backing that machine, or an error if none exists.
type GraphProvider func(name string) (*graph.Graph, error)

// Introspect invokes provider and wraps any failure as an IntrospectionFailure
// Error, giving external diagram/viewer tooling a stable error shape to
// switch on regardless of what the caller-supplied factory does internally.
func Introspect(name string, provider GraphProvider) (*graph.Graph, error) {
	if provider == nil {
		return nil, &Error{Kind: IntrospectionFailure, Name: name}
	}
	g, err := provider(name)
	if err != nil {
		return nil, &Error{Kind: IntrospectionFailure, Name: name, Err: err}
	}
	if g == nil {
		return nil, &Error{Kind: IntrospectionFailure, Name: name}
	}
	return g, nil
}

// Package graph defines the immutable state-graph model and the builder
// that produces it from a declarative description: states keyed by
// matcher, guarded transition branches, and side-effect metadata.
package graph

import (
	"github.com/comalice/stateproof/internal/primitives"
)

// Guard decides whether a TransitionBranch fires for the given state/event
// pair.
type Guard func(state, event primitives.Variant) bool

// SideEffect is a branch's suspendable post-transition action. It may
// return a follow-up event, which the event runtime inserts at the head of
// its queue.
type SideEffect func(ctx Context, state, event primitives.Variant) (primitives.Variant, error)

// Context is the minimal execution context a side effect runs under. The
// runtime package supplies the concrete implementation; graph only needs
// the shape so SideEffect can be defined without importing runtime (which
// itself depends on graph).
type Context interface {
	Done() <-chan struct{}
	Err() error
}

// EmittedEvent documents one event variant a branch's side effect may
// return, used by the enumerator for identity differentiation and by
// external diagram tooling.
type EmittedEvent struct {
	Label   string
	Variant string // variant class name, e.g. NameOf(event)
}

// TransitionBranch is one guarded or unconditional alternative within an
// EventTransition.
type TransitionBranch struct {
	GuardLabel string // "default" when unconditional
	Guard      Guard
	// Stay is true for a "stay in place" directive: the resolved target is
	// whatever state the branch is evaluated from, not Target.
	Stay          bool
	Target        primitives.Variant // nil when Stay is true
	SideEffect    SideEffect
	Metadata      map[string]any
	EmittedEvents []EmittedEvent
}

// IsDefault reports whether this branch is the unconditional "default"
// branch. A default branch is always the sole branch of its
// EventTransition.
func (b *TransitionBranch) IsDefault() bool {
	return b.GuardLabel == "default" || b.GuardLabel == ""
}

// Resolve computes the target state for taking this branch from the given
// current state.
func (b *TransitionBranch) Resolve(state primitives.Variant) primitives.Variant {
	if b.Stay {
		return state
	}
	return b.Target
}

// EventTransition is a non-empty ordered list of TransitionBranch values
// evaluated in registration order; the first whose guard accepts wins.
type EventTransition struct {
	EventMatcher *primitives.Matcher
	Branches     []*TransitionBranch
}

// StateDef is the insertion-ordered association from event matcher to
// EventTransition for one state.
type StateDef struct {
	StateMatcher *primitives.Matcher
	// Sample is the canonical representative value passed to
	// Builder.State for this state, stored as given. The path enumerator
	// enumerates every branch without evaluating guards and does not read
	// it.
	Sample      primitives.Variant
	transitions *primitives.OrderedMap[*EventTransition]
}

// Transitions returns the event matchers registered for this state, in
// registration order.
func (sd *StateDef) Transitions() []*primitives.Matcher {
	return sd.transitions.Keys()
}

// TransitionFor returns the EventTransition registered for eventMatcher, if
// any.
func (sd *StateDef) TransitionFor(eventMatcher *primitives.Matcher) (*EventTransition, bool) {
	return sd.transitions.Get(eventMatcher)
}

// FindTransition returns the first registered EventTransition whose event
// matcher matches event, searching in registration order, along with the
// matcher it was registered under.
func (sd *StateDef) FindTransition(event primitives.Variant) (*primitives.Matcher, *EventTransition, bool) {
	var matcher *primitives.Matcher
	var et *EventTransition
	found := false
	sd.transitions.Each(func(key *primitives.Matcher, value *EventTransition) bool {
		if key.Matches(event) {
			matcher, et, found = key, value, true
			return false
		}
		return true
	})
	return matcher, et, found
}

// Graph is the immutable description of states, guarded transition
// branches, and side-effect metadata. It is constructed once by
// Builder.Build and is thereafter read-only.
type Graph struct {
	Initial primitives.Variant
	states  *primitives.OrderedMap[*StateDef]
}

// StateMatchers returns the registered state matchers in insertion order.
func (g *Graph) StateMatchers() []*primitives.Matcher {
	return g.states.Keys()
}

// StateDefFor returns the StateDef registered for stateMatcher.
func (g *Graph) StateDefFor(stateMatcher *primitives.Matcher) (*StateDef, bool) {
	return g.states.Get(stateMatcher)
}

// FindStateDef returns the first registered StateDef whose state matcher
// matches state, in registration order, along with the matcher key.
func (g *Graph) FindStateDef(state primitives.Variant) (*primitives.Matcher, *StateDef, bool) {
	var matcher *primitives.Matcher
	var sd *StateDef
	found := false
	g.states.Each(func(key *primitives.Matcher, value *StateDef) bool {
		if key.Matches(state) {
			matcher, sd, found = key, value, true
			return false
		}
		return true
	})
	return matcher, sd, found
}

// Edge is one state/event/target triple surfaced to external diagram
// tooling through Introspector.
type Edge struct {
	Event      string
	Target     string
	GuardLabel string
	Stay       bool
}

// StateNames returns the registered states' variant class names in
// insertion order, deduplicated, for display in external viewer tooling.
func (g *Graph) StateNames() []string {
	seen := make(map[string]bool, g.states.Len())
	var names []string
	for _, m := range g.StateMatchers() {
		name := m.MatchedClass()
		if seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}

// DefsForClass returns every StateDef registered under a matcher targeting
// the given variant class, in registration order. A state's effective
// definition is the concatenation of all of them: callers may register the
// same class under several matcher instances (distinct predicates, or
// simply separate State calls), and lookups treat the combined sequence as
// one insertion-ordered definition.
func (g *Graph) DefsForClass(stateName string) []*StateDef {
	var defs []*StateDef
	for _, m := range g.StateMatchers() {
		if m.MatchedClass() == stateName {
			sd, _ := g.StateDefFor(m)
			defs = append(defs, sd)
		}
	}
	return defs
}

// FindTransition returns the first registered EventTransition for event
// among every StateDef whose state matcher matches state, searching state
// defs and their event matchers in registration order.
func (g *Graph) FindTransition(state, event primitives.Variant) (*EventTransition, bool) {
	var found *EventTransition
	g.states.Each(func(key *primitives.Matcher, sd *StateDef) bool {
		if !key.Matches(state) {
			return true
		}
		if _, et, ok := sd.FindTransition(event); ok {
			found = et
			return false
		}
		return true
	})
	return found, found != nil
}

// EdgesFrom returns the outgoing edges declared for the state named
// stateName, one per registered transition branch, in registration order.
func (g *Graph) EdgesFrom(stateName string) []Edge {
	var edges []Edge
	for _, sd := range g.DefsForClass(stateName) {
		for _, em := range sd.Transitions() {
			et, _ := sd.TransitionFor(em)
			for _, br := range et.Branches {
				target := stateName
				if !br.Stay {
					target = primitives.NameOf(br.Target)
				}
				edges = append(edges, Edge{
					Event:      em.MatchedClass(),
					Target:     target,
					GuardLabel: br.GuardLabel,
					Stay:       br.Stay,
				})
			}
		}
	}
	return edges
}

// Introspector is the read-only view external diagram/viewer tooling
// consumes: display names and declared edges, never the live machine.
type Introspector interface {
	StateNames() []string
	EdgesFrom(stateName string) []Edge
}

var _ Introspector = (*Graph)(nil)

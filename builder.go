package stateproof

import (
	"github.com/comalice/stateproof/internal/graph"
)

// Graph is an immutable state-graph model: states, guarded transition
// branches, and side-effect metadata.
type Graph = graph.Graph

// Builder is the declarative surface that produces a Graph.
type Builder = graph.Builder

// StateBuilder configures one registered state's transitions.
type StateBuilder = graph.StateBuilder

// EventBuilder configures one state's EventTransition.
type EventBuilder = graph.EventBuilder

// BranchBuilder configures one TransitionBranch's directive, side effect,
// and emitted-event metadata.
type BranchBuilder = graph.BranchBuilder

// Guard is a transition-branch predicate over the current state and the
// incoming event.
type Guard = graph.Guard

// SideEffect runs after a transition is resolved and may return a
// follow-up event.
type SideEffect = graph.SideEffect

// Context is the execution context a SideEffect runs under.
type Context = graph.Context

// EmittedEvent declares one event variant a branch's side effect may
// return.
type EmittedEvent = graph.EmittedEvent

// TransitionBranch is one guarded or default branch of an EventTransition.
type TransitionBranch = graph.TransitionBranch

// EventTransition is the non-empty ordered list of branches for one event
// matcher within a state.
type EventTransition = graph.EventTransition

// StateDef is the insertion-ordered association from event matcher to
// EventTransition for one state.
type StateDef = graph.StateDef

// BuildError reports a fatal graph-builder validation failure.
type BuildError = graph.BuildError

// Edge is one state/event/target triple surfaced to external diagram
// tooling.
type Edge = graph.Edge

// Introspector is the read-only graph surface external diagram/viewer
// tooling consumes. *Graph implements it directly.
type Introspector = graph.Introspector

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder { return graph.NewBuilder() }

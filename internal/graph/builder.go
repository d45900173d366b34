package graph

import "github.com/comalice/stateproof/internal/primitives"

// Builder is the declarative surface that produces an immutable Graph.
// States and events are registered under matchers rather than plain names
// so payload-bearing variants work.
type Builder struct {
	initial    primitives.Variant
	hasInitial bool
	states     *primitives.OrderedMap[*StateDef]
	err        *BuildError // first structural error seen during registration
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{states: primitives.NewOrderedMap[*StateDef]()}
}

// Initial sets the starting state. Calling Initial more than once
// overwrites the previous value; the invariant enforced at Build time is
// only that it was set at least once.
func (b *Builder) Initial(state primitives.Variant) *Builder {
	b.initial = state
	b.hasInitial = true
	return b
}

// State registers (or retrieves) the StateDef for stateMatcher. sample is
// stored as the StateDef's canonical representative value (StateDef.Sample)
// when the StateDef is first created; pass the same value used with Initial
// for the initial state. The path enumerator does not read it.
func (b *Builder) State(stateMatcher *primitives.Matcher, sample primitives.Variant) *StateBuilder {
	sd, ok := b.states.Get(stateMatcher)
	if !ok {
		sd = &StateDef{
			StateMatcher: stateMatcher,
			Sample:       sample,
			transitions:  primitives.NewOrderedMap[*EventTransition](),
		}
		b.states.Set(stateMatcher, sd)
	}
	return &StateBuilder{b: b, sd: sd}
}

// Build validates the configuration and returns an immutable Graph, or
// the first BuildError encountered.
func (b *Builder) Build() (*Graph, error) {
	if b.err != nil {
		return nil, b.err
	}
	if !b.hasInitial {
		return nil, &BuildError{Kind: ErrMissingInitial}
	}

	var buildErr error
	b.states.Each(func(stateKey *primitives.Matcher, sd *StateDef) bool {
		sd.transitions.Each(func(eventKey *primitives.Matcher, et *EventTransition) bool {
			if len(et.Branches) == 0 {
				buildErr = &BuildError{
					Kind:  ErrEmptyEventBlock,
					State: stateKey.MatchedClass(),
					Event: eventKey.MatchedClass(),
				}
				return false
			}
			return true
		})
		return buildErr == nil
	})
	if buildErr != nil {
		return nil, buildErr
	}

	return &Graph{Initial: b.initial, states: b.states}, nil
}

// StateBuilder configures the transitions of one registered state.
type StateBuilder struct {
	b  *Builder
	sd *StateDef
}

// On begins (or resumes) configuring the EventTransition for eventMatcher.
func (sb *StateBuilder) On(eventMatcher *primitives.Matcher) *EventBuilder {
	et, ok := sb.sd.TransitionFor(eventMatcher)
	if !ok {
		et = &EventTransition{EventMatcher: eventMatcher}
		sb.sd.transitions.Set(eventMatcher, et)
	}
	return &EventBuilder{b: sb.b, stateClass: sb.sd.StateMatcher.MatchedClass(), et: et}
}

// EventBuilder configures one EventTransition: either the unguarded shape
// (TransitionTo/StayInPlace called directly here) or the guarded shape
// (one or more Condition calls, optionally followed by Otherwise), never
// both.
type EventBuilder struct {
	b          *Builder
	stateClass string
	et         *EventTransition
	sawDirect  bool
	sawGuarded bool
}

func (eb *EventBuilder) fail(err *BuildError) {
	if eb.b.err == nil {
		err.State = eb.stateClass
		if err.Event == "" {
			err.Event = eb.et.EventMatcher.MatchedClass()
		}
		eb.b.err = err
	}
}

func (eb *EventBuilder) checkUnguardedAllowed() {
	if eb.sawDirect {
		eb.fail(&BuildError{Kind: ErrMultipleDirectives})
	}
	eb.sawDirect = true
	if eb.sawGuarded {
		eb.fail(&BuildError{Kind: ErrMixedDirectives})
	}
}

// TransitionTo registers the unguarded "always transition to target"
// shape. Returns a BranchBuilder to optionally attach a side effect.
func (eb *EventBuilder) TransitionTo(target primitives.Variant) *BranchBuilder {
	eb.checkUnguardedAllowed()
	branch := &TransitionBranch{GuardLabel: "default", Target: target}
	eb.et.Branches = append(eb.et.Branches, branch)
	return &BranchBuilder{eb: eb, branch: branch, directiveCount: 1}
}

// StayInPlace registers the unguarded "stay in the current state" shape.
func (eb *EventBuilder) StayInPlace() *BranchBuilder {
	eb.checkUnguardedAllowed()
	branch := &TransitionBranch{GuardLabel: "default", Stay: true}
	eb.et.Branches = append(eb.et.Branches, branch)
	return &BranchBuilder{eb: eb, branch: branch, directiveCount: 1}
}

// Condition registers one guarded branch. then configures the branch's
// transition directive and optional side effect; it must set exactly one
// of TransitionTo/StayInPlace.
func (eb *EventBuilder) Condition(label string, guard Guard, then func(*BranchBuilder)) *EventBuilder {
	eb.sawGuarded = true
	if eb.sawDirect {
		eb.fail(&BuildError{Kind: ErrMixedDirectives})
	}
	branch := &TransitionBranch{GuardLabel: label, Guard: guard}
	eb.et.Branches = append(eb.et.Branches, branch)
	bb := &BranchBuilder{eb: eb, branch: branch}
	then(bb)
	if bb.directiveCount == 0 {
		eb.fail(&BuildError{Kind: ErrNoDirective, Context: label})
	}
	return eb
}

// Otherwise registers the trailing unconditional branch of a guarded
// event block. It must be the last call in the chain for this event.
func (eb *EventBuilder) Otherwise(then func(*BranchBuilder)) *EventBuilder {
	eb.sawGuarded = true
	if eb.sawDirect {
		eb.fail(&BuildError{Kind: ErrMixedDirectives})
	}
	branch := &TransitionBranch{GuardLabel: "otherwise"}
	eb.et.Branches = append(eb.et.Branches, branch)
	bb := &BranchBuilder{eb: eb, branch: branch}
	then(bb)
	if bb.directiveCount == 0 {
		eb.fail(&BuildError{Kind: ErrNoDirective, Context: "otherwise"})
	}
	return eb
}

// BranchBuilder configures one TransitionBranch's directive, side effect,
// and emitted-event metadata.
type BranchBuilder struct {
	eb             *EventBuilder
	branch         *TransitionBranch
	directiveCount int
	sawEmits       bool
}

// TransitionTo sets this branch's target.
func (bb *BranchBuilder) TransitionTo(target primitives.Variant) *BranchBuilder {
	bb.addDirective()
	bb.branch.Target = target
	bb.branch.Stay = false
	return bb
}

// StayInPlace marks this branch as "stay in the current state".
func (bb *BranchBuilder) StayInPlace() *BranchBuilder {
	bb.addDirective()
	bb.branch.Stay = true
	return bb
}

func (bb *BranchBuilder) addDirective() {
	bb.directiveCount++
	if bb.directiveCount > 1 {
		bb.eb.fail(&BuildError{Kind: ErrMultipleDirectives, Context: bb.branch.GuardLabel})
	}
}

// SideEffect attaches a post-transition side effect to this branch.
func (bb *BranchBuilder) SideEffect(fn SideEffect) *BranchBuilder {
	bb.branch.SideEffect = fn
	return bb
}

// SideEffectEmits declares the event variants this branch's side effect
// may return. Requires a prior SideEffect call on the same branch; at most
// one SideEffectEmits per branch.
func (bb *BranchBuilder) SideEffectEmits(emitted ...EmittedEvent) *BranchBuilder {
	if bb.sawEmits {
		bb.eb.fail(&BuildError{Kind: ErrDuplicateEmits})
		return bb
	}
	bb.sawEmits = true
	if bb.branch.SideEffect == nil {
		bb.eb.fail(&BuildError{Kind: ErrEmitsWithoutSideEffect})
		return bb
	}
	bb.branch.EmittedEvents = emitted
	return bb
}

// Metadata attaches free-form metadata to this branch.
func (bb *BranchBuilder) Metadata(md map[string]any) *BranchBuilder {
	bb.branch.Metadata = md
	return bb
}

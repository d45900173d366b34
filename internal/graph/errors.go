package graph

import "fmt"

// ErrKind identifies a category of builder validation failure, a
// comparable typed value so callers can errors.As/switch on a stable
// category instead of matching error strings.
type ErrKind int

const (
	// ErrMissingInitial: Build called without a prior Initial call.
	ErrMissingInitial ErrKind = iota
	// ErrMixedDirectives: an event block mixes an unguarded directive
	// (TransitionTo/StayInPlace at the event level) with guarded branches
	// (Condition/Otherwise).
	ErrMixedDirectives
	// ErrMultipleDirectives: a single branch set more than one transition
	// directive (e.g. both TransitionTo and StayInPlace), or an event block
	// registered a second unguarded directive.
	ErrMultipleDirectives
	// ErrNoDirective: a guarded then-clause or otherwise-clause finished
	// without setting a transition directive.
	ErrNoDirective
	// ErrEmitsWithoutSideEffect: SideEffectEmits was called on a branch
	// with no SideEffect.
	ErrEmitsWithoutSideEffect
	// ErrDuplicateEmits: SideEffectEmits was called more than once on the
	// same branch.
	ErrDuplicateEmits
	// ErrEmptyEventBlock: an event block (On call) registered zero
	// branches.
	ErrEmptyEventBlock
)

func (k ErrKind) String() string {
	switch k {
	case ErrMissingInitial:
		return "missing initial state"
	case ErrMixedDirectives:
		return "unguarded directive mixed with guarded branches"
	case ErrMultipleDirectives:
		return "multiple transition directives in one branch"
	case ErrNoDirective:
		return "branch sets no transition directive"
	case ErrEmitsWithoutSideEffect:
		return "side_effect_emits without side_effect"
	case ErrDuplicateEmits:
		return "side_effect_emits set more than once"
	case ErrEmptyEventBlock:
		return "event block has no branches"
	default:
		return "unknown build error"
	}
}

// BuildError is a fatal validation failure raised by Builder.Build.
// Context (state/event class names) is included when available to aid
// diagnosis without needing string-matching on Error().
type BuildError struct {
	Kind    ErrKind
	State   string // variant class name of the offending state, if known
	Event   string // variant class name of the offending event, if known
	Context string // free-form extra detail
}

func (e *BuildError) Error() string {
	msg := e.Kind.String()
	if e.State != "" {
		msg = fmt.Sprintf("%s: state %q", msg, e.State)
	}
	if e.Event != "" {
		msg = fmt.Sprintf("%s event %q", msg, e.Event)
	}
	if e.Context != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Context)
	}
	return msg
}

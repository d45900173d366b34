package graph_test

import (
	"testing"

	"github.com/comalice/stateproof/internal/graph"
	"github.com/comalice/stateproof/internal/primitives"
)

type state string

func (s state) VariantName() string { return "state:" + string(s) }

type event string

func (e event) VariantName() string { return "event:" + string(e) }

func matchState(s state) *primitives.Matcher { return primitives.AnyOf(s) }
func matchEvent(e event) *primitives.Matcher { return primitives.AnyOf(e) }

// buildLinear constructs a minimal loading machine: Idle/Loading/Success/
// Failure with Start/OnLoaded/OnFailed/Retry/Reset.
func buildLinear(t *testing.T) *graph.Graph {
	t.Helper()
	b := graph.NewBuilder()
	b.Initial(state("Idle"))

	b.State(matchState("Idle"), state("Idle")).
		On(matchEvent("Start")).TransitionTo(state("Loading"))

	b.State(matchState("Loading"), state("Loading")).
		On(matchEvent("OnLoaded")).TransitionTo(state("Success"))
	b.State(matchState("Loading"), state("Loading")).
		On(matchEvent("OnFailed")).TransitionTo(state("Failure"))

	b.State(matchState("Success"), state("Success")).
		On(matchEvent("Reset")).TransitionTo(state("Idle"))

	b.State(matchState("Failure"), state("Failure")).
		On(matchEvent("Retry")).TransitionTo(state("Loading"))

	g, err := b.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return g
}

func TestGraphIntrospectorSurface(t *testing.T) {
	g := buildLinear(t)

	names := g.StateNames()
	want := map[string]bool{"Idle": true, "Loading": true, "Success": true, "Failure": true}
	if len(names) != len(want) {
		t.Fatalf("StateNames() = %v, want 4 distinct names", names)
	}
	for _, n := range names {
		if !want[n] {
			t.Fatalf("unexpected state name %q", n)
		}
	}

	edges := g.EdgesFrom("Loading")
	if len(edges) != 2 {
		t.Fatalf("EdgesFrom(Loading) = %v, want 2 edges", edges)
	}
	var sawLoaded, sawFailed bool
	for _, e := range edges {
		switch e.Event {
		case "OnLoaded":
			sawLoaded = e.Target == "Success"
		case "OnFailed":
			sawFailed = e.Target == "Failure"
		}
	}
	if !sawLoaded || !sawFailed {
		t.Fatalf("edges = %+v, want OnLoaded->Success and OnFailed->Failure", edges)
	}

	if g.EdgesFrom("NoSuchState") != nil {
		t.Fatal("expected nil edges for an unknown state name")
	}
}

func TestBuilderLinearMachine(t *testing.T) {
	g := buildLinear(t)

	if g.Initial != state("Idle") {
		t.Fatalf("Initial = %v, want Idle", g.Initial)
	}

	_, sd, ok := g.FindStateDef(state("Idle"))
	if !ok {
		t.Fatal("expected Idle state def to be found")
	}
	_, et, ok := sd.FindTransition(event("Start"))
	if !ok || len(et.Branches) != 1 {
		t.Fatal("expected exactly one branch on Idle.Start")
	}
	if et.Branches[0].Resolve(state("Idle")) != state("Loading") {
		t.Fatal("expected Idle.Start to resolve to Loading")
	}
}

// TestFindTransitionSearchesAllDefsForState: registering the same state
// class through separate State calls fragments it across several StateDefs;
// lookups must treat the concatenation as one definition.
func TestFindTransitionSearchesAllDefsForState(t *testing.T) {
	g := buildLinear(t)

	et, ok := g.FindTransition(state("Loading"), event("OnFailed"))
	if !ok {
		t.Fatal("expected OnFailed to be found on the later Loading definition")
	}
	if et.Branches[0].Resolve(state("Loading")) != state("Failure") {
		t.Fatal("expected Loading.OnFailed to resolve to Failure")
	}

	if defs := g.DefsForClass("state:Loading"); len(defs) != 2 {
		t.Fatalf("DefsForClass(state:Loading) = %d defs, want 2", len(defs))
	}
}

func TestBuilderMissingInitialFails(t *testing.T) {
	b := graph.NewBuilder()
	b.State(matchState("Idle"), state("Idle")).
		On(matchEvent("Start")).TransitionTo(state("Loading"))

	_, err := b.Build()
	if err == nil {
		t.Fatal("expected Build to fail without an initial state")
	}
	be, ok := err.(*graph.BuildError)
	if !ok || be.Kind != graph.ErrMissingInitial {
		t.Fatalf("err = %v, want ErrMissingInitial", err)
	}
}

func TestBuilderEmptyEventBlockFails(t *testing.T) {
	b := graph.NewBuilder()
	b.Initial(state("Idle"))
	sb := b.State(matchState("Idle"), state("Idle"))
	// Registers the event transition but attaches no branch.
	sb.On(matchEvent("Start"))

	_, err := b.Build()
	be, ok := err.(*graph.BuildError)
	if !ok || be.Kind != graph.ErrEmptyEventBlock {
		t.Fatalf("err = %v, want ErrEmptyEventBlock", err)
	}
}

func TestBuilderMixedDirectivesFails(t *testing.T) {
	b := graph.NewBuilder()
	b.Initial(state("Form"))
	eb := b.State(matchState("Form"), state("Form")).On(matchEvent("OnSubmit"))
	eb.TransitionTo(state("Submitting"))
	eb.Condition("amount>0", func(s, e primitives.Variant) bool { return true }, func(bb *graph.BranchBuilder) {
		bb.TransitionTo(state("Submitting"))
	})

	_, err := b.Build()
	be, ok := err.(*graph.BuildError)
	if !ok || be.Kind != graph.ErrMixedDirectives {
		t.Fatalf("err = %v, want ErrMixedDirectives", err)
	}
}

func TestBuilderMultipleDirectivesInBranchFails(t *testing.T) {
	b := graph.NewBuilder()
	b.Initial(state("Form"))
	b.State(matchState("Form"), state("Form")).
		On(matchEvent("OnSubmit")).
		Condition("amount>0", func(s, e primitives.Variant) bool { return true }, func(bb *graph.BranchBuilder) {
			bb.TransitionTo(state("Submitting"))
			bb.StayInPlace()
		})

	_, err := b.Build()
	be, ok := err.(*graph.BuildError)
	if !ok || be.Kind != graph.ErrMultipleDirectives {
		t.Fatalf("err = %v, want ErrMultipleDirectives", err)
	}
}

func TestBuilderSecondUnguardedDirectiveFails(t *testing.T) {
	b := graph.NewBuilder()
	b.Initial(state("Form"))
	eb := b.State(matchState("Form"), state("Form")).On(matchEvent("OnSubmit"))
	eb.TransitionTo(state("Submitting"))
	eb.StayInPlace()

	_, err := b.Build()
	be, ok := err.(*graph.BuildError)
	if !ok || be.Kind != graph.ErrMultipleDirectives {
		t.Fatalf("err = %v, want ErrMultipleDirectives", err)
	}
}

func TestBuilderEmptyThenClauseFails(t *testing.T) {
	b := graph.NewBuilder()
	b.Initial(state("Form"))
	b.State(matchState("Form"), state("Form")).
		On(matchEvent("OnSubmit")).
		Condition("amount>0", func(s, e primitives.Variant) bool { return true }, func(bb *graph.BranchBuilder) {
			// No directive set.
		})

	_, err := b.Build()
	be, ok := err.(*graph.BuildError)
	if !ok || be.Kind != graph.ErrNoDirective {
		t.Fatalf("err = %v, want ErrNoDirective", err)
	}
}

func TestBuilderEmitsWithoutSideEffectFails(t *testing.T) {
	b := graph.NewBuilder()
	b.Initial(state("Form"))
	b.State(matchState("Form"), state("Form")).
		On(matchEvent("OnSubmit")).
		TransitionTo(state("Submitting")).
		SideEffectEmits(graph.EmittedEvent{Label: "otp_required", Variant: "event:OnOtpRequired"})

	_, err := b.Build()
	be, ok := err.(*graph.BuildError)
	if !ok || be.Kind != graph.ErrEmitsWithoutSideEffect {
		t.Fatalf("err = %v, want ErrEmitsWithoutSideEffect", err)
	}
}

// TestBuilderGuardedSubmit covers a Form state with a guarded OnSubmit
// branch plus an otherwise branch.
func TestBuilderGuardedSubmit(t *testing.T) {
	b := graph.NewBuilder()
	b.Initial(state("Form"))

	sideEffect := func(ctx graph.Context, s, e primitives.Variant) (primitives.Variant, error) {
		return event("OnTransferCompleted"), nil
	}

	b.State(matchState("Form"), state("Form")).
		On(matchEvent("OnSubmit")).
		Condition("amount>0", func(s, e primitives.Variant) bool { return true }, func(bb *graph.BranchBuilder) {
			bb.TransitionTo(state("Submitting")).
				SideEffect(sideEffect).
				SideEffectEmits(
					graph.EmittedEvent{Label: "otp_required", Variant: "event:OnOtpRequired"},
					graph.EmittedEvent{Label: "transfer_completed", Variant: "event:OnTransferCompleted"},
					graph.EmittedEvent{Label: "transfer_failed", Variant: "event:OnTransferFailed"},
				)
		}).
		Otherwise(func(bb *graph.BranchBuilder) {
			bb.StayInPlace()
		})

	g, err := b.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	_, sd, _ := g.FindStateDef(state("Form"))
	_, et, _ := sd.FindTransition(event("OnSubmit"))
	if len(et.Branches) != 2 {
		t.Fatalf("len(Branches) = %d, want 2", len(et.Branches))
	}
	if et.Branches[0].GuardLabel != "amount>0" || len(et.Branches[0].EmittedEvents) != 3 {
		t.Fatal("expected first branch to be the guarded amount>0 branch with 3 emitted events")
	}
	if et.Branches[1].GuardLabel != "otherwise" {
		t.Fatal("expected second branch to be the otherwise branch")
	}
	if !et.Branches[1].Stay {
		t.Fatal("expected otherwise branch to stay in place")
	}
}

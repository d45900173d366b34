package stateproof

import (
	"log/slog"

	"github.com/comalice/stateproof/internal/runtime"
)

// Runtime is the cooperative, single-consumer event runtime: it processes
// events sequentially against a Graph, re-queuing side-effect follow-up
// events ahead of externally submitted ones.
type Runtime = runtime.Runtime

// RuntimeOption configures a Runtime at construction time.
type RuntimeOption = runtime.Option

// NoTransitionError reports that no branch matched the current
// state/event pair; it is recoverable and non-fatal.
type NoTransitionError = runtime.NoTransitionError

// ErrClosed is returned by OnEvent after Close.
var ErrClosed = runtime.ErrClosed

// SideEffectExecutor runs branch side effects on a possibly-distinct
// execution context; the processor awaits its result before draining the
// next event.
type SideEffectExecutor = runtime.SideEffectExecutor

// GoroutineExecutor is the default SideEffectExecutor.
type GoroutineExecutor = runtime.GoroutineExecutor

// WithLogger attaches a structured logger to a Runtime.
func WithLogger(logger *slog.Logger) RuntimeOption { return runtime.WithLogger(logger) }

// WithSideEffectExecutor injects a custom SideEffectExecutor.
func WithSideEffectExecutor(e SideEffectExecutor) RuntimeOption {
	return runtime.WithSideEffectExecutor(e)
}

// NewRuntime constructs a Runtime over g, starting in g.Initial.
func NewRuntime(g *Graph, opts ...RuntimeOption) *Runtime {
	return runtime.New(g, opts...)
}

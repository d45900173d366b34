// Package runtime implements the cooperative, queue-driven event runtime:
// a single-consumer processor that evolves a live current state against an
// immutable graph.Graph, logging every transition and giving
// side-effect-emitted follow-up events front-of-queue priority over
// externally submitted ones.
//
// The event buffer is a mutex-guarded deque (container/list) paired with a
// small buffered channel used purely as a wake signal; each wake drains
// the deque head-first, so channel delivery order can never diverge from
// the deque's front-insertion order.
package runtime

import (
	"container/list"
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/comalice/stateproof/internal/graph"
	"github.com/comalice/stateproof/internal/primitives"
)

// Option configures a Runtime.
type Option func(*Runtime)

// WithLogger injects a structured logger for diagnostics (dropped events,
// side-effect errors). A nil logger falls back to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runtime) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithSideEffectExecutor injects a custom SideEffectExecutor.
func WithSideEffectExecutor(e SideEffectExecutor) Option {
	return func(r *Runtime) {
		if e != nil {
			r.executor = e
		}
	}
}

// SideEffectExecutor runs a branch's side effect on a possibly-distinct
// execution context. The processor awaits the returned result before
// resuming queue draining, so an implementation controls where the effect
// runs, not whether processing overlaps it.
type SideEffectExecutor interface {
	Execute(ctx graph.Context, fn graph.SideEffect, state, event primitives.Variant) (primitives.Variant, error)
}

// GoroutineExecutor is the default SideEffectExecutor: it runs fn on a
// fresh goroutine and waits for the result, abandoning the wait when the
// runtime's lifetime context is cancelled.
type GoroutineExecutor struct{}

func (GoroutineExecutor) Execute(ctx graph.Context, fn graph.SideEffect, state, event primitives.Variant) (primitives.Variant, error) {
	type result struct {
		ev  primitives.Variant
		err error
	}
	ch := make(chan result, 1)
	go func() {
		ev, err := fn(ctx, state, event)
		ch <- result{ev, err}
	}()
	select {
	case res := <-ch:
		return res.ev, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// sideEffectContext is the minimal graph.Context implementation passed to
// side effects, derived from the Runtime's lifetime context.
type sideEffectContext struct {
	ctx context.Context
}

func (c *sideEffectContext) Done() <-chan struct{} { return c.ctx.Done() }
func (c *sideEffectContext) Err() error { return c.ctx.Err() }

// Runtime is one live instance of an event runtime over a graph.Graph.
// Safe for concurrent OnEvent/AwaitIdle/CurrentState calls from multiple
// goroutines; event processing itself is strictly sequential. No two
// events for the same machine are ever processed in parallel.
type Runtime struct {
	g        *graph.Graph
	logger   *slog.Logger
	executor SideEffectExecutor

	mu               sync.Mutex
	cond             *sync.Cond
	queue            *list.List
	current          primitives.Variant
	log              []string
	pending          int
	sideEffectActive bool
	closed           bool

	wake   chan struct{}
	ctx    context.Context
	cancel context.CancelFunc

	subMu sync.Mutex
	subs  []chan primitives.Variant

	diagMu sync.Mutex
	diags  []chan *NoTransitionError
}

// New creates a Runtime positioned at g.Initial and starts its processor
// goroutine. Callers must eventually call Close.
func New(g *graph.Graph, opts ...Option) *Runtime {
	ctx, cancel := context.WithCancel(context.Background())
	r := &Runtime{
		g:        g,
		logger:   slog.Default(),
		executor: GoroutineExecutor{},
		queue:    list.New(),
		current:  g.Initial,
		wake:     make(chan struct{}, 1),
		ctx:      ctx,
		cancel:   cancel,
	}
	r.cond = sync.NewCond(&r.mu)
	for _, opt := range opts {
		opt(r)
	}
	go r.run()
	return r
}

// OnEvent enqueues event for asynchronous processing and returns
// immediately. The idle signal is reset (pending is incremented) before
// OnEvent returns, so OnEvent followed by AwaitIdle never observes a
// stale idle state.
func (r *Runtime) OnEvent(event primitives.Variant) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrClosed
	}
	r.queue.PushBack(event)
	r.pending++
	r.mu.Unlock()
	r.signalWake()
	return nil
}

// raiseInternal inserts a side-effect-emitted follow-up event at the head
// of the queue, ahead of any externally submitted event.
func (r *Runtime) raiseInternal(event primitives.Variant) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.queue.PushFront(event)
	r.pending++
	r.mu.Unlock()
	r.signalWake()
}

func (r *Runtime) signalWake() {
	select {
	case r.wake <- struct{}{}:
	default:
	}
}

// AwaitIdle blocks until the queue is empty and no side effect is in
// flight. By then every transition log entry for already-submitted events
// has been appended. Returns ErrClosed if the runtime is closed before it
// goes idle.
func (r *Runtime) AwaitIdle(ctx context.Context) error {
	done := make(chan struct{})
	var waitErr error
	go func() {
		r.mu.Lock()
		for (r.pending > 0 || r.sideEffectActive) && !r.closed {
			r.cond.Wait()
		}
		if r.closed && (r.pending > 0 || r.sideEffectActive) {
			waitErr = ErrClosed
		}
		r.mu.Unlock()
		close(done)
	}()
	select {
	case <-done:
		return waitErr
	case <-ctx.Done():
		return ctx.Err()
	}
}

// CurrentState returns a snapshot of the current state.
func (r *Runtime) CurrentState() primitives.Variant {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Subscribe returns a channel publishing the current state every time it
// changes, with last-value semantics: a slow consumer sees only the most
// recent state, never a backlog.
func (r *Runtime) Subscribe() <-chan primitives.Variant {
	ch := make(chan primitives.Variant, 1)
	r.subMu.Lock()
	r.subs = append(r.subs, ch)
	r.subMu.Unlock()
	select {
	case ch <- r.CurrentState():
	default:
	}
	return ch
}

// Diagnostics returns a channel of recoverable NoTransitionError signals,
// in addition to the structured log line each occurrence also produces.
func (r *Runtime) Diagnostics() <-chan *NoTransitionError {
	ch := make(chan *NoTransitionError, 8)
	r.diagMu.Lock()
	r.diags = append(r.diags, ch)
	r.diagMu.Unlock()
	return ch
}

// TransitionLog returns a copy of the accumulated transition log entries,
// each of the form "<from>_<event>_<to>".
func (r *Runtime) TransitionLog() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.log))
	copy(out, r.log)
	return out
}

// ClearTransitionLog discards the accumulated transition log.
func (r *Runtime) ClearTransitionLog() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.log = nil
}

// Close refuses further events, cancels in-flight side-effect work
// cooperatively, and releases any AwaitIdle waiters. The processor
// goroutine may exit with events still pending, so waiters cannot rely on
// finishEvent's idle broadcast after this point.
func (r *Runtime) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	r.mu.Unlock()
	r.cancel()
	r.cond.Broadcast()
}

func (r *Runtime) run() {
	for {
		select {
		case <-r.ctx.Done():
			return
		case <-r.wake:
			r.drainQueue()
		}
	}
}

func (r *Runtime) drainQueue() {
	for {
		r.mu.Lock()
		front := r.queue.Front()
		if front == nil {
			r.mu.Unlock()
			return
		}
		r.queue.Remove(front)
		r.mu.Unlock()
		r.processOne(front.Value.(primitives.Variant))
	}
}

func (r *Runtime) processOne(ev primitives.Variant) {
	r.mu.Lock()
	cur := r.current
	r.mu.Unlock()

	branch := r.findBranch(cur, ev)
	if branch == nil {
		diag := &NoTransitionError{State: primitives.NameOf(cur), Event: primitives.NameOf(ev)}
		r.logger.Warn("no transition for current state", "state", diag.State, "event", diag.Event)
		r.publishDiagnostic(diag)
		r.finishEvent(nil)
		return
	}

	target := branch.Resolve(cur)
	if !variantEqual(cur, target) {
		r.mu.Lock()
		r.current = target
		r.mu.Unlock()
		r.publishState(target)
	}

	var followUp primitives.Variant
	if branch.SideEffect != nil {
		r.mu.Lock()
		r.sideEffectActive = true
		r.mu.Unlock()

		fu, err := r.executor.Execute(&sideEffectContext{ctx: r.ctx}, branch.SideEffect, cur, ev)
		if err != nil {
			r.logger.Error("side effect error", "state", primitives.NameOf(cur), "event", primitives.NameOf(ev), "err", err)
		} else {
			followUp = fu
		}

		r.mu.Lock()
		r.sideEffectActive = false
		r.mu.Unlock()
	}

	entry := fmt.Sprintf("%s_%s_%s", primitives.NameOf(cur), primitives.NameOf(ev), primitives.NameOf(target))
	r.mu.Lock()
	r.log = append(r.log, entry)
	r.mu.Unlock()

	r.finishEvent(followUp)
}

// finishEvent enqueues a side-effect follow-up (if any) before marking the
// just-processed event done, so pending never transiently drops to zero
// between a follow-up's insertion and the triggering event's completion.
func (r *Runtime) finishEvent(followUp primitives.Variant) {
	if followUp != nil {
		r.raiseInternal(followUp)
	}
	r.mu.Lock()
	r.pending--
	idle := r.pending == 0 && !r.sideEffectActive
	r.mu.Unlock()
	if idle {
		r.cond.Broadcast()
	}
}

// findBranch selects the first event matcher (in the current state's
// registration order) whose Matches(ev) is true, then the first branch
// within it whose guard accepts.
func (r *Runtime) findBranch(cur, ev primitives.Variant) *graph.TransitionBranch {
	et, ok := r.g.FindTransition(cur, ev)
	if !ok {
		return nil
	}
	for _, b := range et.Branches {
		if b.Guard == nil || b.Guard(cur, ev) {
			return b
		}
	}
	return nil
}

func (r *Runtime) publishState(v primitives.Variant) {
	r.subMu.Lock()
	defer r.subMu.Unlock()
	for _, ch := range r.subs {
		select {
		case ch <- v:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- v:
			default:
			}
		}
	}
}

func (r *Runtime) publishDiagnostic(d *NoTransitionError) {
	r.diagMu.Lock()
	defer r.diagMu.Unlock()
	for _, ch := range r.diags {
		select {
		case ch <- d:
		default:
		}
	}
}

// variantEqual safely compares two Variant values, treating an uncomparable
// underlying type (e.g. one holding a slice or map) as never equal rather
// than panicking on ==.
func variantEqual(a, b primitives.Variant) (eq bool) {
	defer func() {
		if recover() != nil {
			eq = false
		}
	}()
	return a == b
}

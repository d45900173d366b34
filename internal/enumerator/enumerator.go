// Package enumerator implements the bounded depth-first path enumerator:
// a pure function of a graph.Graph and a Config that emits a
// deterministic, sorted set of TestCase values, one per statically
// reachable path through the machine.
//
// The enumerator reads only the static structure. It never constructs a
// Runtime and never invokes a guard or side effect: branches are
// enumerated exhaustively, never evaluated conditionally.
package enumerator

import (
	"sort"

	"github.com/comalice/stateproof/internal/graph"
	"github.com/comalice/stateproof/internal/primitives"
)

// HashAlgorithm selects which CRC variant names a TestCase.
type HashAlgorithm int

const (
	CRC16 HashAlgorithm = iota
	CRC32
)

// Config tunes the bounded DFS walk.
type Config struct {
	MaxVisitsPerState    int
	MaxPathDepth         *int // nil = unbounded
	IncludeTerminalPaths bool
	HashAlgorithm        HashAlgorithm
}

// TestCase is one emitted path rendered as a named test.
type TestCase struct {
	Name                string
	Path                []string // alternating state, event, state, ...
	ExpectedTransitions []string // "<s_i>_<e_i>_<s_{i+1}>" triples
	EventSequence       []string
	IdentityTokens      []string
}

type edge struct {
	event      string
	target     string
	guardLabel string
	emitted    []graph.EmittedEvent
}

// graphIndex groups every StateDef registered for a class under that
// class's name; a state's effective definition is the concatenation of all
// of them, in registration order.
type graphIndex struct {
	byName map[string][]*graph.StateDef
}

func buildIndex(g *graph.Graph) *graphIndex {
	idx := &graphIndex{byName: make(map[string][]*graph.StateDef)}
	for _, m := range g.StateMatchers() {
		sd, _ := g.StateDefFor(m)
		name := m.MatchedClass()
		idx.byName[name] = append(idx.byName[name], sd)
	}
	return idx
}

func edgesFrom(idx *graphIndex, fromName string) []edge {
	var edges []edge
	for _, sd := range idx.byName[fromName] {
		for _, em := range sd.Transitions() {
			et, _ := sd.TransitionFor(em)
			eventName := em.MatchedClass()
			for _, br := range et.Branches {
				target := fromName
				if !br.Stay {
					target = primitives.NameOf(br.Target)
				}
				edges = append(edges, edge{
					event:      eventName,
					target:     target,
					guardLabel: br.GuardLabel,
					emitted:    br.EmittedEvents,
				})
			}
		}
	}
	return edges
}

// Enumerate walks g and returns the deterministic TestCase set, sorted by
// path length ascending.
func Enumerate(g *graph.Graph, cfg Config) []TestCase {
	idx := buildIndex(g)
	startName := primitives.NameOf(g.Initial)

	var cases []TestCase
	walk(idx, cfg, []string{startName}, map[string]int{startName: 1}, nil, &cases)

	// Sorted by path length ascending; SliceStable keeps discovery order
	// within each length.
	sort.SliceStable(cases, func(i, j int) bool {
		return len(cases[i].Path) < len(cases[j].Path)
	})
	return cases
}

func walk(
	idx *graphIndex,
	cfg Config,
	path []string,
	visits map[string]int,
	identityTokens []string,
	out *[]TestCase,
) {
	fromName := path[len(path)-1]
	edges := edgesFrom(idx, fromName)

	if len(edges) == 0 {
		if cfg.IncludeTerminalPaths && (len(path)-1)/2 >= 1 {
			emit(cfg, path, identityTokens, out)
		}
		return
	}

	for _, e := range edges {
		newVisits := visits[e.target] + 1
		if newVisits > cfg.MaxVisitsPerState {
			continue
		}

		newPath := make([]string, len(path), len(path)+2)
		copy(newPath, path)
		newPath = append(newPath, e.event, e.target)

		var newTokens []string
		if len(identityTokens) > 0 {
			newTokens = append(newTokens, identityTokens...)
		}
		if hasIdentityDetail(e) {
			newTokens = append(newTokens, identityToken(fromName, e))
		}

		newDepth := (len(newPath) - 1) / 2
		reachedVisitCap := newVisits == cfg.MaxVisitsPerState
		reachedDepthCap := cfg.MaxPathDepth != nil && newDepth >= *cfg.MaxPathDepth

		if reachedVisitCap || reachedDepthCap {
			emit(cfg, newPath, newTokens, out)
			continue
		}

		nv := make(map[string]int, len(visits)+1)
		for k, v := range visits {
			nv[k] = v
		}
		nv[e.target] = newVisits

		walk(idx, cfg, newPath, nv, newTokens, out)
	}
}

func hasIdentityDetail(e edge) bool {
	return e.guardLabel != "" && e.guardLabel != "default" || len(e.emitted) > 0
}

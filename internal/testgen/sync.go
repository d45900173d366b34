package testgen

import (
	"fmt"
	"sort"
	"strings"

	"github.com/comalice/stateproof/internal/config"
	"github.com/comalice/stateproof/internal/enumerator"
)

// Action is one of the four reconciliation outcomes.
type Action int

const (
	ActionAdd Action = iota
	ActionUpdate
	ActionObsolete
	ActionKeep
)

func (a Action) String() string {
	switch a {
	case ActionAdd:
		return "ADD"
	case ActionUpdate:
		return "UPDATE"
	case ActionObsolete:
		return "OBSOLETE"
	case ActionKeep:
		return "KEEP"
	default:
		return "UNKNOWN"
	}
}

// SyncConflictError reports two parsed tests sharing a pathHash; the
// first is taken, later ones are flagged.
type SyncConflictError struct {
	PathHash string
}

func (e *SyncConflictError) Error() string {
	return fmt.Sprintf("testgen: duplicate pathHash %q in parsed file", e.PathHash)
}

// PlannedEntry is one reconciled test, tagged with the action to apply.
type PlannedEntry struct {
	Action   Action
	PathHash string
	Case     *enumerator.TestCase // set for ADD/UPDATE
	Parsed   *ParsedTest          // set for UPDATE/OBSOLETE/KEEP
}

// Plan computes the ADD/UPDATE/OBSOLETE/KEEP actions by path-hash
// identity. hashOf resolves a TestCase's pathHash segment, ordinarily
// ExtractPathHash(tc.Name).
func Plan(cases []enumerator.TestCase, hashOf func(enumerator.TestCase) string, parsed []ParsedTest) ([]PlannedEntry, []*SyncConflictError) {
	byHash := make(map[string]*ParsedTest, len(parsed))
	var conflicts []*SyncConflictError
	for i := range parsed {
		h := parsed[i].PathHash
		if _, dup := byHash[h]; dup {
			conflicts = append(conflicts, &SyncConflictError{PathHash: h})
			continue
		}
		byHash[h] = &parsed[i]
	}

	newHashes := make(map[string]bool, len(cases))
	var entries []PlannedEntry

	for i := range cases {
		h := hashOf(cases[i])
		newHashes[h] = true
		if p, ok := byHash[h]; ok {
			entries = append(entries, PlannedEntry{Action: ActionUpdate, PathHash: h, Case: &cases[i], Parsed: p})
		} else {
			entries = append(entries, PlannedEntry{Action: ActionAdd, PathHash: h, Case: &cases[i]})
		}
	}

	for h, p := range byHash {
		if newHashes[h] {
			continue
		}
		action := ActionObsolete
		if p.IsObsolete {
			action = ActionKeep
		}
		entries = append(entries, PlannedEntry{Action: action, PathHash: h, Parsed: p})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		oi, oj := actionOrder(entries[i].Action), actionOrder(entries[j].Action)
		if oi != oj {
			return oi < oj
		}
		return entries[i].PathHash < entries[j].PathHash
	})

	return entries, conflicts
}

// actionOrder fixes the deterministic output ordering: kept/obsolete
// entries first, then updated, then added.
func actionOrder(a Action) int {
	switch a {
	case ActionKeep, ActionObsolete:
		return 0
	case ActionUpdate:
		return 1
	case ActionAdd:
		return 2
	default:
		return 3
	}
}

// Render concatenates a plan into a reconciled file body: header followed
// by each entry rendered per its action.
func Render(entries []PlannedEntry, cfg config.TestCodeGenConfig, header, timestamp string) string {
	var b strings.Builder
	b.WriteString(header)
	for _, e := range entries {
		switch e.Action {
		case ActionKeep:
			b.WriteString(e.Parsed.FullText)
		case ActionObsolete:
			b.WriteString(MarkObsolete(*e.Parsed, "path no longer reachable", e.PathHash, timestamp))
		case ActionUpdate:
			b.WriteString(UpdateExisting(*e.Parsed, e.Case.ExpectedTransitions, timestamp))
		case ActionAdd:
			b.WriteString(EmitSingle(cfg, *e.Case, e.PathHash, timestamp))
		}
		b.WriteString("\n\n")
	}
	return b.String()
}

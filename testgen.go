package stateproof

import (
	sptestgen "github.com/comalice/stateproof/internal/testgen"
)

// ParsedTest is one existing test entry extracted from generated-test
// source.
type ParsedTest = sptestgen.ParsedTest

// ParseMismatchError reports an @StateProofGenerated annotation whose
// pathHash could not be extracted.
type ParseMismatchError = sptestgen.ParseMismatchError

// SyncConflictError reports two parsed tests sharing a pathHash.
type SyncConflictError = sptestgen.SyncConflictError

// SyncAction is one of the four reconciliation outcomes.
type SyncAction = sptestgen.Action

const (
	SyncAdd      = sptestgen.ActionAdd
	SyncUpdate   = sptestgen.ActionUpdate
	SyncObsolete = sptestgen.ActionObsolete
	SyncKeep     = sptestgen.ActionKeep
)

// PlannedEntry is one reconciled test, tagged with the action to apply.
type PlannedEntry = sptestgen.PlannedEntry

// FileAccess is the abstract read/write/list collaborator the sync
// pipeline works through.
type FileAccess = sptestgen.FileAccess

// OSFileAccess is the concrete stdlib-backed FileAccess.
type OSFileAccess = sptestgen.OSFileAccess

// Manifest is the YAML sidecar recording the last-synced case set.
type Manifest = sptestgen.Manifest

// ParseTestFile extracts every test entry from existing generated-test
// source.
func ParseTestFile(text string) ([]ParsedTest, []*ParseMismatchError) {
	return sptestgen.ParseFile(text)
}

// EmitSingle renders one generated test entry.
func EmitSingle(cfg TestCodeGenConfig, tc TestCase, pathHash, timestamp string) string {
	return sptestgen.EmitSingle(cfg, tc, pathHash, timestamp)
}

// EmitFile renders a complete generated-test file.
func EmitFile(cfg TestCodeGenConfig, cases []TestCase, pathHashes []string, timestamp string) string {
	return sptestgen.EmitFile(cfg, cases, pathHashes, timestamp)
}

// PlanSync computes the ADD/UPDATE/OBSOLETE/KEEP actions by path-hash
// identity.
func PlanSync(cases []TestCase, hashOf func(TestCase) string, parsed []ParsedTest) ([]PlannedEntry, []*SyncConflictError) {
	return sptestgen.Plan(cases, hashOf, parsed)
}

// RenderSync concatenates a sync plan into reconciled file text.
func RenderSync(entries []PlannedEntry, cfg TestCodeGenConfig, header, timestamp string) string {
	return sptestgen.Render(entries, cfg, header, timestamp)
}

// ExtractPathHash pulls the hash segment out of an enumerator-generated test
// name.
func ExtractPathHash(name string) string {
	return sptestgen.ExtractPathHash(name)
}

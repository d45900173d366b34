package testgen_test

import (
	"strings"
	"testing"

	"github.com/comalice/stateproof/internal/enumerator"
	"github.com/comalice/stateproof/internal/testgen"
)

func hashOf(tc enumerator.TestCase) string { return testgen.ExtractPathHash(tc.Name) }

// TestSyncUpdatePreservesUserCode: replacing a test's generated section
// must leave the user section byte-for-byte intact.
func TestSyncUpdatePreservesUserCode(t *testing.T) {
	tests, mismatches := testgen.ParseFile(sampleFile)
	if len(mismatches) != 0 {
		t.Fatalf("unexpected mismatches: %v", mismatches)
	}
	parsed := tests[0] // pathHash ABCD, existing transitions ["A_ToB_B"]

	updated := testgen.UpdateExisting(parsed, []string{"A_ToB_B", "B_ToC_C"}, "2026-07-31T00:00:00Z")

	if !strings.Contains(updated, `"A_ToB_B"`) || !strings.Contains(updated, `"B_ToC_C"`) {
		t.Fatalf("expected both transitions present, got:\n%s", updated)
	}
	if !strings.Contains(updated, "customFactory()") || !strings.Contains(updated, "sm.run()") {
		t.Fatalf("expected user section preserved verbatim, got:\n%s", updated)
	}
	if !strings.Contains(updated, `generatedAt = "2026-07-31T00:00:00Z"`) {
		t.Fatalf("expected refreshed generatedAt, got:\n%s", updated)
	}
}

// TestSyncRemovedPathMarkedObsolete: existing hashes {H1, H2}, new
// enumeration {H1, H3} -> H1 updated, H3 added, H2 obsoleted but
// retained. H1/H2/H3 are the hex hashes 00A1/00A2/00A3, since
// ExtractPathHash only accepts a hex hash segment in a test name.
func TestSyncRemovedPathMarkedObsolete(t *testing.T) {
	parsed := []testgen.ParsedTest{
		{PathHash: "00A1", FullText: "fun h1() {}", ExpectedTransitions: []string{"A_x_B"}},
		{PathHash: "00A2", FullText: "fun h2() {}", ExpectedTransitions: []string{"B_y_C"}},
	}
	cases := []enumerator.TestCase{
		{Name: "_1_00A1_from_A_to_B", ExpectedTransitions: []string{"A_x_B"}},
		{Name: "_1_00A3_from_C_to_D", ExpectedTransitions: []string{"C_z_D"}},
	}

	entries, conflicts := testgen.Plan(cases, hashOf, parsed)
	if len(conflicts) != 0 {
		t.Fatalf("unexpected conflicts: %v", conflicts)
	}

	byHash := make(map[string]testgen.PlannedEntry, len(entries))
	for _, e := range entries {
		byHash[e.PathHash] = e
	}

	if byHash["00A1"].Action != testgen.ActionUpdate {
		t.Fatalf("H1 action = %v, want UPDATE", byHash["00A1"].Action)
	}
	if byHash["00A3"].Action != testgen.ActionAdd {
		t.Fatalf("H3 action = %v, want ADD", byHash["00A3"].Action)
	}
	if byHash["00A2"].Action != testgen.ActionObsolete {
		t.Fatalf("H2 action = %v, want OBSOLETE", byHash["00A2"].Action)
	}
	if byHash["00A2"].Parsed == nil || byHash["00A2"].Parsed.PathHash != "00A2" {
		t.Fatal("expected H2's parsed body retained for obsolete marking")
	}
}

func TestSyncFlagsDuplicatePathHash(t *testing.T) {
	parsed := []testgen.ParsedTest{
		{PathHash: "DUP", FullText: "fun a() {}"},
		{PathHash: "DUP", FullText: "fun b() {}"},
	}
	_, conflicts := testgen.Plan(nil, hashOf, parsed)
	if len(conflicts) != 1 {
		t.Fatalf("len(conflicts) = %d, want 1", len(conflicts))
	}
}

func TestSyncIsIdempotent(t *testing.T) {
	cases := []enumerator.TestCase{
		{Name: "_1_H1_from_A_to_B", ExpectedTransitions: []string{"A_x_B"}},
	}
	m := testgen.FromCases(cases, hashOf, "2026-07-31T00:00:00Z")
	if !m.Idempotent(cases, hashOf) {
		t.Fatal("expected manifest built from cases to be idempotent against those same cases")
	}

	changed := []enumerator.TestCase{
		{Name: "_1_H1_from_A_to_B", ExpectedTransitions: []string{"A_x_B", "B_y_C"}},
	}
	if m.Idempotent(changed, hashOf) {
		t.Fatal("expected manifest to detect changed expected_transitions as non-idempotent")
	}
}

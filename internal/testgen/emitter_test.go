package testgen_test

import (
	"strings"
	"testing"

	"github.com/comalice/stateproof/internal/config"
	"github.com/comalice/stateproof/internal/enumerator"
	"github.com/comalice/stateproof/internal/testgen"
)

func sampleCfg() config.TestCodeGenConfig {
	return config.TestCodeGenConfig{
		PackageName:         "generated",
		TestClassName:       "MachineTest",
		EventClassPrefix:    "On",
		StateMachineFactory: "sm",
		UseBlockingRunner:   true,
	}
}

func TestEmitSingleRendersMarkersAndAnnotation(t *testing.T) {
	tc := enumerator.TestCase{
		Name:                "_3_7AE3_from_Idle_to_Idle",
		ExpectedTransitions: []string{"Idle_Start_Loading", "Loading_OnLoaded_Success", "Success_Reset_Idle"},
		EventSequence:       []string{"Start", "OnLoaded", "Reset"},
	}

	out := testgen.EmitSingle(sampleCfg(), tc, "7AE3", "2026-07-31T00:00:00Z")

	if !strings.Contains(out, `@StateProofGenerated(pathHash = "7AE3", generatedAt = "2026-07-31T00:00:00Z", schemaVersion = 1)`) {
		t.Fatalf("missing generated annotation in:\n%s", out)
	}
	if !strings.Contains(out, "fun `_3_7AE3_from_Idle_to_Idle`() = runBlocking {") {
		t.Fatalf("missing function signature in:\n%s", out)
	}
	if !strings.Contains(out, "// ▼▼▼ STATEPROOF:EXPECTED - Do not edit below this line ▼▼▼") {
		t.Fatalf("missing start marker in:\n%s", out)
	}
	if !strings.Contains(out, "// ▲▲▲ STATEPROOF:END ▲▲▲") {
		t.Fatalf("missing end marker in:\n%s", out)
	}
	if !strings.Contains(out, "// sm.onEvent(On.Start)") {
		t.Fatalf("missing commented event placeholder in:\n%s", out)
	}
}

func TestMarkObsoletePrependsAnnotationAndPreservesBody(t *testing.T) {
	parsed := testgen.ParsedTest{FullText: "    fun `_1_DEAD_from_X_to_Y`() = runBlocking {\n    }"}
	out := testgen.MarkObsolete(parsed, "path no longer reachable", "DEAD", "2026-07-31")

	if !strings.Contains(out, `@StateProofObsolete(reason = "path no longer reachable", markedAt = "2026-07-31", originalPath = "DEAD")`) {
		t.Fatalf("missing obsolete annotation in:\n%s", out)
	}
	if !strings.Contains(out, "@Ignore") {
		t.Fatalf("missing @Ignore marker in:\n%s", out)
	}
	if !strings.Contains(out, "fun `_1_DEAD_from_X_to_Y`()") {
		t.Fatalf("expected original body preserved in:\n%s", out)
	}
}

func TestEmitFileRendersPackageAndClass(t *testing.T) {
	cases := []enumerator.TestCase{
		{Name: "_1_AAAA_from_A_to_B", ExpectedTransitions: []string{"A_x_B"}, EventSequence: []string{"x"}},
	}
	out := testgen.EmitFile(sampleCfg(), cases, []string{"AAAA"}, "2026-07-31T00:00:00Z")

	if !strings.HasPrefix(out, "package generated\n") {
		t.Fatalf("expected package declaration, got:\n%s", out)
	}
	if !strings.Contains(out, "class MachineTest {") {
		t.Fatalf("expected test class wrapper, got:\n%s", out)
	}
	if !strings.Contains(out, `pathHash = "AAAA"`) {
		t.Fatalf("expected case rendered, got:\n%s", out)
	}
}

package testgen

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/comalice/stateproof/internal/config"
	"github.com/comalice/stateproof/internal/enumerator"
)

// EmitSingle renders one generated test entry: the generated annotation,
// a standard test annotation, the backtick-quoted test function, the
// EXPECTED/END-bounded transitions block, and commented event
// placeholders.
func EmitSingle(cfg config.TestCodeGenConfig, tc enumerator.TestCase, pathHash, timestamp string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "    %s\n", generatedAnnotation(pathHash, timestamp))
	b.WriteString("    @Test\n")
	fmt.Fprintf(&b, "    fun `%s`() = %s {\n", tc.Name, runBlock(cfg))
	b.WriteString(renderGeneratedBlock(tc.ExpectedTransitions))
	for _, ev := range tc.EventSequence {
		fmt.Fprintf(&b, "        // %s.onEvent(%s.%s)\n", cfg.StateMachineFactory, cfg.EventClassPrefix, ev)
	}
	b.WriteString("    }\n")
	return b.String()
}

func generatedAnnotation(pathHash, timestamp string) string {
	return fmt.Sprintf(`@StateProofGenerated(pathHash = "%s", generatedAt = "%s", schemaVersion = 1)`, pathHash, timestamp)
}

func runBlock(cfg config.TestCodeGenConfig) string {
	if cfg.UseBlockingRunner {
		return "runBlocking"
	}
	return "runTest"
}

func renderGeneratedBlock(transitions []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "        %s\n", startMarker)
	b.WriteString("        val expectedTransitions = listOf(\n")
	for i, tr := range transitions {
		sep := ","
		if i == len(transitions)-1 {
			sep = ""
		}
		fmt.Fprintf(&b, "            \"%s\"%s\n", tr, sep)
	}
	b.WriteString("        )\n")
	fmt.Fprintf(&b, "        %s\n", endMarker)
	return b.String()
}

// EmitFile renders a complete generated-test file: package declaration,
// the mandatory marker-annotation import, any additional imports, and a
// containing test class whose body is the concatenation of EmitSingle
// entries.
func EmitFile(cfg config.TestCodeGenConfig, cases []enumerator.TestCase, pathHashes []string, timestamp string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "package %s\n\n", cfg.PackageName)
	b.WriteString("import io.stateproof.annotations.StateProofGenerated\n")
	b.WriteString("import io.stateproof.annotations.StateProofObsolete\n")
	for _, imp := range cfg.AdditionalImports {
		fmt.Fprintf(&b, "import %s\n", imp)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "class %s {\n\n", cfg.TestClassName)
	for i, tc := range cases {
		b.WriteString(EmitSingle(cfg, tc, pathHashes[i], timestamp))
		b.WriteString("\n")
	}
	b.WriteString("}\n")
	return b.String()
}

var generatedAtLineRe = regexp.MustCompile(`(@StateProofGenerated\(pathHash = "[^"]*", generatedAt = ")[^"]*(")`)

// UpdateExisting replaces parsed's generated section with newTransitions
// and refreshes @StateProofGenerated.generatedAt, leaving the user section
// untouched byte-for-byte.
func UpdateExisting(parsed ParsedTest, newTransitions []string, timestamp string) string {
	lines := strings.Split(parsed.FullText, "\n")
	for i, l := range lines {
		lines[i] = generatedAtLineRe.ReplaceAllString(l, "${1}"+timestamp+"${2}")
	}

	startIdx, endIdx := -1, -1
	for i, l := range lines {
		switch strings.TrimSpace(l) {
		case startMarker:
			startIdx = i
		case endMarker:
			endIdx = i
		}
	}

	blockLines := strings.Split(strings.TrimRight(renderGeneratedBlock(newTransitions), "\n"), "\n")

	var out []string
	if startIdx < 0 || endIdx <= startIdx {
		funcIdx := 0
		for i, l := range lines {
			if strings.Contains(l, "fun `") {
				funcIdx = i
				break
			}
		}
		out = append(out, lines[:funcIdx+1]...)
		out = append(out, blockLines...)
		out = append(out, lines[funcIdx+1:]...)
	} else {
		out = append(out, lines[:startIdx]...)
		out = append(out, blockLines...)
		out = append(out, lines[endIdx+1:]...)
	}
	return strings.Join(out, "\n")
}

// MarkObsolete prepends @StateProofObsolete plus an @Ignore marker above
// the test, preserving its body verbatim.
func MarkObsolete(parsed ParsedTest, reason, originalPath, timestamp string) string {
	annotation := fmt.Sprintf(`    @StateProofObsolete(reason = "%s", markedAt = "%s", originalPath = "%s")`, reason, timestamp, originalPath)
	lines := strings.Split(parsed.FullText, "\n")
	out := append([]string{annotation, "    @Ignore"}, lines...)
	return strings.Join(out, "\n")
}

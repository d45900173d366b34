package testgen

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	startMarker = "// ▼▼▼ STATEPROOF:EXPECTED - Do not edit below this line ▼▼▼"
	endMarker   = "// ▲▲▲ STATEPROOF:END ▲▲▲"
)

var (
	generatedAnnotationRe = regexp.MustCompile(`@StateProofGenerated\(pathHash\s*=\s*"([^"]*)",\s*generatedAt\s*=\s*"([^"]*)",\s*schemaVersion\s*=\s*(\d+)\)`)
	obsoleteAnnotationRe  = regexp.MustCompile(`@StateProofObsolete\(`)
	functionNameRe        = regexp.MustCompile("fun `([^`]+)`\\(\\)")
	quotedLiteralRe       = regexp.MustCompile(`"([^"]*)"`)
	testNameRe            = regexp.MustCompile(`^_\d+_([0-9A-Fa-f]+)_from_.+_to_.+$`)
)

// ParsedTest is one test entry extracted from existing source.
type ParsedTest struct {
	FullText            string
	StartLine           int
	PathHash            string
	GeneratedAt         string
	SchemaVersion       int
	FunctionName        string
	GeneratedSection    string
	HasGeneratedSection bool
	UserSection         string
	ExpectedTransitions []string
	IsObsolete          bool
}

// ParseMismatchError reports a generated annotation whose pathHash could
// not be extracted. The offending test is skipped and treated as user-only
// content, never silently rewritten.
type ParseMismatchError struct {
	Line   int
	Reason string
}

func (e *ParseMismatchError) Error() string {
	return fmt.Sprintf("testgen: parse mismatch at line %d: %s", e.Line, e.Reason)
}

// ParseFile extracts every test entry from text, tolerating multiple
// consecutive tests, annotations in any order, and missing region markers.
// It never parses Kotlin generally, only the stable annotation and marker
// tokens of the generated-file format.
func ParseFile(text string) ([]ParsedTest, []*ParseMismatchError) {
	lines := strings.Split(text, "\n")
	var tests []ParsedTest
	var mismatches []*ParseMismatchError

	i := 0
	for i < len(lines) {
		if !generatedAnnotationRe.MatchString(lines[i]) && !obsoleteAnnotationRe.MatchString(lines[i]) {
			i++
			continue
		}

		entryStart := i
		isObsolete := false
		var pathHash, generatedAt string
		var schemaVersion int
		hasGeneratedAnnotation := false

		for i < len(lines) && !strings.Contains(lines[i], "fun `") {
			if m := generatedAnnotationRe.FindStringSubmatch(lines[i]); m != nil {
				hasGeneratedAnnotation = true
				pathHash = m[1]
				generatedAt = m[2]
				schemaVersion, _ = strconv.Atoi(m[3])
			}
			if obsoleteAnnotationRe.MatchString(lines[i]) {
				isObsolete = true
			}
			i++
			if i-entryStart > 50 {
				break
			}
		}

		if i >= len(lines) || !strings.Contains(lines[i], "fun `") {
			i = entryStart + 1
			continue
		}

		funcLine := i
		functionName := ""
		if m := functionNameRe.FindStringSubmatch(lines[i]); m != nil {
			functionName = m[1]
		}

		if hasGeneratedAnnotation && pathHash == "" {
			mismatches = append(mismatches, &ParseMismatchError{
				Line:   funcLine + 1,
				Reason: "pathHash could not be extracted from @StateProofGenerated",
			})
			i = skipFunctionBody(lines, funcLine)
			continue
		}

		bodyEnd := skipFunctionBody(lines, funcLine)
		entryLines := lines[entryStart:bodyEnd]
		fullText := strings.Join(entryLines, "\n")
		funcOffset := funcLine - entryStart

		startIdx, endIdx := -1, -1
		for li, l := range entryLines {
			switch strings.TrimSpace(l) {
			case startMarker:
				startIdx = li
			case endMarker:
				endIdx = li
			}
		}

		var generatedSection, userSection string
		var hasGenerated bool
		var transitions []string
		if startIdx >= 0 && endIdx > startIdx {
			generatedSection = strings.Join(entryLines[startIdx+1:endIdx], "\n")
			hasGenerated = true
			for _, m := range quotedLiteralRe.FindAllStringSubmatch(generatedSection, -1) {
				transitions = append(transitions, m[1])
			}
			if endIdx+1 < len(entryLines) {
				userSection = strings.Join(entryLines[endIdx+1:], "\n")
			}
		} else if len(entryLines) > funcOffset+1 {
			userSection = strings.Join(entryLines[funcOffset+1:], "\n")
		}

		tests = append(tests, ParsedTest{
			FullText:            fullText,
			StartLine:           entryStart,
			PathHash:            pathHash,
			GeneratedAt:         generatedAt,
			SchemaVersion:       schemaVersion,
			FunctionName:        functionName,
			GeneratedSection:    generatedSection,
			HasGeneratedSection: hasGenerated,
			UserSection:         userSection,
			ExpectedTransitions: transitions,
			IsObsolete:          isObsolete,
		})

		i = bodyEnd
	}

	return tests, mismatches
}

// skipFunctionBody returns the index one past the line that closes the
// brace opened on or after funcLine.
func skipFunctionBody(lines []string, funcLine int) int {
	depth := 0
	seenOpen := false
	for i := funcLine; i < len(lines); i++ {
		for _, r := range lines[i] {
			switch r {
			case '{':
				depth++
				seenOpen = true
			case '}':
				depth--
			}
		}
		if seenOpen && depth <= 0 {
			return i + 1
		}
	}
	return len(lines)
}

// ExtractPathHash pulls the hash segment out of an enumerator-generated test
// name ("_<depth>_<hash>_from_<start>_to_<end>").
func ExtractPathHash(name string) string {
	m := testNameRe.FindStringSubmatch(name)
	if m == nil {
		return ""
	}
	return m[1]
}

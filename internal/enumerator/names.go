package enumerator

import (
	"fmt"
	"strings"

	"github.com/comalice/stateproof/internal/enumerator/hash"
)

// identityToken renders the per-edge identity token
// "<from>|<event>|<next>|<guard_label>|<label:eventName;label:eventName;…>".
func identityToken(fromName string, e edge) string {
	var emits []string
	for _, ee := range e.emitted {
		emits = append(emits, fmt.Sprintf("%s:%s", ee.Label, ee.Variant))
	}
	return fmt.Sprintf("%s|%s|%s|%s|%s", fromName, e.event, e.target, e.guardLabel, strings.Join(emits, ";"))
}

// emit finalizes path/identityTokens into a TestCase and appends it to
// out, computing the expected transitions, event sequence, and hashed
// name.
func emit(cfg Config, path []string, identityTokens []string, out *[]TestCase) {
	tc := TestCase{
		Path:                append([]string(nil), path...),
		ExpectedTransitions: expectedTransitions(path),
		EventSequence:       eventSequence(path),
		IdentityTokens:      append([]string(nil), identityTokens...),
	}
	tc.Name = testName(cfg, path, identityTokens)
	*out = append(*out, tc)
}

func expectedTransitions(path []string) []string {
	n := (len(path) - 1) / 2
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		from, ev, to := path[2*i], path[2*i+1], path[2*i+2]
		out = append(out, fmt.Sprintf("%s_%s_%s", from, ev, to))
	}
	return out
}

func eventSequence(path []string) []string {
	var out []string
	for i := 1; i < len(path); i += 2 {
		out = append(out, path[i])
	}
	return out
}

// testName computes "_<depth>_<hash>_from_<startState>_to_<endState>".
// depth is (len(path)+1)/3 + 1: an identifier, not a transition count.
// Existing generated files depend on this exact formula, so it must not
// be "corrected".
func testName(cfg Config, path []string, identityTokens []string) string {
	depth := (len(path)+1)/3 + 1
	h := hashPath(cfg, path, identityTokens)
	start := path[0]
	end := path[len(path)-1]
	return fmt.Sprintf("_%d_%s_from_%s_to_%s", depth, h, start, end)
}

// hashPath computes the name's hash segment. CRC-16 uses its full
// 4-hex-char output; CRC-32 uses only the leading 4 of its 8-hex-char
// output. Uppercase hex in both cases.
func hashPath(cfg Config, path []string, identityTokens []string) string {
	input := strings.Join(path, "_")
	if len(identityTokens) > 0 {
		input = input + "||" + strings.Join(identityTokens, "||")
	}
	switch cfg.HashAlgorithm {
	case CRC32:
		full := fmt.Sprintf("%08X", hash.CRC32([]byte(input)))
		return full[:4]
	default:
		return fmt.Sprintf("%04X", hash.CRC16([]byte(input)))
	}
}

package testgen

import (
	"gopkg.in/yaml.v3"

	"github.com/comalice/stateproof/internal/enumerator"
)

// Manifest is the YAML sidecar (".stateproof.manifest.yaml") recording
// the last-synced case set, consumed by the sync idempotence check.
type Manifest struct {
	SchemaVersion int                 `yaml:"schema_version"`
	GeneratedAt   string              `yaml:"generated_at"`
	Cases         []ManifestCaseEntry `yaml:"cases"`
}

// ManifestCaseEntry records one case's identity and expectations as of the
// last sync.
type ManifestCaseEntry struct {
	PathHash            string   `yaml:"path_hash"`
	Name                string   `yaml:"name"`
	ExpectedTransitions []string `yaml:"expected_transitions"`
}

// MarshalManifest renders m as YAML text.
func MarshalManifest(m Manifest) (string, error) {
	b, err := yaml.Marshal(m)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// UnmarshalManifest parses a previously written manifest document.
func UnmarshalManifest(data string) (Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal([]byte(data), &m); err != nil {
		return Manifest{}, err
	}
	return m, nil
}

// Idempotent reports whether cases exactly match what m already records;
// syncing an unchanged case set changes nothing.
func (m Manifest) Idempotent(cases []enumerator.TestCase, hashOf func(enumerator.TestCase) string) bool {
	if len(m.Cases) != len(cases) {
		return false
	}
	byHash := make(map[string][]string, len(m.Cases))
	for _, c := range m.Cases {
		byHash[c.PathHash] = c.ExpectedTransitions
	}
	for _, tc := range cases {
		h := hashOf(tc)
		prev, ok := byHash[h]
		if !ok || !stringSlicesEqual(prev, tc.ExpectedTransitions) {
			return false
		}
	}
	return true
}

func stringSlicesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// FromCases builds a Manifest snapshot of the given cases, keyed by hashOf.
func FromCases(cases []enumerator.TestCase, hashOf func(enumerator.TestCase) string, generatedAt string) Manifest {
	m := Manifest{SchemaVersion: 1, GeneratedAt: generatedAt, Cases: make([]ManifestCaseEntry, 0, len(cases))}
	for _, tc := range cases {
		m.Cases = append(m.Cases, ManifestCaseEntry{
			PathHash:            hashOf(tc),
			Name:                tc.Name,
			ExpectedTransitions: tc.ExpectedTransitions,
		})
	}
	return m
}

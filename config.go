package stateproof

import (
	"io"

	spconfig "github.com/comalice/stateproof/internal/config"
)

// TestGenConfigDoc is the serialized enumerator-tuning document
// (YAML/TOML/JSON). Distinct from TestGenConfig (enumerate.go), the
// in-memory form Enumerate consumes directly; convert with
// TestGenConfigDoc.ToEnumeratorConfig().
type TestGenConfigDoc = spconfig.TestGenConfig

// TestCodeGenConfig describes the shape of the emitted test source.
type TestCodeGenConfig = spconfig.TestCodeGenConfig

// LoadTestGenConfigYAML decodes a TestGenConfig document from r.
func LoadTestGenConfigYAML(r io.Reader) (TestGenConfigDoc, error) {
	var cfg TestGenConfigDoc
	err := spconfig.LoadYAML(r, &cfg)
	return cfg, err
}

// LoadTestGenConfigTOML decodes a TestGenConfig document from r.
func LoadTestGenConfigTOML(r io.Reader) (TestGenConfigDoc, error) {
	var cfg TestGenConfigDoc
	err := spconfig.LoadTOML(r, &cfg)
	return cfg, err
}

// LoadTestGenConfigJSON decodes a TestGenConfig document from r.
func LoadTestGenConfigJSON(r io.Reader) (TestGenConfigDoc, error) {
	var cfg TestGenConfigDoc
	err := spconfig.LoadJSON(r, &cfg)
	return cfg, err
}

// LoadTestCodeGenConfigYAML decodes a TestCodeGenConfig document from r.
func LoadTestCodeGenConfigYAML(r io.Reader) (TestCodeGenConfig, error) {
	var cfg TestCodeGenConfig
	err := spconfig.LoadYAML(r, &cfg)
	return cfg, err
}

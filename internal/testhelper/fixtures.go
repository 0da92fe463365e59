// Package testhelper loads YAML-described test scenarios, mirroring
// tinySQL's internal/testhelper's YAML-fixture harness but with a schema
// shaped for this engine's operations instead of SQL queries.
package testhelper

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Step is one operation in a Scenario: insert a key/value pair, expect a
// search result, or delete a key.
type Step struct {
	Op       string `yaml:"op"`       // "insert", "search", or "delete"
	Key      uint16 `yaml:"key"`
	Value    string `yaml:"value,omitempty"`
	Expect   string `yaml:"expect,omitempty"`   // expected value for "search"
	ExpectOK *bool  `yaml:"expect_ok,omitempty"` // expected success/failure
}

// Scenario names a sequence of Steps run against a fresh tree.
type Scenario struct {
	Name  string `yaml:"name"`
	Steps []Step `yaml:"steps"`
}

// scenariosFile mirrors the top-level shape of testdata/scenarios.yaml.
type scenariosFile struct {
	Scenarios []Scenario `yaml:"scenarios"`
}

// LoadScenarios reads and parses name relative to one of a few candidate
// directories, tolerating the different working directories `go test` may
// use depending on how the package tree is invoked.
func LoadScenarios(name string) ([]Scenario, error) {
	candidates := []string{
		filepath.Join("testdata", name),
		filepath.Join("..", "testdata", name),
		filepath.Join("pager", "testdata", name),
	}
	var b []byte
	var found string
	for _, p := range candidates {
		if data, err := os.ReadFile(p); err == nil {
			b, found = data, p
			break
		}
	}
	if found == "" {
		return nil, fmt.Errorf("testhelper: could not find %s (tried: %v)", name, candidates)
	}

	var sf scenariosFile
	if err := yaml.Unmarshal(b, &sf); err != nil {
		return nil, fmt.Errorf("testhelper: parse %s: %w", found, err)
	}
	return sf.Scenarios, nil
}

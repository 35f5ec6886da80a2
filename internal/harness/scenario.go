package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test scenario: one compilation unit fed
// through the replacement pass, with expectations about the result.
type Scenario struct {
	// Name uniquely identifies this scenario. It is also the golden file
	// name for golden-pinned scenarios.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Universe is the path to the CUE universe file, relative to the
	// scenario file location.
	Universe string `yaml:"universe"`

	// Method is the qualified name of the compiling method. Its declaring
	// type is the context the policy tests assignability against.
	Method string `yaml:"method"`

	// VerifyFingerprints toggles the fingerprint gate. Defaults to true.
	VerifyFingerprints *bool `yaml:"verify_fingerprints,omitempty"`

	// Constants declares named constant nodes. Each entry becomes its own
	// node even when payloads coincide.
	Constants map[string]ConstantDef `yaml:"constants,omitempty"`

	// Counters declares named counter placeholders, mapping a value name
	// to the qualified method whose counters are loaded.
	Counters map[string]string `yaml:"counters,omitempty"`

	// Blocks lists the control-flow graph in order; the first block is
	// entry. Terminators are implied by successor count: none for return,
	// one for goto, two for a conditional split.
	Blocks []BlockDef `yaml:"blocks"`

	// Expect holds the scenario's expectations. Optional: a scenario with
	// no clause just asserts the pass runs clean and the standing
	// invariants hold.
	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// ConstantDef declares one constant node. Exactly one of Type or String
// must be set: a type-handle constant or an object (string) constant.
type ConstantDef struct {
	// Type names the type for a type-handle constant.
	Type string `yaml:"type,omitempty"`

	// String holds the payload of a string object constant.
	String *string `yaml:"string,omitempty"`

	// Of names the string constant's class. Defaults to lang.String;
	// scenarios exercising the unsupported-constant error set it to
	// something else.
	Of string `yaml:"of,omitempty"`

	// Compressed marks a narrow-encoded constant, which the pass rejects.
	Compressed bool `yaml:"compressed,omitempty"`
}

// BlockDef defines one block: its successors and the value names its
// effect nodes read, in order.
type BlockDef struct {
	// Name identifies the block for succ references. Unique per scenario.
	Name string `yaml:"name"`

	// Succ lists successor block names: zero, one, or two.
	Succ []string `yaml:"succ,omitempty"`

	// Effects lists fixed consumers; each entry is the list of value names
	// one effect node reads.
	Effects [][]string `yaml:"effects,omitempty"`
}

// ExpectClause specifies the expected outcome of a scenario run.
type ExpectClause struct {
	// Error is the expected pass-error code (e.g. UNSTABLE_FINGERPRINT).
	// Empty means the pass must succeed.
	Error string `yaml:"error,omitempty"`

	// Counts maps op names (as they appear in dumps) to expected node
	// counts after the pass.
	Counts map[string]int `yaml:"counts,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
//
// The universe path is resolved relative to the scenario file's directory.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "expects:" vs "expect:".
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Universe != "" && !filepath.IsAbs(scenario.Universe) {
		scenario.Universe = filepath.Join(filepath.Dir(path), scenario.Universe)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and the graph
// shape is well-formed enough to build.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Universe == "" {
		return fmt.Errorf("universe is required")
	}
	if s.Method == "" {
		return fmt.Errorf("method is required")
	}
	if len(s.Blocks) == 0 {
		return fmt.Errorf("blocks list is required and must be non-empty")
	}

	blocks := make(map[string]bool, len(s.Blocks))
	for _, b := range s.Blocks {
		if b.Name == "" {
			return fmt.Errorf("every block needs a name")
		}
		if blocks[b.Name] {
			return fmt.Errorf("duplicate block name %q", b.Name)
		}
		blocks[b.Name] = true
		if len(b.Succ) > 2 {
			return fmt.Errorf("block %q has %d successors, at most 2 supported", b.Name, len(b.Succ))
		}
	}
	for _, b := range s.Blocks {
		for _, succ := range b.Succ {
			if !blocks[succ] {
				return fmt.Errorf("block %q names unknown successor %q", b.Name, succ)
			}
		}
		for i, effect := range b.Effects {
			for _, ref := range effect {
				if _, isConst := s.Constants[ref]; isConst {
					continue
				}
				if _, isCounter := s.Counters[ref]; isCounter {
					continue
				}
				return fmt.Errorf("block %q effect %d reads undeclared value %q", b.Name, i, ref)
			}
		}
	}

	for name, def := range s.Constants {
		hasType := def.Type != ""
		hasString := def.String != nil
		if hasType == hasString {
			return fmt.Errorf("constant %q must set exactly one of type or string", name)
		}
		if hasType && def.Of != "" {
			return fmt.Errorf("constant %q: of applies only to string constants", name)
		}
	}

	return nil
}

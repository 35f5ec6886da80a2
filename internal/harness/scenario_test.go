package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScenario(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func TestLoadScenario(t *testing.T) {
	path := writeScenario(t, `
name: smoke
description: minimal valid scenario
universe: universes/app.cue
method: app.Main.run
constants:
  self: {type: app.Main}
blocks:
  - name: b0
    effects:
      - [self]
`)

	s, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, "smoke", s.Name)
	assert.Equal(t, "app.Main.run", s.Method)
	// Universe path resolves relative to the scenario file.
	assert.Equal(t, filepath.Join(filepath.Dir(path), "universes/app.cue"), s.Universe)
	assert.Nil(t, s.VerifyFingerprints)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadScenario_Invalid(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"unknown field", `
name: x
description: d
universe: u.cue
method: m.f
blocks: [{name: b0}]
expects: {}
`},
		{"missing name", `
description: d
universe: u.cue
method: m.f
blocks: [{name: b0}]
`},
		{"missing universe", `
name: x
description: d
method: m.f
blocks: [{name: b0}]
`},
		{"no blocks", `
name: x
description: d
universe: u.cue
method: m.f
`},
		{"duplicate block", `
name: x
description: d
universe: u.cue
method: m.f
blocks: [{name: b0}, {name: b0}]
`},
		{"unknown successor", `
name: x
description: d
universe: u.cue
method: m.f
blocks: [{name: b0, succ: [b9]}]
`},
		{"too many successors", `
name: x
description: d
universe: u.cue
method: m.f
blocks: [{name: b0, succ: [b1, b2, b3]}, {name: b1}, {name: b2}, {name: b3}]
`},
		{"undeclared value", `
name: x
description: d
universe: u.cue
method: m.f
blocks: [{name: b0, effects: [[ghost]]}]
`},
		{"constant with type and string", `
name: x
description: d
universe: u.cue
method: m.f
constants:
  c: {type: app.Main, string: "x"}
blocks: [{name: b0}]
`},
		{"constant with neither", `
name: x
description: d
universe: u.cue
method: m.f
constants:
  c: {}
blocks: [{name: b0}]
`},
		{"of on a type constant", `
name: x
description: d
universe: u.cue
method: m.f
constants:
  c: {type: app.Main, of: lang.String}
blocks: [{name: b0}]
`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadScenario(writeScenario(t, tt.src))
			assert.Error(t, err)
		})
	}
}

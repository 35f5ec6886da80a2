package harness

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/keel-lang/keel/internal/aot"
	"github.com/keel-lang/keel/internal/meta"
)

// fixedUnit is the compilation-unit token stamped on every scenario run.
// The pass mints a fresh UUIDv7 token per run by default; golden-file
// comparison needs the same token every run.
const fixedUnit = "scenario-unit-00000000-0000-0000-0000-000000000001"

// Run executes a scenario and returns the result.
//
// Execution flow:
//  1. Load and compile the universe CUE file
//  2. Build the scenario graph
//  3. Run the replacement pass with a fixed unit token and silent logging
//  4. Match the outcome against the expect clause; for clean runs, also
//     check op counts and the standing structural invariants
//
// Run returns an error only for scenario or universe defects; a pass
// outcome that merely disagrees with the expect clause is reported through
// the result.
func Run(scenario *Scenario) (*Result, error) {
	u, err := meta.LoadUniverse(scenario.Universe)
	if err != nil {
		return nil, fmt.Errorf("load universe: %w", err)
	}

	g, err := buildGraph(scenario, u)
	if err != nil {
		return nil, err
	}

	opts := aot.DefaultOptions()
	if scenario.VerifyFingerprints != nil {
		opts.VerifyFingerprints = *scenario.VerifyFingerprints
	}
	phase := aot.NewWithOptions(opts)
	ctx := &aot.Context{
		Fingerprints: u,
		Unit:         fixedUnit,
		Log:          slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	result := NewResult()
	result.PassErr = phase.Run(g, ctx)

	expectedCode := ""
	if scenario.Expect != nil {
		expectedCode = scenario.Expect.Error
	}

	if result.PassErr != nil {
		code := passErrorCode(result.PassErr)
		if expectedCode == "" {
			result.AddError(fmt.Sprintf("pass failed unexpectedly: %v", result.PassErr))
		} else if code != expectedCode {
			result.AddError(fmt.Sprintf("expected error code %s, got %s (%v)", expectedCode, code, result.PassErr))
		}
		return result, nil
	}

	result.Dump = g.Dump()
	if expectedCode != "" {
		result.AddError(fmt.Sprintf("expected error code %s, but the pass succeeded", expectedCode))
		return result, nil
	}

	if scenario.Expect != nil && scenario.Expect.Counts != nil {
		if err := checkOpCounts(g, scenario.Expect.Counts); err != nil {
			result.AddError(err.Error())
		}
	}
	if err := checkPlacement(g); err != nil {
		result.AddError(err.Error())
	}
	if err := checkReplaced(g); err != nil {
		result.AddError(err.Error())
	}

	return result, nil
}

// passErrorCode extracts the pass-error code, or the raw error text when
// the error is not a PassError.
func passErrorCode(err error) string {
	var pe *aot.PassError
	if errors.As(err, &pe) {
		return string(pe.Code)
	}
	return err.Error()
}

package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/keel-lang/keel/internal/aot"
	"github.com/keel-lang/keel/internal/harness"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Dump bool
}

// RunReport is the run command's success payload.
type RunReport struct {
	Scenario string   `json:"scenario"`
	Pass     bool     `json:"pass"`
	Error    string   `json:"error,omitempty"` // pass-error code, when one was expected
	Checks   []string `json:"checks,omitempty"`
	Dump     string   `json:"dump,omitempty"`
}

// String renders the text form of the report.
func (r RunReport) String() string {
	var b strings.Builder
	status := "PASS"
	if !r.Pass {
		status = "FAIL"
	}
	fmt.Fprintf(&b, "%s %s", status, r.Scenario)
	if r.Error != "" {
		fmt.Fprintf(&b, " (expected error %s)", r.Error)
	}
	for _, check := range r.Checks {
		fmt.Fprintf(&b, "\n  %s", check)
	}
	if r.Dump != "" {
		fmt.Fprintf(&b, "\n%s", r.Dump)
	}
	return b.String()
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <scenario.yaml>",
		Short: "Run a conformance scenario through the replacement pass",
		Long: `Run a conformance scenario: build its graph against its universe,
execute the constant-replacement pass, and check the scenario's
expectations.

Example:
  keelc run scenarios/self-shared-load.yaml
  keelc run --dump scenarios/sibling-strings.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenario(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Dump, "dump", false, "print the transformed graph")

	return cmd
}

func runScenario(opts *RunOptions, path string, cmd *cobra.Command) error {
	configureLogging(opts.Verbose)
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	scenario, err := harness.LoadScenario(path)
	if err != nil {
		formatter.Error("SCENARIO", err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to load scenario", err)
	}
	formatter.VerboseLog("Loaded scenario %s (%s)", scenario.Name, scenario.Description)

	result, err := harness.Run(scenario)
	if err != nil {
		formatter.Error("SCENARIO", err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to run scenario", err)
	}

	report := RunReport{
		Scenario: scenario.Name,
		Pass:     result.Pass,
		Checks:   result.Errors,
	}
	if result.PassErr != nil {
		var pe *aot.PassError
		if errors.As(result.PassErr, &pe) {
			report.Error = string(pe.Code)
		}
	}
	if opts.Dump {
		report.Dump = result.Dump
	}

	if !result.Pass {
		if err := formatter.Success(report); err != nil {
			return err
		}
		return NewExitError(ExitFailure, "scenario failed")
	}
	return formatter.Success(report)
}

// configureLogging routes pass diagnostics to stderr, at debug level when
// verbose.
func configureLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

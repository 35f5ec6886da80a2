package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/keel-lang/keel/internal/meta"
)

// ValidationReport holds universe validation results.
type ValidationReport struct {
	Valid   bool     `json:"valid"`
	Types   []string `json:"types,omitempty"`
	Methods int      `json:"methods,omitempty"`
}

// String renders the text form of the report.
func (r ValidationReport) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "valid: %d types", len(r.Types))
	if r.Methods > 0 {
		fmt.Fprintf(&b, ", %d methods", r.Methods)
	}
	return b.String()
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <universe.cue>",
		Short: "Validate a universe file",
		Long: `Compile a CUE universe file and report the types and methods it
defines. Compilation errors are reported with file positions.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	u, err := meta.LoadUniverse(path)
	if err != nil {
		var loadErr *meta.LoadError
		if errors.As(err, &loadErr) {
			formatter.Error("UNIVERSE", loadErr.Error(), loadErr.Field)
			return WrapExitError(ExitFailure, "universe is invalid", err)
		}
		formatter.Error("UNIVERSE", err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to load universe", err)
	}

	report := ValidationReport{
		Valid:   true,
		Types:   u.TypeNames(),
		Methods: len(u.MethodNames()),
	}
	for _, name := range u.TypeNames() {
		formatter.VerboseLog("type %s", name)
	}
	return formatter.Success(report)
}

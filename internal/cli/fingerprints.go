package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/keel-lang/keel/internal/meta"
	"github.com/keel-lang/keel/internal/store"
)

// FingerprintsOptions holds flags shared by the fingerprints subcommands.
type FingerprintsOptions struct {
	*RootOptions
	Database string
	Name     string
}

// SyncReport is the sync subcommand's payload.
type SyncReport struct {
	Universe  string        `json:"universe"`
	Added     int           `json:"added"`
	Unchanged int           `json:"unchanged"`
	Skipped   int           `json:"skipped"`
	Drifted   []store.Drift `json:"drifted,omitempty"`
}

// String renders the text form of the report.
func (r SyncReport) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "universe %s: %d added, %d unchanged, %d skipped", r.Universe, r.Added, r.Unchanged, r.Skipped)
	for _, d := range r.Drifted {
		fmt.Fprintf(&b, "\n  drift %s: recorded %#x, observed %#x", d.TypeName, d.Recorded, d.Observed)
	}
	return b.String()
}

// ListReport is the list subcommand's payload.
type ListReport struct {
	Universe string         `json:"universe"`
	Records  []store.Record `json:"records"`
}

// String renders the text form of the report.
func (r ListReport) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "universe %s: %d recorded types", r.Universe, len(r.Records))
	for _, rec := range r.Records {
		fmt.Fprintf(&b, "\n  %s %#016x", rec.TypeName, rec.Fingerprint)
	}
	return b.String()
}

// NewFingerprintsCommand creates the fingerprints command group.
func NewFingerprintsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fingerprints",
		Short: "Manage the structural fingerprint registry",
		Long: `Record and inspect per-type structural fingerprints.

The registry is the durable side of the fingerprint gate: each build
records the shapes it compiled against, and later builds compare. A type
whose shape changed is reported as drift, never silently overwritten.`,
	}

	cmd.AddCommand(newFingerprintsSyncCommand(rootOpts))
	cmd.AddCommand(newFingerprintsListCommand(rootOpts))

	return cmd
}

func newFingerprintsSyncCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FingerprintsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "sync <universe.cue>",
		Short: "Record a universe's fingerprints",
		Long: `Compile a universe file and record every stable type's fingerprint
under the given name. Unstable types and definitional types (primitives,
arrays) are skipped.

Example:
  keelc fingerprints sync --db fingerprints.db --name app universes/app.cue`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFingerprintsSync(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to the registry database (required)")
	cmd.Flags().StringVar(&opts.Name, "name", "", "universe name in the registry (required)")
	_ = cmd.MarkFlagRequired("db")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newFingerprintsListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FingerprintsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List a universe's recorded fingerprints",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFingerprintsList(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to the registry database (required)")
	cmd.Flags().StringVar(&opts.Name, "name", "", "universe name in the registry (required)")
	_ = cmd.MarkFlagRequired("db")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func runFingerprintsSync(opts *FingerprintsOptions, universePath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	u, err := meta.LoadUniverse(universePath)
	if err != nil {
		formatter.Error("UNIVERSE", err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to load universe", err)
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		formatter.Error("STORE", err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to open registry", err)
	}
	defer st.Close()

	res, err := st.Sync(cmd.Context(), opts.Name, u)
	if err != nil {
		formatter.Error("STORE", err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to sync fingerprints", err)
	}

	report := SyncReport{
		Universe:  opts.Name,
		Added:     res.Added,
		Unchanged: res.Unchanged,
		Skipped:   res.Skipped,
		Drifted:   res.Drifted,
	}
	if err := formatter.Success(report); err != nil {
		return err
	}
	if len(res.Drifted) > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d types drifted", len(res.Drifted)))
	}
	return nil
}

func runFingerprintsList(opts *FingerprintsOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		formatter.Error("STORE", err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to open registry", err)
	}
	defer st.Close()

	records, err := st.List(cmd.Context(), opts.Name)
	if err != nil {
		formatter.Error("STORE", err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to list fingerprints", err)
	}

	return formatter.Success(ListReport{Universe: opts.Name, Records: records})
}

package includecase

import (
	"errors"
	"fmt"

	"github.com/railwayapp/includecase/internal/filesystems"
	"github.com/railwayapp/includecase/internal/fixer"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newFixCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fix [source-path]",
		Short: "Fix include directives that do not match the filesystem",
		Long: `Fix scans the source tree and, for every mismatched include directive, asks
which of the candidate spellings to use. Pressing enter takes the first choice.
With --auto the first choice is applied everywhere without asking.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadSettings(v)
			return runFix(cmd, cfg, sourcePath(cfg, args))
		},
	}
	addFixFlags(cmd)
	return cmd
}

func addFixFlags(cmd *cobra.Command) {
	cmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation before modifying files")
	cmd.Flags().Bool("auto", false, "apply the first suggestion for every directive without asking")
}

func runFix(cmd *cobra.Command, cfg settings, source string) error {
	if filesystems.IsRemote(source) {
		return fmt.Errorf("cannot fix %s: %w", source, filesystems.ErrReadOnly)
	}

	in := cmd.InOrStdin()
	if !interactive(in) && !(cfg.Yes && cfg.Auto) {
		return errors.New("stdin is not a terminal: pass --yes and --auto to fix without prompts, or --dry-run to only report")
	}

	s, err := openSession(cmd, cfg, source)
	if err != nil {
		return err
	}
	defer s.Close()

	out := cmd.OutOrStdout()
	reader := fixer.NewMenuReader(in)

	report, err := s.checker.Check(cmd.Context(), s.root)
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}
	if report.Count() == 0 {
		fmt.Fprintf(out, "No inconsistencies found in %d files.\n", report.FilesScanned)
		return nil
	}
	fmt.Fprintf(out, "Found %d inconsistencies in %d files between the include statements and the actual filenames in the filesystem.\n",
		report.Count(), len(report.Files))

	if !cfg.Yes {
		ok, err := fixer.Confirm(reader, out, s.root)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}
	fmt.Fprintln(out)

	f := fixer.New(s.filesystem, reader, out, fixer.Options{
		Auto:   cfg.Auto,
		Color:  s.color,
		Logger: s.logger,
	})
	summary, err := f.Fix(cmd.Context(), report)
	if err != nil && !errors.Is(err, fixer.ErrQuit) {
		return err
	}

	fmt.Fprintln(out, "Summary:")
	fmt.Fprintln(out, "========")
	fmt.Fprintf(out, "Skipped: %d\n", summary.Skipped)
	fmt.Fprintf(out, "Fixed: %d\n", summary.Fixed)
	fmt.Fprintf(out, "Errors: %d\n", summary.Errors)
	return nil
}

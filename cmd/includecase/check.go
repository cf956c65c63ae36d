package includecase

import (
	"fmt"

	"github.com/railwayapp/includecase/internal/export"
	"github.com/railwayapp/includecase/internal/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newCheckCommand(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "check [source-path]",
		Short: "Report include directives that do not match the filesystem",
		Long: `Check scans the source tree and prints every include directive whose path
differs from the file on disk only in letter case or in its use of backslashes.
Nothing is modified. The command exits with status 1 when anything is found,
which makes it usable as a CI gate.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadSettings(v)
			report, err := runCheck(cmd, cfg, sourcePath(cfg, args))
			if err != nil {
				return err
			}
			if n := report.Count(); n > 0 {
				return fmt.Errorf("%w: %d directives in %d files", ErrFindings, n, len(report.Files))
			}
			return nil
		},
	}
}

// runCheck scans source and writes the report in the configured format.
func runCheck(cmd *cobra.Command, cfg settings, source string) (*schema.Report, error) {
	s, err := openSession(cmd, cfg, source)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	exporter, err := export.NewExporter(cfg.Format, s.color)
	if err != nil {
		return nil, err
	}

	report, err := s.checker.Check(cmd.Context(), s.root)
	if err != nil {
		return nil, fmt.Errorf("check failed: %w", err)
	}

	output, err := exporter.Export(report)
	if err != nil {
		return nil, fmt.Errorf("%s export failed: %w", exporter.Name(), err)
	}
	if _, err := cmd.OutOrStdout().Write(output); err != nil {
		return nil, err
	}
	return report, nil
}

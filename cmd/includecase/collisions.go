package includecase

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newCollisionsCommand(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "collisions [source-path]",
		Short: "List files whose names differ only in case",
		Long: `Collisions lists groups of files whose names are equal when case is ignored.
Such files cannot coexist on a case-insensitive filesystem and make includes
of that name ambiguous.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadSettings(v)
			s, err := openSession(cmd, cfg, sourcePath(cfg, args))
			if err != nil {
				return err
			}
			defer s.Close()

			collisions, err := s.checker.Collisions(cmd.Context(), s.root)
			if err != nil {
				return fmt.Errorf("scan failed: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(collisions) == 0 {
				fmt.Fprintln(out, "No files differ only in case.")
				return nil
			}
			for _, c := range collisions {
				paths := make([]string, 0, len(c.Files))
				for _, f := range c.Files {
					paths = append(paths, f.Path)
				}
				fmt.Fprintf(out, "%s: %s\n", c.Key, strings.Join(paths, ", "))
			}
			return nil
		},
	}
}

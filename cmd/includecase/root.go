package includecase

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strings"

	"github.com/railwayapp/includecase/internal/discovery"
	"github.com/railwayapp/includecase/internal/export"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// ErrFindings is returned by check when some include directives do not match
// the files on disk.
var ErrFindings = errors.New("include directives do not match the filesystem")

// NewRootCommand creates and returns the root cobra command
func NewRootCommand() *cobra.Command {
	v := viper.New()
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "includecase [source-path]",
		Short: "Fix #include directives whose case does not match the file on disk",
		Long: `Includecase checks a C/C++ codebase for inconsistencies between the include
statements in the files and the actual filenames in the filesystem. Such code
builds on case-insensitive filesystems (Windows, default macOS) and breaks on
Linux.

Without --dry-run every mismatch is shown with its candidate spellings and can be
fixed interactively or, with --auto, automatically.

The source path may be a local directory, file:///path, github://owner/repo[/tree/ref]
or git://host/owner/repo[#ref]. Remote repositories can only be checked.`,
		Version:       Version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := v.BindPFlags(cmd.Flags()); err != nil {
				return fmt.Errorf("failed to bind flags: %w", err)
			}
			return initConfig(v, cfgFile)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadSettings(v)
			source := sourcePath(cfg, args)
			if cfg.DryRun {
				_, err := runCheck(cmd, cfg, source)
				return err
			}
			return runFix(cmd, cfg, source)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is .includecase.yaml in the working directory or $HOME)")
	flags.StringP("directory", "d", "", "root directory of the codebase to check (default: .)")
	flags.String("format", "text", fmt.Sprintf("output format (%s)", strings.Join(export.Formats(), ", ")))
	flags.StringSlice("ext", discovery.DefaultExtensions, "extensions of the source files to scan")
	flags.StringSlice("exclude", nil, "glob pattern of paths to skip, relative to the root (repeatable)")
	flags.Bool("gitignore", false, "skip paths ignored by .gitignore files")
	flags.Bool("index-all", false, "match includes against every file in the tree, not only source files")
	flags.Int("jobs", runtime.GOMAXPROCS(0), "number of files parsed concurrently")
	flags.String("log-level", "warn", "log level (trace, debug, info, warn, error)")
	flags.Bool("no-color", false, "disable colored output")

	cmd.Flags().BoolP("dry-run", "n", false, "print the results without fixing the include statements")
	addFixFlags(cmd)

	cmd.AddCommand(newCheckCommand(v))
	cmd.AddCommand(newFixCommand(v))
	cmd.AddCommand(newCollisionsCommand(v))
	cmd.AddCommand(newVersionCommand())

	return cmd
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func sourcePath(cfg settings, args []string) string {
	switch {
	case len(args) > 0:
		return args[0]
	case cfg.Directory != "":
		return cfg.Directory
	default:
		return "."
	}
}

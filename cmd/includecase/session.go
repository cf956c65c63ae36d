package includecase

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/railwayapp/includecase/internal/checker"
	"github.com/railwayapp/includecase/internal/discovery"
	"github.com/railwayapp/includecase/internal/filesystems"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/xyproto/files"
)

// session holds what every subcommand needs to scan one source.
type session struct {
	source     string
	root       string
	filesystem filesystems.FileSystem
	checker    *checker.Checker
	logger     zerolog.Logger
	color      bool
}

func openSession(cmd *cobra.Command, cfg settings, source string) (*session, error) {
	logger, err := newLogger(cmd.ErrOrStderr(), cfg.LogLevel, !cfg.NoColor && isTerminal(cmd.ErrOrStderr()))
	if err != nil {
		return nil, err
	}

	root := filesystems.GetBasePath(source)
	if !filesystems.IsRemote(source) && !files.IsDir(root) {
		return nil, fmt.Errorf("%s is not a directory", root)
	}

	// Create filesystem from the source (supports file://, github://, git://)
	filesystem, err := filesystems.NewFileSystem(cmd.Context(), source)
	if err != nil {
		return nil, fmt.Errorf("failed to create filesystem: %w", err)
	}
	logger.Debug().Str("source", source).Str("root", root).Msg("opened source")

	return &session{
		source:     source,
		root:       root,
		filesystem: filesystem,
		checker: checker.New(filesystem, checker.Options{
			Discovery: discovery.Options{
				Detectors:        []discovery.Detector{discovery.NewExtensionDetector(cfg.Ext...)},
				Exclude:          cfg.Exclude,
				RespectGitignore: cfg.Gitignore,
			},
			IndexAll: cfg.IndexAll,
			Jobs:     cfg.Jobs,
			Logger:   logger,
		}),
		logger: logger,
		color:  !cfg.NoColor && isTerminal(cmd.OutOrStdout()),
	}, nil
}

// Close releases a cloned repository.
func (s *session) Close() {
	if c, ok := s.filesystem.(filesystems.Cleaner); ok {
		if err := c.Cleanup(); err != nil {
			s.logger.Warn().Err(err).Msg("failed to clean up clone")
		}
	}
}

func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// interactive reports whether prompts can be answered on in. Readers other
// than files are injected by tests and always count as interactive.
func interactive(in io.Reader) bool {
	if _, ok := in.(*os.File); !ok {
		return true
	}
	return isTerminal(in)
}

package discovery

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/railwayapp/includecase/internal/filesystems"
	"github.com/rs/zerolog"
)

// File is a regular file found under the scan root.
type File struct {
	Path   string // path as understood by the filesystem backend
	Rel    string // slash-separated path relative to the scan root
	Name   string
	Source bool // accepted by a detector; only these are scanned for directives
}

// Detector decides whether a file is a source file worth scanning.
type Detector interface {
	Name() string
	Detect(rel string, info filesystems.FileInfo) bool
}

// Options controls enumeration.
type Options struct {
	Detectors        []Detector
	Exclude          []string // doublestar globs matched against Rel
	RespectGitignore bool
	Logger           zerolog.Logger
}

// Scanner enumerates a source tree using registered detectors.
type Scanner struct {
	filesystem filesystems.FileSystem
	opts       Options
	logger     zerolog.Logger
}

// vcsDirs are never descended into.
var vcsDirs = map[string]bool{".git": true, ".svn": true, ".hg": true, ".bzr": true}

// NewScanner validates the exclude patterns and returns a Scanner. With no
// detectors configured the default C/C++ extension detector is used.
func NewScanner(filesystem filesystems.FileSystem, opts Options) (*Scanner, error) {
	for _, pattern := range opts.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid exclude pattern %q", pattern)
		}
	}
	if len(opts.Detectors) == 0 {
		opts.Detectors = []Detector{NewExtensionDetector(DefaultExtensions...)}
	}

	return &Scanner{
		filesystem: filesystem,
		opts:       opts,
		logger:     opts.Logger.With().Str("component", "discovery").Logger(),
	}, nil
}

// Discover walks root and returns every regular file sorted by Rel.
func (s *Scanner) Discover(ctx context.Context, root string) ([]File, error) {
	var files []File
	ignores := newIgnoreSet(s.filesystem, s.logger)

	err := s.filesystem.Walk(root, func(p string, info filesystems.FileInfo, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			s.logger.Debug().Err(err).Str("path", p).Msg("skipping unreadable entry")
			if info != nil && info.IsDir() {
				return filesystems.SkipDir
			}
			return nil
		}
		if info == nil {
			return nil
		}

		rel, err := s.filesystem.Rel(root, p)
		if err != nil {
			return fmt.Errorf("failed to relativize %s: %w", p, err)
		}
		rel = filepath.ToSlash(rel)

		if info.IsDir() {
			if rel == "." {
				if s.opts.RespectGitignore {
					ignores.load(p, "")
				}
				return nil
			}
			if vcsDirs[info.Name()] || s.excluded(rel) || (s.opts.RespectGitignore && ignores.matches(rel, true)) {
				s.logger.Debug().Str("dir", rel).Msg("skipping directory")
				return filesystems.SkipDir
			}
			if s.opts.RespectGitignore {
				ignores.load(p, rel)
			}
			return nil
		}

		if !info.Mode().IsRegular() {
			return nil
		}
		if s.excluded(rel) || (s.opts.RespectGitignore && ignores.matches(rel, false)) {
			return nil
		}

		files = append(files, File{
			Path:   p,
			Rel:    rel,
			Name:   path.Base(rel),
			Source: s.detect(rel, info),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Rel < files[j].Rel })
	return files, nil
}

func (s *Scanner) excluded(rel string) bool {
	for _, pattern := range s.opts.Exclude {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

func (s *Scanner) detect(rel string, info filesystems.FileInfo) bool {
	for _, detector := range s.opts.Detectors {
		if detector.Detect(rel, info) {
			return true
		}
	}
	return false
}

// Sources filters files down to the detected source files.
func Sources(files []File) []File {
	var sources []File
	for _, f := range files {
		if f.Source {
			sources = append(sources, f)
		}
	}
	return sources
}

func isUnder(rel, dir string) bool {
	return dir == "" || strings.HasPrefix(rel, dir+"/")
}

// Package checker runs the scan pipeline: enumerate the tree, index file
// names, parse include directives and resolve each against the index.
package checker

import (
	"context"
	"fmt"
	"runtime"

	"github.com/railwayapp/includecase/internal/directive"
	"github.com/railwayapp/includecase/internal/discovery"
	"github.com/railwayapp/includecase/internal/filesystems"
	"github.com/railwayapp/includecase/internal/index"
	"github.com/railwayapp/includecase/internal/resolve"
	"github.com/railwayapp/includecase/internal/schema"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Options configures a Checker.
type Options struct {
	Discovery discovery.Options

	// IndexAll indexes every file in the tree, not only detected sources,
	// so that includes of e.g. .inl or .def files are checked too.
	IndexAll bool

	// Jobs bounds concurrent file reads. Zero means GOMAXPROCS.
	Jobs int

	Logger zerolog.Logger
}

type Checker struct {
	filesystem filesystems.FileSystem
	opts       Options
	logger     zerolog.Logger
}

func New(filesystem filesystems.FileSystem, opts Options) *Checker {
	if opts.Jobs <= 0 {
		opts.Jobs = runtime.GOMAXPROCS(0)
	}
	opts.Discovery.Logger = opts.Logger
	return &Checker{
		filesystem: filesystem,
		opts:       opts,
		logger:     opts.Logger.With().Str("component", "checker").Logger(),
	}
}

// Check scans root and returns the findings grouped by file in path order.
func (c *Checker) Check(ctx context.Context, root string) (*schema.Report, error) {
	scanner, err := discovery.NewScanner(c.filesystem, c.opts.Discovery)
	if err != nil {
		return nil, err
	}

	files, err := scanner.Discover(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("filesystem walk failed: %w", err)
	}
	sources := discovery.Sources(files)

	idx := index.New()
	indexed := sources
	if c.opts.IndexAll {
		indexed = files
	}
	for _, f := range indexed {
		idx.Add(index.Candidate{Name: f.Name, Path: f.Rel})
	}
	c.logger.Debug().Int("files", len(files)).Int("sources", len(sources)).Int("indexed", idx.Len()).Msg("indexed tree")

	parsed, err := c.parseAll(ctx, sources)
	if err != nil {
		return nil, err
	}

	report := schema.NewReport(root)
	report.FilesScanned = len(sources)
	report.FilesIndexed = idx.Len()
	report.Collisions = idx.Collisions()

	for i, src := range sources {
		report.DirectivesScanned += len(parsed[i])
		for _, d := range parsed[i] {
			if finding, ok := resolve.Resolve(src.Rel, d, idx); ok {
				report.AddFinding(finding)
			}
		}
	}

	c.logger.Debug().Int("directives", report.DirectivesScanned).Int("findings", report.Count()).Msg("check complete")
	return report, nil
}

// parseAll reads and parses every source concurrently. Results are slotted
// by position so the report order never depends on scheduling.
func (c *Checker) parseAll(ctx context.Context, sources []discovery.File) ([][]directive.Directive, error) {
	parsed := make([][]directive.Directive, len(sources))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.opts.Jobs)

	for i, src := range sources {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			content, err := c.filesystem.ReadFile(src.Path)
			if err != nil {
				c.logger.Warn().Err(err).Str("file", src.Rel).Msg("skipping unreadable file")
				return nil
			}
			parsed[i] = directive.Parse(content)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return parsed, nil
}

// Collisions returns only the groups of files whose names differ in case.
func (c *Checker) Collisions(ctx context.Context, root string) ([]index.Collision, error) {
	scanner, err := discovery.NewScanner(c.filesystem, c.opts.Discovery)
	if err != nil {
		return nil, err
	}
	files, err := scanner.Discover(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("filesystem walk failed: %w", err)
	}

	idx := index.New()
	for _, f := range files {
		if f.Source || c.opts.IndexAll {
			idx.Add(index.Candidate{Name: f.Name, Path: f.Rel})
		}
	}
	return idx.Collisions(), nil
}

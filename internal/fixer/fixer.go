// Package fixer walks a report's findings and rewrites the offending include
// directives, either by asking the user which spelling to use or by taking the
// best suggestion automatically.
package fixer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/railwayapp/includecase/internal/directive"
	"github.com/railwayapp/includecase/internal/export"
	"github.com/railwayapp/includecase/internal/filesystems"
	"github.com/railwayapp/includecase/internal/schema"
	"github.com/rs/zerolog"
)

// ErrQuit is returned when the user chooses to stop fixing.
var ErrQuit = errors.New("fixing aborted by user")

// ErrStale means the file a suggestion points to changed after the scan.
var ErrStale = errors.New("suggested file no longer exists")

type Options struct {
	// Auto applies the first suggestion of every finding without asking.
	Auto   bool
	Color  bool
	Logger zerolog.Logger
}

type Fixer struct {
	filesystem filesystems.FileSystem
	reader     MenuReader
	out        io.Writer
	auto       bool
	text       *export.TextExporter
	logger     zerolog.Logger
}

func New(fs filesystems.FileSystem, reader MenuReader, out io.Writer, opts Options) *Fixer {
	return &Fixer{
		filesystem: fs,
		reader:     reader,
		out:        out,
		auto:       opts.Auto,
		text:       export.NewTextExporter(opts.Color),
		logger:     opts.Logger.With().Str("component", "fixer").Logger(),
	}
}

// choice is the outcome of one menu prompt.
type choice int

const (
	choiceSkip choice = -1
	choiceQuit choice = -2
)

// Fix processes every finding of report in order. On ErrQuit the summary
// covers the findings handled before the user quit.
func (f *Fixer) Fix(ctx context.Context, report *schema.Report) (schema.Summary, error) {
	var summary schema.Summary

	for k, file := range report.Files {
		f.text.WriteFileHeader(f.out, file.Path, k+1, len(report.Files))
		path := f.filesystem.Join(report.Root, file.Path)

		for _, finding := range file.Findings {
			if err := ctx.Err(); err != nil {
				return summary, err
			}

			f.text.WriteFinding(f.out, finding)
			n := len(finding.Suggestions)
			fmt.Fprintf(f.out, "        %d: Skip\n", n+1)
			fmt.Fprintf(f.out, "        %d: Fix all %d files automatically\n", n+2, len(report.Files))
			fmt.Fprintf(f.out, "        %d: Skip all - quit program\n", n+3)

			pick, err := f.choose(n)
			if err != nil {
				return summary, err
			}
			switch pick {
			case choiceQuit:
				fmt.Fprintln(f.out, "        Quitting program.")
				return summary, ErrQuit
			case choiceSkip:
				summary.Skipped++
				continue
			}

			suggestion := finding.Suggestions[pick]
			target := suggestion.Value
			applied, err := f.apply(report.Root, path, finding, suggestion)
			if err != nil {
				f.logger.Debug().Err(err).Str("file", finding.File).Int("line", finding.Line).Msg("rewrite failed")
				switch {
				case errors.Is(err, directive.ErrNotRewritten):
					fmt.Fprintln(f.out, "        Unable to correct include statement. Do it manually.")
				case errors.Is(err, ErrStale):
					fmt.Fprintf(f.out, "        %v. Skipped.\n", err)
				default:
					fmt.Fprintf(f.out, "        Unable to write %s: %v\n", file.Path, err)
				}
				summary.Errors++
				continue
			}

			summary.Fixed++
			from := directive.Directive{Value: finding.Value, Delim: applied}
			to := directive.Directive{Value: target, Delim: applied}
			fmt.Fprintf(f.out, "    Fixed include statement from '%s' to '%s'.\n", from.Text(), to.Text())
		}
		fmt.Fprintln(f.out)
	}

	return summary, nil
}

// choose asks for a menu entry for a finding with n suggestions and returns
// the suggestion index, choiceSkip or choiceQuit.
func (f *Fixer) choose(n int) (choice, error) {
	if f.auto {
		return 0, nil
	}

	fmt.Fprint(f.out, "        Choose a number and hit enter (no value = first choice): ")
	answer, err := readAnswer(f.reader)
	if err != nil {
		return 0, err
	}
	if answer == "" {
		return 0, nil
	}

	nr, err := strconv.Atoi(answer)
	switch {
	case err != nil || nr < 1 || nr > n+3:
		fmt.Fprintln(f.out, "        Invalid choice. Skipped.")
		return choiceSkip, nil
	case nr == n+1:
		fmt.Fprintln(f.out, "        Skipped.")
		return choiceSkip, nil
	case nr == n+2:
		fmt.Fprintln(f.out, "        Fixing all automatically.")
		f.auto = true
		return 0, nil
	case nr == n+3:
		return choiceQuit, nil
	}
	return choice(nr - 1), nil
}

// apply rewrites the finding's directive in the file at path. Only the
// finding's own line is touched, so identical directives elsewhere in the
// file are left to their own findings. The finding's delimiter is tried
// first, then the other one.
func (f *Fixer) apply(root, path string, finding schema.Finding, s schema.Suggestion) (directive.Delim, error) {
	if s.Path != "" {
		if err := f.verify(root, s.Path); err != nil {
			return directive.Any, err
		}
	}
	target := s.Value

	content, err := f.filesystem.ReadFile(path)
	if err != nil {
		return directive.Any, fmt.Errorf("failed to read %s: %w", path, err)
	}

	delims := []directive.Delim{directive.Quote, directive.Angle}
	if finding.Delim == directive.Angle {
		delims = []directive.Delim{directive.Angle, directive.Quote}
	}

	for _, d := range delims {
		updated, n := directive.Rewrite(content, finding.Line, finding.Value, target, d)
		if n == 0 {
			continue
		}
		if err := f.filesystem.WriteFile(path, updated); err != nil {
			return d, fmt.Errorf("failed to write %s: %w", path, err)
		}
		f.logger.Info().Str("file", path).Int("directives", n).Msg("rewrote include")
		return d, nil
	}
	return directive.Any, fmt.Errorf("%s:%d: %w", path, finding.Line, directive.ErrNotRewritten)
}

// verify checks that rel still exists under root with exactly that spelling.
func (f *Fixer) verify(root, rel string) error {
	fs := f.filesystem
	found, err := filesystems.FindFile(fs, fs.Join(root, fs.Dir(rel)), fs.Base(rel))
	if err != nil || found == "" || fs.Base(found) != fs.Base(rel) {
		return fmt.Errorf("%s: %w", rel, ErrStale)
	}
	return nil
}

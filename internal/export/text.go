package export

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/railwayapp/includecase/internal/directive"
	"github.com/railwayapp/includecase/internal/schema"
)

// TextExporter renders the human-readable listing printed by the CLI.
type TextExporter struct {
	Palette Palette
}

// Palette holds the colors used for terminal output.
type Palette struct {
	Header *color.Color
	File   *color.Color
	Bad    *color.Color
	Good   *color.Color
	Faint  *color.Color
}

// NewPalette returns the CLI colors, forced on or off.
func NewPalette(enabled bool) Palette {
	p := Palette{
		Header: color.New(color.Bold),
		File:   color.New(color.FgCyan, color.Bold),
		Bad:    color.New(color.FgRed),
		Good:   color.New(color.FgGreen),
		Faint:  color.New(color.FgHiBlack),
	}
	for _, c := range []*color.Color{p.Header, p.File, p.Bad, p.Good, p.Faint} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func NewTextExporter(color bool) *TextExporter {
	return &TextExporter{Palette: NewPalette(color)}
}

func (e *TextExporter) Name() string {
	return "text"
}

func (e *TextExporter) Export(report *schema.Report) ([]byte, error) {
	var buf bytes.Buffer
	p := e.Palette

	p.Header.Fprintln(&buf, "Results:")
	fmt.Fprintln(&buf, "========")
	fmt.Fprintf(&buf, "Scanned %d directives in %d files (%d files indexed).\n",
		report.DirectivesScanned, report.FilesScanned, report.FilesIndexed)
	fmt.Fprintf(&buf, "Found %d inconsistencies in %d files between the include statements and the actual filenames in the filesystem.\n",
		report.Count(), len(report.Files))
	fmt.Fprintf(&buf, "(%d case, %d ambiguous, %d backslash)\n\n",
		report.CountKind(schema.KindCase), report.CountKind(schema.KindAmbiguous), report.CountKind(schema.KindBackslash))

	for k, file := range report.Files {
		e.WriteFileHeader(&buf, file.Path, k+1, len(report.Files))
		for _, f := range file.Findings {
			e.WriteFinding(&buf, f)
		}
		fmt.Fprintln(&buf)
	}

	if len(report.Collisions) > 0 {
		p.Header.Fprintln(&buf, "Files whose names differ only in case:")
		for _, c := range report.Collisions {
			paths := make([]string, 0, len(c.Files))
			for _, f := range c.Files {
				paths = append(paths, f.Path)
			}
			fmt.Fprintf(&buf, "    %s: %s\n", c.Key, strings.Join(paths, ", "))
		}
	}

	return buf.Bytes(), nil
}

// WriteFileHeader prints the "File(k/n): path" line.
func (e *TextExporter) WriteFileHeader(w io.Writer, path string, k, n int) {
	fmt.Fprintf(w, "File(%d/%d): %s\n", k, n, e.Palette.File.Sprint(path))
}

// WriteFinding prints one directive and its numbered suggestions.
func (e *TextExporter) WriteFinding(w io.Writer, f schema.Finding) {
	p := e.Palette
	written := directive.Directive{Value: f.Value, Delim: f.Delim}
	fmt.Fprintf(w, "    %s:%d '%s'\n", f.File, f.Line, p.Bad.Sprint(written.Text()))

	if len(f.Suggestions) == 1 {
		fmt.Fprintln(w, "        Should be:")
	} else {
		fmt.Fprintln(w, "        Should be one of:")
	}
	for j, s := range f.Suggestions {
		suggested := directive.Directive{Value: s.Value, Delim: f.Delim}
		line := fmt.Sprintf("        %d: '%s'", j+1, p.Good.Sprint(suggested.Text()))
		if s.Path != "" {
			line += " " + p.Faint.Sprintf("(%s)", s.Path)
		}
		fmt.Fprintln(w, line)
	}
}

package schema

import (
	"github.com/railwayapp/includecase/internal/directive"
	"github.com/railwayapp/includecase/internal/index"
)

// Kind classifies a finding.
type Kind string

const (
	KindCase      Kind = "case"      // exactly one on-disk spelling fits
	KindAmbiguous Kind = "ambiguous" // several files differ only in case; the user must pick
	KindBackslash Kind = "backslash" // spelling is right but the path uses '\'
)

// Report is the result of checking one source tree.
type Report struct {
	Root              string            `json:"root" yaml:"root" toml:"root"`
	FilesScanned      int               `json:"filesScanned" yaml:"filesScanned" toml:"filesScanned"`
	FilesIndexed      int               `json:"filesIndexed" yaml:"filesIndexed" toml:"filesIndexed"`
	DirectivesScanned int               `json:"directivesScanned" yaml:"directivesScanned" toml:"directivesScanned"`
	Files             []FileReport      `json:"files" yaml:"files" toml:"files"`
	Collisions        []index.Collision `json:"collisions,omitempty" yaml:"collisions,omitempty" toml:"collisions,omitempty"`
}

// FileReport holds the findings of one source file, in line order.
type FileReport struct {
	Path     string    `json:"path" yaml:"path" toml:"path"`
	Findings []Finding `json:"findings" yaml:"findings" toml:"findings"`
}

// Finding is one include directive that does not match the tree.
type Finding struct {
	File        string          `json:"file" yaml:"file" toml:"file"`
	Line        int             `json:"line" yaml:"line" toml:"line"`
	Value       string          `json:"value" yaml:"value" toml:"value"`
	Delim       directive.Delim `json:"delim" yaml:"delim" toml:"delim"`
	Kind        Kind            `json:"kind" yaml:"kind" toml:"kind"`
	Suggestions []Suggestion    `json:"suggestions" yaml:"suggestions" toml:"suggestions"`
}

// Suggestion is a replacement value for a directive, best first.
// Path is empty when the directive only needs its separators fixed and no
// file in the tree backs it.
type Suggestion struct {
	Value string `json:"value" yaml:"value" toml:"value"`
	Path  string `json:"path,omitempty" yaml:"path,omitempty" toml:"path,omitempty"`
}

// Summary counts what a fix run did.
type Summary struct {
	Skipped int `json:"skipped" yaml:"skipped" toml:"skipped"`
	Fixed   int `json:"fixed" yaml:"fixed" toml:"fixed"`
	Errors  int `json:"errors" yaml:"errors" toml:"errors"`
}

func NewReport(root string) *Report {
	return &Report{
		Root:  root,
		Files: make([]FileReport, 0),
	}
}

// AddFinding appends f to its file's report. Findings must arrive grouped by
// file; a new FileReport is started whenever the file changes.
func (r *Report) AddFinding(f Finding) {
	if n := len(r.Files); n > 0 && r.Files[n-1].Path == f.File {
		r.Files[n-1].Findings = append(r.Files[n-1].Findings, f)
		return
	}
	r.Files = append(r.Files, FileReport{Path: f.File, Findings: []Finding{f}})
}

// Count returns the total number of findings.
func (r *Report) Count() int {
	n := 0
	for _, file := range r.Files {
		n += len(file.Findings)
	}
	return n
}

// CountKind returns the number of findings of the given kind.
func (r *Report) CountKind(kind Kind) int {
	n := 0
	for _, file := range r.Files {
		for _, f := range file.Findings {
			if f.Kind == kind {
				n++
			}
		}
	}
	return n
}

// Findings flattens the report in file then line order.
func (r *Report) Findings() []Finding {
	var out []Finding
	for _, file := range r.Files {
		out = append(out, file.Findings...)
	}
	return out
}

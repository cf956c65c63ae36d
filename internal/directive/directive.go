// Package directive finds #include directives in source text and rewrites
// their targets in place.
package directive

import (
	"bytes"
	"errors"
	"regexp"
)

// Delim is the bracket style of an include directive.
type Delim int

const (
	Any   Delim = iota // only meaningful for Rewrite
	Quote              // #include "x.h"
	Angle              // #include <x.h>
)

func (d Delim) String() string {
	switch d {
	case Quote:
		return "quote"
	case Angle:
		return "angle"
	default:
		return "any"
	}
}

// Wrap renders value inside the directive's brackets.
func (d Delim) Wrap(value string) string {
	if d == Angle {
		return "<" + value + ">"
	}
	return `"` + value + `"`
}

// ErrNotRewritten reports that no directive with the requested value was found.
var ErrNotRewritten = errors.New("include directive not found")

// Directive is one #include line.
type Directive struct {
	Line  int // 1-based
	Value string
	Delim Delim
	Start int // byte offset of Value within the line
	End   int
}

// Text renders the directive in canonical form.
func (d Directive) Text() string {
	return "#include " + d.Delim.Wrap(d.Value)
}

var includePattern = regexp.MustCompile(`^\s*#\s*include\s*(?:"([^"\n]*)"|<([^>\n]*)>)`)

// Parse returns the include directives in content, in line order.
func Parse(content []byte) []Directive {
	var directives []Directive
	for i, line := range splitLines(content) {
		if d, ok := parseLine(line); ok {
			d.Line = i + 1
			directives = append(directives, d)
		}
	}
	return directives
}

func parseLine(line []byte) (Directive, bool) {
	// cheap reject before the regexp
	if bytes.IndexByte(line, '#') < 0 {
		return Directive{}, false
	}
	m := includePattern.FindSubmatchIndex(line)
	if m == nil {
		return Directive{}, false
	}

	d := Directive{Delim: Quote, Start: m[2], End: m[3]}
	if m[2] < 0 {
		d = Directive{Delim: Angle, Start: m[4], End: m[5]}
	}
	if d.Start == d.End {
		return Directive{}, false
	}
	d.Value = string(line[d.Start:d.End])
	return d, true
}

// splitLines splits content on '\n' keeping any '\r' with the line body.
func splitLines(content []byte) [][]byte {
	if len(content) == 0 {
		return nil
	}
	lines := bytes.Split(content, []byte("\n"))
	if len(lines[len(lines)-1]) == 0 {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// Rewrite replaces the value of every directive equal to from with to. A
// positive line restricts the change to that 1-based line.
// With Any, quoted directives are tried first and angle directives only if no
// quoted directive matched. It returns the new content and the number of
// directives changed; content is returned unchanged when the count is zero.
func Rewrite(content []byte, line int, from, to string, delim Delim) ([]byte, int) {
	if delim == Any {
		if out, n := Rewrite(content, line, from, to, Quote); n > 0 {
			return out, n
		}
		return Rewrite(content, line, from, to, Angle)
	}

	var out bytes.Buffer
	out.Grow(len(content))

	count := 0
	for lineNo := 1; len(content) > 0; lineNo++ {
		text := content
		rest := []byte(nil)
		if i := bytes.IndexByte(content, '\n'); i >= 0 {
			text, rest = content[:i+1], content[i+1:]
		}
		content = rest

		if line > 0 && lineNo != line {
			out.Write(text)
			continue
		}
		d, ok := parseLine(bytes.TrimSuffix(text, []byte("\n")))
		if ok && d.Delim == delim && d.Value == from {
			out.Write(text[:d.Start])
			out.WriteString(to)
			out.Write(text[d.End:])
			count++
		} else {
			out.Write(text)
		}
	}

	return out.Bytes(), count
}

func (d Delim) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

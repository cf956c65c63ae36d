// Package resolve decides, for a single include directive, which file in the
// tree it refers to and whether its spelling matches that file.
package resolve

import (
	"path"
	"sort"
	"strings"

	"github.com/railwayapp/includecase/internal/directive"
	"github.com/railwayapp/includecase/internal/index"
	"github.com/railwayapp/includecase/internal/schema"
)

// Normalize converts Windows separators to forward slashes.
func Normalize(value string) string {
	return strings.ReplaceAll(value, `\`, "/")
}

// Candidate ranks, lowest first.
const (
	rankRelative  = iota // the path the compiler would try first, relative to the includer
	rankSuffix           // every segment of the directive matches the candidate's tail
	rankSameDir          // lives next to the includer
	rankElsewhere        // only the file name matches
)

type ranked struct {
	candidate  index.Candidate
	rank       int
	suggestion string
	full       bool // every named segment of the directive matched
}

// Resolve checks directive d found in includer (slash-separated, relative to
// the scan root) against idx. It returns false when the directive is fine or
// refers to nothing in the tree.
func Resolve(includer string, d directive.Directive, idx *index.Index) (schema.Finding, bool) {
	normalized := Normalize(d.Value)
	segments := strings.Split(normalized, "/")
	base := segments[len(segments)-1]
	hasBackslash := strings.Contains(d.Value, `\`)

	finding := schema.Finding{
		File:  includer,
		Line:  d.Line,
		Value: d.Value,
		Delim: d.Delim,
	}

	var candidates []index.Candidate
	if base != "" {
		candidates = idx.Lookup(base)
	}
	if len(candidates) == 0 {
		// toolchain or third-party header outside the tree
		if !hasBackslash {
			return schema.Finding{}, false
		}
		finding.Kind = schema.KindBackslash
		finding.Suggestions = []schema.Suggestion{{Value: normalized}}
		return finding, true
	}

	rankedCandidates := rankCandidates(includer, normalized, segments, candidates)

	// A file-name-only respelling keeps the directive's directories as
	// written, so it cannot prove the path exists once some candidate
	// matches the whole path.
	anyFull := false
	for _, rc := range rankedCandidates {
		anyFull = anyFull || rc.full
	}

	var suggestions []schema.Suggestion
	seen := make(map[string]bool)
	for _, rc := range rankedCandidates {
		if anyFull && !rc.full && rc.suggestion == normalized {
			continue
		}
		if rc.suggestion == normalized {
			// an exact spelling exists; at most the separators need fixing
			if !hasBackslash {
				return schema.Finding{}, false
			}
			finding.Kind = schema.KindBackslash
			finding.Suggestions = []schema.Suggestion{{Value: normalized, Path: rc.candidate.Path}}
			return finding, true
		}
		if seen[rc.suggestion] {
			continue
		}
		seen[rc.suggestion] = true
		suggestions = append(suggestions, schema.Suggestion{Value: rc.suggestion, Path: rc.candidate.Path})
	}

	finding.Kind = schema.KindCase
	if len(suggestions) > 1 {
		finding.Kind = schema.KindAmbiguous
	}
	finding.Suggestions = suggestions
	return finding, true
}

func rankCandidates(includer, normalized string, segments []string, candidates []index.Candidate) []ranked {
	includerDir := path.Dir(includer)
	relative := index.Fold(path.Join(includerDir, normalized))

	out := make([]ranked, 0, len(candidates))
	for _, c := range candidates {
		suggestion, full := respell(segments, strings.Split(c.Path, "/"))

		rank := rankElsewhere
		switch {
		case index.Fold(c.Path) == relative:
			rank = rankRelative
		case full:
			rank = rankSuffix
		case path.Dir(c.Path) == includerDir:
			rank = rankSameDir
		}
		out = append(out, ranked{candidate: c, rank: rank, suggestion: suggestion, full: full})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].rank < out[j].rank })
	return out
}

// respell rewrites the directive's trailing segments with the candidate's
// on-disk spelling. When every named segment of the directive (everything
// after a leading run of ".", ".." or "") matches the candidate's tail, all of
// them are respelled and full is true; otherwise only the file name is.
func respell(segments, candidate []string) (suggestion string, full bool) {
	out := append([]string(nil), segments...)

	i, j := len(segments)-1, len(candidate)-1
	for i >= 0 && j >= 0 && isNamed(segments[i]) && index.Fold(segments[i]) == index.Fold(candidate[j]) {
		i--
		j--
	}
	full = i < 0 || !isNamed(segments[i])

	if full {
		for k := i + 1; k < len(segments); k++ {
			out[k] = candidate[j+1+k-(i+1)]
		}
	} else {
		out[len(out)-1] = candidate[len(candidate)-1]
	}
	return strings.Join(out, "/"), full
}

func isNamed(segment string) bool {
	return segment != "" && segment != "." && segment != ".."
}

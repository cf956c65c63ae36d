// Package index maps case-folded file names to every file on disk that
// carries that name.
package index

import (
	"sort"

	"golang.org/x/text/cases"
)

// Candidate is a file an include directive may refer to.
type Candidate struct {
	Name string `json:"name" yaml:"name" toml:"name"` // base name as spelled on disk
	Path string `json:"path" yaml:"path" toml:"path"` // slash-separated, relative to the scan root
}

// Collision is a set of files whose names differ only in case.
type Collision struct {
	Key   string      `json:"key" yaml:"key" toml:"key"`
	Files []Candidate `json:"files" yaml:"files" toml:"files"`
}

// Index is a case-insensitive file name index. It is not safe for
// concurrent mutation; build it first, then share it read-only.
type Index struct {
	byKey map[string][]Candidate
	size  int
}

func New() *Index {
	return &Index{byKey: make(map[string][]Candidate)}
}

// Fold returns the case-insensitive key for a file name.
func Fold(name string) string {
	return cases.Fold().String(name)
}

// Add records a candidate. Candidates under the same key keep insertion order.
func (idx *Index) Add(c Candidate) {
	key := Fold(c.Name)
	idx.byKey[key] = append(idx.byKey[key], c)
	idx.size++
}

// Lookup returns every file whose name equals name ignoring case.
func (idx *Index) Lookup(name string) []Candidate {
	return idx.byKey[Fold(name)]
}

// Len is the number of indexed files.
func (idx *Index) Len() int {
	return idx.size
}

// Collisions returns the keys with at least two distinct spellings,
// e.g. Foo.h and foo.h, sorted by key.
func (idx *Index) Collisions() []Collision {
	var out []Collision
	for key, candidates := range idx.byKey {
		spellings := make(map[string]bool)
		for _, c := range candidates {
			spellings[c.Name] = true
		}
		if len(spellings) < 2 {
			continue
		}
		files := append([]Candidate(nil), candidates...)
		sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
		out = append(out, Collision{Key: key, Files: files})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

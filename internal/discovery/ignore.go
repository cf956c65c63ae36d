package discovery

import (
	"strings"

	"github.com/railwayapp/includecase/internal/filesystems"
	"github.com/rs/zerolog"
	ignore "github.com/sabhiram/go-gitignore"
)

// ignoreSet holds the compiled .gitignore of every directory seen so far.
// Rules apply to paths relative to the directory that declared them.
type ignoreSet struct {
	filesystem filesystems.FileSystem
	logger     zerolog.Logger
	rules      []dirRules
}

type dirRules struct {
	dir     string // slash-separated, "" for the scan root
	matcher *ignore.GitIgnore
}

func newIgnoreSet(filesystem filesystems.FileSystem, logger zerolog.Logger) *ignoreSet {
	return &ignoreSet{filesystem: filesystem, logger: logger}
}

// load reads the .gitignore in the directory at fsPath, if any.
func (is *ignoreSet) load(fsPath, rel string) {
	content, err := is.filesystem.ReadFile(is.filesystem.Join(fsPath, ".gitignore"))
	if err != nil {
		return
	}

	var lines []string
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return
	}

	is.logger.Debug().Str("dir", rel).Int("rules", len(lines)).Msg("loaded .gitignore")
	is.rules = append(is.rules, dirRules{dir: rel, matcher: ignore.CompileIgnoreLines(lines...)})
}

func (is *ignoreSet) matches(rel string, isDir bool) bool {
	for _, r := range is.rules {
		if !isUnder(rel, r.dir) {
			continue
		}
		sub := rel
		if r.dir != "" {
			sub = strings.TrimPrefix(rel, r.dir+"/")
		}
		if r.matcher.MatchesPath(sub) {
			return true
		}
		if isDir && r.matcher.MatchesPath(sub+"/") {
			return true
		}
	}
	return false
}

package filesystems

import (
	"strings"
)

// FindFile looks for a file with the given name (case-insensitive) in dir.
// Returns the path spelled the way it is stored on disk, or "" when absent.
// An exact spelling wins over a case-folded one.
func FindFile(filesystem FileSystem, dir, filename string) (string, error) {
	folded := ""
	for entry, err := range filesystem.ReadDir(dir) {
		if err != nil {
			return "", err
		}
		if entry.IsDir() {
			continue
		}
		if entry.Name() == filename {
			return filesystem.Join(dir, entry.Name()), nil
		}
		if folded == "" && strings.EqualFold(entry.Name(), filename) {
			folded = entry.Name()
		}
	}

	if folded == "" {
		return "", nil
	}
	return filesystem.Join(dir, folded), nil
}

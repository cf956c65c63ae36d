package filesystems

import (
	"fmt"
	"io/fs"
	"iter"
	"path"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryFS implements FileSystem for in-memory filesystem operations.
// Paths are slash-separated and relative; "." is the root.
type MemoryFS struct {
	mu    sync.RWMutex
	files map[string][]byte
	dirs  map[string]bool
}

// NewMemoryFS creates a new MemoryFS instance
func NewMemoryFS() *MemoryFS {
	return &MemoryFS{
		files: make(map[string][]byte),
		dirs:  map[string]bool{".": true},
	}
}

// AddFile adds a file to the memory filesystem, creating parent directories.
func (mfs *MemoryFS) AddFile(name string, content []byte) {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()

	name = path.Clean(name)
	mfs.files[name] = content
	mfs.addParents(name)
}

// AddDir adds a directory to the memory filesystem
func (mfs *MemoryFS) AddDir(name string) {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()

	name = path.Clean(name)
	mfs.dirs[name] = true
	mfs.addParents(name)
}

func (mfs *MemoryFS) addParents(name string) {
	for dir := path.Dir(name); dir != "." && dir != "/"; dir = path.Dir(dir) {
		mfs.dirs[dir] = true
	}
}

func (mfs *MemoryFS) ReadFile(name string) ([]byte, error) {
	mfs.mu.RLock()
	defer mfs.mu.RUnlock()

	content, exists := mfs.files[path.Clean(name)]
	if !exists {
		return nil, fmt.Errorf("file not found: %s", name)
	}
	return content, nil
}

func (mfs *MemoryFS) WriteFile(name string, data []byte) error {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()

	cleanName := path.Clean(name)
	if _, exists := mfs.files[cleanName]; !exists {
		return fmt.Errorf("file not found: %s", name)
	}
	mfs.files[cleanName] = append([]byte(nil), data...)
	return nil
}

// children returns the sorted direct children of dir.
func (mfs *MemoryFS) children(dir string) []string {
	prefix := ""
	if dir != "." {
		prefix = dir + "/"
	}

	seen := make(map[string]bool)
	collect := func(p string) {
		if p == "." || !strings.HasPrefix(p, prefix) {
			return
		}
		child, _, _ := strings.Cut(strings.TrimPrefix(p, prefix), "/")
		if child != "" {
			seen[child] = true
		}
	}
	for p := range mfs.files {
		collect(p)
	}
	for p := range mfs.dirs {
		collect(p)
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (mfs *MemoryFS) ReadDir(name string) iter.Seq2[DirEntry, error] {
	return func(yield func(DirEntry, error) bool) {
		cleanName := path.Clean(name)

		mfs.mu.RLock()
		if !mfs.dirs[cleanName] {
			mfs.mu.RUnlock()
			yield(nil, fmt.Errorf("directory not found: %s", name))
			return
		}
		var entries []DirEntry
		for _, child := range mfs.children(cleanName) {
			fullPath := path.Join(cleanName, child)
			entries = append(entries, &memoryDirEntry{info: mfs.stat(fullPath)})
		}
		mfs.mu.RUnlock()

		for _, entry := range entries {
			if !yield(entry, nil) {
				return
			}
		}
	}
}

// stat must be called with mu held.
func (mfs *MemoryFS) stat(name string) *memoryFileInfo {
	if content, ok := mfs.files[name]; ok {
		return &memoryFileInfo{name: path.Base(name), size: int64(len(content)), mode: 0644}
	}
	if mfs.dirs[name] {
		return &memoryFileInfo{name: path.Base(name), mode: fs.ModeDir | 0755, isDir: true}
	}
	return nil
}

func (mfs *MemoryFS) Walk(root string, fn WalkFunc) error {
	var walk func(string) error
	walk = func(p string) error {
		mfs.mu.RLock()
		info := mfs.stat(p)
		var children []string
		if info != nil && info.isDir {
			children = mfs.children(p)
		}
		mfs.mu.RUnlock()

		if info == nil {
			return fn(p, nil, fmt.Errorf("path not found: %s", p))
		}
		if err := fn(p, info, nil); err != nil {
			if err == SkipDir && info.isDir {
				return nil
			}
			return err
		}
		for _, child := range children {
			if err := walk(path.Join(p, child)); err != nil {
				return err
			}
		}
		return nil
	}

	return walk(path.Clean(root))
}

func (mfs *MemoryFS) Join(elem ...string) string {
	return path.Join(elem...)
}

func (mfs *MemoryFS) Base(p string) string {
	return path.Base(p)
}

func (mfs *MemoryFS) Dir(p string) string {
	return path.Dir(p)
}

func (mfs *MemoryFS) Rel(basepath, targpath string) (string, error) {
	base := path.Clean(basepath)
	target := path.Clean(targpath)

	switch {
	case base == target:
		return ".", nil
	case base == ".":
		return target, nil
	case strings.HasPrefix(target, base+"/"):
		return strings.TrimPrefix(target, base+"/"), nil
	}
	return "", fmt.Errorf("%s is not under %s", targpath, basepath)
}

// memoryDirEntry implements DirEntry for memory filesystem
type memoryDirEntry struct {
	info *memoryFileInfo
}

func (e *memoryDirEntry) Name() string { return e.info.name }
func (e *memoryDirEntry) IsDir() bool  { return e.info.isDir }

func (e *memoryDirEntry) Type() fs.FileMode {
	return e.info.mode.Type()
}

func (e *memoryDirEntry) Info() (FileInfo, error) {
	return e.info, nil
}

// memoryFileInfo implements FileInfo for memory filesystem
type memoryFileInfo struct {
	name  string
	size  int64
	mode  fs.FileMode
	isDir bool
}

func (fi *memoryFileInfo) Name() string       { return fi.name }
func (fi *memoryFileInfo) Size() int64        { return fi.size }
func (fi *memoryFileInfo) Mode() fs.FileMode  { return fi.mode }
func (fi *memoryFileInfo) ModTime() time.Time { return time.Time{} }
func (fi *memoryFileInfo) IsDir() bool        { return fi.isDir }
func (fi *memoryFileInfo) Sys() any           { return nil }

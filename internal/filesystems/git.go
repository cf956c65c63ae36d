package filesystems

import (
	"context"
	"fmt"
	"iter"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/xyproto/files"
	"golang.org/x/sync/singleflight"
)

// GitFS implements FileSystem for git repositories (shallow clone in a temp dir).
// It is read-only: a fix run against a remote repository has nowhere to go.
type GitFS struct {
	repoURL   string
	ref       string
	localPath string
	localFS   *LocalFS
	clones    singleflight.Group
	cloned    bool
}

// NewGitFS creates a GitFS and clones the repository.
func NewGitFS(ctx context.Context, repoURL, ref string) (*GitFS, error) {
	tempDir, err := os.MkdirTemp("", "includecase-git-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}

	gfs := &GitFS{
		repoURL:   repoURL,
		ref:       ref,
		localPath: tempDir,
		localFS:   NewLocalFS(),
	}

	if err := gfs.ensureCloned(ctx); err != nil {
		os.RemoveAll(tempDir)
		return nil, err
	}

	return gfs, nil
}

func (gfs *GitFS) ensureCloned(ctx context.Context) error {
	_, err, _ := gfs.clones.Do(gfs.repoURL, func() (any, error) {
		if gfs.cloned {
			return nil, nil
		}
		if err := gfs.clone(ctx); err != nil {
			return nil, err
		}
		gfs.cloned = true
		return nil, nil
	})
	return err
}

func (gfs *GitFS) clone(ctx context.Context) error {
	git := files.WhichCached("git")
	if git == "" {
		return fmt.Errorf("failed to clone repository %s: git executable not found in PATH", gfs.repoURL)
	}

	args := []string{"clone", "--depth", "1"}
	if gfs.ref != "" {
		args = append(args, "--branch", gfs.ref)
	}
	args = append(args, gfs.repoURL, gfs.localPath)

	out, err := exec.CommandContext(ctx, git, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("failed to clone repository %s: %w: %s", gfs.repoURL, err, strings.TrimSpace(string(out)))
	}
	return nil
}

// Cleanup removes the temporary clone.
func (gfs *GitFS) Cleanup() error {
	if gfs.localPath != "" {
		return os.RemoveAll(gfs.localPath)
	}
	return nil
}

func (gfs *GitFS) resolve(name string) string {
	return gfs.localFS.Join(gfs.localPath, name)
}

func (gfs *GitFS) ReadFile(name string) ([]byte, error) {
	return gfs.localFS.ReadFile(gfs.resolve(name))
}

func (gfs *GitFS) WriteFile(name string, data []byte) error {
	return fmt.Errorf("%s: %w", gfs.repoURL, ErrReadOnly)
}

func (gfs *GitFS) ReadDir(name string) iter.Seq2[DirEntry, error] {
	return gfs.localFS.ReadDir(gfs.resolve(name))
}

// Walk reports paths relative to the clone root.
func (gfs *GitFS) Walk(root string, fn WalkFunc) error {
	return gfs.localFS.Walk(gfs.resolve(root), func(path string, info FileInfo, err error) error {
		relPath, relErr := filepath.Rel(gfs.localPath, path)
		if relErr != nil {
			return fn(path, info, err)
		}
		return fn(relPath, info, err)
	})
}

func (gfs *GitFS) Join(elem ...string) string {
	return gfs.localFS.Join(elem...)
}

func (gfs *GitFS) Base(path string) string {
	return gfs.localFS.Base(path)
}

func (gfs *GitFS) Dir(path string) string {
	return gfs.localFS.Dir(path)
}

func (gfs *GitFS) Rel(basepath, targpath string) (string, error) {
	return gfs.localFS.Rel(basepath, targpath)
}

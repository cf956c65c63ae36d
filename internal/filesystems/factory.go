package filesystems

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// NewFileSystem creates a filesystem implementation based on the given URI
// Supports:
// - plain paths and file:///path/to/local/dir
// - git://github.com/owner/repo[#ref] (or git://owner/repo for GitHub)
// - github://owner/repo[/tree/ref]
func NewFileSystem(ctx context.Context, uri string) (FileSystem, error) {
	if !strings.Contains(uri, "://") {
		if _, err := filepath.Abs(uri); err != nil {
			return nil, fmt.Errorf("failed to get absolute path for %s: %w", uri, err)
		}
		return NewLocalFS(), nil
	}

	parsedURL, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("invalid URI %s: %w", uri, err)
	}

	switch parsedURL.Scheme {
	case "file":
		return NewLocalFS(), nil

	case "github":
		repoURL, ref, err := parseGitHubURL(parsedURL)
		if err != nil {
			return nil, err
		}
		return NewGitFS(ctx, repoURL, ref)

	case "git":
		repoURL, ref, err := parseGitURL(parsedURL)
		if err != nil {
			return nil, err
		}
		return NewGitFS(ctx, repoURL, ref)

	default:
		return nil, fmt.Errorf("unsupported scheme: %s", parsedURL.Scheme)
	}
}

// parseGitHubURL parses github://owner/repo[/tree/ref] URLs
func parseGitHubURL(u *url.URL) (string, string, error) {
	owner := u.Host
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")

	if owner == "" || len(parts) < 1 || parts[0] == "" {
		return "", "", fmt.Errorf("invalid GitHub URL format, expected: github://owner/repo[/tree/branch]")
	}

	ref := ""
	if len(parts) >= 3 && parts[1] == "tree" {
		ref = parts[2]
	}

	return fmt.Sprintf("https://github.com/%s/%s", owner, parts[0]), ref, nil
}

// parseGitURL parses git://owner/repo or git://host/owner/repo URLs
func parseGitURL(u *url.URL) (string, string, error) {
	path := strings.Trim(u.Path, "/")

	var repoURL string
	switch {
	case u.Host == "":
		parts := strings.Split(path, "/")
		if len(parts) < 2 {
			return "", "", fmt.Errorf("invalid git URL format, expected: git://owner/repo or git://github.com/owner/repo")
		}
		repoURL = fmt.Sprintf("https://github.com/%s/%s", parts[0], parts[1])
	case !strings.Contains(u.Host, ".") && strings.Count(path, "/") == 0:
		// git://owner/repo shorthand
		repoURL = fmt.Sprintf("https://github.com/%s/%s", u.Host, path)
	default:
		repoURL = fmt.Sprintf("https://%s/%s", u.Host, path)
	}

	return repoURL, u.Fragment, nil
}

// GetBasePath returns the walk root for the given URI
func GetBasePath(uri string) string {
	if !strings.Contains(uri, "://") {
		return uri
	}

	parsedURL, err := url.Parse(uri)
	if err != nil {
		return uri
	}

	switch parsedURL.Scheme {
	case "file":
		return parsedURL.Path
	case "github":
		parts := strings.Split(strings.Trim(parsedURL.Path, "/"), "/")
		if len(parts) > 3 && parts[1] == "tree" {
			return strings.Join(parts[3:], "/")
		}
		return "."
	case "git":
		return "."
	default:
		return uri
	}
}

// IsRemote reports whether uri refers to a cloned repository.
func IsRemote(uri string) bool {
	return strings.HasPrefix(uri, "git://") || strings.HasPrefix(uri, "github://")
}

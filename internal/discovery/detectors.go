package discovery

import (
	"path"
	"strings"

	"github.com/railwayapp/includecase/internal/filesystems"
)

// DefaultExtensions are the file types scanned and indexed by default.
var DefaultExtensions = []string{".h", ".hpp", ".c", ".cpp"}

// ExtensionDetector accepts files by extension, ignoring case.
type ExtensionDetector struct {
	exts map[string]bool
}

func NewExtensionDetector(exts ...string) *ExtensionDetector {
	d := &ExtensionDetector{exts: make(map[string]bool)}
	for _, ext := range exts {
		ext = strings.TrimSpace(ext)
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		d.exts[strings.ToLower(ext)] = true
	}
	return d
}

func (d *ExtensionDetector) Name() string { return "extension" }

func (d *ExtensionDetector) Detect(rel string, info filesystems.FileInfo) bool {
	return d.exts[strings.ToLower(path.Ext(rel))]
}

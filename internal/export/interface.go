package export

import (
	"fmt"
	"sort"

	"github.com/railwayapp/includecase/internal/schema"
)

// Exporter renders a report in some output format
type Exporter interface {
	// Export converts a report to the target format
	Export(report *schema.Report) ([]byte, error)

	// Name returns the exporter name (e.g., "text", "json", "yaml")
	Name() string
}

var exporters = map[string]func(color bool) Exporter{
	"text": func(color bool) Exporter { return NewTextExporter(color) },
	"json": func(bool) Exporter { return NewJSONExporter() },
	"yaml": func(bool) Exporter { return NewYAMLExporter() },
	"toml": func(bool) Exporter { return NewTOMLExporter() },
}

// NewExporter looks up an exporter by name. color only affects "text".
func NewExporter(name string, color bool) (Exporter, error) {
	factory, ok := exporters[name]
	if !ok {
		return nil, fmt.Errorf("unknown output format %q (available: %v)", name, Formats())
	}
	return factory(color), nil
}

// Formats lists the registered format names.
func Formats() []string {
	names := make([]string, 0, len(exporters))
	for name := range exporters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

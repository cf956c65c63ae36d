package export

import (
	"github.com/railwayapp/includecase/internal/schema"
	"gopkg.in/yaml.v3"
)

type YAMLExporter struct{}

func (e *YAMLExporter) Name() string {
	return "yaml"
}

func (e *YAMLExporter) Export(report *schema.Report) ([]byte, error) {
	return yaml.Marshal(report)
}

func NewYAMLExporter() Exporter {
	return &YAMLExporter{}
}

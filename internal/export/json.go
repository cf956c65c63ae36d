package export

import (
	"encoding/json"

	"github.com/railwayapp/includecase/internal/schema"
)

type JSONExporter struct{}

func (e *JSONExporter) Name() string {
	return "json"
}

func (e *JSONExporter) Export(report *schema.Report) ([]byte, error) {
	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}

func NewJSONExporter() Exporter {
	return &JSONExporter{}
}

package export

import (
	"bytes"

	"github.com/BurntSushi/toml"
	"github.com/railwayapp/includecase/internal/schema"
)

type TOMLExporter struct{}

func (e *TOMLExporter) Name() string {
	return "toml"
}

func (e *TOMLExporter) Export(report *schema.Report) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(report); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func NewTOMLExporter() Exporter {
	return &TOMLExporter{}
}

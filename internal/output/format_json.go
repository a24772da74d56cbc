package output

import (
	"io"

	json "github.com/goccy/go-json"

	"github.com/wealthproj/projection-engine/internal/domain"
)

// GenerateJSONReport writes the result as indented JSON for downstream
// tooling and the HTTP surface.
func (rg *ReportGenerator) GenerateJSONReport(w io.Writer, result *domain.ProjectionResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// MarshalResult serializes a result compactly.
func MarshalResult(result *domain.ProjectionResult) ([]byte, error) {
	return json.Marshal(result)
}

package codec

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"logicsim/internal/domain"
)

// YAMLCodec handles YAML import/export
type YAMLCodec struct{}

// NewYAMLCodec creates a new YAML codec
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Format returns the codec format identifier
func (c *YAMLCodec) Format() string {
	return "yaml"
}

// ContentType returns the MIME type of exported documents
func (c *YAMLCodec) ContentType() string {
	return "application/x-yaml"
}

// FileName returns the default download name
func (c *YAMLCodec) FileName() string {
	return "scheme.yaml"
}

// Parse imports a circuit from YAML
func (c *YAMLCodec) Parse(r io.Reader) (*domain.Graph, error) {
	var doc document
	decoder := yaml.NewDecoder(r)
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: failed to parse YAML: %v", ErrInvalidDocument, err)
	}

	return doc.toGraph()
}

// Export exports a circuit to YAML
func (c *YAMLCodec) Export(g *domain.Graph, w io.Writer) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()

	if err := encoder.Encode(fromGraph(g)); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	return nil
}

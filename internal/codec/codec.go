// Package codec converts circuits to and from their exchange formats.
//
// JSON is the canonical save format:
//
//	{
//	  "nodes": [{"id": 1, "type": "INPUT", "x": 0, "y": 0,
//	             "state": true, "label": "A", "inputs": []}],
//	  "connections": [{"from": 1, "to": 2}]
//	}
//
// YAML carries the same shape. Decoding validates the document shape and the
// graph invariants; any failure is reported as ErrInvalidDocument and no
// partial graph is returned.
package codec

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"logicsim/internal/domain"
)

// ErrInvalidDocument marks a load that failed to parse or had the wrong shape
var ErrInvalidDocument = errors.New("invalid scheme document")

// Importer interface for importing circuits from various formats
type Importer interface {
	Parse(r io.Reader) (*domain.Graph, error)
	Format() string
}

// Exporter interface for exporting circuits to various formats
type Exporter interface {
	Export(g *domain.Graph, w io.Writer) error
	Format() string
}

// Codec both imports and exports a format
type Codec interface {
	Importer
	Exporter
	ContentType() string
	FileName() string
}

// Lookup returns the codec registered for format ("json" when empty)
func Lookup(format string) (Codec, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "json":
		return NewJSONCodec(), nil
	case "yaml", "yml":
		return NewYAMLCodec(), nil
	}
	return nil, fmt.Errorf("unsupported format %q", format)
}

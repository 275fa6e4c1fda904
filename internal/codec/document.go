package codec

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"logicsim/internal/domain"
)

// document is the exchange shape shared by every format
type document struct {
	Nodes       []nodeDoc       `json:"nodes" yaml:"nodes" validate:"required,dive"`
	Connections []connectionDoc `json:"connections" yaml:"connections" validate:"required,dive"`
}

type nodeDoc struct {
	ID     int     `json:"id" yaml:"id"`
	Type   string  `json:"type" yaml:"type" validate:"required,oneof=INPUT AND OR NOT OUTPUT"`
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	State  bool    `json:"state" yaml:"state"`
	Label  string  `json:"label" yaml:"label"`
	Inputs []int   `json:"inputs" yaml:"inputs"`
}

type connectionDoc struct {
	From int `json:"from" yaml:"from"`
	To   int `json:"to" yaml:"to"`
}

var (
	docValidator     *validator.Validate
	docValidatorOnce sync.Once
)

// getValidator returns the shared validator, reporting fields by their json names
func getValidator() *validator.Validate {
	docValidatorOnce.Do(func() {
		docValidator = validator.New()
		docValidator.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return docValidator
}

func fromGraph(g *domain.Graph) document {
	doc := document{
		Nodes:       make([]nodeDoc, 0, len(g.Nodes)),
		Connections: make([]connectionDoc, 0, len(g.Connections)),
	}
	for _, n := range g.Nodes {
		inputs := make([]int, 0, len(n.Inputs))
		for _, src := range n.Inputs {
			inputs = append(inputs, int(src))
		}
		doc.Nodes = append(doc.Nodes, nodeDoc{
			ID:     int(n.ID),
			Type:   string(n.Type),
			X:      n.X,
			Y:      n.Y,
			State:  n.State,
			Label:  n.Label,
			Inputs: inputs,
		})
	}
	for _, c := range g.Connections {
		doc.Connections = append(doc.Connections, connectionDoc{From: int(c.From), To: int(c.To)})
	}
	return doc
}

// toGraph validates the document and converts it into a graph
func (d *document) toGraph() (*domain.Graph, error) {
	if err := getValidator().Struct(d); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidDocument, describe(verrs))
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	g := &domain.Graph{
		Nodes:       make([]domain.Node, 0, len(d.Nodes)),
		Connections: make([]domain.Connection, 0, len(d.Connections)),
	}
	for _, nd := range d.Nodes {
		inputs := make([]domain.NodeID, 0, len(nd.Inputs))
		for _, src := range nd.Inputs {
			inputs = append(inputs, domain.NodeID(src))
		}
		g.Nodes = append(g.Nodes, domain.Node{
			ID:       domain.NodeID(nd.ID),
			Type:     domain.NodeType(nd.Type),
			Position: domain.NewPosition(nd.X, nd.Y),
			State:    nd.State,
			Label:    nd.Label,
			Inputs:   inputs,
		})
	}
	for _, cd := range d.Connections {
		g.Connections = append(g.Connections, domain.NewConnection(domain.NodeID(cd.From), domain.NodeID(cd.To)))
	}

	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return g, nil
}

func describe(verrs validator.ValidationErrors) string {
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s failed %s=%s", fe.Namespace(), fe.Tag(), fe.Param()))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}

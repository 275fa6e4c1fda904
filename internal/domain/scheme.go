package domain

import "time"

// Scheme is a circuit saved under a name in the scheme repository
type Scheme struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Format          string    `json:"format"`
	Document        []byte    `json:"-"`
	NodeCount       int       `json:"node_count"`
	ConnectionCount int       `json:"connection_count"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NewScheme creates a scheme record for an encoded document
func NewScheme(id, name, format string, document []byte, g *Graph) *Scheme {
	now := time.Now().UTC()
	return &Scheme{
		ID:              id,
		Name:            name,
		Format:          format,
		Document:        document,
		NodeCount:       len(g.Nodes),
		ConnectionCount: len(g.Connections),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

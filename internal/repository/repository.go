package repository

import (
	"context"
	"errors"

	"logicsim/internal/domain"
)

// ErrSchemeNotFound is returned when no scheme has the requested name
var ErrSchemeNotFound = errors.New("scheme not found")

// Repository defines the interface for saved scheme access
type Repository interface {
	// Read operations
	GetScheme(ctx context.Context, name string) (*domain.Scheme, error)
	ListSchemes(ctx context.Context) ([]domain.Scheme, error)

	// Write operations
	SaveScheme(ctx context.Context, scheme *domain.Scheme) error
	DeleteScheme(ctx context.Context, name string) error

	// Close releases resources
	Close() error
}

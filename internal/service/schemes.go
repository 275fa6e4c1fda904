package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"logicsim/internal/codec"
	"logicsim/internal/domain"
	"logicsim/internal/repository"
)

// ErrInvalidSchemeName is returned for blank scheme names
var ErrInvalidSchemeName = errors.New("scheme name must not be empty")

// SchemeService stores named circuits and loads them into an Editor
type SchemeService struct {
	repo   repository.Repository
	editor *Editor
	codec  codec.Codec
	logger *zap.Logger
}

// NewSchemeService creates a new scheme service. Schemes are stored in the
// canonical JSON format.
func NewSchemeService(repo repository.Repository, editor *Editor, logger *zap.Logger) *SchemeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SchemeService{
		repo:   repo,
		editor: editor,
		codec:  codec.NewJSONCodec(),
		logger: logger,
	}
}

// Save stores the editor's current graph under name, replacing any scheme
// already saved with that name
func (s *SchemeService) Save(ctx context.Context, name string) (*domain.Scheme, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidSchemeName
	}

	g := s.editor.Graph()
	var buf bytes.Buffer
	if err := s.codec.Export(g, &buf); err != nil {
		return nil, fmt.Errorf("failed to encode scheme %s: %w", name, err)
	}

	scheme := domain.NewScheme(uuid.NewString(), name, s.codec.Format(), buf.Bytes(), g)
	if err := s.repo.SaveScheme(ctx, scheme); err != nil {
		return nil, err
	}

	stored, err := s.repo.GetScheme(ctx, name)
	if err != nil {
		return nil, err
	}

	s.logger.Info("scheme saved",
		zap.String("name", name),
		zap.Int("nodes", stored.NodeCount),
		zap.Int("connections", stored.ConnectionCount),
	)
	return stored, nil
}

// Load replaces the editor's graph with the named scheme as a committed load
func (s *SchemeService) Load(ctx context.Context, name string) (*domain.Scheme, error) {
	scheme, err := s.repo.GetScheme(ctx, name)
	if err != nil {
		return nil, err
	}

	importer, err := codec.Lookup(scheme.Format)
	if err != nil {
		return nil, fmt.Errorf("scheme %s: %w", name, err)
	}
	if err := s.editor.Load(bytes.NewReader(scheme.Document), importer); err != nil {
		return nil, fmt.Errorf("scheme %s: %w", name, err)
	}

	s.logger.Info("scheme loaded", zap.String("name", name))
	return scheme, nil
}

// List returns the saved schemes without their documents
func (s *SchemeService) List(ctx context.Context) ([]domain.Scheme, error) {
	return s.repo.ListSchemes(ctx)
}

// Delete removes a saved scheme
func (s *SchemeService) Delete(ctx context.Context, name string) error {
	if err := s.repo.DeleteScheme(ctx, name); err != nil {
		return err
	}
	s.logger.Info("scheme deleted", zap.String("name", name))
	return nil
}

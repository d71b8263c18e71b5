package services

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/custodia-labs/ocrtables/internal/core/domain"
	"github.com/custodia-labs/ocrtables/internal/core/ports/driven"
	"github.com/custodia-labs/ocrtables/internal/core/ports/driving"
	"github.com/custodia-labs/ocrtables/internal/logger"
)

// Ensure MetadataService implements the interface.
var _ driving.MetadataService = (*MetadataService)(nil)

// MetadataService reads document properties and grades forensic risk.
type MetadataService struct {
	inspectors []driven.MetadataInspector
}

// NewMetadataService creates a metadata service over the given inspectors.
func NewMetadataService(inspectors ...driven.MetadataInspector) *MetadataService {
	return &MetadataService{inspectors: inspectors}
}

// Inspect reads metadata for the document at path and assesses its risk.
// Returns domain.ErrUnsupportedType when no inspector handles the format.
func (s *MetadataService) Inspect(ctx context.Context, path string) (*domain.DocumentMetadata, error) {
	format := domain.FormatFromPath(path)

	for _, inspector := range s.inspectors {
		if !inspector.Supports(format) {
			continue
		}

		metadata, err := inspector.Inspect(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("inspect %s: %w", filepath.Base(path), err)
		}

		metadata.Assess()
		logger.Debug("%s: risk %s, %d revisions", filepath.Base(path), metadata.Risk.Level, metadata.Revisions())
		return metadata, nil
	}

	return nil, fmt.Errorf("%w: no metadata inspector for %q", domain.ErrUnsupportedType, filepath.Ext(path))
}

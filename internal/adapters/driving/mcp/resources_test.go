package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ocrtables/internal/core/domain"
)

func TestExtractExtractionID(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected string
	}{
		{
			name:     "valid extraction URI",
			uri:      "ocrtables://extractions/ext-123",
			expected: "ext-123",
		},
		{
			name:     "invalid prefix",
			uri:      "file://extractions/ext-123",
			expected: "",
		},
		{
			name:     "nested path",
			uri:      "ocrtables://extractions/ext-123/files",
			expected: "",
		},
		{
			name:     "empty URI",
			uri:      "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := extractExtractionID(tt.uri)
			assert.Equal(t, tt.expected, result)
		})
	}
}

// Helper to create a ReadResourceRequest with the given URI.
func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestServer_handleExtractionsResource(t *testing.T) {
	ctx := context.Background()

	t.Run("nil extraction service returns empty list", func(t *testing.T) {
		server, err := NewServer(&Ports{Tables: &mockTableService{}})
		require.NoError(t, err)

		req := makeReadResourceRequest("ocrtables://extractions")
		result, err := server.handleExtractionsResource(ctx, req)

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "[]", result.Contents[0].Text)
	})

	t.Run("returns extractions successfully", func(t *testing.T) {
		extraction := &mockExtractionService{extractions: []domain.Extraction{*sampleExtraction()}}
		server, err := NewServer(&Ports{Tables: &mockTableService{}, Extraction: extraction})
		require.NoError(t, err)

		req := makeReadResourceRequest("ocrtables://extractions")
		result, err := server.handleExtractionsResource(ctx, req)

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)

		var infos []ExtractionOutput
		require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &infos))
		require.Len(t, infos, 1)
		assert.Equal(t, "ext-1", infos[0].ID)
		assert.Equal(t, "/out/statement", infos[0].OutputDir)
	})

	t.Run("returns error on list failure", func(t *testing.T) {
		extraction := &mockExtractionService{err: errors.New("db error")}
		server, err := NewServer(&Ports{Tables: &mockTableService{}, Extraction: extraction})
		require.NoError(t, err)

		_, err = server.handleExtractionsResource(ctx, makeReadResourceRequest("ocrtables://extractions"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "listing extractions")
	})
}

func TestServer_handleExtractionResource(t *testing.T) {
	ctx := context.Background()

	t.Run("returns extraction with metadata", func(t *testing.T) {
		extraction := &mockExtractionService{extraction: sampleExtraction()}
		server, err := NewServer(&Ports{Tables: &mockTableService{}, Extraction: extraction})
		require.NoError(t, err)

		req := makeReadResourceRequest("ocrtables://extractions/ext-1")
		result, err := server.handleExtractionResource(ctx, req)

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Contains(t, result.Contents[0].Text, `"id": "ext-1"`)
		assert.Contains(t, result.Contents[0].Text, `"metadata"`)
	})

	t.Run("unknown extraction is not found", func(t *testing.T) {
		extraction := &mockExtractionService{extraction: sampleExtraction()}
		server, err := NewServer(&Ports{Tables: &mockTableService{}, Extraction: extraction})
		require.NoError(t, err)

		_, err = server.handleExtractionResource(ctx, makeReadResourceRequest("ocrtables://extractions/other"))

		assert.Error(t, err)
	})

	t.Run("nil extraction service is not found", func(t *testing.T) {
		server, err := NewServer(&Ports{Tables: &mockTableService{}})
		require.NoError(t, err)

		_, err = server.handleExtractionResource(ctx, makeReadResourceRequest("ocrtables://extractions/ext-1"))

		assert.Error(t, err)
	})

	t.Run("malformed URI is not found", func(t *testing.T) {
		server, err := NewServer(&Ports{Tables: &mockTableService{}, Extraction: &mockExtractionService{}})
		require.NoError(t, err)

		_, err = server.handleExtractionResource(ctx, makeReadResourceRequest("ocrtables://other"))

		assert.Error(t, err)
	})
}

package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want InputFormat
	}{
		{"receipt.pdf", FormatPDF},
		{"/tmp/RECEIPT.PDF", FormatPDF},
		{"page.md", FormatMarkdown},
		{"page.markdown", FormatMarkdown},
		{"ocr.txt", FormatMarkdown},
		{"sheet.xlsx", FormatUnknown},
		{"noext", FormatUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatFromPath(tt.path))
		})
	}
}

func TestInputFormat_IsValid(t *testing.T) {
	assert.True(t, FormatPDF.IsValid())
	assert.True(t, FormatMarkdown.IsValid())
	assert.False(t, FormatUnknown.IsValid())
	assert.False(t, InputFormat("docx").IsValid())
}

func TestInputFormat_MIMEType(t *testing.T) {
	assert.Equal(t, "application/pdf", FormatPDF.MIMEType())
	assert.Equal(t, "text/markdown", FormatMarkdown.MIMEType())
	assert.Equal(t, "application/octet-stream", FormatUnknown.MIMEType())
}

func TestSourceDocument_Stem(t *testing.T) {
	doc := SourceDocument{Name: "Receipt-2606-4672.pdf"}
	assert.Equal(t, "Receipt-2606-4672", doc.Stem())

	doc = SourceDocument{Name: "plain"}
	assert.Equal(t, "plain", doc.Stem())
}

// Package pdfmeta reads PDF document properties for forensic review.
//
// It collects the information dictionary, encryption state, page count,
// incremental update markers and traces of editing software left in XMP
// metadata. The risk assessment itself lives on domain.DocumentMetadata.
package pdfmeta

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/ocrtables/internal/core/domain"
	"github.com/custodia-labs/ocrtables/internal/core/ports/driven"
	"github.com/custodia-labs/ocrtables/internal/logger"
)

// Ensure Inspector implements the interface.
var _ driven.MetadataInspector = (*Inspector)(nil)

var eofMarker = []byte("%%EOF")

// Inspector reads metadata from PDF files.
type Inspector struct{}

// New creates a PDF metadata inspector.
func New() *Inspector {
	return &Inspector{}
}

// Supports reports whether the inspector understands the given format.
func (i *Inspector) Supports(format domain.InputFormat) bool {
	return format == domain.FormatPDF
}

// Inspect reads the PDF at path.
func (i *Inspector) Inspect(ctx context.Context, path string) (*domain.DocumentMetadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pdf: %w", err)
	}
	return Read(content)
}

// Read extracts metadata from raw PDF bytes.
// Documents that cannot be decrypted still report encryption and revisions.
func Read(content []byte) (metadata *domain.DocumentMetadata, err error) {
	// The parser panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			metadata, err = nil, fmt.Errorf("parse pdf: %v", r)
		}
	}()

	metadata = &domain.DocumentMetadata{
		EOFMarkers: bytes.Count(content, eofMarker),
	}

	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		if bytes.Contains(content, []byte("/Encrypt")) {
			logger.Debug("pdf: encrypted document could not be opened: %v", err)
			metadata.Security.Encrypted = true
			return metadata, nil
		}
		return nil, fmt.Errorf("parse pdf: %w", err)
	}

	trailer := reader.Trailer()
	metadata.Info = readInfo(trailer.Key("Info"))
	metadata.PageCount = reader.NumPage()

	if encrypt := trailer.Key("Encrypt"); !encrypt.IsNull() {
		metadata.Security = domain.SecurityInfo{
			Encrypted:        true,
			EncryptionFilter: encrypt.Key("Filter").Name(),
		}
	}

	xmp, err := readXMP(trailer.Key("Root").Key("Metadata"))
	if err != nil {
		logger.Warn("pdf: read XMP metadata: %v", err)
	}
	if xmp != nil {
		metadata.HasXMP = true
		metadata.EditingSoftware = EditingSoftware(xmp)
		metadata.XMPModifyDates = len(modifyDatePattern.FindAllIndex(xmp, -1))
	}

	return metadata, nil
}

// readInfo maps the information dictionary onto domain fields.
func readInfo(dict pdf.Value) domain.DocumentInfo {
	var info domain.DocumentInfo
	if dict.Kind() != pdf.Dict {
		return info
	}

	for _, key := range dict.Keys() {
		value := text(dict.Key(key))
		switch key {
		case "Title":
			info.Title = value
		case "Author":
			info.Author = value
		case "Subject":
			info.Subject = value
		case "Keywords":
			info.Keywords = value
		case "Creator":
			info.Creator = value
		case "Producer":
			info.Producer = value
		case "CreationDate":
			info.CreationDate = value
			if t, ok := ParseDate(value); ok {
				info.Created = &t
			}
		case "ModDate":
			info.ModDate = value
			if t, ok := ParseDate(value); ok {
				info.Modified = &t
			}
		default:
			if info.Extra == nil {
				info.Extra = make(map[string]string)
			}
			info.Extra[key] = value
		}
	}
	return info
}

// readXMP returns the raw XMP packet, or nil when the document has none.
func readXMP(stream pdf.Value) ([]byte, error) {
	if stream.Kind() != pdf.Stream {
		return nil, nil
	}

	rc := stream.Reader()
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, err
	}
	return data, nil
}

func text(v pdf.Value) string {
	switch v.Kind() {
	case pdf.String:
		return v.Text()
	case pdf.Name:
		return v.Name()
	default:
		return v.String()
	}
}

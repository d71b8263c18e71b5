package api

import (
	"time"

	"github.com/custodia-labs/ocrtables/internal/core/domain"
)

// ExtractionResponse is the JSON form of an extraction.
type ExtractionResponse struct {
	ID           string            `json:"id"`
	DocumentName string            `json:"document_name"`
	Format       string            `json:"format"`
	Status       string            `json:"status"`
	Error        string            `json:"error,omitempty"`
	PageCount    int               `json:"page_count"`
	TotalTables  int               `json:"total_tables"`
	Tables       []TableResponse   `json:"tables"`
	FullTextPath string            `json:"full_text_path,omitempty"`
	Metadata     *MetadataResponse `json:"metadata,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	CompletedAt  *time.Time        `json:"completed_at,omitempty"`
}

// TableResponse describes one written table.
type TableResponse struct {
	TableID  int               `json:"table_id"`
	Page     int               `json:"page"`
	Title    string            `json:"title,omitempty"`
	Header   []string          `json:"header"`
	RowCount int               `json:"row_count"`
	Files    map[string]string `json:"files"`
	Preview  [][]string        `json:"preview"`
}

// MetadataResponse is the forensic metadata report.
type MetadataResponse struct {
	DocumentInfo       DocumentInfoResponse `json:"document_info"`
	SecurityInfo       SecurityInfoResponse `json:"security_info"`
	PageCount          int                  `json:"page_count"`
	Revisions          int                  `json:"revisions"`
	HasXMP             bool                 `json:"has_xmp"`
	EditingSoftware    []string             `json:"editing_software,omitempty"`
	ForensicIndicators []string             `json:"forensic_indicators"`
	RiskAssessment     RiskResponse         `json:"risk_assessment"`
}

// DocumentInfoResponse holds the information dictionary.
type DocumentInfoResponse struct {
	Title            string            `json:"title,omitempty"`
	Author           string            `json:"author,omitempty"`
	Subject          string            `json:"subject,omitempty"`
	Keywords         string            `json:"keywords,omitempty"`
	Creator          string            `json:"creator,omitempty"`
	Producer         string            `json:"producer,omitempty"`
	CreationDate     string            `json:"creation_date,omitempty"`
	ModificationDate string            `json:"modification_date,omitempty"`
	Extra            map[string]string `json:"extra,omitempty"`
}

// SecurityInfoResponse describes encryption.
type SecurityInfoResponse struct {
	IsEncrypted      bool   `json:"is_encrypted"`
	EncryptionMethod string `json:"encryption_method,omitempty"`
}

// RiskResponse is the overall risk assessment.
type RiskResponse struct {
	RiskLevel      string   `json:"risk_level"`
	RiskIndicators []string `json:"risk_indicators"`
	Recommendation string   `json:"recommendation"`
}

// ErrorResponse is returned for every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

func toExtractionResponse(e *domain.Extraction) ExtractionResponse {
	resp := ExtractionResponse{
		ID:           e.ID,
		DocumentName: e.DocumentName,
		Format:       string(e.Format),
		Status:       string(e.Status),
		Error:        e.Error,
		PageCount:    e.PageCount,
		TotalTables:  len(e.Tables),
		Tables:       make([]TableResponse, len(e.Tables)),
		FullTextPath: e.TextPath,
		CreatedAt:    e.CreatedAt,
	}
	if !e.CompletedAt.IsZero() {
		completed := e.CompletedAt
		resp.CompletedAt = &completed
	}
	for i, t := range e.Tables {
		resp.Tables[i] = TableResponse{
			TableID:  t.Index,
			Page:     t.Page,
			Title:    t.Title,
			Header:   t.Header,
			RowCount: t.RowCount,
			Files:    t.Files,
			Preview:  t.Preview,
		}
	}
	if e.Metadata != nil {
		m := toMetadataResponse(e.Metadata)
		resp.Metadata = &m
	}
	return resp
}

func toMetadataResponse(m *domain.DocumentMetadata) MetadataResponse {
	return MetadataResponse{
		DocumentInfo: DocumentInfoResponse{
			Title:            m.Info.Title,
			Author:           m.Info.Author,
			Subject:          m.Info.Subject,
			Keywords:         m.Info.Keywords,
			Creator:          m.Info.Creator,
			Producer:         m.Info.Producer,
			CreationDate:     m.Info.CreationDate,
			ModificationDate: m.Info.ModDate,
			Extra:            m.Info.Extra,
		},
		SecurityInfo: SecurityInfoResponse{
			IsEncrypted:      m.Security.Encrypted,
			EncryptionMethod: m.Security.EncryptionFilter,
		},
		PageCount:          m.PageCount,
		Revisions:          m.Revisions(),
		HasXMP:             m.HasXMP,
		EditingSoftware:    m.EditingSoftware,
		ForensicIndicators: nonNil(m.ForensicIndicators),
		RiskAssessment: RiskResponse{
			RiskLevel:      string(m.Risk.Level),
			RiskIndicators: nonNil(m.Risk.Indicators),
			Recommendation: m.Risk.Recommendation,
		},
	}
}

// nonNil keeps empty lists as [] rather than null in JSON.
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

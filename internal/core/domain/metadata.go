package domain

import (
	"fmt"
	"time"
)

// RiskLevel grades how likely a document has been altered.
type RiskLevel string

// Risk levels.
const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// DocumentInfo holds the standard document information dictionary fields.
type DocumentInfo struct {
	Title    string
	Author   string
	Subject  string
	Keywords string
	Creator  string
	Producer string

	// CreationDate and ModDate keep the raw dictionary values.
	CreationDate string
	ModDate      string

	// Created and Modified are parsed from the raw dates when possible.
	Created  *time.Time
	Modified *time.Time

	// Extra holds any non-standard dictionary keys.
	Extra map[string]string
}

// SecurityInfo describes document encryption.
type SecurityInfo struct {
	Encrypted        bool
	EncryptionFilter string
}

// RiskAssessment summarises forensic findings.
type RiskAssessment struct {
	Level          RiskLevel
	Indicators     []string
	Recommendation string
}

// DocumentMetadata is the document-level report produced by a metadata inspector.
// It is independent of the table core.
type DocumentMetadata struct {
	Info     DocumentInfo
	Security SecurityInfo

	// PageCount is the number of pages in the document.
	PageCount int

	// EOFMarkers counts "%%EOF" markers; each beyond the first is an incremental update.
	EOFMarkers int

	// HasXMP reports whether an XMP metadata stream is present.
	HasXMP bool

	// EditingSoftware lists tools whose traces were found in XMP metadata.
	EditingSoftware []string

	// XMPModifyDates counts modification date references in XMP metadata.
	XMPModifyDates int

	// ForensicIndicators are neutral observations about the document.
	ForensicIndicators []string

	// Risk is the overall assessment.
	Risk RiskAssessment
}

// Revisions returns the number of incremental updates.
func (m DocumentMetadata) Revisions() int {
	if m.EOFMarkers <= 1 {
		return 0
	}
	return m.EOFMarkers - 1
}

// Assess fills ForensicIndicators and Risk from the collected properties.
func (m *DocumentMetadata) Assess() {
	datesDiffer := m.Info.CreationDate != "" && m.Info.ModDate != "" &&
		m.Info.CreationDate != m.Info.ModDate

	var forensic []string
	if datesDiffer {
		forensic = append(forensic, "Creation date differs from modification date")
	}
	if m.Info.Creator != "" && m.Info.Producer != "" && m.Info.Creator != m.Info.Producer {
		forensic = append(forensic, fmt.Sprintf("Different creator (%s) and producer (%s)",
			m.Info.Creator, m.Info.Producer))
	}
	if m.EOFMarkers > 1 {
		forensic = append(forensic, fmt.Sprintf("Found %d 'EOF' markers - indicates %d document revisions",
			m.EOFMarkers, m.Revisions()))
	}
	for _, sw := range m.EditingSoftware {
		forensic = append(forensic, "Found evidence of editing with: "+sw)
	}
	if m.XMPModifyDates > 1 {
		forensic = append(forensic, fmt.Sprintf("Found %d modification date references in XMP - may indicate multiple edits",
			m.XMPModifyDates))
	}
	m.ForensicIndicators = forensic

	var risk []string
	if m.Security.Encrypted {
		risk = append(risk, "Document is encrypted (could conceal changes)")
	}
	if datesDiffer {
		risk = append(risk, "Creation and modification dates differ")
	}
	if m.EOFMarkers > 1 {
		risk = append(risk, fmt.Sprintf("Document has been revised %d times", m.Revisions()))
	}

	m.Risk = RiskAssessment{
		Level:          riskLevel(len(risk)),
		Indicators:     risk,
		Recommendation: "No obvious risk indicators detected",
	}
	if len(risk) > 0 {
		m.Risk.Recommendation = "Perform additional verification"
	}
}

func riskLevel(indicators int) RiskLevel {
	switch {
	case indicators > 1:
		return RiskHigh
	case indicators == 1:
		return RiskMedium
	default:
		return RiskLow
	}
}

package pdfmeta

import "regexp"

// editingTool maps a display name to the traces it leaves in XMP.
type editingTool struct {
	name    string
	pattern *regexp.Regexp
}

var editingTools = []editingTool{
	{"Adobe Photoshop", regexp.MustCompile(`(?i)photoshop`)},
	{"Adobe Acrobat", regexp.MustCompile(`(?i)acrobat`)},
	{"Microsoft Word", regexp.MustCompile(`(?i)microsoft\s+word|word\s+document`)},
	{"LibreOffice", regexp.MustCompile(`(?i)libreoffice`)},
	{"PDF editing tools", regexp.MustCompile(`(?i)pdf\s*editor|pdfsam|foxit|pdfelement`)},
}

var modifyDatePattern = regexp.MustCompile(`(?i)modifydate|moddate|modified=`)

// EditingSoftware lists the editing tools mentioned in an XMP packet.
func EditingSoftware(xmp []byte) []string {
	var found []string
	for _, tool := range editingTools {
		if tool.pattern.Match(xmp) {
			found = append(found, tool.name)
		}
	}
	return found
}

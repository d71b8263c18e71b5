package markdown

import "regexp"

const (
	// delimiter separates cells in a markdown table row.
	delimiter = "|"

	// minBlockLines is the shortest run that can carry a header and data.
	minBlockLines = 2

	// maxCleanDepth bounds recursive unwrapping of nested $...$ segments.
	maxCleanDepth = 8
)

var (
	// separatorRow matches rows such as |---|:--:| or |:|:| (whitespace allowed).
	separatorRow = regexp.MustCompile(`^[|:\s-]+$`)

	// dateRange matches continuation lines such as "Jan 1 - Jan 5, 2024".
	dateRange = regexp.MustCompile(
		`\b(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)\s+\d{1,2}\s*-\s*\w+\s+\d{1,2},?\s+\d{4}\b`)

	// latexSpan matches the shortest $...$ segment.
	latexSpan = regexp.MustCompile(`\$(.*?)\$`)

	// parenCurrency splits "description ($5.00 off) rest" into its three parts.
	parenCurrency = regexp.MustCompile(`^(.*?)(\([$\\].*?\))(.*?)$`)

	// escapedChar matches a backslash and the character it escapes.
	escapedChar = regexp.MustCompile(`\\(.)`)

	// heading matches an ATX markdown heading.
	heading = regexp.MustCompile(`^#{1,6}\s+(.*?)\s*#*$`)
)

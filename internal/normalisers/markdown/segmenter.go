package markdown

import (
	"iter"
	"slices"
	"strings"

	"github.com/custodia-labs/ocrtables/internal/core/domain"
)

// Segments returns the candidate blocks in text, in order of appearance.
// The sequence is lazy and restartable: each range re-scans text.
func Segments(text string) iter.Seq[domain.CandidateBlock] {
	return func(yield func(domain.CandidateBlock) bool) {
		var (
			current []string
			start   int
			caption string
			title   string
		)

		// flush emits the accumulated run if it is long enough and resets it.
		flush := func() bool {
			lines := current
			current = nil
			if len(lines) < minBlockLines {
				return true
			}
			return yield(domain.CandidateBlock{Lines: lines, StartLine: start, Caption: title})
		}

		lineNo := 0
		for raw := range strings.Lines(text) {
			lineNo++
			line := strings.TrimSpace(raw)

			if isTableRow(line) {
				if current == nil {
					start = lineNo
					title = caption
				}
				current = append(current, line)
				continue
			}

			if current != nil && !flush() {
				return
			}
			if m := heading.FindStringSubmatch(line); m != nil {
				caption = m[1]
			}
		}

		if current != nil {
			flush()
		}
	}
}

// Blocks collects every candidate block in text.
func Blocks(text string) []domain.CandidateBlock {
	return slices.Collect(Segments(text))
}

// isTableRow reports whether a trimmed line starts and ends with the delimiter.
// This is the only test applied; column counts are not checked here.
func isTableRow(line string) bool {
	return strings.HasPrefix(line, delimiter) && strings.HasSuffix(line, delimiter)
}

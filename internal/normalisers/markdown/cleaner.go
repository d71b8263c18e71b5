package markdown

import "strings"

// CleanCell removes LaTeX-style dollar wrapping and markdown escapes from a
// single cell. It is idempotent on already-clean input; input nested deeper
// than maxCleanDepth is returned partly cleaned and may change on a second pass.
//
// Rules run in order:
//  1. A cell wrapped in $...$ is unwrapped and its inner text cleaned.
//     A wrapped negative amount keeps one leading "$" ("$-5.00$" -> "$-5.00").
//     Other wrapped text, ranges included, loses its dollars ("$5$ - $6$" -> "5 - 6").
//  2. Every remaining $...$ segment is replaced by its cleaned inner text.
//  3. "description (\$5.00 off)" has escapes removed inside the parentheses
//     only, and the cell is returned without applying later rules.
//  4. Every \X escape becomes X.
//  5. A cell still wrapped in $...$ that contains "-" collapses to "$" + inner.
func CleanCell(cell string) string {
	return cleanCell(cell, 0)
}

func cleanCell(text string, depth int) string {
	if depth > maxCleanDepth {
		return text
	}

	if strings.Contains(text, "$") {
		if isDollarWrapped(text) {
			inner := cleanCell(strings.TrimSpace(text[1:len(text)-1]), depth+1)
			if strings.HasPrefix(inner, "-") {
				return "$" + inner
			}
			return inner
		}

		text = latexSpan.ReplaceAllStringFunc(text, func(span string) string {
			return cleanCell(span[1:len(span)-1], depth+1)
		})
	}

	if m := parenCurrency.FindStringSubmatch(text); m != nil {
		prefix := strings.TrimSpace(m[1])
		currency := strings.ReplaceAll(m[2], `\$`, "$")
		suffix := strings.TrimSpace(m[3])
		return strings.TrimSpace(prefix + " " + currency + " " + suffix)
	}

	text = escapedChar.ReplaceAllString(text, "${1}")

	if isDollarWrapped(text) && strings.Contains(text, "-") {
		return "$" + strings.TrimSpace(text[1:len(text)-1])
	}

	return text
}

// isDollarWrapped reports whether s both starts and ends with a dollar sign.
// A lone "$" is not wrapped.
func isDollarWrapped(s string) bool {
	return len(s) >= 2 && strings.HasPrefix(s, "$") && strings.HasSuffix(s, "$")
}

package pdfmeta

import (
	"strconv"
	"strings"
	"time"
)

// ParseDate parses a PDF date string of the form D:YYYYMMDDHHmmSSOHH'mm'.
// Everything after the year is optional. Dates without a zone are UTC.
func ParseDate(raw string) (time.Time, bool) {
	s := strings.TrimPrefix(strings.TrimSpace(raw), "D:")
	if len(s) < 4 {
		return time.Time{}, false
	}

	// year, month, day, hour, minute, second
	fields := [6]int{0, 1, 1, 0, 0, 0}
	widths := [6]int{4, 2, 2, 2, 2, 2}

	pos := 0
	for i, w := range widths {
		if pos+w > len(s) || !isDigits(s[pos:pos+w]) {
			if i == 0 {
				return time.Time{}, false
			}
			break
		}
		fields[i], _ = strconv.Atoi(s[pos : pos+w])
		pos += w
	}

	loc, ok := parseZone(s[pos:])
	if !ok {
		return time.Time{}, false
	}

	t := time.Date(fields[0], time.Month(fields[1]), fields[2], fields[3], fields[4], fields[5], 0, loc)
	if t.Month() != time.Month(fields[1]) || t.Day() != fields[2] {
		return time.Time{}, false
	}
	return t, true
}

// parseZone reads the optional "Z", "+HH'mm'" or "-HH'mm'" suffix.
func parseZone(s string) (*time.Location, bool) {
	if s == "" || s == "Z" || strings.HasPrefix(s, "Z") {
		return time.UTC, true
	}

	sign := 1
	switch s[0] {
	case '+':
	case '-':
		sign = -1
	default:
		return nil, false
	}

	digits := strings.NewReplacer("'", "", ":", "").Replace(s[1:])
	if len(digits) < 2 || !isDigits(digits) {
		return nil, false
	}

	hours, _ := strconv.Atoi(digits[:2])
	minutes := 0
	if len(digits) >= 4 {
		minutes, _ = strconv.Atoi(digits[2:4])
	}
	if hours > 23 || minutes > 59 {
		return nil, false
	}

	offset := sign * (hours*3600 + minutes*60)
	if offset == 0 {
		return time.UTC, true
	}
	return time.FixedZone("", offset), true
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

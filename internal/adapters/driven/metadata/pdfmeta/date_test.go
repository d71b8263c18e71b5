package pdfmeta

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDate(t *testing.T) {
	plusOne := time.FixedZone("", 3600)
	minusFiveThirty := time.FixedZone("", -(5*3600 + 30*60))

	tests := []struct {
		raw  string
		want time.Time
		ok   bool
	}{
		{"D:20240101120000Z", time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC), true},
		{"D:20240305090000+01'00'", time.Date(2024, 3, 5, 9, 0, 0, 0, plusOne), true},
		{"D:20240305090000-05'30", time.Date(2024, 3, 5, 9, 0, 0, 0, minusFiveThirty), true},
		{"D:20240305090000", time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC), true},
		{"20240305", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), true},
		{"D:2024", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), true},
		{"D:20240305090000+00'00'", time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC), true},
		{"", time.Time{}, false},
		{"D:", time.Time{}, false},
		{"D:yesterday", time.Time{}, false},
		{"D:20241332", time.Time{}, false},
		{"D:20240305090000#", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := ParseDate(tt.raw)

			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, tt.want.Equal(got), "got %s want %s", got, tt.want)
			}
		})
	}
}

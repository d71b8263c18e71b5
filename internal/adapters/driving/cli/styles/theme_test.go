package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ocrtables/internal/core/domain"
)

func TestDefaultTheme(t *testing.T) {
	theme := DefaultTheme()

	require.NotNil(t, theme)
	assert.NotEmpty(t, string(theme.Primary))
	assert.NotEmpty(t, string(theme.Secondary))
	assert.NotEmpty(t, string(theme.Muted))
	assert.NotEmpty(t, string(theme.Success))
	assert.NotEmpty(t, string(theme.Warning))
	assert.NotEmpty(t, string(theme.Error))
	assert.NotEmpty(t, string(theme.Border))
}

func TestDefaultTheme_StatusColoursAreDistinct(t *testing.T) {
	theme := DefaultTheme()

	seen := make(map[lipgloss.Color]bool)
	for _, c := range []lipgloss.Color{theme.Success, theme.Warning, theme.Error} {
		assert.False(t, seen[c], "duplicate colour: %s", c)
		seen[c] = true
	}
}

func TestNewStyles_NilTheme(t *testing.T) {
	styles := NewStyles(nil)

	require.NotNil(t, styles)
	assert.NotNil(t, styles.Theme())
}

func TestNewStyles_WithTheme(t *testing.T) {
	theme := DefaultTheme()
	styles := NewStyles(theme)

	assert.Same(t, theme, styles.Theme())
}

func TestStyles_Status(t *testing.T) {
	styles := DefaultStyles()

	assert.Equal(t, styles.Success, styles.Status(domain.ExtractionCompleted))
	assert.Equal(t, styles.Error, styles.Status(domain.ExtractionFailed))
	assert.Equal(t, styles.Warning, styles.Status(domain.ExtractionRunning))
}

func TestStyles_Risk(t *testing.T) {
	styles := DefaultStyles()

	assert.Equal(t, styles.Error, styles.Risk(domain.RiskHigh))
	assert.Equal(t, styles.Warning, styles.Risk(domain.RiskMedium))
	assert.Equal(t, styles.Success, styles.Risk(domain.RiskLow))
}

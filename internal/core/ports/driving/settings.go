package driving

import "github.com/custodia-labs/ocrtables/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.Settings, error)

	// Save persists application settings.
	Save(settings *domain.Settings) error

	// SetOCR updates the OCR provider configuration.
	SetOCR(apiKey, model, baseURL string) error

	// SetOutput updates the output directory and formats.
	SetOutput(dir string, formats []domain.OutputFormat) error

	// Validate checks if current settings are usable.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.Settings
}

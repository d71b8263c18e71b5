package services

import (
	"fmt"
	"os"

	"github.com/custodia-labs/ocrtables/internal/core/domain"
	"github.com/custodia-labs/ocrtables/internal/core/ports/driven"
	"github.com/custodia-labs/ocrtables/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyOCRAPIKey         = "ocr.api_key"
	keyOCRBaseURL        = "ocr.base_url"
	keyOCRModel          = "ocr.model"
	keyOCRRequestsPerSec = "ocr.requests_per_second"
	keyOCRIncludeImages  = "ocr.include_images"
	keyOutputDir         = "output.dir"
	keyOutputFormats     = "output.formats"
	keyOutputPreviewRows = "output.preview_rows"
	keyServerAddr        = "server.addr"
	keyPipelineWorkers   = "pipeline.workers"
)

// EnvAPIKey is consulted when no API key is stored in the config file.
//
//nolint:gosec // G101: environment variable name, not a credential.
const EnvAPIKey = "MISTRAL_API_KEY"

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
	}
}

// Get retrieves current application settings.
// Missing keys fall back to defaults; unknown output formats are dropped.
func (s *SettingsService) Get() (*domain.Settings, error) {
	defaults := domain.DefaultSettings()

	apiKey := s.configStore.GetString(keyOCRAPIKey)
	if apiKey == "" {
		apiKey = os.Getenv(EnvAPIKey)
	}

	settings := &domain.Settings{
		OCR: domain.OCRSettings{
			APIKey:            apiKey,
			BaseURL:           s.getString(keyOCRBaseURL, defaults.OCR.BaseURL),
			Model:             s.getString(keyOCRModel, defaults.OCR.Model),
			RequestsPerSecond: s.getFloat(keyOCRRequestsPerSec, defaults.OCR.RequestsPerSecond),
			IncludeImages:     s.configStore.GetBool(keyOCRIncludeImages),
		},
		Output: domain.OutputSettings{
			Dir:         s.getString(keyOutputDir, defaults.Output.Dir),
			Formats:     s.getFormats(defaults.Output.Formats),
			PreviewRows: s.getInt(keyOutputPreviewRows, defaults.Output.PreviewRows),
		},
		Server: domain.ServerSettings{
			Addr: s.getString(keyServerAddr, defaults.Server.Addr),
		},
		Pipeline: domain.PipelineSettings{
			Workers: s.getInt(keyPipelineWorkers, defaults.Pipeline.Workers),
		},
	}

	return settings, nil
}

// Save persists application settings.
// An API key that only came from the environment is not written to disk.
func (s *SettingsService) Save(settings *domain.Settings) error {
	if settings == nil {
		return fmt.Errorf("save settings: %w", domain.ErrInvalidInput)
	}

	// Save OCR settings
	if key := settings.OCR.APIKey; key != "" {
		fromEnv := s.configStore.GetString(keyOCRAPIKey) == "" && key == os.Getenv(EnvAPIKey)
		if !fromEnv {
			if err := s.configStore.Set(keyOCRAPIKey, key); err != nil {
				return fmt.Errorf("save ocr api_key: %w", err)
			}
		}
	}
	if err := s.configStore.Set(keyOCRBaseURL, settings.OCR.BaseURL); err != nil {
		return fmt.Errorf("save ocr base_url: %w", err)
	}
	if err := s.configStore.Set(keyOCRModel, settings.OCR.Model); err != nil {
		return fmt.Errorf("save ocr model: %w", err)
	}
	if err := s.configStore.Set(keyOCRRequestsPerSec, settings.OCR.RequestsPerSecond); err != nil {
		return fmt.Errorf("save ocr requests_per_second: %w", err)
	}
	if err := s.configStore.Set(keyOCRIncludeImages, settings.OCR.IncludeImages); err != nil {
		return fmt.Errorf("save ocr include_images: %w", err)
	}

	// Save output settings
	if err := s.configStore.Set(keyOutputDir, settings.Output.Dir); err != nil {
		return fmt.Errorf("save output dir: %w", err)
	}
	formats := make([]string, 0, len(settings.Output.Formats))
	for _, f := range settings.Output.Formats {
		formats = append(formats, f.String())
	}
	if err := s.configStore.Set(keyOutputFormats, formats); err != nil {
		return fmt.Errorf("save output formats: %w", err)
	}
	if err := s.configStore.Set(keyOutputPreviewRows, settings.Output.PreviewRows); err != nil {
		return fmt.Errorf("save output preview_rows: %w", err)
	}

	if err := s.configStore.Set(keyServerAddr, settings.Server.Addr); err != nil {
		return fmt.Errorf("save server addr: %w", err)
	}
	if err := s.configStore.Set(keyPipelineWorkers, settings.Pipeline.Workers); err != nil {
		return fmt.Errorf("save pipeline workers: %w", err)
	}

	return nil
}

// SetOCR updates the OCR provider configuration.
// An empty apiKey keeps the current key; empty model and baseURL reset to defaults.
func (s *SettingsService) SetOCR(apiKey, model, baseURL string) error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if apiKey != "" {
		settings.OCR.APIKey = apiKey
	}
	if settings.OCR.APIKey == "" {
		return fmt.Errorf("%w: API key required for OCR", domain.ErrInvalidInput)
	}

	settings.OCR.Model = model
	if model == "" {
		settings.OCR.Model = domain.DefaultOCRModel
	}
	settings.OCR.BaseURL = baseURL
	if baseURL == "" {
		settings.OCR.BaseURL = domain.DefaultOCRBaseURL
	}

	// Written explicitly so a key typed at the prompt is kept even when it
	// matches the environment.
	if apiKey != "" {
		if err := s.configStore.Set(keyOCRAPIKey, apiKey); err != nil {
			return fmt.Errorf("save ocr api_key: %w", err)
		}
	}

	return s.Save(settings)
}

// SetOutput updates the output directory and formats.
// Empty values keep the current setting.
func (s *SettingsService) SetOutput(dir string, formats []domain.OutputFormat) error {
	for _, f := range formats {
		if !f.IsValid() {
			return fmt.Errorf("%w: unknown output format %q", domain.ErrInvalidInput, f)
		}
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	if dir != "" {
		settings.Output.Dir = dir
	}
	if len(formats) > 0 {
		settings.Output.Formats = formats
	}

	return s.Save(settings)
}

// Validate checks if current settings are usable.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return settings.Validate()
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.Settings {
	return domain.DefaultSettings()
}

func (s *SettingsService) getString(key, defaultVal string) string {
	if val := s.configStore.GetString(key); val != "" {
		return val
	}
	return defaultVal
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, ok := s.configStore.Get(key); ok {
		return s.configStore.GetInt(key)
	}
	return defaultVal
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, ok := s.configStore.Get(key); ok {
		return s.configStore.GetFloat(key)
	}
	return defaultVal
}

func (s *SettingsService) getFormats(defaultVal []domain.OutputFormat) []domain.OutputFormat {
	var formats []domain.OutputFormat
	for _, raw := range s.configStore.GetStringSlice(keyOutputFormats) {
		if f := domain.OutputFormat(raw); f.IsValid() {
			formats = append(formats, f)
		}
	}
	if len(formats) == 0 {
		return defaultVal
	}
	return formats
}

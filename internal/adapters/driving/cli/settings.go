package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/ocrtables/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the OCR provider and output options.

Settings are stored in config.toml in the config directory. The
MISTRAL_API_KEY environment variable overrides the stored API key.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsOCRCmd = &cobra.Command{
	Use:   "ocr",
	Short: "Configure the OCR provider",
	Long: `Configure the OCR provider used for PDF documents.

Without --api-key the key is prompted for. Press enter at the prompt to
keep the current key. Model and base URL fall back to the defaults.`,
	RunE: runSettingsOCR,
}

var settingsOutputCmd = &cobra.Command{
	Use:   "output",
	Short: "Configure output directory and formats",
	Long: `Configure where tables are written and in which formats.

Available formats:
  csv   comma-separated values
  xlsx  Excel workbook (unformatted)`,
	RunE: runSettingsOutput,
}

// Flags for the settings subcommands.
var (
	ocrAPIKey     string
	ocrModel      string
	ocrBaseURL    string
	outputDir     string
	outputFormats []string
)

func init() {
	settingsOCRCmd.Flags().StringVar(&ocrAPIKey, "api-key", "", "OCR provider API key")
	settingsOCRCmd.Flags().StringVar(&ocrModel, "model", domain.DefaultOCRModel, "OCR model")
	settingsOCRCmd.Flags().StringVar(&ocrBaseURL, "base-url", domain.DefaultOCRBaseURL, "OCR API base URL")

	settingsOutputCmd.Flags().StringVar(&outputDir, "dir", "", "root output directory")
	settingsOutputCmd.Flags().StringSliceVar(&outputFormats, "formats", nil, "output formats (csv, xlsx)")

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsOCRCmd)
	settingsCmd.AddCommand(settingsOutputCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	// OCR settings
	cmd.Println("[OCR]")
	cmd.Printf("  Model: %s\n", settings.OCR.Model)
	cmd.Printf("  Base URL: %s\n", settings.OCR.BaseURL)
	if settings.OCR.APIKey != "" {
		cmd.Printf("  API Key: %s\n", maskAPIKey(settings.OCR.APIKey))
	} else {
		cmd.Printf("  API Key: (not set)\n")
	}
	cmd.Printf("  Requests/sec: %g\n", settings.OCR.RequestsPerSecond)
	status := "configured"
	if !settings.OCR.IsConfigured() {
		status = "not configured (markdown input only)"
	}
	cmd.Printf("  Status: %s\n", status)
	cmd.Println()

	// Output settings
	cmd.Println("[Output]")
	cmd.Printf("  Directory: %s\n", settings.Output.Dir)
	formats := make([]string, len(settings.Output.Formats))
	for i, f := range settings.Output.Formats {
		formats[i] = f.String()
	}
	cmd.Printf("  Formats: %s\n", strings.Join(formats, ", "))
	cmd.Printf("  Preview rows: %d\n", settings.Output.PreviewRows)
	cmd.Println()

	// Server and pipeline settings
	cmd.Println("[Server]")
	cmd.Printf("  Address: %s\n", settings.Server.Addr)
	cmd.Println()
	cmd.Println("[Pipeline]")
	cmd.Printf("  Workers: %d\n", settings.Pipeline.Workers)
	cmd.Println()

	// Validation
	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'ocrtables settings output' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func runSettingsOCR(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	apiKey := ocrAPIKey
	if apiKey == "" {
		cmd.Print("API key (enter to keep current): ")
		apiKey = readPassword()
		cmd.Println()
	}

	if err := settingsService.SetOCR(apiKey, ocrModel, ocrBaseURL); err != nil {
		return fmt.Errorf("failed to configure OCR: %w", err)
	}

	cmd.Printf("OCR configured: %s (%s)\n", ocrModel, ocrBaseURL)
	return nil
}

func runSettingsOutput(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	dir := outputDir
	formats := make([]domain.OutputFormat, 0, len(outputFormats))
	for _, f := range outputFormats {
		formats = append(formats, domain.OutputFormat(strings.ToLower(strings.TrimSpace(f))))
	}

	// Prompt when nothing was given on the command line.
	if dir == "" && len(formats) == 0 {
		reader := bufio.NewReader(cmd.InOrStdin())
		current, err := settingsService.Get()
		if err != nil {
			return fmt.Errorf("failed to get settings: %w", err)
		}

		cmd.Printf("Output directory [%s]: ", current.Output.Dir)
		dir = readLine(reader)

		choices := []struct {
			label   string
			formats []domain.OutputFormat
		}{
			{"CSV and Excel", domain.AllOutputFormats()},
			{"CSV only", []domain.OutputFormat{domain.OutputCSV}},
			{"Excel only", []domain.OutputFormat{domain.OutputXLSX}},
		}
		cmd.Println("Output formats:")
		for i, c := range choices {
			cmd.Printf("  %d. %s\n", i+1, c.label)
		}
		cmd.Print("\nEnter choice [1]: ")
		formats = choices[parseChoice(readLine(reader), len(choices), 1)-1].formats
	}

	if err := settingsService.SetOutput(dir, formats); err != nil {
		return fmt.Errorf("failed to configure output: %w", err)
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	cmd.Printf("Output configured: %s\n", settings.Output.Dir)
	return nil
}

func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

//nolint:errcheck // CLI helper, error ignored for UX
func readPassword() string {
	// Try to read password without echo
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(password)
		}
	}
	// Fallback to regular input
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

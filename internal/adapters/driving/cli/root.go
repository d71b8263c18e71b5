// Package cli provides the ocrtables command line interface.
package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ocrtables/internal/core/ports/driving"
	"github.com/custodia-labs/ocrtables/internal/logger"
)

// version is set by Execute; "dev" for local builds.
var version = "dev"

// Services used by commands. They are set by the bootstrap before a
// command runs, or directly by tests.
var (
	tableService      driving.TableService
	extractionService driving.ExtractionService
	metadataService   driving.MetadataService
	settingsService   driving.SettingsService
)

// Global flags.
var (
	configDir string
	dataDir   string
	verbose   bool
)

// Options are the global flag values handed to the bootstrap.
type Options struct {
	// ConfigDir overrides the directory holding config.toml.
	ConfigDir string

	// DataDir overrides the directory holding the history database.
	DataDir string
}

// Services are the driving ports a bootstrap wires up.
type Services struct {
	Tables     driving.TableService
	Extraction driving.ExtractionService
	Metadata   driving.MetadataService
	Settings   driving.SettingsService

	// Close releases resources held by the services. May be nil.
	Close func() error
}

// Bootstrap builds the services once flags are parsed.
type Bootstrap func(Options) (*Services, error)

var (
	bootstrap     Bootstrap
	closeServices func() error
)

var rootCmd = &cobra.Command{
	Use:   "ocrtables",
	Short: "Extract tables from OCR'd documents",
	Long: `ocrtables turns OCR'd documents into clean tables.

PDFs are sent to an OCR provider that returns one markdown document per
page. Markdown pipe tables are then located, repaired and cleaned, and
written as CSV and Excel files next to the full recognised text.

Markdown files can be processed directly without OCR.`,
	SilenceUsage:      true,
	PersistentPreRunE: setupServices,
	PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
		if closeServices == nil {
			return nil
		}
		err := closeServices()
		closeServices = nil
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "directory holding config.toml (default ~/.ocrtables)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "directory holding the history database (default ~/.ocrtables)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// setupServices runs the bootstrap unless services are already wired.
func setupServices(_ *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if bootstrap == nil || settingsService != nil {
		return nil
	}

	services, err := bootstrap(Options{ConfigDir: configDir, DataDir: dataDir})
	if err != nil {
		return err
	}
	if services == nil {
		return errors.New("bootstrap returned no services")
	}

	tableService = services.Tables
	extractionService = services.Extraction
	metadataService = services.Metadata
	settingsService = services.Settings
	closeServices = services.Close
	return nil
}

// Execute runs the root command.
func Execute(ctx context.Context, v string, b Bootstrap) error {
	if v != "" {
		version = v
	}
	bootstrap = b
	return rootCmd.ExecuteContext(ctx)
}

// Command ocrtables extracts clean tables from OCR'd documents.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/ocrtables/internal/adapters/driven/config/file"
	"github.com/custodia-labs/ocrtables/internal/adapters/driven/metadata/pdfmeta"
	"github.com/custodia-labs/ocrtables/internal/adapters/driven/ocr/mistral"
	"github.com/custodia-labs/ocrtables/internal/adapters/driven/ocr/passthrough"
	"github.com/custodia-labs/ocrtables/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/ocrtables/internal/adapters/driven/writer/csvwriter"
	"github.com/custodia-labs/ocrtables/internal/adapters/driven/writer/xlsxwriter"
	"github.com/custodia-labs/ocrtables/internal/adapters/driving/cli"
	"github.com/custodia-labs/ocrtables/internal/core/ports/driven"
	"github.com/custodia-labs/ocrtables/internal/core/services"
	"github.com/custodia-labs/ocrtables/internal/logger"
	"github.com/custodia-labs/ocrtables/internal/normalisers/markdown"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx, version, bootstrap); err != nil {
		stop()
		os.Exit(1)
	}
}

// bootstrap wires the driven adapters into the core services.
func bootstrap(opts cli.Options) (*cli.Services, error) {
	configStore, err := file.NewConfigStore(opts.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}

	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	if err := settings.Validate(); err != nil {
		logger.Warn("settings: %v", err)
	}

	store, err := sqlite.NewStore(opts.DataDir)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}

	// Markdown never needs OCR; PDFs need a configured provider.
	ocr := []driven.OCRService{passthrough.New()}
	if settings.OCR.IsConfigured() {
		provider, err := mistral.New(mistral.Config{
			APIKey:            settings.OCR.APIKey,
			BaseURL:           settings.OCR.BaseURL,
			Model:             settings.OCR.Model,
			RequestsPerSecond: settings.OCR.RequestsPerSecond,
			IncludeImages:     settings.OCR.IncludeImages,
		})
		if err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("configure ocr: %w", err)
		}
		ocr = append(ocr, provider)
	} else {
		logger.Debug("no OCR API key configured, PDF input disabled")
	}

	metadataService := services.NewMetadataService(pdfmeta.New())
	tableService := services.NewTableService(markdown.New(), settings.Pipeline.Workers)

	extractionService := services.NewExtractionService(
		ocr,
		metadataService,
		tableService,
		[]driven.TableWriter{csvwriter.New(), xlsxwriter.New()},
		store.ExtractionStore(),
		services.ExtractionConfig{
			OutputDir:   settings.Output.Dir,
			Formats:     settings.Output.Formats,
			PreviewRows: settings.Output.PreviewRows,
		},
	)

	return &cli.Services{
		Tables:     tableService,
		Extraction: extractionService,
		Metadata:   metadataService,
		Settings:   settingsService,
		Close:      store.Close,
	}, nil
}

package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ocrtables/internal/adapters/driving/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the HTTP API for uploading documents and downloading results.

Routes:
  GET    /                           service status
  POST   /upload                     process an uploaded document (form field "file")
  GET    /extractions                list recorded extractions
  GET    /extractions/{id}           get one extraction
  DELETE /extractions/{id}           delete an extraction and its files
  GET    /extractions/{id}/archive   download all outputs as a zip
  GET    /extractions/{id}/files/{name}  download one output file

The listen address defaults to the server.addr setting.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var serveAddr string

func init() {
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "", "listen address (default from settings)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if extractionService == nil {
		return errors.New("extraction service not configured")
	}

	addr := serveAddr
	if addr == "" && settingsService != nil {
		settings, err := settingsService.Get()
		if err != nil {
			return fmt.Errorf("failed to get settings: %w", err)
		}
		addr = settings.Server.Addr
	}

	server, err := api.NewServer(extractionService, api.Config{Addr: addr})
	if err != nil {
		return err
	}

	cmd.Printf("HTTP API listening on %s\n", server.Addr())
	return server.Run(cmd.Context())
}

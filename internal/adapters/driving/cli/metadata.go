package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

var metadataCmd = &cobra.Command{
	Use:   "metadata <pdf>",
	Short: "Show document metadata and forensic indicators",
	Long: `Read the information dictionary, XMP metadata and structure of a PDF
and report signs that it was edited after creation.

The report is independent of table extraction and needs no OCR provider.`,
	Args: cobra.ExactArgs(1),
	RunE: runMetadata,
}

var metadataJSON bool

func init() {
	metadataCmd.Flags().BoolVar(&metadataJSON, "json", false, "print the report as JSON")
	rootCmd.AddCommand(metadataCmd)
}

func runMetadata(cmd *cobra.Command, args []string) error {
	if metadataService == nil {
		return errors.New("metadata service not configured")
	}

	path := args[0]
	metadata, err := metadataService.Inspect(cmd.Context(), path)
	if err != nil {
		return fmt.Errorf("failed to read metadata: %w", err)
	}

	if metadataJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(metadata)
	}

	renderMetadata(cmd.OutOrStdout(), filepath.Base(path), metadata)
	return nil
}

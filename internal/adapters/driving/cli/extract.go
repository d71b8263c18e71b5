package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var extractCmd = &cobra.Command{
	Use:   "extract <file>...",
	Short: "Extract tables from documents",
	Long: `Run the full pipeline over one or more documents.

PDFs are sent to the configured OCR provider; markdown files are parsed
directly. Every non-empty table is written to <output>/<name>-<id>/table_N
in each configured format, next to full_text.txt. Runs are recorded in the
history whether they succeed or fail.

Examples:
  ocrtables extract statement.pdf
  ocrtables extract scans/*.pdf notes.md`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	if extractionService == nil {
		return errors.New("extraction service not configured")
	}

	var failed int
	for _, path := range args {
		extraction, err := extractionService.Extract(cmd.Context(), path)
		if extraction != nil {
			renderExtraction(cmd.OutOrStdout(), extraction)
		}
		if err != nil {
			failed++
			cmd.PrintErrf("Error: %s: %v\n", path, err)
		}
		if cmd.Context().Err() != nil {
			return cmd.Context().Err()
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d documents failed", failed, len(args))
	}
	return nil
}

package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage recorded extractions",
	Long:  `List, inspect and delete past extraction runs.`,
	RunE:  runHistoryList,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded extractions, newest first",
	Args:  cobra.NoArgs,
	RunE:  runHistoryList,
}

var historyGetCmd = &cobra.Command{
	Use:   "get [extraction-id]",
	Short: "Show an extraction and its tables",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryGet,
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete [extraction-id]",
	Short: "Delete an extraction and its output files",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryDelete,
}

func init() {
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyGetCmd)
	historyCmd.AddCommand(historyDeleteCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistoryList(cmd *cobra.Command, _ []string) error {
	if extractionService == nil {
		return errors.New("extraction service not configured")
	}

	extractions, err := extractionService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list extractions: %w", err)
	}

	if len(extractions) == 0 {
		cmd.Println("No extractions recorded.")
		return nil
	}

	header := []string{"ID", "Document", "Status", "Tables", "Started"}
	rows := make([][]string, len(extractions))
	for i, e := range extractions {
		rows[i] = []string{
			e.ID,
			e.DocumentName,
			string(e.Status),
			strconv.Itoa(len(e.Tables)),
			e.CreatedAt.Local().Format(timeLayout),
		}
	}

	cmd.Println(renderGrid(cmd.OutOrStdout(), header, rows))
	cmd.Printf("Total: %d extractions\n", len(extractions))
	return nil
}

func runHistoryGet(cmd *cobra.Command, args []string) error {
	if extractionService == nil {
		return errors.New("extraction service not configured")
	}

	extraction, err := extractionService.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get extraction: %w", err)
	}

	renderExtraction(cmd.OutOrStdout(), extraction)
	return nil
}

func runHistoryDelete(cmd *cobra.Command, args []string) error {
	if extractionService == nil {
		return errors.New("extraction service not configured")
	}

	if err := extractionService.Delete(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("failed to delete extraction: %w", err)
	}

	cmd.Printf("Deleted extraction: %s\n", args[0])
	return nil
}

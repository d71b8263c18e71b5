package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ocrtables/internal/adapters/driving/watcher"
	"github.com/custodia-labs/ocrtables/internal/core/domain"
)

var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Extract tables from documents as they appear",
	Long: `Watch a directory tree and run an extraction for every PDF or
markdown file that is created or changed.

Hidden files and directories are ignored, as is the output directory
when it lives inside the watched tree. Stop with Ctrl+C.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

var watchDebounce = watcher.DefaultDebounce

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watcher.DefaultDebounce, "quiet period before a changed file is processed")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if extractionService == nil {
		return errors.New("extraction service not configured")
	}

	root, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolve %s: %w", args[0], err)
	}

	opts := []watcher.Option{
		watcher.WithDebounce(watchDebounce),
		watcher.WithResultFunc(func(path string, e *domain.Extraction, err error) {
			rel, relErr := filepath.Rel(root, path)
			if relErr != nil {
				rel = path
			}
			switch {
			case e != nil && err == nil:
				cmd.Printf("%s %s: %d tables -> %s\n",
					theme.Success.Render("✓"), rel, len(e.Tables), e.OutputDir)
			default:
				cmd.Printf("%s %s: %v\n", theme.Error.Render("✗"), rel, err)
			}
		}),
	}

	if settingsService != nil {
		settings, err := settingsService.Get()
		if err != nil {
			return fmt.Errorf("failed to get settings: %w", err)
		}
		if outDir, err := filepath.Abs(settings.Output.Dir); err == nil {
			opts = append(opts, watcher.WithExclude(outDir))
		}
	}

	w := watcher.New(extractionService, root, opts...)
	defer w.Close()

	cmd.Printf("Watching %s (Ctrl+C to stop)\n", root)
	err = w.Run(cmd.Context())
	if errors.Is(err, watcher.ErrClosed) {
		return nil
	}
	return err
}

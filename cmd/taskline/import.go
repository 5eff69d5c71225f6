package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"taskline/internal/importer"
	"taskline/internal/task"
)

// previewLimit caps the rows a dry run prints.
const previewLimit = 20

func newImportCmd() *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "import FORMAT FILE",
		Short: "Import tasks from Todoist or Taskwarrior",
		Long: `Appends tasks from another tool's export to the list.

Formats:
  todoist      Todoist CSV backup. PRIORITY 1,2 map to high, 3 to medium,
               4 to low. DATE becomes the due date. Notes are skipped.
  taskwarrior  Output of 'task export', as a JSON array or one object per
               line. H/M/L map to high/medium/low, completed tasks stay
               completed and deleted tasks are skipped.`,
		Example: `  taskline import todoist ~/Downloads/Todoist_backup.csv
  task export > tasks.json && taskline import taskwarrior tasks.json
  taskline import --dry-run todoist backup.csv`,
		Args: cobra.ExactArgs(2),
		ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 0 {
				return importer.SupportedFormats(), cobra.ShellCompDirectiveNoFileComp
			}
			return nil, cobra.ShellCompDirectiveDefault
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			imp := importer.Get(args[0])
			if imp == nil {
				return fmt.Errorf("unknown format %q (supported: %s)", args[0], strings.Join(importer.SupportedFormats(), ", "))
			}
			f, err := os.Open(args[1])
			if err != nil {
				return err
			}
			defer f.Close()

			out := cmd.OutOrStdout()
			if dryRun {
				batch, err := imp.Parse(f)
				if err != nil {
					return fmt.Errorf("%s: %w", imp.Name(), err)
				}
				printPreview(out, batch)
				return nil
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger, err := consoleLogger(cmd, cfg)
			if err != nil {
				return err
			}
			store, closer, err := openStore(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer closer.Close()

			res, err := importer.Import(imp, f, store)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, "Import complete!")
			fmt.Fprintf(out, "  Imported: %d tasks\n", res.Imported)
			if res.Skipped > 0 {
				fmt.Fprintf(out, "  Skipped:  %d items\n", res.Skipped)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "preview without changing the task store")
	return cmd
}

func printPreview(out io.Writer, batch importer.Batch) {
	if len(batch.Tasks) == 0 {
		fmt.Fprintln(out, "No tasks found to import.")
		return
	}
	fmt.Fprintf(out, "Preview: %d tasks to import\n", len(batch.Tasks))
	for i, t := range batch.Tasks {
		if i == previewLimit {
			fmt.Fprintf(out, "  ... and %d more\n", len(batch.Tasks)-previewLimit)
			break
		}
		fmt.Fprintf(out, "  %s%s\n", t.Text, previewDetails(t))
	}
	if batch.Skipped > 0 {
		fmt.Fprintf(out, "Skipping %d items\n", batch.Skipped)
	}
	fmt.Fprintln(out, "\nRun without --dry-run to import.")
}

func previewDetails(t task.Task) string {
	var details []string
	if t.Priority != task.PriorityNone {
		details = append(details, string(t.Priority))
	}
	if t.DueDate != nil {
		details = append(details, "due "+t.DueDate.Format("2006-01-02"))
	}
	if t.Completed {
		details = append(details, "done")
	}
	if len(details) == 0 {
		return ""
	}
	return " (" + strings.Join(details, ", ") + ")"
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"taskline/internal/fsutil"
	"taskline/internal/storage"
)

func newExportCmd() *cobra.Command {
	var format, output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the task list as JSON, CSV or a Markdown checklist",
		Example: `  taskline export
  taskline export -f csv -o tasks.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
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

			data, err := storage.Export(store.Tasks(), format)
			if err != nil {
				return err
			}
			if output == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := fsutil.WriteFileAtomic(output, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			logger.Info("exported", "tasks", store.Len(), "format", format, "file", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", storage.FormatMarkdown, "json, csv or md")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to a file instead of stdout")
	return cmd
}

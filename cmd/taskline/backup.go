package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"taskline/internal/backup"
)

func newBackupCmd() *cobra.Command {
	var (
		list  bool
		prune int
	)
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Create, list or prune backups of the task store",
		Long: `Copies the task store into a timestamped directory under
<data dir>/backups. Use restore to bring one back.`,
		Example: `  taskline backup
  taskline backup --list
  taskline backup --prune 5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			m := backup.NewManager(cfg.GetDataDir(), version)
			out := cmd.OutOrStdout()

			switch {
			case list:
				return listBackups(out, m, time.Now())
			case cmd.Flags().Changed("prune"):
				n, err := m.Prune(prune)
				if err != nil {
					return fmt.Errorf("prune backups: %w", err)
				}
				fmt.Fprintf(out, "Removed %d backup(s), kept the newest %d\n", n, prune)
				return nil
			}

			name, err := m.Create()
			if err != nil {
				return fmt.Errorf("create backup: %w", err)
			}
			info, err := m.Get(name)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "✓ Backup created: %s\n", name)
			fmt.Fprintf(out, "  Tasks: %d\n", info.Tasks)
			fmt.Fprintf(out, "  Location: %s\n", info.Path)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&list, "list", "l", false, "list available backups")
	cmd.Flags().IntVar(&prune, "prune", 0, "delete all but the newest N backups")
	cmd.MarkFlagsMutuallyExclusive("list", "prune")
	return cmd
}

func listBackups(out io.Writer, m *backup.Manager, now time.Time) error {
	backups, err := m.List()
	if err != nil {
		return fmt.Errorf("list backups: %w", err)
	}
	if len(backups) == 0 {
		fmt.Fprintln(out, "No backups available.")
		fmt.Fprintln(out, "Run 'taskline backup' to create one.")
		return nil
	}
	fmt.Fprintln(out, "Available backups:")
	for _, b := range backups {
		fmt.Fprintf(out, "  %s  (%s)   Tasks: %d\n", b.Name, formatAge(now.Sub(b.CreatedAt)), b.Tasks)
	}
	return nil
}

func newRestoreCmd() *cobra.Command {
	var latest, force bool
	cmd := &cobra.Command{
		Use:   "restore [NAME]",
		Short: "Restore the task store from a backup",
		Long: `Replaces the task store with a backup. A safety backup of the current
store is taken first.`,
		Example: `  taskline restore --latest
  taskline restore 2024-03-15_143022_000 --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if latest == (len(args) == 1) {
				return errors.New("give a backup name or --latest")
			}
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			m := backup.NewManager(cfg.GetDataDir(), version)
			out := cmd.OutOrStdout()

			var name string
			if latest {
				backups, err := m.List()
				if err != nil {
					return err
				}
				if len(backups) == 0 {
					return backup.ErrNoBackups
				}
				name = backups[0].Name
			} else {
				name = args[0]
			}

			info, err := m.Get(name)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Restoring from backup: %s\n", info.Name)
			fmt.Fprintf(out, "  Created: %s\n", info.CreatedAt.Format("2006-01-02 15:04:05"))
			fmt.Fprintf(out, "  Tasks: %d\n\n", info.Tasks)

			if !force {
				ok, err := confirm(cmd.InOrStdin(), out, "This will overwrite your current tasks. Continue? [y/N] ")
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(out, "Restore cancelled.")
					return nil
				}
			}

			safety, err := m.Restore(name)
			if err != nil {
				return fmt.Errorf("restore %s: %w", name, err)
			}
			fmt.Fprintf(out, "✓ Safety backup: %s\n", safety)
			fmt.Fprintf(out, "✓ Restored from %s\n", name)
			return nil
		},
	}
	cmd.Flags().BoolVar(&latest, "latest", false, "restore the most recent backup")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip the confirmation prompt")
	return cmd
}

func confirm(in io.Reader, out io.Writer, prompt string) (bool, error) {
	fmt.Fprint(out, prompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("read answer: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// formatAge renders d as "just now", "5 minutes ago", "2 days ago" and so on.
func formatAge(d time.Duration) string {
	plural := func(n int, unit string) string {
		if n == 1 {
			return "1 " + unit + " ago"
		}
		return fmt.Sprintf("%d %ss ago", n, unit)
	}
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return plural(int(d.Minutes()), "minute")
	case d < 24*time.Hour:
		return plural(int(d.Hours()), "hour")
	case d < 7*24*time.Hour:
		return plural(int(d.Hours()/24), "day")
	default:
		return plural(int(d.Hours()/24/7), "week")
	}
}

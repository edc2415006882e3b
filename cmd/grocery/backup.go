package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/dukerupert/grocerymate/internal/backup"
	"github.com/dukerupert/grocerymate/internal/server"
)

var (
	backupPassphrase string
	backupKeep       int
)

func newManager(a *app) *backup.Manager {
	return backup.NewManager(server.BackupConfig(a.cfg.Backup), a.kv,
		backup.WithLogger(a.logger.With("component", "backup")))
}

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Encrypt the local store and upload it to S3-compatible storage",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(a *app) error {
			obj, err := newManager(a).Run(cmd.Context(), backupPassphrase)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Uploaded %s (%s)\n", obj.Key, humanize.Bytes(uint64(obj.Size)))
			return nil
		})
	},
}

var backupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored backups, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(a *app) error {
			objects, err := newManager(a).List(cmd.Context())
			if err != nil {
				return err
			}
			if len(objects) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No backups found.")
				return nil
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "KEY\tSIZE\tCREATED")
			for _, o := range objects {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", o.Key, humanize.Bytes(uint64(o.Size)), humanize.Time(o.LastModified))
			}
			return tw.Flush()
		})
	},
}

var backupCleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete all but the newest backups",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(a *app) error {
			keep := backupKeep
			if keep <= 0 {
				keep = a.cfg.Backup.Keep
			}
			removed, err := newManager(a).Cleanup(cmd.Context(), keep)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d backup(s), kept %d\n", removed, keep)
			return nil
		})
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore [key]",
	Short: "Replace the local store with a backup (the latest when no key is given)",
	Long:  "Restore overwrites every stored key. Stop the server first; it keeps users and lists in memory.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var key string
		if len(args) == 1 {
			key = args[0]
		}
		return withApp(func(a *app) error {
			n, err := newManager(a).Restore(cmd.Context(), key, backupPassphrase)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Restored %d entries\n", n)
			return nil
		})
	},
}

func init() {
	backupCmd.PersistentFlags().StringVar(&backupPassphrase, "passphrase", "", "Encryption passphrase (defaults to GROCERY_BACKUP_PASSPHRASE)")
	restoreCmd.Flags().StringVar(&backupPassphrase, "passphrase", "", "Encryption passphrase (defaults to GROCERY_BACKUP_PASSPHRASE)")
	backupCleanupCmd.Flags().IntVar(&backupKeep, "keep", 0, "Backups to keep (defaults to GROCERY_BACKUP_KEEP)")

	backupCmd.AddCommand(backupListCmd, backupCleanupCmd)
	rootCmd.AddCommand(backupCmd, restoreCmd)
}

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/budget-manager/internal/cli"
	"github.com/Veraticus/budget-manager/internal/storage"
)

func (a *app) backupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Snapshot and restore the database",
		Long: `Snapshot and restore the database. Backups are stored next to the
database in a backups directory.`,
	}

	cmd.AddCommand(a.backupCreateCmd())
	cmd.AddCommand(a.backupListCmd())
	cmd.AddCommand(a.backupRestoreCmd())
	cmd.AddCommand(a.backupDeleteCmd())

	return cmd
}

// withBackups runs fn with a backup manager over the configured database.
func (a *app) withBackups(cmd *cobra.Command, fn func(ctx context.Context, bm *storage.BackupManager) error) error {
	return a.withStorage(cmd, func(ctx context.Context, store *storage.SQLiteStorage) error {
		bm, err := storage.NewBackupManager(store)
		if err != nil {
			return err
		}
		return fn(ctx, bm)
	})
}

func (a *app) backupCreateCmd() *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "create [id]",
		Short: "Create a backup",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := ""
			if len(args) > 0 {
				id = args[0]
			}

			return a.withBackups(cmd, func(ctx context.Context, bm *storage.BackupManager) error {
				info, err := bm.Create(ctx, id, description)
				if err != nil {
					return err
				}
				writeLine(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf(
					"Backup '%s' created (%d categories, %d transactions, %d budgets)",
					info.ID, info.Categories, info.Transactions, info.Budgets)))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "note stored with the backup")
	return cmd
}

func (a *app) backupListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List backups, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withBackups(cmd, func(ctx context.Context, bm *storage.BackupManager) error {
				backups, err := bm.List(ctx)
				if err != nil {
					return err
				}
				return a.renderer(cmd).Backups(backups)
			})
		},
	}
}

func (a *app) backupRestoreCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "restore <id>",
		Short: "Replace the database with a backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withBackups(cmd, func(ctx context.Context, bm *storage.BackupManager) error {
				ok, err := confirm(cmd, force, fmt.Sprintf("Replace the current database with backup '%s'?", args[0]))
				if err != nil {
					return err
				}
				if !ok {
					writeLine(cmd.OutOrStdout(), cli.FormatInfo("Restore cancelled."))
					return nil
				}

				if err := bm.Restore(ctx, args[0]); err != nil {
					return err
				}
				writeLine(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Restored backup '%s'", args[0])))
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "restore without confirmation")
	return cmd
}

func (a *app) backupDeleteCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withBackups(cmd, func(ctx context.Context, bm *storage.BackupManager) error {
				ok, err := confirm(cmd, force, fmt.Sprintf("Delete backup '%s'?", args[0]))
				if err != nil {
					return err
				}
				if !ok {
					writeLine(cmd.OutOrStdout(), cli.FormatInfo("Deletion cancelled."))
					return nil
				}

				if err := bm.Delete(ctx, args[0]); err != nil {
					return err
				}
				writeLine(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Backup '%s' deleted", args[0])))
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "delete without confirmation")
	return cmd
}

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/budget-manager/internal/cli"
	"github.com/Veraticus/budget-manager/internal/common"
	"github.com/Veraticus/budget-manager/internal/model"
	"github.com/Veraticus/budget-manager/internal/storage"
)

func (a *app) categoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "category",
		Aliases: []string{"categories", "cat"},
		Short:   "Manage spending categories",
	}

	cmd.AddCommand(a.categoryAddCmd())
	cmd.AddCommand(a.categoryListCmd())
	cmd.AddCommand(a.categoryUpdateCmd())
	cmd.AddCommand(a.categoryDeleteCmd())

	return cmd
}

func (a *app) categoryAddCmd() *cobra.Command {
	var color string

	cmd := &cobra.Command{
		Use:   "add <name> [description]",
		Short: "Add a new category",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			description := ""
			if len(args) > 1 {
				description = args[1]
			}

			category, err := model.NewCategory(args[0], description, color)
			if err != nil {
				return err
			}

			return a.withStorage(cmd, func(ctx context.Context, store *storage.SQLiteStorage) error {
				id, err := store.CreateCategory(ctx, category)
				if err != nil {
					return fmt.Errorf("failed to create category %q: %w", category.Name, err)
				}
				writeLine(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Category '%s' created (ID: %s)", category.Name, id)))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&color, "color", "", "category color (hex code)")
	return cmd
}

func (a *app) categoryListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withStorage(cmd, func(ctx context.Context, store *storage.SQLiteStorage) error {
				categories, err := store.ListCategories(ctx)
				if err != nil {
					return fmt.Errorf("failed to list categories: %w", err)
				}
				return a.renderer(cmd).Categories(categories)
			})
		},
	}
}

func (a *app) categoryUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <name>",
		Short: "Update a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var update model.CategoryUpdate
			if cmd.Flags().Changed("new-name") {
				name, _ := cmd.Flags().GetString("new-name")
				update.Name = &name
			}
			if cmd.Flags().Changed("description") {
				description, _ := cmd.Flags().GetString("description")
				update.Description = &description
			}
			if cmd.Flags().Changed("color") {
				color, _ := cmd.Flags().GetString("color")
				update.Color = &color
			}
			if update.IsEmpty() {
				return common.NewUserError("nothing to update", errNoChanges)
			}

			return a.withStorage(cmd, func(ctx context.Context, store *storage.SQLiteStorage) error {
				category, err := findCategory(ctx, store, args[0])
				if err != nil {
					return err
				}

				updated, err := update.Apply(*category)
				if err != nil {
					return err
				}

				found, err := store.UpdateCategory(ctx, updated)
				if err != nil {
					return fmt.Errorf("failed to update category %q: %w", category.Name, err)
				}
				if !found {
					return model.NewNotFoundError("category", category.Name)
				}

				writeLine(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Category '%s' updated", updated.Name)))
				return nil
			})
		},
	}

	cmd.Flags().String("new-name", "", "new category name")
	cmd.Flags().String("description", "", "new description")
	cmd.Flags().String("color", "", "new color (hex code)")
	return cmd
}

func (a *app) categoryDeleteCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a category",
		Long: `Delete a category. Its transactions and budgets are kept and keep
referring to the deleted category.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStorage(cmd, func(ctx context.Context, store *storage.SQLiteStorage) error {
				category, err := findCategory(ctx, store, args[0])
				if err != nil {
					return err
				}

				ok, err := confirm(cmd, force, fmt.Sprintf("Delete category '%s'?", category.Name))
				if err != nil {
					return err
				}
				if !ok {
					writeLine(cmd.OutOrStdout(), cli.FormatInfo("Deletion cancelled."))
					return nil
				}

				found, err := store.DeleteCategory(ctx, category.ID)
				if err != nil {
					return fmt.Errorf("failed to delete category %q: %w", category.Name, err)
				}
				if !found {
					return model.NewNotFoundError("category", category.Name)
				}

				writeLine(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Category '%s' deleted", category.Name)))
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "delete without confirmation")
	return cmd
}

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/budget-manager/internal/storage"
)

func TestBackupCommands(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("category", "add", "Food")
	env.mustRun("transaction", "add", "expense", "-a", "10", "-d", "Snack", "-c", "Food")

	out := env.mustRun("backup", "create", "before-cleanup", "-d", "pre cleanup")
	assert.Contains(t, out, "Backup 'before-cleanup' created (1 categories, 1 transactions, 0 budgets)")

	t.Run("duplicate id", func(t *testing.T) {
		_, err := env.run("backup", "create", "before-cleanup")
		assert.ErrorIs(t, err, storage.ErrBackupExists)
	})

	t.Run("list", func(t *testing.T) {
		out := env.mustRun("backup", "list")
		assert.Contains(t, out, "before-cleanup")
		assert.Contains(t, out, "pre cleanup")
	})

	t.Run("restore", func(t *testing.T) {
		env.mustRun("category", "add", "Travel")
		assert.Contains(t, env.mustRun("category", "list"), "Travel")

		out, err := env.runWithInput("n\n", "backup", "restore", "before-cleanup")
		require.NoError(t, err)
		assert.Contains(t, out, "Restore cancelled.")
		assert.Contains(t, env.mustRun("category", "list"), "Travel")

		out = env.mustRun("backup", "restore", "before-cleanup", "--force")
		assert.Contains(t, out, "Restored backup 'before-cleanup'")

		out = env.mustRun("category", "list")
		assert.Contains(t, out, "Food")
		assert.NotContains(t, out, "Travel")
		assert.Contains(t, env.mustRun("transaction", "list"), "Snack")
	})

	t.Run("restore missing", func(t *testing.T) {
		_, err := env.run("backup", "restore", "nope", "--force")
		assert.ErrorIs(t, err, storage.ErrBackupNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		out := env.mustRun("backup", "delete", "before-cleanup", "--force")
		assert.Contains(t, out, "Backup 'before-cleanup' deleted")
		assert.Contains(t, env.mustRun("backup", "list"), "No backups found.")
	})
}

func TestDashboardCmd_Flags(t *testing.T) {
	cmd := newApp().dashboardCmd()

	flag := cmd.Flag("theme")
	require.NotNil(t, flag)
	assert.Equal(t, "default", flag.DefValue)
}

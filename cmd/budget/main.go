package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/budget-manager/internal/cli"
	"github.com/Veraticus/budget-manager/internal/common"
	"github.com/Veraticus/budget-manager/internal/config"
	"github.com/Veraticus/budget-manager/internal/sheets"
)

var version = "dev"

// app carries state shared by every command of one invocation.
type app struct {
	v       *viper.Viper
	cfg     *config.Config
	cfgFile string

	// newSheetsWriter is swapped out in tests.
	newSheetsWriter func(ctx context.Context, cfg sheets.Config) (sheets.ReportWriter, error)
}

func newApp() *app {
	return &app{
		v: viper.New(),
		newSheetsWriter: func(ctx context.Context, cfg sheets.Config) (sheets.ReportWriter, error) {
			return sheets.NewWriter(ctx, cfg, slog.Default())
		},
	}
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "budget",
		Short: cli.WalletIcon + " Personal finance tracking",
		Long: `budget records income and expenses by category, tracks spending against
weekly, monthly and yearly budgets, and produces financial reports.

Examples:
  budget category add Food "Restaurant and grocery expenses"
  budget transaction add expense -a 50.00 -d "Grocery shopping" -c Food
  budget budget set Food 500.00 monthly
  budget transaction list --last-month
  budget report monthly`,
		PersistentPreRunE: a.initConfig,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default: $HOME/.config/budget/config.yaml)")
	flags.String("db", "", "database file (default: "+config.DefaultDatabasePath+")")
	flags.String("log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	flags.String("log-format", config.DefaultLogFormat, "log format (console, json)")

	_ = a.v.BindPFlag(config.KeyDatabasePath, flags.Lookup("db"))
	_ = a.v.BindPFlag(config.KeyLogLevel, flags.Lookup("log-level"))
	_ = a.v.BindPFlag(config.KeyLogFormat, flags.Lookup("log-format"))

	rootCmd.AddCommand(a.categoryCmd())
	rootCmd.AddCommand(a.transactionCmd())
	rootCmd.AddCommand(a.budgetCmd())
	rootCmd.AddCommand(a.reportCmd())
	rootCmd.AddCommand(a.importOFXCmd())
	rootCmd.AddCommand(a.dashboardCmd())
	rootCmd.AddCommand(a.backupCmd())
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		slog.Info("Received interrupt signal, shutting down gracefully...")
		cancel()
	}()

	err := newRootCmd(newApp()).ExecuteContext(ctx)
	cancel()

	if err != nil {
		fmt.Fprintln(os.Stderr, cli.FormatError(err.Error()))
		os.Exit(1)
	}
}

func (a *app) initConfig(_ *cobra.Command, _ []string) error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	configDir := filepath.Join(home, ".config", "budget")

	if err := config.LoadDotEnv(".env", filepath.Join(configDir, ".env")); err != nil {
		return err
	}

	config.SetDefaults(a.v)
	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	} else {
		a.v.AddConfigPath(configDir)
		a.v.AddConfigPath(".")
		a.v.SetConfigName("config")
		a.v.SetConfigType("yaml")
	}

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg, err := config.Load(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg

	level, err := common.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return err
	}
	common.SetupLogger(level, cfg.Logging.Format)
	slog.Debug("configuration loaded", "config_file", a.v.ConfigFileUsed(), "database", cfg.Database.Path)
	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "budget version "+version)
		},
	}
}

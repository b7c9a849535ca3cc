package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/clockstorm/internal/config"
	"github.com/Tiliavir/clockstorm/internal/logger"
	"github.com/Tiliavir/clockstorm/internal/storage"
)

var (
	configPath   string
	debugMode    bool
	storeBackend string

	// Set up by PersistentPreRunE for every command.
	baseDir  string
	appCfg   config.Config
	appStore storage.Store

	// now is replaced in tests.
	now = time.Now
)

var rootCmd = &cobra.Command{
	Use:   "clockstorm",
	Short: "Clock Storm – timesheet reminders that do not let you forget",
	Long: `clockstorm keeps a local copy of your weekly timesheet and reminds you to
fill in each day and to submit the week (and the month) before it is due.
All data is stored under ~/.clockstorm/.`,
	SilenceUsage:       true,
	SilenceErrors:      true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

// exitError carries a specific process exit code.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

// dataError marks failures of the local data directory or store, which exit
// with status 2.
func dataError(err error) error {
	return &exitError{code: 2, err: err}
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		var ee *exitError
		if errors.As(err, &ee) {
			os.Exit(ee.code)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.clockstorm/config.json)")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Log debug output to stderr")
	rootCmd.PersistentFlags().StringVar(&storeBackend, "store", "", "Store backend: file, sqlite, memory (overrides config)")

	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(notificationsCmd)
	rootCmd.AddCommand(weeksCmd)
	rootCmd.AddCommand(optionsCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(exportCmd)
}

func setup(cmd *cobra.Command, args []string) error {
	var err error
	baseDir, err = storage.BaseDir()
	if err != nil {
		return dataError(err)
	}
	if err := logger.Init(logger.Config{Debug: debugMode, BaseDir: baseDir}); err != nil {
		return dataError(fmt.Errorf("initializing logger: %w", err))
	}

	path := configPath
	if path == "" {
		if path, err = config.DefaultPath(); err != nil {
			return err
		}
	}
	if appCfg, err = config.Load(path); err != nil {
		return err
	}
	if storeBackend != "" {
		appCfg.Store.Backend = storeBackend
	}

	appStore, err = storage.Open(appCfg.Store.Backend, appCfg.Store.StorePath(baseDir))
	if err != nil {
		return dataError(err)
	}
	logger.Debug("store opened", "backend", appCfg.Store.Backend, "command", cmd.Name())
	return nil
}

func teardown(cmd *cobra.Command, args []string) error {
	if appStore == nil {
		return nil
	}
	err := appStore.Close()
	appStore = nil
	return err
}

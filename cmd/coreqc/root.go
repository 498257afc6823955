package main

import (
	"fmt"

	"github.com/rpattn/coreqc/internal/catalog"
	"github.com/rpattn/coreqc/internal/config"
	"github.com/rpattn/coreqc/internal/qc"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	cfgFile string
	v       *viper.Viper
	cfg     config.Config
	logger  *zap.Logger
)

// rootCmd is the base command when called without subcommands.
var rootCmd = &cobra.Command{
	Use:   "coreqc",
	Short: "CoreQC - quality check of recall logs",
	Long: `CoreQC proofreads well-log CSV exports against the QC settings workbook
and reports every warning and error before the logs are loaded.

Single mode: pass the path of one .csv log.
Bulk mode: pass a directory; every log in the tree is checked.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		v = config.New(cfgFile, "")
		if err := bindFlags(cmd); err != nil {
			return err
		}

		var err error
		cfg, _, err = config.Load(v)
		if err != nil {
			return err
		}

		level, err := zapcore.ParseLevel(cfg.LogLevel)
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
		}
		zapConfig := zap.NewProductionConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(level)
		logger, err = zapConfig.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		if used := v.ConfigFileUsed(); used != "" {
			logger.Debug("Loaded config", zap.String("file", used))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: ./config.yaml)")
	rootCmd.PersistentFlags().StringP("settings", "s", "", "QC settings workbook (default: QC_Settings.xlsx)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().Int("workers", 0, "logs validated in parallel")

	rootCmd.AddCommand(checkCmd, serveCmd, watchCmd)
}

// flagKeys maps command line flags onto config keys.
var flagKeys = map[string]string{
	"settings":   "settings",
	"log-level":  "log.level",
	"workers":    "workers",
	"split":      "split",
	"output-dir": "output_dir",
	"report":     "report",
	"save":       "database.enabled",
	"addr":       "server.addr",
}

// bindFlags lets the running command's flags override config and environment
// values. Viper only prefers a flag over the config file when it was set.
func bindFlags(cmd *cobra.Command) error {
	for flag, key := range flagKeys {
		f := cmd.Flags().Lookup(flag)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", flag, err)
		}
	}
	return nil
}

// newService loads the settings workbook and builds the QC service.
func newService() (*qc.Service, catalog.Result, error) {
	logger.Info("Reading settings workbook", zap.String("path", cfg.SettingsPath))
	loaded, err := catalog.Load(cfg.SettingsPath, cfg.Limits.MetadataColumns)
	if err != nil {
		return nil, catalog.Result{}, err
	}
	for _, warning := range loaded.Warnings {
		logger.Warn("Settings workbook", zap.String("finding", warning.String()))
	}

	service, err := qc.NewService(loaded.Catalog, cfg.Limits,
		qc.WithLogger(logger),
		qc.WithWorkers(cfg.Workers),
	)
	if err != nil {
		return nil, catalog.Result{}, err
	}
	return service, loaded, nil
}

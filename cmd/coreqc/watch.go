package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rpattn/coreqc/internal/report"
	"github.com/rpattn/coreqc/internal/tabular"
	"github.com/rpattn/coreqc/internal/watcher"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var settleDelay time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch <directory>",
	Short: "Check logs as they are written into a directory tree",
	Args:  cobra.ExactArgs(1),
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().Bool("split", false, "split wide logs into column chunks after validation")
	watchCmd.Flags().String("output-dir", "", "directory for split chunks (default: next to each log)")
	watchCmd.Flags().DurationVar(&settleDelay, "settle", watcher.DefaultSettle, "quiet period before a changed log is checked")
	watchCmd.Flags().BoolVar(&noColor, "no-color", false, "disable coloured output")
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := tabular.Discover(args[0], cfg.Limits.Extension); err != nil {
		return err
	}

	service, loaded, err := newService()
	if err != nil {
		return err
	}

	isLog := func(path string) bool {
		return tabular.HasExtension(path, cfg.Limits.Extension)
	}
	w, err := watcher.New(args[0], isLog, settleDelay, logger)
	if err != nil {
		return err
	}

	// Chunks written by the split would trigger another check of themselves.
	exported := make(map[string]struct{})

	logger.Info("Watching for logs", zap.String("path", args[0]))
	err = w.Run(ctx, func(path string) {
		if _, ok := exported[path]; ok {
			delete(exported, path)
			return
		}

		result := service.ValidateFile(path)
		if cfg.Split && len(result.Table.Columns) > 0 {
			written, err := service.Export(result.Table, path, cfg.OutputDir)
			if err != nil {
				logger.Warn("Failed to export chunks", zap.String("log", path), zap.Error(err))
			}
			for _, chunk := range written {
				exported[chunk] = struct{}{}
			}
			result.Chunks = written
		}

		run := report.NewRun(args[0], time.Now())
		run.CatalogWarnings = append(run.CatalogWarnings, loaded.Warnings...)
		run.Logs = append(run.Logs, result)
		if err := report.WriteText(cmd.OutOrStdout(), run, report.TextOptions{Color: !noColor}); err != nil {
			logger.Warn("Failed to print report", zap.Error(err))
		}
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

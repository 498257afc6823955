package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rpattn/coreqc/internal/db"
	"github.com/rpattn/coreqc/internal/qc"
	"github.com/rpattn/coreqc/internal/report"
	"github.com/rpattn/coreqc/internal/repository"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	askSplitFlag bool
	outputFormat string
	noColor      bool
)

var checkCmd = &cobra.Command{
	Use:   "check <path>",
	Short: "Check one log or every log in a directory tree",
	Long: `Check validates the metadata columns, mnemonics, units and value ranges of
each log, repairs duplicated DEPTH keys and prints every finding.

Examples:
  coreqc check logs/WELL_A.csv
  coreqc check logs/ --split --output-dir parts/
  coreqc check logs/ --report qc_report.json.zst`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().Bool("split", false, "split wide logs into column chunks after validation")
	checkCmd.Flags().BoolVar(&askSplitFlag, "ask", false, "ask whether to split logs after validation")
	checkCmd.Flags().String("output-dir", "", "directory for split chunks (default: next to each log)")
	checkCmd.Flags().String("report", "", "also save the report to this file (.txt, .json, optionally .zst)")
	checkCmd.Flags().Bool("save", false, "store the run in the database")
	checkCmd.Flags().StringVarP(&outputFormat, "output", "o", "text", "output format: text, json")
	checkCmd.Flags().BoolVar(&noColor, "no-color", false, "disable coloured output")
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	service, loaded, err := newService()
	if err != nil {
		return err
	}

	split := cfg.Split
	if askSplitFlag {
		split, err = askSplit(cmd.InOrStdin(), cmd.ErrOrStderr())
		if err != nil {
			return err
		}
	}

	run, err := service.Run(ctx, qc.RunConfig{
		Path:            args[0],
		Split:           split,
		OutputDir:       cfg.OutputDir,
		CatalogWarnings: loaded.Warnings,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch strings.ToLower(outputFormat) {
	case "json":
		err = report.WriteJSON(out, run)
	case "text":
		err = report.WriteText(out, run, report.TextOptions{Color: !noColor})
	default:
		return fmt.Errorf("unknown output format %q", outputFormat)
	}
	if err != nil {
		return err
	}

	if cfg.ReportPath != "" {
		if err := report.SaveFile(cfg.ReportPath, run); err != nil {
			return err
		}
		logger.Info("Saved report", zap.String("path", cfg.ReportPath))
	}

	if cfg.Database.Enabled {
		if err := saveRun(ctx, run); err != nil {
			return err
		}
	}
	return nil
}

// askSplit asks once per run whether the logs should be split.
func askSplit(in io.Reader, out io.Writer) (bool, error) {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "\nSplit logs? (y / n) ")
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return false, fmt.Errorf("failed to read answer: %w", err)
			}
			return false, io.ErrUnexpectedEOF
		}
		switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
		case "y":
			return true, nil
		case "n":
			return false, nil
		}
	}
}

func saveRun(ctx context.Context, run *report.Run) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	conn, err := db.NewConnection(ctx, cfg.Database.Config)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := db.RunMigrations(ctx, conn.Pool, db.Migrations()); err != nil {
		return err
	}

	if err := repository.NewRunRepository(conn.Pool).Save(ctx, run); err != nil {
		return err
	}
	logger.Info("Stored run", zap.String("run_id", run.ID.String()))
	return nil
}

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	appRepos "github.com/yigit/egresados/internal/app/repositories"
	appServices "github.com/yigit/egresados/internal/app/services"
	"github.com/yigit/egresados/internal/bootstrap"
	"github.com/yigit/egresados/internal/importer"
	"github.com/yigit/egresados/internal/pkg/spreadsheet"
)

type runOptions struct {
	file       string
	sheet      string
	maxRows    int
	report     string
	emptyOther bool
	quiet      bool
}

func newRunCmd(configPath *string) *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Import one workbook and print the run summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.Context(), *configPath, opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVar(&opts.file, "file", "", "Survey workbook (.xlsx) (required)")
	cmd.Flags().StringVar(&opts.sheet, "sheet", "", "Sheet name (default: first sheet)")
	cmd.Flags().IntVar(&opts.maxRows, "max-rows", 0, "Read at most this many data rows (0: all)")
	cmd.Flags().StringVar(&opts.report, "report", "", "Write unresolved rows to this .xlsx file")
	cmd.Flags().BoolVar(&opts.emptyOther, "empty-other", false, "Store blank categorical answers as Otro / No informado")
	cmd.Flags().BoolVar(&opts.quiet, "quiet", false, "Do not print progress")

	_ = cmd.MarkFlagRequired("file")

	cmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		if opts.file == "" {
			return errors.New(`required flag(s) "file" not set`)
		}
		if opts.maxRows < 0 {
			return errors.New("--max-rows cannot be negative")
		}
		if _, err := os.Stat(opts.file); err != nil {
			return fmt.Errorf("invalid --file: %w", err)
		}
		return nil
	}

	return cmd
}

func runImport(ctx context.Context, configPath string, opts runOptions, stdout, stderr io.Writer) error {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(configPath)
	if err != nil {
		return err
	}
	if opts.sheet != "" {
		cfg.Import.Sheet = opts.sheet
	}
	if opts.maxRows > 0 {
		cfg.Import.MaxRows = opts.maxRows
	}
	if opts.emptyOther {
		cfg.Import.EmptyAnswersAsOther = true
	}

	database, err := bootstrap.SetupDatabase(ctx, cfg, lgr)
	if err != nil {
		return err
	}
	defer database.Close()

	storage, err := bootstrap.NewFileStorage(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize file storage: %w", err)
	}

	engineCfg := bootstrap.EngineConfig(cfg, lgr)
	if !opts.quiet {
		engineCfg.OnProgress = func(done, total int) {
			fmt.Fprintf(stderr, "\rprocessed %d/%d", done, total)
			if done == total {
				fmt.Fprintln(stderr)
			}
		}
	}
	services := appServices.NewServices(appRepos.NewRepositories(database.Pool), storage,
		engineCfg, bootstrap.ReadOptions(cfg), lgr)

	f, err := os.Open(opts.file)
	if err != nil {
		return err
	}
	defer f.Close()

	run, summary, importErr := services.ImportService.Import(ctx, filepath.Base(opts.file), f)
	if run == nil {
		return importErr
	}

	printSummary(stdout, run.ID.String(), summary)

	if opts.report != "" && len(summary.Unresolved) > 0 {
		if err := writeReport(opts.report, summary.Unresolved); err != nil {
			return errors.Join(importErr, err)
		}
		fmt.Fprintf(stdout, "unresolved rows written to %s\n", opts.report)
	}
	return importErr
}

func printSummary(w io.Writer, runID string, s importer.Summary) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "run\t%s\n", runID)
	fmt.Fprintf(tw, "rows\t%d\n", s.TotalRows)
	fmt.Fprintf(tw, "created\t%d\n", s.Created)
	fmt.Fprintf(tw, "updated\t%d\n", s.Updated)
	fmt.Fprintf(tw, "failed\t%d\n", s.Failed)
	fmt.Fprintf(tw, "students created\t%d\n", s.StudentsCreated)
	fmt.Fprintf(tw, "not found\t%d\n", s.NotFound)
	fmt.Fprintf(tw, "duplicated\t%d\n", s.Duplicated)
	_ = tw.Flush()
}

func writeReport(path string, rows []importer.UnresolvedRow) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	if err := spreadsheet.WriteUnresolvedReport(out, rows); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

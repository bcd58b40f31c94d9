package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/insightdelivered/cardstatement/internal/extractor"
	"github.com/insightdelivered/cardstatement/internal/models"
	"github.com/insightdelivered/cardstatement/internal/observability"
	"github.com/insightdelivered/cardstatement/internal/parser"
	"github.com/insightdelivered/cardstatement/internal/summary"
	"github.com/insightdelivered/cardstatement/internal/writer"
)

// convertJob carries the settings shared by every file of one convert run.
type convertJob struct {
	format      writer.Format
	outputDir   string
	password    string
	options     []parser.Option
	summarySave bool
	logger      *zap.Logger
}

// convertResult is what one converted statement produced.
type convertResult struct {
	input   string
	lines   int
	stmt    *models.Statement
	outputs []string
}

func convertCommand() *cli.Command {
	return &cli.Command{
		Name:      "convert",
		Usage:     "Convert statement PDFs (or extracted .txt files) into section exports",
		ArgsUsage: "<statement.pdf> [statement2.pdf ...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Export format: csv, xlsx, json, yaml or none",
				Value:   "csv",
			},
			&cli.StringFlag{
				Name:    "output-dir",
				Aliases: []string{"o"},
				Usage:   "Directory for exports (defaults to each input's directory)",
			},
			&cli.StringFlag{
				Name:  "password",
				Usage: "Password for encrypted statements; overrides PDF_PASSWORD",
			},
			&cli.BoolFlag{
				Name:  "strict",
				Usage: "Fail on the first unparseable transaction line; overrides STRICT_PARSE",
			},
			&cli.StringFlag{
				Name:  "date-detector",
				Usage: "Transaction date detection, strict or leading-digit; overrides DATE_DETECTOR",
			},
			&cli.BoolFlag{
				Name:  "summary-print",
				Usage: "Print expenses aggregated by description",
			},
			&cli.BoolFlag{
				Name:  "summary-save",
				Usage: "Save expenses aggregated by description as <input>_expense_summary.csv",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Statements converted concurrently",
				Value: 4,
			},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return fmt.Errorf("at least one statement file is required")
			}

			format, err := writer.ParseFormat(c.String("format"))
			if err != nil {
				return err
			}

			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			if c.IsSet("password") {
				cfg.PDFPassword = c.String("password")
			}
			if c.IsSet("strict") {
				cfg.StrictParse = c.Bool("strict")
			}
			if c.IsSet("date-detector") {
				cfg.DateDetector = c.String("date-detector")
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			if dir := c.String("output-dir"); dir != "" {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return fmt.Errorf("failed to create output directory: %w", err)
				}
			}

			logger := observability.NewLogger(cfg.LogLevel)
			defer logger.Sync()

			job := &convertJob{
				format:      format,
				outputDir:   c.String("output-dir"),
				password:    cfg.PDFPassword,
				options:     cfg.ParserOptions(),
				summarySave: c.Bool("summary-save"),
				logger:      logger,
			}

			results, err := job.run(c.Context, c.Args().Slice(), c.Int("workers"))
			if err != nil {
				return err
			}
			return report(c.App.Writer, results, c.Bool("summary-print"))
		},
	}
}

// run converts every input concurrently and returns the results in input order.
func (j *convertJob) run(ctx context.Context, inputs []string, workers int) ([]*convertResult, error) {
	if workers < 1 {
		workers = 1
	}
	results := make([]*convertResult, len(inputs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, input := range inputs {
		i, input := i, input
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := j.convertFile(input)
			if err != nil {
				return fmt.Errorf("error processing %s: %w", input, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (j *convertJob) convertFile(input string) (*convertResult, error) {
	if _, err := os.Stat(input); os.IsNotExist(err) {
		return nil, fmt.Errorf("input file not found: %s", input)
	}
	log := j.logger.With(zap.String("file", input))

	start := time.Now()
	lines, err := extractor.Load(input, j.password)
	if err != nil {
		return nil, fmt.Errorf("extraction failed: %w", err)
	}
	log.Debug("statement text extracted", zap.Int("lines", len(lines)), zap.Duration("took", time.Since(start)))

	stmt, err := parser.New(j.options...).Parse(lines)
	if err != nil {
		return nil, fmt.Errorf("parsing failed: %w", err)
	}

	for _, pe := range stmt.ParseErrors {
		log.Warn("transaction line skipped", zap.String("section", string(pe.Section)), zap.String("line", pe.Line), zap.String("reason", pe.Reason))
	}
	for _, w := range stmt.Warnings {
		log.Warn("empty section", zap.String("section", string(w.Section)))
	}

	base := outputBase(input, j.outputDir)
	outputs, err := writer.Export(base, j.format, stmt)
	if err != nil {
		return nil, fmt.Errorf("export failed: %w", err)
	}
	if j.summarySave {
		path, err := summary.SaveCSV(base, summary.Expenses(stmt))
		if err != nil {
			return nil, err
		}
		outputs = append(outputs, path)
	}

	counts := stmt.Counts()
	log.Info("statement converted",
		zap.Int("lines", len(lines)),
		zap.Strings("boundaries", stmt.Boundaries),
		zap.Int("fees", counts[models.SectionFees]),
		zap.Int("refunds", counts[models.SectionRefunds]),
		zap.Int("primary_expenses", counts[models.SectionPrimary]),
		zap.Int("secondary_expenses", counts[models.SectionSecondary]),
		zap.Int("parse_errors", len(stmt.ParseErrors)),
		zap.Duration("took", time.Since(start)),
	)

	return &convertResult{input: input, lines: len(lines), stmt: stmt, outputs: outputs}, nil
}

// outputBase is the input path without extension, moved to dir when one is given.
func outputBase(input, dir string) string {
	base := strings.TrimSuffix(input, filepath.Ext(input))
	if dir == "" {
		return base
	}
	return filepath.Join(dir, filepath.Base(base))
}

func report(out io.Writer, results []*convertResult, printSummary bool) error {
	for _, res := range results {
		fmt.Fprintf(out, "Processing: %s\n", res.input)
		fmt.Fprintf(out, "  Extracted %d line(s)\n", res.lines)
		for _, section := range models.Sections {
			fmt.Fprintf(out, "  %-28s %d record(s)\n", section.Title()+":", len(res.stmt.Records(section)))
		}
		if n := len(res.stmt.ParseErrors); n > 0 {
			fmt.Fprintf(out, "  Warning: %d transaction line(s) could not be parsed\n", n)
		}
		for _, w := range res.stmt.Warnings {
			fmt.Fprintf(out, "  Warning: %s\n", w)
		}
		for _, path := range res.outputs {
			fmt.Fprintf(out, "  Output: %s\n", path)
		}
		if printSummary {
			fmt.Fprintln(out)
			if err := summary.Print(out, summary.Expenses(res.stmt)); err != nil {
				return err
			}
		}
		fmt.Fprintln(out, "  Done.")
	}
	return nil
}

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/m-mizutani/goerr/v2"
	"github.com/syokota-cyber/study-tracker/pkg/adapter"
	"github.com/syokota-cyber/study-tracker/pkg/export"
	"github.com/syokota-cyber/study-tracker/pkg/usecase/record"
	"github.com/syokota-cyber/study-tracker/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

const stdoutPath = "-"

// startSpinner shows progress on w while a cloud call runs. It is a no-op when
// w is not a terminal.
func startSpinner(w io.Writer, msg string) func() {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(w))
	s.Suffix = " " + msg
	s.Start()
	return s.Stop
}

func exportCommand() *cli.Command {
	var (
		cfg           config
		filter        filterConfig
		format        string
		output        string
		allFields     bool
		bigqueryTable string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "format",
			Aliases:     []string{"f"},
			Usage:       "Export format (csv, json, txt, yaml)",
			Value:       string(export.FormatCSV),
			Destination: &format,
		},
		&cli.StringFlag{
			Name:        "output",
			Aliases:     []string{"o"},
			Usage:       "Output file, gs://bucket/object or - for stdout (default: generated file name)",
			Destination: &output,
		},
		&cli.BoolFlag{
			Name:        "all-fields",
			Usage:       "Include content, study hours and updated_at",
			Destination: &allFields,
		},
		&cli.StringFlag{
			Name:        "bigquery-table",
			Usage:       "Also insert the records into project.dataset.table",
			Sources:     cli.EnvVars("STUDY_TRACKER_BIGQUERY_TABLE"),
			Destination: &bigqueryTable,
		},
	}
	flags = append(flags, filterFlags(&filter)...)
	flags = append(flags, globalFlags(&cfg)...)

	return &cli.Command{
		Name:  "export",
		Usage: "Export study records to a file, Cloud Storage or BigQuery",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}

			criteria, err := filter.criteria(c)
			if err != nil {
				return err
			}

			var tableRef adapter.TableRef
			if bigqueryTable != "" {
				if tableRef, err = adapter.ParseTableRef(bigqueryTable); err != nil {
					return err
				}
			}

			ctx = cfg.withLogger(ctx, c)
			uc, closeStore, err := cfg.newUseCase(ctx)
			if err != nil {
				return err
			}
			defer closeStore()

			opts := record.ExportOptions{
				Format:    f,
				AllFields: allFields,
				Criteria:  criteria,
			}
			if output == "" {
				output = f.FileName(uc.Now())
			}

			count, err := exportTo(ctx, c, &cfg, uc, output, opts)
			if err != nil {
				return err
			}
			if output != stdoutPath {
				fmt.Fprintf(c.Root().Writer, "Exported %d records to %s\n", count, output)
			}

			if bigqueryTable != "" {
				if err := exportToBigQuery(ctx, c, uc, tableRef, opts); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

// exportTo writes the export to stdout, a local file or a Cloud Storage object
func exportTo(ctx context.Context, c *cli.Command, cfg *config, uc *record.UseCase, output string, opts record.ExportOptions) (int, error) {
	if output == stdoutPath {
		return uc.Export(ctx, c.Root().Writer, opts)
	}

	if !adapter.IsObjectURL(output) {
		return writeFile(ctx, output, func(w io.Writer) (int, error) {
			return uc.Export(ctx, w, opts)
		})
	}

	u, err := adapter.ParseObjectURL(output)
	if err != nil {
		return 0, err
	}
	storage, err := cfg.newStorage(ctx, u.Bucket)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err := storage.Close(); err != nil {
			logging.From(ctx).Warn("failed to close storage client", logging.ErrAttr(err))
		}
	}()

	stop := startSpinner(c.Root().ErrWriter, "uploading to "+u.String())
	defer stop()

	writer, err := storage.Put(ctx, u.Object)
	if err != nil {
		return 0, err
	}
	count, err := uc.Export(ctx, writer, opts)
	if err != nil {
		_ = writer.Close()
		return 0, err
	}
	if err := writer.Close(); err != nil {
		return 0, goerr.Wrap(err, "failed to upload export", goerr.V("url", u))
	}
	return count, nil
}

// writeFile creates path and fills it with write. A partially written file is
// removed when write fails.
func writeFile(ctx context.Context, path string, write func(w io.Writer) (int, error)) (int, error) {
	file, err := os.Create(path)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to create output file", goerr.V("path", path))
	}

	count, err := write(file)
	if closeErr := file.Close(); err == nil && closeErr != nil {
		err = goerr.Wrap(closeErr, "failed to close output file", goerr.V("path", path))
	}
	if err != nil {
		if rmErr := os.Remove(path); rmErr != nil {
			logging.From(ctx).Warn("failed to remove incomplete output file", "path", path, logging.ErrAttr(rmErr))
		}
		return 0, err
	}
	return count, nil
}

func exportToBigQuery(ctx context.Context, c *cli.Command, uc *record.UseCase, ref adapter.TableRef, opts record.ExportOptions) error {
	records, err := uc.Snapshot(ctx, opts.Criteria)
	if err != nil {
		return err
	}

	bq, err := adapter.NewBigQuery(ctx, ref)
	if err != nil {
		return err
	}
	defer func() {
		if err := bq.Close(); err != nil {
			logging.From(ctx).Warn("failed to close BigQuery client", logging.ErrAttr(err))
		}
	}()

	stop := startSpinner(c.Root().ErrWriter, "inserting into "+ref.String())
	if err := bq.EnsureTable(ctx); err != nil {
		stop()
		return err
	}
	err = bq.InsertRecords(ctx, records)
	stop()
	if err != nil {
		return err
	}

	fmt.Fprintf(c.Root().Writer, "Inserted %d records into %s\n", len(records), ref)
	return nil
}

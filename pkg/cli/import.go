package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/syokota-cyber/study-tracker/pkg/adapter"
	"github.com/syokota-cyber/study-tracker/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func importCommand() *cli.Command {
	var (
		cfg   config
		input string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "input",
			Aliases:     []string{"i"},
			Usage:       "JSON export file or gs://bucket/object",
			Destination: &input,
			Required:    true,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)

	return &cli.Command{
		Name:  "import",
		Usage: "Import study records from a JSON export",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.withLogger(ctx, c)

			reader, err := openInput(ctx, c, &cfg, input)
			if err != nil {
				return err
			}
			defer reader.Close()

			uc, closeStore, err := cfg.newUseCase(ctx)
			if err != nil {
				return err
			}
			defer closeStore()

			count, err := uc.Import(ctx, reader)
			if err != nil {
				return goerr.Wrap(err, "failed to import records", goerr.V("input", input))
			}

			fmt.Fprintf(c.Root().Writer, "Imported %d records from %s\n", count, input)
			return nil
		},
	}
}

// storageObject closes both the object reader and the client it came from
type storageObject struct {
	io.ReadCloser
	storage adapter.Storage
	ctx     context.Context
}

func (o *storageObject) Close() error {
	err := o.ReadCloser.Close()
	if closeErr := o.storage.Close(); closeErr != nil {
		logging.From(o.ctx).Warn("failed to close storage client", logging.ErrAttr(closeErr))
	}
	return err
}

func openInput(ctx context.Context, c *cli.Command, cfg *config, input string) (io.ReadCloser, error) {
	if !adapter.IsObjectURL(input) {
		file, err := os.Open(input)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to open input file", goerr.V("path", input))
		}
		return file, nil
	}

	u, err := adapter.ParseObjectURL(input)
	if err != nil {
		return nil, err
	}
	storage, err := cfg.newStorage(ctx, u.Bucket)
	if err != nil {
		return nil, err
	}

	stop := startSpinner(c.Root().ErrWriter, "downloading "+u.String())
	defer stop()

	reader, err := storage.Get(ctx, u.Object)
	if err != nil {
		_ = storage.Close()
		return nil, err
	}
	return &storageObject{ReadCloser: reader, storage: storage, ctx: ctx}, nil
}

package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/syokota-cyber/study-tracker/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// Version is reported by the API root endpoint and the MCP server
var Version = "dev"

type Error struct {
	Code    int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Option is a functional option for Run
type Option func(*cli.Command)

// WithWriter sets the writer for command output
func WithWriter(w io.Writer) Option {
	return func(cmd *cli.Command) {
		cmd.Writer = w
	}
}

// WithErrWriter sets the writer for logs, progress and error messages
func WithErrWriter(w io.Writer) Option {
	return func(cmd *cli.Command) {
		cmd.ErrWriter = w
	}
}

func Run(ctx context.Context, argv []string, opts ...Option) *Error {
	cmd := &cli.Command{
		Name:    "study-tracker",
		Usage:   "Personal study record tracker",
		Version: Version,
		Commands: []*cli.Command{
			addCommand(),
			listCommand(),
			showCommand(),
			updateCommand(),
			deleteCommand(),
			searchCommand(),
			statsCommand(),
			exportCommand(),
			importCommand(),
			serveCommand(),
			mcpCommand(),
		},
	}
	for _, opt := range opts {
		opt(cmd)
	}

	if err := cmd.Run(ctx, argv); err != nil {
		logging.From(ctx).Debug("command failed", logging.ErrAttr(err))
		if cmd.ErrWriter != nil {
			fmt.Fprintf(cmd.ErrWriter, "Error: %s\n", err.Error())
		}
		return &Error{
			Code:    1,
			Message: err.Error(),
		}
	}

	return nil
}

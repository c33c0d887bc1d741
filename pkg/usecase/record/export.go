package record

import (
	"context"
	"io"

	"github.com/syokota-cyber/study-tracker/pkg/export"
	"github.com/syokota-cyber/study-tracker/pkg/query"
	"github.com/syokota-cyber/study-tracker/pkg/utils/logging"
)

// ExportOptions controls export format and the exported record set
type ExportOptions struct {
	Format    export.Format
	AllFields bool
	Criteria  query.Criteria
}

// Export writes the filtered snapshot to w and returns the number of records
func (u *UseCase) Export(ctx context.Context, w io.Writer, opts ExportOptions) (int, error) {
	records, err := u.Snapshot(ctx, opts.Criteria)
	if err != nil {
		return 0, err
	}

	if err := export.Write(w, records, opts.Format, opts.AllFields); err != nil {
		return 0, err
	}

	logging.From(ctx).Debug("records exported", "format", opts.Format, "count", len(records))
	return len(records), nil
}

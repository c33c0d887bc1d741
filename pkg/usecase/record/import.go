package record

import (
	"context"
	"encoding/json"
	"io"

	"github.com/m-mizutani/goerr/v2"
	"github.com/syokota-cyber/study-tracker/pkg/model"
	"github.com/syokota-cyber/study-tracker/pkg/policy"
	"github.com/syokota-cyber/study-tracker/pkg/utils/logging"
)

// importRow accepts both full and basic JSON exports. IDs and timestamps in the
// file are ignored; the store assigns new ones.
type importRow struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	StudyTime  int    `json:"study_time"`
	Category   string `json:"category"`
	Difficulty *int   `json:"difficulty"`
}

// Import re-creates records from a JSON export. Every element is validated
// before anything is written, so an invalid file imports nothing.
func (u *UseCase) Import(ctx context.Context, r io.Reader) (int, error) {
	var rows []importRow
	if err := json.NewDecoder(r).Decode(&rows); err != nil {
		return 0, goerr.Wrap(err, "failed to decode import data")
	}

	inputs := make([]model.RecordInput, 0, len(rows))
	for i, row := range rows {
		input := model.NewRecordInput(row.Title)
		input.Content = row.Content
		input.StudyTime = row.StudyTime
		input.Category = row.Category
		if row.Difficulty != nil {
			input.Difficulty = *row.Difficulty
		}

		if err := input.Validate(); err != nil {
			return 0, goerr.Wrap(err, "invalid record in import data", goerr.V("index", i))
		}
		if err := u.policy.Check(ctx, policy.Input{
			Action: policy.ActionCreate,
			Record: input.Build("", u.now()),
		}); err != nil {
			return 0, goerr.Wrap(err, "record in import data denied", goerr.V("index", i))
		}
		inputs = append(inputs, input)
	}

	for i := range inputs {
		if _, err := u.store.Insert(ctx, &inputs[i]); err != nil {
			return i, goerr.Wrap(err, "failed to import record", goerr.V("index", i))
		}
	}

	logging.From(ctx).Info("records imported", "count", len(inputs))
	return len(inputs), nil
}

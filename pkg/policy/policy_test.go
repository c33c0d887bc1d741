package policy_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/syokota-cyber/study-tracker/pkg/model"
	"github.com/syokota-cyber/study-tracker/pkg/policy"
)

const testPolicy = `package record

deny contains "long sessions need a category" if {
	input.record.study_time > 480
	input.record.category == ""
}

deny contains "titles cannot be edited to TODO" if {
	input.action == "update"
	input.record.title == "TODO"
}
`

func TestLoadAndCheck(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	gt.NoError(t, os.WriteFile(filepath.Join(dir, "record.rego"), []byte(testPolicy), 0644))
	gt.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("ignored"), 0644))

	engine, err := policy.Load(ctx, dir)
	gt.NoError(t, err).Required()
	gt.True(t, engine.Enabled())

	testCases := []struct {
		name    string
		input   policy.Input
		reasons []string
	}{
		{
			name:  "allowed",
			input: policy.Input{Action: policy.ActionCreate, Record: &model.Record{Title: "Go", StudyTime: 600, Category: "Prog"}},
		},
		{
			name:    "long session without category",
			input:   policy.Input{Action: policy.ActionCreate, Record: &model.Record{Title: "Go", StudyTime: 600}},
			reasons: []string{"long sessions need a category"},
		},
		{
			name:    "update only rule",
			input:   policy.Input{Action: policy.ActionUpdate, Record: &model.Record{Title: "TODO", StudyTime: 500}},
			reasons: []string{"long sessions need a category", "titles cannot be edited to TODO"},
		},
		{
			name:  "update only rule ignores create",
			input: policy.Input{Action: policy.ActionCreate, Record: &model.Record{Title: "TODO", StudyTime: 10}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := engine.Check(ctx, tc.input)
			if tc.reasons == nil {
				gt.NoError(t, err)
				return
			}

			var denied *policy.DeniedError
			gt.True(t, errors.As(err, &denied))
			gt.Equal(t, denied.Reasons, tc.reasons)
		})
	}
}

func TestEmptyDirectoryAllowsAll(t *testing.T) {
	ctx := context.Background()

	engine, err := policy.Load(ctx, t.TempDir())
	gt.NoError(t, err)
	gt.False(t, engine.Enabled())
	gt.NoError(t, engine.Check(ctx, policy.Input{Action: policy.ActionCreate, Record: &model.Record{}}))

	var nilEngine *policy.Engine
	gt.NoError(t, nilEngine.Check(ctx, policy.Input{}))
}

func TestOtherPackagesAreIgnored(t *testing.T) {
	ctx := context.Background()
	engine, err := policy.New(ctx, map[string]string{
		"other.rego": "package other\n\nallow := true\n",
	})
	gt.NoError(t, err).Required()
	gt.NoError(t, engine.Check(ctx, policy.Input{Action: policy.ActionCreate, Record: &model.Record{Title: "x"}}))
}

func TestInvalidPolicy(t *testing.T) {
	_, err := policy.New(context.Background(), map[string]string{
		"broken.rego": "package record\n\ndeny contains if {",
	})
	gt.Error(t, err)
}

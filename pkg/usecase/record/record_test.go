package record_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/syokota-cyber/study-tracker/pkg/export"
	"github.com/syokota-cyber/study-tracker/pkg/model"
	"github.com/syokota-cyber/study-tracker/pkg/policy"
	"github.com/syokota-cyber/study-tracker/pkg/query"
	"github.com/syokota-cyber/study-tracker/pkg/repository"
	"github.com/syokota-cyber/study-tracker/pkg/usecase/record"
)

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T {
	return &v
}

func newUseCase(t *testing.T, opts ...record.Option) *record.UseCase {
	t.Helper()
	clock := fixedNow.Add(-time.Hour)
	store := repository.NewMemory(repository.WithClock(func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}))
	opts = append([]record.Option{record.WithClock(func() time.Time { return fixedNow })}, opts...)
	return record.New(store, opts...)
}

func seed(t *testing.T, uc *record.UseCase) []*model.Record {
	t.Helper()
	inputs := []model.RecordInput{
		{Title: "Python basics", Content: "lists", StudyTime: 60, Category: "Prog", Difficulty: 3},
		{Title: "Go routines", Content: "python comparison", StudyTime: 90, Category: "Prog", Difficulty: 2},
		{Title: "Git", StudyTime: 45, Category: "Tools", Difficulty: 1},
	}

	var created []*model.Record
	for _, input := range inputs {
		r, err := uc.Create(context.Background(), input)
		gt.NoError(t, err).Required()
		created = append(created, r)
	}
	return created
}

func TestCreateAndShow(t *testing.T) {
	ctx := context.Background()
	uc := newUseCase(t)

	created, err := uc.Create(ctx, model.RecordInput{Title: "Rust", StudyTime: 30, Difficulty: 4})
	gt.NoError(t, err).Required()
	gt.True(t, created.ID != "")
	gt.Equal(t, created.Title, "Rust")

	shown, err := uc.Show(ctx, created.ID)
	gt.NoError(t, err)
	gt.Equal(t, shown, created)

	_, err = uc.Show(ctx, "missing")
	gt.True(t, errors.Is(err, model.ErrRecordNotFound))
}

func TestCreateValidation(t *testing.T) {
	uc := newUseCase(t)

	_, err := uc.Create(context.Background(), model.RecordInput{Title: "", StudyTime: 2000, Difficulty: 9})
	var verr *model.ValidationError
	gt.True(t, errors.As(err, &verr))
	gt.A(t, verr.Details).Length(3)
}

func TestCreateDeniedByPolicy(t *testing.T) {
	ctx := context.Background()
	engine, err := policy.New(ctx, map[string]string{
		"record.rego": `package record

deny contains "category is required" if {
	input.record.category == ""
}
`,
	})
	gt.NoError(t, err).Required()
	uc := newUseCase(t, record.WithPolicy(engine))

	_, err = uc.Create(ctx, model.NewRecordInput("no category"))
	var denied *policy.DeniedError
	gt.True(t, errors.As(err, &denied))
	gt.Equal(t, denied.Reasons, []string{"category is required"})

	input := model.NewRecordInput("with category")
	input.Category = "Prog"
	_, err = uc.Create(ctx, input)
	gt.NoError(t, err)

	// Update is checked against the merged record
	result, err := uc.List(ctx, record.ListOptions{})
	gt.NoError(t, err).Required()
	_, err = uc.Update(ctx, result.Records[0].ID, model.RecordUpdate{Category: ptr("")})
	gt.True(t, errors.As(err, &denied))
}

func TestList(t *testing.T) {
	ctx := context.Background()
	uc := newUseCase(t)
	created := seed(t, uc)

	result, err := uc.List(ctx, record.ListOptions{})
	gt.NoError(t, err)
	gt.A(t, result.Records).Length(3)
	gt.Equal(t, result.Records[0].ID, created[2].ID)
	gt.Equal(t, result.Page.TotalPages, 1)

	result, err = uc.List(ctx, record.ListOptions{Page: 2, Limit: 2})
	gt.NoError(t, err)
	gt.A(t, result.Records).Length(1)
	gt.Equal(t, result.Records[0].ID, created[0].ID)
	gt.Equal(t, result.Page.TotalItems, 3)
	gt.True(t, result.Page.HasPrev)
	gt.False(t, result.Page.HasNext)

	result, err = uc.List(ctx, record.ListOptions{Criteria: query.Criteria{Category: "prog"}})
	gt.NoError(t, err)
	gt.A(t, result.Records).Length(2)

	_, err = uc.List(ctx, record.ListOptions{Page: 1, Limit: 500})
	gt.True(t, errors.Is(err, query.ErrInvalidLimit))
	_, err = uc.List(ctx, record.ListOptions{Page: -1, Limit: 10})
	gt.True(t, errors.Is(err, query.ErrInvalidPage))
}

func TestListEmpty(t *testing.T) {
	uc := newUseCase(t)

	result, err := uc.List(context.Background(), record.ListOptions{})
	gt.NoError(t, err)
	gt.A(t, result.Records).Length(0)
	gt.Equal(t, result.Page.TotalPages, 0)
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	uc := newUseCase(t)
	created := seed(t, uc)

	updated, err := uc.Update(ctx, created[0].ID, model.RecordUpdate{StudyTime: ptr(75), Title: ptr("Python deep dive")})
	gt.NoError(t, err).Required()
	gt.Equal(t, updated.StudyTime, 75)
	gt.Equal(t, updated.Title, "Python deep dive")
	gt.Equal(t, updated.Category, "Prog")
	gt.True(t, updated.UpdatedAt.After(updated.CreatedAt))

	_, err = uc.Update(ctx, created[0].ID, model.RecordUpdate{})
	gt.True(t, errors.Is(err, model.ErrNoFieldsToUpdate))

	_, err = uc.Update(ctx, created[0].ID, model.RecordUpdate{Difficulty: ptr(0)})
	var verr *model.ValidationError
	gt.True(t, errors.As(err, &verr))

	_, err = uc.Update(ctx, "404", model.RecordUpdate{Title: ptr("x")})
	gt.True(t, errors.Is(err, model.ErrRecordNotFound))
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	uc := newUseCase(t)
	created := seed(t, uc)

	gt.NoError(t, uc.Delete(ctx, created[1].ID))
	gt.True(t, errors.Is(uc.Delete(ctx, created[1].ID), model.ErrRecordNotFound))

	_, err := uc.Show(ctx, created[1].ID)
	gt.True(t, errors.Is(err, model.ErrRecordNotFound))
}

func TestSearch(t *testing.T) {
	ctx := context.Background()
	uc := newUseCase(t)
	seed(t, uc)

	records, err := uc.Search(ctx, query.SearchOptions{Keyword: "python"})
	gt.NoError(t, err)
	gt.A(t, records).Length(2)

	records, err = uc.Search(ctx, query.SearchOptions{Keyword: "python", TitleOnly: true})
	gt.NoError(t, err)
	gt.A(t, records).Length(1)

	_, err = uc.Search(ctx, query.SearchOptions{})
	gt.True(t, errors.Is(err, query.ErrEmptyKeyword))
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	uc := newUseCase(t)
	seed(t, uc)

	result, err := uc.Stats(ctx, record.StatsOptions{View: query.ViewSummary})
	gt.NoError(t, err)
	summary, ok := result.(query.Summary)
	gt.True(t, ok)
	gt.Equal(t, summary.TotalRecords, 3)
	gt.Equal(t, summary.TotalStudyTime, 195)
	gt.Equal(t, summary.AverageDifficulty, 2.0)
	gt.Equal(t, summary.CategoryBreakdown, map[string]int{"Prog": 2, "Tools": 1})

	result, err = uc.Stats(ctx, record.StatsOptions{View: query.ViewTimeDistribution})
	gt.NoError(t, err)
	gt.Equal(t, result.(query.TimeDistribution), query.TimeDistribution{Medium: 3, TotalRecords: 3})

	result, err = uc.Stats(ctx, record.StatsOptions{
		View:     query.ViewByCategory,
		Criteria: query.Criteria{Category: "tools"},
	})
	gt.NoError(t, err)
	categories := result.([]query.CategoryStats)
	gt.A(t, categories).Length(1)
	gt.Equal(t, categories[0].Category, "Tools")
}

func TestExportAndImport(t *testing.T) {
	ctx := context.Background()
	src := newUseCase(t)
	seed(t, src)

	var buf bytes.Buffer
	n, err := src.Export(ctx, &buf, record.ExportOptions{Format: export.FormatJSON, AllFields: true})
	gt.NoError(t, err)
	gt.Equal(t, n, 3)

	dst := newUseCase(t)
	imported, err := dst.Import(ctx, &buf)
	gt.NoError(t, err)
	gt.Equal(t, imported, 3)

	result, err := dst.Stats(ctx, record.StatsOptions{View: query.ViewSummary})
	gt.NoError(t, err)
	gt.Equal(t, result.(query.Summary).TotalStudyTime, 195)

	records, err := dst.Search(ctx, query.SearchOptions{Keyword: "python comparison", ContentOnly: true})
	gt.NoError(t, err)
	gt.A(t, records).Length(1)
}

func TestExportFiltered(t *testing.T) {
	ctx := context.Background()
	uc := newUseCase(t)
	seed(t, uc)

	var buf bytes.Buffer
	n, err := uc.Export(ctx, &buf, record.ExportOptions{
		Format:   export.FormatCSV,
		Criteria: query.Criteria{MinTime: ptr(60)},
	})
	gt.NoError(t, err)
	gt.Equal(t, n, 2)
	gt.Equal(t, strings.Count(buf.String(), "\n"), 3)
}

func TestImportRejectsInvalidFile(t *testing.T) {
	ctx := context.Background()
	uc := newUseCase(t)

	data, err := json.Marshal([]map[string]any{
		{"title": "ok", "study_time": 10},
		{"title": "", "study_time": 10},
	})
	gt.NoError(t, err)

	n, err := uc.Import(ctx, bytes.NewReader(data))
	gt.Error(t, err)
	gt.Equal(t, n, 0)

	var verr *model.ValidationError
	gt.True(t, errors.As(err, &verr))

	result, err := uc.List(ctx, record.ListOptions{})
	gt.NoError(t, err)
	gt.A(t, result.Records).Length(0)

	_, err = uc.Import(ctx, strings.NewReader("not json"))
	gt.Error(t, err)
}

func TestImportDefaultsDifficulty(t *testing.T) {
	ctx := context.Background()
	uc := newUseCase(t)

	n, err := uc.Import(ctx, strings.NewReader(`[{"title":"basic export row","study_time":15}]`))
	gt.NoError(t, err)
	gt.Equal(t, n, 1)

	result, err := uc.List(ctx, record.ListOptions{})
	gt.NoError(t, err)
	gt.Equal(t, result.Records[0].Difficulty, 1)
}

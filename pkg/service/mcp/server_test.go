package mcp_test

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"slices"
	"testing"

	"github.com/m-mizutani/gt"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/syokota-cyber/study-tracker/pkg/model"
	"github.com/syokota-cyber/study-tracker/pkg/repository"
	"github.com/syokota-cyber/study-tracker/pkg/service/mcp"
	"github.com/syokota-cyber/study-tracker/pkg/usecase/record"
)

func setup(t *testing.T) (*mcpsdk.ClientSession, []*model.Record) {
	t.Helper()
	ctx := context.Background()

	uc := record.New(repository.NewMemory())
	var created []*model.Record
	for _, input := range []model.RecordInput{
		{Title: "Python basics", Content: "lists", StudyTime: 60, Category: "Prog", Difficulty: 3},
		{Title: "Go routines", Content: "channels", StudyTime: 90, Category: "Prog", Difficulty: 2},
		{Title: "Git", StudyTime: 45, Category: "Tools", Difficulty: 1},
	} {
		r, err := uc.Create(ctx, input)
		gt.NoError(t, err).Required()
		created = append(created, r)
	}

	ts := httptest.NewServer(mcp.New(uc, "test").Handler())
	t.Cleanup(ts.Close)

	client := mcpsdk.NewClient(&mcpsdk.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(ctx, &mcpsdk.StreamableClientTransport{Endpoint: ts.URL}, nil)
	gt.NoError(t, err).Required()
	t.Cleanup(func() { _ = session.Close() })

	return session, created
}

func callTool(t *testing.T, session *mcpsdk.ClientSession, name string, args map[string]any) *mcpsdk.CallToolResult {
	t.Helper()
	result, err := session.CallTool(context.Background(), &mcpsdk.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	gt.NoError(t, err).Required()
	gt.A(t, result.Content).Length(1).Required()
	return result
}

func textOf(t *testing.T, result *mcpsdk.CallToolResult) string {
	t.Helper()
	text, ok := result.Content[0].(*mcpsdk.TextContent)
	gt.True(t, ok).Required()
	return text.Text
}

func TestListTools(t *testing.T) {
	session, _ := setup(t)

	tools, err := session.ListTools(context.Background(), nil)
	gt.NoError(t, err).Required()

	names := make([]string, 0, len(tools.Tools))
	for _, tool := range tools.Tools {
		names = append(names, tool.Name)
	}
	gt.A(t, names).Length(4)
	for _, name := range []string{"list_records", "get_record", "record_stats", "search_records"} {
		gt.True(t, slices.Contains(names, name))
	}
}

func TestListRecordsTool(t *testing.T) {
	session, _ := setup(t)

	result := callTool(t, session, "list_records", map[string]any{"category": "prog", "limit": 1})
	gt.False(t, result.IsError)

	var body struct {
		Records    []model.Record `json:"records"`
		Pagination struct {
			TotalItems int  `json:"total_items"`
			HasNext    bool `json:"has_next"`
		} `json:"pagination"`
	}
	gt.NoError(t, json.Unmarshal([]byte(textOf(t, result)), &body))
	gt.A(t, body.Records).Length(1)
	gt.Equal(t, body.Pagination.TotalItems, 2)
	gt.True(t, body.Pagination.HasNext)

	result = callTool(t, session, "list_records", map[string]any{"limit": 1000})
	gt.True(t, result.IsError)
}

func TestGetRecordTool(t *testing.T) {
	session, created := setup(t)

	result := callTool(t, session, "get_record", map[string]any{"id": created[0].ID.String()})
	gt.False(t, result.IsError)

	var got model.Record
	gt.NoError(t, json.Unmarshal([]byte(textOf(t, result)), &got))
	gt.Equal(t, got.Title, "Python basics")

	result = callTool(t, session, "get_record", map[string]any{"id": "missing"})
	gt.True(t, result.IsError)
	gt.S(t, textOf(t, result)).Contains("record not found")
}

func TestRecordStatsTool(t *testing.T) {
	session, _ := setup(t)

	result := callTool(t, session, "record_stats", map[string]any{})
	var summary map[string]any
	gt.NoError(t, json.Unmarshal([]byte(textOf(t, result)), &summary))
	gt.Equal(t, summary["total_study_time"], any(float64(195)))

	result = callTool(t, session, "record_stats", map[string]any{"view": "time_distribution"})
	var dist map[string]any
	gt.NoError(t, json.Unmarshal([]byte(textOf(t, result)), &dist))
	gt.Equal(t, dist["medium_time"], any(float64(3)))

	result = callTool(t, session, "record_stats", map[string]any{"view": "monthly"})
	gt.True(t, result.IsError)
}

func TestSearchRecordsTool(t *testing.T) {
	session, _ := setup(t)

	result := callTool(t, session, "search_records", map[string]any{"keyword": "CHANNELS"})
	var body struct {
		Count int `json:"count"`
	}
	gt.NoError(t, json.Unmarshal([]byte(textOf(t, result)), &body))
	gt.Equal(t, body.Count, 1)

	result = callTool(t, session, "search_records", map[string]any{"keyword": "go", "title_only": true, "content_only": true})
	gt.True(t, result.IsError)

	result = callTool(t, session, "search_records", map[string]any{"keyword": "go", "limit": -1})
	gt.True(t, result.IsError)
}

// Package mcp exposes study record queries as Model Context Protocol tools,
// served over stdio or streamable HTTP.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/syokota-cyber/study-tracker/pkg/model"
	"github.com/syokota-cyber/study-tracker/pkg/policy"
	"github.com/syokota-cyber/study-tracker/pkg/query"
	"github.com/syokota-cyber/study-tracker/pkg/usecase/record"
	"github.com/syokota-cyber/study-tracker/pkg/utils/logging"
)

const serverName = "study-tracker"

// Server wraps an MCP server bound to a record UseCase
type Server struct {
	uc     *record.UseCase
	server *mcp.Server
}

// New creates an MCP server and registers the record tools
func New(uc *record.UseCase, version string) *Server {
	s := &Server{
		uc: uc,
		server: mcp.NewServer(&mcp.Implementation{
			Name:    serverName,
			Version: version,
		}, nil),
	}

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_records",
		Description: "List study records, newest first, with optional filters and pagination",
	}, s.listRecords)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_record",
		Description: "Get a single study record by ID",
	}, s.getRecord)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "record_stats",
		Description: "Aggregate study records: summary, by_category, by_difficulty, time_distribution or timeline",
	}, s.recordStats)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_records",
		Description: "Search study records by keyword in title and/or content",
	}, s.searchRecords)

	return s
}

// Run serves MCP over stdin/stdout until the client disconnects
func (s *Server) Run(ctx context.Context) error {
	if err := s.server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		return goerr.Wrap(err, "mcp server failed")
	}
	return nil
}

// Handler returns a streamable HTTP handler serving this server
func (s *Server) Handler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.server
	}, nil)
}

type listParams struct {
	Category   string `json:"category,omitempty" jsonschema:"Case-insensitive substring of the category"`
	Difficulty *int   `json:"difficulty,omitempty" jsonschema:"Exact difficulty (1-5)"`
	MinTime    *int   `json:"min_time,omitempty" jsonschema:"Minimum study time in minutes (inclusive)"`
	MaxTime    *int   `json:"max_time,omitempty" jsonschema:"Maximum study time in minutes (inclusive)"`
	Keyword    string `json:"keyword,omitempty" jsonschema:"Case-insensitive substring of title or content"`
	Days       *int   `json:"days,omitempty" jsonschema:"Only records created within the last N days"`
	Page       int    `json:"page,omitempty" jsonschema:"Page number starting at 1"`
	Limit      int    `json:"limit,omitempty" jsonschema:"Records per page (1-100, default 10)"`
}

type getParams struct {
	ID string `json:"id" jsonschema:"Record ID"`
}

type statsParams struct {
	View       string `json:"view,omitempty" jsonschema:"summary, by_category, by_difficulty, time_distribution or timeline"`
	Category   string `json:"category,omitempty" jsonschema:"Case-insensitive substring of the category"`
	Difficulty *int   `json:"difficulty,omitempty" jsonschema:"Exact difficulty (1-5)"`
	MinTime    *int   `json:"min_time,omitempty" jsonschema:"Minimum study time in minutes (inclusive)"`
	MaxTime    *int   `json:"max_time,omitempty" jsonschema:"Maximum study time in minutes (inclusive)"`
	Keyword    string `json:"keyword,omitempty" jsonschema:"Case-insensitive substring of title or content"`
	Days       *int   `json:"days,omitempty" jsonschema:"Only records created within the last N days"`
}

type searchParams struct {
	Keyword       string `json:"keyword" jsonschema:"Keyword to search for"`
	TitleOnly     bool   `json:"title_only,omitempty" jsonschema:"Search titles only"`
	ContentOnly   bool   `json:"content_only,omitempty" jsonschema:"Search contents only"`
	CaseSensitive bool   `json:"case_sensitive,omitempty" jsonschema:"Match case exactly"`
	Limit         int    `json:"limit,omitempty" jsonschema:"Maximum number of results"`
}

func (s *Server) listRecords(ctx context.Context, req *mcp.CallToolRequest, params *listParams) (*mcp.CallToolResult, any, error) {
	limit := params.Limit
	if limit == 0 {
		limit = query.DefaultLimit
	}

	result, err := s.uc.List(ctx, record.ListOptions{
		Criteria: query.Criteria{
			Category:   params.Category,
			Difficulty: params.Difficulty,
			MinTime:    params.MinTime,
			MaxTime:    params.MaxTime,
			Keyword:    params.Keyword,
			Days:       params.Days,
		},
		Page:  params.Page,
		Limit: limit,
	})
	if err != nil {
		return toolError(ctx, err)
	}

	return jsonResult(map[string]any{
		"records":    result.Records,
		"pagination": result.Page,
	})
}

func (s *Server) getRecord(ctx context.Context, req *mcp.CallToolRequest, params *getParams) (*mcp.CallToolResult, any, error) {
	found, err := s.uc.Show(ctx, model.RecordID(params.ID))
	if err != nil {
		return toolError(ctx, err)
	}
	return jsonResult(found)
}

func (s *Server) recordStats(ctx context.Context, req *mcp.CallToolRequest, params *statsParams) (*mcp.CallToolResult, any, error) {
	view, err := query.ParseView(params.View)
	if err != nil {
		return toolError(ctx, err)
	}

	result, err := s.uc.Stats(ctx, record.StatsOptions{
		View: view,
		Criteria: query.Criteria{
			Category:   params.Category,
			Difficulty: params.Difficulty,
			MinTime:    params.MinTime,
			MaxTime:    params.MaxTime,
			Keyword:    params.Keyword,
			Days:       params.Days,
		},
	})
	if err != nil {
		return toolError(ctx, err)
	}
	return jsonResult(result)
}

func (s *Server) searchRecords(ctx context.Context, req *mcp.CallToolRequest, params *searchParams) (*mcp.CallToolResult, any, error) {
	records, err := s.uc.Search(ctx, query.SearchOptions{
		Keyword:       params.Keyword,
		TitleOnly:     params.TitleOnly,
		ContentOnly:   params.ContentOnly,
		CaseSensitive: params.CaseSensitive,
		Limit:         params.Limit,
	})
	if err != nil {
		return toolError(ctx, err)
	}

	return jsonResult(map[string]any{
		"records": records,
		"count":   len(records),
	})
}

func jsonResult(v any) (*mcp.CallToolResult, any, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to marshal tool result")
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(data)},
		},
	}, nil, nil
}

// toolError reports caller mistakes as tool results so the model can correct
// them. Anything else is returned as an error.
func toolError(ctx context.Context, err error) (*mcp.CallToolResult, any, error) {
	var (
		verr   *model.ValidationError
		denied *policy.DeniedError
	)

	switch {
	case errors.Is(err, model.ErrRecordNotFound),
		errors.Is(err, query.ErrInvalidPage),
		errors.Is(err, query.ErrInvalidLimit),
		errors.Is(err, query.ErrEmptyKeyword),
		errors.Is(err, query.ErrConflictingScope),
		errors.Is(err, query.ErrInvalidSearchLimit),
		errors.Is(err, query.ErrUnknownView),
		errors.As(err, &verr),
		errors.As(err, &denied):
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{
				&mcp.TextContent{Text: err.Error()},
			},
		}, nil, nil
	default:
		logging.From(ctx).Error("mcp tool failed", logging.ErrAttr(err))
		return nil, nil, err
	}
}

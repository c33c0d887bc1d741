package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/syokota-cyber/study-tracker/pkg/export"
	"github.com/syokota-cyber/study-tracker/pkg/model"
	"github.com/syokota-cyber/study-tracker/pkg/query"
	"github.com/syokota-cyber/study-tracker/pkg/usecase/record"
)

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message": serviceName,
		"version": s.version,
		"endpoints": map[string]string{
			"records":   "/api/v1/study-records",
			"paginated": "/api/v1/study-records/paginated",
			"search":    "/api/v1/study-records/search",
			"stats":     "/api/v1/study-records/stats/{summary,category,difficulty,time-distribution,timeline}",
			"export":    "/api/v1/study-records/export",
			"health":    "/health",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": serviceName,
	})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	p := newParams(r.URL.Query())
	criteria := p.criteria()
	if err := p.err(); err != nil {
		writeError(r.Context(), w, err)
		return
	}

	result, err := s.uc.List(r.Context(), record.ListOptions{Criteria: criteria})
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"records": newRecordViews(result.Records),
		"count":   len(result.Records),
	})
}

func (s *Server) handlePaginated(w http.ResponseWriter, r *http.Request) {
	p := newParams(r.URL.Query())
	criteria := p.criteria()
	page := p.intOr("page", query.DefaultPage)
	limit := p.intOr("limit", query.DefaultLimit)
	if err := p.err(); err != nil {
		writeError(r.Context(), w, err)
		return
	}
	if err := query.ValidatePage(page, limit); err != nil {
		writeError(r.Context(), w, err)
		return
	}

	result, err := s.uc.List(r.Context(), record.ListOptions{
		Criteria: criteria,
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"items":      newRecordViews(result.Records),
		"pagination": result.Page,
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	p := newParams(r.URL.Query())
	opts := query.SearchOptions{
		Keyword:       p.str("keyword"),
		TitleOnly:     p.boolean("title_only"),
		ContentOnly:   p.boolean("content_only"),
		CaseSensitive: p.boolean("case_sensitive"),
		Limit:         p.intOr("limit", 0),
	}
	if err := p.err(); err != nil {
		writeError(r.Context(), w, err)
		return
	}

	records, err := s.uc.Search(r.Context(), opts)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"keyword": opts.Keyword,
		"records": newRecordViews(records),
		"count":   len(records),
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	view, err := query.ParseView(chi.URLParam(r, "view"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "Not found"})
		return
	}

	p := newParams(r.URL.Query())
	criteria := p.criteria()
	if err := p.err(); err != nil {
		writeError(r.Context(), w, err)
		return
	}

	result, err := s.uc.Stats(r.Context(), record.StatsOptions{View: view, Criteria: criteria})
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	p := newParams(r.URL.Query())
	criteria := p.criteria()
	allFields := p.boolean("all_fields")
	if err := p.err(); err != nil {
		writeError(r.Context(), w, err)
		return
	}

	format, err := export.ParseFormat(p.str("format"))
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	var buf bytes.Buffer
	n, err := s.uc.Export(r.Context(), &buf, record.ExportOptions{
		Format:    format,
		AllFields: allFields,
		Criteria:  criteria,
	})
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	h := w.Header()
	h.Set("Content-Type", format.ContentType())
	h.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, format.FileName(s.uc.Now())))
	h.Set("X-Record-Count", strconv.Itoa(n))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	input := model.NewRecordInput("")
	if err := decodeBody(w, r, &input); err != nil {
		writeError(r.Context(), w, err)
		return
	}
	if err := input.Validate(); err != nil {
		writeError(r.Context(), w, err)
		return
	}
	input.Sanitize()

	created, err := s.uc.Create(r.Context(), input)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Study record created successfully",
		"record":  newRecordView(created),
	})
}

func (s *Server) handleShow(w http.ResponseWriter, r *http.Request) {
	found, err := s.uc.Show(r.Context(), model.RecordID(chi.URLParam(r, "id")))
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"record": newRecordView(found),
	})
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var update model.RecordUpdate
	if err := decodeBody(w, r, &update); err != nil {
		writeError(r.Context(), w, err)
		return
	}
	if err := update.Validate(); err != nil {
		writeError(r.Context(), w, err)
		return
	}
	update.Sanitize()

	updated, err := s.uc.Update(r.Context(), model.RecordID(chi.URLParam(r, "id")), update)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Study record updated successfully",
		"record":  newRecordView(updated),
	})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := model.RecordID(chi.URLParam(r, "id"))
	if err := s.uc.Delete(r.Context(), id); err != nil {
		writeError(r.Context(), w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":   "Study record deleted successfully",
		"record_id": id,
	})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return &badRequestError{message: "Invalid JSON"}
	}
	return nil
}

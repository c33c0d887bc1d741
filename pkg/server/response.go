package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/syokota-cyber/study-tracker/pkg/export"
	"github.com/syokota-cyber/study-tracker/pkg/model"
	"github.com/syokota-cyber/study-tracker/pkg/policy"
	"github.com/syokota-cyber/study-tracker/pkg/query"
	"github.com/syokota-cyber/study-tracker/pkg/utils/logging"
)

type errorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

// recordView adds derived fields to a record in responses
type recordView struct {
	*model.Record
	StudyHours float64 `json:"study_hours"`
}

func newRecordView(r *model.Record) recordView {
	return recordView{Record: r, StudyHours: r.StudyHours()}
}

func newRecordViews(records []*model.Record) []recordView {
	views := make([]recordView, len(records))
	for i, r := range records {
		views[i] = newRecordView(r)
	}
	return views
}

// badRequestError is a malformed request detected by a handler
type badRequestError struct {
	message string
	details []string
}

func (e *badRequestError) Error() string {
	return e.message
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError maps an error to a status code and a generic message. Internal
// error text is logged and never returned.
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	var (
		badReq *badRequestError
		verr   *model.ValidationError
		denied *policy.DeniedError
	)

	switch {
	case errors.As(err, &badReq):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: badReq.message, Details: badReq.details})
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Validation failed", Details: verr.Details})
	case errors.As(err, &denied):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Denied by policy", Details: denied.Reasons})
	case errors.Is(err, model.ErrRecordNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "Study record not found"})
	case errors.Is(err, model.ErrNoFieldsToUpdate):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "No fields to update"})
	case errors.Is(err, query.ErrInvalidPage), errors.Is(err, query.ErrInvalidLimit):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid pagination parameters", Details: []string{rootMessage(err)}})
	case errors.Is(err, query.ErrEmptyKeyword), errors.Is(err, query.ErrConflictingScope),
		errors.Is(err, query.ErrInvalidSearchLimit):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid search parameters", Details: []string{rootMessage(err)}})
	case errors.Is(err, export.ErrUnknownFormat):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid export format"})
	default:
		logging.From(ctx).Error("request failed", logging.ErrAttr(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal server error"})
	}
}

func rootMessage(err error) string {
	for _, sentinel := range []error{
		query.ErrInvalidPage, query.ErrInvalidLimit,
		query.ErrEmptyKeyword, query.ErrConflictingScope, query.ErrInvalidSearchLimit,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return err.Error()
}

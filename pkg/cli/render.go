package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/syokota-cyber/study-tracker/pkg/model"
	"github.com/syokota-cyber/study-tracker/pkg/query"
	"gopkg.in/yaml.v3"
)

const (
	listTimeFormat   = "2006-01-02 15:04"
	detailTimeFormat = "2006-01-02 15:04:05"
	notSet           = "(not set)"
)

func orNotSet(s string) string {
	if s == "" {
		return notSet
	}
	return s
}

func printRecordLine(w io.Writer, r *model.Record) {
	fmt.Fprintf(w, "ID: %s | %s\n", r.ID, r.Title)
	fmt.Fprintf(w, "   time: %s | category: %s\n", model.FormatDuration(r.StudyTime), orNotSet(r.Category))
	fmt.Fprintf(w, "   difficulty: %s | created: %s\n", model.DifficultyStars(r.Difficulty), r.CreatedAt.Local().Format(listTimeFormat))
}

func printRecordDetail(w io.Writer, r *model.Record) {
	fmt.Fprintf(w, "Record %s\n", r.ID)
	fmt.Fprintln(w, strings.Repeat("-", 40))
	fmt.Fprintf(w, "title:      %s\n", r.Title)
	fmt.Fprintf(w, "content:    %s\n", orNotSet(r.Content))
	fmt.Fprintf(w, "study time: %s\n", model.FormatDuration(r.StudyTime))
	fmt.Fprintf(w, "category:   %s\n", orNotSet(r.Category))
	fmt.Fprintf(w, "difficulty: %s (%d)\n", model.DifficultyStars(r.Difficulty), r.Difficulty)
	fmt.Fprintf(w, "created:    %s\n", r.CreatedAt.Local().Format(detailTimeFormat))
	fmt.Fprintf(w, "updated:    %s\n", r.UpdatedAt.Local().Format(detailTimeFormat))
}

func printPage(w io.Writer, p query.Page) {
	fmt.Fprintf(w, "page %d/%d (%d records)\n", p.Page, max(p.TotalPages, 1), p.TotalItems)
}

// printStructured renders an aggregation result as indented JSON or YAML
func printStructured(w io.Writer, v any, asJSON bool) error {
	if asJSON {
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return goerr.Wrap(err, "failed to marshal result")
		}
		fmt.Fprintf(w, "%s\n", string(data))
		return nil
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return goerr.Wrap(err, "failed to encode result")
	}
	return enc.Close()
}

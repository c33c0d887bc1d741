// Package export serializes records to csv, json, txt and yaml.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/syokota-cyber/study-tracker/pkg/model"
	"gopkg.in/yaml.v3"
)

// Format is an export file format
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatText Format = "txt"
	FormatYAML Format = "yaml"
)

var ErrUnknownFormat = goerr.New("unknown export format")

const displayTimeLayout = "2006-01-02 15:04"

// ParseFormat resolves a format name. Empty string means csv.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "txt", "text":
		return FormatText, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", goerr.Wrap(ErrUnknownFormat, "failed to parse format", goerr.V("format", s))
	}
}

// ContentType returns the MIME type of the format
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatText:
		return "text/plain; charset=utf-8"
	case FormatYAML:
		return "application/yaml"
	default:
		return "text/csv; charset=utf-8"
	}
}

// FileName returns a default file name for an export taken at now
func (f Format) FileName(now time.Time) string {
	return fmt.Sprintf("study_records_%s.%s", now.Format("20060102_150405"), f)
}

// Row is one exported record. Content, StudyHours and UpdatedAt are only
// filled when all fields are requested.
type Row struct {
	ID         string     `json:"id" yaml:"id"`
	Title      string     `json:"title" yaml:"title"`
	Content    *string    `json:"content,omitempty" yaml:"content,omitempty"`
	StudyTime  int        `json:"study_time" yaml:"study_time"`
	StudyHours *float64   `json:"study_hours,omitempty" yaml:"study_hours,omitempty"`
	Category   string     `json:"category" yaml:"category"`
	Difficulty int        `json:"difficulty" yaml:"difficulty"`
	CreatedAt  time.Time  `json:"created_at" yaml:"created_at"`
	UpdatedAt  *time.Time `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
}

// NewRows converts records to export rows
func NewRows(records []*model.Record, allFields bool) []Row {
	rows := make([]Row, 0, len(records))
	for _, r := range records {
		row := Row{
			ID:         r.ID.String(),
			Title:      r.Title,
			StudyTime:  r.StudyTime,
			Category:   r.Category,
			Difficulty: r.Difficulty,
			CreatedAt:  r.CreatedAt,
		}
		if allFields {
			content := r.Content
			hours := r.StudyHours()
			updated := r.UpdatedAt
			row.Content = &content
			row.StudyHours = &hours
			row.UpdatedAt = &updated
		}
		rows = append(rows, row)
	}
	return rows
}

// Write serializes records to w in the given format
func Write(w io.Writer, records []*model.Record, format Format, allFields bool) error {
	switch format {
	case FormatCSV:
		return writeCSV(w, records, allFields)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(NewRows(records, allFields)); err != nil {
			return goerr.Wrap(err, "failed to encode json export")
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(NewRows(records, allFields)); err != nil {
			return goerr.Wrap(err, "failed to encode yaml export")
		}
		if err := enc.Close(); err != nil {
			return goerr.Wrap(err, "failed to flush yaml export")
		}
		return nil
	case FormatText:
		return writeText(w, records, allFields)
	default:
		return goerr.Wrap(ErrUnknownFormat, "failed to export", goerr.V("format", format))
	}
}

func writeCSV(w io.Writer, records []*model.Record, allFields bool) error {
	header := []string{"id", "title", "study_time", "category", "difficulty", "created_at"}
	if allFields {
		header = []string{"id", "title", "content", "study_time", "study_hours", "category", "difficulty", "created_at", "updated_at"}
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return goerr.Wrap(err, "failed to write csv header")
	}

	for _, r := range records {
		var row []string
		if allFields {
			row = []string{
				r.ID.String(),
				r.Title,
				r.Content,
				strconv.Itoa(r.StudyTime),
				strconv.FormatFloat(r.StudyHours(), 'f', 2, 64),
				r.Category,
				strconv.Itoa(r.Difficulty),
				r.CreatedAt.Format(time.RFC3339),
				r.UpdatedAt.Format(time.RFC3339),
			}
		} else {
			row = []string{
				r.ID.String(),
				r.Title,
				strconv.Itoa(r.StudyTime),
				r.Category,
				strconv.Itoa(r.Difficulty),
				r.CreatedAt.Format(time.RFC3339),
			}
		}
		if err := cw.Write(row); err != nil {
			return goerr.Wrap(err, "failed to write csv row", goerr.V("id", r.ID))
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return goerr.Wrap(err, "failed to flush csv")
	}
	return nil
}

func writeText(w io.Writer, records []*model.Record, allFields bool) error {
	var b strings.Builder
	b.WriteString("StudyTracker export\n")
	fmt.Fprintf(&b, "Records: %d\n", len(records))
	b.WriteString(strings.Repeat("=", 50) + "\n")

	var total int
	for i, r := range records {
		total += r.StudyTime
		fmt.Fprintf(&b, "\n[%d] %s (ID: %s)\n", i+1, r.Title, r.ID)
		fmt.Fprintf(&b, "    Time:       %s\n", model.FormatDuration(r.StudyTime))
		if r.Category != "" {
			fmt.Fprintf(&b, "    Category:   %s\n", r.Category)
		}
		fmt.Fprintf(&b, "    Difficulty: %s (%d)\n", model.DifficultyStars(r.Difficulty), r.Difficulty)
		fmt.Fprintf(&b, "    Created:    %s\n", r.CreatedAt.Format(displayTimeLayout))
		if allFields {
			fmt.Fprintf(&b, "    Updated:    %s\n", r.UpdatedAt.Format(displayTimeLayout))
			if r.Content != "" {
				fmt.Fprintf(&b, "    Content:    %s\n", r.Content)
			}
		}
	}

	b.WriteString("\n" + strings.Repeat("=", 50) + "\n")
	fmt.Fprintf(&b, "Total: %s\n", model.FormatDuration(total))

	if _, err := io.WriteString(w, b.String()); err != nil {
		return goerr.Wrap(err, "failed to write text export")
	}
	return nil
}

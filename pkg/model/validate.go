package model

import (
	"html"
	"strings"
	"unicode/utf8"

	"github.com/m-mizutani/goerr/v2"
)

const (
	MaxTitleLength    = 200
	MaxContentLength  = 1000
	MaxCategoryLength = 50

	MinStudyTime  = 0
	MaxStudyTime  = 1440
	MinDifficulty = 1
	MaxDifficulty = 5
)

// ValidationError holds every rule a payload violated. Validate returns it
// wrapped in a goerr error carrying the same rules as the "details" value.
type ValidationError struct {
	Details []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Details, ", ")
}

type violations []string

func (v *violations) add(msg string) {
	*v = append(*v, msg)
}

func (v violations) err() error {
	if len(v) == 0 {
		return nil
	}
	details := []string(v)
	return goerr.Wrap(&ValidationError{Details: details}, "validation failed", goerr.V("details", details))
}

// textLength counts the runes of text as displayed. Entities produced by
// Sanitize count as a single character.
func textLength(text string) int {
	return utf8.RuneCountInString(html.UnescapeString(text))
}

func (v *violations) title(title string) {
	switch {
	case strings.TrimSpace(title) == "":
		v.add("title is required")
	case textLength(title) > MaxTitleLength:
		v.add("title must be 200 characters or less")
	}
}

func (v *violations) content(content string) {
	if textLength(content) > MaxContentLength {
		v.add("content must be 1000 characters or less")
	}
}

func (v *violations) category(category string) {
	if textLength(category) > MaxCategoryLength {
		v.add("category must be 50 characters or less")
	}
}

func (v *violations) studyTime(minutes int) {
	if minutes < MinStudyTime || minutes > MaxStudyTime {
		v.add("study_time must be between 0 and 1440 minutes")
	}
}

func (v *violations) difficulty(d int) {
	if d < MinDifficulty || d > MaxDifficulty {
		v.add("difficulty must be between 1 and 5")
	}
}

// Validate checks the input against the record field rules
func (x *RecordInput) Validate() error {
	var v violations
	v.title(x.Title)
	v.content(x.Content)
	v.category(x.Category)
	v.studyTime(x.StudyTime)
	v.difficulty(x.Difficulty)
	return v.err()
}

// Validate checks only the fields that are set
func (u *RecordUpdate) Validate() error {
	var v violations
	if u.Title != nil {
		v.title(*u.Title)
	}
	if u.Content != nil {
		v.content(*u.Content)
	}
	if u.Category != nil {
		v.category(*u.Category)
	}
	if u.StudyTime != nil {
		v.studyTime(*u.StudyTime)
	}
	if u.Difficulty != nil {
		v.difficulty(*u.Difficulty)
	}
	return v.err()
}

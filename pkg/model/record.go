package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
)

var (
	ErrRecordNotFound   = goerr.New("record not found")
	ErrNoFieldsToUpdate = goerr.New("no fields to update")
)

// UncategorizedLabel is the group label used for records without a category
const UncategorizedLabel = "uncategorized"

type RecordID string

func (id RecordID) String() string {
	return string(id)
}

// Record is a single study session entry
type Record struct {
	ID         RecordID  `json:"id" yaml:"id" firestore:"-"`
	Title      string    `json:"title" yaml:"title" firestore:"title"`
	Content    string    `json:"content" yaml:"content" firestore:"content"`
	StudyTime  int       `json:"study_time" yaml:"study_time" firestore:"study_time"`
	Category   string    `json:"category" yaml:"category" firestore:"category"`
	Difficulty int       `json:"difficulty" yaml:"difficulty" firestore:"difficulty"`
	CreatedAt  time.Time `json:"created_at" yaml:"created_at" firestore:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" yaml:"updated_at" firestore:"updated_at"`
}

// StudyHours returns study time in hours rounded to 2 decimal places
func (r *Record) StudyHours() float64 {
	return Hours(r.StudyTime)
}

// CategoryLabel returns the category, or UncategorizedLabel when it is empty
func (r *Record) CategoryLabel() string {
	if r.Category == "" {
		return UncategorizedLabel
	}
	return r.Category
}

// RecordInput is the payload to create a new record. ID and timestamps are
// assigned by the store.
type RecordInput struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	StudyTime  int    `json:"study_time"`
	Category   string `json:"category"`
	Difficulty int    `json:"difficulty"`
}

// NewRecordInput returns an input with default study time and difficulty
func NewRecordInput(title string) RecordInput {
	return RecordInput{
		Title:      title,
		StudyTime:  0,
		Difficulty: 1,
	}
}

// Build creates a Record from the input with the given ID and creation time
func (x *RecordInput) Build(id RecordID, now time.Time) *Record {
	return &Record{
		ID:         id,
		Title:      x.Title,
		Content:    x.Content,
		StudyTime:  x.StudyTime,
		Category:   x.Category,
		Difficulty: x.Difficulty,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// RecordUpdate is a partial update. A nil field is left untouched.
type RecordUpdate struct {
	Title      *string `json:"title,omitempty"`
	Content    *string `json:"content,omitempty"`
	StudyTime  *int    `json:"study_time,omitempty"`
	Category   *string `json:"category,omitempty"`
	Difficulty *int    `json:"difficulty,omitempty"`
}

// IsEmpty returns true if no field is set
func (u *RecordUpdate) IsEmpty() bool {
	return u.Title == nil &&
		u.Content == nil &&
		u.StudyTime == nil &&
		u.Category == nil &&
		u.Difficulty == nil
}

// Apply writes the set fields into r and refreshes UpdatedAt
func (u *RecordUpdate) Apply(r *Record, now time.Time) {
	if u.Title != nil {
		r.Title = *u.Title
	}
	if u.Content != nil {
		r.Content = *u.Content
	}
	if u.StudyTime != nil {
		r.StudyTime = *u.StudyTime
	}
	if u.Category != nil {
		r.Category = *u.Category
	}
	if u.Difficulty != nil {
		r.Difficulty = *u.Difficulty
	}
	r.UpdatedAt = now
}

// Fields returns set fields keyed by their storage column name, in a fixed order
func (u *RecordUpdate) Fields() []Field {
	var fields []Field
	if u.Title != nil {
		fields = append(fields, Field{Name: "title", Value: *u.Title})
	}
	if u.Content != nil {
		fields = append(fields, Field{Name: "content", Value: *u.Content})
	}
	if u.StudyTime != nil {
		fields = append(fields, Field{Name: "study_time", Value: *u.StudyTime})
	}
	if u.Category != nil {
		fields = append(fields, Field{Name: "category", Value: *u.Category})
	}
	if u.Difficulty != nil {
		fields = append(fields, Field{Name: "difficulty", Value: *u.Difficulty})
	}
	return fields
}

// Field is a single column update
type Field struct {
	Name  string
	Value any
}

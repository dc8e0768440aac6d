package model

import (
	"strings"
	"time"
)

// DateLayout is the calendar-date form due dates are exchanged in.
const DateLayout = "2006-01-02"

type Task struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	OwnerID      string    `gorm:"size:64;not null;index" json:"owner_id"`
	ParentTaskID *string   `gorm:"size:36;index" json:"parent_task_id"`
	Title        string    `gorm:"not null" json:"title"`
	Description  *string   `json:"description"`
	DueDate      *string   `gorm:"size:10" json:"due_date"`
	IsCompleted  bool      `gorm:"not null;default:false" json:"is_completed"`
	CreatedAt    time.Time `json:"created_at"`
}

// IsSubtask reports whether the record points at a parent other than itself.
func (t Task) IsSubtask() bool {
	return t.ParentTaskID != nil && *t.ParentTaskID != t.ID
}

// NewTask holds the fields a caller supplies on creation; the store assigns
// ID and CreatedAt.
type NewTask struct {
	OwnerID      string
	Title        string
	Description  *string
	DueDate      *string
	ParentTaskID *string
}

// TaskDetails is the editable part of a task. Every field is written, so a
// nil Description or DueDate clears the stored value.
type TaskDetails struct {
	Title       string
	Description *string
	DueDate     *string
}

type TaskPatch struct {
	Details     *TaskDetails
	IsCompleted *bool
}

func CompletedPatch(done bool) TaskPatch {
	return TaskPatch{IsCompleted: &done}
}

func (p TaskPatch) Empty() bool {
	return p.Details == nil && p.IsCompleted == nil
}

func (p TaskPatch) Apply(t *Task) {
	if p.Details != nil {
		t.Title = p.Details.Title
		t.Description = cloneString(p.Details.Description)
		t.DueDate = cloneString(p.Details.DueDate)
	}
	if p.IsCompleted != nil {
		t.IsCompleted = *p.IsCompleted
	}
}

// Columns maps the patch onto column names for a partial update.
func (p TaskPatch) Columns() map[string]interface{} {
	cols := make(map[string]interface{})
	if p.Details != nil {
		cols["title"] = p.Details.Title
		cols["description"] = nullable(p.Details.Description)
		cols["due_date"] = nullable(p.Details.DueDate)
	}
	if p.IsCompleted != nil {
		cols["is_completed"] = *p.IsCompleted
	}
	return cols
}

// ParseDate validates s as YYYY-MM-DD and returns it without surrounding space.
func ParseDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	if _, err := time.Parse(DateLayout, s); err != nil {
		return "", err
	}
	return s, nil
}

// FormatDate renders t as a calendar date in its own location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// OptionalText trims s and turns blank text into nil.
func OptionalText(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// Clone returns a copy of t that shares no pointers with it.
func (t Task) Clone() Task {
	t.ParentTaskID = cloneString(t.ParentTaskID)
	t.Description = cloneString(t.Description)
	t.DueDate = cloneString(t.DueDate)
	return t
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func nullable(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}

// Package domain contains the core entities of the task engine: immutable
// Task and Project values, their validating constructors, and the
// recurrence rule arithmetic. Mutating operations return updated copies
// and never modify the receiver, so previous state snapshots stay valid.
package domain

import (
	"strings"
	"time"
)

const (
	dateLayout = "2006-01-02" // YYYY-MM-DD
	timeLayout = "15:04"      // HH:mm, 24h
)

// ChecklistItem is a single entry in a task's checklist.
type ChecklistItem struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	Done bool   `json:"done"`
}

// NewChecklistItem builds a checklist item from free text.
func NewChecklistItem(text string) (ChecklistItem, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ChecklistItem{}, validationErr("checklist", "item text is required")
	}
	return ChecklistItem{ID: NewChecklistItemID(), Text: trimmed}, nil
}

// Task is a single to-do item. The zero value is not valid; construct
// through NewTask or TaskFromRecord.
type Task struct {
	ID          string
	Title       string
	Description string
	Notes       string
	DueDate     string // YYYY-MM-DD, empty = no due date
	DueTime     string // HH:mm, empty = no due time
	Priority    int    // 1..4, 1 = highest
	Tags        []string
	Checklist   []ChecklistItem
	Done        bool
	Recurrence  *RecurrenceRule
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TaskParams carries the inputs for NewTask. Zero fields get defaults:
// a generated ID, priority 3, and timestamps of Now().
type TaskParams struct {
	ID          string
	Title       string
	Description string
	Notes       string
	DueDate     string
	DueTime     string
	Priority    int
	Tags        []string
	Checklist   []ChecklistItem
	Done        bool
	Recurrence  *RecurrenceRule
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewTask validates and normalizes params into a Task.
func NewTask(p TaskParams) (Task, error) {
	title := strings.TrimSpace(p.Title)
	if title == "" {
		return Task{}, validationErr("title", "title is required")
	}

	priority := p.Priority
	if priority == 0 {
		priority = 3
	}
	if priority < 1 || priority > 4 {
		return Task{}, validationErr("priority", "must be 1..4, got %d", p.Priority)
	}

	if err := validateDate(p.DueDate); err != nil {
		return Task{}, err
	}
	if err := validateTime(p.DueTime); err != nil {
		return Task{}, err
	}

	rule, err := normalizeRule(p.Recurrence)
	if err != nil {
		return Task{}, err
	}

	checklist, err := normalizeChecklist(p.Checklist)
	if err != nil {
		return Task{}, err
	}

	id := p.ID
	if id == "" {
		id = NewTaskID()
	}
	createdAt := p.CreatedAt
	if createdAt.IsZero() {
		createdAt = Now()
	}
	updatedAt := p.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = createdAt
	}

	return Task{
		ID:          id,
		Title:       title,
		Description: strings.TrimSpace(p.Description),
		Notes:       strings.TrimSpace(p.Notes),
		DueDate:     p.DueDate,
		DueTime:     p.DueTime,
		Priority:    priority,
		Tags:        normalizeTags(p.Tags),
		Checklist:   checklist,
		Done:        p.Done,
		Recurrence:  rule,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}, nil
}

func validateDate(s string) error {
	if s == "" {
		return nil
	}
	if _, err := time.Parse(dateLayout, s); err != nil {
		return validationErr("dueDate", "must be YYYY-MM-DD, got %q", s)
	}
	return nil
}

func validateTime(s string) error {
	if s == "" {
		return nil
	}
	if _, err := time.Parse(timeLayout, s); err != nil {
		return validationErr("dueTime", "must be HH:mm, got %q", s)
	}
	return nil
}

// normalizeTags trims, drops empties and collapses duplicates while
// preserving insertion order.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, tag := range tags {
		trimmed := strings.TrimSpace(tag)
		if trimmed == "" || seen[trimmed] {
			continue
		}
		seen[trimmed] = true
		out = append(out, trimmed)
	}
	return out
}

func normalizeChecklist(items []ChecklistItem) ([]ChecklistItem, error) {
	out := make([]ChecklistItem, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		text := strings.TrimSpace(item.Text)
		if text == "" {
			return nil, validationErr("checklist", "item text is required")
		}
		id := item.ID
		if id == "" {
			id = NewChecklistItemID()
		}
		if seen[id] {
			return nil, validationErr("checklist", "duplicate item id %q", id)
		}
		seen[id] = true
		out = append(out, ChecklistItem{ID: id, Text: text, Done: item.Done})
	}
	return out, nil
}

// clone copies the task including its slices so mutators never alias
// the receiver's backing arrays.
func (t Task) clone() Task {
	out := t
	out.Tags = append([]string(nil), t.Tags...)
	out.Checklist = append([]ChecklistItem(nil), t.Checklist...)
	if t.Recurrence != nil {
		rule := *t.Recurrence
		out.Recurrence = &rule
	}
	return out
}

func (t Task) touched() Task {
	t.UpdatedAt = Now()
	return t
}

// WithUpdatedAt returns a copy with an explicit update timestamp.
func (t Task) WithUpdatedAt(at time.Time) Task {
	t.UpdatedAt = at
	return t
}

// Rename returns a copy with a new title.
func (t Task) Rename(title string) (Task, error) {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return Task{}, validationErr("title", "title is required")
	}
	out := t.clone()
	out.Title = trimmed
	return out.touched(), nil
}

// SetDescription returns a copy with the description replaced.
func (t Task) SetDescription(desc string) Task {
	out := t.clone()
	out.Description = strings.TrimSpace(desc)
	return out.touched()
}

// SetNotes returns a copy with the notes replaced.
func (t Task) SetNotes(notes string) Task {
	out := t.clone()
	out.Notes = strings.TrimSpace(notes)
	return out.touched()
}

// SetDueDate returns a copy with the due date replaced. Empty clears it.
func (t Task) SetDueDate(date string) (Task, error) {
	if err := validateDate(date); err != nil {
		return Task{}, err
	}
	out := t.clone()
	out.DueDate = date
	return out.touched(), nil
}

// SetDueTime returns a copy with the due time replaced. Empty clears it.
func (t Task) SetDueTime(tm string) (Task, error) {
	if err := validateTime(tm); err != nil {
		return Task{}, err
	}
	out := t.clone()
	out.DueTime = tm
	return out.touched(), nil
}

// SetPriority returns a copy with the priority replaced.
func (t Task) SetPriority(p int) (Task, error) {
	if p < 1 || p > 4 {
		return Task{}, validationErr("priority", "must be 1..4, got %d", p)
	}
	out := t.clone()
	out.Priority = p
	return out.touched(), nil
}

// ToggleDone returns a copy with the done flag flipped.
func (t Task) ToggleDone() Task {
	out := t.clone()
	out.Done = !t.Done
	return out.touched()
}

// AddTag returns a copy with the tag appended if not already present.
// Blank tags are ignored.
func (t Task) AddTag(tag string) Task {
	trimmed := strings.TrimSpace(tag)
	if trimmed == "" {
		return t
	}
	out := t.clone()
	for _, existing := range out.Tags {
		if existing == trimmed {
			return out.touched()
		}
	}
	out.Tags = append(out.Tags, trimmed)
	return out.touched()
}

// RemoveTag returns a copy without the given tag.
func (t Task) RemoveTag(tag string) Task {
	out := t.clone()
	kept := out.Tags[:0]
	for _, existing := range out.Tags {
		if existing != tag {
			kept = append(kept, existing)
		}
	}
	out.Tags = kept
	return out.touched()
}

// AddChecklistItem returns a copy with a new checklist item appended.
func (t Task) AddChecklistItem(text string) (Task, error) {
	item, err := NewChecklistItem(text)
	if err != nil {
		return Task{}, err
	}
	out := t.clone()
	out.Checklist = append(out.Checklist, item)
	return out.touched(), nil
}

// ToggleChecklistItem returns a copy with the given item's done flag
// flipped. An unknown item id leaves the task unchanged.
func (t Task) ToggleChecklistItem(itemID string) Task {
	for i, item := range t.Checklist {
		if item.ID == itemID {
			out := t.clone()
			out.Checklist[i].Done = !item.Done
			return out.touched()
		}
	}
	return t
}

// RemoveChecklistItem returns a copy without the given item.
func (t Task) RemoveChecklistItem(itemID string) Task {
	out := t.clone()
	kept := out.Checklist[:0]
	for _, item := range out.Checklist {
		if item.ID != itemID {
			kept = append(kept, item)
		}
	}
	out.Checklist = kept
	return out.touched()
}

// SetRecurrence returns a copy with the recurrence rule replaced.
// A nil rule clears recurrence.
func (t Task) SetRecurrence(rule *RecurrenceRule) (Task, error) {
	normalized, err := normalizeRule(rule)
	if err != nil {
		return Task{}, err
	}
	out := t.clone()
	out.Recurrence = normalized
	return out.touched(), nil
}

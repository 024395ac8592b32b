package domain

import "time"

// Records are the plain persisted/exported forms of the entities. The
// round trip ToRecord -> FromRecord is lossless for every field.

const timestampLayout = time.RFC3339Nano

// TaskRecord is the wire form of a Task.
type TaskRecord struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	DueDate     *string         `json:"dueDate"`
	DueTime     *string         `json:"dueTime"`
	Priority    int             `json:"priority"`
	Notes       string          `json:"notes"`
	Tags        []string        `json:"tags"`
	Checklist   []ChecklistItem `json:"checklist"`
	Done        bool            `json:"done"`
	Recurrence  *RecurrenceRule `json:"recurrenceRule"`
	CreatedAt   string          `json:"createdAt"`
	UpdatedAt   string          `json:"updatedAt"`
}

// ProjectRecord is the wire form of a Project.
type ProjectRecord struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	TaskIDs   []string `json:"taskIds"`
	CreatedAt string   `json:"createdAt"`
	UpdatedAt string   `json:"updatedAt"`
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func fromOptional(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// ToRecord converts the task to its plain persisted form.
func (t Task) ToRecord() TaskRecord {
	return TaskRecord{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		DueDate:     optional(t.DueDate),
		DueTime:     optional(t.DueTime),
		Priority:    t.Priority,
		Notes:       t.Notes,
		Tags:        append([]string{}, t.Tags...),
		Checklist:   append([]ChecklistItem{}, t.Checklist...),
		Done:        t.Done,
		Recurrence:  t.Recurrence,
		CreatedAt:   t.CreatedAt.Format(timestampLayout),
		UpdatedAt:   t.UpdatedAt.Format(timestampLayout),
	}
}

// TaskFromRecord reconstructs a validated Task from its plain form.
func TaskFromRecord(r TaskRecord) (Task, error) {
	createdAt, err := parseTimestamp("createdAt", r.CreatedAt)
	if err != nil {
		return Task{}, err
	}
	updatedAt, err := parseTimestamp("updatedAt", r.UpdatedAt)
	if err != nil {
		return Task{}, err
	}
	return NewTask(TaskParams{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Notes:       r.Notes,
		DueDate:     fromOptional(r.DueDate),
		DueTime:     fromOptional(r.DueTime),
		Priority:    r.Priority,
		Tags:        r.Tags,
		Checklist:   r.Checklist,
		Done:        r.Done,
		Recurrence:  r.Recurrence,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	})
}

// ToRecord converts the project to its plain persisted form.
func (p Project) ToRecord() ProjectRecord {
	return ProjectRecord{
		ID:        p.ID,
		Name:      p.Name,
		TaskIDs:   append([]string{}, p.TaskIDs...),
		CreatedAt: p.CreatedAt.Format(timestampLayout),
		UpdatedAt: p.UpdatedAt.Format(timestampLayout),
	}
}

// ProjectFromRecord reconstructs a validated Project from its plain form.
func ProjectFromRecord(r ProjectRecord) (Project, error) {
	createdAt, err := parseTimestamp("createdAt", r.CreatedAt)
	if err != nil {
		return Project{}, err
	}
	updatedAt, err := parseTimestamp("updatedAt", r.UpdatedAt)
	if err != nil {
		return Project{}, err
	}
	return NewProject(ProjectParams{
		ID:        r.ID,
		Name:      r.Name,
		TaskIDs:   r.TaskIDs,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	})
}

func parseTimestamp(field, s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil // constructor fills in Now()
	}
	ts, err := time.Parse(timestampLayout, s)
	if err != nil {
		return time.Time{}, validationErr(field, "must be RFC 3339, got %q", s)
	}
	return ts, nil
}

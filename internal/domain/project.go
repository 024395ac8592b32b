package domain

import (
	"strings"
	"time"
)

// InboxID is the reserved id of the permanent default project.
const InboxID = "p_inbox"

// Project is a named, ordered container of task ids. Order is
// significant: it is the display order of the project's tasks.
type Project struct {
	ID        string
	Name      string
	TaskIDs   []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProjectParams carries the inputs for NewProject.
type ProjectParams struct {
	ID        string
	Name      string
	TaskIDs   []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewProject validates and normalizes params into a Project. Duplicate
// task ids are collapsed keeping the first occurrence.
func NewProject(p ProjectParams) (Project, error) {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return Project{}, validationErr("name", "project name is required")
	}

	id := p.ID
	if id == "" {
		id = NewProjectID()
	}
	createdAt := p.CreatedAt
	if createdAt.IsZero() {
		createdAt = Now()
	}
	updatedAt := p.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = createdAt
	}

	taskIDs := make([]string, 0, len(p.TaskIDs))
	seen := make(map[string]bool, len(p.TaskIDs))
	for _, taskID := range p.TaskIDs {
		if taskID == "" || seen[taskID] {
			continue
		}
		seen[taskID] = true
		taskIDs = append(taskIDs, taskID)
	}

	return Project{
		ID:        id,
		Name:      name,
		TaskIDs:   taskIDs,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}, nil
}

// NewInbox returns the permanent Inbox project.
func NewInbox() Project {
	inbox, _ := NewProject(ProjectParams{ID: InboxID, Name: "Inbox"})
	return inbox
}

func (p Project) clone() Project {
	out := p
	out.TaskIDs = append([]string(nil), p.TaskIDs...)
	return out
}

func (p Project) touched() Project {
	p.UpdatedAt = Now()
	return p
}

// WithUpdatedAt returns a copy with an explicit update timestamp.
func (p Project) WithUpdatedAt(at time.Time) Project {
	p.UpdatedAt = at
	return p
}

// Rename returns a copy with a new name.
func (p Project) Rename(name string) (Project, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return Project{}, validationErr("name", "project name is required")
	}
	out := p.clone()
	out.Name = trimmed
	return out.touched(), nil
}

// Contains reports whether the project references the task id.
func (p Project) Contains(taskID string) bool {
	for _, id := range p.TaskIDs {
		if id == taskID {
			return true
		}
	}
	return false
}

// WithTask returns a copy with the task id appended if absent.
func (p Project) WithTask(taskID string) Project {
	if p.Contains(taskID) {
		return p
	}
	out := p.clone()
	out.TaskIDs = append(out.TaskIDs, taskID)
	return out.touched()
}

// WithoutTask returns a copy without the task id.
func (p Project) WithoutTask(taskID string) Project {
	if !p.Contains(taskID) {
		return p
	}
	out := p.clone()
	kept := out.TaskIDs[:0]
	for _, id := range out.TaskIDs {
		if id != taskID {
			kept = append(kept, id)
		}
	}
	out.TaskIDs = kept
	return out.touched()
}

// WithOrder returns a copy with TaskIDs replaced by the given order.
// The caller is responsible for passing a valid permutation.
func (p Project) WithOrder(taskIDs []string) Project {
	out := p.clone()
	out.TaskIDs = append([]string(nil), taskIDs...)
	return out.touched()
}

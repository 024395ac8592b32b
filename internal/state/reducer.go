package state

import (
	"fmt"

	"github.com/alimkhann/odin-todo/internal/domain"
)

// Reduce computes the next state for an action. It never mutates s:
// every branch returns a new top-level state in which only the changed
// subtrees are rebuilt; untouched entities are carried over as-is so
// observers can cheaply detect what changed. A returned error means
// the action was rejected and the previous state still stands.
//
// Unrecognized actions return s unchanged.
func Reduce(s AppState, action Action) (AppState, error) {
	switch a := action.(type) {
	case Init:
		return a.State, nil

	case TaskCreated:
		params := a.Params
		if params.CreatedAt.IsZero() {
			params.CreatedAt = a.At
			params.UpdatedAt = a.At
		}
		task, err := domain.NewTask(params)
		if err != nil {
			return s, fmt.Errorf("create task: %w", err)
		}
		return s.withTaskInProject(task, a.ProjectID), nil

	case TaskUpdated:
		task, ok := s.Tasks[a.ID]
		if !ok {
			return s, nil
		}
		task, err := applyPatch(task, a.Ops)
		if err != nil {
			return s, fmt.Errorf("update task %s: %w", a.ID, err)
		}
		next := s
		next.Tasks = tasksWith(s.Tasks, task.WithUpdatedAt(a.At))
		return next, nil

	case TaskToggled:
		task, ok := s.Tasks[a.ID]
		if !ok {
			return s, nil
		}
		next := s
		next.Tasks = tasksWith(s.Tasks, task.ToggleDone().WithUpdatedAt(a.At))
		return next, nil

	case TaskReordered:
		projects, ok := updateProject(s.Projects, a.ProjectID, func(p domain.Project) domain.Project {
			return p.WithOrder(a.TaskIDs).WithUpdatedAt(a.At)
		})
		if !ok {
			return s, nil
		}
		next := s
		next.Projects = projects
		return next, nil

	case TaskMoved:
		if a.FromProjectID == a.ToProjectID {
			return s, nil
		}
		// Remove from source and add to destination in one transition
		// so the task never belongs to zero or two projects.
		projects := make([]domain.Project, len(s.Projects))
		for i, p := range s.Projects {
			switch p.ID {
			case a.FromProjectID:
				projects[i] = p.WithoutTask(a.TaskID).WithUpdatedAt(a.At)
			case a.ToProjectID:
				projects[i] = p.WithTask(a.TaskID).WithUpdatedAt(a.At)
			default:
				projects[i] = p
			}
		}
		next := s
		next.Projects = projects
		return next, nil

	case TaskDeleted:
		if _, ok := s.Tasks[a.ID]; !ok {
			return s, nil
		}
		next := s
		next.Tasks = tasksWithout(s.Tasks, a.ID)
		projects := s.Projects
		cloned := false
		for i, p := range projects {
			if p.Contains(a.ID) {
				if !cloned {
					projects = append([]domain.Project(nil), projects...)
					cloned = true
				}
				projects[i] = p.WithoutTask(a.ID)
			}
		}
		next.Projects = projects
		return next, nil

	case TaskRestored:
		task, err := domain.TaskFromRecord(a.Record)
		if err != nil {
			return s, fmt.Errorf("restore task: %w", err)
		}
		return s.withTaskInProject(task, a.ProjectID), nil

	case ProjectCreated:
		proj, err := domain.NewProject(domain.ProjectParams{
			ID:        a.ID,
			Name:      a.Name,
			CreatedAt: a.At,
			UpdatedAt: a.At,
		})
		if err != nil {
			return s, fmt.Errorf("create project: %w", err)
		}
		next := s
		next.Projects = append(append([]domain.Project(nil), s.Projects...), proj)
		return next, nil

	case ProjectRenamed:
		var renameErr error
		projects, ok := updateProject(s.Projects, a.ID, func(p domain.Project) domain.Project {
			renamed, err := p.Rename(a.Name)
			if err != nil {
				renameErr = err
				return p
			}
			return renamed.WithUpdatedAt(a.At)
		})
		if renameErr != nil {
			return s, fmt.Errorf("rename project %s: %w", a.ID, renameErr)
		}
		if !ok {
			return s, nil
		}
		next := s
		next.Projects = projects
		return next, nil

	case ProjectDeleted:
		deleted, found := s.ProjectByID(a.ID)
		if !found {
			return s, nil
		}
		projects := make([]domain.Project, 0, len(s.Projects)-1)
		for _, p := range s.Projects {
			if p.ID != a.ID {
				projects = append(projects, p)
			}
		}
		tasks := s.Tasks
		for _, taskID := range deleted.TaskIDs {
			tasks = tasksWithout(tasks, taskID)
		}
		next := s
		next.Projects = projects
		next.Tasks = tasks
		return next, nil

	case ProjectRestored:
		if _, exists := s.ProjectByID(a.Record.ID); exists {
			return s, nil
		}
		proj, err := domain.ProjectFromRecord(a.Record)
		if err != nil {
			return s, fmt.Errorf("restore project: %w", err)
		}
		tasks := s.Tasks
		for _, rec := range a.Tasks {
			task, err := domain.TaskFromRecord(rec)
			if err != nil {
				return s, fmt.Errorf("restore project %s: %w", a.Record.ID, err)
			}
			tasks = tasksWith(tasks, task)
		}
		next := s
		next.Projects = append(append([]domain.Project(nil), s.Projects...), proj)
		next.Tasks = tasks
		return next, nil

	case ViewChanged:
		next := s
		next.ActiveView = a.View
		return next, nil

	case SortChanged:
		next := s
		next.Sort = a.Sort
		return next, nil

	case TaskSelected:
		next := s
		next.SelectedTaskID = a.ID
		return next, nil

	case TaskDeselected:
		next := s
		next.SelectedTaskID = ""
		return next, nil

	default:
		return s, nil
	}
}

// withTaskInProject inserts a task into the map and appends its id to
// the target project, falling back to the Inbox when the target does
// not exist.
func (s AppState) withTaskInProject(task domain.Task, projectID string) AppState {
	target := projectID
	if _, found := s.ProjectByID(target); !found {
		target = domain.InboxID
	}
	next := s
	next.Tasks = tasksWith(s.Tasks, task)
	if projects, ok := updateProject(s.Projects, target, func(p domain.Project) domain.Project {
		return p.WithTask(task.ID).WithUpdatedAt(task.UpdatedAt)
	}); ok {
		next.Projects = projects
	}
	return next
}

// applyPatch applies each operation through the matching entity method.
// Operations the switch does not recognize are ignored.
func applyPatch(task domain.Task, ops []PatchOp) (domain.Task, error) {
	var err error
	for _, op := range ops {
		switch o := op.(type) {
		case SetTitle:
			task, err = task.Rename(o.Title)
		case SetDescription:
			task = task.SetDescription(o.Description)
		case SetNotes:
			task = task.SetNotes(o.Notes)
		case SetDueDate:
			task, err = task.SetDueDate(o.DueDate)
		case SetDueTime:
			task, err = task.SetDueTime(o.DueTime)
		case SetPriority:
			task, err = task.SetPriority(o.Priority)
		case AddTag:
			task = task.AddTag(o.Tag)
		case RemoveTag:
			task = task.RemoveTag(o.Tag)
		case AddChecklistItem:
			task, err = task.AddChecklistItem(o.Text)
		case ToggleChecklistItem:
			task = task.ToggleChecklistItem(o.ItemID)
		case RemoveChecklistItem:
			task = task.RemoveChecklistItem(o.ItemID)
		case SetRecurrence:
			task, err = task.SetRecurrence(o.Rule)
		}
		if err != nil {
			return domain.Task{}, err
		}
	}
	return task, nil
}

func tasksWith(tasks map[string]domain.Task, task domain.Task) map[string]domain.Task {
	out := make(map[string]domain.Task, len(tasks)+1)
	for id, t := range tasks {
		out[id] = t
	}
	out[task.ID] = task
	return out
}

func tasksWithout(tasks map[string]domain.Task, id string) map[string]domain.Task {
	out := make(map[string]domain.Task, len(tasks))
	for tid, t := range tasks {
		if tid != id {
			out[tid] = t
		}
	}
	return out
}

// updateProject rebuilds the project slice with fn applied to the
// matching project. The second return is false when no project matched.
func updateProject(projects []domain.Project, id string, fn func(domain.Project) domain.Project) ([]domain.Project, bool) {
	for i, p := range projects {
		if p.ID == id {
			out := append([]domain.Project(nil), projects...)
			out[i] = fn(p)
			return out, true
		}
	}
	return projects, false
}

package service

import (
	"fmt"

	"github.com/alimkhann/odin-todo/internal/domain"
	"github.com/alimkhann/odin-todo/internal/state"
)

// CreateProject creates a project and optionally makes it the active
// view. Returns the new project's id.
func (s *Service) CreateProject(name string, activate bool) (string, error) {
	action := state.NewProject(name)
	if err := s.store.Dispatch(action); err != nil {
		return "", err
	}
	s.logger.Info("project created", "project", action.ID, "name", action.Name)
	if activate {
		if err := s.store.Dispatch(state.SetActiveView(state.ProjectView(action.ID))); err != nil {
			return action.ID, err
		}
	}
	return action.ID, nil
}

// RenameProject renames a project. The Inbox keeps its name.
func (s *Service) RenameProject(id, name string) error {
	if id == domain.InboxID {
		return fmt.Errorf("rename project: %w", domain.ErrInboxProtected)
	}
	return s.store.Dispatch(state.RenameProject(id, name))
}

// DeleteProject removes a project and all its tasks, returning an undo
// that restores both from the captured snapshot. The Inbox cannot be
// deleted. If the deleted project was the active view, the view falls
// back to the Inbox.
func (s *Service) DeleteProject(id string) (undo func() error, err error) {
	if id == domain.InboxID {
		return nil, fmt.Errorf("delete project: %w", domain.ErrInboxProtected)
	}
	st := s.store.GetState()
	project, ok := st.ProjectByID(id)
	if !ok {
		return nil, fmt.Errorf("delete project %s: %w", id, domain.ErrNotFound)
	}

	record := project.ToRecord()
	tasks := make([]domain.TaskRecord, 0, len(project.TaskIDs))
	for _, taskID := range project.TaskIDs {
		if task, ok := st.Tasks[taskID]; ok {
			tasks = append(tasks, task.ToRecord())
		}
	}

	if err := s.store.Dispatch(state.DeleteProject(id)); err != nil {
		return nil, err
	}
	s.logger.Info("project deleted", "project", id, "tasks", len(tasks))

	if view := st.ActiveView; view.Type == state.ViewProject && view.ProjectID == id {
		if err := s.store.Dispatch(state.SetActiveView(state.InboxView())); err != nil {
			return nil, err
		}
	}
	return func() error {
		return s.store.Dispatch(state.RestoreProject(record, tasks))
	}, nil
}

package service

import (
	"fmt"

	"github.com/alimkhann/odin-todo/internal/domain"
	"github.com/alimkhann/odin-todo/internal/state"
)

// CreateTask creates a task in the given project (empty or unknown id
// lands in the Inbox) and returns the new task's id.
func (s *Service) CreateTask(params domain.TaskParams, projectID string) (string, error) {
	action := state.CreateTask(params, projectID)
	if err := s.store.Dispatch(action); err != nil {
		return "", err
	}
	s.logger.Info("task created", "task", action.Params.ID, "project", action.ProjectID)
	return action.Params.ID, nil
}

// UpdateTask applies patch operations to a task.
func (s *Service) UpdateTask(id string, ops ...state.PatchOp) error {
	return s.store.Dispatch(state.UpdateTask(id, ops...))
}

// ToggleTask flips a task's done flag. Completing a recurring task
// with a due date also spawns its next occurrence into the same
// project. The spawn is a second dispatch: a listener may observe the
// state between toggle and spawn, which is fine since both states are
// valid.
func (s *Service) ToggleTask(id string) error {
	task, ok := s.store.GetState().Tasks[id]
	if !ok {
		return fmt.Errorf("toggle task %s: %w", id, domain.ErrNotFound)
	}
	if err := s.store.Dispatch(state.ToggleTask(id)); err != nil {
		return err
	}
	completing := !task.Done
	if !completing || task.Recurrence == nil || task.DueDate == "" {
		return nil
	}

	next, err := domain.SpawnNext(task)
	if err != nil {
		// The toggle stands; a malformed rule only costs the spawn.
		s.logger.Warn("recurrence spawn failed", "task", id, "err", err)
		return nil
	}
	projectID := domain.InboxID
	if p, ok := s.store.GetState().ProjectOf(id); ok {
		projectID = p.ID
	}
	if err := s.store.Dispatch(state.CreateTask(taskParams(next), projectID)); err != nil {
		s.logger.Warn("recurrence spawn rejected", "task", id, "err", err)
		return nil
	}
	s.logger.Info("recurring task spawned", "task", id, "next", next.ID, "due", next.DueDate)
	return nil
}

// DeleteTask removes a task and returns an undo that restores it, with
// its project membership, from the captured snapshot.
func (s *Service) DeleteTask(id string) (undo func() error, err error) {
	st := s.store.GetState()
	task, ok := st.Tasks[id]
	if !ok {
		return nil, fmt.Errorf("delete task %s: %w", id, domain.ErrNotFound)
	}
	record := task.ToRecord()
	projectID := domain.InboxID
	if p, ok := st.ProjectOf(id); ok {
		projectID = p.ID
	}

	if err := s.store.Dispatch(state.DeleteTask(id)); err != nil {
		return nil, err
	}
	return func() error {
		return s.store.Dispatch(state.RestoreTask(record, projectID))
	}, nil
}

// MoveTask moves a task to another project, resolving the source from
// current membership.
func (s *Service) MoveTask(taskID, toProjectID string) error {
	st := s.store.GetState()
	from, ok := st.ProjectOf(taskID)
	if !ok {
		return fmt.Errorf("move task %s: %w", taskID, domain.ErrNotFound)
	}
	if _, ok := st.ProjectByID(toProjectID); !ok {
		return fmt.Errorf("move task to %s: %w", toProjectID, domain.ErrNotFound)
	}
	return s.store.Dispatch(state.MoveTask(taskID, from.ID, toProjectID))
}

// ReorderTasks replaces a project's manual task order.
func (s *Service) ReorderTasks(projectID string, taskIDs []string) error {
	return s.store.Dispatch(state.ReorderTasks(projectID, taskIDs))
}

// taskParams rebuilds constructor params from an already-validated
// task, for re-creating it through the reducer.
func taskParams(t domain.Task) domain.TaskParams {
	return domain.TaskParams{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Notes:       t.Notes,
		DueDate:     t.DueDate,
		DueTime:     t.DueTime,
		Priority:    t.Priority,
		Tags:        t.Tags,
		Checklist:   t.Checklist,
		Done:        t.Done,
		Recurrence:  t.Recurrence,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

package state

import (
	"time"

	"github.com/alimkhann/odin-todo/internal/domain"
)

// Action is a tagged command consumed by the reducer. The set is
// closed: only the types in this file implement it.
//
// Factories stamp generated ids and the action timestamp so the
// reducer itself stays deterministic: reducing the same (state, action)
// twice yields deeply equal results.
type Action interface{ isAction() }

type Init struct{ State AppState }

type TaskCreated struct {
	Params    domain.TaskParams
	ProjectID string // target project; unknown ids fall back to Inbox
	At        time.Time
}

type TaskUpdated struct {
	ID  string
	Ops []PatchOp
	At  time.Time
}

type TaskToggled struct {
	ID string
	At time.Time
}

type TaskReordered struct {
	ProjectID string
	TaskIDs   []string
	At        time.Time
}

type TaskMoved struct {
	TaskID        string
	FromProjectID string
	ToProjectID   string
	At            time.Time
}

type TaskDeleted struct{ ID string }

type TaskRestored struct {
	Record    domain.TaskRecord
	ProjectID string
	At        time.Time
}

type ProjectCreated struct {
	ID   string
	Name string
	At   time.Time
}

type ProjectRenamed struct {
	ID   string
	Name string
	At   time.Time
}

type ProjectDeleted struct{ ID string }

type ProjectRestored struct {
	Record domain.ProjectRecord
	Tasks  []domain.TaskRecord
}

type ViewChanged struct{ View View }
type SortChanged struct{ Sort SortMode }
type TaskSelected struct{ ID string }
type TaskDeselected struct{}

func (Init) isAction()            {}
func (TaskCreated) isAction()     {}
func (TaskUpdated) isAction()     {}
func (TaskToggled) isAction()     {}
func (TaskReordered) isAction()   {}
func (TaskMoved) isAction()       {}
func (TaskDeleted) isAction()     {}
func (TaskRestored) isAction()    {}
func (ProjectCreated) isAction()  {}
func (ProjectRenamed) isAction()  {}
func (ProjectDeleted) isAction()  {}
func (ProjectRestored) isAction() {}
func (ViewChanged) isAction()     {}
func (SortChanged) isAction()     {}
func (TaskSelected) isAction()    {}
func (TaskDeselected) isAction()  {}

// PatchOp is one field update applied by the TaskUpdated reducer
// branch. The set is closed; there is no reflective dispatch.
type PatchOp interface{ isPatchOp() }

type SetTitle struct{ Title string }
type SetDescription struct{ Description string }
type SetNotes struct{ Notes string }
type SetDueDate struct{ DueDate string } // empty clears
type SetDueTime struct{ DueTime string } // empty clears
type SetPriority struct{ Priority int }
type AddTag struct{ Tag string }
type RemoveTag struct{ Tag string }
type AddChecklistItem struct{ Text string }
type ToggleChecklistItem struct{ ItemID string }
type RemoveChecklistItem struct{ ItemID string }
type SetRecurrence struct{ Rule *domain.RecurrenceRule } // nil clears

func (SetTitle) isPatchOp()            {}
func (SetDescription) isPatchOp()      {}
func (SetNotes) isPatchOp()            {}
func (SetDueDate) isPatchOp()          {}
func (SetDueTime) isPatchOp()          {}
func (SetPriority) isPatchOp()         {}
func (AddTag) isPatchOp()              {}
func (RemoveTag) isPatchOp()           {}
func (AddChecklistItem) isPatchOp()    {}
func (ToggleChecklistItem) isPatchOp() {}
func (RemoveChecklistItem) isPatchOp() {}
func (SetRecurrence) isPatchOp()       {}

// Action factories. These validate nothing beyond shape; business
// validation happens in the entity constructors invoked by the reducer.

// CreateTask builds a TaskCreated action, stamping a task id if the
// params carry none.
func CreateTask(params domain.TaskParams, projectID string) TaskCreated {
	if params.ID == "" {
		params.ID = domain.NewTaskID()
	}
	return TaskCreated{Params: params, ProjectID: projectID, At: domain.Now()}
}

// UpdateTask builds a TaskUpdated action from patch operations.
func UpdateTask(id string, ops ...PatchOp) TaskUpdated {
	return TaskUpdated{ID: id, Ops: ops, At: domain.Now()}
}

// ToggleTask builds a TaskToggled action.
func ToggleTask(id string) TaskToggled {
	return TaskToggled{ID: id, At: domain.Now()}
}

// ReorderTasks builds a TaskReordered action.
func ReorderTasks(projectID string, taskIDs []string) TaskReordered {
	return TaskReordered{ProjectID: projectID, TaskIDs: taskIDs, At: domain.Now()}
}

// MoveTask builds a TaskMoved action. The reducer removes the task
// from the source and adds it to the destination in one transition.
func MoveTask(taskID, fromProjectID, toProjectID string) TaskMoved {
	return TaskMoved{TaskID: taskID, FromProjectID: fromProjectID, ToProjectID: toProjectID, At: domain.Now()}
}

// DeleteTask builds a TaskDeleted action.
func DeleteTask(id string) TaskDeleted {
	return TaskDeleted{ID: id}
}

// RestoreTask builds a TaskRestored action from a serialized record,
// used for undo.
func RestoreTask(record domain.TaskRecord, projectID string) TaskRestored {
	return TaskRestored{Record: record, ProjectID: projectID, At: domain.Now()}
}

// NewProject builds a ProjectCreated action with a fresh project id.
func NewProject(name string) ProjectCreated {
	return ProjectCreated{ID: domain.NewProjectID(), Name: name, At: domain.Now()}
}

// RenameProject builds a ProjectRenamed action.
func RenameProject(id, name string) ProjectRenamed {
	return ProjectRenamed{ID: id, Name: name, At: domain.Now()}
}

// DeleteProject builds a ProjectDeleted action. Guarding the Inbox is
// the caller's responsibility (see service.DeleteProject).
func DeleteProject(id string) ProjectDeleted {
	return ProjectDeleted{ID: id}
}

// RestoreProject builds a ProjectRestored action from serialized
// records, used for undo.
func RestoreProject(record domain.ProjectRecord, tasks []domain.TaskRecord) ProjectRestored {
	return ProjectRestored{Record: record, Tasks: tasks}
}

// SetActiveView builds a ViewChanged action.
func SetActiveView(v View) ViewChanged { return ViewChanged{View: v} }

// SetSort builds a SortChanged action.
func SetSort(mode SortMode) SortChanged { return SortChanged{Sort: mode} }

// SelectTask builds a TaskSelected action.
func SelectTask(id string) TaskSelected { return TaskSelected{ID: id} }

// DeselectTask builds a TaskDeselected action.
func DeselectTask() TaskDeselected { return TaskDeselected{} }

// InitFrom builds an Init action. The payload must already be migrated
// and rehydrated.
func InitFrom(s AppState) Init { return Init{State: s} }
